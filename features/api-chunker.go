package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds chunker settings
type Config struct {
	Port         string
	ChunkSize    int
	ChunkOverlap int
	DebugMode    bool
}

// Request / response structures
type ChunkRequest struct {
	NumeroLoi   string `json:"numero_loi"`
	Titre       string `json:"titre"`
	URL         string `json:"url"`
	DateLoi     string `json:"date_loi"`
	TypeContenu string `json:"type_contenu"`
	Texte       string `json:"texte"`
}

type ChunkEntry struct {
	NumeroLoi   string `json:"numero_loi"`
	NumeroChunk int    `json:"numero_chunk"`
	TotalChunks int    `json:"total_chunks"`
	Titre       string `json:"titre"`
	URL         string `json:"url"`
	Contenu     string `json:"contenu"`
	DateLoi     string `json:"date_loi"`
	TypeContenu string `json:"type_contenu"`
}

type ChunkResponse struct {
	NumeroLoi string       `json:"numero_loi"`
	Chunks    []ChunkEntry `json:"chunks"`
}

// splitText splits a law text into overlapping chunks on paragraph
// boundaries, falling back to a hard cut for oversized paragraphs.
func splitText(text string, size, overlap int) []string {
	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var current strings.Builder

	flush := func() {
		trimmed := strings.TrimSpace(current.String())
		if trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current.Reset()
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		// Hard cut for a single paragraph longer than the chunk size
		for len(p) > size {
			flush()
			chunks = append(chunks, strings.TrimSpace(p[:size]))
			cut := size - overlap
			if cut <= 0 {
				cut = size
			}
			p = p[cut:]
		}

		if current.Len()+len(p)+2 > size {
			flush()
			// Carry the tail of the previous chunk as overlap
			if overlap > 0 && len(chunks) > 0 {
				prev := chunks[len(chunks)-1]
				if len(prev) > overlap {
					prev = prev[len(prev)-overlap:]
				}
				current.WriteString(prev)
				current.WriteString("\n\n")
			}
		}
		current.WriteString(p)
		current.WriteString("\n\n")
	}
	flush()

	return chunks
}

func chunkHandler(config Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ChunkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.NumeroLoi == "" || req.Texte == "" {
			http.Error(w, "numero_loi and texte are required", http.StatusBadRequest)
			return
		}

		start := time.Now()
		pieces := splitText(req.Texte, config.ChunkSize, config.ChunkOverlap)

		entries := make([]ChunkEntry, 0, len(pieces))
		for i, piece := range pieces {
			entries = append(entries, ChunkEntry{
				NumeroLoi:   req.NumeroLoi,
				NumeroChunk: i + 1,
				TotalChunks: len(pieces),
				Titre:       req.Titre,
				URL:         req.URL,
				Contenu:     piece,
				DateLoi:     req.DateLoi,
				TypeContenu: req.TypeContenu,
			})
		}

		if config.DebugMode {
			log.Printf("Chunked %s: %d chars -> %d chunks in %s",
				req.NumeroLoi, len(req.Texte), len(entries), time.Since(start))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChunkResponse{
			NumeroLoi: req.NumeroLoi,
			Chunks:    entries,
		})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok"}`)
}

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	config := Config{
		Port:         getEnv("CHUNKER_PORT", "3100"),
		ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1500),
		ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),
		DebugMode:    os.Getenv("DEBUG_MODE") == "true",
	}

	http.HandleFunc("/api/chunk", corsMiddleware(chunkHandler(config)))
	http.HandleFunc("/health", healthHandler)

	log.Printf("Chunker prototype listening on :%s (size=%d overlap=%d)",
		config.Port, config.ChunkSize, config.ChunkOverlap)
	log.Fatal(http.ListenAndServe(":"+config.Port, nil))
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}
