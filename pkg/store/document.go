package store

// Document represents one retrieved legal text chunk for the RAG system.
// Produced fresh per chat turn, never persisted directly.
type Document struct {
	ID       string                 `json:"id"`
	Rank     int                    `json:"rank"`
	Score    float64                `json:"score"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Source is one deduplicated citation extracted from document metadata.
type Source struct {
	URL       string `json:"url"`
	Titre     string `json:"titre"`
	NumeroLoi string `json:"numero_loi"`
}

// Metadata keys used by the legal chunk index.
const (
	MetaURL       = "url"
	MetaTitre     = "titre"
	MetaNumeroLoi = "numero_loi"
	MetaContenu   = "contenu"
)
