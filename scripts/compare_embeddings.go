//go:build ignore

package main

import (
	"ai-legalchat-be/internal/config"
	"ai-legalchat-be/pkg/embedding"
	"fmt"
	"log"
	"math"
)

// CosineSimilarity calculates similarity between two vectors
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func main() {
	cfg := config.Load()

	// 1. Initialize Providers
	fmt.Println("--- Initializing Providers ---")
	mistral := embedding.NewMistralProvider(cfg.Ai.MistralAPIKey, "mistral-embed")
	ollama := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, "nomic-embed-text")

	// 2. Define Test Cases
	text1 := "Le salarié licencié sans motif légitime a droit à des dommages-intérêts" // Original
	text2 := "Un travailleur renvoyé abusivement peut réclamer une indemnisation"      // Semantically similar
	text3 := "Le mariage est célébré publiquement devant l'officier de l'état civil"   // Unrelated

	providers := map[string]embedding.EmbeddingProvider{
		"Mistral": mistral,
		"Ollama":  ollama,
	}

	for name, p := range providers {
		fmt.Printf("\n--- Testing %s ---\n", name)

		e1, err := p.Generate(text1, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("%s failed on text1: %v (skipping)", name, err)
			continue
		}
		e2, err := p.Generate(text2, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("%s failed on text2: %v (skipping)", name, err)
			continue
		}
		e3, err := p.Generate(text3, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("%s failed on text3: %v (skipping)", name, err)
			continue
		}

		simRelated := CosineSimilarity(e1.Embedding.Values, e2.Embedding.Values)
		simUnrelated := CosineSimilarity(e1.Embedding.Values, e3.Embedding.Values)

		fmt.Printf("Dimensions: %d\n", len(e1.Embedding.Values))
		fmt.Printf("Similarity (licenciement vs indemnisation): %.4f\n", simRelated)
		fmt.Printf("Similarity (licenciement vs mariage):       %.4f\n", simUnrelated)

		if simRelated > simUnrelated {
			fmt.Println("Result: OK, related pair scores higher")
		} else {
			fmt.Println("Result: SUSPICIOUS, unrelated pair scores higher")
		}
	}
}
