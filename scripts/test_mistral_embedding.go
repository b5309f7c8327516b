//go:build ignore

package main

import (
	"ai-legalchat-be/internal/config"
	"ai-legalchat-be/pkg/embedding"
	"fmt"
	"log"
)

func main() {
	// 1. Load Config
	cfg := config.Load()
	fmt.Printf("Loaded Config > Embedding Provider: %s\n", cfg.Ai.EmbeddingProvider)
	fmt.Printf("Loaded Config > Embedding Model: %s\n", cfg.Ai.EmbeddingModel)

	// 2. Initialize Mistral Provider explicitly for testing (ignoring main provider for now)
	provider := embedding.NewMistralProvider(cfg.Ai.MistralAPIKey, cfg.Ai.EmbeddingModel)

	// 3. Test Text
	text := "Toute personne a droit à un procès équitable devant les juridictions béninoises."
	fmt.Printf("\nGenerating embedding for: \"%s\"\n", text)

	// 4. Generate
	resp, err := provider.Generate(text, "RETRIEVAL_QUERY")
	if err != nil {
		log.Fatalf("Error generating embedding: %v", err)
	}

	// 5. Inspect Result
	dims := len(resp.Embedding.Values)
	fmt.Printf("Success! Generated Embedding Dimensions: %d\n", dims)

	if dims > 5 {
		fmt.Printf("First 5 values: %v...\n", resp.Embedding.Values[:5])
	}

	// 6. Validation
	if dims != 1024 {
		log.Printf("WARNING: Expected 1024 dimensions for mistral-embed, got %d. Check the pgvector column size before ingesting.", dims)
	} else {
		fmt.Println("Dimension check passed (1024). Safe to ingest.")
	}
}
