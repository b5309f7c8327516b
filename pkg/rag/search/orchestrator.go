package search

import (
	"context"
	"fmt"
	"log"

	"ai-legalchat-be/internal/repository/contract"
	"ai-legalchat-be/internal/repository/unitofwork"
	"ai-legalchat-be/pkg/embedding"
	"ai-legalchat-be/pkg/store"
)

// Searcher retrieves the k most similar legal chunks for a query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]store.Document, error)
}

// Orchestrator embeds the query and runs a cosine search over the
// chunk_embeddings index.
type Orchestrator struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            *log.Logger
}

var _ Searcher = &Orchestrator{}

// NewOrchestrator creates a new search orchestrator
func NewOrchestrator(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

// Search runs vector retrieval and maps hits to documents ranked by
// similarity. Rank is 0-based in result order.
func (o *Orchestrator) Search(ctx context.Context, query string, k int) ([]store.Document, error) {
	embeddingRes, err := o.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := o.uowFactory.NewUnitOfWork(ctx)
	scoredResults, err := uow.ChunkEmbeddingRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		k,
	)
	if err != nil {
		o.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, err
	}

	o.logger.Printf("[DEBUG] Raw search results: %d chunks", len(scoredResults))

	return mapToDocuments(scoredResults), nil
}

func mapToDocuments(results []*contract.ScoredChunkEmbedding) []store.Document {
	documents := make([]store.Document, 0, len(results))
	for i, res := range results {
		doc := store.Document{
			ID:       res.Embedding.Id.String(),
			Rank:     i,
			Score:    res.Similarity,
			Metadata: map[string]interface{}{},
		}
		if res.Chunk != nil {
			doc.Text = res.Chunk.Contenu
			doc.Metadata[store.MetaURL] = res.Chunk.URL
			doc.Metadata[store.MetaTitre] = res.Chunk.Titre
			doc.Metadata[store.MetaNumeroLoi] = res.Chunk.NumeroLoi
			doc.Metadata[store.MetaContenu] = res.Chunk.Contenu
		}
		documents = append(documents, doc)
	}
	return documents
}
