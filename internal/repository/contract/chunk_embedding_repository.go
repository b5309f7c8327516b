package contract

import (
	"context"

	"ai-legalchat-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredChunkEmbedding pairs a vector-search hit with its cosine
// similarity and the legal chunk it indexes.
type ScoredChunkEmbedding struct {
	Embedding  *entity.ChunkEmbedding
	Chunk      *entity.LegalChunk
	Similarity float64
}

type ChunkEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ChunkEmbedding) error
	DeleteByLegalChunkId(ctx context.Context, chunkId uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	// SearchSimilarWithScore runs a cosine-distance search over the
	// chunk_embeddings index and hydrates the owning legal chunks.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredChunkEmbedding, error)
}
