package implementation

import (
	"context"

	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/mapper"
	"ai-legalchat-be/internal/model"
	"ai-legalchat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChunkEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewChunkEmbeddingRepository(db *gorm.DB) contract.ChunkEmbeddingRepository {
	return &ChunkEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *ChunkEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ChunkEmbedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *ChunkEmbeddingRepositoryImpl) DeleteByLegalChunkId(ctx context.Context, chunkId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("legal_chunk_id = ?", chunkId).Delete(&model.ChunkEmbedding{}).Error
}

func (r *ChunkEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ChunkEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore uses pgvector cosine distance; similarity is
// 1 - (embedding_value <=> query_vector).
func (r *ChunkEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredChunkEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ChunkEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("chunk_embeddings").
		Select("chunk_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	// Hydrate the owning chunks in one query.
	chunkIds := make([]uuid.UUID, len(results))
	for i, res := range results {
		chunkIds[i] = res.LegalChunkId
	}
	var chunkModels []*model.LegalChunk
	if len(chunkIds) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", chunkIds).Find(&chunkModels).Error; err != nil {
			return nil, err
		}
	}
	chunksById := make(map[uuid.UUID]*entity.LegalChunk, len(chunkModels))
	for _, cm := range chunkModels {
		chunksById[cm.Id] = r.mapper.ToEntity(cm)
	}

	scored := make([]*contract.ScoredChunkEmbedding, len(results))
	for i, res := range results {
		e := res.ChunkEmbedding
		scored[i] = &contract.ScoredChunkEmbedding{
			Embedding:  r.mapper.EmbeddingToEntity(&e),
			Chunk:      chunksById[res.LegalChunkId],
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
