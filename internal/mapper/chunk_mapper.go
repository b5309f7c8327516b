package mapper

import (
	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(c *model.LegalChunk) *entity.LegalChunk {
	if c == nil {
		return nil
	}
	return &entity.LegalChunk{
		Id:          c.Id,
		NumeroLoi:   c.NumeroLoi,
		NumeroChunk: c.NumeroChunk,
		TotalChunks: c.TotalChunks,
		Titre:       c.Titre,
		URL:         c.URL,
		Contenu:     c.Contenu,
		DateLoi:     c.DateLoi,
		TypeContenu: c.TypeContenu,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *ChunkMapper) ToModel(c *entity.LegalChunk) *model.LegalChunk {
	if c == nil {
		return nil
	}
	return &model.LegalChunk{
		Id:          c.Id,
		NumeroLoi:   c.NumeroLoi,
		NumeroChunk: c.NumeroChunk,
		TotalChunks: c.TotalChunks,
		Titre:       c.Titre,
		URL:         c.URL,
		Contenu:     c.Contenu,
		DateLoi:     c.DateLoi,
		TypeContenu: c.TypeContenu,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *ChunkMapper) EmbeddingToEntity(e *model.ChunkEmbedding) *entity.ChunkEmbedding {
	if e == nil {
		return nil
	}
	return &entity.ChunkEmbedding{
		Id:             e.Id,
		LegalChunkId:   e.LegalChunkId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (m *ChunkMapper) EmbeddingToModel(e *entity.ChunkEmbedding) *model.ChunkEmbedding {
	if e == nil {
		return nil
	}
	return &model.ChunkEmbedding{
		Id:             e.Id,
		LegalChunkId:   e.LegalChunkId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
