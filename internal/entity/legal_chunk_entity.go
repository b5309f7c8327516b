package entity

import (
	"time"

	"github.com/google/uuid"
)

// LegalChunk is one indexed fragment of a Beninese legal text.
type LegalChunk struct {
	Id          uuid.UUID
	NumeroLoi   string
	NumeroChunk int
	TotalChunks int
	Titre       string
	URL         string
	Contenu     string
	DateLoi     string
	TypeContenu string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChunkEmbedding is the vector-index row for one legal chunk.
type ChunkEmbedding struct {
	Id             uuid.UUID
	LegalChunkId   uuid.UUID
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
