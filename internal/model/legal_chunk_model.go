package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type LegalChunk struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroLoi   string    `gorm:"type:varchar(100);index"`
	NumeroChunk int       `gorm:"default:0"`
	TotalChunks int       `gorm:"default:0"`
	Titre       string    `gorm:"type:text"`
	URL         string    `gorm:"type:text"`
	Contenu     string    `gorm:"type:text"`
	DateLoi     string    `gorm:"type:varchar(50)"`
	TypeContenu string    `gorm:"type:varchar(50)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (LegalChunk) TableName() string {
	return "legal_chunks"
}

type ChunkEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LegalChunkId   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1024)"` // mistral-embed uses 1024 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}
