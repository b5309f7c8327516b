package dto

import (
	"github.com/google/uuid"
)

// PublishEmbedChunkMessage is the work-queue payload asking the consumer
// to (re)embed one legal chunk.
type PublishEmbedChunkMessage struct {
	LegalChunkId uuid.UUID `json:"legal_chunk_id"`
}

// ChunkFileEntry mirrors one record of the ingestion JSON file.
type ChunkFileEntry struct {
	NumeroLoi   string `json:"numero_loi"`
	NumeroChunk int    `json:"numero_chunk"`
	TotalChunks int    `json:"total_chunks"`
	Titre       string `json:"titre"`
	URL         string `json:"url"`
	Contenu     string `json:"contenu"`
	DateLoi     string `json:"date_loi"`
	TypeContenu string `json:"type_contenu"`
}

type IngestResponse struct {
	ChunksCreated int `json:"chunks_created"`
	Published     int `json:"published"`
}
