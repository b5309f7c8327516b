package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-legalchat-be/internal/dto"
	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/repository/specification"
	"ai-legalchat-be/internal/repository/unitofwork"
	"ai-legalchat-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedChunkMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embedding for LegalChunkId: %s", payload.LegalChunkId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chunk, err := uow.LegalChunkRepository().FindOne(ctx, specification.ByID{ID: payload.LegalChunkId})
	if err != nil {
		log.Printf("[ERROR] Failed to get chunk %s: %v", payload.LegalChunkId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if chunk == nil {
		log.Printf("[ERROR] Chunk not found: %s", payload.LegalChunkId)
		msg.Ack() // Chunk deleted? Ack.
		return
	}

	document := buildChunkDocument(chunk)

	res, err := cs.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for chunk %s: %v", chunk.Id, err)
		msg.Nack()
		return
	}

	newEmbedding := &entity.ChunkEmbedding{
		Id:             uuid.New(),
		LegalChunkId:   chunk.Id,
		Document:       document,
		EmbeddingValue: res.Embedding.Values,
		CreatedAt:      time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ChunkEmbeddingRepository().DeleteByLegalChunkId(ctx, chunk.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embedding: %v", err)
		msg.Nack()
		return
	}

	if err := uow.ChunkEmbeddingRepository().Create(ctx, newEmbedding); err != nil {
		log.Printf("[ERROR] Failed to create embedding: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Chunk embedded: %s (loi %s, chunk %d/%d)",
		chunk.Id, chunk.NumeroLoi, chunk.NumeroChunk, chunk.TotalChunks)
	msg.Ack()
}

// buildChunkDocument frames the chunk text with its legal identifiers so
// the embedding carries the law reference, not just the prose.
func buildChunkDocument(chunk *entity.LegalChunk) string {
	return fmt.Sprintf(`Loi: %s
Titre: %s
Date: %s

%s`,
		chunk.NumeroLoi,
		chunk.Titre,
		chunk.DateLoi,
		chunk.Contenu,
	)
}
