package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-legalchat-be/internal/dto"
	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/repository/unitofwork"
	"ai-legalchat-be/pkg/events"
	pkgNats "ai-legalchat-be/pkg/nats"

	"github.com/google/uuid"
)

// IIngestService loads legal chunks into the index. Each persisted chunk
// gets an embedding job on the work queue; the vector rows appear once the
// consumer has processed them.
type IIngestService interface {
	IngestChunks(ctx context.Context, entries []dto.ChunkFileEntry) (*dto.IngestResponse, error)
}

type ingestService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
}

func NewIngestService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
) IIngestService {
	return &ingestService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *ingestService) IngestChunks(ctx context.Context, entries []dto.ChunkFileEntry) (*dto.IngestResponse, error) {
	if len(entries) == 0 {
		return &dto.IngestResponse{}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chunks := make([]*entity.LegalChunk, 0, len(entries))
	for _, entry := range entries {
		chunks = append(chunks, &entity.LegalChunk{
			Id:          uuid.New(),
			NumeroLoi:   entry.NumeroLoi,
			NumeroChunk: entry.NumeroChunk,
			TotalChunks: entry.TotalChunks,
			Titre:       entry.Titre,
			URL:         entry.URL,
			Contenu:     entry.Contenu,
			DateLoi:     entry.DateLoi,
			TypeContenu: entry.TypeContenu,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.LegalChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	published := 0
	for _, chunk := range chunks {
		payload := dto.PublishEmbedChunkMessage{LegalChunkId: chunk.Id}
		payloadJson, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("[WARN] Failed to marshal embed message for chunk %s: %v\n", chunk.Id, err)
			continue
		}
		if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
			fmt.Printf("[WARN] Failed to publish embed message for chunk %s: %v\n", chunk.Id, err)
			continue
		}
		published++
	}

	if s.eventPublisher != nil {
		byLoi := make(map[string]int)
		for _, chunk := range chunks {
			byLoi[chunk.NumeroLoi]++
		}
		for numeroLoi, count := range byLoi {
			event := events.NewChunksIngestedEvent(numeroLoi, count)
			if err := s.eventPublisher.Publish(ctx, event); err != nil {
				fmt.Printf("[WARN] Failed to publish CHUNKS_INGESTED event: %v\n", err)
			}
		}
	}

	return &dto.IngestResponse{
		ChunksCreated: len(chunks),
		Published:     published,
	}, nil
}
