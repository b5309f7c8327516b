package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-legalchat-be/internal/constant"
	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/internal/repository/specification"
	"ai-legalchat-be/internal/repository/unitofwork"
	"ai-legalchat-be/pkg/database"
	"ai-legalchat-be/pkg/rag/history"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ConversationRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Chunk Embedding Repository", func(t *testing.T) {
		count, err := uow.ChunkEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ChunkEmbedding count: %d", count)
	})

	t.Run("Check Conversation Append And Paging", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now()

		userId := uuid.New()
		user := &entity.User{
			Id:        userId,
			Email:     "test-integration-" + uuid.New().String() + "@example.com",
			FullName:  "Integration Test User",
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		sessionId := uuid.New()
		store := history.NewStore(uowFactory)

		conv, err := store.EnsureConversation(ctx, sessionId, userId)
		assert.NoError(t, err)
		assert.NotNil(t, conv)

		for i := 0; i < 7; i++ {
			role := constant.ChatMessageRoleUser
			if i%2 == 1 {
				role = constant.ChatMessageRoleAssistant
			}
			err := store.Append(ctx, sessionId, role, "message", nil)
			assert.NoError(t, err)
		}

		refreshed, err := uow.ConversationRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
		assert.NoError(t, err)
		assert.Equal(t, 7, refreshed.MessageCount)

		// Page 1 holds the newest window.
		page, err := store.GetPage(ctx, sessionId, 1, constant.HistoryPageSize)
		assert.NoError(t, err)
		assert.Len(t, page.Messages, constant.HistoryPageSize)
		assert.Equal(t, 2, page.Messages[0].Position)
		assert.False(t, page.HasNewer)
		assert.True(t, page.HasOlder)

		recent, err := store.GetRecent(ctx, sessionId, constant.HistoryWindow)
		assert.NoError(t, err)
		assert.Len(t, recent, constant.HistoryWindow)
		assert.Equal(t, 6, recent[len(recent)-1].Position)

		// Cleanup
		err = store.Clear(ctx, sessionId)
		assert.NoError(t, err)
		gormDB.Exec("DELETE FROM conversations WHERE session_id = ?", sessionId)
		gormDB.Exec("DELETE FROM users WHERE id = ?", userId)
	})
}
