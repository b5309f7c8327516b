package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-legalchat-be/internal/config"
	"ai-legalchat-be/internal/controller"
	"ai-legalchat-be/internal/pkg/logger"
	"ai-legalchat-be/internal/pkg/mailer"
	"ai-legalchat-be/internal/pkg/serverutils"
	"ai-legalchat-be/internal/repository/memory"
	"ai-legalchat-be/internal/repository/unitofwork"
	"ai-legalchat-be/internal/service"
	"ai-legalchat-be/pkg/cancel"
	"ai-legalchat-be/pkg/embedding"
	"ai-legalchat-be/pkg/llm/factory"
	pkgNats "ai-legalchat-be/pkg/nats"
	"ai-legalchat-be/pkg/rag/response"
	"ai-legalchat-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	OAuthController controller.IOAuthController
	ChatController  controller.IChatController

	// Request guard shared by protected route groups
	Guard fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Ingestion (Exposed for cmd/ingest)
	IngestService service.IIngestService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewMistralProvider(cfg.Ai.MistralAPIKey, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: MISTRAL (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.MistralAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	sessionCache := memory.NewSessionCache()
	registry := cancel.NewRegistry()

	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisReady := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (search cache disabled)", err)
		redisReady = false
	}

	// 5. Retrieval components
	ragLogger := log.New(os.Stdout, "[RAG] ", log.LstdFlags)

	var searcher search.Searcher = search.NewOrchestrator(uowFactory, embeddingProvider, ragLogger)
	if redisReady {
		searcher = search.NewCachedSearcher(searcher, rdb, ragLogger)
	}
	generator := response.NewGenerator(llmProvider, ragLogger)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ai.EmbedChunkTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EmbedChunkTopic,
		uowFactory,
		embeddingProvider,
	)
	ingestService := service.NewIngestService(uowFactory, publisherService, natsPub)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, sessionCache, cfg.Auth)
	oauthService := service.NewOAuthService(uowFactory, sessionCache, cfg.Auth)
	chatService := service.NewChatService(uowFactory, registry, searcher, generator, natsPub)

	// 7. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		OAuthController: controller.NewOAuthController(oauthService),
		ChatController:  controller.NewChatController(chatService),

		Guard: serverutils.SessionGuard(sessionCache, uowFactory),

		ConsumerService: consumerService,
		IngestService:   ingestService,

		Logger: sysLogger,
	}
}
