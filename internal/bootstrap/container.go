package bootstrap

import (
	"context"
	"log"
	"os"

	"book-chatbot-be/internal/config"
	"book-chatbot-be/internal/controller"
	"book-chatbot-be/internal/pkg/logger"
	"book-chatbot-be/internal/pkg/mailer"
	"book-chatbot-be/internal/repository/unitofwork"
	"book-chatbot-be/internal/service"
	"book-chatbot-be/pkg/embedding"
	"book-chatbot-be/pkg/llm/factory"
	pkgNats "book-chatbot-be/pkg/nats"
	"book-chatbot-be/pkg/rag/history"
	"book-chatbot-be/pkg/rag/response"
	"book-chatbot-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const chatTurnCompletedTopic = "CHAT_TURN_COMPLETED"

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	ChatController   controller.IChatController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuthService     service.IAuthService

	// Infrastructure handles main.go disposes at shutdown
	Logger  logger.ILogger
	Redis   *redis.Client
	NatsPub *pkgNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := log.New(os.Stdout, "[rag] ", log.LstdFlags)

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
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, "")
		log.Printf("[INFO] Using Embedding Provider: OPENAI")
	}

	llmBaseURL := cfg.Ai.OpenAIBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3.5 Infrastructure
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
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 4. RAG Pipeline
	searcher := search.NewSearcher(embeddingProvider, ragLogger)
	historyLoader := history.NewLoader(uowFactory)
	generator := response.NewGenerator(llmProvider, ragLogger)

	// 5. Services
	publisherService := service.NewPublisherService(chatTurnCompletedTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, chatTurnCompletedTopic, uowFactory)

	authService := service.NewAuthService(uowFactory, cfg.Auth, emailService, natsPub)
	chatService := service.NewChatService(
		uowFactory,
		searcher,
		historyLoader,
		generator,
		publisherService,
		cfg.Chat.HNSWEfSearch,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		AuthController:   controller.NewAuthController(authService),
		ChatController:   controller.NewChatController(chatService, authService),
		HealthController: controller.NewHealthController(db),

		ConsumerService: consumerService,
		AuthService:     authService,

		Logger:  sysLogger,
		Redis:   rdb,
		NatsPub: natsPub,
	}
}
