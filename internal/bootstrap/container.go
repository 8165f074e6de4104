package bootstrap

import (
	"context"
	"log"
	"time"

	"wikivoice-be/internal/config"
	"wikivoice-be/internal/controller"
	"wikivoice-be/internal/pkg/logger"
	"wikivoice-be/internal/pkg/serverutils"
	"wikivoice-be/internal/repository/unitofwork"
	"wikivoice-be/internal/service"
	"wikivoice-be/pkg/auth/stytch"
	"wikivoice-be/pkg/llm/openai"
	pktNats "wikivoice-be/pkg/nats"
	"wikivoice-be/pkg/rag/response"
	"wikivoice-be/pkg/rag/topic"
	"wikivoice-be/pkg/wikipedia"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	SessionController controller.ISessionController
	QueryController   controller.IQueryController
	HealthController  controller.IHealthController

	// Middleware
	AuthMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Infrastructure (Exposed for shutdown)
	Logger        *logger.ZapLogger
	NatsPublisher *pktNats.Publisher
	StytchClient  *stytch.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (extract cache, optional)
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, extract caching disabled: %v", err)
		rdb = nil
	}

	// Stytch
	stytchClient := stytch.NewClient(cfg.Stytch.ProjectID, cfg.Stytch.Secret, cfg.IsProduction())

	// 3. RAG Pipeline Components
	llmProvider := openai.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	llmProvider.BaseURL = cfg.OpenAI.BaseURL
	log.Printf("[INFO] Using LLM Provider: OpenAI (%s)", cfg.OpenAI.Model)

	wikipediaClient := wikipedia.NewClient(nil, rdb, sysLogger.Zap()).WithAPIURL(cfg.Wikipedia.APIURL)
	topicExtractor := topic.NewExtractor(llmProvider, sysLogger.Zap())
	responseGenerator := response.NewGenerator(llmProvider, sysLogger.Zap())

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.QueryProcessedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.QueryProcessedTopic,
		uowFactory,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, stytchClient, natsPub, sysLogger)
	sessionService := service.NewSessionService(uowFactory)
	queryService := service.NewQueryService(
		uowFactory,
		topicExtractor,
		wikipediaClient,
		responseGenerator,
		publisherService,
		natsPub,
		sysLogger,
	)

	// 5. Middleware
	sessionCache := cache.New(5*time.Minute, 10*time.Minute)
	authMiddleware := serverutils.NewAuthMiddleware(stytchClient, uowFactory, sessionCache)

	// 6. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService, cfg.IsProduction()),
		SessionController: controller.NewSessionController(sessionService),
		QueryController:   controller.NewQueryController(queryService),
		HealthController:  controller.NewHealthController(db),
		AuthMiddleware:    authMiddleware,
		ConsumerService:   consumerService,
		Logger:            sysLogger,
		NatsPublisher:     natsPub,
		StytchClient:      stytchClient,
	}
}
