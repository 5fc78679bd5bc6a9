package bootstrap

import (
	"context"
	"log"

	"ai-lifeos-be/internal/config"
	"ai-lifeos-be/internal/controller"
	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/pkg/logger"
	"ai-lifeos-be/internal/pkg/mailer"
	"ai-lifeos-be/internal/repository/unitofwork"
	"ai-lifeos-be/internal/service"
	"ai-lifeos-be/internal/websocket"
	"ai-lifeos-be/pkg/embedding"
	"ai-lifeos-be/pkg/inference"

	pktNats "ai-lifeos-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CaptureController   controller.ICaptureController
	QueryController     controller.IQueryController
	ActivityController  controller.IActivityController
	SynthesisController controller.ISynthesisController

	// Background Services (Exposed for main.go to run)
	AnalysisService  service.IAnalysisService
	StreamService    service.IStreamService
	RetentionService service.IRetentionService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	inferenceProvider := inference.NewGeminiProvider(cfg.Keys.GoogleGemini)

	// 3.5 Infrastructure
	// NATS (optional outbound event bridge)
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}

	// Redis (optional cross-instance fanout)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	streamService := service.NewStreamService(pubSub, wsHub, wsLogger)

	analysisService := service.NewAnalysisService(
		cfg,
		uowFactory,
		inferenceProvider,
		embeddingProvider,
		sysLogger,
	)

	proactiveService := service.NewProactiveService(
		cfg,
		uowFactory,
		embeddingProvider,
		natsPub,
		emailService,
		sysLogger,
	)

	queryService := service.NewQueryService(
		cfg,
		uowFactory,
		inferenceProvider,
		embeddingProvider,
		sysLogger,
	)

	synthesisService := service.NewSynthesisService(
		uowFactory,
		inferenceProvider,
		embeddingProvider,
		sysLogger,
	)

	activityService := service.NewActivityService(uowFactory, analysisService, proactiveService)
	retentionService := service.NewRetentionService(cfg, uowFactory, sysLogger)

	// Pipeline wiring: every stored activity is evaluated by the rule
	// engine and streamed to clients; every fired alert is streamed too.
	analysisService.OnAnalyzed(func(ctx context.Context, activity *entity.Activity) {
		proactiveService.Evaluate(ctx, activity)
	})
	analysisService.OnAnalyzed(func(ctx context.Context, activity *entity.Activity) {
		res := service.ToActivityResponse(activity)
		if err := streamService.PublishActivity(ctx, &res); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to stream activity", map[string]interface{}{"error": err.Error()})
		}
	})
	proactiveService.OnAlert(func(ctx context.Context, alert *dto.AlertResponse) {
		if err := streamService.PublishAlert(ctx, alert); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to stream alert", map[string]interface{}{"error": err.Error()})
		}
	})

	// Notification relay (cross-instance alerts via NATS)
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	return &Container{
		CaptureController:   controller.NewCaptureController(analysisService),
		QueryController:     controller.NewQueryController(queryService),
		ActivityController:  controller.NewActivityController(activityService),
		SynthesisController: controller.NewSynthesisController(synthesisService),

		AnalysisService:  analysisService,
		StreamService:    streamService,
		RetentionService: retentionService,

		WebSocketHub: wsHub,
	}
}
