package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/api/handlers"
	cacheredis "github.com/paulson-ai/backend/internal/cache/redis"
	"github.com/paulson-ai/backend/internal/conversation"
	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/generator"
	"github.com/paulson-ai/backend/internal/interaction"
	"github.com/paulson-ai/backend/internal/metrics"
	"github.com/paulson-ai/backend/internal/middleware/ratelimit"
	"github.com/paulson-ai/backend/internal/middleware/security"
	"github.com/paulson-ai/backend/internal/middleware/validation"
	"github.com/paulson-ai/backend/internal/storage"
	"github.com/paulson-ai/backend/internal/storage/jsonfile"
	"github.com/paulson-ai/backend/internal/storage/sqlite"
	"github.com/paulson-ai/backend/internal/tone"
	"github.com/paulson-ai/backend/pkg/config"
	appLogger "github.com/paulson-ai/backend/pkg/logger"
	"github.com/paulson-ai/backend/pkg/retry"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Paulson AI Assistant API Server")

	metrics.Init()

	store, err := openStore(cfg.Storage)
	if err != nil {
		appLogger.Fatal("Failed to open interaction store", zap.Error(err))
	}
	defer store.Close()

	classifierOpts := []emotion.Option{}
	if cfg.Redis.Enabled {
		scoreCache := connectScoreCache(cfg.Redis)
		if scoreCache != nil {
			defer scoreCache.Close()
			classifierOpts = append(classifierOpts, emotion.WithCache(scoreCache))
		}
	}

	classifier := emotion.NewClassifier(
		cfg.Emotion.InferenceURL(),
		cfg.Emotion.APIToken,
		cfg.Emotion.TimeoutSec,
		classifierOpts...,
	)

	company := tone.CompanyProfile{
		Name:      cfg.Company.Name,
		Expertise: cfg.Company.Expertise,
		Values:    cfg.Company.Values,
	}
	policy := tone.NewPolicy()

	gen := generator.NewClient(
		cfg.Generation.BaseURL,
		cfg.Generation.APIKey,
		cfg.Generation.Model,
		cfg.Generation.Temperature,
		cfg.Generation.MaxTokens,
		cfg.Generation.TimeoutSec,
		company,
		policy,
	)

	journal := interaction.NewLogger(store)
	sessions := conversation.NewManager(classifier, gen, journal)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Session-ID",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: 30,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	chatHandler := handlers.NewChatHandler(sessions, journal)
	wsHandler := handlers.NewWebSocketHandler(sessions)

	api := app.Group("/api/v1")
	api.Use(validation.Middleware(validation.Config{Logger: appLogger.GetLogger()}))

	api.Post("/chat", limiter.Middleware(), chatHandler.HandleChat)
	api.Get("/analytics", chatHandler.HandleAnalytics)
	api.Get("/history", chatHandler.HandleHistory)
	api.Delete("/session/:id", chatHandler.HandleResetSession)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	case "jsonfile", "":
		return jsonfile.New(cfg.LogFile)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// connectScoreCache probes Redis with bounded retries. The cache is an
// optimization; when it cannot be reached the classifier simply runs
// uncached.
func connectScoreCache(cfg config.RedisConfig) *cacheredis.ScoreCache {
	var cache *cacheredis.ScoreCache

	retryCfg := retry.DefaultConfig()
	retryCfg.Logger = appLogger.GetLogger()

	err := retry.Do(context.Background(), retryCfg, func() error {
		var connectErr error
		cache, connectErr = cacheredis.NewScoreCache(
			cfg.Host,
			cfg.Port,
			cfg.Password,
			cfg.DB,
			time.Duration(cfg.ScoreTTL)*time.Second,
		)
		return connectErr
	})
	if err != nil {
		appLogger.Warn("Score cache unavailable, continuing without it", zap.Error(err))
		return nil
	}

	return cache
}
