package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipe-scribe/backend/config"
	"github.com/recipe-scribe/backend/internal/api"
	"github.com/recipe-scribe/backend/internal/database"
	"github.com/recipe-scribe/backend/internal/logging"
	"github.com/recipe-scribe/backend/internal/middleware"
	"github.com/recipe-scribe/backend/internal/router"
	"github.com/recipe-scribe/backend/internal/server"
	"github.com/recipe-scribe/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	var sessionStore service.SessionStore
	if redisClient != nil {
		sessionStore = service.NewRedisSessionStore(redisClient, service.SessionTTL)
	} else {
		sessionStore = service.NewMemorySessionStore(service.SessionTTL)
	}

	sessions := service.NewSessionService(sessionStore, cfg.SessionSecret, cfg.AppPassword, cfg.AppPasswordHash, logger)
	resolver := service.NewContentResolver(cfg.FetchHTMLToMarkdown, logger)
	extractor := service.NewExtractionService(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.InstructionsPath, logger)
	recipes := service.NewRecipeService(db, logger)

	engine := router.SetupRouter(router.Options{
		Auth:         api.NewAuthHandler(sessions, logger),
		AI:           api.NewAIHandler(resolver, extractor, logger),
		Recipes:      api.NewRecipeHandler(recipes, logger),
		Sessions:     sessions,
		LoginLimiter: middleware.NewLoginRateLimiter(redisClient),
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger,
	})

	srv := server.New(engine, cfg.ServerPort, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
