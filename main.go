package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/aithenode/booking-service/internal/config"
	"github.com/aithenode/booking-service/internal/events"
	"github.com/aithenode/booking-service/internal/handlers"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/repositories/memory"
	"github.com/aithenode/booking-service/internal/repositories/postgres"
	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
	"github.com/aithenode/booking-service/internal/validator"
	"github.com/aithenode/booking-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize storage backend
	repo, err := buildRepository(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize event publisher
	publisher, err := buildPublisher(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(repo, publisher, slogLogger, validator.NewBusinessValidator())

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"storage_backend", cfg.StorageBackend,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Service shutdown failed", "error", err)
	}

	logger.Info("Server exited")
}

// buildRepository selects the storage backend. Both expose identical
// observable behavior; postgres adds durability and the optional cache.
func buildRepository(cfg *config.Config, logger *slog.Logger) (repositories.Repository, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Info("Using in-memory storage")
		return memory.NewMemoryRepository(), nil

	case config.BackendPostgres:
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}

		var redisClient *redis.Client
		if cfg.RedisURL != "" {
			redisClient, err = pkg.NewRedisClient(cfg)
			if err != nil {
				logger.Warn("Redis unavailable, running without cache", "error", err)
			}
		}

		return postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
			DB:          db,
			RedisClient: redisClient,
		}), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// buildPublisher wires Kafka when brokers are configured, otherwise the
// in-process channel publisher.
func buildPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) > 0 {
		logger.Info("Publishing events to Kafka", "brokers", cfg.KafkaBrokers)
		return events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
	}
	return events.NewGoChannelPublisher(logger), nil
}
