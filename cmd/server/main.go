package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyloop/quiz-service/internal/config"
	"github.com/studyloop/quiz-service/internal/events"
	"github.com/studyloop/quiz-service/internal/extract"
	"github.com/studyloop/quiz-service/internal/genai"
	"github.com/studyloop/quiz-service/internal/handlers"
	"github.com/studyloop/quiz-service/internal/services"
	"github.com/studyloop/quiz-service/internal/store"
	"github.com/studyloop/quiz-service/internal/utils"
	"github.com/studyloop/quiz-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "development" {
		logger = utils.NewDevelopmentLogger()
	} else {
		logger = utils.NewDefaultLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gemini client backs quiz generation, evaluation and content cleaning.
	geminiClient, err := genai.NewClient(ctx, cfg.GeminiAPIKey, slogger)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	// Hand-off store: Redis when configured, in-memory otherwise.
	var handoff store.HandoffStore
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory hand-off store", "error", err)
		handoff = store.NewMemoryStore()
	} else {
		defer redisClient.Close()
		handoff = store.NewRedisStore(redisClient, store.DefaultTTL)
	}

	// Session lifecycle events go to Kafka when brokers are configured.
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(events.PublisherConfig{
			KafkaBrokers: cfg.KafkaBrokers,
			TopicName:    cfg.EventTopic,
			Logger:       slogger,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		logger.Info("No Kafka brokers configured, session events will not be published")
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()

	validator := utils.NewValidator()
	extractor := extract.NewService(geminiClient, slogger)
	sessionService := services.NewSessionService(
		geminiClient,
		geminiClient,
		handoff,
		publisher,
		slogger,
		time.Duration(cfg.QuizTimeLimit)*time.Second,
	)
	exportService := services.NewExportService(slogger)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	handlerManager := handlers.NewHandlerManager(sessionService, exportService, extractor, validator, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited properly")
}
