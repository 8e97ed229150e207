package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/prensalab/media-monitor/pkg/validator"

	_ "github.com/prensalab/media-monitor/docs"
	"github.com/prensalab/media-monitor/internal/adapter/handler"
	"github.com/prensalab/media-monitor/internal/adapter/repository"
	"github.com/prensalab/media-monitor/internal/infrastructure/cache"
	"github.com/prensalab/media-monitor/internal/infrastructure/database"
	httpmw "github.com/prensalab/media-monitor/internal/infrastructure/http/middleware"
	"github.com/prensalab/media-monitor/internal/infrastructure/storage"
	"github.com/prensalab/media-monitor/internal/usecase/transcript"
	"github.com/prensalab/media-monitor/pkg/config"
	"github.com/prensalab/media-monitor/pkg/jwt"
	"github.com/prensalab/media-monitor/pkg/transcription"
)

// @title           Media Monitor API
// @version         1.0
// @description     Transcription and speaker reconciliation API for the media monitoring dashboard

// @contact.name   API Support
// @contact.email  dev@prensalab.com

// @host      api.prensalab.com
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply SQL migrations only when explicitly enabled in config.
	// Production deployments should run them from CI/CD instead.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Disable it and run sql-migrate from the deploy pipeline.")
		}
		log.Println("🔄 Applying SQL migrations (development only) ...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis-backed session store
	log.Println("📦 Connecting to Redis...")
	sessionStore, err := cache.NewRedisStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer sessionStore.Close()

	// Initialize object storage
	log.Println("🪣 Connecting to object storage...")
	mediaStore, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	transcriptionRepo := repository.NewTranscriptionRepository(db)
	utteranceRepo := repository.NewUtteranceRepository(db)
	labelRepo := repository.NewSpeakerLabelRepository(db)

	// Initialize transcription provider
	log.Println("🎙️  Initializing transcription provider...")
	provider := transcription.NewAssemblyAIClient(&cfg.Assembly, logger)

	// Initialize transcript service with editor coordinator
	coordinator := transcript.NewEditorCoordinator(sessionStore, logger)
	transcriptService := transcript.NewService(
		transcriptionRepo,
		utteranceRepo,
		labelRepo,
		provider,
		coordinator,
		logger,
	)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	transcriptionHandler := handler.NewTranscriptionHandler(transcriptService, logger)
	speakerHandler := handler.NewSpeakerHandler(transcriptService, logger)
	editorHandler := handler.NewEditorHandler(transcriptService, logger)
	mediaHandler := handler.NewMediaHandler(transcriptService, mediaStore, logger)
	webhookHandler := handler.NewWebhookHandler(transcriptService, cfg.Assembly.WebhookSecret, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	verifier := jwt.NewVerifier(cfg.JWT.AccessSecret)
	authMW := httpmw.BearerAuth(verifier)

	router := handler.NewRouter(cfg, transcriptionHandler, speakerHandler, editorHandler, mediaHandler, webhookHandler, authMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
