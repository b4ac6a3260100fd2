package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/speech-coach/docs"
	pkgvalidator "github.com/johnquangdev/speech-coach/pkg/validator"

	"github.com/johnquangdev/speech-coach/internal/adapter/handler"
	"github.com/johnquangdev/speech-coach/internal/adapter/repository"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/cache"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/speech-coach/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/storage"
	"github.com/johnquangdev/speech-coach/internal/usecase/scoring"
	pkgai "github.com/johnquangdev/speech-coach/pkg/ai"
	"github.com/johnquangdev/speech-coach/pkg/config"
)

// @title           Speech Coach API
// @version         1.0
// @description     Grades spoken utterances on volume, speech rate, acceleration, response latency and pause management

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

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

	// Tag every request and bound its lifetime
	e.Use(middleware.RequestID())
	e.Use(httpmw.EchoJobContext(cfg.Server.RequestTimeout, logger))

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	log.Println("🔧 Initializing dependencies...")

	// Metric configuration source
	var source scoring.MetricConfigSource
	if strings.EqualFold(cfg.Scoring.ConfigSource, "postgres") {
		db := connectDatabase(cfg, logger)
		defer database.CloseDB(db)

		if cfg.Redis.Enabled {
			log.Println("📦 Connecting to Redis...")
		}
		store, closeStore, err := cache.NewStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer closeStore()

		source = repository.NewCachedMetricConfigSource(
			repository.NewMetricConfigRepository(db),
			store,
			cfg.Scoring.SharedCacheTTL,
			logger,
		)
	} else {
		log.Println("⚠️  Using built-in metric definitions (SCORING_CONFIG_SOURCE=defaults)")
	}

	configs := scoring.NewConfigManager(source,
		scoring.WithTTL(cfg.Scoring.ConfigTTL),
		scoring.WithConfigLogger(logger),
	)

	// Warm the cache so the first requests grade with the stored definitions
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 10*time.Second)
	configs.ConfigFresh(warmCtx)
	warmCancel()

	// Remote transcription
	transcriber := newTranscriber(cfg, logger)
	if transcriber != nil {
		log.Printf("🤖 Remote transcription enabled: %s", transcriber.Name())
	}

	// Object storage
	var objects handler.ObjectFetcher
	if cfg.Storage.Enabled {
		log.Println("🪣 Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(context.Background(), &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		objects = minioClient
		log.Printf("✅ Object storage bucket: %s", minioClient.Bucket())
	}

	svc := scoring.NewService(configs, transcriber, cfg.Scoring.TranscriptionTimeout, logger)
	analysisHandler := handler.NewAnalysisHandler(svc, objects, cfg.Server.MaxUploadMB, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, analysisHandler)
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

func connectDatabase(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or run `grade migrate`.")
		}
		log.Println("🔄 Applying embedded migrations (development only) ...")
		if _, err := database.AutoMigrate(db, logger); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}
	return db
}

func newTranscriber(cfg *config.Config, logger *zap.Logger) pkgai.Transcriber {
	switch strings.ToLower(cfg.Scoring.Transcriber) {
	case "assemblyai":
		return pkgai.NewAssemblyAITranscriber(&cfg.Assembly, logger)
	case "http":
		return pkgai.NewSpeechServiceClient(&cfg.Transcription, logger)
	}
	return nil
}
