// @title           Campaign Studio API
// @version         1.0.0
// @description     Backend API for campaign PDF intake, campaign parameter analysis and marketing strength generation. Workflow progress is published through Supabase Realtime.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campaign-studio-backend/docs"
	"campaign-studio-backend/internal/config"
	"campaign-studio-backend/internal/database"
	"campaign-studio-backend/internal/extractor"
	"campaign-studio-backend/internal/handlers"
	"campaign-studio-backend/internal/langchain"
	"campaign-studio-backend/internal/llm"
	"campaign-studio-backend/internal/logging"
	"campaign-studio-backend/internal/middleware"
	"campaign-studio-backend/internal/services"
	"campaign-studio-backend/internal/supabase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	// Persistence. Without DATABASE_URL the server starts for health checks,
	// but generation, history and document routes fail with a persistence
	// error before any model call.
	var dbClient *supabase.DatabaseClient
	var docStore services.DocumentStore
	var strengthStore services.MarketingStrengthStore
	var pinger handlers.Pinger
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; persistence and migrations disabled")
	} else {
		dbClient, err = supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("failed to initialize database client", zap.Error(err))
		} else {
			defer dbClient.Close()
			docStore, strengthStore, pinger = dbClient, dbClient, dbClient
			runMigrations(cfg.DatabaseURL, logger)
		}
	}

	// Supabase storage and realtime
	var events services.EventPublisher = services.NopPublisher{}
	var downloader services.StorageDownloader
	var objectStore services.ObjectStore
	if cfg.StorageEnabled() {
		supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey)
		if err != nil {
			logger.Fatal("failed to initialize supabase client", zap.Error(err))
		}
		events = supabase.NewRealtimeClient(supabaseClient.Supabase)

		storageClient := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
		downloader, objectStore = storageClient, storageClient
	} else {
		logger.Warn("SUPABASE_URL or SUPABASE_PUBLISHABLE_KEY not set; direct uploads and realtime events disabled")
	}

	// Delegated PDF question answering
	var processor services.DelegatedProcessor
	if cfg.LangchainAPIURL != "" {
		processor = langchain.NewClient(cfg.LangchainAPIURL, cfg.LangchainAPIKey)
	}

	llmClient, err := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.ModelRequestTimeout,
	})
	if err != nil {
		logger.Fatal("failed to initialize model client", zap.Error(err))
	}

	analyzer := services.NewAnalyzer(llmClient, services.AnalyzerConfig{
		MaxTextChars: cfg.AnalyzerMaxTextChars,
		Temperature:  cfg.AnalyzerTemperature,
		MaxTokens:    cfg.AnalyzerMaxTokens,
	}, logger)
	generator := services.NewGenerator(llmClient, strengthStore, events, services.GeneratorConfig{
		Temperatures: cfg.GeneratorTemperatures,
		MaxTokens:    cfg.GeneratorMaxTokens,
	}, logger)
	fetcher := services.NewHTTPFileFetcher(downloader, cfg.UploadMaxBytes)
	pdfService := services.NewPDFService(docStore, fetcher, extractor.NewPDFExtractor(), analyzer, events, logger)
	chatService := services.NewChatService(pdfService, processor, logger)
	intake := services.NewIntakeService(docStore, events, logger)
	storageService := services.NewStorageService(objectStore, intake, logger)

	healthHandler := handlers.NewHealthHandler(pinger, cfg.StorageEnabled())
	marketingHandler := handlers.NewMarketingHandler(generator, logger)
	pdfHandler := handlers.NewPDFHandler(pdfService, chatService, logger)
	uploadHandler := handlers.NewUploadHandler(intake, storageService, cfg.UploadMaxBytes, logger)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Marketing strengths
	api.POST("/marketing-strengths", marketingHandler.Generate)
	api.GET("/marketing-strengths", marketingHandler.History)

	// PDFs
	api.POST("/pdfs/process", pdfHandler.Process)
	api.GET("/pdfs", pdfHandler.List)
	api.GET("/pdfs/:pdf_id", pdfHandler.Get)
	api.POST("/pdfs/:pdf_id/chat", pdfHandler.Chat)

	// Uploads
	api.POST("/uploads", uploadHandler.Upload)
	api.POST("/uploads/complete", uploadHandler.Complete)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Generation requests can take up to one model timeout to settle.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ModelRequestTimeout+5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

func runMigrations(dbURL string, logger *zap.Logger) {
	migrator, err := database.NewMigrator(dbURL, logger)
	if err != nil {
		logger.Warn("failed to initialize migrator", zap.Error(err))
		return
	}
	defer migrator.Close()

	applied, err := migrator.Run(context.Background())
	if err != nil {
		logger.Warn("migration failed", zap.Error(err))
		return
	}
	logger.Info("migrations completed", zap.Strings("applied", applied))
}
