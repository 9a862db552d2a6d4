package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mobility/internal/config"
	"mobility/internal/handler"
	"mobility/internal/logger"
	"mobility/internal/repository"
	"mobility/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	log.Info("Banff mobility assistant starting",
		zap.String("version", Version),
		zap.String("buildTime", BuildTime),
		zap.String("gitCommit", GitCommit))

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Query template table: fixed at startup, immutable afterward
	templates, err := service.NewTemplateSet()
	if err != nil {
		log.Fatal("Invalid query template table", zap.Error(err))
	}

	// Analytical store connection
	warehouse, err := repository.NewWarehouse(
		cfg.GetPostgresDSN(),
		cfg.Postgres.MaxConnections,
		cfg.Postgres.MaxIdleConnections,
		cfg.Postgres.QueryTimeout,
	)
	if err != nil {
		log.Fatal("Failed to connect to analytical store", zap.Error(err))
	}
	defer warehouse.Close()
	log.Info("Connected to analytical store")

	// LLM backend client, shared by extractor and answer generator
	llm := service.NewOllamaClient(&cfg.Ollama)
	log.Info("LLM backend configured",
		zap.String("baseURL", cfg.Ollama.BaseURL),
		zap.String("model", cfg.Ollama.Model))

	// Pipeline stages
	extractor := service.NewExtractor(llm, cfg.Ollama.ExtractTimeout, log)
	validator := service.NewSlotValidator(templates)
	answers := service.NewAnswerGenerator(llm, cfg.Chat.ResultRowCap, cfg.Ollama.AnswerTimeout, log)
	chatService := service.NewChatService(extractor, validator, templates, warehouse, answers, log)

	// Calendar lookup table; a missing CSV is non-fatal, lookups just 404
	holidays, err := service.LoadHolidayTable(cfg.Holiday.CSVPath)
	if err != nil {
		log.Warn("Failed to load holiday table, starting with an empty one",
			zap.String("path", cfg.Holiday.CSVPath),
			zap.Error(err))
		holidays = service.EmptyHolidayTable()
	} else {
		log.Info("Holiday table loaded", zap.Int("dates", holidays.Len()))
	}

	// Traffic models; unloaded variants fail at predict time
	predictor := service.NewPredictor(cfg.Models.ResidentPath, cfg.Models.VisitorPath, log)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService)
	predictHandler := handler.NewPredictHandler(predictor)
	holidayHandler := handler.NewHolidayHandler(holidays)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestID())
	router.Use(handler.RequestLogger(log))
	router.Use(handler.Metrics())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "banff-mobility-assistant",
			"version": Version,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.GET("/holiday-info", holidayHandler.HolidayInfo)
		apiV1.POST("/predict/resident", predictHandler.PredictResident)
		apiV1.POST("/predict/visitor", predictHandler.PredictVisitor)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting server", zap.String("addr", addr))

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
}
