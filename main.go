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
	"go.uber.org/zap"

	"pms-chatbot/config"
	"pms-chatbot/controllers"
	"pms-chatbot/database"
	"pms-chatbot/middleware"
	"pms-chatbot/routes"
	"pms-chatbot/services"
	"pms-chatbot/utils"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cfg := config.Get()

	logger, err := utils.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Disconnect(cfg, logger); err != nil {
			logger.Warn("Database disconnect failed", zap.Error(err))
		}
	}()

	var (
		store       services.MessageStore
		healthCheck func(ctx context.Context) error
	)
	if cfg.TranscriptEnabled() {
		repo, err := database.NewMessageRepository(database.GetMongoDB())
		if err != nil {
			logger.Fatal("Failed to create message repository", zap.Error(err))
		}
		store = repo
		healthCheck = func(ctx context.Context) error { return database.HealthCheck(ctx, cfg) }
	}

	lookups := services.NewLookupClient(cfg, logger)
	router, err := services.NewDialogueRouter(lookups, lookups, lookups, logger)
	if err != nil {
		logger.Fatal("Failed to create dialogue router", zap.Error(err))
	}
	chatbotService, err := services.NewChatbotService(router, store, logger)
	if err != nil {
		logger.Fatal("Failed to create chatbot service", zap.Error(err))
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS(cfg.Security.AllowedOrigins))
	if err := engine.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	routes.SetupRoutes(engine, routes.Handlers{
		Chatbot:   controllers.NewChatbotController(chatbotService),
		WebSocket: controllers.NewWebSocketController(chatbotService, cfg.Security.AllowedOrigins, logger),
		Health:    controllers.NewHealthController(healthCheck),
	})

	logAvailableEndpoints(engine, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.Bool("transcript", cfg.TranscriptEnabled()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// logAvailableEndpoints logs all registered routes
func logAvailableEndpoints(engine *gin.Engine, logger *zap.Logger) {
	for _, route := range engine.Routes() {
		logger.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
