package main

import (
	"time"

	"superai/ai"
	"superai/config"
	"superai/db"
	_ "superai/docs" // Swagger docs
	"superai/handlers"
	"superai/logger"
	"superai/models"
	"superai/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg := config.GetConfig()

	log := logger.New(cfg.LogFilePath, cfg.Environment == "production")
	defer log.Sync()

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	client := ai.NewClient(cfg)
	router := ai.NewRouter(client, log)

	store := session.NewStore(models.ModelConfig{
		Model:        config.DefaultModel,
		Temperature:  config.DefaultTemperature,
		MaxTokens:    config.DefaultMaxTokens,
		SystemPrompt: ai.DefaultSystemPrompt,
	}, ai.Greeting)

	h := handlers.New(database, store, router, cfg.ProductsDir, log)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		MaxAge:          24 * time.Hour,
	}))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	r.GET("/health", h.HealthHandler)
	r.POST("/api/chat", h.ChatHandler)

	r.POST("/api/files", h.UploadHandler)
	r.POST("/api/files/sheet", h.SelectSheetHandler)
	r.DELETE("/api/files", h.RemoveFileHandler)

	r.GET("/api/session", h.SessionStateHandler)
	r.GET("/api/session/config", h.GetConfigHandler)
	r.PUT("/api/session/config", h.UpdateConfigHandler)
	r.POST("/api/session/reset", h.ResetMemoryHandler)

	r.POST("/api/sessions/archive", h.ArchiveSessionHandler)
	r.GET("/api/sessions", h.ListSessionsHandler)
	r.GET("/api/sessions/:id", h.GetSessionHandler)
	r.DELETE("/api/sessions/:id", h.DeleteSessionHandler)

	r.GET("/api/charts", h.ListChartsHandler)
	r.GET("/api/charts/:filename", h.ServeChartHandler)

	log.Infow("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server exited", "error", err)
	}
}
