package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vnkhanh/code-quiz-web/config"
	"github.com/vnkhanh/code-quiz-web/routes"
	"github.com/vnkhanh/code-quiz-web/services"
	"github.com/vnkhanh/code-quiz-web/utils"
)

func setupLogger(env string) *zap.Logger {
	var logger *zap.Logger
	if env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	cfg := config.Load()
	logger := setupLogger(cfg.Env)
	defer logger.Sync()

	ctx := context.Background()

	// Client Gemini tạo một lần cho cả process
	gemini, err := services.NewGeminiClient(ctx, cfg.GenAIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("không khởi tạo được Gemini client", zap.Error(err))
	}
	defer gemini.Close()

	questions := services.NewQuestionService(gemini, logger)
	sessions := utils.NewSessionCodec(cfg.SessionSecret)

	// Cache nạp trước chạy nền suốt đời process
	cache := services.NewQuestionCache(questions, services.CacheConfig{
		Size:     cfg.CacheSize,
		LowWater: cfg.CacheMin,
	}, logger)
	cache.Start(ctx)

	r := gin.Default()

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.LoadHTMLGlob("templates/*.html")

	// Gọi SetupRouter để đăng ký route
	r = routes.SetupRouter(r, cache, sessions, logger)

	logger.Info("Server running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server dừng", zap.Error(err))
	}
}
