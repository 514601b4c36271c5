package config

import (
	"log"
	"os"
	"strconv"
)

// Config gom mọi thiết lập đọc từ biến môi trường.
type Config struct {
	Port          string
	Env           string
	GenAIKey      string
	GeminiModel   string
	SessionSecret string
	CacheSize     int
	CacheMin      int
}

// Load đọc config từ env. Thiếu SESSION_SECRET_KEY thì dừng luôn:
// chạy với secret rỗng là phát cookie không ký.
func Load() *Config {
	secret := os.Getenv("SESSION_SECRET_KEY")
	if secret == "" {
		log.Fatal("SESSION_SECRET_KEY chưa được cấu hình. Đặt giá trị an toàn trong môi trường hoặc file .env.")
	}

	cfg := &Config{
		Port:          os.Getenv("PORT"),
		Env:           os.Getenv("APP_ENV"),
		GenAIKey:      os.Getenv("GENAI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		SessionSecret: secret,
		CacheSize:     envInt("CACHE_SIZE", 0),
		CacheMin:      envInt("CACHE_MIN", 0),
	}

	// mặc định nếu không có PORT
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash-lite"
	}
	return cfg
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("giá trị %s=%q không hợp lệ, dùng mặc định", key, raw)
		return fallback
	}
	return n
}
