package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when no credential for the extraction
// service is configured. The server refuses to start in that case rather
// than failing on the first upload.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set; configure a Gemini API key before starting the server")

type Config struct {
	Port        string
	Environment string

	// Extraction / solution service
	GeminiAPIKey string
	GeminiModel  string

	// Optional crop cache; empty disables Redis and falls back to memory.
	RedisURL string

	SessionTTLMinutes int
	MaxUploadMB       int

	// Base render scales for the inline and lightbox diagram passes.
	InlineRenderScale   float64
	LightboxRenderScale float64
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; real env vars may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RedisURL:            os.Getenv("REDIS_URL"),
		SessionTTLMinutes:   getEnvInt("SESSION_TTL_MINUTES", 120),
		MaxUploadMB:         getEnvInt("MAX_UPLOAD_MB", 25),
		InlineRenderScale:   getEnvFloat("INLINE_RENDER_SCALE", 2.0),
		LightboxRenderScale: getEnvFloat("LIGHTBOX_RENDER_SCALE", 4.0),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
