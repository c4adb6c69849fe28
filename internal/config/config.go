package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	RedisURL     string
	ProviderURL  string
	ImgBBKey     string
	OpenAIKey    string
	BaseURL      string
	Port         string
	MetricsPort  string
	OverlayDir   string
	ProcessedDir string
	CacheTTL     int // seconds
	BatchWorkers int
}

func Load() *Config {
	// Try the project root first, then the current directory.
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		ProviderURL:  getEnv("PROVIDER_URL", "https://amazon-helper.vercel.app/api/items"),
		ImgBBKey:     os.Getenv("IMGBB_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8000"),
		Port:         getEnv("PORT", "8000"),
		MetricsPort:  getEnv("METRICS_PORT", "9090"),
		OverlayDir:   getEnv("OVERLAY_DIR", "public/overlays"),
		ProcessedDir: getEnv("PROCESSED_DIR", "public/processed"),
		CacheTTL:     getEnvInt("CACHE_TTL", 2592000), // 30 days
		BatchWorkers: getEnvInt("BATCH_WORKERS", 5),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
