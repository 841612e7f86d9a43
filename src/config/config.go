package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port            string
	LogLevel        string
	HoldingsCSVPath string
	TradesCSVPath   string

	AnswerCacheTTL     time.Duration
	AnswerCacheCleanup time.Duration

	RateLimitInterval time.Duration
	RateLimitBurst    int

	AllowedOrigins []string

	MaxQuestionLength int
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	Cfg = &AppConfig{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HoldingsCSVPath: getEnv("HOLDINGS_CSV_PATH", "data/holdings.csv"),
		TradesCSVPath:   getEnv("TRADES_CSV_PATH", "data/trades.csv"),

		AnswerCacheTTL:     getEnvAsDuration("ANSWER_CACHE_TTL", 15*time.Minute),
		AnswerCacheCleanup: getEnvAsDuration("ANSWER_CACHE_CLEANUP_INTERVAL", 30*time.Minute),

		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 100*time.Millisecond),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 30),

		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:3000")},

		MaxQuestionLength: getEnvAsInt("MAX_QUESTION_LENGTH", 512),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, HoldingsCSV=%s, TradesCSV=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.HoldingsCSVPath, Cfg.TradesCSVPath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
