package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Port           string
	Store          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RoomTTL        time.Duration
	SocketIOAddr   string
	WordBankPath   string
	AllowedOrigins string
	LogLevel       string
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		Store:          strings.ToLower(getEnv("STORE", StoreRedis)),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		SocketIOAddr:   getEnv("SOCKETIO_ADDR", ""),
		WordBankPath:   getEnv("WORD_BANK_PATH", ""),
		AllowedOrigins: getEnv("CORS_ORIGINS", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	cfg.RedisDB = db

	ttl, err := time.ParseDuration(getEnv("ROOM_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("ROOM_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("ROOM_TTL: must not be negative, got %s", ttl)
	}
	cfg.RoomTTL = ttl

	if cfg.Store != StoreRedis && cfg.Store != StoreMemory {
		return nil, fmt.Errorf("STORE: unknown backend %q", cfg.Store)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
