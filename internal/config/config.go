package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string
	InventoryPath string
	SessionTTL    time.Duration
	SessionCap    int
	LogLevel      string
}

// Load reads .env when present, then the environment, falling back to
// defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:      getenv("GROCERY_HTTP_ADDR", ":8080"),
		InventoryPath: getenv("GROCERY_INVENTORY_PATH", "data/inventory.csv"),
		SessionTTL:    getDuration("GROCERY_SESSION_TTL", 30*time.Minute),
		SessionCap:    getInt("GROCERY_SESSION_CAP", 1024),
		LogLevel:      getenv("GROCERY_LOG_LEVEL", "info"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
