package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseDriver      string
	DatabaseDSN         string
	SMTPListenAddr      string
	SMTPDomain          string
	RelayTimeout        time.Duration
	DeliveryMaxAttempts int
	DeliveryBackoffBase time.Duration
	QueueSweepInterval  time.Duration
	CursorPolicy        string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseDriver:      getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "host=localhost user=mailgate password=mailgate dbname=mailgate port=5432 sslmode=disable"),
		SMTPListenAddr:      getEnv("SMTP_LISTEN_ADDR", ":2525"),
		SMTPDomain:          getEnv("SMTP_DOMAIN", "localhost"),
		RelayTimeout:        getDurationEnv("RELAY_TIMEOUT", 30*time.Second),
		DeliveryMaxAttempts: getIntEnv("DELIVERY_MAX_ATTEMPTS", 5),
		DeliveryBackoffBase: getDurationEnv("DELIVERY_BACKOFF_BASE", time.Minute),
		QueueSweepInterval:  getDurationEnv("QUEUE_SWEEP_INTERVAL", time.Minute),
		CursorPolicy:        getEnv("SYNC_CURSOR_POLICY", "rebase"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
