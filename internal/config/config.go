package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the process reads from the environment. Secrets
// stay in env vars; .env loading happens in main via godotenv.
type Config struct {
	Port        string
	DatabaseURL string

	// Connection pool knobs for the relational store.
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnIdleTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string

	AccessTokenSecret string
}

// Load reads the configuration from the environment, applying defaults for
// everything that can safely default.
func Load() Config {
	return Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnIdleTimeout: time.Duration(getEnvInt("DB_CONN_IDLE_TIMEOUT_SECONDS", 300)) * time.Second,
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		KafkaBrokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		AccessTokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
