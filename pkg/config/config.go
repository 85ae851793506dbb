package config

import (
	"os"
	"time"
)

// Config carries the process configuration read from the environment.
type Config struct {
	Port          string
	Env           string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string
	LookupTTL     time.Duration
	JWTSecret     string
}

// Load reads configuration from the environment with development defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PostgresDSN:   getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "minbar"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		LookupTTL:     getDurationEnv("LOOKUP_CACHE_TTL", 5*time.Minute),
		JWTSecret:     getEnv("JWT_SECRET", "supersecretjwtkey"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
