package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr         string
	StudyLineURL     string
	StudyLineTimeout time.Duration
	JWTSecret        string
	JWTIssuer        string
	SessionTTL       time.Duration
	DraftTTL         time.Duration
	RedisAddr        string
	RedisPassword    string
}

func Load() Config {
	return Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		StudyLineURL:     getenv("STUDYLINE_API_URL", "http://127.0.0.1:3000"),
		StudyLineTimeout: getenvDuration("STUDYLINE_API_TIMEOUT", 15*time.Second),
		JWTSecret:        getenv("JWT_SECRET", "dev-secret"),
		JWTIssuer:        getenv("JWT_ISSUER", "studyline-gateway"),
		SessionTTL:       getenvDuration("SESSION_TTL", 12*time.Hour),
		DraftTTL:         getenvDuration("DRAFT_TTL", 24*time.Hour),
		RedisAddr:        getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
