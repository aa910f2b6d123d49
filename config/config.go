package config

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Port        string
	BaseURL     string
	FrontendURL string
	AliasLength int
	DB          DBConfig
	JWT         JWTConfig
}

type JWTConfig struct {
	Secret string
	Exp    time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port:        getEnvDefault("APP_PORT", ":8080"),
		BaseURL:     strings.TrimRight(getEnvDefault("BACKEND_URL", "http://localhost:8080"), "/"),
		FrontendURL: strings.TrimRight(getEnvDefault("FRONTEND_URL", "http://localhost:5173"), "/"),
		AliasLength: 7,
		DB: DBConfig{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnv("DB_PORT", log),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnv("DB_SSLMODE", log),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", log),
			Exp:    parseDurationWithDays(getEnvDefault("JWT_EXP", "6h")),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, defaultValue string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultValue
}

// parseDurationWithDays accepts the usual time.ParseDuration syntax plus a
// "d" suffix for whole days, e.g. "7d".
func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		days, err := time.ParseDuration(strings.TrimSuffix(s, "d") + "h")
		if err != nil {
			return 0
		}
		return 24 * days
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}
