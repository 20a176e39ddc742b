package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID    string
	LogLevel     string
	Port         string
	AvatarBucket string
}

func New() *Config {
	// Local development convenience; Cloud Run injects real env vars.
	_ = godotenv.Load()

	return &Config{
		ProjectID:    os.Getenv("PROJECTID"),
		LogLevel:     os.Getenv("LOGLEVEL"),
		Port:         getOrDefault("PORT", "8080"),
		AvatarBucket: os.Getenv("AVATARBUCKET"),
	}
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
