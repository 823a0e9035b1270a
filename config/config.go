package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application, loaded from
// environment variables with sensible defaults.
type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	S3     S3Config
}

type ServerConfig struct {
	Port        string
	Environment string
}

type AWSConfig struct {
	Region string
}

type S3Config struct {
	Bucket        string
	PresignTTL    time.Duration
	UploadWorkers int
}

// Load reads configuration from the environment. A .env file is honored
// when present but never required.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
		},
		AWS: AWSConfig{
			Region: getEnv("AWS_REGION", "ap-southeast-1"),
		},
		S3: S3Config{
			Bucket:        getEnv("S3_BUCKET_NAME", "broomate-media"),
			PresignTTL:    time.Duration(getEnvAsInt("S3_PRESIGN_TTL_SECONDS", 31536000)) * time.Second,
			UploadWorkers: getEnvAsInt("UPLOAD_WORKERS", 15),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
