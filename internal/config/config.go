package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting for the API.
// Values come from environment variables (loaded from .env in main),
// falling back to sensible local-development defaults.
type Config struct {
	Port       string
	DSN        string // MySQL DSN for the primary connection pool
	JWTSecret  string
	JWTExpiry  time.Duration
	CORSOrigin string

	// Image uploads
	BaseURL     string // Public base URL used to build uploaded-image links
	UploadPath  string
	MaxFileSize int64 // bytes
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DSN:         getEnv("DB_DSN", "root:root@tcp(127.0.0.1:3306)/storefront?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiry:   getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", 5*1024*1024), // 5MB
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("24h", "30m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
