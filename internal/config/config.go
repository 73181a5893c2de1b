package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
// PublicURL is the base every media reference is built from; when empty it is
// derived from Endpoint, UseSSL and Bucket.
type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PublicURL  string
	Prefix     string
	TimeoutSec int
}

// RedisConfig holds the rating cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	RatingTTLSec int
}

// AuthConfig holds the settings used to resolve principals from signed tokens.
type AuthConfig struct {
	JWTSecret  string
	CookieName string
}

// LimitsConfig holds the soft quotas applied to media attachments.
type LimitsConfig struct {
	MaxReviewImages  int
	MaxCompanyImages int
	// ImageDeleteOwnerOnly restricts company image deletion to the uploader.
	ImageDeleteOwnerOnly bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppEnv      string
	LogLevel    string
	Port        string
	BodyLimitMB int
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Limits      LimitsConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppEnv:      getEnv("APP_ENV", "prod"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnv("PORT", "8080"),
		BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 25),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", ""),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			Bucket:     getEnv("MINIO_BUCKET", ""),
			UseSSL:     getEnvBool("MINIO_USE_SSL", false),
			PublicURL:  getEnv("MINIO_PUBLIC_URL", ""),
			Prefix:     getEnv("MINIO_PREFIX", "media"),
			TimeoutSec: getEnvInt("MINIO_TIMEOUT_SEC", 15),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", ""),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			RatingTTLSec: getEnvInt("RATING_CACHE_TTL_SEC", 300),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("AUTH_JWT_SECRET", ""),
			CookieName: getEnv("AUTH_COOKIE_NAME", "auth_token"),
		},
		Limits: LimitsConfig{
			MaxReviewImages:      getEnvInt("MAX_REVIEW_IMAGES", 5),
			MaxCompanyImages:     getEnvInt("MAX_COMPANY_IMAGES", 15),
			ImageDeleteOwnerOnly: getEnvBool("IMAGE_DELETE_OWNER_ONLY", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
