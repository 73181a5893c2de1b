package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_TIMEOUT_SEC", "3")
	t.Setenv("MAX_COMPANY_IMAGES", "3")
	t.Setenv("IMAGE_DELETE_OWNER_ONLY", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("AUTH_JWT_SECRET", "hmac-secret")

	cfg := Load()

	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 3, cfg.MinIO.TimeoutSec)
	assert.Equal(t, 3, cfg.Limits.MaxCompanyImages)
	assert.True(t, cfg.Limits.ImageDeleteOwnerOnly)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "hmac-secret", cfg.Auth.JWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "PORT", "BODY_LIMIT_MB", "MAX_REVIEW_IMAGES", "MAX_COMPANY_IMAGES",
		"MINIO_PREFIX", "MINIO_TIMEOUT_SEC", "AUTH_COOKIE_NAME", "RATING_CACHE_TTL_SEC",
		"IMAGE_DELETE_OWNER_ONLY", "REDIS_ADDR",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "prod", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25, cfg.BodyLimitMB)
	assert.Equal(t, 5, cfg.Limits.MaxReviewImages)
	assert.Equal(t, 15, cfg.Limits.MaxCompanyImages)
	assert.False(t, cfg.Limits.ImageDeleteOwnerOnly)
	assert.Equal(t, "media", cfg.MinIO.Prefix)
	assert.Equal(t, 15, cfg.MinIO.TimeoutSec)
	assert.Equal(t, "auth_token", cfg.Auth.CookieName)
	assert.Equal(t, 300, cfg.Redis.RatingTTLSec)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestEnvHelpers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		check func(t *testing.T)
	}{
		{name: "string set", value: "value", check: func(t *testing.T) {
			assert.Equal(t, "value", getEnv("CFG_TEST", "default"))
		}},
		{name: "string blank falls back", value: "", check: func(t *testing.T) {
			assert.Equal(t, "default", getEnv("CFG_TEST", "default"))
		}},
		{name: "bool parsed", value: "false", check: func(t *testing.T) {
			assert.False(t, getEnvBool("CFG_TEST", true))
		}},
		{name: "bool malformed falls back", value: "yes please", check: func(t *testing.T) {
			assert.True(t, getEnvBool("CFG_TEST", true))
		}},
		{name: "int parsed", value: "123", check: func(t *testing.T) {
			assert.Equal(t, 123, getEnvInt("CFG_TEST", 0))
		}},
		{name: "int malformed falls back", value: "twelve", check: func(t *testing.T) {
			assert.Equal(t, 10, getEnvInt("CFG_TEST", 10))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CFG_TEST", tt.value)
			tt.check(t)
		})
	}
}
