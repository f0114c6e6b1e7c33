package config

import (
	"testing"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Dispatch.BatchSize)
	assert.Equal(t, time.Second, cfg.Dispatch.BatchDelay)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, "smtp", cfg.Mail.Provider)
	assert.Equal(t, "gmail", cfg.Mail.Service)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadLegacyEnvironmentNames(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("EMAIL_USER", "sender@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	t.Setenv("DISPATCH_BATCH_SIZE", "20")
	t.Setenv("DISPATCH_BATCH_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.MongoDB.URI)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "sender@example.com", cfg.Mail.Username)
	assert.Equal(t, "app-password", cfg.Mail.Password)
	assert.Equal(t, "sender@example.com", cfg.Mail.From, "From falls back to the SMTP user")
	assert.Equal(t, "https://api.example.com", cfg.App.BaseURL)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedHosts)
	assert.Equal(t, 20, cfg.Dispatch.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Dispatch.BatchDelay)
	assert.NoError(t, cfg.ValidateServer())
}

func TestValidateServerRequiresSecret(t *testing.T) {
	cfg := &Config{MongoDB: MongoDBConfig{URI: "mongodb://localhost"}}
	assert.NoError(t, cfg.Validate())

	err := cfg.ValidateServer()
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateRequiresMongoURI(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}
