package config

import (
	"errors"
	"strings"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Mail     MailConfig
	App      AppConfig
	Dispatch DispatchConfig
	Redis    RedisConfig
	Gemini   GeminiConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// MailConfig selects and configures the delivery provider.
type MailConfig struct {
	Provider string // smtp, ses or mock
	Service  string // well-known SMTP service name, e.g. gmail
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	SES      SESConfig
}

// SESConfig holds Amazon SES credentials.
type SESConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

// AppConfig holds the public base URL used in tracking and unsubscribe links.
type AppConfig struct {
	BaseURL string
}

// DispatchConfig tunes campaign sending.
type DispatchConfig struct {
	BatchSize   int
	BatchDelay  time.Duration
	Concurrency int
	LockTTL     time.Duration
}

// RedisConfig enables the shared dispatch guard when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GeminiConfig holds the text-generation API settings.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// envBindings maps config keys to the environment names used by existing
// deployments.
var envBindings = map[string]string{
	"Server.Port":          "PORT",
	"Server.AllowedHosts":  "FRONTEND_URL",
	"MongoDB.URI":          "MONGO_URI",
	"MongoDB.Database":     "MONGO_DB",
	"JWT.Secret":           "JWT_SECRET",
	"JWT.ExpiresIn":        "JWT_EXPIRES_IN",
	"Mail.Provider":        "MAIL_PROVIDER",
	"Mail.Service":         "EMAIL_SERVICE",
	"Mail.Host":            "EMAIL_HOST",
	"Mail.Port":            "EMAIL_PORT",
	"Mail.Username":        "EMAIL_USER",
	"Mail.Password":        "EMAIL_PASSWORD",
	"Mail.From":            "EMAIL_FROM",
	"Mail.FromName":        "EMAIL_FROM_NAME",
	"Mail.SES.Region":      "AWS_REGION",
	"Mail.SES.AccessKey":   "AWS_ACCESS_KEY_ID",
	"Mail.SES.SecretKey":   "AWS_SECRET_ACCESS_KEY",
	"App.BaseURL":          "BACKEND_URL",
	"Dispatch.BatchSize":   "DISPATCH_BATCH_SIZE",
	"Dispatch.BatchDelay":  "DISPATCH_BATCH_DELAY",
	"Dispatch.Concurrency": "DISPATCH_CONCURRENCY",
	"Dispatch.LockTTL":     "DISPATCH_LOCK_TTL",
	"Redis.Addr":           "REDIS_ADDR",
	"Redis.Password":       "REDIS_PASSWORD",
	"Redis.DB":             "REDIS_DB",
	"Gemini.APIKey":        "GEMINI_API_KEY",
	"Gemini.Model":         "GEMINI_MODEL",
	"Gemini.BaseURL":       "GEMINI_BASE_URL",
	"LogLevel":             "LOG_LEVEL",
}

// Load loads configuration from .env, an optional config file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(GetEnv("ENV_FILE", ".env"))

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "5000")
	v.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	v.SetDefault("MongoDB.Database", "zithara")
	v.SetDefault("JWT.ExpiresIn", 30*24*time.Hour)
	v.SetDefault("Mail.Provider", "smtp")
	v.SetDefault("Mail.Service", "gmail")
	v.SetDefault("Mail.FromName", "Zithara Mail")
	v.SetDefault("App.BaseURL", "http://localhost:5000")
	v.SetDefault("Dispatch.BatchSize", 50)
	v.SetDefault("Dispatch.BatchDelay", time.Second)
	v.SetDefault("Dispatch.Concurrency", 10)
	v.SetDefault("Dispatch.LockTTL", 2*time.Hour)
	v.SetDefault("Gemini.Model", "gemini-2.0-flash")
	v.SetDefault("Gemini.BaseURL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("LogLevel", "info")
}

func (c *Config) normalize() {
	c.App.BaseURL = strings.TrimRight(c.App.BaseURL, "/")
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}
	if c.Dispatch.BatchSize <= 0 {
		c.Dispatch.BatchSize = 50
	}
	if c.Dispatch.Concurrency <= 0 {
		c.Dispatch.Concurrency = 1
	}
	if c.Dispatch.BatchDelay < 0 {
		c.Dispatch.BatchDelay = 0
	}
}

// Validate checks the settings every process needs.
func (c *Config) Validate() error {
	if c.MongoDB.URI == "" {
		return apperrors.NewConfigurationError("MONGO_URI", nil)
	}
	return nil
}

// ValidateServer additionally checks settings the HTTP API cannot run without.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.JWT.Secret == "" {
		return apperrors.NewConfigurationError("JWT_SECRET", nil)
	}
	return nil
}
