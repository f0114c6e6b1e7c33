// Package app wires configuration, storage, mail transport and services
// together for the API server and the mailctl command.
package app

import (
	"context"
	"fmt"

	"github.com/ArowuTest/zithara-mail-backend/internal/config"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/zithara-mail-backend/internal/services"
	"github.com/ArowuTest/zithara-mail-backend/internal/views"
	"github.com/ArowuTest/zithara-mail-backend/pkg/distlock"
	"github.com/ArowuTest/zithara-mail-backend/pkg/gemini"
	"github.com/ArowuTest/zithara-mail-backend/pkg/jwt"
	"github.com/ArowuTest/zithara-mail-backend/pkg/mailer"
	mongoclient "github.com/ArowuTest/zithara-mail-backend/pkg/mongodb"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// App holds the long-lived dependencies shared by the entry points.
type App struct {
	Config *config.Config

	Users       *mongodb.UserRepository
	Campaigns   *mongodb.CampaignRepository
	Subscribers *mongodb.SubscriberRepository

	Mail       mailer.Client
	Views      *views.Renderer
	Tokens     *jwt.TokenService
	Dispatcher *services.Dispatcher
	Runner     *services.DispatchRunner

	AuthService       services.AuthService
	CampaignService   *services.CampaignManager
	SubscriberService *services.SubscriberManager
	TrackingService   *services.TrackingRecorder
	ContentService    services.ContentService

	mongo *mongoclient.Client
	redis *redis.Client
}

// SetLogLevel applies the configured level to the global logger.
func SetLogLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warn("Unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// New connects to MongoDB (and Redis when configured) and builds every
// service. Call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	SetLogLevel(cfg.LogLevel)

	mc, err := mongoclient.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)
	db := mc.Database(cfg.MongoDB.Database)

	a := &App{
		Config:      cfg,
		Users:       mongodb.NewUserRepository(db),
		Campaigns:   mongodb.NewCampaignRepository(db),
		Subscribers: mongodb.NewSubscriberRepository(db),
		Tokens:      jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		mongo:       mc,
	}

	if err := a.Users.EnsureIndexes(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("create user indexes: %w", err)
	}
	if err := a.Subscribers.EnsureIndexes(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("create subscriber indexes: %w", err)
	}

	a.Mail, err = mailer.New(ctx, cfg.Mail)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Views, err = views.New()
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("Dispatch guard uses Redis", "addr", cfg.Redis.Addr)
	}
	locker := distlock.NewLocker(a.redis, cfg.Dispatch.LockTTL)

	a.Dispatcher = services.NewDispatcher(a.Campaigns, a.Subscribers, a.Mail,
		services.NewLinkBuilder(cfg.App.BaseURL), a.Views,
		services.DispatchOptions{
			BatchSize:   cfg.Dispatch.BatchSize,
			BatchDelay:  cfg.Dispatch.BatchDelay,
			Concurrency: cfg.Dispatch.Concurrency,
		})
	a.Runner = services.NewDispatchRunner(a.Dispatcher, locker)

	var generator services.ContentGenerator
	if cfg.Gemini.APIKey != "" {
		generator = gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model)
	} else {
		log.Warn("GEMINI_API_KEY is not set, content generation is disabled")
	}

	a.AuthService = services.NewAuthService(a.Users, a.Tokens)
	a.CampaignService = services.NewCampaignManager(a.Campaigns, a.Runner)
	a.SubscriberService = services.NewSubscriberManager(a.Subscribers, a.Campaigns)
	a.TrackingService = services.NewTrackingRecorder(a.Campaigns, a.Subscribers)
	a.ContentService = services.NewContentService(generator)

	return a, nil
}

// Close waits for background dispatches and releases connections.
func (a *App) Close(ctx context.Context) {
	if a.Runner != nil {
		a.Runner.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn("Error closing Redis client", "err", err)
		}
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		log.Warn("Error disconnecting from MongoDB", "err", err)
	}
}
