package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/api/routes"
	"github.com/ArowuTest/zithara-mail-backend/internal/app"
	"github.com/ArowuTest/zithara-mail-backend/internal/config"
	"github.com/ArowuTest/zithara-mail-backend/internal/handlers"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize application", "err", err)
	}

	router := routes.SetupRouter(cfg, routes.Handlers{
		Auth:       handlers.NewAuthHandler(a.AuthService),
		Campaign:   handlers.NewCampaignHandler(a.CampaignService),
		Subscriber: handlers.NewSubscriberHandler(a.SubscriberService, a.Views),
		Tracking:   handlers.NewTrackingHandler(a.TrackingService),
		Content:    handlers.NewContentHandler(a.ContentService),
	}, a.Tokens)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "mailProvider", cfg.Mail.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "err", err)
	}

	// in-flight dispatches finish before the connections close
	log.Info("Waiting for running dispatches")
	a.Close(context.Background())
	log.Info("Server exiting")
}
