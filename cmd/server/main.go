package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farm-catalog/internal/analytics"
	"farm-catalog/internal/api"
	"farm-catalog/internal/auth"
	"farm-catalog/internal/config"
	"farm-catalog/internal/database"
	"farm-catalog/internal/logging"
	"farm-catalog/internal/store"
	"farm-catalog/internal/uploads"
	"farm-catalog/internal/whatsapp"
	"farm-catalog/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Printf("server error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	st := store.New(db)
	storage, err := uploads.New(cfg.StaticDir, cfg.UploadDir, cfg.UniqueUploadNames)
	if err != nil {
		return err
	}
	metadata, err := analytics.NewValidator()
	if err != nil {
		return err
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	deps := api.Deps{
		Config:   cfg,
		Log:      logger,
		Store:    st,
		Auth:     auth.NewManager(st, cfg.SecretKey, cfg.SessionTTL, cfg.CookieSecure),
		Uploads:  storage,
		Metadata: metadata,
		Hub:      hub,
	}
	if cfg.WhatsAppAlertsEnabled() {
		deps.Notifier = whatsapp.NewClient(cfg, logger)
		logger.Info("whatsapp inquiry alerts enabled")
	}

	router, err := api.NewRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	stop()
	<-hub.Done()

	logger.Info("server stopped")
	return nil
}
