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

	"github.com/gin-gonic/gin"
	"github.com/yourname/blackholeescape/internal"
	"github.com/yourname/blackholeescape/internal/api"
	"github.com/yourname/blackholeescape/internal/cache"
	"github.com/yourname/blackholeescape/internal/config"
	"github.com/yourname/blackholeescape/internal/intra"
	"github.com/yourname/blackholeescape/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := storage.NewRepositories(ctx, cfg.DBType, cfg.DBDSN, cfg.FileSchedules, cfg.FileSuggestions, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.Errorf("failed to close storage: %v", err)
		}
	}()

	deps := &api.Deps{Log: logger, Repos: repos, Cache: cache.Noop{}}

	if cfg.IntraEnabled() {
		deps.IntraAPI = intra.New(context.Background(), intra.Config{
			BaseURL:      cfg.IntraBaseURL,
			ClientID:     cfg.FTClientID,
			ClientSecret: cfg.FTClientSecret,
			RateLimit:    cfg.IntraRateLimit,
		}, logger)
	} else {
		logger.Warn("FT_CLIENT_ID/FT_CLIENT_SECRET not set, /api/escape is disabled")
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL, cfg.StatusCacheTTL)
		if err != nil {
			logger.Fatalf("failed to init status cache: %v", err)
		}
		if err := rc.Ping(ctx); err != nil {
			logger.Warnf("redis not reachable, continuing without status cache: %v", err)
		} else {
			deps.Cache = rc
		}
		defer rc.Close()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server running on %s (storage=%s)", cfg.HTTPAddr, cfg.DBType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
