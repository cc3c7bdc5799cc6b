package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pocat/internal/bot"
	"pocat/internal/catalog"
	"pocat/internal/config"
	"pocat/internal/configurator"
	"pocat/internal/httpapi"
	"pocat/internal/storage"
	redisstorage "pocat/internal/storage/redis"
	"pocat/pkg/api"
	"pocat/pkg/logger"
	"pocat/pkg/redis"
)

// ENTRY POINT

const purgeInterval = time.Hour

var newTelegramBot = bot.New

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Error("Service stopped with error", zap.Error(err))
		cancel()
		_ = zapLogger.Sync()
		os.Exit(1)
	}
	zapLogger.Info("Service shutdown gracefully")
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) error {
	engine := configurator.NewEngine(catalog.Default(), zapLogger)

	var (
		draftStore configurator.DraftStore
		states     bot.StateStore = bot.NewMemoryStateStore()
		limiter    *redisstorage.RateLimiter
	)

	if cfg.DraftBackend != config.DraftBackendMemory {
		redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}

		redisStore := redisstorage.New(redisClient, cfg.DraftTTL)
		draftStore = redisStore
		states = redisStore
		limiter = redisstorage.NewRateLimiter(redisClient, "orders", cfg.Orders.SubmitLimit, cfg.Orders.SubmitWindow)
	}

	switch cfg.DraftBackend {
	case config.DraftBackendPostgres:
		pgStorage, err := storage.NewPostgresStorage(ctx, cfg.Database, zapLogger)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pgStorage.Close()

		if err := storage.RunMigrations(ctx, pgStorage.DB(), zapLogger); err != nil {
			return err
		}
		go pgStorage.RunPurger(ctx, cfg.DraftTTL, purgeInterval)
		draftStore = pgStorage
	case config.DraftBackendMemory:
		zapLogger.Warn("Using in-memory drafts, nothing survives a restart")
		draftStore = configurator.NewMemoryDraftStore()
	}
	drafts := configurator.NewDrafts(draftStore, zapLogger)

	var submitter configurator.Submitter = configurator.SimulatedSubmitter{Prefix: cfg.Orders.Prefix}
	if cfg.Orders.APIBaseURL != "" {
		submitter = api.NewClient(cfg.Orders.APIBaseURL, cfg.Orders.APIKey, zapLogger,
			api.WithHTTPClient(&http.Client{Timeout: cfg.Orders.RequestTimeout}))
	} else {
		zapLogger.Info("No order API configured, orders are confirmed locally")
	}

	// A nil *RateLimiter must not become a non-nil interface.
	var httpLimiter httpapi.RateLimiter
	var botLimiter bot.RateLimiter
	if limiter != nil {
		httpLimiter = limiter
		botLimiter = limiter
	}

	handler := httpapi.NewHandler(engine, drafts, submitter, httpLimiter, zapLogger)
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpapi.NewRouter(handler, cfg.HTTP.AllowedOrigins),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Telegram.Token != "" {
		tgBot, err := newTelegramBot(cfg.Telegram.Token, cfg.Telegram.Debug, bot.Deps{
			Engine:    engine,
			Drafts:    drafts,
			Submitter: submitter,
			States:    states,
			Limiter:   botLimiter,
		}, zapLogger)
		if err != nil {
			errCh <- fmt.Errorf("bot: %w", err)
		} else {
			go func() {
				if err := tgBot.Start(ctx); err != nil {
					errCh <- fmt.Errorf("bot: %w", err)
				}
			}()
		}
	} else {
		zapLogger.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	return runErr
}
