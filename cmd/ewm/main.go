package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewm-platform/ewm/internal/config"
	"github.com/ewm-platform/ewm/internal/infrastructure/postgres"
	"github.com/ewm-platform/ewm/internal/infrastructure/redis"
	"github.com/ewm-platform/ewm/internal/logger"
	"github.com/ewm-platform/ewm/internal/service"
	"github.com/ewm-platform/ewm/internal/statsclient"
	"github.com/ewm-platform/ewm/internal/transport/rest"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	logger.Init()
	log := zlog.With().
		Str("service", "ewm-main-service").
		Str("env", cfg.AppEnv).
		Logger()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(rootCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	log.Info().Msg("postgres connected")

	cache := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	{
		pingCtx, cancel := context.WithTimeout(rootCtx, 2*time.Second)
		defer cancel()
		if err := cache.Client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed (continuing, limiter fails open)")
		} else {
			log.Info().Msg("redis connected")
		}
	}

	svc := service.New(service.Deps{
		Events:       postgres.NewEventRepo(pool),
		Requests:     postgres.NewRequestRepo(pool),
		Categories:   postgres.NewCategoryRepo(pool),
		Users:        postgres.NewUserRepo(pool),
		Compilations: postgres.NewCompilationRepo(pool),
		Comments:     postgres.NewCommentRepo(pool),
		Stats:        statsclient.New(cfg.StatsURL, cfg.StatsAppName),
		Clock:        service.SystemClock{},
	})

	deps := rest.RouterDeps{Handler: rest.NewHandler(svc)}
	if cfg.RLEnabled {
		deps.Limiter = cache
		deps.RLLimit = cfg.RLLimit
		deps.RLWindow = cfg.RLWindow
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           rest.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}
