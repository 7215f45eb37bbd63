// Command jackofalltweets serves the friend browser.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	twitter "github.com/anatolykoptev/jackofalltweets"
	"github.com/anatolykoptev/jackofalltweets/config"
	"github.com/anatolykoptev/jackofalltweets/metrics"
	"github.com/anatolykoptev/jackofalltweets/session"
	"github.com/anatolykoptev/jackofalltweets/web"
	"github.com/gin-gonic/gin"
)

const purgeInterval = time.Hour

func main() {
	configDir := flag.String("config", "config", "directory holding application.yml and .env files")
	flag.Parse()

	if err := run(*configDir); err != nil {
		slog.Error("jackofalltweets stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configDir string) error {
	config.LoadDotEnvs(".")
	settings, err := config.Load(configDir, config.Env())
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logger := newLogger(os.Stderr, settings.Log)
	slog.SetDefault(logger)
	if settings.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, settings.Session, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	server, err := web.New(web.Options{
		Settings: settings,
		Sessions: session.NewManager(store, session.Options{
			CookieName: settings.Session.CookieName,
			TTL:        settings.Session.TTL,
			Secure:     settings.Session.Secure,
			Logger:     logger,
		}),
		Twitter: twitter.ClientConfig{
			BaseURL:     settings.Twitter.BaseURL,
			Timeout:     settings.Twitter.Timeout,
			Transport:   transportOf(settings.Twitter.Transport),
			Proxy:       settings.Twitter.Proxy,
			Logger:      logger,
			MetricsHook: m.RecordAPICall,
		},
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", settings.Addr), slog.String("env", settings.Env))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func transportOf(name string) twitter.Transport {
	if name == "stealth" {
		return twitter.TransportStealth
	}
	return twitter.TransportHTTP
}

// openStore opens the configured session backend. Backends that keep
// expired rows are purged in the background until ctx ends.
func openStore(ctx context.Context, cfg config.SessionConfig, logger *slog.Logger) (session.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		store, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "sqlite":
		store, err := session.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		go purge(ctx, logger, func() (int64, error) { return store.Purge(ctx) })
		return store, func() { store.Close() }, nil
	default:
		store := session.NewMemoryStore()
		go purge(ctx, logger, func() (int64, error) { return int64(store.Purge()), nil })
		return store, func() {}, nil
	}
}

func purge(ctx context.Context, logger *slog.Logger, fn func() (int64, error)) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := fn()
			if err != nil {
				logger.Warn("session purge failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.Debug("purged expired sessions", slog.Int64("count", n))
			}
		}
	}
}
