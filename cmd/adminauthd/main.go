// Command adminauthd runs the administration authentication server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prismacost/adminauth"
	"github.com/prismacost/adminauth/httpapi"
	"github.com/prismacost/adminauth/internal/appconfig"
	"github.com/prismacost/adminauth/pgstore"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := appconfig.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := pgstore.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RunMigrations(ctx); err != nil {
		return err
	}
	logger.Info("migrations applied")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}

	sink, closeSink, err := buildAuditSink(store, cfg.AuditLogPath, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	engine, err := adminauth.New().
		WithConfig(defaultedEngineConfig(cfg)).
		WithRedis(redisClient).
		WithAccountProvider(store).
		WithAuditSink(sink).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.NewServer(engine, store, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func defaultedEngineConfig(cfg *appconfig.Config) adminauth.Config {
	out := adminauth.DefaultConfig()
	out.Token.Secret = []byte(cfg.TokenSecret)
	out.Token.Lifetime = cfg.TokenLifetime
	out.MFALogin.ChallengeTTL = cfg.MFAChallengeTTL
	out.MFALogin.MaxAttempts = cfg.MFAMaxAttempts
	return out
}

// buildAuditSink returns the durable sink, optionally mirrored to a JSONL
// file for local inspection.
func buildAuditSink(store *pgstore.Store, path string, logger *slog.Logger) (adminauth.AuditSink, func(), error) {
	dbSink := pgstore.NewAuditSink(store, logger)
	if path == "" {
		return dbSink, func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	fileSink := adminauth.NewJSONWriterSink(file)
	return teeSink{dbSink, fileSink}, func() { _ = file.Close() }, nil
}

type teeSink []adminauth.AuditSink

func (t teeSink) Emit(ctx context.Context, record adminauth.AuditRecord) {
	for _, sink := range t {
		sink.Emit(ctx, record)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
