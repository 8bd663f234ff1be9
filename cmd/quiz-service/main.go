package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"mcquiz/internal/config"
	"mcquiz/internal/genai"
	"mcquiz/internal/history"
	"mcquiz/internal/httpapi"
	"mcquiz/internal/logger"
	"mcquiz/internal/quiz"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := genai.NewClient(
		cfg.Provider.APIKey,
		genai.WithBaseURL(cfg.Provider.BaseURL),
		genai.WithModel(cfg.Provider.Model),
		genai.WithHTTPClient(&http.Client{Timeout: cfg.Provider.Timeout.Std()}),
	)
	generator := quiz.NewGenerator(func(ctx context.Context, topic string, count int, difficulty quiz.Difficulty) (string, error) {
		return provider.GenerateBatch(ctx, topic, count, string(difficulty))
	})

	store, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	recorder, err := newHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer recorder.Close()

	engine := quiz.NewEngine(generator, store, recorder, log)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(engine, recorder, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("quiz-service listening",
			"addr", cfg.Addr,
			"session_backend", cfg.Session.Backend,
			"history_driver", cfg.History.Driver,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}

func newSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (quiz.SessionStore, error) {
	switch strings.ToLower(cfg.Session.Backend) {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return quiz.NewRedisStore(client, cfg.Session.TTL.Std()), nil
	default:
		store := quiz.NewMemoryStore(cfg.Session.TTL.Std())
		store.StartSweeper(ctx, cfg.Session.SweepInterval.Std())
		log.Info("using in-memory session store", "ttl", cfg.Session.TTL.Std().String())
		return store, nil
	}
}

func newHistoryStore(ctx context.Context, cfg *config.Config) (history.Store, error) {
	switch strings.ToLower(cfg.History.Driver) {
	case "postgres":
		return history.NewPostgresStore(ctx, cfg.History.DSN)
	default:
		return history.NewSQLiteStore(cfg.History.DSN)
	}
}
