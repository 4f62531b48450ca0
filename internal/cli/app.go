package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/campus-hub/campus-student-hub/config"
	"github.com/campus-hub/campus-student-hub/internal/application/chat"
	"github.com/campus-hub/campus-student-hub/internal/application/notificationcenter"
	"github.com/campus-hub/campus-student-hub/internal/application/sessionmgr"
	"github.com/campus-hub/campus-student-hub/internal/domain/session"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/external/assistant"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/external/campus"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/messaging"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/persistence/memory"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/persistence/postgres"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/persistence/redis"
	"github.com/campus-hub/campus-student-hub/pkg/logger"
	"github.com/campus-hub/campus-student-hub/pkg/retry"
	"github.com/campus-hub/campus-student-hub/pkg/secrets"
)

// app bundles everything a command needs: configuration, the persistence
// store, the external clients and the application services built on them.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	slog      *slog.Logger
	store     session.Store
	manager   *sessionmgr.Manager
	assistant *assistant.Client
	center    *notificationcenter.Center
	bus       *messaging.InMemoryEventBus

	closers []func()
}

// newApp builds the full object graph and restores any persisted session.
// Every command starts here; the process is short-lived, so restore runs on
// each invocation.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{
		cfg:  cfg,
		log:  setupCLILogger(cfg),
		slog: setupSlog(cfg),
	}

	a.store, err = a.buildStore(ctx)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect store: %w", err)
	}

	var box *secrets.Box
	if cfg.Secrets.Passphrase != "" {
		box, err = secrets.NewBox(cfg.Secrets.Passphrase)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("snapshot sealing: %w", err)
		}
	}

	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = a.slog
	a.bus = messaging.NewInMemoryEventBus(busCfg)
	a.closers = append(a.closers, func() { _ = a.bus.Close() })

	campusCfg := campus.DefaultClientConfig(cfg.Campus.BaseURL)
	campusCfg.Timeout = cfg.Campus.RequestTimeout
	campusCfg.Logger = a.slog
	campusCfg.Debug = cfg.App.Debug
	campusClient := campus.NewClient(campusCfg)

	assistantCfg := assistant.DefaultClientConfig(cfg.Assistant.BaseURL)
	assistantCfg.Timeout = cfg.Assistant.RequestTimeout
	assistantCfg.Logger = a.slog
	assistantCfg.Debug = cfg.App.Debug
	a.assistant = assistant.NewClient(assistantCfg)

	a.manager = sessionmgr.New(sessionmgr.Config{
		API:    campusClient,
		Store:  a.store,
		Bus:    a.bus,
		Box:    box,
		Logger: a.slog,
	})
	if err := a.manager.Restore(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	a.center = notificationcenter.New(notificationcenter.Config{
		Feed:   a.assistant,
		Store:  a.store,
		Bus:    a.bus,
		Logger: a.slog,
	})

	return a, nil
}

// newOrchestrator builds a conversation for the chat command. Conversations
// are per-process and never persisted.
func (a *app) newOrchestrator() *chat.Orchestrator {
	return chat.New(chat.Config{
		API:    a.assistant,
		Bus:    a.bus,
		Logger: a.slog,
	})
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildStore connects the configured persistence backend. Connectivity is
// the one place the system retries: a store that is still starting up gets
// a few attempts before the command gives up.
func (a *app) buildStore(ctx context.Context) (session.Store, error) {
	retryOpts := []retry.Option{
		retry.WithMaxAttempts(a.cfg.Store.ConnectAttempts),
		retry.WithInitialDelay(a.cfg.Store.ConnectDelay),
		retry.WithRetryIf(func(error) bool { return true }),
		retry.WithOnRetry(func(attempt int, err error, _ time.Duration) {
			a.slog.Warn("store connect retry", "attempt", attempt, "error", err)
		}),
	}

	switch a.cfg.Store.Backend {
	case config.StoreRedis:
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = a.cfg.Store.RedisHost
		redisCfg.Port = a.cfg.Store.RedisPort
		redisCfg.Password = a.cfg.Store.RedisPassword
		redisCfg.DB = a.cfg.Store.RedisDB
		redisCfg.PoolSize = a.cfg.Store.RedisPoolSize
		redisCfg.Namespace = a.cfg.Store.Namespace

		var cache *redis.Cache
		err := retry.Do(ctx, func(ctx context.Context) error {
			var connErr error
			cache, connErr = redis.NewCache(redisCfg)
			return connErr
		}, retryOpts...)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = cache.Close() })
		return redis.NewStore(cache), nil

	case config.StorePostgres:
		var store *postgres.Store
		err := retry.Do(ctx, func(ctx context.Context) error {
			conn, connErr := postgres.NewConnectionFromURLTuned(ctx,
				a.cfg.Store.DatabaseURL,
				int32(a.cfg.Store.MaxConns),
				int32(a.cfg.Store.MinConns),
				a.cfg.Store.ConnMaxLifetime,
			)
			if connErr != nil {
				return connErr
			}
			store, connErr = postgres.NewStore(ctx, conn)
			if connErr != nil {
				conn.Close()
				return connErr
			}
			a.closers = append(a.closers, conn.Close)
			return nil
		}, retryOpts...)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		// Development fallback; nothing survives the process.
		return memory.NewStore(), nil
	}
}

// setupSlog builds the structured logger handed to infrastructure and
// application components. CLI output itself goes to stdout; logs go to
// stderr so piping command output stays clean.
func setupSlog(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	} else if !cfg.IsDevelopment() {
		opts.Level = slog.LevelWarn
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" && !cfg.IsDevelopment() {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// setupCLILogger builds the command-level logger.
func setupCLILogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Output = os.Stderr
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}
