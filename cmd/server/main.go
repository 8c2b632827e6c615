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

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-vault/internal/catalog"
	"github.com/Clark-Hu/movie-vault/internal/config"
	httpserver "github.com/Clark-Hu/movie-vault/internal/http"
	"github.com/Clark-Hu/movie-vault/internal/kvstore"
	"github.com/Clark-Hu/movie-vault/internal/logging"
	"github.com/Clark-Hu/movie-vault/internal/repository"
	"github.com/Clark-Hu/movie-vault/internal/store"
	"github.com/Clark-Hu/movie-vault/internal/vault"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotenv(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("movie vault stopped")
		stop()
		os.Exit(1)
	}
}

// run owns every resource opened after config is loaded, so deferred cleanup
// happens on both failure and shutdown paths.
func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	defer backend.close()

	client, err := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogAPIKey, time.Duration(cfg.CatalogTimeoutSecs)*time.Second, logging.Component(logger, "catalog"))
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}
	trending := catalog.NewTrending(client, cfg.TrendingPicks, cfg.TrendingPerTerm, nil)

	svc := vault.NewService(backend.store, client, trending, logging.Component(logger, "vault"))
	sess, err := svc.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore active session: %w", err)
	}
	if sess != nil {
		logger.Info().Str("email", sess.Email()).Msg("restored active session")
	}

	server := httpserver.New(cfg, svc, backend.health, logging.Component(logger, "http"))

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("movie vault listening")
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	var serveErr error
	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return serveErr
}

type backend struct {
	store  vault.Store
	health httpserver.HealthChecker
	close  func()
}

// openBackend opens the storage adapter selected by STORAGE_DRIVER.
func openBackend(ctx context.Context, cfg config.Config, logger zerolog.Logger) (backend, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		st, err := store.New(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logging.Component(logger, "store"),
		})
		if err != nil {
			return backend{}, err
		}
		if err := store.Migrate(dbCtx, st.Pool()); err != nil {
			st.Close()
			return backend{}, err
		}
		return backend{store: repository.New(st), health: st, close: st.Close}, nil

	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage; accounts are lost on restart")
		return backend{store: vault.NewMemoryStore(), close: func() {}}, nil

	default:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return backend{}, fmt.Errorf("create data dir: %w", err)
		}
		kv, err := kvstore.Open(cfg.DataDir, logging.Component(logger, "kvstore"))
		if err != nil {
			return backend{}, err
		}
		closeKV := func() {
			if err := kv.Close(); err != nil {
				logger.Error().Err(err).Msg("close kvstore")
			}
		}
		return backend{store: kv, health: kv, close: closeKV}, nil
	}
}
