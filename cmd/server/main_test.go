package main

import (
	"context"
	"strings"
	"testing"

	"github.com/Clark-Hu/movie-vault/internal/config"
	"github.com/Clark-Hu/movie-vault/internal/kvstore"
	"github.com/Clark-Hu/movie-vault/internal/logging"
)

func TestRunClosesBackendOnStartupFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Port:               "0",
		StorageDriver:      config.StorageBadger,
		DataDir:            dir,
		CatalogURL:         "not-absolute",
		CatalogAPIKey:      "k",
		CatalogTimeoutSecs: 1,
		TrendingPicks:      1,
		TrendingPerTerm:    1,
	}

	err := run(context.Background(), cfg, logging.Nop())
	if err == nil || !strings.Contains(err.Error(), "catalog") {
		t.Fatalf("run() error = %v, want catalog init failure", err)
	}

	// Badger holds a directory lock until closed.
	kv, err := kvstore.Open(dir, logging.Nop())
	if err != nil {
		t.Fatalf("reopen data dir after failed run: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenBackendMemory(t *testing.T) {
	b, err := openBackend(context.Background(), config.Config{StorageDriver: config.StorageMemory}, logging.Nop())
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	defer b.close()
	if b.store == nil || b.health != nil {
		t.Fatalf("memory backend = %+v", b)
	}
}
