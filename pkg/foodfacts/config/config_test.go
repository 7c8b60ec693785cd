package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/internalerr"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
catalog_path: brand.json
corpus_path: products.jsonl.gz
sqlite_path: products.db
docstore:
  endpoint: localhost:9000
  bucket: foodfacts
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.CatalogKey != DefaultCatalogKey {
		t.Errorf("catalog key = %q", cfg.CatalogKey)
	}
	if cfg.FlushThreshold != DefaultFlushThreshold {
		t.Errorf("flush threshold = %d", cfg.FlushThreshold)
	}
	if cfg.ProgressInterval != DefaultProgressInterval {
		t.Errorf("progress interval = %d", cfg.ProgressInterval)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("page size = %d", cfg.PageSize)
	}
	if cfg.DocStore.Collection != DefaultCollection {
		t.Errorf("collection = %q", cfg.DocStore.Collection)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
catalog_key: brands
flush_threshold: 250
page_size: 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.CatalogKey != "brands" || cfg.FlushThreshold != 250 || cfg.PageSize != 10 {
		t.Errorf("explicit values overridden: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestValidateClassify(t *testing.T) {
	cfg := &Pipeline{}
	cfg.ApplyDefaults()

	err := cfg.ValidateClassify()
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	cfg.CatalogPath = "brand.json"
	cfg.CorpusPath = "products.jsonl.gz"
	cfg.SQLitePath = "products.db"
	if err := cfg.ValidateClassify(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateMigrate(t *testing.T) {
	cfg := &Pipeline{SQLitePath: "products.db"}
	cfg.ApplyDefaults()

	if err := cfg.ValidateMigrate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	cfg.DocStore.Endpoint = "localhost:9000"
	cfg.DocStore.Bucket = "foodfacts"
	if err := cfg.ValidateMigrate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
