package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/internalerr"
)

// Pipeline holds every setting for a classification or migration run.
type Pipeline struct {
	CatalogPath string `yaml:"catalog_path"`
	CatalogKey  string `yaml:"catalog_key"`
	CorpusPath  string `yaml:"corpus_path"`

	SQLitePath string `yaml:"sqlite_path"`

	FlushThreshold   int `yaml:"flush_threshold"`
	ProgressInterval int `yaml:"progress_interval"`
	PageSize         int `yaml:"page_size"`

	DocStore DocStore `yaml:"docstore"`
	Server   Server   `yaml:"server"`
}

// DocStore configures the S3-compatible document destination.
type DocStore struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	Collection string `yaml:"collection"`
	UseSSL     bool   `yaml:"use_ssl"`
	Region     string `yaml:"region"`
}

// Server configures the barcode lookup service.
type Server struct {
	Addr string `yaml:"addr"`
}

// Defaults mirror the original pipeline's constants.
const (
	DefaultCatalogKey       = "grocery_brands_pakistan"
	DefaultFlushThreshold   = 1000
	DefaultProgressInterval = 50000
	DefaultPageSize         = 50
	DefaultCollection       = "products"
	DefaultServerAddr       = ":5000"
)

// Load reads a pipeline configuration from a YAML file and fills defaults.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Pipeline
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero-valued settings with pipeline defaults.
func (c *Pipeline) ApplyDefaults() {
	if c.CatalogKey == "" {
		c.CatalogKey = DefaultCatalogKey
	}
	if c.FlushThreshold <= 0 {
		c.FlushThreshold = DefaultFlushThreshold
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = DefaultProgressInterval
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.DocStore.Collection == "" {
		c.DocStore.Collection = DefaultCollection
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// ValidateClassify checks the settings the classification run depends on.
func (c *Pipeline) ValidateClassify() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("%w: catalog_path is required", internalerr.ErrInvalidConfig)
	}
	if c.CorpusPath == "" {
		return fmt.Errorf("%w: corpus_path is required", internalerr.ErrInvalidConfig)
	}
	if c.SQLitePath == "" {
		return fmt.Errorf("%w: sqlite_path is required", internalerr.ErrInvalidConfig)
	}
	return nil
}

// ValidateMigrate checks the settings the migration run depends on.
func (c *Pipeline) ValidateMigrate() error {
	if c.SQLitePath == "" {
		return fmt.Errorf("%w: sqlite_path is required", internalerr.ErrInvalidConfig)
	}
	if c.DocStore.Endpoint == "" {
		return fmt.Errorf("%w: docstore.endpoint is required", internalerr.ErrInvalidConfig)
	}
	if c.DocStore.Bucket == "" {
		return fmt.Errorf("%w: docstore.bucket is required", internalerr.ErrInvalidConfig)
	}
	return nil
}
