package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/config"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/docstore/s3"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/migrate"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store/sqlite"
)

func main() {
	var (
		cfgPath = flag.String("config", "config.yaml", "YAML config file")
		dbPath  = flag.String("db", "", "SQLite database path (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dbPath != "" {
		cfg.SQLitePath = *dbPath
	}
	if err := cfg.ValidateMigrate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer src.Close()

	dst, err := s3.New(ctx, cfg.DocStore)
	if err != nil {
		log.Fatalf("open docstore: %v", err)
	}

	log.Printf("Connected to SQLite and %s. Starting migration...", cfg.DocStore.Endpoint)
	start := time.Now()

	m := migrate.New(src, dst)
	m.PageSize = cfg.PageSize
	m.Progress = func(migrated int64) {
		log.Printf("Migrated %d records... (%.2fs elapsed)", migrated, time.Since(start).Seconds())
	}

	res, err := m.Run(ctx)
	if err != nil {
		log.Fatalf("migration failed after %d pages: %v", res.Pages, err)
	}

	log.Printf("Migration finished (run %s). Total documents uploaded: %d, failed: %d.",
		res.RunID, res.Migrated, len(res.Failed))
	for _, barcode := range res.Failed {
		log.Printf("failed document: %s", barcode)
	}
}
