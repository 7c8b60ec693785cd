package main

import (
	"context"
	"flag"
	"log"

	"github.com/AhsanRaza-dev/food-facts/internal/server"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/config"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store/sqlite"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "Optional YAML config file")
		dbPath  = flag.String("db", "", "SQLite database path")
		addr    = flag.String("addr", "", "Listen address")
	)
	flag.Parse()

	cfg := &config.Pipeline{}
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	cfg.ApplyDefaults()
	if *dbPath != "" {
		cfg.SQLitePath = *dbPath
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if cfg.SQLitePath == "" {
		log.Fatal("--db or sqlite_path required")
	}

	ctx := context.Background()
	st, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	router := server.SetupRouter(server.NewHandler(st))
	log.Printf("Barcode lookup service listening on %s", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
