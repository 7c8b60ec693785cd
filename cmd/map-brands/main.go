package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/catalog"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/classify"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/config"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/match"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/report"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store/sqlite"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/writer"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "Optional YAML config file")
		brandFile  = flag.String("catalog", "", "Brand catalog JSON file")
		corpusFile = flag.String("corpus", "", "Gzip NDJSON corpus file")
		dbPath     = flag.String("db", "", "SQLite database path")
		countsJSON = flag.String("counts-json", "brand_counts.json", "Counts report (JSON)")
		countsMD   = flag.String("counts-md", "brand_counts.md", "Counts report (Markdown)")
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
	if *brandFile != "" {
		cfg.CatalogPath = *brandFile
	}
	if *corpusFile != "" {
		cfg.CorpusPath = *corpusFile
	}
	if *dbPath != "" {
		cfg.SQLitePath = *dbPath
	}
	if err := cfg.ValidateClassify(); err != nil {
		log.Fatal(err)
	}

	cat, err := catalog.Load(cfg.CatalogPath, cfg.CatalogKey)
	if err != nil {
		log.Fatalf("load brands: %v", err)
	}
	if cat.Len() == 0 {
		log.Fatal("no brands found to map")
	}
	log.Printf("Loaded %d brands for mapping.", cat.Len())

	matcher, err := match.Compile(cat)
	if err != nil {
		log.Fatalf("compile brand pattern: %v", err)
	}

	// scanCtx stops the corpus scan on interrupt; writes keep their own
	// context so buffered work can still be drained afterwards.
	scanCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx := context.Background()

	st, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	engine := writer.New(cfg.FlushThreshold, st.InsertBatch, st.InsertOne,
		func(item store.Item) string { return item.Barcode })

	corpus, err := os.Open(cfg.CorpusPath)
	if err != nil {
		log.Fatalf("open corpus: %v", err)
	}
	defer corpus.Close()

	counts := classify.NewCounts(cat)
	classifier := classify.New(matcher)
	classifier.ProgressInterval = int64(cfg.ProgressInterval)
	classifier.Progress = func(scanned, matched int64) {
		log.Printf("Scanned %d records... Found %d matches.", scanned, matched)
	}

	stats, runErr := classifier.Run(scanCtx, corpus, counts, func(p classify.Product) error {
		return engine.Append(ctx, store.Item{
			Barcode:     p.Code,
			BrandName:   p.Brands[0],
			ProductData: p.Raw,
		})
	})

	// Drain even after a scan failure or interrupt so matched-but-unflushed
	// work is not lost.
	if err := engine.Drain(ctx); err != nil {
		log.Printf("drain: %v", err)
	}
	if runErr != nil {
		log.Fatalf("scan failed after %d records: %v", stats.Scanned, runErr)
	}

	log.Printf("Processing complete. Scanned %d, matched %d, committed %d, failed %d.",
		stats.Scanned, stats.Matched, engine.Committed(), len(engine.Failed()))

	rep := report.New(stats, counts)
	if err := rep.WriteJSON(*countsJSON); err != nil {
		log.Fatalf("write counts: %v", err)
	}
	if err := rep.WriteMarkdown(*countsMD); err != nil {
		log.Fatalf("write counts: %v", err)
	}
	log.Printf("Brand counts saved to %s and %s (run %s).", *countsJSON, *countsMD, stats.RunID)
}
