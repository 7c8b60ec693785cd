package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

// Default export: the full OpenFoodFacts product dump.
const defaultURL = "https://static.openfoodfacts.org/data/openfoodfacts-products.jsonl.gz"

// progressWriter logs a line every chunk of downloaded bytes.
type progressWriter struct {
	written int64
	next    int64
	step    int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.written >= p.next {
		log.Printf("Downloaded %d MB...", p.written/(1024*1024))
		p.next += p.step
	}
	return len(b), nil
}

func main() {
	var (
		url = flag.String("url", defaultURL, "Corpus export URL")
		out = flag.String("out", "openfoodfacts-products.jsonl.gz", "Output file")
	)
	flag.Parse()

	log.Printf("Downloading %s...", *url)

	resp, err := http.Get(*url)
	if err != nil {
		log.Fatalf("download: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("download: HTTP %d", resp.StatusCode)
	}

	outFile, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create output file: %v", err)
	}
	defer outFile.Close()

	progress := &progressWriter{step: 100 * 1024 * 1024, next: 100 * 1024 * 1024}
	written, err := io.Copy(io.MultiWriter(outFile, progress), resp.Body)
	if err != nil {
		log.Fatalf("download interrupted after %d bytes: %v", written, err)
	}

	fmt.Printf("Saved %d bytes to %s\n", written, *out)
}
