package classify

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/oklog/ulid/v2"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/match"
)

// OpenFoodFacts lines routinely exceed the default bufio limit.
const maxLineBytes = 16 * 1024 * 1024

// Product is one matched record emitted downstream. Raw holds the original
// line verbatim so persistence never re-encodes the payload.
type Product struct {
	Code   string
	Brands []string
	Raw    []byte
}

// Stats summarizes one classification run.
type Stats struct {
	RunID   string
	Scanned int64
	Matched int64
}

// Classifier streams a gzip NDJSON corpus through the brand matcher.
type Classifier struct {
	matcher *match.Matcher
	entropy *ulid.MonotonicEntropy

	// ProgressInterval controls how often Progress fires, in scanned lines.
	ProgressInterval int64
	// Progress observes the scan; it is not part of the correctness contract.
	Progress func(scanned, matched int64)
}

// New creates a classifier over a compiled matcher.
func New(m *match.Matcher) *Classifier {
	return &Classifier{
		matcher:          m,
		entropy:          ulid.Monotonic(rand.Reader, 0),
		ProgressInterval: 50000,
	}
}

// lineProbe pulls only the fields classification needs out of a record.
type lineProbe struct {
	Code   any    `json:"code"`
	Brands string `json:"brands"`
}

// Run decompresses src, reads one line at a time, classifies each parsed
// record, and calls emit for every record with a non-empty match set.
// Malformed lines are skipped and counted as scanned. Counts are
// incremented once per matching record per brand. An emit error aborts the
// run; context cancellation stops the scan and returns stats without error
// so the caller can drain buffered work.
func (c *Classifier) Run(ctx context.Context, src io.Reader, counts *Counts, emit func(Product) error) (Stats, error) {
	stats := Stats{RunID: ulid.MustNew(ulid.Now(), c.entropy).String()}

	gz, err := gzip.NewReader(src)
	if err != nil {
		return stats, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return stats, nil
		default:
		}

		line := scanner.Bytes()
		stats.Scanned++
		if c.Progress != nil && c.ProgressInterval > 0 && stats.Scanned%c.ProgressInterval == 0 {
			c.Progress(stats.Scanned, stats.Matched)
		}

		if len(line) == 0 {
			continue
		}

		var probe lineProbe
		if err := json.Unmarshal(line, &probe); err != nil {
			continue
		}
		if probe.Brands == "" {
			continue
		}

		brands := c.matcher.FindBrands(probe.Brands)
		if len(brands) == 0 {
			continue
		}
		for _, b := range brands {
			counts.Inc(b)
		}
		stats.Matched++

		raw := make([]byte, len(line))
		copy(raw, line)

		if err := emit(Product{
			Code:   codeString(probe.Code),
			Brands: brands,
			Raw:    raw,
		}); err != nil {
			return stats, fmt.Errorf("emit record %d: %w", stats.Scanned, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read corpus: %w", err)
	}
	return stats, nil
}

// codeString normalizes the barcode field, which some records carry as a
// bare number.
func codeString(v any) string {
	switch code := v.(type) {
	case string:
		return code
	case float64:
		return strconv.FormatFloat(code, 'f', -1, 64)
	case json.Number:
		return code.String()
	default:
		return ""
	}
}
