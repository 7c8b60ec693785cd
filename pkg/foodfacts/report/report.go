// Package report renders the final per-brand count tables.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/classify"
)

// Report is the rendered outcome of one classification run.
type Report struct {
	RunID        string                `json:"run_id"`
	TotalScanned int64                 `json:"total_scanned"`
	TotalMatched int64                 `json:"total_matched"`
	Counts       []classify.BrandCount `json:"counts"`
}

// New assembles a report from run stats and the sorted count table.
func New(stats classify.Stats, counts *classify.Counts) Report {
	return Report{
		RunID:        stats.RunID,
		TotalScanned: stats.Scanned,
		TotalMatched: stats.Matched,
		Counts:       counts.Sorted(),
	}
}

// WriteJSON writes the full report, including zero-count brands.
func (r Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// WriteMarkdown writes the two-column count table, omitting zero-count
// brands.
func (r Report) WriteMarkdown(path string) error {
	var b strings.Builder
	b.WriteString("# Brand Product Counts\n\n")
	fmt.Fprintf(&b, "Total Matched Products: %d\n\n", r.TotalMatched)
	b.WriteString("| Brand | Count |\n")
	b.WriteString("|-------|-------|\n")
	for _, row := range r.Counts {
		if row.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d |\n", row.Brand, row.Count)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
