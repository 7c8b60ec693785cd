package classify

import (
	"sort"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/catalog"
)

// Counts accumulates per-brand match counts for one run. It is an explicit
// accumulator so separate runs and tests never share state.
type Counts struct {
	counts map[string]int64
	order  []string
}

// NewCounts initializes a zero counter for every catalog brand.
func NewCounts(cat *catalog.Catalog) *Counts {
	brands := cat.Brands()
	c := &Counts{
		counts: make(map[string]int64, len(brands)),
		order:  brands,
	}
	for _, b := range brands {
		c.counts[b] = 0
	}
	return c
}

// Inc increments the counter for a canonical brand. Unknown brands are
// ignored; the catalog is the source of truth for names.
func (c *Counts) Inc(brand string) {
	if _, ok := c.counts[brand]; !ok {
		return
	}
	c.counts[brand]++
}

// Get returns the current count for a canonical brand.
func (c *Counts) Get(brand string) int64 {
	return c.counts[brand]
}

// BrandCount is one row of the final count table.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

// Sorted returns every brand with its count, ordered by count descending
// and then by name ascending so ties render reproducibly.
func (c *Counts) Sorted() []BrandCount {
	out := make([]BrandCount, 0, len(c.order))
	for _, b := range c.order {
		out = append(out, BrandCount{Brand: b, Count: c.counts[b]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}
