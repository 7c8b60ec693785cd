package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Catalog is the immutable set of canonical brand names loaded from the
// brand file, with a lower-cased index for case-insensitive lookup.
type Catalog struct {
	brands []string
	index  map[string]string
}

// Load reads the brand file and extracts the named list field. A missing or
// unreadable file is an error; a file without the list key yields an empty
// catalog (callers must treat that as fatal before classification).
func Load(path, key string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brand file %s: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse brand file %s: %w", path, err)
	}

	var names []string
	if raw, ok := doc[key]; ok {
		if err := json.Unmarshal(raw, &names); err != nil {
			return nil, fmt.Errorf("brand list %q in %s: %w", key, path, err)
		}
	}

	return New(names), nil
}

// New builds a catalog from raw brand names, trimming whitespace and
// dropping entries that are empty after trimming. Later duplicates of the
// same lower-cased key are ignored so each key maps to one canonical name.
func New(names []string) *Catalog {
	c := &Catalog{
		index: make(map[string]string, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := c.index[key]; ok {
			continue
		}
		c.index[key] = name
		c.brands = append(c.brands, name)
	}
	return c
}

// Brands returns the canonical names in source order. The returned slice is
// a copy; the catalog itself never changes after load.
func (c *Catalog) Brands() []string {
	out := make([]string, len(c.brands))
	copy(out, c.brands)
	return out
}

// Canonical maps any casing of a brand name to its canonical form.
func (c *Catalog) Canonical(name string) (string, bool) {
	canonical, ok := c.index[strings.ToLower(name)]
	return canonical, ok
}

// Len reports the number of canonical brands.
func (c *Catalog) Len() int {
	return len(c.brands)
}
