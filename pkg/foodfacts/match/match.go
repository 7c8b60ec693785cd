package match

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/catalog"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/internalerr"
)

// Matcher holds one compiled alternation over every catalog brand.
// Rebuild it whenever the catalog changes.
type Matcher struct {
	pattern *regexp.Regexp
	cat     *catalog.Catalog
}

// Compile escapes every brand so it matches literally, joins the escaped
// brands with alternation inside word-boundary anchors, and compiles the
// whole pattern case-insensitively. An empty catalog is a fatal error.
func Compile(cat *catalog.Catalog) (*Matcher, error) {
	brands := cat.Brands()
	if len(brands) == 0 {
		return nil, internalerr.ErrEmptyCatalog
	}

	escaped := make([]string, len(brands))
	for i, b := range brands {
		escaped[i] = regexp.QuoteMeta(b)
	}

	src := `(?i)\b(` + strings.Join(escaped, "|") + `)\b`
	pattern, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile brand pattern: %w", err)
	}

	return &Matcher{pattern: pattern, cat: cat}, nil
}

// FindBrands returns the canonical brands mentioned in text as whole words,
// deduplicated and sorted for deterministic output. Empty text yields an
// empty result. Captures that do not resolve through the catalog index are
// discarded.
func (m *Matcher) FindBrands(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, hit := range m.pattern.FindAllString(text, -1) {
		canonical, ok := m.cat.Canonical(hit)
		if !ok {
			continue
		}
		seen[canonical] = struct{}{}
	}

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
