package emoji

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/emojis.yaml
var dataFS embed.FS

// Catalog holds the full set of known emoji records, indexed by id and
// grouped by category in display order. A catalog is immutable after
// construction.
type Catalog struct {
	emojis     []Emoji
	byID       map[string]Emoji
	byCategory map[Category][]Emoji
}

// NewCatalog builds a catalog from the given records and validates the
// catalog-level invariants: unique ids and unique order within each category.
func NewCatalog(emojis []Emoji) (*Catalog, error) {
	c := &Catalog{
		emojis:     make([]Emoji, len(emojis)),
		byID:       make(map[string]Emoji, len(emojis)),
		byCategory: make(map[Category][]Emoji),
	}
	copy(c.emojis, emojis)

	orders := make(map[Category]map[int]string)
	for _, e := range c.emojis {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog record: %w", err)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate emoji id %q", e.ID)
		}
		c.byID[e.ID] = e

		if orders[e.Category] == nil {
			orders[e.Category] = make(map[int]string)
		}
		if other, dup := orders[e.Category][e.Order]; dup {
			return nil, fmt.Errorf("emojis %q and %q share order %d in category %q",
				other, e.ID, e.Order, e.Category)
		}
		orders[e.Category][e.Order] = e.ID
		c.byCategory[e.Category] = append(c.byCategory[e.Category], e)
	}

	for cat := range c.byCategory {
		group := c.byCategory[cat]
		sort.Slice(group, func(i, j int) bool { return group[i].Order < group[j].Order })
	}

	return c, nil
}

// LoadDefaultCatalog parses the embedded catalog bundle.
func LoadDefaultCatalog() (*Catalog, error) {
	raw, err := dataFS.ReadFile("data/emojis.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalog: %w", err)
	}
	var doc struct {
		Emojis []Emoji `yaml:"emojis"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	return NewCatalog(doc.Emojis)
}

// ByID returns the record for id.
func (c *Catalog) ByID(id string) (Emoji, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// ByIDs resolves ids to records, skipping unknown ids and preserving input
// order.
func (c *Catalog) ByIDs(ids []string) []Emoji {
	out := make([]Emoji, 0, len(ids))
	for _, id := range ids {
		if e, ok := c.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Fetch returns the records of the requested categories, category-contiguous
// in the requested category order and order-sorted within each category. The
// suggestions pseudo-category holds no catalog records and contributes
// nothing.
func (c *Catalog) Fetch(categories []Category) []Emoji {
	var out []Emoji
	for _, cat := range categories {
		out = append(out, c.byCategory[cat]...)
	}
	return out
}

// All returns every record in the catalog, category-contiguous in the
// canonical category order.
func (c *Catalog) All() []Emoji {
	return c.Fetch(Categories)
}

// Count returns the number of records in the catalog.
func (c *Catalog) Count() int {
	return len(c.emojis)
}

// CategoryCounts returns the number of records per category.
func (c *Catalog) CategoryCounts() map[Category]int {
	counts := make(map[Category]int, len(c.byCategory))
	for cat, group := range c.byCategory {
		counts[cat] = len(group)
	}
	return counts
}
