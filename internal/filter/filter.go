// Package filter scores and ranks emoji ids against a search string using
// per-locale keyword tables. Tables are embedded static bundles; the
// requested locale falls back to English per id, not as an all-or-nothing
// table swap.
package filter

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var tableFS embed.FS

// DefaultLocale is the fallback keyword table.
const DefaultLocale = "en"

// exactMatchScore outranks every prefix score (prefix scores are at most 1).
const exactMatchScore = 2.0

// Table maps emoji ids to their locale keyword lists.
type Table map[string][]string

// Engine resolves locale keyword tables and ranks candidate ids.
type Engine struct {
	tables  map[string]Table
	tags    []language.Tag
	matcher language.Matcher
}

// NewEngine loads the embedded keyword bundles. A missing or malformed
// default-locale bundle is an initialization error; the engine never falls
// back to an empty result set silently.
func NewEngine() (*Engine, error) {
	entries, err := tableFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("filter: reading keyword bundles: %w", err)
	}

	e := &Engine{tables: make(map[string]Table, len(entries))}
	for _, entry := range entries {
		name := entry.Name()
		locale := strings.TrimSuffix(strings.TrimPrefix(name, "keywords-"), ".yaml")
		raw, err := tableFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("filter: reading keyword bundle %q: %w", name, err)
		}
		var table Table
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("filter: parsing keyword bundle %q: %w", name, err)
		}
		e.tables[locale] = table
	}

	if _, ok := e.tables[DefaultLocale]; !ok {
		return nil, fmt.Errorf("filter: default keyword bundle %q missing", DefaultLocale)
	}

	// Default locale first so unmatched requests resolve to it.
	e.tags = append(e.tags, language.Make(DefaultLocale))
	for locale := range e.tables {
		if locale != DefaultLocale {
			e.tags = append(e.tags, language.Make(locale))
		}
	}
	e.matcher = language.NewMatcher(e.tags)

	return e, nil
}

// Locales returns the locales with a keyword table.
func (e *Engine) Locales() []string {
	out := make([]string, 0, len(e.tables))
	for locale := range e.tables {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Filter ranks ids whose keywords match searchText, best score first.
// Candidates restricts scoring to the given ids when non-nil. Empty or
// whitespace-only search text is the caller's degenerate case; the engine
// returns an error to surface coordinator bugs rather than guessing.
func (e *Engine) Filter(searchText, locale string, candidates []string) ([]string, error) {
	normalized := Normalize(searchText)
	if normalized == "" {
		return nil, fmt.Errorf("filter: empty search text")
	}

	table := e.resolveTable(locale)

	allowed := func(string) bool { return true }
	if candidates != nil {
		set := make(map[string]struct{}, len(candidates))
		for _, id := range candidates {
			set[id] = struct{}{}
		}
		allowed = func(id string) bool {
			_, ok := set[id]
			return ok
		}
	}

	type scored struct {
		id    string
		score float64
	}
	var results []scored
	for id, keywords := range table {
		if !allowed(id) {
			continue
		}
		if score := bestScore(normalized, keywords); score > 0 {
			results = append(results, scored{id: id, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		// Equal scores: pin an order so output is deterministic.
		return results[i].id < results[j].id
	})

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.id
	}
	return ids, nil
}

// Normalize trims and lowercases search input.
func Normalize(searchText string) string {
	return strings.ToLower(strings.TrimSpace(searchText))
}

// bestScore returns the best match score of search across keywords. An exact
// keyword match always outranks prefix matches; a prefix match scores higher
// the closer the keyword length is to the search length.
func bestScore(search string, keywords []string) float64 {
	best := 0.0
	for _, keyword := range keywords {
		if keyword == search {
			return exactMatchScore
		}
		if strings.HasPrefix(keyword, search) {
			score := 1.0 / float64(len(keyword)-len(search)+1)
			if score > best {
				best = score
			}
		}
	}
	return best
}

// resolveTable picks the table for locale via language matching and merges
// per-id fallback entries from the default table. The locale table wins per
// id; ids it lacks fall through to the default entries.
func (e *Engine) resolveTable(locale string) Table {
	key := DefaultLocale
	if locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			_, index, conf := e.matcher.Match(tag)
			if conf > language.No {
				base, _ := e.tags[index].Base()
				key = base.String()
			}
		}
	}

	localeTable, ok := e.tables[key]
	defaultTable := e.tables[DefaultLocale]
	if !ok || key == DefaultLocale {
		return defaultTable
	}

	merged := make(Table, len(defaultTable))
	for id, keywords := range defaultTable {
		merged[id] = keywords
	}
	for id, keywords := range localeTable {
		merged[id] = keywords
	}
	return merged
}
