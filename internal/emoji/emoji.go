// Package emoji defines the immutable emoji catalog: the record types, the
// fixed category and skintone sets, and the embedded default catalog data.
//
// Catalog records are loaded once (from the embedded bundle or a local
// database) and are read-only afterwards. Derived artifacts such as resolved
// glyphs and picker rows live in their own packages and never mutate the
// catalog.
package emoji

import (
	"fmt"
)

// Category identifies one of the fixed, ordered emoji categories.
type Category string

const (
	CategorySuggestions   Category = "suggestions"
	CategorySmileysPeople Category = "smileys-people"
	CategoryAnimalsNature Category = "animals-nature"
	CategoryFoodDrink     Category = "food-drink"
	CategoryTravelPlaces  Category = "travel-places"
	CategoryObjects       Category = "objects"
	CategoryActivities    Category = "activities"
	CategorySymbols       Category = "symbols"
	CategoryFlags         Category = "flags"

	// CategorySearch tags the search-results pseudo-category. It never
	// appears in the configured category list.
	CategorySearch Category = "search"
)

// Categories lists every category in display order. The suggestions
// pseudo-category always sorts first when configured.
var Categories = []Category{
	CategorySuggestions,
	CategorySmileysPeople,
	CategoryAnimalsNature,
	CategoryFoodDrink,
	CategoryTravelPlaces,
	CategoryObjects,
	CategoryActivities,
	CategorySymbols,
	CategoryFlags,
}

// IsValidCategory reports whether value names a known category.
func IsValidCategory(value Category) bool {
	for _, c := range Categories {
		if c == value {
			return true
		}
	}
	return false
}

// Skintone identifies one of the supported skintone modifiers.
type Skintone string

const (
	SkintoneDefault     Skintone = "default"
	SkintoneLight       Skintone = "light"
	SkintoneMediumLight Skintone = "medium-light"
	SkintoneMedium      Skintone = "medium"
	SkintoneMediumDark  Skintone = "medium-dark"
	SkintoneDark        Skintone = "dark"
)

// Skintones lists every supported skintone.
var Skintones = []Skintone{
	SkintoneDefault,
	SkintoneLight,
	SkintoneMediumLight,
	SkintoneMedium,
	SkintoneMediumDark,
	SkintoneDark,
}

// IsValidSkintone reports whether value names a known skintone.
func IsValidSkintone(value Skintone) bool {
	for _, s := range Skintones {
		if s == value {
			return true
		}
	}
	return false
}

// SkintoneSetting controls how skintone variants are applied across a picker
// session.
type SkintoneSetting string

const (
	// SkintoneSettingNone disables skintone handling entirely.
	SkintoneSettingNone SkintoneSetting = "none"
	// SkintoneSettingGlobal applies one skintone to every applicable emoji.
	SkintoneSettingGlobal SkintoneSetting = "global"
	// SkintoneSettingIndividual lets each emoji carry its own stored variant.
	SkintoneSettingIndividual SkintoneSetting = "individual"
	// SkintoneSettingBoth supports the global choice and per-emoji overrides.
	SkintoneSettingBoth SkintoneSetting = "both"
)

// IsValidSkintoneSetting reports whether value names a known setting.
func IsValidSkintoneSetting(value SkintoneSetting) bool {
	switch value {
	case SkintoneSettingNone, SkintoneSettingGlobal, SkintoneSettingIndividual, SkintoneSettingBoth:
		return true
	}
	return false
}

// SkintoneVariant is one alternative glyph for an emoji.
type SkintoneVariant struct {
	Skintone Skintone `yaml:"skintone" json:"skintone"`
	Value    string   `yaml:"value" json:"value"`
	Order    int      `yaml:"order" json:"order"`
}

// Emoji is one immutable catalog record.
type Emoji struct {
	ID       string            `yaml:"id" json:"id"`
	Name     string            `yaml:"name" json:"name"`
	Value    string            `yaml:"value" json:"value"`
	Category Category          `yaml:"category" json:"category"`
	Order    int               `yaml:"order" json:"order"`
	Keywords []string          `yaml:"keywords" json:"keywords"`
	Variants []SkintoneVariant `yaml:"skintones,omitempty" json:"skintones,omitempty"`
}

// HasVariants reports whether the emoji carries skintone variants.
func (e Emoji) HasVariants() bool {
	return len(e.Variants) > 0
}

// VariantFor returns the variant matching tone, if any.
func (e Emoji) VariantFor(tone Skintone) (SkintoneVariant, bool) {
	for _, v := range e.Variants {
		if v.Skintone == tone {
			return v, true
		}
	}
	return SkintoneVariant{}, false
}

// Validate checks the record-level invariants: non-empty id, value and name,
// a known category, and at most one variant per skintone.
func (e Emoji) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("emoji has empty id")
	}
	if e.Value == "" {
		return fmt.Errorf("emoji %q has empty value", e.ID)
	}
	if e.Name == "" {
		return fmt.Errorf("emoji %q has empty name", e.ID)
	}
	if !IsValidCategory(e.Category) || e.Category == CategorySuggestions {
		return fmt.Errorf("emoji %q has invalid category %q", e.ID, e.Category)
	}
	seen := make(map[Skintone]struct{}, len(e.Variants))
	for _, v := range e.Variants {
		if !IsValidSkintone(v.Skintone) {
			return fmt.Errorf("emoji %q has invalid skintone %q", e.ID, v.Skintone)
		}
		if _, dup := seen[v.Skintone]; dup {
			return fmt.Errorf("emoji %q has duplicate skintone %q", e.ID, v.Skintone)
		}
		seen[v.Skintone] = struct{}{}
	}
	return nil
}

// IndividualSkintone is a persisted per-emoji skintone override. The emoji id
// is the key; storing a second override for the same id replaces the first.
type IndividualSkintone struct {
	EmojiID    string `json:"emojiId"`
	EmojiValue string `json:"emojiValue"`
}

// SuggestionMode selects which usage history feeds the suggestions view.
type SuggestionMode string

const (
	SuggestionModeRecent   SuggestionMode = "recent"
	SuggestionModeFrequent SuggestionMode = "frequent"
)

// IsValidSuggestionMode reports whether value names a known mode.
func IsValidSuggestionMode(value SuggestionMode) bool {
	return value == SuggestionModeRecent || value == SuggestionModeFrequent
}
