package picker

import (
	"fmt"
	"time"

	"github.com/chitchat/emojikit/internal/emoji"
)

// Defaults for a picker session, matching the demo application.
const (
	DefaultViewportWidth      = 400.0
	DefaultEmojiSize          = 24.0
	DefaultItemSizeMultiplier = 1.5
	DefaultSuggestionLimit    = 50
	DefaultSearchDebounce     = 250 * time.Millisecond
)

// Settings holds the mutable configuration of one picker session. Each
// session owns its own copy; two concurrent pickers never share state.
type Settings struct {
	Categories            []emoji.Category
	SuggestionMode        emoji.SuggestionMode
	SuggestionLimit       int
	SkintoneSetting       emoji.SkintoneSetting
	ViewportWidth         float64
	EmojiSize             float64
	ItemSizeMultiplier    float64
	GenerateHeaders       bool
	AutoUpdateSuggestions bool
	SearchDebounce        time.Duration
}

// DefaultSettings returns the settings of a freshly constructed session:
// every category enabled, recent suggestions, both skintone modes, headers
// on.
func DefaultSettings() Settings {
	categories := make([]emoji.Category, len(emoji.Categories))
	copy(categories, emoji.Categories)
	return Settings{
		Categories:            categories,
		SuggestionMode:        emoji.SuggestionModeRecent,
		SuggestionLimit:       DefaultSuggestionLimit,
		SkintoneSetting:       emoji.SkintoneSettingBoth,
		ViewportWidth:         DefaultViewportWidth,
		EmojiSize:             DefaultEmojiSize,
		ItemSizeMultiplier:    DefaultItemSizeMultiplier,
		GenerateHeaders:       true,
		AutoUpdateSuggestions: true,
		SearchDebounce:        DefaultSearchDebounce,
	}
}

// Validate checks the settings invariants.
func (s Settings) Validate() error {
	if len(s.Categories) == 0 {
		return fmt.Errorf("picker: no categories configured")
	}
	for _, cat := range s.Categories {
		if !emoji.IsValidCategory(cat) {
			return fmt.Errorf("picker: unknown category %q", cat)
		}
	}
	if !emoji.IsValidSuggestionMode(s.SuggestionMode) {
		return fmt.Errorf("picker: unknown suggestion mode %q", s.SuggestionMode)
	}
	if s.SuggestionLimit <= 0 {
		return fmt.Errorf("picker: suggestion limit must be positive, got %d", s.SuggestionLimit)
	}
	if !emoji.IsValidSkintoneSetting(s.SkintoneSetting) {
		return fmt.Errorf("picker: unknown skintone setting %q", s.SkintoneSetting)
	}
	if s.ViewportWidth <= 0 {
		return fmt.Errorf("picker: viewport width must be positive, got %v", s.ViewportWidth)
	}
	if s.EmojiSize <= 0 {
		return fmt.Errorf("picker: emoji size must be positive, got %v", s.EmojiSize)
	}
	if s.ItemSizeMultiplier <= 0 {
		return fmt.Errorf("picker: item size multiplier must be positive, got %v", s.ItemSizeMultiplier)
	}
	if s.SearchDebounce < 0 {
		return fmt.Errorf("picker: search debounce must not be negative, got %v", s.SearchDebounce)
	}
	return nil
}

// displayCategories returns the configured categories without the
// suggestions pseudo-category, preserving order.
func (s Settings) displayCategories() []emoji.Category {
	out := make([]emoji.Category, 0, len(s.Categories))
	for _, cat := range s.Categories {
		if cat != emoji.CategorySuggestions {
			out = append(out, cat)
		}
	}
	return out
}

// includesSuggestions reports whether the suggestions pseudo-category is
// configured.
func (s Settings) includesSuggestions() bool {
	for _, cat := range s.Categories {
		if cat == emoji.CategorySuggestions {
			return true
		}
	}
	return false
}
