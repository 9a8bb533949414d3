package skintone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitchat/emojikit/internal/emoji"
)

func variantEmoji() emoji.Emoji {
	return emoji.Emoji{
		ID: "waving-hand", Name: "Waving Hand", Value: "\U0001F44B",
		Category: emoji.CategorySmileysPeople,
		Variants: []emoji.SkintoneVariant{
			{Skintone: emoji.SkintoneLight, Value: "\U0001F44B\U0001F3FB", Order: 0},
			{Skintone: emoji.SkintoneMedium, Value: "\U0001F44B\U0001F3FD", Order: 2},
			{Skintone: emoji.SkintoneDark, Value: "\U0001F44B\U0001F3FF", Order: 4},
		},
	}
}

func plainEmoji() emoji.Emoji {
	return emoji.Emoji{
		ID: "red-heart", Name: "Red Heart", Value: "❤️",
		Category: emoji.CategorySmileysPeople,
	}
}

func TestResolve_NoVariants(t *testing.T) {
	e := plainEmoji()
	resolved := Resolve(e, emoji.SkintoneSettingGlobal, emoji.SkintoneDark, nil)
	assert.Equal(t, e, resolved)
}

func TestResolve_SettingNone(t *testing.T) {
	e := variantEmoji()
	resolved := Resolve(e, emoji.SkintoneSettingNone, emoji.SkintoneDark,
		map[string]string{e.ID: "\U0001F44B\U0001F3FB"})
	assert.Equal(t, e.Value, resolved.Value)
}

func TestResolve_Global(t *testing.T) {
	e := variantEmoji()
	resolved := Resolve(e, emoji.SkintoneSettingGlobal, emoji.SkintoneDark, nil)
	assert.Equal(t, "\U0001F44B\U0001F3FF", resolved.Value)

	// The rest of the record is untouched.
	assert.Equal(t, e.ID, resolved.ID)
	assert.Equal(t, e.Variants, resolved.Variants)
}

func TestResolve_Global_MissingVariantFallsBack(t *testing.T) {
	e := variantEmoji()

	// No medium-light variant exists; the default glyph stands.
	resolved := Resolve(e, emoji.SkintoneSettingGlobal, emoji.SkintoneMediumLight, nil)
	assert.Equal(t, e.Value, resolved.Value)
}

func TestResolve_Individual_OverrideWins(t *testing.T) {
	e := variantEmoji()
	overrides := map[string]string{e.ID: "\U0001F44B\U0001F3FD"}

	// The override wins regardless of the global choice.
	resolved := Resolve(e, emoji.SkintoneSettingIndividual, emoji.SkintoneDark, overrides)
	assert.Equal(t, "\U0001F44B\U0001F3FD", resolved.Value)
}

func TestResolve_Individual_NoOverride(t *testing.T) {
	e := variantEmoji()
	resolved := Resolve(e, emoji.SkintoneSettingIndividual, emoji.SkintoneDark, nil)
	assert.Equal(t, e.Value, resolved.Value)

	// An empty stored override is treated as absent.
	resolved = Resolve(e, emoji.SkintoneSettingIndividual, emoji.SkintoneDark,
		map[string]string{e.ID: ""})
	assert.Equal(t, e.Value, resolved.Value)
}

func TestResolve_Both_ActsGlobal(t *testing.T) {
	e := variantEmoji()
	resolved := Resolve(e, emoji.SkintoneSettingBoth, emoji.SkintoneLight,
		map[string]string{e.ID: "\U0001F44B\U0001F3FF"})
	assert.Equal(t, "\U0001F44B\U0001F3FB", resolved.Value)
}

func TestOverrideMap(t *testing.T) {
	m := OverrideMap([]emoji.IndividualSkintone{
		{EmojiID: "a", EmojiValue: "x"},
		{EmojiID: "b", EmojiValue: "y"},
	})
	assert.Equal(t, map[string]string{"a": "x", "b": "y"}, m)
	assert.Empty(t, OverrideMap(nil))
}

func TestParseGlobal(t *testing.T) {
	assert.Equal(t, emoji.SkintoneDark, ParseGlobal("dark"))
	assert.Equal(t, emoji.SkintoneDefault, ParseGlobal("default"))
	assert.Equal(t, emoji.SkintoneDefault, ParseGlobal("bogus"))
	assert.Equal(t, emoji.SkintoneDefault, ParseGlobal(""))
}

func newTestCatalog(t *testing.T) *emoji.Catalog {
	t.Helper()
	v := variantEmoji()
	v.Order = 0
	p := plainEmoji()
	p.Order = 1
	catalog, err := emoji.NewCatalog([]emoji.Emoji{v, p})
	require.NoError(t, err)
	return catalog
}

func TestResolver_EmojiMap(t *testing.T) {
	catalog := newTestCatalog(t)
	resolver := NewResolver()

	m := resolver.EmojiMap(catalog, emoji.SkintoneSettingGlobal, emoji.SkintoneDark, nil)
	require.Len(t, m, 2)
	assert.Equal(t, "\U0001F44B\U0001F3FF", m["waving-hand"].Value)
	assert.Equal(t, "❤️", m["red-heart"].Value)
}

func TestResolver_MemoizesUnchangedEntries(t *testing.T) {
	catalog := newTestCatalog(t)
	resolver := NewResolver()

	first := resolver.EmojiMap(catalog, emoji.SkintoneSettingIndividual, emoji.SkintoneDefault,
		map[string]string{"waving-hand": "\U0001F44B\U0001F3FB"})

	// Changing only the global choice leaves individual resolution untouched.
	second := resolver.EmojiMap(catalog, emoji.SkintoneSettingIndividual, emoji.SkintoneDark,
		map[string]string{"waving-hand": "\U0001F44B\U0001F3FB"})

	assert.Equal(t, first["waving-hand"], second["waving-hand"])
	assert.Equal(t, first["red-heart"], second["red-heart"])

	// Changing the override recomputes the affected entry.
	third := resolver.EmojiMap(catalog, emoji.SkintoneSettingIndividual, emoji.SkintoneDark,
		map[string]string{"waving-hand": "\U0001F44B\U0001F3FF"})
	assert.Equal(t, "\U0001F44B\U0001F3FF", third["waving-hand"].Value)
	assert.Equal(t, first["red-heart"], third["red-heart"])
}

func TestResolver_PolicyChangeRecomputes(t *testing.T) {
	catalog := newTestCatalog(t)
	resolver := NewResolver()

	global := resolver.EmojiMap(catalog, emoji.SkintoneSettingGlobal, emoji.SkintoneDark, nil)
	assert.Equal(t, "\U0001F44B\U0001F3FF", global["waving-hand"].Value)

	none := resolver.EmojiMap(catalog, emoji.SkintoneSettingNone, emoji.SkintoneDark, nil)
	assert.Equal(t, "\U0001F44B", none["waving-hand"].Value)
}
