package emoji

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEmoji(id string, category Category, order int) Emoji {
	return Emoji{
		ID:       id,
		Name:     id,
		Value:    "\U0001F600",
		Category: category,
		Order:    order,
	}
}

func TestNewCatalog(t *testing.T) {
	catalog, err := NewCatalog([]Emoji{
		validEmoji("b", CategorySmileysPeople, 1),
		validEmoji("a", CategorySmileysPeople, 0),
		validEmoji("c", CategoryAnimalsNature, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, catalog.Count())

	// Category groups come back ordered by the order field.
	group := catalog.Fetch([]Category{CategorySmileysPeople})
	require.Len(t, group, 2)
	assert.Equal(t, "a", group[0].ID)
	assert.Equal(t, "b", group[1].ID)
}

func TestNewCatalog_DuplicateID(t *testing.T) {
	_, err := NewCatalog([]Emoji{
		validEmoji("a", CategorySmileysPeople, 0),
		validEmoji("a", CategoryAnimalsNature, 0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate emoji id")
}

func TestNewCatalog_DuplicateOrder(t *testing.T) {
	_, err := NewCatalog([]Emoji{
		validEmoji("a", CategorySmileysPeople, 0),
		validEmoji("b", CategorySmileysPeople, 0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share order")

	// The same order in different categories is fine.
	_, err = NewCatalog([]Emoji{
		validEmoji("a", CategorySmileysPeople, 0),
		validEmoji("b", CategoryAnimalsNature, 0),
	})
	assert.NoError(t, err)
}

func TestNewCatalog_InvalidRecord(t *testing.T) {
	_, err := NewCatalog([]Emoji{{ID: "a", Name: "a", Value: "x", Category: Category("bogus")}})
	assert.Error(t, err)

	// Records may not claim the suggestions pseudo-category.
	_, err = NewCatalog([]Emoji{validEmoji("a", CategorySuggestions, 0)})
	assert.Error(t, err)
}

func TestCatalog_ByID(t *testing.T) {
	catalog, err := NewCatalog([]Emoji{validEmoji("a", CategorySmileysPeople, 0)})
	require.NoError(t, err)

	e, ok := catalog.ByID("a")
	assert.True(t, ok)
	assert.Equal(t, "a", e.ID)

	_, ok = catalog.ByID("missing")
	assert.False(t, ok)
}

func TestCatalog_ByIDs_SkipsUnknown(t *testing.T) {
	catalog, err := NewCatalog([]Emoji{
		validEmoji("a", CategorySmileysPeople, 0),
		validEmoji("b", CategorySmileysPeople, 1),
	})
	require.NoError(t, err)

	resolved := catalog.ByIDs([]string{"b", "missing", "a"})
	require.Len(t, resolved, 2)
	assert.Equal(t, "b", resolved[0].ID)
	assert.Equal(t, "a", resolved[1].ID)
}

func TestCatalog_Fetch_CategoryOrder(t *testing.T) {
	catalog, err := NewCatalog([]Emoji{
		validEmoji("smile", CategorySmileysPeople, 0),
		validEmoji("dog", CategoryAnimalsNature, 0),
		validEmoji("pizza", CategoryFoodDrink, 0),
	})
	require.NoError(t, err)

	fetched := catalog.Fetch([]Category{CategoryFoodDrink, CategorySmileysPeople})
	require.Len(t, fetched, 2)
	assert.Equal(t, "pizza", fetched[0].ID)
	assert.Equal(t, "smile", fetched[1].ID)

	// The suggestions pseudo-category never holds catalog records.
	assert.Empty(t, catalog.Fetch([]Category{CategorySuggestions}))
}

func TestLoadDefaultCatalog(t *testing.T) {
	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)
	assert.Greater(t, catalog.Count(), 0)

	// Every embedded record passes validation by construction; spot-check a
	// known entry with variants.
	thumbsUp, ok := catalog.ByID("thumbs-up")
	require.True(t, ok)
	assert.Equal(t, CategorySmileysPeople, thumbsUp.Category)
	assert.True(t, thumbsUp.HasVariants())

	counts := catalog.CategoryCounts()
	for _, cat := range Categories {
		if cat == CategorySuggestions {
			continue
		}
		assert.Greater(t, counts[cat], 0, "category %s should have records", cat)
	}
}

func TestEmoji_VariantFor(t *testing.T) {
	e := Emoji{
		ID: "waving-hand", Name: "Waving Hand", Value: "\U0001F44B",
		Category: CategorySmileysPeople,
		Variants: []SkintoneVariant{
			{Skintone: SkintoneLight, Value: "\U0001F44B\U0001F3FB"},
			{Skintone: SkintoneDark, Value: "\U0001F44B\U0001F3FF"},
		},
	}

	v, ok := e.VariantFor(SkintoneDark)
	assert.True(t, ok)
	assert.Equal(t, "\U0001F44B\U0001F3FF", v.Value)

	_, ok = e.VariantFor(SkintoneMedium)
	assert.False(t, ok)
}

func TestEmoji_Validate_DuplicateVariant(t *testing.T) {
	e := validEmoji("a", CategorySmileysPeople, 0)
	e.Variants = []SkintoneVariant{
		{Skintone: SkintoneLight, Value: "x"},
		{Skintone: SkintoneLight, Value: "y"},
	}
	assert.Error(t, e.Validate())
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory(CategoryFlags))
	assert.True(t, IsValidCategory(CategorySuggestions))
	assert.False(t, IsValidCategory(CategorySearch))
	assert.False(t, IsValidCategory(Category("bogus")))
}

func TestIsValidSkintoneSetting(t *testing.T) {
	assert.True(t, IsValidSkintoneSetting(SkintoneSettingNone))
	assert.True(t, IsValidSkintoneSetting(SkintoneSettingBoth))
	assert.False(t, IsValidSkintoneSetting(SkintoneSetting("partial")))
}

func TestIsValidSuggestionMode(t *testing.T) {
	assert.True(t, IsValidSuggestionMode(SuggestionModeRecent))
	assert.True(t, IsValidSuggestionMode(SuggestionModeFrequent))
	assert.False(t, IsValidSuggestionMode(SuggestionMode("popular")))
}
