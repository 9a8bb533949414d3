package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chitchat/emojikit/internal/emoji"
)

func makeEmojis(category emoji.Category, values ...string) []emoji.Emoji {
	out := make([]emoji.Emoji, 0, len(values))
	for i, v := range values {
		out = append(out, emoji.Emoji{
			ID:       string(category) + "-" + v,
			Name:     v,
			Value:    v,
			Category: category,
			Order:    i,
		})
	}
	return out
}

func TestNewGenerator_ClampsCapacity(t *testing.T) {
	assert.Equal(t, 1, NewGenerator(0, true).ItemsPerRow())
	assert.Equal(t, 1, NewGenerator(-3, true).ItemsPerRow())
	assert.Equal(t, 7, NewGenerator(7, true).ItemsPerRow())
}

func TestGenerator_PackCategories(t *testing.T) {
	items := append(
		makeEmojis(emoji.CategorySmileysPeople, "a", "b", "c"),
		makeEmojis(emoji.CategoryAnimalsNature, "d", "e")...,
	)

	gen := NewGenerator(2, true)
	rows := gen.PackCategories(items)

	// header, [a b], [c], header, [d e]
	assert.Len(t, rows, 5)

	assert.Equal(t, KindCategory, rows[0].Kind)
	assert.Equal(t, emoji.CategorySmileysPeople, rows[0].Category)
	assert.Equal(t, "emojipicker.category.smileys-people", rows[0].Label)

	assert.Equal(t, KindEmoji, rows[1].Kind)
	assert.Len(t, rows[1].Emojis, 2)
	assert.Equal(t, "a", rows[1].Emojis[0].Value)
	assert.Equal(t, "b", rows[1].Emojis[1].Value)

	assert.Equal(t, KindEmoji, rows[2].Kind)
	assert.Len(t, rows[2].Emojis, 1)
	assert.Equal(t, "c", rows[2].Emojis[0].Value)

	assert.Equal(t, KindCategory, rows[3].Kind)
	assert.Equal(t, emoji.CategoryAnimalsNature, rows[3].Category)

	assert.Equal(t, KindEmoji, rows[4].Kind)
	assert.Len(t, rows[4].Emojis, 2)
}

func TestGenerator_PackCategories_NoHeaders(t *testing.T) {
	items := append(
		makeEmojis(emoji.CategorySmileysPeople, "a", "b", "c"),
		makeEmojis(emoji.CategoryAnimalsNature, "d")...,
	)

	gen := NewGenerator(2, false)
	rows := gen.PackCategories(items)

	// Rows still break at the category boundary even without headers.
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, KindEmoji, row.Kind)
	}
	assert.Len(t, rows[0].Emojis, 2)
	assert.Len(t, rows[1].Emojis, 1)
	assert.Len(t, rows[2].Emojis, 1)
}

func TestGenerator_PackCategories_Empty(t *testing.T) {
	gen := NewGenerator(3, true)
	assert.Empty(t, gen.PackCategories(nil))
	assert.Empty(t, gen.PackCategories([]emoji.Emoji{}))
}

func TestGenerator_PackCategories_RowCapacity(t *testing.T) {
	items := makeEmojis(emoji.CategoryFoodDrink, "a", "b", "c", "d", "e", "f", "g")

	for capacity := 1; capacity <= 4; capacity++ {
		gen := NewGenerator(capacity, true)
		rows := gen.PackCategories(items)

		total := 0
		for _, row := range rows {
			if row.Kind != KindEmoji {
				continue
			}
			assert.LessOrEqual(t, len(row.Emojis), capacity)
			assert.NotEmpty(t, row.Emojis)
			total += len(row.Emojis)
		}
		assert.Equal(t, len(items), total)
	}
}

func TestGenerator_PackCategories_HeaderPrecedesCategory(t *testing.T) {
	items := append(
		makeEmojis(emoji.CategorySmileysPeople, "a"),
		makeEmojis(emoji.CategoryFlags, "b", "c", "d")...,
	)

	gen := NewGenerator(3, true)
	rows := gen.PackCategories(items)

	var lastHeader emoji.Category
	for _, row := range rows {
		switch row.Kind {
		case KindCategory:
			lastHeader = row.Category
		case KindEmoji:
			for _, e := range row.Emojis {
				assert.Equal(t, lastHeader, e.Category)
			}
		}
	}
}

func TestGenerator_PackFlat(t *testing.T) {
	items := makeEmojis(emoji.CategorySmileysPeople, "a", "b", "c", "d", "e")

	gen := NewGenerator(2, true)
	rows := gen.PackFlat(emoji.CategorySearch, "emojipicker.category.search", items)

	assert.Len(t, rows, 4)
	assert.Equal(t, KindCategory, rows[0].Kind)
	assert.Equal(t, emoji.CategorySearch, rows[0].Category)
	assert.Equal(t, "emojipicker.category.search", rows[0].Label)
	assert.Len(t, rows[1].Emojis, 2)
	assert.Len(t, rows[2].Emojis, 2)
	assert.Len(t, rows[3].Emojis, 1)
}

func TestGenerator_PackFlat_Empty(t *testing.T) {
	gen := NewGenerator(2, true)

	// No header row for an empty pseudo-category.
	assert.Empty(t, gen.PackFlat(emoji.CategorySearch, "emojipicker.category.search", nil))
}

func TestGenerator_PackFlat_NoHeaders(t *testing.T) {
	items := makeEmojis(emoji.CategoryActivities, "a", "b", "c")

	gen := NewGenerator(2, false)
	rows := gen.PackFlat(emoji.CategoryActivities, "emojipicker.category.activities", items)

	assert.Len(t, rows, 2)
	assert.Equal(t, KindEmoji, rows[0].Kind)
}

func TestGenerator_PackFlat_CopiesChunks(t *testing.T) {
	items := makeEmojis(emoji.CategoryObjects, "a", "b")

	gen := NewGenerator(2, false)
	rows := gen.PackFlat(emoji.CategoryObjects, "emojipicker.category.objects", items)

	// Mutating the input slice must not leak into packed rows.
	items[0].Value = "mutated"
	assert.Equal(t, "a", rows[0].Emojis[0].Value)
}

func TestRowIDs_UniquePerGeneration(t *testing.T) {
	items := makeEmojis(emoji.CategorySymbols, "a", "b", "c", "d")

	gen := NewGenerator(2, true)
	rows := gen.PackCategories(items)

	seen := make(map[string]bool)
	for _, row := range rows {
		assert.NotEmpty(t, row.ID)
		assert.False(t, seen[row.ID])
		seen[row.ID] = true
	}
}

func TestItemsPerRow(t *testing.T) {
	tests := []struct {
		name       string
		viewport   float64
		size       float64
		multiplier float64
		want       int
	}{
		{"default geometry", 400, 24, 1.5, 11},
		{"exact fit", 360, 24, 1.5, 10},
		{"narrow viewport clamps", 10, 24, 1.5, 1},
		{"zero viewport", 0, 24, 1.5, 1},
		{"zero size", 400, 0, 1.5, 1},
		{"negative multiplier", 400, 24, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ItemsPerRow(tt.viewport, tt.size, tt.multiplier))
		})
	}
}

func TestEmojiSize(t *testing.T) {
	// 400 / (11 * 1.5) = 24.2424... floored to 24.24.
	assert.Equal(t, 24.24, EmojiSize(400, 24, 1.5))

	// Exact division stays exact.
	assert.Equal(t, 24.0, EmojiSize(360, 24, 1.5))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "category", KindCategory.String())
	assert.Equal(t, "emoji", KindEmoji.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
