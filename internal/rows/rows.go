// Package rows converts flat, category-ordered emoji sequences into the
// discrete display rows consumed by a virtualized render surface. A row is
// either a category header or a strip of at most itemsPerRow emojis; header
// rows are inserted at category boundaries.
package rows

import (
	"math"

	"github.com/google/uuid"

	"github.com/chitchat/emojikit/internal/emoji"
)

// Kind tags the row variant.
type Kind int

const (
	// KindCategory is a header row marking the start of a category.
	KindCategory Kind = iota
	// KindEmoji is a strip of emoji buttons.
	KindEmoji
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindEmoji:
		return "emoji"
	default:
		return "unknown"
	}
}

// Row is one renderable unit. ID is fresh per generation and only meaningful
// for render-diffing within that generation. Category and Label are set on
// header rows; Emojis on emoji rows.
type Row struct {
	ID       string
	Kind     Kind
	Category emoji.Category
	Label    string
	Emojis   []emoji.Emoji
}

// Generator packs emoji sequences into rows of a fixed capacity.
type Generator struct {
	itemsPerRow int
	headers     bool
}

// NewGenerator creates a generator. Capacities below 1 are clamped to 1 so a
// viewport narrower than one item can never stall the packing loop.
// withHeaders controls category-header emission.
func NewGenerator(itemsPerRow int, withHeaders bool) *Generator {
	if itemsPerRow < 1 {
		itemsPerRow = 1
	}
	return &Generator{itemsPerRow: itemsPerRow, headers: withHeaders}
}

// ItemsPerRow returns how many items fit in the viewport, never less than 1.
func (g *Generator) ItemsPerRow() int {
	return g.itemsPerRow
}

// PackCategories packs a category-contiguous sequence, emitting one header
// row per category transition immediately before that category's first emoji
// row. An empty input yields no rows.
func (g *Generator) PackCategories(items []emoji.Emoji) []Row {
	var out []Row
	var current []emoji.Emoji

	for i, item := range items {
		current = append(current, item)

		if g.headers && (i == 0 || item.Category != items[i-1].Category) {
			out = append(out, Row{
				ID:       uuid.NewString(),
				Kind:     KindCategory,
				Category: item.Category,
				Label:    CategoryLabelKey(item.Category),
			})
		}

		last := i == len(items)-1
		if len(current) == g.itemsPerRow || last || items[i+1].Category != item.Category {
			out = append(out, Row{
				ID:     uuid.NewString(),
				Kind:   KindEmoji,
				Emojis: current,
			})
			current = nil
		}
	}

	return out
}

// PackFlat packs items as one pseudo-category tagged with category and
// labeled with labelKey: a single synthetic header row followed by strict
// capacity-sized chunks. An empty input yields no rows, header included.
func (g *Generator) PackFlat(category emoji.Category, labelKey string, items []emoji.Emoji) []Row {
	if len(items) == 0 {
		return nil
	}

	var out []Row
	if g.headers {
		out = append(out, Row{
			ID:       uuid.NewString(),
			Kind:     KindCategory,
			Category: category,
			Label:    labelKey,
		})
	}

	for start := 0; start < len(items); start += g.itemsPerRow {
		end := start + g.itemsPerRow
		if end > len(items) {
			end = len(items)
		}
		chunk := make([]emoji.Emoji, end-start)
		copy(chunk, items[start:end])
		out = append(out, Row{
			ID:     uuid.NewString(),
			Kind:   KindEmoji,
			Emojis: chunk,
		})
	}

	return out
}

// CategoryLabelKey returns the translation key of a category header.
func CategoryLabelKey(category emoji.Category) string {
	return "emojipicker.category." + string(category)
}

// ItemsPerRow computes how many items of size emojiSize*multiplier fit into
// viewportWidth, clamped to a minimum of 1.
func ItemsPerRow(viewportWidth, emojiSize, multiplier float64) int {
	if viewportWidth <= 0 || emojiSize <= 0 || multiplier <= 0 {
		return 1
	}
	n := int(math.Floor(viewportWidth / (emojiSize * multiplier)))
	if n < 1 {
		return 1
	}
	return n
}

// EmojiSize back-computes the on-screen emoji size from the viewport width
// and the capacity the ideal size yields, floored to two decimals.
func EmojiSize(viewportWidth, idealSize, multiplier float64) float64 {
	perRow := ItemsPerRow(viewportWidth, idealSize, multiplier)
	size := viewportWidth / (float64(perRow) * multiplier)
	return math.Floor(size*100) / 100
}
