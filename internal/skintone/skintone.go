// Package skintone resolves the displayed glyph of an emoji under the active
// skintone policy. Resolution is a pure function of the catalog record, the
// skintone setting, the global skintone choice, and the persisted per-emoji
// overrides; nothing here touches storage.
package skintone

import (
	"sync"

	"github.com/chitchat/emojikit/internal/emoji"
)

// Resolve returns e with its value substituted per the skintone policy.
//
// Emojis without variants, and any policy under SkintoneSettingNone, resolve
// to the record unchanged. Under SkintoneSettingIndividual the persisted
// override for the emoji wins when present. Under the global and both
// settings the variant matching the global choice is substituted; a missing
// variant falls back to the default glyph rather than failing.
func Resolve(e emoji.Emoji, setting emoji.SkintoneSetting, globalChoice emoji.Skintone, overrides map[string]string) emoji.Emoji {
	if !e.HasVariants() || setting == emoji.SkintoneSettingNone {
		return e
	}

	if setting == emoji.SkintoneSettingIndividual {
		if value, ok := overrides[e.ID]; ok && value != "" {
			e.Value = value
		}
		return e
	}

	if variant, ok := e.VariantFor(globalChoice); ok {
		e.Value = variant.Value
	}
	return e
}

// OverrideMap indexes persisted individual overrides by emoji id.
func OverrideMap(overrides []emoji.IndividualSkintone) map[string]string {
	m := make(map[string]string, len(overrides))
	for _, o := range overrides {
		m[o.EmojiID] = o.EmojiValue
	}
	return m
}

// ParseGlobal validates a stored global skintone value, falling back to the
// default skintone on anything unknown. Storage contents are untrusted.
func ParseGlobal(value string) emoji.Skintone {
	tone := emoji.Skintone(value)
	if emoji.IsValidSkintone(tone) {
		return tone
	}
	return emoji.SkintoneDefault
}

// Resolver builds id-to-resolved-emoji maps, memoizing per id so entries
// whose inputs did not change keep their previous record across
// regenerations. Downstream consumers diffing by identity then only see the
// entries that actually changed.
type Resolver struct {
	mutex sync.Mutex
	cache map[string]cachedEntry
}

type cachedEntry struct {
	key      string
	resolved emoji.Emoji
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]cachedEntry)}
}

// EmojiMap resolves every catalog record under the given policy.
func (r *Resolver) EmojiMap(catalog *emoji.Catalog, setting emoji.SkintoneSetting, globalChoice emoji.Skintone, overrides map[string]string) map[string]emoji.Emoji {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	all := catalog.All()
	out := make(map[string]emoji.Emoji, len(all))
	next := make(map[string]cachedEntry, len(all))

	for _, e := range all {
		key := cacheKey(e, setting, globalChoice, overrides)
		if entry, ok := r.cache[e.ID]; ok && entry.key == key {
			out[e.ID] = entry.resolved
			next[e.ID] = entry
			continue
		}
		resolved := Resolve(e, setting, globalChoice, overrides)
		out[e.ID] = resolved
		next[e.ID] = cachedEntry{key: key, resolved: resolved}
	}

	r.cache = next
	return out
}

// cacheKey captures the inputs that affect one emoji's resolution. Emojis
// without variants resolve to themselves under every policy and share a
// single key.
func cacheKey(e emoji.Emoji, setting emoji.SkintoneSetting, globalChoice emoji.Skintone, overrides map[string]string) string {
	if !e.HasVariants() {
		return ""
	}
	switch setting {
	case emoji.SkintoneSettingNone:
		return "none"
	case emoji.SkintoneSettingIndividual:
		return "individual|" + overrides[e.ID]
	default:
		return string(setting) + "|" + string(globalChoice)
	}
}
