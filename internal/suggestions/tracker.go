// Package suggestions tracks emoji usage history: the most-recently-used id
// list and the frequency records behind the "frequent" suggestion mode, plus
// the persisted skintone choices. All operations are synchronous against the
// storage collaborator and read-your-write.
package suggestions

import (
	"fmt"
	"sort"
	"time"

	"github.com/chitchat/emojikit/internal/emoji"
	"github.com/chitchat/emojikit/internal/skintone"
	"github.com/chitchat/emojikit/internal/storage"
)

// DefaultLimit bounds both the recent list and the frequency record list.
const DefaultLimit = 100

// FrequentEmoji is one persisted frequency record.
type FrequentEmoji struct {
	ID       string `json:"id"`
	Count    int    `json:"count"`
	DateInMs int64  `json:"dateInMs"`
}

// Tracker persists and ranks usage history. One call per user selection is
// the expected rate; every operation is O(n) over the bounded lists.
type Tracker struct {
	store         storage.Store
	recentLimit   int
	frequentLimit int
	now           func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithRecentLimit bounds the persisted recent list.
func WithRecentLimit(limit int) Option {
	return func(t *Tracker) { t.recentLimit = limit }
}

// WithFrequentLimit bounds the persisted frequency record list.
func WithFrequentLimit(limit int) Option {
	return func(t *Tracker) { t.frequentLimit = limit }
}

// WithClock overrides the time source. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a tracker over the given store.
func NewTracker(store storage.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:         store,
		recentLimit:   DefaultLimit,
		frequentLimit: DefaultLimit,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Recents returns the persisted recent id list, most-recent-first.
func (t *Tracker) Recents() ([]string, error) {
	return storage.GetList[string](t.store, storage.KeyRecentEmojis)
}

// AddToRecents prepends id to the recent list, deduplicates keeping the
// most-recent position, truncates to the configured limit and persists the
// result before returning it.
func (t *Tracker) AddToRecents(id string) ([]string, error) {
	recents, err := t.Recents()
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, len(recents)+1)
	updated = append(updated, id)
	for _, existing := range recents {
		if existing != id {
			updated = append(updated, existing)
		}
	}
	if len(updated) > t.recentLimit {
		updated = updated[:t.recentLimit]
	}

	if err := storage.SetList(t.store, storage.KeyRecentEmojis, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// FrequentEmojis returns the persisted frequency records in display order:
// count descending, ties broken by older usage first.
func (t *Tracker) FrequentEmojis() ([]FrequentEmoji, error) {
	records, err := storage.GetList[FrequentEmoji](t.store, storage.KeyFrequentEmojis)
	if err != nil {
		return nil, err
	}
	sortFrequent(records, false)
	return records, nil
}

// IncreaseFrequency bumps the record for id (inserting it at count 1 when
// absent), refreshes its timestamp, evicts past the limit and persists. The
// returned list is in display order.
//
// Eviction ties break newest-first so recently reinforced entries survive,
// while display ties break oldest-first for a stable on-screen order. The
// asymmetry matches the persisted product behavior.
func (t *Tracker) IncreaseFrequency(id string) ([]FrequentEmoji, error) {
	records, err := storage.GetList[FrequentEmoji](t.store, storage.KeyFrequentEmojis)
	if err != nil {
		return nil, err
	}

	dateInMs := t.now().UnixMilli()
	found := false
	for i := range records {
		if records[i].ID == id {
			records[i].Count++
			records[i].DateInMs = dateInMs
			found = true
			break
		}
	}
	if !found {
		records = append(records, FrequentEmoji{ID: id, Count: 1, DateInMs: dateInMs})
	}

	if len(records) > t.frequentLimit {
		sortFrequent(records, true)
		records = records[:t.frequentLimit]
	}

	if err := storage.SetList(t.store, storage.KeyFrequentEmojis, records); err != nil {
		return nil, err
	}

	sortFrequent(records, false)
	return records, nil
}

func sortFrequent(records []FrequentEmoji, dateDescending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		if dateDescending {
			return records[i].DateInMs > records[j].DateInMs
		}
		return records[i].DateInMs < records[j].DateInMs
	})
}

// IndividualSkintones returns the persisted per-emoji skintone overrides.
func (t *Tracker) IndividualSkintones() ([]emoji.IndividualSkintone, error) {
	return storage.GetList[emoji.IndividualSkintone](t.store, storage.KeyEmojiSkintones)
}

// SetSkintone upserts the override for emojiID and persists the list.
func (t *Tracker) SetSkintone(emojiID, emojiValue string) ([]emoji.IndividualSkintone, error) {
	if emojiID == "" {
		return nil, fmt.Errorf("suggestions: empty emoji id")
	}
	overrides, err := t.IndividualSkintones()
	if err != nil {
		return nil, err
	}

	record := emoji.IndividualSkintone{EmojiID: emojiID, EmojiValue: emojiValue}
	replaced := false
	for i := range overrides {
		if overrides[i].EmojiID == emojiID {
			overrides[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		overrides = append(overrides, record)
	}

	if err := storage.SetList(t.store, storage.KeyEmojiSkintones, overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

// GlobalSkintone returns the persisted global skintone choice, falling back
// to the default skintone when unset or invalid.
func (t *Tracker) GlobalSkintone() (emoji.Skintone, error) {
	value, ok, err := storage.GetString(t.store, storage.KeyGlobalSkintone)
	if err != nil {
		return emoji.SkintoneDefault, err
	}
	if !ok {
		return emoji.SkintoneDefault, nil
	}
	return skintone.ParseGlobal(value), nil
}

// SetGlobalSkintone persists the global skintone choice.
func (t *Tracker) SetGlobalSkintone(tone emoji.Skintone) error {
	if !emoji.IsValidSkintone(tone) {
		return fmt.Errorf("suggestions: invalid skintone %q", tone)
	}
	return storage.SetString(t.store, storage.KeyGlobalSkintone, string(tone))
}
