// Package picker merges the emoji catalog, suggestion history, filter
// results and skintone policy into the ordered row sequence a virtualized
// render surface consumes. A Session is the state coordinator: it owns every
// mutable setting of one picker instance and recomputes only the derived
// values whose declared inputs changed, broadcasting one update per visible
// change.
package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chitchat/emojikit/internal/emoji"
	"github.com/chitchat/emojikit/internal/filter"
	"github.com/chitchat/emojikit/internal/localization"
	"github.com/chitchat/emojikit/internal/logging"
	"github.com/chitchat/emojikit/internal/rows"
	"github.com/chitchat/emojikit/internal/skintone"
	"github.com/chitchat/emojikit/internal/suggestions"
)

// Coordinator errors. All indicate a desync between the render surface and
// the session state and are never swallowed.
var (
	ErrEmojiNotFound         = errors.New("picker: emoji id not found")
	ErrCategoryNotConfigured = errors.New("picker: category not configured")
	ErrCategoryNotVisible    = errors.New("picker: category has no header row in the current view")
)

// FilteredResult is the outcome of the latest search evaluation.
type FilteredResult struct {
	FilterActive bool
	EmojiIDs     []string
}

// Update notifies subscribers that the merged row sequence changed.
type Update struct {
	Generation uint64
	Rows       []rows.Row
	EmojiSize  float64
	Timestamp  time.Time
}

// Session coordinates one picker instance.
type Session struct {
	catalog    *emoji.Catalog
	tracker    *suggestions.Tracker
	engine     *filter.Engine
	translator *localization.Translator
	resolver   *skintone.Resolver
	logger     logging.Logger

	mutex    sync.RWMutex
	settings Settings

	globalSkintone   emoji.Skintone
	overrides        map[string]string
	selectedCategory emoji.Category

	searchText  string
	searchGen   uint64
	searchTimer *time.Timer
	filtered    FilteredResult

	emojiMap    map[string]emoji.Emoji
	rowSeq      []rows.Row
	headerIndex map[emoji.Category]int
	generation  uint64

	subscribers []chan Update
}

// SessionOption configures a Session at construction.
type SessionOption func(*Session)

// WithSettings replaces the default settings.
func WithSettings(settings Settings) SessionOption {
	return func(s *Session) { s.settings = settings }
}

// WithLogger injects a logger. The default discards everything.
func WithLogger(logger logging.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession constructs a coordinator over the given collaborators, loads
// the persisted skintone state and computes the initial row sequence. Any
// failure here is fatal to the picker; callers decide whether to retry.
func NewSession(catalog *emoji.Catalog, tracker *suggestions.Tracker, engine *filter.Engine, translator *localization.Translator, opts ...SessionOption) (*Session, error) {
	if catalog == nil {
		return nil, fmt.Errorf("picker: nil catalog")
	}
	if tracker == nil {
		return nil, fmt.Errorf("picker: nil suggestion tracker")
	}
	if engine == nil {
		return nil, fmt.Errorf("picker: nil filter engine")
	}
	if translator == nil {
		return nil, fmt.Errorf("picker: nil translator")
	}

	s := &Session{
		catalog:    catalog,
		tracker:    tracker,
		engine:     engine,
		translator: translator,
		resolver:   skintone.NewResolver(),
		logger:     logging.NewNopLogger(),
		settings:   DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.settings.Validate(); err != nil {
		return nil, err
	}
	s.selectedCategory = s.settings.Categories[0]

	globalTone, err := tracker.GlobalSkintone()
	if err != nil {
		return nil, fmt.Errorf("picker: loading global skintone: %w", err)
	}
	s.globalSkintone = globalTone

	overrides, err := tracker.IndividualSkintones()
	if err != nil {
		return nil, fmt.Errorf("picker: loading skintone overrides: %w", err)
	}
	s.overrides = skintone.OverrideMap(overrides)

	s.mutex.Lock()
	s.recomputeLocked(true)
	s.mutex.Unlock()

	return s, nil
}

// Close stops the pending search timer and closes all subscriber channels.
func (s *Session) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
}

// Subscribe returns a channel receiving one Update per row-sequence change.
// Slow consumers miss intermediate updates rather than blocking the session.
func (s *Session) Subscribe() <-chan Update {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	ch := make(chan Update, 16)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (s *Session) Unsubscribe(ch <-chan Update) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			close(sub)
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			break
		}
	}
}

// Rows returns the current merged row sequence.
func (s *Session) Rows() []rows.Row {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]rows.Row, len(s.rowSeq))
	copy(out, s.rowSeq)
	return out
}

// Generation returns the row sequence generation counter.
func (s *Session) Generation() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.generation
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() Settings {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	settings := s.settings
	settings.Categories = append([]emoji.Category(nil), s.settings.Categories...)
	return settings
}

// SelectedCategory returns the category the picker last navigated to.
func (s *Session) SelectedCategory() emoji.Category {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.selectedCategory
}

// EmojiSize returns the on-screen emoji size under the current geometry:
// the viewport width divided evenly across the computed row capacity.
func (s *Session) EmojiSize() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.emojiSizeLocked()
}

func (s *Session) emojiSizeLocked() float64 {
	return rows.EmojiSize(
		s.settings.ViewportWidth, s.settings.EmojiSize, s.settings.ItemSizeMultiplier)
}

// Snapshot is a consistent view of the rendered state: the rows, the
// generation they belong to, and the geometry they were packed under.
type Snapshot struct {
	Generation uint64
	Rows       []rows.Row
	EmojiSize  float64
}

// Snapshot returns generation, rows and emoji size from a single lock
// acquisition, so callers never pair rows with a neighboring generation.
func (s *Session) Snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]rows.Row, len(s.rowSeq))
	copy(out, s.rowSeq)
	return Snapshot{Generation: s.generation, Rows: out, EmojiSize: s.emojiSizeLocked()}
}

// Filtered returns the latest search evaluation result.
func (s *Session) Filtered() FilteredResult {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	result := s.filtered
	result.EmojiIDs = append([]string(nil), s.filtered.EmojiIDs...)
	return result
}

// EmojiByID returns the resolved emoji for id from the current map.
func (s *Session) EmojiByID(id string) (emoji.Emoji, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	e, ok := s.emojiMap[id]
	return e, ok
}

// SelectEmoji records a selection. The returned record carries the resolved
// glyph. An unknown id means the rendered rows and the resolved map have
// diverged; that is a programming-error-class fault, reported, never
// ignored.
func (s *Session) SelectEmoji(id string) (emoji.Emoji, error) {
	s.mutex.RLock()
	resolved, ok := s.emojiMap[id]
	autoUpdate := s.settings.AutoUpdateSuggestions
	s.mutex.RUnlock()

	if !ok {
		return emoji.Emoji{}, fmt.Errorf("%w: %q", ErrEmojiNotFound, id)
	}

	if autoUpdate {
		if _, err := s.tracker.AddToRecents(id); err != nil {
			return emoji.Emoji{}, fmt.Errorf("picker: recording recent selection: %w", err)
		}
		if _, err := s.tracker.IncreaseFrequency(id); err != nil {
			return emoji.Emoji{}, fmt.Errorf("picker: recording selection frequency: %w", err)
		}
		s.mutex.Lock()
		s.recomputeLocked(false)
		s.mutex.Unlock()
	}

	return resolved, nil
}

// NavigateToCategory returns the index of the category's header row in the
// current sequence and marks it selected. Absent categories are explicit
// errors so callers can detect state desync.
func (s *Session) NavigateToCategory(category emoji.Category) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	configured := false
	for _, cat := range s.settings.Categories {
		if cat == category {
			configured = true
			break
		}
	}
	if !configured {
		return 0, fmt.Errorf("%w: %q", ErrCategoryNotConfigured, category)
	}

	index, ok := s.headerIndex[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrCategoryNotVisible, category)
	}

	s.selectedCategory = category
	return index, nil
}

// SetSearchText schedules a filter evaluation for text. Evaluation is
// debounced; clearing the search applies immediately. A newer call
// supersedes any evaluation still in flight.
func (s *Session) SetSearchText(text string) {
	s.mutex.Lock()

	s.searchText = text
	s.searchGen++
	gen := s.searchGen
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}

	normalized := filter.Normalize(text)
	if normalized == "" {
		cleared := s.filtered.FilterActive
		s.filtered = FilteredResult{}
		if cleared {
			s.recomputeLocked(false)
		}
		s.mutex.Unlock()
		return
	}

	debounce := s.settings.SearchDebounce
	if debounce <= 0 {
		s.mutex.Unlock()
		s.evaluateSearch(gen, normalized)
		return
	}
	s.searchTimer = time.AfterFunc(debounce, func() {
		s.evaluateSearch(gen, normalized)
	})
	s.mutex.Unlock()
}

// SearchText returns the raw search input.
func (s *Session) SearchText() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.searchText
}

func (s *Session) evaluateSearch(gen uint64, normalized string) {
	s.mutex.RLock()
	candidates := s.candidateIDsLocked()
	s.mutex.RUnlock()

	ids, err := s.engine.Filter(normalized, s.translator.Language(), candidates)

	s.mutex.Lock()
	if gen != s.searchGen {
		// A newer search or a clear superseded this evaluation.
		s.mutex.Unlock()
		return
	}
	if err != nil {
		s.mutex.Unlock()
		s.logger.Error(context.Background(), err, "filter evaluation failed", "search", normalized)
		return
	}
	s.filtered = FilteredResult{FilterActive: true, EmojiIDs: ids}
	s.recomputeLocked(false)
	s.mutex.Unlock()
}

// candidateIDsLocked lists the ids of the configured default view; the
// filter never surfaces emojis from excluded categories.
func (s *Session) candidateIDsLocked() []string {
	subset := s.catalog.Fetch(s.settings.displayCategories())
	ids := make([]string, len(subset))
	for i, e := range subset {
		ids[i] = e.ID
	}
	return ids
}

// SetViewportWidth updates the viewport width used for capacity math.
func (s *Session) SetViewportWidth(width float64) error {
	return s.updateSettings(func(settings *Settings) { settings.ViewportWidth = width }, false)
}

// SetEmojiSize updates the base emoji size.
func (s *Session) SetEmojiSize(size float64) error {
	return s.updateSettings(func(settings *Settings) { settings.EmojiSize = size }, false)
}

// SetItemSizeMultiplier updates the glyph-to-footprint scale factor.
func (s *Session) SetItemSizeMultiplier(multiplier float64) error {
	return s.updateSettings(func(settings *Settings) { settings.ItemSizeMultiplier = multiplier }, false)
}

// SetSuggestionMode switches between recent and frequent suggestions.
func (s *Session) SetSuggestionMode(mode emoji.SuggestionMode) error {
	return s.updateSettings(func(settings *Settings) { settings.SuggestionMode = mode }, false)
}

// SetSuggestionLimit bounds the suggestions view.
func (s *Session) SetSuggestionLimit(limit int) error {
	return s.updateSettings(func(settings *Settings) { settings.SuggestionLimit = limit }, false)
}

// SetAutoUpdateSuggestions toggles selection-driven history updates.
func (s *Session) SetAutoUpdateSuggestions(enabled bool) error {
	return s.updateSettings(func(settings *Settings) { settings.AutoUpdateSuggestions = enabled }, false)
}

// SetSkintoneSetting switches the skintone policy. Displayed glyphs change,
// packing does not.
func (s *Session) SetSkintoneSetting(setting emoji.SkintoneSetting) error {
	return s.updateSettings(func(settings *Settings) { settings.SkintoneSetting = setting }, true)
}

// SetCategories replaces the configured category list. When the selected
// category drops out of the list, selection snaps back to the first entry.
func (s *Session) SetCategories(categories []emoji.Category) error {
	err := s.updateSettings(func(settings *Settings) {
		settings.Categories = append([]emoji.Category(nil), categories...)
	}, false)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	stillConfigured := false
	for _, cat := range s.settings.Categories {
		if cat == s.selectedCategory {
			stillConfigured = true
			break
		}
	}
	if !stillConfigured {
		s.selectedCategory = s.settings.Categories[0]
	}
	s.mutex.Unlock()
	return nil
}

// SetGlobalSkintone persists and applies the global skintone choice.
func (s *Session) SetGlobalSkintone(tone emoji.Skintone) error {
	if err := s.tracker.SetGlobalSkintone(tone); err != nil {
		return err
	}
	s.mutex.Lock()
	s.globalSkintone = tone
	s.recomputeLocked(true)
	s.mutex.Unlock()
	return nil
}

// GlobalSkintone returns the active global skintone choice.
func (s *Session) GlobalSkintone() emoji.Skintone {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.globalSkintone
}

// SetIndividualSkintone persists a per-emoji variant override and applies it
// to the resolved map.
func (s *Session) SetIndividualSkintone(emojiID, emojiValue string) error {
	if _, ok := s.catalog.ByID(emojiID); !ok {
		return fmt.Errorf("%w: %q", ErrEmojiNotFound, emojiID)
	}
	overrides, err := s.tracker.SetSkintone(emojiID, emojiValue)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	s.overrides = skintone.OverrideMap(overrides)
	s.recomputeLocked(true)
	s.mutex.Unlock()
	return nil
}

// updateSettings applies mutate, validates the result and recomputes.
// skintoneDirty marks the resolved map as needing regeneration.
func (s *Session) updateSettings(mutate func(*Settings), skintoneDirty bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := s.settings
	next.Categories = append([]emoji.Category(nil), s.settings.Categories...)
	mutate(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.settings = next
	s.recomputeLocked(skintoneDirty)
	return nil
}

// recomputeLocked rebuilds the derived state: the resolved emoji map when
// its inputs changed, then the merged row sequence and header index. Callers
// hold the write lock.
func (s *Session) recomputeLocked(skintoneDirty bool) {
	if skintoneDirty || s.emojiMap == nil {
		s.emojiMap = s.resolver.EmojiMap(
			s.catalog, s.settings.SkintoneSetting, s.globalSkintone, s.overrides)
	}

	perRow := rows.ItemsPerRow(
		s.settings.ViewportWidth, s.settings.EmojiSize, s.settings.ItemSizeMultiplier)
	generator := rows.NewGenerator(perRow, s.settings.GenerateHeaders)

	var seq []rows.Row
	if s.filtered.FilterActive {
		seq = generator.PackFlat(
			emoji.CategorySearch,
			rows.CategoryLabelKey(emoji.CategorySearch),
			s.resolveIDs(s.filtered.EmojiIDs))
	} else {
		seq = append(seq, s.suggestionRows(generator)...)
		defaults := s.resolveAll(s.catalog.Fetch(s.settings.displayCategories()))
		seq = append(seq, generator.PackCategories(defaults)...)
	}

	s.rowSeq = seq
	s.headerIndex = make(map[emoji.Category]int)
	for i, row := range seq {
		if row.Kind == rows.KindCategory {
			if _, seen := s.headerIndex[row.Category]; !seen {
				s.headerIndex[row.Category] = i
			}
		}
	}

	s.generation++
	update := Update{
		Generation: s.generation,
		Rows:       seq,
		EmojiSize:  s.emojiSizeLocked(),
		Timestamp:  time.Now(),
	}
	for _, ch := range s.subscribers {
		select {
		case ch <- update:
		default:
			// Skip if channel is full
		}
	}
}

// suggestionRows packs the recent or frequent history as the suggestions
// pseudo-category. Storage failures degrade to an empty suggestions view;
// the default catalog still renders.
func (s *Session) suggestionRows(generator *rows.Generator) []rows.Row {
	if !s.settings.includesSuggestions() {
		return nil
	}

	var (
		ids []string
		err error
	)
	switch s.settings.SuggestionMode {
	case emoji.SuggestionModeFrequent:
		var records []suggestions.FrequentEmoji
		records, err = s.tracker.FrequentEmojis()
		for _, record := range records {
			ids = append(ids, record.ID)
		}
	default:
		ids, err = s.tracker.Recents()
	}
	if err != nil {
		s.logger.Warn(context.Background(), err, "loading suggestions failed",
			"mode", string(s.settings.SuggestionMode))
		return nil
	}

	if len(ids) > s.settings.SuggestionLimit {
		ids = ids[:s.settings.SuggestionLimit]
	}

	return generator.PackFlat(
		emoji.CategorySuggestions,
		"emojipicker.category."+string(s.settings.SuggestionMode),
		s.resolveIDs(ids))
}

// resolveIDs maps ids through the resolved emoji map, preserving order and
// skipping ids the catalog no longer knows.
func (s *Session) resolveIDs(ids []string) []emoji.Emoji {
	out := make([]emoji.Emoji, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.emojiMap[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// resolveAll swaps catalog records for their resolved counterparts.
func (s *Session) resolveAll(items []emoji.Emoji) []emoji.Emoji {
	out := make([]emoji.Emoji, len(items))
	for i, e := range items {
		if resolved, ok := s.emojiMap[e.ID]; ok {
			out[i] = resolved
		} else {
			out[i] = e
		}
	}
	return out
}

// Translate exposes the localization lookup to render surfaces consuming
// row label keys.
func (s *Session) Translate(key string) string {
	return s.translator.Translate(key)
}
