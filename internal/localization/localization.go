// Package localization exposes the translate(key) lookup over embedded
// per-locale string bundles. Locale resolution uses language matching with a
// fallback to English, and missing keys fall through to the English bundle
// before degrading to the key itself.
package localization

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var bundleFS embed.FS

// DefaultLanguage is the fallback bundle.
const DefaultLanguage = "en"

// Translator resolves translation keys for one active language.
type Translator struct {
	mutex    sync.RWMutex
	bundles  map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
	language string
}

// NewTranslator loads the embedded bundles and activates the best match for
// locale. A missing default bundle is an initialization error.
func NewTranslator(locale string) (*Translator, error) {
	entries, err := bundleFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("localization: reading bundles: %w", err)
	}

	t := &Translator{bundles: make(map[string]map[string]string, len(entries))}
	for _, entry := range entries {
		name := entry.Name()
		lang := strings.TrimSuffix(name, ".yaml")
		raw, err := bundleFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("localization: reading bundle %q: %w", name, err)
		}
		var bundle map[string]string
		if err := yaml.Unmarshal(raw, &bundle); err != nil {
			return nil, fmt.Errorf("localization: parsing bundle %q: %w", name, err)
		}
		t.bundles[lang] = bundle
	}

	if _, ok := t.bundles[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("localization: default bundle %q missing", DefaultLanguage)
	}

	t.tags = append(t.tags, language.Make(DefaultLanguage))
	for lang := range t.bundles {
		if lang != DefaultLanguage {
			t.tags = append(t.tags, language.Make(lang))
		}
	}
	t.matcher = language.NewMatcher(t.tags)

	t.language = t.resolve(locale)
	return t, nil
}

// Language returns the active language code.
func (t *Translator) Language() string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.language
}

// SetLanguage switches the active language to the best match for locale.
func (t *Translator) SetLanguage(locale string) {
	resolved := t.resolve(locale)
	t.mutex.Lock()
	t.language = resolved
	t.mutex.Unlock()
}

// Translate resolves key in the active language, falling back to the default
// bundle, then to the key itself.
func (t *Translator) Translate(key string) string {
	t.mutex.RLock()
	lang := t.language
	t.mutex.RUnlock()

	if value, ok := t.bundles[lang][key]; ok {
		return value
	}
	if value, ok := t.bundles[DefaultLanguage][key]; ok {
		return value
	}
	return key
}

func (t *Translator) resolve(locale string) string {
	if locale == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLanguage
	}
	_, index, conf := t.matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	base, _ := t.tags[index].Base()
	return base.String()
}
