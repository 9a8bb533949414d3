package localization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslator(t *testing.T) {
	translator, err := NewTranslator("en")
	require.NoError(t, err)
	assert.Equal(t, "en", translator.Language())
	assert.Equal(t, "Smileys & People", translator.Translate("emojipicker.category.smileys-people"))
}

func TestNewTranslator_ResolvesLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"de", "de"},
		{"de-AT", "de"},
		{"nl", "nl"},
		{"", "en"},
		{"xx-Nope", "en"},
		{"not a locale", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			translator, err := NewTranslator(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, translator.Language())
		})
	}
}

func TestTranslator_Translate_German(t *testing.T) {
	translator, err := NewTranslator("de")
	require.NoError(t, err)
	assert.Equal(t, "Smileys & Personen", translator.Translate("emojipicker.category.smileys-people"))
	assert.Equal(t, "Keine Emojis gefunden", translator.Translate("emojipicker.search.empty"))
}

func TestTranslator_Translate_FallsBackToKey(t *testing.T) {
	translator, err := NewTranslator("en")
	require.NoError(t, err)
	assert.Equal(t, "emojipicker.bogus.key", translator.Translate("emojipicker.bogus.key"))
}

func TestTranslator_SetLanguage(t *testing.T) {
	translator, err := NewTranslator("en")
	require.NoError(t, err)

	translator.SetLanguage("de")
	assert.Equal(t, "de", translator.Language())
	assert.Equal(t, "Vorschläge", translator.Translate("emojipicker.category.suggestions"))

	// Unknown locales fall back to the default rather than failing.
	translator.SetLanguage("zz")
	assert.Equal(t, "en", translator.Language())
}
