package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemoryConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("storage.driver", "memory")
}

func TestNewRuntime_MemoryBackend(t *testing.T) {
	setupMemoryConfig(t)

	rt, err := newRuntime()
	require.NoError(t, err)
	defer rt.close()

	assert.Greater(t, rt.catalog.Count(), 0)
	assert.NotEmpty(t, rt.session.Rows())
	assert.Equal(t, "en", rt.translator.Language())
}

func TestNewRuntime_SQLiteBackend(t *testing.T) {
	setupMemoryConfig(t)
	viper.Set("storage.driver", "sqlite")
	viper.Set("storage.path", filepath.Join(t.TempDir(), "emojis.db"))

	rt, err := newRuntime()
	require.NoError(t, err)
	defer rt.close()

	// The database is seeded from the embedded catalog.
	assert.Greater(t, rt.catalog.Count(), 0)
}

func TestNewRuntime_InvalidConfig(t *testing.T) {
	setupMemoryConfig(t)
	viper.Set("suggestions.mode", "popular")

	_, err := newRuntime()
	assert.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	setupMemoryConfig(t)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runSearch(cmd, []string{"cat"}))
	assert.Contains(t, out.String(), "cat-face")
}

func TestSearchCommand_NoMatches(t *testing.T) {
	setupMemoryConfig(t)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runSearch(cmd, []string{"zzzzz"}))
	assert.Contains(t, out.String(), "No emojis found")
}

func TestSearchCommand_GermanLocale(t *testing.T) {
	setupMemoryConfig(t)
	viper.Set("locale", "de")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runSearch(cmd, []string{"hund"}))
	assert.Contains(t, out.String(), "dog-face")
}

func TestListCommand(t *testing.T) {
	setupMemoryConfig(t)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runList(cmd, nil))
	assert.Contains(t, out.String(), "Smileys & People")
	assert.Contains(t, out.String(), "thumbs-up")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "emojikit")
}
