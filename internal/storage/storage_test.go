package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("k", []byte("v")))
	value, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Set("k", []byte("v")))
	require.NoError(t, store.Delete("k"))

	_, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete("k"))
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, _, err := store.Get("k")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Set("k", nil), ErrStoreClosed)
	assert.ErrorIs(t, store.Delete("k"), ErrStoreClosed)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	value := []byte("original")
	require.NoError(t, store.Set("k", value))
	value[0] = 'X'

	stored, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), stored)

	// Mutating the returned slice must not affect the stored copy either.
	stored[0] = 'Y'
	again, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestGetList_AbsentKey(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	items, err := GetList[string](store, "missing")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetList_GetList_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	type record struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}

	want := []record{{ID: "a", Count: 2}, {ID: "b", Count: 1}}
	require.NoError(t, SetList(store, "records", want))

	got, err := GetList[record](store, "records")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetList_CorruptValue(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Set("records", []byte("{not json")))

	_, err := GetList[string](store, "records")
	assert.Error(t, err)
}

func TestGetString_SetString(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	_, ok, err := GetString(store, "tone")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetString(store, "tone", "medium-dark"))
	value, ok, err := GetString(store, "tone")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "medium-dark", value)
}

func TestStorageKeys(t *testing.T) {
	// The key names are a persisted contract with existing user data.
	assert.Equal(t, "ch-recent-emojis", KeyRecentEmojis)
	assert.Equal(t, "ch-emojis-frequently", KeyFrequentEmojis)
	assert.Equal(t, "ch-emojis-skintone", KeyEmojiSkintones)
	assert.Equal(t, "ch-emojis-global-skintone", KeyGlobalSkintone)
}
