// Package storage provides the durable key-value collaborator backing the
// picker's suggestion and skintone state, plus an embedded SQLite database
// that can hold the emoji catalog itself.
//
// Values are stored as JSON-encoded lists under well-known keys, mirroring
// the flat key-value contract of browser local storage. Two implementations
// are provided: an in-memory store for tests and hosts without persistence,
// and a SQLite-backed store for durable per-user state.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Storage keys for the picker's persisted state.
const (
	KeyRecentEmojis    = "ch-recent-emojis"
	KeyFrequentEmojis  = "ch-emojis-frequently"
	KeyEmojiSkintones  = "ch-emojis-skintone"
	KeyGlobalSkintone  = "ch-emojis-global-skintone"
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("storage: store is closed")

// Store is the durable key-value contract. Reads of absent keys return
// ok=false with no error; persistence is synchronous and read-your-write.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// GetList reads and decodes the JSON list stored under key. An absent key
// yields an empty list.
func GetList[T any](s Store, key string) ([]T, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return nil, fmt.Errorf("storage: reading %q: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("storage: decoding %q: %w", key, err)
	}
	return items, nil
}

// SetList encodes items as JSON and stores it under key.
func SetList[T any](s Store, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("storage: encoding %q: %w", key, err)
	}
	if err := s.Set(key, raw); err != nil {
		return fmt.Errorf("storage: writing %q: %w", key, err)
	}
	return nil
}

// GetString reads a single string value stored under key.
func GetString(s Store, key string) (string, bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(raw), true, nil
}

// SetString stores a single string value under key.
func SetString(s Store, key, value string) error {
	return s.Set(key, []byte(value))
}

// MemoryStore is an in-process Store. It satisfies the same synchronous
// read-your-write semantics as the durable stores and is safe for concurrent
// use.
type MemoryStore struct {
	mutex  sync.RWMutex
	values map[string][]byte
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.closed {
		return nil, false, ErrStoreClosed
	}
	raw, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(key string, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

// Delete removes key from the store.
func (m *MemoryStore) Delete(key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	delete(m.values, key)
	return nil
}

// Close marks the store closed. Further operations fail with ErrStoreClosed.
func (m *MemoryStore) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	return nil
}
