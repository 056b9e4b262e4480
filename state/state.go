package state

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrInvalidKey indicates an empty key.
	ErrInvalidKey = errors.New("key is invalid")

	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("key not found")
)

// Store is the key-value surface used by stateful stubs.
type Store interface {
	// Get returns the value stored under key.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any existing value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns all stored keys in sorted order.
	Keys() ([]string, error)
}

// Config provides configuration options for store creation.
type Config struct {
	// Seed preloads the store with initial data.
	Seed map[string][]byte
}

// Memory is the in-memory Store implementation.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// Compile-time check: Memory satisfies the Store interface.
var _ Store = (*Memory)(nil)

// New creates a Memory store, copying any seed data.
func New(config Config) (*Memory, error) {
	data := make(map[string][]byte, len(config.Seed))
	for k, v := range config.Seed {
		data[k] = append([]byte(nil), v...)
	}
	return &Memory{data: data}, nil
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set stores value under key, replacing any existing value.
func (m *Memory) Set(key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Keys returns all stored keys in sorted order.
func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
