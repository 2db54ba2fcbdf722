package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/serroba/shortref/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Store.
type MemoryStore struct {
	mu    sync.RWMutex
	urls  map[shortener.Code]string // code -> url
	codes map[string]shortener.Code // url -> code
}

// NewMemoryStore creates a new in-memory store seeded with initial. The seed
// goes through Put, so it must itself be bijective.
func NewMemoryStore(initial map[shortener.Code]string) (*MemoryStore, error) {
	m := &MemoryStore{
		urls:  make(map[shortener.Code]string),
		codes: make(map[string]shortener.Code),
	}

	for code, url := range initial {
		if err := m.Put(context.Background(), code, url); err != nil {
			return nil, fmt.Errorf("seed %q: %w", code, err)
		}
	}

	return m, nil
}

// Put checks both constraints and inserts both directions under one lock.
// The key is checked first, so re-putting an existing pair is ErrDuplicateKey.
func (m *MemoryStore) Put(_ context.Context, code shortener.Code, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[code]; ok {
		return shortener.ErrDuplicateKey
	}

	if _, ok := m.codes[url]; ok {
		return shortener.ErrDuplicateValue
	}

	m.urls[code] = url
	m.codes[url] = code

	return nil
}

func (m *MemoryStore) Get(_ context.Context, code shortener.Code) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[code]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return url, nil
}

func (m *MemoryStore) KeyFor(_ context.Context, url string) (shortener.Code, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.codes[url]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return code, nil
}

// Len returns the number of stored pairs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.urls)
}

var _ shortener.Store = (*MemoryStore)(nil)
