package store

import (
	"context"
	"slices"
	"sync"

	"github.com/serroba/shortref/internal/shortener"
)

// Memory keeps accesses in process. Redelivered events are recognized by ID
// and recorded once.
type Memory struct {
	mu       sync.RWMutex
	accesses map[shortener.Code][]shortener.Access
	seen     map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		accesses: make(map[shortener.Code][]shortener.Access),
		seen:     make(map[string]struct{}),
	}
}

func (m *Memory) Record(_ context.Context, code shortener.Code, access shortener.Access) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if access.ID != "" {
		if _, ok := m.seen[access.ID]; ok {
			return nil
		}

		m.seen[access.ID] = struct{}{}
	}

	access.Code = code
	m.accesses[code] = append(m.accesses[code], access)

	return nil
}

func (m *Memory) Accesses(_ context.Context, code shortener.Code) ([]shortener.Access, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if got := m.accesses[code]; got != nil {
		return slices.Clone(got), nil
	}

	return []shortener.Access{}, nil
}

var _ shortener.AccessLog = (*Memory)(nil)
