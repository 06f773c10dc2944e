package cache

import (
	"context"
	"sync"

	"github.com/crimson-sun/winnow/internal/model"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	items map[int]model.Content
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: map[int]model.Content{}}
}

func (m *Memory) Get(_ context.Context, id int) (model.Content, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.items[id]
	return c, ok, nil
}

func (m *Memory) Put(_ context.Context, c model.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c
	return nil
}

func (m *Memory) Close() error { return nil }
