package repository

import (
	"context"
	"sync"

	"github.com/gogotex/docregistry/internal/document"
)

// MemoryRepo is an in-memory repository used by default and in unit tests.
// Insertion order is tracked by a key slice alongside the map.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*document.Document
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*document.Document)}
}

func (m *MemoryRepo) Insert(_ context.Context, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[doc.ID]; ok {
		return ErrDuplicateID
	}
	m.store[doc.ID] = doc.Clone()
	m.order = append(m.order, doc.ID)
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		return d.Clone(), nil
	}
	return nil, document.ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*document.Document, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id].Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[doc.ID]; !ok {
		return document.ErrNotFound
	}
	m.store[doc.ID] = doc.Clone()
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return nil, document.ErrNotFound
	}
	delete(m.store, id)
	for i, k := range m.order {
		if k == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return d, nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

func (m *MemoryRepo) Close() error { return nil }
