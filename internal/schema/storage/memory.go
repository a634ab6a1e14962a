package storage

import (
	"context"
	"sync"

	"github.com/aevon-lab/routekit/internal/schema"
)

// MemoryNamespace is an in-memory implementation of schema.Namespace.
type MemoryNamespace struct {
	mu    sync.RWMutex
	docs  map[string]schema.Document
	order []string
}

// NewMemoryNamespace creates an empty schema namespace.
func NewMemoryNamespace() *MemoryNamespace {
	return &MemoryNamespace{
		docs: make(map[string]schema.Document),
	}
}

func (n *MemoryNamespace) AddSchema(ctx context.Context, doc schema.Document) error {
	id := doc.ID()
	if id == "" {
		return schema.ErrMissingID
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.docs[id]; exists {
		return schema.ErrDuplicateID
	}

	// Store a copy to prevent external modification
	n.docs[id] = doc.Clone()
	n.order = append(n.order, id)
	return nil
}

func (n *MemoryNamespace) GetSchema(ctx context.Context, id string) (schema.Document, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	doc, exists := n.docs[id]
	if !exists {
		return nil, schema.ErrNotFound
	}
	return doc.Clone(), nil
}

func (n *MemoryNamespace) IDs(ctx context.Context) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}
