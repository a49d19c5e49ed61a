package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// Repository implements catalog.Repository using in-memory storage
type Repository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*catalog.Item
	order []uuid.UUID // insertion order for ListItems
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		items: make(map[uuid.UUID]*catalog.Item),
	}
}

func (r *Repository) CreateItem(ctx context.Context, item *catalog.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = copyItem(item)
	r.order = append(r.order, item.ID)

	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, catalog.ErrItemNotFound
	}

	return copyItem(item), nil
}

func (r *Repository) ListItems(ctx context.Context) ([]*catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Item, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, copyItem(r.items[id]))
	}

	return result, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *catalog.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		return catalog.ErrItemNotFound
	}

	r.items[item.ID] = copyItem(item)

	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return catalog.ErrItemNotFound
	}

	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// copyItem clones an item, including inline payload bytes, so callers
// cannot mutate stored state.
func copyItem(item *catalog.Item) *catalog.Item {
	itemCopy := *item
	itemCopy.Payload.Data = bytes.Clone(item.Payload.Data)
	if item.Cover != nil {
		coverCopy := *item.Cover
		coverCopy.Data = bytes.Clone(item.Cover.Data)
		itemCopy.Cover = &coverCopy
	}
	return &itemCopy
}
