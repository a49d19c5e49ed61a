package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Service orchestrates blob uploads and metadata persistence for catalog
// items. Binary uploads always complete before the metadata write; blobs
// uploaded before a later failure are not rolled back.
type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}
