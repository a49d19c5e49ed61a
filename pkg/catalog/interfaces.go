package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Purpose tells a storage backend which slot a binary fills. The disk
// backend treats the two differently: covers go to disk so they can be
// served statically, content payloads are inlined into the record.
type Purpose string

const (
	PurposeCover   Purpose = "cover"
	PurposeContent Purpose = "content"
)

// UploadParams contains parameters for storing a binary.
type UploadParams struct {
	Key      string
	MimeType string
	Class    Classification
	Purpose  Purpose
}

// BlobStore defines the interface for binary storage backends.
//
// Store persists a byte buffer and returns a durable reference. Release
// destroys the binary a reference points at; inline references need no
// release because the bytes live in the metadata record.
type BlobStore interface {
	Store(ctx context.Context, data []byte, params UploadParams) (BlobRef, error)
	Release(ctx context.Context, ref BlobRef, class Classification) error
}

// Repository defines the interface for item persistence.
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}
