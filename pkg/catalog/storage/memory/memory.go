package memory

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/tendant/simple-catalog/pkg/catalog"
)

const urlScheme = "memory://"

// Backend is an in-memory implementation of the catalog.BlobStore
// interface, used for tests and development.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
	classes map[string]catalog.Classification
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string][]byte),
		classes: make(map[string]catalog.Classification),
	}
}

// Store keeps the bytes in memory and returns a memory:// reference.
func (b *Backend) Store(ctx context.Context, data []byte, params catalog.UploadParams) (catalog.BlobRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[params.Key] = bytes.Clone(data)
	b.classes[params.Key] = params.Class

	return catalog.BlobRef{URL: urlScheme + params.Key}, nil
}

// Release drops the stored bytes for a reference. Inline references have
// nothing to release.
func (b *Backend) Release(ctx context.Context, ref catalog.BlobRef, class catalog.Classification) error {
	if ref.Inline() {
		return nil
	}

	key := strings.TrimPrefix(ref.URL, urlScheme)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return catalog.ErrBlobNotFound
	}

	delete(b.objects, key)
	delete(b.classes, key)
	return nil
}

// Object returns the stored bytes and classification for a key. Intended
// for tests.
func (b *Backend) Object(key string) ([]byte, catalog.Classification, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, "", false
	}
	return bytes.Clone(data), b.classes[key], true
}

// Len returns the number of stored objects.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
