package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-catalog/pkg/catalog"
)

// Backend is the local-disk implementation of the catalog.BlobStore
// interface. Cover images are written under BaseDir and referenced by a
// URL under URLPrefix so a static file server can expose them; content
// payloads are returned as inline references owned by the metadata record.
type Backend struct {
	baseDir   string
	urlPrefix string
	maxBytes  int64
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix covers are served under (e.g. "/static")
	MaxBytes  int64  // Upload size ceiling in bytes, 0 for no limit
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if config.URLPrefix == "" {
		return nil, errors.New("url prefix is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
		maxBytes:  config.MaxBytes,
	}, nil
}

// Store persists a binary. Covers are written to disk and referenced by
// URL; content payloads are inlined. The size ceiling applies to both at
// intake.
func (b *Backend) Store(ctx context.Context, data []byte, params catalog.UploadParams) (catalog.BlobRef, error) {
	if b.maxBytes > 0 && int64(len(data)) > b.maxBytes {
		return catalog.BlobRef{}, &catalog.StorageError{
			Backend: "fs",
			Key:     params.Key,
			Op:      "store",
			Err:     fmt.Errorf("%d bytes exceeds upload limit of %d", len(data), b.maxBytes),
		}
	}

	if params.Purpose == catalog.PurposeContent {
		return catalog.BlobRef{Data: bytes.Clone(data)}, nil
	}

	filePath := filepath.Join(b.baseDir, filepath.FromSlash(params.Key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return catalog.BlobRef{}, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return catalog.BlobRef{}, fmt.Errorf("failed to write file: %w", err)
	}

	return catalog.BlobRef{URL: b.urlPrefix + "/" + params.Key}, nil
}

// Release deletes the file a reference points at. Inline references are
// owned by the metadata record and need no release.
func (b *Backend) Release(ctx context.Context, ref catalog.BlobRef, class catalog.Classification) error {
	if ref.Inline() || ref.URL == "" {
		return nil
	}

	key := strings.TrimPrefix(ref.URL, b.urlPrefix+"/")
	filePath := filepath.Join(b.baseDir, filepath.FromSlash(key))

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return catalog.ErrBlobNotFound
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	b.cleanupEmptyDirectories(filepath.Dir(filePath))

	return nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
