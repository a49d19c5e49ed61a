package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobs      BlobStore
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()

	// Both uploads must succeed before anything is written to the
	// repository. The two uploads have no ordering dependency and run
	// concurrently.
	var cover *BlobRef
	var payload BlobRef

	g, gctx := errgroup.WithContext(ctx)
	if len(req.CoverBytes) > 0 {
		g.Go(func() error {
			ref, err := s.blobs.Store(gctx, req.CoverBytes, UploadParams{
				Key:      objectKey(id, PurposeCover, req.CoverName),
				MimeType: http.DetectContentType(req.CoverBytes),
				Class:    ClassImage,
				Purpose:  PurposeCover,
			})
			if err != nil {
				return err
			}
			cover = &ref
			return nil
		})
	}
	g.Go(func() error {
		ref, err := s.blobs.Store(gctx, req.ContentBytes, UploadParams{
			Key:      objectKey(id, PurposeContent, req.ContentName),
			MimeType: http.DetectContentType(req.ContentBytes),
			Class:    req.Kind.Classification(),
			Purpose:  PurposeContent,
		})
		if err != nil {
			return err
		}
		payload = ref
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, &ItemError{ItemID: id, Op: "create", Err: err}
	}

	now := time.Now().UTC()
	item := &Item{
		ID:        id,
		Title:     req.Title,
		Course:    req.Course,
		Author:    req.Author,
		Kind:      req.Kind,
		Cover:     cover,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateItem(ctx, item); err != nil {
		// The uploaded blobs are not rolled back here; the orphans are
		// logged so an operator can reclaim the storage.
		slog.Error("item create failed after upload, stored blobs orphaned",
			"item_id", id, "error", err)
		return nil, &ItemError{ItemID: id, Op: "create", Err: err}
	}

	return item, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repository.GetItem(ctx, id)
}

func (s *service) ListItems(ctx context.Context) ([]*Item, error) {
	return s.repository.ListItems(ctx)
}

func (s *service) UpdateItem(ctx context.Context, req UpdateItemRequest) (*Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repository.GetItem(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// Merge supplied scalars over the existing record. Refs not replaced
	// below are carried forward from the copy.
	updated := *existing
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Course != nil {
		updated.Course = *req.Course
	}
	if req.Author != nil {
		updated.Author = *req.Author
	}
	if req.Kind != nil {
		updated.Kind = *req.Kind
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(req.CoverBytes) > 0 {
		g.Go(func() error {
			ref, err := s.blobs.Store(gctx, req.CoverBytes, UploadParams{
				Key:      objectKey(req.ID, PurposeCover, req.CoverName),
				MimeType: http.DetectContentType(req.CoverBytes),
				Class:    ClassImage,
				Purpose:  PurposeCover,
			})
			if err != nil {
				return err
			}
			updated.Cover = &ref
			return nil
		})
	}
	if len(req.ContentBytes) > 0 {
		g.Go(func() error {
			ref, err := s.blobs.Store(gctx, req.ContentBytes, UploadParams{
				Key:      objectKey(req.ID, PurposeContent, req.ContentName),
				MimeType: http.DetectContentType(req.ContentBytes),
				Class:    updated.Kind.Classification(),
				Purpose:  PurposeContent,
			})
			if err != nil {
				return err
			}
			updated.Payload = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Existing record stays unmodified on upload failure.
		return nil, &ItemError{ItemID: req.ID, Op: "update", Err: err}
	}

	updated.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateItem(ctx, &updated); err != nil {
		return nil, &ItemError{ItemID: req.ID, Op: "update", Err: err}
	}

	return &updated, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.repository.GetItem(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteItem(ctx, id); err != nil {
		return &ItemError{ItemID: id, Op: "delete", Err: err}
	}

	// Best-effort cleanup of the referenced blobs. A failed release leaves
	// an orphan but never fails the delete.
	if item.Cover != nil {
		if err := s.blobs.Release(ctx, *item.Cover, ClassImage); err != nil {
			slog.Warn("cover blob release failed", "item_id", id, "error", err)
		}
	}
	if err := s.blobs.Release(ctx, item.Payload, item.Kind.Classification()); err != nil {
		slog.Warn("payload blob release failed", "item_id", id, "error", err)
	}

	return nil
}

// objectKey builds a per-item storage key, keeping the original file
// extension so backends can serve the binary with a sensible name. The
// fresh uuid segment keeps a replacement upload from reusing the key of
// the reference it replaces, so the minted URL is always distinct from
// the prior one.
func objectKey(id uuid.UUID, purpose Purpose, filename string) string {
	return fmt.Sprintf("%s/%s-%s%s", id, purpose, uuid.New(), path.Ext(filename))
}
