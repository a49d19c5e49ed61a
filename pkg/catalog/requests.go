package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// CreateItemRequest contains parameters for creating a catalog item.
// ContentBytes is required; CoverBytes is optional. The file names are only
// used to derive object key extensions.
type CreateItemRequest struct {
	Title  string
	Course string
	Author string
	Kind   ItemKind

	CoverBytes   []byte
	CoverName    string
	ContentBytes []byte
	ContentName  string
}

// Validate checks required and enum fields before any storage call.
func (r CreateItemRequest) Validate() error {
	var verr ValidationError
	if strings.TrimSpace(r.Title) == "" {
		verr.Add("title", "title is required")
	}
	if !r.Kind.IsValid() {
		verr.Add("kind", "kind must be one of book, image, video")
	}
	if len(r.ContentBytes) == 0 {
		verr.Add("content", "content file is required")
	}
	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}

// UpdateItemRequest contains parameters for updating a catalog item. Nil
// scalar fields and absent binaries leave the existing values unchanged.
type UpdateItemRequest struct {
	ID uuid.UUID

	Title  *string
	Course *string
	Author *string
	Kind   *ItemKind

	CoverBytes   []byte
	CoverName    string
	ContentBytes []byte
	ContentName  string
}

// Validate checks the fields that are actually supplied.
func (r UpdateItemRequest) Validate() error {
	var verr ValidationError
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		verr.Add("title", "title cannot be empty")
	}
	if r.Kind != nil && !r.Kind.IsValid() {
		verr.Add("kind", "kind must be one of book, image, video")
	}
	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}
