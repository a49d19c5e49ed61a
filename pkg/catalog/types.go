package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ItemKind is the domain type for what a catalog item's payload contains.
type ItemKind string

// Item kind constants (typed).
const (
	KindBook  ItemKind = "book"
	KindImage ItemKind = "image"
	KindVideo ItemKind = "video"
)

// IsValid reports whether k is one of the enumerated kinds.
func (k ItemKind) IsValid() bool {
	switch k {
	case KindBook, KindImage, KindVideo:
		return true
	}
	return false
}

// Classification is the two-way split controlling how a storage backend
// treats a stored binary: image payloads get image handling, everything
// else is stored raw.
type Classification string

const (
	ClassImage Classification = "image"
	ClassRaw   Classification = "raw"
)

// Classification returns the upload classification for payloads of this
// kind. Only image items classify as image; books and videos are raw.
func (k ItemKind) Classification() Classification {
	if k == KindImage {
		return ClassImage
	}
	return ClassRaw
}

// BlobRef is a durable reference to a stored binary. Exactly one of URL or
// Data is set: URL for externally stored binaries (object storage, local
// files served over HTTP), Data for payloads inlined into the metadata
// record itself.
type BlobRef struct {
	URL  string `json:"url,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// IsZero reports whether the reference points at nothing.
func (r BlobRef) IsZero() bool {
	return r.URL == "" && len(r.Data) == 0
}

// Inline reports whether the binary lives inside the metadata record.
func (r BlobRef) Inline() bool {
	return len(r.Data) > 0
}

// Item is the metadata record describing one catalog entry and its binary
// references. Payload is never zero for a persisted item.
type Item struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Course    string    `json:"course,omitempty"`
	Author    string    `json:"author,omitempty"`
	Kind      ItemKind  `json:"kind"`
	Cover     *BlobRef  `json:"cover,omitempty"`
	Payload   BlobRef   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
