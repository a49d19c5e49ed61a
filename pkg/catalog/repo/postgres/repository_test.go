package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// rowStub plays a pgx.Row backed by fixed column values.
type rowStub struct {
	item        catalog.Item
	coverURL    string
	payloadURL  string
	payloadData []byte
	err         error
}

func (r rowStub) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*uuid.UUID) = r.item.ID
	*dest[1].(*string) = r.item.Title
	*dest[2].(*string) = r.item.Course
	*dest[3].(*string) = r.item.Author
	*dest[4].(*catalog.ItemKind) = r.item.Kind
	*dest[5].(*string) = r.coverURL
	*dest[6].(*string) = r.payloadURL
	*dest[7].(*[]byte) = r.payloadData
	*dest[8].(*time.Time) = r.item.CreatedAt
	*dest[9].(*time.Time) = r.item.UpdatedAt
	return nil
}

func TestRefColumns(t *testing.T) {
	t.Run("URLRefs", func(t *testing.T) {
		item := &catalog.Item{
			Cover:   &catalog.BlobRef{URL: "https://cdn.example.com/cover.png"},
			Payload: catalog.BlobRef{URL: "https://cdn.example.com/content.pdf"},
		}

		coverURL, payloadURL, payloadData := refColumns(item)
		assert.Equal(t, "https://cdn.example.com/cover.png", coverURL)
		assert.Equal(t, "https://cdn.example.com/content.pdf", payloadURL)
		assert.Nil(t, payloadData)
	})

	t.Run("NoCoverInlinePayload", func(t *testing.T) {
		item := &catalog.Item{
			Payload: catalog.BlobRef{Data: []byte("inline payload")},
		}

		coverURL, payloadURL, payloadData := refColumns(item)
		assert.Empty(t, coverURL)
		assert.Empty(t, payloadURL)
		assert.Equal(t, []byte("inline payload"), payloadData)
	})
}

func TestScanItem(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	base := catalog.Item{
		ID:        uuid.New(),
		Title:     "Algebra I",
		Course:    "math-101",
		Author:    "N. Bourbaki",
		Kind:      catalog.KindBook,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("CoverURLBecomesRef", func(t *testing.T) {
		item, err := scanItem(rowStub{
			item:       base,
			coverURL:   "https://cdn.example.com/cover.png",
			payloadURL: "https://cdn.example.com/content.pdf",
		})
		require.NoError(t, err)

		assert.Equal(t, base.ID, item.ID)
		assert.Equal(t, base.Kind, item.Kind)
		require.NotNil(t, item.Cover)
		assert.Equal(t, "https://cdn.example.com/cover.png", item.Cover.URL)
		assert.Equal(t, "https://cdn.example.com/content.pdf", item.Payload.URL)
	})

	t.Run("EmptyCoverURLBecomesNil", func(t *testing.T) {
		item, err := scanItem(rowStub{
			item:        base,
			payloadData: []byte("inline payload"),
		})
		require.NoError(t, err)

		assert.Nil(t, item.Cover)
		assert.True(t, item.Payload.Inline())
		assert.Equal(t, []byte("inline payload"), item.Payload.Data)
	})

	t.Run("RoundTripThroughColumns", func(t *testing.T) {
		original := base
		original.Cover = &catalog.BlobRef{URL: "/static/cover.png"}
		original.Payload = catalog.BlobRef{Data: []byte("inline payload")}

		coverURL, payloadURL, payloadData := refColumns(&original)
		got, err := scanItem(rowStub{
			item:        original,
			coverURL:    coverURL,
			payloadURL:  payloadURL,
			payloadData: payloadData,
		})
		require.NoError(t, err)
		assert.Equal(t, &original, got)
	})

	t.Run("ScanErrorPropagates", func(t *testing.T) {
		scanErr := errors.New("scan failed")
		_, err := scanItem(rowStub{err: scanErr})
		assert.ErrorIs(t, err, scanErr)
	})
}
