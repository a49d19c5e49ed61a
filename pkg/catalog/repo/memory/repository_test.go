package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

func testItem(title string) *catalog.Item {
	now := time.Now().UTC()
	return &catalog.Item{
		ID:        uuid.New(),
		Title:     title,
		Kind:      catalog.KindBook,
		Cover:     &catalog.BlobRef{URL: "memory://cover"},
		Payload:   catalog.BlobRef{URL: "memory://payload"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := New()

	item := testItem("Algebra I")
	require.NoError(t, repo.CreateItem(ctx, item))

	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestGetNotFound(t *testing.T) {
	repo := New()

	got, err := repo.GetItem(context.Background(), uuid.New())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := New()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		item := testItem(fmt.Sprintf("Item %d", i))
		require.NoError(t, repo.CreateItem(ctx, item))
		ids = append(ids, item.ID)
	}

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for i, item := range items {
		assert.Equal(t, ids[i], item.ID)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := New()

	item := testItem("Algebra I")
	require.NoError(t, repo.CreateItem(ctx, item))

	item.Title = "Algebra II"
	require.NoError(t, repo.UpdateItem(ctx, item))

	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", got.Title)

	missing := testItem("nope")
	assert.ErrorIs(t, repo.UpdateItem(ctx, missing), catalog.ErrItemNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := New()

	item := testItem("Algebra I")
	require.NoError(t, repo.CreateItem(ctx, item))
	require.NoError(t, repo.DeleteItem(ctx, item.ID))

	_, err := repo.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, repo.DeleteItem(ctx, item.ID), catalog.ErrItemNotFound)
}

func TestCopiesIsolateCallers(t *testing.T) {
	ctx := context.Background()
	repo := New()

	item := testItem("Algebra I")
	require.NoError(t, repo.CreateItem(ctx, item))

	// Mutating the caller's struct after create must not affect the store.
	item.Title = "mutated"
	item.Cover.URL = "memory://mutated"

	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra I", got.Title)
	assert.Equal(t, "memory://cover", got.Cover.URL)
}

func TestInlinePayloadIsolation(t *testing.T) {
	ctx := context.Background()
	repo := New()

	item := testItem("Algebra I")
	item.Payload = catalog.BlobRef{Data: []byte("inline payload")}
	require.NoError(t, repo.CreateItem(ctx, item))

	// Mutating inline bytes on a returned copy must not reach the store.
	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	got.Payload.Data[0] = 'X'

	fresh, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("inline payload"), fresh.Payload.Data)
}
