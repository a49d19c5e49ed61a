package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements catalog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Migrate creates the items table if it does not exist.
func Migrate(ctx context.Context, db DBTX) error {
	query := `
		CREATE TABLE IF NOT EXISTS items (
			id uuid PRIMARY KEY,
			title text NOT NULL,
			course text NOT NULL DEFAULT '',
			author text NOT NULL DEFAULT '',
			kind text NOT NULL,
			cover_url text NOT NULL DEFAULT '',
			payload_url text NOT NULL DEFAULT '',
			payload_data bytea,
			created_at timestamptz NOT NULL,
			updated_at timestamptz NOT NULL
		)`

	if _, err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate items table: %w", err)
	}
	return nil
}

// Error handling helper
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("item already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateItem(ctx context.Context, item *catalog.Item) error {
	query := `
		INSERT INTO items (
			id, title, course, author, kind,
			cover_url, payload_url, payload_data, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	coverURL, payloadURL, payloadData := refColumns(item)

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Title, item.Course, item.Author, item.Kind,
		coverURL, payloadURL, payloadData, item.CreatedAt, item.UpdatedAt)

	if err != nil {
		return handlePostgresError("create item", err)
	}

	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	query := `
		SELECT id, title, course, author, kind,
		       cover_url, payload_url, payload_data, created_at, updated_at
		FROM items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, err
	}

	return item, nil
}

func (r *Repository) ListItems(ctx context.Context) ([]*catalog.Item, error) {
	query := `
		SELECT id, title, course, author, kind,
		       cover_url, payload_url, payload_data, created_at, updated_at
		FROM items ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*catalog.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *Repository) UpdateItem(ctx context.Context, item *catalog.Item) error {
	query := `
		UPDATE items SET
			title = $2, course = $3, author = $4, kind = $5,
			cover_url = $6, payload_url = $7, payload_data = $8, updated_at = $9
		WHERE id = $1`

	coverURL, payloadURL, payloadData := refColumns(item)

	tag, err := r.db.Exec(ctx, query,
		item.ID, item.Title, item.Course, item.Author, item.Kind,
		coverURL, payloadURL, payloadData, item.UpdatedAt)
	if err != nil {
		return handlePostgresError("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}

	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}

	return nil
}

// refColumns flattens the item's blob references into the three storage
// columns.
func refColumns(item *catalog.Item) (coverURL, payloadURL string, payloadData []byte) {
	if item.Cover != nil {
		coverURL = item.Cover.URL
	}
	payloadURL = item.Payload.URL
	payloadData = item.Payload.Data
	return coverURL, payloadURL, payloadData
}

func scanItem(row pgx.Row) (*catalog.Item, error) {
	var item catalog.Item
	var coverURL, payloadURL string
	var payloadData []byte

	if err := row.Scan(
		&item.ID, &item.Title, &item.Course, &item.Author, &item.Kind,
		&coverURL, &payloadURL, &payloadData, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}

	if coverURL != "" {
		item.Cover = &catalog.BlobRef{URL: coverURL}
	}
	item.Payload = catalog.BlobRef{URL: payloadURL, Data: payloadData}

	return &item, nil
}
