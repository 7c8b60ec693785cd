package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store"
)

// sqliteStore implements store.Store on an embedded SQLite database.
type sqliteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database with WAL mode enabled and the schema
// applied. Schema creation is idempotent.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates the table and index if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS mapped_products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	barcode TEXT NOT NULL,
	brand_name TEXT NOT NULL,
	product_data TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mapped_products_brand ON mapped_products(brand_name);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

const insertStmt = `
INSERT INTO mapped_products (barcode, brand_name, product_data, created_at)
VALUES (?, ?, ?, ?);`

// InsertBatch writes every item inside one transaction. Any error rolls the
// whole batch back.
func (s *sqliteStore) InsertBatch(ctx context.Context, items []store.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStmt)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.Barcode, item.BrandName, string(item.ProductData), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// InsertOne writes a single item in its own transaction.
func (s *sqliteStore) InsertOne(ctx context.Context, item store.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, insertStmt, item.Barcode, item.BrandName, string(item.ProductData), now); err != nil {
		return err
	}

	return tx.Commit()
}

// Page returns up to limit rows after afterID, ordered by id.
func (s *sqliteStore) Page(ctx context.Context, afterID int64, limit int) ([]store.Row, error) {
	const q = `
SELECT id, barcode, brand_name, product_data, created_at
FROM mapped_products
WHERE id > ?
ORDER BY id ASC
LIMIT ?;`

	rows, err := s.db.QueryContext(ctx, q, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var r store.Row
		var data, created string
		if err := rows.Scan(&r.ID, &r.Barcode, &r.BrandName, &data, &created); err != nil {
			return nil, err
		}
		r.ProductData = []byte(data)
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = t
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// GetByBarcode returns the payload of the newest row for a barcode.
func (s *sqliteStore) GetByBarcode(ctx context.Context, barcode string) ([]byte, bool, error) {
	const q = `
SELECT product_data
FROM mapped_products
WHERE barcode = ?
ORDER BY id DESC
LIMIT 1;`

	var data string
	err := s.db.QueryRowContext(ctx, q, barcode).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(data), true, nil
}
