package store

import (
	"context"
	"time"
)

// Item is one matched record queued for the relational destination.
type Item struct {
	Barcode     string
	BrandName   string
	ProductData []byte
}

// Row is one persisted record read back for migration or lookup.
type Row struct {
	ID          int64
	Barcode     string
	BrandName   string
	ProductData []byte
	CreatedAt   time.Time
}

// Store is the interface to the relational destination. One run owns exactly
// one open store; it is closed at end of run or on fatal error.
type Store interface {
	Close() error

	// InsertBatch commits every item in a single transaction; any failure
	// rolls the whole batch back.
	InsertBatch(ctx context.Context, items []Item) error

	// InsertOne commits one item in its own transaction.
	InsertOne(ctx context.Context, item Item) error

	// Page returns up to limit rows with id greater than afterID, ordered
	// by id ascending. An empty result means the source is exhausted.
	Page(ctx context.Context, afterID int64, limit int) ([]Row, error)

	// GetByBarcode returns the newest matching row's payload.
	GetByBarcode(ctx context.Context, barcode string) ([]byte, bool, error)
}
