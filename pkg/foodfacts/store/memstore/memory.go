package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	rows   []store.Row
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{nextID: 1}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// InsertBatch inserts every item; all-or-nothing holds trivially in memory.
func (s *Store) InsertBatch(ctx context.Context, items []store.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.insertLocked(item)
	}
	return nil
}

// InsertOne inserts a single item.
func (s *Store) InsertOne(ctx context.Context, item store.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(item)
	return nil
}

func (s *Store) insertLocked(item store.Item) {
	data := make([]byte, len(item.ProductData))
	copy(data, item.ProductData)
	s.rows = append(s.rows, store.Row{
		ID:          s.nextID,
		Barcode:     item.Barcode,
		BrandName:   item.BrandName,
		ProductData: data,
		CreatedAt:   time.Now().UTC(),
	})
	s.nextID++
}

// Page returns up to limit rows after afterID, ordered by id.
func (s *Store) Page(ctx context.Context, afterID int64, limit int) ([]store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Row
	for _, r := range s.rows {
		if r.ID <= afterID {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// GetByBarcode returns the newest row's payload for a barcode.
func (s *Store) GetByBarcode(ctx context.Context, barcode string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].Barcode == barcode {
			return s.rows[i].ProductData, true, nil
		}
	}
	return nil, false, nil
}
