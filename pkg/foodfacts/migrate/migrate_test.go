package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/docstore"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store/memstore"
)

// fakeDocStore keys documents by barcode like the real destination, with
// switchable failure modes.
type fakeDocStore struct {
	failBatches  bool
	rejectObject map[string]bool
	rejectAll    map[string]bool

	docs       map[string]docstore.Document
	batchCalls int
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		rejectObject: map[string]bool{},
		rejectAll:    map[string]bool{},
		docs:         map[string]docstore.Document{},
	}
}

func (f *fakeDocStore) PutBatch(ctx context.Context, docs []docstore.Document) error {
	f.batchCalls++
	if f.failBatches {
		return errors.New("batch rejected")
	}
	for _, doc := range docs {
		if f.rejectObject[doc.Barcode] || f.rejectAll[doc.Barcode] {
			return errors.New("batch rejected")
		}
	}
	for _, doc := range docs {
		f.docs[doc.Barcode] = doc
	}
	return nil
}

func (f *fakeDocStore) Put(ctx context.Context, doc docstore.Document) error {
	if f.rejectAll[doc.Barcode] {
		return errors.New("document rejected")
	}
	if doc.Format == docstore.FormatObject && f.rejectObject[doc.Barcode] {
		return errors.New("schema violation")
	}
	f.docs[doc.Barcode] = doc
	return nil
}

func seedSource(t *testing.T) store.Store {
	t.Helper()
	src := memstore.New()
	items := []store.Item{
		{Barcode: "111", BrandName: "Nestle", ProductData: []byte(`{"product_name":"Milk","energy-kcal":52}`)},
		{Barcode: "", BrandName: "Shan", ProductData: []byte(`{}`)},
		{Barcode: "222", BrandName: "Olpers", ProductData: []byte(`{"product_name":"Cream"}`)},
		{Barcode: "333", BrandName: "Tapal", ProductData: []byte(`{"product_name":"Tea"}`)},
	}
	if err := src.InsertBatch(context.Background(), items); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return src
}

func TestRunMigratesAllPages(t *testing.T) {
	src := seedSource(t)
	dst := newFakeDocStore()

	m := New(src, dst)
	m.PageSize = 2

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Migrated != 3 {
		t.Errorf("migrated = %d, want 3 (empty barcode skipped)", res.Migrated)
	}
	if res.Pages != 2 {
		t.Errorf("pages = %d, want 2", res.Pages)
	}
	if len(res.Failed) != 0 {
		t.Errorf("failed = %v, want none", res.Failed)
	}
	if res.RunID == "" {
		t.Error("run ID should be set")
	}

	doc, ok := dst.docs["111"]
	if !ok {
		t.Fatal("document 111 missing")
	}
	if doc.Format != docstore.FormatObject {
		t.Errorf("format = %s, want %s", doc.Format, docstore.FormatObject)
	}
	if _, ok := doc.Payload["energy_kcal"]; !ok {
		t.Errorf("payload keys must be sanitized, got %v", doc.Payload)
	}
	if doc.BrandName != "Nestle" {
		t.Errorf("brand = %s", doc.BrandName)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	src := seedSource(t)
	dst := newFakeDocStore()

	m := New(src, dst)
	m.PageSize = 2

	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := len(dst.docs)

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(dst.docs) != first {
		t.Errorf("document count changed on re-run: %d -> %d", first, len(dst.docs))
	}
	if res.Migrated != 3 {
		t.Errorf("second run migrated = %d, want 3", res.Migrated)
	}
}

func TestRunBatchFailureFallsBackPerDocument(t *testing.T) {
	src := seedSource(t)
	dst := newFakeDocStore()
	dst.failBatches = true

	m := New(src, dst)
	m.PageSize = 2

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Migrated != 3 {
		t.Errorf("migrated = %d, want 3 via per-document fallback", res.Migrated)
	}
	if dst.batchCalls == 0 {
		t.Error("batch path should be attempted first")
	}
}

func TestRunStringFallbackEncoding(t *testing.T) {
	src := seedSource(t)
	dst := newFakeDocStore()
	dst.rejectObject["222"] = true

	m := New(src, dst)
	m.PageSize = 2

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Migrated != 3 {
		t.Errorf("migrated = %d, want 3 (fallback encoding still counts)", res.Migrated)
	}

	doc := dst.docs["222"]
	if doc.Format != docstore.FormatStringFallback {
		t.Errorf("format = %s, want %s", doc.Format, docstore.FormatStringFallback)
	}
	if doc.PayloadJSON != `{"product_name":"Cream"}` {
		t.Errorf("fallback payload = %q", doc.PayloadJSON)
	}
}

func TestRunTerminalDocumentFailure(t *testing.T) {
	src := seedSource(t)
	dst := newFakeDocStore()
	dst.rejectAll["333"] = true

	m := New(src, dst)
	m.PageSize = 2

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("a terminal document must not abort the run: %v", err)
	}

	if res.Migrated != 2 {
		t.Errorf("migrated = %d, want 2", res.Migrated)
	}
	if len(res.Failed) != 1 || res.Failed[0] != "333" {
		t.Errorf("failed = %v, want [333]", res.Failed)
	}
	if _, ok := dst.docs["333"]; ok {
		t.Error("failed document must not be stored")
	}
}

func TestRunNonObjectPayload(t *testing.T) {
	src := memstore.New()
	item := store.Item{Barcode: "111", BrandName: "Nestle", ProductData: []byte(`not json`)}
	if err := src.InsertOne(context.Background(), item); err != nil {
		t.Fatalf("seed: %v", err)
	}
	dst := newFakeDocStore()

	m := New(src, dst)
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	doc := dst.docs["111"]
	if doc.Payload["raw_text"] != "not json" {
		t.Errorf("non-object payload should be wrapped under raw_text, got %v", doc.Payload)
	}
}

func TestRunEmptySource(t *testing.T) {
	dst := newFakeDocStore()
	m := New(memstore.New(), dst)

	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Migrated != 0 || res.Pages != 0 {
		t.Errorf("empty source should migrate nothing, got %+v", res)
	}
}
