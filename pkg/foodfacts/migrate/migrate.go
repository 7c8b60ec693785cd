// Package migrate replicates the relational destination into the document
// store, page by page, through the shared resilient writer.
package migrate

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/docstore"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/store"
	"github.com/AhsanRaza-dev/food-facts/pkg/foodfacts/writer"
)

// Migrator pages mapped products out of the relational store and upserts
// them into the document store. There is no resume checkpoint: a restarted
// run re-reads from the first page and overwrites the same keys.
type Migrator struct {
	src store.Store
	dst docstore.Store

	// PageSize is both the source page size and the destination batch size.
	PageSize int
	// Progress observes the running migrated total after each page.
	Progress func(migrated int64)
}

// Result summarizes one migration run.
type Result struct {
	RunID    string
	Pages    int64
	Migrated int64
	Failed   []string
}

// New creates a migrator between the two stores.
func New(src store.Store, dst docstore.Store) *Migrator {
	return &Migrator{
		src:      src,
		dst:      dst,
		PageSize: 50,
	}
}

// Run paginates until the source query is exhausted. Each page is committed
// batch-first with per-document fallback; a document failing both the
// sanitized-object and string encodings is logged and skipped.
func (m *Migrator) Run(ctx context.Context) (Result, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	res := Result{RunID: ulid.MustNew(ulid.Now(), entropy).String()}

	w := writer.New(m.PageSize, m.dst.PutBatch, m.uploadSingle,
		func(doc docstore.Document) string { return doc.Barcode })

	var afterID int64
	for {
		rows, err := m.src.Page(ctx, afterID, m.PageSize)
		if err != nil {
			return res, err
		}
		if len(rows) == 0 {
			break
		}
		afterID = rows[len(rows)-1].ID

		for _, row := range rows {
			if row.Barcode == "" {
				continue
			}
			if err := w.Append(ctx, buildDocument(row)); err != nil {
				return res, err
			}
		}
		// One destination batch per source page.
		if err := w.Flush(ctx); err != nil {
			return res, err
		}

		res.Pages++
		if m.Progress != nil {
			m.Progress(w.Committed())
		}
	}

	if err := w.Drain(ctx); err != nil {
		return res, err
	}

	res.Migrated = w.Committed()
	res.Failed = w.Failed()
	return res, nil
}

// buildDocument sanitizes a row's payload into the structured encoding.
// A payload that is not a JSON object is wrapped under raw_text, matching
// the destination's object-shaped schema.
func buildDocument(row store.Row) docstore.Document {
	var obj map[string]any
	if err := json.Unmarshal(row.ProductData, &obj); err != nil {
		obj = map[string]any{"raw_text": string(row.ProductData)}
	}

	clean, _ := docstore.SanitizeKeys(obj).(map[string]any)
	return docstore.Document{
		Barcode:     row.Barcode,
		BrandName:   row.BrandName,
		Payload:     clean,
		PayloadJSON: string(row.ProductData),
		Format:      docstore.FormatObject,
		MigratedAt:  time.Now().UTC(),
	}
}

// uploadSingle is the per-document fallback: first the sanitized object,
// then the original payload as a single JSON string.
func (m *Migrator) uploadSingle(ctx context.Context, doc docstore.Document) error {
	err := m.dst.Put(ctx, doc)
	if err == nil {
		return nil
	}
	log.Printf("document %s rejected as object (%v), retrying as string", doc.Barcode, err)

	fallback := doc
	fallback.Payload = nil
	fallback.Format = docstore.FormatStringFallback
	return m.dst.Put(ctx, fallback)
}
