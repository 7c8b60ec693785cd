// Package docstore defines the document destination: one JSON document per
// barcode, written as a keyed upsert so re-runs are idempotent.
package docstore

import (
	"context"
	"encoding/json"
	"time"
)

// Data format tags distinguish the two payload encodings.
const (
	FormatObject         = "json_object"
	FormatStringFallback = "json_string_fallback"
)

// Document is one record bound for the document store. Format selects which
// payload encoding is written: Payload (FormatObject) or PayloadJSON
// (FormatStringFallback).
type Document struct {
	Barcode     string
	BrandName   string
	Payload     map[string]any
	PayloadJSON string
	Format      string
	MigratedAt  time.Time
}

// Store is the write interface to the document destination.
type Store interface {
	// PutBatch writes every document in one all-or-nothing upload.
	PutBatch(ctx context.Context, docs []Document) error

	// Put upserts a single document keyed by barcode.
	Put(ctx context.Context, doc Document) error
}

// Encode renders the stored representation of a document.
func Encode(doc Document) ([]byte, error) {
	body := map[string]any{
		"barcode":     doc.Barcode,
		"brand_name":  doc.BrandName,
		"migrated_at": doc.MigratedAt.UTC().Format(time.RFC3339),
		"data_format": doc.Format,
	}
	if doc.Format == FormatStringFallback {
		body["product_data_json"] = doc.PayloadJSON
	} else {
		body["product_data"] = doc.Payload
	}
	return json.Marshal(body)
}
