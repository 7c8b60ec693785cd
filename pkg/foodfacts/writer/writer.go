// Package writer implements the batch-then-per-item commit discipline shared
// by the relational persistence engine and the document-store migrator.
package writer

import (
	"context"
	"log"
)

// BatchFunc commits every item in one all-or-nothing write.
type BatchFunc[T any] func(ctx context.Context, items []T) error

// SingleFunc commits one item in its own transaction.
type SingleFunc[T any] func(ctx context.Context, item T) error

// IDFunc names an item for failure logging.
type IDFunc[T any] func(item T) string

// Resilient buffers items up to a flush threshold and commits them with a
// two-phase strategy: one batch write first, then per-item retry in original
// order if the batch fails. Items that still fail individually are logged,
// recorded, and dropped; they never block later items and are never requeued.
type Resilient[T any] struct {
	threshold int
	batch     BatchFunc[T]
	single    SingleFunc[T]
	id        IDFunc[T]

	buf       []T
	committed int64
	failed    []string
}

// New creates a resilient writer with the given flush threshold.
func New[T any](threshold int, batch BatchFunc[T], single SingleFunc[T], id IDFunc[T]) *Resilient[T] {
	if threshold <= 0 {
		threshold = 1
	}
	return &Resilient[T]{
		threshold: threshold,
		batch:     batch,
		single:    single,
		id:        id,
		buf:       make([]T, 0, threshold),
	}
}

// Append buffers one item and flushes when the buffer reaches the threshold.
func (w *Resilient[T]) Append(ctx context.Context, item T) error {
	w.buf = append(w.buf, item)
	if len(w.buf) >= w.threshold {
		return w.Flush(ctx)
	}
	return nil
}

// Flush commits the buffered items. The buffer is cleared unconditionally:
// after Flush returns every buffered item has either been committed or
// recorded as failed. Only context cancellation is returned as an error;
// write failures are absorbed per the pipeline's error policy.
func (w *Resilient[T]) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	items := w.buf
	w.buf = w.buf[:0]

	err := w.batch(ctx, items)
	if err == nil {
		w.committed += int64(len(items))
		return nil
	}
	log.Printf("batch of %d failed (%v), retrying items individually", len(items), err)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			// Remaining items are lost either way; record them as failed.
			w.failed = append(w.failed, w.id(item))
			continue
		}
		if err := w.single(ctx, item); err != nil {
			log.Printf("item %s failed: %v", w.id(item), err)
			w.failed = append(w.failed, w.id(item))
			continue
		}
		w.committed++
	}
	return ctx.Err()
}

// Drain flushes whatever remains at end of stream. Skipping Drain loses
// buffered-but-uncommitted items.
func (w *Resilient[T]) Drain(ctx context.Context) error {
	return w.Flush(ctx)
}

// Buffered reports the number of items waiting for the next flush.
func (w *Resilient[T]) Buffered() int {
	return len(w.buf)
}

// Committed reports the total items durably committed so far.
func (w *Resilient[T]) Committed() int64 {
	return w.committed
}

// Failed returns the IDs of items dropped after both phases failed.
func (w *Resilient[T]) Failed() []string {
	return w.failed
}
