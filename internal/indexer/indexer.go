// Package indexer maintains the denormalized search documents: per-kind
// index services pulling from the owning services, and an orchestrator
// fanning out bulk syncs and dispatching single-entity change events.
package indexer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/metrics"
)

// pageSize is the fixed listing page size for bulk reindexing.
const pageSize = 100

// Indexer keeps one kind's documents in sync with its owning service.
type Indexer[E any] struct {
	kind   domain.Kind
	source Source[E]
	store  Store
	mapFn  func(E) domain.Document
	logger *zap.Logger
}

// New creates a per-kind index service.
func New[E any](
	kind domain.Kind,
	source Source[E],
	store Store,
	mapFn func(E) domain.Document,
	logger *zap.Logger,
) *Indexer[E] {
	return &Indexer[E]{
		kind:   kind,
		source: source,
		store:  store,
		mapFn:  mapFn,
		logger: logger,
	}
}

// Kind returns the entity kind this indexer owns.
func (ix *Indexer[E]) Kind() domain.Kind { return ix.kind }

// IndexOne fetches one entity and upserts its document. An entity the
// owning service no longer has is a no-op: it can be deleted upstream
// between event emission and processing.
func (ix *Indexer[E]) IndexOne(ctx context.Context, externalID string) error {
	entity, err := ix.source.Get(ctx, externalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ix.logger.Warn("entity vanished upstream, skipping index",
				zap.String("kind", string(ix.kind)),
				zap.String("external_id", externalID),
			)
			return nil
		}
		return fmt.Errorf("fetch %s %s: %w", ix.kind, externalID, err)
	}

	if err := ix.store.Upsert(ctx, ix.mapFn(entity)); err != nil {
		return &domain.IndexWriteError{Kind: ix.kind, Err: err}
	}
	metrics.DocumentsIndexed.WithLabelValues(string(ix.kind)).Inc()
	return nil
}

// DeleteOne removes a document. Absence is not an error.
func (ix *Indexer[E]) DeleteOne(ctx context.Context, externalID string) error {
	if err := ix.store.Delete(ctx, ix.kind, externalID); err != nil {
		return &domain.IndexWriteError{Kind: ix.kind, Err: err}
	}
	return nil
}

// BulkReindex walks the owning service's listing endpoint page by page,
// upserting each page as a batch. Pagination is sequential by design: each
// page depends on the previous offset, and upserts are keyed by external
// id so order never matters. A failure aborts the remaining pages and
// returns the count indexed so far together with the error.
func (ix *Indexer[E]) BulkReindex(ctx context.Context, tenantID string) (int, error) {
	total := 0
	for page := 0; ; page++ {
		batch, err := ix.source.List(ctx, tenantID, page, pageSize)
		if err != nil {
			return total, fmt.Errorf("list %s page %d: %w", ix.kind, page, err)
		}

		if len(batch.Items) > 0 {
			docs := make([]domain.Document, len(batch.Items))
			for i, item := range batch.Items {
				docs[i] = ix.mapFn(item)
			}
			if err := ix.store.UpsertBatch(ctx, docs); err != nil {
				return total, &domain.IndexWriteError{Kind: ix.kind, Err: err}
			}
			total += len(docs)
			metrics.DocumentsIndexed.WithLabelValues(string(ix.kind)).Add(float64(len(docs)))
		}

		if !batch.HasNext {
			return total, nil
		}
	}
}
