package indexer

import (
	"context"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/syncstate"
	"github.com/pedalfleet/searchd/internal/upstream"
)

// Store is the write side of the index engine consumed by the indexers.
type Store interface {
	Upsert(ctx context.Context, doc domain.Document) error
	UpsertBatch(ctx context.Context, docs []domain.Document) error
	Delete(ctx context.Context, kind domain.Kind, externalID string) error
}

// Source reads one kind's entities from its owning service.
type Source[E any] interface {
	Get(ctx context.Context, externalID string) (E, error)
	List(ctx context.Context, tenantID string, page, size int) (upstream.Page[E], error)
}

// KindIndexer is the kind-erased face of Indexer consumed by the
// orchestrator.
type KindIndexer interface {
	Kind() domain.Kind
	IndexOne(ctx context.Context, externalID string) error
	DeleteOne(ctx context.Context, externalID string) error
	BulkReindex(ctx context.Context, tenantID string) (int, error)
}

// SyncState persists bulk-sync bookkeeping. Nil-able: the orchestrator
// works without it, it just loses overlap protection and run history.
type SyncState interface {
	AcquireLock(ctx context.Context) (bool, error)
	ReleaseLock(ctx context.Context) error
	RecordRun(ctx context.Context, run syncstate.Run) error
}
