package chi

import (
	"context"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/search"
	"github.com/pedalfleet/searchd/internal/syncstate"
)

// GlobalSearch is the search facade consumed by the HTTP handlers.
type GlobalSearch interface {
	Search(ctx context.Context, req search.Request) (*domain.SearchResponse, error)
	Suggest(ctx context.Context, req search.Request) ([]domain.Suggestion, error)
}

// Syncer triggers bulk reindexing.
type Syncer interface {
	BulkSync(ctx context.Context, kinds []string, tenantID string) (domain.SyncReport, error)
}

// RunsReader reads the last recorded sync run per kind.
type RunsReader interface {
	LastRuns(ctx context.Context) (map[string]syncstate.Run, error)
}

// EventPublisher hands index events to the queue.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.IndexEvent) error
}

// Pinger reports backing-store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
