package search

import (
	"context"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/index"
)

// Searcher is the read side of the index engine consumed by the facade.
type Searcher interface {
	Search(ctx context.Context, kind domain.Kind, q *index.Query) (*index.Result, error)
}
