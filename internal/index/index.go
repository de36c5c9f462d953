// Package index defines the storage contract for the search index. The
// concrete engine lives in the bleve subpackage; consumers depend only on
// these interfaces and types.
package index

import (
	"context"

	"github.com/pedalfleet/searchd/internal/domain"
)

// Variant selects the ranking profile of a query.
type Variant int

const (
	// Ranked is the full four-tier relevance query used by search.
	Ranked Variant = iota
	// Suggest is the prefix-dominant profile used by autocomplete: no
	// fuzzy tier, so typo-corrected guesses never surface while typing.
	Suggest
)

// Query is a tenant-scoped text query against one kind's index.
type Query struct {
	Text    string
	Scope   domain.TenantScope
	Limit   int
	Variant Variant
}

// Hit is a single scored document returned by Search.
type Hit struct {
	ID    string
	Score float64
	Doc   domain.Document
}

// Result is the outcome of a Search call.
type Result struct {
	Total int
	Hits  []Hit
}

// Store is the index engine contract. Implementations keep one index
// namespace per kind so bulk reindexing one kind never touches another.
type Store interface {
	Upsert(ctx context.Context, doc domain.Document) error
	UpsertBatch(ctx context.Context, docs []domain.Document) error
	Delete(ctx context.Context, kind domain.Kind, externalID string) error
	Search(ctx context.Context, kind domain.Kind, q *Query) (*Result, error)
	Count(ctx context.Context, kind domain.Kind) (uint64, error)
	Close() error
}
