package events

import (
	"context"

	"github.com/pedalfleet/searchd/internal/domain"
)

// EventHandler applies a decoded index event to the search index.
type EventHandler interface {
	ProcessIndexEvent(ctx context.Context, event domain.IndexEvent) error
}
