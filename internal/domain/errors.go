package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that an owning service no longer has the entity.
	// Index maintenance treats it as a no-op, not a failure.
	ErrNotFound = errors.New("entity not found")
	// ErrUnknownKind signals an entity kind the service has no indexer for.
	ErrUnknownKind = errors.New("unknown entity kind")
	// ErrSyncInProgress signals that a bulk sync is already running.
	ErrSyncInProgress = errors.New("bulk sync already in progress")
	// ErrScopeRequired signals a request with no resolvable tenant scope.
	ErrScopeRequired = errors.New("tenant scope required")
)

// UpstreamError wraps a failed fetch from an owning service. These are
// retryable and abort the remaining pages of a bulk reindex.
type UpstreamError struct {
	Service string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("upstream %s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IndexWriteError wraps a rejected write to the index store.
type IndexWriteError struct {
	Kind Kind
	Err  error
}

func (e *IndexWriteError) Error() string {
	return fmt.Sprintf("index write %s: %v", e.Kind, e.Err)
}

func (e *IndexWriteError) Unwrap() error { return e.Err }
