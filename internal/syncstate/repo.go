// Package syncstate persists bulk-sync bookkeeping: a lock preventing
// overlapping full resyncs and the last run's outcome per kind, for
// operator visibility.
package syncstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/kv"
)

const (
	lockKey = "sync:lock"
	runKey  = "sync:last:"

	// lockTTL caps how long a crashed sync can block the next one.
	lockTTL = 30 * time.Minute
)

// Run is the recorded outcome of one kind's bulk reindex.
type Run struct {
	Kind       string    `json:"kind"`
	Indexed    int       `json:"indexed"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finishedAt"`
	DurationMs int64     `json:"durationMs"`
}

// Repo stores sync state in the key-value store.
type Repo struct {
	store  kv.Store
	prefix string
}

// New creates a sync-state repository.
func New(store kv.Store, prefix string) *Repo {
	return &Repo{store: store, prefix: prefix}
}

// AcquireLock claims the bulk-sync lock. Returns false when another sync
// holds it.
func (r *Repo) AcquireLock(ctx context.Context) (bool, error) {
	ok, err := r.store.SetNX(ctx, r.prefix+lockKey, []byte(time.Now().UTC().Format(time.RFC3339)), lockTTL)
	if err != nil {
		return false, fmt.Errorf("acquire sync lock: %w", err)
	}
	return ok, nil
}

// ReleaseLock frees the bulk-sync lock.
func (r *Repo) ReleaseLock(ctx context.Context) error {
	if err := r.store.Del(ctx, r.prefix+lockKey); err != nil {
		return fmt.Errorf("release sync lock: %w", err)
	}
	return nil
}

// RecordRun persists a kind's bulk-reindex outcome.
func (r *Repo) RecordRun(ctx context.Context, run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := r.store.Set(ctx, r.prefix+runKey+run.Kind, data); err != nil {
		return fmt.Errorf("record run %s: %w", run.Kind, err)
	}
	return nil
}

// LastRuns returns the most recent recorded run per kind. Kinds that never
// synced are absent.
func (r *Repo) LastRuns(ctx context.Context) (map[string]Run, error) {
	runs := make(map[string]Run)
	for _, kind := range domain.AllKinds() {
		data, err := r.store.Get(ctx, r.prefix+runKey+string(kind))
		if errors.Is(err, kv.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read run %s: %w", kind, err)
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("decode run %s: %w", kind, err)
		}
		runs[string(kind)] = run
	}
	return runs, nil
}
