package indexer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/metrics"
	"github.com/pedalfleet/searchd/internal/syncstate"
)

// Orchestrator coordinates the per-kind index services: full resyncs fan
// out concurrently, single-entity events dispatch to the owning indexer.
type Orchestrator struct {
	indexers map[domain.Kind]KindIndexer
	state    SyncState
	logger   *zap.Logger
}

// NewOrchestrator wires the per-kind indexers. state may be nil.
func NewOrchestrator(indexers []KindIndexer, state SyncState, logger *zap.Logger) *Orchestrator {
	byKind := make(map[domain.Kind]KindIndexer, len(indexers))
	for _, ix := range indexers {
		byKind[ix.Kind()] = ix
	}
	return &Orchestrator{indexers: byKind, state: state, logger: logger}
}

// BulkSync reindexes the requested kinds, or every registered kind when
// kinds is empty. Kinds sync concurrently and independently: one kind's
// failure never aborts the others, it becomes an entry in the report and
// the overall status degrades to partial success. tenantID narrows the
// upstream listings; empty means all tenants.
func (o *Orchestrator) BulkSync(ctx context.Context, kinds []string, tenantID string) (domain.SyncReport, error) {
	if o.state != nil {
		ok, err := o.state.AcquireLock(ctx)
		if err != nil {
			return domain.SyncReport{}, err
		}
		if !ok {
			return domain.SyncReport{}, domain.ErrSyncInProgress
		}
		defer func() {
			if err := o.state.ReleaseLock(context.WithoutCancel(ctx)); err != nil {
				o.logger.Warn("failed to release sync lock", zap.Error(err))
			}
		}()
	}

	report := domain.SyncReport{
		IndexedCounts: make(map[string]int),
		Errors:        make(map[string]string),
		Status:        domain.SyncSuccess,
	}

	targets, badKinds := o.resolveKinds(kinds)
	for _, name := range badKinds {
		report.Errors[name] = fmt.Sprintf("unknown kind %q", name)
	}

	start := time.Now()
	var mu sync.Mutex
	var g errgroup.Group
	for _, ix := range targets {
		g.Go(func() error {
			kindStart := time.Now()
			count, err := ix.BulkReindex(ctx, tenantID)

			mu.Lock()
			report.IndexedCounts[string(ix.Kind())] = count
			if err != nil {
				report.Errors[string(ix.Kind())] = err.Error()
			}
			mu.Unlock()

			if err != nil {
				o.logger.Error("bulk reindex failed",
					zap.String("kind", string(ix.Kind())),
					zap.Int("indexed", count),
					zap.Error(err),
				)
			} else {
				o.logger.Info("bulk reindex complete",
					zap.String("kind", string(ix.Kind())),
					zap.Int("indexed", count),
					zap.Duration("duration", time.Since(kindStart)),
				)
			}
			o.recordRun(ctx, ix.Kind(), count, err, kindStart)
			return nil
		})
	}
	_ = g.Wait() // per-kind failures land in the report, never here

	report.DurationMs = time.Since(start).Milliseconds()
	if len(report.Errors) > 0 {
		report.Status = domain.SyncPartialSuccess
	}
	return report, nil
}

// ProcessIndexEvent applies one entity change to its kind's index. Events
// for unknown kinds or operations are logged and dropped rather than
// retried: the payload will not get better.
func (o *Orchestrator) ProcessIndexEvent(ctx context.Context, event domain.IndexEvent) error {
	kind, err := domain.ParseKind(event.Kind)
	if err != nil {
		o.logger.Warn("dropping index event with unknown kind",
			zap.String("kind", event.Kind),
			zap.String("external_id", event.ExternalID),
		)
		metrics.IndexEvents.WithLabelValues(string(event.Op), "dropped").Inc()
		return nil
	}
	ix, ok := o.indexers[kind]
	if !ok {
		o.logger.Warn("no indexer registered for kind", zap.String("kind", string(kind)))
		metrics.IndexEvents.WithLabelValues(string(event.Op), "dropped").Inc()
		return nil
	}

	switch event.Op {
	case domain.OpCreate, domain.OpUpdate:
		err = ix.IndexOne(ctx, event.ExternalID)
	case domain.OpDelete:
		err = ix.DeleteOne(ctx, event.ExternalID)
	default:
		o.logger.Warn("dropping index event with unknown operation",
			zap.String("operation", string(event.Op)),
			zap.String("kind", string(kind)),
		)
		metrics.IndexEvents.WithLabelValues(string(event.Op), "dropped").Inc()
		return nil
	}

	if err != nil {
		metrics.IndexEvents.WithLabelValues(string(event.Op), "error").Inc()
		return fmt.Errorf("process %s event for %s %s: %w", event.Op, kind, event.ExternalID, err)
	}
	metrics.IndexEvents.WithLabelValues(string(event.Op), "ok").Inc()
	return nil
}

// resolveKinds maps requested kind names to registered indexers. Empty
// input selects every registered indexer.
func (o *Orchestrator) resolveKinds(kinds []string) ([]KindIndexer, []string) {
	if len(kinds) == 0 {
		all := make([]KindIndexer, 0, len(o.indexers))
		for _, kind := range domain.AllKinds() {
			if ix, ok := o.indexers[kind]; ok {
				all = append(all, ix)
			}
		}
		return all, nil
	}

	var targets []KindIndexer
	var bad []string
	for _, name := range kinds {
		kind, err := domain.ParseKind(name)
		if err != nil {
			bad = append(bad, name)
			continue
		}
		ix, ok := o.indexers[kind]
		if !ok {
			bad = append(bad, name)
			continue
		}
		targets = append(targets, ix)
	}
	return targets, bad
}

func (o *Orchestrator) recordRun(ctx context.Context, kind domain.Kind, count int, runErr error, start time.Time) {
	if o.state == nil {
		return
	}
	run := syncstate.Run{
		Kind:       string(kind),
		Indexed:    count,
		FinishedAt: time.Now().UTC(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := o.state.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		o.logger.Warn("failed to record sync run",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}
