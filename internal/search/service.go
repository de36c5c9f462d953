// Package search is the global search facade: it fans a query out across
// the per-kind indexes, projects hits into ephemeral results, and degrades
// gracefully when a single kind fails.
package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/index"
	"github.com/pedalfleet/searchd/internal/metrics"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Request is one federated search or suggest call.
type Request struct {
	Query string
	// Kinds restricts the search to the named kinds. Empty means all.
	Kinds []string
	// TenantID optionally narrows the caller's scope to one tenant. It can
	// never widen it.
	TenantID string
	Scope    domain.TenantScope
	Limit    int
}

// Service is the global search facade.
type Service struct {
	store  Searcher
	logger *zap.Logger
}

// New creates the search facade.
func New(store Searcher, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Search runs the ranked query against every requested kind. A kind whose
// index fails contributes an empty bucket instead of failing the whole
// response; the caller still gets results from the healthy kinds.
func (s *Service) Search(ctx context.Context, req Request) (*domain.SearchResponse, error) {
	scope, kinds, limit, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp := &domain.SearchResponse{
		Query:   req.Query,
		Results: make(map[domain.Kind][]domain.SearchResult, len(kinds)),
	}

	for _, kind := range kinds {
		kindStart := time.Now()
		result, err := s.store.Search(ctx, kind, &index.Query{
			Text:    req.Query,
			Scope:   scope,
			Limit:   limit,
			Variant: index.Ranked,
		})
		metrics.SearchDuration.WithLabelValues(string(kind)).Observe(time.Since(kindStart).Seconds())
		if err != nil {
			s.logger.Error("kind search failed, returning empty bucket",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			resp.Results[kind] = []domain.SearchResult{}
			continue
		}

		hits := make([]domain.SearchResult, 0, len(result.Hits))
		for _, hit := range result.Hits {
			hits = append(hits, projectHit(kind, hit))
		}
		resp.Results[kind] = hits
		resp.TotalResults += len(hits)
	}

	resp.SearchTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}

// Suggest returns a flat autocomplete list. The limit is split evenly
// across the requested kinds, at least one slot each, and the combined
// list is truncated back to the limit.
func (s *Service) Suggest(ctx context.Context, req Request) ([]domain.Suggestion, error) {
	scope, kinds, limit, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	perKind := limit / len(kinds)
	if perKind < 1 {
		perKind = 1
	}

	suggestions := make([]domain.Suggestion, 0, limit)
	for _, kind := range kinds {
		result, err := s.store.Search(ctx, kind, &index.Query{
			Text:    req.Query,
			Scope:   scope,
			Limit:   perKind,
			Variant: index.Suggest,
		})
		if err != nil {
			s.logger.Error("kind suggest failed, skipping kind",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			continue
		}
		cfg := domain.ConfigFor(kind)
		for _, hit := range result.Hits {
			suggestions = append(suggestions, domain.Suggestion{
				Text:     titleFor(kind, hit.Doc),
				Kind:     kind,
				Category: cfg.CategoryLabel,
				URL:      cfg.URLPrefix + hit.ID,
			})
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// prepare validates the scope, resolves the kind selection, and clamps the
// limit. Unknown kind names are skipped, not fatal.
func (s *Service) prepare(req Request) (domain.TenantScope, []domain.Kind, int, error) {
	if req.Scope.Empty() {
		return domain.TenantScope{}, nil, 0, domain.ErrScopeRequired
	}
	scope := req.Scope.Narrow(req.TenantID)

	kinds := make([]domain.Kind, 0, len(req.Kinds))
	for _, name := range req.Kinds {
		kind, err := domain.ParseKind(name)
		if err != nil {
			s.logger.Warn("skipping unknown kind in search request", zap.String("kind", name))
			continue
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		kinds = domain.AllKinds()
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return scope, kinds, limit, nil
}

// projectHit builds the client-facing result for one hit. Title and
// subtitle choices are the only kind-specific display logic in the
// service.
func projectHit(kind domain.Kind, hit index.Hit) domain.SearchResult {
	cfg := domain.ConfigFor(kind)
	result := domain.SearchResult{
		Kind:     kind,
		ID:       hit.ID,
		Title:    titleFor(kind, hit.Doc),
		Subtitle: subtitleFor(kind, hit.Doc),
		URL:      cfg.URLPrefix + hit.ID,
		Image:    hit.Doc.ImageURL,
		Score:    hit.Score,
	}
	if hit.Doc.Status != "" {
		result.Metadata = map[string]string{"status": hit.Doc.Status}
	}
	return result
}

func titleFor(kind domain.Kind, doc domain.Document) string {
	switch kind {
	case domain.KindUser:
		if doc.Name != "" {
			return doc.Name
		}
		return doc.Username
	case domain.KindBike:
		if doc.Name != "" {
			return doc.Name
		}
		return doc.Code
	default:
		return doc.Name
	}
}

func subtitleFor(kind domain.Kind, doc domain.Document) string {
	switch kind {
	case domain.KindUser:
		return doc.Email
	case domain.KindBike:
		return doc.FrameNumber
	case domain.KindLocation:
		return joinNonEmpty(doc.Address, doc.City)
	case domain.KindHub:
		if doc.Code != "" {
			return doc.Code
		}
		return doc.Address
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
