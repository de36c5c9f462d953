package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/index"
)

type mockSearcher struct {
	results map[domain.Kind]*index.Result
	errs    map[domain.Kind]error
	queries map[domain.Kind]*index.Query
}

func newMockSearcher() *mockSearcher {
	return &mockSearcher{
		results: make(map[domain.Kind]*index.Result),
		errs:    make(map[domain.Kind]error),
		queries: make(map[domain.Kind]*index.Query),
	}
}

func (m *mockSearcher) Search(_ context.Context, kind domain.Kind, q *index.Query) (*index.Result, error) {
	m.queries[kind] = q
	if err := m.errs[kind]; err != nil {
		return nil, err
	}
	if r, ok := m.results[kind]; ok {
		return r, nil
	}
	return &index.Result{}, nil
}

func userHit(id, name, username, email string) index.Hit {
	return index.Hit{ID: id, Score: 2.5, Doc: domain.Document{
		ExternalID: id, Kind: domain.KindUser,
		Name: name, Username: username, Email: email,
	}}
}

func TestSearchRequiresScope(t *testing.T) {
	svc := New(newMockSearcher(), zap.NewNop())

	_, err := svc.Search(context.Background(), Request{Query: "jo", Scope: domain.RestrictedScope()})
	if !errors.Is(err, domain.ErrScopeRequired) {
		t.Fatalf("Search() error = %v, want ErrScopeRequired", err)
	}
}

func TestSearchDefaultsToAllKinds(t *testing.T) {
	store := newMockSearcher()
	svc := New(store, zap.NewNop())

	resp, err := svc.Search(context.Background(), Request{Query: "jo", Scope: domain.UnrestrictedScope()})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(store.queries) != len(domain.AllKinds()) {
		t.Errorf("queried %d kinds, want %d", len(store.queries), len(domain.AllKinds()))
	}
	if len(resp.Results) != len(domain.AllKinds()) {
		t.Errorf("response buckets = %d, want %d", len(resp.Results), len(domain.AllKinds()))
	}
	for kind, q := range store.queries {
		if q.Variant != index.Ranked {
			t.Errorf("kind %s variant = %v, want Ranked", kind, q.Variant)
		}
		if q.Limit != defaultLimit {
			t.Errorf("kind %s limit = %d, want %d", kind, q.Limit, defaultLimit)
		}
	}
}

func TestSearchSkipsUnknownKinds(t *testing.T) {
	store := newMockSearcher()
	svc := New(store, zap.NewNop())

	_, err := svc.Search(context.Background(), Request{
		Query: "jo",
		Kinds: []string{"bikes", "spaceships"},
		Scope: domain.UnrestrictedScope(),
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(store.queries) != 1 {
		t.Fatalf("queried kinds = %v, want bike only", store.queries)
	}
	if _, ok := store.queries[domain.KindBike]; !ok {
		t.Errorf("queried kinds = %v, want bike", store.queries)
	}
}

func TestSearchTenantNarrowingNeverWidens(t *testing.T) {
	store := newMockSearcher()
	svc := New(store, zap.NewNop())

	_, err := svc.Search(context.Background(), Request{
		Query:    "jo",
		Kinds:    []string{"user"},
		TenantID: "co-other",
		Scope:    domain.RestrictedScope("co-1", "co-2"),
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	scope := store.queries[domain.KindUser].Scope
	if scope.Contains("co-other") {
		t.Error("request parameter widened the caller's scope")
	}
	if !scope.Contains("co-1") || !scope.Contains("co-2") {
		t.Errorf("scope allowed = %v, want original allow-list kept", scope.Allowed())
	}
}

func TestSearchDegradesPerKind(t *testing.T) {
	store := newMockSearcher()
	store.results[domain.KindUser] = &index.Result{
		Total: 1,
		Hits:  []index.Hit{userHit("u-1", "John Smith", "jsmith", "john@example.com")},
	}
	store.errs[domain.KindBike] = errors.New("index closed")
	svc := New(store, zap.NewNop())

	resp, err := svc.Search(context.Background(), Request{
		Query: "john",
		Kinds: []string{"user", "bike"},
		Scope: domain.UnrestrictedScope(),
	})
	if err != nil {
		t.Fatalf("Search() error = %v, want degraded response", err)
	}
	if len(resp.Results[domain.KindUser]) != 1 {
		t.Errorf("user bucket = %v, want 1 hit", resp.Results[domain.KindUser])
	}
	if bucket, ok := resp.Results[domain.KindBike]; !ok || len(bucket) != 0 {
		t.Errorf("bike bucket = %v, want present and empty", bucket)
	}
	if resp.TotalResults != 1 {
		t.Errorf("totalResults = %d, want 1", resp.TotalResults)
	}
}

func TestSearchProjection(t *testing.T) {
	tests := []struct {
		name         string
		kind         domain.Kind
		doc          domain.Document
		wantTitle    string
		wantSubtitle string
		wantURL      string
	}{
		{
			name:         "user with full name",
			kind:         domain.KindUser,
			doc:          domain.Document{Name: "John Smith", Username: "jsmith", Email: "john@example.com"},
			wantTitle:    "John Smith",
			wantSubtitle: "john@example.com",
			wantURL:      "/users/id-1",
		},
		{
			name:      "user falls back to username",
			kind:      domain.KindUser,
			doc:       domain.Document{Username: "jsmith"},
			wantTitle: "jsmith",
			wantURL:   "/users/id-1",
		},
		{
			name:         "bike",
			kind:         domain.KindBike,
			doc:          domain.Document{Name: "Trail Rocket", Code: "BK-7", FrameNumber: "FR-123"},
			wantTitle:    "Trail Rocket",
			wantSubtitle: "FR-123",
			wantURL:      "/bikes/id-1",
		},
		{
			name:      "bike falls back to code",
			kind:      domain.KindBike,
			doc:       domain.Document{Code: "BK-7"},
			wantTitle: "BK-7",
			wantURL:   "/bikes/id-1",
		},
		{
			name:         "location joins address and city",
			kind:         domain.KindLocation,
			doc:          domain.Document{Name: "Central", Address: "Main St 1", City: "Berlin"},
			wantTitle:    "Central",
			wantSubtitle: "Main St 1, Berlin",
			wantURL:      "/locations/id-1",
		},
		{
			name:         "hub prefers code",
			kind:         domain.KindHub,
			doc:          domain.Document{Name: "North Hub", Code: "HB-2", Address: "Dock Rd 9"},
			wantTitle:    "North Hub",
			wantSubtitle: "HB-2",
			wantURL:      "/hubs/id-1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectHit(tt.kind, index.Hit{ID: "id-1", Score: 1, Doc: tt.doc})
			if got.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Subtitle != tt.wantSubtitle {
				t.Errorf("subtitle = %q, want %q", got.Subtitle, tt.wantSubtitle)
			}
			if got.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", got.URL, tt.wantURL)
			}
		})
	}
}

func TestSuggestSplitsLimitAcrossKinds(t *testing.T) {
	store := newMockSearcher()
	svc := New(store, zap.NewNop())

	_, err := svc.Suggest(context.Background(), Request{
		Query: "jo",
		Scope: domain.UnrestrictedScope(),
		Limit: 8,
	})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	for kind, q := range store.queries {
		if q.Limit != 2 {
			t.Errorf("kind %s limit = %d, want 2", kind, q.Limit)
		}
		if q.Variant != index.Suggest {
			t.Errorf("kind %s variant = %v, want Suggest", kind, q.Variant)
		}
	}
}

func TestSuggestBuildsEntries(t *testing.T) {
	store := newMockSearcher()
	store.results[domain.KindUser] = &index.Result{
		Total: 1,
		Hits:  []index.Hit{userHit("u-1", "John Smith", "jsmith", "john@example.com")},
	}
	svc := New(store, zap.NewNop())

	got, err := svc.Suggest(context.Background(), Request{
		Query: "jo",
		Kinds: []string{"user"},
		Scope: domain.UnrestrictedScope(),
	})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("suggestions = %v, want 1", got)
	}
	want := domain.Suggestion{Text: "John Smith", Kind: domain.KindUser, Category: "Users", URL: "/users/u-1"}
	if got[0] != want {
		t.Errorf("suggestion = %+v, want %+v", got[0], want)
	}
}

func TestSuggestTruncatesToLimit(t *testing.T) {
	store := newMockSearcher()
	store.results[domain.KindUser] = &index.Result{Total: 3, Hits: []index.Hit{
		userHit("u-1", "John A", "ja", ""),
		userHit("u-2", "John B", "jb", ""),
		userHit("u-3", "John C", "jc", ""),
	}}
	store.results[domain.KindBike] = &index.Result{Total: 1, Hits: []index.Hit{
		{ID: "b-1", Score: 1, Doc: domain.Document{Name: "Johnny Jumper"}},
	}}
	svc := New(store, zap.NewNop())

	got, err := svc.Suggest(context.Background(), Request{
		Query: "john",
		Kinds: []string{"user", "bike"},
		Scope: domain.UnrestrictedScope(),
		Limit: 3,
	})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("suggestions = %d, want truncated to 3", len(got))
	}
}
