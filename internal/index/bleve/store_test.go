package bleve

import (
	"context"
	"testing"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/index"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Config{})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func userDoc(id, name, username, email string, companyIDs ...string) domain.Document {
	doc := domain.Document{
		ExternalID: id,
		Kind:       domain.KindUser,
		Name:       name,
		Username:   username,
		Email:      email,
		CompanyIDs: companyIDs,
	}
	doc.BuildSearchText()
	return doc
}

func bikeDoc(id, name, code, companyID string) domain.Document {
	doc := domain.Document{
		ExternalID: id,
		Kind:       domain.KindBike,
		Name:       name,
		Code:       code,
		CompanyID:  companyID,
	}
	doc.BuildSearchText()
	return doc
}

func mustUpsert(t *testing.T, s *Store, docs ...domain.Document) {
	t.Helper()
	for _, doc := range docs {
		if err := s.Upsert(context.Background(), doc); err != nil {
			t.Fatalf("Upsert(%s) error = %v", doc.ExternalID, err)
		}
	}
}

func searchIDs(t *testing.T, s *Store, kind domain.Kind, q *index.Query) []string {
	t.Helper()
	res, err := s.Search(context.Background(), kind, q)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	ids := make([]string, len(res.Hits))
	for i, hit := range res.Hits {
		ids[i] = hit.ID
	}
	return ids
}

func TestSearchExactName(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, userDoc("u-1", "John Smith", "jsmith", "john@example.com", "co-1"))

	ids := searchIDs(t, s, domain.KindUser, &index.Query{
		Text: "John Smith", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) == 0 || ids[0] != "u-1" {
		t.Errorf("ids = %v, want u-1 first", ids)
	}
}

func TestSearchPrefixOutranksFuzzy(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s,
		userDoc("u-prefix", "John Smith", "jsmith", "", "co-1"),
		userDoc("u-fuzzy", "Jon Carver", "jcarver", "", "co-1"),
	)

	// "joh" is a prefix of "john" but reaches "jon" only through the fuzzy
	// tier, so the prefix hit must rank first.
	ids := searchIDs(t, s, domain.KindUser, &index.Query{
		Text: "joh", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) < 2 {
		t.Fatalf("ids = %v, want both documents", ids)
	}
	if ids[0] != "u-prefix" {
		t.Errorf("ids = %v, want prefix match ranked above fuzzy match", ids)
	}
}

func TestSearchFuzzyFindsTypo(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, userDoc("u-1", "John Smith", "jsmith", "", "co-1"))

	// One substituted letter, within the single-edit tolerance.
	ids := searchIDs(t, s, domain.KindUser, &index.Query{
		Text: "johm", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) != 1 || ids[0] != "u-1" {
		t.Errorf("ids = %v, want fuzzy hit on u-1", ids)
	}
}

func TestSearchNoFuzzinessForShortTokens(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, userDoc("u-1", "Jon Carver", "jcarver", "", "co-1"))

	// Two-rune query: "jo" must not fuzzy-expand into unrelated terms, and
	// it still prefix-matches "jon".
	ids := searchIDs(t, s, domain.KindUser, &index.Query{
		Text: "jo", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) != 1 || ids[0] != "u-1" {
		t.Errorf("ids = %v, want prefix hit on u-1", ids)
	}
}

func TestSearchInfixWildcard(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, bikeDoc("b-1", "Thunderbolt", "BK-9", "co-1"))

	ids := searchIDs(t, s, domain.KindBike, &index.Query{
		Text: "derbo", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) != 1 || ids[0] != "b-1" {
		t.Errorf("ids = %v, want infix hit on b-1", ids)
	}
}

func TestSearchTenantBoundarySingle(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s,
		bikeDoc("b-1", "Trail Rocket", "BK-1", "co-1"),
		bikeDoc("b-2", "Trail Rocket", "BK-2", "co-2"),
	)

	ids := searchIDs(t, s, domain.KindBike, &index.Query{
		Text: "trail", Scope: domain.RestrictedScope("co-1"), Limit: 10,
	})
	if len(ids) != 1 || ids[0] != "b-1" {
		t.Errorf("ids = %v, want only co-1's bike", ids)
	}
}

func TestSearchTenantBoundaryMulti(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s,
		userDoc("u-1", "John Smith", "jsmith", "", "co-1", "co-2"),
		userDoc("u-2", "John Doe", "jdoe", "", "co-3"),
	)

	ids := searchIDs(t, s, domain.KindUser, &index.Query{
		Text: "john", Scope: domain.RestrictedScope("co-2"), Limit: 10,
	})
	if len(ids) != 1 || ids[0] != "u-1" {
		t.Errorf("ids = %v, want only the user belonging to co-2", ids)
	}
}

func TestSearchUnrestrictedSeesAllTenants(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s,
		bikeDoc("b-1", "Trail Rocket", "BK-1", "co-1"),
		bikeDoc("b-2", "Trail Blazer", "BK-2", "co-2"),
	)

	ids := searchIDs(t, s, domain.KindBike, &index.Query{
		Text: "trail", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) != 2 {
		t.Errorf("ids = %v, want both tenants' bikes", ids)
	}
}

func TestSearchEmptyScopeMatchesNothing(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, bikeDoc("b-1", "Trail Rocket", "BK-1", "co-1"))

	ids := searchIDs(t, s, domain.KindBike, &index.Query{
		Text: "trail", Scope: domain.RestrictedScope(), Limit: 10,
	})
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none for an empty scope", ids)
	}
}

func TestSuggestHasNoFuzzyTier(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, userDoc("u-1", "John Smith", "jsmith", "", "co-1"))

	// "johm" only reaches "john" through typo tolerance, which autocomplete
	// deliberately omits.
	ids := searchIDs(t, s, domain.KindUser, &index.Query{
		Text: "johm", Scope: domain.UnrestrictedScope(), Limit: 10, Variant: index.Suggest,
	})
	if len(ids) != 0 {
		t.Errorf("ids = %v, want no fuzzy hits while typing", ids)
	}

	ids = searchIDs(t, s, domain.KindUser, &index.Query{
		Text: "joh", Scope: domain.UnrestrictedScope(), Limit: 10, Variant: index.Suggest,
	})
	if len(ids) != 1 || ids[0] != "u-1" {
		t.Errorf("ids = %v, want prefix hit on u-1", ids)
	}
}

func TestSearchBlankQueryMatchesNothing(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, bikeDoc("b-1", "Trail Rocket", "BK-1", "co-1"))

	ids := searchIDs(t, s, domain.KindBike, &index.Query{
		Text: "   ", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none for blank query", ids)
	}
}

func TestUpsertReplacesDocument(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, bikeDoc("b-1", "Old Name", "BK-1", "co-1"))
	mustUpsert(t, s, bikeDoc("b-1", "New Name", "BK-1", "co-1"))

	ids := searchIDs(t, s, domain.KindBike, &index.Query{
		Text: "old", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) != 0 {
		t.Errorf("ids = %v, old field values still indexed after upsert", ids)
	}

	count, err := s.Count(context.Background(), domain.KindBike)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestUpsertBatchAndSearchFields(t *testing.T) {
	s := newTestStore(t)
	docs := []domain.Document{
		bikeDoc("b-1", "Trail Rocket", "BK-1", "co-1"),
		bikeDoc("b-2", "Road Runner", "BK-2", "co-1"),
	}
	if err := s.UpsertBatch(context.Background(), docs); err != nil {
		t.Fatalf("UpsertBatch() error = %v", err)
	}

	res, err := s.Search(context.Background(), domain.KindBike, &index.Query{
		Text: "rocket", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Hits) != 1 {
		t.Fatalf("hits = %v, want 1", res.Hits)
	}
	doc := res.Hits[0].Doc
	if doc.Name != "Trail Rocket" || doc.Code != "BK-1" || doc.CompanyID != "co-1" {
		t.Errorf("stored fields not round-tripped: %+v", doc)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, bikeDoc("b-1", "Trail Rocket", "BK-1", "co-1"))

	if err := s.Delete(context.Background(), domain.KindBike, "b-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(context.Background(), domain.KindBike, "b-1"); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}

	count, err := s.Count(context.Background(), domain.KindBike)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestKindsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s,
		bikeDoc("x-1", "Rocket", "BK-1", "co-1"),
		func() domain.Document {
			d := domain.Document{ExternalID: "x-1", Kind: domain.KindHub, Name: "Rocket Hub", CompanyID: "co-1"}
			d.BuildSearchText()
			return d
		}(),
	)

	ids := searchIDs(t, s, domain.KindBike, &index.Query{
		Text: "rocket", Scope: domain.UnrestrictedScope(), Limit: 10,
	})
	if len(ids) != 1 {
		t.Errorf("bike ids = %v, want the bike only", ids)
	}
}
