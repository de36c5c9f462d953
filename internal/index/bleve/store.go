// Package bleve implements index.Store on a bleve inverted index, one
// index per entity kind.
package bleve

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/index"
)

// Compile-time check: Store implements index.Store.
var _ index.Store = (*Store)(nil)

// Config holds engine settings.
type Config struct {
	// Path is the directory holding one bleve index per kind. Empty means
	// in-memory indexes (tests, local runs).
	Path string
}

// Store is the bleve-backed index engine.
type Store struct {
	indexes map[domain.Kind]bleve.Index
}

// NewStore opens (or creates) one index per kind.
func NewStore(cfg Config) (*Store, error) {
	s := &Store{indexes: make(map[domain.Kind]bleve.Index, len(domain.AllKinds()))}
	for _, kind := range domain.AllKinds() {
		idx, err := openOrCreate(cfg.Path, kind)
		if err != nil {
			s.closeAll()
			return nil, fmt.Errorf("open index %s: %w", kind, err)
		}
		s.indexes[kind] = idx
	}
	return s, nil
}

func openOrCreate(path string, kind domain.Kind) (bleve.Index, error) {
	if path == "" {
		return bleve.NewMemOnly(buildIndexMapping())
	}
	dir := filepath.Join(path, string(kind))
	idx, err := bleve.Open(dir)
	if err == nil {
		return idx, nil
	}
	return bleve.New(dir, buildIndexMapping())
}

// Upsert writes a document wholesale. Existing fields are replaced, never
// merged.
func (s *Store) Upsert(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	idx, err := s.indexFor(doc.Kind)
	if err != nil {
		return err
	}
	if err := idx.Index(doc.ExternalID, toFields(doc)); err != nil {
		return &index.Error{Op: index.OpUpsert, Err: err}
	}
	return nil
}

// UpsertBatch writes a page of documents in one engine batch.
func (s *Store) UpsertBatch(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	idx, err := s.indexFor(docs[0].Kind)
	if err != nil {
		return err
	}
	batch := idx.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ExternalID, toFields(doc)); err != nil {
			return &index.Error{Op: index.OpBatch, Err: err}
		}
	}
	if err := idx.Batch(batch); err != nil {
		return &index.Error{Op: index.OpBatch, Err: err}
	}
	return nil
}

// Delete removes a document. Absence is not an error.
func (s *Store) Delete(ctx context.Context, kind domain.Kind, externalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	idx, err := s.indexFor(kind)
	if err != nil {
		return err
	}
	if err := idx.Delete(externalID); err != nil {
		return &index.Error{Op: index.OpDelete, Err: err}
	}
	return nil
}

// Search executes a tenant-filtered tiered query against one kind.
func (s *Store) Search(ctx context.Context, kind domain.Kind, q *index.Query) (*index.Result, error) {
	idx, err := s.indexFor(kind)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(buildQuery(domain.ConfigFor(kind), q), q.Limit, 0, false)
	req.Fields = []string{"*"}

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &index.Error{Op: index.OpSearch, Err: err}
	}

	out := &index.Result{Total: int(res.Total), Hits: make([]index.Hit, 0, len(res.Hits))}
	for _, hit := range res.Hits {
		out.Hits = append(out.Hits, index.Hit{
			ID:    hit.ID,
			Score: hit.Score,
			Doc:   docFromFields(kind, hit.ID, hit.Fields),
		})
	}
	return out, nil
}

// Count returns the number of documents in a kind's index.
func (s *Store) Count(_ context.Context, kind domain.Kind) (uint64, error) {
	idx, err := s.indexFor(kind)
	if err != nil {
		return 0, err
	}
	n, err := idx.DocCount()
	if err != nil {
		return 0, &index.Error{Op: index.OpCount, Err: err}
	}
	return n, nil
}

// Close shuts down every kind's index.
func (s *Store) Close() error {
	var firstErr error
	for kind, idx := range s.indexes {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close index %s: %w", kind, err)
		}
	}
	return firstErr
}

func (s *Store) closeAll() {
	for _, idx := range s.indexes {
		_ = idx.Close()
	}
}

func (s *Store) indexFor(kind domain.Kind) (bleve.Index, error) {
	idx, ok := s.indexes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	return idx, nil
}

// toFields flattens a document into the stored field map.
func toFields(doc domain.Document) map[string]any {
	fields := map[string]any{
		index.FieldExternalID:  doc.ExternalID,
		index.FieldKind:        string(doc.Kind),
		index.FieldName:        doc.Name,
		index.FieldUsername:    doc.Username,
		index.FieldEmail:       doc.Email,
		index.FieldCode:        doc.Code,
		index.FieldFrameNumber: doc.FrameNumber,
		index.FieldAddress:     doc.Address,
		index.FieldCity:        doc.City,
		index.FieldCompanyID:   doc.CompanyID,
		index.FieldStatus:      doc.Status,
		index.FieldImageURL:    doc.ImageURL,
		index.FieldSearchText:  doc.SearchText,
	}
	if len(doc.CompanyIDs) > 0 {
		fields[index.FieldCompanyIDs] = doc.CompanyIDs
	}
	return fields
}

// docFromFields rebuilds a document from a hit's stored fields.
func docFromFields(kind domain.Kind, id string, fields map[string]any) domain.Document {
	doc := domain.Document{
		ExternalID:  id,
		Kind:        kind,
		Name:        str(fields, index.FieldName),
		Username:    str(fields, index.FieldUsername),
		Email:       str(fields, index.FieldEmail),
		Code:        str(fields, index.FieldCode),
		FrameNumber: str(fields, index.FieldFrameNumber),
		Address:     str(fields, index.FieldAddress),
		City:        str(fields, index.FieldCity),
		CompanyID:   str(fields, index.FieldCompanyID),
		CompanyIDs:  strs(fields, index.FieldCompanyIDs),
		Status:      str(fields, index.FieldStatus),
		ImageURL:    str(fields, index.FieldImageURL),
		SearchText:  str(fields, index.FieldSearchText),
	}
	return doc
}

func str(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// strs handles bleve returning a stored array as either a single value or
// a slice.
func strs(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
