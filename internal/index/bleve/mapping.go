package bleve

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/pedalfleet/searchd/internal/index"
)

// buildIndexMapping creates the per-kind document mapping. Text fields use
// the standard analyzer so prefix and wildcard queries see lowercased
// terms; identifier and tenant fields use the keyword analyzer so tenant
// filtering is an exact term match, never a fuzzy one. Every field is
// stored: hits are projected straight out of the index without a second
// fetch.
func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	doc := bleve.NewDocumentMapping()

	text := func(name string) {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = true
		doc.AddFieldMappingsAt(name, fm)
	}
	exact := func(name string) {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		doc.AddFieldMappingsAt(name, fm)
	}

	text(index.FieldName)
	text(index.FieldUsername)
	text(index.FieldEmail)
	text(index.FieldCode)
	text(index.FieldFrameNumber)
	text(index.FieldAddress)
	text(index.FieldCity)
	text(index.FieldSearchText)

	exact(index.FieldExternalID)
	exact(index.FieldKind)
	exact(index.FieldCompanyID)
	exact(index.FieldCompanyIDs)
	exact(index.FieldStatus)

	// Display-only, never queried.
	img := bleve.NewTextFieldMapping()
	img.Index = false
	img.Store = true
	doc.AddFieldMappingsAt(index.FieldImageURL, img)

	im.AddDocumentMapping("_default", doc)
	return im
}
