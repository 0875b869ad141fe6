package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Document fields.
const (
	fieldName     = "name"
	fieldFields   = "fields"
	fieldTags     = "tags"
	fieldCategory = "category"
)

// buildIndexMapping maps item documents. Text fields use the standard
// analyzer so typo tolerance works on unstemmed words.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	doc := bleve.NewDocumentMapping()

	name := bleve.NewTextFieldMapping()
	name.Analyzer = standard.Name
	name.Store = true
	doc.AddFieldMappingsAt(fieldName, name)

	for _, f := range []string{fieldFields, fieldTags, fieldCategory} {
		m := bleve.NewTextFieldMapping()
		m.Analyzer = standard.Name
		m.Store = false
		doc.AddFieldMappingsAt(f, m)
	}

	indexMapping.DefaultMapping = doc
	return indexMapping
}
