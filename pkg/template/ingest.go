// Package template ingests uploaded DOCX templates: it extracts the
// placeholder catalog and style metadata, persists both, and serves the merged
// field views that drive fill-in forms.
package template

import (
	"github.com/LordMirex/mytypist-prototype/internal/catalog"
	"github.com/LordMirex/mytypist-prototype/internal/docx"
	"github.com/LordMirex/mytypist-prototype/internal/extract"
	"github.com/LordMirex/mytypist-prototype/pkg/fields"
)

// Style is the document-level presentation captured at ingestion time and
// reapplied, best effort, after generation.
type Style struct {
	FontFamily   string
	FontSizePt   int
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
	LineSpacing  float64
}

// Ingestion is the result of analysing one uploaded template.
type Ingestion struct {
	Catalog fields.Catalog
	Style   Style
	// Warning is set when the template parsed cleanly but contains no
	// placeholders. The upload still succeeds.
	Warning string
}

// Ingest analyses raw DOCX bytes: placeholder occurrences become the field
// catalog, and the dominant font, page margins and leading line spacing are
// captured as the template's style. A template without placeholders is
// accepted with a warning, not rejected.
func Ingest(raw []byte) (*Ingestion, error) {
	occurrences, err := extract.Extract(raw)
	if err != nil {
		return nil, err
	}

	doc, err := docx.Open(raw)
	if err != nil {
		return nil, err
	}
	style, err := doc.DocumentStyle()
	if err != nil {
		return nil, err
	}

	ing := &Ingestion{
		Catalog: catalog.Build(occurrences),
		Style: Style{
			FontFamily:   style.FontFamily,
			FontSizePt:   style.FontSizePt,
			MarginTop:    style.Margins.Top,
			MarginBottom: style.Margins.Bottom,
			MarginLeft:   style.Margins.Left,
			MarginRight:  style.Margins.Right,
			LineSpacing:  style.LineSpacing,
		},
	}
	if len(occurrences) == 0 {
		ing.Warning = "template contains no placeholders"
	}
	return ing, nil
}
