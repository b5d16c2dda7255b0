package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/LordMirex/mytypist-prototype/internal/extract"
)

// Build consumes placeholder occurrences in document order and produces the
// field catalog. The first occurrence of a name becomes the canonical
// definition; later ones become numbered instances sharing the base name for
// input lookup while keeping their own captured formatting. Sort order is the
// running occurrence index, so first seen sorts first.
func Build(occurrences []extract.Occurrence) Catalog {
	counters := make(map[string]int)
	fields := make([]FieldDefinition, 0, len(occurrences))

	for i, occ := range occurrences {
		counters[occ.Name]++
		ordinal := counters[occ.Name]

		display := Humanize(occ.Name)
		if ordinal > 1 {
			display = fmt.Sprintf("%s (Instance %d)", display, ordinal)
		}

		fieldType := InferType(occ.Name)
		def := FieldDefinition{
			Key:                InstanceKey(occ.Name, ordinal),
			BaseName:           occ.Name,
			Instance:           ordinal,
			DisplayName:        display,
			Type:               fieldType,
			Required:           true,
			HelpText:           InferHelpText(occ.Name),
			DefaultValue:       InferDefault(occ.Name),
			Casing:             CasingNone,
			SortOrder:          i,
			Formatting:         occ.Formatting,
			ParagraphAlignment: occ.ParagraphAlignment,
			ParagraphIndex:     occ.ParagraphIndex,
			RunIndex:           occ.RunIndex,
		}
		if fieldType == FieldTypeOption {
			def.Options = InferOptions(occ.Name)
		}
		fields = append(fields, def)
	}

	return Catalog{Fields: fields}
}

// Humanize turns a token identifier into a display label: separators become
// spaces and each word is title-cased.
func Humanize(name string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return cases.Title(language.English).String(cleaned)
}
