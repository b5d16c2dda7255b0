// Package catalog turns the raw placeholder occurrences of one template into
// the canonical, user-facing field definitions backing its fill-in form.
package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/LordMirex/mytypist-prototype/internal/extract"
)

// FieldType classifies a field for input rendering and validation.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeDate   FieldType = "date"
	FieldTypeEmail  FieldType = "email"
	FieldTypeNumber FieldType = "number"
	FieldTypeURL    FieldType = "url"
	FieldTypeOption FieldType = "option"
)

// Casing names the transform applied to a field's final value.
type Casing string

const (
	CasingNone  Casing = "none"
	CasingUpper Casing = "upper"
	CasingLower Casing = "lower"
	CasingTitle Casing = "title"
)

// FieldDefinition is one catalog entry. The first occurrence of a name is the
// canonical definition; repeats become numbered instances that share the
// canonical entry's input value but keep their own captured formatting.
type FieldDefinition struct {
	Key               string
	BaseName          string
	Instance          int
	DisplayName       string
	Type              FieldType
	Required          bool
	Options           []string
	HelpText          string
	DefaultValue      string
	ValidationPattern string
	Casing            Casing
	SortOrder         int

	Formatting         extract.Formatting
	ParagraphAlignment string
	ParagraphIndex     int
	RunIndex           int
}

// Catalog is the ordered field catalog of one template.
type Catalog struct {
	Fields []FieldDefinition
}

// instanceSeparator cannot appear in a token identifier (tokens are word
// characters only), so suffixed keys never collide with real field names.
const instanceSeparator = "#"

// InstanceKey derives the internal key for the ordinal-th occurrence of a
// base name. The first occurrence keeps the bare name.
func InstanceKey(baseName string, ordinal int) string {
	if ordinal <= 1 {
		return baseName
	}
	return baseName + instanceSeparator + strconv.Itoa(ordinal)
}

// BaseNameOf strips an instance suffix, if any.
func BaseNameOf(key string) string {
	base, _, _ := strings.Cut(key, instanceSeparator)
	return base
}

// Group collects every instance of one base name, ordered by sort order.
type Group struct {
	BaseName string
	Fields   []FieldDefinition
}

// First returns the group member with the lowest sort order.
func (g Group) First() FieldDefinition {
	return g.Fields[0]
}

// Groups partitions the catalog by base name. Groups are ordered by the
// minimum sort order of their members, members by their own sort order, so
// iteration follows first-seen document order.
func (c Catalog) Groups() []Group {
	index := make(map[string]int)
	var groups []Group
	for _, f := range c.Fields {
		i, ok := index[f.BaseName]
		if !ok {
			i = len(groups)
			index[f.BaseName] = i
			groups = append(groups, Group{BaseName: f.BaseName})
		}
		groups[i].Fields = append(groups[i].Fields, f)
	}
	for _, g := range groups {
		fields := g.Fields
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].SortOrder < fields[j].SortOrder })
	}
	return groups
}

// FieldView is a read-only projection of a merged field group for display.
// It is built from, and never aliases, the catalog entries, so decorating a
// view for presentation cannot mutate shared definitions.
type FieldView struct {
	BaseName     string
	DisplayName  string
	Type         FieldType
	Required     bool
	Options      []string
	HelpText     string
	DefaultValue string
	Casing       Casing
	SortOrder    int
}

// Merged returns one FieldView per base name, each carrying the canonical
// (lowest sort order) member's attributes.
func (c Catalog) Merged() []FieldView {
	groups := c.Groups()
	views := make([]FieldView, 0, len(groups))
	for _, g := range groups {
		first := g.First()
		view := FieldView{
			BaseName:     g.BaseName,
			DisplayName:  first.DisplayName,
			Type:         first.Type,
			Required:     groupRequired(g),
			HelpText:     first.HelpText,
			DefaultValue: first.DefaultValue,
			Casing:       first.Casing,
			SortOrder:    first.SortOrder,
		}
		if len(first.Options) > 0 {
			view.Options = append([]string(nil), first.Options...)
		}
		views = append(views, view)
	}
	return views
}

func groupRequired(g Group) bool {
	for _, f := range g.Fields {
		if f.Required {
			return true
		}
	}
	return false
}
