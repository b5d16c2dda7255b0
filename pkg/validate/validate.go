// Package validate checks raw user inputs against a template's field catalog.
package validate

import (
	"regexp"
	"strings"

	"github.com/LordMirex/mytypist-prototype/pkg/fields"
)

// Inputs validates raw values against the catalog and returns the list of
// error messages; an empty result means the inputs are acceptable. Catalog
// entries are grouped by base name: instances share one raw value, looked up
// under the base name only. The function is pure and never mutates either
// argument.
func Inputs(catalog fields.Catalog, raw map[string]string) []string {
	var errs []string
	for _, group := range catalog.Groups() {
		value := raw[group.BaseName]
		display := displayName(group)

		if strings.TrimSpace(value) == "" {
			if required(group) {
				errs = append(errs, display+" is required")
			}
			continue
		}

		for _, f := range group.Fields {
			if f.ValidationPattern == "" {
				continue
			}
			re, err := regexp.Compile(f.ValidationPattern)
			if err != nil {
				continue
			}
			if loc := re.FindStringIndex(value); loc == nil || loc[0] != 0 {
				errs = append(errs, display+" is invalid")
			}
		}
	}
	return errs
}

// displayName uses the lowest sort order member, falling back to the base
// name when it carries no display label.
func displayName(group fields.Group) string {
	first := group.First()
	if first.DisplayName != "" {
		return first.DisplayName
	}
	return group.BaseName
}

func required(group fields.Group) bool {
	for _, f := range group.Fields {
		if f.Required {
			return true
		}
	}
	return false
}
