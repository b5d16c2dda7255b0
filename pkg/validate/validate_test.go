package validate_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/LordMirex/mytypist-prototype/internal/catalog"
	"github.com/LordMirex/mytypist-prototype/internal/extract"
	"github.com/LordMirex/mytypist-prototype/pkg/fields"
	"github.com/LordMirex/mytypist-prototype/pkg/validate"
)

func buildCatalog(names ...string) fields.Catalog {
	occs := make([]extract.Occurrence, 0, len(names))
	for _, n := range names {
		occs = append(occs, extract.Occurrence{Name: n})
	}
	return catalog.Build(occs)
}

func TestInputsMissingRequiredField(t *testing.T) {
	c := buildCatalog("name", "address")

	errs := validate.Inputs(c, map[string]string{"name": "Ada Obi"})
	want := []string{"Address is required"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestInputsCollectsEveryFailure(t *testing.T) {
	c := buildCatalog("name", "address", "city")

	errs := validate.Inputs(c, map[string]string{})
	want := []string{"Name is required", "Address is required", "City is required"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestInputsWhitespaceOnlyCountsAsEmpty(t *testing.T) {
	c := buildCatalog("name")

	errs := validate.Inputs(c, map[string]string{"name": "   "})
	if len(errs) != 1 || errs[0] != "Name is required" {
		t.Errorf("messages = %v", errs)
	}
}

func TestInputsInstancesShareOneValue(t *testing.T) {
	// Repeated placeholders submit one value under the base name; instance
	// entries must not demand their own inputs.
	c := buildCatalog("name", "name", "name")

	errs := validate.Inputs(c, map[string]string{"name": "Ada Obi"})
	if len(errs) != 0 {
		t.Errorf("messages = %v, want none", errs)
	}
}

func TestInputsPatternMatchesFromStart(t *testing.T) {
	c := fields.Catalog{Fields: []fields.FieldDefinition{{
		Key:               "mat_no",
		BaseName:          "mat_no",
		Instance:          1,
		DisplayName:       "Mat No",
		Required:          true,
		ValidationPattern: `[A-Z]{3}\d{7}`,
	}}}

	cases := []struct {
		value string
		valid bool
	}{
		{"ENG2204223", true},
		{"ENG2204223 extra", true},
		{"xx ENG2204223", false},
		{"2204223", false},
	}
	for _, tc := range cases {
		errs := validate.Inputs(c, map[string]string{"mat_no": tc.value})
		if tc.valid && len(errs) != 0 {
			t.Errorf("value %q rejected: %v", tc.value, errs)
		}
		if !tc.valid {
			want := []string{"Mat No is invalid"}
			if diff := cmp.Diff(want, errs); diff != "" {
				t.Errorf("value %q messages mismatch (-want +got):\n%s", tc.value, diff)
			}
		}
	}
}

func TestInputsBrokenPatternIsSkipped(t *testing.T) {
	c := fields.Catalog{Fields: []fields.FieldDefinition{{
		Key:               "code",
		BaseName:          "code",
		Instance:          1,
		Required:          true,
		ValidationPattern: `([`,
	}}}

	errs := validate.Inputs(c, map[string]string{"code": "anything"})
	if len(errs) != 0 {
		t.Errorf("messages = %v, want none for an uncompilable pattern", errs)
	}
}

func TestInputsDisplayNameFallsBackToBaseName(t *testing.T) {
	c := fields.Catalog{Fields: []fields.FieldDefinition{{
		Key:      "witness",
		BaseName: "witness",
		Instance: 1,
		Required: true,
	}}}

	errs := validate.Inputs(c, map[string]string{})
	if len(errs) != 1 || errs[0] != "witness is required" {
		t.Errorf("messages = %v", errs)
	}
}
