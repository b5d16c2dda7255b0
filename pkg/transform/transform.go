// Package transform converts validated raw inputs into document-ready values:
// locale-aware date and address formatting plus configured text casing.
package transform

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/LordMirex/mytypist-prototype/pkg/fields"
)

// Transformer derives final field values. It is pure apart from the injected
// clock; the reference timezone is West Africa Time.
type Transformer struct {
	now func() time.Time
	loc *time.Location
}

// Option customises a Transformer.
type Option func(*Transformer)

// WithClock injects the time source used to auto-fill empty date fields.
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) {
		t.now = now
	}
}

// WithLocation overrides the reference timezone.
func WithLocation(loc *time.Location) Option {
	return func(t *Transformer) {
		t.loc = loc
	}
}

// New builds a Transformer. The default timezone is Africa/Lagos, falling back
// to a fixed UTC+1 zone when the tz database is unavailable.
func New(options ...Option) *Transformer {
	t := &Transformer{now: time.Now}
	if loc, err := time.LoadLocation("Africa/Lagos"); err == nil {
		t.loc = loc
	} else {
		t.loc = time.FixedZone("WAT", 3600)
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Context builds the full generation context for a catalog: every entry is
// transformed and stored under its instance key, so repeated fields all
// receive the same final value. Values are plain text; the template's own run
// formatting does the styling.
func (t *Transformer) Context(catalog fields.Catalog, raw map[string]string, style string) map[string]string {
	ctx := make(map[string]string, len(catalog.Fields))
	for _, f := range catalog.Fields {
		ctx[f.Key] = t.Value(f, raw, style)
	}
	return ctx
}

// Value derives one field's final value. Lookup order: the exact instance key,
// then the base name (instance inputs are never submitted separately), then
// the field's default. The default fills in only for absent keys; a value
// submitted as the empty string stays empty.
func (t *Transformer) Value(f fields.FieldDefinition, raw map[string]string, style string) string {
	value, ok := raw[f.Key]
	if (!ok || value == "") && f.Instance > 1 {
		value, ok = raw[f.BaseName]
	}
	if !ok {
		value = f.DefaultValue
	}

	switch {
	case f.Type == fields.FieldTypeDate:
		value = t.FormatDate(value, style)
	case strings.Contains(strings.ToLower(f.BaseName), "address"):
		value = FormatAddress(value, style)
	}

	return ApplyCasing(value, f.Casing)
}

// FormatDate renders a date for the given document style. Empty input becomes
// the current time in the reference timezone; unparseable input passes
// through unchanged rather than failing the render.
func (t *Transformer) FormatDate(value, style string) string {
	var tm time.Time
	if strings.TrimSpace(value) == "" {
		tm = t.now().In(t.loc)
	} else {
		parsed, err := parseDate(strings.TrimSpace(value), t.loc)
		if err != nil {
			return value
		}
		tm = parsed.In(t.loc)
	}

	day := Ordinal(tm.Day())
	month := tm.Month().String()
	if strings.EqualFold(style, "affidavit") {
		return day + " of " + month + ", " + strconv.Itoa(tm.Year())
	}
	return day + " " + month + ", " + strconv.Itoa(tm.Year())
}

// dateLayouts covers the natural formats users type into date fields. Order
// matters: unambiguous layouts first, then day-first numeric forms.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 January, 2006",
	"2 Jan 2006",
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		tm, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return tm, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Ordinal renders n with its English ordinal suffix: 11-13 take "th",
// otherwise the suffix follows the last digit.
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// FormatAddress styles an address for the given document style. Letters break
// at commas with a terminating period; affidavits keep the user's text but
// strip trailing periods. Other styles pass through.
func FormatAddress(value, style string) string {
	address := strings.TrimSpace(value)
	if address == "" {
		return value
	}

	switch strings.ToLower(style) {
	case "letter":
		var lines []string
		for _, part := range strings.Split(address, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) == 0 {
			return address
		}
		for i := 0; i < len(lines)-1; i++ {
			lines[i] += ","
		}
		if !strings.HasSuffix(lines[len(lines)-1], ".") {
			lines[len(lines)-1] += "."
		}
		return strings.Join(lines, "\n")
	case "affidavit":
		for strings.HasSuffix(address, ".") {
			address = strings.TrimSpace(strings.TrimSuffix(address, "."))
		}
		return address
	default:
		return address
	}
}

// ApplyCasing applies the configured casing mode. It is idempotent for every
// mode.
func ApplyCasing(value string, casing fields.Casing) string {
	switch casing {
	case fields.CasingUpper:
		return strings.ToUpper(value)
	case fields.CasingLower:
		return strings.ToLower(value)
	case fields.CasingTitle:
		return cases.Title(language.English).String(value)
	default:
		return value
	}
}

