package docx

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultFontFamily is assumed when no run carries an explicit font.
	DefaultFontFamily = "Times New Roman"
	// DefaultFontSizePt is assumed when no run carries an explicit size.
	DefaultFontSizePt = 13

	twipsPerInch = 1440
)

// Style captures the document-level presentation defaults derived once at
// ingestion time.
type Style struct {
	FontFamily  string
	FontSizePt  int
	Margins     Margins
	LineSpacing float64
}

// Margins are page margins in inches.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// IsZero reports whether no margin is configured.
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Bottom == 0 && m.Left == 0 && m.Right == 0
}

// DocumentStyle derives the dominant font family and size (most frequent
// non-empty run values), the page margins, and the leading paragraph's line
// spacing. Missing values fall back to Times New Roman at 13pt with single
// spacing.
func (d *Document) DocumentStyle() (Style, error) {
	paras, err := parseBody(d.body)
	if err != nil {
		return Style{}, err
	}

	fonts := make(map[string]int)
	sizes := make(map[int]int)
	for _, p := range paras {
		for _, r := range p.Runs {
			if strings.TrimSpace(r.Text) == "" {
				continue
			}
			if r.FontFamily != "" {
				fonts[r.FontFamily]++
			}
			if pt := r.FontSizePoints(); pt > 0 {
				sizes[pt]++
			}
		}
	}

	style := Style{
		FontFamily:  mostFrequent(fonts, DefaultFontFamily),
		FontSizePt:  mostFrequentInt(sizes, DefaultFontSizePt),
		Margins:     d.readMargins(),
		LineSpacing: 1.0,
	}
	if len(paras) > 0 {
		if ls := paras[0].LineSpacing(); ls > 0 {
			style.LineSpacing = ls
		}
	}
	return style, nil
}

var (
	pgMarPattern  = regexp.MustCompile(`<w:pgMar\b[^>]*>`)
	marginAttrs   = []string{"top", "bottom", "left", "right"}
	marginAttrRes = map[string]*regexp.Regexp{
		"top":    regexp.MustCompile(`w:top="(-?\d+)"`),
		"bottom": regexp.MustCompile(`w:bottom="(-?\d+)"`),
		"left":   regexp.MustCompile(`w:left="(-?\d+)"`),
		"right":  regexp.MustCompile(`w:right="(-?\d+)"`),
	}
)

func (d *Document) readMargins() Margins {
	tag := pgMarPattern.Find(d.body)
	if tag == nil {
		return Margins{}
	}
	var m Margins
	for _, side := range marginAttrs {
		sub := marginAttrRes[side].FindSubmatch(tag)
		if sub == nil {
			continue
		}
		twips, err := strconv.Atoi(string(sub[1]))
		if err != nil {
			continue
		}
		inches := float64(twips) / twipsPerInch
		switch side {
		case "top":
			m.Top = inches
		case "bottom":
			m.Bottom = inches
		case "left":
			m.Left = inches
		case "right":
			m.Right = inches
		}
	}
	return m
}

func mostFrequent(counts map[string]int, fallback string) string {
	best, bestCount := fallback, 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && bestCount > 0 && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

func mostFrequentInt(counts map[int]int, fallback int) int {
	best, bestCount := fallback, 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && bestCount > 0 && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}
