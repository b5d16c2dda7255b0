package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// span is the raw byte range of the character data inside one <w:t> element,
// relative to the main document part. text holds the decoded content.
type span struct {
	start int
	end   int
	text  string
}

// Run is one formatting run inside a paragraph.
type Run struct {
	Text               string
	Bold               bool
	Italic             bool
	Underline          bool
	FontFamily         string
	FontSizeHalfPoints int

	spans []span
}

// FontSizePoints converts the stored half-point size to points. Zero means the
// run carries no explicit size.
func (r Run) FontSizePoints() int {
	return r.FontSizeHalfPoints / 2
}

// Paragraph is one <w:p> element with its runs in document order.
type Paragraph struct {
	Runs      []Run
	Alignment string

	spacingLine int
}

// Text reconstructs the paragraph's full text by concatenating every run's
// content. Placeholder tokens that straddle run boundaries only become visible
// on this reconstruction.
func (p Paragraph) Text() string {
	var buf bytes.Buffer
	for _, r := range p.Runs {
		buf.WriteString(r.Text)
	}
	return buf.String()
}

// LineSpacing reports the paragraph's line spacing as a multiple of single
// spacing, or 0 when unset.
func (p Paragraph) LineSpacing() float64 {
	if p.spacingLine <= 0 {
		return 0
	}
	return float64(p.spacingLine) / 240
}

// parseBody streams the main document part and records, for every paragraph,
// its runs with their formatting and the byte ranges of their text spans. The
// byte ranges let Substitute splice edits into the raw part without
// re-serializing (and thereby disturbing) the surrounding markup.
func parseBody(body []byte) ([]Paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		paras   []Paragraph
		cur     *Paragraph
		curRun  *Run
		pending *span
		inProps bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("docx: parse document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				paras = append(paras, Paragraph{})
				cur = &paras[len(paras)-1]
				curRun = nil
			case "pPr":
				inProps = true
			case "jc":
				if cur != nil && inProps {
					cur.Alignment = attrValue(t, "val")
				}
			case "spacing":
				if cur != nil && inProps && cur.spacingLine == 0 {
					if v, err := strconv.Atoi(attrValue(t, "line")); err == nil {
						cur.spacingLine = v
					}
				}
			case "r":
				if cur != nil && !inProps {
					cur.Runs = append(cur.Runs, Run{})
					curRun = &cur.Runs[len(cur.Runs)-1]
				}
			case "b":
				if curRun != nil {
					curRun.Bold = true
				}
			case "i":
				if curRun != nil {
					curRun.Italic = true
				}
			case "u":
				if curRun != nil {
					curRun.Underline = true
				}
			case "rFonts":
				if curRun != nil {
					curRun.FontFamily = attrValue(t, "ascii")
				}
			case "sz":
				if curRun != nil {
					if v, err := strconv.Atoi(attrValue(t, "val")); err == nil {
						curRun.FontSizeHalfPoints = v
					}
				}
			case "t":
				if curRun != nil {
					off := int(dec.InputOffset())
					curRun.spans = append(curRun.spans, span{start: off, end: off})
					pending = &curRun.spans[len(curRun.spans)-1]
				}
			}
		case xml.CharData:
			if pending != nil {
				pending.text += string(t)
				pending.end = int(dec.InputOffset())
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				if pending != nil && curRun != nil {
					curRun.Text += pending.text
				}
				pending = nil
			case "pPr":
				inProps = false
			case "r":
				curRun = nil
			case "p":
				cur = nil
			}
		}
	}

	if pending != nil {
		return nil, errors.New("docx: unterminated text span")
	}
	return paras, nil
}

func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
