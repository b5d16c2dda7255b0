package docx

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// SetMargins rewrites the page margin attributes of the first section. Callers
// treat a failure here as non-fatal: the document is already fully rendered
// and remains valid without the adjustment.
func (d *Document) SetMargins(m Margins) error {
	loc := pgMarPattern.FindIndex(d.body)
	if loc == nil {
		return errors.New("docx: document has no page margin element")
	}

	tag := d.body[loc[0]:loc[1]]
	values := map[string]float64{
		"top":    m.Top,
		"bottom": m.Bottom,
		"left":   m.Left,
		"right":  m.Right,
	}
	for _, side := range marginAttrs {
		inches := values[side]
		if inches <= 0 {
			continue
		}
		twips := int(math.Round(inches * twipsPerInch))
		attr := fmt.Sprintf(`w:%s="%d"`, side, twips)
		re := marginAttrRes[side]
		if re.Match(tag) {
			tag = re.ReplaceAll(tag, []byte(attr))
		} else {
			tag = insertAttr(tag, attr)
		}
	}

	out := make([]byte, 0, len(d.body)+len(tag)-(loc[1]-loc[0]))
	out = append(out, d.body[:loc[0]]...)
	out = append(out, tag...)
	out = append(out, d.body[loc[1]:]...)
	d.body = out
	return nil
}

var tagClosePattern = regexp.MustCompile(`/?>$`)

func insertAttr(tag []byte, attr string) []byte {
	close := tagClosePattern.Find(tag)
	head := tag[:len(tag)-len(close)]
	out := make([]byte, 0, len(tag)+len(attr)+1)
	out = append(out, head...)
	out = append(out, ' ')
	out = append(out, attr...)
	out = append(out, close...)
	return out
}
