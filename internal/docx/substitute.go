package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// TokenPattern matches one placeholder token: double braces around a word
// identifier, optional inner whitespace.
var TokenPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Resolver supplies the replacement for the n-th occurrence (1-based, counted
// in document order) of a token name. Returning false marks the token
// unresolved, which fails the substitution as a whole.
type Resolver func(name string, occurrence int) (string, bool)

// Substitute replaces every placeholder token in the main document part using
// resolve. Only the character data of the affected <w:t> spans is rewritten;
// run and paragraph markup stays untouched, so the template's own formatting
// is preserved. Replacement values may contain newlines, which are emitted as
// run breaks.
func (d *Document) Substitute(resolve Resolver) error {
	paras, err := parseBody(d.body)
	if err != nil {
		return err
	}

	type edit struct {
		start, end int
		data       []byte
	}

	var (
		edits       []edit
		missing     []string
		occurrences = make(map[string]int)
	)

	for _, para := range paras {
		full := para.Text()
		matches := TokenPattern.FindAllStringSubmatchIndex(full, -1)
		if len(matches) == 0 {
			continue
		}

		type replacement struct {
			start, end int
			value      string
			resolved   bool
		}
		repls := make([]replacement, 0, len(matches))
		for _, m := range matches {
			name := full[m[2]:m[3]]
			occurrences[name]++
			value, ok := resolve(name, occurrences[name])
			if !ok {
				missing = append(missing, name)
			}
			repls = append(repls, replacement{start: m[0], end: m[1], value: value, resolved: ok})
		}

		// Walk the paragraph's spans against the reconstructed text and
		// compute each span's new content. A token's replacement lands in
		// the span holding the token's first character; spans covering the
		// remainder of a straddling token only lose text.
		offset := 0
		for ri := range para.Runs {
			run := &para.Runs[ri]
			for si := range run.spans {
				sp := run.spans[si]
				n := len(sp.text)
				spanStart := offset
				offset += n
				if n == 0 {
					continue
				}

				var out strings.Builder
				pos := 0
				changed := false
				for _, r := range repls {
					if !r.resolved {
						continue
					}
					ls := r.start - spanStart
					le := r.end - spanStart
					if le <= 0 || ls >= n {
						continue
					}
					changed = true
					if ls >= 0 {
						out.WriteString(sp.text[pos:ls])
						out.WriteString(r.value)
					}
					pos = le
					if pos > n {
						pos = n
					}
					if pos < 0 {
						pos = 0
					}
				}
				if !changed {
					continue
				}
				out.WriteString(sp.text[pos:])
				edits = append(edits, edit{start: sp.start, end: sp.end, data: encodeSpanText(out.String())})
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("docx: unresolved placeholders: %s", strings.Join(dedupe(missing), ", "))
	}
	if len(edits) == 0 {
		return nil
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var buf bytes.Buffer
	last := 0
	for _, e := range edits {
		buf.Write(d.body[last:e.start])
		buf.Write(e.data)
		last = e.end
	}
	buf.Write(d.body[last:])
	d.body = buf.Bytes()
	return nil
}

// encodeSpanText escapes replacement text for inclusion inside a <w:t>
// element. Newlines close the current text span and continue after an
// explicit run break so multi-line values (addresses) render as Word line
// breaks rather than literal control characters.
func encodeSpanText(s string) []byte {
	var buf bytes.Buffer
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i > 0 {
			buf.WriteString(`</w:t><w:br/><w:t xml:space="preserve">`)
		}
		_ = xml.EscapeText(&buf, []byte(line))
	}
	return buf.Bytes()
}

func dedupe(values []string) []string {
	out := values[:0]
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
