// Package extract locates placeholder tokens in a DOCX template together with
// the formatting of the run each token starts in.
package extract

import (
	"fmt"

	"github.com/LordMirex/mytypist-prototype/internal/docx"
)

// Formatting is the run-level presentation captured for one occurrence.
type Formatting struct {
	Bold       bool
	Italic     bool
	Underline  bool
	FontFamily string
	FontSizePt int
}

// Occurrence is one physical appearance of a placeholder token, in document
// order. The same name may occur any number of times; every appearance is
// recorded.
type Occurrence struct {
	Name               string
	ParagraphIndex     int
	RunIndex           int
	Formatting         Formatting
	ParagraphAlignment string
}

// Error marks a template whose markup could not be read. Ingestion of that
// document is aborted; nothing is committed.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extract finds every placeholder occurrence in raw DOCX bytes. Tokens may
// straddle run boundaries within a paragraph; each paragraph's text is
// reconstructed from its runs and match offsets are mapped back to the run
// containing the token's first character. A zero-length result is not an
// error; callers surface it as a warning.
func Extract(raw []byte) ([]Occurrence, error) {
	doc, err := docx.Open(raw)
	if err != nil {
		return nil, &Error{Err: err}
	}
	paras, err := doc.Paragraphs()
	if err != nil {
		return nil, &Error{Err: err}
	}

	var occurrences []Occurrence
	for pi, para := range paras {
		full := para.Text()
		matches := docx.TokenPattern.FindAllStringSubmatchIndex(full, -1)
		if len(matches) == 0 {
			continue
		}

		// Cumulative run lengths let a match offset in the reconstructed
		// text identify the run holding the token's start.
		cum := make([]int, len(para.Runs)+1)
		for i, r := range para.Runs {
			cum[i+1] = cum[i] + len(r.Text)
		}

		for _, m := range matches {
			start := m[0]
			runIdx := -1
			for i := range para.Runs {
				if cum[i] <= start && start < cum[i+1] {
					runIdx = i
					break
				}
			}
			if runIdx < 0 {
				continue
			}

			run := para.Runs[runIdx]
			occurrences = append(occurrences, Occurrence{
				Name:           full[m[2]:m[3]],
				ParagraphIndex: pi,
				RunIndex:       runIdx,
				Formatting: Formatting{
					Bold:       run.Bold,
					Italic:     run.Italic,
					Underline:  run.Underline,
					FontFamily: run.FontFamily,
					FontSizePt: run.FontSizePoints(),
				},
				ParagraphAlignment: para.Alignment,
			})
		}
	}
	return occurrences, nil
}
