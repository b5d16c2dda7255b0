package docx_test

import (
	"strings"
	"testing"

	"github.com/LordMirex/mytypist-prototype/internal/docx"
	"github.com/LordMirex/mytypist-prototype/pkg/testsupport"
)

func TestDocumentStyleDominantFontAndSize(t *testing.T) {
	raw := testsupport.BuildDocx(t,
		testsupport.ParagraphSpec{Runs: []testsupport.RunSpec{
			{Text: "Heading", Font: "Arial", SizeHalfPoints: 28},
		}},
		testsupport.ParagraphSpec{Runs: []testsupport.RunSpec{
			{Text: "Body one", Font: "Georgia", SizeHalfPoints: 24},
			{Text: "Body two", Font: "Georgia", SizeHalfPoints: 24},
		}},
	)

	doc, err := docx.Open(raw)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	style, err := doc.DocumentStyle()
	if err != nil {
		t.Fatalf("style: %v", err)
	}

	if style.FontFamily != "Georgia" {
		t.Errorf("font = %q, want Georgia", style.FontFamily)
	}
	if style.FontSizePt != 12 {
		t.Errorf("size = %d, want 12", style.FontSizePt)
	}
	// The fixture section carries one-inch margins.
	want := docx.Margins{Top: 1, Bottom: 1, Left: 1, Right: 1}
	if style.Margins != want {
		t.Errorf("margins = %+v, want %+v", style.Margins, want)
	}
}

func TestDocumentStyleFallsBackToDefaults(t *testing.T) {
	raw := testsupport.BuildDocx(t, testsupport.Para("plain text, no explicit formatting"))

	doc, err := docx.Open(raw)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	style, err := doc.DocumentStyle()
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	if style.FontFamily != docx.DefaultFontFamily {
		t.Errorf("font = %q, want %q", style.FontFamily, docx.DefaultFontFamily)
	}
	if style.FontSizePt != docx.DefaultFontSizePt {
		t.Errorf("size = %d, want %d", style.FontSizePt, docx.DefaultFontSizePt)
	}
	if style.LineSpacing != 1.0 {
		t.Errorf("line spacing = %v, want 1.0", style.LineSpacing)
	}
}

func TestSetMarginsRewritesSection(t *testing.T) {
	raw := testsupport.BuildDocx(t, testsupport.Para("content"))

	doc, err := docx.Open(raw)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := doc.SetMargins(docx.Margins{Top: 0.5, Bottom: 0.5, Left: 1.25, Right: 1.25}); err != nil {
		t.Fatalf("set margins: %v", err)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	reopened, err := docx.Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	style, err := reopened.DocumentStyle()
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	want := docx.Margins{Top: 0.5, Bottom: 0.5, Left: 1.25, Right: 1.25}
	if style.Margins != want {
		t.Errorf("margins = %+v, want %+v", style.Margins, want)
	}
}

func TestSetMarginsSkipsUnconfiguredSides(t *testing.T) {
	raw := testsupport.BuildDocx(t, testsupport.Para("content"))

	doc, err := docx.Open(raw)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := doc.SetMargins(docx.Margins{Top: 2}); err != nil {
		t.Fatalf("set margins: %v", err)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	reopened, err := docx.Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	style, err := reopened.DocumentStyle()
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	want := docx.Margins{Top: 2, Bottom: 1, Left: 1, Right: 1}
	if style.Margins != want {
		t.Errorf("margins = %+v, want %+v", style.Margins, want)
	}
}

func TestSetMarginsWithoutSectionFails(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>no section properties</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	doc, err := docx.Open(testsupport.BuildDocxFromXML(t, xml))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = doc.SetMargins(docx.Margins{Top: 1})
	if err == nil {
		t.Fatal("expected error when document has no pgMar element")
	}
	if !strings.Contains(err.Error(), "margin") {
		t.Errorf("unexpected error: %v", err)
	}
}
