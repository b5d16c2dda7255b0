package archive_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/LordMirex/mytypist-prototype/internal/store"
	"github.com/LordMirex/mytypist-prototype/pkg/archive"
	"github.com/LordMirex/mytypist-prototype/pkg/convert"
)

type stubConverter struct {
	fail map[string]bool
}

func (s stubConverter) Name() string { return "stub" }

func (s stubConverter) Convert(ctx context.Context, docxPath string) (string, error) {
	if s.fail[filepath.Base(docxPath)] {
		return "", convert.ErrConversionFailed
	}
	pdfPath := strings.TrimSuffix(docxPath, ".docx") + ".pdf"
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		return "", err
	}
	return pdfPath, nil
}

type fixture struct {
	store        *store.Store
	generatedDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return &fixture{store: st, generatedDir: t.TempDir()}
}

// addDocument records a generated document, writing its file unless onDisk is
// false.
func (f *fixture) addDocument(t *testing.T, batchID, stored, original string, onDisk bool) {
	t.Helper()
	if onDisk {
		if err := os.WriteFile(filepath.Join(f.generatedDir, stored), []byte("docx bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	doc := &store.CreatedDocument{
		TemplateID:       1,
		UserName:         "Ada Obi",
		FilePath:         stored,
		OriginalFilename: original,
		BatchID:          batchID,
	}
	if err := f.store.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
}

func entryNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open bundle: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func TestBatchBundleDocx(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "one.docx", "Ada_Letter.docx", true)
	f.addDocument(t, "b1", "two.docx", "Ada_Affidavit.docx", true)

	p := archive.NewPackager(f.store, f.generatedDir, nil, nil)
	data, name, err := p.BatchBundle(context.Background(), "b1", archive.FormatDocx)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if name != "batch_b1.zip" {
		t.Errorf("bundle name = %q", name)
	}
	want := []string{"Ada_Affidavit.docx", "Ada_Letter.docx"}
	if diff := cmp.Diff(want, entryNames(t, data)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchBundleSkipsMissingFiles(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "kept.docx", "Kept.docx", true)
	f.addDocument(t, "b1", "gone.docx", "Gone.docx", false)

	p := archive.NewPackager(f.store, f.generatedDir, nil, nil)
	data, _, err := p.BatchBundle(context.Background(), "b1", archive.FormatDocx)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if diff := cmp.Diff([]string{"Kept.docx"}, entryNames(t, data)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchBundleAllFilesMissingFails(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "gone.docx", "Gone.docx", false)

	p := archive.NewPackager(f.store, f.generatedDir, nil, nil)
	if _, _, err := p.BatchBundle(context.Background(), "b1", archive.FormatDocx); err == nil {
		t.Fatal("expected error when no entry survives")
	}
}

func TestBatchBundleEmptyBatchFails(t *testing.T) {
	f := newFixture(t)
	p := archive.NewPackager(f.store, f.generatedDir, nil, nil)
	if _, _, err := p.BatchBundle(context.Background(), "empty", archive.FormatDocx); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestBatchBundleDeduplicatesEntryNames(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "one.docx", "Letter.docx", true)
	f.addDocument(t, "b1", "two.docx", "Letter.docx", true)

	p := archive.NewPackager(f.store, f.generatedDir, nil, nil)
	data, _, err := p.BatchBundle(context.Background(), "b1", archive.FormatDocx)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	want := []string{"Letter.docx", "Letter_2.docx"}
	if diff := cmp.Diff(want, entryNames(t, data)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchBundlePDF(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "one.docx", "Letter.docx", true)
	f.addDocument(t, "b1", "two.docx", "Broken.docx", true)

	p := archive.NewPackager(f.store, f.generatedDir, stubConverter{fail: map[string]bool{"two.docx": true}}, nil)
	data, _, err := p.BatchBundle(context.Background(), "b1", archive.FormatPDF)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	// The failing conversion skips its entry rather than aborting the bundle.
	if diff := cmp.Diff([]string{"Letter.pdf"}, entryNames(t, data)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchBundlePDFWithoutConverterIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "one.docx", "Letter.docx", true)

	p := archive.NewPackager(f.store, f.generatedDir, nil, nil)
	_, _, err := p.BatchBundle(context.Background(), "b1", archive.FormatPDF)
	if !errors.Is(err, convert.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestBatchBundleCombined(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "one.docx", "Letter.docx", true)
	f.addDocument(t, "b1", "two.docx", "Affidavit.docx", true)

	p := archive.NewPackager(f.store, f.generatedDir, stubConverter{}, nil)
	data, _, err := p.BatchBundle(context.Background(), "b1", archive.FormatCombined)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	want := []string{"Affidavit.docx", "Affidavit.pdf", "Letter.docx", "Letter.pdf"}
	if diff := cmp.Diff(want, entryNames(t, data)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchBundleCombinedKeepsDocxWhenConversionFails(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "one.docx", "Letter.docx", true)
	f.addDocument(t, "b1", "two.docx", "Broken.docx", true)

	p := archive.NewPackager(f.store, f.generatedDir, stubConverter{fail: map[string]bool{"two.docx": true}}, nil)
	data, _, err := p.BatchBundle(context.Background(), "b1", archive.FormatCombined)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	want := []string{"Broken.docx", "Letter.docx", "Letter.pdf"}
	if diff := cmp.Diff(want, entryNames(t, data)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchBundleCombinedWithoutConverterKeepsDocx(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "b1", "one.docx", "Letter.docx", true)

	p := archive.NewPackager(f.store, f.generatedDir, nil, nil)
	data, _, err := p.BatchBundle(context.Background(), "b1", archive.FormatCombined)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if diff := cmp.Diff([]string{"Letter.docx"}, entryNames(t, data)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchBundleRejectsUnknownFormat(t *testing.T) {
	f := newFixture(t)
	p := archive.NewPackager(f.store, f.generatedDir, nil, nil)
	if _, _, err := p.BatchBundle(context.Background(), "b1", "odt"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
