// Package archive packages generated documents into zip bundles for bulk
// download, optionally converting each entry to PDF first.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LordMirex/mytypist-prototype/internal/platform/logger"
	"github.com/LordMirex/mytypist-prototype/internal/store"
	"github.com/LordMirex/mytypist-prototype/pkg/convert"
)

// Output formats for bundle entries. FormatCombined pairs each document with
// its fixed-layout counterpart in the same archive.
const (
	FormatDocx     = "docx"
	FormatPDF      = "pdf"
	FormatCombined = "combined"
)

// Packager builds zip bundles from a batch's generated documents.
type Packager struct {
	store        *store.Store
	log          *logger.Logger
	generatedDir string
	converter    convert.Converter
}

// NewPackager builds a Packager. The converter may be nil, in which case PDF
// bundles report convert.ErrUnavailable.
func NewPackager(st *store.Store, generatedDir string, converter convert.Converter, log *logger.Logger) *Packager {
	if log == nil {
		log = logger.Nop()
	}
	return &Packager{
		store:        st,
		log:          log.With("component", "archive"),
		generatedDir: generatedDir,
		converter:    converter,
	}
}

// BatchBundle zips every document of a batch in the requested format and
// returns the archive bytes with a suggested file name. Documents whose files
// have gone missing are skipped with a warning; a bundle with no surviving
// entries is an error. For PDF bundles a missing converter fails the whole
// request with convert.ErrUnavailable, while per-document conversion failures
// only skip that entry. Combined bundles hold each document plus its PDF
// counterpart; there conversion is best effort per document, and a document
// whose conversion fails keeps its docx entry.
func (p *Packager) BatchBundle(ctx context.Context, batchID, format string) ([]byte, string, error) {
	if format != FormatDocx && format != FormatPDF && format != FormatCombined {
		return nil, "", fmt.Errorf("archive: unsupported format %q", format)
	}
	if format == FormatPDF && p.converter == nil {
		return nil, "", convert.ErrUnavailable
	}

	docs, err := p.store.DocumentsByBatch(ctx, batchID)
	if err != nil {
		return nil, "", err
	}
	if len(docs) == 0 {
		return nil, "", fmt.Errorf("archive: batch %s has no documents", batchID)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make(map[string]int)
	written := 0

	for _, doc := range docs {
		path := filepath.Join(p.generatedDir, doc.FilePath)
		entryName := doc.OriginalFilename
		if entryName == "" {
			entryName = doc.FilePath
		}
		pdfName := strings.TrimSuffix(entryName, ".docx") + ".pdf"

		if format == FormatDocx || format == FormatCombined {
			data, err := os.ReadFile(path)
			if err != nil {
				p.log.Warn("bundle entry missing", "batch_id", batchID, "document_id", doc.ID, "error", err)
				continue
			}
			if err := writeEntry(zw, uniqueName(names, entryName), data); err != nil {
				return nil, "", err
			}
			written++
		}

		if format == FormatPDF || format == FormatCombined {
			if p.converter == nil {
				continue
			}
			pdfPath, err := p.converter.Convert(ctx, path)
			if errors.Is(err, convert.ErrUnavailable) && format == FormatPDF {
				return nil, "", err
			}
			if err != nil {
				p.log.Warn("bundle entry not converted", "batch_id", batchID, "document_id", doc.ID, "error", err)
				continue
			}
			data, err := os.ReadFile(pdfPath)
			if err != nil {
				p.log.Warn("bundle entry missing", "batch_id", batchID, "document_id", doc.ID, "error", err)
				continue
			}
			if err := writeEntry(zw, uniqueName(names, pdfName), data); err != nil {
				return nil, "", err
			}
			if format == FormatPDF {
				written++
			}
		}
	}

	if written == 0 {
		return nil, "", fmt.Errorf("archive: batch %s has no retrievable documents", batchID)
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("archive: finalize bundle: %w", err)
	}
	return buf.Bytes(), "batch_" + batchID + ".zip", nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive: add entry: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive: write entry: %w", err)
	}
	return nil
}

// uniqueName disambiguates duplicate entry names inside one bundle.
func uniqueName(seen map[string]int, name string) string {
	seen[name]++
	if seen[name] == 1 {
		return name
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + strconv.Itoa(seen[name]) + ext
}
