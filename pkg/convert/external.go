package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/LordMirex/mytypist-prototype/internal/platform/logger"
)

// DefaultTimeout bounds one external conversion. The call is treated as
// failed after the timeout and is never retried automatically.
const DefaultTimeout = 30 * time.Second

// External shells out to a locally installed document renderer (AbiWord, with
// a LibreOffice fallback probe). The binary lookup and process execution are
// injectable so tests can exercise the unavailable/failed distinction without
// either tool installed.
type External struct {
	log     *logger.Logger
	timeout time.Duration

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
	stat     func(string) (os.FileInfo, error)
}

// ExternalOption customises the External converter.
type ExternalOption func(*External)

// WithTimeout overrides the conversion timeout.
func WithTimeout(d time.Duration) ExternalOption {
	return func(e *External) {
		e.timeout = d
	}
}

// WithLookPath injects the binary lookup.
func WithLookPath(fn func(string) (string, error)) ExternalOption {
	return func(e *External) {
		e.lookPath = fn
	}
}

// WithRunner injects the subprocess runner.
func WithRunner(fn func(ctx context.Context, name string, args ...string) error) ExternalOption {
	return func(e *External) {
		e.run = fn
	}
}

// WithStat injects the output file probe.
func WithStat(fn func(string) (os.FileInfo, error)) ExternalOption {
	return func(e *External) {
		e.stat = fn
	}
}

// NewExternal builds the external converter.
func NewExternal(log *logger.Logger, options ...ExternalOption) *External {
	if log == nil {
		log = logger.Nop()
	}
	e := &External{
		log:      log.With("converter", "external"),
		timeout:  DefaultTimeout,
		lookPath: exec.LookPath,
		stat:     os.Stat,
	}
	e.run = func(ctx context.Context, name string, args ...string) error {
		return exec.CommandContext(ctx, name, args...).Run()
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *External) Name() string {
	return "external"
}

// Convert renders docxPath to a sibling .pdf. A missing renderer binary
// yields ErrUnavailable; a renderer that runs without producing a non-empty
// output yields ErrConversionFailed.
func (e *External) Convert(ctx context.Context, docxPath string) (string, error) {
	pdfPath := strings.TrimSuffix(docxPath, ".docx") + ".pdf"

	binary, args, err := e.command(docxPath, pdfPath)
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.log.Info("converting document", "input", docxPath, "binary", binary)
	if err := e.run(runCtx, binary, args...); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrConversionFailed, binary, err)
	}

	info, err := e.stat(pdfPath)
	if err != nil || info.Size() == 0 {
		return "", fmt.Errorf("%w: %s produced no output", ErrConversionFailed, binary)
	}
	return pdfPath, nil
}

func (e *External) command(docxPath, pdfPath string) (string, []string, error) {
	if path, err := e.lookPath("abiword"); err == nil {
		return path, []string{"--to=pdf", docxPath, "-o", pdfPath}, nil
	}
	if path, err := e.lookPath("soffice"); err == nil {
		return path, []string{"--headless", "--convert-to", "pdf", "--outdir", filepath.Dir(pdfPath), docxPath}, nil
	}
	return "", nil, fmt.Errorf("%w: no document renderer installed", ErrUnavailable)
}
