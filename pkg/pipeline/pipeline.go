// Package pipeline runs the document generation flow: validate inputs,
// transform values, substitute placeholders, and persist the result. One
// request is independent of every other; a failure affects only its own
// request.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LordMirex/mytypist-prototype/internal/docx"
	"github.com/LordMirex/mytypist-prototype/internal/platform/logger"
	"github.com/LordMirex/mytypist-prototype/internal/store"
	"github.com/LordMirex/mytypist-prototype/pkg/fields"
	"github.com/LordMirex/mytypist-prototype/pkg/transform"
	"github.com/LordMirex/mytypist-prototype/pkg/validate"
)

// Pipeline generates documents from persisted templates. It is safe for
// concurrent use; all mutable state lives in the store and on disk under
// unique file names.
type Pipeline struct {
	store        *store.Store
	log          *logger.Logger
	transformer  *transform.Transformer
	uploadDir    string
	generatedDir string
	now          func() time.Time
	newID        func() string
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithTransformer overrides the value transformer.
func WithTransformer(t *transform.Transformer) Option {
	return func(p *Pipeline) {
		p.transformer = t
	}
}

// WithClock injects the time source used in generated file names.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithIDSource injects the identifier generator for stored file names.
func WithIDSource(fn func() string) Option {
	return func(p *Pipeline) {
		p.newID = fn
	}
}

// New builds a Pipeline over the given store and directories.
func New(st *store.Store, uploadDir, generatedDir string, log *logger.Logger, options ...Option) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	p := &Pipeline{
		store:        st,
		log:          log.With("component", "pipeline"),
		transformer:  transform.New(),
		uploadDir:    uploadDir,
		generatedDir: generatedDir,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Requester identifies who a document is generated for. When empty it is
// derived from the "name"/"email" inputs.
type Requester struct {
	Name  string
	Email string
}

// Request is one generation request.
type Request struct {
	TemplateID uint
	Inputs     map[string]string
	Requester  Requester
	// BatchID groups documents generated by one batch run. Empty for single
	// generations.
	BatchID string
}

// Generate runs the full flow for one request and records the created
// document. Validation failures return *ValidationError with every message;
// substitution failures return *RenderError. Margin reapplication is best
// effort and never fails a generation.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*store.CreatedDocument, error) {
	tpl, err := p.store.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(p.uploadDir, tpl.FilePath))
	if err != nil {
		return nil, fmt.Errorf("pipeline: read template %d: %w", req.TemplateID, err)
	}

	catalog := tpl.Catalog()
	rendered, err := p.Render(raw, catalog, req.Inputs, tpl.Type)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, &RenderError{TemplateID: req.TemplateID, Err: err}
	}

	rendered = p.applyMargins(rendered, tpl)

	if err := os.MkdirAll(p.generatedDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create output dir: %w", err)
	}
	storedName := p.newID() + ".docx"
	outPath := filepath.Join(p.generatedDir, storedName)
	if err := os.WriteFile(outPath, rendered, 0o644); err != nil {
		return nil, fmt.Errorf("pipeline: write output: %w", err)
	}

	// The stored record always names a requester, but the download name only
	// carries one when it was actually supplied.
	owner := strings.TrimSpace(req.Requester.Name)
	if owner == "" {
		owner = strings.TrimSpace(req.Inputs["name"])
	}
	userName, userEmail := req.Requester.Name, req.Requester.Email
	if userName == "" {
		userName, userEmail = requesterFromInputs(req.Inputs)
	}
	snapshot, _ := json.Marshal(req.Inputs)
	doc := &store.CreatedDocument{
		TemplateID:       tpl.ID,
		UserName:         userName,
		UserEmail:        userEmail,
		FilePath:         storedName,
		OriginalFilename: p.downloadName(owner, tpl.Name),
		FileSize:         int64(len(rendered)),
		BatchID:          req.BatchID,
		Inputs:           string(snapshot),
	}
	if err := p.store.CreateDocument(ctx, doc); err != nil {
		os.Remove(outPath)
		return nil, err
	}

	p.log.Info("document generated",
		"template_id", tpl.ID,
		"document_id", doc.ID,
		"file", storedName,
	)
	return doc, nil
}

// Render runs validation, transformation and substitution over in-memory
// template bytes. It has no store or filesystem dependency.
func (p *Pipeline) Render(templateBytes []byte, catalog fields.Catalog, inputs map[string]string, style string) ([]byte, error) {
	inputs = transform.NormalizeInputs(inputs)

	if messages := validate.Inputs(catalog, inputs); len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	values := p.transformer.Context(catalog, inputs, style)

	doc, err := docx.Open(templateBytes)
	if err != nil {
		return nil, err
	}
	err = doc.Substitute(func(name string, occurrence int) (string, bool) {
		if v, ok := values[fields.InstanceKey(name, occurrence)]; ok {
			return v, true
		}
		v, ok := values[name]
		return v, ok
	})
	if err != nil {
		return nil, err
	}
	return doc.Bytes()
}

// applyMargins reapplies the template's captured margins to the rendered
// bytes. Any failure is logged and the unadjusted document is kept.
func (p *Pipeline) applyMargins(rendered []byte, tpl *store.Template) []byte {
	margins := docx.Margins{
		Top:    tpl.MarginTop,
		Bottom: tpl.MarginBottom,
		Left:   tpl.MarginLeft,
		Right:  tpl.MarginRight,
	}
	if margins.IsZero() {
		return rendered
	}
	doc, err := docx.Open(rendered)
	if err == nil {
		err = doc.SetMargins(margins)
	}
	var adjusted []byte
	if err == nil {
		adjusted, err = doc.Bytes()
	}
	if err != nil {
		p.log.Warn("margin adjustment skipped", "template_id", tpl.ID, "error", err)
		return rendered
	}
	return adjusted
}

// downloadName builds the user-facing file name for a generated document.
func (p *Pipeline) downloadName(userName, templateName string) string {
	stamp := p.now().Format("20060102_150405")
	clean := func(s string) string {
		return strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(strings.TrimSpace(s))
	}
	parts := []string{}
	if c := clean(userName); c != "" {
		parts = append(parts, c)
	}
	if c := clean(templateName); c != "" {
		parts = append(parts, c)
	}
	parts = append(parts, stamp)
	return strings.Join(parts, "_") + ".docx"
}

// requesterFromInputs pulls the requesting user's identity out of the
// submitted inputs.
func requesterFromInputs(inputs map[string]string) (name, email string) {
	name = strings.TrimSpace(inputs["name"])
	if name == "" {
		name = "Anonymous User"
	}
	email = strings.TrimSpace(inputs["email"])
	return name, email
}
