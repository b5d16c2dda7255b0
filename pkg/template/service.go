package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LordMirex/mytypist-prototype/internal/platform/logger"
	"github.com/LordMirex/mytypist-prototype/internal/store"
	"github.com/LordMirex/mytypist-prototype/pkg/fields"
)

// Service manages the template library: uploads, catalog lookups, pause and
// resume, and deletion. Files live under uploadDir; metadata lives in the
// store.
type Service struct {
	store     *store.Store
	log       *logger.Logger
	uploadDir string
	now       func() time.Time
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithClock injects the time source used for uploaded file names.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService builds a template service over the given store and upload
// directory.
func NewService(st *store.Store, uploadDir string, log *logger.Logger, options ...ServiceOption) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		store:     st,
		log:       log.With("component", "template"),
		uploadDir: uploadDir,
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// UploadRequest carries one template upload.
type UploadRequest struct {
	Name        string
	Type        string
	Description string
	FileName    string
	Raw         []byte
}

// Upload ingests the document, writes it under the upload directory with a
// timestamped name, and persists the template with its catalog. The returned
// warning is non-empty when the template has no placeholders.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*store.Template, string, error) {
	if req.Name == "" {
		return nil, "", fmt.Errorf("template: name is required")
	}
	if req.Type == "" {
		return nil, "", fmt.Errorf("template: type is required")
	}
	if !strings.HasSuffix(strings.ToLower(req.FileName), ".docx") {
		return nil, "", fmt.Errorf("template: only .docx uploads are supported")
	}

	ing, err := Ingest(req.Raw)
	if err != nil {
		return nil, "", err
	}

	filename := s.now().Format("20060102_150405") + "_" + sanitizeFileName(req.FileName)
	path := filepath.Join(s.uploadDir, filename)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("template: create upload dir: %w", err)
	}
	if err := os.WriteFile(path, req.Raw, 0o644); err != nil {
		return nil, "", fmt.Errorf("template: save upload: %w", err)
	}

	tpl := &store.Template{
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		FilePath:     filename,
		FontFamily:   ing.Style.FontFamily,
		FontSizePt:   ing.Style.FontSizePt,
		MarginTop:    ing.Style.MarginTop,
		MarginBottom: ing.Style.MarginBottom,
		MarginLeft:   ing.Style.MarginLeft,
		MarginRight:  ing.Style.MarginRight,
		LineSpacing:  ing.Style.LineSpacing,
		Active:       true,
	}
	if err := s.store.CreateTemplate(ctx, tpl, ing.Catalog); err != nil {
		os.Remove(path)
		return nil, "", err
	}

	s.log.Info("template uploaded",
		"template_id", tpl.ID,
		"name", tpl.Name,
		"fields", len(ing.Catalog.Fields),
	)
	return tpl, ing.Warning, nil
}

// Get loads one template with its catalog.
func (s *Service) Get(ctx context.Context, id uint) (*store.Template, error) {
	return s.store.GetTemplate(ctx, id)
}

// List returns templates, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]store.Template, error) {
	return s.store.ListTemplates(ctx, activeOnly)
}

// Fields returns the merged field views for one template: one entry per base
// name, repeats collapsed onto the canonical definition.
func (s *Service) Fields(ctx context.Context, id uint) ([]fields.FieldView, error) {
	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return tpl.Catalog().Merged(), nil
}

// MergedFields unions the field views of several templates for one combined
// form. The first template to mention a base name contributes its definition;
// later templates' repeats are absorbed. Order follows the template list, then
// each template's own field order.
func (s *Service) MergedFields(ctx context.Context, templateIDs []uint) ([]fields.FieldView, error) {
	seen := make(map[string]bool)
	var views []fields.FieldView
	for _, id := range templateIDs {
		tpl, err := s.store.GetTemplate(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, view := range tpl.Catalog().Merged() {
			if seen[view.BaseName] {
				continue
			}
			seen[view.BaseName] = true
			view.SortOrder = len(views)
			views = append(views, view)
		}
	}
	return views, nil
}

// SetActive pauses or resumes a template. Paused templates keep their files
// and records but are excluded from active listings.
func (s *Service) SetActive(ctx context.Context, id uint, active bool) error {
	return s.store.SetTemplateActive(ctx, id, active)
}

// UpdateFields replaces a template's persisted catalog with an edited one.
// Edits touch only the field records; the stored file is untouched.
func (s *Service) UpdateFields(ctx context.Context, id uint, catalog fields.Catalog) error {
	if _, err := s.store.GetTemplate(ctx, id); err != nil {
		return err
	}
	return s.store.ReplaceFields(ctx, id, catalog)
}

// Reingest re-extracts the catalog from the stored file and replaces the
// persisted fields. Used after a template file is edited in place.
func (s *Service) Reingest(ctx context.Context, id uint) (*store.Template, error) {
	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(s.uploadDir, tpl.FilePath))
	if err != nil {
		return nil, fmt.Errorf("template: read file for template %d: %w", id, err)
	}
	ing, err := Ingest(raw)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceFields(ctx, id, ing.Catalog); err != nil {
		return nil, err
	}
	tpl.FontFamily = ing.Style.FontFamily
	tpl.FontSizePt = ing.Style.FontSizePt
	tpl.MarginTop = ing.Style.MarginTop
	tpl.MarginBottom = ing.Style.MarginBottom
	tpl.MarginLeft = ing.Style.MarginLeft
	tpl.MarginRight = ing.Style.MarginRight
	tpl.LineSpacing = ing.Style.LineSpacing
	if err := s.store.UpdateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return s.store.GetTemplate(ctx, id)
}

// Delete removes the template record and its file.
func (s *Service) Delete(ctx context.Context, id uint) error {
	filePath, err := s.store.DeleteTemplate(ctx, id)
	if err != nil {
		return err
	}
	if filePath != "" {
		if err := os.Remove(filepath.Join(s.uploadDir, filePath)); err != nil && !os.IsNotExist(err) {
			s.log.Warn("template file not removed", "template_id", id, "error", err)
		}
	}
	return nil
}

func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	return strings.NewReplacer(" ", "_", "\t", "_").Replace(base)
}
