// Package store persists templates, their field catalogs, generated documents
// and batch runs in SQLite via gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/LordMirex/mytypist-prototype/internal/cache"
	"github.com/LordMirex/mytypist-prototype/internal/platform/logger"
	"github.com/LordMirex/mytypist-prototype/pkg/fields"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: record not found")

const templateTypesCacheKey = "template_types"

// Store wraps the database handle. Derived lookups (the template type list)
// are served through an explicit TTL cache invalidated on mutation.
type Store struct {
	db    *gorm.DB
	log   *logger.Logger
	types *cache.Cache[[]string]
}

// Open opens (creating if necessary) the SQLite database at path and runs the
// schema migration.
func Open(path string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.AutoMigrate(&Template{}, &FieldRecord{}, &CreatedDocument{}, &BatchGeneration{}); err != nil {
		return nil, fmt.Errorf("store: migrate schema: %w", err)
	}
	return &Store{
		db:    db,
		log:   log.With("component", "store"),
		types: cache.New[[]string](5 * time.Minute),
	}, nil
}

// CreateTemplate persists the template and its field catalog atomically.
func (s *Store) CreateTemplate(ctx context.Context, tpl *Template, catalog fields.Catalog) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tpl).Error; err != nil {
			return err
		}
		for _, def := range catalog.Fields {
			rec := NewFieldRecord(tpl.ID, def)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: create template: %w", err)
	}
	s.types.Invalidate(templateTypesCacheKey)
	return nil
}

// GetTemplate loads one template with its field records in sort order.
func (s *Store) GetTemplate(ctx context.Context, id uint) (*Template, error) {
	var tpl Template
	err := s.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&tpl, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: template %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get template %d: %w", id, err)
	}
	return &tpl, nil
}

// ListTemplates returns templates, optionally only active ones, newest first.
func (s *Store) ListTemplates(ctx context.Context, activeOnly bool) ([]Template, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []Template
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list templates: %w", err)
	}
	return out, nil
}

// TemplateTypes returns the distinct template types, cached briefly because
// the list backs every form's filter dropdown.
func (s *Store) TemplateTypes(ctx context.Context) ([]string, error) {
	if types, ok := s.types.Get(templateTypesCacheKey); ok {
		return types, nil
	}
	var types []string
	err := s.db.WithContext(ctx).
		Model(&Template{}).
		Distinct("type").
		Order("type ASC").
		Pluck("type", &types).Error
	if err != nil {
		return nil, fmt.Errorf("store: template types: %w", err)
	}
	s.types.Set(templateTypesCacheKey, types)
	return types, nil
}

// SetTemplateActive pauses or resumes a template.
func (s *Store) SetTemplateActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&Template{}).Where("id = ?", id).
		Updates(map[string]interface{}{"active": active, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("store: set template %d active: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: template %d", ErrNotFound, id)
	}
	return nil
}

// UpdateTemplate saves edits to the template record.
func (s *Store) UpdateTemplate(ctx context.Context, tpl *Template) error {
	tpl.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(tpl).Error; err != nil {
		return fmt.Errorf("store: update template %d: %w", tpl.ID, err)
	}
	return nil
}

// ReplaceFields swaps a template's catalog for an edited one.
func (s *Store) ReplaceFields(ctx context.Context, templateID uint, catalog fields.Catalog) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", templateID).Delete(&FieldRecord{}).Error; err != nil {
			return err
		}
		for _, def := range catalog.Fields {
			rec := NewFieldRecord(templateID, def)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: replace fields for template %d: %w", templateID, err)
	}
	return nil
}

// DeleteTemplate removes the template and, via cascade, its field records.
// The template's file path is returned so the caller can remove the file.
func (s *Store) DeleteTemplate(ctx context.Context, id uint) (string, error) {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return "", err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&FieldRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Template{}, id).Error
	})
	if err != nil {
		return "", fmt.Errorf("store: delete template %d: %w", id, err)
	}
	s.types.Invalidate(templateTypesCacheKey)
	return tpl.FilePath, nil
}

// CreateDocument records a successful generation.
func (s *Store) CreateDocument(ctx context.Context, doc *CreatedDocument) error {
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("store: create document: %w", err)
	}
	return nil
}

// GetDocument loads one generated document record.
func (s *Store) GetDocument(ctx context.Context, id uint) (*CreatedDocument, error) {
	var doc CreatedDocument
	err := s.db.WithContext(ctx).First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: document %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get document %d: %w", id, err)
	}
	return &doc, nil
}

// DocumentsByBatch lists a batch's generated documents in creation order.
func (s *Store) DocumentsByBatch(ctx context.Context, batchID string) ([]CreatedDocument, error) {
	var out []CreatedDocument
	err := s.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("store: documents for batch %s: %w", batchID, err)
	}
	return out, nil
}

// DeleteDocument removes a generated document record.
func (s *Store) DeleteDocument(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&CreatedDocument{}, id)
	if res.Error != nil {
		return fmt.Errorf("store: delete document %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: document %d", ErrNotFound, id)
	}
	return nil
}

// CreateBatch records a new batch run.
func (s *Store) CreateBatch(ctx context.Context, batch *BatchGeneration) error {
	if err := s.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("store: create batch: %w", err)
	}
	return nil
}

// GetBatch loads a batch by its public identifier.
func (s *Store) GetBatch(ctx context.Context, batchID string) (*BatchGeneration, error) {
	var batch BatchGeneration
	err := s.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: batch %s", ErrNotFound, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get batch %s: %w", batchID, err)
	}
	return &batch, nil
}

// UpdateBatch saves batch progress and terminal state.
func (s *Store) UpdateBatch(ctx context.Context, batch *BatchGeneration) error {
	if err := s.db.WithContext(ctx).Save(batch).Error; err != nil {
		return fmt.Errorf("store: update batch %s: %w", batch.BatchID, err)
	}
	return nil
}
