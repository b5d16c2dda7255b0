package store

import (
	"encoding/json"
	"time"

	"github.com/LordMirex/mytypist-prototype/internal/extract"
	"github.com/LordMirex/mytypist-prototype/pkg/fields"
)

// Template is the persisted record for one uploaded template document.
type Template struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Type        string `gorm:"size:50;not null"`
	FilePath    string `gorm:"size:200;not null"`
	Description string

	FontFamily   string `gorm:"size:50"`
	FontSizePt   int
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
	LineSpacing  float64

	Active    bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Fields []FieldRecord `gorm:"constraint:OnDelete:CASCADE"`
}

// FieldRecord is the persisted form of one catalog entry.
type FieldRecord struct {
	ID         uint `gorm:"primaryKey"`
	TemplateID uint `gorm:"index;not null"`

	Key               string `gorm:"size:100;not null"`
	BaseName          string `gorm:"size:100;not null"`
	Instance          int
	DisplayName       string `gorm:"size:100"`
	Type              string `gorm:"size:50;default:text"`
	Required          bool
	Options           string `gorm:"type:text"`
	HelpText          string `gorm:"type:text"`
	DefaultValue      string `gorm:"size:255"`
	ValidationPattern string `gorm:"size:255"`
	Casing            string `gorm:"size:20;default:none"`
	SortOrder         int

	Bold           bool
	Italic         bool
	Underline      bool
	FontFamily     string `gorm:"size:50"`
	FontSizePt     int
	Alignment      string `gorm:"size:20"`
	ParagraphIndex int
	RunIndex       int
}

// CreatedDocument records one successful generation.
type CreatedDocument struct {
	ID         uint `gorm:"primaryKey"`
	TemplateID uint `gorm:"index;not null"`

	UserName         string `gorm:"size:100;not null"`
	UserEmail        string `gorm:"size:100"`
	FilePath         string `gorm:"size:200;not null"`
	OriginalFilename string `gorm:"size:200"`
	FileSize         int64
	BatchID          string `gorm:"size:50;index"`
	Inputs           string `gorm:"type:text"`

	CreatedAt time.Time
}

// BatchGeneration records one batch run and its terminal counts.
type BatchGeneration struct {
	ID      uint   `gorm:"primaryKey"`
	BatchID string `gorm:"size:50;uniqueIndex;not null"`

	UserName    string `gorm:"size:100;not null"`
	UserEmail   string `gorm:"size:100"`
	TemplateIDs string `gorm:"type:text;not null"`
	Inputs      string `gorm:"type:text;not null"`

	Status      string `gorm:"size:30;default:pending"`
	Total       int
	Succeeded   int
	Errors      string `gorm:"type:text"`
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ToDefinition rehydrates the catalog entry.
func (r FieldRecord) ToDefinition() fields.FieldDefinition {
	def := fields.FieldDefinition{
		Key:               r.Key,
		BaseName:          r.BaseName,
		Instance:          r.Instance,
		DisplayName:       r.DisplayName,
		Type:              fields.FieldType(r.Type),
		Required:          r.Required,
		HelpText:          r.HelpText,
		DefaultValue:      r.DefaultValue,
		ValidationPattern: r.ValidationPattern,
		Casing:            fields.Casing(r.Casing),
		SortOrder:         r.SortOrder,
		Formatting: extract.Formatting{
			Bold:       r.Bold,
			Italic:     r.Italic,
			Underline:  r.Underline,
			FontFamily: r.FontFamily,
			FontSizePt: r.FontSizePt,
		},
		ParagraphAlignment: r.Alignment,
		ParagraphIndex:     r.ParagraphIndex,
		RunIndex:           r.RunIndex,
	}
	if r.Options != "" {
		var opts []string
		if err := json.Unmarshal([]byte(r.Options), &opts); err == nil {
			def.Options = opts
		}
	}
	return def
}

// NewFieldRecord converts a catalog entry for persistence.
func NewFieldRecord(templateID uint, def fields.FieldDefinition) FieldRecord {
	rec := FieldRecord{
		TemplateID:        templateID,
		Key:               def.Key,
		BaseName:          def.BaseName,
		Instance:          def.Instance,
		DisplayName:       def.DisplayName,
		Type:              string(def.Type),
		Required:          def.Required,
		HelpText:          def.HelpText,
		DefaultValue:      def.DefaultValue,
		ValidationPattern: def.ValidationPattern,
		Casing:            string(def.Casing),
		SortOrder:         def.SortOrder,
		Bold:              def.Formatting.Bold,
		Italic:            def.Formatting.Italic,
		Underline:         def.Formatting.Underline,
		FontFamily:        def.Formatting.FontFamily,
		FontSizePt:        def.Formatting.FontSizePt,
		Alignment:         def.ParagraphAlignment,
		ParagraphIndex:    def.ParagraphIndex,
		RunIndex:          def.RunIndex,
	}
	opts, err := json.Marshal(def.Options)
	if err == nil {
		rec.Options = string(opts)
	}
	return rec
}

// Catalog rehydrates a template's full catalog in sort order.
func (t Template) Catalog() fields.Catalog {
	defs := make([]fields.FieldDefinition, 0, len(t.Fields))
	for _, rec := range t.Fields {
		defs = append(defs, rec.ToDefinition())
	}
	return fields.Catalog{Fields: defs}
}
