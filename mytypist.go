// Package mytypist wires the document generation components into one
// application surface and re-exports the types callers need to drive it.
package mytypist

import (
	"context"

	"github.com/LordMirex/mytypist-prototype/internal/platform/logger"
	"github.com/LordMirex/mytypist-prototype/internal/store"
	"github.com/LordMirex/mytypist-prototype/internal/watch"
	"github.com/LordMirex/mytypist-prototype/pkg/archive"
	"github.com/LordMirex/mytypist-prototype/pkg/batch"
	"github.com/LordMirex/mytypist-prototype/pkg/config"
	"github.com/LordMirex/mytypist-prototype/pkg/convert"
	"github.com/LordMirex/mytypist-prototype/pkg/fields"
	"github.com/LordMirex/mytypist-prototype/pkg/pipeline"
	"github.com/LordMirex/mytypist-prototype/pkg/template"
	"github.com/LordMirex/mytypist-prototype/pkg/transform"
)

// Catalog aliases the field catalog model.
type Catalog = fields.Catalog

// FieldDefinition aliases one catalog entry.
type FieldDefinition = fields.FieldDefinition

// FieldView aliases the merged display projection of a field group.
type FieldView = fields.FieldView

// Ingestion aliases the template ingestion result.
type Ingestion = template.Ingestion

// Ingest analyses raw DOCX bytes into a field catalog and style metadata
// without touching any storage.
func Ingest(raw []byte) (*Ingestion, error) {
	return template.Ingest(raw)
}

// Fields is the simplest entry point: it ingests raw template bytes and
// returns the merged field views a form would present.
func Fields(raw []byte) ([]FieldView, error) {
	ing, err := template.Ingest(raw)
	if err != nil {
		return nil, err
	}
	return ing.Catalog.Merged(), nil
}

// App is the assembled application: storage, the template library, the
// generation pipeline, batch orchestration, and conversion.
type App struct {
	Config     config.Config
	Log        *logger.Logger
	Store      *store.Store
	Templates  *template.Service
	Pipeline   *pipeline.Pipeline
	Batches    *batch.Orchestrator
	Converters *convert.Registry
	Packager   *archive.Packager
}

// NewApp opens the database and wires every component from cfg.
func NewApp(cfg config.Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath, log)
	if err != nil {
		return nil, err
	}

	transformer := transform.New(transform.WithLocation(cfg.Location()))

	registry := convert.NewRegistry()
	external := convert.NewExternal(log, convert.WithTimeout(cfg.ConvertTimeout))
	registry.MustRegister(external)

	p := pipeline.New(st, cfg.UploadDir, cfg.GeneratedDir, log,
		pipeline.WithTransformer(transformer))

	return &App{
		Config:     cfg,
		Log:        log,
		Store:      st,
		Templates:  template.NewService(st, cfg.UploadDir, log),
		Pipeline:   p,
		Batches:    batch.New(p, st, log, batch.WithWorkers(cfg.BatchWorkers)),
		Converters: registry,
		Packager:   archive.NewPackager(st, cfg.GeneratedDir, external, log),
	}, nil
}

// Watch runs the inbox watcher until ctx is cancelled. Dropped .docx files
// are ingested as templates of the given type.
func (a *App) Watch(ctx context.Context, templateType string) error {
	return watch.New(a.Templates, a.Config.InboxDir, templateType, a.Log).Run(ctx)
}

// Close flushes buffered log output.
func (a *App) Close() {
	a.Log.Sync()
}
