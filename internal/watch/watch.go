// Package watch ingests template files dropped into an inbox directory. New
// .docx files are uploaded through the template service using their file name
// as the template name.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LordMirex/mytypist-prototype/internal/platform/logger"
	"github.com/LordMirex/mytypist-prototype/pkg/template"
)

// settleDelay gives the writing process time to finish before the file is
// read. Editors and copies emit several events per file; each event resets the
// file's timer, so ingestion runs once the file has been quiet for this long.
const settleDelay = 500 * time.Millisecond

// Watcher auto-ingests templates from one inbox directory.
type Watcher struct {
	service *template.Service
	log     *logger.Logger
	dir     string
	// templateType is assigned to every auto-ingested template.
	templateType string
}

// New builds a Watcher over dir. Ingested templates are stored under
// templateType.
func New(service *template.Service, dir, templateType string, log *logger.Logger) *Watcher {
	if log == nil {
		log = logger.Nop()
	}
	if templateType == "" {
		templateType = "letter"
	}
	return &Watcher{
		service:      service,
		log:          log.With("component", "watch"),
		dir:          dir,
		templateType: templateType,
	}
}

// Run watches the inbox until ctx is cancelled. Each settled .docx file is
// ingested once; failures are logged and the watcher keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return err
	}

	w.log.Info("watching inbox", "dir", w.dir)
	// One timer per file; only the event loop touches the map, the fired
	// callback just ingests. Follow-up writes reset the timer instead of
	// blocking the loop.
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range pending {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".docx") {
				continue
			}
			if timer, ok := pending[event.Name]; ok {
				timer.Stop()
			}
			path := event.Name
			pending[path] = time.AfterFunc(settleDelay, func() {
				w.ingest(ctx, path)
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn("inbox file unreadable", "file", path, "error", err)
		return
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	tpl, warning, err := w.service.Upload(ctx, template.UploadRequest{
		Name:     name,
		Type:     w.templateType,
		FileName: base,
		Raw:      raw,
	})
	if err != nil {
		w.log.Warn("inbox ingestion failed", "file", path, "error", err)
		return
	}
	if warning != "" {
		w.log.Warn("inbox ingestion warning", "file", path, "warning", warning)
	}
	w.log.Info("template ingested from inbox", "file", path, "template_id", tpl.ID)

	if err := os.Remove(path); err != nil {
		w.log.Warn("inbox file not removed", "file", path, "error", err)
	}
}
