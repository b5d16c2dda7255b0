package batch_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LordMirex/mytypist-prototype/internal/store"
	"github.com/LordMirex/mytypist-prototype/pkg/batch"
	"github.com/LordMirex/mytypist-prototype/pkg/pipeline"
	"github.com/LordMirex/mytypist-prototype/pkg/template"
	"github.com/LordMirex/mytypist-prototype/pkg/testsupport"
)

type fixture struct {
	store     *store.Store
	templates *template.Service
	batches   *batch.Orchestrator
}

func newFixture(t *testing.T, options ...batch.Option) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	uploadDir := t.TempDir()
	generatedDir := t.TempDir()

	p := pipeline.New(st, uploadDir, generatedDir, nil)
	return &fixture{
		store:     st,
		templates: template.NewService(st, uploadDir, nil),
		batches:   batch.New(p, st, nil, options...),
	}
}

func (f *fixture) upload(t *testing.T, name string) uint {
	t.Helper()
	raw := testsupport.BuildDocx(t,
		testsupport.Para("Dear {{name}},"),
		testsupport.Para("We note your address: {{address}}."),
	)
	tpl, _, err := f.templates.Upload(context.Background(), template.UploadRequest{
		Name: name, Type: "letter", FileName: name + ".docx", Raw: raw,
	})
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}
	return tpl.ID
}

func validInputs() map[string]string {
	return map[string]string{
		"name":    "Ada Obi",
		"address": "24 Avenue Avenue, Benin City",
	}
}

func TestRunAllItemsSucceed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := []uint{f.upload(t, "first"), f.upload(t, "second")}

	result, err := f.batches.Run(ctx, batch.Request{TemplateIDs: ids, Inputs: validInputs()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != batch.StatusCompleted {
		t.Errorf("status = %q", result.Status)
	}
	if result.Total != 2 || result.Succeeded != 2 {
		t.Errorf("counts = %d/%d", result.Succeeded, result.Total)
	}
	for i, item := range result.Items {
		if item.Err != nil {
			t.Errorf("item %d failed: %v", i, item.Err)
		}
		if item.Document == nil || item.Document.BatchID != result.BatchID {
			t.Errorf("item %d not stamped with batch id", i)
		}
	}

	record, err := f.store.GetBatch(ctx, result.BatchID)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if record.Status != batch.StatusCompleted || record.CompletedAt == nil {
		t.Errorf("persisted batch = %+v", record)
	}

	docs, err := f.store.DocumentsByBatch(ctx, result.BatchID)
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("got %d documents, want 2", len(docs))
	}
}

func TestRunIsolatesFailingItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	good1 := f.upload(t, "first")
	good2 := f.upload(t, "second")
	ids := []uint{good1, 9999, good2}

	result, err := f.batches.Run(ctx, batch.Request{TemplateIDs: ids, Inputs: validInputs()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Status != batch.StatusCompletedWithErrors {
		t.Errorf("status = %q", result.Status)
	}
	if result.Succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", result.Succeeded)
	}
	if result.Items[0].Err != nil || result.Items[2].Err != nil {
		t.Error("healthy items affected by the failing one")
	}
	if !errors.Is(result.Items[1].Err, store.ErrNotFound) {
		t.Errorf("item 1 error = %v, want ErrNotFound", result.Items[1].Err)
	}

	record, err := f.store.GetBatch(ctx, result.BatchID)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if record.Errors == "" {
		t.Error("persisted batch carries no error detail")
	}
	// Persisted errors name the failing template so the detail is actionable.
	if !strings.Contains(record.Errors, "Template 9999:") {
		t.Errorf("persisted errors = %q, want the failing template named", record.Errors)
	}
}

func TestRunValidationFailureIsPerItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := []uint{f.upload(t, "only")}

	result, err := f.batches.Run(ctx, batch.Request{TemplateIDs: ids, Inputs: map[string]string{}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != batch.StatusCompletedWithErrors || result.Succeeded != 0 {
		t.Errorf("result = %+v", result)
	}
	var verr *pipeline.ValidationError
	if !errors.As(result.Items[0].Err, &verr) {
		t.Errorf("item error = %v, want *pipeline.ValidationError", result.Items[0].Err)
	}
}

func TestRunWithWorkersKeepsSubmissionOrder(t *testing.T) {
	f := newFixture(t, batch.WithWorkers(4))
	ctx := context.Background()
	ids := []uint{f.upload(t, "a"), f.upload(t, "b"), f.upload(t, "c"), 9999}

	result, err := f.batches.Run(ctx, batch.Request{TemplateIDs: ids, Inputs: validInputs()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Succeeded != 3 || result.Status != batch.StatusCompletedWithErrors {
		t.Errorf("result = %d succeeded, status %q", result.Succeeded, result.Status)
	}
	for i, item := range result.Items {
		if item.TemplateID != ids[i] {
			t.Errorf("item %d template = %d, want %d", i, item.TemplateID, ids[i])
		}
	}
	if result.Items[3].Err == nil {
		t.Error("missing template succeeded")
	}
}
