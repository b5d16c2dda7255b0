// Package batch generates one set of inputs against several templates in a
// single run. Items are isolated: a failing template never aborts the rest,
// and the run always reaches a terminal state.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/LordMirex/mytypist-prototype/internal/platform/logger"
	"github.com/LordMirex/mytypist-prototype/internal/store"
	"github.com/LordMirex/mytypist-prototype/pkg/pipeline"
)

// Terminal batch states.
const (
	StatusProcessing          = "processing"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
)

// Orchestrator runs batch generations over a pipeline.
type Orchestrator struct {
	pipeline *pipeline.Pipeline
	store    *store.Store
	log      *logger.Logger
	workers  int
	now      func() time.Time
	newID    func() string
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the number of items processed concurrently. Values below
// two keep the sequential baseline.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// WithClock injects the time source for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithIDSource injects the batch identifier generator.
func WithIDSource(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newID = fn
	}
}

// New builds an Orchestrator.
func New(p *pipeline.Pipeline, st *store.Store, log *logger.Logger, options ...Option) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	o := &Orchestrator{
		pipeline: p,
		store:    st,
		log:      log.With("component", "batch"),
		workers:  1,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Request is one batch run: a single input set applied to each template in
// order.
type Request struct {
	TemplateIDs []uint
	Inputs      map[string]string
}

// ItemResult is the outcome for one template in the batch, in submission
// order.
type ItemResult struct {
	TemplateID uint
	Document   *store.CreatedDocument
	Err        error
}

// Result is the terminal outcome of one batch run.
type Result struct {
	BatchID   string
	Status    string
	Total     int
	Succeeded int
	Items     []ItemResult
}

// Run executes the batch. Every item is attempted; per-item errors are
// recorded on the batch and reported in the result, never returned as the
// run's own error. The persisted batch record moves processing to completed
// or completed_with_errors.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	batchID := o.newID()
	userName, userEmail := requesterOf(req.Inputs)

	templateIDs, _ := json.Marshal(req.TemplateIDs)
	inputs, _ := json.Marshal(req.Inputs)
	record := &store.BatchGeneration{
		BatchID:     batchID,
		UserName:    userName,
		UserEmail:   userEmail,
		TemplateIDs: string(templateIDs),
		Inputs:      string(inputs),
		Status:      StatusProcessing,
		Total:       len(req.TemplateIDs),
	}
	if err := o.store.CreateBatch(ctx, record); err != nil {
		return nil, err
	}

	items := o.process(ctx, batchID, req)

	succeeded := 0
	var failures []string
	for _, item := range items {
		if item.Err != nil {
			failures = append(failures, fmt.Sprintf("Template %d: %v", item.TemplateID, item.Err))
			continue
		}
		succeeded++
	}

	record.Succeeded = succeeded
	record.Status = StatusCompleted
	if len(failures) > 0 {
		record.Status = StatusCompletedWithErrors
		encoded, _ := json.Marshal(failures)
		record.Errors = string(encoded)
	}
	completed := o.now()
	record.CompletedAt = &completed
	if err := o.store.UpdateBatch(ctx, record); err != nil {
		return nil, err
	}

	o.log.Info("batch finished",
		"batch_id", batchID,
		"status", record.Status,
		"total", record.Total,
		"succeeded", succeeded,
	)
	return &Result{
		BatchID:   batchID,
		Status:    record.Status,
		Total:     record.Total,
		Succeeded: succeeded,
		Items:     items,
	}, nil
}

// process generates every item, sequentially or with a bounded worker group.
// Results always land at the item's submission index.
func (o *Orchestrator) process(ctx context.Context, batchID string, req Request) []ItemResult {
	items := make([]ItemResult, len(req.TemplateIDs))

	generate := func(i int) {
		id := req.TemplateIDs[i]
		doc, err := o.pipeline.Generate(ctx, pipeline.Request{
			TemplateID: id,
			Inputs:     req.Inputs,
			BatchID:    batchID,
		})
		if err != nil {
			o.log.Warn("batch item failed", "batch_id", batchID, "template_id", id, "error", err)
		}
		items[i] = ItemResult{TemplateID: id, Document: doc, Err: err}
	}

	if o.workers <= 1 {
		for i := range req.TemplateIDs {
			generate(i)
		}
		return items
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range req.TemplateIDs {
		i := i
		g.Go(func() error {
			generate(i)
			return nil
		})
	}
	_ = g.Wait()
	return items
}

func requesterOf(inputs map[string]string) (name, email string) {
	name = inputs["name"]
	if name == "" {
		name = "Anonymous User"
	}
	return name, inputs["email"]
}
