// Package convert produces fixed-layout (PDF) output from rendered documents
// by delegating to an external renderer. The core never assumes a specific
// converter is installed: a missing renderer is reported distinctly from a
// renderer that ran and failed.
package convert

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnavailable means no converter is present in the environment. Callers
// should offer a different output format rather than ask the user to fix
// their input.
var ErrUnavailable = errors.New("convert: conversion unavailable")

// ErrConversionFailed means the converter ran but produced no usable output.
var ErrConversionFailed = errors.New("convert: conversion failed")

// Converter turns a rendered source-format document on disk into its
// fixed-layout counterpart, returning the output path.
type Converter interface {
	Name() string
	Convert(ctx context.Context, docxPath string) (string, error)
}

// Registry stores converters by name with discovery and duplication
// safeguards.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

// Register adds a converter by its Name(). Duplicate names return an error.
func (r *Registry) Register(c Converter) error {
	if c == nil {
		return fmt.Errorf("convert: converter is required")
	}
	name := c.Name()
	if name == "" {
		return fmt.Errorf("convert: converter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.converters[name]; exists {
		return fmt.Errorf("convert: converter %q already registered", name)
	}
	r.converters[name] = c
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(c Converter) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get retrieves a converter by name.
func (r *Registry) Get(name string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.converters[name]
	if !ok {
		return nil, fmt.Errorf("convert: converter %q not found", name)
	}
	return c, nil
}

// List returns a sorted list of converter names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a converter is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.converters[name]
	return ok
}
