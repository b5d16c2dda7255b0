package pipeline

import (
	"fmt"
	"strings"
)

// ValidationError aggregates the field-level messages for one rejected
// generation request. Nothing is persisted when it is returned; the messages
// are meant to be redisplayed against the originating form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "\n")
}

// RenderError marks a substitution failure after validation passed. It is
// fatal for the single request and is surfaced, not retried.
type RenderError struct {
	TemplateID uint
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("pipeline: render template %d: %v", e.TemplateID, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
