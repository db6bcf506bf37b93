package main

import "fmt"

// NotFoundError reports an article reference that matches nothing on disk
type NotFoundError struct {
	Ref  string
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("article not found: %q (looked for %s)", e.Ref, e.Path)
	}
	return fmt.Sprintf("article not found: %q", e.Ref)
}

// MissingFieldError reports a required issue form field that was not answered
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// ExtractionError reports article HTML whose structure could not be recognized
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extracting article: " + e.Reason
}

// RenderError reports a record that cannot be rendered
type RenderError struct {
	Field  string
	Reason string
}

func (e *RenderError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("rendering article: %s: %s", e.Field, e.Reason)
	}
	return "rendering article: " + e.Reason
}
