package fcp7

import (
	"errors"
	"fmt"
	"strings"

	"fcpbridge/internal/timeline"
)

var (
	// ErrDocumentNotFound is returned when the input document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrUnresolvableReference marks a clip whose file reference cannot be
	// resolved to a path.
	ErrUnresolvableReference = errors.New("unresolvable file reference")
	// ErrFilesystemConflict marks a path that exists with the wrong type.
	ErrFilesystemConflict = errors.New("filesystem conflict")
	// ErrUnsupported marks timeline content the format cannot carry.
	ErrUnsupported = timeline.ErrUnsupported
	// ErrUnknownSource marks a clip referencing a source missing from the registry.
	ErrUnknownSource = timeline.ErrUnknownSource
)

// ReferenceError locates a clip item whose <file> cannot be resolved.
type ReferenceError struct {
	Path    string
	FileID  string
	Message string
	Excerpt string
}

func (e *ReferenceError) Error() string {
	var b strings.Builder
	b.WriteString(ErrUnresolvableReference.Error())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.FileID != "" {
		fmt.Fprintf(&b, " (file %s)", e.FileID)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *ReferenceError) Unwrap() error {
	return ErrUnresolvableReference
}
