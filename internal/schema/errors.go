package schema

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound is returned when no schema is registered under an id.
	ErrNotFound = errors.New("schema not found")
	// ErrDuplicateID is returned when a second document claims a registered id.
	ErrDuplicateID = errors.New("schema id already registered")
	// ErrMissingID is returned when a document is registered without an id.
	ErrMissingID = errors.New("schema id is required")
)

// DuplicateIDError names both files involved in an id conflict.
type DuplicateIDError struct {
	ID        string
	Path      string
	FirstPath string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("schema id %q from %s already registered by %s", e.ID, e.Path, e.FirstPath)
}

func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}
