package models

import (
	"time"

	dErrors "easel/pkg/domain-errors"
)

// Attribute is a named visual layer of the generative artwork (for example
// "Background").
//
// Invariants:
//   - ID is dense and zero-based: the Nth attribute ever created has ID N-1
//   - ID is immutable once assigned
//   - Name is non-empty
//   - Attributes are never deleted; the registry is append-only
//
// The ID is allocated by the registry service from the current attribute
// count, never supplied by callers, so density holds by construction.
type Attribute struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAttribute validates invariants and constructs an attribute. The caller
// provides the ID it allocated from the attribute counter.
func NewAttribute(id int, name string, now time.Time) (*Attribute, error) {
	if id < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "attribute id cannot be negative")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "attribute name cannot be empty")
	}
	return &Attribute{ID: id, Name: name, CreatedAt: now}, nil
}
