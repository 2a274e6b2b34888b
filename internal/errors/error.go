// Package errors provides the error taxonomy of the catalog service.
package errors

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidIdentifier = errors.New("invalid product identifier")
	ErrValidation        = errors.New("validation failed")
	ErrStoreUnavailable  = errors.New("product store unavailable")
)

// ValidationError lists the offending fields of a rejected input, keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + e.Fields[name]
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
