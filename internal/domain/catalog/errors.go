package catalog

import "errors"

var (
	// ErrInvalidCatalog is returned when catalog data fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrNotFound is returned when a hero id is not in the roster.
	ErrNotFound = errors.New("hero not found")
)
