package types

import "errors"

// Graph lookup errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrUnknownEra      = errors.New("era not found in project")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidData     = errors.New("invalid entity data")
)

// Ordering contract errors. A reorder request must supply a permutation of
// the current members of its scope; anything else is rejected before any
// remote call is made.
var (
	ErrOrderMismatch = errors.New("ordered IDs are not a permutation of the current scope")
	ErrUnknownKind   = errors.New("unknown entity kind")
)

// Config validation errors.
var (
	ErrServiceURLEmpty = errors.New("service URL must not be empty")
	ErrUsernameEmpty   = errors.New("username must not be empty")
)
