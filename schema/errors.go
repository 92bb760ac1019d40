package schema

import "errors"

// Sentinel errors for schema registry operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, schema.ErrUnknownUnit) {
//	    // Handle a unit string the canonical table does not cover
//	}
var (
	// ErrRegistry indicates a schema registry request failed.
	ErrRegistry = errors.New("schema: registry request failed")

	// ErrBadSchema indicates the registry returned a schema document that
	// could not be parsed.
	ErrBadSchema = errors.New("schema: malformed schema document")

	// ErrUnknownUnit indicates a field declares a unit string that is not
	// in the canonical unit table. Propagated, never swallowed.
	ErrUnknownUnit = errors.New("schema: unknown unit")
)
