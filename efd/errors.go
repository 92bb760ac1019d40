package efd

import "errors"

// Sentinel errors for EFD query construction and result reshaping.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, efd.ErrUnknownTopic) {
//	    // Handle a topic missing from the EFD schema
//	}
var (
	// ErrInvalidStart indicates the start argument is not a usable timestamp.
	ErrInvalidStart = errors.New("efd: start must be a timestamp")

	// ErrInvalidRangeEnd indicates the end argument is neither an absolute
	// timestamp nor a duration offset from the start.
	ErrInvalidRangeEnd = errors.New("efd: end must be a timestamp or a duration")

	// ErrNoPackedFields indicates a base field matched no numbered members.
	ErrNoPackedFields = errors.New("efd: no packed fields match base field")

	// ErrFieldArity indicates packed member counts differ across the base
	// fields of one expansion.
	ErrFieldArity = errors.New("efd: packed field counts do not agree")

	// ErrStride indicates the requested stride does not evenly divide the
	// packed field count.
	ErrStride = errors.New("efd: stride must be a factor of the packed field count")

	// ErrUnknownField indicates a computed packed column is absent from the
	// queried result.
	ErrUnknownField = errors.New("efd: field not present in query result")

	// ErrUnknownTopic indicates a queried topic is not in the EFD schema.
	ErrUnknownTopic = errors.New("efd: topic not in EFD schema")

	// ErrNoSchemaRegistry indicates the deployment exposes no schema
	// registry, so schema lookups cannot be served.
	ErrNoSchemaRegistry = errors.New("efd: deployment has no schema registry")

	// ErrUnknownDeployment indicates no factory is registered for a
	// deployment name.
	ErrUnknownDeployment = errors.New("efd: no client registered for deployment")

	// ErrDuplicateDeployment indicates a deployment name was registered twice.
	ErrDuplicateDeployment = errors.New("efd: deployment already registered")

	// ErrInterpolation indicates an unsupported interpolation kind.
	ErrInterpolation = errors.New("efd: unsupported interpolation kind")
)
