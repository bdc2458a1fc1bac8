package types

import "errors"

// Mutation and query errors. Limit errors (capacity, depth, evidence) are
// expected steady-state outcomes during expansion and are reported in cycle
// summaries rather than aborting a run.
var (
	// ErrNotFound is returned when a referenced node or concept does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCapacityExceeded is returned when adding a node would exceed the
	// configured maximum node count.
	ErrCapacityExceeded = errors.New("node capacity exceeded")

	// ErrDepthExceeded is returned when admitting an edge would place an
	// endpoint beyond the configured maximum depth from all seeds.
	ErrDepthExceeded = errors.New("depth limit exceeded")

	// ErrInsufficientEvidence is returned when an edge carries fewer distinct
	// citation sources than the configured minimum.
	ErrInsufficientEvidence = errors.New("insufficient evidence")

	// ErrEmptyQuery is returned when query text is blank after normalization.
	ErrEmptyQuery = errors.New("query text is empty")
)

// Validation errors
var (
	ErrEmptyLabel        = errors.New("label cannot be empty")
	ErrEmptyNodeID       = errors.New("node id cannot be empty")
	ErrEmptyRelationship = errors.New("relationship type cannot be empty")
	ErrEmptyCUI          = errors.New("cui cannot be empty")
	ErrSelfLoop          = errors.New("source and target nodes cannot be the same")
	ErrInvalidConfidence = errors.New("confidence must be between 0.0 and 1.0")
)
