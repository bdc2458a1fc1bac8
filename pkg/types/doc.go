// Package types defines the core data types for the medgraph knowledge graph.
//
// This package contains the fundamental types used throughout medgraph:
//   - Node: a biomedical entity or concept in the graph
//   - Edge: a directed, typed relationship between two nodes
//   - Evidence: a literature citation supporting a relationship claim
//   - Concept: a controlled-vocabulary concept returned by the terminology resolver
//   - Article: a literature search record
//
// # Validation
//
// Types provide Validate() methods for input validation:
//
//	edge := &types.Edge{SourceNodeID: "inflammation", TargetNodeID: "hemodynamics"}
//	if err := edge.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// # Errors
//
// Sentinel errors describe the expected failure modes of graph mutation:
// ErrNotFound, ErrCapacityExceeded, ErrDepthExceeded, ErrInsufficientEvidence
// and ErrEmptyQuery. Callers discriminate with errors.Is.
package types
