// Package graph implements the bounded in-memory knowledge-graph store.
//
// The store owns a mapping from node id to Node and an ordered sequence of
// Edges, and enforces the global growth constraints on every mutation:
// node count never exceeds MaxNodes, every admitted edge carries at least
// MinCitations distinct citation sources, and node depth is maintained as the
// shortest hop distance from any seed node via multi-source breadth-first
// relaxation after each edge admission.
//
// All structural mutations are serialized behind a single mutex; the store is
// a single-writer structure and no lock is ever held across network I/O.
package graph
