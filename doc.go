// Package medgraph builds bounded biomedical knowledge graphs. Starting
// from a fixed set of seed entities, it validates concepts against the UMLS
// Metathesaurus, turns node labels into boolean PubMed queries, and admits
// literature-backed relationships under hard depth, capacity and evidence
// limits.
//
// The root package is a facade over the subpackages: pkg/graph owns the
// in-memory store and its invariants, pkg/query builds search expressions,
// pkg/terminology and pkg/literature wrap the external collaborators, and
// pkg/expand drives the expansion cycles.
package medgraph
