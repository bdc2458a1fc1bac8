// Package export serializes graph snapshots to result files: a JSON document
// that round-trips through the store, Parquet edge and evidence tables for
// analysis tooling, and an optional Neo4j export for interactive browsing.
package export
