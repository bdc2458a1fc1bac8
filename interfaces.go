package medgraph

import (
	"context"

	"github.com/soundprediction/medgraph/pkg/query"
	"github.com/soundprediction/medgraph/pkg/types"
)

// This file defines focused interfaces composed into the Medgraph interface.
// Consumers should depend on the smallest interface that meets their needs.

// GraphReader provides read-only access to graph state.
type GraphReader interface {
	// Summary returns counts and histograms describing the graph.
	Summary() types.GraphSummary

	// GetNode retrieves a node by its id, or types.ErrNotFound.
	GetNode(nodeID string) (*types.Node, error)

	// Nodes returns all nodes in insertion order.
	Nodes() []types.Node

	// Edges returns all edges in admission order.
	Edges() []types.Edge
}

// GraphMutator provides the structural mutation entry points. All three are
// serialized by the store and safe for concurrent callers.
type GraphMutator interface {
	// AddNode creates (or returns) the node for a label.
	AddNode(label string, category types.NodeCategory) (*types.Node, error)

	// ValidateNode records a controlled-vocabulary identifier on a node.
	ValidateNode(nodeID, cui string) (*types.Node, error)

	// AddEdge admits a relationship under the evidence and depth limits.
	AddEdge(edge types.Edge) (*types.Edge, error)
}

// QueryPlanner builds literature-search expressions from free text.
type QueryPlanner interface {
	// BuildQuery constructs a boolean search expression; with useConcepts
	// set, spans are disambiguated against the controlled vocabulary.
	BuildQuery(ctx context.Context, text string, useConcepts bool) (*query.Result, error)
}

// Expander grows the graph from its current frontier.
type Expander interface {
	// Expand runs cycles until exhaustion or the configured cycle limit.
	Expand(ctx context.Context) ([]types.CycleReport, error)

	// ExpandCycle runs exactly one expansion cycle.
	ExpandCycle(ctx context.Context) (*types.CycleReport, error)
}

// Medgraph is the full client surface.
type Medgraph interface {
	GraphReader
	GraphMutator
	QueryPlanner
	Expander

	// Close releases collaborator resources.
	Close() error
}
