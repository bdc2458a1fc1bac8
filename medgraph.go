package medgraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soundprediction/medgraph/pkg/config"
	"github.com/soundprediction/medgraph/pkg/expand"
	"github.com/soundprediction/medgraph/pkg/export"
	"github.com/soundprediction/medgraph/pkg/graph"
	"github.com/soundprediction/medgraph/pkg/literature"
	"github.com/soundprediction/medgraph/pkg/query"
	"github.com/soundprediction/medgraph/pkg/terminology"
	"github.com/soundprediction/medgraph/pkg/types"
)

// Client is the main implementation of the Medgraph interface. It owns the
// store and wires the query builder and orchestrator to the collaborators
// passed in; the collaborators themselves (terminology resolver, literature
// searcher) are constructed by the caller so that caching and circuit
// breaking stay composable.
type Client struct {
	store    *graph.Store
	builder  *query.Builder
	orch     *expand.Orchestrator
	resolver terminology.Resolver
	searcher literature.Searcher
	cfg      *config.Config
	logger   *slog.Logger
}

var _ Medgraph = (*Client)(nil)

// NewClient creates a client over the given collaborators. The resolver may
// be nil when concept resolution is not needed (queries then run literal).
func NewClient(resolver terminology.Resolver, searcher literature.Searcher, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if searcher == nil {
		return nil, fmt.Errorf("medgraph: literature searcher is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("medgraph: config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	store := graph.NewStore(graph.Config{
		MaxDepth:     cfg.Graph.MaxDepth,
		MaxNodes:     cfg.Graph.MaxNodes,
		MinCitations: cfg.Graph.MinCitations,
	}, logger)

	builder := query.NewBuilder(resolver, cfg.UMLS.Threshold, logger)

	useConcepts := cfg.Expansion.UseConcepts && resolver != nil
	orch := expand.NewOrchestrator(store, builder, searcher, resolver, expand.Config{
		MaxCycles:   cfg.Expansion.MaxCycles,
		FanOut:      cfg.Expansion.FanOut,
		UseConcepts: useConcepts,
		MaxResults:  cfg.PubMed.MaxResults,
	}, logger)

	return &Client{
		store:    store,
		builder:  builder,
		orch:     orch,
		resolver: resolver,
		searcher: searcher,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Store exposes the underlying graph store for the server layer.
func (c *Client) Store() *graph.Store { return c.store }

// SessionID identifies the current expansion session.
func (c *Client) SessionID() string { return c.orch.SessionID() }

// Summary implements GraphReader.
func (c *Client) Summary() types.GraphSummary { return c.store.Summary() }

// GetNode implements GraphReader.
func (c *Client) GetNode(nodeID string) (*types.Node, error) { return c.store.GetNode(nodeID) }

// Nodes implements GraphReader.
func (c *Client) Nodes() []types.Node { return c.store.Nodes() }

// Edges implements GraphReader.
func (c *Client) Edges() []types.Edge { return c.store.Edges() }

// AddNode implements GraphMutator.
func (c *Client) AddNode(label string, category types.NodeCategory) (*types.Node, error) {
	return c.store.AddNode(label, category)
}

// ValidateNode implements GraphMutator.
func (c *Client) ValidateNode(nodeID, cui string) (*types.Node, error) {
	return c.store.ValidateNode(nodeID, cui)
}

// AddEdge implements GraphMutator.
func (c *Client) AddEdge(edge types.Edge) (*types.Edge, error) {
	return c.store.AddEdge(edge)
}

// BuildQuery implements QueryPlanner.
func (c *Client) BuildQuery(ctx context.Context, text string, useConcepts bool) (*query.Result, error) {
	if useConcepts && c.resolver == nil {
		return nil, fmt.Errorf("medgraph: no terminology resolver configured")
	}
	return c.builder.Build(ctx, text, useConcepts)
}

// Expand implements Expander.
func (c *Client) Expand(ctx context.Context) ([]types.CycleReport, error) {
	return c.orch.Run(ctx)
}

// ExpandCycle implements Expander.
func (c *Client) ExpandCycle(ctx context.Context) (*types.CycleReport, error) {
	return c.orch.RunCycle(ctx)
}

// ResolveConcept looks up controlled-vocabulary candidates for a term.
func (c *Client) ResolveConcept(ctx context.Context, term string) ([]types.Concept, error) {
	if c.resolver == nil {
		return nil, fmt.Errorf("medgraph: no terminology resolver configured")
	}
	return c.resolver.Resolve(ctx, term)
}

// LookupConcept returns concept detail for a known identifier.
func (c *Client) LookupConcept(ctx context.Context, cui string) (*types.Concept, error) {
	if c.resolver == nil {
		return nil, fmt.Errorf("medgraph: no terminology resolver configured")
	}
	return c.resolver.Lookup(ctx, cui)
}

// SearchLiterature queries the literature index directly.
func (c *Client) SearchLiterature(ctx context.Context, q string, opts literature.SearchOptions) ([]types.Article, error) {
	return c.searcher.Search(ctx, q, opts)
}

// Save writes the graph to a JSON document at path.
func (c *Client) Save(path string) error {
	return export.WriteJSON(path, c.store.Export())
}

// Load replaces the graph with a previously saved document.
func (c *Client) Load(path string) error {
	doc, err := export.ReadJSON(path)
	if err != nil {
		return err
	}
	return c.store.Restore(doc)
}

// ExportParquet writes node, edge and evidence tables under dir.
func (c *Client) ExportParquet(dir string) (*export.ParquetPaths, error) {
	return export.WriteParquet(dir, c.store.Nodes(), c.store.Edges())
}

// ExportNeo4j mirrors the graph into the configured Neo4j database.
func (c *Client) ExportNeo4j(ctx context.Context) error {
	ec := c.cfg.Export
	if ec.Neo4jURI == "" {
		return fmt.Errorf("medgraph: neo4j export not configured (set NEO4J_URI)")
	}
	exporter, err := export.NewNeo4jExporter(ec.Neo4jURI, ec.Neo4jUser, ec.Neo4jPassword, ec.Neo4jDatabase)
	if err != nil {
		return err
	}
	defer exporter.Close(ctx)
	return exporter.Export(ctx, c.store.Nodes(), c.store.Edges())
}

// Close releases the collaborators.
func (c *Client) Close() error {
	var firstErr error
	if c.resolver != nil {
		if err := c.resolver.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.searcher.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
