package export

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/soundprediction/medgraph/pkg/types"
)

// Neo4jExporter mirrors the graph into a Neo4j database for interactive
// browsing. Nodes and relationships are MERGEd by their stable identifiers,
// so repeated exports update in place.
type Neo4jExporter struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jExporter connects to uri with basic auth.
func NewNeo4jExporter(uri, username, password, database string) (*Neo4jExporter, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jExporter{client: driver, database: database}, nil
}

// Export writes all nodes then all edges in one write session.
func (e *Neo4jExporter) Export(ctx context.Context, nodes []types.Node, edges []types.Edge) error {
	session := e.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: e.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, n := range nodes {
			query := `
				MERGE (c:Concept {id: $id})
				SET c.label = $label,
				    c.category = $category,
				    c.umls_cui = $umls_cui,
				    c.validated = $validated,
				    c.seed = $seed,
				    c.depth = $depth
			`
			if _, err := tx.Run(ctx, query, map[string]any{
				"id":        n.ID,
				"label":     n.Label,
				"category":  string(n.Category),
				"umls_cui":  n.UMLSCUI,
				"validated": n.Validated,
				"seed":      n.Seed,
				"depth":     n.Depth,
			}); err != nil {
				return nil, fmt.Errorf("merge node %s: %w", n.ID, err)
			}
		}

		for _, edge := range edges {
			sources := edge.SourceIDs()
			query := `
				MATCH (s:Concept {id: $source}), (t:Concept {id: $target})
				MERGE (s)-[r:RELATES {type: $type}]->(t)
				SET r.confidence = $confidence,
				    r.evidence_count = $evidence_count,
				    r.sources = $sources
			`
			if _, err := tx.Run(ctx, query, map[string]any{
				"source":         edge.SourceNodeID,
				"target":         edge.TargetNodeID,
				"type":           edge.RelationshipType,
				"confidence":     edge.Confidence,
				"evidence_count": len(edge.Evidence),
				"sources":        sources,
			}); err != nil {
				return nil, fmt.Errorf("merge edge %s->%s: %w", edge.SourceNodeID, edge.TargetNodeID, err)
			}
		}
		return nil, nil
	})
	return err
}

// Close releases the underlying driver.
func (e *Neo4jExporter) Close(ctx context.Context) error {
	return e.client.Close(ctx)
}
