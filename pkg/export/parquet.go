package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/soundprediction/medgraph/pkg/types"
)

// NodeRow is one graph node in the Parquet node table.
type NodeRow struct {
	ID        string    `parquet:"id"`
	Label     string    `parquet:"label"`
	Category  string    `parquet:"category"`
	UMLSCUI   string    `parquet:"umls_cui"`
	Validated bool      `parquet:"validated"`
	Seed      bool      `parquet:"seed"`
	Depth     int       `parquet:"depth"`
	CreatedAt time.Time `parquet:"created_at"`
}

// EdgeRow is one relationship in the Parquet edge table.
type EdgeRow struct {
	SourceNodeID     string    `parquet:"source_node_id"`
	TargetNodeID     string    `parquet:"target_node_id"`
	RelationshipType string    `parquet:"relationship_type"`
	Confidence       float64   `parquet:"confidence"`
	EvidenceCount    int       `parquet:"evidence_count"`
	CreatedAt        time.Time `parquet:"created_at"`
}

// EvidenceRow is one citation in the Parquet evidence table, keyed back to
// its edge by the (source, target, relationship) triple.
type EvidenceRow struct {
	SourceNodeID     string    `parquet:"source_node_id"`
	TargetNodeID     string    `parquet:"target_node_id"`
	RelationshipType string    `parquet:"relationship_type"`
	SourceID         string    `parquet:"source_id"`
	Sentence         string    `parquet:"sentence"`
	RetrievedAt      time.Time `parquet:"retrieved_at"`
}

// ParquetPaths names the files one Parquet export produced.
type ParquetPaths struct {
	Nodes    string
	Edges    string
	Evidence string
}

// WriteParquet writes node, edge and evidence tables under dir, stamped with
// the export time so repeated exports do not clobber each other.
func WriteParquet(dir string, nodes []types.Node, edges []types.Edge) (*ParquetPaths, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	stamp := time.Now().Format("20060102_150405")

	nodeRows := make([]NodeRow, 0, len(nodes))
	for _, n := range nodes {
		nodeRows = append(nodeRows, NodeRow{
			ID:        n.ID,
			Label:     n.Label,
			Category:  string(n.Category),
			UMLSCUI:   n.UMLSCUI,
			Validated: n.Validated,
			Seed:      n.Seed,
			Depth:     n.Depth,
			CreatedAt: n.CreatedAt,
		})
	}

	edgeRows := make([]EdgeRow, 0, len(edges))
	var evidenceRows []EvidenceRow
	for _, e := range edges {
		edgeRows = append(edgeRows, EdgeRow{
			SourceNodeID:     e.SourceNodeID,
			TargetNodeID:     e.TargetNodeID,
			RelationshipType: e.RelationshipType,
			Confidence:       e.Confidence,
			EvidenceCount:    len(e.Evidence),
			CreatedAt:        e.CreatedAt,
		})
		for _, ev := range e.Evidence {
			evidenceRows = append(evidenceRows, EvidenceRow{
				SourceNodeID:     e.SourceNodeID,
				TargetNodeID:     e.TargetNodeID,
				RelationshipType: e.RelationshipType,
				SourceID:         ev.SourceID,
				Sentence:         ev.Sentence,
				RetrievedAt:      ev.RetrievedAt,
			})
		}
	}

	paths := &ParquetPaths{
		Nodes:    filepath.Join(dir, fmt.Sprintf("nodes_%s.parquet", stamp)),
		Edges:    filepath.Join(dir, fmt.Sprintf("edges_%s.parquet", stamp)),
		Evidence: filepath.Join(dir, fmt.Sprintf("evidence_%s.parquet", stamp)),
	}
	if err := parquet.WriteFile(paths.Nodes, nodeRows); err != nil {
		return nil, fmt.Errorf("write node table: %w", err)
	}
	if err := parquet.WriteFile(paths.Edges, edgeRows); err != nil {
		return nil, fmt.Errorf("write edge table: %w", err)
	}
	if err := parquet.WriteFile(paths.Evidence, evidenceRows); err != nil {
		return nil, fmt.Errorf("write evidence table: %w", err)
	}
	return paths, nil
}
