package graph

import (
	"fmt"
	"time"

	"github.com/soundprediction/medgraph/pkg/types"
)

// Document is the serializable form of the graph, used by the export layer.
type Document struct {
	SavedAt time.Time          `json:"saved_at"`
	Config  Config             `json:"config"`
	Nodes   []types.Node       `json:"nodes"`
	Edges   []types.Edge       `json:"edges"`
	Summary types.GraphSummary `json:"summary"`
}

// Export captures the full graph state as a Document.
func (s *Store) Export() Document {
	return Document{
		SavedAt: time.Now().UTC(),
		Config:  s.cfg,
		Nodes:   s.Nodes(),
		Edges:   s.Edges(),
		Summary: s.Summary(),
	}
}

// Restore replays a Document into the store: the store is cleared, re-seeded,
// and every non-seed node and every edge is re-admitted through the normal
// mutation path, so all invariants are re-checked and depths recomputed. Seed
// validation state (CUI, synonyms) is carried over from the document.
func (s *Store) Restore(doc Document) error {
	s.mu.Lock()
	s.nodes = make(map[string]*types.Node)
	s.order = nil
	s.edges = nil
	s.adjacency = make(map[string][]int)
	s.seed()
	s.mu.Unlock()

	for _, node := range doc.Nodes {
		if node.Seed {
			s.mu.Lock()
			if existing, ok := s.nodes[node.ID]; ok {
				existing.UMLSCUI = node.UMLSCUI
				existing.Validated = node.Validated
				if len(node.Synonyms) > 0 {
					existing.Synonyms = append([]string(nil), node.Synonyms...)
				}
			}
			s.mu.Unlock()
			continue
		}
		if _, err := s.AddNode(node.Label, node.Category); err != nil {
			return fmt.Errorf("restore node %q: %w", node.ID, err)
		}
		if node.Validated && node.UMLSCUI != "" {
			if _, err := s.ValidateNode(node.ID, node.UMLSCUI); err != nil {
				return fmt.Errorf("restore node %q: %w", node.ID, err)
			}
		}
	}

	for _, edge := range doc.Edges {
		if _, err := s.AddEdge(edge); err != nil {
			return fmt.Errorf("restore edge %s->%s: %w", edge.SourceNodeID, edge.TargetNodeID, err)
		}
	}
	return nil
}
