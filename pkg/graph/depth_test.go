package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/medgraph/pkg/types"
)

// chainStore builds a store with generous limits and a chain hanging off the
// inflammation seed: inflammation -> b -> c -> d.
func chainStore(t *testing.T, maxDepth int) *Store {
	t.Helper()

	cfg := DefaultConfig()
	cfg.MaxDepth = maxDepth
	s := NewStore(cfg, nil)

	for _, label := range []string{"node b", "node c", "node d"} {
		_, err := s.AddNode(label, types.CategoryConcept)
		require.NoError(t, err)
	}
	links := [][2]string{
		{"inflammation", "node_b"},
		{"node_b", "node_c"},
		{"node_c", "node_d"},
	}
	for _, link := range links {
		_, err := s.AddEdge(types.Edge{
			SourceNodeID:     link[0],
			TargetNodeID:     link[1],
			RelationshipType: types.RelAssociatedWith,
			Evidence:         evidenceFor("11111", "22222"),
			Confidence:       0.5,
		})
		require.NoError(t, err)
	}
	return s
}

func depthOf(t *testing.T, s *Store, id string) int {
	t.Helper()
	node, err := s.GetNode(id)
	require.NoError(t, err)
	return node.Depth
}

func TestDepthRelaxationShortensPath(t *testing.T) {
	s := chainStore(t, 4)

	require.Equal(t, 1, depthOf(t, s, "node_b"))
	require.Equal(t, 2, depthOf(t, s, "node_c"))
	require.Equal(t, 3, depthOf(t, s, "node_d"))

	// A direct seed edge to d shortens its seed distance: depth becomes 1,
	// not 3, after the relaxation following the insertion.
	_, err := s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "node_d",
		RelationshipType: types.RelInfluences,
		Evidence:         evidenceFor("33333", "44444"),
		Confidence:       0.6,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, depthOf(t, s, "node_d"))
	// c is also relaxed through the shortcut: one hop past d.
	assert.Equal(t, 2, depthOf(t, s, "node_c"))
}

func TestDepthRelaxationTraversesEdgesBackward(t *testing.T) {
	cfg := DefaultConfig()
	s := NewStore(cfg, nil)

	_, err := s.AddNode("upstream factor", types.CategoryMolecular)
	require.NoError(t, err)

	// Edge directed INTO the seed still gives the source a seed distance.
	_, err = s.AddEdge(types.Edge{
		SourceNodeID:     "upstream_factor",
		TargetNodeID:     "inflammation",
		RelationshipType: types.RelCauses,
		Evidence:         evidenceFor("11111", "22222"),
		Confidence:       0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, depthOf(t, s, "upstream_factor"))
}

func TestAddEdgeDepthExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	s := NewStore(cfg, nil)

	for _, label := range []string{"node b", "node c", "node d"} {
		_, err := s.AddNode(label, types.CategoryConcept)
		require.NoError(t, err)
	}
	for _, link := range [][2]string{{"inflammation", "node_b"}, {"node_b", "node_c"}} {
		_, err := s.AddEdge(types.Edge{
			SourceNodeID:     link[0],
			TargetNodeID:     link[1],
			RelationshipType: types.RelAssociatedWith,
			Evidence:         evidenceFor("11111", "22222"),
			Confidence:       0.5,
		})
		require.NoError(t, err)
	}

	// c sits at MaxDepth; linking d through it would place d at depth 3.
	_, err := s.AddEdge(types.Edge{
		SourceNodeID:     "node_c",
		TargetNodeID:     "node_d",
		RelationshipType: types.RelAssociatedWith,
		Evidence:         evidenceFor("33333", "44444"),
		Confidence:       0.5,
	})
	require.ErrorIs(t, err, types.ErrDepthExceeded)
	assert.Equal(t, 2, s.Summary().EdgeCount)

	// d stays flagged beyond the cap until a shorter path admits it.
	assert.Equal(t, cfg.MaxDepth+1, depthOf(t, s, "node_d"))

	_, err = s.AddEdge(types.Edge{
		SourceNodeID:     "hemodynamics",
		TargetNodeID:     "node_d",
		RelationshipType: types.RelAssociatedWith,
		Evidence:         evidenceFor("55555", "66666"),
		Confidence:       0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, depthOf(t, s, "node_d"))
}

func TestDepthInvariantHolds(t *testing.T) {
	s := chainStore(t, 3)

	cfg := s.Config()
	for _, node := range s.Nodes() {
		if node.Depth <= cfg.MaxDepth {
			continue
		}
		// Flagged nodes are permitted only at the unreachable sentinel.
		assert.Equal(t, cfg.MaxDepth+1, node.Depth, "node %s", node.ID)
	}
}
