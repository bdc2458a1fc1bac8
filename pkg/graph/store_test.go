package graph

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/medgraph/pkg/types"
)

func evidenceFor(pmids ...string) []types.Evidence {
	now := time.Now().UTC()
	out := make([]types.Evidence, 0, len(pmids))
	for _, id := range pmids {
		out = append(out, types.Evidence{SourceID: id, Sentence: "supporting excerpt", RetrievedAt: now})
	}
	return out
}

func TestNewStoreSeeds(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	sum := s.Summary()
	require.Equal(t, 3, sum.NodeCount)
	require.Equal(t, 3, sum.SeedCount)
	require.Equal(t, 0, sum.EdgeCount)
	require.Equal(t, 0, sum.ValidatedCount)
	assert.Equal(t, 3, sum.DepthHistogram[0])

	node, err := s.GetNode("intracranial_aneurysm_rupture")
	require.NoError(t, err)
	assert.True(t, node.Seed)
	assert.Equal(t, 0, node.Depth)
	assert.False(t, node.Validated)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Intracranial Aneurysm Rupture", "intracranial_aneurysm_rupture"},
		{"  Wall Shear Stress ", "wall_shear_stress"},
		{"NF-kB signaling", "nf_kb_signaling"},
		{"Interleukin-6", "interleukin_6"},
		{"matrix  metalloproteinase!!", "matrix_metalloproteinase"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.label); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestAddNodeIdempotent(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	first, err := s.AddNode("Oxidative Stress", types.CategoryBiologicalProcess)
	require.NoError(t, err)

	second, err := s.AddNode("oxidative stress", types.CategoryBiologicalProcess)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, s.Summary().NodeCount)
}

func TestAddNodeCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxNodes = 30
	s := NewStore(cfg, nil)

	for i := s.Summary().NodeCount; i < cfg.MaxNodes; i++ {
		_, err := s.AddNode(fmt.Sprintf("entity %d", i), types.CategoryConcept)
		require.NoError(t, err)
	}
	require.Equal(t, cfg.MaxNodes, s.Summary().NodeCount)

	_, err := s.AddNode("one too many", types.CategoryConcept)
	require.ErrorIs(t, err, types.ErrCapacityExceeded)
	assert.Equal(t, cfg.MaxNodes, s.Summary().NodeCount)

	// Re-adding an existing label still succeeds at capacity.
	_, err = s.AddNode("entity 5", types.CategoryConcept)
	assert.NoError(t, err)
}

func TestValidateNode(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	node, err := s.ValidateNode("inflammation", "C0021368")
	require.NoError(t, err)
	assert.True(t, node.Validated)
	assert.Equal(t, "C0021368", node.UMLSCUI)

	// Re-validation with a corrected CUI overwrites.
	node, err = s.ValidateNode("inflammation", "C0011111")
	require.NoError(t, err)
	assert.Equal(t, "C0011111", node.UMLSCUI)

	_, err = s.ValidateNode("missing_node", "C0000001")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.ValidateNode("inflammation", "")
	assert.ErrorIs(t, err, types.ErrEmptyCUI)
}

func TestAddEdgeInsufficientEvidence(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	_, err := s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "hemodynamics",
		RelationshipType: types.RelAssociatedWith,
		Evidence:         evidenceFor("11111"),
		Confidence:       0.7,
	})
	require.ErrorIs(t, err, types.ErrInsufficientEvidence)
	assert.Equal(t, 0, s.Summary().EdgeCount)

	// Duplicated source ids count once.
	_, err = s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "hemodynamics",
		RelationshipType: types.RelAssociatedWith,
		Evidence:         evidenceFor("11111", "11111", "11111"),
		Confidence:       0.7,
	})
	require.ErrorIs(t, err, types.ErrInsufficientEvidence)
}

func TestAddEdgeEndpointsMustExist(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	_, err := s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "ghost_node",
		RelationshipType: types.RelInfluences,
		Evidence:         evidenceFor("11111", "22222"),
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAddEdgeMergeLaw(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	first, err := s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "hemodynamics",
		RelationshipType: types.RelAssociatedWith,
		Evidence:         evidenceFor("11111", "22222"),
		Confidence:       0.6,
	})
	require.NoError(t, err)
	require.Len(t, first.SourceIDs(), 2)

	merged, err := s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "hemodynamics",
		RelationshipType: types.RelAssociatedWith,
		Evidence:         evidenceFor("33333", "44444"),
		Confidence:       0.9,
	})
	require.NoError(t, err)

	// Evidence set is the union, confidence is the max of the two inputs.
	assert.ElementsMatch(t, []string{"11111", "22222", "33333", "44444"}, merged.SourceIDs())
	assert.Equal(t, 0.9, merged.Confidence)
	assert.Equal(t, 1, s.Summary().EdgeCount)

	// A different relationship type between the same ordered pair is a
	// distinct edge.
	_, err = s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "hemodynamics",
		RelationshipType: types.RelInfluences,
		Evidence:         evidenceFor("55555", "66666"),
		Confidence:       0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Summary().EdgeCount)
}

func TestAddEdgeAtomicOnFailure(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)
	before := s.Summary()

	_, err := s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "hemodynamics",
		RelationshipType: types.RelCauses,
		Evidence:         evidenceFor("11111"),
		Confidence:       0.4,
	})
	require.Error(t, err)

	after := s.Summary()
	assert.Equal(t, before.EdgeCount, after.EdgeCount)
	assert.Equal(t, before.NodeCount, after.NodeCount)
	assert.Equal(t, before.DepthHistogram, after.DepthHistogram)
}

func TestSummaryCounts(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	_, err := s.AddNode("Wall Shear Stress", types.CategoryBiomechanical)
	require.NoError(t, err)
	_, err = s.AddEdge(types.Edge{
		SourceNodeID:     "hemodynamics",
		TargetNodeID:     "wall_shear_stress",
		RelationshipType: types.RelMechanisticLink,
		Evidence:         evidenceFor("11111", "22222"),
		Confidence:       0.8,
	})
	require.NoError(t, err)
	_, err = s.ValidateNode("wall_shear_stress", "C0232187")
	require.NoError(t, err)

	sum := s.Summary()
	assert.Equal(t, 4, sum.NodeCount)
	assert.Equal(t, 1, sum.EdgeCount)
	assert.Equal(t, 1, sum.ValidatedCount)
	assert.Equal(t, 1, sum.RelationshipTypes[types.RelMechanisticLink])
	assert.Equal(t, 1, sum.Categories[types.CategoryDisease])
	assert.Equal(t, 3, sum.DepthHistogram[0])
	assert.Equal(t, 1, sum.DepthHistogram[1])
}

func TestRestoreRoundTrip(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	_, err := s.AddNode("Oxidative Stress", types.CategoryBiologicalProcess)
	require.NoError(t, err)
	_, err = s.AddEdge(types.Edge{
		SourceNodeID:     "inflammation",
		TargetNodeID:     "oxidative_stress",
		RelationshipType: types.RelInfluences,
		Evidence:         evidenceFor("11111", "22222"),
		Confidence:       0.75,
	})
	require.NoError(t, err)
	_, err = s.ValidateNode("oxidative_stress", "C0242606")
	require.NoError(t, err)
	_, err = s.ValidateNode("inflammation", "C0021368")
	require.NoError(t, err)

	doc := s.Export()

	restored := NewStore(DefaultConfig(), nil)
	require.NoError(t, restored.Restore(doc))

	assert.Equal(t, s.Summary(), restored.Summary())

	node, err := restored.GetNode("oxidative_stress")
	require.NoError(t, err)
	assert.True(t, node.Validated)
	assert.Equal(t, "C0242606", node.UMLSCUI)
	assert.Equal(t, 1, node.Depth)

	seed, err := restored.GetNode("inflammation")
	require.NoError(t, err)
	assert.True(t, seed.Validated)
	assert.Equal(t, "C0021368", seed.UMLSCUI)
}

func TestReturnedCopiesDoNotAlias(t *testing.T) {
	s := NewStore(DefaultConfig(), nil)

	node, err := s.GetNode("inflammation")
	require.NoError(t, err)
	node.Label = "mutated"
	node.Synonyms[0] = "mutated"

	fresh, err := s.GetNode("inflammation")
	require.NoError(t, err)
	assert.Equal(t, "Inflammation", fresh.Label)
	assert.Equal(t, "Inflammatory Response", fresh.Synonyms[0])

	var capacityErr error
	for i := 0; capacityErr == nil && i < 100; i++ {
		_, capacityErr = s.AddNode(fmt.Sprintf("filler %d", i), types.CategoryConcept)
	}
	require.True(t, errors.Is(capacityErr, types.ErrCapacityExceeded))
}
