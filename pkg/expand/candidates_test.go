package expand

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/medgraph/pkg/types"
)

func articleAbout(pmid, title string) types.Article {
	return types.Article{PMID: pmid, Title: title, Snippet: title}
}

func TestExtractCandidatesCoOccurrence(t *testing.T) {
	node := types.Node{ID: "inflammation", Label: "Inflammation"}
	articles := []types.Article{
		articleAbout("100", "Wall shear stress drives inflammatory remodeling."),
		articleAbout("200", "Low wall shear stress and macrophage infiltration in aneurysm walls."),
		articleAbout("300", "Unrelated cardiology paper."),
	}

	candidates := ExtractCandidates(node, articles, DefaultLexicon(), time.Now())

	byLabel := map[string]types.Candidate{}
	for _, c := range candidates {
		byLabel[c.TargetLabel] = c
	}

	wss, ok := byLabel["Wall shear stress"]
	require.True(t, ok)
	assert.Equal(t, "inflammation", wss.SourceNodeID)
	assert.Equal(t, types.CategoryBiomechanical, wss.TargetCategory)
	assert.Equal(t, types.RelInfluences, wss.RelationshipType)
	require.Len(t, wss.Evidence, 2)
	assert.Equal(t, "100", wss.Evidence[0].SourceID)
	assert.Equal(t, "200", wss.Evidence[1].SourceID)
	// 0.5 + 0.1 per source.
	assert.InDelta(t, 0.7, wss.Confidence, 1e-9)

	mac, ok := byLabel["Macrophage infiltration"]
	require.True(t, ok)
	require.Len(t, mac.Evidence, 1)
	assert.Equal(t, "200", mac.Evidence[0].SourceID)
}

func TestExtractCandidatesSkipsSelfMatch(t *testing.T) {
	node := types.Node{ID: "wall_shear_stress", Label: "Wall shear stress"}
	articles := []types.Article{
		articleAbout("100", "Wall shear stress in cerebral vessels."),
	}
	candidates := ExtractCandidates(node, articles, DefaultLexicon(), time.Now())
	for _, c := range candidates {
		assert.NotEqual(t, "Wall shear stress", c.TargetLabel)
	}
}

func TestExtractCandidatesDedupesByPMID(t *testing.T) {
	node := types.Node{ID: "inflammation", Label: "Inflammation"}
	articles := []types.Article{
		articleAbout("100", "Oxidative stress in aneurysm formation."),
		articleAbout("100", "Oxidative stress in aneurysm formation."),
	}
	candidates := ExtractCandidates(node, articles, DefaultLexicon(), time.Now())
	require.Len(t, candidates, 1)
	assert.Len(t, candidates[0].Evidence, 1)
}

func TestExtractCandidatesDeterministicOrder(t *testing.T) {
	node := types.Node{ID: "inflammation", Label: "Inflammation"}
	articles := []types.Article{
		articleAbout("100", "Interleukin-6, C-reactive protein, and wall shear stress."),
	}
	first := ExtractCandidates(node, articles, DefaultLexicon(), time.Now())
	second := ExtractCandidates(node, articles, DefaultLexicon(), time.Now())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].TargetLabel, second[i].TargetLabel)
	}
}

func TestConfidenceSaturates(t *testing.T) {
	var evidence []types.Evidence
	for i := 0; i < 10; i++ {
		evidence = append(evidence, types.Evidence{SourceID: string(rune('a' + i))})
	}
	assert.Equal(t, 0.95, confidenceFor(evidence))
}
