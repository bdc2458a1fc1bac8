package export

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/medgraph/pkg/graph"
	"github.com/soundprediction/medgraph/pkg/types"
)

func populatedStore(t *testing.T) *graph.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := graph.NewStore(graph.DefaultConfig(), logger)

	_, err := store.AddNode("Wall shear stress", types.CategoryBiomechanical)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	_, err = store.AddEdge(types.Edge{
		SourceNodeID:     "hemodynamics",
		TargetNodeID:     "wall_shear_stress",
		RelationshipType: types.RelInfluences,
		Evidence: []types.Evidence{
			{SourceID: "100", Sentence: "WSS governs remodeling.", RetrievedAt: now},
			{SourceID: "200", Sentence: "Shear drives degeneration.", RetrievedAt: now},
		},
		Confidence: 0.7,
	})
	require.NoError(t, err)
	return store
}

func TestJSONRoundTrip(t *testing.T) {
	store := populatedStore(t)
	path := filepath.Join(t.TempDir(), "graphs", "session.json")

	require.NoError(t, WriteJSON(path, store.Export()))

	doc, err := ReadJSON(path)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	restored := graph.NewStore(graph.DefaultConfig(), logger)
	require.NoError(t, restored.Restore(doc))

	assert.Equal(t, store.Summary(), restored.Summary())
	node, err := restored.GetNode("wall_shear_stress")
	require.NoError(t, err)
	assert.Equal(t, 1, node.Depth)
}

func TestReadJSONMissingFile(t *testing.T) {
	_, err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestWriteParquetTables(t *testing.T) {
	store := populatedStore(t)
	dir := t.TempDir()

	paths, err := WriteParquet(dir, store.Nodes(), store.Edges())
	require.NoError(t, err)

	nodes, err := parquet.ReadFile[NodeRow](paths.Nodes)
	require.NoError(t, err)
	assert.Len(t, nodes, 4) // 3 seeds + 1 admitted

	edges, err := parquet.ReadFile[EdgeRow](paths.Edges)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "hemodynamics", edges[0].SourceNodeID)
	assert.Equal(t, 2, edges[0].EvidenceCount)

	evidence, err := parquet.ReadFile[EvidenceRow](paths.Evidence)
	require.NoError(t, err)
	require.Len(t, evidence, 2)
	assert.Equal(t, "100", evidence[0].SourceID)
	assert.Equal(t, types.RelInfluences, evidence[0].RelationshipType)
}
