package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)

	assert.Equal(t, 2, cfg.Graph.MaxDepth)
	assert.Equal(t, 30, cfg.Graph.MaxNodes)
	assert.Equal(t, 2, cfg.Graph.MinCitations)

	assert.Equal(t, "https://uts-ws.nlm.nih.gov/rest", cfg.UMLS.BaseURL)
	assert.Equal(t, "current", cfg.UMLS.Version)
	assert.InDelta(t, 0.6, cfg.UMLS.Threshold, 1e-9)

	assert.Equal(t, "medgraph", cfg.PubMed.Tool)
	assert.InDelta(t, 3.0, cfg.PubMed.RequestsPerSecond, 1e-9)
	assert.Equal(t, 20, cfg.PubMed.MaxResults)

	assert.Equal(t, 3, cfg.Expansion.MaxCycles)
	assert.True(t, cfg.Expansion.UseConcepts)

	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.InDelta(t, 0.6, cfg.CircuitBreaker.ReadyToTripRatio, 1e-9)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("UMLS_API_KEY", "test-key")
	t.Setenv("PUBMED_EMAIL", "dev@example.org")
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.UMLS.APIKey)
	assert.Equal(t, "dev@example.org", cfg.PubMed.Email)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Export.Neo4jURI)
}

func TestLoadIgnoresBadPortEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
