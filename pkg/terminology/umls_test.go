package terminology

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves canned UMLS responses for a single concept.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search/current", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		fmt.Fprint(w, `{"result":{"results":[
			{"ui":"C0021368","name":"Inflammation","rootSource":"MTH"},
			{"ui":"C0234251","name":"Inflammatory pain","rootSource":"SNOMEDCT_US"},
			{"ui":"NONE","name":"NO RESULTS","rootSource":""}
		]}}`)
	})
	mux.HandleFunc("/content/current/CUI/C0021368", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{"ui":"C0021368","name":"Inflammation","semanticTypes":[
			{"name":"Pathologic Function","uri":"https://uts-ws.nlm.nih.gov/rest/semantic-network/current/TUI/T046"}
		]}}`)
	})
	mux.HandleFunc("/content/current/CUI/C0021368/atoms", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":[
			{"name":"Inflammation","rootSource":"MSH","termType":"MH","language":"ENG"},
			{"name":"Inflammatory response","rootSource":"MSH","termType":"SY","language":"ENG"},
			{"name":"Entzuendung","rootSource":"MSHGER","termType":"SY","language":"GER"}
		]}}`)
	})
	mux.HandleFunc("/content/current/CUI/C0234251", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{"ui":"C0234251","name":"Inflammatory pain","semanticTypes":[
			{"name":"Sign or Symptom","uri":"https://uts-ws.nlm.nih.gov/rest/semantic-network/current/TUI/T184"}
		]}}`)
	})
	mux.HandleFunc("/content/current/CUI/C0234251/atoms", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":[]}`)
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseURL string) *UMLSClient {
	t.Helper()
	client, err := NewUMLSClient(UMLSConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestNewUMLSClientRequiresAPIKey(t *testing.T) {
	_, err := NewUMLSClient(UMLSConfig{}, nil)
	assert.Error(t, err)
}

func TestResolveScoresAndFilters(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	concepts, err := client.Resolve(context.Background(), "inflammation")
	require.NoError(t, err)

	// The exact match survives; the T184-only concept is filtered out by
	// the semantic type allowlist, the NONE sentinel is skipped.
	require.Len(t, concepts, 1)
	got := concepts[0]
	assert.Equal(t, "C0021368", got.CUI)
	assert.Equal(t, "Inflammation", got.Name)
	assert.Equal(t, "Inflammation", got.MeSHTerm)
	assert.Equal(t, []string{"Inflammatory response"}, got.Synonyms)
	require.Len(t, got.SemanticTypes, 1)
	assert.Equal(t, "T046", got.SemanticTypes[0].TUI)
	// Exact match at rank 1: 0.7*1.0 + 0.3*1.0.
	assert.Equal(t, 1.0, got.Score)
}

func TestResolveEmptyTerm(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")
	_, err := client.Resolve(context.Background(), "   ")
	assert.Error(t, err)
}

func TestResolveDeterministicOrdering(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	first, err := client.Resolve(context.Background(), "inflammation")
	require.NoError(t, err)
	second, err := client.Resolve(context.Background(), "inflammation")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Lookup(context.Background(), "C9999999")
	assert.Error(t, err)
}

func TestLookupSurvivesAtomFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/content/current/CUI/C0021368", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{"ui":"C0021368","name":"Inflammation","semanticTypes":[
			{"name":"Pathologic Function","uri":".../TUI/T046"}
		]}}`)
	})
	mux.HandleFunc("/content/current/CUI/C0021368/atoms", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream error", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	concept, err := client.Lookup(context.Background(), "C0021368")
	require.NoError(t, err)
	assert.Equal(t, "Inflammation", concept.Name)
	assert.Empty(t, concept.MeSHTerm)
}

func TestPreferredMeSH(t *testing.T) {
	atoms := []atom{
		{Name: "Synonym entry", RootSource: "MSH", TermType: "SY"},
		{Name: "Main heading", RootSource: "MSH", TermType: "MH"},
		{Name: "Other source", RootSource: "SNOMEDCT_US", TermType: "PT"},
	}
	assert.Equal(t, "Main heading", preferredMeSH(atoms))

	// Without a preferred term type the first MSH atom wins.
	assert.Equal(t, "Synonym entry", preferredMeSH(atoms[:1]))
	assert.Equal(t, "", preferredMeSH(atoms[2:]))
}

func TestTUIFromURI(t *testing.T) {
	uri := "https://uts-ws.nlm.nih.gov/rest/semantic-network/current/TUI/T047"
	assert.Equal(t, "T047", tuiFromURI(uri))
	assert.Equal(t, "", tuiFromURI("no tui here"))
}

func TestSynonymsFromAtoms(t *testing.T) {
	atoms := []atom{
		{Name: "Inflammation", Language: "ENG"},
		{Name: "Inflammatory response", Language: "ENG"},
		{Name: "INFLAMMATORY RESPONSE", Language: "ENG"},
		{Name: "Entzuendung", Language: "GER"},
	}
	syns := synonymsFromAtoms(atoms, "Inflammation", 5)
	assert.Equal(t, []string{"Inflammatory response"}, syns)
	assert.False(t, strings.Contains(strings.Join(syns, ","), "Entzuendung"))
}
