package terminology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/soundprediction/medgraph/pkg/types"
)

// UMLSConfig configures the UMLS REST client.
type UMLSConfig struct {
	APIKey  string
	BaseURL string // default https://uts-ws.nlm.nih.gov/rest
	Version string // Metathesaurus version, default "current"

	// PageSize is the search page size (default 25).
	PageSize int
	// Threshold is the minimum combined score for best-match candidates
	// (default 0.6).
	Threshold float64
	// DetailLimit caps how many top candidates get enriched with concept
	// details and MeSH terms per Resolve call (default 3).
	DetailLimit int
	// Timeout is the per-request HTTP timeout (default 15s).
	Timeout time.Duration
}

// UMLSClient implements Resolver against the UMLS Metathesaurus REST API.
type UMLSClient struct {
	cfg    UMLSConfig
	http   *http.Client
	logger *slog.Logger
}

// NewUMLSClient creates a UMLS client. The API key is required.
func NewUMLSClient(cfg UMLSConfig, logger *slog.Logger) (*UMLSClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("umls: api key is required (set UMLS_API_KEY)")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://uts-ws.nlm.nih.gov/rest"
	}
	if cfg.Version == "" {
		cfg.Version = "current"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.6
	}
	if cfg.DetailLimit <= 0 {
		cfg.DetailLimit = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UMLSClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// searchResult is one entry of the /search endpoint response.
type searchResult struct {
	UI         string `json:"ui"`
	Name       string `json:"name"`
	RootSource string `json:"rootSource"`
	URI        string `json:"uri"`
}

type searchResponse struct {
	Result struct {
		Results []searchResult `json:"results"`
	} `json:"result"`
}

type conceptInfoResponse struct {
	Result struct {
		UI            string `json:"ui"`
		Name          string `json:"name"`
		SemanticTypes []struct {
			Name string `json:"name"`
			URI  string `json:"uri"`
		} `json:"semanticTypes"`
	} `json:"result"`
}

type atom struct {
	Name       string `json:"name"`
	RootSource string `json:"rootSource"`
	TermType   string `json:"termType"`
	Language   string `json:"language"`
}

// Resolve searches the Metathesaurus for a surface term, scores the results
// by string similarity blended with rank position, and enriches the top
// candidates above the threshold with semantic types, MeSH terms and
// synonyms. Only candidates with an allowed semantic type are returned,
// ordered by descending score (ties broken by shorter then lexicographically
// smaller name, so output is deterministic).
func (c *UMLSClient) Resolve(ctx context.Context, term string) ([]types.Concept, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, types.ErrEmptyQuery
	}

	var resp searchResponse
	err := c.get(ctx, fmt.Sprintf("/search/%s", c.cfg.Version), url.Values{
		"string":        {term},
		"partialSearch": {"true"},
		"searchType":    {"words"},
		"pageSize":      {fmt.Sprintf("%d", c.cfg.PageSize)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("umls search %q: %w", term, err)
	}

	scored := make([]types.Concept, 0, len(resp.Result.Results))
	for rank, r := range resp.Result.Results {
		if r.UI == "" || r.UI == "NONE" {
			continue
		}
		similarity := SimilarityScore(term, r.Name)
		scored = append(scored, types.Concept{
			CUI:        r.UI,
			Name:       r.Name,
			RootSource: r.RootSource,
			Score:      CombinedScore(similarity, rank+1),
		})
	}
	sortConcepts(scored)

	out := make([]types.Concept, 0, c.cfg.DetailLimit)
	for _, candidate := range scored {
		if len(out) >= c.cfg.DetailLimit {
			break
		}
		if candidate.Score < c.cfg.Threshold {
			break
		}
		detail, err := c.Lookup(ctx, candidate.CUI)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !HasAllowedSemanticType(detail.SemanticTypes) {
			continue
		}
		candidate.SemanticTypes = detail.SemanticTypes
		candidate.MeSHTerm = detail.MeSHTerm
		candidate.Synonyms = detail.Synonyms
		out = append(out, candidate)
	}
	c.logger.Debug("umls resolve", "term", term, "candidates", len(scored), "matches", len(out))
	return out, nil
}

// Lookup retrieves concept details for a known CUI: canonical name, semantic
// types, the preferred MeSH atom and a handful of English synonyms.
func (c *UMLSClient) Lookup(ctx context.Context, cui string) (*types.Concept, error) {
	if cui == "" {
		return nil, types.ErrEmptyCUI
	}

	var info conceptInfoResponse
	err := c.get(ctx, fmt.Sprintf("/content/%s/CUI/%s", c.cfg.Version, cui), nil, &info)
	if err != nil {
		return nil, fmt.Errorf("umls lookup %q: %w", cui, err)
	}
	if info.Result.UI == "" {
		return nil, fmt.Errorf("umls concept %q: %w", cui, types.ErrNotFound)
	}

	concept := &types.Concept{
		CUI:  info.Result.UI,
		Name: info.Result.Name,
	}
	for _, st := range info.Result.SemanticTypes {
		concept.SemanticTypes = append(concept.SemanticTypes, types.SemanticType{
			TUI:  tuiFromURI(st.URI),
			Name: st.Name,
		})
	}

	atoms, err := c.atoms(ctx, cui)
	if err != nil {
		// Atom lookup failures degrade the concept, they do not fail it.
		c.logger.Warn("umls atoms lookup failed", "cui", cui, "error", err)
		return concept, nil
	}
	concept.MeSHTerm = preferredMeSH(atoms)
	concept.Synonyms = synonymsFromAtoms(atoms, concept.Name, 5)
	return concept, nil
}

// Close implements Resolver. The plain HTTP client holds no resources.
func (c *UMLSClient) Close() error { return nil }

func (c *UMLSClient) atoms(ctx context.Context, cui string) ([]atom, error) {
	var raw struct {
		Result json.RawMessage `json:"result"`
	}
	err := c.get(ctx, fmt.Sprintf("/content/%s/CUI/%s/atoms", c.cfg.Version, cui), url.Values{
		"pageSize": {"50"},
	}, &raw)
	if err != nil {
		return nil, err
	}

	// The atoms payload is a bare list in current API versions but was
	// wrapped in a results object historically; accept both.
	var list []atom
	if err := json.Unmarshal(raw.Result, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Results []atom `json:"results"`
	}
	if err := json.Unmarshal(raw.Result, &wrapped); err == nil {
		return wrapped.Results, nil
	}
	return nil, fmt.Errorf("unexpected atoms payload for %s", cui)
}

func (c *UMLSClient) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// sortConcepts orders by descending score, then shorter name, then
// lexicographic name, then CUI, so resolution is deterministic.
func sortConcepts(concepts []types.Concept) {
	sort.SliceStable(concepts, func(i, j int) bool {
		if concepts[i].Score != concepts[j].Score {
			return concepts[i].Score > concepts[j].Score
		}
		if len(concepts[i].Name) != len(concepts[j].Name) {
			return len(concepts[i].Name) < len(concepts[j].Name)
		}
		if concepts[i].Name != concepts[j].Name {
			return concepts[i].Name < concepts[j].Name
		}
		return concepts[i].CUI < concepts[j].CUI
	})
}

func tuiFromURI(uri string) string {
	if idx := strings.LastIndex(uri, "/TUI/"); idx >= 0 {
		return uri[idx+len("/TUI/"):]
	}
	return ""
}

// preferredMeSH picks the MeSH atom name: preferred term types (MH, NM, HT)
// win; otherwise the first MSH atom.
func preferredMeSH(atoms []atom) string {
	fallback := ""
	for _, a := range atoms {
		if a.RootSource != "MSH" {
			continue
		}
		switch a.TermType {
		case "MH", "NM", "HT":
			return a.Name
		}
		if fallback == "" {
			fallback = a.Name
		}
	}
	return fallback
}

// synonymsFromAtoms collects up to limit distinct English atom names that
// differ from the canonical name.
func synonymsFromAtoms(atoms []atom, canonical string, limit int) []string {
	seen := map[string]bool{strings.ToLower(canonical): true}
	var out []string
	for _, a := range atoms {
		if len(out) >= limit {
			break
		}
		if a.Language != "" && a.Language != "ENG" {
			continue
		}
		key := strings.ToLower(a.Name)
		if a.Name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a.Name)
	}
	return out
}
