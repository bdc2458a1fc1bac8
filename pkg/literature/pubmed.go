package literature

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/soundprediction/medgraph/pkg/types"
)

// DateRange restricts a search by publication date. Either bound may be
// empty; bounds accept "YYYY", "YYYY/MM" or "YYYY/MM/DD".
type DateRange struct {
	Start string
	End   string
}

// SearchOptions tune one search call.
type SearchOptions struct {
	MaxResults   int
	FullTextOnly bool
	Dates        *DateRange
}

// Searcher retrieves literature records for a boolean query expression.
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]types.Article, error)
	Close() error
}

// PubMedConfig configures the E-utilities client.
type PubMedConfig struct {
	BaseURL string // default https://eutils.ncbi.nlm.nih.gov/entrez/eutils
	Email   string // NCBI asks every client to identify itself
	APIKey  string // raises the rate limit from 3 to 10 req/s
	Tool    string // default "medgraph"

	// RequestsPerSecond caps outbound call rate (default 3).
	RequestsPerSecond float64
	// Timeout is the per-request HTTP timeout (default 20s).
	Timeout time.Duration
}

// PubMedClient implements Searcher against NCBI E-utilities.
type PubMedClient struct {
	cfg    PubMedConfig
	http   *http.Client
	logger *slog.Logger

	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

// NewPubMedClient creates a PubMed E-utilities client.
func NewPubMedClient(cfg PubMedConfig, logger *slog.Logger) *PubMedClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	}
	if cfg.Tool == "" {
		cfg.Tool = "medgraph"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 3.0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PubMedClient{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
		interval: time.Duration(float64(time.Second) / cfg.RequestsPerSecond),
	}
}

// Search runs esearch then esummary and returns article records ordered by
// the index's relevance ranking. With FullTextOnly set the client overfetches
// PMIDs and keeps only articles carrying a PMC or full-text signal.
func (c *PubMedClient) Search(ctx context.Context, query string, opts SearchOptions) ([]types.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.ErrEmptyQuery
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 20
	}

	if opts.Dates != nil {
		filter, err := buildDateFilter(opts.Dates)
		if err != nil {
			return nil, err
		}
		if filter != "" {
			query = fmt.Sprintf("(%s) AND %s", query, filter)
		}
	}

	fetch := opts.MaxResults
	if opts.FullTextOnly {
		// Overfetch so the full-text filter still fills the page.
		fetch = opts.MaxResults * 5
		if fetch < 50 {
			fetch = 50
		}
	}

	pmids, err := c.esearch(ctx, query, fetch)
	if err != nil {
		return nil, fmt.Errorf("pubmed esearch: %w", err)
	}
	if len(pmids) == 0 {
		return nil, nil
	}

	articles := make([]types.Article, 0, opts.MaxResults)
	for start := 0; start < len(pmids) && len(articles) < opts.MaxResults; start += 50 {
		end := min(start+50, len(pmids))
		batch, err := c.esummary(ctx, pmids[start:end])
		if err != nil {
			return nil, fmt.Errorf("pubmed esummary: %w", err)
		}
		for _, a := range batch {
			if opts.FullTextOnly && !a.HasFullText {
				continue
			}
			articles = append(articles, a)
			if len(articles) >= opts.MaxResults {
				break
			}
		}
	}
	c.logger.Debug("pubmed search", "results", len(articles), "pmids", len(pmids))
	return articles, nil
}

// Close implements Searcher.
func (c *PubMedClient) Close() error { return nil }

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (c *PubMedClient) esearch(ctx context.Context, query string, retmax int) ([]string, error) {
	params := url.Values{
		"db":     {"pubmed"},
		"term":   {query},
		"retmax": {strconv.Itoa(retmax)},
		"sort":   {"relevance"},
	}
	var resp esearchResponse
	if err := c.get(ctx, "/esearch.fcgi", params, &resp); err != nil {
		return nil, err
	}
	return resp.ESearchResult.IDList, nil
}

type summaryArticleID struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}

type summaryDoc struct {
	UID             string             `json:"uid"`
	Title           string             `json:"title"`
	FullJournalName string             `json:"fulljournalname"`
	PubDate         string             `json:"pubdate"`
	ArticleIDs      []summaryArticleID `json:"articleids"`
	PMCRefCount     json.Number        `json:"pmcrefcount"`
}

func (c *PubMedClient) esummary(ctx context.Context, pmids []string) ([]types.Article, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"json"},
	}
	var resp struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := c.get(ctx, "/esummary.fcgi", params, &resp); err != nil {
		return nil, err
	}

	// Iterate the request order, not the map, so output is deterministic.
	articles := make([]types.Article, 0, len(pmids))
	for _, pmid := range pmids {
		raw, ok := resp.Result[pmid]
		if !ok {
			continue
		}
		var doc summaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			c.logger.Warn("pubmed summary decode failed", "pmid", pmid, "error", err)
			continue
		}
		if doc.UID == "" {
			continue
		}
		articles = append(articles, articleFromSummary(doc))
	}
	return articles, nil
}

func articleFromSummary(doc summaryDoc) types.Article {
	a := types.Article{
		PMID:    doc.UID,
		Title:   strings.TrimSpace(doc.Title),
		Snippet: strings.TrimSpace(doc.Title),
		Journal: strings.TrimSpace(doc.FullJournalName),
		PubDate: strings.TrimSpace(doc.PubDate),
	}
	for _, id := range doc.ArticleIDs {
		switch strings.ToLower(id.IDType) {
		case "doi":
			a.DOI = id.Value
		case "pmc", "pmcid":
			if a.PMCID == "" {
				a.PMCID = id.Value
			}
		}
	}
	a.HasFullText = a.PMCID != ""
	if n, err := doc.PMCRefCount.Int64(); err == nil {
		a.CitationCount = int(n)
	}
	return a
}

func (c *PubMedClient) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("tool", c.cfg.Tool)
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	if endpoint == "/esearch.fcgi" {
		params.Set("retmode", "json")
	}

	if err := c.rateLimit(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// rateLimit spaces outbound calls by the configured interval.
func (c *PubMedClient) rateLimit(ctx context.Context) error {
	c.mu.Lock()
	wait := c.interval - time.Since(c.lastCall)
	c.lastCall = time.Now().Add(max(wait, 0))
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// buildDateFilter renders a [PDAT] range clause. An open start defaults to
// 1800/01/01; an open end defaults to the end of next year.
func buildDateFilter(dr *DateRange) (string, error) {
	if dr.Start == "" && dr.End == "" {
		return "", nil
	}
	start, end := dr.Start, dr.End
	var err error
	if start != "" {
		if start, err = normalizeDate(start); err != nil {
			return "", err
		}
	} else {
		start = "1800/01/01"
	}
	if end != "" {
		if end, err = normalizeDate(end); err != nil {
			return "", err
		}
	} else {
		end = fmt.Sprintf("%d/12/31", time.Now().Year()+1)
	}
	return fmt.Sprintf("%s:%s[PDAT]", start, end), nil
}

// normalizeDate validates "YYYY", "YYYY/MM" or "YYYY/MM/DD".
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	valid := false
	switch len(parts) {
	case 1:
		valid = isDigits(parts[0], 4)
	case 2:
		valid = isDigits(parts[0], 4) && isDigits(parts[1], 2)
	case 3:
		valid = isDigits(parts[0], 4) && isDigits(parts[1], 2) && isDigits(parts[2], 2)
	}
	if !valid {
		return "", fmt.Errorf("invalid date %q: use YYYY, YYYY/MM or YYYY/MM/DD", s)
	}
	return strings.Join(parts, "/"), nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
