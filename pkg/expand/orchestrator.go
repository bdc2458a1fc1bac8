package expand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soundprediction/medgraph/pkg/graph"
	"github.com/soundprediction/medgraph/pkg/literature"
	"github.com/soundprediction/medgraph/pkg/query"
	"github.com/soundprediction/medgraph/pkg/terminology"
	"github.com/soundprediction/medgraph/pkg/types"
)

// State names one phase of the expansion cycle.
type State string

const (
	StateIdle            State = "idle"
	StateSelectFrontier  State = "select_frontier"
	StateBuildQueries    State = "build_queries"
	StateFetchEvidence   State = "fetch_evidence"
	StateAdmitCandidates State = "admit_candidates"
)

// Skip reasons recorded in CycleReport.Skipped.
const (
	skipInsufficientEvidence = "insufficient_evidence"
	skipCapacityExceeded     = "capacity_exceeded"
	skipDepthExceeded        = "depth_exceeded"
	skipOther                = "other"
)

// interestTerms narrow every frontier query toward mechanistic literature.
var interestTerms = []string{"pathophysiology", "mechanism", "risk factor"}

// Config tunes the orchestrator.
type Config struct {
	// MaxCycles bounds how many expansion cycles Run performs (default 3).
	MaxCycles int
	// FanOut bounds concurrent evidence fetches (default 4).
	FanOut int
	// UseConcepts routes frontier queries through terminology resolution.
	UseConcepts bool
	// MaxResults caps records fetched per frontier node (default 20).
	MaxResults int
	// Dates optionally restricts evidence by publication date.
	Dates *literature.DateRange
}

// Orchestrator grows the graph cycle by cycle. It is the single writer of
// the store during expansion: fetches run concurrently but admission is
// serialized in frontier order.
type Orchestrator struct {
	store    *graph.Store
	builder  *query.Builder
	searcher literature.Searcher
	resolver terminology.Resolver // optional, validates admitted nodes
	cfg      Config
	lexicon  []LexiconEntry
	logger   *slog.Logger

	sessionID string
	state     State
	cycle     int
	expanded  map[string]bool
}

// NewOrchestrator wires an orchestrator for one expansion session. The
// resolver may be nil; admitted nodes then stay unvalidated.
func NewOrchestrator(store *graph.Store, builder *query.Builder, searcher literature.Searcher, resolver terminology.Resolver, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.MaxCycles <= 0 {
		cfg.MaxCycles = 3
	}
	if cfg.FanOut <= 0 {
		cfg.FanOut = 4
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:     store,
		builder:   builder,
		searcher:  searcher,
		resolver:  resolver,
		cfg:       cfg,
		lexicon:   DefaultLexicon(),
		logger:    logger,
		sessionID: uuid.NewString(),
		state:     StateIdle,
		expanded:  map[string]bool{},
	}
}

// SessionID identifies this expansion session in reports and telemetry.
func (o *Orchestrator) SessionID() string { return o.sessionID }

// Run performs expansion cycles until the frontier is exhausted, the graph
// stops changing, or MaxCycles is reached. It returns the per-cycle reports
// accumulated so far even when a cycle fails.
func (o *Orchestrator) Run(ctx context.Context) ([]types.CycleReport, error) {
	var reports []types.CycleReport
	for i := 0; i < o.cfg.MaxCycles; i++ {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := o.RunCycle(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
		if report.Exhausted {
			break
		}
		if report.Admitted == 0 && len(report.FetchFailures) == 0 {
			// Every fetch succeeded and nothing new was admitted; further
			// cycles over the same frontier cannot make progress.
			break
		}
	}
	return reports, nil
}

type fetchResult struct {
	articles []types.Article
	err      error
}

// RunCycle performs one SelectFrontier→BuildQueries→FetchEvidence→
// AdmitCandidates pass. A cancelled context aborts before admission, leaving
// the store at its last fully-admitted state.
func (o *Orchestrator) RunCycle(ctx context.Context) (*types.CycleReport, error) {
	started := time.Now()
	o.cycle++
	report := &types.CycleReport{
		SessionID:     o.sessionID,
		Cycle:         o.cycle,
		Skipped:       map[string]int{},
		FetchFailures: map[string]string{},
	}

	o.transition(StateSelectFrontier)
	frontier := o.selectFrontier()
	for _, n := range frontier {
		report.Frontier = append(report.Frontier, n.ID)
	}
	if len(frontier) == 0 {
		report.Exhausted = true
		report.Duration = time.Since(started)
		o.transition(StateIdle)
		o.logger.Info("expansion exhausted", "session", o.sessionID, "cycle", o.cycle)
		return report, nil
	}

	o.transition(StateBuildQueries)
	queries := make([]string, len(frontier))
	for i, node := range frontier {
		q, err := o.buildQuery(ctx, node)
		if err != nil {
			report.FetchFailures[node.ID] = fmt.Sprintf("build query: %v", err)
			continue
		}
		queries[i] = q
	}

	o.transition(StateFetchEvidence)
	results := o.fetchAll(ctx, frontier, queries, report)
	if err := ctx.Err(); err != nil {
		report.Duration = time.Since(started)
		o.transition(StateIdle)
		return report, err
	}

	o.transition(StateAdmitCandidates)
	now := time.Now().UTC()
	for i, node := range frontier {
		res := results[i]
		if queries[i] == "" {
			continue // build failure already recorded
		}
		if res.err != nil {
			report.FetchFailures[node.ID] = res.err.Error()
			continue
		}
		o.expanded[node.ID] = true
		candidates := ExtractCandidates(node, res.articles, o.lexicon, now)
		report.Candidates += len(candidates)
		for _, cand := range candidates {
			o.admit(ctx, cand, report)
		}
	}

	report.Duration = time.Since(started)
	o.transition(StateIdle)
	o.logger.Info("expansion cycle complete",
		"session", o.sessionID,
		"cycle", o.cycle,
		"frontier", len(frontier),
		"candidates", report.Candidates,
		"admitted", report.Admitted,
		"fetch_failures", len(report.FetchFailures),
		"duration", report.Duration)
	return report, nil
}

// selectFrontier returns nodes still inside the depth bound and not yet
// expanded this session, ordered by ascending depth then insertion order.
func (o *Orchestrator) selectFrontier() []types.Node {
	maxDepth := o.store.Config().MaxDepth
	var frontier []types.Node
	for _, node := range o.store.Nodes() {
		if node.Depth >= maxDepth || o.expanded[node.ID] {
			continue
		}
		frontier = append(frontier, node)
	}
	sort.SliceStable(frontier, func(i, j int) bool {
		return frontier[i].Depth < frontier[j].Depth
	})
	return frontier
}

// buildQuery builds the boolean expression for one frontier node and scopes
// it to the mechanisms of interest.
func (o *Orchestrator) buildQuery(ctx context.Context, node types.Node) (string, error) {
	res, err := o.builder.Build(ctx, node.Label, o.cfg.UseConcepts)
	if err != nil {
		return "", err
	}
	var interest []string
	for _, term := range interestTerms {
		interest = append(interest, fmt.Sprintf("%q[Title/Abstract]", term))
	}
	return fmt.Sprintf("(%s) AND (%s)", res.Query, strings.Join(interest, " OR ")), nil
}

// fetchAll fans evidence fetches out to a bounded worker pool and joins
// before returning, so results line up with frontier order.
func (o *Orchestrator) fetchAll(ctx context.Context, frontier []types.Node, queries []string, report *types.CycleReport) []fetchResult {
	results := make([]fetchResult, len(frontier))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := min(o.cfg.FanOut, len(frontier))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = fetchResult{err: err}
					continue
				}
				articles, err := o.searcher.Search(ctx, queries[i], literature.SearchOptions{
					MaxResults: o.cfg.MaxResults,
					Dates:      o.cfg.Dates,
				})
				results[i] = fetchResult{articles: articles, err: err}
			}
		}()
	}
	for i := range frontier {
		if queries[i] == "" {
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// admit applies one candidate to the store. Limit failures are counted as
// skips, not errors; the candidate's target node is created on demand.
func (o *Orchestrator) admit(ctx context.Context, cand types.Candidate, report *types.CycleReport) {
	if len(cand.Evidence) < o.store.Config().MinCitations {
		report.Skipped[skipInsufficientEvidence]++
		return
	}

	node, err := o.store.AddNode(cand.TargetLabel, cand.TargetCategory)
	if err != nil {
		report.Skipped[skipReason(err)]++
		return
	}

	_, err = o.store.AddEdge(types.Edge{
		SourceNodeID:     cand.SourceNodeID,
		TargetNodeID:     node.ID,
		RelationshipType: cand.RelationshipType,
		Evidence:         cand.Evidence,
		Confidence:       cand.Confidence,
	})
	if err != nil {
		report.Skipped[skipReason(err)]++
		return
	}
	report.Admitted++

	if o.resolver != nil && !node.Validated {
		o.validate(ctx, node.ID, cand.TargetLabel)
	}
}

// validate resolves the admitted label against the controlled vocabulary
// and records the best CUI. Failures are logged, never fatal.
func (o *Orchestrator) validate(ctx context.Context, nodeID, label string) {
	concepts, err := o.resolver.Resolve(ctx, label)
	if err != nil || len(concepts) == 0 {
		if err != nil {
			o.logger.Warn("node validation failed", "node", nodeID, "error", err)
		}
		return
	}
	if _, err := o.store.ValidateNode(nodeID, concepts[0].CUI); err != nil {
		o.logger.Warn("node validation failed", "node", nodeID, "error", err)
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, types.ErrInsufficientEvidence):
		return skipInsufficientEvidence
	case errors.Is(err, types.ErrCapacityExceeded):
		return skipCapacityExceeded
	case errors.Is(err, types.ErrDepthExceeded):
		return skipDepthExceeded
	default:
		return skipOther
	}
}

func (o *Orchestrator) transition(next State) {
	o.logger.Debug("state transition", "session", o.sessionID, "from", string(o.state), "to", string(next))
	o.state = next
}
