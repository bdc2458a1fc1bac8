package graph

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/soundprediction/medgraph/pkg/types"
)

// Config holds the global growth constraints. Constraints are supplied at
// construction and are not mutable mid-session.
type Config struct {
	// MaxDepth is the maximum shortest-hop distance from any seed node.
	MaxDepth int
	// MaxNodes is the maximum number of nodes the store will hold.
	MaxNodes int
	// MinCitations is the minimum number of distinct citation sources an
	// edge must carry to be admitted.
	MinCitations int
}

// DefaultConfig returns the constraints used by the original study setup.
func DefaultConfig() Config {
	return Config{
		MaxDepth:     2,
		MaxNodes:     30,
		MinCitations: 2,
	}
}

// Store is the bounded in-memory graph store. It is created with the three
// hardcoded seed nodes at depth 0 and mutated only through AddNode,
// ValidateNode and AddEdge. All mutations are serialized behind a mutex.
type Store struct {
	mu     sync.Mutex
	cfg    Config
	logger *slog.Logger

	nodes map[string]*types.Node
	order []string // node ids in insertion order, for deterministic iteration
	edges []*types.Edge

	// adjacency maps node id to indexes into edges, both directions
	adjacency map[string][]int
}

// NewStore creates a store with the given constraints, seeded with the three
// seed entities at depth 0.
func NewStore(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		cfg:       cfg,
		logger:    logger,
		nodes:     make(map[string]*types.Node),
		adjacency: make(map[string][]int),
	}
	s.seed()
	return s
}

// Config returns the constraints the store was created with.
func (s *Store) Config() Config {
	return s.cfg
}

func (s *Store) seed() {
	now := time.Now().UTC()
	for _, se := range SeedEntities {
		node := &types.Node{
			ID:        se.ID,
			Label:     se.Label,
			Category:  se.Category,
			Synonyms:  append([]string(nil), se.Synonyms...),
			Seed:      true,
			Depth:     0,
			CreatedAt: now,
		}
		s.nodes[node.ID] = node
		s.order = append(s.order, node.ID)
	}
}

// unreachableDepth is the sentinel depth for nodes with no path from a seed
// within the depth cap. Such nodes stay in the store but are excluded from
// frontier selection.
func (s *Store) unreachableDepth() int {
	return s.cfg.MaxDepth + 1
}

// Slugify normalizes a label into a stable node id: lowercase, with runs of
// non-alphanumeric characters collapsed to single underscores.
func Slugify(label string) string {
	var b strings.Builder
	lastUnderscore := true // trim leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// AddNode normalizes label to a stable id and inserts a new node, or returns
// the existing node if the id is already present. New nodes start at the
// unreachable sentinel depth until an admitted edge links them to the graph.
func (s *Store) AddNode(label string, category types.NodeCategory) (*types.Node, error) {
	if strings.TrimSpace(label) == "" {
		return nil, types.ErrEmptyLabel
	}
	id := Slugify(label)
	if id == "" {
		return nil, types.ErrEmptyLabel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.nodes[id]; ok {
		return copyNode(existing), nil
	}
	if len(s.nodes) >= s.cfg.MaxNodes {
		return nil, fmt.Errorf("cannot add node %q: %w (limit %d)", id, types.ErrCapacityExceeded, s.cfg.MaxNodes)
	}

	node := &types.Node{
		ID:        id,
		Label:     label,
		Category:  category,
		Depth:     s.unreachableDepth(),
		CreatedAt: time.Now().UTC(),
	}
	s.nodes[id] = node
	s.order = append(s.order, id)
	s.logger.Debug("node added", "id", id, "category", string(category), "node_count", len(s.nodes))
	return copyNode(node), nil
}

// ValidateNode records the controlled-vocabulary concept id for a node and
// marks it validated. Re-validating with a different CUI overwrites; the
// terminology may be corrected. Validation never changes id, label or depth.
func (s *Store) ValidateNode(nodeID, cui string) (*types.Node, error) {
	if cui == "" {
		return nil, types.ErrEmptyCUI
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("validate node %q: %w", nodeID, types.ErrNotFound)
	}
	node.UMLSCUI = cui
	node.Validated = true
	s.logger.Debug("node validated", "id", nodeID, "cui", cui)
	return copyNode(node), nil
}

// AddEdge admits a directed edge. Both endpoints must exist, the edge must
// carry at least MinCitations distinct citation sources, and admission must
// not place either endpoint beyond MaxDepth from all seeds. A duplicate
// (source, target, type) triple is merged: evidence sets union, confidence
// takes the higher value. Admission is atomic: on any failure the store is
// unchanged.
func (s *Store) AddEdge(edge types.Edge) (*types.Edge, error) {
	if err := edge.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.nodes[edge.SourceNodeID]
	if !ok {
		return nil, fmt.Errorf("edge source %q: %w", edge.SourceNodeID, types.ErrNotFound)
	}
	tgt, ok := s.nodes[edge.TargetNodeID]
	if !ok {
		return nil, fmt.Errorf("edge target %q: %w", edge.TargetNodeID, types.ErrNotFound)
	}

	evidence := dedupeEvidence(edge.Evidence)
	if len(evidence) < s.cfg.MinCitations {
		return nil, fmt.Errorf("edge %s->%s has %d distinct citation(s): %w (minimum %d)",
			edge.SourceNodeID, edge.TargetNodeID, len(evidence), types.ErrInsufficientEvidence, s.cfg.MinCitations)
	}

	if existing := s.findEdge(edge.SourceNodeID, edge.TargetNodeID, edge.RelationshipType); existing != nil {
		existing.Evidence = mergeEvidence(existing.Evidence, evidence)
		if edge.Confidence > existing.Confidence {
			existing.Confidence = edge.Confidence
		}
		s.logger.Debug("edge merged", "source", edge.SourceNodeID, "target", edge.TargetNodeID,
			"type", edge.RelationshipType, "citations", len(existing.SourceIDs()))
		return copyEdge(existing), nil
	}

	// Depth admission: an edge can only shorten seed distances, so the
	// post-relaxation depth of each endpoint is the minimum of its current
	// depth and one hop past the other endpoint.
	newSrcDepth := min(src.Depth, tgt.Depth+1)
	newTgtDepth := min(tgt.Depth, src.Depth+1)
	if newSrcDepth > s.cfg.MaxDepth || newTgtDepth > s.cfg.MaxDepth {
		return nil, fmt.Errorf("edge %s->%s: %w (max %d)",
			edge.SourceNodeID, edge.TargetNodeID, types.ErrDepthExceeded, s.cfg.MaxDepth)
	}

	admitted := &types.Edge{
		SourceNodeID:     edge.SourceNodeID,
		TargetNodeID:     edge.TargetNodeID,
		RelationshipType: edge.RelationshipType,
		Evidence:         evidence,
		Confidence:       edge.Confidence,
		CreatedAt:        time.Now().UTC(),
	}
	idx := len(s.edges)
	s.edges = append(s.edges, admitted)
	s.adjacency[admitted.SourceNodeID] = append(s.adjacency[admitted.SourceNodeID], idx)
	s.adjacency[admitted.TargetNodeID] = append(s.adjacency[admitted.TargetNodeID], idx)

	s.relaxDepths()

	s.logger.Debug("edge admitted", "source", admitted.SourceNodeID, "target", admitted.TargetNodeID,
		"type", admitted.RelationshipType, "citations", len(evidence), "confidence", admitted.Confidence)
	return copyEdge(admitted), nil
}

// GetNode returns a copy of the node with the given id.
func (s *Store) GetNode(nodeID string) (*types.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", nodeID, types.ErrNotFound)
	}
	return copyNode(node), nil
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []types.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *copyNode(s.nodes[id]))
	}
	return out
}

// Edges returns copies of all admitted edges in admission order.
func (s *Store) Edges() []types.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, *copyEdge(e))
	}
	return out
}

// SeedNodes returns copies of the seed nodes.
func (s *Store) SeedNodes() []types.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []types.Node
	for _, id := range s.order {
		if s.nodes[id].Seed {
			out = append(out, *copyNode(s.nodes[id]))
		}
	}
	return out
}

// Summary returns graph statistics. Pure read, no side effects.
func (s *Store) Summary() types.GraphSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := types.GraphSummary{
		NodeCount:         len(s.nodes),
		EdgeCount:         len(s.edges),
		DepthHistogram:    make(map[int]int),
		Categories:        make(map[types.NodeCategory]int),
		RelationshipTypes: make(map[string]int),
	}
	for _, node := range s.nodes {
		sum.DepthHistogram[node.Depth]++
		sum.Categories[node.Category]++
		if node.Validated {
			sum.ValidatedCount++
		}
		if node.Seed {
			sum.SeedCount++
		}
	}
	for _, edge := range s.edges {
		sum.RelationshipTypes[edge.RelationshipType]++
	}
	return sum
}

// findEdge returns the stored edge with the given triple, or nil. Caller
// holds the lock.
func (s *Store) findEdge(source, target, relType string) *types.Edge {
	for _, idx := range s.adjacency[source] {
		e := s.edges[idx]
		if e.SourceNodeID == source && e.TargetNodeID == target && e.RelationshipType == relType {
			return e
		}
	}
	return nil
}

// dedupeEvidence drops evidence with empty or repeated source ids, keeping
// first-seen order and the first-seen sentence per source.
func dedupeEvidence(evidence []types.Evidence) []types.Evidence {
	seen := make(map[string]bool, len(evidence))
	out := make([]types.Evidence, 0, len(evidence))
	for _, ev := range evidence {
		if ev.SourceID == "" || seen[ev.SourceID] {
			continue
		}
		seen[ev.SourceID] = true
		out = append(out, ev)
	}
	return out
}

// mergeEvidence unions two deduplicated evidence sequences by source id,
// existing entries first.
func mergeEvidence(existing, incoming []types.Evidence) []types.Evidence {
	seen := make(map[string]bool, len(existing))
	for _, ev := range existing {
		seen[ev.SourceID] = true
	}
	out := existing
	for _, ev := range incoming {
		if seen[ev.SourceID] {
			continue
		}
		seen[ev.SourceID] = true
		out = append(out, ev)
	}
	return out
}

func copyNode(n *types.Node) *types.Node {
	c := *n
	c.Synonyms = append([]string(nil), n.Synonyms...)
	return &c
}

func copyEdge(e *types.Edge) *types.Edge {
	c := *e
	c.Evidence = append([]types.Evidence(nil), e.Evidence...)
	return &c
}
