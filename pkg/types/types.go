package types

import (
	"time"
)

// NodeCategory classifies the kind of biomedical entity a node represents.
type NodeCategory string

const (
	CategoryDisease           NodeCategory = "Disease"
	CategoryBiologicalProcess NodeCategory = "BiologicalProcess"
	CategoryBiomechanical     NodeCategory = "Biomechanical"
	CategoryMolecular         NodeCategory = "Molecular"
	CategoryAnatomical        NodeCategory = "Anatomical"
	CategoryBiomarker         NodeCategory = "Biomarker"
	CategoryConcept           NodeCategory = "Concept"
)

// Relationship types carried by edges. The set is a controlled tag vocabulary,
// not an enum: stores accept any non-empty type.
const (
	RelInfluences      = "INFLUENCES"
	RelCauses          = "CAUSES"
	RelAssociatedWith  = "ASSOCIATED_WITH"
	RelMechanisticLink = "MECHANISTIC_LINK"
	RelBiomarkerFor    = "BIOMARKER_FOR"
)

// Evidence is an immutable citation record attached to a relationship claim.
// Identity is SourceID; duplicate evidence for the same relationship from the
// same source is deduplicated by SourceID.
type Evidence struct {
	SourceID    string    `json:"source_id"`
	Sentence    string    `json:"sentence,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// Node represents a biomedical entity or concept in the knowledge graph.
type Node struct {
	ID        string       `json:"id"`
	Label     string       `json:"label"`
	Category  NodeCategory `json:"category"`
	Synonyms  []string     `json:"synonyms,omitempty"`
	UMLSCUI   string       `json:"umls_cui,omitempty"`
	Validated bool         `json:"validated"`
	Seed      bool         `json:"seed"`
	Depth     int          `json:"depth"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate checks if the Node has all required fields set.
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if n.Label == "" {
		return ErrEmptyLabel
	}
	return nil
}

// Edge represents a directed, typed relationship between two nodes, carrying
// citation evidence and a confidence score in [0,1]. Edges reference nodes by
// id rather than holding pointers, so the store has no ownership cycles.
type Edge struct {
	SourceNodeID     string     `json:"source_node_id"`
	TargetNodeID     string     `json:"target_node_id"`
	RelationshipType string     `json:"relationship_type"`
	Evidence         []Evidence `json:"evidence"`
	Confidence       float64    `json:"confidence"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Validate checks edge shape. Evidence-count admission rules live in the
// graph store, which knows the configured minimum.
func (e *Edge) Validate() error {
	if e.SourceNodeID == "" || e.TargetNodeID == "" {
		return ErrEmptyNodeID
	}
	if e.SourceNodeID == e.TargetNodeID {
		return ErrSelfLoop
	}
	if e.RelationshipType == "" {
		return ErrEmptyRelationship
	}
	if e.Confidence < 0.0 || e.Confidence > 1.0 {
		return ErrInvalidConfidence
	}
	return nil
}

// SourceIDs returns the distinct citation source ids carried by the edge, in
// first-seen order.
func (e *Edge) SourceIDs() []string {
	seen := make(map[string]bool, len(e.Evidence))
	ids := make([]string, 0, len(e.Evidence))
	for _, ev := range e.Evidence {
		if ev.SourceID == "" || seen[ev.SourceID] {
			continue
		}
		seen[ev.SourceID] = true
		ids = append(ids, ev.SourceID)
	}
	return ids
}

// SemanticType is a UMLS semantic network type attached to a concept.
type SemanticType struct {
	TUI  string `json:"tui"`
	Name string `json:"name"`
}

// Concept is a controlled-vocabulary concept returned by the terminology
// resolver, scored for relevance against the surface term that produced it.
type Concept struct {
	CUI           string         `json:"cui"`
	Name          string         `json:"name"`
	MeSHTerm      string         `json:"mesh_term,omitempty"`
	Synonyms      []string       `json:"synonyms,omitempty"`
	SemanticTypes []SemanticType `json:"semantic_types,omitempty"`
	RootSource    string         `json:"root_source,omitempty"`
	Score         float64        `json:"score"`
}

// Article is a single literature search record.
type Article struct {
	PMID          string `json:"pmid"`
	Title         string `json:"title"`
	Snippet       string `json:"snippet,omitempty"`
	Journal       string `json:"journal,omitempty"`
	PubDate       string `json:"pubdate,omitempty"`
	DOI           string `json:"doi,omitempty"`
	PMCID         string `json:"pmc_id,omitempty"`
	HasFullText   bool   `json:"has_full_text"`
	CitationCount int    `json:"citation_count,omitempty"`
}

// Candidate is a relationship proposed by an expansion cycle, derived from
// label co-occurrence in literature records. Admission may still fail on
// capacity, depth, or evidence limits.
type Candidate struct {
	SourceNodeID     string       `json:"source_node_id"`
	TargetLabel      string       `json:"target_label"`
	TargetCategory   NodeCategory `json:"target_category"`
	RelationshipType string       `json:"relationship_type"`
	Evidence         []Evidence   `json:"evidence"`
	Confidence       float64      `json:"confidence"`
}

// GraphSummary is a pure-read snapshot of graph state.
type GraphSummary struct {
	NodeCount         int                  `json:"node_count"`
	EdgeCount         int                  `json:"edge_count"`
	ValidatedCount    int                  `json:"validated_count"`
	SeedCount         int                  `json:"seed_count"`
	DepthHistogram    map[int]int          `json:"depth_histogram"`
	Categories        map[NodeCategory]int `json:"categories"`
	RelationshipTypes map[string]int       `json:"relationship_types"`
}

// CycleReport summarizes one expansion cycle. Limit failures are counted, not
// escalated; fetch failures are recorded per frontier node.
type CycleReport struct {
	SessionID     string            `json:"session_id"`
	Cycle         int               `json:"cycle"`
	Frontier      []string          `json:"frontier"`
	Candidates    int               `json:"candidates"`
	Admitted      int               `json:"admitted"`
	Skipped       map[string]int    `json:"skipped,omitempty"`
	FetchFailures map[string]string `json:"fetch_failures,omitempty"`
	Exhausted     bool              `json:"exhausted"`
	Duration      time.Duration     `json:"duration"`
}

// ContextKey is the type for context values shared across the server and
// telemetry layers.
type ContextKey string

const (
	ContextKeySessionID     ContextKey = "session_id"
	ContextKeyCycleID       ContextKey = "cycle_id"
	ContextKeyRequestSource ContextKey = "request_source"
)
