package expand

import (
	"strings"
	"time"

	"github.com/soundprediction/medgraph/pkg/graph"
	"github.com/soundprediction/medgraph/pkg/types"
)

// ExtractCandidates derives candidate relationships from co-occurrence: the
// frontier node's query produced these records, so a lexicon mechanism
// appearing in a record's text co-occurs with the node. One candidate per
// matched lexicon entry, in lexicon order, carrying one Evidence item per
// matching record. Matches against the frontier node itself are dropped.
func ExtractCandidates(node types.Node, articles []types.Article, lexicon []LexiconEntry, now time.Time) []types.Candidate {
	var candidates []types.Candidate
	for _, entry := range lexicon {
		if graph.Slugify(entry.Label) == node.ID {
			continue
		}
		evidence := matchEvidence(entry, articles, now)
		if len(evidence) == 0 {
			continue
		}
		candidates = append(candidates, types.Candidate{
			SourceNodeID:     node.ID,
			TargetLabel:      entry.Label,
			TargetCategory:   entry.Category,
			RelationshipType: entry.RelationshipType,
			Evidence:         evidence,
			Confidence:       confidenceFor(evidence),
		})
	}
	return candidates
}

func matchEvidence(entry LexiconEntry, articles []types.Article, now time.Time) []types.Evidence {
	patterns := append([]string{strings.ToLower(entry.Label)}, entry.Patterns...)
	var evidence []types.Evidence
	seen := map[string]bool{}
	for _, a := range articles {
		if a.PMID == "" || seen[a.PMID] {
			continue
		}
		text := strings.ToLower(a.Title + " " + a.Snippet)
		if !containsAny(text, patterns) {
			continue
		}
		seen[a.PMID] = true
		sentence := a.Snippet
		if sentence == "" {
			sentence = a.Title
		}
		evidence = append(evidence, types.Evidence{
			SourceID:    a.PMID,
			Sentence:    sentence,
			RetrievedAt: now,
		})
	}
	return evidence
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// confidenceFor grows with distinct supporting sources and saturates below
// certainty: 0.5 base plus 0.1 per source, capped at 0.95.
func confidenceFor(evidence []types.Evidence) float64 {
	c := 0.5 + 0.1*float64(len(evidence))
	if c > 0.95 {
		c = 0.95
	}
	return c
}
