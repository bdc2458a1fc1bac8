package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/soundprediction/medgraph/pkg/terminology"
	"github.com/soundprediction/medgraph/pkg/types"
)

// ConceptUse records one resolved span in a built query.
type ConceptUse struct {
	SurfaceForm   string `json:"surface_form"`
	CanonicalTerm string `json:"canonical_term"`
	ConceptID     string `json:"concept_id"`
}

// Result is a built literature-search expression plus the vocabulary
// concepts it was disambiguated with, in span order.
type Result struct {
	Query    string       `json:"query"`
	Concepts []ConceptUse `json:"concepts_used"`
}

// Builder assembles boolean PubMed-style search expressions from free text.
// Construction is pure given the input text and the resolver's responses,
// so identical inputs always produce byte-identical queries.
type Builder struct {
	resolver  terminology.Resolver
	threshold float64
	maxSpan   int
	logger    *slog.Logger
}

// NewBuilder creates a Builder. The resolver may be nil only if every Build
// call passes useConcepts=false.
func NewBuilder(resolver terminology.Resolver, threshold float64, logger *slog.Logger) *Builder {
	if threshold <= 0 {
		threshold = 0.6
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		resolver:  resolver,
		threshold: threshold,
		maxSpan:   3,
		logger:    logger,
	}
}

// Build turns text into a boolean search expression. With useConcepts=false
// it splits on caller-embedded conjunctions without any external lookups;
// with useConcepts=true it resolves candidate spans against the controlled
// vocabulary, greedily and non-overlapping, longest span first. Spans that
// resolve become OR-groups over the MeSH heading, canonical name and
// synonyms; spans that do not degrade to literal phrase terms. Groups are
// joined by AND in text order.
func (b *Builder) Build(ctx context.Context, text string, useConcepts bool) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, types.ErrEmptyQuery
	}
	if !useConcepts {
		return b.buildLiteral(text)
	}
	return b.buildConceptual(ctx, text)
}

// buildLiteral splits on embedded "and"/"or" conjunctions; with none
// present the whole phrase becomes a single required-terms group.
func (b *Builder) buildLiteral(text string) (*Result, error) {
	segments := splitConjunctions(text)
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.operator != "" {
			parts = append(parts, seg.operator)
			continue
		}
		parts = append(parts, literalClause(seg.text))
	}
	return &Result{Query: strings.Join(parts, " ")}, nil
}

func (b *Builder) buildConceptual(ctx context.Context, text string) (*Result, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, types.ErrEmptyQuery
	}

	type matched struct {
		span    span
		concept types.Concept
	}
	consumed := make([]bool, len(tokens))
	var matches []matched

	for _, sp := range spansBySize(tokens, b.maxSpan) {
		if anyConsumed(consumed, sp) {
			continue
		}
		concepts, err := b.resolver.Resolve(ctx, sp.Text)
		if err != nil {
			return nil, fmt.Errorf("resolve span %q: %w", sp.Text, err)
		}
		best, ok := bestConcept(concepts, b.threshold)
		if !ok {
			continue
		}
		for i := sp.Start; i < sp.End; i++ {
			consumed[i] = true
		}
		matches = append(matches, matched{span: sp, concept: best})
	}

	// Emit clauses in text order: matched spans interleaved with the
	// literal fallback for every unconsumed token.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].span.Start < matches[j].span.Start
	})

	var clauses []string
	var uses []ConceptUse
	next := 0
	pos := 0
	for pos < len(tokens) {
		if next < len(matches) && matches[next].span.Start == pos {
			m := matches[next]
			clauses = append(clauses, conceptClause(m.concept))
			uses = append(uses, ConceptUse{
				SurfaceForm:   m.span.Text,
				CanonicalTerm: m.concept.Name,
				ConceptID:     m.concept.CUI,
			})
			pos = m.span.End
			next++
			continue
		}
		clauses = append(clauses, literalClause(tokens[pos]))
		pos++
	}

	b.logger.Debug("built query", "text", text, "concepts", len(uses), "clauses", len(clauses))
	return &Result{
		Query:    strings.Join(clauses, " AND "),
		Concepts: uses,
	}, nil
}

// bestConcept picks the top concept at or above threshold. The resolver
// already orders by descending score with deterministic tie-breaks.
func bestConcept(concepts []types.Concept, threshold float64) (types.Concept, bool) {
	if len(concepts) == 0 || concepts[0].Score < threshold {
		return types.Concept{}, false
	}
	return concepts[0], true
}

func anyConsumed(consumed []bool, sp span) bool {
	for i := sp.Start; i < sp.End; i++ {
		if consumed[i] {
			return true
		}
	}
	return false
}

// conceptClause renders a resolved concept as an OR-group: MeSH heading
// first when present, then the canonical name and up to three synonyms as
// title/abstract terms.
func conceptClause(c types.Concept) string {
	var parts []string
	if c.MeSHTerm != "" {
		parts = append(parts, fmt.Sprintf("%q[MeSH Terms]", c.MeSHTerm))
	}
	parts = append(parts, fmt.Sprintf("%q[Title/Abstract]", strings.ToLower(c.Name)))
	seen := map[string]bool{strings.ToLower(c.Name): true}
	for _, syn := range c.Synonyms {
		if len(parts) >= 5 {
			break
		}
		lower := strings.ToLower(syn)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		parts = append(parts, fmt.Sprintf("%q[Title/Abstract]", lower))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func literalClause(text string) string {
	return fmt.Sprintf("%q[Title/Abstract]", strings.ToLower(strings.TrimSpace(text)))
}

// segment is one piece of a conjunction-split passthrough query.
type segment struct {
	text     string
	operator string // "AND" or "OR" for operator segments
}

// splitConjunctions splits on standalone "and"/"or" words, preserving them
// as boolean operators between the surrounding phrase groups.
func splitConjunctions(text string) []segment {
	words := strings.Fields(text)
	var segments []segment
	var current []string

	flush := func() {
		if len(current) > 0 {
			segments = append(segments, segment{text: strings.Join(current, " ")})
			current = nil
		}
	}

	for _, w := range words {
		switch strings.ToLower(strings.Trim(w, tokenPunctuation)) {
		case "and":
			if len(current) > 0 {
				flush()
				segments = append(segments, segment{operator: "AND"})
			}
		case "or":
			if len(current) > 0 {
				flush()
				segments = append(segments, segment{operator: "OR"})
			}
		default:
			current = append(current, w)
		}
	}
	flush()

	// A trailing operator with nothing after it is dropped.
	for len(segments) > 0 && segments[len(segments)-1].operator != "" {
		segments = segments[:len(segments)-1]
	}
	if len(segments) == 0 {
		segments = append(segments, segment{text: text})
	}
	return segments
}
