package query

import "strings"

// stopWords are dropped during n-gram extraction. Conjunctions stay
// meaningful to the passthrough path, which splits on them before
// tokenization.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "must": true, "can": true,
	"and": true, "or": true, "but": true, "not": true,
	"in": true, "on": true, "at": true, "by": true, "for": true,
	"with": true, "to": true, "from": true, "of": true, "as": true,
	"what": true, "which": true, "who": true, "when": true,
	"where": true, "why": true, "how": true, "this": true, "that": true,
	"these": true, "those": true, "i": true, "you": true, "he": true,
	"she": true, "it": true, "we": true, "they": true,
}

const tokenPunctuation = ".,;:!?()[]{}\"'-"

// Tokenize splits text on whitespace, strips surrounding punctuation,
// lowercases, and drops stop words.
func Tokenize(text string) []string {
	var tokens []string
	for _, raw := range strings.Fields(text) {
		token := strings.Trim(raw, tokenPunctuation)
		if token == "" {
			continue
		}
		token = strings.ToLower(token)
		if stopWords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// span is a contiguous run of tokens, [Start, End) over the token slice.
type span struct {
	Start int
	End   int
	Text  string
}

// spansBySize enumerates candidate spans longest-first, left to right within
// each size, so greedy matching prefers multi-word concepts over their
// sub-tokens.
func spansBySize(tokens []string, maxSpan int) []span {
	if maxSpan > len(tokens) {
		maxSpan = len(tokens)
	}
	var spans []span
	for size := maxSpan; size >= 1; size-- {
		for start := 0; start+size <= len(tokens); start++ {
			spans = append(spans, span{
				Start: start,
				End:   start + size,
				Text:  strings.Join(tokens[start:start+size], " "),
			})
		}
	}
	return spans
}
