package terminology

import (
	"context"

	"github.com/soundprediction/medgraph/pkg/types"
)

// Resolver looks up controlled-vocabulary concepts for free-text terms.
// Implementations must return concepts ordered by descending relevance score;
// an empty slice (not an error) means the term resolved to nothing.
type Resolver interface {
	// Resolve returns scored concept candidates for a surface term.
	Resolve(ctx context.Context, term string) ([]types.Concept, error)

	// Lookup returns the concept detail for a known concept id, or
	// types.ErrNotFound.
	Lookup(ctx context.Context, cui string) (*types.Concept, error)

	// Close releases any resources held by the resolver.
	Close() error
}
