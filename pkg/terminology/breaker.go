package terminology

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/soundprediction/medgraph/pkg/config"
	"github.com/soundprediction/medgraph/pkg/types"
)

// BreakerResolver wraps a Resolver with circuit breaking, so a misbehaving
// terminology service fails fast instead of stalling every expansion cycle.
type BreakerResolver struct {
	inner Resolver
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerResolver wraps inner with a circuit breaker configured from cfg.
// When breaking is disabled in cfg the inner resolver is returned unwrapped.
func NewBreakerResolver(inner Resolver, cfg config.CircuitBreakerConfig, logger *slog.Logger) Resolver {
	if !cfg.Enabled {
		return inner
	}
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        "terminology",
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"name", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerResolver{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(st),
	}
}

// Resolve implements Resolver.
func (b *BreakerResolver) Resolve(ctx context.Context, term string) ([]types.Concept, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Resolve(ctx, term)
	})
	if err != nil {
		return nil, err
	}
	return resp.([]types.Concept), nil
}

// Lookup implements Resolver.
func (b *BreakerResolver) Lookup(ctx context.Context, cui string) (*types.Concept, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Lookup(ctx, cui)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.Concept), nil
}

// Close implements Resolver.
func (b *BreakerResolver) Close() error {
	return b.inner.Close()
}
