package literature

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/soundprediction/medgraph/pkg/config"
	"github.com/soundprediction/medgraph/pkg/types"
)

// BreakerSearcher wraps a Searcher with circuit breaking so a degraded
// literature index fails fast during expansion instead of timing out every
// frontier node in turn.
type BreakerSearcher struct {
	inner Searcher
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerSearcher wraps inner with a circuit breaker configured from cfg.
// When breaking is disabled the inner searcher is returned unwrapped.
func NewBreakerSearcher(inner Searcher, cfg config.CircuitBreakerConfig, logger *slog.Logger) Searcher {
	if !cfg.Enabled {
		return inner
	}
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        "literature",
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

	return &BreakerSearcher{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(st),
	}
}

// Search implements Searcher.
func (b *BreakerSearcher) Search(ctx context.Context, query string, opts SearchOptions) ([]types.Article, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Search(ctx, query, opts)
	})
	if err != nil {
		return nil, err
	}
	return resp.([]types.Article), nil
}

// Close implements Searcher.
func (b *BreakerSearcher) Close() error {
	return b.inner.Close()
}
