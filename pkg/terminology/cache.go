package terminology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/soundprediction/medgraph/pkg/types"
)

// CacheConfig configures the badger-backed resolver cache.
type CacheConfig struct {
	// Path is the directory for the cache database. Ignored when InMemory
	// is set.
	Path string
	// InMemory keeps the cache off disk, for tests.
	InMemory bool
	// TTL is how long cached responses stay valid (default 7 days;
	// terminology releases are quarterly so this is conservative).
	TTL time.Duration
}

// CachedResolver wraps a Resolver with a badger key-value cache. Resolve and
// Lookup responses are stored as JSON under TTL'd keys, so repeated expansion
// cycles over the same vocabulary avoid re-hitting the terminology service.
type CachedResolver struct {
	inner  Resolver
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedResolver opens (or creates) the cache at cfg.Path and wraps inner.
func NewCachedResolver(inner Resolver, cfg CacheConfig, logger *slog.Logger) (*CachedResolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}

	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open terminology cache: %w", err)
	}
	return &CachedResolver{inner: inner, db: db, ttl: cfg.TTL, logger: logger}, nil
}

// Resolve implements Resolver.
func (c *CachedResolver) Resolve(ctx context.Context, term string) ([]types.Concept, error) {
	key := []byte("resolve:" + normalizeKey(term))

	var cached []types.Concept
	if c.read(key, &cached) {
		c.logger.Debug("terminology cache hit", "term", term)
		return cached, nil
	}

	concepts, err := c.inner.Resolve(ctx, term)
	if err != nil {
		return nil, err
	}
	c.write(key, concepts)
	return concepts, nil
}

// Lookup implements Resolver.
func (c *CachedResolver) Lookup(ctx context.Context, cui string) (*types.Concept, error) {
	key := []byte("lookup:" + cui)

	var cached types.Concept
	if c.read(key, &cached) {
		return &cached, nil
	}

	concept, err := c.inner.Lookup(ctx, cui)
	if err != nil {
		return nil, err
	}
	c.write(key, concept)
	return concept, nil
}

// Close closes the cache database and the wrapped resolver.
func (c *CachedResolver) Close() error {
	dbErr := c.db.Close()
	innerErr := c.inner.Close()
	if dbErr != nil {
		return dbErr
	}
	return innerErr
}

func (c *CachedResolver) read(key []byte, out interface{}) bool {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn("terminology cache read failed", "key", string(key), "error", err)
		}
		return false
	}
	return true
}

func (c *CachedResolver) write(key []byte, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("terminology cache encode failed", "key", string(key), "error", err)
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		// Cache write failures are not fatal; the caller already has the
		// fresh response.
		c.logger.Warn("terminology cache write failed", "key", string(key), "error", err)
	}
}

func normalizeKey(term string) string {
	return strings.ToLower(strings.Join(strings.Fields(term), " "))
}
