package medgraph

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/soundprediction/medgraph"
	"github.com/soundprediction/medgraph/pkg/config"
	"github.com/soundprediction/medgraph/pkg/literature"
	medgraphLogger "github.com/soundprediction/medgraph/pkg/logger"
	"github.com/soundprediction/medgraph/pkg/telemetry"
	"github.com/soundprediction/medgraph/pkg/terminology"
)

// newLogger builds the shared slog logger: the color handler on stderr,
// wrapped by the parquet telemetry handler when a telemetry path is
// configured.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	var handler slog.Handler = medgraphLogger.NewColorHandler(os.Stderr, &slog.HandlerOptions{
		Level: medgraphLogger.ParseLevel(cfg.Log.Level),
	})

	if cfg.Telemetry.ParquetPath != "" {
		parquetHandler, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create telemetry handler: %w", err)
		}
		handler = parquetHandler
	}

	return slog.New(handler), nil
}

// initClient wires the collaborators from config and returns a ready client.
// The terminology resolver is optional: without a UMLS API key the client
// runs with literal queries and unvalidated admissions.
func initClient(cfg *config.Config, logger *slog.Logger) (*medgraph.Client, error) {
	var resolver terminology.Resolver
	if cfg.UMLS.APIKey != "" {
		umlsClient, err := terminology.NewUMLSClient(terminology.UMLSConfig{
			APIKey:    cfg.UMLS.APIKey,
			BaseURL:   cfg.UMLS.BaseURL,
			Version:   cfg.UMLS.Version,
			Threshold: cfg.UMLS.Threshold,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create UMLS client: %w", err)
		}

		resolver = umlsClient
		if cfg.UMLS.CachePath != "" {
			cached, err := terminology.NewCachedResolver(resolver, terminology.CacheConfig{
				Path: cfg.UMLS.CachePath,
			}, logger)
			if err != nil {
				return nil, fmt.Errorf("failed to open UMLS cache: %w", err)
			}
			resolver = cached
		}
		resolver = terminology.NewBreakerResolver(resolver, cfg.CircuitBreaker, logger)
	} else {
		logger.Warn("UMLS_API_KEY not set; concept resolution disabled, queries run literal")
	}

	pubmed := literature.NewPubMedClient(literature.PubMedConfig{
		BaseURL:           cfg.PubMed.BaseURL,
		Email:             cfg.PubMed.Email,
		APIKey:            cfg.PubMed.APIKey,
		Tool:              cfg.PubMed.Tool,
		RequestsPerSecond: cfg.PubMed.RequestsPerSecond,
	}, logger)
	searcher := literature.NewBreakerSearcher(pubmed, cfg.CircuitBreaker, logger)

	return medgraph.NewClient(resolver, searcher, cfg, logger)
}
