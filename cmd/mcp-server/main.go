package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/firebase/genkit/go/genkit"

	"github.com/soundprediction/medgraph"
	"github.com/soundprediction/medgraph/pkg/config"
	"github.com/soundprediction/medgraph/pkg/literature"
	medgraphLogger "github.com/soundprediction/medgraph/pkg/logger"
	"github.com/soundprediction/medgraph/pkg/terminology"
)

// MCPConfig holds the MCP-specific settings layered on top of the shared
// application config.
type MCPConfig struct {
	Transport string
	Host      string
	Port      int

	// LoadPath optionally resumes a previously saved graph.
	LoadPath string
}

// NewMCPConfig creates the MCP configuration from environment variables.
func NewMCPConfig() *MCPConfig {
	return &MCPConfig{
		Transport: getEnv("MCP_TRANSPORT", "stdio"),
		Host:      getEnv("MCP_HOST", "localhost"),
		Port:      getEnvInt("MCP_PORT", 3000),
		LoadPath:  getEnv("GRAPH_LOAD_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// MCPServer wraps the Medgraph client for MCP operations
type MCPServer struct {
	config *MCPConfig
	client *medgraph.Client
	logger *slog.Logger
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(mcpCfg *MCPConfig) (*MCPServer, error) {
	logger := slog.New(medgraphLogger.NewColorHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var resolver terminology.Resolver
	if cfg.UMLS.APIKey != "" {
		umlsClient, err := terminology.NewUMLSClient(terminology.UMLSConfig{
			APIKey:    cfg.UMLS.APIKey,
			BaseURL:   cfg.UMLS.BaseURL,
			Version:   cfg.UMLS.Version,
			Threshold: cfg.UMLS.Threshold,
		}, logger)
		if err != nil {
			return nil, err
		}
		resolver = umlsClient
		if cfg.UMLS.CachePath != "" {
			cached, err := terminology.NewCachedResolver(resolver, terminology.CacheConfig{
				Path: cfg.UMLS.CachePath,
			}, logger)
			if err != nil {
				return nil, err
			}
			resolver = cached
		}
		resolver = terminology.NewBreakerResolver(resolver, cfg.CircuitBreaker, logger)
	} else {
		logger.Warn("UMLS_API_KEY not set; search_umls and get_umls_concept will report errors")
	}

	pubmed := literature.NewPubMedClient(literature.PubMedConfig{
		BaseURL:           cfg.PubMed.BaseURL,
		Email:             cfg.PubMed.Email,
		APIKey:            cfg.PubMed.APIKey,
		Tool:              cfg.PubMed.Tool,
		RequestsPerSecond: cfg.PubMed.RequestsPerSecond,
	}, logger)
	searcher := literature.NewBreakerSearcher(pubmed, cfg.CircuitBreaker, logger)

	client, err := medgraph.NewClient(resolver, searcher, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &MCPServer{
		config: mcpCfg,
		client: client,
		logger: logger,
	}, nil
}

// Initialize prepares the graph session before tools are served.
func (s *MCPServer) Initialize(ctx context.Context) error {
	s.logger.Info("Initializing Medgraph MCP server...")

	if s.config.LoadPath != "" {
		if err := s.client.Load(s.config.LoadPath); err != nil {
			s.logger.Error("Failed to load saved graph", "path", s.config.LoadPath, "error", err)
			return err
		}
		s.logger.Info("Resumed saved graph", "path", s.config.LoadPath)
	}

	summary := s.client.Summary()
	s.logger.Info("MCP server configuration",
		"session_id", s.client.SessionID(),
		"transport", s.config.Transport,
		"nodes", summary.NodeCount,
		"seeds", summary.SeedCount,
	)
	return nil
}

// RegisterTools registers all MCP tools with Genkit
func (s *MCPServer) RegisterTools(g *genkit.Genkit) {
	genkit.DefineTool(g, "search_pubmed",
		"Search PubMed with a boolean query and return matching article metadata.",
		s.SearchPubMedTool)

	genkit.DefineTool(g, "search_umls",
		"Resolve a free-text term to ranked UMLS concepts.",
		s.SearchUMLSTool)

	genkit.DefineTool(g, "get_umls_concept",
		"Get a single UMLS concept by CUI, including MeSH term and synonyms.",
		s.GetUMLSConceptTool)

	genkit.DefineTool(g, "build_query",
		"Build a boolean PubMed query from free text, optionally resolving concept spans against UMLS.",
		s.BuildQueryTool)

	genkit.DefineTool(g, "get_graph_summary",
		"Get counts and breakdowns for the current knowledge graph session.",
		s.GetGraphSummaryTool)

	genkit.DefineTool(g, "expand_graph",
		"Run bounded expansion cycles and return per-cycle reports.",
		s.ExpandGraphTool)

	genkit.DefineTool(g, "save_graph",
		"Write the current graph to a JSON file.",
		s.SaveGraphTool)
}

// Run starts the MCP server
func (s *MCPServer) Run(ctx context.Context) error {
	s.logger.Info("Starting Genkit MCP server", "transport", s.config.Transport)

	g := genkit.Init(ctx)

	s.RegisterTools(g)

	s.logger.Info("MCP server is ready to accept requests")

	<-ctx.Done()
	return ctx.Err()
}

func main() {
	var (
		transport = flag.String("transport", "", "Transport to use (stdio or sse)")
		host      = flag.String("host", "", "Host to bind the MCP server to")
		port      = flag.Int("port", 0, "Port to bind the MCP server to")
		loadPath  = flag.String("load", "", "Resume from a saved graph JSON file")
	)
	flag.Parse()

	mcpCfg := NewMCPConfig()

	if *transport != "" {
		mcpCfg.Transport = *transport
	}
	if *host != "" {
		mcpCfg.Host = *host
	}
	if *port != 0 {
		mcpCfg.Port = *port
	}
	if *loadPath != "" {
		mcpCfg.LoadPath = *loadPath
	}

	server, err := NewMCPServer(mcpCfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx := context.Background()
	if err := server.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize MCP server: %v", err)
	}

	if err := server.Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
