package medgraph

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/medgraph/pkg/config"
	"github.com/soundprediction/medgraph/pkg/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Medgraph HTTP server",
	Long: `Start the Medgraph HTTP server to provide REST API access to the knowledge graph.

The server provides endpoints for:
- Inspecting and validating graph nodes
- UMLS and PubMed search
- Boolean query construction
- Triggering expansion cycles
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Collaborator flags
	serverCmd.Flags().String("umls-api-key", "", "UMLS API key (default from UMLS_API_KEY)")
	serverCmd.Flags().String("umls-cache-path", "", "Path to the on-disk UMLS response cache")
	serverCmd.Flags().String("pubmed-email", "", "Contact email sent with NCBI requests")
	serverCmd.Flags().String("pubmed-api-key", "", "NCBI API key (raises the rate limit)")

	// Graph constraint flags
	serverCmd.Flags().Int("max-depth", 0, "Maximum node depth from any seed")
	serverCmd.Flags().Int("max-nodes", 0, "Maximum node count for the session")
	serverCmd.Flags().Int("min-citations", 0, "Minimum evidence items per admitted edge")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry (expansion errors)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)

	// Validate configuration
	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	fmt.Println("Initializing Medgraph...")
	client, err := initClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Medgraph: %w", err)
	}
	defer client.Close()

	// Create and setup server
	srv := server.New(cfg, client)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Shutdown server
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Collaborator flags
	if cmd.Flags().Changed("umls-api-key") {
		cfg.UMLS.APIKey, _ = cmd.Flags().GetString("umls-api-key")
	}
	if cmd.Flags().Changed("umls-cache-path") {
		cfg.UMLS.CachePath, _ = cmd.Flags().GetString("umls-cache-path")
	}
	if cmd.Flags().Changed("pubmed-email") {
		cfg.PubMed.Email, _ = cmd.Flags().GetString("pubmed-email")
	}
	if cmd.Flags().Changed("pubmed-api-key") {
		cfg.PubMed.APIKey, _ = cmd.Flags().GetString("pubmed-api-key")
	}

	// Graph constraint flags
	if cmd.Flags().Changed("max-depth") {
		cfg.Graph.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
	}
	if cmd.Flags().Changed("max-nodes") {
		cfg.Graph.MaxNodes, _ = cmd.Flags().GetInt("max-nodes")
	}
	if cmd.Flags().Changed("min-citations") {
		cfg.Graph.MinCitations, _ = cmd.Flags().GetInt("min-citations")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Graph.MaxDepth < 0 || cfg.Graph.MaxNodes <= 0 {
		return fmt.Errorf("invalid graph constraints: max_depth=%d max_nodes=%d", cfg.Graph.MaxDepth, cfg.Graph.MaxNodes)
	}
	return nil
}
