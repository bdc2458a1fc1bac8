package medgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soundprediction/medgraph/pkg/config"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Run expansion cycles and print the resulting graph summary",
	Long: `Run bounded expansion cycles against the live UMLS and PubMed services.

Each cycle selects the unexpanded frontier, builds a boolean query per frontier
node, fetches literature evidence, and admits candidate concepts that clear the
citation threshold. Expansion stops at the configured cycle limit, when the
graph caps are reached, or when a cycle admits nothing new.`,
	RunE: runExpand,
}

var (
	expandCycles  int
	expandLoad    string
	expandSave    string
	expandParquet bool
	expandNeo4j   bool
)

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().IntVar(&expandCycles, "cycles", 0, "Number of cycles to run (0 = configured maximum)")
	expandCmd.Flags().StringVar(&expandLoad, "load", "", "Resume from a saved graph JSON file")
	expandCmd.Flags().StringVar(&expandSave, "save", "", "Write the resulting graph to a JSON file")
	expandCmd.Flags().BoolVar(&expandParquet, "parquet", false, "Write node/edge/evidence parquet tables to the export directory")
	expandCmd.Flags().BoolVar(&expandNeo4j, "neo4j", false, "Push the resulting graph to the configured Neo4j instance")
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if expandCycles > 0 {
		cfg.Expansion.MaxCycles = expandCycles
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	client, err := initClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Medgraph: %w", err)
	}
	defer client.Close()

	if expandLoad != "" {
		if err := client.Load(expandLoad); err != nil {
			return fmt.Errorf("failed to load graph: %w", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reports, err := client.Expand(ctx)
	if err != nil {
		return fmt.Errorf("expansion failed: %w", err)
	}

	out := map[string]any{
		"session_id": client.SessionID(),
		"reports":    reports,
		"summary":    client.Summary(),
	}

	if expandSave != "" {
		if err := client.Save(expandSave); err != nil {
			return fmt.Errorf("failed to save graph: %w", err)
		}
		out["saved"] = expandSave
	}
	if expandParquet {
		paths, err := client.ExportParquet(cfg.Export.OutputDir)
		if err != nil {
			return fmt.Errorf("parquet export failed: %w", err)
		}
		out["parquet"] = paths
	}
	if expandNeo4j {
		if err := client.ExportNeo4j(ctx); err != nil {
			return fmt.Errorf("neo4j export failed: %w", err)
		}
		out["neo4j"] = cfg.Export.Neo4jURI
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
