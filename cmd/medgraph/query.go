package medgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundprediction/medgraph/pkg/config"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Build a boolean PubMed query from free text",
	Long: `Build a boolean PubMed query from free text.

With --concepts (the default when a UMLS API key is configured) the text is
tokenized and multi-word spans are resolved against UMLS; resolved spans become
MeSH plus Title/Abstract clauses, unresolved spans fall back to literal
Title/Abstract terms. With --concepts=false the text is passed through
literally, honoring "and"/"or" conjunctions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

var queryUseConcepts bool

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().BoolVar(&queryUseConcepts, "concepts", true, "Resolve spans against UMLS before composing the query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	text := strings.Join(args, " ")
	useConcepts := queryUseConcepts && cfg.UMLS.APIKey != ""
	result, err := client.BuildQuery(ctx, text, useConcepts)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
