package medgraph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soundprediction/medgraph/pkg/config"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the graph summary",
	Long: `Print node/edge counts, the depth histogram, and the category and
relationship-type breakdowns. With --load the summary describes a previously
saved graph; otherwise it describes a fresh session holding only the seeds.`,
	RunE: runSummary,
}

var summaryLoad string

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryLoad, "load", "", "Read the graph from a saved JSON file")
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	if summaryLoad != "" {
		if err := client.Load(summaryLoad); err != nil {
			return fmt.Errorf("failed to load graph: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(client.Summary())
}
