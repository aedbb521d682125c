package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/birddog/teddy/internal/insight"
	"github.com/birddog/teddy/internal/llm"
	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/database"
	"github.com/birddog/teddy/pkg/httputil"
	"github.com/birddog/teddy/pkg/logger"
)

// insightCmd represents the insight command
var insightCmd = &cobra.Command{
	Use:   "insight <parcelID>",
	Short: "Generate a property insight",
	Long: `Runs the full insight pipeline for one parcel and prints the
result as JSON.

This command:
- Fetches all data categories from the warehouse
- Scores the property
- Calls the configured LLM for the analysis

Example:
  go run ./cmd/teddy insight 48453-000123
  go run ./cmd/teddy insight 48453-000123 --timeout 2m`,
	Args: cobra.ExactArgs(1),
	RunE: runInsight,
}

var (
	insightTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(insightCmd)

	// Flags
	insightCmd.Flags().DurationVar(&insightTimeout, "timeout", 90*time.Second, "overall pipeline timeout")
}

func runInsight(cmd *cobra.Command, args []string) error {
	parcelID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to warehouse: %w", err)
	}
	defer db.Close()

	httpClient := httputil.New(cfg, log)
	provider, err := llm.NewFromConfig(cmd.Context(), cfg, log, httpClient)
	if err != nil {
		return fmt.Errorf("create llm provider: %w", err)
	}

	adapter := warehouse.NewAdapter(db.Pool, log)
	svc := insight.NewService(adapter, provider, cfg, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), insightTimeout)
	defer cancel()

	result, err := svc.GetPropertyInsights(ctx, parcelID)
	if err != nil {
		return fmt.Errorf("insight pipeline: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))

	if result.AnalysisUnavailable {
		fmt.Println("\n⚠️  AI analysis was unavailable, result is data-only")
	}
	return nil
}
