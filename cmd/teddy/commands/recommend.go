package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/birddog/teddy/internal/llm"
	"github.com/birddog/teddy/internal/recommend"
	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/database"
	"github.com/birddog/teddy/pkg/httputil"
	"github.com/birddog/teddy/pkg/logger"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend <parcelID>",
	Short: "Generate crop recommendations",
	Long: `Scores candidate crops for one parcel from its rotation history
and regional plantings, and prints the ranked list as JSON.

Example:
  go run ./cmd/teddy recommend 48453-000123
  go run ./cmd/teddy recommend 48453-000123 --county 48453 --state TX
  go run ./cmd/teddy recommend 48453-000123 --enhance`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

var (
	recommendCounty  string
	recommendState   string
	recommendEnhance bool
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	// Flags
	recommendCmd.Flags().StringVar(&recommendCounty, "county", "", "county FIPS code (default inferred from history)")
	recommendCmd.Flags().StringVar(&recommendState, "state", "", "state code (default inferred from history)")
	recommendCmd.Flags().BoolVar(&recommendEnhance, "enhance", false, "add an AI summary of the top picks")
}

func runRecommend(cmd *cobra.Command, args []string) error {
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
	svc := recommend.NewService(adapter, provider, cfg, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	result, err := svc.Generate(ctx, parcelID, recommendCounty, recommendState)
	if err != nil {
		return fmt.Errorf("generate recommendations: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))

	if recommendEnhance {
		if summary := svc.Enhance(ctx, result); summary != "" {
			fmt.Println("\n🤖 AI Summary")
			fmt.Println(summary)
		} else {
			fmt.Println("\n⚠️  AI summary unavailable")
		}
	}
	return nil
}
