package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "teddy",
	Short: "Teddy - property intelligence service",
	Long: `Teddy Unified CLI

AI-assisted land intelligence over the analytical warehouse.
Serves property insights, search, crop recommendations and chat.

Usage:
  go run ./cmd/teddy [command]

Examples:
  go run ./cmd/teddy api
  go run ./cmd/teddy insight 48453-000123
  go run ./cmd/teddy recommend 48453-000123
  go run ./cmd/teddy status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
