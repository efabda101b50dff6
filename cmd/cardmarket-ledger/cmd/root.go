// Package cmd provides CLI commands for cardmarket-ledger.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cardmarket-ledger",
	Short: "Convert Cardmarket exports to hledger transactions",
	Long: `cardmarket-ledger converts Cardmarket marketplace exports (sold
orders, sold articles, and an external expenses sheet) into balanced
double-entry transactions in an hledger journal.

It supports:
- Importing an expenses CSV as two-posting transactions
- Splitting order and article CSV exports into per-order JSON
- Generating consolidated sale transactions from the JSON orders
- Preventing duplicate imports with SQLite history
- Dry-run mode for testing

Example:
  cardmarket-ledger expenses --csv expenses.csv --out cardmarket.journal
  cardmarket-ledger generate --orders ./orders --articles ./articles`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(expensesCmd)
	rootCmd.AddCommand(splitOrdersCmd)
	rootCmd.AddCommand(splitArticlesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statsCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
