package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Poltergeist/cardmarket-accounting/pkg/config"
	"github.com/Poltergeist/cardmarket-accounting/pkg/db"
	"github.com/Poltergeist/cardmarket-accounting/pkg/pathutil"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display import statistics",
	Long: `Display statistics about imported orders and expenses.

Shows:
- Total number of imported orders
- Total number of imported expense rows
- Last import timestamp

Example:
  cardmarket-ledger stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("ledger.root"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:   cfg.Ledger.Root,
		DatabasePath: cfg.Ledger.DBPath,
	})

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewImportHistory(conn)

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Import Statistics ===")
	fmt.Printf("Total imported orders:   %d\n", stats.TotalOrders)
	fmt.Printf("Total imported expenses: %d\n", stats.TotalExpenses)

	if stats.LastImport.Valid {
		fmt.Printf("Last import:             %s\n", stats.LastImport.String)
	} else {
		fmt.Printf("Last import:             (never)\n")
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
