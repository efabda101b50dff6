package cmd

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Poltergeist/cardmarket-accounting/pkg/cardmarket"
	"github.com/Poltergeist/cardmarket-accounting/pkg/config"
	"github.com/Poltergeist/cardmarket-accounting/pkg/pathutil"
)

var (
	splitOrdersCSV string
	splitOrdersDir string
)

// splitOrdersCmd represents the split-orders command.
var splitOrdersCmd = &cobra.Command{
	Use:   "split-orders",
	Short: "Split a Cardmarket sold-orders CSV into per-order JSON files",
	Long: `Split the semicolon-delimited sold-orders export into one JSON file
per order, named <OrderID>.json, for the generate command to consume.

Example:
  cardmarket-ledger split-orders --csv orders.csv --out-dir ./orders`,
	Run: runSplitOrders,
}

func init() {
	splitOrdersCmd.Flags().StringVar(&splitOrdersCSV, "csv", "", "path to sold-orders CSV file (required)")
	splitOrdersCmd.Flags().StringVar(&splitOrdersDir, "out-dir", "", "output directory (default: <ledger root>/orders)")

	splitOrdersCmd.MarkFlagRequired("csv")
}

func runSplitOrders(cmd *cobra.Command, args []string) {
	slog.Info("Splitting orders CSV", "csv", splitOrdersCSV)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:   cfg.Ledger.Root,
		DatabasePath: cfg.Ledger.DBPath,
	})

	outDir := splitOrdersDir
	if outDir == "" {
		outDir = pathResolver.GetOrdersDir()
	}
	exitOnError(pathResolver.EnsureDir(outDir), "failed to create output directory")

	rows, err := cardmarket.ReadRows(splitOrdersCSV, ';')
	exitOnError(err, "failed to read orders CSV")

	validator := cardmarket.NewValidator()
	written := 0

	for _, row := range rows {
		order, err := validator.OrderRow(row)
		if err != nil {
			slog.Warn("skipping order row", "error", err, "row", row)
			continue
		}

		data, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			slog.Warn("skipping order: failed to marshal", "order_id", order.OrderID, "error", err)
			continue
		}

		path := filepath.Join(outDir, order.OrderID+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			slog.Error("Failed to write order file", "path", path, "error", err)
			continue
		}
		written++
	}

	slog.Info("Orders split completed", "rows", len(rows), "written", written, "out_dir", outDir)
}
