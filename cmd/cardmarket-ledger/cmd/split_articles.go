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
	splitArticlesCSV string
	splitArticlesDir string
)

// splitArticlesCmd represents the split-articles command.
var splitArticlesCmd = &cobra.Command{
	Use:   "split-articles",
	Short: "Split a Cardmarket sold-articles CSV into per-order JSON files",
	Long: `Split the semicolon-delimited sold-articles export into one JSON
array per order, grouped by the "Shipment nr." column and named
<order id>.json, matching the files written by split-orders.

Example:
  cardmarket-ledger split-articles --csv articles.csv --out-dir ./articles`,
	Run: runSplitArticles,
}

func init() {
	splitArticlesCmd.Flags().StringVar(&splitArticlesCSV, "csv", "", "path to sold-articles CSV file (required)")
	splitArticlesCmd.Flags().StringVar(&splitArticlesDir, "out-dir", "", "output directory (default: <ledger root>/articles)")

	splitArticlesCmd.MarkFlagRequired("csv")
}

func runSplitArticles(cmd *cobra.Command, args []string) {
	slog.Info("Splitting articles CSV", "csv", splitArticlesCSV)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:   cfg.Ledger.Root,
		DatabasePath: cfg.Ledger.DBPath,
	})

	outDir := splitArticlesDir
	if outDir == "" {
		outDir = pathResolver.GetArticlesDir()
	}
	exitOnError(pathResolver.EnsureDir(outDir), "failed to create output directory")

	rows, err := cardmarket.ReadRows(splitArticlesCSV, ';')
	exitOnError(err, "failed to read articles CSV")

	validator := cardmarket.NewValidator()
	grouped := make(map[string][]cardmarket.Article)
	var orderIDs []string

	for _, row := range rows {
		article, err := validator.ArticleRow(row)
		if err != nil {
			slog.Warn("skipping article row", "error", err, "row", row)
			continue
		}

		if _, ok := grouped[article.ShipmentNr]; !ok {
			orderIDs = append(orderIDs, article.ShipmentNr)
		}
		grouped[article.ShipmentNr] = append(grouped[article.ShipmentNr], *article)
	}

	written := 0
	for _, id := range orderIDs {
		data, err := json.MarshalIndent(grouped[id], "", "  ")
		if err != nil {
			slog.Warn("skipping article group: failed to marshal", "order_id", id, "error", err)
			continue
		}

		path := filepath.Join(outDir, id+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			slog.Error("Failed to write articles file", "path", path, "error", err)
			continue
		}
		written++
	}

	slog.Info("Articles split completed", "rows", len(rows), "orders", len(orderIDs), "written", written, "out_dir", outDir)
}
