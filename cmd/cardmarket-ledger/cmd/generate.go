package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Poltergeist/cardmarket-accounting/pkg/cardmarket"
	"github.com/Poltergeist/cardmarket-accounting/pkg/config"
	"github.com/Poltergeist/cardmarket-accounting/pkg/converter"
	"github.com/Poltergeist/cardmarket-accounting/pkg/db"
	"github.com/Poltergeist/cardmarket-accounting/pkg/ledger"
	"github.com/Poltergeist/cardmarket-accounting/pkg/pathutil"
)

var (
	generateOrdersDir   string
	generateArticlesDir string
	generateOut         string
	generateDryRun      bool
	generateForce       bool
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate consolidated sale transactions from per-order JSON",
	Long: `Read per-order JSON files (written by split-orders and
split-articles), attach each order's articles, and append one consolidated
transaction per order to the journal.

Orders already recorded in the import history are skipped unless --force is
given. Orders with missing or invalid files are skipped with a warning; the
batch continues.

Example:
  cardmarket-ledger generate --orders ./orders --articles ./articles
  cardmarket-ledger generate --dry-run`,
	Run: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateOrdersDir, "orders", "", "directory of per-order JSON files (default: <ledger root>/orders)")
	generateCmd.Flags().StringVar(&generateArticlesDir, "articles", "", "directory of per-order article JSON files (default: <ledger root>/articles)")
	generateCmd.Flags().StringVar(&generateOut, "out", "cardmarket.journal", "journal file to append to")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print transactions without writing")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "re-import orders already in the import history")
}

func runGenerate(cmd *cobra.Command, args []string) {
	slog.Info("Starting ledger generation", "dry_run", generateDryRun)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:   cfg.Ledger.Root,
		DatabasePath: cfg.Ledger.DBPath,
	})

	ordersDir := generateOrdersDir
	if ordersDir == "" {
		ordersDir = pathResolver.GetOrdersDir()
	}
	articlesDir := generateArticlesDir
	if articlesDir == "" {
		articlesDir = pathResolver.GetArticlesDir()
	}

	mapper, err := loadMapper(cfg)
	exitOnError(err, "failed to load account mapping")
	cvtr := converter.NewConverter(mapper, cfg.Currency)

	var history *db.ImportHistory
	if !generateDryRun {
		conn, err := db.Open(pathResolver.GetDatabasePath())
		exitOnError(err, "failed to open database")
		defer conn.Close()
		history = db.NewImportHistory(conn)
	}

	orders, total := loadOrders(ordersDir, articlesDir)
	slog.Info("Loaded and validated orders", "total", total, "valid", len(orders))

	journalPath := pathResolver.GetJournalPath(generateOut)
	runID := uuid.NewString()

	doc := ledger.NewDocument()
	var imported []db.ImportRecord
	skipped := 0

	for _, order := range orders {
		if history != nil && !generateForce {
			done, err := history.IsImported(db.ImportTypeOrder, order.OrderID)
			exitOnError(err, "failed to check import history")
			if done {
				skipped++
				continue
			}
		}

		txn := cvtr.ConvertOrder(order)
		if txn == nil {
			continue
		}

		doc.AddTransaction(*txn)
		imported = append(imported, db.ImportRecord{
			ImportType:  db.ImportTypeOrder,
			SourceID:    order.OrderID,
			EntryDate:   order.DateOfPurchase,
			Amount:      order.TotalValue.StringFixed(2),
			JournalFile: journalPath,
			RunID:       runID,
		})
	}

	slog.Info("Created transactions", "count", doc.Len(), "skipped", skipped)

	if generateDryRun {
		fmt.Printf("[DRY RUN] Would append %d transactions to %s\n\n", doc.Len(), journalPath)
		fmt.Println(doc.String())
		return
	}

	if doc.Len() == 0 {
		fmt.Println("No new orders to import")
		return
	}

	repo := ledger.NewFileSystemRepository()
	err = repo.AppendDocument(journalPath, doc)
	exitOnError(err, "failed to write journal file")

	for _, record := range imported {
		if err := history.RecordImport(record); err != nil {
			slog.Error("Failed to record import", "order_id", record.SourceID, "error", err)
		}
	}

	slog.Info("Ledger generation completed",
		"journal", journalPath,
		"transactions", doc.Len(),
		"skipped", skipped,
	)
}

// loadOrders reads every order JSON file in ordersDir, attaches the matching
// article file from articlesDir, and returns the orders that validate, in
// file-name order. Returns the valid orders and the total file count.
func loadOrders(ordersDir, articlesDir string) ([]cardmarket.SaleOrder, int) {
	entries, err := os.ReadDir(ordersDir)
	exitOnError(err, "failed to read orders directory")

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var orders []cardmarket.SaleOrder
	for _, name := range names {
		order, err := loadOrder(ordersDir, articlesDir, name)
		if err != nil {
			slog.Warn("skipping order file", "file", name, "error", err)
			continue
		}
		orders = append(orders, *order)
	}

	return orders, len(names)
}

func loadOrder(ordersDir, articlesDir, name string) (*cardmarket.SaleOrder, error) {
	data, err := os.ReadFile(filepath.Join(ordersDir, name))
	if err != nil {
		return nil, fmt.Errorf("order file reading: %w", err)
	}

	var order cardmarket.SaleOrder
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("order file parsing: %w", err)
	}

	articleData, err := os.ReadFile(filepath.Join(articlesDir, name))
	if err != nil {
		return nil, fmt.Errorf("articles file reading: %w", err)
	}

	if err := json.Unmarshal(articleData, &order.Articles); err != nil {
		return nil, fmt.Errorf("articles file parsing: %w", err)
	}

	if err := cardmarket.CheckOrder(&order); err != nil {
		return nil, fmt.Errorf("order validation: %w", err)
	}

	return &order, nil
}
