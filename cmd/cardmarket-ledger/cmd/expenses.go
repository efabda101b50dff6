package cmd

import (
	"fmt"
	"log/slog"
	"strings"

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
	expensesCSV    string
	expensesOut    string
	expensesDryRun bool
	expensesForce  bool
)

// expensesCmd represents the expenses command.
var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Import an expenses CSV as hledger transactions",
	Long: `Import the external expenses sheet as two-posting transactions.

Each row's cost code selects the expense account and the receivable account
that balances it. Rows already recorded in the import history are skipped
unless --force is given.

Example:
  cardmarket-ledger expenses --csv expenses.csv --out cardmarket.journal
  cardmarket-ledger expenses --csv expenses.csv --dry-run`,
	Run: runExpenses,
}

func init() {
	expensesCmd.Flags().StringVar(&expensesCSV, "csv", "", "path to expenses CSV file (required)")
	expensesCmd.Flags().StringVar(&expensesOut, "out", "", "journal file to write (default: stdout)")
	expensesCmd.Flags().BoolVar(&expensesDryRun, "dry-run", false, "parse and report without writing output")
	expensesCmd.Flags().BoolVar(&expensesForce, "force", false, "re-import rows already in the import history")

	expensesCmd.MarkFlagRequired("csv")
}

func runExpenses(cmd *cobra.Command, args []string) {
	slog.Info("Starting expense import", "csv", expensesCSV, "out", expensesOut, "dry_run", expensesDryRun)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:   cfg.Ledger.Root,
		DatabasePath: cfg.Ledger.DBPath,
	})

	mapper, err := loadMapper(cfg)
	exitOnError(err, "failed to load account mapping")
	cvtr := converter.NewConverter(mapper, cfg.Currency)

	rows, err := cardmarket.ReadRows(expensesCSV, ',')
	exitOnError(err, "failed to read expenses CSV")
	slog.Info("Parsed expense rows", "count", len(rows))

	// History only applies to journal-file output; stdout and dry runs
	// neither consult nor update it.
	var history *db.ImportHistory
	if expensesOut != "" && !expensesDryRun {
		conn, err := db.Open(pathResolver.GetDatabasePath())
		exitOnError(err, "failed to open database")
		defer conn.Close()
		history = db.NewImportHistory(conn)
	}

	runID := uuid.NewString()
	journalPath := ""
	if expensesOut != "" {
		journalPath = pathResolver.GetJournalPath(expensesOut)
	}

	validator := cardmarket.NewValidator()
	doc := ledger.NewDocument()
	var imported []db.ImportRecord
	skipped := 0

	for _, row := range rows {
		record, err := validator.ExpenseRow(row)
		if err != nil {
			slog.Warn("skipping expense row", "error", err, "row", row)
			continue
		}

		sourceID := expenseSourceID(*record)
		if history != nil && !expensesForce {
			done, err := history.IsImported(db.ImportTypeExpense, sourceID)
			exitOnError(err, "failed to check import history")
			if done {
				skipped++
				continue
			}
		}

		doc.AddTransaction(cvtr.ConvertExpense(*record))
		imported = append(imported, db.ImportRecord{
			ImportType:  db.ImportTypeExpense,
			SourceID:    sourceID,
			EntryDate:   record.Date,
			Amount:      record.Amount.StringFixed(2),
			JournalFile: journalPath,
			RunID:       runID,
		})
	}

	slog.Info("Created transactions", "count", doc.Len(), "skipped", skipped)

	if expensesDryRun {
		slog.Info("Dry run complete - no output written")
		fmt.Println("\nSample transactions:")
		fmt.Println(sampleTransactions(doc, 2))
		return
	}

	if expensesOut == "" {
		fmt.Println(doc.String())
		return
	}

	repo := ledger.NewFileSystemRepository()
	err = repo.AppendDocument(journalPath, doc)
	exitOnError(err, "failed to write journal file")

	for _, record := range imported {
		if err := history.RecordImport(record); err != nil {
			slog.Error("Failed to record import", "source_id", record.SourceID, "error", err)
		}
	}

	slog.Info("Expense import completed", "journal", journalPath, "transactions", doc.Len())
}

// expenseSourceID derives a stable history key for an expense row, which has
// no id of its own in the sheet.
func expenseSourceID(record cardmarket.ExpenseRecord) string {
	return fmt.Sprintf("%s|%s|%s", record.Timestamp, record.Code, record.Amount.StringFixed(2))
}

func sampleTransactions(doc *ledger.Document, n int) string {
	parts := strings.Split(doc.String(), "\n\n")
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.Join(parts, "\n\n")
}

func loadMapper(cfg *config.Config) (*converter.Mapper, error) {
	if cfg.Ledger.MappingFile != "" {
		return converter.NewMapperFromFile(cfg.Ledger.MappingFile)
	}
	return converter.NewMapper(), nil
}
