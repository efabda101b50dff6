package converter

import (
	"log/slog"

	"github.com/Poltergeist/cardmarket-accounting/pkg/cardmarket"
	"github.com/Poltergeist/cardmarket-accounting/pkg/ledger"
)

// ExpensesDocument validates raw expense rows and collects the resulting
// transactions, in input order. Rows that fail validation are logged and
// skipped; the batch never aborts on a bad row.
func (c *Converter) ExpensesDocument(rows []map[string]string, validator *cardmarket.Validator) *ledger.Document {
	doc := ledger.NewDocument()
	for _, row := range rows {
		record, err := validator.ExpenseRow(row)
		if err != nil {
			slog.Warn("skipping expense row", "error", err, "row", row)
			continue
		}
		doc.AddTransaction(c.ConvertExpense(*record))
	}
	return doc
}

// OrdersDocument converts validated orders into consolidated transactions,
// in input order, skipping orders the builder rejects.
func (c *Converter) OrdersDocument(orders []cardmarket.SaleOrder) *ledger.Document {
	doc := ledger.NewDocument()
	for _, order := range orders {
		if txn := c.ConvertOrder(order); txn != nil {
			doc.AddTransaction(*txn)
		}
	}
	return doc
}
