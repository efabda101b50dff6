package ledger

import "strings"

// Document is an ordered, append-only collection of transactions produced by
// one conversion run. It never reorders or deduplicates.
type Document struct {
	transactions []Transaction
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{}
}

// AddTransaction appends a transaction in call order.
func (d *Document) AddTransaction(t Transaction) {
	d.transactions = append(d.transactions, t)
}

// Transactions returns the transactions in insertion order. The returned
// slice must not be modified.
func (d *Document) Transactions() []Transaction {
	return d.transactions
}

// Len returns the number of transactions in the document.
func (d *Document) Len() int {
	return len(d.transactions)
}

// String renders the document in hledger journal syntax. Transactions are
// separated by exactly one blank line; an empty document renders as the
// empty string.
func (d *Document) String() string {
	parts := make([]string, 0, len(d.transactions))
	for _, t := range d.transactions {
		parts = append(parts, formatTransaction(t))
	}
	return strings.Join(parts, "\n\n")
}

func formatTransaction(t Transaction) string {
	var sb strings.Builder

	sb.WriteString(t.Date)
	sb.WriteString(" ")
	sb.WriteString(t.Description)

	for _, p := range t.Postings {
		sb.WriteString("\n    ")
		sb.WriteString(p.Account)
		if p.Amount != nil {
			sb.WriteString("  ")
			sb.WriteString(p.Amount.StringFixed(2))
			if p.Currency != "" {
				sb.WriteString(" ")
				sb.WriteString(p.Currency)
			}
		}
		if p.Comment != "" {
			sb.WriteString("  ; ")
			sb.WriteString(p.Comment)
		}
	}

	for _, tag := range t.Tags {
		sb.WriteString("\n    ; ")
		sb.WriteString(tag.Key)
		sb.WriteString(": ")
		sb.WriteString(tag.Value)
	}

	return sb.String()
}
