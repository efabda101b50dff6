// Package ledger provides the transaction model and plain-text serialization
// for hledger journal files.
package ledger

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Transaction represents a single hledger transaction.
type Transaction struct {
	Date        string // YYYY-MM-DD or YYYY/MM/DD
	Description string
	Postings    []Posting // order is preserved in output
	Tags        []Tag     // rendered as comment lines after the postings
}

// Posting represents one account line in a transaction. Amount may be nil:
// such a posting carries no explicit amount and hledger computes its value as
// the negative sum of the other same-currency postings. At most one posting
// per transaction may elide its amount.
type Posting struct {
	Account  string // hierarchical, colon-separated (e.g. "Assets:Cardmarket:Receivable")
	Amount   *decimal.Decimal
	Currency string // 3-letter code, empty when Amount is nil
	Comment  string // optional
}

// Tag is a key/value annotation attached to a transaction. Tags keep their
// append order so serialization stays deterministic.
type Tag struct {
	Key   string
	Value string
}

// Amt is a convenience constructor for posting amounts.
func Amt(d decimal.Decimal) *decimal.Decimal {
	return &d
}

var dateFormat = regexp.MustCompile(`^\d{4}[/-]\d{2}[/-]\d{2}$`)

// Validate reports whether a transaction satisfies the journal invariants:
// a well-formed date, a description, at least two postings, and at most one
// posting without an explicit amount.
func (t Transaction) Validate() bool {
	if t.Description == "" || len(t.Postings) < 2 {
		return false
	}
	if !dateFormat.MatchString(t.Date) {
		return false
	}
	elided := 0
	for _, p := range t.Postings {
		if p.Account == "" {
			return false
		}
		if p.Amount == nil {
			elided++
		}
	}
	return elided <= 1
}
