package converter

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Poltergeist/cardmarket-accounting/pkg/cardmarket"
	"github.com/Poltergeist/cardmarket-accounting/pkg/ledger"
)

// UncategorizedBox attributes article postings that carry no box id in their
// comment.
const UncategorizedBox = "Uncategorized"

// commissionRate is the platform fee per article sale (5%).
var commissionRate = decimal.New(5, -2)

// centTolerance is the accepted drift between summed per-article commissions
// and the order-level commission figure.
var centTolerance = decimal.New(1, -2)

// Converter builds hledger transactions from validated Cardmarket records.
type Converter struct {
	mapper   *Mapper
	currency string
}

// NewConverter creates a new Converter. currency is the fallback for records
// without one; it defaults to EUR.
func NewConverter(mapper *Mapper, currency string) *Converter {
	if currency == "" {
		currency = "EUR"
	}
	return &Converter{
		mapper:   mapper,
		currency: currency,
	}
}

// ConvertExpense builds a two-posting transaction from an expense record.
// The expense account is debited and its receivable account credited, so the
// two postings always sum to zero.
func (c *Converter) ConvertExpense(record cardmarket.ExpenseRecord) ledger.Transaction {
	pair := c.mapper.Lookup(record.Code)

	return ledger.Transaction{
		Date:        record.Date,
		Description: record.Name,
		Postings: []ledger.Posting{
			{
				Account:  pair.Expense,
				Amount:   ledger.Amt(record.Amount),
				Currency: c.currency,
			},
			{
				Account:  pair.Balancing,
				Amount:   ledger.Amt(record.Amount.Neg()),
				Currency: c.currency,
			},
		},
		Tags: []ledger.Tag{
			{Key: "comment", Value: fmt.Sprintf("Code: %s | Timestamp: %s", record.Code, record.Timestamp)},
		},
	}
}

// ConvertOrder builds one consolidated transaction for a sold order and its
// articles: per article a revenue, commission, and receivable posting keyed
// by the article's box id, then two shipping postings, then one balancing
// posting without an amount whose value hledger infers. Orders that violate
// the record invariants yield nil after a logged warning; the caller skips
// them and continues the batch.
func (c *Converter) ConvertOrder(order cardmarket.SaleOrder) *ledger.Transaction {
	if err := cardmarket.CheckOrder(&order); err != nil {
		slog.Warn("skipping order: invalid record",
			"order_id", order.OrderID, "error", err)
		return nil
	}

	txn := ledger.Transaction{
		Date:        order.DateOfPurchase,
		Description: fmt.Sprintf("Cardmarket Sale - %s (%s)", order.Username, order.OrderID),
	}

	commissionTotal := decimal.Zero
	var boxIDs []string
	seenBoxes := map[string]bool{}

	for _, article := range order.Articles {
		boxID := ExtractBoxID(article.Comments)
		if boxID != UncategorizedBox && !seenBoxes[boxID] {
			seenBoxes[boxID] = true
			boxIDs = append(boxIDs, boxID)
		}

		currency := article.Currency
		if currency == "" {
			currency = order.Currency
		}

		commission := article.Total.Mul(commissionRate).RoundCeil(2)
		receivable := article.Total.Sub(commission).Round(2)
		commissionTotal = commissionTotal.Add(commission)

		txn.Postings = append(txn.Postings,
			ledger.Posting{
				Account:  fmt.Sprintf("Revenue:%s:Sales:%s", Namespace, boxID),
				Amount:   ledger.Amt(article.Total.Neg()),
				Currency: currency,
				Comment:  articleComment(article, boxID),
			},
			ledger.Posting{
				Account:  fmt.Sprintf("Expenses:%s:Commission:%s", Namespace, boxID),
				Amount:   ledger.Amt(commission),
				Currency: currency,
			},
			ledger.Posting{
				Account:  fmt.Sprintf("Assets:%s:Receivable:%s", Namespace, boxID),
				Amount:   ledger.Amt(receivable),
				Currency: currency,
			},
		)
	}

	// The order carries its own commission figure. The summed per-article
	// commissions drift from it through rounding; an adjustment posting for
	// the difference is deliberately not emitted.
	if diff := commissionTotal.Sub(order.Commission); diff.Abs().GreaterThan(centTolerance) {
		slog.Debug("per-article commission differs from reported order commission",
			"order_id", order.OrderID,
			"computed", commissionTotal.StringFixed(2),
			"reported", order.Commission.StringFixed(2),
		)
	}

	txn.Postings = append(txn.Postings,
		ledger.Posting{
			Account:  fmt.Sprintf("Revenue:%s:Shipping", Namespace),
			Amount:   ledger.Amt(order.ShipmentCosts.Neg()),
			Currency: order.Currency,
		},
		ledger.Posting{
			Account:  fmt.Sprintf("Assets:%s:Receivable:shipping", Namespace),
			Amount:   ledger.Amt(order.ShipmentCosts),
			Currency: order.Currency,
		},
		// hledger computes this posting's value as the negative sum of the
		// other same-currency postings.
		ledger.Posting{
			Account: fmt.Sprintf("Assets:%s:Receivable", Namespace),
		},
	)

	txn.Tags = []ledger.Tag{
		{Key: "orderId", Value: order.OrderID},
		{Key: "username", Value: order.Username},
		{Key: "country", Value: order.Country},
		{Key: "isProfessional", Value: strconv.FormatBool(order.IsProfessional)},
	}
	if len(boxIDs) > 0 {
		txn.Tags = append(txn.Tags, ledger.Tag{Key: "boxIds", Value: strings.Join(boxIDs, ",")})
	}

	if !txn.Validate() {
		slog.Warn("skipping order: built transaction violates journal invariants",
			"order_id", order.OrderID)
		return nil
	}

	return &txn
}

var boxIDPattern = regexp.MustCompile(`#(\d+)`)

// ExtractBoxID returns the first "#<digits>" token in an article comment, or
// UncategorizedBox when the comment carries none.
func ExtractBoxID(comment string) string {
	if m := boxIDPattern.FindStringSubmatch(comment); m != nil {
		return m[1]
	}
	return UncategorizedBox
}

func articleComment(article cardmarket.Article, boxID string) string {
	var parts []string
	if boxID != UncategorizedBox {
		parts = append(parts, "#"+boxID)
	}
	parts = append(parts,
		fmt.Sprintf("%dx %s", article.Amount, article.Article),
		fmt.Sprintf("for %s", article.Total.StringFixed(2)),
	)
	return strings.Join(parts, " ")
}
