package cardmarket

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validator turns raw header-keyed rows into typed records. A malformed row
// yields a nil record and an error describing the mismatch; the caller logs
// the warning and continues the batch. Validator never aborts a batch.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a Validator using the wall clock for the expense-row
// date fallback.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// WithNow overrides the clock for testing.
func (v *Validator) WithNow(now func() time.Time) *Validator {
	if now != nil {
		v.now = now
	}
	return v
}

// ExpenseRow parses one row of the expenses sheet. Required fields are Code,
// Amount and Datum. An unparseable Datum does not reject the row: the current
// date is substituted and the fallback is logged. That behaviour is specific
// to expense rows; order and article rows reject bad dates instead.
func (v *Validator) ExpenseRow(row map[string]string) (*ExpenseRecord, error) {
	if row["Code"] == "" || row["Amount"] == "" || row["Datum"] == "" {
		return nil, fmt.Errorf("missing required fields (Code, Amount, Datum)")
	}

	amount, err := parseAmount(row["Amount"])
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", row["Amount"], err)
	}

	date, err := parseDate(row["Datum"])
	if err != nil {
		date = v.now().Format("2006-01-02")
		slog.Warn("failed to parse expense date, using current date",
			"datum", row["Datum"], "substituted", date)
	}

	name := row["Name"]
	if name == "" {
		name = "Unknown"
	}

	return &ExpenseRecord{
		Timestamp: row["Timestamp"],
		Name:      name,
		Code:      row["Code"],
		Amount:    amount,
		Date:      date,
		Comment:   row["Kommentar"],
	}, nil
}

// OrderRow parses one row of the sold-orders export.
func (v *Validator) OrderRow(row map[string]string) (*SaleOrder, error) {
	if row["OrderID"] == "" || row["Currency"] == "" || row["Date of Purchase"] == "" {
		return nil, fmt.Errorf("missing required fields (OrderID, Currency, Date of Purchase)")
	}

	date, err := parseDate(row["Date of Purchase"])
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date %q: %w", row["Date of Purchase"], err)
	}

	order := &SaleOrder{
		OrderID:        row["OrderID"],
		Username:       row["Username"],
		Name:           row["Name"],
		Street:         row["Street"],
		City:           row["City"],
		Country:        row["Country"],
		IsProfessional: parseBool(row["Is Professional"]),
		VATNumber:      row["VAT Number"],
		DateOfPurchase: date,
		Currency:       row["Currency"],
		Description:    row["Description"],
	}

	for _, f := range []struct {
		field string
		dst   *decimal.Decimal
	}{
		{"Merchandise Value", &order.MerchandiseValue},
		{"Shipment Costs", &order.ShipmentCosts},
		{"Total Value", &order.TotalValue},
		{"Commission", &order.Commission},
	} {
		val, err := parseAmount(row[f.field])
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", f.field, row[f.field], err)
		}
		*f.dst = val
	}

	if row["Article Count"] != "" {
		count, err := strconv.Atoi(strings.TrimSpace(row["Article Count"]))
		if err != nil {
			return nil, fmt.Errorf("invalid Article Count %q: %w", row["Article Count"], err)
		}
		order.ArticleCount = count
	}

	return order, nil
}

// ArticleRow parses one row of the sold-articles export.
func (v *Validator) ArticleRow(row map[string]string) (*Article, error) {
	if row["Shipment nr."] == "" || row["Article"] == "" {
		return nil, fmt.Errorf("missing required fields (Shipment nr., Article)")
	}

	date, err := parseDate(row["Date of purchase"])
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date %q: %w", row["Date of purchase"], err)
	}

	quantity := 1
	if row["Amount"] != "" {
		quantity, err = strconv.Atoi(strings.TrimSpace(row["Amount"]))
		if err != nil {
			return nil, fmt.Errorf("invalid Amount %q: %w", row["Amount"], err)
		}
	}

	value, err := parseAmount(row["Article Value"])
	if err != nil {
		return nil, fmt.Errorf("invalid Article Value %q: %w", row["Article Value"], err)
	}

	total, err := parseAmount(row["Total"])
	if err != nil {
		return nil, fmt.Errorf("invalid Total %q: %w", row["Total"], err)
	}

	return &Article{
		ShipmentNr:     row["Shipment nr."],
		DateOfPurchase: date,
		Article:        row["Article"],
		ProductID:      row["Product ID"],
		LocalizedName:  row["Localized Product Name"],
		Expansion:      row["Expansion"],
		Category:       row["Category"],
		Amount:         quantity,
		ArticleValue:   value,
		Total:          total,
		Currency:       row["Currency"],
		Comments:       row["Comments"],
	}, nil
}

// CheckOrder verifies the invariants the transaction builder relies on for
// orders parsed from JSON rather than CSV rows, and normalizes the purchase
// date to YYYY-MM-DD in place.
func CheckOrder(order *SaleOrder) error {
	if order.OrderID == "" {
		return fmt.Errorf("missing OrderID")
	}
	if order.Currency == "" {
		return fmt.Errorf("missing Currency")
	}
	date, err := parseDate(order.DateOfPurchase)
	if err != nil {
		return fmt.Errorf("invalid purchase date %q: %w", order.DateOfPurchase, err)
	}
	order.DateOfPurchase = date
	return nil
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// parseAmount normalizes a localized amount string to a decimal. German
// exports use "," as the decimal separator; currency symbols and grouping
// characters are stripped before parsing.
func parseAmount(s string) (decimal.Decimal, error) {
	normalized := nonNumeric.ReplaceAllString(strings.ReplaceAll(s, ",", "."), "")
	if normalized == "" {
		return decimal.Zero, fmt.Errorf("not a number")
	}
	return decimal.NewFromString(normalized)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"2.1.2006",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	time.RFC3339,
}

// parseDate coerces a locale date string to YYYY-MM-DD.
func parseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date format")
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
