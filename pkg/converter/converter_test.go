package converter

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Poltergeist/cardmarket-accounting/pkg/cardmarket"
	"github.com/Poltergeist/cardmarket-accounting/pkg/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testOrder() cardmarket.SaleOrder {
	return cardmarket.SaleOrder{
		OrderID:          "ORDER123",
		Username:         "testuser",
		Name:             "Test User",
		Country:          "Germany",
		IsProfessional:   false,
		DateOfPurchase:   "2024-01-15",
		ArticleCount:     2,
		MerchandiseValue: dec("25.50"),
		ShipmentCosts:    dec("5.00"),
		TotalValue:       dec("30.50"),
		Commission:       dec("2.55"),
		Currency:         "EUR",
		Articles: []cardmarket.Article{
			{
				ShipmentNr:     "ORDER123",
				DateOfPurchase: "2024-01-15",
				Article:        "Lightning Bolt",
				ProductID:      "MTG123",
				Expansion:      "Alpha",
				Category:       "Magic Single",
				Amount:         1,
				ArticleValue:   dec("15.00"),
				Total:          dec("15.00"),
				Currency:       "EUR",
				Comments:       "Near Mint condition",
			},
			{
				ShipmentNr:     "ORDER123",
				DateOfPurchase: "2024-01-15",
				Article:        "Black Lotus",
				ProductID:      "MTG456",
				Expansion:      "Alpha",
				Category:       "Magic Single",
				Amount:         1,
				ArticleValue:   dec("10.50"),
				Total:          dec("10.50"),
				Currency:       "EUR",
				Comments:       "Played condition",
			},
		},
	}
}

func findPosting(t *testing.T, postings []ledger.Posting, account string) ledger.Posting {
	t.Helper()
	for _, p := range postings {
		if p.Account == account {
			return p
		}
	}
	t.Fatalf("posting %q not found", account)
	return ledger.Posting{}
}

func assertAmount(t *testing.T, p ledger.Posting, want string) {
	t.Helper()
	if p.Amount == nil {
		t.Fatalf("posting %s has no amount, expected %s", p.Account, want)
	}
	if !p.Amount.Equal(dec(want)) {
		t.Errorf("posting %s amount = %s, expected %s", p.Account, p.Amount, want)
	}
}

func TestConvertOrder(t *testing.T) {
	cvtr := NewConverter(NewMapper(), "EUR")

	txn := cvtr.ConvertOrder(testOrder())
	if txn == nil {
		t.Fatal("ConvertOrder() returned nil for a valid order")
	}

	if txn.Date != "2024-01-15" {
		t.Errorf("date = %q, expected 2024-01-15", txn.Date)
	}
	if txn.Description != "Cardmarket Sale - testuser (ORDER123)" {
		t.Errorf("description = %q", txn.Description)
	}
	// 3 postings per article + 2 shipping + 1 balancing.
	if len(txn.Postings) != 9 {
		t.Fatalf("got %d postings, expected 9", len(txn.Postings))
	}

	// No box id in either comment, so everything lands in Uncategorized.
	var revenues, commissions, receivables []ledger.Posting
	for _, p := range txn.Postings {
		switch p.Account {
		case "Revenue:Cardmarket:Sales:Uncategorized":
			revenues = append(revenues, p)
		case "Expenses:Cardmarket:Commission:Uncategorized":
			commissions = append(commissions, p)
		case "Assets:Cardmarket:Receivable:Uncategorized":
			receivables = append(receivables, p)
		}
	}
	if len(revenues) != 2 || len(commissions) != 2 || len(receivables) != 2 {
		t.Fatalf("got %d revenue, %d commission, %d receivable postings, expected 2 each",
			len(revenues), len(commissions), len(receivables))
	}

	assertAmount(t, revenues[0], "-15.00")
	assertAmount(t, revenues[1], "-10.50")
	if !strings.Contains(revenues[0].Comment, "Lightning Bolt") {
		t.Errorf("revenue comment = %q, expected article name", revenues[0].Comment)
	}

	// 5% commission, rounded up to the cent.
	assertAmount(t, commissions[0], "0.75")
	assertAmount(t, commissions[1], "0.53")

	// Receivable = total - commission.
	assertAmount(t, receivables[0], "14.25")
	assertAmount(t, receivables[1], "9.97")

	shippingRevenue := findPosting(t, txn.Postings, "Revenue:Cardmarket:Shipping")
	assertAmount(t, shippingRevenue, "-5.00")
	if shippingRevenue.Currency != "EUR" {
		t.Errorf("shipping revenue currency = %q", shippingRevenue.Currency)
	}
	assertAmount(t, findPosting(t, txn.Postings, "Assets:Cardmarket:Receivable:shipping"), "5.00")

	// The final posting balances the transaction and carries no amount.
	last := txn.Postings[len(txn.Postings)-1]
	if last.Account != "Assets:Cardmarket:Receivable" {
		t.Errorf("last posting account = %q", last.Account)
	}
	if last.Amount != nil {
		t.Errorf("balancing posting has explicit amount %s", last.Amount)
	}

	wantTags := []ledger.Tag{
		{Key: "orderId", Value: "ORDER123"},
		{Key: "username", Value: "testuser"},
		{Key: "country", Value: "Germany"},
		{Key: "isProfessional", Value: "false"},
	}
	if len(txn.Tags) != len(wantTags) {
		t.Fatalf("got %d tags, expected %d", len(txn.Tags), len(wantTags))
	}
	for i, want := range wantTags {
		if txn.Tags[i] != want {
			t.Errorf("tag[%d] = %v, expected %v", i, txn.Tags[i], want)
		}
	}
}

func TestConvertOrderBalances(t *testing.T) {
	cvtr := NewConverter(NewMapper(), "EUR")
	txn := cvtr.ConvertOrder(testOrder())
	if txn == nil {
		t.Fatal("ConvertOrder() returned nil")
	}

	// The sum of all explicit amounts plus the implied value of the single
	// amount-less posting must be zero; here every explicit amount is EUR,
	// so the explicit sum itself must be zero.
	sum := decimal.Zero
	for _, p := range txn.Postings {
		if p.Amount != nil {
			sum = sum.Add(*p.Amount)
		}
	}
	if !sum.IsZero() {
		t.Errorf("explicit postings sum to %s, expected 0.00", sum)
	}
}

func TestConvertOrderBoxIDs(t *testing.T) {
	order := testOrder()
	order.Articles[0].Comments = "Near Mint #401 #101"
	order.Articles[1].Comments = "Played #205"

	cvtr := NewConverter(NewMapper(), "EUR")
	txn := cvtr.ConvertOrder(order)
	if txn == nil {
		t.Fatal("ConvertOrder() returned nil")
	}

	// First #digits token wins.
	revenue := findPosting(t, txn.Postings, "Revenue:Cardmarket:Sales:401")
	if !strings.Contains(revenue.Comment, "#401") {
		t.Errorf("revenue comment = %q, expected box id", revenue.Comment)
	}
	findPosting(t, txn.Postings, "Expenses:Cardmarket:Commission:401")
	findPosting(t, txn.Postings, "Assets:Cardmarket:Receivable:401")
	findPosting(t, txn.Postings, "Revenue:Cardmarket:Sales:205")

	last := txn.Tags[len(txn.Tags)-1]
	if last.Key != "boxIds" || last.Value != "401,205" {
		t.Errorf("boxIds tag = %v, expected 401,205", last)
	}
}

func TestConvertOrderEmptyArticles(t *testing.T) {
	order := testOrder()
	order.Articles = nil
	order.MerchandiseValue = decimal.Zero
	order.TotalValue = dec("5.00")
	order.Commission = decimal.Zero

	cvtr := NewConverter(NewMapper(), "EUR")
	txn := cvtr.ConvertOrder(order)
	if txn == nil {
		t.Fatal("ConvertOrder() returned nil")
	}

	// 2 shipping postings + 1 balancing posting, nothing per article.
	if len(txn.Postings) != 3 {
		t.Fatalf("got %d postings, expected 3", len(txn.Postings))
	}
	for _, tag := range txn.Tags {
		if tag.Key == "boxIds" {
			t.Errorf("boxIds tag present for an order without articles")
		}
	}
}

func TestConvertOrderCurrencyFallback(t *testing.T) {
	order := testOrder()
	order.Articles[0].Currency = ""

	cvtr := NewConverter(NewMapper(), "EUR")
	txn := cvtr.ConvertOrder(order)
	if txn == nil {
		t.Fatal("ConvertOrder() returned nil")
	}

	revenue := findPosting(t, txn.Postings, "Revenue:Cardmarket:Sales:Uncategorized")
	if revenue.Currency != "EUR" {
		t.Errorf("article currency = %q, expected order currency fallback", revenue.Currency)
	}
}

func TestConvertOrderInvalid(t *testing.T) {
	cvtr := NewConverter(NewMapper(), "EUR")

	tests := []struct {
		name   string
		mutate func(*cardmarket.SaleOrder)
	}{
		{"missing order id", func(o *cardmarket.SaleOrder) { o.OrderID = "" }},
		{"missing currency", func(o *cardmarket.SaleOrder) { o.Currency = "" }},
		{"bad date", func(o *cardmarket.SaleOrder) { o.DateOfPurchase = "not-a-date" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder()
			tt.mutate(&order)
			if txn := cvtr.ConvertOrder(order); txn != nil {
				t.Errorf("ConvertOrder() = %v, expected nil for invalid order", txn)
			}
		})
	}
}

func TestCommissionRounding(t *testing.T) {
	tests := []struct {
		total      string
		commission string
	}{
		{"15.00", "0.75"},
		{"10.50", "0.53"}, // 0.525 rounded up
		{"0.10", "0.01"},  // 0.005 rounded up
		{"0.01", "0.01"},  // 0.0005 rounded up, never under-counted
		{"100.00", "5.00"},
	}

	cvtr := NewConverter(NewMapper(), "EUR")
	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			order := testOrder()
			order.Articles = order.Articles[:1]
			order.Articles[0].Total = dec(tt.total)

			txn := cvtr.ConvertOrder(order)
			if txn == nil {
				t.Fatal("ConvertOrder() returned nil")
			}

			commission := findPosting(t, txn.Postings, "Expenses:Cardmarket:Commission:Uncategorized")
			assertAmount(t, commission, tt.commission)

			// Commission is always >= 5% of the total, within a cent of it.
			exact := dec(tt.total).Mul(dec("0.05"))
			if commission.Amount.LessThan(exact) {
				t.Errorf("commission %s below exact 5%% %s", commission.Amount, exact)
			}
			if commission.Amount.Sub(exact).GreaterThanOrEqual(dec("0.01")) {
				t.Errorf("commission %s drifts a cent or more from %s", commission.Amount, exact)
			}
		})
	}
}

func TestExtractBoxID(t *testing.T) {
	tests := []struct {
		comment  string
		expected string
	}{
		{"Near Mint #401 #101", "401"},
		{"#7", "7"},
		{"box #123 something", "123"},
		{"Near Mint condition", "Uncategorized"},
		{"", "Uncategorized"},
		{"# 55", "Uncategorized"},
		{"no-digits #abc", "Uncategorized"},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			if got := ExtractBoxID(tt.comment); got != tt.expected {
				t.Errorf("ExtractBoxID(%q) = %q, expected %q", tt.comment, got, tt.expected)
			}
		})
	}
}

func TestConvertExpense(t *testing.T) {
	cvtr := NewConverter(NewMapper(), "EUR")

	record := cardmarket.ExpenseRecord{
		Timestamp: "8/29/2025 14:10:24",
		Name:      "Deutsche Post",
		Code:      "900",
		Amount:    dec("14.49"),
		Date:      "2025-08-29",
		Comment:   "",
	}

	txn := cvtr.ConvertExpense(record)

	if txn.Date != "2025-08-29" {
		t.Errorf("date = %q, expected 2025-08-29", txn.Date)
	}
	if txn.Description != "Deutsche Post" {
		t.Errorf("description = %q", txn.Description)
	}
	if len(txn.Postings) != 2 {
		t.Fatalf("got %d postings, expected 2", len(txn.Postings))
	}

	expense := findPosting(t, txn.Postings, "Expenses:Cardmarket:Shipping:stamps")
	assertAmount(t, expense, "14.49")
	if expense.Currency != "EUR" {
		t.Errorf("currency = %q, expected EUR", expense.Currency)
	}

	balancing := findPosting(t, txn.Postings, "Assets:Cardmarket:Receivable:Shipping")
	assertAmount(t, balancing, "-14.49")

	// The two postings always cancel out.
	if !txn.Postings[0].Amount.Add(*txn.Postings[1].Amount).IsZero() {
		t.Errorf("expense postings do not sum to zero")
	}

	if len(txn.Tags) != 1 || txn.Tags[0].Key != "comment" {
		t.Fatalf("tags = %v, expected single comment tag", txn.Tags)
	}
	if txn.Tags[0].Value != "Code: 900 | Timestamp: 8/29/2025 14:10:24" {
		t.Errorf("comment tag = %q", txn.Tags[0].Value)
	}
}

func TestExpensesDocument(t *testing.T) {
	cvtr := NewConverter(NewMapper(), "EUR")
	validator := cardmarket.NewValidator()

	rows := []map[string]string{
		{"Timestamp": "8/29/2025 14:10:24", "Name": "Deutsche Post", "Code": "900", "Amount": "14.49", "Datum": "8/29/2025"},
		{"Timestamp": "8/30/2025 09:00:00", "Name": "Broken", "Code": "901", "Amount": "not money", "Datum": "8/30/2025"},
		{"Timestamp": "9/1/2025 12:00:00", "Name": "Tool Store", "Code": "902", "Amount": "89,99", "Datum": "9/1/2025"},
	}

	doc := cvtr.ExpensesDocument(rows, validator)

	// The bad row is skipped, the batch continues.
	if doc.Len() != 2 {
		t.Fatalf("got %d transactions, expected 2", doc.Len())
	}
	if doc.Transactions()[0].Description != "Deutsche Post" {
		t.Errorf("input order not preserved")
	}
	tools := findPosting(t, doc.Transactions()[1].Postings, "Expenses:Cardmarket:TCGPowerTools")
	assertAmount(t, tools, "89.99")
}

func TestOrdersDocument(t *testing.T) {
	cvtr := NewConverter(NewMapper(), "EUR")

	good := testOrder()
	bad := testOrder()
	bad.OrderID = ""

	doc := cvtr.OrdersDocument([]cardmarket.SaleOrder{good, bad})

	if doc.Len() != 1 {
		t.Fatalf("got %d transactions, expected 1 (invalid order skipped)", doc.Len())
	}
}
