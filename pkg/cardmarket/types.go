// Package cardmarket provides typed records for Cardmarket marketplace
// exports and the validation that turns raw CSV rows into them.
package cardmarket

import "github.com/shopspring/decimal"

// ExpenseRecord is a validated row from the external expenses sheet.
type ExpenseRecord struct {
	Timestamp string
	Name      string
	Code      string
	Amount    decimal.Decimal
	Date      string // YYYY-MM-DD
	Comment   string
}

// SaleOrder is a validated row from the Cardmarket sold-orders export.
// Articles are attached from the matching articles export before the order is
// converted to a transaction.
type SaleOrder struct {
	OrderID          string          `json:"OrderID"`
	Username         string          `json:"Username"`
	Name             string          `json:"Name"`
	Street           string          `json:"Street"`
	City             string          `json:"City"`
	Country          string          `json:"Country"`
	IsProfessional   bool            `json:"Is Professional"`
	VATNumber        string          `json:"VAT Number"`
	DateOfPurchase   string          `json:"Date of Purchase"` // YYYY-MM-DD
	ArticleCount     int             `json:"Article Count"`
	MerchandiseValue decimal.Decimal `json:"Merchandise Value"`
	ShipmentCosts    decimal.Decimal `json:"Shipment Costs"`
	TotalValue       decimal.Decimal `json:"Total Value"`
	Commission       decimal.Decimal `json:"Commission"`
	Currency         string          `json:"Currency"`
	Description      string          `json:"Description"`
	Articles         []Article       `json:"articles,omitempty"`
}

// Article is a validated row from the Cardmarket sold-articles export.
// Comments is free text from the seller; it may embed a box id as the first
// "#<digits>" token.
type Article struct {
	ShipmentNr     string          `json:"Shipment nr."`
	DateOfPurchase string          `json:"Date of purchase"` // YYYY-MM-DD
	Article        string          `json:"Article"`
	ProductID      string          `json:"Product ID"`
	LocalizedName  string          `json:"Localized Product Name"`
	Expansion      string          `json:"Expansion"`
	Category       string          `json:"Category"`
	Amount         int             `json:"Amount"`
	ArticleValue   decimal.Decimal `json:"Article Value"`
	Total          decimal.Decimal `json:"Total"`
	Currency       string          `json:"Currency"`
	Comments       string          `json:"Comments"`
}
