package converter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookup(t *testing.T) {
	mapper := NewMapper()

	tests := []struct {
		code      string
		expense   string
		balancing string
	}{
		{"900", "Expenses:Cardmarket:Shipping:stamps", "Assets:Cardmarket:Receivable:Shipping"},
		{"901", "Expenses:Cardmarket:Shipping:Stationary", "Assets:Cardmarket:Receivable:Shipping"},
		{"902", "Expenses:Cardmarket:TCGPowerTools", "Assets:Cardmarket:Receivable:Operations"},
		{"408", "Expenses:Cardmarket:Product:408", "Assets:Cardmarket:Receivable:408"},
		{"999", "Expenses:Cardmarket:Product:999", "Assets:Cardmarket:Receivable:999"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			pair := mapper.Lookup(tt.code)
			if pair.Expense != tt.expense {
				t.Errorf("Lookup(%q).Expense = %q, expected %q", tt.code, pair.Expense, tt.expense)
			}
			if pair.Balancing != tt.balancing {
				t.Errorf("Lookup(%q).Balancing = %q, expected %q", tt.code, pair.Balancing, tt.balancing)
			}
		})
	}
}

func TestHasMapping(t *testing.T) {
	mapper := NewMapper()

	if !mapper.HasMapping("900") {
		t.Errorf("HasMapping(900) = false, expected true")
	}
	if mapper.HasMapping("408") {
		t.Errorf("HasMapping(408) = true, expected false for fallback codes")
	}
}

func TestNewMapperFromFile(t *testing.T) {
	overrides := `
"903":
  expense: Expenses:Cardmarket:Shipping:Boxes
  balancing: Assets:Cardmarket:Receivable:Shipping
"900":
  expense: Expenses:Cardmarket:Postage
  balancing: Assets:Cardmarket:Receivable:Shipping
`
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	if err := os.WriteFile(path, []byte(overrides), 0644); err != nil {
		t.Fatalf("writing mapping file: %v", err)
	}

	mapper, err := NewMapperFromFile(path)
	if err != nil {
		t.Fatalf("NewMapperFromFile() error: %v", err)
	}

	// New code from overrides.
	if got := mapper.Lookup("903").Expense; got != "Expenses:Cardmarket:Shipping:Boxes" {
		t.Errorf("Lookup(903).Expense = %q", got)
	}
	// Override wins over the built-in table.
	if got := mapper.Lookup("900").Expense; got != "Expenses:Cardmarket:Postage" {
		t.Errorf("Lookup(900).Expense = %q, expected override", got)
	}
	// Untouched built-in entries survive.
	if got := mapper.Lookup("902").Expense; got != "Expenses:Cardmarket:TCGPowerTools" {
		t.Errorf("Lookup(902).Expense = %q", got)
	}
}

func TestNewMapperFromFileMissing(t *testing.T) {
	if _, err := NewMapperFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("NewMapperFromFile() on a missing file should fail")
	}
}
