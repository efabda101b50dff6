// Package converter provides conversion from Cardmarket records to hledger
// transactions.
package converter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Namespace is the account segment shared by every Cardmarket account path.
const Namespace = "Cardmarket"

// AccountPair holds the expense account for a cost code and the asset or
// receivable account that balances it.
type AccountPair struct {
	Expense   string `yaml:"expense"`
	Balancing string `yaml:"balancing"`
}

// expenseAccounts maps known expense codes to their account pair. Codes not
// in the table fall back to per-code product/receivable accounts, so Lookup
// never fails.
var expenseAccounts = map[string]AccountPair{
	"900": {
		Expense:   "Expenses:" + Namespace + ":Shipping:stamps",
		Balancing: "Assets:" + Namespace + ":Receivable:Shipping",
	},
	"901": {
		Expense:   "Expenses:" + Namespace + ":Shipping:Stationary",
		Balancing: "Assets:" + Namespace + ":Receivable:Shipping",
	},
	"902": {
		Expense:   "Expenses:" + Namespace + ":TCGPowerTools",
		Balancing: "Assets:" + Namespace + ":Receivable:Operations",
	},
}

// Mapper resolves expense codes to account paths. It is a pure lookup with a
// deterministic fallback and no failure mode.
type Mapper struct {
	table map[string]AccountPair
}

// NewMapper creates a Mapper with the built-in account table.
func NewMapper() *Mapper {
	table := make(map[string]AccountPair, len(expenseAccounts))
	for code, pair := range expenseAccounts {
		table[code] = pair
	}
	return &Mapper{table: table}
}

// NewMapperFromFile creates a Mapper with overrides from a YAML file merged
// over the built-in table. The file maps codes to account pairs:
//
//	"903":
//	  expense: Expenses:Cardmarket:Shipping:Boxes
//	  balancing: Assets:Cardmarket:Receivable:Shipping
func NewMapperFromFile(path string) (*Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read account mapping file: %w", err)
	}

	var overrides map[string]AccountPair
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse account mapping YAML: %w", err)
	}

	mapper := NewMapper()
	for code, pair := range overrides {
		mapper.table[code] = pair
	}
	return mapper, nil
}

// Lookup returns the account pair for an expense code. Unknown codes map to
// Expenses:Cardmarket:Product:<code> balanced by
// Assets:Cardmarket:Receivable:<code>.
func (m *Mapper) Lookup(code string) AccountPair {
	if pair, ok := m.table[code]; ok {
		return pair
	}
	return AccountPair{
		Expense:   fmt.Sprintf("Expenses:%s:Product:%s", Namespace, code),
		Balancing: fmt.Sprintf("Assets:%s:Receivable:%s", Namespace, code),
	}
}

// HasMapping checks if a code has an explicit (non-fallback) mapping.
func (m *Mapper) HasMapping(code string) bool {
	_, ok := m.table[code]
	return ok
}
