// Package main is the entry point for the cardmarket-ledger CLI.
package main

import (
	"os"

	"github.com/Poltergeist/cardmarket-accounting/cmd/cardmarket-ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
