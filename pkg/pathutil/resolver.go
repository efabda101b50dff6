// Package pathutil provides centralized path management for journal files,
// the import-history database, and intermediate order/article directories.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathResolver manages paths under the ledger root.
type PathResolver struct {
	ledgerRoot   string
	databasePath string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// LedgerRoot is the root directory for journal output (e.g. ~/accounting/ledger)
	LedgerRoot string
	// DatabasePath is the path to the SQLite database file for import history
	DatabasePath string
}

// New creates a new PathResolver with the given configuration. If
// DatabasePath is empty, it defaults to {LedgerRoot}/.import/history.db.
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.LedgerRoot, ".import", "history.db")
	}

	return &PathResolver{
		ledgerRoot:   config.LedgerRoot,
		databasePath: dbPath,
	}
}

// GetLedgerRoot returns the ledger root directory.
func (p *PathResolver) GetLedgerRoot() string {
	return p.ledgerRoot
}

// GetDatabasePath returns the import-history database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetJournalPath returns the path of a journal file under the ledger root.
// A name given as an absolute path is returned unchanged, so commands can
// accept both plain file names and explicit locations.
func (p *PathResolver) GetJournalPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.ledgerRoot, name)
}

// GetOrdersDir returns the default directory for per-order JSON files.
func (p *PathResolver) GetOrdersDir() string {
	return filepath.Join(p.ledgerRoot, "orders")
}

// GetArticlesDir returns the default directory for per-order article JSON
// files.
func (p *PathResolver) GetArticlesDir() string {
	return filepath.Join(p.ledgerRoot, "articles")
}

// EnsureDir creates a directory if it doesn't exist, including parents.
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// IsDir checks if a path is a directory.
func (p *PathResolver) IsDir(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
