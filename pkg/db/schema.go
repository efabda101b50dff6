// Package db provides SQLite storage for import history, so orders and
// expense batches already written to a journal are not converted twice.
package db

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS import_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	import_type TEXT NOT NULL,
	source_id TEXT NOT NULL,
	entry_date TEXT NOT NULL,
	amount TEXT NOT NULL,
	journal_file TEXT NOT NULL,
	run_id TEXT NOT NULL,
	imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(import_type, source_id)
);

CREATE INDEX IF NOT EXISTS idx_import_history_type
	ON import_history(import_type);
CREATE INDEX IF NOT EXISTS idx_import_history_run
	ON import_history(run_id);
`

// InitializeSchema creates the import-history tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
