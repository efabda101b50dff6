package db

import (
	"database/sql"
	"fmt"
	"time"
)

// ImportType represents the kind of record an import-history row tracks.
type ImportType string

const (
	ImportTypeOrder   ImportType = "order"
	ImportTypeExpense ImportType = "expense"
)

// ImportRecord represents one imported order or expense row.
type ImportRecord struct {
	ID          int64
	ImportType  ImportType
	SourceID    string
	EntryDate   string
	Amount      string
	JournalFile string
	RunID       string
	ImportedAt  time.Time
}

// ImportStats summarizes the import history.
type ImportStats struct {
	TotalOrders   int64
	TotalExpenses int64
	LastImport    sql.NullString
}

// ImportHistory manages import-history operations.
type ImportHistory struct {
	conn *Connection
}

// NewImportHistory creates a new ImportHistory instance.
func NewImportHistory(conn *Connection) *ImportHistory {
	return &ImportHistory{conn: conn}
}

// RecordImport records an imported item. If the record already exists (same
// import_type + source_id), it is updated in place.
func (h *ImportHistory) RecordImport(record ImportRecord) error {
	query := `
		INSERT INTO import_history (import_type, source_id, entry_date, amount, journal_file, run_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(import_type, source_id) DO UPDATE SET
			entry_date = excluded.entry_date,
			amount = excluded.amount,
			journal_file = excluded.journal_file,
			run_id = excluded.run_id,
			imported_at = CURRENT_TIMESTAMP
	`

	_, err := h.conn.Exec(query,
		string(record.ImportType),
		record.SourceID,
		record.EntryDate,
		record.Amount,
		record.JournalFile,
		record.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}

	return nil
}

// IsImported checks whether an item has already been imported.
func (h *ImportHistory) IsImported(importType ImportType, sourceID string) (bool, error) {
	query := `SELECT COUNT(*) FROM import_history WHERE import_type = ? AND source_id = ?`

	var count int64
	if err := h.conn.QueryRow(query, string(importType), sourceID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check import status: %w", err)
	}

	return count > 0, nil
}

// GetImportedIDs returns the source ids of all imported items of a type.
func (h *ImportHistory) GetImportedIDs(importType ImportType) ([]string, error) {
	query := `SELECT source_id FROM import_history WHERE import_type = ?`

	rows, err := h.conn.Query(query, string(importType))
	if err != nil {
		return nil, fmt.Errorf("failed to query imported ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan imported id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read imported ids: %w", err)
	}

	return ids, nil
}

// GetStats returns import-history totals.
func (h *ImportHistory) GetStats() (*ImportStats, error) {
	stats := &ImportStats{}

	query := `
		SELECT
			COUNT(CASE WHEN import_type = 'order' THEN 1 END),
			COUNT(CASE WHEN import_type = 'expense' THEN 1 END),
			MAX(imported_at)
		FROM import_history
	`
	err := h.conn.QueryRow(query).Scan(&stats.TotalOrders, &stats.TotalExpenses, &stats.LastImport)
	if err != nil {
		return nil, fmt.Errorf("failed to query import stats: %w", err)
	}

	return stats, nil
}
