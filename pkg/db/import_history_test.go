package db

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *ImportHistory {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewImportHistory(conn)
}

func TestRecordAndCheckImport(t *testing.T) {
	history := openTestDB(t)

	record := ImportRecord{
		ImportType:  ImportTypeOrder,
		SourceID:    "ORDER123",
		EntryDate:   "2024-01-15",
		Amount:      "30.50",
		JournalFile: "/ledger/cardmarket.journal",
		RunID:       "run-1",
	}

	if err := history.RecordImport(record); err != nil {
		t.Fatalf("RecordImport() error: %v", err)
	}

	done, err := history.IsImported(ImportTypeOrder, "ORDER123")
	if err != nil {
		t.Fatalf("IsImported() error: %v", err)
	}
	if !done {
		t.Errorf("IsImported() = false after RecordImport")
	}

	done, err = history.IsImported(ImportTypeExpense, "ORDER123")
	if err != nil {
		t.Fatalf("IsImported() error: %v", err)
	}
	if done {
		t.Errorf("IsImported() = true for a different import type")
	}
}

func TestRecordImportUpsert(t *testing.T) {
	history := openTestDB(t)

	record := ImportRecord{
		ImportType:  ImportTypeOrder,
		SourceID:    "ORDER123",
		EntryDate:   "2024-01-15",
		Amount:      "30.50",
		JournalFile: "a.journal",
		RunID:       "run-1",
	}
	if err := history.RecordImport(record); err != nil {
		t.Fatalf("RecordImport() error: %v", err)
	}

	record.RunID = "run-2"
	if err := history.RecordImport(record); err != nil {
		t.Fatalf("RecordImport() upsert error: %v", err)
	}

	ids, err := history.GetImportedIDs(ImportTypeOrder)
	if err != nil {
		t.Fatalf("GetImportedIDs() error: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("got %d ids after upsert, expected 1", len(ids))
	}
}

func TestGetStats(t *testing.T) {
	history := openTestDB(t)

	stats, err := history.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.TotalOrders != 0 || stats.TotalExpenses != 0 {
		t.Errorf("fresh database should have zero totals, got %+v", stats)
	}
	if stats.LastImport.Valid {
		t.Errorf("fresh database should have no last import")
	}

	for _, record := range []ImportRecord{
		{ImportType: ImportTypeOrder, SourceID: "ORDER1", EntryDate: "2024-01-15", Amount: "30.50", JournalFile: "a", RunID: "r"},
		{ImportType: ImportTypeOrder, SourceID: "ORDER2", EntryDate: "2024-01-16", Amount: "12.00", JournalFile: "a", RunID: "r"},
		{ImportType: ImportTypeExpense, SourceID: "ts|900|14.49", EntryDate: "2025-08-29", Amount: "14.49", JournalFile: "a", RunID: "r"},
	} {
		if err := history.RecordImport(record); err != nil {
			t.Fatalf("RecordImport() error: %v", err)
		}
	}

	stats, err = history.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, expected 2", stats.TotalOrders)
	}
	if stats.TotalExpenses != 1 {
		t.Errorf("TotalExpenses = %d, expected 1", stats.TotalExpenses)
	}
	if !stats.LastImport.Valid {
		t.Errorf("LastImport should be set after imports")
	}
}
