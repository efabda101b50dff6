package ledger

import (
	"fmt"
	"os"
	"path/filepath"
)

// Repository defines the interface for journal file operations.
type Repository interface {
	// WriteDocument writes a serialized document to a journal file,
	// replacing any existing content.
	WriteDocument(path string, doc *Document) error

	// AppendDocument appends a serialized document to a journal file,
	// creating it if missing.
	AppendDocument(path string, doc *Document) error
}

// FileSystemRepository is a file system implementation of Repository.
type FileSystemRepository struct{}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository() *FileSystemRepository {
	return &FileSystemRepository{}
}

// WriteDocument writes the document to path, creating parent directories as
// needed.
func (r *FileSystemRepository) WriteDocument(path string, doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	content := doc.String()
	if content != "" {
		content += "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}

	return nil
}

// AppendDocument appends the document to path, separated from existing
// content by a blank line.
func (r *FileSystemRepository) AppendDocument(path string, doc *Document) error {
	if doc.Len() == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file for appending: %w", err)
	}
	defer f.Close()

	content := doc.String() + "\n"
	if info, err := f.Stat(); err == nil && info.Size() > 0 {
		content = "\n" + content
	}

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write to journal file: %w", err)
	}

	return nil
}
