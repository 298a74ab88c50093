package store

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/tally/internal/model"
)

// DocumentVersion is written into every export.
const DocumentVersion = 1

// Document is the single-file export format: all three collections plus
// metadata.
type Document struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Expenses   []model.Expense  `json:"expenses"`
	Categories []model.Category `json:"categories"`
	Budgets    []model.Budget   `json:"budgets"`
}

// WriteDocument encodes snap as an indented Document.
func WriteDocument(w io.Writer, snap Snapshot, now time.Time) error {
	doc := Document{
		Version:    DocumentVersion,
		ExportedAt: now.UTC().Truncate(time.Second),
		Expenses:   nonNil(snap.Expenses),
		Categories: nonNil(snap.Categories),
		Budgets:    nonNil(snap.Budgets),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ReadDocument decodes a Document. Unknown versions are rejected.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, &CorruptError{Key: "import", Err: err}
	}
	if doc.Version != DocumentVersion {
		return Document{}, fmt.Errorf("unsupported export version %d", doc.Version)
	}
	return doc, nil
}
