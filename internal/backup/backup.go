// Package backup implements the export/import envelope wrapping the
// notes document and the database grid document.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/checksum"
	"github.com/starford/laguz/internal/grid"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/store"
)

// Envelope is the exported document. Either logical store may be
// absent; import replaces only the keys present.
type Envelope struct {
	Notes      json.RawMessage `json:"notes,omitempty"`
	Database   json.RawMessage `json:"database,omitempty"`
	ExportedAt int64           `json:"exportedAt"`
	Checksum   string          `json:"checksum,omitempty"`
}

// Export serializes both stores into an envelope with an integrity
// checksum over the embedded documents.
func Export(notes *store.Store, grids *grid.Manager) ([]byte, error) {
	notesJSON, err := json.Marshal(notes.Document())
	if err != nil {
		return nil, fmt.Errorf("backup: marshal notes: %w", err)
	}
	gridJSON, err := json.Marshal(grids.Document())
	if err != nil {
		return nil, fmt.Errorf("backup: marshal database: %w", err)
	}
	env := Envelope{
		Notes:      notesJSON,
		Database:   gridJSON,
		ExportedAt: time.Now().UnixMilli(),
		Checksum:   sum(notesJSON, gridJSON),
	}
	return json.MarshalIndent(env, "", "  ")
}

// Import decodes an envelope and replaces in-memory state for each
// top-level key present, leaving absent keys untouched. A checksum,
// when present, is verified before any state changes; a mismatch
// rejects the whole import.
func Import(blob []byte, notes *store.Store, grids *grid.Manager) error {
	var env Envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return fmt.Errorf("backup: decode envelope: %w", err)
	}
	if env.Checksum != "" && env.Checksum != sum(env.Notes, env.Database) {
		return apperr.ErrChecksumMismatch
	}

	// Decode both documents before touching either store, so a bad
	// payload cannot leave a half-applied import.
	var notesDoc *models.NotesDocument
	if env.Notes != nil {
		notesDoc = new(models.NotesDocument)
		if err := json.Unmarshal(env.Notes, notesDoc); err != nil {
			return fmt.Errorf("backup: decode notes: %w", err)
		}
	}
	var gridDoc *grid.Document
	if env.Database != nil {
		gridDoc = new(grid.Document)
		if err := json.Unmarshal(env.Database, gridDoc); err != nil {
			return fmt.Errorf("backup: decode database: %w", err)
		}
	}

	if notesDoc != nil {
		notes.ReplaceDocument(*notesDoc)
	}
	if gridDoc != nil {
		grids.ReplaceDocument(*gridDoc)
	}
	return nil
}

// sum hashes the embedded documents in envelope order, compacted
// first: the envelope is written indented, so the bytes that arrive at
// Import differ from the ones Export hashed until insignificant
// whitespace is stripped. Absent keys contribute nothing, so partial
// envelopes checksum consistently.
func sum(parts ...json.RawMessage) string {
	var data bytes.Buffer
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		var compacted bytes.Buffer
		if err := json.Compact(&compacted, p); err != nil {
			data.Write(p)
			continue
		}
		data.Write(compacted.Bytes())
	}
	return checksum.Sum(data.Bytes())
}
