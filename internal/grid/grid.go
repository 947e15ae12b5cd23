// Package grid implements the tabular database feature: named
// collections of typed columns and rows, independent of the note store
// and persisted under its own storage key. Key uniqueness is the only
// invariant.
package grid

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/storage"
)

// Column kinds. Cells are stored as-is; kinds are display hints, not
// validated types.
const (
	KindText   = "text"
	KindNumber = "number"
	KindCheck  = "check"
)

// Column describes one column of a collection.
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Row is one record: cells keyed by column ID.
type Row struct {
	ID    string         `json:"id"`
	Cells map[string]any `json:"cells"`
}

// Collection is a named grid of columns and rows.
type Collection struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Document is the persisted shape of the whole grid store.
type Document struct {
	Collections map[string]Collection `json:"collections"`
}

// Manager owns the grid collections, with the same save-after-mutate
// discipline as the note store.
type Manager struct {
	mu          sync.Mutex
	provider    storage.Provider
	logger      *slog.Logger
	collections map[string]Collection
}

// New creates a Manager, loading state from the provider. A missing or
// unreadable blob falls back to the empty initial state.
func New(provider storage.Provider, logger *slog.Logger) *Manager {
	m := &Manager{
		provider:    provider,
		logger:      logger,
		collections: make(map[string]Collection),
	}
	blob, err := provider.Get(storage.KeyDatabase)
	if err != nil {
		logger.Warn("grid: read failed, starting empty", slog.String("error", err.Error()))
		return m
	}
	if blob == nil {
		return m
	}
	var doc Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		logger.Warn("grid: corrupted blob, starting empty", slog.String("error", err.Error()))
		return m
	}
	m.apply(doc)
	return m
}

func (m *Manager) apply(doc Document) {
	m.collections = make(map[string]Collection, len(doc.Collections))
	for name, c := range doc.Collections {
		c.Name = name
		m.collections[name] = c
	}
}

func (m *Manager) document() Document {
	doc := Document{Collections: make(map[string]Collection, len(m.collections))}
	for name, c := range m.collections {
		doc.Collections[name] = c
	}
	return doc
}

// persist writes the grid document; failures are logged and swallowed.
// Caller holds the lock.
func (m *Manager) persist() {
	blob, err := json.Marshal(m.document())
	if err != nil {
		m.logger.Warn("grid: marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := m.provider.Set(storage.KeyDatabase, blob); err != nil {
		m.logger.Warn("grid: save failed", slog.String("error", err.Error()))
	}
}

// List returns the collection names, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.collections))
	for name := range m.collections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Get returns a copy of the named collection.
func (m *Manager) Get(name string) (Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		return Collection{}, apperr.ErrNotFound
	}
	return copyCollection(c), nil
}

// CreateCollection adds an empty collection under a unique name.
func (m *Manager) CreateCollection(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.ErrEmptyTitle
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; ok {
		return apperr.ErrExists
	}
	m.collections[name] = Collection{Name: name}
	m.persist()
	return nil
}

// DeleteCollection removes a collection and all its rows. Confirmation
// is the caller's concern.
func (m *Manager) DeleteCollection(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.collections, name)
	m.persist()
	return nil
}

// AddColumn appends a column with a fresh ID.
func (m *Manager) AddColumn(collection, name, kind string) (Column, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return Column{}, apperr.ErrNotFound
	}
	col := Column{ID: uuid.NewString(), Name: name, Kind: kind}
	c.Columns = append(c.Columns, col)
	m.collections[collection] = c
	m.persist()
	return col, nil
}

// RemoveColumn drops a column and its cells from every row.
func (m *Manager) RemoveColumn(collection, columnID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return apperr.ErrNotFound
	}
	idx := -1
	for i, col := range c.Columns {
		if col.ID == columnID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.ErrNotFound
	}
	c.Columns = append(c.Columns[:idx], c.Columns[idx+1:]...)
	for _, row := range c.Rows {
		delete(row.Cells, columnID)
	}
	m.collections[collection] = c
	m.persist()
	return nil
}

// AddRow appends a row with a fresh ID and the given cells.
func (m *Manager) AddRow(collection string, cells map[string]any) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return Row{}, apperr.ErrNotFound
	}
	if cells == nil {
		cells = make(map[string]any)
	}
	row := Row{ID: uuid.NewString(), Cells: cells}
	c.Rows = append(c.Rows, row)
	m.collections[collection] = c
	m.persist()
	return row, nil
}

// UpdateRow merges cells into an existing row.
func (m *Manager) UpdateRow(collection, rowID string, cells map[string]any) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return Row{}, apperr.ErrNotFound
	}
	for i, row := range c.Rows {
		if row.ID != rowID {
			continue
		}
		if row.Cells == nil {
			row.Cells = make(map[string]any)
		}
		for k, v := range cells {
			row.Cells[k] = v
		}
		c.Rows[i] = row
		m.collections[collection] = c
		m.persist()
		return row, nil
	}
	return Row{}, apperr.ErrNotFound
}

// DeleteRow removes a row by ID.
func (m *Manager) DeleteRow(collection, rowID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return apperr.ErrNotFound
	}
	for i, row := range c.Rows {
		if row.ID == rowID {
			c.Rows = append(c.Rows[:i], c.Rows[i+1:]...)
			m.collections[collection] = c
			m.persist()
			return nil
		}
	}
	return apperr.ErrNotFound
}

// Document returns a snapshot of the persisted form, for export.
func (m *Manager) Document() Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := Document{Collections: make(map[string]Collection, len(m.collections))}
	for name, c := range m.collections {
		doc.Collections[name] = copyCollection(c)
	}
	return doc
}

// ReplaceDocument swaps in a full replacement state, as import does.
func (m *Manager) ReplaceDocument(doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(doc)
	m.persist()
}

func copyCollection(c Collection) Collection {
	out := Collection{Name: c.Name}
	out.Columns = append(out.Columns, c.Columns...)
	for _, row := range c.Rows {
		cells := make(map[string]any, len(row.Cells))
		for k, v := range row.Cells {
			cells[k] = v
		}
		out.Rows = append(out.Rows, Row{ID: row.ID, Cells: cells})
	}
	return out
}
