package grid

import (
	"errors"
	"log/slog"
	"slices"
	"testing"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/testutil"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	return New(testutil.TestProvider(t), slog.Default())
}

func TestCreateCollection_UniqueName(t *testing.T) {
	m := newManager(t)
	if err := m.CreateCollection("Tasks"); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if err := m.CreateCollection("Tasks"); !errors.Is(err, apperr.ErrExists) {
		t.Errorf("duplicate name: err = %v, want ErrExists", err)
	}
	if got := m.List(); !slices.Equal(got, []string{"Tasks"}) {
		t.Errorf("List = %v", got)
	}
}

func TestColumnAndRowCRUD(t *testing.T) {
	m := newManager(t)
	_ = m.CreateCollection("Tasks")

	col, err := m.AddColumn("Tasks", "Done", KindCheck)
	if err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if col.ID == "" {
		t.Fatal("column ID not assigned")
	}

	row, err := m.AddRow("Tasks", map[string]any{col.ID: true})
	if err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	if row.ID == "" {
		t.Fatal("row ID not assigned")
	}

	row, err = m.UpdateRow("Tasks", row.ID, map[string]any{col.ID: false})
	if err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}
	if row.Cells[col.ID] != false {
		t.Errorf("cell = %v, want updated", row.Cells[col.ID])
	}

	if err := m.RemoveColumn("Tasks", col.ID); err != nil {
		t.Fatalf("RemoveColumn: %v", err)
	}
	c, _ := m.Get("Tasks")
	if len(c.Columns) != 0 {
		t.Errorf("columns = %+v, want empty", c.Columns)
	}
	if _, ok := c.Rows[0].Cells[col.ID]; ok {
		t.Error("removed column's cells still present")
	}

	if err := m.DeleteRow("Tasks", row.ID); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	c, _ = m.Get("Tasks")
	if len(c.Rows) != 0 {
		t.Errorf("rows = %+v, want empty", c.Rows)
	}
}

func TestUnknownCollection(t *testing.T) {
	m := newManager(t)
	if _, err := m.Get("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get: err = %v", err)
	}
	if _, err := m.AddRow("nope", nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("AddRow: err = %v", err)
	}
	if err := m.DeleteCollection("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("DeleteCollection: err = %v", err)
	}
}

func TestPersistence_SurvivesReload(t *testing.T) {
	p := testutil.TestProvider(t)
	m := New(p, slog.Default())
	_ = m.CreateCollection("Books")
	col, _ := m.AddColumn("Books", "Title", KindText)
	_, _ = m.AddRow("Books", map[string]any{col.ID: "Dune"})

	m2 := New(p, slog.Default())
	c, err := m2.Get("Books")
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if len(c.Columns) != 1 || len(c.Rows) != 1 {
		t.Fatalf("reloaded collection = %+v", c)
	}
	if c.Rows[0].Cells[col.ID] != "Dune" {
		t.Errorf("cell = %v", c.Rows[0].Cells[col.ID])
	}
}

func TestIndependentFromNotesKey(t *testing.T) {
	p := testutil.TestProvider(t)
	m := New(p, slog.Default())
	_ = m.CreateCollection("Only")

	blob, err := p.Get("notes")
	if err != nil {
		t.Fatal(err)
	}
	if blob != nil {
		t.Errorf("grid mutation touched the notes key: %q", blob)
	}
}
