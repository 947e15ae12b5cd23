package backup

import (
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/grid"
	"github.com/starford/laguz/internal/store"
	"github.com/starford/laguz/internal/testutil"
)

func fixtures(t *testing.T) (*store.Store, *grid.Manager) {
	t.Helper()
	logger := slog.Default()
	s := store.New(testutil.TestProvider(t), logger)
	g := grid.New(testutil.TestProvider(t), logger)
	return s, g
}

func TestExportImport_RoundTrip(t *testing.T) {
	s, g := fixtures(t)
	_, _ = s.Create("Project")
	_, _ = s.SetContent("Project", "Hello [[Home]]")
	_ = g.CreateCollection("Tasks")

	blob, err := Export(s, g)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	s2, g2 := fixtures(t)
	if err := Import(blob, s2, g2); err != nil {
		t.Fatalf("Import: %v", err)
	}
	n, err := s2.Get("Project")
	if err != nil || n.Content != "Hello [[Home]]" {
		t.Errorf("imported note = %+v, %v", n, err)
	}
	if _, err := g2.Get("Tasks"); err != nil {
		t.Errorf("imported collection missing: %v", err)
	}
}

func TestImport_AcceptsReformattedEnvelope(t *testing.T) {
	s, g := fixtures(t)
	_, _ = s.Create("Project")
	_, _ = s.SetContent("Project", "content survives reformatting")

	blob, err := Export(s, g)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// The checksum must not depend on insignificant whitespace: an
	// envelope that was pretty-printed (or re-compacted) by another
	// tool still verifies.
	var generic map[string]any
	if err := json.Unmarshal(blob, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	compacted, err := json.Marshal(generic)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s2, g2 := fixtures(t)
	if err := Import(compacted, s2, g2); err != nil {
		t.Fatalf("Import of reformatted envelope: %v", err)
	}
	if n, err := s2.Get("Project"); err != nil || n.Content != "content survives reformatting" {
		t.Errorf("imported note = %+v, %v", n, err)
	}
}

func TestExport_EnvelopeShape(t *testing.T) {
	s, g := fixtures(t)
	blob, err := Export(s, g)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Notes == nil || env.Database == nil {
		t.Error("both documents must be present in a full export")
	}
	if env.ExportedAt == 0 {
		t.Error("exportedAt not set")
	}
	if env.Checksum == "" {
		t.Error("checksum not set")
	}
}

func TestImport_ChecksumMismatchRejected(t *testing.T) {
	s, g := fixtures(t)
	blob, _ := Export(s, g)

	var env Envelope
	_ = json.Unmarshal(blob, &env)
	env.Notes = json.RawMessage(`{"notes":{"Tampered":{"content":"","updated":1}},"trash":[]}`)
	tampered, _ := json.Marshal(env)

	s2, g2 := fixtures(t)
	err := Import(tampered, s2, g2)
	if !errors.Is(err, apperr.ErrChecksumMismatch) {
		t.Fatalf("err = %v, want ErrChecksumMismatch", err)
	}
	if _, err := s2.Get("Tampered"); err == nil {
		t.Error("tampered state applied despite rejection")
	}
}

func TestImport_AbsentKeyLeavesStateUntouched(t *testing.T) {
	s, g := fixtures(t)
	_ = g.CreateCollection("Kept")

	// Envelope with only a notes document, no checksum.
	env := Envelope{
		Notes: json.RawMessage(`{"notes":{"Solo":{"content":"x","updated":1}},"trash":[]}`),
	}
	blob, _ := json.Marshal(env)

	if err := Import(blob, s, g); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if _, err := s.Get("Solo"); err != nil {
		t.Errorf("notes not replaced: %v", err)
	}
	if _, err := g.Get("Kept"); err != nil {
		t.Errorf("grid replaced despite absent key: %v", err)
	}
}

func TestImport_MalformedEnvelope(t *testing.T) {
	s, g := fixtures(t)
	if err := Import([]byte("{broken"), s, g); err == nil {
		t.Fatal("expected decode error")
	}
}
