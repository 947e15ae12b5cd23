// Package testutil provides shared test helpers for setting up blob stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/laguz/internal/storage"
)

// TestProvider creates a temporary SQLite blob store that is
// automatically cleaned up.
func TestProvider(t *testing.T) storage.Provider {
	t.Helper()
	p, err := storage.Open(filepath.Join(t.TempDir(), "laguz-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}
