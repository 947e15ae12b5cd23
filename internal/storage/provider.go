// Package storage is the persistence adapter: opaque named blobs with
// get/set/clear semantics over a local SQLite file.
package storage

// Provider is the interface for blob persistence. Each logical store
// (notes, database grid) persists one serialized document under a
// fixed key.
type Provider interface {
	// Get returns the blob stored under key, or (nil, nil) when the
	// key is absent. Absence is not an error.
	Get(key string) ([]byte, error)
	// Set stores blob under key, replacing any previous value.
	Set(key string, blob []byte) error
	// Clear removes the blob stored under key, if any.
	Clear(key string) error
	// Close releases the underlying store.
	Close() error
}

// Well-known blob keys.
const (
	KeyNotes    = "notes"
	KeyDatabase = "database"
)
