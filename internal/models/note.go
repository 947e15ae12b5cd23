// Package models defines the domain types for Laguz.
package models

import "time"

// Note is an active note. The title is the primary key: unique among
// active notes and the target wikilinks resolve against.
type Note struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrashEntry is the snapshot taken when a note is soft-deleted. It is
// immutable until restored or purged.
type TrashEntry struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	DeletedAt time.Time `json:"deleted_at"`
}

// Property is a single front-matter key/value pair. Properties keep the
// insertion order of the front-matter block, so they travel as a slice
// rather than a map.
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParsedNote is the derived form of a note's content: front-matter
// properties plus the remaining prose body. Recomputed on demand, never
// persisted.
type ParsedNote struct {
	Properties []Property `json:"properties,omitempty"`
	Body       string     `json:"body"`
}

// Get returns the value for key, or "" when the key is absent.
func (p ParsedNote) Get(key string) string {
	for _, prop := range p.Properties {
		if prop.Key == key {
			return prop.Value
		}
	}
	return ""
}

// NoteRecord is the persisted shape of one active note. Timestamps are
// Unix milliseconds in the stored document.
type NoteRecord struct {
	Content string `json:"content"`
	Updated int64  `json:"updated"`
}

// TrashRecord is the persisted shape of a trash entry.
type TrashRecord struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	DeletedAt int64  `json:"deletedAt"`
}

// NotesDocument is the serialized notes store: active notes keyed by
// title plus the trash list, most recent deletion first.
type NotesDocument struct {
	Notes map[string]NoteRecord `json:"notes"`
	Trash []TrashRecord         `json:"trash"`
}
