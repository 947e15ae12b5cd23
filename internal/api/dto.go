package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/laguz/internal/models"
)

// CreateNoteRequest is the request body for creating or opening a note.
type CreateNoteRequest struct {
	Title string `json:"title"`
}

// Validate validates the request.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 512)),
	)
}

// UpdateNoteRequest is the request body for replacing note content.
type UpdateNoteRequest struct {
	Content string `json:"content"`
}

// RenameRequest is the request body for renaming a note.
type RenameRequest struct {
	OldTitle string `json:"old_title"`
	NewTitle string `json:"new_title"`
}

// Validate validates the request. NewTitle may be empty: an empty new
// title is the documented no-op.
func (r RenameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldTitle, validation.Required),
	)
}

// NoteDetail is the full note representation: raw content plus the
// derived views the UI renders.
type NoteDetail struct {
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Properties []models.Property `json:"properties,omitempty"`
	Body       string            `json:"body"`
	HTML       string            `json:"html"`
	Backlinks  []string          `json:"backlinks"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteListResponse wraps note listings, ordered by updated_at
// descending.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}

// TrashItem is one trash entry in a list response. Index is the
// position restore and purge address.
type TrashItem struct {
	Index     int       `json:"index"`
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TrashListResponse wraps the trash listing, most recent first.
type TrashListResponse struct {
	Entries []TrashItem `json:"entries"`
}

// CreateCollectionRequest is the request body for creating a grid
// collection.
type CreateCollectionRequest struct {
	Name string `json:"name"`
}

// Validate validates the request.
func (r CreateCollectionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 256)),
	)
}

// AddColumnRequest is the request body for adding a grid column.
type AddColumnRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Validate validates the request.
func (r AddColumnRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Kind, validation.Required, validation.In("text", "number", "check")),
	)
}

// RowRequest is the request body for adding or updating a grid row.
type RowRequest struct {
	Cells map[string]any `json:"cells"`
}
