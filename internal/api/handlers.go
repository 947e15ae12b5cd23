package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/markup"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
	"github.com/starford/laguz/internal/sse"
	"github.com/starford/laguz/internal/store"
)

// Handler holds the note and trash route handlers.
type Handler struct {
	store  *store.Store
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil.
func NewHandler(s *store.Store, broker *sse.Broker) *Handler {
	return &Handler{store: s, broker: broker}
}

func (h *Handler) publish(kind, title string) {
	if h.broker != nil {
		h.broker.PublishNoteEvent(kind, title)
	}
}

// noteTitle extracts the note title from the URL (everything after the
// route prefix). Titles may contain slashes and spaces, so clients
// URL-encode them.
func noteTitle(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// detail builds the full representation of a note: raw content plus
// the derived property list, body, display fragment, and backlinks.
func (h *Handler) detail(n models.Note) NoteDetail {
	parsed := parser.Parse(n.Content)
	backlinks := h.store.Backlinks(n.Title)
	if backlinks == nil {
		backlinks = []string{}
	}
	return NoteDetail{
		Title:      n.Title,
		Content:    n.Content,
		Properties: parsed.Properties,
		Body:       parsed.Body,
		HTML:       markup.RenderHTML(parsed.Body),
		Backlinks:  backlinks,
		UpdatedAt:  n.UpdatedAt,
	}
}

func listResponse(notes []models.Note) NoteListResponse {
	items := make([]NoteListItem, len(notes))
	for i, n := range notes {
		items[i] = NoteListItem{Title: n.Title, UpdatedAt: n.UpdatedAt}
	}
	return NoteListResponse{Notes: items, Total: len(items)}
}

// ListNotes handles GET /notes, optionally filtered by the case-
// insensitive title substring in the q parameter.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var notes []models.Note
	if q == "" {
		notes = h.store.List()
	} else {
		notes = h.store.Search(q)
	}
	writeJSON(w, http.StatusOK, listResponse(notes))
}

// GetNote handles GET /notes/*.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	title := noteTitle(r)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	n, err := h.store.Get(title)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.detail(n))
}

// CreateNote handles POST /notes. Creating an already-active title is
// a conflict.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	n, err := h.store.Create(req.Title)
	if err != nil {
		writeAppError(w, err)
		return
	}
	h.publish(sse.EventCreated, n.Title)
	writeJSON(w, http.StatusCreated, h.detail(n))
}

// OpenNote handles POST /open: navigate to a title, creating it first
// when absent. Wikilink activation in the view lands here.
func (h *Handler) OpenNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	n, created, err := h.store.Open(req.Title)
	if err != nil {
		writeAppError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.publish(sse.EventCreated, n.Title)
	}
	writeJSON(w, status, h.detail(n))
}

// UpdateNote handles PUT /notes/*: replace content, bump the
// timestamp.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	title := noteTitle(r)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	n, err := h.store.SetContent(title, req.Content)
	if err != nil {
		writeAppError(w, err)
		return
	}
	h.publish(sse.EventUpdated, n.Title)
	writeJSON(w, http.StatusOK, h.detail(n))
}

// RenameNote handles POST /rename. An empty or identical new title is
// a no-op; a collision is a conflict and changes nothing.
func (h *Handler) RenameNote(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	n, err := h.store.Rename(req.OldTitle, req.NewTitle)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if n.Title != req.OldTitle {
		h.publish(sse.EventRenamed, n.Title)
	}
	writeJSON(w, http.StatusOK, h.detail(n))
}

// DeleteNote handles DELETE /notes/*?confirm=true: soft-delete into
// the trash.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	title := noteTitle(r)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	if !confirmed(r) {
		writeAppError(w, apperr.ErrConfirmationRequired)
		return
	}
	if err := h.store.SoftDelete(title); err != nil {
		writeAppError(w, err)
		return
	}
	h.publish(sse.EventTrashed, title)
	writeJSON(w, http.StatusOK, map[string]string{"status": "trashed"})
}

// CurrentNote handles GET /current.
func (h *Handler) CurrentNote(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.detail(h.store.Current()))
}

// Backlinks handles GET /backlinks/*.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	title := noteTitle(r)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	backlinks := h.store.Backlinks(title)
	if backlinks == nil {
		backlinks = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"backlinks": backlinks})
}

// ListTrash handles GET /trash.
func (h *Handler) ListTrash(w http.ResponseWriter, _ *http.Request) {
	entries := h.store.Trash()
	items := make([]TrashItem, len(entries))
	for i, e := range entries {
		items[i] = TrashItem{Index: i, Title: e.Title, DeletedAt: e.DeletedAt}
	}
	writeJSON(w, http.StatusOK, TrashListResponse{Entries: items})
}

// RestoreNote handles POST /trash/{index}/restore.
func (h *Handler) RestoreNote(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid index"))
		return
	}
	n, err := h.store.Restore(index)
	if err != nil {
		writeAppError(w, err)
		return
	}
	h.publish(sse.EventRestored, n.Title)
	writeJSON(w, http.StatusOK, h.detail(n))
}

// PurgeNote handles DELETE /trash/{index}?confirm=true: permanent
// removal.
func (h *Handler) PurgeNote(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid index"))
		return
	}
	if !confirmed(r) {
		writeAppError(w, apperr.ErrConfirmationRequired)
		return
	}
	if err := h.store.Purge(index); err != nil {
		writeAppError(w, err)
		return
	}
	h.publish(sse.EventPurged, "")
	writeJSON(w, http.StatusOK, map[string]string{"status": "purged"})
}

// EmptyTrash handles DELETE /trash?confirm=true.
func (h *Handler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeAppError(w, apperr.ErrConfirmationRequired)
		return
	}
	h.store.EmptyTrash()
	h.publish(sse.EventTrashEmptied, "")
	writeJSON(w, http.StatusOK, map[string]string{"status": "emptied"})
}
