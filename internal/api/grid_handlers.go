package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/backup"
	"github.com/starford/laguz/internal/grid"
	"github.com/starford/laguz/internal/store"
)

// GridHandler holds the database-grid and export/import route
// handlers.
type GridHandler struct {
	grids *grid.Manager
	store *store.Store
}

// NewGridHandler creates a new GridHandler. The store is needed for
// the export/import boundary, which wraps both logical stores.
func NewGridHandler(grids *grid.Manager, s *store.Store) *GridHandler {
	return &GridHandler{grids: grids, store: s}
}

func collectionName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListCollections handles GET /collections.
func (h *GridHandler) ListCollections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"collections": h.grids.List()})
}

// GetCollection handles GET /collections/{name}.
func (h *GridHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.grids.Get(collectionName(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCollection handles POST /collections.
func (h *GridHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.grids.CreateCollection(req.Name); err != nil {
		writeAppError(w, err)
		return
	}
	c, _ := h.grids.Get(req.Name)
	writeJSON(w, http.StatusCreated, c)
}

// DeleteCollection handles DELETE /collections/{name}?confirm=true.
func (h *GridHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeAppError(w, apperr.ErrConfirmationRequired)
		return
	}
	if err := h.grids.DeleteCollection(collectionName(r)); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddColumn handles POST /collections/{name}/columns.
func (h *GridHandler) AddColumn(w http.ResponseWriter, r *http.Request) {
	var req AddColumnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	col, err := h.grids.AddColumn(collectionName(r), req.Name, req.Kind)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

// RemoveColumn handles DELETE /collections/{name}/columns/{id}.
func (h *GridHandler) RemoveColumn(w http.ResponseWriter, r *http.Request) {
	if err := h.grids.RemoveColumn(collectionName(r), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// AddRow handles POST /collections/{name}/rows.
func (h *GridHandler) AddRow(w http.ResponseWriter, r *http.Request) {
	var req RowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	row, err := h.grids.AddRow(collectionName(r), req.Cells)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// UpdateRow handles PUT /collections/{name}/rows/{id}.
func (h *GridHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	var req RowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	row, err := h.grids.UpdateRow(collectionName(r), chi.URLParam(r, "id"), req.Cells)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// DeleteRow handles DELETE /collections/{name}/rows/{id}.
func (h *GridHandler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	if err := h.grids.DeleteRow(collectionName(r), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Export handles GET /export: the full envelope as a download.
func (h *GridHandler) Export(w http.ResponseWriter, _ *http.Request) {
	blob, err := backup.Export(h.store, h.grids)
	if err != nil {
		writeAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="laguz-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// Import handles POST /import: full replace of each logical store
// present in the payload.
func (h *GridHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("read body"))
		return
	}
	if err := backup.Import(blob, h.store, h.grids); err != nil {
		if errors.Is(err, apperr.ErrChecksumMismatch) {
			writeAppError(w, err)
		} else {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
