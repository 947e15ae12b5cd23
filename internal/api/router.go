package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/grid"
	"github.com/starford/laguz/internal/sse"
	"github.com/starford/laguz/internal/store"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, provides note events and is mounted at
// GET /events inside the auth group.
func NewRouter(s *store.Store, grids *grid.Manager, broker *sse.Broker, authEnabled bool, token string) chi.Router {
	h := NewHandler(s, broker)
	gh := NewGridHandler(grids, s)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes: command surface.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/*", h.GetNote)
	r.Put("/notes/*", h.UpdateNote)
	r.Delete("/notes/*", h.DeleteNote)
	r.Post("/open", h.OpenNote)
	r.Post("/rename", h.RenameNote)
	r.Get("/current", h.CurrentNote)
	r.Get("/backlinks/*", h.Backlinks)

	// Trash lifecycle.
	r.Get("/trash", h.ListTrash)
	r.Post("/trash/{index}/restore", h.RestoreNote)
	r.Delete("/trash/{index}", h.PurgeNote)
	r.Delete("/trash", h.EmptyTrash)

	// Database grid.
	r.Get("/collections", gh.ListCollections)
	r.Post("/collections", gh.CreateCollection)
	r.Get("/collections/{name}", gh.GetCollection)
	r.Delete("/collections/{name}", gh.DeleteCollection)
	r.Post("/collections/{name}/columns", gh.AddColumn)
	r.Delete("/collections/{name}/columns/{id}", gh.RemoveColumn)
	r.Post("/collections/{name}/rows", gh.AddRow)
	r.Put("/collections/{name}/rows/{id}", gh.UpdateRow)
	r.Delete("/collections/{name}/rows/{id}", gh.DeleteRow)

	// Export/import boundary.
	r.Get("/export", gh.Export)
	r.Post("/import", gh.Import)

	// SSE endpoint (protected by the same auth middleware).
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}
