// Package store owns the canonical note state: active notes keyed by
// title, the trash list, and the current selection. Every mutation is
// followed by a best-effort save of the whole document.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/graph"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/storage"
)

// HomeTitle is the note that is always a valid navigation target. It is
// materialized at startup when absent.
const HomeTitle = "Home"

// RestoredSuffix is appended to a restored title when the original
// title is taken by an active note.
const RestoredSuffix = " (restored)"

// Store is the note lifecycle manager. A single mutex serialises all
// operations, preserving the one-writer model: every mutation is atomic
// from the perspective of any observer.
type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	logger   *slog.Logger
	resolver *graph.Resolver

	notes   map[string]models.Note
	trash   []models.TrashEntry
	current string

	now func() time.Time
}

// New creates a Store, loading state from the provider. A missing or
// unreadable blob falls back to the empty initial state; the Home note
// is materialized when absent so navigation always has a valid target.
func New(provider storage.Provider, logger *slog.Logger) *Store {
	s := &Store{
		provider: provider,
		logger:   logger,
		resolver: graph.NewResolver(),
		notes:    make(map[string]models.Note),
		now:      time.Now,
	}
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureHome()
	s.current = s.mostRecentTitle()
	return s
}

// load reads and decodes the persisted document. Any failure degrades
// to the empty initial state; in-memory state is authoritative for the
// session.
func (s *Store) load() {
	blob, err := s.provider.Get(storage.KeyNotes)
	if err != nil {
		s.logger.Warn("store: read failed, starting empty", slog.String("error", err.Error()))
		return
	}
	if blob == nil {
		return
	}
	var doc models.NotesDocument
	if err := json.Unmarshal(blob, &doc); err != nil {
		s.logger.Warn("store: corrupted blob, starting empty", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyDocument(doc)
}

// applyDocument replaces in-memory state with doc. Caller holds the lock.
func (s *Store) applyDocument(doc models.NotesDocument) {
	s.notes = make(map[string]models.Note, len(doc.Notes))
	for title, rec := range doc.Notes {
		s.notes[title] = models.Note{
			Title:     title,
			Content:   rec.Content,
			UpdatedAt: time.UnixMilli(rec.Updated),
		}
	}
	s.trash = make([]models.TrashEntry, 0, len(doc.Trash))
	for _, rec := range doc.Trash {
		s.trash = append(s.trash, models.TrashEntry{
			Title:     rec.Title,
			Content:   rec.Content,
			DeletedAt: time.UnixMilli(rec.DeletedAt),
		})
	}
}

// document builds the persisted form of the current state. Caller holds
// the lock.
func (s *Store) document() models.NotesDocument {
	doc := models.NotesDocument{
		Notes: make(map[string]models.NoteRecord, len(s.notes)),
		Trash: make([]models.TrashRecord, 0, len(s.trash)),
	}
	for title, n := range s.notes {
		doc.Notes[title] = models.NoteRecord{
			Content: n.Content,
			Updated: n.UpdatedAt.UnixMilli(),
		}
	}
	for _, e := range s.trash {
		doc.Trash = append(doc.Trash, models.TrashRecord{
			Title:     e.Title,
			Content:   e.Content,
			DeletedAt: e.DeletedAt.UnixMilli(),
		})
	}
	return doc
}

// persist writes the document after a mutation. Failure is logged and
// swallowed: durability is advisory, in-memory state stays
// authoritative. Caller holds the lock.
func (s *Store) persist() {
	blob, err := json.Marshal(s.document())
	if err != nil {
		s.logger.Warn("store: marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := s.provider.Set(storage.KeyNotes, blob); err != nil {
		s.logger.Warn("store: save failed", slog.String("error", err.Error()))
	}
}

// ensureHome materializes the Home note when absent. Caller holds the
// lock.
func (s *Store) ensureHome() {
	if _, ok := s.notes[HomeTitle]; ok {
		return
	}
	s.notes[HomeTitle] = models.Note{Title: HomeTitle, UpdatedAt: s.now()}
	s.persist()
}

// mostRecentTitle returns the most recently updated title, or Home.
// Caller holds the lock.
func (s *Store) mostRecentTitle() string {
	best := HomeTitle
	var bestAt time.Time
	for title, n := range s.notes {
		if n.UpdatedAt.After(bestAt) || (n.UpdatedAt.Equal(bestAt) && title < best) {
			best, bestAt = title, n.UpdatedAt
		}
	}
	return best
}

// Get returns the active note with this exact title.
func (s *Store) Get(title string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[title]
	if !ok {
		return models.Note{}, apperr.ErrNotFound
	}
	return n, nil
}

// Create inserts a new empty note and selects it. It reports
// apperr.ErrTitleExists when the title is already active.
func (s *Store) Create(title string) (models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return models.Note{}, apperr.ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[title]; ok {
		return models.Note{}, apperr.ErrTitleExists
	}
	n := models.Note{Title: title, UpdatedAt: s.now()}
	s.notes[title] = n
	s.current = title
	s.persist()
	return n, nil
}

// Open navigates to a title, creating an empty note first when no
// active note has this exact title. The same auto-vivify path serves
// explicit navigation, wikilink activation, and restore fallback. The
// second result reports whether a note was created.
func (s *Store) Open(title string) (models.Note, bool, error) {
	if strings.TrimSpace(title) == "" {
		return models.Note{}, false, apperr.ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, created := s.open(title)
	return n, created, nil
}

// open is the lock-held auto-vivify path.
func (s *Store) open(title string) (models.Note, bool) {
	n, ok := s.notes[title]
	if !ok {
		n = models.Note{Title: title, UpdatedAt: s.now()}
		s.notes[title] = n
	}
	s.current = title
	if !ok {
		s.persist()
	}
	return n, !ok
}

// SetContent replaces a note's content and bumps its timestamp.
func (s *Store) SetContent(title, content string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[title]
	if !ok {
		return models.Note{}, apperr.ErrNotFound
	}
	n.Content = content
	n.UpdatedAt = s.now()
	s.notes[title] = n
	s.persist()
	return n, nil
}

// Rename moves a note under a new title. An empty or identical new
// title is a no-op. A collision with another active note reports
// apperr.ErrTitleExists and leaves state unchanged. The current
// selection follows the rename.
func (s *Store) Rename(oldTitle, newTitle string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[oldTitle]
	if !ok {
		return models.Note{}, apperr.ErrNotFound
	}
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" || newTitle == oldTitle {
		return n, nil
	}
	if _, exists := s.notes[newTitle]; exists {
		return models.Note{}, apperr.ErrTitleExists
	}
	delete(s.notes, oldTitle)
	s.resolver.Forget(oldTitle)
	n.Title = newTitle
	n.UpdatedAt = s.now()
	s.notes[newTitle] = n
	if s.current == oldTitle {
		s.current = newTitle
	}
	s.persist()
	return n, nil
}

// SoftDelete snapshots a note into the trash (prepended, most recent
// first) and removes it from the active set. When the deleted note was
// current, the selection falls back to the most recent remaining note,
// or Home when none remain. Confirmation is the caller's concern.
func (s *Store) SoftDelete(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[title]
	if !ok {
		return apperr.ErrNotFound
	}
	s.trash = append([]models.TrashEntry{{
		Title:     n.Title,
		Content:   n.Content,
		DeletedAt: s.now(),
	}}, s.trash...)
	delete(s.notes, title)
	s.resolver.Forget(title)
	if s.current == title {
		if len(s.notes) == 0 {
			s.open(HomeTitle)
		} else {
			s.current = s.mostRecentTitle()
		}
	}
	s.persist()
	return nil
}

// Trash returns a copy of the trash list, most recent deletion first.
func (s *Store) Trash() []models.TrashEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TrashEntry, len(s.trash))
	copy(out, s.trash)
	return out
}

// Restore consumes the trash entry at index and re-creates the note.
// When the original title is taken by an active note the restored note
// is suffixed rather than overwriting; if the suffixed title is taken
// too, numbered suffixes are tried until a free one is found. The
// restored note becomes current.
func (s *Store) Restore(index int) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.trash) {
		return models.Note{}, apperr.ErrNotFound
	}
	entry := s.trash[index]
	s.trash = append(s.trash[:index], s.trash[index+1:]...)

	title := entry.Title
	if _, taken := s.notes[title]; taken {
		title = entry.Title + RestoredSuffix
		for n := 2; ; n++ {
			if _, taken := s.notes[title]; !taken {
				break
			}
			title = fmt.Sprintf("%s (restored %d)", entry.Title, n)
		}
	}
	n := models.Note{Title: title, Content: entry.Content, UpdatedAt: s.now()}
	s.notes[title] = n
	s.current = title
	s.persist()
	return n, nil
}

// Purge permanently removes the trash entry at index. Confirmation is
// the caller's concern.
func (s *Store) Purge(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.trash) {
		return apperr.ErrNotFound
	}
	s.trash = append(s.trash[:index], s.trash[index+1:]...)
	s.persist()
	return nil
}

// EmptyTrash clears the whole trash list. Confirmation is the caller's
// concern.
func (s *Store) EmptyTrash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trash = nil
	s.persist()
}

// List returns all active notes ordered by updatedAt descending.
func (s *Store) List() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

func (s *Store) list() []models.Note {
	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// Search returns active notes whose title contains query,
// case-insensitively, in listing order. Titles only; content is not
// searched.
func (s *Store) Search(query string) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Note
	for _, n := range s.list() {
		if strings.Contains(strings.ToLower(n.Title), q) {
			out = append(out, n)
		}
	}
	return out
}

// Backlinks returns the titles of every other active note whose body
// references title through a wikilink.
func (s *Store) Backlinks(title string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Backlinks(title, s.list())
}

// Current returns the currently selected note. The selection is
// session state and always names an active note.
func (s *Store) Current() models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[s.current]; ok {
		return n
	}
	n, _ := s.open(HomeTitle)
	return n
}

// Document returns a snapshot of the persisted form, for export.
func (s *Store) Document() models.NotesDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document()
}

// ReplaceDocument swaps in a full replacement state, as import does.
// The Home guarantee and selection are re-established afterwards.
func (s *Store) ReplaceDocument(doc models.NotesDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyDocument(doc)
	s.ensureHome()
	s.current = s.mostRecentTitle()
	s.persist()
}

// Reload re-reads state from the provider, picking up writes made by
// another process. The current selection is kept when its note
// survives, otherwise it falls back to the most recent note.
func (s *Store) Reload() {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureHome()
	if _, ok := s.notes[s.current]; !ok {
		s.current = s.mostRecentTitle()
	}
}
