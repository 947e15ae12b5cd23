// Package graph resolves the implicit note graph: which notes
// reference a given title through wikilinks.
package graph

import (
	"slices"
	"sync"

	"github.com/starford/laguz/internal/checksum"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
)

type cacheEntry struct {
	sum   string
	links []string
}

// Resolver computes backlinks over the full note set. Membership is
// recomputed on every query; the extracted link set per note is cached
// keyed on a content checksum, so unchanged notes are not re-parsed.
type Resolver struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]cacheEntry)}
}

// Backlinks returns the titles of every other note whose body contains
// a wikilink whose trimmed target equals title exactly. Matching is
// case-sensitive; there is no alias or fuzzy resolution. Results are
// sorted for deterministic output.
func (r *Resolver) Backlinks(title string, notes []models.Note) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, n := range notes {
		if n.Title == title {
			continue
		}
		if slices.Contains(r.links(n), title) {
			out = append(out, n.Title)
		}
	}
	slices.Sort(out)
	return out
}

// links returns the wikilink targets in the note body, from cache when
// the content is unchanged.
func (r *Resolver) links(n models.Note) []string {
	sum := checksum.Sum([]byte(n.Content))
	if e, ok := r.cache[n.Title]; ok && e.sum == sum {
		return e.links
	}
	links := parser.ExtractLinks(parser.Parse(n.Content).Body)
	r.cache[n.Title] = cacheEntry{sum: sum, links: links}
	return links
}

// Forget drops the cached link set for a title. Called after rename or
// delete so stale cache entries do not accumulate.
func (r *Resolver) Forget(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, title)
}
