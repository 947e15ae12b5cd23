package graph

import (
	"slices"
	"testing"

	"github.com/starford/laguz/internal/models"
)

func note(title, content string) models.Note {
	return models.Note{Title: title, Content: content}
}

func TestBacklinks_Symmetry(t *testing.T) {
	notes := []models.Note{
		note("Home", "welcome"),
		note("Project", "Hello [[Home]]"),
	}
	r := NewResolver()
	got := r.Backlinks("Home", notes)
	if !slices.Equal(got, []string{"Project"}) {
		t.Errorf("Backlinks(Home) = %v, want [Project]", got)
	}
}

func TestBacklinks_ExcludesSelf(t *testing.T) {
	notes := []models.Note{note("Loop", "points at [[Loop]]")}
	r := NewResolver()
	if got := r.Backlinks("Loop", notes); len(got) != 0 {
		t.Errorf("self-reference counted as backlink: %v", got)
	}
}

func TestBacklinks_CaseSensitiveExactMatch(t *testing.T) {
	notes := []models.Note{
		note("A", "see [[home]]"),
		note("B", "see [[Home Page]]"),
		note("C", "see [[ Home ]]"),
	}
	r := NewResolver()
	got := r.Backlinks("Home", notes)
	if !slices.Equal(got, []string{"C"}) {
		t.Errorf("Backlinks(Home) = %v, want only the trimmed exact match", got)
	}
}

func TestBacklinks_IgnoresFrontmatterLinks(t *testing.T) {
	notes := []models.Note{
		note("A", "---\nref: [[Home]]\n---\nno body link"),
	}
	r := NewResolver()
	if got := r.Backlinks("Home", notes); len(got) != 0 {
		t.Errorf("front-matter link counted as backlink: %v", got)
	}
}

func TestBacklinks_CacheInvalidatesOnContentChange(t *testing.T) {
	r := NewResolver()
	notes := []models.Note{note("A", "see [[Home]]")}
	if got := r.Backlinks("Home", notes); len(got) != 1 {
		t.Fatalf("initial backlinks = %v", got)
	}

	notes[0].Content = "link removed"
	if got := r.Backlinks("Home", notes); len(got) != 0 {
		t.Errorf("stale cached links after edit: %v", got)
	}
}

func TestBacklinks_Sorted(t *testing.T) {
	notes := []models.Note{
		note("Zulu", "[[Home]]"),
		note("Alpha", "[[Home]]"),
	}
	r := NewResolver()
	got := r.Backlinks("Home", notes)
	if !slices.Equal(got, []string{"Alpha", "Zulu"}) {
		t.Errorf("Backlinks(Home) = %v, want sorted", got)
	}
}
