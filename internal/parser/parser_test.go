package parser

import (
	"testing"

	"github.com/starford/laguz/internal/models"
)

func TestParse_PropertiesAndBody(t *testing.T) {
	input := "---\npriority: high\nstatus: open\n---\nHi [[Bob]]"
	p := Parse(input)
	if len(p.Properties) != 2 {
		t.Fatalf("properties = %v, want 2 entries", p.Properties)
	}
	if p.Properties[0].Key != "priority" || p.Properties[0].Value != "high" {
		t.Errorf("first property = %+v", p.Properties[0])
	}
	if p.Properties[1].Key != "status" || p.Properties[1].Value != "open" {
		t.Errorf("second property = %+v", p.Properties[1])
	}
	if p.Body != "Hi [[Bob]]" {
		t.Errorf("body = %q, want %q", p.Body, "Hi [[Bob]]")
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	p := Parse("Just some text\nwith lines")
	if p.Properties != nil {
		t.Errorf("expected no properties, got %v", p.Properties)
	}
	if p.Body != "Just some text\nwith lines" {
		t.Errorf("body = %q", p.Body)
	}
}

func TestParse_UnterminatedBlock(t *testing.T) {
	input := "---\nkey: value\nno closing delimiter"
	p := Parse(input)
	if p.Properties != nil {
		t.Errorf("expected no properties, got %v", p.Properties)
	}
	if p.Body != input {
		t.Errorf("body = %q, want full input", p.Body)
	}
}

func TestParse_ClosingDelimiterMustBeExact(t *testing.T) {
	// Lines that merely start with "---" do not close the block; the
	// first exact "---" line does.
	input := "---\nkey: value\n----\n--- extra\n---\nbody"
	p := Parse(input)
	if len(p.Properties) != 1 || p.Properties[0].Key != "key" {
		t.Fatalf("properties = %v", p.Properties)
	}
	if p.Body != "body" {
		t.Errorf("body = %q, want %q", p.Body, "body")
	}
}

func TestParse_NearDelimiterNeverCloses(t *testing.T) {
	input := "---\nkey: value\n---- not a delimiter\nbody"
	p := Parse(input)
	if p.Properties != nil {
		t.Errorf("expected no properties, got %v", p.Properties)
	}
	if p.Body != input {
		t.Errorf("body = %q, want full input", p.Body)
	}
}

func TestParse_ClosingDelimiterAtEndOfContent(t *testing.T) {
	p := Parse("---\nkey: value\n---")
	if len(p.Properties) != 1 || p.Properties[0].Value != "value" {
		t.Fatalf("properties = %v", p.Properties)
	}
	if p.Body != "" {
		t.Errorf("body = %q, want empty", p.Body)
	}
}

func TestParse_FirstColonWins(t *testing.T) {
	p := Parse("---\nurl: https://example.com\n---\nbody")
	if got := p.Get("url"); got != "https://example.com" {
		t.Errorf("url = %q", got)
	}
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	p := Parse("---\nvalid: yes\nnot a property line\n: no key\n---\nbody")
	if len(p.Properties) != 1 {
		t.Fatalf("properties = %v, want only the valid line", p.Properties)
	}
	if p.Properties[0].Key != "valid" {
		t.Errorf("property = %+v", p.Properties[0])
	}
}

func TestParse_TrimsKeysAndValues(t *testing.T) {
	p := Parse("---\n  spaced  :  out  \n---\n")
	if len(p.Properties) != 1 || p.Properties[0].Key != "spaced" || p.Properties[0].Value != "out" {
		t.Errorf("properties = %v", p.Properties)
	}
}

func TestParse_Empty(t *testing.T) {
	p := Parse("")
	if p.Properties != nil || p.Body != "" {
		t.Errorf("parse of empty content = %+v", p)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	props := []models.Property{
		{Key: "priority", Value: "high"},
		{Key: "owner", Value: "me"},
	}
	body := "Hello [[Home]]\nsecond line"

	got := Parse(Serialize(props, body))
	if len(got.Properties) != len(props) {
		t.Fatalf("properties = %v, want %v", got.Properties, props)
	}
	for i := range props {
		if got.Properties[i] != props[i] {
			t.Errorf("property %d = %+v, want %+v", i, got.Properties[i], props[i])
		}
	}
	if got.Body != body {
		t.Errorf("body = %q, want %q", got.Body, body)
	}
}

func TestSerialize_NoProperties(t *testing.T) {
	if got := Serialize(nil, "plain"); got != "plain" {
		t.Errorf("got %q, want body unchanged", got)
	}
}

func TestExtractLinks_Basic(t *testing.T) {
	links := ExtractLinks("See [[Note A]] and [[ Note B ]].\nAlso [[Note A]] again.")
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2: %v", len(links), links)
	}
	if links[0] != "Note A" || links[1] != "Note B" {
		t.Errorf("links = %v", links)
	}
}

func TestExtractLinks_EmptyTarget(t *testing.T) {
	if links := ExtractLinks("see [[ ]] and [[]]"); len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}

func TestLinksTo_CaseSensitive(t *testing.T) {
	body := "points at [[Home]]"
	if !LinksTo(body, "Home") {
		t.Error("expected LinksTo(Home) = true")
	}
	if LinksTo(body, "home") {
		t.Error("matching must be case-sensitive")
	}
	if LinksTo(body, "Hom") {
		t.Error("matching must be exact, not prefix")
	}
}

func TestGet_AbsentKey(t *testing.T) {
	p := Parse("---\na: 1\n---\n")
	if got := p.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
}
