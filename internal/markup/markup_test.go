package markup

import (
	"strings"
	"testing"
)

func TestRender_Headings(t *testing.T) {
	tests := []struct {
		line  string
		level int
		text  string
	}{
		{"# Top", 1, "Top"},
		{"## Middle", 2, "Middle"},
		{"### Small", 3, "Small"},
	}
	for _, tt := range tests {
		lines := Render(tt.line)
		if len(lines) != 1 {
			t.Fatalf("Render(%q) = %d lines", tt.line, len(lines))
		}
		got := lines[0]
		if got.Kind != LineHeading || got.Level != tt.level {
			t.Errorf("Render(%q) kind=%v level=%d, want heading level %d", tt.line, got.Kind, got.Level, tt.level)
		}
		if got.Spans[0].Text != tt.text {
			t.Errorf("Render(%q) text = %q, want %q", tt.line, got.Spans[0].Text, tt.text)
		}
	}
}

func TestRender_HashWithoutSpaceIsParagraph(t *testing.T) {
	lines := Render("#nospace")
	if lines[0].Kind != LineParagraph {
		t.Errorf("kind = %v, want paragraph", lines[0].Kind)
	}
}

func TestRender_Spans(t *testing.T) {
	lines := Render("a **b** and *c* plus __d__ see [[ E ]]")
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	spans := lines[0].Spans
	var kinds []SpanKind
	for _, sp := range spans {
		kinds = append(kinds, sp.Kind)
	}
	want := []SpanKind{SpanText, SpanBold, SpanText, SpanItalic, SpanText, SpanUnderline, SpanText, SpanLink}
	if len(kinds) != len(want) {
		t.Fatalf("spans = %+v", spans)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("span %d kind = %v, want %v (%+v)", i, kinds[i], want[i], spans)
		}
	}
	link := spans[len(spans)-1]
	if link.Target != "E" {
		t.Errorf("link target = %q, want trimmed %q", link.Target, "E")
	}
}

func TestRender_UnclosedDelimiterIsText(t *testing.T) {
	lines := Render("dangling **bold and [[link")
	for _, sp := range lines[0].Spans {
		if sp.Kind != SpanText {
			t.Errorf("unexpected span %+v, want plain text only", sp)
		}
	}
}

func TestRenderHTML_PlainTextOneParagraphPerLine(t *testing.T) {
	got := RenderHTML("first line\nsecond line")
	want := "<p>first line</p>\n<p>second line</p>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderHTML_EscapesInjection(t *testing.T) {
	got := RenderHTML(`<script>alert("x") & more</script>`)
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw markup leaked: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") || !strings.Contains(got, "&amp; more") {
		t.Errorf("expected escaped output, got %q", got)
	}
}

func TestRenderHTML_WikilinkAnchor(t *testing.T) {
	got := RenderHTML("Hi [[Bob]]")
	want := `<p>Hi <a href="#" class="wikilink" data-title="Bob">Bob</a></p>` + "\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderHTML_BlankLine(t *testing.T) {
	got := RenderHTML("a\n\nb")
	if !strings.Contains(got, "<p>&nbsp;</p>") {
		t.Errorf("blank line not rendered as spacer: %q", got)
	}
}

func TestRenderHTML_SpansInsideHeadingNotApplied(t *testing.T) {
	got := RenderHTML("# Title with **stars**")
	if strings.Contains(got, "<strong>") {
		t.Errorf("span transform applied inside heading: %q", got)
	}
	if !strings.Contains(got, "<h1>Title with **stars**</h1>") {
		t.Errorf("got %q", got)
	}
}
