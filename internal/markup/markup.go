// Package markup renders the inline note dialect: headings, bold,
// italic, underline, and [[wikilink]] tokens.
//
// The dialect is deliberately small and single-pass: spans are
// recognized left to right with a fixed precedence (bold, italic,
// underline, wikilink) and span bodies are plain text. Nested or
// overlapping constructs are unspecified.
package markup

import (
	"html"
	"strings"
)

// SpanKind classifies an inline span.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanItalic
	SpanUnderline
	SpanLink
)

// Span is one inline fragment of a rendered line. For SpanLink, Target
// carries the trimmed note title the link points at and Text the raw
// enclosed text.
type Span struct {
	Kind   SpanKind
	Text   string
	Target string
}

// LineKind classifies a rendered line.
type LineKind int

const (
	LineParagraph LineKind = iota
	LineHeading
	LineBlank
)

// Line is one display fragment: a heading (Level 1..3), a paragraph of
// spans, or a blank spacer.
type Line struct {
	Kind  LineKind
	Level int
	Spans []Span
}

// Render tokenizes body text line by line into display fragments.
func Render(body string) []Line {
	var out []Line
	for _, raw := range strings.Split(body, "\n") {
		out = append(out, renderLine(raw))
	}
	return out
}

// renderLine classifies a single line. Heading markers are checked from
// the longest prefix down so "### " never parses as a level-1 heading
// with leading hashes.
func renderLine(raw string) Line {
	if strings.TrimSpace(raw) == "" {
		return Line{Kind: LineBlank}
	}
	for level := 3; level >= 1; level-- {
		marker := strings.Repeat("#", level) + " "
		if strings.HasPrefix(raw, marker) {
			return Line{
				Kind:  LineHeading,
				Level: level,
				Spans: []Span{{Kind: SpanText, Text: strings.TrimPrefix(raw, marker)}},
			}
		}
	}
	return Line{Kind: LineParagraph, Spans: tokenize(raw)}
}

// span delimiter table, in precedence order.
var delims = []struct {
	kind  SpanKind
	open  string
	close string
}{
	{SpanBold, "**", "**"},
	{SpanItalic, "*", "*"},
	{SpanUnderline, "__", "__"},
	{SpanLink, "[[", "]]"},
}

// tokenize scans a line left to right, emitting spans. An opening
// delimiter without a matching closer is treated as plain text.
func tokenize(line string) []Span {
	var spans []Span
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(line) {
		matched := false
		for _, d := range delims {
			if !strings.HasPrefix(line[i:], d.open) {
				continue
			}
			inner := line[i+len(d.open):]
			end := strings.Index(inner, d.close)
			if end < 0 {
				continue
			}
			if d.kind != SpanLink && end == 0 {
				// "**" alone is not an empty bold span.
				continue
			}
			flush()
			body := inner[:end]
			sp := Span{Kind: d.kind, Text: body}
			if d.kind == SpanLink {
				sp.Target = strings.TrimSpace(body)
			}
			spans = append(spans, sp)
			i += len(d.open) + end + len(d.close)
			matched = true
			break
		}
		if !matched {
			text.WriteByte(line[i])
			i++
		}
	}
	flush()
	return spans
}

// RenderHTML writes the display fragments as an HTML string. Raw text
// is escaped before any tags are emitted, so note content cannot inject
// markup. Wikilinks become anchors carrying their target title in a
// data attribute; the view layer binds activation to open-note.
func RenderHTML(body string) string {
	var b strings.Builder
	for _, line := range Render(body) {
		writeLineHTML(&b, line)
	}
	return b.String()
}

func writeLineHTML(b *strings.Builder, line Line) {
	switch line.Kind {
	case LineBlank:
		b.WriteString("<p>&nbsp;</p>\n")
	case LineHeading:
		tag := [...]string{1: "h1", 2: "h2", 3: "h3"}[line.Level]
		b.WriteString("<" + tag + ">")
		b.WriteString(html.EscapeString(line.Spans[0].Text))
		b.WriteString("</" + tag + ">\n")
	case LineParagraph:
		b.WriteString("<p>")
		for _, sp := range line.Spans {
			writeSpanHTML(b, sp)
		}
		b.WriteString("</p>\n")
	}
}

func writeSpanHTML(b *strings.Builder, sp Span) {
	switch sp.Kind {
	case SpanBold:
		b.WriteString("<strong>" + html.EscapeString(sp.Text) + "</strong>")
	case SpanItalic:
		b.WriteString("<em>" + html.EscapeString(sp.Text) + "</em>")
	case SpanUnderline:
		b.WriteString("<u>" + html.EscapeString(sp.Text) + "</u>")
	case SpanLink:
		b.WriteString(`<a href="#" class="wikilink" data-title="`)
		b.WriteString(html.EscapeString(sp.Target))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(sp.Target))
		b.WriteString("</a>")
	default:
		b.WriteString(html.EscapeString(sp.Text))
	}
}
