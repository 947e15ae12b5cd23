// Package parser splits note content into front-matter properties and
// prose body, and extracts wikilink targets.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/laguz/internal/models"
)

const delim = "---\n"

var wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)

// Parse splits raw note content into an ordered property list and the
// remaining body. It is total: malformed or absent front matter
// degrades to "no properties, full text as body" and never errors.
//
// The front-matter block opens with a "---" line at the very start of
// the content and closes at the next line consisting of "---". Each
// header line of the form "key: value" (first colon wins, both sides
// trimmed) becomes a property; other header lines are skipped.
func Parse(content string) models.ParsedNote {
	if !strings.HasPrefix(content, delim) {
		return models.ParsedNote{Body: content}
	}

	rest := content[len(delim):]
	end := closingDelim(rest)
	if end < 0 {
		return models.ParsedNote{Body: content}
	}

	header := rest[:end]
	body := rest[end+len("\n---"):]
	// A single newline after the closing delimiter belongs to the
	// delimiter line, not the body.
	body = strings.TrimPrefix(body, "\n")

	var props []models.Property
	for _, line := range strings.Split(header, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		props = append(props, models.Property{Key: key, Value: strings.TrimSpace(value)})
	}

	return models.ParsedNote{Properties: props, Body: body}
}

// closingDelim returns the index of the newline that precedes the
// closing front-matter line, or -1. The closing line must consist of
// exactly "---": a line that merely starts with it ("----", "--- x")
// is header text, not a delimiter.
func closingDelim(s string) int {
	for from := 0; ; {
		i := strings.Index(s[from:], "\n---")
		if i < 0 {
			return -1
		}
		i += from
		if next := i + len("\n---"); next == len(s) || s[next] == '\n' {
			return i
		}
		from = i + 1
	}
}

// Serialize renders properties back into a front-matter block followed
// by body. With no properties it returns the body unchanged, so
// Parse(Serialize(p, b)) round-trips for any well-formed property list.
func Serialize(props []models.Property, body string) string {
	if len(props) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString("---\n")
	for _, p := range props {
		b.WriteString(p.Key)
		b.WriteString(": ")
		b.WriteString(p.Value)
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String()
}

// ExtractLinks returns the deduplicated wikilink targets found in body,
// trimmed, in first-occurrence order. Empty targets are dropped.
func ExtractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// LinksTo reports whether body contains at least one wikilink whose
// trimmed target equals title exactly (case-sensitive).
func LinksTo(body, title string) bool {
	for _, m := range wikilinkRe.FindAllStringSubmatch(body, -1) {
		if strings.TrimSpace(m[1]) == title {
			return true
		}
	}
	return false
}
