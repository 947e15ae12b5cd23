package mcpserver

// NoteFormatContract describes the canonical note format that LLM
// consumers should follow when creating or updating notes.
const NoteFormatContract = `# Laguz Note Format Contract

Every note stored in Laguz SHOULD follow this structure.

## Structure

` + "```" + `
---
priority: high
status: in progress
---
# Heading

Body text with **bold**, *italic*, and __underline__ spans.

Use [[Other Note]] to reference other notes by title.
` + "```" + `

## Rules

1. **Front-matter is optional.** When present, the ` + "`" + `---` + "`" + ` fence must be
   the very first line of the note (no leading blank lines).
2. **Properties** are plain ` + "`" + `key: value` + "`" + ` lines. The first colon splits
   key from value; lines without a colon are ignored. No YAML lists or
   nesting.
3. **Titles are identity.** Notes are addressed by exact title, and
   ` + "`" + `[[wikilinks]]` + "`" + ` match titles case-sensitively. There are no file
   paths and no ` + "`" + `.md` + "`" + ` extensions.
4. **Wikilinks** use double brackets: ` + "`" + `[[Other Note]]` + "`" + `. Opening a link
   to a note that does not exist creates it empty.
5. **Markup** is line-oriented: ` + "`" + `#` + "`" + `, ` + "`" + `##` + "`" + `, ` + "`" + `###` + "`" + ` followed by a space
   start a heading; ` + "`" + `**bold**` + "`" + `, ` + "`" + `*italic*` + "`" + `, ` + "`" + `__underline__` + "`" + ` mark spans.
   Headings render their text verbatim, without span styling.
6. **No raw HTML.** Note content is escaped when rendered.

## Example

` + "```" + `
---
priority: high
due: 2026-09-15
---
# Project kickoff

Attendees: [[Alice]], [[Bob]].

**Decision:** ship the *first* milestone by Friday.
` + "```" + `
`
