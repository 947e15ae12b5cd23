// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Laguz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/laguz/internal/store"
)

// Server wraps the MCP server with Laguz tools.
type Server struct {
	mcp   *server.MCPServer
	store *store.Store
}

// New creates a new MCP server with all Laguz tools registered.
func New(s *store.Store) *Server {
	srv := &Server{store: s}

	srv.mcp = server.NewMCPServer(
		"Laguz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	srv.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search note titles (case-insensitive substring match)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), srv.searchNotes)

	srv.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full raw content of a note, including front-matter."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Exact note title")),
	), srv.readNote)

	srv.mcp.AddTool(mcp.NewTool("open_note",
		mcp.WithDescription("Open a note by title, creating it empty when it does not exist yet. "+
			"This is how wiki-links are followed."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title to open")),
	), srv.openNote)

	srv.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace the content of an existing note. "+
			"Content SHOULD follow the canonical note format (key: value front-matter "+
			"between --- fences, body with [[wikilinks]]). Read the contract first via "+
			"the get_note_contract tool or the laguz://note-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Exact note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New note content following the Laguz note format contract")),
	), srv.updateNote)

	srv.mcp.AddTool(mcp.NewTool("rename_note",
		mcp.WithDescription("Rename a note. Links pointing at the old title are not rewritten."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Current note title")),
		mcp.WithString("new_title", mcp.Required(), mcp.Description("New note title")),
	), srv.renameNote)

	srv.mcp.AddTool(mcp.NewTool("trash_note",
		mcp.WithDescription("Move a note to the trash. It can be restored later."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title to trash")),
	), srv.trashNote)

	srv.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the canonical Laguz note format contract. "+
			"Call this before creating or updating notes to ensure correct structure."),
	), srv.getNoteContract)

	srv.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all note titles, most recently updated first."),
	), srv.listNotes)

	srv.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes whose body links to the specified note."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the note to find backlinks for")),
	), srv.getBacklinks)

	// Resource: note format contract.
	srv.mcp.AddResource(
		mcp.NewResource("laguz://note-format", "Note Format Contract",
			mcp.WithResourceDescription("Canonical note format that all notes must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		srv.readNoteFormatResource,
	)

	return srv
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := s.store.Search(query)
	titles := make([]string, len(results))
	for i, n := range results {
		titles[i] = n.Title
	}
	out, _ := json.MarshalIndent(titles, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.store.Get(title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", title)), nil
	}
	return mcp.NewToolResultText(n.Content), nil
}

func (s *Server) openNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, created, err := s.store.Open(title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if created {
		return mcp.NewToolResultText(fmt.Sprintf("created: %s", n.Title)), nil
	}
	return mcp.NewToolResultText(n.Content), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.store.SetContent(title, content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s", title)), nil
}

func (s *Server) renameNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newTitle, err := req.RequireString("new_title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.store.Rename(title, newTitle)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("renamed to: %s", n.Title)), nil
}

func (s *Server) trashNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.SoftDelete(title); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("trashed: %s", title)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes := s.store.List()
	var titles []string
	for _, n := range notes {
		titles = append(titles, n.Title)
	}
	return mcp.NewToolResultText(strings.Join(titles, "\n")), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "laguz://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl := s.store.Backlinks(title)
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}
