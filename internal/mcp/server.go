package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/punyakrit/SmartCue/internal/ipc"
)

const (
	ServerName    = "smartcue"
	ServerVersion = "0.1.0"
)

// Server exposes the overlay daemon to MCP clients over stdio. Every tool
// call forwards to the daemon through its IPC socket.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server that talks to the local daemon.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the overlay daemon status: visibility state, incognito flag, window position, active display, and uptime.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_overlay",
		Description: "Make the overlay visible without stealing focus from the current application.",
	}, s.handleShowOverlay)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_overlay",
		Description: "Hide the overlay completely: invisible, capture-protected, and out of the taskbar.",
	}, s.handleHideOverlay)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_incognito",
		Description: "Toggle incognito mode while the overlay is shown. Incognito dims the overlay and excludes it from screen capture.",
	}, s.handleToggleIncognito)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_overlay",
		Description: "Nudge the overlay in a direction by one or more steps. Moves are clamped to the current display and pause desktop following briefly.",
	}, s.handleMoveOverlay)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_note",
		Description: "Save a note to the overlay's note store. Pass an existing ID to update; omit it to create.",
	}, s.handleSaveNote)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_note",
		Description: "Fetch a stored note by ID, including its full body.",
	}, s.handleGetNote)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_notes",
		Description: "List stored notes, most recently updated first. Returns summaries without bodies.",
	}, s.handleListNotes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "delete_note",
		Description: "Delete a stored note by ID.",
	}, s.handleDeleteNote)
}
