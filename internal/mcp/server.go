package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"save_item": {
		def:     saveItemToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSaveItem },
	},
	"list_items": {
		def:     listItemsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListItems },
	},
	"create_trip": {
		def:     createTripToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreateTrip },
	},
	"list_trips": {
		def:     listTripsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListTrips },
	},
	"attach_item": {
		def:     attachItemToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAttachItem },
	},
	"assign_day": {
		def:     assignDayToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAssignDay },
	},
	"trip_days": {
		def:     tripDaysToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTripDays },
	},
	"share_trip": {
		def:     shareTripToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleShareTrip },
	},
}

// AllToolNames returns a list of all registered tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with tripstash tools registered.
func NewServer(db *sql.DB, cfg *config.Config, fetcher ops.PreviewFetcher, sink analytics.Sink, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"tripstash",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, fetcher, sink)

	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, fetcher ops.PreviewFetcher, sink analytics.Sink, version string) error {
	s := NewServer(db, cfg, fetcher, sink, version)
	return server.ServeStdio(s)
}
