// ABOUTME: MCP server setup for the coach store.
// ABOUTME: Wraps the MCP server with storage access scoped to one trainer.
package mcp

import (
	"context"
	"errors"

	"github.com/harperreed/coach/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	store     *storage.Store
	trainerID string
	log       zerolog.Logger
}

// NewServer creates a new MCP server acting on behalf of trainerID.
func NewServer(store *storage.Store, trainerID string, log zerolog.Logger) (*Server, error) {
	if store == nil || !store.IsReady() {
		return nil, storage.ErrNotInitialized
	}
	if trainerID == "" {
		return nil, errors.New("trainer id is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "coach",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     store,
		trainerID: trainerID,
		log:       log,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Str("trainer_id", s.trainerID).Msg("mcp server listening on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
