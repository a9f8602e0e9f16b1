package mcp

import (
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/mcp/mcpctx"
	"github.com/neboloop/mindsort/internal/mcp/tools"
	"github.com/neboloop/mindsort/internal/svc"
)

// NewServer creates an MCP server whose tools act on behalf of ownerID.
func NewServer(svc *svc.ServiceContext, ownerID, sessionID string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mindsort",
		Version: svc.Version,
	}, nil)

	requestID := uuid.New().String()
	logging.Debugf("[MCP] Creating server for %s (session %q, request %s)", ownerID, sessionID, requestID)

	toolCtx := mcpctx.NewToolContext(svc, ownerID, requestID, sessionID)
	tools.RegisterTaskTools(server, toolCtx)
	return server
}
