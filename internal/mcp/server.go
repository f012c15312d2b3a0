package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultSessionID is used when a request carries no session.
const DefaultSessionID = "default"

// Config contains server configuration.
type Config struct {
	Handler *Handler
	Version string
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "medchron",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Handler)

	return server
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		tool := &sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
		if def.Annotations != nil {
			if ro, _ := def.Annotations["readOnlyHint"].(bool); ro {
				tool.Annotations = &sdkmcp.ToolAnnotations{ReadOnlyHint: true}
			}
		}
		name := def.Name
		server.AddTool(tool, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, requestSessionID(ctx, req), name, args)
			return toolResult(result, err)
		})
	}
}

// requestSessionID prefers an id injected by sessionMiddleware, then the
// transport session, then DefaultSessionID.
func requestSessionID(ctx context.Context, req *sdkmcp.CallToolRequest) string {
	if id := getSessionID(ctx); id != "" {
		return id
	}
	if req != nil && req.Session != nil {
		if id := req.Session.ID(); id != "" {
			return id
		}
	}
	return DefaultSessionID
}

// toolResult renders a handler result as JSON text. Domain errors become
// tool errors carrying an APIError body; other errors fail the request.
func toolResult(result any, err error) (*sdkmcp.CallToolResult, error) {
	if err != nil {
		apiErr := MapError(err)
		if apiErr == nil {
			return nil, err
		}
		data, mErr := json.Marshal(apiErr)
		if mErr != nil {
			return nil, mErr
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
			IsError: true,
		}, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}
