package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/go-faster/errors"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
)

// NewStdioServer exposes the registry through the mcp-go server, which owns
// the line-delimited stdio framing.
func NewStdioServer(registry *modules.Registry, info ServerInfo) (*server.MCPServer, error) {
	s := server.NewMCPServer(info.Name, info.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(instructions),
	)

	for _, t := range registry.Tools() {
		schema, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, errors.Wrapf(err, "schema of %s", t.Name)
		}
		tool := mcpgo.NewToolWithRawSchema(t.Name, t.Description, schema)
		if a := t.Annotations; a != nil {
			tool.Annotations = mcpgo.ToolAnnotation{
				ReadOnlyHint:    a.ReadOnlyHint,
				DestructiveHint: a.DestructiveHint,
				IdempotentHint:  a.IdempotentHint,
				OpenWorldHint:   a.OpenWorldHint,
			}
		}
		s.AddTool(tool, toolHandler(registry, t.Name))
	}

	for _, r := range registry.Resources() {
		s.AddResource(mcpgo.NewResource(r.URI, r.Name,
			mcpgo.WithResourceDescription(r.Description),
			mcpgo.WithMIMEType(r.MimeType),
		), resourceHandler(registry, r))
	}
	return s, nil
}

func toolHandler(registry *modules.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		res := registry.Run(ctx, name, req.GetArguments())
		if res.IsError {
			return mcpgo.NewToolResultError(res.Text()), nil
		}
		return mcpgo.NewToolResultText(res.Text()), nil
	}
}

func resourceHandler(registry *modules.Registry, r modules.Resource) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcpgo.ReadResourceRequest) ([]mcpgo.ResourceContents, error) {
		text, err := registry.ReadResource(ctx, r.URI)
		if err != nil {
			return nil, err
		}
		return []mcpgo.ResourceContents{
			mcpgo.TextResourceContents{URI: r.URI, MIMEType: r.MimeType, Text: text},
		}, nil
	}
}

// ServeStdio serves MCP on in/out until ctx is cancelled or in is closed.
// Diagnostics go to the standard logger, never to out.
func ServeStdio(ctx context.Context, registry *modules.Registry, info ServerInfo, in io.Reader, out io.Writer) error {
	s, err := NewStdioServer(registry, info)
	if err != nil {
		return err
	}
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(log.Default())

	log.Printf("[mcp] serving %d tools on stdio", len(registry.Tools()))
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "stdio")
	}
	return nil
}
