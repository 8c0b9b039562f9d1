package mcp

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-faster/errors"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/jsonrpc"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
)

const instructions = "Anime catalog tools. Use search_anime or the listing tools to find a slug, " +
	"then get_anime_details, get_anime_episodes or get_episode_info. MyAnimeList tools start with mal_. " +
	"Every tool accepts format: \"json\" for structured output."

// Handler answers MCP JSON-RPC requests from the registered modules.
type Handler struct {
	registry *modules.Registry
	info     ServerInfo
}

func NewHandler(registry *modules.Registry, info ServerInfo) *Handler {
	return &Handler{
		registry: registry,
		info:     info,
	}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// Called by the transport middleware.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (any, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(req), nil
	case "initialized", "notifications/initialized":
		return nil, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return &ToolsListResult{Tools: h.registry.Tools()}, nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	case "resources/list":
		return h.handleResourcesList(), nil
	case "resources/read":
		return h.handleResourceRead(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize(req *jsonrpc.Request) *InitializeResult {
	var params InitializeParams
	if decodeParams(req, &params) == nil && params.ClientInfo.Name != "" {
		log.Printf("[mcp] initialize from %s %s (protocol %s)", params.ClientInfo.Name, params.ClientInfo.Version, params.ProtocolVersion)
	}
	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
		},
		ServerInfo:   h.info,
		Instructions: instructions,
	}
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*ToolCallResult, *jsonrpc.Error) {
	var params ToolCallParams
	if err := decodeParams(req, &params); err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params structure"}
	}
	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "name is required"}
	}
	if params.Arguments == nil {
		params.Arguments = make(map[string]any)
	}
	return h.registry.Run(ctx, params.Name, params.Arguments), nil
}

func (h *Handler) handleResourcesList() *ResourcesListResult {
	resources := h.registry.Resources()
	if resources == nil {
		resources = []modules.Resource{}
	}
	return &ResourcesListResult{Resources: resources}
}

func (h *Handler) handleResourceRead(ctx context.Context, req *jsonrpc.Request) (*ResourceReadResult, *jsonrpc.Error) {
	var params ResourceReadParams
	if err := decodeParams(req, &params); err != nil || params.URI == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "uri is required"}
	}

	text, err := h.registry.ReadResource(ctx, params.URI)
	switch {
	case errors.Is(err, modules.ErrUnknownResource):
		return nil, &jsonrpc.Error{Code: ErrResourceNotFound, Message: "Resource not found", Data: map[string]string{"uri": params.URI}}
	case err != nil:
		log.Printf("[mcp] read %s: %v", params.URI, err)
		return nil, &jsonrpc.Error{Code: InternalError, Message: "failed to read resource"}
	}

	mime := ""
	for _, r := range h.registry.Resources() {
		if r.URI == params.URI {
			mime = r.MimeType
		}
	}
	return &ResourceReadResult{Contents: []ResourceContents{{URI: params.URI, MimeType: mime, Text: text}}}, nil
}

// decodeParams re-decodes the generic params value into dst.
func decodeParams(req *jsonrpc.Request, dst any) error {
	if req.Params == nil {
		return errors.New("params missing")
	}
	raw, err := json.Marshal(req.Params)
	if err != nil {
		return errors.Wrap(err, "encode params")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrap(err, "decode params")
	}
	return nil
}
