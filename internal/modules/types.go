package modules

import "context"

// =============================================================================
// Localization
// =============================================================================

// LocalizedText holds multilingual text.
// key: BCP47 language code (en-US, ja-JP)
type LocalizedText map[string]string

// =============================================================================
// Module Interface
// =============================================================================

// Module defines the interface that all modules must implement.
// Each module provides Tools and Resources (MCP primitives).
type Module interface {
	// Metadata
	Name() string
	Description() string         // English description (for MCP schema)
	Descriptions() LocalizedText // Multilingual descriptions
	APIVersion() string

	// Tools - one text result per call
	Tools() []Tool
	ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error)

	// Resources - LLM reads, no side effects
	Resources() []Resource
	ReadResource(ctx context.Context, uri string) (string, error)
}

// =============================================================================
// Tool Definition
// =============================================================================

// ToolAnnotations describes the tool's behavior hints per MCP spec (2025-11-25).
type ToolAnnotations struct {
	ReadOnlyHint    *bool `json:"readOnlyHint,omitempty"`
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
	IdempotentHint  *bool `json:"idempotentHint,omitempty"`
	OpenWorldHint   *bool `json:"openWorldHint,omitempty"`
}

func boolPtr(v bool) *bool { return &v }

// Pre-built annotation sets for common tool patterns
var (
	// AnnotateReadOnly: search, browse and lookup tools backed by a remote API
	AnnotateReadOnly = &ToolAnnotations{
		ReadOnlyHint:   boolPtr(true),
		IdempotentHint: boolPtr(true),
		OpenWorldHint:  boolPtr(true),
	}
	// AnnotateLocal: tools answered without any network call
	AnnotateLocal = &ToolAnnotations{
		ReadOnlyHint:   boolPtr(true),
		IdempotentHint: boolPtr(true),
		OpenWorldHint:  boolPtr(false),
	}
	// AnnotateExchange: one-time credential operations (an authorization
	// code can be redeemed once)
	AnnotateExchange = &ToolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}
)

// Tool represents an MCP tool definition
type Tool struct {
	ID           string           `json:"id,omitempty"`           // Stable ID (e.g., "hianime:search_anime")
	Name         string           `json:"name"`                   // Display name / execution key
	Description  string           `json:"description"`            // Runtime description (after language selection)
	Descriptions LocalizedText    `json:"descriptions,omitempty"` // Multilingual descriptions (for export)
	InputSchema  InputSchema      `json:"inputSchema"`
	Annotations  *ToolAnnotations `json:"annotations,omitempty"`
}

// InputSchema defines the input parameters for a tool
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property defines a single property in the input schema
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Enum        []string  `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
	Minimum     *int      `json:"minimum,omitempty"`
	Maximum     *int      `json:"maximum,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// =============================================================================
// Resource Definition
// =============================================================================

// Resource represents an MCP resource definition
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// =============================================================================
// Result Types
// =============================================================================

// ToolCallResult represents the result of a tool call
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock represents a content block in the result
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextResult wraps text in a single-block result.
func TextResult(text string) *ToolCallResult {
	return &ToolCallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// Text returns the concatenated text of all blocks.
func (r *ToolCallResult) Text() string {
	if r == nil {
		return ""
	}
	out := ""
	for _, c := range r.Content {
		out += c.Text
	}
	return out
}
