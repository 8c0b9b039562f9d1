package modules

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/metrics"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/middleware"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/observability"
)

// =============================================================================
// Registry
// =============================================================================

// ErrUnknownResource is returned by ReadResource for a URI no module serves.
var ErrUnknownResource = errors.New("unknown resource")

// defaultToolTimeout bounds one tool call, fan-out included.
const defaultToolTimeout = 60 * time.Second

// Registry holds the registered modules and routes tool calls to them. It is
// filled once at start and read-only afterwards.
type Registry struct {
	modules []Module
	byName  map[string]Module
	byTool  map[string]Module
	timeout time.Duration
}

// NewRegistry creates an empty registry. toolTimeout <= 0 selects the
// default.
func NewRegistry(toolTimeout time.Duration) *Registry {
	if toolTimeout <= 0 {
		toolTimeout = defaultToolTimeout
	}
	return &Registry{
		byName:  make(map[string]Module),
		byTool:  make(map[string]Module),
		timeout: toolTimeout,
	}
}

// Register adds a module. Tool names are flat across modules and must be
// unique.
func (r *Registry) Register(m Module) error {
	if _, dup := r.byName[m.Name()]; dup {
		return fmt.Errorf("module %s already registered", m.Name())
	}
	for _, t := range m.Tools() {
		if other, dup := r.byTool[t.Name]; dup {
			return fmt.Errorf("tool %s of module %s already registered by %s", t.Name, m.Name(), other.Name())
		}
	}
	r.modules = append(r.modules, m)
	r.byName[m.Name()] = m
	for _, t := range m.Tools() {
		r.byTool[t.Name] = m
	}
	log.Printf("[modules] registered %s (%d tools)", m.Name(), len(m.Tools()))
	return nil
}

// Module returns a module by name
func (r *Registry) Module(name string) (Module, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Modules returns all modules in registration order
func (r *Registry) Modules() []Module {
	return r.modules
}

// Tools returns every tool, flat, with its English description.
func (r *Registry) Tools() []Tool {
	var out []Tool
	for _, m := range r.modules {
		for _, t := range m.Tools() {
			t.Description = t.Descriptions["en-US"]
			t.Descriptions = nil // Don't expose all languages to client
			out = append(out, t)
		}
	}
	return out
}

// Lookup finds the module and definition of a tool.
func (r *Registry) Lookup(tool string) (Module, Tool, bool) {
	m, ok := r.byTool[tool]
	if !ok {
		return nil, Tool{}, false
	}
	for _, t := range m.Tools() {
		if t.Name == tool {
			return m, t, true
		}
	}
	return nil, Tool{}, false
}

// Resources returns every resource of every module.
func (r *Registry) Resources() []Resource {
	var out []Resource
	for _, m := range r.modules {
		out = append(out, m.Resources()...)
	}
	return out
}

// ReadResource finds the module serving uri and reads it.
func (r *Registry) ReadResource(ctx context.Context, uri string) (string, error) {
	for _, m := range r.modules {
		for _, res := range m.Resources() {
			if res.URI == uri {
				return m.ReadResource(ctx, uri)
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownResource, uri)
}

// =============================================================================
// Tool Execution
// =============================================================================

// Run executes one tool call. It always returns a result: validation and
// upstream failures come back as ordinary text, panics are recovered, and
// only an unknown tool or an internal fault sets IsError.
func (r *Registry) Run(ctx context.Context, toolName string, params map[string]any) (result *ToolCallResult) {
	start := time.Now()
	ctx = middleware.EnsureRequestID(ctx)
	requestID := middleware.GetRequestID(ctx)

	m, ok := r.byTool[toolName]
	if !ok {
		log.Printf("[modules] unknown tool: %s", toolName)
		observability.LogToolCall(requestID, "", toolName, 0, string(StatusError), "unknown tool", nil)
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Unknown tool: %s", toolName)}},
			IsError: true,
		}
	}
	moduleName := m.Name()

	status, errMsg := StatusError, ""
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[modules] PANIC in %s:%s: %v\n%s", moduleName, toolName, p, debug.Stack())
			observability.LogPanic(requestID, moduleName+":"+toolName, p)
			status, errMsg = StatusError, "panic"
			result = &ToolCallResult{
				Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Tool %s failed unexpectedly. Please try again later.", toolName)}},
				IsError: true,
			}
		}
		elapsed := time.Since(start)
		metrics.ToolCallsTotal.WithLabelValues(moduleName, toolName, string(status)).Inc()
		metrics.ToolCallDuration.WithLabelValues(moduleName, toolName).Observe(elapsed.Seconds())
		observability.LogToolCall(requestID, moduleName, toolName, elapsed.Milliseconds(), string(status), errMsg, params)
		log.Printf("[modules] %s:%s %s in %dms", moduleName, toolName, status, elapsed.Milliseconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var out Outcome
	var err error
	if d, ok := m.(Dispatcher); ok {
		out, err = d.Dispatch(ctx, toolName, params)
	} else {
		out.Text, err = m.ExecuteTool(ctx, toolName, params)
		out.Status = StatusSuccess
	}
	if err != nil {
		errMsg = err.Error()
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: errMsg}},
			IsError: true,
		}
	}

	status = out.Status
	return TextResult(out.Text)
}
