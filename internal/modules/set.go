package modules

import (
	"context"
	"fmt"
)

// Dispatcher is implemented by modules that classify their outcomes.
// Registry.Run prefers it over ExecuteTool.
type Dispatcher interface {
	Dispatch(ctx context.Context, tool string, params map[string]any) (Outcome, error)
}

// ResourceReader produces a resource body.
type ResourceReader func(ctx context.Context) (string, error)

// Set is a Module made of static bindings.
type Set struct {
	name         string
	version      string
	descriptions LocalizedText
	bindings     map[string]Binding
	tools        []Tool
	resources    []Resource
	readers      map[string]ResourceReader
}

// NewSet builds a module from bindings. Tool order follows bindings.
func NewSet(name, apiVersion string, descriptions LocalizedText, bindings ...Binding) *Set {
	s := &Set{
		name:         name,
		version:      apiVersion,
		descriptions: descriptions,
		bindings:     make(map[string]Binding, len(bindings)),
		readers:      make(map[string]ResourceReader),
	}
	for _, b := range bindings {
		if _, dup := s.bindings[b.Name]; dup {
			panic(fmt.Sprintf("modules: duplicate tool %s in module %s", b.Name, name))
		}
		s.bindings[b.Name] = b
		s.tools = append(s.tools, b.Tool(name))
	}
	return s
}

// WithResource adds a read-only resource.
func (s *Set) WithResource(r Resource, read ResourceReader) *Set {
	s.resources = append(s.resources, r)
	s.readers[r.URI] = read
	return s
}

func (s *Set) Name() string { return s.name }
func (s *Set) Description() string { return s.descriptions["en-US"] }
func (s *Set) Descriptions() LocalizedText { return s.descriptions }
func (s *Set) APIVersion() string { return s.version }
func (s *Set) Tools() []Tool { return s.tools }
func (s *Set) Resources() []Resource { return s.resources }

// Binding returns the binding behind tool.
func (s *Set) Binding(tool string) (Binding, bool) {
	b, ok := s.bindings[tool]
	return b, ok
}

// Dispatch runs tool. The error is reserved for unknown tools.
func (s *Set) Dispatch(ctx context.Context, tool string, params map[string]any) (Outcome, error) {
	b, ok := s.bindings[tool]
	if !ok {
		return Outcome{}, fmt.Errorf("unknown tool: %s", tool)
	}
	return Dispatch(ctx, b, params), nil
}

// ExecuteTool runs tool and returns its text.
func (s *Set) ExecuteTool(ctx context.Context, tool string, params map[string]any) (string, error) {
	out, err := s.Dispatch(ctx, tool, params)
	return out.Text, err
}

// ReadResource reads a resource by URI
func (s *Set) ReadResource(ctx context.Context, uri string) (string, error) {
	read, ok := s.readers[uri]
	if !ok {
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
	return read(ctx)
}
