package modules

import (
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/catalog"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/render"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
)

// FormatArg selects the output format on every tool.
const FormatArg = "format"

// Location says where an argument goes in the upstream request.
type Location int

const (
	InQuery Location = iota
	InPath
	InBody
	InHeader
)

// Field maps a tool argument onto a request. Absent or blank arguments are
// not sent.
type Field struct {
	Arg  string
	Name string
	In   Location
}

// Query sends arg as a query parameter of the same name.
func Query(arg string) Field { return Field{Arg: arg, Name: arg, In: InQuery} }

// QueryAs sends arg as the query parameter name.
func QueryAs(arg, name string) Field { return Field{Arg: arg, Name: name, In: InQuery} }

// Path fills the {name} placeholder of the endpoint path with arg.
func Path(arg, name string) Field { return Field{Arg: arg, Name: name, In: InPath} }

// Body sends arg as a JSON body field of the same name.
func Body(arg string) Field { return Field{Arg: arg, Name: arg, In: InBody} }

// Header sends arg as the request header name.
func Header(arg, name string) Field { return Field{Arg: arg, Name: name, In: InHeader} }

// Param declares one tool argument: its schema and how it is normalized.
type Param struct {
	Arg         string
	Type        string // JSON Schema type
	Description string
	Required    bool
	Enum        *catalog.Category // advertised in the schema
	Range       *catalog.Range    // advertised in the schema
	Rule        catalog.Rule
	Default     any
}

// TextParam is a free-form string argument.
func TextParam(arg, description string, required bool) Param {
	return Param{Arg: arg, Type: "string", Description: description, Required: required, Rule: catalog.Text}
}

// EnumParam is a string argument drawn from c.
func EnumParam(arg, description string, c *catalog.Category, required bool) Param {
	return Param{Arg: arg, Type: "string", Description: description, Required: required, Enum: c, Rule: catalog.Enum(c)}
}

// RangeParam is a numeric argument clamped into r, defaulting to r.Default.
func RangeParam(arg, description string, r catalog.Range) Param {
	return Param{Arg: arg, Type: "integer", Description: description, Range: &r, Rule: catalog.Clamp(r), Default: r.Default}
}

var formatParam = Param{
	Arg:         FormatArg,
	Type:        "string",
	Description: `Output format: "text" (default) or "json" for structured output`,
	Enum:        catalog.Formats,
	Rule:        catalog.Enum(catalog.Formats),
	Default:     "text",
}

// Request is one upstream call made by a binding.
type Request struct {
	Provider string // section label when the binding fans out
	Via      upstream.Doer
	Endpoint upstream.Endpoint
	Fields   []Field
}

// Result is the outcome of one Request.
type Result struct {
	Provider string
	Response *upstream.Response
	Err      error
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Err == nil && r.Response != nil }

// Status classifies a finished tool call for logs and metrics.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusInvalid     Status = "invalid"
	StatusUnavailable Status = "unavailable"
	StatusNotFound    Status = "not_found"
	StatusError       Status = "error"
)

// Outcome is the text of a tool call plus its classification.
type Outcome struct {
	Text   string
	Status Status
}

// Presenter turns request results into the caller-visible text.
type Presenter func(a Args, results []Result) Outcome

// Present builds a Presenter from a normalizer and a text renderer. When the
// caller asks for json, the canonical value is rendered as JSON instead. A
// value with a NotFound() method reporting true is classified not_found; one
// with an Incomplete() method reporting true is unavailable, and Dispatch
// replaces its text with the binding's Failure.
func Present[T any](normalize func(Args, []Result) T, text func(Args, T) string) Presenter {
	return func(a Args, results []Result) Outcome {
		v := normalize(a, results)
		if inc, ok := any(v).(interface{ Incomplete() bool }); ok && inc.Incomplete() {
			return Outcome{Status: StatusUnavailable}
		}
		status := StatusSuccess
		if nf, ok := any(v).(interface{ NotFound() bool }); ok && nf.NotFound() {
			status = StatusNotFound
		}
		if a.String(FormatArg) == "json" {
			return Outcome{Text: render.JSON(v), Status: status}
		}
		return Outcome{Text: text(a, v), Status: status}
	}
}

// Binding is the static description of one tool: its arguments, the
// upstream requests they become, and how the replies are presented.
type Binding struct {
	Name         string
	Descriptions LocalizedText
	Annotations  *ToolAnnotations
	Params       []Param
	Requests     []Request

	// Partial bindings present whatever subset of their requests succeeded.
	// Otherwise any failed request yields Failure.
	Partial bool
	Present Presenter
	Failure func(a Args) string
}

// Tool returns the MCP definition of b within module.
func (b Binding) Tool(module string) Tool {
	return Tool{
		ID:           module + ":" + b.Name,
		Name:         b.Name,
		Description:  b.Descriptions["en-US"],
		Descriptions: b.Descriptions,
		InputSchema:  b.schema(),
		Annotations:  b.Annotations,
	}
}

func (b Binding) params() []Param {
	return append(b.Params[:len(b.Params):len(b.Params)], formatParam)
}

func (b Binding) schema() InputSchema {
	s := InputSchema{Type: "object", Properties: make(map[string]Property, len(b.Params)+1)}
	for _, p := range b.params() {
		prop := Property{Type: p.Type, Description: p.Description}
		if p.Enum != nil {
			prop.Enum = p.Enum.Values
		}
		if p.Range != nil {
			prop.Minimum, prop.Maximum = &p.Range.Min, &p.Range.Max
		}
		if p.Default != nil {
			prop.Default = p.Default
		}
		s.Properties[p.Arg] = prop
		if p.Required {
			s.Required = append(s.Required, p.Arg)
		}
	}
	return s
}
