package modules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/catalog"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/observability"
)

// Args holds a tool call's arguments after validation and normalization.
type Args map[string]any

// String returns the argument as text, or "" when absent.
func (a Args) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	return formatValue(v)
}

// Int returns a numeric argument, or 0 when absent.
func (a Args) Int(key string) int {
	n, _ := catalog.Int(a[key])
	return n
}

// Has reports whether the argument is present and not blank.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && !isBlank(v)
}

// secrets returns the credential values among the arguments, for masking
// free-text log lines.
func (a Args) secrets() []string {
	var out []string
	for k, v := range a {
		if s, ok := v.(string); ok && s != "" && observability.IsSecret(k) {
			out = append(out, s)
		}
	}
	return out
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}
