// Package normalize maps provider-specific upstream JSON into the canonical
// anime shapes. Every field is resolved through an ordered list of candidate
// paths; the first non-empty value wins. Normalization never fails: missing
// values resolve to NA.
package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// NA marks a value the upstream did not provide.
const NA = "N/A"

// Field is an ordered list of gjson paths for one canonical field.
type Field []string

// F builds a Field.
func F(paths ...string) Field { return Field(paths) }

// Result returns the first candidate holding a usable value.
func (f Field) Result(obj gjson.Result) (gjson.Result, bool) {
	for _, p := range f {
		r := obj.Get(p)
		if usable(r) {
			return r, true
		}
	}
	return gjson.Result{}, false
}

// Lookup returns the first candidate rendered as a scalar string.
func (f Field) Lookup(obj gjson.Result) (string, bool) {
	for _, p := range f {
		r := obj.Get(p)
		if !usable(r) || r.IsObject() || r.IsArray() {
			continue
		}
		return strings.TrimSpace(r.String()), true
	}
	return "", false
}

// String returns the first scalar candidate or NA.
func (f Field) String(obj gjson.Result) string {
	return f.Or(obj, NA)
}

// Or returns the first scalar candidate or def.
func (f Field) Or(obj gjson.Result, def string) string {
	if s, ok := f.Lookup(obj); ok {
		return s
	}
	return def
}

// Int returns the first numeric candidate. Numeric strings are accepted.
func (f Field) Int(obj gjson.Result) (int64, bool) {
	for _, p := range f {
		r := obj.Get(p)
		switch r.Type {
		case gjson.Number:
			return r.Int(), true
		case gjson.String:
			s := strings.ReplaceAll(strings.TrimSpace(r.Str), ",", "")
			if n := gjson.Parse(s); s != "" && n.Type == gjson.Number {
				return n.Int(), true
			}
		}
	}
	return 0, false
}

// IntPtr is Int returning nil when absent.
func (f Field) IntPtr(obj gjson.Result) *int64 {
	if n, ok := f.Int(obj); ok {
		return &n
	}
	return nil
}

// Bool returns the first boolean candidate, false when absent.
func (f Field) Bool(obj gjson.Result) bool {
	for _, p := range f {
		r := obj.Get(p)
		switch r.Type {
		case gjson.True:
			return true
		case gjson.False:
			return false
		}
	}
	return false
}

// Names returns the first candidate list as names. Elements may be strings
// or objects carrying a "name" field.
func (f Field) Names(obj gjson.Result) []string {
	r, ok := f.Result(obj)
	if !ok || !r.IsArray() {
		return nil
	}
	var out []string
	for _, el := range r.Array() {
		var name string
		switch {
		case el.Type == gjson.String:
			name = el.Str
		case el.IsObject():
			name = el.Get("name").String()
		}
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func usable(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.String:
		return strings.TrimSpace(r.Str) != ""
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return true
	default:
		return r.Exists()
	}
}

// Root returns the first candidate that is a JSON object, or the document
// itself.
func Root(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.IsObject() {
			return r
		}
	}
	return doc
}

// Items returns the first array among doc and the candidate paths.
func Items(doc gjson.Result, paths ...string) []gjson.Result {
	if doc.IsArray() {
		return doc.Array()
	}
	for _, p := range paths {
		if r := doc.Get(p); r.IsArray() {
			return r.Array()
		}
	}
	return nil
}

// CleanURL strips any query string.
func CleanURL(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

// lastSegment returns the final non-empty path segment of a cleaned URL.
func lastSegment(u string) string {
	u = strings.TrimRight(CleanURL(u), "/")
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		u = u[i+1:]
	}
	if strings.Contains(u, ":") {
		return ""
	}
	return u
}
