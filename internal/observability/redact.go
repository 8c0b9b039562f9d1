package observability

import (
	"fmt"
	"regexp"
	"strings"
)

// Masked replaces every secret value in logs.
const Masked = "[REDACTED]"

var secretKeys = map[string]struct{}{
	"client_secret": {},
	"code_verifier": {},
	"code":          {},
	"access_token":  {},
	"refresh_token": {},
	"token":         {},
	"authorization": {},
}

// IsSecret reports whether an argument or field named key carries a
// credential.
func IsSecret(key string) bool {
	_, ok := secretKeys[strings.ToLower(key)]
	return ok
}

// Redact returns a copy of m with secret values masked, descending into
// nested objects and arrays. m itself is not modified.
func Redact(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if IsSecret(k) {
			if v != nil && v != "" {
				out[k] = Masked
			} else {
				out[k] = v
			}
			continue
		}
		out[k] = redactValue(v)
	}
	return out
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Redact(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = redactValue(e)
		}
		return out
	case string:
		return RedactString(t)
	default:
		return v
	}
}

// "key": "value", key=value and Bearer forms found in free text.
var secretText = regexp.MustCompile(
	`(?i)("?(?:client_secret|code_verifier|access_token|refresh_token|token|code)"?\s*[:=]\s*"?)([^"&\s,}]+)` +
		`|(bearer\s+)([A-Za-z0-9._~+/=-]+)`,
)

// RedactString masks credential-shaped fragments of free text, such as an
// upstream error message that echoes the request, plus every literal in
// values.
func RedactString(s string, values ...string) string {
	for _, v := range values {
		if len(v) >= 4 {
			s = strings.ReplaceAll(s, v, Masked)
		}
	}
	return secretText.ReplaceAllStringFunc(s, func(m string) string {
		sub := secretText.FindStringSubmatch(m)
		if sub[1] != "" {
			return sub[1] + Masked
		}
		return sub[3] + Masked
	})
}

func toString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
