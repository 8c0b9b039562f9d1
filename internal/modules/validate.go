package modules

import (
	"fmt"
	"strings"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/catalog"
)

// ValidateParams checks params against InputSchema.
// - Required fields: returns error if missing
// - Type check: verifies value matches declared property type
// Extra params not in the schema pass through. Returns params (never nil) or
// a *catalog.ValidationError.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	if params == nil {
		params = make(map[string]any)
	}

	if missing := missingRequired(schema.Required, params); len(missing) > 0 {
		return nil, missingError(missing)
	}

	for key, val := range params {
		prop, declared := schema.Properties[key]
		if !declared || val == nil {
			continue
		}
		if err := checkType(key, val, prop.Type); err != nil {
			return nil, err
		}
	}

	return params, nil
}

// missingRequired lists required keys that are absent, null or blank.
func missingRequired(required []string, params map[string]any) []string {
	var missing []string
	for _, key := range required {
		val, exists := params[key]
		if !exists || val == nil {
			missing = append(missing, key)
			continue
		}
		if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func missingError(missing []string) error {
	return &catalog.ValidationError{
		Message: fmt.Sprintf("missing required parameter(s): %s", strings.Join(missing, ", ")),
	}
}

// checkType verifies that val matches the expected JSON Schema type.
func checkType(key string, val any, expectedType string) error {
	mismatch := func() error {
		return &catalog.ValidationError{
			Message: fmt.Sprintf("parameter %q: expected %s, got %T", key, expectedType, val),
		}
	}
	switch expectedType {
	case "string":
		if _, ok := val.(string); !ok {
			return mismatch()
		}
	case "number", "integer":
		// JSON numbers arrive as float64; in-process callers may pass ints
		if _, ok := catalog.Int(val); !ok {
			return mismatch()
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return mismatch()
		}
	case "array":
		if _, ok := val.([]any); !ok {
			return mismatch()
		}
	case "object":
		if _, ok := val.(map[string]any); !ok {
			return mismatch()
		}
	// "" or unknown types: skip check (lenient)
	}
	return nil
}
