package catalog

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// Range is an inclusive integer range with a default. Values outside the
// range are clamped, never rejected.
type Range struct {
	Min     int
	Max     int
	Default int
}

var (
	Page          = Range{Min: 1, Max: 999, Default: 1}
	RankingLimit  = Range{Min: 1, Max: 100, Default: 10}
	SearchLimit   = Range{Min: 1, Max: 100, Default: 10}
	ListLimit     = Range{Min: 1, Max: 100, Default: 20}
	CombinedLimit = Range{Min: 1, Max: 20, Default: 5}
)

// Clamp forces n into [Min, Max].
func (r Range) Clamp(n int) int {
	if n < r.Min {
		return r.Min
	}
	if n > r.Max {
		return r.Max
	}
	return n
}

const (
	minScore     = 1
	maxScore     = 10
	firstAnimeYr = 1917
)

// Score checks a minimum-score filter.
func Score(n int) error {
	if n < minScore || n > maxScore {
		return invalid("Score must be between 1 and 10.")
	}
	return nil
}

// Letter validates an A-Z listing letter. Single letters are sent uppercased,
// the non-alphabetic bucket is sent as "other".
func Letter(v string) (string, error) {
	up := strings.ToUpper(strings.TrimSpace(v))
	if up == "OTHER" {
		return "other", nil
	}
	r := []rune(up)
	if len(r) != 1 || r[0] > unicode.MaxASCII || !unicode.IsLetter(r[0]) {
		return "", invalid("Invalid letter. Please provide a single letter A-Z or 'other' for non-alphabetic titles.")
	}
	return up, nil
}

// GenreList validates a comma-separated list of genres and returns it
// normalized, in the caller's order.
func GenreList(v string) (string, error) {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		g, err := Genres.Normalize(p)
		if err != nil {
			return "", err
		}
		out = append(out, g)
	}
	if len(out) == 0 {
		return "", invalid("Invalid genre '%s'. Available genres: %s", v, Genres.String())
	}
	return strings.Join(out, ","), nil
}

// Year validates a season year.
func Year(n int) error {
	last := time.Now().Year() + 1
	if n < firstAnimeYr || n > last {
		return invalid("Year must be between %d and %d.", firstAnimeYr, last)
	}
	return nil
}

// Rule normalizes one argument value or rejects it. Values arrive as decoded
// JSON (string, float64, bool).
type Rule func(v any) (any, error)

// Text trims a free-form string.
func Text(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalid("expected text, got %T", v)
	}
	return strings.TrimSpace(s), nil
}

// Enum builds a rule for a closed vocabulary.
func Enum(c *Category) Rule {
	return func(v any) (any, error) {
		s, _ := v.(string)
		return c.Normalize(s)
	}
}

// Genre is the rule for a comma-separated genre list.
func Genre(v any) (any, error) {
	s, _ := v.(string)
	return GenreList(s)
}

// AZ is the rule for a listing letter.
func AZ(v any) (any, error) {
	s, _ := v.(string)
	return Letter(s)
}

// MinScore is the rule for the score filter. Fractions are rejected, not
// truncated: 10.5 must not pass as 10.
func MinScore(v any) (any, error) {
	if f, ok := v.(float64); ok && f != math.Trunc(f) {
		if math.IsNaN(f) || f < 1 || f > 10 {
			return nil, invalid("Score must be between 1 and 10.")
		}
		return nil, invalid("Score must be a whole number between 1 and 10.")
	}
	n, ok := Int(v)
	if !ok {
		return nil, invalid("Score must be between 1 and 10.")
	}
	if err := Score(n); err != nil {
		return nil, err
	}
	return n, nil
}

// SeasonYear is the rule for a season year.
func SeasonYear(v any) (any, error) {
	n, ok := Int(v)
	if !ok {
		return nil, invalid("Year must be a number.")
	}
	if err := Year(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Clamp builds a rule that clamps a number into r.
func Clamp(r Range) Rule {
	return func(v any) (any, error) {
		n, ok := Int(v)
		if !ok {
			return r.Default, nil
		}
		return r.Clamp(n), nil
	}
}

// Positive builds a rule for a 1-based identifier such as an episode number.
func Positive(label string) Rule {
	return func(v any) (any, error) {
		n, ok := Int(v)
		if !ok || n < 1 {
			return nil, invalid("%s must be a positive number.", label)
		}
		return n, nil
	}
}

// Int converts a decoded JSON number to int, truncating fractions.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		if n > math.MaxInt32 {
			return math.MaxInt32, true
		}
		if n < math.MinInt32 {
			return math.MinInt32, true
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
