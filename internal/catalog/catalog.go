// Package catalog holds the closed vocabularies and numeric ranges that tool
// arguments are checked against before any upstream request is made.
package catalog

import (
	"fmt"
	"strings"
)

// ValidationError is a locally recoverable argument error. Its message is
// returned to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Category is a named closed vocabulary.
type Category struct {
	Name   string // singular, used in error messages ("genre")
	Plural string // "genres"
	Values []string
	index  map[string]struct{}
}

func newCategory(name, plural string, values ...string) *Category {
	c := &Category{Name: name, Plural: plural, Values: values, index: make(map[string]struct{}, len(values))}
	for _, v := range values {
		c.index[v] = struct{}{}
	}
	return c
}

// Contains reports whether v (already normalized) is in the vocabulary.
func (c *Category) Contains(v string) bool {
	_, ok := c.index[v]
	return ok
}

// Normalize trims and lowercases v and checks it against the vocabulary.
func (c *Category) Normalize(v string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(v))
	if !c.Contains(n) {
		return "", invalid("Invalid %s '%s'. Available %s: %s", c.Name, v, c.Plural, c.String())
	}
	return n, nil
}

// String lists the vocabulary in declaration order.
func (c *Category) String() string {
	return strings.Join(c.Values, ", ")
}

var (
	Genres = newCategory("genre", "genres",
		"action", "adventure", "cars", "comedy", "dementia", "demons", "drama",
		"ecchi", "fantasy", "game", "harem", "historical", "horror", "isekai",
		"josei", "kids", "magic", "martial-arts", "mecha", "military", "music",
		"mystery", "parody", "police", "psychological", "romance", "samurai",
		"school", "sci-fi", "seinen", "shoujo", "shoujo-ai", "shounen",
		"shounen-ai", "slice-of-life", "space", "sports", "super-power",
		"supernatural", "thriller", "vampire",
	)
	Types    = newCategory("type", "types", "movie", "tv", "ova", "ona", "special", "music")
	Statuses = newCategory("status", "statuses", "finished", "airing", "upcoming")
	Ratings  = newCategory("rating", "ratings", "g", "pg", "pg-13", "r", "r+", "rx")
	Seasons  = newCategory("season", "seasons", "spring", "summer", "fall", "winter")
	Sorts    = newCategory("sort", "sort options",
		"default", "recently_added", "recently_updated", "score",
		"name_az", "released_date", "most_watched",
	)
	Languages = newCategory("language", "languages", "sub", "dub")

	// MyAnimeList vocabularies
	RankingTypes = newCategory("ranking type", "ranking types",
		"all", "airing", "upcoming", "tv", "ova", "movie", "special", "bypopularity", "favorite",
	)
	ListStatuses = newCategory("list status", "list statuses",
		"watching", "completed", "on_hold", "dropped", "plan_to_watch",
	)
	ListSorts     = newCategory("list sort", "list sort options", "list_score", "list_updated_at", "anime_title", "anime_start_date")
	SeasonalSorts = newCategory("seasonal sort", "seasonal sort options", "anime_score", "anime_num_list_users")

	// Formats selects the output rendering of any tool.
	Formats = newCategory("format", "formats", "text", "json")
)

// All returns every vocabulary in display order.
func All() []*Category {
	return []*Category{Genres, Types, Statuses, Ratings, Seasons, Sorts, Languages, RankingTypes, ListStatuses, ListSorts, SeasonalSorts}
}
