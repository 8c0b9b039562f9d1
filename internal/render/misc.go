package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/catalog"
)

// Section is one provider's part of a combined result.
type Section struct {
	Provider string `json:"provider"`
	Emoji    string `json:"-"`
	Failed   bool   `json:"failed"`
	Body     string `json:"-"`
	Count    int    `json:"count"`
	Items    any    `json:"items,omitempty"`
}

// Combined renders each section in order. A failed section is replaced by
// a single "No results from <provider>." line.
func Combined(query string, sections []Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 **Combined Search: '%s'**\n%s\n", query, rule)
	for _, s := range sections {
		b.WriteString("\n")
		if s.Failed {
			fmt.Fprintf(&b, "%s **%s**\nNo results from %s.\n", s.Emoji, s.Provider, s.Provider)
			continue
		}
		fmt.Fprintf(&b, "%s **%s** (%d results)\n%s\n", s.Emoji, s.Provider, s.Count, s.Body)
	}
	return b.String()
}

// Health renders the upstream health check.
func Health(ok bool) string {
	if ok {
		return "✅ HiAnime API is healthy and responding!"
	}
	return "❌ HiAnime API is not responding. Please try again later."
}

// Filters lists every accepted filter value.
func Filters() string {
	var b strings.Builder
	b.WriteString("\n📚 **Available Filter Options for HiAnime MCP Server**\n")
	for _, sec := range []struct {
		emoji string
		title string
		cat   *catalog.Category
	}{
		{"🎭", "Genres", catalog.Genres},
		{"📁", "Types", catalog.Types},
		{"📊", "Statuses", catalog.Statuses},
		{"⭐", "Ratings", catalog.Ratings},
		{"🍂", "Seasons", catalog.Seasons},
		{"🔤", "Sort Options", catalog.Sorts},
		{"🌐", "Languages", catalog.Languages},
		{"🏆", "MyAnimeList Ranking Types", catalog.RankingTypes},
		{"📋", "MyAnimeList List Statuses", catalog.ListStatuses},
	} {
		fmt.Fprintf(&b, "\n%s **%s:**\n%s\n", sec.emoji, sec.title, sec.cat.String())
	}
	b.WriteString("\n💡 **Tips:**\n")
	b.WriteString("- Use 'search_anime' to find anime by name\n")
	b.WriteString("- Use 'get_anime_details' with the slug from search results to get full details\n")
	b.WriteString("- Use 'filter_anime' to combine multiple filters\n")
	b.WriteString("- Use 'get_anime_episodes' to see all episodes of an anime\n")
	b.WriteString("- Use 'combined_search' to query HiAnime and MyAnimeList at once\n")
	b.WriteString("- Add format: \"json\" to any tool call for structured output\n")
	return b.String()
}

// JSON renders v as indented JSON. It is the structured alternative to the
// text renderers and sees the same canonical values.
func JSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}
