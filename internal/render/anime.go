// Package render turns canonical anime data into text. Every function is pure:
// identical input yields byte-identical output.
package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/normalize"
)

const ruleWidth = 50

var rule = strings.Repeat("=", ruleWidth)

// NoAnime is rendered for an empty listing.
const NoAnime = "No anime found."

// Header renders a listing header line followed by the rule.
func Header(emoji, title string, page, count int) string {
	return fmt.Sprintf("%s **%s** (Page %d, %d results)\n%s\n", emoji, title, page, count, rule)
}

// AnimeItem renders one listing entry.
func AnimeItem(s normalize.AnimeSummary) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "📺 **%s**\n", s.Title)
	fmt.Fprintf(&b, "   ▸ Slug: `%s` ← Use this for episode lookup\n", s.Slug)
	fmt.Fprintf(&b, "   ▸ Type: %s\n", s.MediaType)
	fmt.Fprintf(&b, "   ▸ Episodes: %s\n", episodeCounts(s))
	fmt.Fprintf(&b, "   ▸ Duration: %s", s.Duration)
	if s.PageURL != "" {
		fmt.Fprintf(&b, "\n   ▸ Page: %s", s.PageURL)
	}
	return b.String()
}

func episodeCounts(s normalize.AnimeSummary) string {
	out := "Sub: " + s.EpisodesSub
	if s.EpisodesDub != "" {
		out += ", Dub: " + s.EpisodesDub
	}
	return out
}

// AnimeItems renders entries in input order, or NoAnime.
func AnimeItems(items []normalize.AnimeSummary) string {
	if len(items) == 0 {
		return NoAnime
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = AnimeItem(it)
	}
	return strings.Join(parts, "\n")
}

// Listing renders a header plus the entries of l.
func Listing(emoji, title string, l normalize.AnimeList) string {
	return Header(emoji, title, l.Page, l.Count) + AnimeItems(l.Items)
}

// FilteredListing renders a filter result. filters is the human summary of
// the applied filters.
func FilteredListing(filters []string, l normalize.AnimeList) string {
	summary := "No filters"
	if len(filters) > 0 {
		summary = strings.Join(filters, ", ")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 **Filtered Anime** (%s)\n", summary)
	fmt.Fprintf(&b, "Page %d, %d results\n", l.Page, l.Count)
	b.WriteString(rule + "\n")
	b.WriteString(AnimeItems(l.Items))
	return b.String()
}

// Detail renders the full record of a title.
func Detail(d normalize.AnimeDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n🎬 **%s**\n\n", d.Title)

	b.WriteString("📝 **Basic Information:**\n")
	fmt.Fprintf(&b, "   - Japanese Title: %s\n", d.JapaneseTitle)
	fmt.Fprintf(&b, "   - Type: %s\n", d.MediaType)
	fmt.Fprintf(&b, "   - Status: %s\n", d.Status)
	fmt.Fprintf(&b, "   - Episodes: %s\n", d.Episodes)
	fmt.Fprintf(&b, "   - Duration: %s\n", d.Duration)
	fmt.Fprintf(&b, "   - Aired: %s\n", d.Aired)
	fmt.Fprintf(&b, "   - Season: %s\n", d.Season)
	fmt.Fprintf(&b, "   - Rating: %s\n", d.Rating)
	if d.Score != normalize.NA && d.Score != d.Rating {
		fmt.Fprintf(&b, "   - Score: %s\n", d.Score)
	}
	if d.Members != nil {
		fmt.Fprintf(&b, "   - Members: %s\n", humanize.Comma(*d.Members))
	}

	fmt.Fprintf(&b, "\n📖 **Synopsis:**\n%s\n", d.Synopsis)
	fmt.Fprintf(&b, "\n🏷️ **Genres:** %s\n", names(d.Genres))
	fmt.Fprintf(&b, "\n🎭 **Studios:** %s\n", names(d.Studios))
	fmt.Fprintf(&b, "\n🏢 **Producers:** %s\n", names(d.Producers))
	return b.String()
}

func names(v []string) string {
	if len(v) == 0 {
		return normalize.NA
	}
	return strings.Join(v, ", ")
}

// count formats a large count with thousands separators, or NA.
func count(n *int64) string {
	if n == nil {
		return normalize.NA
	}
	return humanize.Comma(*n)
}

// TitleCase upper-cases the first letter of every word, where any
// non-letter separates words ("slice-of-life" -> "Slice-Of-Life").
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
