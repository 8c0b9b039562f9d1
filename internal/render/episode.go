package render

import (
	"fmt"
	"strings"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/normalize"
)

// EpisodeLimit is the number of episodes shown before the list is cut.
const EpisodeLimit = 20

// NoEpisodes is rendered for an empty episode list.
const NoEpisodes = "No episodes found."

// EpisodeLines renders up to EpisodeLimit episodes and a suffix naming how
// many were left out.
func EpisodeLines(eps []normalize.EpisodeEntry) string {
	if len(eps) == 0 {
		return NoEpisodes
	}
	shown := eps
	if len(shown) > EpisodeLimit {
		shown = shown[:EpisodeLimit]
	}
	lines := make([]string, len(shown))
	for i, ep := range shown {
		lines[i] = episodeLine(ep)
	}
	out := strings.Join(lines, "\n\n")
	if len(eps) > EpisodeLimit {
		out += fmt.Sprintf("\n\n... and %d more episodes.", len(eps)-EpisodeLimit)
	}
	return out
}

func episodeLine(ep normalize.EpisodeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "   Episode %s: %s", ep.Number, ep.Title)
	if ep.JapaneseTitle != "" {
		fmt.Fprintf(&b, " (%s)", ep.JapaneseTitle)
	}
	if ep.IsFiller {
		b.WriteString(" 🔸 Filler")
	}
	if ep.URL != "" {
		fmt.Fprintf(&b, "\n      📎 Reference: %s", ep.URL)
	}
	if ep.ID != "" {
		fmt.Fprintf(&b, "\n      🆔 ID: %s", ep.ID)
	}
	return b.String()
}

// Episodes renders an episode listing with its header.
func Episodes(l normalize.EpisodeList) string {
	return fmt.Sprintf("📺 **Episodes for %s** (%d total episodes)\n%s\n", l.Slug, l.Total, rule) +
		EpisodeLines(l.Episodes)
}

// EpisodeInfo renders one looked-up episode, or the not-found message with
// the valid range.
func EpisodeInfo(r normalize.EpisodeLookup) string {
	if !r.Found || r.Episode == nil {
		return fmt.Sprintf("Episode %d not found for '%s'. This anime has %d episodes (1-%d).",
			r.Number, r.Slug, r.Total, r.Total)
	}
	ep := r.Episode

	japanese := ep.JapaneseTitle
	if japanese == "" {
		japanese = normalize.NA
	}
	page := ep.URL
	if page == "" {
		page = normalize.NA
	}
	id := ep.ID
	if id == "" {
		id = normalize.NA
	}
	filler := "No"
	if ep.IsFiller {
		filler = "Yes 🔸"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n🎬 **%s - Episode %d**\n\n", r.Slug, r.Number)
	fmt.Fprintf(&b, "📺 **Title:** %s\n", ep.Title)
	fmt.Fprintf(&b, "🇯🇵 **Japanese Title:** %s\n", japanese)
	fmt.Fprintf(&b, "📎 **Page:** %s\n", page)
	fmt.Fprintf(&b, "🆔 **ID:** %s\n", id)
	fmt.Fprintf(&b, "🔸 **Is Filler:** %s\n", filler)
	return b.String()
}
