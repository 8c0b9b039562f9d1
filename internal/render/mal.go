package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/normalize"
)

// RankedItems renders ranking-service entries. Entries without a rank are
// numbered by position.
func RankedItems(items []normalize.AnimeSummary) string {
	if len(items) == 0 {
		return NoAnime
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = rankedItem(i+1, it)
	}
	return strings.Join(parts, "\n")
}

func rankedItem(pos int, s normalize.AnimeSummary) string {
	rank := int64(pos)
	if s.Rank != nil {
		rank = *s.Rank
	}
	score := s.Score
	if score == "" {
		score = normalize.NA
	}
	episodes := s.Episodes
	if episodes == "" {
		episodes = normalize.NA
	}
	id := s.ID
	if id == "" {
		id = normalize.NA
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n#%d **%s**\n", rank, s.Title)
	fmt.Fprintf(&b, "   ▸ MAL ID: %s\n", id)
	if s.ScoringUsers != nil {
		fmt.Fprintf(&b, "   ▸ Score: %s (%s users)\n", score, humanize.Comma(*s.ScoringUsers))
	} else {
		fmt.Fprintf(&b, "   ▸ Score: %s\n", score)
	}
	fmt.Fprintf(&b, "   ▸ Type: %s | Episodes: %s\n", s.MediaType, episodes)
	fmt.Fprintf(&b, "   ▸ Members: %s", count(s.Members))
	return b.String()
}

// Ranked renders a ranking-service listing with a header.
func Ranked(emoji, title string, items []normalize.AnimeSummary) string {
	return fmt.Sprintf("%s **%s** (%d results)\n%s\n", emoji, title, len(items), rule) + RankedItems(items)
}

// Profile renders the authenticated user's profile.
func Profile(p normalize.UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n👤 **%s**\n\n", p.Name)
	fmt.Fprintf(&b, "   - User ID: %s\n", p.ID)
	fmt.Fprintf(&b, "   - Joined: %s\n", p.JoinedAt)
	fmt.Fprintf(&b, "   - Location: %s\n", p.Location)

	s := p.Stats
	b.WriteString("\n📊 **Anime Statistics:**\n")
	fmt.Fprintf(&b, "   - Watching: %s\n", count(s.Watching))
	fmt.Fprintf(&b, "   - Completed: %s\n", count(s.Completed))
	fmt.Fprintf(&b, "   - On Hold: %s\n", count(s.OnHold))
	fmt.Fprintf(&b, "   - Dropped: %s\n", count(s.Dropped))
	fmt.Fprintf(&b, "   - Plan to Watch: %s\n", count(s.PlanToWatch))
	fmt.Fprintf(&b, "   - Episodes Watched: %s\n", count(s.Episodes))
	fmt.Fprintf(&b, "   - Days Watched: %s\n", s.Days)
	fmt.Fprintf(&b, "   - Mean Score: %s\n", s.MeanScore)
	return b.String()
}

// NoEntries is rendered for an empty user list.
const NoEntries = "No entries found."

// UserList renders a user's anime list.
func UserList(l normalize.UserList) string {
	title := "Anime List"
	if l.Status != "" {
		title = fmt.Sprintf("Anime List (%s)", l.Status)
	}
	head := fmt.Sprintf("📋 **%s** (%d entries)\n%s\n", title, len(l.Entries), rule)
	if len(l.Entries) == 0 {
		return head + NoEntries
	}
	parts := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		var b strings.Builder
		fmt.Fprintf(&b, "\n📺 **%s**\n", e.Anime.Title)
		fmt.Fprintf(&b, "   ▸ MAL ID: %s\n", e.Anime.Slug)
		fmt.Fprintf(&b, "   ▸ Status: %s | Score: %s\n", e.ListStatus, e.ListScore)
		fmt.Fprintf(&b, "   ▸ Watched Episodes: %s\n", count(e.WatchedEpisodes))
		fmt.Fprintf(&b, "   ▸ Updated: %s", e.UpdatedAt)
		parts[i] = b.String()
	}
	return head + strings.Join(parts, "\n")
}

// Grant renders the first step of the authorization flow.
func Grant(g normalize.AuthorizationGrant) string {
	var b strings.Builder
	b.WriteString("🔐 **MyAnimeList Authorization**\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "1. Open this URL and approve access:\n   %s\n\n", g.AuthorizationURL)
	b.WriteString("2. Keep these values. They are required for the token exchange:\n")
	fmt.Fprintf(&b, "   ▸ code_verifier: `%s`\n", g.CodeVerifier)
	fmt.Fprintf(&b, "   ▸ state: `%s`\n\n", g.State)
	b.WriteString("3. After approval, call 'mal_exchange_token' with the 'code' from the redirect URL and the code_verifier above.\n")
	b.WriteString("   Check that the 'state' in the redirect matches the value above.")
	return b.String()
}

// Tokens renders a token set. Tokens are shown to the caller once and never
// logged.
func Tokens(t normalize.TokenSet) string {
	var b strings.Builder
	b.WriteString("🔑 **MyAnimeList Tokens**\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "   ▸ Token Type: %s\n", t.TokenType)
	if t.ExpiresIn != nil {
		fmt.Fprintf(&b, "   ▸ Expires In: %s seconds\n", humanize.Comma(*t.ExpiresIn))
	} else {
		fmt.Fprintf(&b, "   ▸ Expires In: %s\n", normalize.NA)
	}
	if t.ExpiresAt != "" {
		fmt.Fprintf(&b, "   ▸ Expires At: %s\n", t.ExpiresAt)
	}
	if t.Subject != "" {
		fmt.Fprintf(&b, "   ▸ User: %s\n", t.Subject)
	}
	fmt.Fprintf(&b, "   ▸ access_token: `%s`\n", t.AccessToken)
	fmt.Fprintf(&b, "   ▸ refresh_token: `%s`\n\n", t.RefreshToken)
	b.WriteString("Store these securely. Pass access_token to the mal_get_user_* tools and refresh_token to 'mal_refresh_token' when it expires.")
	return b.String()
}
