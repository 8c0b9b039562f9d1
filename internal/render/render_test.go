package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/normalize"
)

func episodes(n int) []normalize.EpisodeEntry {
	eps := make([]normalize.EpisodeEntry, n)
	for i := range eps {
		eps[i] = normalize.EpisodeEntry{Number: fmt.Sprint(i + 1), Title: fmt.Sprintf("Ep %d", i+1)}
	}
	return eps
}

func TestEpisodeLines_Truncation(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		wantShown  int
		wantSuffix string
	}{
		{"under limit", 3, 3, ""},
		{"exactly limit", 20, 20, ""},
		{"over limit", 25, 20, "... and 5 more episodes."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := EpisodeLines(episodes(tt.n))
			assert.Equal(t, tt.wantShown, strings.Count(out, "   Episode "))
			if tt.wantSuffix == "" {
				assert.NotContains(t, out, "more episodes")
			} else {
				assert.True(t, strings.HasSuffix(out, "\n\n"+tt.wantSuffix), out)
			}
		})
	}
}

func TestEpisodeLines_Empty(t *testing.T) {
	assert.Equal(t, "No episodes found.", EpisodeLines(nil))
}

func TestEpisodeLine_Format(t *testing.T) {
	out := EpisodeLines([]normalize.EpisodeEntry{{
		Number: "7", Title: "The Storm", JapaneseTitle: "Arashi", ID: "ep-7", IsFiller: true, URL: "https://site/watch/x?ep=7",
	}})
	assert.Equal(t,
		"   Episode 7: The Storm (Arashi) 🔸 Filler\n      📎 Reference: https://site/watch/x?ep=7\n      🆔 ID: ep-7",
		out)
}

func TestEpisodeInfo_NotFound(t *testing.T) {
	out := EpisodeInfo(normalize.EpisodeLookup{Slug: "one-piece-100", Number: 30, Total: 25})
	assert.Equal(t, "Episode 30 not found for 'one-piece-100'. This anime has 25 episodes (1-25).", out)
}

func TestEpisodeInfo_Found(t *testing.T) {
	out := EpisodeInfo(normalize.EpisodeLookup{
		Slug: "x-1", Number: 2, Found: true, Total: 3,
		Episode: &normalize.EpisodeEntry{Number: "2", Title: "Two"},
	})
	assert.Contains(t, out, "🎬 **x-1 - Episode 2**")
	assert.Contains(t, out, "🇯🇵 **Japanese Title:** N/A")
	assert.Contains(t, out, "🔸 **Is Filler:** No")
}

func TestDetail_PartialData(t *testing.T) {
	d := normalize.Detail([]byte(`{"title":"Sparse","type":"TV"}`))
	out := Detail(d)

	assert.Contains(t, out, "🎬 **Sparse**")
	assert.Contains(t, out, "📖 **Synopsis:**\nN/A")
	assert.Contains(t, out, "🏷️ **Genres:** N/A")
	assert.Contains(t, out, "🎭 **Studios:** N/A")
	assert.Contains(t, out, "🏢 **Producers:** N/A")
	assert.Contains(t, out, "   - Status: N/A")
}

func TestAnimeItem(t *testing.T) {
	out := AnimeItem(normalize.AnimeSummary{
		Title: "One Piece", Slug: "one-piece-100", MediaType: "TV",
		EpisodesSub: "1122", EpisodesDub: "1085", Duration: "24m", PageURL: "https://site/one-piece-100",
	})
	want := "\n📺 **One Piece**\n" +
		"   ▸ Slug: `one-piece-100` ← Use this for episode lookup\n" +
		"   ▸ Type: TV\n" +
		"   ▸ Episodes: Sub: 1122, Dub: 1085\n" +
		"   ▸ Duration: 24m\n" +
		"   ▸ Page: https://site/one-piece-100"
	assert.Equal(t, want, out)

	noDub := AnimeItem(normalize.AnimeSummary{Title: "X", EpisodesSub: "12"})
	assert.Contains(t, noDub, "Episodes: Sub: 12\n")
	assert.NotContains(t, noDub, "Page:")
}

func TestListing_EmptyAndOrder(t *testing.T) {
	assert.Equal(t, Header("🌟", "Popular Anime", 1, 0)+"No anime found.", Listing("🌟", "Popular Anime", normalize.AnimeList{Page: 1}))

	out := AnimeItems([]normalize.AnimeSummary{{Title: "Zeta"}, {Title: "Alpha"}})
	assert.Less(t, strings.Index(out, "Zeta"), strings.Index(out, "Alpha"))
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "🔍 **Search Results for 'naruto'** (Page 2, 40 results)\n"+strings.Repeat("=", 50)+"\n",
		Header("🔍", "Search Results for 'naruto'", 2, 40))
}

func TestIdempotent(t *testing.T) {
	payload := []byte(`{"data":{"anime":{"title":"Frieren","genres":["Adventure","Drama"],"studios":["Madhouse"]}}}`)
	a := Detail(normalize.Detail(payload))
	b := Detail(normalize.Detail(payload))
	assert.Equal(t, a, b)
}

func TestRanked_ThousandsSeparators(t *testing.T) {
	rank, members, users := int64(1), int64(3500123), int64(2200456)
	out := Ranked("🏆", "Top Anime: all", []normalize.AnimeSummary{{
		Title: "FMA:B", ID: "5114", Rank: &rank, Score: "9.1", MediaType: "tv", Episodes: "64",
		Members: &members, ScoringUsers: &users,
	}})
	assert.Contains(t, out, "#1 **FMA:B**")
	assert.Contains(t, out, "Score: 9.1 (2,200,456 users)")
	assert.Contains(t, out, "Members: 3,500,123")
}

func TestProfile(t *testing.T) {
	eps := int64(10234)
	out := Profile(normalize.UserProfile{Name: "taro", ID: "1", JoinedAt: "2015", Location: "N/A",
		Stats: normalize.UserStats{Episodes: &eps, Days: "172.3", MeanScore: "7.8"}})
	assert.Contains(t, out, "Episodes Watched: 10,234")
	assert.Contains(t, out, "Watching: N/A")
}

func TestUserList_Empty(t *testing.T) {
	out := UserList(normalize.UserList{Status: "watching"})
	assert.True(t, strings.HasSuffix(out, "No entries found."))
	assert.Contains(t, out, "Anime List (watching)")
}

func TestCombined_PartialFailure(t *testing.T) {
	out := Combined("naruto", []Section{
		{Provider: "HiAnime", Emoji: "📺", Count: 1, Body: "item"},
		{Provider: "MyAnimeList", Emoji: "📊", Failed: true},
	})
	assert.Contains(t, out, "📺 **HiAnime** (1 results)\nitem")
	assert.Contains(t, out, "No results from MyAnimeList.")
	assert.NotContains(t, out, "No results from HiAnime.")
}

func TestFilters(t *testing.T) {
	out := Filters()
	assert.Contains(t, out, "action, adventure, cars")
	assert.Contains(t, out, "movie, tv, ova, ona, special, music")
	assert.Contains(t, out, "sub, dub")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Slice-Of-Life", TitleCase("slice-of-life"))
	assert.Equal(t, "Studio Pierrot", TitleCase("studio pierrot"))
	assert.Equal(t, "Sci-Fi", TitleCase("SCI-FI"))
}

func TestJSON(t *testing.T) {
	out := JSON(normalize.EpisodeLookup{Slug: "x", Number: 3, Total: 2})
	require.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"found": false`)
}
