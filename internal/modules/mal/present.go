package mal

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/normalize"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/render"
)

func summaries(_ modules.Args, rs []modules.Result) []normalize.AnimeSummary {
	return normalize.Summaries(rs[0].Response.Payload())
}

func ranked(emoji string, title func(modules.Args) string) modules.Presenter {
	return modules.Present(summaries, func(a modules.Args, items []normalize.AnimeSummary) string {
		return render.Ranked(emoji, title(a), items)
	})
}

var rankingTitles = map[string]string{
	"all":          "Top Anime",
	"airing":       "Top Airing",
	"upcoming":     "Top Upcoming",
	"tv":           "Top TV Series",
	"ova":          "Top OVA",
	"movie":        "Top Movies",
	"special":      "Top Specials",
	"bypopularity": "Most Popular",
	"favorite":     "Most Favorited",
}

func rankingTitle(t string) string {
	if s, ok := rankingTitles[t]; ok {
		return s
	}
	return render.TitleCase(t)
}

func seasonTitle(a modules.Args) string {
	return render.TitleCase(a.String("season")) + " " + a.String("year")
}

func detail(_ modules.Args, rs []modules.Result) normalize.AnimeDetail {
	return normalize.Detail(rs[0].Response.Payload())
}

func detailText(_ modules.Args, d normalize.AnimeDetail) string { return render.Detail(d) }

func grant(_ modules.Args, rs []modules.Result) normalize.AuthorizationGrant {
	return normalize.Grant(rs[0].Response.Payload())
}

func grantText(_ modules.Args, g normalize.AuthorizationGrant) string { return render.Grant(g) }

func tokens(_ modules.Args, rs []modules.Result) normalize.TokenSet {
	return withClaims(normalize.Tokens(rs[0].Response.Payload()))
}

func tokensText(_ modules.Args, t normalize.TokenSet) string { return render.Tokens(t) }

// withClaims copies the subject and expiry out of a JWT access token. The
// signature is not checked: the values are only displayed.
func withClaims(t normalize.TokenSet) normalize.TokenSet {
	if strings.Count(t.AccessToken, ".") != 2 {
		return t
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, claims); err != nil {
		return t
	}
	t.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		t.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return t
}

func profile(_ modules.Args, rs []modules.Result) normalize.UserProfile {
	return normalize.Profile(rs[0].Response.Payload())
}

func profileText(_ modules.Args, p normalize.UserProfile) string { return render.Profile(p) }

func userList(a modules.Args, rs []modules.Result) normalize.UserList {
	return normalize.UserList{
		Status:  a.String("status"),
		Entries: normalize.ListEntries(rs[0].Response.Payload()),
	}
}

func userListText(_ modules.Args, l normalize.UserList) string { return render.UserList(l) }
