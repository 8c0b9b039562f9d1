package normalize

import (
	"github.com/tidwall/gjson"
)

// AnimeSummary is one entry of an anime listing.
type AnimeSummary struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	MediaType   string `json:"type"`
	EpisodesSub string `json:"episodes_sub"`
	EpisodesDub string `json:"episodes_dub,omitempty"`
	Duration    string `json:"duration"`
	PageURL     string `json:"url,omitempty"`

	// Ranking service fields; zero when the provider does not send them.
	ID           string `json:"id,omitempty"`
	Episodes     string `json:"episodes,omitempty"`
	Rank         *int64 `json:"rank,omitempty"`
	Score        string `json:"score,omitempty"`
	Members      *int64 `json:"members,omitempty"`
	ScoringUsers *int64 `json:"scoring_users,omitempty"`
}

// AnimeList is a page of summaries plus the envelope counters.
type AnimeList struct {
	Page  int            `json:"page"`
	Count int            `json:"count"`
	Items []AnimeSummary `json:"items"`
}

// AnimeDetail is the full record of one title.
type AnimeDetail struct {
	AnimeSummary
	JapaneseTitle string   `json:"japanese_title"`
	Status        string   `json:"status"`
	Aired         string   `json:"aired"`
	Season        string   `json:"season"`
	Rating        string   `json:"rating"`
	Synopsis      string   `json:"synopsis"`
	Genres        []string `json:"genres"`
	Studios       []string `json:"studios"`
	Producers     []string `json:"producers"`
}

const unknownTitle = "Unknown Title"

var (
	fTitle       = F("title", "name", "english_title", "alternative_titles.en")
	fSlug        = F("slug")
	fURL         = F("url", "link", "href")
	fID          = F("id", "mal_id", "animeId")
	fType        = F("type", "media_type", "mediaType", "tvInfo.showType")
	fSub         = F("episodes_sub", "episodes.sub", "sub", "tvInfo.sub")
	fDub         = F("episodes_dub", "episodes.dub", "dub", "tvInfo.dub")
	fDuration    = F("duration", "tvInfo.duration")
	fEpisodes    = F("episodes", "totalEpisodes", "num_episodes", "episodes_total")
	fRank        = F("ranking.rank", "rank")
	fScore       = F("mean", "score", "malscore", "mal_score")
	fMembers     = F("num_list_users", "members")
	fScoringUser = F("num_scoring_users", "scored_by", "scoring_users")

	fJapanese  = F("japanese_title", "japaneseTitle", "jname", "alternative_titles.ja")
	fStatus    = F("status", "airing_status")
	fAired     = F("aired", "airedDate", "start_date")
	fSeason    = F("season", "premiered", "start_season.season")
	fRating    = F("rating", "malscore", "mal_score")
	fSynopsis  = F("synopsis", "description", "overview")
	fGenres    = F("genres")
	fStudios   = F("studios")
	fProducers = F("producers")
)

// Summary normalizes one listing entry. Ranking-service entries wrap the
// anime under "node"; the wrapper still carries the rank.
func Summary(item gjson.Result) AnimeSummary {
	node := Root(item, "node")

	url := CleanURL(fURL.Or(node, ""))
	s := AnimeSummary{
		Title:        fTitle.Or(node, unknownTitle),
		Slug:         slugOf(node, url),
		MediaType:    fType.String(node),
		EpisodesSub:  fSub.String(node),
		EpisodesDub:  dubOf(node),
		Duration:     fDuration.String(node),
		PageURL:      url,
		ID:           fID.Or(node, ""),
		Episodes:     fEpisodes.Or(node, ""),
		Rank:         fRank.IntPtr(item),
		Score:        fScore.Or(node, ""),
		Members:      fMembers.IntPtr(node),
		ScoringUsers: fScoringUser.IntPtr(node),
	}
	return s
}

// Summaries normalizes a listing payload, preserving input order.
func Summaries(payload []byte) []AnimeSummary {
	items := Items(gjson.ParseBytes(payload), "animes", "results", "items", "data", "anime")
	out := make([]AnimeSummary, 0, len(items))
	for _, it := range items {
		out = append(out, Summary(it))
	}
	return out
}

// List normalizes a listing payload with its counters. count and page come
// from the envelope when present, otherwise from the payload size and the
// requested page.
func List(payload []byte, count, page *int, requestedPage int) AnimeList {
	items := Summaries(payload)
	l := AnimeList{Page: requestedPage, Count: len(items), Items: items}
	if count != nil {
		l.Count = *count
	}
	if page != nil {
		l.Page = *page
	}
	return l
}

// Detail normalizes a detail payload. The record may sit under data.anime,
// data, anime, or at the top level.
func Detail(payload []byte) AnimeDetail {
	doc := gjson.ParseBytes(payload)
	root := Root(doc, "data.anime", "anime.info", "anime", "info")
	if !root.IsObject() {
		root = doc
	}

	d := AnimeDetail{
		AnimeSummary:  Summary(root),
		JapaneseTitle: fJapanese.String(root),
		Status:        fStatus.String(root),
		Aired:         fAired.String(root),
		Season:        seasonOf(root),
		Rating:        fRating.String(root),
		Synopsis:      fSynopsis.String(root),
		Genres:        fGenres.Names(root),
		Studios:       fStudios.Names(root),
		Producers:     fProducers.Names(root),
	}
	if d.Episodes == "" {
		d.Episodes = NA
	}
	if d.Score == "" {
		d.Score = NA
	}
	return d
}

// slugOf applies the slug chain: explicit slug, last segment of the cleaned
// URL, raw id, NA.
func slugOf(obj gjson.Result, cleanURL string) string {
	if s, ok := fSlug.Lookup(obj); ok {
		return s
	}
	if seg := lastSegment(cleanURL); seg != "" {
		return seg
	}
	return fID.String(obj)
}

// dubOf returns the dub count, or "" when there is no dub.
func dubOf(obj gjson.Result) string {
	s, ok := fDub.Lookup(obj)
	if !ok || s == "0" {
		return ""
	}
	return s
}

func seasonOf(obj gjson.Result) string {
	s := fSeason.String(obj)
	if s == NA {
		return s
	}
	if y, ok := F("start_season.year").Lookup(obj); ok && obj.Get("start_season.season").Exists() {
		return s + " " + y
	}
	return s
}
