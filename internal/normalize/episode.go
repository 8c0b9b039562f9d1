package normalize

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// EpisodeEntry is one episode of a title.
type EpisodeEntry struct {
	Number        string `json:"number"`
	Title         string `json:"title"`
	JapaneseTitle string `json:"japanese_title,omitempty"`
	ID            string `json:"id,omitempty"`
	IsFiller      bool   `json:"is_filler"`
	URL           string `json:"url,omitempty"`
}

// EpisodeList is the full episode listing of one title.
type EpisodeList struct {
	Slug     string         `json:"slug"`
	Total    int            `json:"total"`
	Episodes []EpisodeEntry `json:"episodes"`
}

// EpisodeLookup is the result of looking up one episode number.
type EpisodeLookup struct {
	Slug    string        `json:"slug"`
	Number  int           `json:"number"`
	Found   bool          `json:"found"`
	Total   int           `json:"total"`
	Episode *EpisodeEntry `json:"episode,omitempty"`
}

var (
	fEpNumber   = F("number", "episodeNum", "episode_no", "episode")
	fEpTitle    = F("title", "name")
	fEpJapanese = F("japanese_title", "japaneseTitle", "jname")
	fEpID       = F("id", "episodeId", "episode_id")
	fEpFiller   = F("is_filler", "isFiller", "filler")
)

// Episode normalizes one episode entry.
func Episode(ep gjson.Result) EpisodeEntry {
	return EpisodeEntry{
		Number:        fEpNumber.String(ep),
		Title:         fEpTitle.String(ep),
		JapaneseTitle: fEpJapanese.Or(ep, ""),
		ID:            fEpID.Or(ep, ""),
		IsFiller:      fEpFiller.Bool(ep),
		URL:           fURL.Or(ep, ""),
	}
}

// Episodes normalizes an episode payload. count overrides the total when the
// envelope carries one.
func Episodes(slug string, payload []byte, count *int) EpisodeList {
	items := Items(gjson.ParseBytes(payload), "episodes", "results", "data")
	l := EpisodeList{Slug: slug, Episodes: make([]EpisodeEntry, 0, len(items))}
	for _, it := range items {
		l.Episodes = append(l.Episodes, Episode(it))
	}
	l.Total = len(l.Episodes)
	if count != nil {
		l.Total = *count
	}
	return l
}

// FindEpisode looks up episode n by its number.
func FindEpisode(l EpisodeList, n int) EpisodeLookup {
	res := EpisodeLookup{Slug: l.Slug, Number: n, Total: len(l.Episodes)}
	want := strconv.Itoa(n)
	for i := range l.Episodes {
		if l.Episodes[i].Number == want {
			ep := l.Episodes[i]
			res.Found = true
			res.Episode = &ep
			return res
		}
	}
	return res
}

// NotFound reports whether the looked-up episode is absent.
func (l EpisodeLookup) NotFound() bool { return !l.Found }
