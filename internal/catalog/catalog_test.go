package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryNormalize(t *testing.T) {
	tests := []struct {
		name    string
		cat     *Category
		input   string
		want    string
		wantErr bool
	}{
		{"exact", Genres, "action", "action", false},
		{"mixed case and spaces", Genres, "  Slice-Of-Life ", "slice-of-life", false},
		{"type upper", Types, "TV", "tv", false},
		{"rating with plus", Ratings, "R+", "r+", false},
		{"unknown genre", Genres, "cooking", "", true},
		{"empty", Seasons, "", "", true},
		{"ranking type", RankingTypes, "ByPopularity", "bypopularity", false},
		{"list status", ListStatuses, "plan_to_watch", "plan_to_watch", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cat.Normalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryErrorListsVocabulary(t *testing.T) {
	for _, c := range All() {
		t.Run(c.Name, func(t *testing.T) {
			_, err := c.Normalize("definitely-not-valid")
			require.Error(t, err)
			msg := err.Error()
			assert.True(t, strings.HasPrefix(msg, "Invalid "+c.Name+" 'definitely-not-valid'."), msg)
			assert.True(t, strings.HasSuffix(msg, "Available "+c.Plural+": "+strings.Join(c.Values, ", ")), msg)
		})
	}
}

func TestGenreCount(t *testing.T) {
	assert.Len(t, Genres.Values, 41)
}

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		in   int
		want int
	}{
		{"ranking below", RankingLimit, 0, 1},
		{"ranking above", RankingLimit, 500, 100},
		{"ranking inside", RankingLimit, 42, 42},
		{"combined above", CombinedLimit, 50, 20},
		{"combined negative", CombinedLimit, -3, 1},
		{"page above", Page, 5000, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Clamp(tt.in))
		})
	}
}

func TestClampRule(t *testing.T) {
	rule := Clamp(RankingLimit)

	got, err := rule(float64(0))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = rule(float64(500))
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	got, err = rule("ten")
	require.NoError(t, err)
	assert.Equal(t, 10, got, "non-numeric falls back to the default")
}

func TestScore(t *testing.T) {
	for _, n := range []int{1, 5, 10} {
		assert.NoError(t, Score(n))
	}
	for _, n := range []int{0, 11, -1} {
		err := Score(n)
		require.Error(t, err)
		assert.Equal(t, "Score must be between 1 and 10.", err.Error())
	}

	v, err := MinScore(float64(7))
	require.NoError(t, err)
	assert.Equal(t, 7, v, "in-range scores are forwarded unchanged")
}

func TestMinScore_Fractions(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10.5, "Score must be between 1 and 10."},
		{10.99, "Score must be between 1 and 10."},
		{0.9, "Score must be between 1 and 10."},
		{7.5, "Score must be a whole number between 1 and 10."},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			v, err := MinScore(tt.in)
			require.Error(t, err)
			assert.Nil(t, v)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	v, err := MinScore(float64(10))
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestLetter(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a", "A", false},
		{" z ", "Z", false},
		{"other", "other", false},
		{"OTHER", "other", false},
		{"ab", "", true},
		{"1", "", true},
		{"", "", true},
		{"é", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Letter(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Invalid letter.")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenreList(t *testing.T) {
	got, err := GenreList("Action, adventure ,FANTASY")
	require.NoError(t, err)
	assert.Equal(t, "action,adventure,fantasy", got)

	_, err = GenreList("action,cooking")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid genre 'cooking'")

	_, err = GenreList(" , ")
	require.Error(t, err)
}

func TestPositive(t *testing.T) {
	rule := Positive("Episode number")
	v, err := rule(float64(3))
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = rule(float64(0))
	require.Error(t, err)
	assert.Equal(t, "Episode number must be a positive number.", err.Error())
}

func TestSeasonYear(t *testing.T) {
	_, err := SeasonYear(float64(1900))
	require.Error(t, err)

	v, err := SeasonYear(float64(2020))
	require.NoError(t, err)
	assert.Equal(t, 2020, v)
}
