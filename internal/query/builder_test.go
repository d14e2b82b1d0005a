package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T, year int) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { Now = prev })
}

func TestListingScenario(t *testing.T) {
	fixClock(t, 2024)

	f := NewFilterSpec()
	f.Years = YearRange{Start: 2000, End: 2010}
	f.Countries = Selection("USA")

	req := Movies(f, PageSpec{No: 1, Size: 10})

	assert.Equal(t, Current, req.Version)
	assert.Equal(t, "/movie", req.Path)
	assert.Equal(t, []string{"2000-2010"}, req.Query["year"])
	assert.Equal(t, []string{"USA"}, req.Query["countries.name"])
	assert.Equal(t, "1", req.Query.Get("page"))
	assert.Equal(t, "10", req.Query.Get("limit"))
	assert.Equal(t, SelectFields, req.Query["selectFields"])
	assert.False(t, req.Query.Has("query"))
}

func TestModeExclusivity(t *testing.T) {
	fixClock(t, 2024)

	f := NewFilterSpec()
	f.Text = "Matrix"
	f.Years = YearRange{Start: 1999, End: 2003}
	f.Countries = Selection("USA")
	f.AgeRatings = Selection("r")

	t.Run("byFilters never sends text", func(t *testing.T) {
		f := f.Clone()
		f.Mode = ModeByFilters
		req := Movies(f, DefaultPage())
		assert.Equal(t, "/movie", req.Path)
		assert.False(t, req.Query.Has("query"))
	})

	t.Run("byName never sends filters", func(t *testing.T) {
		f := f.Clone()
		f.Mode = ModeByName
		req := Movies(f, DefaultPage())
		assert.Equal(t, "/movie/search", req.Path)
		assert.Equal(t, "Matrix", req.Query.Get("query"))
		for _, key := range []string{"year", "countries.name", "ratingMpaa", "selectFields"} {
			assert.False(t, req.Query.Has(key), key)
		}
	})

	t.Run("byName without text lists everything", func(t *testing.T) {
		f := f.Clone()
		f.Mode = ModeByName
		f.Text = "   "
		req := Movies(f, DefaultPage())
		assert.Equal(t, "/movie", req.Path)
		assert.False(t, req.Query.Has("countries.name"))
		assert.Equal(t, []string{"1920-2024"}, req.Query["year"])
	})
}

func TestAllIsNeverSent(t *testing.T) {
	fixClock(t, 2024)

	f := NewFilterSpec()
	f.Countries = Selection("all", "USA", "France")
	f.AgeRatings = Selection("pg13", "all")
	f.Genres = Selection("all", "драма")
	f.Types = Selection("all")
	f.Networks = Selection("HBO", "all", "Netflix")

	listing := Listing(f, DefaultPage())
	assert.Equal(t, []string{"France", "USA"}, listing.Query["countries.name"])
	assert.Equal(t, []string{"pg13"}, listing.Query["ratingMpaa"])

	random := Random(f)
	assert.Equal(t, []string{"France", "USA"}, random.Query["countries.name"])
	assert.Equal(t, []string{"драма"}, random.Query["genres.name"])
	assert.False(t, random.Query.Has("type"))
	assert.Equal(t, []string{"HBO", "Netflix"}, random.Query["networks.items.name"])

	for _, req := range []Request{listing, random} {
		for key, values := range req.Query {
			assert.NotContains(t, values, AllValue, key)
		}
	}
}

func TestValuesAddedAfterConstruction(t *testing.T) {
	set := Selection("USA")
	set.Add(AllValue)
	assert.Equal(t, []string{"USA"}, Values(set))
	assert.Nil(t, Values(nil))
}

func TestNormalizeYears(t *testing.T) {
	fixClock(t, 2024)
	full := YearRange{Start: 1920, End: 2024}

	tests := []struct {
		name string
		in   YearRange
		want YearRange
	}{
		{"absent", YearRange{}, full},
		{"missing start", YearRange{End: 2000}, full},
		{"missing end", YearRange{Start: 2000}, full},
		{"reversed", YearRange{Start: 2010, End: 2000}, full},
		{"too early", YearRange{Start: 1900, End: 2000}, full},
		{"in the future", YearRange{Start: 2000, End: 2030}, full},
		{"valid", YearRange{Start: 2000, End: 2010}, YearRange{Start: 2000, End: 2010}},
		{"single year", YearRange{Start: 2005, End: 2005}, YearRange{Start: 2005, End: 2005}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeYears(tt.in))
		})
	}
}

func TestNormalizeKpRating(t *testing.T) {
	assert.Equal(t, DefaultKpRating(), NormalizeKpRating(RatingRange{}))
	assert.Equal(t, DefaultKpRating(), NormalizeKpRating(RatingRange{Min: 8, Max: 3, Set: true}))
	assert.Equal(t, DefaultKpRating(), NormalizeKpRating(RatingRange{Min: -1, Max: 3, Set: true}))
	assert.Equal(t, DefaultKpRating(), NormalizeKpRating(RatingRange{Min: 1, Max: 11, Set: true}))

	r := RatingRange{Min: 7.5, Max: 10, Set: true}
	assert.Equal(t, r, NormalizeKpRating(r))
	assert.Equal(t, "7.5-10", r.String())
}

func TestParseRanges(t *testing.T) {
	assert.Equal(t, YearRange{Start: 1999, End: 2003}, ParseYears("1999-2003"))
	assert.True(t, ParseYears("1999").IsZero())
	assert.True(t, ParseYears("abc-2003").IsZero())
	assert.True(t, ParseYears("").IsZero())

	assert.Equal(t, RatingRange{Min: 6.5, Max: 9, Set: true}, ParseKpRating("6.5-9"))
	assert.False(t, ParseKpRating("6.5").Set)
	assert.False(t, ParseKpRating("x-9").Set)
}

func TestRandomRequest(t *testing.T) {
	fixClock(t, 2024)

	f := NewFilterSpec()
	f.Genres = Selection("комедия")
	f.Types = Selection("movie", "tv-series")
	f.Years = YearRange{Start: 2010, End: 1990}
	f.KpRating = RatingRange{Min: 7, Max: 9, Set: true}

	req := Random(f)
	assert.Equal(t, "/movie/random", req.Path)
	assert.Equal(t, []string{"movie", "tv-series"}, req.Query["type"])
	assert.Equal(t, "1920-2024", req.Query.Get("releaseYears.start"))
	assert.Equal(t, "7-9", req.Query.Get("rating.kp"))
	assert.False(t, req.Query.Has("page"))
	assert.False(t, req.Query.Has("limit"))

	assert.Equal(t, "0-10", Random(NewFilterSpec()).Query.Get("rating.kp"))
}

func TestBuildersDoNotMutate(t *testing.T) {
	f := NewFilterSpec()
	f.Countries = Selection("USA", "all")
	before := f.Canonical()

	_ = Listing(f, PageSpec{No: 0, Size: 7})
	_ = Random(f)

	assert.Equal(t, before, f.Canonical())
}

func TestPageNormalization(t *testing.T) {
	req := Listing(NewFilterSpec(), PageSpec{No: -3, Size: 33})
	assert.Equal(t, "1", req.Query.Get("page"))
	assert.Equal(t, "10", req.Query.Get("limit"))

	req = Search("Matrix", PageSpec{No: 4, Size: 50})
	assert.Equal(t, "4", req.Query.Get("page"))
	assert.Equal(t, "50", req.Query.Get("limit"))
}

func TestDetailBuilders(t *testing.T) {
	root := "https://api.kinopoisk.dev/"

	assert.Equal(t, "https://api.kinopoisk.dev/v1/movie/possible-values-by-field?field=networks.items.name",
		PossibleValues(Networks).URL(root))
	assert.Equal(t, "https://api.kinopoisk.dev/v1.4/movie/301", ByID("301").URL(root))
	assert.Equal(t, "https://api.kinopoisk.dev/v1.4/image?limit=20&movieId=301&page=1", Images("301").URL(root))
	assert.Equal(t, "https://api.kinopoisk.dev/v1.4/review?limit=20&movieId=123&page=2",
		Comments("123", PageSpec{No: 2, Size: 20}).URL(root))
	assert.Equal(t, "https://api.kinopoisk.dev/v1.4/season?limit=200&movieId=301&page=1", Seasons("301").URL(root))

	actors := Actors("301", DefaultPage())
	require.Equal(t, "/person", actors.Path)
	assert.Equal(t, []string{"name", "photo"}, actors.Query["notNullFields"])
	assert.Equal(t, "301", actors.Query.Get("movies.id"))
}

func TestCategories(t *testing.T) {
	want := map[Category]string{
		Countries: "countries.name",
		Genres:    "genres.name",
		Types:     "type",
		Networks:  "networks.items.name",
	}
	for _, c := range Categories {
		assert.True(t, c.Valid())
		assert.Equal(t, want[c], c.Field())
	}
	assert.False(t, Category("studios").Valid())
}
