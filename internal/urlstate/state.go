// Package urlstate keeps the application state in a shareable location string.
//
// A location is a path plus query values, like a browser address. Decoding is total:
// missing or malformed values fall back to defaults, and Decode(Encode(s)) == s for
// every canonical state.
package urlstate

import (
	"net/url"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/alvarorichard/gokino/internal/query"
)

// Query keys
const (
	KeyName      = "name"
	KeyPageSize  = "pageSize"
	KeyPageNo    = "pageNo"
	KeyMode      = "radioValue"
	KeyYears     = "startAndEndYears"
	KeyAgeRating = "ageRating"
	KeyCountry   = "country"
	KeyGenre     = "genre"
	KeyType      = "type"
	KeyNetwork   = "network"
	KeyKpRating  = "startAndEndKpRatings"
)

// radioValue literals
const (
	RadioFilters = "movieFilters"
	RadioName    = "movieName"
)

// State is what a location describes: the filters and the page of the movie list
type State struct {
	Filter query.FilterSpec
	Page   query.PageSpec
}

// Default is the state of an empty location
func Default() State {
	f := query.NewFilterSpec()
	f.Years = query.DefaultYears()
	f.KpRating = query.DefaultKpRating()
	return State{Filter: f, Page: query.DefaultPage()}
}

// Clone returns a deep copy
func (s State) Clone() State {
	return State{Filter: s.Filter.Clone(), Page: s.Page}
}

// Equal compares two states by value
func Equal(a, b State) bool {
	ca, cb := a.Filter.Canonical(), b.Filter.Canonical()
	if a.Page != b.Page || ca.Mode != cb.Mode || ca.Text != cb.Text || ca.Years != cb.Years || ca.KpRating != cb.KpRating {
		return false
	}
	return equalStrings(ca.Countries, cb.Countries) &&
		equalStrings(ca.Genres, cb.Genres) &&
		equalStrings(ca.Types, cb.Types) &&
		equalStrings(ca.AgeRatings, cb.AgeRatings) &&
		equalStrings(ca.Networks, cb.Networks)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ModeFromRadio maps a radioValue literal. Anything unknown is byFilters.
func ModeFromRadio(v string) query.Mode {
	if v == RadioName {
		return query.ModeByName
	}
	return query.ModeByFilters
}

// RadioFromMode is the inverse of ModeFromRadio
func RadioFromMode(m query.Mode) string {
	if m == query.ModeByName {
		return RadioName
	}
	return RadioFilters
}

// Canonical normalizes s for the movie list: ranges and page are normalized and the fields
// the mode does not use are cleared.
func Canonical(s State) State {
	out := s.Clone()
	if out.Filter.Mode != query.ModeByName {
		out.Filter.Mode = query.ModeByFilters
	}
	out.Page = out.Page.Normalize()
	out.Filter.Years = query.NormalizeYears(out.Filter.Years)
	out.Filter.KpRating = query.DefaultKpRating()
	out.Filter.Genres = query.Selection()
	out.Filter.Types = query.Selection()
	out.Filter.Networks = query.Selection()

	if out.Filter.Mode == query.ModeByName {
		out.Filter.Years = query.DefaultYears()
		out.Filter.Countries = query.Selection()
		out.Filter.AgeRatings = query.Selection()
	} else {
		out.Filter.Text = ""
	}
	return out
}

// Decode reads the movie list state from v
func Decode(v url.Values) State {
	s := Default()
	s.Filter.Mode = ModeFromRadio(v.Get(KeyMode))
	s.Filter.Text = v.Get(KeyName)
	s.Filter.Years = query.ParseYears(v.Get(KeyYears))
	s.Filter.Countries = query.Selection(v[KeyCountry]...)
	s.Filter.AgeRatings = query.Selection(v[KeyAgeRating]...)
	s.Page = query.PageSpec{No: atoi(v.Get(KeyPageNo)), Size: atoi(v.Get(KeyPageSize))}
	return Canonical(s)
}

// Encode writes the movie list state. Values equal to their default are left out.
func Encode(s State) url.Values {
	s = Canonical(s)
	v := url.Values{}
	v.Set(KeyMode, RadioFromMode(s.Filter.Mode))
	v.Set(KeyPageNo, strconv.Itoa(s.Page.No))
	v.Set(KeyPageSize, strconv.Itoa(s.Page.Size))

	if s.Filter.Mode == query.ModeByName {
		if s.Filter.Text != "" {
			v.Set(KeyName, s.Filter.Text)
		}
		return v
	}
	if s.Filter.Years != query.DefaultYears() {
		v.Set(KeyYears, s.Filter.Years.String())
	}
	setAll(v, KeyCountry, s.Filter.Countries)
	setAll(v, KeyAgeRating, s.Filter.AgeRatings)
	return v
}

// CanonicalRandom normalizes the filters of the random pick screen
func CanonicalRandom(f query.FilterSpec) query.FilterSpec {
	out := query.NewFilterSpec()
	out.Years = query.NormalizeYears(f.Years)
	out.KpRating = query.NormalizeKpRating(f.KpRating)
	out.Countries = query.Selection(query.Values(f.Countries)...)
	out.Genres = query.Selection(query.Values(f.Genres)...)
	out.Types = query.Selection(query.Values(f.Types)...)
	out.Networks = query.Selection(query.Values(f.Networks)...)
	return out
}

// DecodeRandom reads the random pick filters from v
func DecodeRandom(v url.Values) query.FilterSpec {
	f := query.NewFilterSpec()
	f.Years = query.ParseYears(v.Get(KeyYears))
	f.KpRating = query.ParseKpRating(v.Get(KeyKpRating))
	f.Countries = query.Selection(v[KeyCountry]...)
	f.Genres = query.Selection(v[KeyGenre]...)
	f.Types = query.Selection(v[KeyType]...)
	f.Networks = query.Selection(v[KeyNetwork]...)
	return CanonicalRandom(f)
}

// EncodeRandom writes the random pick filters. Values equal to their default are left out.
func EncodeRandom(f query.FilterSpec) url.Values {
	f = CanonicalRandom(f)
	v := url.Values{}
	setAll(v, KeyGenre, f.Genres)
	setAll(v, KeyCountry, f.Countries)
	setAll(v, KeyType, f.Types)
	setAll(v, KeyNetwork, f.Networks)
	if f.Years != query.DefaultYears() {
		v.Set(KeyYears, f.Years.String())
	}
	if f.KpRating != query.DefaultKpRating() {
		v.Set(KeyKpRating, f.KpRating.String())
	}
	return v
}

// DecodeFor decodes v with the rules of the screen at path
func DecodeFor(path string, v url.Values) State {
	if RouteOf(path) == RouteRandom {
		s := Default()
		s.Filter = DecodeRandom(v)
		return s
	}
	return Decode(v)
}

// EncodeFor encodes s with the rules of the screen at path. Screens without state encode nothing.
func EncodeFor(path string, s State) url.Values {
	switch RouteOf(path) {
	case RouteRandom:
		return EncodeRandom(s.Filter)
	case RouteMovies:
		return Encode(s)
	default:
		return url.Values{}
	}
}

// CanonicalFor normalizes s with the rules of the screen at path
func CanonicalFor(path string, s State) State {
	if RouteOf(path) == RouteRandom {
		out := Default()
		out.Filter = CanonicalRandom(s.Filter)
		return out
	}
	return Canonical(s)
}

func setAll(v url.Values, key string, set mapset.Set[string]) {
	for _, value := range query.Values(set) {
		v.Add(key, value)
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
