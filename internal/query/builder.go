package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Version is an API version prefix
type Version string

const (
	// Legacy only serves possible-values-by-field
	Legacy  Version = "v1"
	Current Version = "v1.4"
)

// SelectFields is the projection requested from the listing endpoint to keep payloads small
var SelectFields = []string{"id", "name", "description", "shortDescription", "poster"}

// Request describes one outbound GET against the movie database
type Request struct {
	Version Version
	Path    string
	Query   url.Values
}

// URL joins the request onto root, e.g. "https://api.kinopoisk.dev"
func (r Request) URL(root string) string {
	u := strings.TrimRight(root, "/") + "/" + string(r.Version) + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Category is a reference list that can populate a filter
type Category string

const (
	Countries Category = "countries"
	Genres    Category = "genres"
	Types     Category = "types"
	Networks  Category = "networks"
)

// Categories lists every reference category
var Categories = []Category{Countries, Genres, Types, Networks}

// Field returns the API field whose possible values make up the category
func (c Category) Field() string {
	switch c {
	case Countries:
		return "countries.name"
	case Genres:
		return "genres.name"
	case Types:
		return "type"
	case Networks:
		return "networks.items.name"
	default:
		return ""
	}
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	return c.Field() != ""
}

func paging(p PageSpec) url.Values {
	p = p.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.No))
	q.Set("limit", strconv.Itoa(p.Size))
	return q
}

func appendAll(q url.Values, key string, values []string) {
	for _, v := range values {
		q.Add(key, v)
	}
}

// Search builds the text search request
func Search(text string, p PageSpec) Request {
	q := paging(p)
	q.Set("query", text)
	return Request{Version: Current, Path: "/movie/search", Query: q}
}

// Listing builds the filtered listing request. Text is ignored.
func Listing(f FilterSpec, p PageSpec) Request {
	q := paging(p)
	appendAll(q, "selectFields", SelectFields)
	if years := NormalizeYears(f.Years); years.Valid() {
		q.Add("year", years.String())
	}
	appendAll(q, "countries.name", Values(f.Countries))
	appendAll(q, "ratingMpaa", Values(f.AgeRatings))
	return Request{Version: Current, Path: "/movie", Query: q}
}

// Movies picks the endpoint for the movie list: text search when searching by name with
// non-empty text, the filtered listing otherwise. Filters never reach the search request
// and text never reaches the listing request.
func Movies(f FilterSpec, p PageSpec) Request {
	if f.Mode == ModeByName {
		if text := strings.TrimSpace(f.Text); text != "" {
			return Search(text, p)
		}
		return Listing(NewFilterSpec(), p)
	}
	return Listing(f, p)
}

// Random builds the random pick request. The endpoint returns a single movie so no paging applies.
func Random(f FilterSpec) Request {
	q := url.Values{}
	appendAll(q, "genres.name", Values(f.Genres))
	appendAll(q, "countries.name", Values(f.Countries))
	appendAll(q, "type", Values(f.Types))
	q.Add("releaseYears.start", NormalizeYears(f.Years).String())
	q.Add("rating.kp", NormalizeKpRating(f.KpRating).String())
	appendAll(q, "networks.items.name", Values(f.Networks))
	return Request{Version: Current, Path: "/movie/random", Query: q}
}

// PossibleValues builds the reference list request for a category
func PossibleValues(c Category) Request {
	q := url.Values{}
	q.Set("field", c.Field())
	return Request{Version: Legacy, Path: "/movie/possible-values-by-field", Query: q}
}

// ByID builds the movie detail request
func ByID(id string) Request {
	return Request{Version: Current, Path: "/movie/" + url.PathEscape(id)}
}

// Images builds the request for the first ImagesLimit images of a movie
func Images(movieID string) Request {
	q := paging(PageSpec{No: 1, Size: ImagesLimit})
	q.Set("movieId", movieID)
	return Request{Version: Current, Path: "/image", Query: q}
}

// Comments builds the reviews request for one page
func Comments(movieID string, p PageSpec) Request {
	q := paging(p)
	q.Set("movieId", movieID)
	return Request{Version: Current, Path: "/review", Query: q}
}

// Actors builds the persons request for one page. Persons without a name or photo are skipped server side.
func Actors(movieID string, p PageSpec) Request {
	q := paging(p)
	q.Set("movies.id", movieID)
	q.Add("notNullFields", "name")
	q.Add("notNullFields", "photo")
	return Request{Version: Current, Path: "/person", Query: q}
}

// Seasons builds the seasons request. All seasons fit in one MaxLimit page.
func Seasons(movieID string) Request {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(MaxLimit))
	q.Set("movieId", movieID)
	return Request{Version: Current, Path: "/season", Query: q}
}
