// Package types exposes the public records returned by the gokino client
package types

import (
	"fmt"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
)

type (
	Movie          = models.Movie
	MovieDetail    = models.MovieDetail
	MovieImage     = models.MovieImage
	MovieComment   = models.MovieComment
	MovieActor     = models.MovieActor
	MovieSeason    = models.MovieSeason
	ReferenceEntry = models.ReferenceEntry
	Filter         = query.FilterSpec
	Page           = query.PageSpec
	// Options configures the API connection: key, base URL, HTTP client and rate limit
	Options = api.Options
)

// Category is a filterable field with a reference list
type Category = query.Category

const (
	Countries = query.Countries
	Genres    = query.Genres
	Types     = query.Types
	Networks  = query.Networks
)

// Result is one page of movies
type Result struct {
	Movies []Movie
	Page   int
	Pages  int
	Total  int
}

// FromPage converts an API page
func FromPage(p *models.Page[models.Movie]) *Result {
	if p == nil {
		return &Result{Page: 1, Pages: query.DefaultPagesCount}
	}
	return &Result{Movies: p.Docs, Page: max(p.Page, 1), Pages: max(p.Pages, query.DefaultPagesCount), Total: p.Total}
}

// ParseCategory parses a category name
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %s", s)
	}
	return c, nil
}

// NewFilter returns an empty filter
func NewFilter() Filter {
	return query.NewFilterSpec()
}
