// Package gokino provides a public API for searching kinopoisk.dev.
// This package can be used as a library in other Go projects.
package gokino

import (
	"context"
	"os"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/refcache"
	"github.com/alvarorichard/gokino/internal/urlstate"
	"github.com/alvarorichard/gokino/pkg/gokino/types"
)

// Client is the main client for the kinopoisk.dev API
type Client struct {
	api  *api.Client
	refs *refcache.Cache
}

// NewClient creates a client for apiKey. An empty key falls back to $KINOPOISK_API_KEY.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		apiKey = os.Getenv(api.APIKeyEnv)
	}
	return NewClientWithOptions(types.Options{APIKey: apiKey})
}

// NewClientWithOptions creates a client with a custom base URL, HTTP client or rate limit
func NewClientWithOptions(opts types.Options) *Client {
	c := api.NewClient(opts)
	return &Client{api: c, refs: refcache.New(c)}
}

// SearchMovies searches movies by name
func (c *Client) SearchMovies(ctx context.Context, text string, page types.Page) (*types.Result, error) {
	p, err := c.api.SearchByName(ctx, text, page.Normalize())
	if err != nil {
		return nil, err
	}
	return types.FromPage(p), nil
}

// DiscoverMovies lists movies matching the filter. A name filter searches by name instead.
func (c *Client) DiscoverMovies(ctx context.Context, f types.Filter, page types.Page) (*types.Result, error) {
	p, err := c.api.Movies(ctx, f, page.Normalize())
	if err != nil {
		return nil, err
	}
	return types.FromPage(p), nil
}

// MoviesAt lists the movies a shareable location such as "gokino:///movies?country=США" describes
func (c *Client) MoviesAt(ctx context.Context, location string) (*types.Result, error) {
	loc, err := urlstate.ParseLocation(location)
	if err != nil {
		return nil, err
	}
	st := loc.State()
	return c.DiscoverMovies(ctx, st.Filter, st.Page)
}

// GetMovie returns the full record of a movie
func (c *Client) GetMovie(ctx context.Context, id string) (*types.MovieDetail, error) {
	return c.api.MovieByID(ctx, id)
}

// RandomMovie picks a random movie matching the filter. It returns nil when nothing matches.
func (c *Client) RandomMovie(ctx context.Context, f types.Filter) (*types.MovieDetail, error) {
	return c.api.Random(ctx, f)
}

// PossibleValues returns the reference list of a category. Lists are cached for the
// lifetime of the client.
func (c *Client) PossibleValues(ctx context.Context, category types.Category) ([]types.ReferenceEntry, error) {
	return c.refs.Get(ctx, category)
}

// GetAvailableCategories returns the categories PossibleValues accepts
func (c *Client) GetAvailableCategories() []types.Category {
	return append([]types.Category(nil), query.Categories...)
}
