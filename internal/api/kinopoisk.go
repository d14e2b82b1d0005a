// Package api provides the kinopoisk.dev REST client
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/util"
)

const (
	// DefaultBaseURL is the API root, version prefixes are appended per request
	DefaultBaseURL = "https://api.kinopoisk.dev"
	// APIKeyEnv holds the token sent in the X-API-KEY header
	APIKeyEnv = "KINOPOISK_API_KEY"

	maxBodySize = 8 << 20
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	APIKey            string
	BaseURL           string
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Burst             int
}

// Client handles interactions with the kinopoisk.dev API
type Client struct {
	client  *http.Client
	apiKey  string
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a client from opts
func NewClient(opts Options) *Client {
	c := &Client{
		client:  opts.HTTPClient,
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
	if c.client == nil {
		c.client = util.GetSharedClient()
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	if c.apiKey == "" {
		util.Warn(APIKeyEnv + " not set, every request will fail")
	}
	return c
}

// NewClientFromEnv creates a client with the key from KINOPOISK_API_KEY and default settings
func NewClientFromEnv() *Client {
	return NewClient(Options{APIKey: os.Getenv(APIKeyEnv)})
}

// IsConfigured returns true if an API key is set
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// PossibleValues fetches the reference list of a category
func (c *Client) PossibleValues(ctx context.Context, category query.Category) ([]models.ReferenceEntry, error) {
	op := CategoryOp(category)
	if !category.Valid() {
		return nil, &Error{Op: op, Err: errors.Wrapf(ErrUnknownCategory, "%q", category)}
	}

	var entries []models.ReferenceEntry
	if err := c.do(ctx, op, query.PossibleValues(category), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SearchByName runs the text search
func (c *Client) SearchByName(ctx context.Context, text string, p query.PageSpec) (*models.Page[models.Movie], error) {
	return c.moviePage(ctx, OpSearch, query.Search(text, p))
}

// ListByFilters runs the filtered listing
func (c *Client) ListByFilters(ctx context.Context, f query.FilterSpec, p query.PageSpec) (*models.Page[models.Movie], error) {
	return c.moviePage(ctx, OpListing, query.Listing(f, p))
}

// Movies fetches the movie list for f, picking search or listing like query.Movies does
func (c *Client) Movies(ctx context.Context, f query.FilterSpec, p query.PageSpec) (*models.Page[models.Movie], error) {
	req := query.Movies(f, p)
	op := OpListing
	if req.Query.Has("query") {
		op = OpSearch
	}
	return c.moviePage(ctx, op, req)
}

func (c *Client) moviePage(ctx context.Context, op Op, req query.Request) (*models.Page[models.Movie], error) {
	var page models.Page[models.Movie]
	if err := c.do(ctx, op, req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MovieByID fetches the full movie record
func (c *Client) MovieByID(ctx context.Context, id string) (*models.MovieDetail, error) {
	var movie models.MovieDetail
	if err := c.do(ctx, OpMovie, query.ByID(id), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Images fetches the first page of images of a movie
func (c *Client) Images(ctx context.Context, movieID string) (*models.Page[models.MovieImage], error) {
	var page models.Page[models.MovieImage]
	if err := c.do(ctx, OpImages, query.Images(movieID), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Comments fetches one page of reviews
func (c *Client) Comments(ctx context.Context, movieID string, p query.PageSpec) (*models.Page[models.MovieComment], error) {
	var page models.Page[models.MovieComment]
	if err := c.do(ctx, OpComments, query.Comments(movieID, p), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Actors fetches one page of persons that took part in the movie
func (c *Client) Actors(ctx context.Context, movieID string, p query.PageSpec) (*models.Page[models.MovieActor], error) {
	var page models.Page[models.MovieActor]
	if err := c.do(ctx, OpActors, query.Actors(movieID, p), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Seasons fetches every season of a series
func (c *Client) Seasons(ctx context.Context, movieID string) ([]models.MovieSeason, error) {
	var page models.Page[models.MovieSeason]
	if err := c.do(ctx, OpSeasons, query.Seasons(movieID), &page); err != nil {
		return nil, err
	}
	return page.Docs, nil
}

// Random picks a movie matching f. It returns nil without error when nothing matches.
func (c *Client) Random(ctx context.Context, f query.FilterSpec) (*models.MovieDetail, error) {
	var movie *models.MovieDetail
	if err := c.do(ctx, OpRandom, query.Random(f), &movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// do performs req and decodes the JSON body into out. Every failure is an *Error for op.
func (c *Client) do(ctx context.Context, op Op, req query.Request, out any) error {
	if c.apiKey == "" {
		return &Error{Op: op, Err: ErrNoAPIKey}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Op: op, Err: errors.Wrap(err, "rate limit wait")}
		}
	}

	endpoint := req.URL(c.baseURL)
	timer := util.StartTimer(string(op))
	defer timer.StopAndLog()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &Error{Op: op, Err: errors.Wrap(err, "failed to create request")}
	}
	httpReq.Header.Set("X-API-KEY", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	util.Debug("kinopoisk request", "op", op, "url", endpoint)
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &Error{Op: op, Err: errors.Wrap(err, "request failed")}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: errors.Wrap(err, "failed to read response")}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		util.Debug("kinopoisk error", "op", op, "status", resp.StatusCode)
		return &Error{Op: op, Status: resp.StatusCode, Err: errors.New(serverMessage(resp, body))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: errors.Wrap(err, "failed to parse response")}
	}
	return nil
}

// serverMessage extracts the "message" field kinopoisk.dev puts in error bodies
func serverMessage(resp *http.Response, body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Message) > 0 {
		var msg string
		if json.Unmarshal(payload.Message, &msg) == nil && msg != "" {
			return msg
		}
		var msgs []string
		if json.Unmarshal(payload.Message, &msgs) == nil && len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return resp.Status
}
