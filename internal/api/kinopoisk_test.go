package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvarorichard/gokino/internal/query"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{APIKey: "test-key", BaseURL: server.URL, HTTPClient: server.Client()})
}

func TestClientSendsAPIKeyAndDecodesPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "/v1.4/movie/search", r.URL.Path)
		assert.Equal(t, "Matrix", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"docs":[{"id":301,"name":"Матрица","year":1999,"rating":{"kp":8.5}}],"total":42,"limit":10,"page":2,"pages":5}`))
	})

	f := query.NewFilterSpec()
	f.Mode = query.ModeByName
	f.Text = "Matrix"

	page, err := client.Movies(context.Background(), f, query.PageSpec{No: 2, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, 301, page.Docs[0].ID)
	assert.Equal(t, 8.5, page.Docs[0].Rating.KP)
	assert.Equal(t, 5, page.Pages)
}

func TestClientErrorsCarryOp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1.4/review":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"statusCode":500,"message":"boom","error":"Internal Server Error"}`))
		case "/v1.4/person":
			_, _ = w.Write([]byte(`{"docs":[{"id":7,"name":"Киану Ривз","photo":"https://example.com/7.jpg"}],"pages":1}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	_, err := client.Comments(ctx, "123", query.PageSpec{No: 2, Size: 20})
	require.Error(t, err)
	op, ok := OpOf(err)
	require.True(t, ok)
	assert.Equal(t, OpComments, op)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Contains(t, err.Error(), "could not fetch comments")
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, errors.Is(err, &Error{Op: OpComments}))
	assert.False(t, errors.Is(err, &Error{Op: OpActors}))

	actors, err := client.Actors(ctx, "123", query.PageSpec{No: 2, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, "Киану Ривз", actors.Docs[0].Name)
}

func TestClientWithoutKey(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL})
	assert.False(t, client.IsConfigured())

	_, err := client.PossibleValues(context.Background(), query.Genres)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAPIKey))
	op, _ := OpOf(err)
	assert.Equal(t, OpGenres, op)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestPossibleValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/movie/possible-values-by-field", r.URL.Path)
		assert.Equal(t, "countries.name", r.URL.Query().Get("field"))
		_, _ = w.Write([]byte(`[{"name":"США","slug":"USA"},{"name":"Франция","slug":"France"}]`))
	})

	entries, err := client.PossibleValues(context.Background(), query.Countries)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "США", entries[0].Name)

	_, err = client.PossibleValues(context.Background(), query.Category("studios"))
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestRandomNullBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.4/movie/random", r.URL.Path)
		assert.Equal(t, "0-10", r.URL.Query().Get("rating.kp"))
		_, _ = w.Write([]byte(`null`))
	})

	movie, err := client.Random(context.Background(), query.NewFilterSpec())
	require.NoError(t, err)
	assert.Nil(t, movie)
}

func TestMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := client.MovieByID(context.Background(), "301")
	require.Error(t, err)
	op, _ := OpOf(err)
	assert.Equal(t, OpMovie, op)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Seasons(ctx, "301")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRateLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[],"pages":1}`))
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "k", BaseURL: server.URL, RequestsPerSecond: 20, Burst: 1})
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Images(context.Background(), "301")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
