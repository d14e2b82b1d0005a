package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/refcache"
)

type fakeAPI struct {
	mu       sync.Mutex
	requests []string
	listing  int32
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path+"?"+r.URL.RawQuery)
	f.mu.Unlock()

	switch r.URL.Path {
	case "/v1.4/review":
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"statusCode":500,"message":"internal"}`))
	case "/v1.4/person":
		_, _ = w.Write([]byte(`{"docs":[{"id":1,"name":"Киану Ривз","photo":"p.jpg"}],"page":2,"pages":3}`))
	case "/v1.4/movie":
		atomic.AddInt32(&f.listing, 1)
		_, _ = w.Write([]byte(`{"docs":[{"id":301,"name":"Матрица"}],"page":1,"pages":7}`))
	case "/v1.4/movie/123":
		_, _ = w.Write([]byte(`{"id":123,"name":"Тест","year":2001}`))
	case "/v1.4/image":
		_, _ = w.Write([]byte(`{"docs":[{"url":"a.jpg"},{"url":""},{"url":"b.jpg"}],"pages":1}`))
	case "/v1.4/season":
		_, _ = w.Write([]byte(`{"docs":[{"number":1,"episodes":[{"number":1,"name":"Pilot"}]}],"pages":1}`))
	case "/v1.4/movie/random":
		_, _ = w.Write([]byte(`{"id":42,"name":"Случайный"}`))
	case "/v1/movie/possible-values-by-field":
		_, _ = w.Write([]byte(`[{"name":"драма","slug":"drama"}]`))
	default:
		http.NotFound(w, r)
	}
}

func newTestSession(t *testing.T, notify func(Event)) (*Session, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{}
	server := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(server.Close)

	client := api.NewClient(api.Options{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})
	s := NewSession(client, refcache.New(client), SessionOptions{Notify: notify})
	t.Cleanup(s.Close)
	return s, fake
}

func TestCommentsFailureDoesNotAffectActors(t *testing.T) {
	var mu sync.Mutex
	var failed []Event
	s, _ := newTestSession(t, func(e Event) {
		if e.Status == Failed {
			mu.Lock()
			failed = append(failed, e)
			mu.Unlock()
		}
	})
	ctx := context.Background()
	page := query.PageSpec{No: 2, Size: 20}

	s.Comments.Load(ctx, "123", page)
	s.Actors.Load(ctx, "123", page)

	comments, err := s.Comments.Wait(ctx)
	require.NoError(t, err)
	actors, err := s.Actors.Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, Failed, comments.Status)
	require.Error(t, comments.Err)
	assert.Contains(t, comments.Err.Error(), "could not fetch comments")
	op, _ := api.OpOf(comments.Err)
	assert.Equal(t, api.OpComments, op)

	assert.Equal(t, Success, actors.Status)
	assert.Equal(t, "Киану Ривз", s.Actors.Items()[0].Name)
	assert.Equal(t, 3, s.Actors.PagesCount())
	assert.Equal(t, query.DefaultPagesCount, s.Comments.PagesCount())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 1
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, ChanComments, failed[0].Channel)
	mu.Unlock()
}

func TestMoviesPagesCountFromServer(t *testing.T) {
	s, fake := newTestSession(t, nil)
	ctx := context.Background()

	assert.Equal(t, 1, s.Movies.PagesCount())

	f := query.NewFilterSpec()
	f.Countries = query.Selection("USA")
	require.True(t, s.LoadMovies(ctx, f, query.PageSpec{No: 1, Size: 10}))
	_, _ = s.Movies.Wait(ctx)
	assert.Equal(t, 7, s.Movies.PagesCount())
	assert.Equal(t, 301, s.Movies.Items()[0].ID)

	// same filters built from a different set instance hit the dedupe
	same := query.NewFilterSpec()
	same.Countries = query.Selection("all", "USA")
	assert.False(t, s.LoadMovies(ctx, same, query.PageSpec{No: 1, Size: 10}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.listing))

	require.True(t, s.Movies.SetPageNo(ctx, 3))
	_, _ = s.Movies.Wait(ctx)
	assert.Equal(t, query.PageSpec{No: 3, Size: 10}, s.Movies.Page())
	assert.Equal(t, int32(2), atomic.LoadInt32(&fake.listing))

	require.True(t, s.Movies.SetPageSize(ctx, 50))
	_, _ = s.Movies.Wait(ctx)
	assert.Equal(t, query.PageSpec{No: 1, Size: 50}, s.Movies.Page())
}

func TestOpenMovieLoadsEveryChannel(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()

	s.OpenMovie(ctx, "123")

	movie, _ := s.Movie.Wait(ctx)
	images, _ := s.Images.Wait(ctx)
	seasons, _ := s.Seasons.Wait(ctx)
	actors, _ := s.Actors.Wait(ctx)
	comments, _ := s.Comments.Wait(ctx)

	assert.Equal(t, "Тест", movie.Data.DisplayName())
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, images.Data)
	require.Len(t, seasons.Data, 1)
	assert.Equal(t, "Pilot", seasons.Data[0].Episodes[0].Name)
	assert.Equal(t, Success, actors.Status)
	assert.Equal(t, Failed, comments.Status)
	assert.Equal(t, query.PageSpec{No: 1, Size: 10}, s.Comments.Page())

	s.CloseMovie()
	assert.Equal(t, Idle, s.Movie.Snapshot().Status)
	assert.Equal(t, Idle, s.Comments.Snapshot().Status)
	assert.False(t, s.Comments.SetPageNo(ctx, 2))
}

func TestOpenOtherMovieDropsPreviousDetail(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()

	s.OpenMovie(ctx, "123")
	first, _ := s.Movie.Wait(ctx)
	require.Equal(t, Success, first.Status)

	s.OpenMovie(ctx, "999")
	pending := s.Movie.Snapshot()
	assert.False(t, pending.HasData)
	assert.Nil(t, pending.Data)

	second, _ := s.Movie.Wait(ctx)
	assert.Equal(t, Failed, second.Status)
	assert.False(t, second.HasData)
	assert.Nil(t, second.Data)
	last, _ := s.Movie.Last()
	assert.Equal(t, "999", last)

	// reopening the same movie keeps what is loaded
	s.OpenMovie(ctx, "999")
	assert.Equal(t, Failed, s.Movie.Snapshot().Status)
}

func TestPickRandomAlwaysFetches(t *testing.T) {
	s, fake := newTestSession(t, nil)
	ctx := context.Background()
	f := query.NewFilterSpec()

	s.PickRandom(ctx, f)
	_, _ = s.Random.Wait(ctx)
	s.PickRandom(ctx, f)
	snap, _ := s.Random.Wait(ctx)

	assert.Equal(t, 42, snap.Data.ID)
	fake.mu.Lock()
	defer fake.mu.Unlock()
	random := 0
	for _, r := range fake.requests {
		if strings.HasPrefix(r, "/v1.4/movie/random?") {
			random++
		}
	}
	assert.Equal(t, 2, random)
}

func TestLoadReferences(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()

	s.LoadReferences(ctx)
	for _, c := range query.Categories {
		snap, err := s.References[c].Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, Success, snap.Status, c)
	}
	genres := s.References[query.Genres].Snapshot()
	require.Len(t, genres.Data, 1)
	assert.Equal(t, "драма", genres.Data[0].Name)
}
