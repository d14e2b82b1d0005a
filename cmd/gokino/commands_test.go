package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
)

func newTestCLI(t *testing.T, handler http.HandlerFunc) (*cli, *bytes.Buffer) {
	t.Helper()
	prevWait, prevChoose := wait, choose
	wait = func(_ string, action func()) { action() }
	t.Cleanup(func() { wait, choose = prevWait, prevChoose })

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	out := &bytes.Buffer{}
	client := api.NewClient(api.Options{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})
	return &cli{client: client, out: out}, out
}

func TestFilterFlags(t *testing.T) {
	ff := filterFlags{years: "2000-2010", countries: "США, Франция,,", ages: "all,r", page: 0, size: 33}
	spec := ff.spec()
	assert.Equal(t, query.YearRange{Start: 2000, End: 2010}, spec.Years)
	assert.Equal(t, []string{"США", "Франция"}, query.Values(spec.Countries))
	assert.Equal(t, []string{"r"}, query.Values(spec.AgeRatings))
	assert.Equal(t, query.PageSpec{No: 1, Size: 10}, ff.pageSpec())
}

func TestSearchByName(t *testing.T) {
	var path string
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, "Матрица", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"docs":[{"id":301,"name":"Матрица","year":1999}],"page":1,"pages":2}`))
	})

	require.NoError(t, c.search(context.Background(), "Матрица", query.NewFilterSpec(), query.DefaultPage()))
	assert.Equal(t, "/v1.4/movie/search", path)
	assert.Contains(t, out.String(), "301  Матрица (1999)")
	assert.Contains(t, out.String(), "page 1 of 2")
}

func TestSearchPickOpensMovie(t *testing.T) {
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1.4/movie":
			_, _ = w.Write([]byte(`{"docs":[{"id":1,"name":"Первый"},{"id":2,"name":"Второй"}],"pages":1}`))
		case "/v1.4/movie/2":
			_, _ = w.Write([]byte(`{"id":2,"name":"Второй","description":"<b>жирный</b> текст"}`))
		default:
			_, _ = w.Write([]byte(`{"docs":[],"pages":1}`))
		}
	})
	c.pick = true
	choose = func(movies []models.Movie) (int, error) { return 1, nil }

	require.NoError(t, c.search(context.Background(), "", query.NewFilterSpec(), query.DefaultPage()))
	assert.Contains(t, out.String(), "Второй  #2")
	assert.Contains(t, out.String(), "жирный текст")
}

func TestMovieSectionsFailIndependently(t *testing.T) {
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1.4/movie/7":
			_, _ = w.Write([]byte(`{"id":7,"name":"Фильм","rating":{"kp":7.123}}`))
		case "/v1.4/review":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
		case "/v1.4/person":
			_, _ = w.Write([]byte(`{"docs":[{"id":1,"name":"Актёр"}],"pages":1}`))
		default:
			_, _ = w.Write([]byte(`{"docs":[],"pages":1}`))
		}
	})

	require.NoError(t, c.movie(context.Background(), "7"))
	text := out.String()
	assert.Contains(t, text, "Кинопоиск: 7.12")
	assert.Contains(t, text, "Актёр")
	assert.Contains(t, text, "could not fetch comments")
	assert.Contains(t, text, "no-poster.jpg")
}

func TestRandomNoMatch(t *testing.T) {
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})
	require.NoError(t, c.random(context.Background(), query.NewFilterSpec()))
	assert.Contains(t, out.String(), "no movie matches")
}

func TestValues(t *testing.T) {
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "genres.name", r.URL.Query().Get("field"))
		_, _ = w.Write([]byte(`[{"name":"драма"},{"name":"комедия"}]`))
	})
	require.NoError(t, c.values(context.Background(), "genres"))
	assert.Equal(t, "драма\nкомедия\n", out.String())

	err := c.values(context.Background(), "studios")
	assert.ErrorIs(t, err, api.ErrUnknownCategory)
}

func TestAllValues(t *testing.T) {
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		switch field := r.URL.Query().Get("field"); {
		case strings.Contains(field, "network"):
			w.WriteHeader(http.StatusInternalServerError)
		case field == "genres.name":
			_, _ = w.Write([]byte(`[{"name":"драма"}]`))
		default:
			_, _ = w.Write([]byte(`[{"name":"` + field + `"}]`))
		}
	})
	require.NoError(t, c.values(context.Background(), "all"))

	text := out.String()
	assert.Contains(t, text, "\ngenres\nдрама\n")
	assert.Contains(t, text, "\ncountries\ncountries.name\n")
	assert.Contains(t, text, "\nnetworks\n")
}
