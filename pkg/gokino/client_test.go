package gokino_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alvarorichard/gokino/pkg/gokino"
	"github.com/alvarorichard/gokino/pkg/gokino/types"
)

func newServer(t *testing.T, handler http.HandlerFunc) *gokino.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return gokino.NewClientWithOptions(types.Options{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})
}

func TestGetAvailableCategories(t *testing.T) {
	client := gokino.NewClient("k")
	categories := client.GetAvailableCategories()
	if len(categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(categories))
	}
	if _, err := types.ParseCategory("studios"); err == nil {
		t.Error("expected an error for an unknown category")
	}
}

func TestMoviesAt(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["countries.name"]; len(got) != 1 || got[0] != "США" {
			t.Errorf("countries.name = %v", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q", got)
		}
		_, _ = w.Write([]byte(`{"docs":[{"id":1,"name":"Фильм"}],"page":2,"pages":5,"total":41}`))
	})

	res, err := client.MoviesAt(context.Background(), "gokino:///movies?country=США&pageNo=2")
	if err != nil {
		t.Fatal(err)
	}
	if res.Pages != 5 || res.Page != 2 || len(res.Movies) != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	if _, err := client.MoviesAt(context.Background(), "https://example.com/movies"); err == nil {
		t.Error("expected an error for a foreign scheme")
	}
}

func TestPossibleValuesCached(t *testing.T) {
	var calls int32
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`[{"name":"драма","slug":"drama"}]`))
	})

	for i := 0; i < 3; i++ {
		values, err := client.PossibleValues(context.Background(), types.Genres)
		if err != nil {
			t.Fatal(err)
		}
		if len(values) != 1 || values[0].Name != "драма" {
			t.Fatalf("unexpected values %v", values)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected one request, got %d", n)
	}
}
