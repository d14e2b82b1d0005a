package urlstate

import (
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Scheme prefixes shareable locations
const Scheme = "gokino"

// Paths of the screens
const (
	PathMovies = "/movies"
	PathRandom = "/random"
	PathLogin  = "/login"
	pathMovie  = "/movie/"
)

// Route identifies a screen
type Route int

const (
	RouteNotFound Route = iota
	RouteMovies
	RouteMovie
	RouteRandom
	RouteLogin
)

// RouteOf maps a path to its screen. The root path is the movie list.
func RouteOf(path string) Route {
	switch {
	case path == "" || path == "/" || path == PathMovies:
		return RouteMovies
	case path == PathRandom:
		return RouteRandom
	case path == PathLogin:
		return RouteLogin
	case strings.HasPrefix(path, pathMovie) && len(path) > len(pathMovie) && !strings.Contains(path[len(pathMovie):], "/"):
		return RouteMovie
	default:
		return RouteNotFound
	}
}

// Location is a path with its query, the terminal version of an address bar
type Location struct {
	Path  string
	Query url.Values
}

// MoviesLocation is the movie list location for s
func MoviesLocation(s State) Location {
	return Location{Path: PathMovies, Query: Encode(s)}
}

// RandomLocation is the random pick location for the filters of s
func RandomLocation(s State) Location {
	return Location{Path: PathRandom, Query: EncodeRandom(s.Filter)}
}

// MovieLocation is the detail location of a movie
func MovieLocation(id string) Location {
	return Location{Path: pathMovie + url.PathEscape(id), Query: url.Values{}}
}

// ParseLocation accepts "gokino:///movies?...", "/movies?..." or "movies?..."
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{Path: PathMovies, Query: url.Values{}}, nil
	}
	if !strings.Contains(raw, "://") && !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, errors.Wrapf(err, "invalid location %q", raw)
	}
	if u.Scheme != "" && u.Scheme != Scheme {
		return Location{}, errors.Errorf("unsupported scheme %q", u.Scheme)
	}

	path := u.Path
	// gokino://movies?... puts the first segment in the host
	if u.Host != "" {
		path = "/" + u.Host + path
	}
	if path == "" || path == "/" {
		path = PathMovies
	}
	return Location{Path: path, Query: u.Query()}, nil
}

// Route returns the screen of the location
func (l Location) Route() Route {
	return RouteOf(l.Path)
}

// MovieID returns the id of a movie location
func (l Location) MovieID() (string, bool) {
	if l.Route() != RouteMovie {
		return "", false
	}
	id, err := url.PathUnescape(l.Path[len(pathMovie):])
	if err != nil {
		return "", false
	}
	return id, true
}

// State decodes the location's query with the rules of its screen
func (l Location) State() State {
	return DecodeFor(l.Path, l.Query)
}

// String renders path and query
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Shareable renders the location with the gokino scheme
func (l Location) Shareable() string {
	return Scheme + "://" + l.String()
}

// History is a navigation stack with forward entries, like a browser's
type History struct {
	mu      sync.RWMutex
	entries []Location
	index   int
}

// NewHistory starts a history at start
func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

// Push adds loc after the current entry and drops the forward entries
func (h *History) Push(loc Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], loc)
	h.index = len(h.entries) - 1
}

// Current returns the current entry
func (h *History) Current() Location {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[h.index]
}

// Back moves to the previous entry. It reports false at the first entry.
func (h *History) Back() (Location, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return h.entries[0], false
	}
	h.index--
	return h.entries[h.index], true
}

// Forward moves to the next entry. It reports false at the last entry.
func (h *History) Forward() (Location, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == len(h.entries)-1 {
		return h.entries[h.index], false
	}
	h.index++
	return h.entries[h.index], true
}

// Len returns the number of entries
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
