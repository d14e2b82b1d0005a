package fetcher

import (
	"context"
	"time"

	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/refcache"
)

// Source is the remote API as seen by the channels
type Source interface {
	Movies(ctx context.Context, f query.FilterSpec, p query.PageSpec) (*models.Page[models.Movie], error)
	MovieByID(ctx context.Context, id string) (*models.MovieDetail, error)
	Images(ctx context.Context, movieID string) (*models.Page[models.MovieImage], error)
	Comments(ctx context.Context, movieID string, p query.PageSpec) (*models.Page[models.MovieComment], error)
	Actors(ctx context.Context, movieID string, p query.PageSpec) (*models.Page[models.MovieActor], error)
	Seasons(ctx context.Context, movieID string) ([]models.MovieSeason, error)
	Random(ctx context.Context, f query.FilterSpec) (*models.MovieDetail, error)
}

// Channel names used in events
const (
	ChanMovies   = "movies"
	ChanMovie    = "movie"
	ChanImages   = "images"
	ChanComments = "comments"
	ChanActors   = "actors"
	ChanSeasons  = "seasons"
	ChanRandom   = "random"
)

// Event reports a state change of one channel
type Event struct {
	Channel string
	Status  Status
	Loading bool
	Err     error
	Seq     uint64
}

// SessionOptions configures every channel of a session
type SessionOptions struct {
	LoadingDelay time.Duration
	ClearOnError bool
	// Notify receives every event. It must not block.
	Notify func(Event)
}

// Session groups the channels of the application. Channels share no mutable state:
// a failure in one never touches another.
type Session struct {
	Movies     *Paged[query.FilterSpec, models.Movie]
	Movie      *Channel[string, *models.MovieDetail]
	Images     *Channel[string, []string]
	Comments   *Paged[string, models.MovieComment]
	Actors     *Paged[string, models.MovieActor]
	Seasons    *Channel[string, []models.MovieSeason]
	Random     *Channel[query.FilterSpec, *models.MovieDetail]
	References map[query.Category]*Channel[query.Category, []models.ReferenceEntry]

	unsubs []func()
}

// NewSession wires channels to src. refs backs the reference channels and may be shared between sessions.
func NewSession(src Source, refs *refcache.Cache, opts SessionOptions) *Session {
	s := &Session{
		References: make(map[query.Category]*Channel[query.Category, []models.ReferenceEntry]),
	}

	s.Movies = NewPaged(src.Movies, Options[PageQuery[query.FilterSpec]]{
		Name:         ChanMovies,
		LoadingDelay: opts.LoadingDelay,
		ClearOnError: opts.ClearOnError,
		Identity: func(in PageQuery[query.FilterSpec]) any {
			return query.Movies(in.Key, in.Page)
		},
	})
	s.Movie = NewChannel(src.MovieByID, Options[string]{
		Name: ChanMovie, LoadingDelay: opts.LoadingDelay, ClearOnError: opts.ClearOnError,
	})
	s.Images = NewChannel(func(ctx context.Context, id string) ([]string, error) {
		page, err := src.Images(ctx, id)
		if err != nil {
			return nil, err
		}
		return models.ImageURLs(page), nil
	}, Options[string]{Name: ChanImages, LoadingDelay: opts.LoadingDelay, ClearOnError: opts.ClearOnError})
	s.Comments = NewPaged(src.Comments, Options[PageQuery[string]]{
		Name: ChanComments, LoadingDelay: opts.LoadingDelay, ClearOnError: opts.ClearOnError,
	})
	s.Actors = NewPaged(src.Actors, Options[PageQuery[string]]{
		Name: ChanActors, LoadingDelay: opts.LoadingDelay, ClearOnError: opts.ClearOnError,
	})
	s.Seasons = NewChannel(src.Seasons, Options[string]{
		Name: ChanSeasons, LoadingDelay: opts.LoadingDelay, ClearOnError: opts.ClearOnError,
	})
	s.Random = NewChannel(src.Random, Options[query.FilterSpec]{
		Name:         ChanRandom,
		LoadingDelay: opts.LoadingDelay,
		ClearOnError: opts.ClearOnError,
		Identity:     func(f query.FilterSpec) any { return query.Random(f) },
	})

	for _, category := range query.Categories {
		s.References[category] = NewChannel(refs.Get, Options[query.Category]{
			Name:         string(category),
			LoadingDelay: opts.LoadingDelay,
		})
	}

	if opts.Notify != nil {
		s.watch(s.Movies.Channel, opts.Notify)
		s.watch(s.Movie, opts.Notify)
		s.watch(s.Images, opts.Notify)
		s.watch(s.Comments.Channel, opts.Notify)
		s.watch(s.Actors.Channel, opts.Notify)
		s.watch(s.Seasons, opts.Notify)
		s.watch(s.Random, opts.Notify)
		for _, ch := range s.References {
			s.watch(ch, opts.Notify)
		}
	}
	return s
}

// watcher lets the session subscribe to channels of any type
type watcher interface {
	subscribeEvents(func(Event)) func()
}

func (c *Channel[In, Out]) subscribeEvents(notify func(Event)) func() {
	name := c.opts.Name
	return c.Subscribe(func(snap Snapshot[Out]) {
		notify(Event{Channel: name, Status: snap.Status, Loading: snap.Loading, Err: snap.Err, Seq: snap.Seq})
	})
}

func (s *Session) watch(ch watcher, notify func(Event)) {
	s.unsubs = append(s.unsubs, ch.subscribeEvents(notify))
}

// LoadMovies fetches the movie list for f at page
func (s *Session) LoadMovies(ctx context.Context, f query.FilterSpec, page query.PageSpec) bool {
	return s.Movies.Load(ctx, f.Clone(), page)
}

// OpenMovie loads the detail page of a movie. Every channel is triggered independently.
// Opening a different movie first drops what the channels hold for the previous one.
func (s *Session) OpenMovie(ctx context.Context, id string) {
	if prev, ok := s.Movie.Last(); ok && prev != id {
		s.CloseMovie()
	}
	s.Movie.Trigger(ctx, id)
	s.Images.Trigger(ctx, id)
	s.Seasons.Trigger(ctx, id)
	s.Comments.Open(ctx, id)
	s.Actors.Open(ctx, id)
}

// CloseMovie returns the detail channels to Idle
func (s *Session) CloseMovie() {
	s.Movie.Reset()
	s.Images.Reset()
	s.Seasons.Reset()
	s.Comments.Reset()
	s.Actors.Reset()
}

// PickRandom always asks for a new pick, even with unchanged filters
func (s *Session) PickRandom(ctx context.Context, f query.FilterSpec) {
	s.Random.Refresh(ctx, f.Clone())
}

// LoadReferences triggers every reference channel. Cached categories settle without a request.
func (s *Session) LoadReferences(ctx context.Context) {
	for _, category := range query.Categories {
		ch := s.References[category]
		if ch.Snapshot().Status == Failed {
			ch.Refresh(ctx, category)
			continue
		}
		ch.Trigger(ctx, category)
	}
}

// Close detaches the event listener
func (s *Session) Close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}
