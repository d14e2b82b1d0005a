package urlstate

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/util"
)

// ErrUnknownKey rejects a multi-select key that is not a filter
var ErrUnknownKey = errors.New("unknown filter key")

// Syncer applies user edits to the current location. Each edit rewrites the location
// first and only then calls the change listener, so a refetch always matches the address.
type Syncer struct {
	history  *History
	onChange func(Location, State)
	text     *Debouncer[string]

	mu    sync.Mutex
	state State
	// epoch counts navigations; typed is the epoch the draft text belongs to
	epoch uint64
	typed uint64
}

// NewSyncer starts from the current entry of history. onChange runs after every committed edit
// and may be nil.
func NewSyncer(history *History, debounce time.Duration, onChange func(Location, State)) *Syncer {
	s := &Syncer{
		history:  history,
		onChange: onChange,
	}
	cur := history.Current()
	s.state = cur.State()
	s.text = NewDebouncer(debounce, s.commitText)
	s.text.Cancel(s.state.Filter.Text)
	return s
}

// State returns a copy of the committed state
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Location returns the current location
func (s *Syncer) Location() Location {
	return s.history.Current()
}

// Draft returns the text as typed, which may not be committed yet
func (s *Syncer) Draft() string {
	return s.text.Draft()
}

// Type records a keystroke. The text is committed after the quiet period.
func (s *Syncer) Type(text string) {
	s.mu.Lock()
	s.typed = s.epoch
	s.mu.Unlock()
	s.text.Push(text)
}

// FlushText commits typed text without waiting
func (s *Syncer) FlushText() bool {
	return s.text.Flush()
}

// commitText drops text typed before the latest navigation
func (s *Syncer) commitText(text string) {
	s.update(func() bool { return s.typed == s.epoch }, func(st *State) { st.Filter.Text = text })
}

// SetSelection replaces the values of a multi-select. "all" is dropped.
func (s *Syncer) SetSelection(key string, values []string) error {
	set := query.Selection(values...)
	var mutate func(*State)
	switch key {
	case KeyCountry:
		mutate = func(st *State) { st.Filter.Countries = set }
	case KeyAgeRating:
		mutate = func(st *State) { st.Filter.AgeRatings = set }
	case KeyGenre:
		mutate = func(st *State) { st.Filter.Genres = set }
	case KeyType:
		mutate = func(st *State) { st.Filter.Types = set }
	case KeyNetwork:
		mutate = func(st *State) { st.Filter.Networks = set }
	default:
		return errors.Wrapf(ErrUnknownKey, "%q", key)
	}
	s.apply(mutate)
	return nil
}

// SetYears sets the release year range
func (s *Syncer) SetYears(r query.YearRange) {
	s.apply(func(st *State) { st.Filter.Years = r })
}

// SetKpRating sets the rating range
func (s *Syncer) SetKpRating(r query.RatingRange) {
	s.apply(func(st *State) { st.Filter.KpRating = r })
}

// SetMode switches between filters and name search. Fields the new mode does not use are
// cleared, in memory and in the location. Leaving name search also clears the typed text.
func (s *Syncer) SetMode(m query.Mode) {
	if m != query.ModeByName {
		s.text.Cancel("")
	}
	s.apply(func(st *State) {
		st.Filter.Mode = m
		if m != query.ModeByName {
			st.Filter.Text = ""
		}
	})
}

// SetPage sets page number and size
func (s *Syncer) SetPage(p query.PageSpec) {
	s.apply(func(st *State) { st.Page = p })
}

// Navigate moves to loc, pushing it on the history. A pending text commit is dropped.
func (s *Syncer) Navigate(loc Location) {
	s.move(func() (Location, bool) {
		s.history.Push(loc)
		return loc, true
	})
}

// Back goes to the previous location
func (s *Syncer) Back() bool {
	return s.move(s.history.Back)
}

// Forward goes to the next location
func (s *Syncer) Forward() bool {
	return s.move(s.history.Forward)
}

// Close stops a pending text commit
func (s *Syncer) Close() {
	s.text.Cancel(s.text.Draft())
}

// move changes the history entry with step and loads the state of the new location.
// Edits and text commits are held off until the new state is in place.
func (s *Syncer) move(step func() (Location, bool)) bool {
	s.mu.Lock()
	loc, ok := step()
	if !ok {
		s.mu.Unlock()
		return false
	}
	st := loc.State()
	s.text.Cancel(st.Filter.Text)
	s.epoch++
	s.state = st
	s.mu.Unlock()

	s.notify(loc, st.Clone())
	return true
}

func (s *Syncer) apply(mutate func(*State)) {
	s.update(nil, mutate)
}

// update applies mutate when guard, run under s.mu, allows it
func (s *Syncer) update(guard func() bool, mutate func(*State)) {
	s.mu.Lock()
	if guard != nil && !guard() {
		s.mu.Unlock()
		util.Debug("edit dropped after navigation")
		return
	}
	path := s.history.Current().Path
	next := s.state.Clone()
	mutate(&next)
	next = CanonicalFor(path, next)
	if Equal(next, s.state) {
		s.mu.Unlock()
		return
	}
	s.state = next
	loc := Location{Path: path, Query: EncodeFor(path, next)}
	s.history.Push(loc)
	s.mu.Unlock()

	util.Debug("location updated", "location", loc.String())
	s.notify(loc, next.Clone())
}

func (s *Syncer) notify(loc Location, st State) {
	if s.onChange != nil {
		s.onChange(loc, st)
	}
}
