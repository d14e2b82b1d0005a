// Package tui is the interactive terminal front-end. Screens are chosen by the current
// location, edits go through the urlstate syncer and every result arrives from the
// fetcher session as a message.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"

	"github.com/alvarorichard/gokino/internal/auth"
	"github.com/alvarorichard/gokino/internal/fetcher"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/refcache"
	"github.com/alvarorichard/gokino/internal/urlstate"
	"github.com/alvarorichard/gokino/internal/util"
)

const noticeTTL = 4 * time.Second

// LogFile is where logs go while the TUI owns the terminal
var LogFile = filepath.Join(os.TempDir(), "gokino.log")

// Deps are the collaborators of the TUI
type Deps struct {
	Source       fetcher.Source
	Refs         *refcache.Cache
	Gate         *auth.Gate
	Start        urlstate.Location
	Debounce     time.Duration
	LoadingDelay time.Duration
	ClearOnError bool
}

type (
	eventMsg    fetcher.Event
	locationMsg urlstate.Location
	pickedMsg   struct {
		key    string
		values []string
		err    error
	}
	noticeExpiredMsg int
	loginDoneMsg     struct{}
	loginCancelMsg   struct{}
)

type section int

const (
	sectionActors section = iota
	sectionComments
)

// Model is the root bubbletea model
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *fetcher.Session
	history *urlstate.History
	syncer  *urlstate.Syncer
	gate    *auth.Gate

	send func(tea.Msg)

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	rangeIn  textinput.Model
	rangeKey string
	viewport viewport.Model

	login     *huh.Form
	loginUser string
	loginPass string
	loginErr  error

	cursor    int
	section   section
	notice    string
	noticeSeq int
	width     int
	height    int
}

// New builds the model. Nothing is fetched until the program starts.
func New(ctx context.Context, deps Deps) *Model {
	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:     ctx,
		cancel:  cancel,
		history: urlstate.NewHistory(deps.Start),
		gate:    deps.Gate,
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   100,
		height:  30,
	}
	if m.gate == nil {
		m.gate = auth.NewGate("", "")
	}
	m.session = fetcher.NewSession(deps.Source, deps.Refs, fetcher.SessionOptions{
		LoadingDelay: deps.LoadingDelay,
		ClearOnError: deps.ClearOnError,
		Notify:       func(e fetcher.Event) { m.post(eventMsg(e)) },
	})
	m.syncer = urlstate.NewSyncer(m.history, deps.Debounce, m.onLocation)

	m.search = textinput.New()
	m.search.Placeholder = "Название фильма"
	m.search.Prompt = "🔍 "
	m.search.SetValue(m.syncer.Draft())

	m.rangeIn = textinput.New()
	m.rangeIn.Prompt = "› "

	m.viewport = viewport.New(m.width, m.height-6)
	return m
}

// Run starts the program on the alternate screen and blocks until the user quits
func Run(ctx context.Context, deps Deps) error {
	if f, err := os.OpenFile(LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
		util.InitLoggerTo(f)
		defer func() {
			util.InitLogger()
			_ = f.Close()
		}()
	}

	m := New(ctx, deps)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.send = p.Send
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "terminal UI failed")
	}
	return nil
}

// Close stops pending work
func (m *Model) Close() {
	m.syncer.Close()
	m.session.Close()
	m.cancel()
}

// Location is the current location
func (m *Model) Location() urlstate.Location {
	return m.history.Current()
}

// post delivers msg to the program without blocking the caller, which may be Update itself
func (m *Model) post(msg tea.Msg) {
	if send := m.send; send != nil {
		go send(msg)
	}
}

func (m *Model) onLocation(loc urlstate.Location, st urlstate.State) {
	m.load(loc, st)
	m.post(locationMsg(loc))
}

// load starts the fetches the screen at loc needs
func (m *Model) load(loc urlstate.Location, st urlstate.State) {
	util.Debug("screen", "location", loc.String())
	switch loc.Route() {
	case urlstate.RouteMovies:
		m.session.LoadReferences(m.ctx)
		m.session.LoadMovies(m.ctx, st.Filter, st.Page)
	case urlstate.RouteMovie:
		if id, ok := loc.MovieID(); ok {
			m.session.OpenMovie(m.ctx, id)
		}
	case urlstate.RouteRandom:
		m.session.LoadReferences(m.ctx)
	}
}

func (m *Model) reload() {
	loc := m.history.Current()
	m.load(loc, loc.State())
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		m.reload()
		return locationMsg(m.history.Current())
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-8, 3)
		m.refreshMovieView()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		return m, m.handleEvent(fetcher.Event(msg))

	case locationMsg:
		if !m.search.Focused() {
			m.search.SetValue(m.syncer.Draft())
		}
		m.cursor = 0
		m.refreshMovieView()
		if urlstate.Location(msg).Route() == urlstate.RouteLogin && m.login == nil {
			return m, m.startLogin()
		}
		return m, nil

	case pickedMsg:
		return m, m.handlePicked(msg)

	case noticeExpiredMsg:
		if int(msg) == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case loginDoneMsg:
		return m, m.finishLogin()

	case loginCancelMsg:
		m.login = nil
		if !m.syncer.Back() {
			m.syncer.Navigate(urlstate.MoviesLocation(urlstate.Default()))
		}
		return m, nil
	}

	if m.login != nil {
		return m, m.updateLogin(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.rangeIn.Focused() {
		return m, m.updateRange(keyMsg)
	}
	if m.search.Focused() {
		return m, m.updateSearch(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.forward):
		m.syncer.Forward()
		return m, nil
	case key.Matches(keyMsg, m.keys.retry):
		m.retry()
		return m, nil
	case key.Matches(keyMsg, m.keys.logout):
		m.gate.Logout()
		return m, nil
	}

	switch m.Location().Route() {
	case urlstate.RouteMovies:
		return m, m.updateMovies(keyMsg)
	case urlstate.RouteMovie:
		return m, m.updateMovie(keyMsg)
	case urlstate.RouteRandom:
		return m, m.updateRandom(keyMsg)
	default:
		if key.Matches(keyMsg, m.keys.back) {
			m.syncer.Back()
		} else if key.Matches(keyMsg, m.keys.movies) {
			m.syncer.Navigate(urlstate.MoviesLocation(urlstate.Default()))
		}
		return m, nil
	}
}

func (m *Model) handleEvent(e fetcher.Event) tea.Cmd {
	if e.Channel == fetcher.ChanMovie || e.Channel == fetcher.ChanImages || e.Channel == fetcher.ChanSeasons ||
		e.Channel == fetcher.ChanActors || e.Channel == fetcher.ChanComments {
		m.refreshMovieView()
	}
	if e.Status != fetcher.Failed || e.Err == nil {
		return nil
	}
	util.Warn("request failed", "channel", e.Channel, "error", e.Err)
	return m.showNotice(e.Err.Error())
}

func (m *Model) showNotice(text string) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.notice = text
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg(seq) })
}

// retry refetches every failed channel of the current screen
func (m *Model) retry() {
	s := m.session
	switch m.Location().Route() {
	case urlstate.RouteMovies:
		s.Movies.Retry(m.ctx)
		s.LoadReferences(m.ctx)
	case urlstate.RouteMovie:
		for _, failed := range []struct {
			status fetcher.Status
			retry  func(context.Context) bool
		}{
			{s.Movie.Snapshot().Status, s.Movie.Retry},
			{s.Images.Snapshot().Status, s.Images.Retry},
			{s.Seasons.Snapshot().Status, s.Seasons.Retry},
			{s.Actors.Snapshot().Status, s.Actors.Retry},
			{s.Comments.Snapshot().Status, s.Comments.Retry},
		} {
			if failed.status == fetcher.Failed {
				failed.retry(m.ctx)
			}
		}
	case urlstate.RouteRandom:
		s.LoadReferences(m.ctx)
	}
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.syncer.FlushText()
		return nil
	case tea.KeyEsc:
		m.search.Blur()
		return nil
	}
	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != prev {
		m.syncer.Type(v)
	}
	return cmd
}

// editRange opens the range input for the years or kp rating key
func (m *Model) editRange(k string) tea.Cmd {
	st := m.syncer.State()
	m.rangeKey = k
	if k == urlstate.KeyKpRating {
		m.rangeIn.Placeholder = query.DefaultKpRating().String()
		m.rangeIn.SetValue(query.NormalizeKpRating(st.Filter.KpRating).String())
	} else {
		m.rangeIn.Placeholder = query.DefaultYears().String()
		m.rangeIn.SetValue(query.NormalizeYears(st.Filter.Years).String())
	}
	m.rangeIn.CursorEnd()
	return m.rangeIn.Focus()
}

func (m *Model) updateRange(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.rangeIn.Blur()
		value := strings.TrimSpace(m.rangeIn.Value())
		if m.rangeKey == urlstate.KeyKpRating {
			m.syncer.SetKpRating(query.ParseKpRating(value))
		} else {
			m.syncer.SetYears(query.ParseYears(value))
		}
		return nil
	case tea.KeyEsc:
		m.rangeIn.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.rangeIn, cmd = m.rangeIn.Update(msg)
	return cmd
}

// View implements tea.Model
func (m *Model) View() string {
	var body string
	switch {
	case m.login != nil:
		body = m.viewLogin()
	default:
		switch m.Location().Route() {
		case urlstate.RouteMovies:
			body = m.viewMovies()
		case urlstate.RouteMovie:
			body = m.viewMovie()
		case urlstate.RouteRandom:
			body = m.viewRandom()
		default:
			body = titleStyle.Render("404") + "\n\n" + subtleStyle.Render("Такой страницы нет. f: к фильмам, [: назад")
		}
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(locationStyle.Render(m.Location().Shareable()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
