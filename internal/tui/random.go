package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/alvarorichard/gokino/internal/display"
	"github.com/alvarorichard/gokino/internal/fetcher"
	"github.com/alvarorichard/gokino/internal/urlstate"
	"github.com/alvarorichard/gokino/internal/util"
)

func (m *Model) updateRandom(msg tea.KeyMsg) tea.Cmd {
	if !m.gate.Authorized() {
		switch {
		case key.Matches(msg, m.keys.open):
			m.syncer.Navigate(urlstate.Location{Path: urlstate.PathLogin})
		case key.Matches(msg, m.keys.back):
			m.syncer.Back()
		case key.Matches(msg, m.keys.movies):
			m.syncer.Navigate(urlstate.MoviesLocation(urlstate.Default()))
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.open), msg.String() == " ":
		m.session.PickRandom(m.ctx, m.syncer.State().Filter)
	case key.Matches(msg, m.keys.country):
		return m.pick(urlstate.KeyCountry)
	case key.Matches(msg, m.keys.genre):
		return m.pick(urlstate.KeyGenre)
	case key.Matches(msg, m.keys.kind):
		return m.pick(urlstate.KeyType)
	case key.Matches(msg, m.keys.network):
		return m.pick(urlstate.KeyNetwork)
	case key.Matches(msg, m.keys.years):
		return m.editRange(urlstate.KeyYears)
	case key.Matches(msg, m.keys.kp):
		return m.editRange(urlstate.KeyKpRating)
	case msg.String() == "o":
		if movie := m.session.Random.Snapshot().Data; movie != nil {
			m.syncer.Navigate(urlstate.MovieLocation(fmt.Sprint(movie.ID)))
		}
	case key.Matches(msg, m.keys.movies):
		m.syncer.Navigate(urlstate.MoviesLocation(urlstate.Default()))
	case key.Matches(msg, m.keys.back):
		m.syncer.Back()
	}
	return nil
}

func (m *Model) viewRandom() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🎲 Случайный фильм"))
	b.WriteString("\n\n")

	if !m.gate.Authorized() {
		b.WriteString(subtleStyle.Render("Эта страница доступна только после входа. enter: войти"))
		return b.String()
	}

	b.WriteString(m.viewFilters(m.syncer.State().Filter, true))
	b.WriteString("\n\n")

	snap := m.session.Random.Snapshot()
	switch {
	case snap.Loading:
		b.WriteString(m.spinner.View() + " Подбираем фильм...")
	case snap.Status == fetcher.Idle:
		b.WriteString(subtleStyle.Render("enter: подобрать фильм"))
	case snap.Status == fetcher.Failed && snap.Data == nil:
		b.WriteString(subtleStyle.Render("Не удалось подобрать фильм. enter: ещё раз"))
	case snap.Data == nil:
		b.WriteString(subtleStyle.Render("Под эти фильтры ничего не нашлось"))
	default:
		movie := snap.Data
		title := movie.DisplayName()
		if movie.Year > 0 {
			title += fmt.Sprintf(" (%d)", movie.Year)
		}
		b.WriteString(selectedStyle.Render(title) + "\n")
		b.WriteString(wrap(display.CardDescription(&movie.Movie), m.width) + "\n")
		b.WriteString(filterLine("Кинопоиск", display.FormatRating(movie.Rating.KP)) + "\n")
		b.WriteString(subtleStyle.Render("o: открыть, enter: другой фильм"))
	}
	return b.String()
}

// startLogin shows the credential form
func (m *Model) startLogin() tea.Cmd {
	m.loginUser, m.loginPass = "", ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Логин").
				Value(&m.loginUser),
			huh.NewInput().
				Title("Пароль").
				EchoMode(huh.EchoModePassword).
				Value(&m.loginPass),
		),
	).WithShowHelp(false)
	form.SubmitCmd = func() tea.Msg { return loginDoneMsg{} }
	form.CancelCmd = func() tea.Msg { return loginCancelMsg{} }
	m.login = form
	return form.Init()
}

func (m *Model) updateLogin(msg tea.Msg) tea.Cmd {
	model, cmd := m.login.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.login = form
	}
	return cmd
}

// finishLogin checks the submitted credentials. A success continues to the random screen,
// a failure shows the form again.
func (m *Model) finishLogin() tea.Cmd {
	if err := m.gate.Login(strings.TrimSpace(m.loginUser), m.loginPass); err != nil {
		m.loginErr = err
		return m.startLogin()
	}
	util.Debug("logged in")
	m.login = nil
	m.loginErr = nil
	m.syncer.Navigate(urlstate.Location{Path: urlstate.PathRandom})
	return nil
}

func (m *Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🔑 Вход"))
	b.WriteString("\n\n")
	if m.loginErr != nil {
		b.WriteString(noticeStyle.Render(m.loginErr.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.login.View())
	return b.String()
}
