package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alvarorichard/gokino/internal/display"
	"github.com/alvarorichard/gokino/internal/fetcher"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/urlstate"
)

func (m *Model) updateMovies(msg tea.KeyMsg) tea.Cmd {
	st := m.syncer.State()
	items := m.session.Movies.Items()

	switch {
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.open):
		if m.cursor < len(items) {
			m.syncer.Navigate(urlstate.MovieLocation(strconv.Itoa(items[m.cursor].ID)))
		}
	case key.Matches(msg, m.keys.nextPage):
		if st.Page.No < m.session.Movies.PagesCount() {
			m.syncer.SetPage(query.PageSpec{No: st.Page.No + 1, Size: st.Page.Size})
		}
	case key.Matches(msg, m.keys.prevPage):
		if st.Page.No > 1 {
			m.syncer.SetPage(query.PageSpec{No: st.Page.No - 1, Size: st.Page.Size})
		}
	case key.Matches(msg, m.keys.pageSize):
		m.syncer.SetPage(query.PageSpec{No: 1, Size: nextPageSize(st.Page.Size)})
	case key.Matches(msg, m.keys.mode):
		if st.Filter.Mode == query.ModeByName {
			m.syncer.SetMode(query.ModeByFilters)
		} else {
			m.syncer.SetMode(query.ModeByName)
		}
	case key.Matches(msg, m.keys.search):
		if st.Filter.Mode != query.ModeByName {
			m.syncer.SetMode(query.ModeByName)
		}
		m.search.CursorEnd()
		return m.search.Focus()
	case key.Matches(msg, m.keys.country):
		if st.Filter.Mode == query.ModeByFilters {
			return m.pick(urlstate.KeyCountry)
		}
	case key.Matches(msg, m.keys.age):
		if st.Filter.Mode == query.ModeByFilters {
			return m.pick(urlstate.KeyAgeRating)
		}
	case key.Matches(msg, m.keys.years):
		if st.Filter.Mode == query.ModeByFilters {
			return m.editRange(urlstate.KeyYears)
		}
	case key.Matches(msg, m.keys.random):
		m.syncer.Navigate(urlstate.Location{Path: urlstate.PathRandom})
	case key.Matches(msg, m.keys.back):
		m.syncer.Back()
	}
	return nil
}

func nextPageSize(size int) int {
	for i, opt := range query.PageSizeOptions {
		if opt == size && i+1 < len(query.PageSizeOptions) {
			return query.PageSizeOptions[i+1]
		}
	}
	return query.PageSizeOptions[0]
}

func (m *Model) viewMovies() string {
	st := m.syncer.State()
	snap := m.session.Movies.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎬 Фильмы"))
	b.WriteString("  ")
	if st.Filter.Mode == query.ModeByName {
		b.WriteString(subtleStyle.Render("[поиск по названию]"))
		b.WriteString("\n\n")
		b.WriteString(m.search.View())
	} else {
		b.WriteString(subtleStyle.Render("[поиск по фильтрам]"))
		b.WriteString("\n\n")
		b.WriteString(m.viewFilters(st.Filter, false))
	}
	b.WriteString("\n\n")

	switch {
	case snap.Loading:
		b.WriteString(m.spinner.View() + " Загрузка...\n")
	case snap.Status == fetcher.Failed && !snap.HasData:
		b.WriteString(subtleStyle.Render("Не удалось загрузить фильмы. ctrl+r: повторить") + "\n")
	case snap.Status == fetcher.Success && len(m.session.Movies.Items()) == 0:
		b.WriteString(subtleStyle.Render("Ничего не найдено") + "\n")
	}

	for i, movie := range m.session.Movies.Items() {
		line := movie.DisplayName()
		if movie.Year > 0 {
			line += fmt.Sprintf(" (%d)", movie.Year)
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
		if i == m.cursor {
			desc := display.CardDescription(&movie)
			b.WriteString(subtleStyle.Width(max(m.width-4, 20)).Render("    " + desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(pagerView(st.Page, m.session.Movies.PagesCount()))
	return b.String()
}

// viewFilters summarises the filters. The random screen shows every filter, the list only its own.
func (m *Model) viewFilters(f query.FilterSpec, random bool) string {
	if m.rangeIn.Focused() {
		label := "Годы"
		if m.rangeKey == urlstate.KeyKpRating {
			label = "Рейтинг КП"
		}
		return labelStyle.Render(label+": ") + m.rangeIn.View()
	}

	lines := []string{
		filterLine("Годы (y)", query.NormalizeYears(f.Years).String()),
		filterLine("Страны (c)", joinOrAll(query.Values(f.Countries))),
	}
	if random {
		lines = append(lines,
			filterLine("Жанры (g)", joinOrAll(query.Values(f.Genres))),
			filterLine("Тип (t)", joinOrAll(query.Values(f.Types))),
			filterLine("Сеть (w)", joinOrAll(query.Values(f.Networks))),
			filterLine("Рейтинг КП (K)", query.NormalizeKpRating(f.KpRating).String()),
		)
	} else {
		lines = append(lines, filterLine("Возрастной рейтинг (a)", joinOrAll(query.Values(f.AgeRatings))))
	}
	return strings.Join(lines, "\n")
}

func filterLine(label, value string) string {
	return labelStyle.Render(label+": ") + value
}

func joinOrAll(values []string) string {
	if len(values) == 0 {
		return subtleStyle.Render("все")
	}
	return strings.Join(values, ", ")
}

func pagerView(page query.PageSpec, pages int) string {
	p := paginator.New()
	p.Type = paginator.Arabic
	p.ArabicFormat = "стр. %d из %d"
	p.TotalPages = max(pages, 1)
	p.Page = min(max(page.No, 1), p.TotalPages) - 1
	return p.View() + subtleStyle.Render(fmt.Sprintf("  · по %d (s)", page.Size))
}
