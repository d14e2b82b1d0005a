package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alvarorichard/gokino/internal/display"
	"github.com/alvarorichard/gokino/internal/fetcher"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/urlstate"
)

const maxImages = 5

func (m *Model) updateMovie(msg tea.KeyMsg) tea.Cmd {
	paged := m.focusedPaged()
	switch {
	case key.Matches(msg, m.keys.back):
		m.syncer.Back()
		return nil
	case key.Matches(msg, m.keys.section):
		if m.section == sectionActors {
			m.section = sectionComments
		} else {
			m.section = sectionActors
		}
		m.refreshMovieView()
		return nil
	case key.Matches(msg, m.keys.nextPage):
		page := paged.Page()
		if page.No < paged.PagesCount() {
			paged.SetPageNo(m.ctx, page.No+1)
		}
		return nil
	case key.Matches(msg, m.keys.prevPage):
		if page := paged.Page(); page.No > 1 {
			paged.SetPageNo(m.ctx, page.No-1)
		}
		return nil
	case key.Matches(msg, m.keys.pageSize):
		paged.SetPageSize(m.ctx, nextPageSize(paged.Page().Size))
		return nil
	case key.Matches(msg, m.keys.random):
		m.syncer.Navigate(urlstate.Location{Path: urlstate.PathRandom})
		return nil
	case key.Matches(msg, m.keys.movies):
		m.syncer.Navigate(urlstate.MoviesLocation(urlstate.Default()))
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// pagedControls is what the actors and comments channels share for paging
type pagedControls interface {
	Page() query.PageSpec
	PagesCount() int
	SetPageNo(ctx context.Context, no int) bool
	SetPageSize(ctx context.Context, size int) bool
}

func (m *Model) focusedPaged() pagedControls {
	if m.section == sectionComments {
		return m.session.Comments
	}
	return m.session.Actors
}

func (m *Model) refreshMovieView() {
	if m.Location().Route() != urlstate.RouteMovie {
		return
	}
	m.viewport.SetContent(m.movieContent())
}

func (m *Model) viewMovie() string {
	snap := m.session.Movie.Snapshot()
	header := titleStyle.Render("🎞  Фильм")
	if snap.Loading {
		header += " " + m.spinner.View()
	}
	return header + "\n\n" + m.viewport.View()
}

func (m *Model) movieContent() string {
	s := m.session
	snap := s.Movie.Snapshot()
	var b strings.Builder

	switch {
	case snap.Status == fetcher.Failed && snap.Data == nil:
		b.WriteString(subtleStyle.Render("Фильм не загружен. ctrl+r: повторить"))
		return b.String()
	case snap.Data == nil:
		b.WriteString(subtleStyle.Render("Загрузка..."))
		return b.String()
	}

	movie := snap.Data
	title := movie.DisplayName()
	if movie.Year > 0 {
		title += fmt.Sprintf(" (%d)", movie.Year)
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	if movie.Slogan != "" {
		b.WriteString(subtleStyle.Render("«"+movie.Slogan+"»") + "\n")
	}
	if names := display.Names(movie.Genres); names != "" {
		b.WriteString(filterLine("Жанры", names) + "\n")
	}
	if names := display.Names(movie.Countries); names != "" {
		b.WriteString(filterLine("Страны", names) + "\n")
	}
	b.WriteString(filterLine("Постер", display.PosterURL(movie.Poster)) + "\n\n")

	for _, r := range display.Ratings(movie.Rating) {
		b.WriteString(filterLine(r.Label, r.Value) + "\n")
	}

	desc := display.HTMLToText(movie.Description)
	if desc == "" {
		desc = display.NoDescription
	}
	b.WriteString("\n" + wrap(desc, m.width) + "\n")

	b.WriteString("\n" + labelStyle.Render("Кадры") + "\n")
	b.WriteString(m.imagesContent())

	if seasons := s.Seasons.Snapshot(); len(seasons.Data) > 0 {
		b.WriteString("\n" + labelStyle.Render("Сезоны") + "\n")
		for _, season := range seasons.Data {
			b.WriteString(fmt.Sprintf("Сезон %d\n", season.Number))
			for _, ep := range season.Episodes {
				name := ep.Name
				if name == "" {
					name = ep.EnName
				}
				b.WriteString(fmt.Sprintf("  %2d. %s  %s\n", ep.Number, name,
					subtleStyle.Render(display.PrettifyDate(ep.AirDate, false))))
			}
		}
	}

	b.WriteString("\n" + m.actorsContent())
	b.WriteString("\n" + m.commentsContent())
	return b.String()
}

func (m *Model) imagesContent() string {
	snap := m.session.Images.Snapshot()
	switch {
	case snap.Status == fetcher.Failed:
		return subtleStyle.Render("не удалось загрузить кадры") + "\n"
	case len(snap.Data) == 0:
		return subtleStyle.Render("нет кадров") + "\n"
	}
	var b strings.Builder
	for i, u := range snap.Data {
		if i == maxImages {
			b.WriteString(subtleStyle.Render(fmt.Sprintf("и ещё %d", len(snap.Data)-maxImages)) + "\n")
			break
		}
		b.WriteString(u + "\n")
	}
	return b.String()
}

func (m *Model) actorsContent() string {
	s := m.session.Actors
	snap := s.Snapshot()
	var b strings.Builder
	switch {
	case snap.Status == fetcher.Failed:
		b.WriteString(subtleStyle.Render("не удалось загрузить актёров"))
	case snap.Status == fetcher.Success && len(s.Items()) == 0:
		b.WriteString(subtleStyle.Render("нет данных"))
	}
	for _, actor := range s.Items() {
		name := actor.Name
		if name == "" {
			name = actor.EnName
		}
		b.WriteString(name)
		if actor.Age > 0 {
			b.WriteString(subtleStyle.Render(fmt.Sprintf(", %d", actor.Age)))
		}
		b.WriteString("\n")
	}
	b.WriteString(pagerView(s.Page(), s.PagesCount()))
	return m.sectionBox("Актёры", snap.Loading, sectionActors, b.String())
}

func (m *Model) commentsContent() string {
	s := m.session.Comments
	snap := s.Snapshot()
	now := time.Now()
	var b strings.Builder
	switch {
	case snap.Status == fetcher.Failed:
		b.WriteString(subtleStyle.Render("не удалось загрузить отзывы"))
	case snap.Status == fetcher.Success && len(s.Items()) == 0:
		b.WriteString(subtleStyle.Render("отзывов пока нет"))
	}
	for _, c := range s.Items() {
		icon := display.SentimentOf(c.Type).Icon()
		b.WriteString(fmt.Sprintf("%s %s  %s\n", icon, labelStyle.Render(c.Author),
			subtleStyle.Render(display.RelativeDate(c.Date, now))))
		if t := display.HTMLToText(c.Title); t != "" {
			b.WriteString(t + "\n")
		}
		b.WriteString(wrap(display.HTMLToText(c.Review), m.width-4) + "\n\n")
	}
	b.WriteString(pagerView(s.Page(), s.PagesCount()))
	return m.sectionBox("Отзывы", snap.Loading, sectionComments, b.String())
}

func (m *Model) sectionBox(title string, loading bool, sec section, body string) string {
	if loading {
		title += " " + m.spinner.View()
	}
	style := sectionStyle
	if m.section == sec {
		style = focusedSectionStyle
	}
	return style.Width(max(m.width-4, 20)).Render(labelStyle.Render(title) + "\n" + body)
}

func wrap(s string, width int) string {
	return subtleStyle.Width(max(width, 20)).Render(s)
}
