package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/pkg/errors"

	"github.com/alvarorichard/gokino/internal/display"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/urlstate"
)

// pickerCmd runs a fuzzy multi-select while bubbletea has released the terminal.
// The finder draws on its own screen, so the std streams are ignored.
type pickerCmd struct {
	title   string
	options []display.Option
	picked  []string
}

func (c *pickerCmd) SetStdin(io.Reader)  {}
func (c *pickerCmd) SetStdout(io.Writer) {}
func (c *pickerCmd) SetStderr(io.Writer) {}

func (c *pickerCmd) Run() error {
	idx, err := fuzzyfinder.FindMulti(
		c.options,
		func(i int) string {
			if c.options[i].Value == query.AllValue {
				return c.options[i].Title
			}
			return "  " + c.options[i].Title
		},
		fuzzyfinder.WithHeader(c.title+"  (tab: отметить, enter: готово)"),
	)
	if err != nil {
		return err
	}
	c.picked = c.picked[:0]
	for _, i := range idx {
		c.picked = append(c.picked, c.options[i].Value)
	}
	return nil
}

// pick opens the finder for a multi-select key. Reference lists that are not loaded yet
// only offer "all".
func (m *Model) pick(k string) tea.Cmd {
	var tree []display.Option
	var title string
	switch k {
	case urlstate.KeyAgeRating:
		title, tree = "Возрастной рейтинг", display.AgeRatingTree()
	case urlstate.KeyNetwork:
		title, tree = "Сеть", display.NetworkTree()
	default:
		category, ok := categoryOfKey(k)
		if !ok {
			return nil
		}
		entries := m.session.References[category].Snapshot().Data
		title, tree = categoryTitle(category), display.ReferenceTree(entries)
	}

	c := &pickerCmd{title: title, options: display.Flatten(tree)}
	return tea.Exec(c, func(err error) tea.Msg {
		return pickedMsg{key: k, values: c.picked, err: err}
	})
}

func (m *Model) handlePicked(msg pickedMsg) tea.Cmd {
	if errors.Is(msg.err, fuzzyfinder.ErrAbort) {
		return nil
	}
	if msg.err != nil {
		return m.showNotice("не удалось открыть список: " + msg.err.Error())
	}
	if err := m.syncer.SetSelection(msg.key, display.Resolve(msg.values)); err != nil {
		return m.showNotice(err.Error())
	}
	return nil
}

func categoryOfKey(k string) (query.Category, bool) {
	switch k {
	case urlstate.KeyCountry:
		return query.Countries, true
	case urlstate.KeyGenre:
		return query.Genres, true
	case urlstate.KeyType:
		return query.Types, true
	case urlstate.KeyNetwork:
		return query.Networks, true
	}
	return "", false
}

func categoryTitle(c query.Category) string {
	switch c {
	case query.Countries:
		return "Страны"
	case query.Genres:
		return "Жанры"
	case query.Types:
		return "Тип"
	default:
		return "Сеть"
	}
}
