package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/pkg/errors"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/display"
	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/refcache"
	"github.com/alvarorichard/gokino/internal/util"
)

// wait shows a spinner while action runs
var wait = func(title string, action func()) {
	_ = spinner.New().
		Title(title).
		Type(spinner.Dots).
		Action(action).
		Run()
}

// choose lets the user pick one of the movies
var choose = func(movies []models.Movie) (int, error) {
	return fuzzyfinder.Find(
		movies,
		func(i int) string {
			return fmt.Sprintf("%s (%d)", movies[i].DisplayName(), movies[i].Year)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			return display.CardDescription(&movies[i])
		}),
	)
}

type filterFlags struct {
	years, kp                                string
	countries, genres, types, networks, ages string
	page, size                               int
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (f filterFlags) spec() query.FilterSpec {
	spec := query.NewFilterSpec()
	if f.years != "" {
		spec.Years = query.ParseYears(f.years)
	}
	if f.kp != "" {
		spec.KpRating = query.ParseKpRating(f.kp)
	}
	spec.Countries = query.Selection(splitList(f.countries)...)
	spec.Genres = query.Selection(splitList(f.genres)...)
	spec.Types = query.Selection(splitList(f.types)...)
	spec.Networks = query.Selection(splitList(f.networks)...)
	spec.AgeRatings = query.Selection(splitList(f.ages)...)
	return spec
}

func (f filterFlags) pageSpec() query.PageSpec {
	return query.PageSpec{No: f.page, Size: f.size}.Normalize()
}

type cli struct {
	client *api.Client
	out    io.Writer
	pick   bool
}

// search runs a name search when text is given, a filtered listing otherwise
func (c *cli) search(ctx context.Context, text string, f query.FilterSpec, p query.PageSpec) error {
	if strings.TrimSpace(text) != "" {
		f.Mode = query.ModeByName
		f.Text = text
	}

	var page *models.Page[models.Movie]
	var err error
	wait("Searching movies...", func() {
		page, err = c.client.Movies(ctx, f, p)
	})
	if err != nil {
		return err
	}
	if len(page.Docs) == 0 {
		fmt.Fprintln(c.out, util.Warning("nothing found"))
		return nil
	}

	if c.pick {
		idx, err := choose(page.Docs)
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to select movie")
		}
		return c.movie(ctx, strconv.Itoa(page.Docs[idx].ID))
	}

	for _, movie := range page.Docs {
		fmt.Fprintf(c.out, "%8d  %s", movie.ID, movie.DisplayName())
		if movie.Year > 0 {
			fmt.Fprintf(c.out, " (%d)", movie.Year)
		}
		fmt.Fprintf(c.out, "\n          %s\n", display.CardDescription(&movie))
	}
	fmt.Fprintf(c.out, "\npage %d of %d, %d per page\n", max(page.Page, p.No), max(page.Pages, 1), p.Size)
	return nil
}

func (c *cli) random(ctx context.Context, f query.FilterSpec) error {
	var movie *models.MovieDetail
	var err error
	wait("Picking a random movie...", func() {
		movie, err = c.client.Random(ctx, f)
	})
	if err != nil {
		return err
	}
	if movie == nil {
		fmt.Fprintln(c.out, util.Warning("no movie matches these filters"))
		return nil
	}
	c.printHeader(movie)
	return nil
}

// allValues is the values argument listing every category
const allValues = "all"

func (c *cli) values(ctx context.Context, name string) error {
	if name == allValues {
		return c.allValues(ctx)
	}
	category := query.Category(name)
	if !category.Valid() {
		return errors.Wrapf(api.ErrUnknownCategory, "%q", name)
	}
	var entries []models.ReferenceEntry
	var err error
	wait("Loading "+name+"...", func() {
		entries, err = c.client.PossibleValues(ctx, category)
	})
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintln(c.out, e.Name)
	}
	return nil
}

// allValues loads every reference list at once. A failed category is reported under its
// own heading and does not hide the others.
func (c *cli) allValues(ctx context.Context) error {
	refs := refcache.New(c.client)
	var failures map[query.Category]error
	wait("Loading reference lists...", func() {
		failures = refs.Prefetch(ctx)
	})
	for _, category := range query.Categories {
		c.section(string(category), failures[category], func() {
			for _, name := range refs.Names(category) {
				fmt.Fprintln(c.out, name)
			}
		})
	}
	if len(failures) == len(query.Categories) {
		return errors.New("no reference list could be loaded")
	}
	return nil
}

// movie fetches the detail and its sections in parallel. A failed section is reported on
// its own and does not hide the others.
func (c *cli) movie(ctx context.Context, id string) error {
	var (
		detail    *models.MovieDetail
		images    *models.Page[models.MovieImage]
		seasons   []models.MovieSeason
		actors    *models.Page[models.MovieActor]
		comments  *models.Page[models.MovieComment]
		detailErr error
		errs      [4]error
	)
	page := query.DefaultPage()

	wait("Loading movie...", func() {
		util.ParallelExecute(0,
			func() { detail, detailErr = c.client.MovieByID(ctx, id) },
			func() { images, errs[0] = c.client.Images(ctx, id) },
			func() { seasons, errs[1] = c.client.Seasons(ctx, id) },
			func() { actors, errs[2] = c.client.Actors(ctx, id, page) },
			func() { comments, errs[3] = c.client.Comments(ctx, id, page) },
		)
	})
	if detailErr != nil {
		return detailErr
	}

	c.printHeader(detail)
	desc := display.HTMLToText(detail.Description)
	if desc == "" {
		desc = display.NoDescription
	}
	fmt.Fprintf(c.out, "\n%s\n", desc)

	c.section("Images", errs[0], func() {
		for _, u := range models.ImageURLs(images) {
			fmt.Fprintln(c.out, "  "+u)
		}
	})
	c.section("Seasons", errs[1], func() {
		for _, s := range seasons {
			fmt.Fprintf(c.out, "  Season %d\n", s.Number)
			for _, ep := range s.Episodes {
				fmt.Fprintf(c.out, "    %2d. %s  %s\n", ep.Number, ep.Name, display.PrettifyDate(ep.AirDate, false))
			}
		}
	})
	c.section("Actors", errs[2], func() {
		for _, a := range actors.Docs {
			fmt.Fprintln(c.out, "  "+a.Name)
		}
	})
	c.section("Reviews", errs[3], func() {
		now := time.Now()
		for _, r := range comments.Docs {
			fmt.Fprintf(c.out, "  %s %s, %s\n", display.SentimentOf(r.Type).Icon(), r.Author, display.RelativeDate(r.Date, now))
			if t := display.HTMLToText(r.Title); t != "" {
				fmt.Fprintln(c.out, "  "+t)
			}
		}
	})
	return nil
}

func (c *cli) section(title string, err error, body func()) {
	fmt.Fprintf(c.out, "\n%s\n", title)
	if err != nil {
		fmt.Fprintln(c.out, util.Warning(err.Error()))
		return
	}
	body()
}

func (c *cli) printHeader(m *models.MovieDetail) {
	fmt.Fprintf(c.out, "%s", m.DisplayName())
	if m.Year > 0 {
		fmt.Fprintf(c.out, " (%d)", m.Year)
	}
	fmt.Fprintf(c.out, "  #%d\n", m.ID)
	if names := display.Names(m.Genres); names != "" {
		fmt.Fprintln(c.out, names)
	}
	for _, r := range display.Ratings(m.Rating) {
		fmt.Fprintf(c.out, "%s: %s\n", r.Label, r.Value)
	}
	fmt.Fprintf(c.out, "Poster: %s\n", display.PosterURL(m.Poster))
}
