// Package display reshapes API records for the terminal: HTML to text, dates,
// posters, ratings and the filter option trees.
package display

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"

	"github.com/alvarorichard/gokino/internal/models"
)

const (
	// NoDescription is shown for cards without any description
	NoDescription = "Описание картины отсутствует"
	// NoPoster stands in for a missing poster URL
	NoPoster = "no-poster.jpg"
	// NoValue marks a missing rating or date
	NoValue = "—"
)

// HTMLToText strips markup from review and description bodies. Line breaks and
// paragraphs become newlines, runs of blank lines collapse to one.
func HTMLToText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.TrimSpace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PrettifyDate renders an API timestamp as "02.01.2006", with the time when withTime is set.
// Unparseable input is returned unchanged, empty input renders as NoValue.
func PrettifyDate(raw string, withTime bool) string {
	if strings.TrimSpace(raw) == "" {
		return NoValue
	}
	t, ok := parseDate(raw)
	if !ok {
		return raw
	}
	if withTime {
		return t.Format("02.01.2006 15:04")
	}
	return t.Format("02.01.2006")
}

// RelativeDate renders an API timestamp relative to now, e.g. "3 years ago"
func RelativeDate(raw string, now time.Time) string {
	t, ok := parseDate(raw)
	if !ok {
		return PrettifyDate(raw, false)
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// CardDescription picks the short description, then the full one, then NoDescription
func CardDescription(m *models.Movie) string {
	if s := HTMLToText(m.ShortDescription); s != "" {
		return s
	}
	if s := HTMLToText(m.Description); s != "" {
		return s
	}
	return NoDescription
}

// PosterURL returns the poster, its preview, or NoPoster
func PosterURL(img *models.Image) string {
	switch {
	case img == nil:
		return NoPoster
	case img.URL != "":
		return img.URL
	case img.PreviewURL != "":
		return img.PreviewURL
	default:
		return NoPoster
	}
}

// RatingLine is one labelled rating
type RatingLine struct {
	Label string
	Value string
}

// Ratings lists the ratings shown on the movie page. Missing values render as NoValue.
func Ratings(r models.Rating) []RatingLine {
	return []RatingLine{
		{Label: "IMDB", Value: FormatRating(r.IMDB)},
		{Label: "Кинопоиск", Value: FormatRating(r.KP)},
		{Label: "Российские критики", Value: FormatRating(r.RussianFilmCritics)},
		{Label: "Зарубежные критики", Value: FormatRating(r.FilmCritics)},
	}
}

// FormatRating renders a rating rounded to two decimals, NoValue when unrated
func FormatRating(v float64) string {
	if v == 0 {
		return NoValue
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// Names joins the names of countries or genres
func Names(items []models.Named) string {
	names := make([]string, 0, len(items))
	for _, n := range items {
		if n.Name != "" {
			names = append(names, n.Name)
		}
	}
	return strings.Join(names, ", ")
}

// Sentiment is the tone of a review
type Sentiment int

const (
	Negative Sentiment = iota
	Neutral
	Positive
)

// SentimentOf maps the review type. Anything that is not positive or neutral counts as negative.
func SentimentOf(reviewType string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(reviewType)) {
	case "позитивный":
		return Positive
	case "нейтральный":
		return Neutral
	default:
		return Negative
	}
}

// Icon is the glyph shown next to a review
func (s Sentiment) Icon() string {
	switch s {
	case Positive:
		return "☺"
	case Neutral:
		return "😐"
	default:
		return "☹"
	}
}
