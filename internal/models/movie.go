// Package models contains the kinopoisk.dev response records used across the application
package models

// Page is the paginated envelope every kinopoisk.dev list endpoint returns
type Page[T any] struct {
	Docs  []T `json:"docs"`
	Total int `json:"total"`
	Limit int `json:"limit"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// Image is a poster, backdrop or episode still
type Image struct {
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl"`
}

// Rating holds the ratings from every source kinopoisk aggregates
type Rating struct {
	KP                 float64 `json:"kp"`
	IMDB               float64 `json:"imdb"`
	TMDB               float64 `json:"tmdb"`
	FilmCritics        float64 `json:"filmCritics"`
	RussianFilmCritics float64 `json:"russianFilmCritics"`
	Await              float64 `json:"await"`
}

// Named is the {name} shape used for countries and genres inside a movie
type Named struct {
	Name string `json:"name"`
}

// Movie is a listing card. The listing endpoint only returns the projected fields,
// the search endpoint returns a few more.
type Movie struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	AlternativeName  string  `json:"alternativeName"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"shortDescription"`
	Year             int     `json:"year"`
	Type             string  `json:"type"`
	Rating           Rating  `json:"rating"`
	Poster           *Image  `json:"poster"`
	Countries        []Named `json:"countries"`
	Genres           []Named `json:"genres"`
}

// DisplayName returns the best available title
func (m *Movie) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.AlternativeName
}

// MovieDetail is the full record returned by the get-by-id and random endpoints
type MovieDetail struct {
	Movie
	EnName      string `json:"enName"`
	Slogan      string `json:"slogan"`
	AgeRating   int    `json:"ageRating"`
	RatingMpaa  string `json:"ratingMpaa"`
	MovieLength int    `json:"movieLength"`
	IsSeries    bool   `json:"isSeries"`
	Backdrop    *Image `json:"backdrop"`
}

// MovieImage is an entry of the image endpoint
type MovieImage struct {
	MovieID    int    `json:"movieId"`
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl"`
	Height     int    `json:"height"`
	Width      int    `json:"width"`
}

// ImageURLs extracts the full-size URLs of a page of images, skipping empty ones
func ImageURLs(page *Page[MovieImage]) []string {
	if page == nil {
		return nil
	}
	urls := make([]string, 0, len(page.Docs))
	for _, img := range page.Docs {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls
}
