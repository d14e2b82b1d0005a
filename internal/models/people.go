package models

// MovieComment is a user review from the review endpoint.
// Review and Title may contain HTML markup.
type MovieComment struct {
	ID      int    `json:"id"`
	MovieID int    `json:"movieId"`
	Title   string `json:"title"`
	Type    string `json:"type"` // "Позитивный", "Нейтральный" or "Негативный"
	Review  string `json:"review"`
	Date    string `json:"date"`
	Author  string `json:"author"`
}

// MovieActor is a person from the person endpoint
type MovieActor struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	EnName string `json:"enName"`
	Photo  string `json:"photo"`
	Sex    string `json:"sex"`
	Age    int    `json:"age"`
}

// Episode belongs to a MovieSeason
type Episode struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	EnName      string `json:"enName"`
	Description string `json:"description"`
	AirDate     string `json:"airDate"`
	Still       *Image `json:"still"`
}

// MovieSeason is an entry of the season endpoint
type MovieSeason struct {
	MovieID       int       `json:"movieId"`
	Number        int       `json:"number"`
	EpisodesCount int       `json:"episodesCount"`
	Name          string    `json:"name"`
	AirDate       string    `json:"airDate"`
	Episodes      []Episode `json:"episodes"`
}

// FindSeason returns the season with the given number, or nil
func FindSeason(seasons []MovieSeason, number int) *MovieSeason {
	for i := range seasons {
		if seasons[i].Number == number {
			return &seasons[i]
		}
	}
	return nil
}

// ReferenceEntry is a possible value of a filterable field (a country, a genre...)
type ReferenceEntry struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
