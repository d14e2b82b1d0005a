// Example: pick a random drama from the 90s
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/pkg/gokino"
	"github.com/alvarorichard/gokino/pkg/gokino/types"
)

func main() {
	client := gokino.NewClient("")

	filter := types.NewFilter()
	filter.Genres = query.Selection("драма")
	filter.Years = query.YearRange{Start: 1990, End: 1999}

	movie, err := client.RandomMovie(context.Background(), filter)
	if err != nil {
		log.Fatal(err)
	}
	if movie == nil {
		fmt.Println("Nothing matches")
		return
	}
	fmt.Printf("%s (%d), kp %.1f\n", movie.DisplayName(), movie.Year, movie.Rating.KP)
}
