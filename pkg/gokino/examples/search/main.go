// Example: search movies by name using the GoKino library
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/alvarorichard/gokino/pkg/gokino"
	"github.com/alvarorichard/gokino/pkg/gokino/types"
)

func main() {
	// The key comes from $KINOPOISK_API_KEY
	client := gokino.NewClient("")

	fmt.Println("Searching for 'Матрица'...")
	res, err := client.SearchMovies(context.Background(), "Матрица", types.Page{No: 1, Size: 10})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nFound %d results:\n\n", res.Total)
	for i, movie := range res.Movies {
		fmt.Printf("%d. %s (%d)\n", i+1, movie.DisplayName(), movie.Year)
		if desc := movie.ShortDescription; desc != "" {
			fmt.Printf("   %s\n", desc)
		}
	}
}
