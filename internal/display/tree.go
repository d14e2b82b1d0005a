package display

import (
	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
)

// Option is a node of a multi-select tree. Every tree has a single "all" root.
type Option struct {
	Title    string
	Value    string
	Children []Option
}

func allRoot(children []Option) []Option {
	return []Option{{Title: "All", Value: query.AllValue, Children: children}}
}

// AgeRatingTree is the fixed MPAA rating tree
func AgeRatingTree() []Option {
	return allRoot([]Option{
		{Title: "G", Value: "g"},
		{Title: "PG", Value: "pg"},
		{Title: "PG-13", Value: "pg13"},
		{Title: "R", Value: "r"},
		{Title: "NC-17", Value: "nc17"},
	})
}

// NetworkTree is the fixed streaming network tree
func NetworkTree() []Option {
	return allRoot([]Option{
		{Title: "HBO", Value: "HBO"},
		{Title: "Netflix", Value: "Netflix"},
		{Title: "Amazon", Value: "Amazon"},
		{Title: "Hulu", Value: "Hulu"},
	})
}

// ReferenceTree puts a reference list under an "all" root, keeping server order
func ReferenceTree(entries []models.ReferenceEntry) []Option {
	children := make([]Option, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		children = append(children, Option{Title: e.Name, Value: e.Name})
	}
	return allRoot(children)
}

// Flatten lists the nodes depth first, root included
func Flatten(tree []Option) []Option {
	var out []Option
	var walk func([]Option)
	walk = func(nodes []Option) {
		for _, n := range nodes {
			out = append(out, Option{Title: n.Title, Value: n.Value})
			walk(n.Children)
		}
	}
	walk(tree)
	return out
}

// Resolve drops "all" from picked values and sorts the rest. An empty result means no restriction.
func Resolve(picked []string) []string {
	return query.Values(query.Selection(picked...))
}
