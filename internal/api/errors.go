package api

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/alvarorichard/gokino/internal/query"
)

// Op names a remote operation. Every failure is reported against exactly one Op.
type Op string

const (
	OpCountries Op = "countries"
	OpGenres    Op = "genres"
	OpTypes     Op = "types"
	OpNetworks  Op = "networks"
	OpSearch    Op = "search by name"
	OpListing   Op = "filtered listing"
	OpMovie     Op = "movie by id"
	OpImages    Op = "images"
	OpComments  Op = "comments"
	OpActors    Op = "actors"
	OpSeasons   Op = "seasons"
	OpRandom    Op = "random"
)

var opDescriptions = map[Op]string{
	OpCountries: "could not fetch the countries",
	OpGenres:    "could not fetch the genres",
	OpTypes:     "could not fetch the types",
	OpNetworks:  "could not fetch the networks",
	OpSearch:    "could not search movies by name",
	OpListing:   "could not fetch the movie list",
	OpMovie:     "could not fetch the movie",
	OpImages:    "could not fetch images",
	OpComments:  "could not fetch comments",
	OpActors:    "could not fetch actors",
	OpSeasons:   "could not fetch seasons",
	OpRandom:    "could not fetch a random movie",
}

// Description is the user facing sentence for a failed op
func (o Op) Description() string {
	if d, ok := opDescriptions[o]; ok {
		return d
	}
	return "could not fetch " + string(o)
}

// CategoryOp maps a reference category to its op
func CategoryOp(c query.Category) Op {
	switch c {
	case query.Countries:
		return OpCountries
	case query.Genres:
		return OpGenres
	case query.Types:
		return OpTypes
	case query.Networks:
		return OpNetworks
	default:
		return Op(c)
	}
}

// ErrNoAPIKey is returned for every request when no API key is configured
var ErrNoAPIKey = errors.New("KINOPOISK_API_KEY is not set")

// ErrUnknownCategory rejects reference lookups outside query.Categories
var ErrUnknownCategory = errors.New("unknown reference category")

// Error is a failed operation. Status is the HTTP status when the server answered.
type Error struct {
	Op     Op
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op.Description()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same Op. A zero Status in target matches any status.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == e.Op && (t.Status == 0 || t.Status == e.Status)
}

// OpOf returns the op of the first *Error in err's chain
func OpOf(err error) (Op, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Op, true
	}
	return "", false
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
