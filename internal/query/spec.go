// Package query turns filter and pagination state into kinopoisk.dev requests.
//
// Everything here is pure: builders never mutate their inputs and cannot fail.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Mode selects how the movie list is searched
type Mode string

const (
	ModeByFilters Mode = "byFilters"
	ModeByName    Mode = "byName"
)

// AllValue is the "select everything" entry of multi-selects. It is never sent to the API.
const AllValue = "all"

const (
	MinYear     = 1920
	MinKpRating = 0.0
	MaxKpRating = 10.0

	DefaultPagesCount = 1
	MaxLimit          = 200 // never ask for more than MaxLimit items at a time
	ImagesLimit       = 20
)

// PageSizeOptions are the page sizes a user may pick, smallest first
var PageSizeOptions = []int{10, 20, 50, 100}

// Now is the clock used to compute the current year
var Now = time.Now

// MaxYear is the last selectable release year
func MaxYear() int {
	return Now().Year()
}

// YearRange is an inclusive release year interval. The zero value means "not set".
type YearRange struct {
	Start int
	End   int
}

// DefaultYears is the full configured span
func DefaultYears() YearRange {
	return YearRange{Start: MinYear, End: MaxYear()}
}

// IsZero reports whether neither bound is set
func (r YearRange) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// Valid reports whether both bounds are present, ordered and inside [MinYear, MaxYear]
func (r YearRange) Valid() bool {
	return r.Start != 0 && r.End != 0 &&
		r.Start <= r.End &&
		r.Start >= MinYear && r.End <= MaxYear()
}

// String renders the range the way the API and the location expect it: "start-end"
func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// NormalizeYears returns r when it is valid and the full default span otherwise
func NormalizeYears(r YearRange) YearRange {
	if r.Valid() {
		return r
	}
	return DefaultYears()
}

// ParseYears parses "start-end". Malformed input yields the zero range.
func ParseYears(s string) YearRange {
	lo, hi, ok := splitRange(s)
	if !ok {
		return YearRange{}
	}
	start, err1 := strconv.Atoi(lo)
	end, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil {
		return YearRange{}
	}
	return YearRange{Start: start, End: end}
}

// RatingRange is an inclusive kinopoisk rating interval
type RatingRange struct {
	Min float64
	Max float64
	Set bool
}

// DefaultKpRating is [0, 10]
func DefaultKpRating() RatingRange {
	return RatingRange{Min: MinKpRating, Max: MaxKpRating, Set: true}
}

// Valid reports whether the range is set, ordered and inside [0, 10]
func (r RatingRange) Valid() bool {
	return r.Set && r.Min <= r.Max && r.Min >= MinKpRating && r.Max <= MaxKpRating
}

func (r RatingRange) String() string {
	return formatRating(r.Min) + "-" + formatRating(r.Max)
}

// NormalizeKpRating returns r when it is valid and [0, 10] otherwise
func NormalizeKpRating(r RatingRange) RatingRange {
	if r.Valid() {
		return r
	}
	return DefaultKpRating()
}

// ParseKpRating parses "min-max". Malformed input yields an unset range.
func ParseKpRating(s string) RatingRange {
	lo, hi, ok := splitRange(s)
	if !ok {
		return RatingRange{}
	}
	from, err1 := strconv.ParseFloat(lo, 64)
	to, err2 := strconv.ParseFloat(hi, 64)
	if err1 != nil || err2 != nil {
		return RatingRange{}
	}
	return RatingRange{Min: from, Max: to, Set: true}
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func splitRange(s string) (string, string, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// PageSpec is the pagination of one result set
type PageSpec struct {
	No   int
	Size int
}

// DefaultPage is the first page at the smallest page size
func DefaultPage() PageSpec {
	return PageSpec{No: 1, Size: PageSizeOptions[0]}
}

// ValidPageSize reports whether n is one of PageSizeOptions
func ValidPageSize(n int) bool {
	for _, opt := range PageSizeOptions {
		if opt == n {
			return true
		}
	}
	return false
}

// Normalize clamps the page number to 1 and replaces unknown sizes with the default
func (p PageSpec) Normalize() PageSpec {
	if p.No < 1 {
		p.No = 1
	}
	if !ValidPageSize(p.Size) {
		p.Size = PageSizeOptions[0]
	}
	return p
}

// FilterSpec is everything a user can search by
type FilterSpec struct {
	Mode       Mode
	Text       string
	Years      YearRange
	KpRating   RatingRange
	Countries  mapset.Set[string]
	Genres     mapset.Set[string]
	Types      mapset.Set[string]
	AgeRatings mapset.Set[string]
	Networks   mapset.Set[string]
}

// NewFilterSpec returns an empty byFilters spec with initialized sets
func NewFilterSpec() FilterSpec {
	return FilterSpec{
		Mode:       ModeByFilters,
		Countries:  mapset.NewThreadUnsafeSet[string](),
		Genres:     mapset.NewThreadUnsafeSet[string](),
		Types:      mapset.NewThreadUnsafeSet[string](),
		AgeRatings: mapset.NewThreadUnsafeSet[string](),
		Networks:   mapset.NewThreadUnsafeSet[string](),
	}
}

// Selection builds a multi-select set, dropping AllValue and blanks
func Selection(values ...string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || v == AllValue {
			continue
		}
		set.Add(v)
	}
	return set
}

// Values returns the selected values sorted, without AllValue. A nil set is empty.
func Values(set mapset.Set[string]) []string {
	if set == nil {
		return nil
	}
	out := make([]string, 0, set.Cardinality())
	for _, v := range set.ToSlice() {
		if v == AllValue || v == "" {
			continue
		}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy so callers can edit without touching the original
func (f FilterSpec) Clone() FilterSpec {
	out := f
	out.Countries = Selection(Values(f.Countries)...)
	out.Genres = Selection(Values(f.Genres)...)
	out.Types = Selection(Values(f.Types)...)
	out.AgeRatings = Selection(Values(f.AgeRatings)...)
	out.Networks = Selection(Values(f.Networks)...)
	return out
}

// Canonical is a plain, hashable snapshot of a FilterSpec
type Canonical struct {
	Mode       Mode
	Text       string
	Years      YearRange
	KpRating   RatingRange
	Countries  []string
	Genres     []string
	Types      []string
	AgeRatings []string
	Networks   []string
}

// Canonical flattens the sets into sorted slices
func (f FilterSpec) Canonical() Canonical {
	return Canonical{
		Mode:       f.Mode,
		Text:       f.Text,
		Years:      f.Years,
		KpRating:   f.KpRating,
		Countries:  Values(f.Countries),
		Genres:     Values(f.Genres),
		Types:      Values(f.Types),
		AgeRatings: Values(f.AgeRatings),
		Networks:   Values(f.Networks),
	}
}
