package models

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the ordering applied by [SortMovies].
type SortMode string

const (
	SortTitleAsc   SortMode = "title_asc"
	SortTitleDesc  SortMode = "title_desc"
	SortRatingDesc SortMode = "rating_desc"
	SortRatingAsc  SortMode = "rating_asc"
)

// DefaultLanguage is the collation language used when none is configured.
const DefaultLanguage = "pt-BR"

// SortOption pairs a [SortMode] with a menu label.
type SortOption struct {
	Mode  SortMode
	Label string
}

var sortOptions = []SortOption{
	{SortTitleAsc, "Title (A-Z)"},
	{SortTitleDesc, "Title (Z-A)"},
	{SortRatingDesc, "Rating (high-low)"},
	{SortRatingAsc, "Rating (low-high)"},
}

// SortOptions returns the available sort modes in menu order.
func SortOptions() []SortOption {
	return slices.Clone(sortOptions)
}

// ParseSortMode validates s as a [SortMode].
func ParseSortMode(s string) (SortMode, bool) {
	for _, o := range sortOptions {
		if string(o.Mode) == s {
			return o.Mode, true
		}
	}
	return "", false
}

// Label returns the menu label for m, or the raw mode when unknown.
func (m SortMode) Label() string {
	for _, o := range sortOptions {
		if o.Mode == m {
			return o.Label
		}
	}
	return string(m)
}

// Next returns the mode after m in menu order, wrapping around.
func (m SortMode) Next() SortMode {
	for i, o := range sortOptions {
		if o.Mode == m {
			return sortOptions[(i+1)%len(sortOptions)].Mode
		}
	}
	return SortTitleAsc
}

// Sorter sorts movie lists using a language-specific title collation.
type Sorter struct {
	tag language.Tag
}

// NewSorter creates a [Sorter] for the BCP 47 language lang, falling back to [DefaultLanguage].
func NewSorter(lang string) *Sorter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.MustParse(DefaultLanguage)
	}
	return &Sorter{tag: tag}
}

// Sort returns a sorted copy of movies. The sort is stable and movies is not modified.
//
// An unknown mode returns an unsorted copy.
func (s *Sorter) Sort(movies []Movie, mode SortMode) []Movie {
	list := slices.Clone(movies)
	if list == nil {
		list = []Movie{}
	}

	// Collators keep internal buffers; one per call.
	col := collate.New(s.tag)

	switch mode {
	case SortTitleAsc:
		slices.SortStableFunc(list, func(a, b Movie) int { return col.CompareString(a.Title, b.Title) })
	case SortTitleDesc:
		slices.SortStableFunc(list, func(a, b Movie) int { return col.CompareString(b.Title, a.Title) })
	case SortRatingDesc:
		slices.SortStableFunc(list, func(a, b Movie) int { return cmp.Compare(b.VoteAverage, a.VoteAverage) })
	case SortRatingAsc:
		slices.SortStableFunc(list, func(a, b Movie) int { return cmp.Compare(a.VoteAverage, b.VoteAverage) })
	}

	return list
}

// SortMovies sorts with the [DefaultLanguage] collation. See [Sorter.Sort].
func SortMovies(movies []Movie, mode SortMode) []Movie {
	return NewSorter(DefaultLanguage).Sort(movies, mode)
}
