package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/cinelist/internal/formatter"
	"github.com/desertthunder/cinelist/internal/models"
)

var (
	_ list.Item = movieItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return styles.star.Render("★") + " " + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	parts := []string{}
	if year := i.movie.Year(); year != "" {
		parts = append(parts, year)
	}
	parts = append(parts, fmt.Sprintf("%s (%s votes)", i.movie.Rating(), formatter.Votes(i.movie.VoteCount)))
	return strings.Join(parts, " • ")
}

func newMovieList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}
