package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cinelist/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageLoaded MsgKind = iota
	MsgDetailsLoaded
	MsgBrowserOpened
)

type pageLoaded struct {
	view   ViewState
	movies []models.Movie
	err    error
}

type detailsLoaded struct {
	movie *models.Movie
	err   error
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]
func pageLoadedMsg(view ViewState, movies []models.Movie, err error) Msg {
	return Msg{kind: MsgPageLoaded, data: pageLoaded{view, movies, err}}
}

// detailsLoadedMsg is the constructor for [MsgDetailsLoaded]
func detailsLoadedMsg(movie *models.Movie, err error) Msg {
	return Msg{kind: MsgDetailsLoaded, data: detailsLoaded{movie, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
