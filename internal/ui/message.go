package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/interlude/internal/services"
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
	MsgReleasesFetched MsgKind = iota
	MsgTopTracksFetched
	MsgLinkOpened
)

// fetched carries the outcome of a catalog call.
type fetched[T any] struct {
	items []T
	err   error
}

// releasesFetchedMsg is the constructor for [MsgReleasesFetched]
func releasesFetchedMsg(releases []services.SpotifyAlbum, err error) Msg {
	return Msg{kind: MsgReleasesFetched, data: fetched[services.SpotifyAlbum]{releases, err}}
}

// topTracksFetchedMsg is the constructor for [MsgTopTracksFetched]
func topTracksFetchedMsg(tracks []services.SpotifyTrack, err error) Msg {
	return Msg{kind: MsgTopTracksFetched, data: fetched[services.SpotifyTrack]{tracks, err}}
}

type opened struct {
	url string
	err error
}

// linkOpenedMsg is the constructor for [MsgLinkOpened]
func linkOpenedMsg(url string, err error) Msg {
	return Msg{kind: MsgLinkOpened, data: opened{url, err}}
}
