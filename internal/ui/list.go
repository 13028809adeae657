package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/interlude/internal/formatter"
	"github.com/desertthunder/interlude/internal/services"
)

var (
	_ list.Item = releaseItem{}
	_ list.Item = trackItem{}
)

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// releaseItem wraps [services.SpotifyAlbum] to implement [list.Item].
type releaseItem struct {
	album services.SpotifyAlbum
}

func (i releaseItem) FilterValue() string {
	return i.album.Name + " " + services.ArtistNames(i.album.Artists)
}

func (i releaseItem) Title() string { return orDefault(i.album.Name, "Unknown Album") }

func (i releaseItem) Description() string {
	return fmt.Sprintf("%s • %s • %d tracks",
		orDefault(services.ArtistNames(i.album.Artists), "Unknown Artist"),
		orDefault(i.album.ReleaseDate, "Unknown Release Date"),
		i.album.TotalTracks,
	)
}

// trackItem wraps a ranked [services.SpotifyTrack] to implement [list.Item].
type trackItem struct {
	rank  int
	track services.SpotifyTrack
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.rank, i.track.Name) }
func (i trackItem) Description() string {
	desc := services.ArtistNames(i.track.Artists)
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return fmt.Sprintf("%s • %s", desc, formatter.FormatDuration(i.track.DurationMS))
}
