package session

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/desertthunder/interlude/internal/formatter"
	"github.com/desertthunder/interlude/internal/models"
	"github.com/desertthunder/interlude/internal/services"
)

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// RenderReleases prints new releases as a table.
func RenderReleases(w io.Writer, releases []services.SpotifyAlbum) {
	table := newTable(w, "Album Title", "Artist(s)", "Release Date", "Total Tracks", "Listen Here")
	for _, album := range releases {
		table.Append([]string{
			orDefault(album.Name, "Unknown Album"),
			services.ArtistNames(album.Artists),
			orDefault(album.ReleaseDate, "Unknown Release Date"),
			strconv.Itoa(album.TotalTracks),
			orDefault(album.ExternalURLs.Spotify, "No URL available"),
		})
	}
	table.Render()
}

// RenderTopTracks prints the user's top tracks, numbered by rank.
func RenderTopTracks(w io.Writer, tracks []services.SpotifyTrack) {
	table := newTable(w, "#", "Track", "Artist(s)", "Album", "Duration")
	for i, track := range tracks {
		table.Append([]string{
			strconv.Itoa(i + 1),
			track.Name,
			services.ArtistNames(track.Artists),
			track.Album.Name,
			formatter.FormatDuration(track.DurationMS),
		})
	}
	table.Render()
}

// RenderProfile prints the three favorites tables, or a notice for each empty list.
func RenderProfile(w io.Writer, u *models.User) {
	fmt.Fprintln(w, "\nYour Profile Information:")

	fmt.Fprintln(w, "\nHere are your Favorite Albums:")
	if len(u.FavoriteAlbums) == 0 {
		fmt.Fprintln(w, "Uh oh! You haven't added any favorite albums yet.")
	} else {
		table := newTable(w, "Album Title", "Artist", "Rating")
		for _, a := range u.FavoriteAlbums {
			table.Append([]string{a.Title, a.Artist, formatter.FormatRating(a.Rating)})
		}
		table.Render()
	}

	fmt.Fprintln(w, "\nFavorite Songs:")
	if len(u.FavoriteSongs) == 0 {
		fmt.Fprintln(w, "Uh oh! You haven't added any favorite songs yet.")
	} else {
		table := newTable(w, "Song Title", "Artist", "Rating")
		for _, s := range u.FavoriteSongs {
			table.Append([]string{s.Title, s.Artist, formatter.FormatRating(s.Rating)})
		}
		table.Render()
	}

	fmt.Fprintln(w, "\nFavorite Artists:")
	if len(u.FavoriteArtists) == 0 {
		fmt.Fprintln(w, "Uh oh! You haven't added any favorite artists yet.")
	} else {
		table := newTable(w, "Artist Name", "Genre")
		for _, a := range u.FavoriteArtists {
			genre := "Unknown"
			if a.Genre != nil {
				genre = *a.Genre
			}
			table.Append([]string{a.Name, genre})
		}
		table.Render()
	}
}
