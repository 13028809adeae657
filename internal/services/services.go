// package services defines the [Catalog] interface for music metadata lookups
package services

import (
	"context"
)

// Catalog is the set of lookups the interactive session and the CLI need from a music provider.
//
// Every method returns an error wrapping one of the shared sentinels:
// [shared.ErrNotFound], [shared.ErrServiceUnavailable], [shared.ErrAPIRequest]
// or [shared.ErrNotAuthenticated].
type Catalog interface {
	// SearchAlbum returns the best album match for name.
	SearchAlbum(ctx context.Context, name string) (*AlbumResult, error)

	// SearchSong returns the best track match for name.
	SearchSong(ctx context.Context, name string) (*SongResult, error)

	// SearchArtist returns the raw provider record of the best artist match.
	SearchArtist(ctx context.Context, name string) (*SpotifyArtist, error)

	// NewReleases lists recently released albums.
	NewReleases(ctx context.Context) ([]SpotifyAlbum, error)

	// TopTracks lists the authorized user's most played tracks. Requires a user token.
	TopTracks(ctx context.Context) ([]SpotifyTrack, error)

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}

// AlbumResult is the reduced album record used to build a favorite album.
type AlbumResult struct {
	Title       string
	Artist      string
	ReleaseDate string
	TotalTracks int
}

// SongResult is the reduced track record used to build a favorite song.
type SongResult struct {
	Title      string
	Artist     string
	Album      string
	DurationMS int
}
