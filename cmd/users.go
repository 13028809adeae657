package main

import (
	"context"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/interlude/internal/models"
)

// userSummary is the listing view of a user. Passwords are never shown.
type userSummary struct {
	UserID          int    `json:"user_id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FavoriteAlbums  int    `json:"favorite_albums"`
	FavoriteSongs   int    `json:"favorite_songs"`
	FavoriteArtists int    `json:"favorite_artists"`
}

func summarize(u *models.User) userSummary {
	return userSummary{
		UserID:          u.UserID,
		Username:        u.Username,
		Email:           u.Email,
		FavoriteAlbums:  u.FavoriteCount(models.KindAlbum),
		FavoriteSongs:   u.FavoriteCount(models.KindSong),
		FavoriteArtists: u.FavoriteCount(models.KindArtist),
	}
}

// UsersList prints every stored user with their favorite counts.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	registry, err := r.loadRegistry(ctx)
	if err != nil {
		return err
	}

	summaries := make([]userSummary, 0, registry.Len())
	for _, u := range registry.Users() {
		summaries = append(summaries, summarize(u))
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, true)
	}

	if len(summaries) == 0 {
		return r.writePlain("No users found.\n")
	}

	table := tablewriter.NewWriter(r.output)
	table.SetHeader([]string{"ID", "Username", "Email", "Albums", "Songs", "Artists"})
	table.SetAutoFormatHeaders(false)
	for _, s := range summaries {
		table.Append([]string{
			strconv.Itoa(s.UserID),
			s.Username,
			s.Email,
			strconv.Itoa(s.FavoriteAlbums),
			strconv.Itoa(s.FavoriteSongs),
			strconv.Itoa(s.FavoriteArtists),
		})
	}
	table.Render()

	return r.writePlain("\n%d users\n", len(summaries))
}
