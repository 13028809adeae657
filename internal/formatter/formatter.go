// package formatter exports a user's favorites to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/interlude/internal/models"
	"github.com/desertthunder/interlude/internal/shared"
)

// Format names an export format accepted by [Export].
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat accepts csv, md/markdown and txt/text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
	}
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatRating renders a rating, or "Not rated" when absent.
func FormatRating(r *float64) string {
	if r == nil {
		return "Not rated"
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

func valueOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return "Unknown"
	}
	return *s
}

// ExportToCSV writes one row per favorite with columns: Kind, Position, Name, Artist, Album, Release Date, Duration, Genre
func ExportToCSV(u *models.User) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "Position", "Name", "Artist", "Album", "Release Date", "Duration", "Genre"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	var records [][]string
	for i, a := range u.FavoriteAlbums {
		records = append(records, []string{
			string(models.KindAlbum), strconv.Itoa(i + 1), a.Title, a.Artist, "", a.ReleaseDate, "", "",
		})
	}
	for i, s := range u.FavoriteSongs {
		releaseDate := ""
		if s.ReleaseDate != nil {
			releaseDate = *s.ReleaseDate
		}
		records = append(records, []string{
			string(models.KindSong), strconv.Itoa(i + 1), s.Title, s.Artist, s.Album, releaseDate, FormatDuration(s.DurationMS), "",
		})
	}
	for i, a := range u.FavoriteArtists {
		records = append(records, []string{
			string(models.KindArtist), strconv.Itoa(i + 1), a.Name, "", "", "", "", valueOrUnknown(a.Genre),
		})
	}

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders one section per favorite kind, skipping empty ones.
func ExportToMarkdown(u *models.User) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s's favourites\n\n", u.Username)
	fmt.Fprintf(&buf, "**Albums**: %d / %d  \n", len(u.FavoriteAlbums), models.MaxFavorites)
	fmt.Fprintf(&buf, "**Songs**: %d / %d  \n", len(u.FavoriteSongs), models.MaxFavorites)
	fmt.Fprintf(&buf, "**Artists**: %d / %d\n", len(u.FavoriteArtists), models.MaxFavorites)

	if len(u.FavoriteAlbums) > 0 {
		buf.WriteString("\n## Albums\n\n")
		buf.WriteString("| # | Title | Artist | Release Date | Rating |\n")
		buf.WriteString("| --- | --- | --- | --- | --- |\n")
		for i, a := range u.FavoriteAlbums {
			fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s |\n",
				i+1, escapeCell(a.Title), escapeCell(a.Artist), a.ReleaseDate, FormatRating(a.Rating))
		}
	}

	if len(u.FavoriteSongs) > 0 {
		buf.WriteString("\n## Songs\n\n")
		buf.WriteString("| # | Title | Artist | Album | Duration | Rating |\n")
		buf.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for i, s := range u.FavoriteSongs {
			fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s |\n",
				i+1, escapeCell(s.Title), escapeCell(s.Artist), escapeCell(s.Album), FormatDuration(s.DurationMS), FormatRating(s.Rating))
		}
	}

	if len(u.FavoriteArtists) > 0 {
		buf.WriteString("\n## Artists\n\n")
		for i, a := range u.FavoriteArtists {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, a)
		}
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToText converts favorites to plain text format
func ExportToText(u *models.User) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "User: %s\n", u.Username)

	fmt.Fprintf(&buf, "\nAlbums (%d):\n", len(u.FavoriteAlbums))
	for i, a := range u.FavoriteAlbums {
		fmt.Fprintf(&buf, "%d. %s - %s (%s)\n", i+1, a.Artist, a.Title, a.ReleaseDate)
	}

	fmt.Fprintf(&buf, "\nSongs (%d):\n", len(u.FavoriteSongs))
	for i, s := range u.FavoriteSongs {
		fmt.Fprintf(&buf, "%d. %s - %s [%s]\n", i+1, s.Artist, s.Title, FormatDuration(s.DurationMS))
	}

	fmt.Fprintf(&buf, "\nArtists (%d):\n", len(u.FavoriteArtists))
	for i, a := range u.FavoriteArtists {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, a)
	}

	return buf.Bytes(), nil
}

// Render dispatches to the exporter for format.
func Render(u *models.User, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(u)
	case FormatMarkdown:
		return ExportToMarkdown(u)
	case FormatText:
		return ExportToText(u)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// DefaultFilename is {username}_favorites.{format}.
func DefaultFilename(u *models.User, format Format) string {
	return fmt.Sprintf("%s_favorites.%s", u.Username, format)
}

// WriteExport renders favorites and writes them to path, defaulting to [DefaultFilename].
func WriteExport(u *models.User, format Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(u, format)
	}

	data, err := Render(u, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
