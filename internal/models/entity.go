package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind names one of the three favorite categories.
type Kind string

const (
	KindAlbum  Kind = "album"
	KindSong   Kind = "song"
	KindArtist Kind = "artist"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Entity is the capability shared by everything a user can mark as a favorite.
type Entity interface {
	Identity() int
	Kind() Kind
	ToMap() map[string]any
}

var (
	_ Entity = (*Album)(nil)
	_ Entity = (*Song)(nil)
	_ Entity = (*Artist)(nil)
)

// ValidRating reports whether r lies in [MinRating, MaxRating].
func ValidRating(r float64) bool {
	return r >= MinRating && r <= MaxRating
}

// optional turns the empty string into an absent value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RecordID decodes ids stored either as JSON numbers or as strings.
//
// Non-numeric strings (provider ids written by older releases) decode as 0.
type RecordID int

func (id *RecordID) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*id = RecordID(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		n = 0
	}
	*id = RecordID(n)
	return nil
}

// Album is a rated long-player.
type Album struct {
	ID          int
	Title       string
	Artist      string
	ReleaseDate string
	Genre       *string
	Rating      *float64
}

// AlbumRecord is the stored form of an [Album]. It carries neither id nor genre.
type AlbumRecord struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ReleaseDate string `json:"release_date"`
}

// NewAlbum builds an unrated album; an empty genre is stored as absent.
func NewAlbum(id int, title, artist, releaseDate, genre string) *Album {
	return &Album{ID: id, Title: title, Artist: artist, ReleaseDate: releaseDate, Genre: optional(genre)}
}

// AlbumFromRecord rebuilds an album read from storage. The record has no id, so the caller supplies one.
func AlbumFromRecord(id int, rec AlbumRecord) *Album {
	return NewAlbum(id, rec.Title, rec.Artist, rec.ReleaseDate, "")
}

func (a *Album) Identity() int { return a.ID }
func (a *Album) Kind() Kind    { return KindAlbum }

// SetRating assigns the rating. Range checks are the caller's job.
func (a *Album) SetRating(r float64) { a.Rating = &r }

func (a *Album) Record() AlbumRecord {
	return AlbumRecord{Title: a.Title, Artist: a.Artist, ReleaseDate: a.ReleaseDate}
}

func (a *Album) ToMap() map[string]any {
	return map[string]any{
		"title":        a.Title,
		"artist":       a.Artist,
		"release_date": a.ReleaseDate,
	}
}

// Song is a rated track. Album holds the album title, not a reference.
type Song struct {
	ID          int
	Title       string
	Artist      string
	Album       string
	DurationMS  int
	ReleaseDate *string
	Rating      *float64
}

// SongRecord is the stored form of a [Song].
type SongRecord struct {
	ID          RecordID `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Album       string   `json:"album"`
	DurationMS  int      `json:"duration_ms"`
	ReleaseDate *string  `json:"release_date"`
}

// NewSong builds an unrated song; an empty release date is stored as absent.
func NewSong(id int, title, artist, album string, durationMS int, releaseDate string) *Song {
	return &Song{
		ID:          id,
		Title:       title,
		Artist:      artist,
		Album:       album,
		DurationMS:  durationMS,
		ReleaseDate: optional(releaseDate),
	}
}

func SongFromRecord(rec SongRecord) *Song {
	s := NewSong(int(rec.ID), rec.Title, rec.Artist, rec.Album, rec.DurationMS, "")
	s.ReleaseDate = rec.ReleaseDate
	return s
}

func (s *Song) Identity() int { return s.ID }
func (s *Song) Kind() Kind    { return KindSong }

// SetRating assigns the rating. Range checks are the caller's job.
func (s *Song) SetRating(r float64) { s.Rating = &r }

func (s *Song) Record() SongRecord {
	return SongRecord{
		ID:          RecordID(s.ID),
		Title:       s.Title,
		Artist:      s.Artist,
		Album:       s.Album,
		DurationMS:  s.DurationMS,
		ReleaseDate: s.ReleaseDate,
	}
}

func (s *Song) ToMap() map[string]any {
	var releaseDate any
	if s.ReleaseDate != nil {
		releaseDate = *s.ReleaseDate
	}
	return map[string]any{
		"id":           s.ID,
		"title":        s.Title,
		"artist":       s.Artist,
		"album":        s.Album,
		"duration_ms":  s.DurationMS,
		"release_date": releaseDate,
	}
}

func (s *Song) String() string {
	releaseDate := "None"
	if s.ReleaseDate != nil {
		releaseDate = *s.ReleaseDate
	}
	return fmt.Sprintf("Song(id=%d, title='%s', artist='%s', album='%s', duration=%d ms, release_date=%s)",
		s.ID, s.Title, s.Artist, s.Album, s.DurationMS, releaseDate)
}

// Artist is a favorite performer. Artists are not rated.
type Artist struct {
	ID    int
	Name  string
	Genre *string
}

// ArtistRecord is the stored form of an [Artist].
type ArtistRecord struct {
	ID    RecordID `json:"id"`
	Name  string   `json:"name"`
	Genre *string  `json:"genre"`
}

// NewArtist builds an artist; an empty genre is stored as absent.
func NewArtist(id int, name, genre string) *Artist {
	return &Artist{ID: id, Name: name, Genre: optional(genre)}
}

func ArtistFromRecord(rec ArtistRecord) *Artist {
	return &Artist{ID: int(rec.ID), Name: rec.Name, Genre: rec.Genre}
}

func (a *Artist) Identity() int { return a.ID }
func (a *Artist) Kind() Kind    { return KindArtist }

func (a *Artist) Record() ArtistRecord {
	return ArtistRecord{ID: RecordID(a.ID), Name: a.Name, Genre: a.Genre}
}

func (a *Artist) ToMap() map[string]any {
	var genre any
	if a.Genre != nil {
		genre = *a.Genre
	}
	return map[string]any{
		"id":    a.ID,
		"name":  a.Name,
		"genre": genre,
	}
}

// String renders "Name (Genre: genre)", with Unknown standing in for an absent genre.
func (a *Artist) String() string {
	genre := "Unknown"
	if a.Genre != nil && *a.Genre != "" {
		genre = *a.Genre
	}
	return fmt.Sprintf("%s (Genre: %s)", a.Name, genre)
}
