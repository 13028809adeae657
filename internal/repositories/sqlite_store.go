package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/interlude/internal/models"
	"github.com/desertthunder/interlude/internal/shared"
)

// SQLiteStore persists the registry in the tables created by [shared.RunMigrations].
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps a migrated database connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads users ordered by position and attaches their favorites.
// An empty database yields [shared.ErrNoUserData].
func (s *SQLiteStore) Load(ctx context.Context) (*Registry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, user_id, email, password FROM users ORDER BY position ASC`)
	if err != nil {
		return NewRegistry(), fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var (
		records []*models.UserRecord
		byName  = make(map[string]*models.UserRecord)
	)
	for rows.Next() {
		rec := &models.UserRecord{
			FavoriteAlbums:  []models.AlbumRecord{},
			FavoriteSongs:   []models.SongRecord{},
			FavoriteArtists: []models.ArtistRecord{},
		}
		var id int
		if err := rows.Scan(&rec.Username, &id, &rec.Email, &rec.Password); err != nil {
			return NewRegistry(), fmt.Errorf("failed to scan user: %w", err)
		}
		rec.UserID = models.RecordID(id)
		records = append(records, rec)
		byName[rec.Username] = rec
	}
	if err := rows.Err(); err != nil {
		return NewRegistry(), fmt.Errorf("row iteration error: %w", err)
	}

	if len(records) == 0 {
		return NewRegistry(), shared.ErrNoUserData
	}

	if err := s.loadAlbums(ctx, byName); err != nil {
		return NewRegistry(), err
	}
	if err := s.loadSongs(ctx, byName); err != nil {
		return NewRegistry(), err
	}
	if err := s.loadArtists(ctx, byName); err != nil {
		return NewRegistry(), err
	}

	users := make([]*models.User, 0, len(records))
	for _, rec := range records {
		users = append(users, models.UserFromRecord(*rec))
	}
	return NewRegistryFrom(users), nil
}

func (s *SQLiteStore) loadAlbums(ctx context.Context, byName map[string]*models.UserRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, title, artist, release_date
		FROM favorite_albums
		ORDER BY username, position ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query favorite albums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var username string
		var a models.AlbumRecord
		if err := rows.Scan(&username, &a.Title, &a.Artist, &a.ReleaseDate); err != nil {
			return fmt.Errorf("failed to scan favorite album: %w", err)
		}
		if rec, ok := byName[username]; ok {
			rec.FavoriteAlbums = append(rec.FavoriteAlbums, a)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadSongs(ctx context.Context, byName map[string]*models.UserRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, song_id, title, artist, album, duration_ms, release_date
		FROM favorite_songs
		ORDER BY username, position ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query favorite songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			username    string
			id          int
			releaseDate sql.NullString
			song        models.SongRecord
		)
		if err := rows.Scan(&username, &id, &song.Title, &song.Artist, &song.Album, &song.DurationMS, &releaseDate); err != nil {
			return fmt.Errorf("failed to scan favorite song: %w", err)
		}
		song.ID = models.RecordID(id)
		if releaseDate.Valid {
			song.ReleaseDate = &releaseDate.String
		}
		if rec, ok := byName[username]; ok {
			rec.FavoriteSongs = append(rec.FavoriteSongs, song)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadArtists(ctx context.Context, byName map[string]*models.UserRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, artist_id, name, genre
		FROM favorite_artists
		ORDER BY username, position ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query favorite artists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			username string
			id       int
			genre    sql.NullString
			artist   models.ArtistRecord
		)
		if err := rows.Scan(&username, &id, &artist.Name, &genre); err != nil {
			return fmt.Errorf("failed to scan favorite artist: %w", err)
		}
		artist.ID = models.RecordID(id)
		if genre.Valid {
			artist.Genre = &genre.String
		}
		if rec, ok := byName[username]; ok {
			rec.FavoriteArtists = append(rec.FavoriteArtists, artist)
		}
	}
	return rows.Err()
}

// Save replaces the stored registry in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, r *Registry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrSaveFailed, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"favorite_artists", "favorite_songs", "favorite_albums", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("%w: failed to clear %s: %v", shared.ErrSaveFailed, table, err)
		}
	}

	for pos, u := range r.Users() {
		if err := insertUser(ctx, tx, pos, u); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %v", shared.ErrSaveFailed, err)
	}
	return nil
}

func insertUser(ctx context.Context, tx *sql.Tx, pos int, u *models.User) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, user_id, email, password, position) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.UserID, u.Email, u.Password, pos,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.Username, err)
	}

	for i, a := range u.FavoriteAlbums {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO favorite_albums (username, position, title, artist, release_date) VALUES (?, ?, ?, ?, ?)`,
			u.Username, i, a.Title, a.Artist, a.ReleaseDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert album for %s: %w", u.Username, err)
		}
	}

	for i, song := range u.FavoriteSongs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO favorite_songs (username, position, song_id, title, artist, album, duration_ms, release_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			u.Username, i, song.ID, song.Title, song.Artist, song.Album, song.DurationMS, nullString(song.ReleaseDate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert song for %s: %w", u.Username, err)
		}
	}

	for i, a := range u.FavoriteArtists {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO favorite_artists (username, position, artist_id, name, genre) VALUES (?, ?, ?, ?, ?)`,
			u.Username, i, a.ID, a.Name, nullString(a.Genre),
		)
		if err != nil {
			return fmt.Errorf("failed to insert artist for %s: %w", u.Username, err)
		}
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
