package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxFavorites caps each favorites list.
const MaxFavorites = 5

// HashCost is the bcrypt cost used for new and upgraded passwords.
var HashCost = bcrypt.DefaultCost

// User is a locally stored profile with its three favorites lists.
type User struct {
	UserID          int
	Username        string
	Email           string
	Password        string
	FavoriteAlbums  []*Album
	FavoriteSongs   []*Song
	FavoriteArtists []*Artist
}

// UserRecord is the stored form of a [User]. Field order fixes the JSON key order.
type UserRecord struct {
	UserID          RecordID       `json:"user_id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	FavoriteAlbums  []AlbumRecord  `json:"favorite_albums"`
	FavoriteSongs   []SongRecord   `json:"favorite_songs"`
	FavoriteArtists []ArtistRecord `json:"favorite_artists"`
}

// NewUser creates a user with empty favorites and a bcrypt-hashed password.
func NewUser(id int, username, email, password string) (*User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		UserID:          id,
		Username:        username,
		Email:           email,
		Password:        hash,
		FavoriteAlbums:  []*Album{},
		FavoriteSongs:   []*Song{},
		FavoriteArtists: []*Artist{},
	}, nil
}

// UserFromRecord rebuilds a user and its typed favorites from storage.
//
// Albums are stored without ids, so they are numbered by position starting at 1.
func UserFromRecord(rec UserRecord) *User {
	u := &User{
		UserID:          int(rec.UserID),
		Username:        rec.Username,
		Email:           rec.Email,
		Password:        rec.Password,
		FavoriteAlbums:  make([]*Album, 0, len(rec.FavoriteAlbums)),
		FavoriteSongs:   make([]*Song, 0, len(rec.FavoriteSongs)),
		FavoriteArtists: make([]*Artist, 0, len(rec.FavoriteArtists)),
	}
	for i, a := range rec.FavoriteAlbums {
		u.FavoriteAlbums = append(u.FavoriteAlbums, AlbumFromRecord(i+1, a))
	}
	for _, s := range rec.FavoriteSongs {
		u.FavoriteSongs = append(u.FavoriteSongs, SongFromRecord(s))
	}
	for _, a := range rec.FavoriteArtists {
		u.FavoriteArtists = append(u.FavoriteArtists, ArtistFromRecord(a))
	}
	return u
}

// maxBcryptInput is the longest input bcrypt accepts.
const maxBcryptInput = 72

// bcryptInput digests passwords bcrypt would reject as too long.
// Shorter passwords pass through so existing hashes keep matching.
func bcryptInput(password string) []byte {
	if len(password) <= maxBcryptInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// isHashed reports whether the stored password is a bcrypt hash.
func (u *User) isHashed() bool {
	_, err := bcrypt.Cost([]byte(u.Password))
	return err == nil
}

// CheckPassword compares candidate against the stored password in constant time.
func (u *User) CheckPassword(candidate string) bool {
	if u.isHashed() {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), bcryptInput(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(candidate)) == 1
}

// NeedsUpgrade reports whether the stored password is a legacy plain-text value.
func (u *User) NeedsUpgrade() bool {
	return !u.isHashed()
}

// UpgradePassword replaces a legacy plain-text password with its hash.
// It is a no-op for passwords that are already hashed.
func (u *User) UpgradePassword(password string) error {
	if u.isHashed() {
		return nil
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// AddFavoriteAlbum appends a when fewer than [MaxFavorites] albums are held.
func (u *User) AddFavoriteAlbum(a *Album) bool {
	if len(u.FavoriteAlbums) >= MaxFavorites {
		return false
	}
	u.FavoriteAlbums = append(u.FavoriteAlbums, a)
	return true
}

// AddFavoriteSong appends s when fewer than [MaxFavorites] songs are held.
func (u *User) AddFavoriteSong(s *Song) bool {
	if len(u.FavoriteSongs) >= MaxFavorites {
		return false
	}
	u.FavoriteSongs = append(u.FavoriteSongs, s)
	return true
}

// AddFavoriteArtist appends a when fewer than [MaxFavorites] artists are held.
func (u *User) AddFavoriteArtist(a *Artist) bool {
	if len(u.FavoriteArtists) >= MaxFavorites {
		return false
	}
	u.FavoriteArtists = append(u.FavoriteArtists, a)
	return true
}

func (u *User) FavoriteCount(kind Kind) int {
	switch kind {
	case KindAlbum:
		return len(u.FavoriteAlbums)
	case KindSong:
		return len(u.FavoriteSongs)
	case KindArtist:
		return len(u.FavoriteArtists)
	default:
		return 0
	}
}

// Favorites returns every favorite of the given kind as an [Entity].
func (u *User) Favorites(kind Kind) []Entity {
	var out []Entity
	switch kind {
	case KindAlbum:
		for _, a := range u.FavoriteAlbums {
			out = append(out, a)
		}
	case KindSong:
		for _, s := range u.FavoriteSongs {
			out = append(out, s)
		}
	case KindArtist:
		for _, a := range u.FavoriteArtists {
			out = append(out, a)
		}
	}
	return out
}

// Record converts the user to its stored form. Favorites lists are never nil.
func (u *User) Record() UserRecord {
	rec := UserRecord{
		UserID:          RecordID(u.UserID),
		Username:        u.Username,
		Email:           u.Email,
		Password:        u.Password,
		FavoriteAlbums:  make([]AlbumRecord, 0, len(u.FavoriteAlbums)),
		FavoriteSongs:   make([]SongRecord, 0, len(u.FavoriteSongs)),
		FavoriteArtists: make([]ArtistRecord, 0, len(u.FavoriteArtists)),
	}
	for _, a := range u.FavoriteAlbums {
		rec.FavoriteAlbums = append(rec.FavoriteAlbums, a.Record())
	}
	for _, s := range u.FavoriteSongs {
		rec.FavoriteSongs = append(rec.FavoriteSongs, s.Record())
	}
	for _, a := range u.FavoriteArtists {
		rec.FavoriteArtists = append(rec.FavoriteArtists, a.Record())
	}
	return rec
}

// ToMap returns the user as a generic mapping, each favorite rendered through its own ToMap.
func (u *User) ToMap() map[string]any {
	toMaps := func(es []Entity) []map[string]any {
		out := make([]map[string]any, 0, len(es))
		for _, e := range es {
			out = append(out, e.ToMap())
		}
		return out
	}
	return map[string]any{
		"user_id":          u.UserID,
		"username":         u.Username,
		"email":            u.Email,
		"password":         u.Password,
		"favorite_albums":  toMaps(u.Favorites(KindAlbum)),
		"favorite_songs":   toMaps(u.Favorites(KindSong)),
		"favorite_artists": toMaps(u.Favorites(KindArtist)),
	}
}
