// Package models defines the entities a user can rate and the user profile that owns them.
//
// Entities form a closed set:
//   - [Album] : serialized as title, artist and release_date only
//   - [Song] : serialized with every field, including id
//   - [Artist] : serialized as id, name and genre
//
// The per-kind field sets match the users.json format written by earlier releases and must not drift.
// Each entity also has a record type ([AlbumRecord], [SongRecord], [ArtistRecord]) that fixes JSON key order,
// and a FromRecord constructor that rebuilds the typed entity on load.
//
// A [User] owns at most [MaxFavorites] entities per kind. Adding past the cap is not an error:
// the add methods report false and leave the favorites untouched.
//
// Passwords are stored as bcrypt hashes. Values written by older releases in plain text are still
// accepted by [User.CheckPassword] and re-hashed through [User.UpgradePassword] on the next successful login.
package models
