// Package repositories holds the user [Registry] and the stores that persist it.
//
// Key Implementations:
//   - [Registry] : insertion-ordered username to user map with a monotonic id counter
//   - [JSONStore] : the default users.json document
//   - [SQLiteStore] : the same contract over an SQLite database with embedded migrations
//
// Both stores rebuild typed favorites on load. A missing or unreadable source is not fatal:
// Load returns an empty registry together with [shared.ErrNoUserData] or [shared.ErrInvalidUserData]
// so the caller can print a notice and continue.
package repositories
