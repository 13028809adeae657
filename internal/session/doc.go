// Package session runs the interactive interlude session.
//
// A [Controller] loads the registry from a [repositories.Store], walks the user through account setup,
// then loops on the main menu until Save and Exit. Each menu entry is a small workflow:
//   - add favorite albums or songs, one search and rating at a time, until the list is full or the user types exit
//   - add a single favorite artist
//   - list new releases or the user's top tracks
//   - print the profile tables
//
// No failure ends the session. Catalog errors, rejected input and save errors are reported and the menu comes back.
//
// All questions go through a [Prompter]: [HuhPrompter] renders huh forms on a terminal,
// [LinePrompter] reads plain lines and is used for piped input and tests.
package session
