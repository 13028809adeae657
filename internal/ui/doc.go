// Package ui implements the new releases browser behind `interlude discover --tui`.
//
// The browser has three views:
//  1. [ReleaseListView] : Browse new releases, filterable with /
//  2. [DetailView] : Inspect one release and open it on Spotify
//  3. [TopTracksView] : The signed-in listener's top tracks (needs `interlude auth`)
//
// [Model] follows bubbletea's Init/Update/View cycle. Catalog calls run as commands and
// come back as [Msg] values.
package ui
