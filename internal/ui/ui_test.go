package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/interlude/internal/services"
	"github.com/desertthunder/interlude/internal/shared"
	th "github.com/desertthunder/interlude/internal/testing"
)

func releases() []services.SpotifyAlbum {
	return []services.SpotifyAlbum{
		{
			Name:         "Fresh Album",
			AlbumType:    "album",
			Artists:      []services.SpotifyArtist{{Name: "New Band"}},
			ReleaseDate:  "2026-10-01",
			TotalTracks:  9,
			ExternalURLs: services.ExternalURLs{Spotify: "https://open.spotify.com/album/fresh"},
		},
		{Name: "Second Single", Artists: []services.SpotifyArtist{{Name: "Solo"}}, TotalTracks: 1},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model with the initial fetch applied.
func loaded(t *testing.T, catalog services.Catalog, open func(string) error) *Model {
	t.Helper()

	m := NewModel(context.Background(), catalog, open)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() returned nil command")
	}
	m.Update(cmd())
	return m
}

func TestModel(t *testing.T) {
	t.Run("init loads releases", func(t *testing.T) {
		catalog := &th.MockCatalog{Releases: releases()}
		m := loaded(t, catalog, nil)

		if got := len(m.releaseList.Items()); got != 2 {
			t.Fatalf("release list has %d items, want 2", got)
		}
		if m.State() != ReleaseListView {
			t.Errorf("State() = %v, want ReleaseListView", m.State())
		}
		if !strings.Contains(m.View(), "Fresh Album") {
			t.Error("View() should list the first release")
		}
	})

	t.Run("fetch error is shown", func(t *testing.T) {
		catalog := &th.MockCatalog{Err: shared.ErrServiceUnavailable}
		m := loaded(t, catalog, nil)

		if !errors.Is(m.err, shared.ErrServiceUnavailable) {
			t.Fatalf("err = %v, want ErrServiceUnavailable", m.err)
		}
		if !strings.Contains(m.View(), "Error:") {
			t.Error("View() should render the error")
		}

		catalog.Err = nil
		catalog.Releases = releases()
		_, cmd := m.Update(keyRunes("r"))
		if cmd == nil {
			t.Fatal("refresh should return a command")
		}
		m.Update(cmd())
		if m.err != nil {
			t.Errorf("err = %v after refresh, want nil", m.err)
		}
	})

	t.Run("enter opens details and esc goes back", func(t *testing.T) {
		m := loaded(t, &th.MockCatalog{Releases: releases()}, nil)

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.State() != DetailView {
			t.Fatalf("State() = %v, want DetailView", m.State())
		}
		view := m.View()
		for _, want := range []string{"Fresh Album", "New Band", "2026-10-01", "https://open.spotify.com/album/fresh"} {
			if !strings.Contains(view, want) {
				t.Errorf("detail view missing %q", want)
			}
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.State() != ReleaseListView {
			t.Errorf("State() = %v, want ReleaseListView", m.State())
		}
		if m.selected != nil {
			t.Error("selection should be cleared")
		}
	})

	t.Run("open launches the release link", func(t *testing.T) {
		var openedURL string
		open := func(url string) error {
			openedURL = url
			return nil
		}
		m := loaded(t, &th.MockCatalog{Releases: releases()}, open)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		_, cmd := m.Update(keyRunes("o"))
		if cmd == nil {
			t.Fatal("open should return a command")
		}
		m.Update(cmd())

		if openedURL != "https://open.spotify.com/album/fresh" {
			t.Errorf("opened %q", openedURL)
		}
		if !strings.Contains(m.status, "Opened") {
			t.Errorf("status = %q", m.status)
		}
	})

	t.Run("open without link", func(t *testing.T) {
		m := NewModel(context.Background(), &th.MockCatalog{}, func(string) error {
			t.Error("opener should not be called")
			return nil
		})
		m.Update(releasesFetchedMsg(releases()[1:], nil))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if _, cmd := m.Update(keyRunes("o")); cmd != nil {
			t.Error("open without URL should not return a command")
		}
		if m.status != "No URL available" {
			t.Errorf("status = %q", m.status)
		}
	})

	t.Run("top tracks", func(t *testing.T) {
		catalog := &th.MockCatalog{
			Releases: releases(),
			Tracks: []services.SpotifyTrack{
				{Name: "Idioteque", Artists: []services.SpotifyArtist{{Name: "Radiohead"}}, Album: services.SpotifyAlbum{Name: "Kid A"}, DurationMS: 309000},
			},
		}
		m := loaded(t, catalog, nil)

		_, cmd := m.Update(keyRunes("t"))
		m.Update(cmd())

		if m.State() != TopTracksView {
			t.Fatalf("State() = %v, want TopTracksView", m.State())
		}
		item, ok := m.trackList.Items()[0].(trackItem)
		if !ok {
			t.Fatalf("unexpected item type %T", m.trackList.Items()[0])
		}
		if item.Title() != "1. Idioteque" {
			t.Errorf("Title() = %q", item.Title())
		}
		if item.Description() != "Radiohead • Kid A • 5:09" {
			t.Errorf("Description() = %q", item.Description())
		}
	})

	t.Run("top tracks need auth", func(t *testing.T) {
		m := loaded(t, &th.MockCatalog{Releases: releases(), Unauthorized: true}, nil)

		_, cmd := m.Update(keyRunes("t"))
		m.Update(cmd())

		if m.State() != ReleaseListView {
			t.Errorf("State() = %v, want ReleaseListView", m.State())
		}
		if !strings.Contains(m.status, "interlude auth") {
			t.Errorf("status = %q", m.status)
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := loaded(t, &th.MockCatalog{Releases: releases()}, nil)

		_, cmd := m.Update(keyRunes("q"))
		if cmd == nil {
			t.Fatal("quit should return a command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("quit command should produce tea.QuitMsg")
		}
	})
}

func TestItems(t *testing.T) {
	item := releaseItem{album: releases()[0]}
	if item.Description() != "New Band • 2026-10-01 • 9 tracks" {
		t.Errorf("Description() = %q", item.Description())
	}
	if !strings.Contains(item.FilterValue(), "New Band") {
		t.Errorf("FilterValue() = %q", item.FilterValue())
	}

	empty := releaseItem{}
	if empty.Title() != "Unknown Album" {
		t.Errorf("Title() = %q", empty.Title())
	}
	if empty.Description() != "Unknown Artist • Unknown Release Date • 0 tracks" {
		t.Errorf("Description() = %q", empty.Description())
	}
}
