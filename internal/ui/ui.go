package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/interlude/internal/services"
	"github.com/desertthunder/interlude/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ReleaseListView ViewState = iota
	DetailView
	TopTracksView
)

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	catalog     services.Catalog
	open        func(url string) error
	width       int
	height      int
	releaseList list.Model
	trackList   list.Model
	selected    *services.SpotifyAlbum
	status      string
	err         error
	help        help.Model
	keys        keyMap
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.DisableQuitKeybindings()
	return l
}

// NewModel creates a browser over catalog. open launches links; nil uses [shared.OpenBrowser].
func NewModel(ctx context.Context, catalog services.Catalog, open func(string) error) *Model {
	if open == nil {
		open = shared.OpenBrowser
	}
	return &Model{
		ctx:         ctx,
		view:        ReleaseListView,
		catalog:     catalog,
		open:        open,
		releaseList: newList("New Releases"),
		trackList:   newList("Your Top Tracks"),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// State returns the active view.
func (m *Model) State() ViewState { return m.view }

// Init fetches the new releases.
func (m *Model) Init() tea.Cmd {
	return m.fetchReleases()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.releaseList.SetSize(msg.Width-4, msg.Height-4)
		m.trackList.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ReleaseListView:
			return m.handleReleaseKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case TopTracksView:
			return m.handleTrackKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgReleasesFetched:
		data := msg.data.(fetched[services.SpotifyAlbum])
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.items))
		for i, album := range data.items {
			items[i] = releaseItem{album: album}
		}
		m.err = nil
		m.status = fmt.Sprintf("%d releases", len(items))
		return m, m.releaseList.SetItems(items)

	case MsgTopTracksFetched:
		data := msg.data.(fetched[services.SpotifyTrack])
		if errors.Is(data.err, shared.ErrNotAuthenticated) {
			m.status = "Run `interlude auth` to see your top tracks."
			return m, nil
		}
		if data.err != nil {
			m.status = fmt.Sprintf("Could not load top tracks: %v", data.err)
			return m, nil
		}
		items := make([]list.Item, len(data.items))
		for i, track := range data.items {
			items[i] = trackItem{rank: i + 1, track: track}
		}
		m.view = TopTracksView
		m.status = ""
		return m, m.trackList.SetItems(items)

	case MsgLinkOpened:
		data := msg.data.(opened)
		if data.err != nil {
			m.status = fmt.Sprintf("Could not open %s: %v", data.url, data.err)
		} else {
			m.status = "Opened " + data.url
		}
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case ReleaseListView:
		return m.renderList(m.releaseList, m.keys.help(ReleaseListView)...)
	case DetailView:
		return m.renderDetail()
	case TopTracksView:
		return m.renderList(m.trackList, m.keys.help(TopTracksView)...)
	default:
		return ""
	}
}

func (m *Model) handleReleaseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.releaseList.SettingFilter() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.err = nil
		m.status = "Refreshing..."
		return m, m.fetchReleases()
	case m.err != nil:
		return m, nil
	case key.Matches(msg, m.keys.top):
		m.status = "Loading top tracks..."
		return m, m.fetchTopTracks()
	case key.Matches(msg, m.keys.details):
		if item, ok := m.releaseList.SelectedItem().(releaseItem); ok {
			album := item.album
			m.selected = &album
			m.view = DetailView
			m.status = ""
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ReleaseListView
		m.selected = nil
		m.status = ""
	case key.Matches(msg, m.keys.open):
		return m, m.openLink(m.selected.ExternalURLs.Spotify)
	}
	return m, nil
}

func (m *Model) handleTrackKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.SettingFilter() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ReleaseListView
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ReleaseListView:
		m.releaseList, cmd = m.releaseList.Update(msg)
	case TopTracksView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchReleases() tea.Cmd {
	return func() tea.Msg {
		releases, err := m.catalog.NewReleases(m.ctx)
		return releasesFetchedMsg(releases, err)
	}
}

func (m *Model) fetchTopTracks() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.catalog.TopTracks(m.ctx)
		return topTracksFetchedMsg(tracks, err)
	}
}

func (m *Model) openLink(url string) tea.Cmd {
	if url == "" {
		m.status = "No URL available"
		return nil
	}
	open := m.open
	return func() tea.Msg {
		return linkOpenedMsg(url, open(url))
	}
}

func (m *Model) renderList(l list.Model, bindings ...key.Binding) string {
	var b strings.Builder
	b.WriteString(l.View())
	if m.status != "" {
		b.WriteString("\n" + styles.status.Render(m.status))
	}
	b.WriteString("\n\n" + m.help.ShortHelpView(bindings))
	return b.String()
}

func (m *Model) renderDetail() string {
	a := m.selected
	if a == nil {
		return ""
	}

	row := func(label, value string) string {
		return styles.label.Render(label) + value + "\n"
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(orDefault(a.Name, "Unknown Album")) + "\n")
	b.WriteString(row("Artist(s)", orDefault(services.ArtistNames(a.Artists), "Unknown Artist")))
	b.WriteString(row("Released", orDefault(a.ReleaseDate, "Unknown Release Date")))
	b.WriteString(row("Tracks", fmt.Sprint(a.TotalTracks)))
	if a.AlbumType != "" {
		b.WriteString(row("Type", a.AlbumType))
	}
	b.WriteString(row("Listen Here", orDefault(a.ExternalURLs.Spotify, "No URL available")))

	if m.status != "" {
		b.WriteString("\n" + styles.status.Render(m.status) + "\n")
	}
	b.WriteString("\n" + styles.muted.Render(m.help.ShortHelpView(m.keys.help(DetailView))))
	return b.String()
}

// Run starts the browser in the alternate screen and blocks until it quits.
func Run(ctx context.Context, catalog services.Catalog) error {
	p := tea.NewProgram(NewModel(ctx, catalog, nil), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("release browser failed: %w", err)
	}
	return nil
}
