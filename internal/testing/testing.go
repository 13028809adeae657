// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/interlude/internal/services"
	"github.com/desertthunder/interlude/internal/shared"
)

// MockCatalog is a test double for [services.Catalog] backed by lookup tables.
//
// Names missing from a table produce [shared.ErrNotFound]. Err, when set, is returned by every call.
type MockCatalog struct {
	Albums   map[string]*services.AlbumResult
	Songs    map[string]*services.SongResult
	Artists  map[string]*services.SpotifyArtist
	Releases []services.SpotifyAlbum
	Tracks   []services.SpotifyTrack
	Err      error
	// Unauthorized makes TopTracks fail as if no user token were present.
	Unauthorized bool

	mu    sync.Mutex
	calls []string
}

var _ services.Catalog = (*MockCatalog)(nil)

func (m *MockCatalog) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns every call made so far as "Method:argument".
func (m *MockCatalog) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockCatalog) SearchAlbum(ctx context.Context, name string) (*services.AlbumResult, error) {
	m.record("SearchAlbum:" + name)
	if m.Err != nil {
		return nil, m.Err
	}
	if a, ok := m.Albums[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: album %q", shared.ErrNotFound, name)
}

func (m *MockCatalog) SearchSong(ctx context.Context, name string) (*services.SongResult, error) {
	m.record("SearchSong:" + name)
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Songs[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: song %q", shared.ErrNotFound, name)
}

func (m *MockCatalog) SearchArtist(ctx context.Context, name string) (*services.SpotifyArtist, error) {
	m.record("SearchArtist:" + name)
	if m.Err != nil {
		return nil, m.Err
	}
	if a, ok := m.Artists[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: artist %q", shared.ErrNotFound, name)
}

func (m *MockCatalog) NewReleases(ctx context.Context) ([]services.SpotifyAlbum, error) {
	m.record("NewReleases")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Releases, nil
}

func (m *MockCatalog) TopTracks(ctx context.Context) ([]services.SpotifyTrack, error) {
	m.record("TopTracks")
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Unauthorized {
		return nil, fmt.Errorf("%w: no user token", shared.ErrNotAuthenticated)
	}
	return m.Tracks, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
