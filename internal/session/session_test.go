package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/interlude/internal/models"
	"github.com/desertthunder/interlude/internal/repositories"
	"github.com/desertthunder/interlude/internal/services"
	"github.com/desertthunder/interlude/internal/shared"
	th "github.com/desertthunder/interlude/internal/testing"
)

func TestMain(m *testing.M) {
	models.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func fakeCatalog() *th.MockCatalog {
	return &th.MockCatalog{
		Albums: map[string]*services.AlbumResult{
			"OK Computer": {Title: "OK Computer", Artist: "Radiohead", ReleaseDate: "1997-05-21", TotalTracks: 12},
			"Blue":        {Title: "Blue", Artist: "Joni Mitchell", ReleaseDate: "1971-06-22", TotalTracks: 10},
		},
		Songs: map[string]*services.SongResult{
			"Paranoid Android": {Title: "Paranoid Android", Artist: "Radiohead", Album: "OK Computer", DurationMS: 387000},
		},
		Artists: map[string]*services.SpotifyArtist{
			"Radiohead": {Name: "Radiohead", Genres: []string{"art rock", "alternative rock"}},
			"Nobody":    {Name: "Nobody"},
		},
		Releases: []services.SpotifyAlbum{
			{
				Name:         "Fresh Album",
				Artists:      []services.SpotifyArtist{{Name: "New Band"}},
				ReleaseDate:  "2026-10-01",
				TotalTracks:  9,
				ExternalURLs: services.ExternalURLs{Spotify: "https://open.spotify.com/album/fresh"},
			},
		},
		Tracks: []services.SpotifyTrack{
			{Name: "Everything In Its Right Place", Artists: []services.SpotifyArtist{{Name: "Radiohead"}}, Album: services.SpotifyAlbum{Name: "Kid A"}, DurationMS: 251000},
		},
	}
}

type fixture struct {
	controller *Controller
	out        *bytes.Buffer
	store      *repositories.JSONStore
}

func newFixture(t *testing.T, path string, catalog services.Catalog, script ...string) *fixture {
	t.Helper()

	if path == "" {
		path = filepath.Join(t.TempDir(), "users.json")
	}

	out := &bytes.Buffer{}
	store := repositories.NewJSONStore(path)
	input := strings.Join(script, "\n")
	if input != "" {
		input += "\n"
	}

	c := New(Config{
		Store:    store,
		Catalog:  catalog,
		Prompter: NewLinePrompter(strings.NewReader(input), out),
		Out:      out,
	})
	return &fixture{controller: c, out: out, store: store}
}

func (f *fixture) run(t *testing.T) string {
	t.Helper()
	if err := f.controller.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return f.out.String()
}

func (f *fixture) reload(t *testing.T) *repositories.Registry {
	t.Helper()
	registry, err := f.store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return registry
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q\n--- output ---\n%s", w, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, unwanted ...string) {
	t.Helper()
	for _, w := range unwanted {
		if strings.Contains(output, w) {
			t.Errorf("output unexpectedly contains %q", w)
		}
	}
}

// seedUsers writes a users file holding alice/pw1 and returns its path.
func seedUsers(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.json")
	registry := repositories.NewRegistry()
	if _, err := registry.CreateUser("alice", DefaultEmail, "pw1"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := repositories.NewJSONStore(path).Save(context.Background(), registry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return path
}

func TestAccountSetup(t *testing.T) {
	t.Run("exit leaves without writing", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "3")
		out := f.run(t)

		assertContains(t, out, "No previous user data found. Starting fresh.", "Welcome to", "Goodbye!")
		if _, err := os.Stat(f.store.Path()); !os.IsNotExist(err) {
			t.Errorf("users file should not exist, stat error = %v", err)
		}
	})

	t.Run("closed input says goodbye", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog())
		assertContains(t, f.run(t), "Goodbye!")
	})

	t.Run("invalid choice is repeated", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "9", "Exit")
		out := f.run(t)
		assertContains(t, out, "Invalid choice. Please try again.", "Goodbye!")
	})

	t.Run("create account and save", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "1", "alice", "pw1", "7")
		out := f.run(t)

		assertContains(t, out,
			"Account created for alice.",
			"Thank you for sharing your favourites! Saved successfully.",
			"Exiting...",
		)

		registry := f.reload(t)
		alice, ok := registry.Get("alice")
		if !ok {
			t.Fatal("alice was not saved")
		}
		if alice.UserID != 1 {
			t.Errorf("UserID = %d, want 1", alice.UserID)
		}
		if alice.Email != DefaultEmail {
			t.Errorf("Email = %q, want %q", alice.Email, DefaultEmail)
		}
		if alice.Password == "pw1" {
			t.Error("password should be stored hashed")
		}
		if !alice.CheckPassword("pw1") {
			t.Error("CheckPassword(pw1) = false, want true")
		}
	})

	t.Run("username length is validated", func(t *testing.T) {
		long := strings.Repeat("x", 51)
		f := newFixture(t, "", fakeCatalog(), "1", "", long, "bob", "pw", "7")
		out := f.run(t)

		if got := strings.Count(out, "Input must be between 1 and 50 characters."); got != 2 {
			t.Errorf("validation message printed %d times, want 2", got)
		}
		assertContains(t, out, "Account created for bob.")
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		f := newFixture(t, seedUsers(t), fakeCatalog(), "1", "alice", "3")
		out := f.run(t)

		assertContains(t, out, "already taken", "Goodbye!")
		if f.controller.Registry().Len() != 1 {
			t.Errorf("Len() = %d, want 1", f.controller.Registry().Len())
		}
	})

	t.Run("second account gets the next id", func(t *testing.T) {
		f := newFixture(t, seedUsers(t), fakeCatalog(), "1", "bob", "pw2", "7")
		f.run(t)

		bob, ok := f.reload(t).Get("bob")
		if !ok {
			t.Fatal("bob was not saved")
		}
		if bob.UserID != 2 {
			t.Errorf("UserID = %d, want 2", bob.UserID)
		}
	})

	t.Run("login", func(t *testing.T) {
		f := newFixture(t, seedUsers(t), fakeCatalog(), "2", "alice", "wrong", "2", "mallory", "pw1", "2", "alice", "pw1", "7")
		out := f.run(t)

		if got := strings.Count(out, "Invalid username or password."); got != 2 {
			t.Errorf("login failure printed %d times, want 2", got)
		}
		assertContains(t, out, "Welcome back alice!", "Saved successfully.")
		assertNotContains(t, out, "No previous user data found.")
	})

	t.Run("invalid users file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "users.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}

		f := newFixture(t, path, fakeCatalog(), "3")
		out := f.run(t)
		assertContains(t, out, "Create an account to rate all your favourite music!")
		assertNotContains(t, out, "No previous user data found.")
	})
}

func TestAddAlbums(t *testing.T) {
	t.Run("adds a rated album", func(t *testing.T) {
		catalog := fakeCatalog()
		f := newFixture(t, "", catalog, "1", "alice", "pw1", "1", "OK Computer", "4.5", "exit", "7")
		out := f.run(t)

		assertContains(t, out,
			"Searching for album: OK Computer",
			"Added OK Computer with a rating of 4.5.",
			"Excellent choices!\nExiting album addition.",
		)

		alice, _ := f.reload(t).Get("alice")
		if len(alice.FavoriteAlbums) != 1 {
			t.Fatalf("FavoriteAlbums has %d entries, want 1", len(alice.FavoriteAlbums))
		}
		album := alice.FavoriteAlbums[0]
		if album.Title != "OK Computer" || album.Artist != "Radiohead" || album.ReleaseDate != "1997-05-21" {
			t.Errorf("album = %+v", album)
		}
	})

	t.Run("not found and bad ratings re-prompt", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "1", "bob", "pw", "1", "Nope", "Blue", "ten", "7", "3", "exit", "7")
		out := f.run(t)

		assertContains(t, out,
			"Album 'Nope' not found or data incomplete on Spotify.",
			"Invalid rating. Please enter a number between 0 and 5.",
			"Please enter a rating between 0 and 5.",
			"Added Blue with a rating of 3.",
		)

		user, _ := f.controller.Registry().Get("bob")
		if user.FavoriteAlbums[0].Rating == nil || *user.FavoriteAlbums[0].Rating != 3 {
			t.Errorf("Rating = %v, want 3", user.FavoriteAlbums[0].Rating)
		}
	})

	t.Run("stops at five", func(t *testing.T) {
		catalog := fakeCatalog()
		script := []string{"1", "alice", "pw1", "1"}
		for i := range 5 {
			script = append(script, "Blue", fmt.Sprint(i))
		}
		script = append(script, "1", "7")

		f := newFixture(t, "", catalog, script...)
		out := f.run(t)

		assertContains(t, out,
			"Amazing work! You have added 5 of your favorite albums!",
			"You have already added 5 favorite albums.",
		)

		alice, _ := f.controller.Registry().Get("alice")
		if len(alice.FavoriteAlbums) != models.MaxFavorites {
			t.Errorf("FavoriteAlbums has %d entries, want %d", len(alice.FavoriteAlbums), models.MaxFavorites)
		}
		for i, a := range alice.FavoriteAlbums {
			if a.ID != i+1 {
				t.Errorf("album %d has ID %d", i, a.ID)
			}
		}
		if n := len(catalog.Calls()); n != 5 {
			t.Errorf("catalog called %d times, want 5", n)
		}
	})

	t.Run("provider failure keeps the session going", func(t *testing.T) {
		catalog := fakeCatalog()
		catalog.Err = fmt.Errorf("%w: dial tcp", shared.ErrServiceUnavailable)
		f := newFixture(t, "", catalog, "1", "alice", "pw1", "1", "Blue", "exit", "7")
		out := f.run(t)

		assertContains(t, out, "Spotify could not be reached.", "Saved successfully.")
	})

	t.Run("no catalog configured", func(t *testing.T) {
		f := newFixture(t, "", nil, "1", "alice", "pw1", "1", "7")
		out := f.run(t)
		assertContains(t, out, "Spotify is not configured.", "Saved successfully.")
	})
}

func TestAddSongs(t *testing.T) {
	t.Run("adds a rated song", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "1", "carol", "pw", "2", "Missing", "Paranoid Android", "5", "exit", "7")
		out := f.run(t)

		assertContains(t, out,
			"Song 'Missing' not found or data incomplete on Spotify.",
			"Added Paranoid Android with a rating of 5.",
		)

		carol, _ := f.reload(t).Get("carol")
		if len(carol.FavoriteSongs) != 1 {
			t.Fatalf("FavoriteSongs has %d entries, want 1", len(carol.FavoriteSongs))
		}
		song := carol.FavoriteSongs[0]
		if song.Album != "OK Computer" || song.DurationMS != 387000 {
			t.Errorf("song = %+v", song)
		}
		if song.ReleaseDate != nil {
			t.Errorf("ReleaseDate = %v, want nil", *song.ReleaseDate)
		}
	})

	t.Run("stops at five", func(t *testing.T) {
		script := []string{"1", "carol", "pw", "2"}
		for range 5 {
			script = append(script, "Paranoid Android", "4")
		}
		script = append(script, "2", "7")

		f := newFixture(t, "", fakeCatalog(), script...)
		out := f.run(t)
		assertContains(t, out,
			"Amazing work! You have picked 5 of your favorite songs.",
			"You have already added 5 favorite songs.",
		)
	})
}

func TestAddArtist(t *testing.T) {
	tests := []struct {
		name      string
		artist    string
		want      string
		wantGenre string
	}{
		{"first genre", "Radiohead", "Artist 'Radiohead' added to dave's favorites.", "art rock"},
		{"no genres", "Nobody", "Artist 'Nobody' added to dave's favorites.", "Unknown"},
		{"not found", "Ghost", "Artist 'Ghost' not found.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", fakeCatalog(), "1", "dave", "pw", "3", tt.artist, "7")
			out := f.run(t)
			assertContains(t, out, tt.want)

			dave, _ := f.controller.Registry().Get("dave")
			if tt.wantGenre == "" {
				if len(dave.FavoriteArtists) != 0 {
					t.Errorf("FavoriteArtists has %d entries, want 0", len(dave.FavoriteArtists))
				}
				return
			}
			if len(dave.FavoriteArtists) != 1 {
				t.Fatalf("FavoriteArtists has %d entries, want 1", len(dave.FavoriteArtists))
			}
			if got := *dave.FavoriteArtists[0].Genre; got != tt.wantGenre {
				t.Errorf("Genre = %q, want %q", got, tt.wantGenre)
			}
		})
	}

	t.Run("cap notice", func(t *testing.T) {
		script := []string{"1", "dave", "pw"}
		for range 5 {
			script = append(script, "3", "Radiohead")
		}
		script = append(script, "3", "7")

		f := newFixture(t, "", fakeCatalog(), script...)
		out := f.run(t)
		assertContains(t, out, "You have already added 5 favorite artists.")

		dave, _ := f.controller.Registry().Get("dave")
		if len(dave.FavoriteArtists) != models.MaxFavorites {
			t.Errorf("FavoriteArtists has %d entries, want %d", len(dave.FavoriteArtists), models.MaxFavorites)
		}
	})
}

func TestBrowsing(t *testing.T) {
	t.Run("discover", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "1", "erin", "pw", "4", "7")
		out := f.run(t)
		assertContains(t, out, "New Releases:", "Fresh Album", "New Band", "https://open.spotify.com/album/fresh", "Listen Here")
	})

	t.Run("discover without releases", func(t *testing.T) {
		catalog := fakeCatalog()
		catalog.Releases = nil
		f := newFixture(t, "", catalog, "1", "erin", "pw", "4", "7")
		assertContains(t, f.run(t), "No new releases found.")
	})

	t.Run("profile", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "1", "erin", "pw", "3", "Radiohead", "5", "7")
		out := f.run(t)
		assertContains(t, out,
			"Your Profile Information:",
			"Uh oh! You haven't added any favorite albums yet.",
			"Uh oh! You haven't added any favorite songs yet.",
			"Favorite Artists:",
			"art rock",
		)
	})

	t.Run("top tracks", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "1", "erin", "pw", "6", "7")
		out := f.run(t)
		assertContains(t, out, "Your Top Tracks:", "Everything In Its Right Place", "Kid A", "4:11")
	})

	t.Run("top tracks need auth", func(t *testing.T) {
		catalog := fakeCatalog()
		catalog.Unauthorized = true
		f := newFixture(t, "", catalog, "1", "erin", "pw", "6", "7")
		assertContains(t, f.run(t), "Run `interlude auth` first.")
	})
}

func TestSave(t *testing.T) {
	t.Run("failure stays in the menu", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "users.json")
		f := newFixture(t, path, fakeCatalog(), "1", "alice", "pw1", "7")
		out := f.run(t)

		assertContains(t, out, "Error saving users:", "Input closed. Exiting without saving.")
		assertNotContains(t, out, "Saved successfully.")
	})

	t.Run("closing input discards changes", func(t *testing.T) {
		f := newFixture(t, "", fakeCatalog(), "1", "alice", "pw1")
		f.run(t)

		if _, err := os.Stat(f.store.Path()); !os.IsNotExist(err) {
			t.Errorf("users file should not exist, stat error = %v", err)
		}
	})

	t.Run("legacy password is upgraded on save", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "users.json")
		legacy := `[{"user_id": 1, "username": "alice", "email": "user@example.com", "password": "pw1",` +
			` "favorite_albums": [], "favorite_songs": [], "favorite_artists": []}]`
		if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
			t.Fatal(err)
		}

		f := newFixture(t, path, fakeCatalog(), "2", "alice", "pw1", "7")
		assertContains(t, f.run(t), "Welcome back alice!")

		alice, _ := f.reload(t).Get("alice")
		if alice.Password == "pw1" || alice.NeedsUpgrade() {
			t.Error("password should be re-hashed after login")
		}
		if !alice.CheckPassword("pw1") {
			t.Error("CheckPassword(pw1) = false after upgrade")
		}
	})
}

func TestValidation(t *testing.T) {
	t.Run("huh input validates the trimmed value", func(t *testing.T) {
		validate := trimmed(validateInput)
		if err := validate("   "); err == nil {
			t.Error("expected blank input to be rejected")
		}
		if err := validate("  alice  "); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := validate(" " + strings.Repeat("a", 50) + " "); err != nil {
			t.Errorf("padding should not count towards the limit: %v", err)
		}
		if err := trimmed(nil)(""); err != nil {
			t.Errorf("nil validator should accept anything, got %v", err)
		}
	})

	t.Run("input length", func(t *testing.T) {
		tests := []struct {
			in      string
			wantErr bool
		}{
			{"", true},
			{"a", false},
			{strings.Repeat("a", 50), false},
			{strings.Repeat("a", 51), true},
			{strings.Repeat("é", 50), false},
		}
		for _, tt := range tests {
			if err := validateInput(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("validateInput(%d runes) error = %v, wantErr %v", len([]rune(tt.in)), err, tt.wantErr)
			}
		}
	})

	t.Run("ratings", func(t *testing.T) {
		tests := []struct {
			in      string
			want    float64
			wantErr bool
		}{
			{"0", 0, false},
			{"5", 5, false},
			{" 3.5 ", 3.5, false},
			{"-1", 0, true},
			{"5.1", 0, true},
			{"NaN", 0, true},
			{"five", 0, true},
		}
		for _, tt := range tests {
			got, err := parseRating(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseRating(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
				continue
			}
			if got != tt.want {
				t.Errorf("parseRating(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	})
}

func TestLinePrompter(t *testing.T) {
	options := []Option{{Label: "Create Account", Key: "create"}, {Label: "Login", Key: "login"}}

	t.Run("select by number label or key", func(t *testing.T) {
		for _, answer := range []string{"2", "login", "LOGIN", "Login"} {
			p := NewLinePrompter(strings.NewReader(answer+"\n"), &bytes.Buffer{})
			got, err := p.Select("Account", options)
			if err != nil {
				t.Fatalf("Select(%q) error = %v", answer, err)
			}
			if got != "login" {
				t.Errorf("Select(%q) = %q, want login", answer, got)
			}
		}
	})

	t.Run("select prints the menu", func(t *testing.T) {
		out := &bytes.Buffer{}
		p := NewLinePrompter(strings.NewReader("1\n"), out)
		if _, err := p.Select("Account", options); err != nil {
			t.Fatal(err)
		}
		assertContains(t, out.String(), "1. Create Account", "2. Login", "Enter your choice (1/2): ")
	})

	t.Run("last line without newline", func(t *testing.T) {
		p := NewLinePrompter(strings.NewReader("hello"), &bytes.Buffer{})
		got, err := p.Input("Say", nil)
		if err != nil || got != "hello" {
			t.Errorf("Input() = %q, %v", got, err)
		}
	})

	t.Run("eof aborts", func(t *testing.T) {
		p := NewLinePrompter(strings.NewReader(""), &bytes.Buffer{})
		if _, err := p.Input("Say", nil); !errors.Is(err, ErrAborted) {
			t.Errorf("Input() error = %v, want ErrAborted", err)
		}
		if _, err := p.Select("Menu", options); !errors.Is(err, ErrAborted) {
			t.Errorf("Select() error = %v, want ErrAborted", err)
		}
	})

	t.Run("password keeps spaces", func(t *testing.T) {
		p := NewLinePrompter(strings.NewReader(" secret \n"), &bytes.Buffer{})
		got, err := p.Password("Password", validateInput)
		if err != nil {
			t.Fatal(err)
		}
		if got != " secret " {
			t.Errorf("Password() = %q, want %q", got, " secret ")
		}
	})
}
