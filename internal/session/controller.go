package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/interlude/internal/models"
	"github.com/desertthunder/interlude/internal/repositories"
	"github.com/desertthunder/interlude/internal/services"
	"github.com/desertthunder/interlude/internal/shared"
)

// Menu keys.
const (
	actionCreate   = "create"
	actionLogin    = "login"
	actionExit     = "exit"
	actionAlbum    = "album"
	actionSong     = "song"
	actionArtist   = "artist"
	actionDiscover = "discover"
	actionProfile  = "profile"
	actionTop      = "top"
	actionSave     = "save"
)

var setupMenu = []Option{
	{Label: "Create Account", Key: actionCreate},
	{Label: "Login", Key: actionLogin},
	{Label: "Exit", Key: actionExit},
}

var mainMenu = []Option{
	{Label: "Add a Favorite Album", Key: actionAlbum},
	{Label: "Add a Favorite Song", Key: actionSong},
	{Label: "Add a Favorite Artist", Key: actionArtist},
	{Label: "Discover Music", Key: actionDiscover},
	{Label: "View Your Favourites", Key: actionProfile},
	{Label: "Top Tracks", Key: actionTop},
	{Label: "Save and Exit", Key: actionSave},
}

// DefaultEmail is given to every new account.
const DefaultEmail = "user@example.com"

// Config wires a [Controller]. Catalog may be nil when no credentials are configured.
type Config struct {
	Store    repositories.Store
	Catalog  services.Catalog
	Prompter Prompter
	Out      io.Writer
	Logger   *log.Logger
}

// Controller drives one interactive session.
type Controller struct {
	store    repositories.Store
	catalog  services.Catalog
	prompt   Prompter
	out      io.Writer
	logger   *log.Logger
	registry *repositories.Registry

	title   lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
}

func New(cfg Config) *Controller {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	r := lipgloss.NewRenderer(out)
	return &Controller{
		store:    cfg.Store,
		catalog:  cfg.Catalog,
		prompt:   cfg.Prompter,
		out:      out,
		logger:   shared.WithLogger(logger, "session", shared.GenerateID()),
		registry: repositories.NewRegistry(),
		title:    r.NewStyle().Bold(true),
		success:  r.NewStyle().Foreground(lipgloss.Color("#1DB954")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("#F2A900")),
	}
}

// Registry returns the registry the session works on.
func (c *Controller) Registry() *repositories.Registry {
	return c.registry
}

func (c *Controller) say(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Controller) good(format string, args ...any) {
	fmt.Fprintln(c.out, c.success.Render(fmt.Sprintf(format, args...)))
}

func (c *Controller) bad(format string, args ...any) {
	fmt.Fprintln(c.out, c.warn.Render(fmt.Sprintf(format, args...)))
}

// Run loads the registry, signs a user in and serves the main menu until Save and Exit.
//
// Closing input ends the session without saving. Only prompter I/O failures are returned.
func (c *Controller) Run(ctx context.Context) error {
	c.Load(ctx)

	user, err := c.accountSetup()
	if errors.Is(err, ErrAborted) {
		c.say("Goodbye!")
		return nil
	}
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	err = c.mainMenu(ctx, user)
	if errors.Is(err, ErrAborted) {
		c.bad("Input closed. Exiting without saving.")
		return nil
	}
	return err
}

// Load replaces the registry with the store's contents, printing a notice when starting fresh.
func (c *Controller) Load(ctx context.Context) {
	registry, err := c.store.Load(ctx)
	c.registry = registry

	switch {
	case err == nil:
		c.logger.Debug("loaded users", "count", registry.Len())
	case errors.Is(err, shared.ErrNoUserData):
		c.say("No previous user data found. Starting fresh.")
	case errors.Is(err, shared.ErrInvalidUserData):
		c.logger.Warn("user data could not be parsed", "error", err)
		c.say("Create an account to rate all your favourite music!")
	default:
		c.logger.Error("failed to load users", "error", err)
		c.bad("Could not load saved users: %v. Starting fresh.", err)
	}
}

// accountSetup returns the signed-in user, or nil when the user picks Exit.
func (c *Controller) accountSetup() (*models.User, error) {
	c.say("\nWelcome to %s", c.title.Render("interlude!"))

	for {
		choice, err := c.prompt.Select("Account", setupMenu)
		if err != nil {
			return nil, err
		}

		switch choice {
		case actionCreate:
			user, err := c.createAccount()
			if err != nil {
				if errors.Is(err, ErrAborted) {
					return nil, err
				}
				c.bad("Error creating account: %v", err)
				continue
			}
			return user, nil
		case actionLogin:
			user, err := c.login()
			if err != nil {
				if errors.Is(err, ErrAborted) {
					return nil, err
				}
				c.bad("Invalid username or password.")
				continue
			}
			return user, nil
		case actionExit:
			c.say("Goodbye!")
			return nil, nil
		}
	}
}

func (c *Controller) createAccount() (*models.User, error) {
	username, err := c.prompt.Input("Enter a username", validateInput)
	if err != nil {
		return nil, err
	}
	if c.registry.Has(username) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserExists, username)
	}

	password, err := c.prompt.Password("Enter a password", validateInput)
	if err != nil {
		return nil, err
	}

	user, err := c.registry.CreateUser(username, DefaultEmail, password)
	if err != nil {
		return nil, err
	}

	c.logger.Info("account created", "user", username, "id", user.UserID)
	c.good("Account created for %s.", username)
	return user, nil
}

func (c *Controller) login() (*models.User, error) {
	username, err := c.prompt.Input("Enter your username", validateInput)
	if err != nil {
		return nil, err
	}
	password, err := c.prompt.Password("Enter your password", validateInput)
	if err != nil {
		return nil, err
	}

	user, err := c.registry.Authenticate(username, password)
	if err != nil {
		c.logger.Debug("login failed", "user", username)
		return nil, err
	}
	if user.NeedsUpgrade() {
		c.logger.Warn("could not re-hash legacy password, keeping stored value", "user", username)
	}

	c.good("Welcome back %s!", username)
	return user, nil
}

func (c *Controller) mainMenu(ctx context.Context, user *models.User) error {
	for {
		choice, err := c.prompt.Select("Menu:", mainMenu)
		if err != nil {
			return err
		}

		switch choice {
		case actionAlbum:
			err = c.AddAlbums(ctx, user)
		case actionSong:
			err = c.AddSongs(ctx, user)
		case actionArtist:
			err = c.AddArtist(ctx, user)
		case actionDiscover:
			c.Discover(ctx)
		case actionProfile:
			RenderProfile(c.out, user)
		case actionTop:
			c.TopTracks(ctx)
		case actionSave:
			if c.Save(ctx) {
				c.say("Exiting...")
				return nil
			}
		}

		if err != nil {
			return err
		}
	}
}

func (c *Controller) catalogReady() bool {
	if c.catalog == nil {
		c.bad("Spotify is not configured. Add your client credentials with `interlude setup`.")
		return false
	}
	return true
}

// reportLookup prints a catalog failure other than not-found.
func (c *Controller) reportLookup(what string, err error) {
	c.logger.Warn("catalog request failed", "lookup", what, "error", err)
	switch {
	case errors.Is(err, shared.ErrServiceUnavailable):
		c.bad("Spotify could not be reached. Please try again later.")
	case errors.Is(err, shared.ErrAuthFailed):
		c.bad("Spotify rejected the client credentials. Check config.toml.")
	default:
		c.bad("Search for '%s' failed: %v", what, err)
	}
}

func isExit(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "exit")
}

// AddAlbums searches and rates albums until the list is full or the user types exit.
func (c *Controller) AddAlbums(ctx context.Context, user *models.User) error {
	if user.FavoriteCount(models.KindAlbum) >= models.MaxFavorites {
		c.say("You have already added %d favorite albums.", models.MaxFavorites)
		return nil
	}
	if !c.catalogReady() {
		return nil
	}

	for user.FavoriteCount(models.KindAlbum) < models.MaxFavorites {
		name, err := c.prompt.Input("Enter your favourite album's name (or type 'exit' to stop)", validateInput)
		if err != nil {
			return err
		}
		if isExit(name) {
			c.say("Excellent choices!\nExiting album addition.")
			return nil
		}

		c.say("Searching for album: %s", name)
		result, err := c.catalog.SearchAlbum(ctx, name)
		if errors.Is(err, shared.ErrNotFound) {
			c.bad("Album '%s' not found or data incomplete on Spotify.", name)
			continue
		}
		if err != nil {
			c.reportLookup(name, err)
			continue
		}

		c.say("Great choice! Here's the information on your album: %s by %s, released %s (%d tracks)",
			result.Title, result.Artist, result.ReleaseDate, result.TotalTracks)

		rating, err := c.promptRating("Rate this album out of 5")
		if err != nil {
			return err
		}

		album := models.NewAlbum(user.FavoriteCount(models.KindAlbum)+1, result.Title, result.Artist, result.ReleaseDate, "")
		album.SetRating(rating)
		user.AddFavoriteAlbum(album)
		c.good("Added %s with a rating of %s.", name, formatRating(rating))
	}

	c.good("Amazing work! You have added %d of your favorite albums!", models.MaxFavorites)
	return nil
}

// AddSongs searches and rates songs until the list is full or the user types exit.
func (c *Controller) AddSongs(ctx context.Context, user *models.User) error {
	if user.FavoriteCount(models.KindSong) >= models.MaxFavorites {
		c.say("You have already added %d favorite songs.", models.MaxFavorites)
		return nil
	}
	if !c.catalogReady() {
		return nil
	}

	for user.FavoriteCount(models.KindSong) < models.MaxFavorites {
		name, err := c.prompt.Input("Enter your favourite song's name (or type 'exit' to stop)", validateInput)
		if err != nil {
			return err
		}
		if isExit(name) {
			return nil
		}

		c.say("Searching for song: %s", name)
		result, err := c.catalog.SearchSong(ctx, name)
		if errors.Is(err, shared.ErrNotFound) {
			c.bad("Song '%s' not found or data incomplete on Spotify.", name)
			continue
		}
		if err != nil {
			c.reportLookup(name, err)
			continue
		}

		c.say("You picked: %s by %s from %s", result.Title, result.Artist, result.Album)

		rating, err := c.promptRating("Rate this song out of 5")
		if err != nil {
			return err
		}

		song := models.NewSong(user.FavoriteCount(models.KindSong)+1, result.Title, result.Artist, result.Album, result.DurationMS, "")
		song.SetRating(rating)
		user.AddFavoriteSong(song)
		c.good("Added %s with a rating of %s.", name, formatRating(rating))
	}

	c.good("Amazing work! You have picked %d of your favorite songs.", models.MaxFavorites)
	return nil
}

// AddArtist searches for one artist and adds it with its first listed genre.
func (c *Controller) AddArtist(ctx context.Context, user *models.User) error {
	if user.FavoriteCount(models.KindArtist) >= models.MaxFavorites {
		c.say("You have already added %d favorite artists.", models.MaxFavorites)
		return nil
	}
	if !c.catalogReady() {
		return nil
	}

	name, err := c.prompt.Input("Enter the name of the artist to add to favorites", validateInput)
	if err != nil {
		return err
	}

	result, err := c.catalog.SearchArtist(ctx, name)
	if errors.Is(err, shared.ErrNotFound) {
		c.bad("Artist '%s' not found.", name)
		return nil
	}
	if err != nil {
		c.reportLookup(name, err)
		return nil
	}

	genre := "Unknown"
	if len(result.Genres) > 0 && result.Genres[0] != "" {
		genre = result.Genres[0]
	}

	artist := models.NewArtist(user.FavoriteCount(models.KindArtist)+1, result.Name, genre)
	user.AddFavoriteArtist(artist)
	c.good("Artist '%s' added to %s's favorites.", artist.Name, user.Username)
	return nil
}

func (c *Controller) promptRating(title string) (float64, error) {
	answer, err := c.prompt.Input(title, validateRating)
	if err != nil {
		return 0, err
	}
	return parseRating(answer)
}

// Discover prints the latest releases.
func (c *Controller) Discover(ctx context.Context) {
	if !c.catalogReady() {
		return
	}

	c.say("\n%s\n", c.title.Render("New Releases:"))
	releases, err := c.catalog.NewReleases(ctx)
	if err != nil {
		c.reportLookup("new releases", err)
		return
	}
	if len(releases) == 0 {
		c.say("No new releases found.")
		return
	}
	RenderReleases(c.out, releases)
}

// TopTracks prints the user's most played tracks. It needs `interlude auth` to have run.
func (c *Controller) TopTracks(ctx context.Context) {
	if !c.catalogReady() {
		return
	}

	tracks, err := c.catalog.TopTracks(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		c.bad("Top tracks need Spotify authorization. Run `interlude auth` first.")
		return
	}
	if err != nil {
		c.reportLookup("top tracks", err)
		return
	}

	c.say("\n%s\n", c.title.Render("Your Top Tracks:"))
	if len(tracks) == 0 {
		c.say("No top tracks yet. Listen to some music first!")
		return
	}
	RenderTopTracks(c.out, tracks)
}

// Save writes the registry and reports the outcome. On failure the session keeps going.
func (c *Controller) Save(ctx context.Context) bool {
	if err := c.store.Save(ctx, c.registry); err != nil {
		c.logger.Error("failed to save users", "error", err)
		c.bad("Error saving users: %v", err)
		return false
	}

	c.logger.Info("saved users", "count", c.registry.Len())
	c.good("Thank you for sharing your favourites! Saved successfully.")
	return true
}
