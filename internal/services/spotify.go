// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/desertthunder/interlude/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// listLimit bounds new releases and top tracks.
	listLimit = 10
)

// ScopeTopRead is the only user scope the catalog asks for.
const ScopeTopRead = "user-top-read"

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ExternalURLs holds the public links of a resource.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Genres       []string       `json:"genres"`
	Images       []SpotifyImage `json:"images"`
	Popularity   int            `json:"popularity"`
	URI          string         `json:"uri"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	AlbumType    string          `json:"album_type"`
	Artists      []SpotifyArtist `json:"artists"`
	ReleaseDate  string          `json:"release_date"`
	TotalTracks  int             `json:"total_tracks"`
	Images       []SpotifyImage  `json:"images"`
	URI          string          `json:"uri"`
	ExternalURLs ExternalURLs    `json:"external_urls"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   int             `json:"popularity"`
	URI          string          `json:"uri"`
	ExternalURLs ExternalURLs    `json:"external_urls"`
}

// ArtistNames joins the names of artists with ", ".
func ArtistNames(artists []SpotifyArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

type page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type searchResponse struct {
	Albums  page[SpotifyAlbum]  `json:"albums"`
	Tracks  page[SpotifyTrack]  `json:"tracks"`
	Artists page[SpotifyArtist] `json:"artists"`
}

type newReleasesResponse struct {
	Albums page[SpotifyAlbum] `json:"albums"`
}

// SpotifyOptions overrides endpoints and tuning. Zero values keep the defaults.
type SpotifyOptions struct {
	BaseURL           string
	AuthURL           string
	TokenURL          string
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Burst             int
	Market            string
}

// SpotifyService implements the [Catalog] interface for the Spotify Web API.
type SpotifyService struct {
	config     *oauth2.Config
	appSource  oauth2.TokenSource
	userSource oauth2.TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	market     string
	ctx        context.Context

	mu             sync.Mutex
	onTokenRefresh func(*oauth2.Token)
}

var _ Catalog = (*SpotifyService)(nil)

// NewSpotifyService creates a Spotify catalog from configured credentials.
//
// A stored user token in creds is installed right away.
func NewSpotifyService(creds shared.SpotifyConfig, opts SpotifyOptions) (*SpotifyService, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://127.0.0.1:8888/callback"
	}

	authURL := valueOr(opts.AuthURL, spotifyAuthURL)
	tokenURL := valueOr(opts.TokenURL, spotifyTokenURL)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// token fetches and refreshes go through the same client as API calls
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	app := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{ScopeTopRead},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		appSource:  app.TokenSource(ctx),
		httpClient: httpClient,
		baseURL:    strings.TrimRight(valueOr(opts.BaseURL, spotifyBaseURL), "/"),
		market:     opts.Market,
		ctx:        ctx,
	}

	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	if token := creds.Token(); token != nil {
		s.SetUserToken(token)
	}

	return s, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// OAuthConfig exposes the authorization-code configuration used by the callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a user token and installs it.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(context.WithValue(ctx, oauth2.HTTPClient, s.httpClient), code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	s.SetUserToken(token)
	return token, nil
}

// SetUserToken installs a user token. It is refreshed through the token endpoint once expired.
func (s *SpotifyService) SetUserToken(token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userSource = &refreshableTokenSource{
		source: s.config.TokenSource(s.ctx, token),
		last:   token.AccessToken,
		callback: func(t *oauth2.Token) {
			s.mu.Lock()
			cb := s.onTokenRefresh
			s.mu.Unlock()
			if cb != nil {
				cb(t)
			}
		},
	}
}

// HasUserToken reports whether a user token is installed.
func (s *SpotifyService) HasUserToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userSource != nil
}

// SetTokenRefreshCallback registers fn to run whenever the user token changes.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokenRefresh = fn
}

// refreshableTokenSource reports every new access token to callback.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	mu       sync.Mutex
	last     string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}
	return token, nil
}

func (s *SpotifyService) token(user bool) (*oauth2.Token, error) {
	if !user {
		token, err := s.appSource.Token()
		if err != nil {
			var re *oauth2.RetrieveError
			if errors.As(err, &re) {
				return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
			}
			return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
		}
		return token, nil
	}

	s.mu.Lock()
	source := s.userSource
	s.mu.Unlock()
	if source == nil {
		return nil, fmt.Errorf("%w: run `interlude auth` first", shared.ErrNotAuthenticated)
	}

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}
	return token, nil
}

// doRequest performs an authenticated GET against the Web API and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, query url.Values, user bool, result any) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
		}
	}

	token, err := s.token(user)
	if err != nil {
		return err
	}

	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized && user:
		return fmt.Errorf("%w: user token rejected", shared.ErrNotAuthenticated)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// search runs a field-filtered search such as album:<name>.
func (s *SpotifyService) search(ctx context.Context, kind, name string) (*searchResponse, error) {
	query := url.Values{}
	query.Set("q", kind+":"+name)
	query.Set("type", kind)
	query.Set("limit", "1")
	if s.market != "" {
		query.Set("market", s.market)
	}

	var response searchResponse
	if err := s.doRequest(ctx, "/search", query, false, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *SpotifyService) SearchAlbum(ctx context.Context, name string) (*AlbumResult, error) {
	response, err := s.search(ctx, "album", name)
	if err != nil {
		return nil, err
	}
	if len(response.Albums.Items) == 0 {
		return nil, fmt.Errorf("%w: album %q", shared.ErrNotFound, name)
	}

	album := response.Albums.Items[0]
	if len(album.Artists) == 0 {
		return nil, fmt.Errorf("%w: album %q has no artist", shared.ErrNotFound, name)
	}

	return &AlbumResult{
		Title:       album.Name,
		Artist:      album.Artists[0].Name,
		ReleaseDate: album.ReleaseDate,
		TotalTracks: album.TotalTracks,
	}, nil
}

func (s *SpotifyService) SearchSong(ctx context.Context, name string) (*SongResult, error) {
	response, err := s.search(ctx, "track", name)
	if err != nil {
		return nil, err
	}
	if len(response.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: song %q", shared.ErrNotFound, name)
	}

	track := response.Tracks.Items[0]
	if len(track.Artists) == 0 {
		return nil, fmt.Errorf("%w: song %q has no artist", shared.ErrNotFound, name)
	}

	return &SongResult{
		Title:      track.Name,
		Artist:     track.Artists[0].Name,
		Album:      track.Album.Name,
		DurationMS: track.DurationMS,
	}, nil
}

func (s *SpotifyService) SearchArtist(ctx context.Context, name string) (*SpotifyArtist, error) {
	response, err := s.search(ctx, "artist", name)
	if err != nil {
		return nil, err
	}
	if len(response.Artists.Items) == 0 {
		return nil, fmt.Errorf("%w: artist %q", shared.ErrNotFound, name)
	}

	artist := response.Artists.Items[0]
	return &artist, nil
}

func (s *SpotifyService) NewReleases(ctx context.Context) ([]SpotifyAlbum, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(listLimit))
	if s.market != "" {
		query.Set("country", s.market)
	}

	var response newReleasesResponse
	if err := s.doRequest(ctx, "/browse/new-releases", query, false, &response); err != nil {
		return nil, err
	}
	return response.Albums.Items, nil
}

func (s *SpotifyService) TopTracks(ctx context.Context) ([]SpotifyTrack, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(listLimit))

	var response page[SpotifyTrack]
	if err := s.doRequest(ctx, "/me/top/tracks", query, true, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}
