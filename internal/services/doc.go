// Package services defines the [Catalog] interface and implements it for the Spotify Web API.
//
// # Spotify Implementation
//
// [SpotifyService] talks to the Web API with two token sources:
//   - an app token from the client-credentials grant, used for search and new releases
//   - an optional user token from the authorization-code grant, required for top tracks
//
// Both are [oauth2.TokenSource] values that refresh themselves once expired.
// [SpotifyService.SetTokenRefreshCallback] lets the caller persist a refreshed user token.
//
// Requests pass through a client-side [rate.Limiter] before they are sent.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotFound] : search returned no usable item
//   - [shared.ErrNotAuthenticated] : user token missing, expired or rejected
//   - [shared.ErrServiceUnavailable] : transport failure or limiter wait aborted
//   - [shared.ErrAPIRequest] : non-2xx response
//   - [shared.ErrAuthFailed] : the token endpoint rejected the client credentials
//
// None of these are fatal to the session; callers print a diagnostic and carry on.
package services
