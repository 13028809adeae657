// Package server provides HTTP routing, middleware, and the OAuth callback handler used by `interlude auth`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// [RequestLogger] reports each request through the application logger.
//
// # OAuth Callback Handler
//
// [OAuthHandler] completes the authorization code flow: it validates the state parameter,
// hands the code to a [TokenExchanger], and delivers the result through a channel.
// Only the first callback is processed.
//
// `interlude auth` starts a temporary server on the configured host and port, opens the browser,
// waits for the callback, then shuts the server down and stores the token in config.toml.
package server
