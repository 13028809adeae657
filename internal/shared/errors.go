package shared

import "fmt"

var (
	// Configuration
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Spotify authorization
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Catalog lookups. ErrNotFound and ErrServiceUnavailable are both recoverable.
	ErrNotFound           = fmt.Errorf("no match found")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAPIRequest         = fmt.Errorf("API request failed")

	// User store. The first two are notices, not failures.
	ErrNoUserData      = fmt.Errorf("no previous user data found")
	ErrInvalidUserData = fmt.Errorf("user data is not valid JSON")
	ErrSaveFailed      = fmt.Errorf("failed to save users")
	ErrUnknownBackend  = fmt.Errorf("unknown storage backend")

	// Accounts
	ErrUserExists      = fmt.Errorf("username already taken")
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrInvalidPassword = fmt.Errorf("invalid username or password")

	// CLI arguments
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
