package shared

import "fmt"

var (
	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrNoTracks        = fmt.Errorf("no track IDs found")
	ErrTooManyTracks   = fmt.Errorf("too many track IDs")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest    = fmt.Errorf("API request failed")
	ErrTrackNotFound = fmt.Errorf("track not found")

	// Output errors
	ErrWriteFailed = fmt.Errorf("failed to write report")
)
