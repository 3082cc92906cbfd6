package domain

import "errors"

// Sentinel errors for classifying storage and Discord API failures.
// Lower layers wrap these so the CLI can handle error categories
// uniformly without importing driver or HTTP details.
//
//	return fmt.Errorf("guildstore: key %q already taken: %w", key, domain.ErrConflict)
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates Discord throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a uniqueness conflict, such as a key that
	// another entity of the same type already holds.
	ErrConflict = errors.New("conflict")

	// ErrAborted indicates the user cancelled an interactive prompt.
	ErrAborted = errors.New("aborted")
)
