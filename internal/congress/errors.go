package congress

import "errors"

// Fetch failures are classified so the collector can decide whether a
// page is worth retrying. Use errors.Is to match.
var (
	// ErrAuth covers a missing API key and 401/403 responses. Never retried.
	ErrAuth = errors.New("congress: authentication failed")

	// ErrBadRequest covers 4xx responses other than auth. Never retried.
	ErrBadRequest = errors.New("congress: bad request")

	// ErrTransient covers network failures, timeouts and 5xx responses.
	ErrTransient = errors.New("congress: transient upstream failure")
)
