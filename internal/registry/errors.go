package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means the registry API key is missing. All registry
	// operations fail fast with it rather than attempting anonymous access.
	ErrNotConfigured = errors.New("registry api key not configured")

	// ErrAuthRejected means the upstream rejected our credential twice in a
	// row: once before and once after a forced token refresh.
	ErrAuthRejected = errors.New("registry authentication rejected")

	// ErrMalformedExport means the export payload was missing or not
	// parseable as the expected structure.
	ErrMalformedExport = errors.New("malformed registry export")
)

// StatusError is a non-2xx upstream response other than the handled 401 case.
// The response body is preserved so callers can distinguish failure modes.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry returned status %d: %s", e.StatusCode, e.Body)
}
