package grocy

import (
	"errors"
	"fmt"
)

// Common gateway errors.
var (
	// ErrNotFound is returned when the backend has no record for the
	// requested product, barcode, or object. Grocy signals unknown barcodes
	// with a 400 response, so both 400 and 404 map here on lookups.
	ErrNotFound = errors.New("not found in catalog backend")
)

// APIError carries the status code and body excerpt of a non-2xx backend
// response that has no more specific mapping.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("grocy %s %s failed with status %d: %s",
		e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is the gateway's not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
