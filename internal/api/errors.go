package api

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned for any upstream response outside the 2xx range.
// Interpreting the status (401 as signed out, etc.) is left to the caller.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error! status: %d", e.StatusCode)
}

// StatusCode returns the upstream status carried by err, or 0 if err is not
// an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is an upstream 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// CheckResponse returns an *HTTPError when res is not a 2xx response.
func CheckResponse(res *http.Response) error {
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &HTTPError{StatusCode: res.StatusCode}
	}
	return nil
}
