package tmdb

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/cinelist/internal/shared"
)

// statusBody is the error payload TMDB returns with non-2xx responses.
type statusBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// APIError is a non-2xx TMDB response.
type APIError struct {
	StatusCode int
	// Code is TMDB's own status_code, not the HTTP status.
	Code          int
	StatusMessage string
}

func (e *APIError) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.StatusMessage)
	}
	return fmt.Sprintf("tmdb API error: status %d", e.StatusCode)
}

// Is matches [shared.ErrAPIRequest] for every status and [shared.ErrMovieNotFound] for 404.
func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrAPIRequest:
		return true
	case shared.ErrMovieNotFound:
		return e.StatusCode == http.StatusNotFound
	case shared.ErrServiceUnavailable:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// ErrorMessage returns a message fit for display: TMDB's status message when err carries
// one, else the error text, else fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusMessage != "" {
		return apiErr.StatusMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
