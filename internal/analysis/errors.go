package analysis

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/compliance-reports/internal/blobs"
	"github.com/JaimeStill/compliance-reports/internal/files"
)

var (
	ErrNotFound        = errors.New("analysis not found")
	ErrAlreadyAnalyzed = errors.New("file already analyzed")
	ErrInProgress      = errors.New("analysis already in progress")
	ErrInvocation      = errors.New("analysis invocation failed")
	ErrFindingsMissing = errors.New("analysis findings missing from storage")
)

// MapHTTPStatus converts domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyAnalyzed), errors.Is(err, ErrInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrInvocation):
		return http.StatusBadGateway
	case errors.Is(err, blobs.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return files.MapHTTPStatus(err)
	}
}
