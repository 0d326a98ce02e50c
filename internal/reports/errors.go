package reports

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("report not found")
	ErrForbidden          = errors.New("report belongs to another user")
	ErrInvalidFormat      = errors.New("invalid report format")
	ErrAnalysisNotReady   = errors.New("file has not been analyzed")
	ErrArtifactMissing    = errors.New("report artifact missing from storage")
	ErrGenerationFailed   = errors.New("report generation failed")
	ErrStorageUnavailable = errors.New("report storage unavailable")
	ErrDuplicate          = errors.New("report already exists for file and format")
)

// MapHTTPStatus converts domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrAnalysisNotReady), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
