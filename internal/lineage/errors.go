package lineage

import (
	"errors"
	"net/http"
)

// Domain errors for lineage operations.
var (
	ErrNotFound  = errors.New("lineage event not found")
	ErrDuplicate = errors.New("lineage event already exists")
)

// MapHTTPStatus maps lineage domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
