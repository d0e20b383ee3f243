package stageruns

import (
	"errors"
	"net/http"
)

// Domain errors for stage run operations.
var (
	ErrNotFound  = errors.New("stage run not found")
	ErrDuplicate = errors.New("stage run already exists")
)

// MapHTTPStatus maps stage run domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
