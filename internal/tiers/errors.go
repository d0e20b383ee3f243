package tiers

import (
	"errors"
	"net/http"
)

// Domain errors for tier snapshot operations.
var (
	ErrNotFound  = errors.New("tier snapshot not found")
	ErrDuplicate = errors.New("tier snapshot already exists")
)

// MapHTTPStatus maps tier domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
