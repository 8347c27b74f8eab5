package catalog

import (
	"errors"
	"fmt"
)

// LookupErrorCode categorizes failed catalog lookups.
type LookupErrorCode string

const (
	// ErrCodeUnknownRole indicates a role code with no catalog entry.
	ErrCodeUnknownRole LookupErrorCode = "UNKNOWN_ROLE_CODE"

	// ErrCodeUnknownTier indicates a stipend tier id with no catalog entry.
	ErrCodeUnknownTier LookupErrorCode = "UNKNOWN_STIPEND_TIER"

	// ErrCodeUnknownSource indicates a citation id with no registry entry.
	ErrCodeUnknownSource LookupErrorCode = "UNKNOWN_SOURCE"
)

// LookupError is returned when a catalog key does not resolve. The catalog
// never substitutes a default.
type LookupError struct {
	Code LookupErrorCode
	Key  string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: no catalog entry (key=%s)", e.Code, e.Key)
}

// IsLookupError reports whether err is a LookupError with the given code.
// Uses errors.As to handle wrapped errors.
func IsLookupError(err error, code LookupErrorCode) bool {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}
