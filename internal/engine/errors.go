package engine

import (
	"errors"
	"fmt"

	"github.com/arbowl/ma-legislature-stipends/internal/catalog"
)

// Error represents a collaborator failure detected while computing.
//
// Catalog misses are reported as *catalog.LookupError and pass through
// unchanged; Error covers the inputs the catalog does not own.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// MemberID identifies the affected member, when known.
	MemberID string

	// SessionID identifies the affected session, when known.
	SessionID string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeMissingDistance indicates travel was requested for a member
	// with no recorded distance from the State House.
	ErrCodeMissingDistance ErrorCode = "MISSING_DISTANCE_DATA"

	// ErrCodeMalformedAdjustment indicates an adjustment factor that is not
	// a positive finite number, or an unknown adjustment policy.
	ErrCodeMalformedAdjustment ErrorCode = "MALFORMED_ADJUSTMENT_CONFIG"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.MemberID != "" && e.SessionID != "" {
		return fmt.Sprintf("%s: %s (member=%s, session=%s)", e.Code, e.Message, e.MemberID, e.SessionID)
	}
	if e.SessionID != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.SessionID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMissingDistanceError creates an Error for a member without distance data.
func NewMissingDistanceError(memberID, sessionID string) *Error {
	return &Error{
		Code:      ErrCodeMissingDistance,
		Message:   "no distance from the State House on record",
		MemberID:  memberID,
		SessionID: sessionID,
	}
}

// NewMalformedAdjustmentError creates an Error for an unusable adjustment.
func NewMalformedAdjustmentError(sessionID, kind, detail string) *Error {
	return &Error{
		Code:      ErrCodeMalformedAdjustment,
		Message:   detail,
		SessionID: sessionID,
		Details: map[string]string{
			"kind": kind,
		},
	}
}

func isEngineError(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsMissingDistanceData returns true if err is a MISSING_DISTANCE_DATA error.
// Uses errors.As to handle wrapped errors.
func IsMissingDistanceData(err error) bool {
	return isEngineError(err, ErrCodeMissingDistance)
}

// IsMalformedAdjustment returns true if err is a MALFORMED_ADJUSTMENT_CONFIG
// error.
func IsMalformedAdjustment(err error) bool {
	return isEngineError(err, ErrCodeMalformedAdjustment)
}

// IsUnknownRoleCode returns true if err is a failed role lookup.
func IsUnknownRoleCode(err error) bool {
	return catalog.IsLookupError(err, catalog.ErrCodeUnknownRole)
}

// IsUnknownStipendTier returns true if err is a failed tier lookup.
func IsUnknownStipendTier(err error) bool {
	return catalog.IsLookupError(err, catalog.ErrCodeUnknownTier)
}

// IsUnknownSource returns true if err is a failed citation lookup.
func IsUnknownSource(err error) bool {
	return catalog.IsLookupError(err, catalog.ErrCodeUnknownSource)
}
