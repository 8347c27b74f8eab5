// Package audit checks catalogs and session rosters for inconsistencies.
//
// Findings are values, not errors: a caller decides whether a warning blocks
// anything. Every check reports all findings rather than stopping at the
// first, and findings come back in a fixed order.
package audit

import (
	"fmt"
	"slices"
	"strings"
)

// Level is the severity of an Issue.
type Level string

const (
	LevelError   Level = "ERROR"
	LevelWarning Level = "WARNING"
)

// Issue codes.
const (
	CodeUnknownStipendTier    = "UNKNOWN_STIPEND_TIER"
	CodeUnknownSource         = "UNKNOWN_SOURCE"
	CodeDuplicateRoleCode     = "DUPLICATE_ROLE_CODE"
	CodeDuplicateRoleTitle    = "DUPLICATE_ROLE_TITLE"
	CodeDuplicateTierID       = "DUPLICATE_TIER_ID"
	CodeDuplicateSourceID     = "DUPLICATE_SOURCE_ID"
	CodeInvalidChamberRules   = "INVALID_CHAMBER_RULES"
	CodeNegativeTierAmount    = "NEGATIVE_TIER_AMOUNT"
	CodeUnknownRoleCode       = "UNKNOWN_ROLE_CODE"
	CodeMultipleChairRolesRaw = "MULTIPLE_CHAIR_ROLES_RAW"
	CodeMissingDistance       = "MISSING_DISTANCE"
	CodeRoleChamberMismatch   = "ROLE_CHAMBER_MISMATCH"
	CodeSessionMismatch       = "SESSION_MISMATCH"
)

// Issue is one audit finding.
type Issue struct {
	Level   Level             `json:"level"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Context map[string]string `json:"context,omitempty"`
}

// Error builds an error-level issue. ctx holds key/value pairs.
func Error(code, message string, ctx ...string) Issue {
	return Issue{Level: LevelError, Code: code, Message: message, Context: pairs(ctx)}
}

// Warning builds a warning-level issue. ctx holds key/value pairs.
func Warning(code, message string, ctx ...string) Issue {
	return Issue{Level: LevelWarning, Code: code, Message: message, Context: pairs(ctx)}
}

func pairs(kv []string) map[string]string {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

// String renders "ERROR UNKNOWN_ROLE_CODE: message (k=v, ...)" with context
// keys sorted.
func (i Issue) String() string {
	if len(i.Context) == 0 {
		return fmt.Sprintf("%s %s: %s", i.Level, i.Code, i.Message)
	}
	keys := make([]string, 0, len(i.Context))
	for k := range i.Context {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for n, k := range keys {
		parts[n] = k + "=" + i.Context[k]
	}
	return fmt.Sprintf("%s %s: %s (%s)", i.Level, i.Code, i.Message, strings.Join(parts, ", "))
}

// HasErrors reports whether any issue is error-level.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool {
		return i.Level == LevelError
	})
}

// Errors returns only the error-level issues.
func Errors(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Level == LevelError {
			out = append(out, i)
		}
	}
	return out
}
