package audit

import (
	"fmt"
	"strconv"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// RoleLookup resolves role codes. *catalog.Catalog satisfies it.
type RoleLookup interface {
	Role(code string) (ir.RoleDefinition, error)
}

// ValidateSession checks a session roster against the catalog. Members are
// reported in the order given.
func ValidateSession(sessionID string, members []ir.Member, roles RoleLookup) []Issue {
	var issues []Issue
	for _, m := range members {
		issues = append(issues, ValidateMember(sessionID, m, roles)...)
	}
	return issues
}

// ValidateMember checks one member's roster entry.
func ValidateMember(sessionID string, m ir.Member, roles RoleLookup) []Issue {
	var issues []Issue

	if m.DistanceMiles == nil {
		issues = append(issues, Warning(CodeMissingDistance,
			fmt.Sprintf("member %s has no distance from the State House; travel cannot be computed", m.MemberID),
			"member_id", m.MemberID))
	}

	var chairs []string
	for _, a := range m.Roles {
		if a.SessionID != sessionID {
			issues = append(issues, Error(CodeSessionMismatch,
				fmt.Sprintf("assignment %s for member %s belongs to session %s", a.RoleCode, m.MemberID, a.SessionID),
				"member_id", m.MemberID, "role_code", a.RoleCode, "session_id", a.SessionID))
			continue
		}

		def, err := roles.Role(a.RoleCode)
		if err != nil {
			issues = append(issues, Error(CodeUnknownRoleCode,
				fmt.Sprintf("member %s holds unknown role code %s", m.MemberID, a.RoleCode),
				"member_id", m.MemberID, "role_code", a.RoleCode))
			continue
		}

		if def.Chamber != "" && def.Chamber != ir.ChamberJoint && def.Chamber != m.Chamber {
			issues = append(issues, Warning(CodeRoleChamberMismatch,
				fmt.Sprintf("member %s sits in the %s but holds %s role %s", m.MemberID, m.Chamber, def.Chamber, a.RoleCode),
				"member_id", m.MemberID, "role_code", a.RoleCode, "chamber", string(m.Chamber)))
		}
		if def.IsChair() {
			chairs = append(chairs, a.RoleCode)
		}
	}

	if len(chairs) > 1 {
		issues = append(issues, Warning(CodeMultipleChairRolesRaw,
			fmt.Sprintf("member %s holds %d chair roles before selection: %v", m.MemberID, len(chairs), chairs),
			"member_id", m.MemberID, "chair_count", strconv.Itoa(len(chairs))))
	}
	return issues
}
