package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Chamber identifies a legislative chamber.
type Chamber string

const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
	ChamberJoint  Chamber = "joint"
)

// ParseChamber accepts "house", "senate" or "joint" in any case.
func ParseChamber(s string) (Chamber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "house":
		return ChamberHouse, nil
	case "senate":
		return ChamberSenate, nil
	case "joint":
		return ChamberJoint, nil
	default:
		return "", fmt.Errorf("unknown chamber value: %q", s)
	}
}

// Party is a member's party affiliation.
type Party string

const (
	PartyDemocrat   Party = "D"
	PartyRepublican Party = "R"
	PartyOther      Party = "Other"
	PartyUnknown    Party = "Unknown"
)

// ParseParty accepts D, R, O/other and unknown. Empty means Other, as in the
// published rosters where independents are listed without a party.
func ParseParty(s string) (Party, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d":
		return PartyDemocrat, nil
	case "r":
		return PartyRepublican, nil
	case "", "o", "other":
		return PartyOther, nil
	case "unknown":
		return PartyUnknown, nil
	default:
		return "", fmt.Errorf("unknown party value: %q", s)
	}
}

// RoleDomain is the high-level bucket of a role.
type RoleDomain string

const (
	DomainLeadership      RoleDomain = "LEADERSHIP"
	DomainCommittee       RoleDomain = "COMMITTEE"
	DomainPartyLeadership RoleDomain = "PARTY_LEADERSHIP"
	DomainOther           RoleDomain = "OTHER"
)

// ValidRoleDomains defines allowed role domains.
var ValidRoleDomains = map[RoleDomain]bool{
	DomainLeadership:      true,
	DomainCommittee:       true,
	DomainPartyLeadership: true,
	DomainOther:           true,
}

// CommitteeRoleType is a member's position within a committee.
type CommitteeRoleType string

const (
	CommitteeChair                    CommitteeRoleType = "CHAIR"
	CommitteeViceChair                CommitteeRoleType = "VICE_CHAIR"
	CommitteeRankingMinority          CommitteeRoleType = "RANKING_MINORITY"
	CommitteeAssistantViceChair       CommitteeRoleType = "ASSISTANT_VICE_CHAIR"
	CommitteeAssistantRankingMinority CommitteeRoleType = "ASSISTANT_RANKING_MINORITY"
	CommitteeMember                   CommitteeRoleType = "MEMBER"
)

// ValidCommitteeRoleTypes defines allowed committee role types.
var ValidCommitteeRoleTypes = map[CommitteeRoleType]bool{
	CommitteeChair:                    true,
	CommitteeViceChair:                true,
	CommitteeRankingMinority:          true,
	CommitteeAssistantViceChair:       true,
	CommitteeAssistantRankingMinority: true,
	CommitteeMember:                   true,
}

// Session is a two-year legislative term.
type Session struct {
	ID        string `json:"id"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	Label     string `json:"label,omitempty"`
}

// ParseSessionID builds a Session from an id like "2025-2026".
func ParseSessionID(id string) (Session, error) {
	startStr, endStr, ok := strings.Cut(id, "-")
	if !ok {
		return Session{}, fmt.Errorf("cannot parse session years from %q", id)
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return Session{}, fmt.Errorf("cannot parse session years from %q: %w", id, err)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return Session{}, fmt.Errorf("cannot parse session years from %q: %w", id, err)
	}
	if end < start {
		return Session{}, fmt.Errorf("session %q ends before it starts", id)
	}
	return Session{
		ID:        id,
		StartYear: start,
		EndYear:   end,
		Label:     fmt.Sprintf("%d-%d", start, end),
	}, nil
}

// RoleDefinition is a static catalog entry.
// StipendTierID, when non-empty, must name a tier in the catalog.
type RoleDefinition struct {
	Code              string            `json:"code"`
	Title             string            `json:"title"`
	Domain            RoleDomain        `json:"domain"`
	Chamber           Chamber           `json:"chamber,omitempty"`
	CommitteeCode     string            `json:"committee_code,omitempty"`
	CommitteeRoleType CommitteeRoleType `json:"committee_role_type,omitempty"`
	StipendTierID     string            `json:"stipend_tier_id,omitempty"`
}

// IsChair reports whether the role counts against a chamber's chair cap.
func (r RoleDefinition) IsChair() bool {
	return r.CommitteeRoleType == CommitteeChair
}

// HasStipend reports whether the role is priced at all.
func (r RoleDefinition) HasStipend() bool {
	return r.StipendTierID != ""
}

// StipendTier is a statutory base amount for a class of roles.
type StipendTier struct {
	ID         string `json:"id"`
	BaseAmount int64  `json:"base_amount"`
	SourceID   string `json:"source_id"`
}

// ChamberRules caps how many roles a member is paid for at once.
type ChamberRules struct {
	Chamber      Chamber   `json:"chamber"`
	MaxChairs    int       `json:"max_chairs"`
	MaxPositions int       `json:"max_positions"`
	Source       SourceRef `json:"source"`
}

// RoleAssignment records that a member held a role in a session.
type RoleAssignment struct {
	MemberID  string `json:"member_id"`
	RoleCode  string `json:"role_code"`
	SessionID string `json:"session_id"`
}

// Member is a legislator and the roles they hold.
type Member struct {
	MemberID      string           `json:"member_id"`
	Name          string           `json:"name"`
	Chamber       Chamber          `json:"chamber"`
	Party         Party            `json:"party"`
	District      string           `json:"district,omitempty"`
	DistanceMiles *float64         `json:"distance_miles_from_state_house,omitempty"`
	Roles         []RoleAssignment `json:"roles,omitempty"`
}

// AdjustmentKind names which statutory amount an adjustment applies to.
type AdjustmentKind string

const (
	AdjustStipend    AdjustmentKind = "stipend"
	AdjustBaseSalary AdjustmentKind = "base_salary"
	AdjustTravel     AdjustmentKind = "travel"
)

// Adjustment is a session's economic multiplier for one kind of amount.
// SourceID names the registry citation attached when Factor is not one.
type Adjustment struct {
	Kind      AdjustmentKind `json:"kind"`
	SessionID string         `json:"session_id"`
	Factor    Factor         `json:"factor"`
	SourceID  string         `json:"source_id,omitempty"`
	Note      string         `json:"note,omitempty"`
}

// RoleStipend is the priced value of one assignment. It is derived on every
// query and never stored.
type RoleStipend struct {
	RoleCode  string               `json:"role_code"`
	SessionID string               `json:"session_id"`
	Amount    AmountWithProvenance `json:"amount"`
	Reason    string               `json:"reason"`
}

// SelectionReason explains why a candidate was or was not paid.
type SelectionReason string

const (
	ReasonSelectedMaxValue     SelectionReason = "SELECTED_MAX_VALUE"
	ReasonDiscardedChairCap    SelectionReason = "DISCARDED_CHAIR_CAP"
	ReasonDiscardedPositionCap SelectionReason = "DISCARDED_POSITION_CAP"
	ReasonDiscardedLowerValue  SelectionReason = "DISCARDED_LOWER_VALUE"
)

// RoleSelectionProvenance is the decision record for one candidate.
type RoleSelectionProvenance struct {
	RoleCode string          `json:"role_code"`
	Selected bool            `json:"selected"`
	Reason   SelectionReason `json:"reason"`
	Notes    IRObject        `json:"notes"`
	Sources  SourceSet       `json:"sources"`
}

// PaidRoleSelection is the per-member, per-session decision snapshot.
type PaidRoleSelection struct {
	SessionID  string                    `json:"session_id"`
	MemberID   string                    `json:"member_id"`
	PaidRoles  []RoleStipend             `json:"paid_roles"`
	Total      int64                     `json:"total"`
	Provenance []RoleSelectionProvenance `json:"provenance"`
}

// Component labels, in result order.
const (
	LabelBaseSalary = "Base salary (Article CXVIII)"
	LabelStipends   = "Stipends (Section 9B)"
	LabelTravel     = "Travel (Section 9C)"
)

// Component is one labeled part of total compensation.
type Component struct {
	Label  string               `json:"label"`
	Amount AmountWithProvenance `json:"amount"`
}

// TotalCompResult is a member's full compensation for a session.
type TotalCompResult struct {
	MemberID   string               `json:"member_id"`
	SessionID  string               `json:"session_id"`
	Components []Component          `json:"components"`
	Total      AmountWithProvenance `json:"total"`
}

// Component returns the component with the given label.
func (r TotalCompResult) Component(label string) (Component, bool) {
	for _, c := range r.Components {
		if c.Label == label {
			return c, true
		}
	}
	return Component{}, false
}

// TravelAllowance is the §9C travel and expense amount for a member.
type TravelAllowance struct {
	MemberID      string               `json:"member_id"`
	SessionID     string               `json:"session_id"`
	Amount        AmountWithProvenance `json:"amount"`
	DistanceMiles float64              `json:"distance_miles"`
	RuleApplied   string               `json:"rule_applied"`
}
