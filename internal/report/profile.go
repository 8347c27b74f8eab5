package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/arbowl/ma-legislature-stipends/internal/audit"
	"github.com/arbowl/ma-legislature-stipends/internal/engine"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// RoleLine is one of a member's role assignments as priced and selected.
type RoleLine struct {
	RoleCode string `json:"role_code"`
	Title    string `json:"title"`

	// TierID is empty for roles that carry no stipend.
	TierID         string             `json:"tier_id,omitempty"`
	BaseAmount     int64              `json:"base_amount"`
	AdjustedAmount int64              `json:"adjusted_amount"`
	Factor         string             `json:"adjustment_factor"`
	Paid           bool               `json:"paid"`
	PriceReason    string             `json:"price_reason,omitempty"`
	Selection      ir.SelectionReason `json:"selection,omitempty"`
	Sources        []string           `json:"sources"`
}

// Profile is everything known about one member's compensation in a session.
type Profile struct {
	MemberID      string     `json:"member_id"`
	Name          string     `json:"name"`
	Chamber       ir.Chamber `json:"chamber"`
	Party         ir.Party   `json:"party"`
	District      string     `json:"district,omitempty"`
	DistanceMiles *float64   `json:"distance_miles,omitempty"`
	SessionID     string     `json:"session_id"`

	Roles      []RoleLine              `json:"roles"`
	Components []ir.Component          `json:"components"`
	Total      ir.AmountWithProvenance `json:"total"`

	// TravelRule is the schedule band that applied, when known.
	TravelRule string `json:"travel_rule,omitempty"`

	Issues []audit.Issue `json:"issues"`

	SelectionDigest string `json:"selection_digest"`
	ResultDigest    string `json:"result_digest"`
}

// allowancer is implemented by *engine.TravelRule.
type allowancer interface {
	Allowance(m ir.Member, sessionID string) (ir.TravelAllowance, error)
}

// BuildProfile prices, selects and totals m's compensation and records the
// audit findings for the member alongside.
func BuildProfile(e *engine.Engine, m ir.Member, sessionID string) (*Profile, error) {
	sel, err := e.Select(m, sessionID)
	if err != nil {
		return nil, err
	}
	res, err := e.AggregateSelection(m, sel)
	if err != nil {
		return nil, err
	}

	selDigest, err := ir.SelectionDigest(sel)
	if err != nil {
		return nil, fmt.Errorf("selection digest: %w", err)
	}
	resDigest, err := ir.ResultDigest(res)
	if err != nil {
		return nil, fmt.Errorf("result digest: %w", err)
	}

	roles, err := roleLines(e, m, sessionID, sel)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		MemberID:        m.MemberID,
		Name:            m.Name,
		Chamber:         m.Chamber,
		Party:           m.Party,
		District:        m.District,
		DistanceMiles:   m.DistanceMiles,
		SessionID:       sessionID,
		Roles:           roles,
		Components:      res.Components,
		Total:           res.Total,
		Issues:          audit.ValidateMember(sessionID, m, e.Catalog()),
		SelectionDigest: selDigest,
		ResultDigest:    resDigest,
	}
	if p.Issues == nil {
		p.Issues = []audit.Issue{}
	}

	if tr, ok := e.TravelProvider().(allowancer); ok {
		a, err := tr.Allowance(m, sessionID)
		if err != nil {
			return nil, err
		}
		p.TravelRule = a.RuleApplied
	}
	return p, nil
}

// roleLines lists the member's assignments for the session: paid roles
// first in selection order, then the rest by adjusted amount descending.
func roleLines(e *engine.Engine, m ir.Member, sessionID string, sel ir.PaidRoleSelection) ([]RoleLine, error) {
	factor := ir.One
	if adj, ok := e.Adjustments().Adjustment(sessionID, ir.AdjustStipend); ok && adj.Factor.IsSet() {
		factor = adj.Factor
	}

	decisions := make(map[string]ir.RoleSelectionProvenance, len(sel.Provenance))
	for _, p := range sel.Provenance {
		decisions[p.RoleCode] = p
	}

	var paid, unpaid []RoleLine
	seen := make(map[string]bool, len(m.Roles))
	for _, a := range m.Roles {
		if a.SessionID != sessionID || seen[a.RoleCode] {
			continue
		}
		seen[a.RoleCode] = true

		def, err := e.Catalog().Role(a.RoleCode)
		if err != nil {
			return nil, err
		}
		line := RoleLine{
			RoleCode: a.RoleCode,
			Title:    def.Title,
			TierID:   def.StipendTierID,
			Factor:   factor.String(),
			Sources:  []string{},
		}

		rs, err := e.Price(a, sessionID)
		if err != nil {
			return nil, err
		}
		if rs != nil {
			base, err := e.Catalog().Tier(def.StipendTierID)
			if err != nil {
				return nil, err
			}
			line.BaseAmount = base.Value
			line.AdjustedAmount = rs.Amount.Value
			line.PriceReason = rs.Reason
			line.Sources = rs.Amount.Sources.IDs()
		}
		if d, ok := decisions[a.RoleCode]; ok {
			line.Paid = d.Selected
			line.Selection = d.Reason
			line.Sources = d.Sources.IDs()
		}

		if line.Paid {
			paid = append(paid, line)
		} else {
			unpaid = append(unpaid, line)
		}
	}

	// Paid lines follow selection order.
	order := make(map[string]int, len(sel.PaidRoles))
	for i, rs := range sel.PaidRoles {
		order[rs.RoleCode] = i
	}
	slices.SortFunc(paid, func(a, b RoleLine) int {
		return cmp.Compare(order[a.RoleCode], order[b.RoleCode])
	})
	slices.SortFunc(unpaid, func(a, b RoleLine) int {
		if n := cmp.Compare(b.AdjustedAmount, a.AdjustedAmount); n != 0 {
			return n
		}
		return strings.Compare(a.RoleCode, b.RoleCode)
	})

	return append(append([]RoleLine{}, paid...), unpaid...), nil
}
