package engine

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// candidate is a priced assignment eligible for payment.
type candidate struct {
	stipend ir.RoleStipend
	chair   bool
}

func (c candidate) code() string { return c.stipend.RoleCode }
func (c candidate) value() int64 { return c.stipend.Amount.Value }

// byValueDesc orders candidates by amount descending, then role code.
func byValueDesc(a, b candidate) int {
	if n := cmp.Compare(b.value(), a.value()); n != 0 {
		return n
	}
	return strings.Compare(a.code(), b.code())
}

// Select decides which of a member's roles are paid in a session.
//
// Assignments tagged with another session are ignored. A role code held
// more than once counts once. Every priced candidate gets exactly one
// provenance record, selected records first.
//
// With a single candidate no chamber rule is consulted. Otherwise the
// subset with the greatest total among those within the chamber's
// max_positions and max_chairs is paid; ties go to the lexicographically
// smallest sorted tuple of role codes. If no subset satisfies the caps the
// single most valuable candidate is paid and its record notes
// cap_overridden.
func (e *Engine) Select(m ir.Member, sessionID string) (ir.PaidRoleSelection, error) {
	sel := ir.PaidRoleSelection{
		SessionID:  sessionID,
		MemberID:   m.MemberID,
		PaidRoles:  []ir.RoleStipend{},
		Provenance: []ir.RoleSelectionProvenance{},
	}

	cands, err := e.candidates(m, sessionID)
	if err != nil {
		return ir.PaidRoleSelection{}, err
	}

	switch len(cands) {
	case 0:
		slog.Debug("no paid roles", "member", m.MemberID, "session", sessionID)
		return sel, nil

	case 1:
		c := cands[0]
		sel.PaidRoles = append(sel.PaidRoles, c.stipend)
		sel.Total = c.value()
		sel.Provenance = append(sel.Provenance, ir.RoleSelectionProvenance{
			RoleCode: c.code(),
			Selected: true,
			Reason:   ir.ReasonSelectedMaxValue,
			Notes: ir.NewIRObjectFromPairs(
				ir.O("amount", ir.IRInt(c.value())),
				ir.O("is_chair", ir.IRBool(c.chair)),
			),
			Sources: c.stipend.Amount.Sources,
		})
		slog.Debug("single paid role", "member", m.MemberID, "session", sessionID, "role", c.code(), "total", sel.Total)
		return sel, nil
	}

	rules := e.catalog.ChamberRules(m.Chamber)
	winners, overridden := bestSubset(cands, rules)
	slices.SortFunc(winners, byValueDesc)

	isWinner := make(map[string]bool, len(winners))
	winnerChairs := 0
	for _, w := range winners {
		isWinner[w.code()] = true
		if w.chair {
			winnerChairs++
		}
	}

	var losers []candidate
	for _, c := range cands {
		if !isWinner[c.code()] {
			losers = append(losers, c)
		}
	}
	slices.SortFunc(losers, byValueDesc)

	record := func(c candidate, selected bool, reason ir.SelectionReason) ir.RoleSelectionProvenance {
		notes := ir.NewIRObjectFromPairs(
			ir.O("amount", ir.IRInt(c.value())),
			ir.O("is_chair", ir.IRBool(c.chair)),
			ir.O("max_chairs", ir.IRInt(rules.MaxChairs)),
			ir.O("max_positions", ir.IRInt(rules.MaxPositions)),
		)
		if selected && overridden {
			notes["cap_overridden"] = ir.IRBool(true)
		}
		return ir.RoleSelectionProvenance{
			RoleCode: c.code(),
			Selected: selected,
			Reason:   reason,
			Notes:    notes,
			Sources:  c.stipend.Amount.Sources.With(rules.Source),
		}
	}

	for _, w := range winners {
		sel.PaidRoles = append(sel.PaidRoles, w.stipend)
		sel.Total += w.value()
		sel.Provenance = append(sel.Provenance, record(w, true, ir.ReasonSelectedMaxValue))
	}
	for _, l := range losers {
		var reason ir.SelectionReason
		switch {
		case l.chair && winnerChairs >= rules.MaxChairs:
			reason = ir.ReasonDiscardedChairCap
		case len(winners) >= rules.MaxPositions:
			reason = ir.ReasonDiscardedPositionCap
		default:
			reason = ir.ReasonDiscardedLowerValue
		}
		sel.Provenance = append(sel.Provenance, record(l, false, reason))
	}

	if overridden {
		slog.Warn("chair cap overridden: no role subset satisfies chamber rules",
			"member", m.MemberID,
			"session", sessionID,
			"chamber", m.Chamber,
			"role", winners[0].code(),
		)
	}
	slog.Debug("roles selected",
		"member", m.MemberID,
		"session", sessionID,
		"candidates", len(cands),
		"paid", len(winners),
		"total", sel.Total,
	)

	return sel, nil
}

// candidates prices the member's assignments for the session, dropping
// roles with no stipend. The result is ordered by role code.
func (e *Engine) candidates(m ir.Member, sessionID string) ([]candidate, error) {
	seen := make(map[string]bool, len(m.Roles))
	var cands []candidate
	for _, a := range m.Roles {
		if a.SessionID != sessionID || seen[a.RoleCode] {
			continue
		}
		seen[a.RoleCode] = true

		rs, role, err := e.price(a, sessionID)
		if err != nil {
			return nil, fmt.Errorf("pricing %s for member %s: %w", a.RoleCode, m.MemberID, err)
		}
		if rs == nil {
			continue
		}
		cands = append(cands, candidate{stipend: *rs, chair: role.IsChair()})
	}
	slices.SortFunc(cands, func(a, b candidate) int {
		return strings.Compare(a.code(), b.code())
	})
	return cands, nil
}

// bestSubset enumerates every subset of cands with 1..MaxPositions members
// and at most MaxChairs chairs, returning the one with the greatest total.
// cands must be sorted by role code so each subset's code tuple is already
// ascending. When nothing qualifies it returns the single most valuable
// candidate and overridden=true.
func bestSubset(cands []candidate, rules ir.ChamberRules) (winners []candidate, overridden bool) {
	codes := func(idx []int) []string {
		out := make([]string, len(idx))
		for i, n := range idx {
			out[i] = cands[n].code()
		}
		return out
	}

	var best, current []int
	var bestSum int64
	found := false

	var walk func(start int, sum int64, chairs int)
	walk = func(start int, sum int64, chairs int) {
		if len(current) > 0 {
			if !found || sum > bestSum || (sum == bestSum && slices.Compare(codes(current), codes(best)) < 0) {
				best = slices.Clone(current)
				bestSum = sum
				found = true
			}
		}
		if len(current) >= rules.MaxPositions {
			return
		}
		for i := start; i < len(cands); i++ {
			c := cands[i]
			nextChairs := chairs
			if c.chair {
				nextChairs++
			}
			if nextChairs > rules.MaxChairs {
				continue
			}
			current = append(current, i)
			walk(i+1, sum+c.value(), nextChairs)
			current = current[:len(current)-1]
		}
	}
	walk(0, 0, 0)

	if !found {
		top := slices.Clone(cands)
		slices.SortFunc(top, byValueDesc)
		return top[:1], true
	}

	winners = make([]candidate, len(best))
	for i, n := range best {
		winners[i] = cands[n]
	}
	return winners, false
}
