package engine

import (
	"fmt"
	"log/slog"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Aggregate computes a member's total compensation for a session.
//
// Components are always base salary, stipends and travel, in that order.
// The stipends component sums the paid roles and carries the citations of
// every selected provenance record, including the chamber rule that
// limited the selection. The grand total's citation set is exactly the
// union of the three components' sets.
func (e *Engine) Aggregate(m ir.Member, sessionID string) (ir.TotalCompResult, error) {
	sel, err := e.Select(m, sessionID)
	if err != nil {
		return ir.TotalCompResult{}, err
	}
	return e.AggregateSelection(m, sel)
}

// AggregateSelection is Aggregate for a selection the caller already holds.
func (e *Engine) AggregateSelection(m ir.Member, sel ir.PaidRoleSelection) (ir.TotalCompResult, error) {
	sessionID := sel.SessionID

	base, err := e.baseSalary.BaseSalary(m, sessionID)
	if err != nil {
		return ir.TotalCompResult{}, fmt.Errorf("base salary for member %s: %w", m.MemberID, err)
	}

	stipends := StipendsComponent(sel)

	travel, err := e.travel.Travel(m, sessionID)
	if err != nil {
		return ir.TotalCompResult{}, fmt.Errorf("travel for member %s: %w", m.MemberID, err)
	}

	res := ir.TotalCompResult{
		MemberID:  m.MemberID,
		SessionID: sessionID,
		Components: []ir.Component{
			{Label: ir.LabelBaseSalary, Amount: base},
			{Label: ir.LabelStipends, Amount: stipends},
			{Label: ir.LabelTravel, Amount: travel},
		},
		Total: ir.Sum(base, stipends, travel),
	}

	slog.Debug("total computed",
		"member", m.MemberID,
		"session", sessionID,
		"base", base.Value,
		"stipends", stipends.Value,
		"travel", travel.Value,
		"total", res.Total.Value,
	)
	return res, nil
}

// StipendsComponent sums a selection's paid roles and unions the citations
// of its selected provenance records.
func StipendsComponent(sel ir.PaidRoleSelection) ir.AmountWithProvenance {
	amounts := make([]ir.AmountWithProvenance, len(sel.PaidRoles))
	for i, rs := range sel.PaidRoles {
		amounts[i] = rs.Amount
	}
	total := ir.Sum(amounts...)
	for _, p := range sel.Provenance {
		if p.Selected {
			total = total.WithSources(p.Sources)
		}
	}
	return total
}
