package engine

import (
	"fmt"
	"log/slog"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Price computes the stipend for one role assignment.
//
// Returns (nil, nil) when the role carries no stipend. An unknown role code
// or tier is an error, never a zero amount. When the session's stipend
// factor is exactly one the tier amount is returned unchanged with no
// adjustment citation.
func (e *Engine) Price(a ir.RoleAssignment, sessionID string) (*ir.RoleStipend, error) {
	rs, _, err := e.price(a, sessionID)
	return rs, err
}

func (e *Engine) price(a ir.RoleAssignment, sessionID string) (*ir.RoleStipend, ir.RoleDefinition, error) {
	role, err := e.catalog.Role(a.RoleCode)
	if err != nil {
		return nil, ir.RoleDefinition{}, err
	}
	if !role.HasStipend() {
		return nil, role, nil
	}

	base, err := e.catalog.Tier(role.StipendTierID)
	if err != nil {
		return nil, role, err
	}

	adj, err := resolveAdjustment(e.catalog, e.adjustments, sessionID, ir.AdjustStipend)
	if err != nil {
		return nil, role, err
	}

	amount := base
	if adj.source != nil {
		amount, err = ir.Scale(base, adj.factor, *adj.source)
		if err != nil {
			return nil, role, fmt.Errorf("adjusting %s: %w", a.RoleCode, err)
		}
	}

	slog.Debug("role priced",
		"role", a.RoleCode,
		"session", sessionID,
		"tier", role.StipendTierID,
		"base", base.Value,
		"factor", adj.factor.String(),
		"amount", amount.Value,
	)

	return &ir.RoleStipend{
		RoleCode:  a.RoleCode,
		SessionID: sessionID,
		Amount:    amount,
		Reason:    fmt.Sprintf("Tier %s base %d adjusted by factor %s", role.StipendTierID, base.Value, adj.factor),
	}, role, nil
}
