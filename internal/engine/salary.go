package engine

import (
	"fmt"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Base salary defaults under Article CXVIII.
const (
	DefaultBaseSalary       int64 = 62548
	DefaultBaseSalarySource       = "MGL_ART_CXVIII"
)

// StatutoryBaseSalary is the Article CXVIII base salary, scaled by the
// session's base salary adjustment.
type StatutoryBaseSalary struct {
	catalog     Catalog
	adjustments AdjustmentSource
	amount      int64
	sourceID    string
}

// NewStatutoryBaseSalary creates a base salary provider paying amount,
// cited to sourceID.
func NewStatutoryBaseSalary(c Catalog, adjustments AdjustmentSource, amount int64, sourceID string) *StatutoryBaseSalary {
	if adjustments == nil {
		adjustments = NoAdjustments{}
	}
	return &StatutoryBaseSalary{
		catalog:     c,
		adjustments: adjustments,
		amount:      amount,
		sourceID:    sourceID,
	}
}

// BaseSalary implements BaseSalaryProvider. Every member of a session gets
// the same amount.
func (b *StatutoryBaseSalary) BaseSalary(_ ir.Member, sessionID string) (ir.AmountWithProvenance, error) {
	src, err := b.catalog.Source(b.sourceID)
	if err != nil {
		return ir.AmountWithProvenance{}, err
	}
	amount := ir.From(b.amount, src)

	adj, err := resolveAdjustment(b.catalog, b.adjustments, sessionID, ir.AdjustBaseSalary)
	if err != nil {
		return ir.AmountWithProvenance{}, err
	}
	if adj.source == nil {
		return amount, nil
	}
	scaled, err := ir.Scale(amount, adj.factor, *adj.source)
	if err != nil {
		return ir.AmountWithProvenance{}, fmt.Errorf("adjusting base salary: %w", err)
	}
	return scaled, nil
}
