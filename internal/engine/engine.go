package engine

import (
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Catalog is the read-only lookup the engine prices against.
// Implemented by *catalog.Catalog.
type Catalog interface {
	Role(code string) (ir.RoleDefinition, error)
	Tier(id string) (ir.AmountWithProvenance, error)
	Source(id string) (ir.SourceRef, error)
	ChamberRules(chamber ir.Chamber) ir.ChamberRules
}

// BaseSalaryProvider supplies the Article CXVIII base salary component.
type BaseSalaryProvider interface {
	BaseSalary(member ir.Member, sessionID string) (ir.AmountWithProvenance, error)
}

// TravelProvider supplies the §9C travel component.
type TravelProvider interface {
	Travel(member ir.Member, sessionID string) (ir.AmountWithProvenance, error)
}

// Engine computes stipends, paid-role selections and totals.
//
// Thread-safety: an Engine has no mutable state and is safe for concurrent
// use as long as its collaborators are.
type Engine struct {
	catalog     Catalog
	adjustments AdjustmentSource
	baseSalary  BaseSalaryProvider
	travel      TravelProvider
}

// Option allows configuration of engine collaborators.
type Option func(*Engine)

// WithAdjustments sets the source of per-session adjustment factors.
//
// Default: NoAdjustments (every factor is exactly one).
func WithAdjustments(a AdjustmentSource) Option {
	return func(e *Engine) {
		e.adjustments = a
	}
}

// WithBaseSalary replaces the base salary provider.
//
// Default: StatutoryBaseSalary at DefaultBaseSalary.
func WithBaseSalary(p BaseSalaryProvider) Option {
	return func(e *Engine) {
		e.baseSalary = p
	}
}

// WithTravel replaces the travel provider.
//
// Default: TravelRule with DefaultTravelSchedule.
func WithTravel(p TravelProvider) Option {
	return func(e *Engine) {
		e.travel = p
	}
}

// New creates an Engine over the given catalog.
//
// Providers not supplied by options are built from the catalog and the
// configured AdjustmentSource.
func New(c Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:     c,
		adjustments: NoAdjustments{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.adjustments == nil {
		e.adjustments = NoAdjustments{}
	}
	if e.baseSalary == nil {
		e.baseSalary = NewStatutoryBaseSalary(c, e.adjustments, DefaultBaseSalary, DefaultBaseSalarySource)
	}
	if e.travel == nil {
		// DefaultTravelSchedule always has a known policy.
		e.travel, _ = NewTravelRule(c, e.adjustments, DefaultTravelSchedule())
	}
	return e
}

// Catalog returns the catalog the engine prices against.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Adjustments returns the engine's adjustment source.
func (e *Engine) Adjustments() AdjustmentSource {
	return e.adjustments
}

// TravelProvider returns the engine's travel provider.
func (e *Engine) TravelProvider() TravelProvider {
	return e.travel
}
