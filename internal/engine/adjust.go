package engine

import (
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Default citation ids attached when an adjustment names none.
const (
	StipendAdjustmentSource    = "STIPEND_AMOUNT_ADJUSTMENT"
	BaseSalaryAdjustmentSource = "BASE_SALARY_ADJUSTMENT"
	TravelAdjustmentSource     = "TRAVEL_ADJUSTMENT"
)

// AdjustmentSource looks up a session's economic adjustment. ok is false
// when the session has no adjustment of that kind, which means a factor of
// exactly one. An ok adjustment without a set factor is malformed.
// Implemented by *config.Config and AdjustmentTable.
type AdjustmentSource interface {
	Adjustment(sessionID string, kind ir.AdjustmentKind) (adj ir.Adjustment, ok bool)
}

// NoAdjustments reports no adjustment for any session.
type NoAdjustments struct{}

// Adjustment implements AdjustmentSource.
func (NoAdjustments) Adjustment(string, ir.AdjustmentKind) (ir.Adjustment, bool) {
	return ir.Adjustment{}, false
}

// AdjustmentTable is an in-memory AdjustmentSource. The first entry matching
// session and kind wins.
type AdjustmentTable []ir.Adjustment

// Adjustment implements AdjustmentSource.
func (t AdjustmentTable) Adjustment(sessionID string, kind ir.AdjustmentKind) (ir.Adjustment, bool) {
	for _, a := range t {
		if a.SessionID == sessionID && a.Kind == kind {
			return a, true
		}
	}
	return ir.Adjustment{}, false
}

// resolvedFactor is a factor plus the citation to attach when applying it.
// source is nil when the factor is exactly one.
type resolvedFactor struct {
	factor ir.Factor
	source *ir.SourceRef
	note   string
}

// resolveAdjustment finds the session's factor for kind and resolves its
// citation against the catalog.
func resolveAdjustment(c Catalog, adjustments AdjustmentSource, sessionID string, kind ir.AdjustmentKind) (resolvedFactor, error) {
	adj, ok := adjustments.Adjustment(sessionID, kind)
	if !ok {
		return resolvedFactor{factor: ir.One}, nil
	}
	if !adj.Factor.IsSet() {
		return resolvedFactor{}, NewMalformedAdjustmentError(sessionID, string(kind),
			string(kind)+" adjustment has no usable factor: "+adj.Note)
	}
	if adj.Factor.Sign() <= 0 {
		return resolvedFactor{}, NewMalformedAdjustmentError(sessionID, string(kind),
			"adjustment factor "+adj.Factor.String()+" is not positive")
	}
	if adj.Factor.IsOne() {
		return resolvedFactor{factor: ir.One, note: adj.Note}, nil
	}

	sourceID := adj.SourceID
	if sourceID == "" {
		sourceID = defaultAdjustmentSource(kind)
	}
	src, err := c.Source(sourceID)
	if err != nil {
		return resolvedFactor{}, err
	}
	return resolvedFactor{factor: adj.Factor, source: &src, note: adj.Note}, nil
}

func defaultAdjustmentSource(kind ir.AdjustmentKind) string {
	switch kind {
	case ir.AdjustBaseSalary:
		return BaseSalaryAdjustmentSource
	case ir.AdjustTravel:
		return TravelAdjustmentSource
	default:
		return StipendAdjustmentSource
	}
}
