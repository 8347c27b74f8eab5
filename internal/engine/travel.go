package engine

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// AdjustmentPolicy controls when a travel adjustment factor is applied.
type AdjustmentPolicy string

const (
	// PolicyUpwardOnly applies travel factors only when they exceed one.
	PolicyUpwardOnly AdjustmentPolicy = "upward_only"

	// PolicyAlways applies travel factors in both directions, as stipends do.
	PolicyAlways AdjustmentPolicy = "always"
)

// ParseAdjustmentPolicy accepts "upward_only" and "always". Empty means
// PolicyUpwardOnly.
func ParseAdjustmentPolicy(s string) (AdjustmentPolicy, error) {
	switch AdjustmentPolicy(s) {
	case "", PolicyUpwardOnly:
		return PolicyUpwardOnly, nil
	case PolicyAlways:
		return PolicyAlways, nil
	default:
		return "", NewMalformedAdjustmentError("", string(ir.AdjustTravel),
			fmt.Sprintf("unknown travel adjustment policy %q", s))
	}
}

// TravelSchedule is the §9C distance schedule.
type TravelSchedule struct {
	ThresholdMiles float64
	NearAmount     int64
	FarAmount      int64
	SourceID       string
	Policy         AdjustmentPolicy
}

// DefaultTravelSchedule returns the statutory schedule: up to 50 miles from
// the State House pays $15,000, farther pays $20,000.
func DefaultTravelSchedule() TravelSchedule {
	return TravelSchedule{
		ThresholdMiles: 50.0,
		NearAmount:     15000,
		FarAmount:      20000,
		SourceID:       "MGL_3_9C",
		Policy:         PolicyUpwardOnly,
	}
}

// TravelRule computes travel allowances from a TravelSchedule.
type TravelRule struct {
	catalog     Catalog
	adjustments AdjustmentSource
	schedule    TravelSchedule
}

// NewTravelRule creates a travel provider. An unknown policy is a
// MALFORMED_ADJUSTMENT_CONFIG error.
func NewTravelRule(c Catalog, adjustments AdjustmentSource, schedule TravelSchedule) (*TravelRule, error) {
	policy, err := ParseAdjustmentPolicy(string(schedule.Policy))
	if err != nil {
		return nil, err
	}
	schedule.Policy = policy
	if math.IsNaN(schedule.ThresholdMiles) || math.IsInf(schedule.ThresholdMiles, 0) || schedule.ThresholdMiles < 0 {
		return nil, fmt.Errorf("travel threshold %v miles is not a non-negative number", schedule.ThresholdMiles)
	}
	if adjustments == nil {
		adjustments = NoAdjustments{}
	}
	return &TravelRule{catalog: c, adjustments: adjustments, schedule: schedule}, nil
}

// Allowance computes the member's travel allowance and records which band
// of the schedule applied.
func (r *TravelRule) Allowance(m ir.Member, sessionID string) (ir.TravelAllowance, error) {
	if m.DistanceMiles == nil {
		return ir.TravelAllowance{}, NewMissingDistanceError(m.MemberID, sessionID)
	}
	distance := *m.DistanceMiles

	src, err := r.catalog.Source(r.schedule.SourceID)
	if err != nil {
		return ir.TravelAllowance{}, err
	}

	var base int64
	var rule string
	if distance <= r.schedule.ThresholdMiles {
		base = r.schedule.NearAmount
		rule = fmt.Sprintf("distance %s <= %s miles -> $%d", formatMiles(distance), formatMiles(r.schedule.ThresholdMiles), base)
	} else {
		base = r.schedule.FarAmount
		rule = fmt.Sprintf("distance %s > %s miles -> $%d", formatMiles(distance), formatMiles(r.schedule.ThresholdMiles), base)
	}
	amount := ir.From(base, src)

	adj, err := resolveAdjustment(r.catalog, r.adjustments, sessionID, ir.AdjustTravel)
	if err != nil {
		return ir.TravelAllowance{}, err
	}
	if adj.source != nil {
		if r.schedule.Policy == PolicyAlways || adj.factor.GreaterThanOne() {
			amount, err = ir.Scale(amount, adj.factor, *adj.source)
			if err != nil {
				return ir.TravelAllowance{}, fmt.Errorf("adjusting travel: %w", err)
			}
			rule += fmt.Sprintf(", adjusted by factor %s", adj.factor)
		} else {
			slog.Debug("travel adjustment skipped by policy",
				"member", m.MemberID,
				"session", sessionID,
				"factor", adj.factor.String(),
				"policy", string(r.schedule.Policy),
			)
		}
	}

	return ir.TravelAllowance{
		MemberID:      m.MemberID,
		SessionID:     sessionID,
		Amount:        amount,
		DistanceMiles: distance,
		RuleApplied:   rule,
	}, nil
}

// Travel implements TravelProvider.
func (r *TravelRule) Travel(m ir.Member, sessionID string) (ir.AmountWithProvenance, error) {
	a, err := r.Allowance(m, sessionID)
	if err != nil {
		return ir.AmountWithProvenance{}, err
	}
	return a.Amount, nil
}

// Schedule returns the rule's schedule.
func (r *TravelRule) Schedule() TravelSchedule {
	return r.schedule
}

// formatMiles renders whole distances with one decimal ("10.0") and others
// in shortest form ("12.34").
func formatMiles(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
