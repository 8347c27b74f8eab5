package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/arbowl/ma-legislature-stipends/internal/catalog"
	"github.com/arbowl/ma-legislature-stipends/internal/engine"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Build the catalog (built-in, unified with the scenario's CUE if any)
//  2. Build an engine over the scenario's adjustments
//  3. Select and aggregate every member in roster order
//  4. Evaluate expectations
//
// A member that fails to price is recorded in its Outcome, not returned as
// an error; only a broken scenario setup is.
func Run(scenario *Scenario) (*Result, error) {
	cat, err := buildCatalog(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	table, err := adjustmentTable(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build adjustments: %w", err)
	}
	eng := engine.New(cat, engine.WithAdjustments(table))

	result := NewResult()
	for _, step := range scenario.Members {
		m := step.member(scenario.Session)
		result.Outcomes = append(result.Outcomes, compute(eng, m, scenario.Session))
	}

	for _, e := range scenario.Expect {
		checkExpectation(result, e)
	}

	slog.Debug("scenario run",
		"scenario", scenario.Name,
		"members", len(scenario.Members),
		"pass", result.Pass,
	)
	return result, nil
}

func buildCatalog(s *Scenario) (*catalog.Catalog, error) {
	if s.Catalog == "" {
		return catalog.Default()
	}
	spec, err := catalog.CompileDefaultWith(s.Name+".cue", []byte(s.Catalog))
	if err != nil {
		return nil, err
	}
	return catalog.New(spec)
}

func adjustmentTable(s *Scenario) (engine.AdjustmentTable, error) {
	table := make(engine.AdjustmentTable, 0, len(s.Adjustments))
	for _, a := range s.Adjustments {
		f, err := ir.ParseFactor(a.Factor)
		if err != nil {
			return nil, err
		}
		table = append(table, ir.Adjustment{
			Kind:      ir.AdjustmentKind(a.Kind),
			SessionID: s.Session,
			Factor:    f,
			SourceID:  a.Source,
		})
	}
	return table, nil
}

func compute(eng *engine.Engine, m ir.Member, sessionID string) Outcome {
	sel, err := eng.Select(m, sessionID)
	if err != nil {
		return Outcome{MemberID: m.MemberID, Err: err}
	}
	res, err := eng.AggregateSelection(m, sel)
	if err != nil {
		return Outcome{MemberID: m.MemberID, Err: err}
	}
	return Outcome{MemberID: m.MemberID, Selection: sel, Result: res}
}

// ErrorCode returns the stable code of an engine or catalog error, or
// "ERROR" for anything else.
func ErrorCode(err error) string {
	var ee *engine.Error
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	var le *catalog.LookupError
	if errors.As(err, &le) {
		return string(le.Code)
	}
	return "ERROR"
}

func paidCodes(sel ir.PaidRoleSelection) []string {
	codes := make([]string, len(sel.PaidRoles))
	for i, rs := range sel.PaidRoles {
		codes[i] = rs.RoleCode
	}
	return codes
}

func checkExpectation(r *Result, e Expectation) {
	o, _ := r.Outcome(e.Member)

	if e.Error != "" {
		if o.Err == nil {
			r.AddError(fmt.Sprintf("%s: expected error %s, got total %d", e.Member, e.Error, o.Result.Total.Value))
			return
		}
		if code := ErrorCode(o.Err); code != e.Error {
			r.AddError(fmt.Sprintf("%s: expected error %s, got %s (%v)", e.Member, e.Error, code, o.Err))
		}
		return
	}
	if o.Err != nil {
		r.AddError(fmt.Sprintf("%s: unexpected error: %v", e.Member, o.Err))
		return
	}

	if e.Paid != nil {
		if got := paidCodes(o.Selection); !slices.Equal(got, e.Paid) {
			r.AddError(fmt.Sprintf("%s: paid roles: expected %v, got %v", e.Member, e.Paid, got))
		}
	}
	if e.Stipends != nil {
		c, _ := o.Result.Component(ir.LabelStipends)
		if c.Amount.Value != *e.Stipends {
			r.AddError(fmt.Sprintf("%s: stipends: expected %d, got %d", e.Member, *e.Stipends, c.Amount.Value))
		}
	}
	if e.Total != nil && o.Result.Total.Value != *e.Total {
		r.AddError(fmt.Sprintf("%s: total: expected %d, got %d", e.Member, *e.Total, o.Result.Total.Value))
	}
	for _, id := range e.Citations {
		if !o.Result.Total.Sources.Contains(id) {
			r.AddError(fmt.Sprintf("%s: total does not cite %s (cites %v)", e.Member, id, o.Result.Total.Sources.IDs()))
		}
	}

	for _, code := range slices.Sorted(maps.Keys(e.Reasons)) {
		want := ir.SelectionReason(e.Reasons[code])
		idx := slices.IndexFunc(o.Selection.Provenance, func(p ir.RoleSelectionProvenance) bool {
			return p.RoleCode == code
		})
		if idx < 0 {
			r.AddError(fmt.Sprintf("%s: no selection record for %s", e.Member, code))
			continue
		}
		if got := o.Selection.Provenance[idx].Reason; got != want {
			r.AddError(fmt.Sprintf("%s: %s: expected reason %s, got %s", e.Member, code, want, got))
		}
	}
}
