package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Snapshot renders the outcomes of a run as canonical JSON. Only values,
// citation ids and selection decisions are included, so the snapshot is
// stable across changes to citation labels.
func Snapshot(scenarioName, sessionID string, result *Result) ([]byte, error) {
	members := make(ir.IRArray, len(result.Outcomes))
	for i, o := range result.Outcomes {
		members[i] = outcomeIRValue(o)
	}
	return ir.MarshalCanonical(ir.IRObject{
		"scenario": ir.IRString(scenarioName),
		"session":  ir.IRString(sessionID),
		"members":  members,
	})
}

func outcomeIRValue(o Outcome) ir.IRObject {
	if o.Err != nil {
		return ir.IRObject{
			"member_id": ir.IRString(o.MemberID),
			"error":     ir.IRString(ErrorCode(o.Err)),
		}
	}

	components := ir.IRObject{}
	for _, c := range o.Result.Components {
		components[componentKey(c.Label)] = ir.IRInt(c.Amount.Value)
	}

	selection := make(ir.IRArray, len(o.Selection.Provenance))
	for i, p := range o.Selection.Provenance {
		selection[i] = ir.IRObject{
			"role_code": ir.IRString(p.RoleCode),
			"selected":  ir.IRBool(p.Selected),
			"reason":    ir.IRString(string(p.Reason)),
		}
	}

	return ir.IRObject{
		"member_id":  ir.IRString(o.MemberID),
		"paid":       stringArray(paidCodes(o.Selection)),
		"components": components,
		"total":      ir.IRInt(o.Result.Total.Value),
		"sources":    stringArray(o.Result.Total.Sources.IDs()),
		"selection":  selection,
	}
}

func componentKey(label string) string {
	switch label {
	case ir.LabelBaseSalary:
		return "base_salary"
	case ir.LabelStipends:
		return "stipends"
	case ir.LabelTravel:
		return "travel"
	default:
		return label
	}
}

func stringArray(ss []string) ir.IRArray {
	arr := make(ir.IRArray, len(ss))
	for i, s := range ss {
		arr[i] = ir.IRString(s)
	}
	return arr
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.Session, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName, sessionID string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, sessionID, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)
	return nil
}
