package engine

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbowl/ma-legislature-stipends/internal/catalog"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
	"github.com/arbowl/ma-legislature-stipends/internal/testutil"
)

var sourceSetComparer = cmp.Comparer(func(a, b ir.SourceSet) bool {
	return a.Equal(b)
})

func paidCodes(sel ir.PaidRoleSelection) []string {
	var out []string
	for _, rs := range sel.PaidRoles {
		out = append(out, rs.RoleCode)
	}
	return out
}

func reasons(sel ir.PaidRoleSelection) map[string]ir.SelectionReason {
	out := make(map[string]ir.SelectionReason, len(sel.Provenance))
	for _, p := range sel.Provenance {
		out[p.RoleCode] = p.Reason
	}
	return out
}

func TestSelectSingleLeadershipRole(t *testing.T) {
	e := New(testutil.Catalog(t))

	sel, err := e.Select(testutil.Member("M001", ir.ChamberHouse, "SPEAKER"), testutil.Session)
	require.NoError(t, err)

	assert.Equal(t, []string{"SPEAKER"}, paidCodes(sel))
	assert.Equal(t, int64(80000), sel.Total)
	require.Len(t, sel.Provenance, 1)

	rec := sel.Provenance[0]
	assert.True(t, rec.Selected)
	assert.Equal(t, ir.ReasonSelectedMaxValue, rec.Reason)
	assert.Equal(t, ir.IRObject{"amount": ir.IRInt(80000), "is_chair": ir.IRBool(false)}, rec.Notes)
	assert.Equal(t, []string{"MGL_3_9B"}, rec.Sources.IDs(), "single candidate cites no chamber rule")
}

func TestSelectHouseCapKeepsHighestPaid(t *testing.T) {
	e := New(testutil.Catalog(t))
	m := testutil.Member("M002", ir.ChamberHouse,
		"HOUSE_EDUCATION_CHAIR", "HOUSE_JUDICIARY_CHAIR", "HOUSE_ASSISTANT_MAJORITY_LEADER")

	sel, err := e.Select(m, testutil.Session)
	require.NoError(t, err)

	assert.Equal(t, []string{"HOUSE_ASSISTANT_MAJORITY_LEADER"}, paidCodes(sel))
	assert.Equal(t, int64(35000), sel.Total)

	require.Len(t, sel.Provenance, 3)
	assert.Equal(t, "HOUSE_ASSISTANT_MAJORITY_LEADER", sel.Provenance[0].RoleCode)
	assert.Equal(t, "HOUSE_EDUCATION_CHAIR", sel.Provenance[1].RoleCode)
	assert.Equal(t, "HOUSE_JUDICIARY_CHAIR", sel.Provenance[2].RoleCode)

	assert.Equal(t, map[string]ir.SelectionReason{
		"HOUSE_ASSISTANT_MAJORITY_LEADER": ir.ReasonSelectedMaxValue,
		"HOUSE_EDUCATION_CHAIR":           ir.ReasonDiscardedPositionCap,
		"HOUSE_JUDICIARY_CHAIR":           ir.ReasonDiscardedPositionCap,
	}, reasons(sel))

	for _, p := range sel.Provenance {
		assert.True(t, p.Sources.Contains("MGL_3_9B_MULTIPLE_POSITIONS"), p.RoleCode)
		maxChairs, ok := p.Notes.Int("max_chairs")
		require.True(t, ok)
		assert.Equal(t, int64(1), maxChairs)
	}
	isChair, _ := sel.Provenance[1].Notes.Bool("is_chair")
	assert.True(t, isChair)
}

func TestSelectNothingToPay(t *testing.T) {
	e := New(testutil.Catalog(t))

	otherSession := testutil.Member("M003", ir.ChamberSenate, "SENATE_PRESIDENT")
	otherSession.Roles[0].SessionID = "2023-2024"

	tests := []struct {
		name   string
		member ir.Member
	}{
		{"no roles", testutil.Member("M003", ir.ChamberSenate)},
		{"no stipend roles", testutil.Member("M003", ir.ChamberSenate, "SENATE_EDUCATION_MEMBER")},
		{"other session only", otherSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := e.Select(tt.member, testutil.Session)
			require.NoError(t, err)

			assert.Empty(t, sel.PaidRoles)
			assert.NotNil(t, sel.PaidRoles)
			assert.Equal(t, int64(0), sel.Total)
			assert.Empty(t, sel.Provenance)
			assert.Equal(t, "M003", sel.MemberID)
			assert.Equal(t, testutil.Session, sel.SessionID)
		})
	}
}

func TestSelectSenatePositionCap(t *testing.T) {
	e := New(testutil.Catalog(t))
	m := testutil.Member("S001", ir.ChamberSenate,
		"SENATE_RULES_CHAIR", "SENATE_WM_CHAIR", "SENATE_MAJORITY_LEADER", "SENATE_EDUCATION_CHAIR")

	sel, err := e.Select(m, testutil.Session)
	require.NoError(t, err)

	assert.Equal(t, []string{"SENATE_WM_CHAIR", "SENATE_MAJORITY_LEADER"}, paidCodes(sel))
	assert.Equal(t, int64(125000), sel.Total)
	assert.Equal(t, ir.ReasonDiscardedPositionCap, reasons(sel)["SENATE_RULES_CHAIR"])
	assert.Equal(t, ir.ReasonDiscardedPositionCap, reasons(sel)["SENATE_EDUCATION_CHAIR"])

	var order []string
	for _, p := range sel.Provenance {
		order = append(order, p.RoleCode)
	}
	assert.Equal(t, []string{"SENATE_WM_CHAIR", "SENATE_MAJORITY_LEADER", "SENATE_EDUCATION_CHAIR", "SENATE_RULES_CHAIR"}, order)
}

func TestSelectSenateChairCapAndTieBreak(t *testing.T) {
	e := New(testutil.Catalog(t))
	m := testutil.Member("S002", ir.ChamberSenate,
		"SENATE_WM_CHAIR", "SENATE_RULES_CHAIR", "SENATE_EDUCATION_CHAIR")

	sel, err := e.Select(m, testutil.Session)
	require.NoError(t, err)

	// WM+EDUCATION and WM+RULES both total 95000; EDUCATION sorts first.
	assert.Equal(t, []string{"SENATE_WM_CHAIR", "SENATE_EDUCATION_CHAIR"}, paidCodes(sel))
	assert.Equal(t, int64(95000), sel.Total)
	assert.Equal(t, ir.ReasonDiscardedChairCap, reasons(sel)["SENATE_RULES_CHAIR"])
}

func TestSelectLowerValue(t *testing.T) {
	c := testutil.CatalogWith(t,
		[]ir.StipendTier{{ID: "T0", BaseAmount: 0, SourceID: "MGL_3_9B"}},
		[]ir.RoleDefinition{{Code: "ZZ_CEREMONIAL", Title: "Ceremonial", Domain: ir.DomainOther, StipendTierID: "T0"}},
	)
	e := New(c)

	sel, err := e.Select(testutil.Member("S003", ir.ChamberSenate, "ZZ_CEREMONIAL", "SENATE_PRESIDENT"), testutil.Session)
	require.NoError(t, err)

	assert.Equal(t, []string{"SENATE_PRESIDENT"}, paidCodes(sel))
	assert.Equal(t, ir.ReasonDiscardedLowerValue, reasons(sel)["ZZ_CEREMONIAL"])
}

func TestSelectFallbackOverridesChairCap(t *testing.T) {
	spec, err := catalog.DefaultSpec()
	require.NoError(t, err)
	for i := range spec.ChamberRules {
		if spec.ChamberRules[i].Chamber == "house" {
			spec.ChamberRules[i].MaxChairs = 0
		}
	}
	c, err := catalog.New(spec)
	require.NoError(t, err)
	e := New(c)

	sel, err := e.Select(testutil.Member("H009", ir.ChamberHouse, "HOUSE_RULES_CHAIR", "HOUSE_EDUCATION_CHAIR"), testutil.Session)
	require.NoError(t, err)

	assert.Equal(t, []string{"HOUSE_EDUCATION_CHAIR"}, paidCodes(sel))
	assert.Equal(t, int64(30000), sel.Total)

	overridden, ok := sel.Provenance[0].Notes.Bool("cap_overridden")
	require.True(t, ok)
	assert.True(t, overridden)

	assert.Equal(t, ir.ReasonDiscardedChairCap, reasons(sel)["HOUSE_RULES_CHAIR"])
	_, ok = sel.Provenance[1].Notes.Bool("cap_overridden")
	assert.False(t, ok)
}

func TestSelectDuplicateAssignmentCountsOnce(t *testing.T) {
	e := New(testutil.Catalog(t))

	sel, err := e.Select(testutil.Member("S004", ir.ChamberSenate, "SENATE_RULES_CHAIR", "SENATE_RULES_CHAIR"), testutil.Session)
	require.NoError(t, err)

	assert.Equal(t, int64(30000), sel.Total)
	assert.Len(t, sel.Provenance, 1)
}

func TestSelectUnknownRolePropagates(t *testing.T) {
	e := New(testutil.Catalog(t))

	_, err := e.Select(testutil.Member("S005", ir.ChamberSenate, "SENATE_PRESIDENT", "NOT_A_ROLE"), testutil.Session)
	require.Error(t, err)
	assert.True(t, IsUnknownRoleCode(err))
}

// bruteForceBest is an independent reference: the greatest total over all
// subsets within the caps.
func bruteForceBest(t *testing.T, e *Engine, m ir.Member) int64 {
	t.Helper()
	type cand struct {
		value int64
		chair bool
	}
	var cands []cand
	for _, a := range m.Roles {
		rs, role, err := e.price(a, testutil.Session)
		require.NoError(t, err)
		if rs != nil {
			cands = append(cands, cand{rs.Amount.Value, role.IsChair()})
		}
	}
	rules := e.catalog.ChamberRules(m.Chamber)

	var best int64 = -1
	for mask := 1; mask < 1<<len(cands); mask++ {
		var sum int64
		n, chairs := 0, 0
		for i, c := range cands {
			if mask&(1<<i) != 0 {
				sum += c.value
				n++
				if c.chair {
					chairs++
				}
			}
		}
		if n <= rules.MaxPositions && chairs <= rules.MaxChairs && sum > best {
			best = sum
		}
	}
	return best
}

func TestSelectProperties(t *testing.T) {
	c := testutil.Catalog(t)
	e := New(c)

	var paid []string
	for _, r := range c.Roles() {
		if r.HasStipend() {
			paid = append(paid, r.Code)
		}
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 200; iter++ {
		chamber := ir.ChamberHouse
		if iter%2 == 1 {
			chamber = ir.ChamberSenate
		}
		n := 2 + rng.IntN(5)
		perm := rng.Perm(len(paid))[:n]
		codes := make([]string, n)
		for i, p := range perm {
			codes[i] = paid[p]
		}
		m := testutil.Member("P", chamber, codes...)

		sel, err := e.Select(m, testutil.Session)
		require.NoError(t, err)

		rules := c.ChamberRules(chamber)
		chairs := 0
		var total int64
		for _, rs := range sel.PaidRoles {
			role, err := c.Role(rs.RoleCode)
			require.NoError(t, err)
			if role.IsChair() {
				chairs++
			}
			total += rs.Amount.Value
		}

		assert.LessOrEqual(t, len(sel.PaidRoles), rules.MaxPositions, "positions cap")
		assert.LessOrEqual(t, chairs, rules.MaxChairs, "chair cap")
		assert.Equal(t, total, sel.Total)
		assert.Equal(t, bruteForceBest(t, e, m), sel.Total, "optimal for %v", codes)
		assert.Len(t, sel.Provenance, n, "one record per candidate")

		// input order must not matter
		shuffled := m
		shuffled.Roles = slices.Clone(m.Roles)
		rng.Shuffle(len(shuffled.Roles), func(i, j int) {
			shuffled.Roles[i], shuffled.Roles[j] = shuffled.Roles[j], shuffled.Roles[i]
		})
		again, err := e.Select(shuffled, testutil.Session)
		require.NoError(t, err)
		if diff := cmp.Diff(sel, again, sourceSetComparer); diff != "" {
			t.Fatalf("selection depends on input order (-first +second):\n%s", diff)
		}
	}
}
