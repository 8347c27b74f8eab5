package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

func TestCompileCatalogBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		source: MGL_3_9B: {
			label: "Mass. Gen. Laws c.3 S9B"
			kind:  "STATUTE"
			url:   "https://malegislature.gov/Laws/GeneralLaws/PartI/TitleI/Chapter3/Section9B"
			details: ["leadership", "committees"]
		}

		tier: T30K: {
			base_amount: 30000
			source:      "MGL_3_9B"
		}

		role: HOUSE_RULES_CHAIR: {
			title:          "House Chair, House Committee on Rules"
			domain:         "COMMITTEE"
			chamber:        "house"
			committee:      "RULES_HOUSE"
			committee_role: "CHAIR"
			stipend_tier:   "T30K"
		}

		role: HOUSE_RULES_MEMBER: {
			title:          "Member, House Committee on Rules"
			domain:         "COMMITTEE"
			chamber:        "house"
			committee:      "RULES_HOUSE"
			committee_role: "MEMBER"
		}

		chamber_rules: house: {
			max_chairs:    1
			max_positions: 1
			source:        "MGL_3_9B"
		}
	`)
	require.NoError(t, v.Err())

	spec, err := CompileCatalog(v)
	require.NoError(t, err)

	require.Len(t, spec.Sources, 1)
	assert.Equal(t, "MGL_3_9B", spec.Sources[0].ID)
	assert.Equal(t, ir.SourceStatute, spec.Sources[0].Kind)
	assert.Equal(t, []string{"leadership", "committees"}, spec.Sources[0].Details)

	require.Len(t, spec.Tiers, 1)
	assert.Equal(t, ir.StipendTier{ID: "T30K", BaseAmount: 30000, SourceID: "MGL_3_9B"}, spec.Tiers[0])

	require.Len(t, spec.Roles, 2)
	chair := spec.Roles[0]
	assert.Equal(t, "HOUSE_RULES_CHAIR", chair.Code)
	assert.Equal(t, ir.ChamberHouse, chair.Chamber)
	assert.Equal(t, ir.CommitteeChair, chair.CommitteeRoleType)
	assert.Equal(t, "T30K", chair.StipendTierID)
	assert.Equal(t, "RULES_HOUSE", chair.CommitteeCode)
	assert.False(t, spec.Roles[1].HasStipend())

	require.Len(t, spec.ChamberRules, 1)
	assert.Equal(t, ir.ChamberRuleSpec{Chamber: "house", MaxChairs: 1, MaxPositions: 1, SourceID: "MGL_3_9B"}, spec.ChamberRules[0])
}

func TestCompileCatalogErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{
			name:  "no roles",
			src:   `tier: T5200: { base_amount: 5200, source: "MGL_3_9B" }`,
			field: "role",
		},
		{
			name: "float amount",
			src: `
				tier: T30K: { base_amount: 30000.5, source: "MGL_3_9B" }
				role: X: { title: "x", domain: "OTHER" }
			`,
			field: "tier.T30K.base_amount",
		},
		{
			name: "missing tier amount",
			src: `
				tier: T30K: { source: "MGL_3_9B" }
				role: X: { title: "x", domain: "OTHER" }
			`,
			field: "tier.T30K.base_amount",
		},
		{
			name:  "unknown domain",
			src:   `role: X: { title: "x", domain: "ROYALTY" }`,
			field: "role.X.domain",
		},
		{
			name:  "unknown chamber",
			src:   `role: X: { title: "x", domain: "OTHER", chamber: "assembly" }`,
			field: "role.X.chamber",
		},
		{
			name:  "unknown committee role",
			src:   `role: X: { title: "x", domain: "COMMITTEE", committee_role: "KING" }`,
			field: "role.X.committee_role",
		},
		{
			name:  "missing title",
			src:   `role: X: { domain: "OTHER" }`,
			field: "role.X.title",
		},
		{
			name: "unknown source kind",
			src: `
				source: S: { label: "s", kind: "RUMOR" }
				role: X: { title: "x", domain: "OTHER" }
			`,
			field: "source.S.kind",
		},
		{
			name: "missing max chairs",
			src: `
				role: X: { title: "x", domain: "OTHER" }
				chamber_rules: house: { max_positions: 1, source: "S" }
			`,
			field: "chamber_rules.house.max_chairs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := cuecontext.New()
			v := ctx.CompileString(tt.src)
			require.NoError(t, v.Err())

			_, err := CompileCatalog(v)
			require.Error(t, err)

			var compileErr *CompileError
			require.ErrorAs(t, err, &compileErr)
			assert.Equal(t, tt.field, compileErr.Field)
		})
	}
}

func TestCompileCatalogCUEConflict(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		role: X: { title: "x", domain: "OTHER" }
		role: X: { title: "y" }
	`)

	_, err := CompileCatalog(v)
	require.Error(t, err)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "role.X.title", Message: "title is required"}
	assert.Equal(t, "role.X.title: title is required", err.Error())
}
