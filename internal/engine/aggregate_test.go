package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
	"github.com/arbowl/ma-legislature-stipends/internal/testutil"
)

func TestAggregateSpeaker(t *testing.T) {
	e := New(testutil.Catalog(t))

	res, err := e.Aggregate(testutil.Member("M001", ir.ChamberHouse, "SPEAKER"), testutil.Session)
	require.NoError(t, err)

	require.Len(t, res.Components, 3)
	assert.Equal(t, ir.LabelBaseSalary, res.Components[0].Label)
	assert.Equal(t, ir.LabelStipends, res.Components[1].Label)
	assert.Equal(t, ir.LabelTravel, res.Components[2].Label)

	assert.Equal(t, int64(62548), res.Components[0].Amount.Value)
	assert.Equal(t, []string{"MGL_ART_CXVIII"}, res.Components[0].Amount.Sources.IDs())
	assert.Equal(t, int64(80000), res.Components[1].Amount.Value)
	assert.Equal(t, []string{"MGL_3_9B"}, res.Components[1].Amount.Sources.IDs())
	assert.Equal(t, int64(15000), res.Components[2].Amount.Value)
	assert.Equal(t, []string{"MGL_3_9C"}, res.Components[2].Amount.Sources.IDs())

	assert.Equal(t, int64(157548), res.Total.Value)
	assert.Equal(t, []string{"MGL_3_9B", "MGL_3_9C", "MGL_ART_CXVIII"}, res.Total.Sources.IDs())
}

func TestAggregateTotalIsSumOfComponents(t *testing.T) {
	e := New(testutil.Catalog(t))
	m := testutil.Member("M002", ir.ChamberHouse,
		"HOUSE_EDUCATION_CHAIR", "HOUSE_JUDICIARY_CHAIR", "HOUSE_ASSISTANT_MAJORITY_LEADER")

	res, err := e.Aggregate(m, testutil.Session)
	require.NoError(t, err)

	var sum int64
	var union ir.SourceSet
	for _, c := range res.Components {
		sum += c.Amount.Value
		union = union.Union(c.Amount.Sources)
	}
	assert.Equal(t, sum, res.Total.Value)
	assert.True(t, union.Equal(res.Total.Sources))

	stipends, ok := res.Component(ir.LabelStipends)
	require.True(t, ok)
	assert.Equal(t, int64(35000), stipends.Amount.Value)
	assert.Equal(t, []string{"MGL_3_9B", "MGL_3_9B_MULTIPLE_POSITIONS"}, stipends.Amount.Sources.IDs())
}

func TestAggregateNoRoles(t *testing.T) {
	e := New(testutil.Catalog(t))

	res, err := e.Aggregate(testutil.Member("M003", ir.ChamberSenate), testutil.Session)
	require.NoError(t, err)

	stipends, ok := res.Component(ir.LabelStipends)
	require.True(t, ok)
	assert.Equal(t, int64(0), stipends.Amount.Value)
	assert.Equal(t, 0, stipends.Amount.Sources.Len())
	assert.Equal(t, int64(77548), res.Total.Value)
}

func TestAggregateMissingDistance(t *testing.T) {
	e := New(testutil.Catalog(t))
	m := testutil.Member("M004", ir.ChamberHouse, "SPEAKER")
	m.DistanceMiles = nil

	_, err := e.Aggregate(m, testutil.Session)
	require.Error(t, err)
	assert.True(t, IsMissingDistanceData(err))
}

func TestAggregateBaseSalaryAdjusted(t *testing.T) {
	e := New(testutil.Catalog(t), WithAdjustments(AdjustmentTable{testutil.Adjustment(ir.AdjustBaseSalary, "1.0646")}))

	res, err := e.Aggregate(testutil.Member("M005", ir.ChamberHouse), testutil.Session)
	require.NoError(t, err)

	base, ok := res.Component(ir.LabelBaseSalary)
	require.True(t, ok)
	assert.Equal(t, int64(66589), base.Amount.Value)
	assert.Equal(t, []string{"BASE_SALARY_ADJUSTMENT", "MGL_ART_CXVIII"}, base.Amount.Sources.IDs())
}

func TestAggregateSelectionReusesSelection(t *testing.T) {
	e := New(testutil.Catalog(t), WithAdjustments(AdjustmentTable{testutil.Adjustment(ir.AdjustStipend, "1.0646")}))
	m := testutil.Member("M006", ir.ChamberHouse, "SPEAKER")

	sel, err := e.Select(m, testutil.Session)
	require.NoError(t, err)
	assert.Equal(t, int64(85168), sel.Total)

	res, err := e.AggregateSelection(m, sel)
	require.NoError(t, err)
	stipends, _ := res.Component(ir.LabelStipends)
	assert.Equal(t, sel.Total, stipends.Amount.Value)
	assert.True(t, stipends.Amount.Sources.Contains(StipendAdjustmentSource))
}

type flatTravel int64

func (f flatTravel) Travel(ir.Member, string) (ir.AmountWithProvenance, error) {
	return ir.From(int64(f)), nil
}

func TestAggregateCustomProviders(t *testing.T) {
	c := testutil.Catalog(t)
	e := New(c,
		WithBaseSalary(NewStatutoryBaseSalary(c, nil, 70000, DefaultBaseSalarySource)),
		WithTravel(flatTravel(0)),
	)
	m := testutil.Member("M007", ir.ChamberHouse)
	m.DistanceMiles = nil

	res, err := e.Aggregate(m, testutil.Session)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), res.Total.Value)
}
