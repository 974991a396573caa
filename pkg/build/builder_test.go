package build

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/epo/internal/testutil"
	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/scenario"
)

// findRow locates the unique row with the given family and key and returns it
// together with its coefficients keyed by column index.
func findRow(t *testing.T, prob *lp.Problem, family string, key lp.Key) (lp.Row, map[int]float64) {
	t.Helper()

	idx := -1
	for i, row := range prob.Rows() {
		if row.Family == family && row.Key.Equal(key) {
			require.Equal(t, -1, idx, "duplicate row %s %s", family, key)
			idx = i
		}
	}
	require.NotEqual(t, -1, idx, "row %s %s not found", family, key)

	coeffs := make(map[int]float64)
	for _, nz := range prob.Nonzeros() {
		if nz.Row == idx {
			coeffs[nz.Col] += nz.Val
		}
	}

	return prob.Rows()[idx], coeffs
}

func hasRow(prob *lp.Problem, family string, key lp.Key) bool {
	for _, row := range prob.Rows() {
		if row.Family == family && row.Key.Equal(key) {
			return true
		}
	}

	return false
}

func mustCol(t *testing.T, prob *lp.Problem, family string, key lp.Key) int {
	t.Helper()

	col, ok := prob.Col(family, key)
	require.True(t, ok, "column %s %s not found", family, key)

	return col
}

func buildTwoTech(t *testing.T) *lp.Problem {
	t.Helper()

	scn, err := testutil.TwoTechScenario(testutil.Logger())
	require.NoError(t, err)

	prob, err := New(testutil.Logger(), scn).Build(context.Background())
	require.NoError(t, err)

	return prob
}

func TestBuild_RequiresCommittedScenario(t *testing.T) {
	scn := scenario.New(testutil.Logger(), "m", "s")
	require.NoError(t, scn.DefineSet("node", "north"))

	_, err := New(testutil.Logger(), scn).Build(context.Background())
	assert.ErrorIs(t, err, scenario.ErrScenarioNotCommitted)
}

func TestBuild_Variables(t *testing.T) {
	prob := buildTwoTech(t)

	// New-capacity decisions exist for every model-year vintage, never for
	// history vintages.
	for _, year := range []string{"700", "710", "720"} {
		mustCol(t, prob, VarNewCapacity, lp.Key{"north", "wind_plant", year})
		mustCol(t, prob, VarNewCapacity, lp.Key{"north", "gas_plant", year})
	}
	_, ok := prob.Col(VarNewCapacity, lp.Key{"north", "wind_plant", "690"})
	assert.False(t, ok)

	// The seeded wind history vintage is alive for one period.
	mustCol(t, prob, VarCapacity, lp.Key{"north", "wind_plant", "690", "700"})
	_, ok = prob.Col(VarCapacity, lp.Key{"north", "wind_plant", "690", "710"})
	assert.False(t, ok)

	// The expired gas history vintage carries no variables at all.
	_, ok = prob.Col(VarActivity, lp.Key{"north", "gas_plant", "690", "700", "standard"})
	assert.False(t, ok)

	// A 10-year lifetime means gas only operates current-vintage units.
	mustCol(t, prob, VarActivity, lp.Key{"north", "gas_plant", "710", "710", "standard"})
	_, ok = prob.Col(VarActivity, lp.Key{"north", "gas_plant", "700", "710", "standard"})
	assert.False(t, ok)

	// Wind vintages span two periods.
	mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "700", "710", "standard"})
}

func TestBuild_CommodityBalance(t *testing.T) {
	prob := buildTwoTech(t)

	// First model year: demand net of the last history year's supply.
	row, coeffs := findRow(t, prob, RowCommodityBalance, lp.Key{"north", "electricity", "final", "700", "year"})
	assert.InDelta(t, 100-50, row.Lower, 1e-9)
	assert.True(t, math.IsInf(row.Upper, 1), "balance keeps free disposal")

	wind690 := mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "690", "700", "standard"})
	wind700 := mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "700", "700", "standard"})
	gas700 := mustCol(t, prob, VarActivity, lp.Key{"north", "gas_plant", "700", "700", "standard"})
	assert.InDelta(t, 1, coeffs[wind690], 1e-12)
	assert.InDelta(t, 1, coeffs[wind700], 1e-12)
	assert.InDelta(t, 1, coeffs[gas700], 1e-12)

	// Later years carry the raw demand.
	row, _ = findRow(t, prob, RowCommodityBalance, lp.Key{"north", "electricity", "final", "710", "year"})
	assert.InDelta(t, 150, row.Lower, 1e-9)

	row, _ = findRow(t, prob, RowCommodityBalance, lp.Key{"north", "electricity", "final", "720", "year"})
	assert.InDelta(t, 190, row.Lower, 1e-9)
}

func TestBuild_CapacityAdequacy(t *testing.T) {
	prob := buildTwoTech(t)

	_, coeffs := findRow(t, prob, RowCapacityAdequacy, lp.Key{"north", "wind_plant", "700", "710", "year"})

	act := mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "700", "710", "standard"})
	capacity := mustCol(t, prob, VarCapacity, lp.Key{"north", "wind_plant", "700", "710"})

	assert.InDelta(t, 1, coeffs[act], 1e-12)
	// Annual slice, default capacity factor.
	assert.InDelta(t, -1, coeffs[capacity], 1e-12)
}

func TestBuild_CapacityMaintenance(t *testing.T) {
	prob := buildTwoTech(t)

	// Legacy vintage entering the horizon: bounded by the historical build
	// scaled by the period length.
	row, coeffs := findRow(t, prob, RowCapacityMaintenance, lp.Key{"north", "wind_plant", "690", "700"})
	assert.InDelta(t, 2*10, row.Upper, 1e-9)
	legacy := mustCol(t, prob, VarCapacity, lp.Key{"north", "wind_plant", "690", "700"})
	assert.InDelta(t, 1, coeffs[legacy], 1e-12)

	// Construction year: capacity comes from the build decision.
	row, coeffs = findRow(t, prob, RowCapacityMaintenance, lp.Key{"north", "wind_plant", "700", "700"})
	assert.Zero(t, row.Upper)
	capNow := mustCol(t, prob, VarCapacity, lp.Key{"north", "wind_plant", "700", "700"})
	newCap := mustCol(t, prob, VarNewCapacity, lp.Key{"north", "wind_plant", "700"})
	assert.InDelta(t, 1, coeffs[capNow], 1e-12)
	assert.InDelta(t, -10, coeffs[newCap], 1e-12)

	// Later years: the recurrence against the previous active year.
	row, coeffs = findRow(t, prob, RowCapacityMaintenance, lp.Key{"north", "wind_plant", "700", "710"})
	assert.Zero(t, row.Upper)
	capNext := mustCol(t, prob, VarCapacity, lp.Key{"north", "wind_plant", "700", "710"})
	assert.InDelta(t, 1, coeffs[capNext], 1e-12)
	assert.InDelta(t, -1, coeffs[capNow], 1e-12)
}

func TestBuild_GrowthBounds(t *testing.T) {
	prob := buildTwoTech(t)

	factor := math.Pow(1.05, 10)
	series := (factor - 1) / 0.05

	// Boundary year for the incumbent: base is historical activity.
	row, coeffs := findRow(t, prob, RowActivityGrowthUp, lp.Key{"north", "gas_plant", "700"})
	assert.InDelta(t, factor*50, row.Upper, 1e-9)
	gas700 := mustCol(t, prob, VarActivity, lp.Key{"north", "gas_plant", "700", "700", "standard"})
	assert.InDelta(t, 1, coeffs[gas700], 1e-12)

	// Boundary year for the entrant: no history, only the market-entry
	// allowance compounded over the period.
	row, _ = findRow(t, prob, RowActivityGrowthUp, lp.Key{"north", "wind_plant", "700"})
	assert.InDelta(t, 5*series, row.Upper, 1e-9)

	// Interior year: the base is the previous period's decision variables.
	row, coeffs = findRow(t, prob, RowActivityGrowthUp, lp.Key{"north", "wind_plant", "710"})
	assert.InDelta(t, 5*series, row.Upper, 1e-9)

	wind700a710 := mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "700", "710", "standard"})
	wind710a710 := mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "710", "710", "standard"})
	wind690a700 := mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "690", "700", "standard"})
	wind700a700 := mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "700", "700", "standard"})

	assert.InDelta(t, 1, coeffs[wind700a710], 1e-12)
	assert.InDelta(t, 1, coeffs[wind710a710], 1e-12)
	assert.InDelta(t, -factor, coeffs[wind690a700], 1e-9)
	assert.InDelta(t, -factor, coeffs[wind700a700], 1e-9)

	// No contraction bounds were declared, so the family is absent.
	for _, row := range prob.Rows() {
		assert.NotEqual(t, RowActivityGrowthLo, row.Family)
	}
}

func TestBuild_GrowthBoundFirstOrder(t *testing.T) {
	// With g = 0.05 and a one-year period, the bound is prev * 1.05 exactly.
	factor, series := compound(0.05, 1)
	assert.InDelta(t, 1.05, factor, 1e-12)
	assert.InDelta(t, 1, series, 1e-12)

	// Zero growth degenerates to the linear allowance.
	factor, series = compound(0, 10)
	assert.InDelta(t, 1, factor, 1e-12)
	assert.InDelta(t, 10, series, 1e-12)
}

func TestBuild_Objective(t *testing.T) {
	prob := buildTwoTech(t)

	df710 := 1 / math.Pow(1.05, 10)
	df720 := df710 / math.Pow(1.05, 10)

	vars := prob.Vars()

	// Investment: a one-off discounted outlay.
	newCap700 := mustCol(t, prob, VarNewCapacity, lp.Key{"north", "wind_plant", "700"})
	assert.InDelta(t, 1500, vars[newCap700].Cost, 1e-9)

	newCap710 := mustCol(t, prob, VarNewCapacity, lp.Key{"north", "gas_plant", "710"})
	assert.InDelta(t, df710*800, vars[newCap710].Cost, 1e-9)

	// Fixed O&M: discounted and weighted by the period length.
	cap690 := mustCol(t, prob, VarCapacity, lp.Key{"north", "wind_plant", "690", "700"})
	assert.InDelta(t, 10*30, vars[cap690].Cost, 1e-9)

	// Variable O&M on activity.
	gas720 := mustCol(t, prob, VarActivity, lp.Key{"north", "gas_plant", "720", "720", "standard"})
	assert.InDelta(t, df720*10*30, vars[gas720].Cost, 1e-9)

	// Wind generation itself is free.
	wind710 := mustCol(t, prob, VarActivity, lp.Key{"north", "wind_plant", "710", "710", "standard"})
	assert.Zero(t, vars[wind710].Cost)
}

func TestBuild_DispatchOnlyTechnology(t *testing.T) {
	scn, err := testutil.SingleTechScenario(testutil.Logger())
	require.NoError(t, err)

	prob, err := New(testutil.Logger(), scn).Build(context.Background())
	require.NoError(t, err)

	// No lifetime, investment cost or historical capacity: no capacity
	// variables or capacity constraints at all.
	for _, v := range prob.Vars() {
		assert.Equal(t, VarActivity, v.Family)
	}
	assert.False(t, hasRow(prob, RowCapacityAdequacy, lp.Key{"island", "diesel_gen", "700", "700", "year"}))

	row, coeffs := findRow(t, prob, RowCommodityBalance, lp.Key{"island", "electricity", "final", "700", "year"})
	assert.InDelta(t, 100, row.Lower, 1e-9)

	act := mustCol(t, prob, VarActivity, lp.Key{"island", "diesel_gen", "700", "700", "standard"})
	assert.InDelta(t, 1, coeffs[act], 1e-12)

	// var_cost * period length, undiscounted in the first year.
	assert.InDelta(t, 10*10, prob.Vars()[act].Cost, 1e-9)
}
