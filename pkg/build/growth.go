package build

import (
	"math"
	"slices"

	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/scenario"
)

// generateGrowthBounds emits the technological-diffusion constraints: total
// cross-vintage activity of a technology may grow (or shrink) year over year
// at most by a compounded rate plus a market-entry allowance. A constraint
// is generated only where the scenario declares a growth or initial bound;
// absence means "not binding", never zero.
func (b *Builder) generateGrowthBounds() {
	for _, node := range b.nodes {
		for _, tec := range b.tecs {
			for _, year := range b.scn.ModelYears() {
				b.growthRow(node, tec, year, "growth_activity_up", "initial_activity_up", RowActivityGrowthUp, true)
				b.growthRow(node, tec, year, "growth_activity_lo", "initial_activity_lo", RowActivityGrowthLo, false)
			}
		}
	}
}

// compound returns the growth factor (1+g)^delta and the geometric-series
// weight ((1+g)^delta - 1)/g applied to the initial allowance. The weight
// degenerates to delta for g = 0.
func compound(g float64, delta int) (factor, series float64) {
	factor = math.Pow(1+g, float64(delta))
	if g == 0 {
		return factor, float64(delta)
	}

	return factor, (factor - 1) / g
}

func (b *Builder) growthRow(node, tec string, year int, growthPar, initialPar, family string, upper bool) {
	filter := scenario.Filter{
		scenario.DimNode:       node,
		scenario.DimTechnology: tec,
		scenario.DimYearAct:    scenario.FormatYear(year),
	}

	g, hasGrowth := b.scn.Params().Value(growthPar, filter)
	initial, hasInitial := b.scn.Params().Value(initialPar, filter)
	if !hasGrowth && !hasInitial {
		return
	}

	prev, ok := b.scn.PrevYear(year)
	if !ok {
		// No base year to compound from.
		return
	}

	cols := b.activityColumns(node, tec, year)
	if len(cols) == 0 {
		return
	}

	factor, series := compound(g, year-prev)
	allowance := initial * series

	coeffs := make(map[int]float64, len(cols)+8)
	for _, col := range cols {
		coeffs[col] = 1
	}

	key := lp.Key{node, tec, scenario.FormatYear(year)}

	if slices.Contains(b.scn.ModelYears(), prev) {
		// Base is the previous model year's decision variables.
		for _, col := range b.activityColumns(node, tec, prev) {
			coeffs[col] -= factor
		}
		if upper {
			b.prob.AddRow(family, key, lp.NegInf(), coeffs, allowance)
		} else {
			b.prob.AddRow(family, key, -allowance, coeffs, lp.Inf())
		}

		return
	}

	// Boundary year: the base is already-decided historical activity from
	// the most recent history year.
	base := b.historicalActivityTotal(node, tec, prev)
	if upper {
		b.prob.AddRow(family, key, lp.NegInf(), coeffs, factor*base+allowance)
	} else {
		b.prob.AddRow(family, key, factor*base-allowance, coeffs, lp.Inf())
	}
}

func (b *Builder) historicalActivityTotal(node, tec string, year int) float64 {
	var total float64
	for row := range b.scn.Params().Lookup("historical_activity", scenario.Filter{
		scenario.DimNode:       node,
		scenario.DimTechnology: tec,
		scenario.DimYear:       scenario.FormatYear(year),
	}) {
		total += row.Value
	}

	return total
}
