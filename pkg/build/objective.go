package build

import (
	"math"

	"github.com/gridops/epo/pkg/scenario"
)

// assembleObjective accumulates discounted cost coefficients onto every
// column: investment cost on CAP_NEW, fixed O&M on CAP, variable O&M and
// emission taxes on ACT. Operating costs are weighted by the period length;
// investment is a one-off outlay in its construction year.
func (b *Builder) assembleObjective() {
	df := b.discountFactors()

	for col, v := range b.prob.Vars() {
		var cost float64

		switch v.Family {
		case VarNewCapacity:
			node, tec := v.Key[0], v.Key[1]
			year, _ := scenario.ParseYear(v.Key[2])
			cost = df[year] * b.investmentCost(node, tec, year)

		case VarCapacity:
			node, tec := v.Key[0], v.Key[1]
			year, _ := scenario.ParseYear(v.Key[3])
			fix, ok := b.scn.Params().Value("fix_cost", scenario.Filter{
				scenario.DimNode:       node,
				scenario.DimTechnology: tec,
				scenario.DimVintage:    v.Key[2],
				scenario.DimYearAct:    v.Key[3],
			})
			if ok {
				cost = df[year] * b.scn.PeriodDuration(year) * fix
			}

		case VarActivity:
			node, tec := v.Key[0], v.Key[1]
			year, _ := scenario.ParseYear(v.Key[3])
			unit := b.variableCost(node, tec, v.Key[2], v.Key[3], v.Key[4]) +
				b.emissionTax(node, tec, v.Key[2], v.Key[3], v.Key[4])
			cost = df[year] * b.scn.PeriodDuration(year) * unit
		}

		if cost != 0 {
			_ = b.prob.AddCost(col, cost)
		}
	}
}

// discountFactors compounds the per-year interest rate period by period from
// the first model year, on the same year-over-year basis as the growth
// bounds.
func (b *Builder) discountFactors() map[int]float64 {
	df := make(map[int]float64, len(b.scn.ModelYears()))

	factor := 1.0
	prev := b.scn.FirstModelYear()
	for i, year := range b.scn.ModelYears() {
		if i > 0 {
			factor /= math.Pow(1+b.scn.InterestRate(year), float64(year-prev))
		}
		df[year] = factor
		prev = year
	}

	return df
}

// investmentCost returns inv_cost adjusted for construction lead time: money
// committed construction_time years before operation accrues interest.
func (b *Builder) investmentCost(node, tec string, year int) float64 {
	inv, ok := b.scn.Params().Value("inv_cost", scenario.Filter{
		scenario.DimNode:       node,
		scenario.DimTechnology: tec,
		scenario.DimVintage:    scenario.FormatYear(year),
	})
	if !ok {
		return 0
	}

	ct, ok := b.scn.Params().Value("construction_time", scenario.Filter{
		scenario.DimTechnology: tec,
		scenario.DimVintage:    scenario.FormatYear(year),
	})
	if !ok {
		return inv
	}

	return inv * math.Pow(1+b.scn.InterestRate(year), ct)
}

func (b *Builder) variableCost(node, tec, vintage, year, mode string) float64 {
	v, _ := b.scn.Params().Value("var_cost", scenario.Filter{
		scenario.DimNode:       node,
		scenario.DimTechnology: tec,
		scenario.DimVintage:    vintage,
		scenario.DimYearAct:    year,
		scenario.DimMode:       mode,
	})

	return v
}

// emissionTax sums tax_emission * emission_factor over the declared
// emission species for one activity column.
func (b *Builder) emissionTax(node, tec, vintage, year, mode string) float64 {
	emissions, err := b.scn.Sets().Members(string(scenario.DimEmission))
	if err != nil {
		return 0
	}

	var total float64
	for _, e := range emissions {
		tax, ok := b.scn.Params().Value("tax_emission", scenario.Filter{
			scenario.DimNode:     node,
			scenario.DimEmission: e,
			scenario.DimYearAct:  year,
		})
		if !ok {
			continue
		}

		factor, ok := b.scn.Params().Value("emission_factor", scenario.Filter{
			scenario.DimNode:       node,
			scenario.DimTechnology: tec,
			scenario.DimVintage:    vintage,
			scenario.DimYearAct:    year,
			scenario.DimMode:       mode,
			scenario.DimEmission:   e,
		})
		if !ok {
			continue
		}

		total += tax * factor
	}

	return total
}
