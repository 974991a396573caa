package build

import (
	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/scenario"
)

// generateAdequacy bounds per-vintage activity by installed capacity:
// sum_mode ACT(n,t,v,a,m) <= duration * capacity_factor * CAP(n,t,v,a).
func (b *Builder) generateAdequacy() {
	for _, node := range b.nodes {
		for _, tec := range b.tecs {
			if !b.isInvestment(tec) {
				continue
			}

			modes := b.modesFor(node, tec)
			for _, v := range b.capVintages(node, tec) {
				for _, a := range b.vm.Active(tec, v) {
					for _, t := range b.times {
						b.adequacyRow(node, tec, v, a, t, modes)
					}
				}
			}
		}
	}
}

func (b *Builder) adequacyRow(node, tec string, v, a int, time string, modes []string) {
	capCol, ok := b.prob.Col(VarCapacity, capKey(node, tec, v, a))
	if !ok {
		return
	}

	coeffs := make(map[int]float64)
	for _, m := range modes {
		if col, found := b.prob.Col(VarActivity, actKey(node, tec, v, a, m)); found {
			coeffs[col] = 1
		}
	}
	if len(coeffs) == 0 {
		return
	}

	coeffs[capCol] = -b.duration(time) * b.capacityFactor(node, tec, v, a, time)

	key := lp.Key{node, tec, scenario.FormatYear(v), scenario.FormatYear(a), time}
	b.prob.AddRow(RowCapacityAdequacy, key, lp.NegInf(), coeffs, 0)
}

// duration returns the fractional share of the year a time slice represents,
// defaulting to 1 for annual resolution.
func (b *Builder) duration(time string) float64 {
	if v, ok := b.scn.Params().Value("duration_time", scenario.Filter{scenario.DimTime: time}); ok {
		return v
	}

	return 1
}

func (b *Builder) capacityFactor(node, tec string, v, a int, time string) float64 {
	if cf, ok := b.scn.Params().Value("capacity_factor", scenario.Filter{
		scenario.DimNode:       node,
		scenario.DimTechnology: tec,
		scenario.DimVintage:    scenario.FormatYear(v),
		scenario.DimYearAct:    scenario.FormatYear(a),
		scenario.DimTime:       time,
	}); ok {
		return cf
	}

	return 1
}

// generateMaintenance emits the capacity retirement recurrence. The bound on
// CAP(n,t,v,a) is piecewise: pre-horizon vintages enter the first model year
// limited by their historical build, a vintage's construction year is limited
// by CAP_NEW, and every later active year by the previous year's CAP. Each
// case references the previous active year's variable, so rows are generated
// in increasing active-year order per (node, technology, vintage) and that
// axis must never be parallelized.
func (b *Builder) generateMaintenance() {
	first := b.scn.FirstModelYear()

	for _, node := range b.nodes {
		for _, tec := range b.tecs {
			if !b.isInvestment(tec) {
				continue
			}

			for _, v := range b.capVintages(node, tec) {
				prev := -1
				for _, a := range b.vm.Active(tec, v) {
					b.maintenanceRow(node, tec, v, a, prev, first)
					prev = a
				}
			}
		}
	}
}

func (b *Builder) maintenanceRow(node, tec string, v, a, prev, first int) {
	capCol, ok := b.prob.Col(VarCapacity, capKey(node, tec, v, a))
	if !ok {
		return
	}

	key := lp.Key{node, tec, scenario.FormatYear(v), scenario.FormatYear(a)}
	coeffs := map[int]float64{capCol: 1}

	switch {
	case v < first && a == first:
		// Legacy capacity: bounded by the historical build, scaled by the
		// construction period's length.
		hist, _ := b.scn.Params().Value("historical_new_capacity", scenario.Filter{
			scenario.DimNode:       node,
			scenario.DimTechnology: tec,
			scenario.DimVintage:    scenario.FormatYear(v),
		})
		b.prob.AddRow(RowCapacityMaintenance, key, lp.NegInf(), coeffs, hist*b.scn.PeriodDuration(v))

	case a == v:
		newCol, found := b.prob.Col(VarNewCapacity, newCapKey(node, tec, v))
		if !found {
			return
		}
		coeffs[newCol] = -b.scn.PeriodDuration(v)
		b.prob.AddRow(RowCapacityMaintenance, key, lp.NegInf(), coeffs, 0)

	default:
		prevCol, found := b.prob.Col(VarCapacity, capKey(node, tec, v, prev))
		if !found {
			return
		}
		coeffs[prevCol] = -1
		b.prob.AddRow(RowCapacityMaintenance, key, lp.NegInf(), coeffs, 0)
	}
}
