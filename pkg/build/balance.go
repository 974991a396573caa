package build

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/scenario"
)

// balanceRow is one commodity-balance inequality prepared off the main
// goroutine: sum(output*ACT) - sum(input*ACT) >= demand.
type balanceRow struct {
	key    lp.Key
	coeffs map[int]float64
	lower  float64
}

// generateBalance emits one supply-covers-demand inequality per
// (node, commodity, level, model year, time slice). Coefficient collection
// is independent per index tuple, so tuples are evaluated in parallel and
// appended in deterministic order afterwards. The row stays an inequality:
// free disposal of surplus is part of the model semantics.
func (b *Builder) generateBalance(ctx context.Context) error {
	sets := b.scn.Sets()
	commodities, err := sets.Members(string(scenario.DimCommodity))
	if err != nil {
		return err
	}
	levels, err := sets.Members(string(scenario.DimLevel))
	if err != nil {
		return err
	}

	type tuple struct {
		node, commodity, level string
		year                   int
		time                   string
	}

	var tuples []tuple
	for _, node := range b.nodes {
		for _, commodity := range commodities {
			for _, level := range levels {
				for _, year := range b.scn.ModelYears() {
					for _, t := range b.times {
						tuples = append(tuples, tuple{node, commodity, level, year, t})
					}
				}
			}
		}
	}

	rows := make([]*balanceRow, len(tuples))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, tup := range tuples {
		g.Go(func() error {
			rows[i] = b.balanceFor(tup.node, tup.commodity, tup.level, tup.year, tup.time)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, row := range rows {
		if row == nil {
			continue
		}
		b.prob.AddRow(RowCommodityBalance, row.key, row.lower, row.coeffs, lp.Inf())
	}

	return nil
}

func (b *Builder) balanceFor(node, commodity, level string, year int, time string) *balanceRow {
	p := b.scn.Params()
	coeffs := make(map[int]float64)

	filter := scenario.Filter{
		scenario.DimNode:      node,
		scenario.DimCommodity: commodity,
		scenario.DimLevel:     level,
		scenario.DimYearAct:   scenario.FormatYear(year),
		scenario.DimTime:      time,
	}

	b.accumulateConversion(coeffs, "output", filter, +1, year)
	b.accumulateConversion(coeffs, "input", filter, -1, year)

	demand, hasDemand := p.Value("demand", filter)

	if len(coeffs) == 0 && !hasDemand {
		return nil
	}

	lower := demand
	if year == b.scn.FirstModelYear() {
		lower -= b.historicalNetSupply(node, commodity, level, year, time)
	}

	return &balanceRow{
		key:    lp.Key{node, commodity, level, scenario.FormatYear(year), time},
		coeffs: coeffs,
		lower:  lower,
	}
}

// accumulateConversion adds sign*value coefficients onto the ACT columns
// referenced by output or input rows matching the filter. Rows whose vintage
// is outside its lifetime window carry no column and contribute nothing.
func (b *Builder) accumulateConversion(coeffs map[int]float64, par string, filter scenario.Filter, sign float64, year int) {
	schema, _ := scenario.SchemaFor(par)
	tecIdx := schema.Index(scenario.DimTechnology)
	vtgIdx := schema.Index(scenario.DimVintage)
	modeIdx := schema.Index(scenario.DimMode)
	node := filter[scenario.DimNode]

	for row := range b.scn.Params().Lookup(par, filter) {
		tec := row.Dims[tecIdx]
		mode := row.Dims[modeIdx]
		v, err := scenario.ParseYear(row.Dims[vtgIdx])
		if err != nil {
			continue
		}

		col, ok := b.prob.Col(VarActivity, actKey(node, tec, v, year, mode))
		if !ok {
			continue
		}

		coeffs[col] += sign * row.Value
	}
}

// historicalNetSupply folds already-decided activity from the most recent
// history year into the first horizon year's balance as a constant.
func (b *Builder) historicalNetSupply(node, commodity, level string, year int, time string) float64 {
	last, ok := b.scn.LastHistoryYear()
	if !ok {
		return 0
	}

	p := b.scn.Params()
	var net float64

	for row := range p.Lookup("historical_activity", scenario.Filter{
		scenario.DimNode: node,
		scenario.DimYear: scenario.FormatYear(last),
		scenario.DimTime: time,
	}) {
		schema, _ := scenario.SchemaFor("historical_activity")
		tec := row.Dims[schema.Index(scenario.DimTechnology)]
		mode := row.Dims[schema.Index(scenario.DimMode)]

		net += row.Value * b.conversionFactor("output", node, tec, mode, commodity, level, year, time)
		net -= row.Value * b.conversionFactor("input", node, tec, mode, commodity, level, year, time)
	}

	return net
}

// conversionFactor looks up an input/output coefficient for a technology and
// mode at the given active year, accepting any vintage (first match wins).
func (b *Builder) conversionFactor(par, node, tec, mode, commodity, level string, year int, time string) float64 {
	v, ok := b.scn.Params().Value(par, scenario.Filter{
		scenario.DimNode:       node,
		scenario.DimTechnology: tec,
		scenario.DimMode:       mode,
		scenario.DimCommodity:  commodity,
		scenario.DimLevel:      level,
		scenario.DimYearAct:    scenario.FormatYear(year),
		scenario.DimTime:       time,
	})
	if !ok {
		return 0
	}

	return v
}
