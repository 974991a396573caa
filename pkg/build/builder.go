// Package build assembles the optimization model from a committed scenario:
// decision variables for activity and capacity, the standard constraint
// families (commodity balance, capacity adequacy, capacity maintenance,
// activity growth bounds) and the discounted cost objective.
package build

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/scenario"
	"github.com/gridops/epo/pkg/vintage"
)

// Decision-variable families.
const (
	VarActivity    = "ACT"
	VarCapacity    = "CAP"
	VarNewCapacity = "CAP_NEW"
)

// Constraint families.
const (
	RowCommodityBalance    = "COMMODITY_BALANCE"
	RowCapacityAdequacy    = "CAPACITY_ADEQUACY"
	RowCapacityMaintenance = "CAPACITY_MAINTENANCE"
	RowActivityGrowthUp    = "ACTIVITY_GROWTH_UP"
	RowActivityGrowthLo    = "ACTIVITY_GROWTH_LO"
)

// Builder generates the LP matrix for one committed scenario. It is a pure
// function of the committed sets and parameters: Build can be called again
// after the scenario changes revision.
type Builder struct {
	log logrus.FieldLogger
	scn *scenario.Scenario

	vm   *vintage.Map
	prob *lp.Problem

	nodes []string
	tecs  []string
	modes []string
	times []string
}

// New creates a builder for a committed scenario.
func New(log logrus.FieldLogger, scn *scenario.Scenario) *Builder {
	return &Builder{
		log: log.WithField("component", "build"),
		scn: scn,
	}
}

// Build resolves the vintage map, creates variables and generates every
// applicable constraint plus the objective. The capacity-maintenance
// recurrence is evaluated in increasing year order; see generateMaintenance.
func (b *Builder) Build(ctx context.Context) (*lp.Problem, error) {
	if !b.scn.Committed() {
		return nil, scenario.ErrScenarioNotCommitted
	}

	vm, err := vintage.Resolve(b.log, b.scn)
	if err != nil {
		return nil, err
	}
	b.vm = vm
	b.prob = lp.NewProblem()

	if err := b.loadDimensions(); err != nil {
		return nil, err
	}

	b.createVariables()

	if err := b.generateBalance(ctx); err != nil {
		return nil, err
	}
	b.generateAdequacy()
	b.generateMaintenance()
	b.generateGrowthBounds()
	b.assembleObjective()

	b.log.WithFields(logrus.Fields{
		"columns": b.prob.NumVars(),
		"rows":    b.prob.NumRows(),
	}).Info("Model built")

	return b.prob, nil
}

func (b *Builder) loadDimensions() error {
	sets := b.scn.Sets()

	var err error
	if b.nodes, err = sets.Members(string(scenario.DimNode)); err != nil {
		return fmt.Errorf("model requires a node set: %w", err)
	}
	if b.tecs, err = sets.Members(string(scenario.DimTechnology)); err != nil {
		return fmt.Errorf("model requires a technology set: %w", err)
	}
	if b.modes, err = sets.Members(string(scenario.DimMode)); err != nil {
		return fmt.Errorf("model requires a mode set: %w", err)
	}
	if b.times, err = sets.Members(string(scenario.DimTime)); err != nil {
		return err
	}

	return nil
}

// isInvestment reports whether the technology carries capacity: anything
// with a declared lifetime, investment cost or pre-existing capacity.
func (b *Builder) isInvestment(tec string) bool {
	p := b.scn.Params()
	for _, par := range []string{"technical_lifetime", "inv_cost", "historical_new_capacity"} {
		for range p.Lookup(par, scenario.Filter{scenario.DimTechnology: tec}) {
			return true
		}
	}

	return false
}

// modesFor returns the modes a technology actually operates in at a node,
// in mode-set order: those referenced by any input or output entry.
func (b *Builder) modesFor(node, tec string) []string {
	p := b.scn.Params()
	used := make(map[string]struct{})

	for _, par := range []string{"output", "input"} {
		for row := range p.Lookup(par, scenario.Filter{
			scenario.DimNode:       node,
			scenario.DimTechnology: tec,
		}) {
			schema, _ := scenario.SchemaFor(par)
			used[row.Dims[schema.Index(scenario.DimMode)]] = struct{}{}
		}
	}

	var modes []string
	for _, m := range b.modes {
		if _, ok := used[m]; ok {
			modes = append(modes, m)
		}
	}

	return modes
}

// capVintages returns the construction years that carry capacity variables
// for (node, tec): every model-year vintage with a live window, plus history
// vintages seeded by historical_new_capacity.
func (b *Builder) capVintages(node, tec string) []int {
	first := b.scn.FirstModelYear()

	var vintages []int
	for _, v := range b.vm.Vintages(tec) {
		if v >= first {
			vintages = append(vintages, v)
			continue
		}

		if _, ok := b.scn.Params().Value("historical_new_capacity", scenario.Filter{
			scenario.DimNode:       node,
			scenario.DimTechnology: tec,
			scenario.DimVintage:    scenario.FormatYear(v),
		}); ok {
			vintages = append(vintages, v)
		}
	}

	return vintages
}

// actVintages returns the vintages that carry activity variables. Investment
// technologies operate every capacity vintage; technologies without capacity
// collapse to current-year vintages (vintage == active year) since nothing
// distinguishes their units by construction year.
func (b *Builder) actVintages(node, tec string, investment bool) []int {
	if investment {
		return b.capVintages(node, tec)
	}

	first := b.scn.FirstModelYear()
	var vintages []int
	for _, v := range b.vm.Vintages(tec) {
		if v >= first {
			vintages = append(vintages, v)
		}
	}

	return vintages
}

func (b *Builder) createVariables() {
	for _, node := range b.nodes {
		for _, tec := range b.tecs {
			investment := b.isInvestment(tec)
			modes := b.modesFor(node, tec)

			for _, v := range b.actVintages(node, tec, investment) {
				active := b.vm.Active(tec, v)
				if !investment {
					// Current-year vintage only operates in its own year.
					active = []int{v}
				}

				for _, a := range active {
					for _, m := range modes {
						b.prob.AddVar(VarActivity, actKey(node, tec, v, a, m), 0, 0, lp.Inf())
					}
				}
			}

			if !investment {
				continue
			}

			for _, v := range b.capVintages(node, tec) {
				for _, a := range b.vm.Active(tec, v) {
					b.prob.AddVar(VarCapacity, capKey(node, tec, v, a), 0, 0, lp.Inf())
				}
				if v >= b.scn.FirstModelYear() {
					b.prob.AddVar(VarNewCapacity, newCapKey(node, tec, v), 0, 0, lp.Inf())
				}
			}
		}
	}
}

func actKey(node, tec string, v, a int, mode string) lp.Key {
	return lp.Key{node, tec, scenario.FormatYear(v), scenario.FormatYear(a), mode}
}

func capKey(node, tec string, v, a int) lp.Key {
	return lp.Key{node, tec, scenario.FormatYear(v), scenario.FormatYear(a)}
}

func newCapKey(node, tec string, v int) lp.Key {
	return lp.Key{node, tec, scenario.FormatYear(v)}
}

// activityColumns collects the ACT columns of a technology at a node that
// are alive in year a, across vintages and modes.
func (b *Builder) activityColumns(node, tec string, a int) []int {
	var cols []int

	investment := b.isInvestment(tec)
	for _, v := range b.actVintages(node, tec, investment) {
		if investment && !b.vm.Alive(tec, v, a) {
			continue
		}
		if !investment && v != a {
			continue
		}
		for _, m := range b.modesFor(node, tec) {
			if col, ok := b.prob.Col(VarActivity, actKey(node, tec, v, a, m)); ok {
				cols = append(cols, col)
			}
		}
	}

	slices.Sort(cols)

	return cols
}
