// Package scenario implements the data model of an energy-system scenario:
// named ordered sets, multi-dimensional parameter tables with fixed schemas,
// and the year horizon split into history and model periods. A scenario is
// populated additively, committed (frozen), and then consumed by the model
// builder. Writes are not goroutine-safe; callers serialize mutations.
package scenario

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Scenario is the explicit handle passed to every component. Lifecycle:
// open -> populate -> Commit (freeze) -> build/solve -> read results.
type Scenario struct {
	log logrus.FieldLogger

	Model   string
	Name    string
	Version int

	sets   *SetRegistry
	params *ParameterStore

	history []int
	model   []int

	committed bool
	revision  int
}

// New opens an empty scenario handle. The time set is seeded with the annual
// slice "year" so single-slice scenarios need no explicit time declaration.
func New(log logrus.FieldLogger, model, name string) *Scenario {
	s := &Scenario{
		log:     log.WithFields(logrus.Fields{"model": model, "scenario": name}),
		Model:   model,
		Name:    name,
		Version: 1,
		sets:    NewSetRegistry(),
		params:  NewParameterStore(),
	}
	s.sets.Define(string(DimTime), AnnualTime)

	return s
}

// AnnualTime is the default whole-year time slice.
const AnnualTime = "year"

// DefineSet appends members to a named set. Re-adding members is idempotent.
func (s *Scenario) DefineSet(name string, members ...string) error {
	if s.committed {
		return ErrScenarioCommitted
	}

	s.sets.Define(name, members...)
	s.revision++

	return nil
}

// SetHorizon declares the history years (before the optimization horizon)
// and the model years (actually optimized). Both must be strictly
// increasing, and all history must precede the first model year.
func (s *Scenario) SetHorizon(history, model []int) error {
	if s.committed {
		return ErrScenarioCommitted
	}
	if len(model) == 0 {
		return ErrHorizonRequired
	}
	if !slices.IsSorted(history) || !strictlyIncreasing(history) || !strictlyIncreasing(model) {
		return ErrHorizonNotSorted
	}
	if len(history) > 0 && history[len(history)-1] >= model[0] {
		return ErrHorizonNotSorted
	}

	s.history = slices.Clone(history)
	s.model = slices.Clone(model)
	s.revision++

	return nil
}

func strictlyIncreasing(years []int) bool {
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return false
		}
	}

	return true
}

// AddPar inserts rows into a parameter table. The whole batch is validated
// eagerly before anything is stored, so a failing call never leaves the
// store partially updated. An exact-tuple match replaces the previous value.
func (s *Scenario) AddPar(name string, rows ...Row) error {
	if s.committed {
		return ErrScenarioCommitted
	}

	schema, ok := SchemaFor(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}

	for _, row := range rows {
		if err := s.validateRow(schema, row); err != nil {
			return fmt.Errorf("parameter %s row %v: %w", name, row.Dims, err)
		}
	}

	for _, row := range rows {
		s.params.put(schema, row)
	}
	s.revision++

	return nil
}

func (s *Scenario) validateRow(schema Schema, row Row) error {
	if len(row.Dims) != schema.Arity() {
		return fmt.Errorf("%w: got %d dimensions, schema %s has %d",
			ErrDimensionMismatch, len(row.Dims), schema.Name, schema.Arity())
	}

	for i, dim := range schema.Dims {
		value := row.Dims[i]

		if dim.IsYear() {
			year, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s is not a year", ErrUnknownYear, value)
			}
			if !slices.Contains(s.history, year) && !slices.Contains(s.model, year) {
				return fmt.Errorf("%w: %d", ErrUnknownYear, year)
			}
			continue
		}

		setName := dim.SetName()
		if !s.sets.Has(setName) {
			return fmt.Errorf("%w: %s", ErrUnknownSet, setName)
		}
		if !s.sets.Contains(setName, value) {
			return fmt.Errorf("%w %s: %s", ErrUnknownMember, setName, value)
		}
	}

	return nil
}

// Commit freezes the scenario. After commit only solving and result reads
// are allowed; amendments require a new version.
func (s *Scenario) Commit() error {
	if s.committed {
		return ErrScenarioCommitted
	}
	if len(s.model) == 0 {
		return ErrHorizonRequired
	}

	s.committed = true
	s.log.WithFields(logrus.Fields{
		"sets":        len(s.sets.Names()),
		"model_years": len(s.model),
	}).Info("Scenario committed")

	return nil
}

// Committed reports whether the scenario is frozen.
func (s *Scenario) Committed() bool { return s.committed }

// Revision increases on every mutation, letting callers invalidate derived
// artifacts (vintage map, constraint system) built from older state.
func (s *Scenario) Revision() int { return s.revision }

// Sets returns the set registry.
func (s *Scenario) Sets() *SetRegistry { return s.sets }

// Params returns the parameter store.
func (s *Scenario) Params() *ParameterStore { return s.params }

// ModelYears returns the optimized years in increasing order.
func (s *Scenario) ModelYears() []int { return s.model }

// HistoryYears returns the pre-horizon years in increasing order.
func (s *Scenario) HistoryYears() []int { return s.history }

// AllYears returns history followed by model years.
func (s *Scenario) AllYears() []int {
	all := make([]int, 0, len(s.history)+len(s.model))
	all = append(all, s.history...)
	all = append(all, s.model...)

	return all
}

// FirstModelYear returns the first optimized year.
func (s *Scenario) FirstModelYear() int {
	if len(s.model) == 0 {
		return 0
	}

	return s.model[0]
}

// LastHistoryYear returns the most recent history year and whether one exists.
func (s *Scenario) LastHistoryYear() (int, bool) {
	if len(s.history) == 0 {
		return 0, false
	}

	return s.history[len(s.history)-1], true
}

// PrevYear returns the declared year immediately before y (searching history
// and model years), and whether one exists.
func (s *Scenario) PrevYear(y int) (int, bool) {
	all := s.AllYears()
	for i, year := range all {
		if year == y && i > 0 {
			return all[i-1], true
		}
	}

	return 0, false
}

// PeriodDuration returns the number of years the period labelled y stands
// for. An explicit duration_period entry wins; otherwise the gap to the
// previous declared year is used, and the very first declared year borrows
// the following gap (or 1 for a single-year scenario).
func (s *Scenario) PeriodDuration(y int) float64 {
	if v, ok := s.params.Value("duration_period", Filter{DimYear: FormatYear(y)}); ok {
		return v
	}

	if prev, ok := s.PrevYear(y); ok {
		return float64(y - prev)
	}

	all := s.AllYears()
	if len(all) > 1 && all[0] == y {
		return float64(all[1] - all[0])
	}

	return 1
}

// InterestRate returns the declared interest rate for a year, defaulting to
// zero when the parameter is absent.
func (s *Scenario) InterestRate(y int) float64 {
	if v, ok := s.params.Value("interestrate", Filter{DimYear: FormatYear(y)}); ok {
		return v
	}

	return 0
}

// FormatYear renders a year label the way parameter tuples store it.
func FormatYear(y int) string { return strconv.Itoa(y) }

// ParseYear parses a year label from a parameter tuple.
func ParseYear(v string) (int, error) {
	y, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownYear, v)
	}

	return y, nil
}
