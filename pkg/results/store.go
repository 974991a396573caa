// Package results exposes solved variable levels and constraint duals as
// tuple-keyed value series, addressable by variable or constraint family
// name. The tabular records are the presentation boundary: any external
// reporting layer can consume them without further decoding.
package results

import (
	"sort"

	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/solve"
)

// Record is one tuple-keyed value.
type Record struct {
	Key   lp.Key  `json:"key"`
	Value float64 `json:"value"`
}

// Table is an ordered series of records for one family.
type Table struct {
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// Filter returns the records matching a partial key (empty positions are
// wildcards), preserving order.
func (t *Table) Filter(filter lp.Key) []Record {
	var out []Record
	for _, r := range t.Records {
		if r.Key.Matches(filter) {
			out = append(out, r)
		}
	}

	return out
}

// Value returns the record value for an exact key.
func (t *Table) Value(key lp.Key) (float64, bool) {
	for _, r := range t.Records {
		if r.Key.Equal(key) {
			return r.Value, true
		}
	}

	return 0, false
}

// Sum totals the values of records matching a partial key.
func (t *Table) Sum(filter lp.Key) float64 {
	var total float64
	for _, r := range t.Filter(filter) {
		total += r.Value
	}

	return total
}

// Store holds the complete result set of one solve, with every level and
// dual still attributed to its original index tuple.
type Store struct {
	Objective float64           `json:"objective"`
	Levels    map[string]*Table `json:"levels"`
	Duals     map[string]*Table `json:"duals"`
}

// NewStore maps raw solver output back onto the problem's tuple-keyed
// columns and rows.
func NewStore(prob *lp.Problem, res *solve.Result) *Store {
	s := &Store{
		Objective: res.Objective,
		Levels:    make(map[string]*Table),
		Duals:     make(map[string]*Table),
	}

	for i, v := range prob.Vars() {
		tbl, ok := s.Levels[v.Family]
		if !ok {
			tbl = &Table{Name: v.Family}
			s.Levels[v.Family] = tbl
		}
		tbl.Records = append(tbl.Records, Record{Key: v.Key, Value: res.Columns[i]})
	}

	for i, r := range prob.Rows() {
		tbl, ok := s.Duals[r.Family]
		if !ok {
			tbl = &Table{Name: r.Family}
			s.Duals[r.Family] = tbl
		}
		tbl.Records = append(tbl.Records, Record{Key: r.Key, Value: res.Duals[i]})
	}

	return s
}

// Level returns the level table for a decision-variable family.
func (s *Store) Level(name string) (*Table, bool) {
	t, ok := s.Levels[name]
	return t, ok
}

// Dual returns the shadow-price table for a constraint family.
func (s *Store) Dual(name string) (*Table, bool) {
	t, ok := s.Duals[name]
	return t, ok
}

// VariableNames lists the level families present, sorted.
func (s *Store) VariableNames() []string {
	names := make([]string, 0, len(s.Levels))
	for name := range s.Levels {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
