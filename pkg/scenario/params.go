package scenario

import (
	"iter"
	"strings"
)

// Row is one entry of a parameter table: a full tuple of dimension values in
// schema order plus a numeric value and its unit.
type Row struct {
	Dims  []string
	Value float64
	Unit  string
}

// Filter selects rows by fixing a subset of dimensions.
type Filter map[Dimension]string

type table struct {
	schema Schema
	rows   []Row
	index  map[string]int
}

func rowKey(dims []string) string {
	return strings.Join(dims, "|")
}

// ParameterStore holds parameter tables keyed by tuples of dimension values.
// Validation against sets and years happens at insertion time in the
// scenario; the store only enforces exact-tuple replacement semantics.
type ParameterStore struct {
	tables map[string]*table
}

// NewParameterStore creates an empty store.
func NewParameterStore() *ParameterStore {
	return &ParameterStore{tables: make(map[string]*table)}
}

// put inserts a row, replacing any existing row with the same exact tuple
// (last-write-wins, to support iterative calibration).
func (s *ParameterStore) put(schema Schema, row Row) {
	t, ok := s.tables[schema.Name]
	if !ok {
		t = &table{schema: schema, index: make(map[string]int)}
		s.tables[schema.Name] = t
	}

	key := rowKey(row.Dims)
	if i, exists := t.index[key]; exists {
		t.rows[i] = row
		return
	}

	t.index[key] = len(t.rows)
	t.rows = append(t.rows, row)
}

// Has reports whether any rows exist for the parameter.
func (s *ParameterStore) Has(name string) bool {
	t, ok := s.tables[name]
	return ok && len(t.rows) > 0
}

// Len returns the number of rows stored for the parameter.
func (s *ParameterStore) Len(name string) int {
	t, ok := s.tables[name]
	if !ok {
		return 0
	}

	return len(t.rows)
}

// Lookup returns the rows of a parameter matching the filter, in insertion
// order. The sequence is finite and can be ranged over any number of times.
// An unknown or empty parameter yields nothing: absence of a bound is a
// modeling signal, not an error.
func (s *ParameterStore) Lookup(name string, filter Filter) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		t, ok := s.tables[name]
		if !ok {
			return
		}

		for _, row := range t.rows {
			if !matches(t.schema, row, filter) {
				continue
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Value returns the value of the single row matching the filter. The second
// return is false when no row matches; with multiple matches the first wins.
func (s *ParameterStore) Value(name string, filter Filter) (float64, bool) {
	for row := range s.Lookup(name, filter) {
		return row.Value, true
	}

	return 0, false
}

func matches(schema Schema, row Row, filter Filter) bool {
	if len(filter) == 0 {
		return true
	}

	for i, dim := range schema.Dims {
		want, ok := filter[dim]
		if !ok {
			continue
		}
		if row.Dims[i] != want {
			return false
		}
	}

	return true
}
