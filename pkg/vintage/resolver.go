// Package vintage derives the cross-reference between construction years and
// active years. Every vintage-keyed parameter and variable is indexed
// through this map, so it is built once per committed scenario revision and
// treated as read-only afterwards.
package vintage

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gridops/epo/pkg/scenario"
)

// Map holds, for every (technology, vintage year), the model years in which
// that vintage can still operate.
type Map struct {
	active map[string]map[int][]int
	order  map[string][]int
}

// Resolve computes the vintage map for a committed scenario. For each
// technology and each vintage year in history or horizon, the active years
// are the model years a with a >= v and a - v < technical_lifetime(t, v).
// Vintages without a declared lifetime stay valid through the full horizon.
func Resolve(log logrus.FieldLogger, scn *scenario.Scenario) (*Map, error) {
	if !scn.Committed() {
		return nil, scenario.ErrScenarioNotCommitted
	}

	tecs, err := scn.Sets().Members(string(scenario.DimTechnology))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vintages: %w", err)
	}

	m := &Map{
		active: make(map[string]map[int][]int, len(tecs)),
		order:  make(map[string][]int, len(tecs)),
	}

	years := scn.AllYears()
	modelYears := scn.ModelYears()

	for _, tec := range tecs {
		m.active[tec] = make(map[int][]int, len(years))

		for _, v := range years {
			lifetime, bounded := scn.Params().Value("technical_lifetime", scenario.Filter{
				scenario.DimTechnology: tec,
				scenario.DimVintage:    scenario.FormatYear(v),
			})

			var window []int
			for _, a := range modelYears {
				if a < v {
					continue
				}
				if bounded && float64(a-v) >= lifetime {
					break
				}
				window = append(window, a)
			}

			m.active[tec][v] = window
			if len(window) > 0 {
				m.order[tec] = append(m.order[tec], v)
			}
		}
	}

	log.WithField("technologies", len(tecs)).Debug("Vintage map resolved")

	return m, nil
}

// Active returns the model years in which the (technology, vintage) pair can
// operate, in increasing order. Expired or unknown vintages yield nothing.
func (m *Map) Active(tec string, v int) []int {
	byVintage, ok := m.active[tec]
	if !ok {
		return nil
	}

	return byVintage[v]
}

// Alive reports whether the vintage can still operate in year a.
func (m *Map) Alive(tec string, v, a int) bool {
	for _, year := range m.Active(tec, v) {
		if year == a {
			return true
		}
	}

	return false
}

// Vintages returns the construction years of a technology that have at least
// one active model year, in increasing order. Vintages from history that
// expired before the first model year contribute no decision variables and
// are excluded here; their historical activity still seeds growth bases.
func (m *Map) Vintages(tec string) []int {
	return m.order[tec]
}
