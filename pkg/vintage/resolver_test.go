package vintage

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/epo/pkg/scenario"
)

func buildScenario(t *testing.T, lifetimes map[string]float64) *scenario.Scenario {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	scn := scenario.New(log, "m", "s")
	require.NoError(t, scn.DefineSet("technology", "wind_plant", "gas_plant", "grid"))
	require.NoError(t, scn.SetHorizon([]int{690}, []int{700, 710, 720}))

	for tec, lt := range lifetimes {
		for _, v := range scn.AllYears() {
			require.NoError(t, scn.AddPar("technical_lifetime",
				scenario.Row{Dims: []string{tec, scenario.FormatYear(v)}, Value: lt}))
		}
	}

	require.NoError(t, scn.Commit())

	return scn
}

func TestResolve_RequiresCommit(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	scn := scenario.New(log, "m", "s")
	require.NoError(t, scn.DefineSet("technology", "x"))
	require.NoError(t, scn.SetHorizon(nil, []int{700}))

	_, err := Resolve(log, scn)
	assert.ErrorIs(t, err, scenario.ErrScenarioNotCommitted)
}

func TestResolve_LifetimeWindows(t *testing.T) {
	scn := buildScenario(t, map[string]float64{"wind_plant": 20, "gas_plant": 10})

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	vm, err := Resolve(log, scn)
	require.NoError(t, err)

	tests := []struct {
		name     string
		tec      string
		vintage  int
		expected []int
	}{
		// The window is exactly {a : a >= v, a - v < lifetime}.
		{name: "20y vintage 700", tec: "wind_plant", vintage: 700, expected: []int{700, 710}},
		{name: "20y vintage 710", tec: "wind_plant", vintage: 710, expected: []int{710, 720}},
		{name: "20y vintage 720", tec: "wind_plant", vintage: 720, expected: []int{720}},
		{name: "20y history vintage still alive one period", tec: "wind_plant", vintage: 690, expected: []int{700}},
		{name: "10y vintage only operates in its own period", tec: "gas_plant", vintage: 700, expected: []int{700}},
		{name: "10y history vintage expired before horizon", tec: "gas_plant", vintage: 690, expected: nil},
		{name: "unknown vintage year", tec: "wind_plant", vintage: 695, expected: nil},
		{name: "unknown technology", tec: "fusion_plant", vintage: 700, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, vm.Active(tt.tec, tt.vintage))
		})
	}
}

func TestResolve_UnboundedLifetime(t *testing.T) {
	scn := buildScenario(t, nil)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	vm, err := Resolve(log, scn)
	require.NoError(t, err)

	// No declared lifetime: valid through the full horizon.
	assert.Equal(t, []int{700, 710, 720}, vm.Active("grid", 690))
	assert.Equal(t, []int{710, 720}, vm.Active("grid", 710))
}

func TestMap_AliveAndVintages(t *testing.T) {
	scn := buildScenario(t, map[string]float64{"wind_plant": 20, "gas_plant": 10})

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	vm, err := Resolve(log, scn)
	require.NoError(t, err)

	assert.True(t, vm.Alive("wind_plant", 700, 710))
	assert.False(t, vm.Alive("wind_plant", 700, 720))
	assert.False(t, vm.Alive("wind_plant", 710, 700))

	// Expired history vintages carry no decision variables.
	assert.Equal(t, []int{690, 700, 710, 720}, vm.Vintages("wind_plant"))
	assert.Equal(t, []int{700, 710, 720}, vm.Vintages("gas_plant"))
}
