package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/solve"
)

func sampleStore(t *testing.T) *Store {
	t.Helper()

	prob := lp.NewProblem()
	prob.AddVar("ACT", lp.Key{"north", "wind_plant", "700", "700", "standard"}, 0, 0, lp.Inf())
	prob.AddVar("ACT", lp.Key{"north", "gas_plant", "700", "700", "standard"}, 0, 0, lp.Inf())
	prob.AddVar("CAP_NEW", lp.Key{"north", "wind_plant", "700"}, 0, 0, lp.Inf())
	prob.AddRow("COMMODITY_BALANCE", lp.Key{"north", "electricity", "final", "700", "year"}, 100, nil, lp.Inf())

	return NewStore(prob, &solve.Result{
		Objective: 1234.5,
		Columns:   []float64{60, 40, 6},
		Duals:     []float64{30},
	})
}

func TestNewStore_MapsLevelsAndDuals(t *testing.T) {
	s := sampleStore(t)

	assert.InDelta(t, 1234.5, s.Objective, 1e-12)
	assert.Equal(t, []string{"ACT", "CAP_NEW"}, s.VariableNames())

	act, ok := s.Level("ACT")
	require.True(t, ok)
	require.Len(t, act.Records, 2)

	v, ok := act.Value(lp.Key{"north", "gas_plant", "700", "700", "standard"})
	require.True(t, ok)
	assert.InDelta(t, 40, v, 1e-12)

	dual, ok := s.Dual("COMMODITY_BALANCE")
	require.True(t, ok)
	v, ok = dual.Value(lp.Key{"north", "electricity", "final", "700", "year"})
	require.True(t, ok)
	assert.InDelta(t, 30, v, 1e-12)

	_, ok = s.Level("CAP")
	assert.False(t, ok)
}

func TestTable_FilterAndSum(t *testing.T) {
	s := sampleStore(t)

	act, ok := s.Level("ACT")
	require.True(t, ok)

	wind := act.Filter(lp.Key{"", "wind_plant"})
	require.Len(t, wind, 1)
	assert.InDelta(t, 60, wind[0].Value, 1e-12)

	assert.InDelta(t, 100, act.Sum(lp.Key{"north"}), 1e-12)
	assert.Empty(t, act.Filter(lp.Key{"south"}))

	_, ok = act.Value(lp.Key{"north", "wind_plant"})
	assert.False(t, ok, "Value requires the exact key")
}
