package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templatedScenario = `model: island
scenario: baseline
vars:
  baseline: 100
  years: [700, 710]

sets:
  node: [island]
  technology: [diesel_gen]
  commodity: [electricity]
  level: [final]
  mode: [standard]

horizon:
  model: [700, 710]

parameters:
  - name: demand
    unit: GWa
    rows:
{{- range $i, $y := .years }}
      - dims: [island, electricity, final, "{{ $y }}", year]
        value: {{ mulf $.baseline (addf 1.0 (mulf 0.5 $i)) }}
{{- end }}
  - name: output
    rows:
{{- range .years }}
      - dims: [island, diesel_gen, "{{ . }}", "{{ . }}", standard, electricity, final, year]
        value: 1
{{- end }}
`

func TestParseDefinition_RendersTemplateVars(t *testing.T) {
	def, err := ParseDefinition([]byte(templatedScenario), "island.yaml")
	require.NoError(t, err)

	assert.Equal(t, "island", def.Model)
	assert.Equal(t, "baseline", def.Scenario)
	assert.Equal(t, 1, def.Version, "version defaults to 1")
	require.Len(t, def.Params, 2)

	demand := def.Params[0]
	require.Len(t, demand.Rows, 2)
	assert.Equal(t, []string{"island", "electricity", "final", "700", "year"}, demand.Rows[0].Dims)
	assert.InDelta(t, 100, demand.Rows[0].Value, 1e-9)
	assert.InDelta(t, 150, demand.Rows[1].Value, 1e-9)
}

func TestParseDefinition_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing model name",
			content: "scenario: s\nhorizon:\n  model: [700]\n",
			wantErr: ErrModelNameRequired,
		},
		{
			name:    "missing scenario name",
			content: "model: m\nhorizon:\n  model: [700]\n",
			wantErr: ErrScenarioNameRequired,
		},
		{
			name:    "missing horizon",
			content: "model: m\nscenario: s\n",
			wantErr: ErrHorizonRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.content), tt.name+".yaml")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseDefinition_UndefinedTemplateVar(t *testing.T) {
	_, err := ParseDefinition([]byte("model: {{ .missing }}\n"), "bad.yaml")
	assert.Error(t, err)
}

func TestBuild_CommitsScenario(t *testing.T) {
	def, err := ParseDefinition([]byte(templatedScenario), "island.yaml")
	require.NoError(t, err)

	scn, err := Build(testLogger(), def)
	require.NoError(t, err)

	assert.True(t, scn.Committed())
	assert.Equal(t, []int{700, 710}, scn.ModelYears())
	assert.Equal(t, 2, scn.Params().Len("demand"))

	// Table-level unit applies to rows without their own.
	for row := range scn.Params().Lookup("demand", Filter{}) {
		assert.Equal(t, "GWa", row.Unit)
	}
}

func TestBuild_RejectsBadReferences(t *testing.T) {
	def := &Definition{
		Model:    "m",
		Scenario: "s",
		Sets:     map[string][]string{"node": {"north"}},
		Horizon:  HorizonDef{Model: []int{700}},
		Params: []ParamDef{
			{Name: "demand", Rows: []RowDef{
				{Dims: []string{"north", "electricity", "final", "700", "year"}, Value: 1},
			}},
		},
	}

	_, err := Build(testLogger(), def)
	assert.ErrorIs(t, err, ErrUnknownSet)
}

func TestDiscoverPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	for _, f := range []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(sub, "b.yml"),
		filepath.Join(dir, "notes.txt"),
	} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))
	}

	files, err := DiscoverPaths([]string{dir, filepath.Join(dir, "does-not-exist")})
	require.NoError(t, err)

	assert.Len(t, files, 2)
	assert.Contains(t, files, filepath.Join(dir, "a.yaml"))
	assert.Contains(t, files, filepath.Join(sub, "b.yml"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "island.yaml")
	require.NoError(t, os.WriteFile(path, []byte(templatedScenario), 0o600))

	scn, err := LoadFile(testLogger(), path)
	require.NoError(t, err)
	assert.Equal(t, "island", scn.Model)

	_, err = LoadFile(testLogger(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
