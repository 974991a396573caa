package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	// ErrModelNameRequired is returned when a definition omits the model name
	ErrModelNameRequired = errors.New("model name is required")
	// ErrScenarioNameRequired is returned when a definition omits the scenario name
	ErrScenarioNameRequired = errors.New("scenario name is required")
)

// Definition is the YAML document describing one scenario: sets, the year
// horizon, and parameter tables.
type Definition struct {
	Model    string         `yaml:"model" json:"model"`
	Scenario string         `yaml:"scenario" json:"scenario"`
	Version  int            `yaml:"version,omitempty" json:"version,omitempty"`
	Vars     map[string]any `yaml:"vars,omitempty" json:"vars,omitempty"`

	Sets    map[string][]string `yaml:"sets" json:"sets"`
	Horizon HorizonDef          `yaml:"horizon" json:"horizon"`
	Params  []ParamDef          `yaml:"parameters" json:"parameters"`
}

// HorizonDef declares the history and model years.
type HorizonDef struct {
	History []int `yaml:"history,omitempty" json:"history,omitempty"`
	Model   []int `yaml:"model" json:"model"`
}

// ParamDef is one parameter table in a definition file.
type ParamDef struct {
	Name string   `yaml:"name" json:"name"`
	Unit string   `yaml:"unit,omitempty" json:"unit,omitempty"`
	Rows []RowDef `yaml:"rows" json:"rows"`
}

// RowDef is one parameter row. Unit falls back to the table's default unit.
type RowDef struct {
	Dims  []string `yaml:"dims" json:"dims"`
	Value float64  `yaml:"value" json:"value"`
	Unit  string   `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// Validate checks the definition's own structure; referential integrity is
// enforced later when rows are inserted into the scenario.
func (d *Definition) Validate() error {
	if d.Model == "" {
		return ErrModelNameRequired
	}
	if d.Scenario == "" {
		return ErrScenarioNameRequired
	}
	if len(d.Horizon.Model) == 0 {
		return ErrHorizonRequired
	}
	if d.Version == 0 {
		d.Version = 1
	}

	return nil
}

// extractVars pulls the top-level vars block out of the raw file so the rest
// of the document can reference it in template expressions. The raw file is
// not valid YAML until rendered, so the block is isolated textually: from the
// "vars:" line up to the next unindented key.
func extractVars(content []byte) map[string]any {
	lines := strings.Split(string(content), "\n")

	var block []string
	inBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "vars:") {
			inBlock = true
			block = append(block, line)

			continue
		}
		if !inBlock {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") && line[0] != ' ' && line[0] != '\t' {
			break
		}
		block = append(block, line)
	}

	if len(block) == 0 {
		return nil
	}

	var head struct {
		Vars map[string]any `yaml:"vars"`
	}
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &head); err != nil {
		return nil
	}

	return head.Vars
}

// ParseDefinition renders and parses a scenario definition file.
func ParseDefinition(content []byte, filePath string) (*Definition, error) {
	rendered, err := RenderDefinition(filepath.Base(filePath), content, extractVars(content))
	if err != nil {
		return nil, err
	}

	def := &Definition{}
	if err := yaml.Unmarshal(rendered, def); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", filePath, err)
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario file %s: %w", filePath, err)
	}

	return def, nil
}

// Build materializes a committed scenario from a definition.
func Build(log logrus.FieldLogger, def *Definition) (*Scenario, error) {
	scn := New(log, def.Model, def.Scenario)
	scn.Version = def.Version

	for name, members := range def.Sets {
		if err := scn.DefineSet(name, members...); err != nil {
			return nil, err
		}
	}

	if err := scn.SetHorizon(def.Horizon.History, def.Horizon.Model); err != nil {
		return nil, err
	}

	for _, par := range def.Params {
		rows := make([]Row, 0, len(par.Rows))
		for _, r := range par.Rows {
			unit := r.Unit
			if unit == "" {
				unit = par.Unit
			}
			rows = append(rows, Row{Dims: r.Dims, Value: r.Value, Unit: unit})
		}

		if err := scn.AddPar(par.Name, rows...); err != nil {
			return nil, err
		}
	}

	if err := scn.Commit(); err != nil {
		return nil, err
	}

	return scn, nil
}

// DiscoverPaths finds scenario definition files under the configured paths.
// Missing directories are skipped so optional path lists stay usable.
func DiscoverPaths(paths []string) ([]string, error) {
	var files []string

	for _, base := range paths {
		if _, err := os.Stat(base); os.IsNotExist(err) {
			continue
		}

		err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to discover scenarios in %s: %w", base, err)
		}
	}

	return files, nil
}

// LoadFile parses a single scenario file from disk into a committed scenario.
func LoadFile(log logrus.FieldLogger, path string) (*Scenario, error) {
	content, err := os.ReadFile(path) //nolint:gosec // User-provided scenario file path
	if err != nil {
		return nil, err
	}

	def, err := ParseDefinition(content, path)
	if err != nil {
		return nil, err
	}

	return Build(log, def)
}
