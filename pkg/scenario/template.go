package scenario

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// RenderDefinition runs a scenario definition file through text/template
// with the sprig function map before YAML parsing. This lets repetitive
// parameter tables (per-year demand series and the like) be generated
// instead of written out by hand.
func RenderDefinition(name string, content []byte, vars map[string]any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("failed to render scenario template %s: %w", name, err)
	}

	return buf.Bytes(), nil
}
