package scenario

// Dimension identifies one axis of a parameter schema. Set-backed dimensions
// are validated against the registry; year-valued dimensions are validated
// against the scenario's history and horizon.
type Dimension string

// Parameter dimensions.
const (
	DimNode       Dimension = "node"
	DimTechnology Dimension = "technology"
	DimCommodity  Dimension = "commodity"
	DimLevel      Dimension = "level"
	DimMode       Dimension = "mode"
	DimEmission   Dimension = "emission"
	DimTime       Dimension = "time"
	DimVintage    Dimension = "year_vtg"
	DimYearAct    Dimension = "year_act"
	DimYear       Dimension = "year"
)

// IsYear reports whether the dimension holds an integer year label.
func (d Dimension) IsYear() bool {
	return d == DimVintage || d == DimYearAct || d == DimYear
}

// SetName returns the registry set backing a non-year dimension.
func (d Dimension) SetName() string {
	return string(d)
}

// Schema fixes the dimensionality of one parameter table.
type Schema struct {
	Name string
	Dims []Dimension
}

// Arity returns the number of dimensions.
func (s Schema) Arity() int { return len(s.Dims) }

// Index returns the position of a dimension within the schema, or -1.
func (s Schema) Index(d Dimension) int {
	for i, dim := range s.Dims {
		if dim == d {
			return i
		}
	}

	return -1
}

// Standard parameter schemas. Dimensionality follows the conventional
// energy-system model layout: vintage-keyed techno-economic coefficients,
// historical seeds for pre-horizon capacity and activity, and per-year cost
// and bound tables.
//
//nolint:gochecknoglobals // Fixed schema catalogue shared by all scenarios
var schemas = map[string]Schema{
	"demand":                  {Name: "demand", Dims: []Dimension{DimNode, DimCommodity, DimLevel, DimYearAct, DimTime}},
	"input":                   {Name: "input", Dims: []Dimension{DimNode, DimTechnology, DimVintage, DimYearAct, DimMode, DimCommodity, DimLevel, DimTime}},
	"output":                  {Name: "output", Dims: []Dimension{DimNode, DimTechnology, DimVintage, DimYearAct, DimMode, DimCommodity, DimLevel, DimTime}},
	"technical_lifetime":      {Name: "technical_lifetime", Dims: []Dimension{DimTechnology, DimVintage}},
	"capacity_factor":         {Name: "capacity_factor", Dims: []Dimension{DimNode, DimTechnology, DimVintage, DimYearAct, DimTime}},
	"duration_time":           {Name: "duration_time", Dims: []Dimension{DimTime}},
	"duration_period":         {Name: "duration_period", Dims: []Dimension{DimYear}},
	"historical_activity":     {Name: "historical_activity", Dims: []Dimension{DimNode, DimTechnology, DimYear, DimMode, DimTime}},
	"historical_new_capacity": {Name: "historical_new_capacity", Dims: []Dimension{DimNode, DimTechnology, DimVintage}},
	"growth_activity_up":      {Name: "growth_activity_up", Dims: []Dimension{DimNode, DimTechnology, DimYearAct}},
	"initial_activity_up":     {Name: "initial_activity_up", Dims: []Dimension{DimNode, DimTechnology, DimYearAct}},
	"growth_activity_lo":      {Name: "growth_activity_lo", Dims: []Dimension{DimNode, DimTechnology, DimYearAct}},
	"initial_activity_lo":     {Name: "initial_activity_lo", Dims: []Dimension{DimNode, DimTechnology, DimYearAct}},
	"inv_cost":                {Name: "inv_cost", Dims: []Dimension{DimNode, DimTechnology, DimVintage}},
	"fix_cost":                {Name: "fix_cost", Dims: []Dimension{DimNode, DimTechnology, DimVintage, DimYearAct}},
	"var_cost":                {Name: "var_cost", Dims: []Dimension{DimNode, DimTechnology, DimVintage, DimYearAct, DimMode, DimTime}},
	"interestrate":            {Name: "interestrate", Dims: []Dimension{DimYear}},
	"construction_time":       {Name: "construction_time", Dims: []Dimension{DimTechnology, DimVintage}},
	"emission_factor":         {Name: "emission_factor", Dims: []Dimension{DimNode, DimTechnology, DimVintage, DimYearAct, DimMode, DimEmission}},
	"tax_emission":            {Name: "tax_emission", Dims: []Dimension{DimNode, DimEmission, DimYearAct}},
}

// SchemaFor returns the fixed schema for a parameter name.
func SchemaFor(name string) (Schema, bool) {
	s, ok := schemas[name]
	return s, ok
}

// ParameterNames returns all declared parameter names.
func ParameterNames() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}

	return names
}
