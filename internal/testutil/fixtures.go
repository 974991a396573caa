package testutil

import (
	"github.com/sirupsen/logrus"

	"github.com/gridops/epo/pkg/scenario"
)

// Logger returns a quiet logger for tests.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

// SingleTechDefinition is the smallest meaningful model: one node, one
// dispatch-only technology covering an electricity demand over two periods.
// With no capacity or growth parameters the optimum is activity equal to
// demand, and the balance shadow price equals the discounted variable cost
// weighted by the period length.
func SingleTechDefinition() *scenario.Definition {
	return &scenario.Definition{
		Model:    "island",
		Scenario: "baseline",
		Version:  1,
		Sets: map[string][]string{
			"node":       {"island"},
			"technology": {"diesel_gen"},
			"commodity":  {"electricity"},
			"level":      {"final"},
			"mode":       {"standard"},
		},
		Horizon: scenario.HorizonDef{Model: []int{700, 710}},
		Params: []scenario.ParamDef{
			{
				Name: "demand",
				Unit: "GWa",
				Rows: []scenario.RowDef{
					{Dims: []string{"island", "electricity", "final", "700", "year"}, Value: 100},
					{Dims: []string{"island", "electricity", "final", "710", "year"}, Value: 120},
				},
			},
			{
				Name: "output",
				Rows: []scenario.RowDef{
					{Dims: []string{"island", "diesel_gen", "700", "700", "standard", "electricity", "final", "year"}, Value: 1},
					{Dims: []string{"island", "diesel_gen", "710", "710", "standard", "electricity", "final", "year"}, Value: 1},
				},
			},
			{
				Name: "var_cost",
				Unit: "USD/GWa",
				Rows: []scenario.RowDef{
					{Dims: []string{"island", "diesel_gen", "700", "700", "standard", "year"}, Value: 10},
					{Dims: []string{"island", "diesel_gen", "710", "710", "standard", "year"}, Value: 10},
				},
			},
		},
	}
}

// TwoTechDefinition is the canonical expansion-planning model: one node,
// three ten-year periods with demand growing {1.0, 1.5, 1.9} x baseline, a
// long-lived wind technology entering the market against an incumbent gas
// technology seeded with pre-horizon activity and capacity, and 5%/year
// diffusion caps on both.
func TwoTechDefinition() *scenario.Definition {
	windOutput := func(vtg, act string) scenario.RowDef {
		return scenario.RowDef{
			Dims:  []string{"north", "wind_plant", vtg, act, "standard", "electricity", "final", "year"},
			Value: 1,
		}
	}
	gasOutput := func(year string) scenario.RowDef {
		return scenario.RowDef{
			Dims:  []string{"north", "gas_plant", year, year, "standard", "electricity", "final", "year"},
			Value: 1,
		}
	}

	return &scenario.Definition{
		Model:    "two_tech",
		Scenario: "baseline",
		Version:  1,
		Sets: map[string][]string{
			"node":       {"north"},
			"technology": {"wind_plant", "gas_plant"},
			"commodity":  {"electricity"},
			"level":      {"final"},
			"mode":       {"standard"},
		},
		Horizon: scenario.HorizonDef{
			History: []int{690},
			Model:   []int{700, 710, 720},
		},
		Params: []scenario.ParamDef{
			{
				Name: "demand",
				Unit: "GWa",
				Rows: []scenario.RowDef{
					{Dims: []string{"north", "electricity", "final", "700", "year"}, Value: 100},
					{Dims: []string{"north", "electricity", "final", "710", "year"}, Value: 150},
					{Dims: []string{"north", "electricity", "final", "720", "year"}, Value: 190},
				},
			},
			{
				Name: "technical_lifetime",
				Unit: "y",
				Rows: []scenario.RowDef{
					{Dims: []string{"wind_plant", "690"}, Value: 20},
					{Dims: []string{"wind_plant", "700"}, Value: 20},
					{Dims: []string{"wind_plant", "710"}, Value: 20},
					{Dims: []string{"wind_plant", "720"}, Value: 20},
					{Dims: []string{"gas_plant", "690"}, Value: 10},
					{Dims: []string{"gas_plant", "700"}, Value: 10},
					{Dims: []string{"gas_plant", "710"}, Value: 10},
					{Dims: []string{"gas_plant", "720"}, Value: 10},
				},
			},
			{
				Name: "output",
				Rows: []scenario.RowDef{
					windOutput("690", "700"),
					windOutput("700", "700"),
					windOutput("700", "710"),
					windOutput("710", "710"),
					windOutput("710", "720"),
					windOutput("720", "720"),
					gasOutput("700"),
					gasOutput("710"),
					gasOutput("720"),
				},
			},
			{
				Name: "historical_activity",
				Unit: "GWa",
				Rows: []scenario.RowDef{
					{Dims: []string{"north", "gas_plant", "690", "standard", "year"}, Value: 50},
				},
			},
			{
				Name: "historical_new_capacity",
				Unit: "GW/y",
				Rows: []scenario.RowDef{
					{Dims: []string{"north", "wind_plant", "690"}, Value: 2},
				},
			},
			{
				Name: "growth_activity_up",
				Rows: []scenario.RowDef{
					{Dims: []string{"north", "wind_plant", "700"}, Value: 0.05},
					{Dims: []string{"north", "wind_plant", "710"}, Value: 0.05},
					{Dims: []string{"north", "wind_plant", "720"}, Value: 0.05},
					{Dims: []string{"north", "gas_plant", "700"}, Value: 0.05},
					{Dims: []string{"north", "gas_plant", "710"}, Value: 0.05},
					{Dims: []string{"north", "gas_plant", "720"}, Value: 0.05},
				},
			},
			{
				Name: "initial_activity_up",
				Unit: "GWa",
				Rows: []scenario.RowDef{
					{Dims: []string{"north", "wind_plant", "700"}, Value: 5},
					{Dims: []string{"north", "wind_plant", "710"}, Value: 5},
					{Dims: []string{"north", "wind_plant", "720"}, Value: 5},
				},
			},
			{
				Name: "inv_cost",
				Unit: "USD/GW",
				Rows: []scenario.RowDef{
					{Dims: []string{"north", "wind_plant", "700"}, Value: 1500},
					{Dims: []string{"north", "wind_plant", "710"}, Value: 1500},
					{Dims: []string{"north", "wind_plant", "720"}, Value: 1500},
					{Dims: []string{"north", "gas_plant", "700"}, Value: 800},
					{Dims: []string{"north", "gas_plant", "710"}, Value: 800},
					{Dims: []string{"north", "gas_plant", "720"}, Value: 800},
				},
			},
			{
				Name: "fix_cost",
				Unit: "USD/GW",
				Rows: []scenario.RowDef{
					{Dims: []string{"north", "wind_plant", "690", "700"}, Value: 30},
					{Dims: []string{"north", "wind_plant", "700", "700"}, Value: 30},
					{Dims: []string{"north", "wind_plant", "700", "710"}, Value: 30},
					{Dims: []string{"north", "wind_plant", "710", "710"}, Value: 30},
					{Dims: []string{"north", "wind_plant", "710", "720"}, Value: 30},
					{Dims: []string{"north", "wind_plant", "720", "720"}, Value: 30},
					{Dims: []string{"north", "gas_plant", "700", "700"}, Value: 15},
					{Dims: []string{"north", "gas_plant", "710", "710"}, Value: 15},
					{Dims: []string{"north", "gas_plant", "720", "720"}, Value: 15},
				},
			},
			{
				Name: "var_cost",
				Unit: "USD/GWa",
				Rows: []scenario.RowDef{
					{Dims: []string{"north", "gas_plant", "700", "700", "standard", "year"}, Value: 30},
					{Dims: []string{"north", "gas_plant", "710", "710", "standard", "year"}, Value: 30},
					{Dims: []string{"north", "gas_plant", "720", "720", "standard", "year"}, Value: 30},
				},
			},
			{
				Name: "interestrate",
				Rows: []scenario.RowDef{
					{Dims: []string{"700"}, Value: 0.05},
					{Dims: []string{"710"}, Value: 0.05},
					{Dims: []string{"720"}, Value: 0.05},
				},
			},
		},
	}
}

// SingleTechScenario builds the committed single-technology scenario.
func SingleTechScenario(log logrus.FieldLogger) (*scenario.Scenario, error) {
	return scenario.Build(log, SingleTechDefinition())
}

// TwoTechScenario builds the committed two-technology scenario.
func TwoTechScenario(log logrus.FieldLogger) (*scenario.Scenario, error) {
	return scenario.Build(log, TwoTechDefinition())
}
