package model

import "fmt"

// All returns one instance of every registered growth model, in a stable
// order suitable for batch fitting.
func All() []Model {
	return []Model{
		GoelOkumoto{},
		DelayedSShaped{},
		InflectionSShaped{},
		ThreeStageErlang{},
		Gompertz{},
		Logistic{},
		Richards{},
		MorganMercerFlodin{},
		Weibull{},
		Rayleigh{},
		LogLogistic{},
		LogNormal{},
		NormalOgive{},
		MusaOkumoto{},
		Duane{},
		ModifiedDuane{},
		LogPower{},
		TestEffort{Effort: ExponentialEffort{}},
		TestEffort{Effort: RayleighEffort{}},
		DetectionCorrection{Base: GoelOkumoto{}},
	}
}

// Names returns the registered model names in registry order.
func Names() []string {
	models := All()
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name()
	}
	return names
}

// ByName resolves a model by its registry name.
func ByName(name string) (Model, error) {
	for _, m := range All() {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown model: %q", name)
}
