package opt

import "fmt"

// ByName constructs an optimizer from its CLI/API name with default settings
// and the given seed. "auto" composes all six algorithms; "multistart" runs
// differential evolution from diverse starting points.
func ByName(name string, seed int64) (Optimizer, error) {
	switch name {
	case "de", "":
		cfg := DefaultDEConfig()
		cfg.Seed = seed
		return NewDifferentialEvolution(cfg), nil
	case "cmaes":
		cfg := DefaultCMAESConfig()
		cfg.Seed = seed
		return NewCMAES(cfg), nil
	case "pso":
		cfg := DefaultPSOConfig()
		cfg.Seed = seed
		return NewParticleSwarm(cfg), nil
	case "greywolf":
		cfg := DefaultGWOConfig()
		cfg.Seed = seed
		return NewGreyWolf(cfg), nil
	case "neldermead":
		return NewNelderMead(DefaultNMConfig()), nil
	case "gridgrad":
		return NewGridGradient(DefaultGridGradientConfig()), nil
	case "auto":
		return NewAutoSelect(DefaultRoster(seed)...), nil
	case "multistart":
		cfg := DefaultMultiStartConfig()
		cfg.Seed = seed
		return NewMultiStart(cfg, func(s int64) Optimizer {
			de := DefaultDEConfig()
			de.Seed = s
			return NewDifferentialEvolution(de)
		}), nil
	}
	return nil, fmt.Errorf("unknown optimizer: %q", name)
}

// OptimizerNames lists the names accepted by ByName.
func OptimizerNames() []string {
	return []string{"de", "cmaes", "pso", "greywolf", "neldermead", "gridgrad", "auto", "multistart"}
}
