// Package series holds the observed defect time-series data model shared by
// models, losses, and the fitting orchestrator. A series is read-only for the
// lifetime of a fit.
package series

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// AuxKind classifies an auxiliary observed series for likelihood purposes.
type AuxKind int

const (
	// AuxCounts marks an auxiliary series of event counts (e.g. repaired
	// defects), modeled as Poisson increments.
	AuxCounts AuxKind = iota
	// AuxContinuous marks a continuous auxiliary series (e.g. cumulative
	// test effort), modeled with Gaussian errors.
	AuxContinuous
)

// Aux is a secondary observed series aligned with the primary observation
// times.
type Aux struct {
	Name string
	Kind AuxKind
	Y    []float64
}

// Series is a defect-discovery time series: observation times T paired with
// cumulative observed counts Y, plus optional auxiliary series aligned on T.
type Series struct {
	T   []float64
	Y   []float64
	Aux []Aux
}

// New builds a series from paired time and cumulative-count slices and
// validates the pairing invariants.
func New(t, y []float64) (*Series, error) {
	s := &Series{T: t, Y: y}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the series invariants: equal lengths of at least one
// observation, strictly increasing times, non-decreasing cumulative counts,
// and aligned auxiliary series.
func (s *Series) Validate() error {
	if len(s.T) == 0 {
		return fmt.Errorf("series is empty")
	}
	if len(s.T) != len(s.Y) {
		return fmt.Errorf("series length mismatch: %d times vs %d counts", len(s.T), len(s.Y))
	}
	for i := range s.T {
		if math.IsNaN(s.T[i]) || math.IsNaN(s.Y[i]) {
			return fmt.Errorf("observation %d is NaN", i)
		}
		if i > 0 && s.T[i] <= s.T[i-1] {
			return fmt.Errorf("times not strictly increasing at index %d: %g after %g", i, s.T[i], s.T[i-1])
		}
		if i > 0 && s.Y[i] < s.Y[i-1] {
			return fmt.Errorf("cumulative counts decrease at index %d: %g after %g", i, s.Y[i], s.Y[i-1])
		}
	}
	for _, a := range s.Aux {
		if len(a.Y) != len(s.T) {
			return fmt.Errorf("auxiliary series %q length %d does not match %d observations", a.Name, len(a.Y), len(s.T))
		}
	}
	return nil
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.T) }

// MaxCount returns the largest cumulative count, i.e. the total defects
// observed so far.
func (s *Series) MaxCount() float64 {
	return floats.Max(s.Y)
}

// Duration returns the span of the observation window.
func (s *Series) Duration() float64 {
	return s.T[len(s.T)-1] - s.T[0]
}

// Increments returns the first differences of the cumulative counts, with the
// first observation differenced against zero.
func (s *Series) Increments() []float64 {
	d := make([]float64, len(s.Y))
	prev := 0.0
	for i, y := range s.Y {
		d[i] = y - prev
		prev = y
	}
	return d
}

// Split reserves the last holdout observations for validation and returns the
// training prefix and the held-out suffix. A zero or negative holdout returns
// the full series and nil. Auxiliary series are sliced alongside.
func (s *Series) Split(holdout int) (train, test *Series) {
	if holdout <= 0 || holdout >= s.Len() {
		return s, nil
	}
	cut := s.Len() - holdout
	train = &Series{T: s.T[:cut], Y: s.Y[:cut]}
	test = &Series{T: s.T[cut:], Y: s.Y[cut:]}
	for _, a := range s.Aux {
		train.Aux = append(train.Aux, Aux{Name: a.Name, Kind: a.Kind, Y: a.Y[:cut]})
		test.Aux = append(test.Aux, Aux{Name: a.Name, Kind: a.Kind, Y: a.Y[cut:]})
	}
	return train, test
}
