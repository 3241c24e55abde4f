package opt

import "math"

// StagnationTracker records best-so-far cost per iteration and detects when a
// run has stalled: no improvement greater than Tolerance for Patience
// consecutive iterations.
type StagnationTracker struct {
	// Patience is the number of iterations with no significant improvement
	// before the run is considered stalled.
	Patience int

	// Tolerance is the minimum absolute improvement required to count as
	// progress.
	Tolerance float64

	history    []float64
	bestCost   float64
	staleCount int
}

// NewStagnationTracker creates a tracker with the given patience and tolerance.
func NewStagnationTracker(patience int, tolerance float64) *StagnationTracker {
	return &StagnationTracker{
		Patience:  patience,
		Tolerance: tolerance,
		bestCost:  math.Inf(1),
	}
}

// Update records the best cost of one iteration and returns true if the run
// has stalled. The recorded history is clamped to be non-increasing.
func (s *StagnationTracker) Update(cost float64) bool {
	improvement := s.bestCost - cost
	if cost < s.bestCost {
		s.bestCost = cost
	}
	s.history = append(s.history, s.bestCost)

	if improvement > s.Tolerance {
		s.staleCount = 0
		return false
	}
	s.staleCount++
	return s.Patience > 0 && s.staleCount >= s.Patience
}

// BestCost returns the best cost seen so far.
func (s *StagnationTracker) BestCost() float64 {
	return s.bestCost
}

// History returns a copy of the best-so-far cost sequence.
func (s *StagnationTracker) History() []float64 {
	return append([]float64{}, s.history...)
}

// StaleCount returns the current number of iterations without improvement.
func (s *StagnationTracker) StaleCount() int {
	return s.staleCount
}
