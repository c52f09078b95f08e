package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// FitResult is a Pearson chi-square goodness-of-fit test of one die's column
// against that die's weights.
type FitResult struct {
	Die              string
	Rolls            int
	ChiSquare        float64
	DegreesOfFreedom int
	PValue           float64
}

// Fit tests whether the i-th die's rolls (0-based) are consistent with its
// current weights. Weights changed after the game was played are what the
// column is compared against.
func (a *Analyzer[F]) Fit(i int) (FitResult, error) {
	if i < 0 || i >= len(a.dice) {
		return FitResult{}, fmt.Errorf("fit die %d: %w", i+1, ErrDieIndex)
	}
	label := DieLabel(i)
	column, ok := a.results.Column(label)
	if !ok {
		return FitResult{}, fmt.Errorf("fit %s: %w", label, ErrDieIndex)
	}

	res := FitResult{Die: label, Rolls: len(column), PValue: 1}
	faces, probs := a.dice[i].Probabilities()
	counts := make(map[F]float64, len(faces))
	for _, f := range column {
		counts[f]++
	}

	var observed, expected []float64
	for j, f := range faces {
		if probs[j] == 0 {
			if counts[f] > 0 {
				// A face that cannot be rolled was observed.
				res.ChiSquare = math.Inf(1)
				res.PValue = 0
				return res, nil
			}
			continue
		}
		observed = append(observed, counts[f])
		expected = append(expected, probs[j]*float64(len(column)))
	}
	if len(column) == 0 || len(observed) < 2 {
		return res, nil
	}

	res.DegreesOfFreedom = len(observed) - 1
	res.ChiSquare = stat.ChiSquare(observed, expected)
	dist := distuv.ChiSquared{K: float64(res.DegreesOfFreedom)}
	res.PValue = 1 - dist.CDF(res.ChiSquare)
	return res, nil
}
