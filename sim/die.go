package sim

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FaceWeight is one row of a die's face table.
type FaceWeight[F cmp.Ordered] struct {
	Face   F
	Weight float64
}

// Die is a weighted random face generator.
//
// Faces are fixed at construction and keep their insertion order. Duplicate
// face values are separate rows. Only weights change after construction.
//
// A *Die is a shared handle: every Game built from it rolls the same
// instance, so SetWeight affects all of them from their next Play on.
// Thread-safety: safe for concurrent use; one mutex guards weights and rng.
type Die[F cmp.Ordered] struct {
	mu      sync.Mutex
	faces   []F
	weights []float64
	rng     *rand.Rand
}

// NewDie creates a die with every face weighted 1.0. NaN faces are
// rejected with ErrInvalidFaceValue. A nil rng is replaced by a time-seeded source.
func NewDie[F cmp.Ordered](faces []F, rng *rand.Rand) (*Die[F], error) {
	if len(faces) == 0 {
		return nil, ErrNoFaces
	}
	for i, f := range faces {
		// Only NaN is unequal to itself; it cannot be a distinct face.
		if f != f {
			return nil, fmt.Errorf("face %d is NaN: %w", i+1, ErrInvalidFaceValue)
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Die[F]{
		faces:   make([]F, len(faces)),
		weights: make([]float64, len(faces)),
		rng:     rng,
	}
	copy(d.faces, faces)
	for i := range d.weights {
		d.weights[i] = 1.0
	}
	return d, nil
}

// SetWeight sets the weight of every row whose face equals face.
func (d *Die[F]) SetWeight(face F, weight float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	matched := false
	for _, f := range d.faces {
		if f == face {
			matched = true
			break
		}
	}
	if !matched {
		return fmt.Errorf("set weight of %v: %w", face, ErrInvalidFaceValue)
	}
	if err := validateWeight(weight); err != nil {
		return fmt.Errorf("set weight of %v: %w", face, err)
	}

	for i, f := range d.faces {
		if f == face {
			d.weights[i] = weight
		}
	}
	logrus.Debugf("die face %v weight set to %g", face, weight)
	return nil
}

func validateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("%w: must be a finite number, got %f", ErrInvalidWeight, w)
	}
	if w < 0 {
		return fmt.Errorf("%w: must be non-negative, got %f", ErrInvalidWeight, w)
	}
	return nil
}

// ParseWeight converts textual input (flags, config) into a weight.
// Non-numeric text yields ErrInvalidWeight.
func ParseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidWeight, s)
	}
	if err := validateWeight(w); err != nil {
		return 0, err
	}
	return w, nil
}

// Roll draws n faces with replacement, each row chosen with probability
// proportional to its weight. All n draws use the weights current at call time.
func (d *Die[F]) Roll(n int) ([]F, error) {
	if n < 0 {
		return nil, fmt.Errorf("roll %d: %w", n, ErrInvalidRollCount)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]F, 0, n)
	if n == 0 {
		return out, nil
	}
	cdf, ok := cumulative(d.weights)
	if !ok {
		return nil, ErrNoSelectableFace
	}
	for i := 0; i < n; i++ {
		out = append(out, d.faces[sample(cdf, d.rng)])
	}
	return out, nil
}

// cumulative returns the normalized CDF over weights. Weights are scaled by
// the largest one first so finite weights near MaxFloat64 cannot overflow
// the sum. Rows from the last positive weight onward are pinned to exactly
// 1.0. Returns false when every weight is zero.
func cumulative(weights []float64) ([]float64, bool) {
	maxW := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			last = i
		}
		maxW = max(maxW, w)
	}
	if last < 0 {
		return nil, false
	}
	total := 0.0
	for _, w := range weights {
		total += w / maxW
	}
	cdf := make([]float64, len(weights))
	acc := 0.0
	for i, w := range weights {
		acc += (w / maxW) / total
		cdf[i] = acc
	}
	for i := last; i < len(cdf); i++ {
		cdf[i] = 1.0
	}
	return cdf, true
}

// sample picks the first row whose CDF exceeds u. A zero-weight row never
// qualifies: its CDF equals the previous row's, which would have matched first.
func sample(cdf []float64, rng *rand.Rand) int {
	u := rng.Float64()
	return sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
}

// Show returns a snapshot of the face table in insertion order.
func (d *Die[F]) Show() []FaceWeight[F] {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]FaceWeight[F], len(d.faces))
	for i, f := range d.faces {
		out[i] = FaceWeight[F]{Face: f, Weight: d.weights[i]}
	}
	return out
}

// Faces returns a copy of the faces in insertion order.
func (d *Die[F]) Faces() []F {
	out := make([]F, len(d.faces))
	copy(out, d.faces)
	return out
}

// Probabilities returns the selection probability of each distinct face
// value, summing duplicate rows. Faces are sorted ascending.
func (d *Die[F]) Probabilities() ([]F, []float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	total := 0.0
	byFace := make(map[F]float64, len(d.faces))
	for i, f := range d.faces {
		byFace[f] += d.weights[i]
		total += d.weights[i]
	}
	faces := sortedKeys(byFace)
	probs := make([]float64, len(faces))
	if total > 0 {
		for i, f := range faces {
			probs[i] = byFace[f] / total
		}
	}
	return faces, probs
}
