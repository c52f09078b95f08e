package sim

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/inference-sim/montecarlo/sim/table"
)

// Combination is a distinct sorted multiset of faces seen in a single roll
// and the number of rolls that produced it.
type Combination[F cmp.Ordered] struct {
	Faces []F
	Count int
}

// FaceCounts tallies each distinct face per roll. Faces lists the column
// faces ascending; Table has one row per roll and one column per face.
type FaceCounts[F cmp.Ordered] struct {
	Faces []F
	Table *table.Table[int, int]
}

// Analyzer computes statistics over a game's results.
//
// The results table is captured at construction. Replaying the game does
// not change what an existing Analyzer sees; build a new one instead.
type Analyzer[F cmp.Ordered] struct {
	results *table.Table[RollKey, F]
	dice    []*Die[F]
}

// NewAnalyzer captures the current results of game.
func NewAnalyzer[F cmp.Ordered](game *Game[F]) (*Analyzer[F], error) {
	results := game.Results()
	if results == nil {
		return nil, ErrNotPlayed
	}
	return &Analyzer[F]{results: results, dice: game.Dice()}, nil
}

// Results returns the table under analysis.
func (a *Analyzer[F]) Results() *table.Table[RollKey, F] {
	return a.results
}

// Jackpot counts the rolls in which every die shows the same face, and
// returns a detail table indexed by roll number with the common face.
func (a *Analyzer[F]) Jackpot() (int, *table.Table[int, F]) {
	detail := table.New[int, F]("Roll", []string{faceColumn})
	if a.results.Width() == 0 {
		return 0, detail
	}
	for i := 0; i < a.results.Len(); i++ {
		row := a.results.Row(i)
		if allEqual(row) {
			// Append cannot fail: one cell for one column.
			_ = detail.Append(a.results.Key(i).Roll, row[:1])
		}
	}
	return detail.Len(), detail
}

func allEqual[F comparable](row []F) bool {
	for _, v := range row[1:] {
		if v != row[0] {
			return false
		}
	}
	return true
}

// Combo groups rolls by their sorted face multiset. The result is ordered by
// count descending, ties broken by combination ascending. Counts sum to the
// number of rolls.
func (a *Analyzer[F]) Combo() []Combination[F] {
	n := a.results.Len()
	sorted := make([][]F, n)
	for i := 0; i < n; i++ {
		row := a.results.Row(i)
		slices.Sort(row)
		sorted[i] = row
	}
	slices.SortFunc(sorted, func(x, y []F) int { return slices.Compare(x, y) })

	combos := make([]Combination[F], 0)
	for i := 0; i < n; {
		j := i + 1
		for j < n && slices.Equal(sorted[i], sorted[j]) {
			j++
		}
		combos = append(combos, Combination[F]{Faces: sorted[i], Count: j - i})
		i = j
	}
	slices.SortStableFunc(combos, func(x, y Combination[F]) int {
		return cmp.Compare(y.Count, x.Count)
	})
	return combos
}

// ComboTable renders combinations as a table keyed by the combination.
func ComboTable[F cmp.Ordered](combos []Combination[F]) *table.Table[string, int] {
	t := table.New[string, int]("Combination", []string{"Count"})
	for _, c := range combos {
		// Append cannot fail: one cell for one column.
		_ = t.Append(formatFaces(c.Faces), []int{c.Count})
	}
	return t
}

func formatFaces[F any](faces []F) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = fmt.Sprint(f)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Faces counts, for every roll, how many dice showed each face. The columns
// are every face seen anywhere in the results, so all rows share one schema.
func (a *Analyzer[F]) Faces() *FaceCounts[F] {
	seen := make(map[F]struct{})
	for i := 0; i < a.results.Len(); i++ {
		for _, f := range a.results.Row(i) {
			seen[f] = struct{}{}
		}
	}
	faces := sortedKeys(seen)
	col := make(map[F]int, len(faces))
	labels := make([]string, len(faces))
	for j, f := range faces {
		col[f] = j
		labels[j] = fmt.Sprint(f)
	}

	counts := table.New[int, int](rollsIndex, labels)
	for i := 0; i < a.results.Len(); i++ {
		tally := make([]int, len(faces))
		for _, f := range a.results.Row(i) {
			tally[col[f]]++
		}
		// Append cannot fail: tally has one cell per face column.
		_ = counts.Append(a.results.Key(i).Roll, tally)
	}
	return &FaceCounts[F]{Faces: faces, Table: counts}
}

func sortedKeys[F cmp.Ordered, V any](m map[F]V) []F {
	keys := make([]F, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
