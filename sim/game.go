package sim

import (
	"cmp"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/montecarlo/sim/table"
)

// Form selects the layout returned by Game.Show.
type Form string

const (
	// FormWide is one row per roll and one column per die.
	FormWide Form = "wide"
	// FormNarrow is one row per (roll, die) pair and a single Face column.
	FormNarrow Form = "narrow"
)

// validForms maps accepted form strings.
var validForms = map[Form]bool{
	FormWide:   true,
	FormNarrow: true,
}

// ParseForm converts a user-supplied string to a Form.
// The empty string means FormWide.
func ParseForm(s string) (Form, error) {
	if s == "" {
		return FormWide, nil
	}
	f := Form(strings.ToLower(s))
	if !validForms[f] {
		return "", fmt.Errorf("%w %q; valid: wide, narrow", ErrInvalidForm, s)
	}
	return f, nil
}

const (
	rollsIndex  = "Rolls"
	narrowIndex = "Rolls/Die"
	faceColumn  = "Face"
)

// RollKey is the row identity of results tables. Die is empty in wide form.
type RollKey struct {
	Roll int
	Die  string
}

func (k RollKey) String() string {
	if k.Die == "" {
		return fmt.Sprint(k.Roll)
	}
	return fmt.Sprintf("%d/%s", k.Roll, k.Die)
}

// DieLabel returns the results column label of the i-th die (0-based).
func DieLabel(i int) string {
	return fmt.Sprintf("Die %d", i+1)
}

// Game rolls an ordered set of dice together.
//
// The dice are shared handles owned by the caller. Each Play replaces the
// results table with a newly allocated one, so tables handed out earlier
// remain valid snapshots.
type Game[F cmp.Ordered] struct {
	mu      sync.Mutex
	dice    []*Die[F]
	results *table.Table[RollKey, F]
}

// NewGame creates a game over dice. The slice is copied; the dice are not.
func NewGame[F cmp.Ordered](dice []*Die[F]) (*Game[F], error) {
	if len(dice) == 0 {
		return nil, ErrNoDice
	}
	for i, d := range dice {
		if d == nil {
			return nil, fmt.Errorf("die %d is nil", i+1)
		}
	}
	ds := make([]*Die[F], len(dice))
	copy(ds, dice)
	return &Game[F]{dice: ds}, nil
}

// Dice returns the game's die handles in column order.
func (g *Game[F]) Dice() []*Die[F] {
	out := make([]*Die[F], len(g.dice))
	copy(out, g.dice)
	return out
}

// Play rolls every die n times and stores the results, one row per roll
// numbered from 1. Prior results are discarded. On error the previous
// results are kept.
func (g *Game[F]) Play(n int) error {
	if n < 0 {
		return fmt.Errorf("play %d: %w", n, ErrInvalidRollCount)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	labels := make([]string, len(g.dice))
	columns := make([][]F, len(g.dice))
	for i, d := range g.dice {
		labels[i] = DieLabel(i)
		rolled, err := d.Roll(n)
		if err != nil {
			return fmt.Errorf("play: %s: %w", labels[i], err)
		}
		columns[i] = rolled
	}

	results := table.New[RollKey, F](rollsIndex, labels)
	row := make([]F, len(g.dice))
	for r := 0; r < n; r++ {
		for i := range columns {
			row[i] = columns[i][r]
		}
		if err := results.Append(RollKey{Roll: r + 1}, row); err != nil {
			return err
		}
	}
	g.results = results
	logrus.Debugf("played %d rolls across %d dice", n, len(g.dice))
	return nil
}

// Results returns the wide results table of the latest Play, or nil.
func (g *Game[F]) Results() *table.Table[RollKey, F] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.results
}

// Show returns the latest results in the requested layout.
func (g *Game[F]) Show(form Form) (*table.Table[RollKey, F], error) {
	if !validForms[form] {
		logrus.Warnf("Show rejected: invalid form %q", form)
		return nil, fmt.Errorf("%w %q; valid: wide, narrow", ErrInvalidForm, form)
	}
	results := g.Results()
	if results == nil {
		return nil, ErrNotPlayed
	}
	if form == FormWide {
		return results, nil
	}
	return narrow(results)
}

// narrow reshapes a wide table into one row per (roll, die), die varying
// fastest within a roll.
func narrow[F cmp.Ordered](wide *table.Table[RollKey, F]) (*table.Table[RollKey, F], error) {
	out := table.New[RollKey, F](narrowIndex, []string{faceColumn})
	labels := wide.Columns()
	for i := 0; i < wide.Len(); i++ {
		roll := wide.Key(i).Roll
		for j, label := range labels {
			if err := out.Append(RollKey{Roll: roll, Die: label}, []F{wide.Cell(i, j)}); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
