package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalyzer_UnplayedGame_Rejected(t *testing.T) {
	g, err := NewGame([]*Die[int]{newSeededDie(t, 0, sixSided)})
	require.NoError(t, err)

	_, err = NewAnalyzer(g)

	assert.ErrorIs(t, err, ErrNotPlayed)
}

func TestAnalyzer_Jackpot_EveryRowIncludingLast(t *testing.T) {
	// GIVEN two dice that can only roll 1
	g := playedGame(t, 2, []int{1, 1, 1}, 100)
	a, err := NewAnalyzer(g)
	require.NoError(t, err)

	// WHEN jackpots are counted
	n, detail := a.Jackpot()

	// THEN all 100 rolls count, the last one included
	assert.Equal(t, 100, n)
	assert.Equal(t, 100, detail.Len())
	assert.Equal(t, 100, detail.Key(99))
	assert.Equal(t, []string{"Face"}, detail.Columns())
	assert.Equal(t, 1, detail.Cell(99, 0))
}

func TestAnalyzer_Jackpot_DetailMatchesRows(t *testing.T) {
	g := playedGame(t, 2, []int{1, 2}, 200)
	a, err := NewAnalyzer(g)
	require.NoError(t, err)

	n, detail := a.Jackpot()

	results := a.Results()
	want := 0
	for i := 0; i < results.Len(); i++ {
		row := results.Row(i)
		if row[0] == row[1] {
			want++
		}
	}
	assert.Equal(t, want, n)
	for k := 0; k < detail.Len(); k++ {
		row := results.Row(detail.Key(k) - 1)
		assert.Equal(t, row[0], detail.Cell(k, 0))
		assert.Equal(t, row[0], row[1])
	}
}

func TestAnalyzer_Jackpot_SingleDie_EveryRollIsJackpot(t *testing.T) {
	g := playedGame(t, 1, sixSided, 25)
	a, err := NewAnalyzer(g)
	require.NoError(t, err)

	n, _ := a.Jackpot()

	assert.Equal(t, 25, n)
}

func TestAnalyzer_Jackpot_ZeroRows(t *testing.T) {
	g := playedGame(t, 2, sixSided, 0)
	a, err := NewAnalyzer(g)
	require.NoError(t, err)

	n, detail := a.Jackpot()

	assert.Equal(t, 0, n)
	assert.Equal(t, 0, detail.Len())
}

func TestAnalyzer_Combo_CountsSumToRolls(t *testing.T) {
	for _, rolls := range []int{0, 1, 37, 500} {
		g := playedGame(t, 3, sixSided, rolls)
		a, err := NewAnalyzer(g)
		require.NoError(t, err)

		total := 0
		for _, c := range a.Combo() {
			total += c.Count
		}
		assert.Equal(t, rolls, total, "rolls=%d", rolls)
	}
}

func TestAnalyzer_Combo_IgnoresDieIdentity(t *testing.T) {
	// GIVEN a die that only rolls 2 and one that only rolls 5, in both orders
	two := newSeededDie(t, 0, []int{2})
	five := newSeededDie(t, 1, []int{5})
	g1, err := NewGame([]*Die[int]{two, five, two})
	require.NoError(t, err)
	g2, err := NewGame([]*Die[int]{five, two, two})
	require.NoError(t, err)
	require.NoError(t, g1.Play(4))
	require.NoError(t, g2.Play(4))

	a1, err := NewAnalyzer(g1)
	require.NoError(t, err)
	a2, err := NewAnalyzer(g2)
	require.NoError(t, err)

	// THEN both report the single sorted multiset {2,2,5}
	want := []Combination[int]{{Faces: []int{2, 2, 5}, Count: 4}}
	assert.Equal(t, want, a1.Combo())
	assert.Equal(t, want, a2.Combo())
}

func TestAnalyzer_Combo_DistinctSortedAndOrdered(t *testing.T) {
	g := playedGame(t, 2, sixSided, 300)
	a, err := NewAnalyzer(g)
	require.NoError(t, err)

	combos := a.Combo()

	seen := make(map[[2]int]bool)
	for i, c := range combos {
		require.Len(t, c.Faces, 2)
		assert.LessOrEqual(t, c.Faces[0], c.Faces[1], "faces must be sorted")
		key := [2]int{c.Faces[0], c.Faces[1]}
		assert.False(t, seen[key], "duplicate combination %v", key)
		seen[key] = true
		if i > 0 {
			assert.GreaterOrEqual(t, combos[i-1].Count, c.Count, "must be ordered by count")
		}
	}
	// 2d6 has 21 distinct multisets; 300 rolls should hit nearly all of them.
	assert.LessOrEqual(t, len(combos), 21)
}

func TestComboTable_Render(t *testing.T) {
	tbl := ComboTable([]Combination[string]{
		{Faces: []string{"a", "b"}, Count: 3},
		{Faces: []string{"a", "a"}, Count: 1},
	})

	assert.Equal(t, []string{"(a, b)", "(a, a)"}, tbl.Keys())
	col, ok := tbl.Column("Count")
	require.True(t, ok)
	assert.Equal(t, []int{3, 1}, col)
}

func TestAnalyzer_Faces_Shape(t *testing.T) {
	// GIVEN two six-sided dice played 100 times
	g := playedGame(t, 2, sixSided, 100)
	a, err := NewAnalyzer(g)
	require.NoError(t, err)

	// WHEN per-roll face counts are computed
	fc := a.Faces()

	// THEN there is one column per face and one row per roll
	assert.Equal(t, sixSided, fc.Faces)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, fc.Table.Columns())
	require.Equal(t, 100, fc.Table.Len())
	for i := 0; i < fc.Table.Len(); i++ {
		sum := 0
		for _, c := range fc.Table.Row(i) {
			assert.GreaterOrEqual(t, c, 0)
			sum += c
		}
		assert.Equal(t, 2, sum, "row %d", i+1)
	}
}

func TestAnalyzer_Faces_ColumnsFromWholeTable(t *testing.T) {
	// GIVEN dice whose faces never overlap in one roll
	low := newSeededDie(t, 0, []string{"a"})
	high := newSeededDie(t, 1, []string{"z"})
	g, err := NewGame([]*Die[string]{low, high})
	require.NoError(t, err)
	require.NoError(t, g.Play(3))
	a, err := NewAnalyzer(g)
	require.NoError(t, err)

	fc := a.Faces()

	assert.Equal(t, []string{"a", "z"}, fc.Faces)
	for i := 0; i < 3; i++ {
		assert.Equal(t, []int{1, 1}, fc.Table.Row(i))
		assert.Equal(t, i+1, fc.Table.Key(i))
	}
}

func TestAnalyzer_KeepsSnapshotAfterReplay(t *testing.T) {
	// GIVEN an analyzer over a 10-roll game
	g := playedGame(t, 2, sixSided, 10)
	a, err := NewAnalyzer(g)
	require.NoError(t, err)

	// WHEN the game is replayed with more rolls
	require.NoError(t, g.Play(40))

	// THEN the analyzer still sees the original 10 rows
	assert.Equal(t, 10, a.Results().Len())
	assert.Equal(t, 10, a.Faces().Table.Len())
}
