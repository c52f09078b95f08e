package sim

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/require"
)

// sixSided is the standard face list used across tests.
var sixSided = []int{1, 2, 3, 4, 5, 6}

// newSeededDie creates a die whose stream is die_i of seed 42.
func newSeededDie[F cmp.Ordered](t *testing.T, i int, faces []F) *Die[F] {
	t.Helper()
	rng := NewPartitionedRNG(NewSimulationKey(42))
	d, err := NewDie(faces, rng.ForSubsystem(SubsystemDie(i)))
	require.NoError(t, err)
	return d
}

// playedGame builds a game over n dice with the given faces and plays rolls.
func playedGame[F cmp.Ordered](t *testing.T, n int, faces []F, rolls int) *Game[F] {
	t.Helper()
	dice := make([]*Die[F], n)
	for i := range dice {
		dice[i] = newSeededDie(t, i, faces)
	}
	g, err := NewGame(dice)
	require.NoError(t, err)
	require.NoError(t, g.Play(rolls))
	return g
}
