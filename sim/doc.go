// Package sim provides weighted-die Monte Carlo simulation.
//
// # Reading Guide
//
// Data flows one way through three types:
//   - die.go: Die, a weighted face generator (SetWeight, Roll, Show)
//   - game.go: Game, rolls its dice together into a results table (Play, Show)
//   - analyzer.go: Analyzer, statistics over a results table (Jackpot, Combo, Faces)
//
// Tables live in sim/table/. Rejected operations return the sentinel errors
// in errors.go and leave the receiver unchanged.
//
// # Sharing
//
// A *Die is a shared handle. Games keep the pointers they were given, so a
// weight change reaches every game holding that die from its next Play on.
// Results tables are never modified after Play returns them.
//
// # Reproducibility
//
// PartitionedRNG (rng.go) derives one isolated stream per die from a single
// SimulationKey; pass ForSubsystem(SubsystemDie(i)) to NewDie.
package sim
