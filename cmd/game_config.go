package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/montecarlo/sim"
)

// GameConfig is the top-level game file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type GameConfig struct {
	Seed  *int64      `yaml:"seed,omitempty"`
	Rolls int         `yaml:"rolls"`
	Form  string      `yaml:"form,omitempty"`
	Dice  []DieConfig `yaml:"dice"`
}

// DieConfig describes one die, or Count identical dice.
type DieConfig struct {
	Faces   []string           `yaml:"faces"`
	Weights map[string]float64 `yaml:"weights,omitempty"`
	Count   int                `yaml:"count,omitempty"` // 0 means 1
}

// LoadGameConfig reads and parses a YAML game file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading game config: %w", err)
	}
	var cfg GameConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing game config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the structure of the config. Weights naming faces that do
// not exist are left to Die.SetWeight, which reports them per die.
func (c *GameConfig) Validate() error {
	if c.Rolls < 0 {
		return fmt.Errorf("rolls must be non-negative, got %d", c.Rolls)
	}
	if _, err := sim.ParseForm(c.Form); err != nil {
		return err
	}
	if len(c.Dice) == 0 {
		return sim.ErrNoDice
	}
	for i, d := range c.Dice {
		prefix := fmt.Sprintf("dice[%d]", i)
		if len(d.Faces) == 0 {
			return fmt.Errorf("%s: %w", prefix, sim.ErrNoFaces)
		}
		if d.Count < 0 {
			return fmt.Errorf("%s: count must be non-negative, got %d", prefix, d.Count)
		}
		for face, w := range d.Weights {
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return fmt.Errorf("%s.weights.%s: %w: got %f", prefix, face, sim.ErrInvalidWeight, w)
			}
		}
	}
	return nil
}

// NumDice returns the number of dice the config expands to.
func (c *GameConfig) NumDice() int {
	n := 0
	for _, d := range c.Dice {
		n += max(d.Count, 1)
	}
	return n
}
