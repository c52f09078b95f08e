package cmd

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/montecarlo/sim"
	"github.com/inference-sim/montecarlo/sim/table"
)

var (
	// CLI flags for the play command
	seed       int64             // Master seed; each die derives its own stream
	logLevel   string            // Log verbosity level
	configPath string            // Path to a YAML game file
	numDice    int               // Number of identical dice built from --faces
	faces      []string          // Face labels for every die
	weights    map[string]string // face=weight overrides applied to every die
	rolls      int               // Number of rolls
	form       string            // Results layout: wide or narrow
	analyze    bool              // Print jackpot, combination and face tables
	fit        bool              // Print a chi-square fit per die
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Weighted-dice Monte Carlo simulator",
}

// playCmd builds dice, plays a game and prints the results
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Roll a set of weighted dice and analyze the results",
	Run: func(cmd *cobra.Command, args []string) {
		envCfg, err := loadEnvConfig()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		applyEnv(envCfg, cmd.Flags())

		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		var cfg *GameConfig
		if configPath != "" {
			cfg, err = LoadGameConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			// Flags the user set explicitly win over the file.
			if cmd.Flags().Changed("rolls") {
				cfg.Rolls = rolls
			}
			if cmd.Flags().Changed("form") {
				cfg.Form = form
			}
			if cfg.Seed != nil && envCfg.Seed == nil && !cmd.Flags().Changed("seed") {
				seed = *cfg.Seed
			}
		} else {
			cfg, err = configFromFlags()
			if err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid game config: %v", err)
		}

		logrus.Infof("Playing %d rolls with %d dice, seed=%d", cfg.Rolls, cfg.NumDice(), seed)
		if err := Play(cmd.OutOrStdout(), cfg, seed, PlayOptions{Analyze: analyze, Fit: fit}); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Game complete.")
	},
}

// configFromFlags builds a single-group GameConfig from --dice, --faces and --weight.
func configFromFlags() (*GameConfig, error) {
	if numDice < 1 {
		return nil, fmt.Errorf("--dice must be at least 1, got %d", numDice)
	}
	parsed := make(map[string]float64, len(weights))
	for face, raw := range weights {
		w, err := sim.ParseWeight(raw)
		if err != nil {
			return nil, fmt.Errorf("--weight %s=%s: %w", face, raw, err)
		}
		parsed[face] = w
	}
	return &GameConfig{
		Rolls: rolls,
		Form:  form,
		Dice:  []DieConfig{{Faces: faces, Weights: parsed, Count: numDice}},
	}, nil
}

// PlayOptions selects the reports printed after the results table.
type PlayOptions struct {
	Analyze bool
	Fit     bool
}

// Play runs a validated config and writes the reports to out. A game whose
// faces are all integers is played on int faces so combinations and face
// columns sort numerically; otherwise faces stay strings.
func Play(out io.Writer, cfg *GameConfig, seed int64, opts PlayOptions) error {
	if allIntFaces(cfg) {
		return playTyped(out, cfg, seed, opts, strconv.Atoi)
	}
	return playTyped(out, cfg, seed, opts, func(s string) (string, error) { return s, nil })
}

func allIntFaces(cfg *GameConfig) bool {
	for _, d := range cfg.Dice {
		for _, f := range d.Faces {
			if _, err := strconv.Atoi(f); err != nil {
				return false
			}
		}
	}
	return true
}

func playTyped[F cmp.Ordered](out io.Writer, cfg *GameConfig, seed int64, opts PlayOptions, parse func(string) (F, error)) error {
	dice, err := buildDice(cfg, seed, parse)
	if err != nil {
		return err
	}
	game, err := sim.NewGame(dice)
	if err != nil {
		return err
	}
	if err := game.Play(cfg.Rolls); err != nil {
		return err
	}
	f, err := sim.ParseForm(cfg.Form)
	if err != nil {
		return err
	}
	results, err := game.Show(f)
	if err != nil {
		return err
	}
	if err := section(out, "Results", results); err != nil {
		return err
	}
	if !opts.Analyze && !opts.Fit {
		return nil
	}

	a, err := sim.NewAnalyzer(game)
	if err != nil {
		return err
	}
	if opts.Analyze {
		if err := printAnalysis(out, game, a); err != nil {
			return err
		}
	}
	if opts.Fit {
		if err := printFit(out, a, len(dice)); err != nil {
			return err
		}
	}
	return nil
}

// buildDice expands cfg into dice, die i drawing from stream SubsystemDie(i).
// Weights that cannot be applied are logged at error level and skipped.
func buildDice[F cmp.Ordered](cfg *GameConfig, seed int64, parse func(string) (F, error)) ([]*sim.Die[F], error) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
	var dice []*sim.Die[F]
	for i, dc := range cfg.Dice {
		faceValues := make([]F, len(dc.Faces))
		for j, raw := range dc.Faces {
			v, err := parse(raw)
			if err != nil {
				return nil, fmt.Errorf("dice[%d].faces[%d]: %w", i, j, err)
			}
			faceValues[j] = v
		}
		for k := 0; k < max(dc.Count, 1); k++ {
			d, err := sim.NewDie(faceValues, rng.ForSubsystem(sim.SubsystemDie(len(dice))))
			if err != nil {
				return nil, fmt.Errorf("dice[%d]: %w", i, err)
			}
			applyWeights(d, dc.Weights, parse, i)
			dice = append(dice, d)
		}
	}
	return dice, nil
}

func applyWeights[F cmp.Ordered](d *sim.Die[F], ws map[string]float64, parse func(string) (F, error), idx int) {
	keys := make([]string, 0, len(ws))
	for k := range ws {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		face, err := parse(k)
		if err != nil {
			logrus.Errorf("dice[%d]: weight for %q not applied: %v", idx, k, sim.ErrInvalidFaceValue)
			continue
		}
		if err := d.SetWeight(face, ws[k]); err != nil {
			logrus.Errorf("dice[%d]: weight not applied: %v", idx, err)
		}
	}
}

type renderer interface {
	Render(w io.Writer) error
}

func section(out io.Writer, title string, r renderer) error {
	if _, err := fmt.Fprintf(out, "=== %s ===\n", title); err != nil {
		return err
	}
	return r.Render(out)
}

func printAnalysis[F cmp.Ordered](out io.Writer, game *sim.Game[F], a *sim.Analyzer[F]) error {
	for i, d := range game.Dice() {
		t := table.New[F, float64]("Face", []string{"Weight"})
		for _, fw := range d.Show() {
			// Append cannot fail: one cell for one column.
			_ = t.Append(fw.Face, []float64{fw.Weight})
		}
		if err := section(out, sim.DieLabel(i), t); err != nil {
			return err
		}
	}
	n, detail := a.Jackpot()
	if err := section(out, fmt.Sprintf("Jackpots: %d", n), detail); err != nil {
		return err
	}
	if err := section(out, "Combinations", sim.ComboTable(a.Combo())); err != nil {
		return err
	}
	return section(out, "Faces", a.Faces().Table)
}

func printFit[F cmp.Ordered](out io.Writer, a *sim.Analyzer[F], n int) error {
	if _, err := fmt.Fprintln(out, "=== Fit ==="); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		res, err := a.Fit(i)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s: rolls=%d chi2=%.3f dof=%d p=%.4f\n",
			res.Die, res.Rolls, res.ChiSquare, res.DegreesOfFreedom, res.PValue); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	playCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for die RNG streams (env MONTECARLO_SEED)")
	playCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic) (env MONTECARLO_LOG)")
	playCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML game file; replaces --dice, --faces and --weight")

	playCmd.Flags().IntVar(&numDice, "dice", 2, "Number of identical dice (at least 1)")
	playCmd.Flags().StringSliceVar(&faces, "faces", []string{"1", "2", "3", "4", "5", "6"}, "Comma-separated face labels")
	playCmd.Flags().StringToStringVar(&weights, "weight", map[string]string{}, "Face weight overrides, e.g. 6=5,1=0.5")

	playCmd.Flags().IntVar(&rolls, "rolls", 100, "Number of rolls")
	playCmd.Flags().StringVar(&form, "form", "wide", "Results layout (wide, narrow)")
	playCmd.Flags().BoolVar(&analyze, "analyze", false, "Print dice, jackpot, combination and face tables")
	playCmd.Flags().BoolVar(&fit, "fit", false, "Print a chi-square goodness-of-fit line per die")

	// Attach `play` as a subcommand to `root`
	rootCmd.AddCommand(playCmd)
}
