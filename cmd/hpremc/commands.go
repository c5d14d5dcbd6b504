package main

import (
	"fmt"

	"github.com/juliettemaes/remc-hp/remc"
	"github.com/juliettemaes/remc-hp/sequence"
	"github.com/juliettemaes/remc-hp/visualize"
	"github.com/urfave/cli/v2"
)

// Defaults mirror the configuration constants of spec.md §6.
const (
	defaultMaxIterations = 500
	defaultTMin          = 160
	defaultTMax          = 220
	defaultRho           = 0.5
	defaultReplicas      = 4
	defaultMaxRounds     = 200
)

// searchCommand is the single top-level action: parse and validate the
// sequence and REMC parameters, run the search, and print the
// progress transcript spec.md §6 requires.
func searchCommand(c *cli.Context) error {
	seq, err := buildSequence(c)
	if err != nil {
		return fmt.Errorf("hpremc: %w", err)
	}
	if c.Int("optimal_energy") > 0 {
		return fmt.Errorf("hpremc: --optimal_energy must be <= 0")
	}

	cfg := remc.Config{
		Sequence:      seq,
		Tmin:          c.Float64("t_min"),
		Tmax:          c.Float64("t_max"),
		Replicas:      c.Int("step"),
		TargetEnergy:  c.Int("optimal_energy"),
		MaxIterations: c.Int("nb_iter"),
		Rho:           c.Float64("rho"),
		Seed:          c.Int64("seed"),
		MaxRounds:     c.Int("max_rounds"),
		ExtendedInit:  c.Bool("extended_init"),
		OnProgress: func(line string) {
			fmt.Fprintln(c.App.Writer, line)
		},
	}

	search, err := remc.New(cfg)
	if err != nil {
		return fmt.Errorf("hpremc: %w", err)
	}

	best, bestLattice := search.Run()
	fmt.Fprintf(c.App.Writer, "FINAL ENERGY %d\n", best)

	if bestLattice != nil {
		fmt.Fprintln(c.App.Writer, visualize.Render(bestLattice))
	}

	return nil
}

// buildSequence enforces the mutually-exclusive --aasequence /
// --hpsequence flags (spec.md §6).
func buildSequence(c *cli.Context) (*sequence.Sequence, error) {
	aa := c.String("aasequence")
	hp := c.String("hpsequence")
	if aa != "" && hp != "" {
		return nil, fmt.Errorf("specify exactly one of --aasequence or --hpsequence, not both")
	}
	if aa == "" && hp == "" {
		return nil, fmt.Errorf("one of --aasequence or --hpsequence is required")
	}
	if aa != "" {
		return sequence.NewFromAminoAcids(aa)
	}
	return sequence.NewFromHP(hp)
}
