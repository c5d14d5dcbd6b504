/*
Command hpremc runs a Replica-Exchange Monte Carlo search for
low-energy conformations of a protein in the 2D HP lattice model. It
is the entry point for the command line utility; commands.go holds the
actual work the single top-level action does.
*/
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(run(os.Args))
}

// run is separated from main for debugging's sake, the same split the
// reference CLI uses between main() and run(args). Every error the
// action returns is an input-validation failure (spec.md §6: the only
// non-zero exit code is 2), so the mapping here is a plain non-nil
// check rather than urfave/cli's ExitCoder machinery, which would have
// the library call os.Exit itself before tests get to inspect the
// error.
func run(args []string) int {
	app := application()
	if err := app.Run(args); err != nil {
		fmt.Fprintln(app.ErrWriter, err)
		return 2
	}
	return 0
}

// application defines the single-command app and its flags, mirroring
// poly/main.go's &cli.App{} template.
func application() *cli.App {
	return &cli.App{
		Name:  "hpremc",
		Usage: "Search for low-energy HP-lattice conformations of a protein via Replica-Exchange Monte Carlo.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "aasequence",
				Usage: "Amino acid sequence to fold, reduced via the HP table. Mutually exclusive with --hpsequence.",
			},
			&cli.StringFlag{
				Name:  "hpsequence",
				Usage: "Pre-reduced H/P sequence to fold. Mutually exclusive with --aasequence.",
			},
			&cli.IntFlag{
				Name:     "optimal_energy",
				Usage:    "Target energy (<= 0) at which the search stops.",
				Required: true,
			},
			&cli.Float64Flag{
				Name:  "t_min",
				Value: defaultTMin,
				Usage: "Lowest replica temperature.",
			},
			&cli.Float64Flag{
				Name:  "t_max",
				Value: defaultTMax,
				Usage: "Highest replica temperature.",
			},
			&cli.IntFlag{
				Name:  "step",
				Value: defaultReplicas,
				Usage: "Number of replicas in the temperature ladder.",
			},
			&cli.IntFlag{
				Name:  "nb_iter",
				Value: defaultMaxIterations,
				Usage: "Maximum Monte Carlo iterations per replica per round.",
			},
			&cli.Float64Flag{
				Name:  "rho",
				Value: defaultRho,
				Usage: "Pull-move probability.",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "Master PRNG seed; reused to derive each replica's sub-seed.",
			},
			&cli.IntFlag{
				Name:  "max_rounds",
				Value: defaultMaxRounds,
				Usage: "Outer-loop round cap, guaranteeing termination even if the target energy is never reached.",
			},
			&cli.BoolFlag{
				Name:  "extended_init",
				Usage: "Start every replica from the deterministic straight-line conformation instead of a random walk.",
			},
		},
		Action: searchCommand,
	}
}
