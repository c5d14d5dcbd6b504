/*
Package mcwalker drives a single Monte Carlo trajectory over one
lattice.Lattice: pick a residue, propose a local move, accept or
reject by the Metropolis criterion, and recenter on acceptance.
*/
package mcwalker

import (
	"math"
	"math/rand"

	"github.com/juliettemaes/remc-hp/lattice"
	"github.com/lunny/log"
)

// State is the walker's lifecycle, per spec.md §4.3.
type State int

const (
	Running State = iota
	ReachedTarget
	Exhausted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ReachedTarget:
		return "reached-target"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Walker owns one Lattice, a fixed temperature, the pull-move
// probability, an iteration cap, and an optional target energy.
type Walker struct {
	Lattice     *lattice.Lattice
	Temperature float64
	Rho         float64
	MaxIters    int

	hasTarget bool
	target    int

	rng   *rand.Rand
	state State
}

// New builds a Walker around an already-initialised lattice.
func New(l *lattice.Lattice, temperature, rho float64, maxIters int, rng *rand.Rand) *Walker {
	return &Walker{
		Lattice:     l,
		Temperature: temperature,
		Rho:         rho,
		MaxIters:    maxIters,
		rng:         rng,
		state:       Running,
	}
}

// SetTarget installs a target energy; the walker halts in
// ReachedTarget as soon as its lattice's energy matches it.
func (w *Walker) SetTarget(e int) {
	w.hasTarget = true
	w.target = e
}

// State reports the walker's current lifecycle state.
func (w *Walker) State() State {
	return w.state
}

// Run executes up to MaxIters Metropolis steps, stopping early if the
// target energy (when set) is reached. It returns the final state.
func (w *Walker) Run() State {
	length := w.Lattice.Sequence().Length()
	for i := 0; i < w.MaxIters; i++ {
		if w.hasTarget && w.Lattice.Energy() == w.target {
			w.state = ReachedTarget
			return w.state
		}
		w.Step(length)
	}
	if w.hasTarget && w.Lattice.Energy() == w.target {
		w.state = ReachedTarget
	} else {
		w.state = Exhausted
	}
	return w.state
}

// Step runs exactly one Metropolis iteration (spec.md §4.3, steps
// 3-7): pick a residue, dispatch and attempt a move, accept or reject.
func (w *Walker) Step(length int) {
	k := w.rng.Intn(length) + 1
	kind := lattice.Dispatch(k, length, w.Rho, w.rng)
	applied := w.Lattice.AttemptMove(kind, k, w.rng)
	if !applied {
		return
	}

	candidate := w.Lattice.ComputeEnergy()
	current := w.Lattice.Energy()
	accept := candidate <= current
	if !accept {
		// Corrected Metropolis form: accept with probability
		// exp((E-E')/T), i.e. rand < p. Some drafts of this
		// acceptance test use rand > exp(dE/T), which inverts the
		// comparison; this implementation uses the standard form.
		p := math.Exp((float64(current) - float64(candidate)) / w.Temperature)
		accept = w.rng.Float64() < p
	}

	if accept {
		if err := w.Lattice.Recenter(); err != nil {
			log.Warnf("mcwalker: recenter failed after accepted move: %v", err)
		}
		w.Lattice.CommitEnergy(candidate)
	} else {
		w.Lattice.UndoAttempt()
	}
}
