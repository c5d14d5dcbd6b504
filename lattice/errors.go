package lattice

import "errors"

// ErrInitialisationFailure is returned when the random self-avoiding
// walk used to seed a Lattice could not be completed within the
// attempt cap (spec.md §4.2, §7).
var ErrInitialisationFailure = errors.New("lattice: could not find a self-avoiding initial conformation within the attempt cap")

// ErrGridOverflow is returned by recentering when the translated
// conformation would fall outside the grid. With GRID_SIZE_FACTOR >= 2
// this should never trigger; its presence indicates a bug upstream.
var ErrGridOverflow = errors.New("lattice: recentering overflowed the grid")

// maxInitialisationAttempts bounds the restart loop of the naive
// rejection-sampling placement (spec.md §4.2: "implementers should
// expose a safety cap").
const maxInitialisationAttempts = 10000
