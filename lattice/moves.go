package lattice

import (
	"math/rand"

	"github.com/mroth/weightedrand"
)

// MoveKind tags which of the four local move operators an MC step
// dispatches to (spec.md §9: "a tagged variant {End, Corner, CKS,
// Pull}").
type MoveKind int

const (
	End MoveKind = iota
	Corner
	CKS
	Pull
)

func (k MoveKind) String() string {
	switch k {
	case End:
		return "end"
	case Corner:
		return "corner"
	case CKS:
		return "crankshaft"
	case Pull:
		return "pull"
	default:
		return "unknown"
	}
}

// vshdChoices gives corner and crankshaft equal weight; wired through
// weightedrand the same way the reference codon tables pick among
// equally-plausible alternatives (transformations.go's
// getCodonWeightMap/ReverseTranslate).
var vshdChoices = []weightedrand.Choice{
	{Item: Corner, Weight: 1},
	{Item: CKS, Weight: 1},
}

// Dispatch decides which move class applies to chain index k (1-based),
// per spec.md §4.2: terminal residues always take the end move;
// interior residues draw the pull probability rho, falling back to a
// uniform corner/crankshaft choice ("VSHD") otherwise.
func Dispatch(chainIndex, length int, rho float64, rng *rand.Rand) MoveKind {
	if chainIndex == 1 || chainIndex == length {
		return End
	}
	if rng.Float64() < rho {
		return Pull
	}
	// PickSource, not Pick: Pick draws from math/rand's global default
	// source, which would let this choice escape the walker's own rng
	// stream and break per-walker reproducibility.
	chooser := weightedrand.NewChooser(vshdChoices...)
	return chooser.PickSource(rng).(MoveKind)
}

// AttemptMove runs the move kernel for kind at chain index k (1-based),
// recording its cell writes in the journal. It returns whether the
// attempt actually mutated the lattice; a false return (geometric
// precondition failed) leaves the lattice bit-identical, per spec.md
// §4.2.
func (l *Lattice) AttemptMove(kind MoveKind, chainIndex int, rng *rand.Rand) bool {
	l.BeginAttempt()
	switch kind {
	case End:
		l.endMove(chainIndex, rng)
	case Corner:
		l.cornerMove(chainIndex)
	case CKS:
		l.cksMove(chainIndex)
	case Pull:
		l.pullMove(chainIndex)
	}
	return l.Applied()
}

// idx converts a 1-based chain index to the Sequence's 0-based index.
func idx(chainIndex int) int {
	return chainIndex - 1
}

func (l *Lattice) pos(chainIndex int) (x, y int) {
	return l.seq.Position(idx(chainIndex))
}

// endMove implements spec.md §4.2.1.
func (l *Lattice) endMove(chainIndex int, rng *rand.Rand) {
	n := l.seq.Length()
	var neighbourChain int
	if chainIndex == 1 {
		neighbourChain = 2
	} else {
		neighbourChain = n - 1
	}
	rx, ry := l.pos(neighbourChain)
	candidates := l.emptyNeighbours(rx, ry)
	if len(candidates) == 0 {
		return
	}
	choice := candidates[rng.Intn(len(candidates))]
	l.applyResidueMove(idx(chainIndex), choice.X, choice.Y)
}

// cornerFlip computes the reflected corner position for the triple
// (A,B,C) = positions(k-1,k,k+1), shared by the corner move and the
// pull move's corner-collapse fallback (spec.md §4.2.2, §4.2.4).
func cornerFlip(ax, ay, bx, by, cx, cy int) (isCorner bool, nx, ny int) {
	dx, dy := ax-cx, ay-cy
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx+dy != 2 || ax == cx || ay == cy {
		return false, 0, 0
	}
	if bx == ax {
		nx, ny = cx, ay
	} else {
		nx, ny = ax, cy
	}
	return true, nx, ny
}

// cornerMove implements spec.md §4.2.2.
func (l *Lattice) cornerMove(chainIndex int) {
	ax, ay := l.pos(chainIndex - 1)
	bx, by := l.pos(chainIndex)
	cx, cy := l.pos(chainIndex + 1)
	isCorner, nx, ny := cornerFlip(ax, ay, bx, by, cx, cy)
	if !isCorner {
		return
	}
	if l.CellAt(nx, ny) != empty {
		return
	}
	l.applyResidueMove(idx(chainIndex), nx, ny)
}

// uShape tests the spec.md §4.2.3 "is a U" precondition for the
// quadruple (P,Q,R,S) and, if satisfied, returns the reflected
// positions of Q and R across the P-S segment.
func uShape(px, py, qx, qy, rx, ry, sx, sy int) (isU bool, qnx, qny, rnx, rny int) {
	if !areAdjacent(px, py, qx, qy) || !areAdjacent(qx, qy, rx, ry) ||
		!areAdjacent(rx, ry, sx, sy) || !areAdjacent(px, py, sx, sy) {
		return false, 0, 0, 0, 0
	}
	qnx, qny = px+(px-qx), py+(py-qy)
	rnx, rny = sx+(sx-rx), sy+(sy-ry)
	return true, qnx, qny, rnx, rny
}

// cksMove implements spec.md §4.2.3: a primary attempt on
// (k-1,k,k+1,k+2) moving residues k and k+1, falling back - only when
// the primary did not apply and k >= 3 - to an alternative attempt on
// the window (k-2,k-1,k,k+1), moving residues k-1 and k.
//
// The alternative window is one position higher than a
// (k-3,k-2,k-1,k) reading of the move would give; both cks_utils.py's
// get_alternative_positions/execute_alternative_u_move and
// lattice.py's inline "else" branch agree on (k-2,k-1,k,k+1) moving
// (k-1,k), and that reading is also the only one consistent with the
// "k >= 3" guard (k-2 >= 1), so it is what this implementation
// follows.
func (l *Lattice) cksMove(chainIndex int) {
	length := l.seq.Length()
	if chainIndex <= length-2 {
		if l.tryCKSQuadruple(chainIndex-1, chainIndex, chainIndex+1, chainIndex+2, chainIndex, chainIndex+1) {
			return
		}
	}
	if chainIndex >= 3 {
		l.tryCKSQuadruple(chainIndex-2, chainIndex-1, chainIndex, chainIndex+1, chainIndex-1, chainIndex)
	}
}

// tryCKSQuadruple attempts the U-flip over chain indices (p,q,r,s),
// moving the residues at chain indices (moveA,moveB) to the reflected
// positions of q and r respectively.
func (l *Lattice) tryCKSQuadruple(p, q, r, s, moveA, moveB int) bool {
	px, py := l.pos(p)
	qx, qy := l.pos(q)
	rx, ry := l.pos(r)
	sx, sy := l.pos(s)
	isU, qnx, qny, rnx, rny := uShape(px, py, qx, qy, rx, ry, sx, sy)
	if !isU {
		return false
	}
	if l.CellAt(qnx, qny) != empty || l.CellAt(rnx, rny) != empty {
		return false
	}
	l.applyResidueMove(idx(moveA), qnx, qny)
	l.applyResidueMove(idx(moveB), rnx, rny)
	return true
}

// pullMove implements spec.md §4.2.4.
func (l *Lattice) pullMove(chainIndex int) {
	kx, ky := l.pos(chainIndex)
	k1x, k1y := l.pos(chainIndex + 1)

	var lPos point
	found := false
	for _, d := range l.emptyDiagonals(kx, ky) {
		if areAdjacent(d.X, d.Y, k1x, k1y) {
			lPos = d
			found = true
			break
		}
	}
	if !found {
		return
	}

	kMinus1x, kMinus1y := l.pos(chainIndex - 1)

	var cPos point
	cFound := false
	for _, n := range l.emptyNeighbours(lPos.X, lPos.Y) {
		if areAdjacent(n.X, n.Y, kx, ky) {
			cPos = n
			cFound = true
			break
		}
	}

	if !cFound {
		if !areAdjacent(kMinus1x, kMinus1y, lPos.X, lPos.Y) {
			return
		}
		l.cornerMove(chainIndex)
		return
	}

	oldKx, oldKy := kx, ky
	oldKMinus1x, oldKMinus1y := kMinus1x, kMinus1y

	l.applyResidueMove(idx(chainIndex), lPos.X, lPos.Y)
	l.applyResidueMove(idx(chainIndex-1), cPos.X, cPos.Y)

	fifo := []point{{oldKx, oldKy}, {oldKMinus1x, oldKMinus1y}}
	j := chainIndex - 1
	for j >= 2 {
		jx, jy := l.pos(j)
		jMinus1x, jMinus1y := l.pos(j - 1)
		if areAdjacent(jx, jy, jMinus1x, jMinus1y) {
			break
		}
		target := fifo[0]
		fifo = fifo[1:]
		vacated := point{jMinus1x, jMinus1y}
		l.applyResidueMove(idx(j-1), target.X, target.Y)
		fifo = append(fifo, vacated)
		j--
	}
}
