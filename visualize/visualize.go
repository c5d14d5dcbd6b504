/*
Package visualize renders a finished lattice.Lattice as a node-link
diagram in plain text: one adjacency line per placed residue, labelled
with its H/P letter where the reference's LatticeHPGraph colours
matplotlib nodes green (H) and red (P); the output has no colour. It is a peripheral output adapter, not
part of the search itself.
*/
package visualize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juliettemaes/remc-hp/lattice"
	"github.com/juliettemaes/remc-hp/sequence"
	"github.com/mitchellh/go-wordwrap"
)

const legendWidth = 60

// legend is wrapped with go-wordwrap the same way a CLI help string
// would be, so it reads reasonably in a narrow terminal.
const legend = "Each line lists one placed residue as chain_index(H|P)@(x,y) followed by its lattice-adjacent neighbours; H residues form the hydrophobic core this search is trying to pack together, P residues are the ones that tolerate solvent exposure."

// Render produces a human-readable node-link rendering of l: a wrapped
// legend followed by one line per residue naming its HP class,
// position, and topological neighbours (chain-adjacent or not).
func Render(l *lattice.Lattice) string {
	var b strings.Builder
	b.WriteString(wordwrap.WrapString(legend, legendWidth))
	b.WriteString("\n\n")

	seq := l.Sequence()
	n := seq.Length()
	for i := 0; i < n; i++ {
		r := seq.Residue(i)
		neighbours := adjacentResidues(l, i)
		fmt.Fprintf(&b, "%d(%s)@(%d,%d) -> %s\n", r.ChainIndex, r.Type, r.X, r.Y, formatNeighbours(seq, neighbours))
	}
	return b.String()
}

// adjacentResidues returns the 0-based indices of every residue whose
// position is lattice-adjacent to residue i's, mirroring
// LatticeHPGraph._get_neighbors generalized from a 2D grid scan to a
// direct lookup against the four lattice.MoveKind-agnostic neighbour
// cells.
func adjacentResidues(l *lattice.Lattice, i int) []int {
	seq := l.Sequence()
	x, y := seq.Position(i)
	var out []int
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		chainIndex := l.CellAt(x+d[0], y+d[1])
		if chainIndex != 0 {
			out = append(out, chainIndex-1)
		}
	}
	sort.Ints(out)
	return out
}

func formatNeighbours(seq *sequence.Sequence, neighbours []int) string {
	if len(neighbours) == 0 {
		return "(none)"
	}
	parts := make([]string, len(neighbours))
	for i, n := range neighbours {
		r := seq.Residue(n)
		parts[i] = fmt.Sprintf("%d(%s)@(%d,%d)", r.ChainIndex, r.Type, r.X, r.Y)
	}
	return strings.Join(parts, ", ")
}
