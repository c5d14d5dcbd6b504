/*
Package sequence holds the chain of residues folded by the lattice
model: their HP type, their fixed order, and their mutable lattice
position.
*/
package sequence

import (
	"errors"
	"fmt"

	"github.com/juliettemaes/remc-hp/hptable"
)

// ErrTooShort is returned when a sequence is too short for the move
// operators (corner/CKS/pull all assume interior residues exist).
var ErrTooShort = errors.New("sequence: length must be at least 4")

// unplaced marks a residue that has not yet been given a lattice
// position.
const unplaced = -1

// Residue is one position in the chain: its 0-based index, 1-based
// chain index (as used by the lattice's move vocabulary), its HP type,
// and its current (x, y) lattice coordinates.
type Residue struct {
	Index      int
	ChainIndex int
	Type       hptable.Type
	X, Y       int
}

// Placed reports whether the residue has been assigned a position.
func (r Residue) Placed() bool {
	return r.X != unplaced && r.Y != unplaced
}

// IsHydrophobic reports whether the residue is H.
func (r Residue) IsHydrophobic() bool {
	return r.Type == hptable.H
}

// Sequence is the ordered, append-only list of residues making up one
// chain. Positions are the only mutable part after construction.
type Sequence struct {
	residues []Residue
}

// NewFromAminoAcids builds a Sequence from a string of standard amino
// acid letters, reducing each to its HP class via hptable.
func NewFromAminoAcids(aminoAcids string) (*Sequence, error) {
	hp, err := hptable.Convert(aminoAcids)
	if err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	return newFromHP(hp)
}

// NewFromHP builds a Sequence directly from a pre-reduced H/P string.
func NewFromHP(hp string) (*Sequence, error) {
	if err := hptable.ValidateHP(hp); err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	return newFromHP(hp)
}

func newFromHP(hp string) (*Sequence, error) {
	if len(hp) < 4 {
		return nil, ErrTooShort
	}
	residues := make([]Residue, len(hp))
	for i := 0; i < len(hp); i++ {
		residues[i] = Residue{
			Index:      i,
			ChainIndex: i + 1,
			Type:       hptable.Type(hp[i]),
			X:          unplaced,
			Y:          unplaced,
		}
	}
	return &Sequence{residues: residues}, nil
}

// Length returns the number of residues in the chain.
func (s *Sequence) Length() int {
	return len(s.residues)
}

// Type returns the HP type of the residue at 0-based index i.
func (s *Sequence) Type(i int) hptable.Type {
	return s.residues[i].Type
}

// Residue returns a copy of the residue at 0-based index i.
func (s *Sequence) Residue(i int) Residue {
	return s.residues[i]
}

// Position returns the current (x, y) of the residue at 0-based index i.
func (s *Sequence) Position(i int) (x, y int) {
	r := s.residues[i]
	return r.X, r.Y
}

// SetPosition updates the (x, y) of the residue at 0-based index i.
// The Lattice is responsible for keeping the grid consistent with
// this; Sequence enforces no uniqueness or adjacency here.
func (s *Sequence) SetPosition(i, x, y int) {
	s.residues[i].X = x
	s.residues[i].Y = y
}

// Clone returns a deep copy of the sequence, independent of the
// receiver.
func (s *Sequence) Clone() *Sequence {
	residues := make([]Residue, len(s.residues))
	copy(residues, s.residues)
	return &Sequence{residues: residues}
}

// HPString reconstructs the H/P letter string of the chain.
func (s *Sequence) HPString() string {
	b := make([]byte, len(s.residues))
	for i, r := range s.residues {
		b[i] = byte(r.Type)
	}
	return string(b)
}
