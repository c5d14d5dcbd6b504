/*
Package hptable provides the one piece of biology this project knows:
the mapping from a 20-letter amino acid alphabet down to the binary
Hydrophobic/Polar alphabet used by the lattice model.
*/
package hptable

import "fmt"

// Type is a residue's class in the reduced HP alphabet.
type Type byte

const (
	// H marks a hydrophobic residue.
	H Type = 'H'
	// P marks a polar residue.
	P Type = 'P'
)

func (t Type) String() string {
	return string(rune(t))
}

// Error reports an amino acid letter outside the HP table.
type Error struct {
	Letter byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("hptable: invalid residue letter %q", e.Letter)
}

// aminoAcidToHP mirrors AA_DICT in the original prototype: the
// hydrophobic set is {A,C,G,I,L,M,F,W,V}, everything else standard is
// polar.
var aminoAcidToHP = map[byte]Type{
	'A': H, 'C': H, 'G': H, 'I': H, 'L': H, 'M': H, 'F': H, 'W': H, 'V': H,
	'R': P, 'N': P, 'D': P, 'Q': P, 'E': P, 'H': P, 'K': P, 'P': P, 'S': P, 'T': P, 'Y': P,
}

// Lookup returns the HP class of a single amino-acid letter, or an
// *Error if the letter is not one of the twenty standard codes.
func Lookup(letter byte) (Type, error) {
	t, ok := aminoAcidToHP[letter]
	if !ok {
		return 0, &Error{Letter: letter}
	}
	return t, nil
}

// Convert maps every letter of an amino-acid string to its HP class,
// failing on the first unrecognised letter.
func Convert(aminoAcids string) (string, error) {
	hp := make([]byte, len(aminoAcids))
	for i := 0; i < len(aminoAcids); i++ {
		t, err := Lookup(aminoAcids[i])
		if err != nil {
			return "", fmt.Errorf("hptable: residue %d: %w", i, err)
		}
		hp[i] = byte(t)
	}
	return string(hp), nil
}

// ValidateHP checks that a string already in the H/P alphabet contains
// only 'H' and 'P' bytes.
func ValidateHP(hp string) error {
	for i := 0; i < len(hp); i++ {
		switch hp[i] {
		case byte(H), byte(P):
			continue
		default:
			return fmt.Errorf("hptable: residue %d: %w", i, &Error{Letter: hp[i]})
		}
	}
	return nil
}
