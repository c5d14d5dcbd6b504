package visualize

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/juliettemaes/remc-hp/lattice"
	"github.com/juliettemaes/remc-hp/sequence"
)

func TestRenderListsEveryResidue(t *testing.T) {
	seq, err := sequence.NewFromHP("HPHPHP")
	if err != nil {
		t.Fatalf("NewFromHP: %v", err)
	}
	rng := rand.New(rand.NewSource(3))
	l, err := lattice.NewRandom(seq, rng)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	out := Render(l)
	lines := strings.Split(out, "\n")
	for i := 1; i <= seq.Length(); i++ {
		prefix := strconv.Itoa(i) + "("
		found := false
		for _, line := range lines {
			if strings.HasPrefix(line, prefix) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Render output missing a line for chain index %d:\n%s", i, out)
		}
	}
}

func TestRenderWrapsLegend(t *testing.T) {
	seq, _ := sequence.NewFromHP("HPHP")
	rng := rand.New(rand.NewSource(1))
	l, _ := lattice.NewRandom(seq, rng)
	out := Render(l)
	firstBlock := strings.SplitN(out, "\n\n", 2)[0]
	for _, line := range strings.Split(firstBlock, "\n") {
		if len(line) > legendWidth+1 {
			t.Errorf("legend line exceeds wrap width: %q", line)
		}
	}
}
