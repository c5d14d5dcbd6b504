package lattice

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/juliettemaes/remc-hp/sequence"
	"github.com/pmezard/go-difflib/difflib"
)

func mustSeq(t *testing.T, hp string) *sequence.Sequence {
	t.Helper()
	seq, err := sequence.NewFromHP(hp)
	if err != nil {
		t.Fatalf("NewFromHP(%q): %v", hp, err)
	}
	return seq
}

// dumpGrid renders the occupied cells as "chainIndex@x,y" lines sorted
// by chain index, used for before/after comparisons via difflib.
func dumpGrid(l *Lattice) string {
	var b strings.Builder
	for i := 0; i < l.seq.Length(); i++ {
		x, y := l.seq.Position(i)
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(x))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(y))
		b.WriteByte('\n')
	}
	return b.String()
}

func assertNoDiff(t *testing.T, before, after, label string) {
	t.Helper()
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	}
	text, _ := difflib.GetUnifiedDiffString(d)
	if text != "" {
		t.Errorf("%s: grid differs:\n%s", label, text)
	}
}

func TestNewRandomProducesValidSAW(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for seed := 0; seed < 1000; seed++ {
		rng = rand.New(rand.NewSource(int64(seed)))
		seq := mustSeq(t, "HPHP")
		l, err := NewRandom(seq, rng)
		if err != nil {
			t.Fatalf("seed %d: NewRandom failed: %v", seed, err)
		}
		checkInvariants(t, l)
	}
}

func checkInvariants(t *testing.T, l *Lattice) {
	t.Helper()
	n := l.seq.Length()
	seen := make(map[[2]int]int)
	for i := 0; i < n; i++ {
		x, y := l.seq.Position(i)
		key := [2]int{x, y}
		if other, ok := seen[key]; ok {
			t.Fatalf("cells (%d,%d) shared by residues %d and %d", x, y, other+1, i+1)
		}
		seen[key] = i
		if l.CellAt(x, y) != i+1 {
			t.Fatalf("grid[%d,%d] = %d, want %d (I3)", x, y, l.CellAt(x, y), i+1)
		}
		if i > 0 {
			px, py := l.seq.Position(i - 1)
			if !areAdjacent(px, py, x, y) {
				t.Fatalf("residues %d and %d are not lattice-adjacent (I2)", i, i+1)
			}
		}
	}
}

func TestEnergySignAndZero(t *testing.T) {
	seq := mustSeq(t, "PPPP")
	l, err := NewExtended(seq)
	if err != nil {
		t.Fatalf("NewExtended: %v", err)
	}
	if e := l.Energy(); e != 0 {
		t.Errorf("all-polar chain energy = %d, want 0", e)
	}
}

func TestEnergyHHHHReachesMinusOne(t *testing.T) {
	seq := mustSeq(t, "HHHH")
	rng := rand.New(rand.NewSource(42))
	best := 0
	for iter := 0; iter < 2000; iter++ {
		l, err := NewRandom(seq.Clone(), rng)
		if err != nil {
			t.Fatalf("NewRandom: %v", err)
		}
		for step := 0; step < 50; step++ {
			k := rng.Intn(4) + 1
			kind := Dispatch(k, 4, 0.5, rng)
			l.AttemptMove(kind, k, rng)
			e := l.ComputeEnergy()
			if e <= l.Energy() {
				l.CommitEnergy(e)
			} else {
				l.UndoAttempt()
			}
		}
		if l.Energy() < best {
			best = l.Energy()
		}
	}
	if best != -1 {
		t.Errorf("best energy over search = %d, want -1", best)
	}
}

func TestRecenterIdempotent(t *testing.T) {
	seq := mustSeq(t, "HPHPHP")
	l, err := NewExtended(seq)
	if err != nil {
		t.Fatalf("NewExtended: %v", err)
	}
	if err := l.Recenter(); err != nil {
		t.Fatalf("first Recenter: %v", err)
	}
	before := dumpGrid(l)
	if err := l.Recenter(); err != nil {
		t.Fatalf("second Recenter: %v", err)
	}
	after := dumpGrid(l)
	assertNoDiff(t, before, after, "idempotent recenter")
}

func TestCornerMoveRoundTrip(t *testing.T) {
	seq := mustSeq(t, "HPHP")
	l, err := NewExtended(seq)
	if err != nil {
		t.Fatalf("NewExtended: %v", err)
	}

	// Lay out an explicit 3-residue bend: A=(5,5) B=(5,6) C=(6,6).
	// A and C are diagonal, B is adjacent to both: a valid corner.
	l.grid = make([]int, len(l.grid))
	l.seq.SetPosition(0, 5, 5)
	l.seq.SetPosition(1, 5, 6)
	l.seq.SetPosition(2, 6, 6)
	l.seq.SetPosition(3, 6, 7)
	for i := 0; i < 4; i++ {
		x, y := l.seq.Position(i)
		l.grid[x*l.size+y] = i + 1
	}
	before := dumpGrid(l)

	if !l.cornerTestHook(2) {
		t.Fatal("expected first corner flip to apply")
	}
	if x, y := l.seq.Position(1); x != 6 || y != 5 {
		t.Fatalf("after first flip residue 2 at (%d,%d), want (6,5)", x, y)
	}
	if !l.cornerTestHook(2) {
		t.Fatal("expected second corner flip to apply")
	}
	after := dumpGrid(l)
	assertNoDiff(t, before, after, "corner move is not involutive")
}

// cornerTestHook runs the corner kernel directly through the journal
// machinery, mirroring what AttemptMove does for MoveKind Corner.
func (l *Lattice) cornerTestHook(chainIndex int) bool {
	l.BeginAttempt()
	l.cornerMove(chainIndex)
	return l.Applied()
}

func TestCKSMoveRoundTrip(t *testing.T) {
	seq := mustSeq(t, "HPHP")
	l, err := NewExtended(seq)
	if err != nil {
		t.Fatalf("NewExtended: %v", err)
	}

	// A 2x1 rectangle U-shape on chain indices 1..4: (5,5) (5,6) (6,6)
	// (6,5). All four consecutive pairs adjacent, and residue 1
	// adjacent to residue 4, closing the loop.
	l.grid = make([]int, len(l.grid))
	l.seq.SetPosition(0, 5, 5)
	l.seq.SetPosition(1, 5, 6)
	l.seq.SetPosition(2, 6, 6)
	l.seq.SetPosition(3, 6, 5)
	for i := 0; i < 4; i++ {
		x, y := l.seq.Position(i)
		l.grid[x*l.size+y] = i + 1
	}
	before := dumpGrid(l)

	if !l.cksTestHook(2) {
		t.Fatal("expected first crankshaft flip to apply")
	}
	if !l.cksTestHook(2) {
		t.Fatal("expected second crankshaft flip to apply")
	}
	after := dumpGrid(l)
	assertNoDiff(t, before, after, "crankshaft move is not involutive")
}

func (l *Lattice) cksTestHook(chainIndex int) bool {
	l.BeginAttempt()
	l.cksMove(chainIndex)
	return l.Applied()
}
