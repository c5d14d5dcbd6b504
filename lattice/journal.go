package lattice

// cellWrite is one primitive grid mutation: residue residueIndex (the
// Sequence's 0-based index) moved from (oldX,oldY) to (newX,newY).
// Recording these instead of deep-copying the whole grid on every MC
// step is the re-architecture spec.md §9 asks for; undoing a rejected
// attempt replays the log in reverse.
type cellWrite struct {
	residueIndex int
	oldX, oldY   int
	newX, newY   int
}

// journal accumulates the cellWrites of one in-progress move attempt.
type journal struct {
	writes []cellWrite
}

// BeginAttempt clears any stale journal entries before a move kernel
// runs. Kernels must check their geometric precondition before calling
// applyResidueMove, so a no-op attempt leaves the journal empty.
func (l *Lattice) BeginAttempt() {
	l.journal.writes = l.journal.writes[:0]
}

// applyResidueMove is the single primitive every move kernel uses to
// relocate a residue: it updates the grid and the Sequence position
// atomically (spec.md §9, "apply_cell_writes"), keeping invariant I3
// true at every intermediate step of a multi-residue move like pull or
// crankshaft.
func (l *Lattice) applyResidueMove(residueIndex, newX, newY int) {
	oldX, oldY := l.seq.Position(residueIndex)
	l.journal.writes = append(l.journal.writes, cellWrite{
		residueIndex: residueIndex,
		oldX:         oldX, oldY: oldY,
		newX: newX, newY: newY,
	})
	if oldX != -1 && oldY != -1 && l.inBounds(oldX, oldY) {
		l.set(oldX, oldY, empty)
	}
	l.seq.SetPosition(residueIndex, newX, newY)
	l.set(newX, newY, residueIndex+1)
}

// UndoAttempt reverts every cellWrite recorded since BeginAttempt, in
// reverse order, restoring the grid and Sequence to their
// pre-attempt state.
func (l *Lattice) UndoAttempt() {
	for i := len(l.journal.writes) - 1; i >= 0; i-- {
		w := l.journal.writes[i]
		l.set(w.newX, w.newY, empty)
		if w.oldX != -1 && w.oldY != -1 {
			l.set(w.oldX, w.oldY, w.residueIndex+1)
		}
		l.seq.SetPosition(w.residueIndex, w.oldX, w.oldY)
	}
	l.journal.writes = l.journal.writes[:0]
}

// Applied reports whether the current attempt mutated anything.
func (l *Lattice) Applied() bool {
	return len(l.journal.writes) > 0
}

// CommitEnergy caches the given energy value and clears the journal,
// finalizing an accepted attempt. Recentering, if any, should happen
// before this is called so the cached energy and grid stay consistent
// (spec.md §9: recentering is translation-invariant and never changes
// energy).
func (l *Lattice) CommitEnergy(e int) {
	l.energy = e
	l.journal.writes = l.journal.writes[:0]
}

// ComputeEnergy recomputes the energy from scratch; used by the MC
// walker to score a candidate conformation before deciding whether to
// keep or undo it.
func (l *Lattice) ComputeEnergy() int {
	return l.computeEnergy()
}
