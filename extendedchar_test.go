package termcore

import "testing"

func TestExtendedCharTableInternRoundTrip(t *testing.T) {
	table := NewExtendedCharTable()
	seq := []rune{0x0065, 0x0301} // e + combining acute
	h1 := table.Intern(seq)
	if h1 == 0 {
		t.Fatalf("Intern returned the reserved sentinel 0 on first use")
	}
	h2 := table.Intern(seq)
	if h1 != h2 {
		t.Fatalf("Intern(seq) twice returned different hashes: %v, %v", h1, h2)
	}
	got, ok := table.Lookup(h1)
	if !ok {
		t.Fatalf("Lookup(%v) reported absent", h1)
	}
	if len(got) != len(seq) || got[0] != seq[0] || got[1] != seq[1] {
		t.Fatalf("Lookup(%v) = %v, want %v", h1, got, seq)
	}
}

func TestExtendedCharTableDistinctSequencesGetDistinctHashesUsually(t *testing.T) {
	table := NewExtendedCharTable()
	a := table.Intern([]rune{'e', 0x0301})
	b := table.Intern([]rune{'a', 0x0301})
	if a == b {
		t.Fatalf("distinct sequences collided to the same hash: %v", a)
	}
}

func TestExtendedCharTableLookupMissingReturnsFalse(t *testing.T) {
	table := NewExtendedCharTable()
	_, ok := table.Lookup(12345)
	if ok {
		t.Fatalf("Lookup on a never-interned hash reported present")
	}
}

func TestExtendedCharTableReservedKeyNeverUsed(t *testing.T) {
	table := NewExtendedCharTable()
	// A sequence whose rolling hash lands on exactly 0 must probe forward
	// rather than ever storing under key 0 (spec.md §4.1 invariant I1).
	h := table.Intern([]rune{0})
	if h == 0 {
		t.Fatalf("Intern stored or returned the reserved key 0")
	}
}

func TestExtendedCharTableCleanupDropsUnreferencedEntries(t *testing.T) {
	table := NewExtendedCharTable()
	screen := NewScreen(5, 10, nil, table)
	window := NewScreenWindow(screen, 5, table)
	defer window.Close()

	h := table.Intern([]rune{'z', 0x0301})
	if _, ok := table.Lookup(h); !ok {
		t.Fatalf("freshly interned hash should be present")
	}

	// Nothing in screen's grid or history references h, so a cleanup
	// sweep (triggered here directly rather than via a full 2^32-probe
	// wraparound, which spec.md §8 scenario 4 describes but is not
	// practical to drive in a unit test) must drop it.
	table.cleanupLocked()
	if _, ok := table.Lookup(h); ok {
		t.Fatalf("cleanup should have dropped an unreferenced entry")
	}
}

func TestExtendedCharTableCleanupKeepsReferencedEntries(t *testing.T) {
	table := NewExtendedCharTable()
	screen := NewScreen(5, 10, nil, table)
	window := NewScreenWindow(screen, 5, table)
	defer window.Close()

	screen.DisplayCharacter('z')
	screen.Compose([]rune{0x0301})
	cell := screen.Cell(0, 0)

	table.cleanupLocked()
	if _, ok := table.Lookup(cell.Code); !ok {
		t.Fatalf("cleanup dropped a hash still referenced by a live screen")
	}
}

func TestExtendedCharTableExhaustionCountStartsZero(t *testing.T) {
	table := NewExtendedCharTable()
	if n := table.ExhaustionCount(); n != 0 {
		t.Fatalf("ExhaustionCount() = %d, want 0 on a fresh table", n)
	}
}
