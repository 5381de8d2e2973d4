package termcore

import "testing"

func cellOf(r rune) Cell { return Cell{Code: r} }

func TestHistoryNoneDiscardsEverything(t *testing.T) {
	h := NewHistoryNone()
	h.AppendCells([]Cell{cellOf('a')})
	h.AppendLine(false)
	if h.LineCount() != 0 {
		t.Fatalf("LineCount() = %d, want 0", h.LineCount())
	}
	if h.HasScroll() {
		t.Fatalf("HasScroll() = true, want false")
	}
}

func TestHistoryBoundedCapsAtMaxLines(t *testing.T) {
	h := NewHistoryBounded(3)
	for i := 0; i < 5; i++ {
		h.AppendCells([]Cell{cellOf(rune('0' + i))})
		h.AppendLine(false)
	}
	if h.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", h.LineCount())
	}
	// The oldest two lines ('0','1') should have been evicted; line 0 is
	// now what was originally appended third ('2').
	var out [1]Cell
	h.ReadCells(0, 0, 1, out[:])
	if out[0].Code != '2' {
		t.Fatalf("oldest surviving line = %q, want '2'", out[0].Code)
	}
}

func TestHistoryBoundedVirtualizedIndexAfterWrap(t *testing.T) {
	h := NewHistoryBounded(2)
	for i := 0; i < 4; i++ {
		h.AppendCells([]Cell{cellOf(rune('a' + i))})
		h.AppendLine(false)
	}
	var out [1]Cell
	h.ReadCells(0, 0, 1, out[:])
	if out[0].Code != 'c' {
		t.Fatalf("line 0 = %q, want 'c'", out[0].Code)
	}
	h.ReadCells(1, 0, 1, out[:])
	if out[0].Code != 'd' {
		t.Fatalf("line 1 = %q, want 'd'", out[0].Code)
	}
}

func TestHistoryBoundedWrapFlagPreserved(t *testing.T) {
	h := NewHistoryBounded(5)
	h.AppendCells([]Cell{cellOf('x')})
	h.AppendLine(true)
	if !h.IsWrapped(0) {
		t.Fatalf("IsWrapped(0) = false, want true")
	}
}

func TestHistoryFileRoundTrip(t *testing.T) {
	h, err := NewHistoryFile()
	if err != nil {
		t.Fatalf("NewHistoryFile() error: %v", err)
	}
	defer h.Close()

	h.AppendCells([]Cell{cellOf('a'), cellOf('b')})
	h.AppendLine(false)
	h.AppendCells([]Cell{cellOf('c')})
	h.AppendLine(true)

	if h.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", h.LineCount())
	}
	if h.LineLength(0) != 2 {
		t.Fatalf("LineLength(0) = %d, want 2", h.LineLength(0))
	}
	out := make([]Cell, 2)
	n := h.ReadCells(0, 0, 2, out)
	if n != 2 || out[0].Code != 'a' || out[1].Code != 'b' {
		t.Fatalf("ReadCells(0,...) = %v, want [a b]", out[:n])
	}
	if !h.IsWrapped(1) {
		t.Fatalf("IsWrapped(1) = false, want true")
	}
}

func TestHistoryFileMappingHysteresis(t *testing.T) {
	h, err := NewHistoryFile()
	if err != nil {
		t.Fatalf("NewHistoryFile() error: %v", err)
	}
	defer h.Close()

	for i := 0; i < 2000; i++ {
		h.AppendCells([]Cell{cellOf('X')})
		h.AppendLine(false)
	}

	// The 2000 appends leave the cells file's balance at +2000 and each
	// ReadCells reads it once, so it maps on the 3000th read (balance -1000).
	out := make([]Cell, 1)
	for i := 0; i < 3200; i++ {
		h.ReadCells(0, 0, 1, out)
	}
	if !h.cells.mapped {
		t.Fatalf("cells file should have transitioned to Mapped once reads outnumbered writes by 1000")
	}

	h.AppendCells([]Cell{cellOf('Y')})
	h.AppendLine(false)
	if h.cells.mapped {
		t.Fatalf("cells file should have transitioned back to Unmapped after a write")
	}
}

func TestHistoryCompactRoundTripAndStyleRuns(t *testing.T) {
	h := NewHistoryCompact(10)
	cells := []Cell{
		{Code: 'a', Foreground: IndexedCharacterColor(1)},
		{Code: 'b', Foreground: IndexedCharacterColor(1)},
		{Code: 'c', Foreground: IndexedCharacterColor(2)},
	}
	h.AppendCells(cells)
	h.AppendLine(false)

	if h.LineLength(0) != 3 {
		t.Fatalf("LineLength(0) = %d, want 3", h.LineLength(0))
	}
	out := make([]Cell, 3)
	n := h.ReadCells(0, 0, 3, out)
	if n != 3 {
		t.Fatalf("ReadCells returned %d cells, want 3", n)
	}
	for i, c := range cells {
		if out[i].Code != c.Code || out[i].Foreground != c.Foreground {
			t.Fatalf("cell %d = %+v, want %+v", i, out[i], c)
		}
	}
}

func TestHistoryCompactEvictsOldestWhenFull(t *testing.T) {
	h := NewHistoryCompact(2)
	for i := 0; i < 3; i++ {
		h.AppendCells([]Cell{cellOf(rune('0' + i))})
		h.AppendLine(false)
	}
	if h.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", h.LineCount())
	}
	out := make([]Cell, 1)
	h.ReadCells(0, 0, 1, out)
	if out[0].Code != '1' {
		t.Fatalf("surviving oldest line = %q, want '1'", out[0].Code)
	}
}

func TestHistoryCompactNonBMPOverflowRoutesThroughMap(t *testing.T) {
	h := NewHistoryCompact(5)
	h.AppendCells([]Cell{{Code: 0x1F600, Rendition: RenditionExtended}})
	h.AppendLine(false)

	out := make([]Cell, 1)
	h.ReadCells(0, 0, 1, out)
	if out[0].Code != 0x1F600 {
		t.Fatalf("overflowed code point = %x, want %x", out[0].Code, 0x1F600)
	}
}
