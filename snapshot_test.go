package termcore

import "testing"

func TestScreenSnapshotText(t *testing.T) {
	table := NewExtendedCharTable()
	s := NewScreen(2, 10, nil, table)
	s.DisplayCharacter('h')
	s.DisplayCharacter('i')

	snap := s.Snapshot(SnapshotDetailText, table)
	if snap.Size.Rows != 2 || snap.Size.Cols != 10 {
		t.Fatalf("Size = %+v, want {2 10}", snap.Size)
	}
	if got := snap.Lines[0].Text; got != "hi" {
		t.Fatalf("Lines[0].Text = %q, want %q", got, "hi")
	}
	if snap.Lines[0].Segments != nil || snap.Lines[0].Cells != nil {
		t.Fatalf("text detail should not populate Segments/Cells")
	}
}

func TestScreenSnapshotFullIncludesAttributes(t *testing.T) {
	table := NewExtendedCharTable()
	s := NewScreen(1, 5, nil, table)
	s.SetTemplate(CellTemplate{Cell: Cell{Rendition: RenditionBold, Foreground: IndexedCharacterColor(2)}})
	s.DisplayCharacter('A')

	snap := s.Snapshot(SnapshotDetailFull, table)
	cell := snap.Lines[0].Cells[0]
	if cell.Char != "A" || !cell.Attributes.Bold || cell.Fg != "idx:2" {
		t.Fatalf("cell = %+v, want bold 'A' fg idx:2", cell)
	}
}

func TestScreenSnapshotStyledSegmentsMerge(t *testing.T) {
	table := NewExtendedCharTable()
	s := NewScreen(1, 5, nil, table)
	s.DisplayCharacter('a')
	s.DisplayCharacter('b')
	s.SetTemplate(CellTemplate{Cell: Cell{Rendition: RenditionBold}})
	s.DisplayCharacter('c')

	snap := s.Snapshot(SnapshotDetailStyled, table)
	segs := snap.Lines[0].Segments
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segs), segs)
	}
	if segs[0].Text != "ab" || segs[1].Text != "c" {
		t.Fatalf("segments = %+v, want [ab c]", segs)
	}
}

func TestScreenSnapshotResolvesExtendedCharacters(t *testing.T) {
	table := NewExtendedCharTable()
	s := NewScreen(1, 5, nil, table)
	s.DisplayCharacter('e')
	s.Compose([]rune{0x0301})

	snap := s.Snapshot(SnapshotDetailText, table)
	if got := snap.Lines[0].Text; got != "é" {
		t.Fatalf("Lines[0].Text = %q, want %q", got, "é")
	}
}
