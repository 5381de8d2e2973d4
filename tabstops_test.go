package termcore

import "testing"

func TestTabStopsDefaultEveryEightColumns(t *testing.T) {
	ts := NewTabStops(40)
	if next := ts.Next(0); next != 8 {
		t.Fatalf("Next(0) = %d, want 8", next)
	}
	if next := ts.Next(8); next != 16 {
		t.Fatalf("Next(8) = %d, want 16", next)
	}
}

func TestTabStopsSetAndClear(t *testing.T) {
	ts := NewTabStops(40)
	ts.ClearAll()
	ts.Set(5)
	ts.Set(12)
	if next := ts.Next(0); next != 5 {
		t.Fatalf("Next(0) = %d, want 5", next)
	}
	ts.Clear(5)
	if next := ts.Next(0); next != 12 {
		t.Fatalf("Next(0) = %d, want 12", next)
	}
}

func TestTabStopsPrev(t *testing.T) {
	ts := NewTabStops(40)
	if prev := ts.Prev(10); prev != 8 {
		t.Fatalf("Prev(10) = %d, want 8", prev)
	}
	if prev := ts.Prev(0); prev != 0 {
		t.Fatalf("Prev(0) = %d, want 0", prev)
	}
}

func TestTabStopsResizePreservesAndExtends(t *testing.T) {
	ts := NewTabStops(10)
	ts.ClearAll()
	ts.Set(3)
	ts.Resize(20)
	if next := ts.Next(0); next != 3 {
		t.Fatalf("Next(0) after resize = %d, want 3", next)
	}
	// newly added columns (>=10) keep the every-8 default starting at 16
	if next := ts.Next(3); next != 16 {
		t.Fatalf("Next(3) after resize = %d, want 16", next)
	}
}

func TestScreenTabUsesTabStops(t *testing.T) {
	s := NewScreen(5, 40, nil, DefaultExtendedCharTable())
	s.ClearAllTabStops()
	s.SetTabStop(4)
	s.SetTabStop(10)
	s.Tab()
	if _, col := s.CursorPos(); col != 4 {
		t.Fatalf("cursor col after Tab() = %d, want 4", col)
	}
	s.Tab()
	if _, col := s.CursorPos(); col != 10 {
		t.Fatalf("cursor col after second Tab() = %d, want 10", col)
	}
	s.BackTab()
	if _, col := s.CursorPos(); col != 4 {
		t.Fatalf("cursor col after BackTab() = %d, want 4", col)
	}
}
