package termcore

import "testing"

func TestScreenWindowScrollClampsToRange(t *testing.T) {
	table := NewExtendedCharTable()
	hist := NewHistoryBounded(50)
	s := NewScreen(10, 20, hist, table)
	for i := 0; i < 30; i++ {
		s.DisplayCharacter('x')
		s.NewLine()
		s.ToStartOfLine()
	}
	w := NewScreenWindow(s, 5, table)
	defer w.Close()

	w.SetScrollLine(-10)
	if w.ScrollLine() != 0 {
		t.Fatalf("ScrollLine() = %d, want 0", w.ScrollLine())
	}

	w.SetScrollLine(10000)
	max := hist.LineCount() + s.Rows() - w.WindowLines()
	if w.ScrollLine() != max {
		t.Fatalf("ScrollLine() = %d, want clamped max %d", w.ScrollLine(), max)
	}
}

func TestScreenWindowScrollToEndTracksLiveEdge(t *testing.T) {
	table := NewExtendedCharTable()
	s := NewScreen(5, 10, nil, table)
	w := NewScreenWindow(s, 5, table)
	defer w.Close()

	w.ScrollToEnd()
	if !w.AtEnd() {
		t.Fatalf("expected AtEnd() after ScrollToEnd()")
	}
}

func TestScreenWindowRebindSwitchesScreen(t *testing.T) {
	table := NewExtendedCharTable()
	primary := NewScreen(5, 10, nil, table)
	alternate := NewScreen(5, 10, nil, table)
	w := NewScreenWindow(primary, 5, table)
	defer w.Close()

	w.rebind(alternate)
	if w.Screen() != alternate {
		t.Fatalf("window did not rebind to the alternate screen")
	}
}

func TestScreenWindowNotifyOutputChanged(t *testing.T) {
	table := NewExtendedCharTable()
	s := NewScreen(5, 10, nil, table)
	w := NewScreenWindow(s, 5, table)
	defer w.Close()

	called := false
	w.OnChanged(func() { called = true })
	w.NotifyOutputChanged()
	if !called {
		t.Fatalf("expected onChanged callback to fire")
	}
}
