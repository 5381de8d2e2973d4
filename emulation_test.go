package termcore

import (
	"testing"
	"time"
)

func TestEmulationDisplaysPlainText(t *testing.T) {
	e := NewEmulation(WithSize(24, 80))
	defer e.Close()

	n, err := e.ReceiveData([]byte("abc\n"))
	if err != nil || n != 4 {
		t.Fatalf("ReceiveData() = (%d, %v), want (4, nil)", n, err)
	}
	e.Flush()

	if got := e.Current().LineContent(0); got != "abc" {
		t.Fatalf("row 0 = %q, want %q", got, "abc")
	}
	if row, col := e.Current().CursorPos(); row != 1 || col != 0 {
		t.Fatalf("cursor = (%d,%d), want (1,0)", row, col)
	}
	if e.LineCount() != 24 {
		t.Fatalf("LineCount() = %d, want 24", e.LineCount())
	}
	if n := e.HistoryStore().LineCount(); n != 0 {
		t.Fatalf("history line count = %d, want 0 (no history configured)", n)
	}
}

func TestEmulationBoundedHistoryCaps(t *testing.T) {
	e := NewEmulation(WithSize(24, 80), WithHistory(NewHistoryBounded(10)))
	defer e.Close()

	for i := 0; i < 100; i++ {
		e.ReceiveData([]byte("X\n"))
	}
	e.Flush()

	hist := e.HistoryStore()
	if hist.LineCount() != 10 {
		t.Fatalf("history line count = %d, want 10", hist.LineCount())
	}
	var out [1]Cell
	n := hist.ReadCells(0, 0, 1, out[:])
	if n != 1 || out[0].Code != 'X' {
		t.Fatalf("history line 0 = %v, want single cell 'X'", out[:n])
	}
}

func TestEmulationInternRoundTrip(t *testing.T) {
	table := NewExtendedCharTable()
	seq := []rune{0x0065, 0x0301}
	h1 := table.Intern(seq)
	h2 := table.Intern(seq)
	if h1 != h2 {
		t.Fatalf("Intern not stable: %v != %v", h1, h2)
	}
	got, ok := table.Lookup(h1)
	if !ok || len(got) != 2 || got[0] != seq[0] || got[1] != seq[1] {
		t.Fatalf("Lookup(%v) = %v, want %v", h1, got, seq)
	}
}

func TestEmulationZmodemDetected(t *testing.T) {
	e := NewEmulation(WithSize(5, 20))
	defer e.Close()

	detected := 0
	e.OnZmodemDetected(func() { detected++ })

	e.ReceiveData([]byte("hello\x18B00world"))
	e.Flush()

	if detected != 1 {
		t.Fatalf("zmodemDetected fired %d times, want 1", detected)
	}
	// Policy per spec.md §8 scenario 5 / §9: the marker bytes pass to
	// DisplayCharacter untouched unless the caller filters them. This core
	// does not filter, so the CAN byte occupies its own cell between
	// "hello" and "B00world".
	want := "hello\x18B00world"
	if got := e.Current().LineContent(0); got != want {
		t.Fatalf("row 0 = %q, want %q", got, want)
	}
}

func TestEmulationScreenSwitchAtomicity(t *testing.T) {
	e := NewEmulation(WithSize(5, 20))
	defer e.Close()
	w1 := e.AddWindow(5)
	w2 := e.AddWindow(5)

	e.SetScreen(1)

	alt := e.Current()
	if w1.Screen() != alt || w2.Screen() != alt {
		t.Fatalf("not every window rebound to the alternate screen")
	}
	if !e.IsAlternateScreen() {
		t.Fatalf("IsAlternateScreen() = false, want true")
	}
}

func TestEmulationResizeIdempotent(t *testing.T) {
	e := NewEmulation(WithSize(24, 80))
	defer e.Close()
	e.Resize(30, 100)
	before := e.Current().LineContent(0)
	e.Resize(30, 100)
	after := e.Current().LineContent(0)
	if before != after {
		t.Fatalf("resize not idempotent: %q != %q", before, after)
	}
}

func TestEmulationCoalescingFlush(t *testing.T) {
	e := NewEmulation(WithSize(5, 20), WithCoalescingTimers(5*time.Millisecond, 15*time.Millisecond))
	defer e.Close()

	fired := make(chan struct{}, 1)
	e.OnOutputChanged(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	e.ReceiveData([]byte("hi"))

	select {
	case <-fired:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("outputChanged did not fire within 100ms of a 5ms/15ms coalescing window")
	}
}

func TestEmulationSendKeyText(t *testing.T) {
	var written []byte
	e := NewEmulation(WithSize(5, 20), WithResponse(writerFunc(func(p []byte) (int, error) {
		written = append(written, p...)
		return len(p), nil
	})))
	defer e.Close()

	e.SendKey(KeyEvent{Text: "q"})
	if string(written) != "q" {
		t.Fatalf("written = %q, want %q", written, "q")
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
