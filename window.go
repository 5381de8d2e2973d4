package termcore

// ScreenWindow is a scrollable viewport over one Emulation's combined
// history+live line space for whichever Screen is currently selected.
// Grounded on spec.md §4.4 and the teacher's provider/notification shape
// (providers.go's no-op-default pattern, reused here for onChanged).
type ScreenWindow struct {
	screen      *Screen
	windowLines int
	scrollLine  int
	selection   Selection
	onChanged   func()
	table       *ExtendedCharTable
}

// NewScreenWindow creates a window of windowLines height bound to screen,
// registered with table for ExtendedCharTable cleanup-sweep liveness.
func NewScreenWindow(screen *Screen, windowLines int, table *ExtendedCharTable) *ScreenWindow {
	if windowLines <= 0 {
		windowLines = 1
	}
	w := &ScreenWindow{screen: screen, windowLines: windowLines, table: table}
	table.registerWindow(w)
	return w
}

// Close unregisters the window from its ExtendedCharTable. Callers should
// call this when an Emulation destroys a window, matching spec.md §9's
// "windows register on construction and unregister on destruction."
func (w *ScreenWindow) Close() {
	w.table.unregisterWindow(w)
}

// rebind atomically repoints the window at a new current screen, called by
// Emulation on every ScreenWindow when the screen-selection state machine
// transitions (spec.md §4.4/§4.6).
func (w *ScreenWindow) rebind(screen *Screen) {
	w.screen = screen
	w.scrollLine = w.clampScroll(w.scrollLine)
}

// Screen returns the window's current screen.
func (w *ScreenWindow) Screen() *Screen { return w.screen }

// historyLineCount returns how many lines of scrollback this window's
// screen currently offers (0 for the alternate screen, which has none).
func (w *ScreenWindow) historyLineCount() int {
	if w.screen.History() == nil {
		return 0
	}
	return w.screen.History().LineCount()
}

// totalLineCount is the combined (history + live) line space the window
// scrolls over.
func (w *ScreenWindow) totalLineCount() int {
	return w.historyLineCount() + w.screen.Rows()
}

func (w *ScreenWindow) clampScroll(line int) int {
	max := w.totalLineCount() - w.windowLines
	if max < 0 {
		max = 0
	}
	if line > max {
		line = max
	}
	if line < 0 {
		line = 0
	}
	return line
}

// ScrollLine returns the current scroll offset into combined line space.
func (w *ScreenWindow) ScrollLine() int { return w.scrollLine }

// SetScrollLine sets the absolute scroll offset, clamped per spec.md §3's
// ScreenWindow invariant.
func (w *ScreenWindow) SetScrollLine(line int) {
	w.scrollLine = w.clampScroll(line)
}

// ScrollBy adjusts the scroll offset by a relative delta (positive scrolls
// toward the live screen / more recent lines).
func (w *ScreenWindow) ScrollBy(delta int) {
	w.SetScrollLine(w.scrollLine + delta)
}

// ScrollToEnd jumps the viewport to show the most recent windowLines
// lines.
func (w *ScreenWindow) ScrollToEnd() {
	w.scrollLine = w.clampScroll(w.totalLineCount())
}

// AtEnd reports whether the window is already scrolled to the live edge.
func (w *ScreenWindow) AtEnd() bool {
	return w.scrollLine >= w.totalLineCount()-w.windowLines
}

// WindowLines returns the viewport height.
func (w *ScreenWindow) WindowLines() int { return w.windowLines }

// SetWindowLines resizes the viewport, reclamping the scroll offset.
func (w *ScreenWindow) SetWindowLines(n int) {
	if n <= 0 {
		n = 1
	}
	w.windowLines = n
	w.scrollLine = w.clampScroll(w.scrollLine)
}

// Line returns the cells of the combined-space line at the given visible
// row (0 == top of viewport), reading from history when the row falls
// before the live grid's first row, or from the grid otherwise.
func (w *ScreenWindow) Line(visibleRow int) []Cell {
	absolute := w.scrollLine + visibleRow
	histLen := w.historyLineCount()
	if absolute < histLen {
		n := w.screen.History().LineLength(absolute)
		out := make([]Cell, n)
		w.screen.History().ReadCells(absolute, 0, n, out)
		return out
	}
	row := absolute - histLen
	if row < 0 || row >= w.screen.Rows() {
		return nil
	}
	out := make([]Cell, w.screen.Cols())
	for col := 0; col < w.screen.Cols(); col++ {
		out[col] = w.screen.Cell(row, col)
	}
	return out
}

// SetSelection sets the window's selection mirror and forwards it to the
// bound screen.
func (w *ScreenWindow) SetSelection(anchor, extent Position) {
	w.selection = Selection{Active: true, Anchor: anchor, Extent: extent}
	w.screen.SetSelection(anchor, extent)
}

// ClearSelection clears the window's selection mirror and the screen's.
func (w *ScreenWindow) ClearSelection() {
	w.selection = Selection{}
	w.screen.ClearSelection()
}

// OnChanged installs the callback invoked by NotifyOutputChanged.
func (w *ScreenWindow) OnChanged(fn func()) { w.onChanged = fn }

// NotifyOutputChanged invalidates any cached view data and re-emits to the
// display, per spec.md §4.4.
func (w *ScreenWindow) NotifyOutputChanged() {
	if w.onChanged != nil {
		w.onChanged()
	}
}

// usedExtendedChars implements windowLivenessSource, delegating to the
// bound screen.
func (w *ScreenWindow) usedExtendedChars() map[rune]struct{} {
	return w.screen.UsedExtendedChars()
}
