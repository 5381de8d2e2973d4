package termcore

// historyLine is one stored scrollback line: its cells and wrap flag.
type historyLine struct {
	cells   []Cell
	wrapped bool
}

// HistoryBounded is an in-memory ring buffer of lines, capped at maxLines.
// Once full, appending a new line overwrites the oldest. Grounded on
// original_source/lib/History.h's HistoryScrollBuffer (bufferIndex,
// _maxLineCount, _usedLines, _head).
type HistoryBounded struct {
	maxLines int
	ring     []historyLine
	head     int // index of the oldest live line within ring
	used     int // number of live lines, <= maxLines

	pending        []Cell
	pendingPresent bool
}

// NewHistoryBounded creates a ring buffer holding at most maxLines lines.
// maxLines <= 0 behaves as a capacity of 1 (a degenerate but valid ring).
func NewHistoryBounded(maxLines int) *HistoryBounded {
	if maxLines <= 0 {
		maxLines = 1
	}
	return &HistoryBounded{
		maxLines: maxLines,
		ring:     make([]historyLine, maxLines),
	}
}

func (h *HistoryBounded) LineCount() int { return h.used }

// virtualize translates a caller-visible 0-based index into the ring slot
// holding it, per spec.md §4.2: "(head + i) mod maxLines".
func (h *HistoryBounded) virtualize(i int) int {
	return (h.head + i) % h.maxLines
}

func (h *HistoryBounded) LineLength(i int) int {
	if i < 0 || i >= h.used {
		return 0
	}
	return len(h.ring[h.virtualize(i)].cells)
}

func (h *HistoryBounded) ReadCells(i, col, count int, out []Cell) int {
	if i < 0 || i >= h.used {
		return 0
	}
	line := h.ring[h.virtualize(i)].cells
	if col < 0 || col >= len(line) {
		return 0
	}
	n := count
	if col+n > len(line) {
		n = len(line) - col
	}
	if n > len(out) {
		n = len(out)
	}
	copy(out[:n], line[col:col+n])
	return n
}

func (h *HistoryBounded) IsWrapped(i int) bool {
	if i < 0 || i >= h.used {
		return false
	}
	return h.ring[h.virtualize(i)].wrapped
}

func (h *HistoryBounded) AppendCells(cells []Cell) {
	h.pending = append(h.pending, cells...)
	h.pendingPresent = true
}

func (h *HistoryBounded) AppendLine(wrapped bool) {
	line := historyLine{cells: h.pending, wrapped: wrapped}
	h.pending = nil
	h.pendingPresent = false

	if h.used < h.maxLines {
		h.ring[h.virtualize(h.used)] = line
		h.used++
		return
	}
	// Full: overwrite the oldest slot and advance head.
	h.ring[h.head] = line
	h.head = (h.head + 1) % h.maxLines
}

func (h *HistoryBounded) HasScroll() bool { return true }
func (h *HistoryBounded) MaxLines() int   { return h.maxLines }

func (h *HistoryBounded) Clear() {
	h.ring = make([]historyLine, h.maxLines)
	h.head = 0
	h.used = 0
	h.pending = nil
	h.pendingPresent = false
}

func (h *HistoryBounded) Close() error { return nil }
