package termcore

import "sync"

// Position identifies a cell location in the grid (0-based, row then col).
type Position struct {
	Row int
	Col int
}

// Before reports whether p sorts earlier than other in reading order.
func (p Position) Before(other Position) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}

// Equal reports whether p and other name the same cell.
func (p Position) Equal(other Position) bool { return p == other }

// ScreenModeFlags is a bitmask of Screen behavior toggles.
type ScreenModeFlags uint8

const (
	ModeInsert ScreenModeFlags = 1 << iota
	ModeOrigin
	ModeWrap
)

// Selection is an inclusive anchor/extent pair in grid coordinates, plus
// whether a selection is currently active.
type Selection struct {
	Active bool
	Anchor Position
	Extent Position
}

// normalized returns (start, end) in reading order regardless of which of
// Anchor/Extent the user dragged from.
func (s Selection) normalized() (Position, Position) {
	if s.Anchor.Before(s.Extent) || s.Anchor.Equal(s.Extent) {
		return s.Anchor, s.Extent
	}
	return s.Extent, s.Anchor
}

// Screen is a 2-D grid of cells with cursor, selection, saved state, and
// (for the primary screen only) a HistoryStore bridge. Grounded on the
// teacher's Buffer+Cursor+Terminal split (buffer.go, cursor.go,
// terminal.go), generalized to spec.md §4.3's operation set.
//
// Every exported method locks mu for its own duration, mirroring the
// teacher's per-accessor locking in terminal.go (e.g. CursorPos,
// CursorVisible, CursorStyle) rather than handing out a pointer an
// outside caller could read or write unsynchronized. Internal methods
// with a "Locked" suffix assume the caller already holds mu and must
// never be reached from outside an exported method's critical section.
type Screen struct {
	mu sync.Mutex

	rows, cols int
	cells      [][]Cell
	wrapped    []bool

	cursor     *Cursor
	saved      *SavedCursor
	template   CellTemplate
	mode       ScreenModeFlags
	charsets   [4]Charset
	charsetIdx CharsetIndex
	scrollTop  int
	scrollBot  int // exclusive
	selection  Selection

	history HistoryStore // nil for the alternate screen
	table   *ExtendedCharTable
	tabs    *TabStops
}

// NewScreen creates a screen of the given size. history may be nil (the
// alternate screen has none, per spec.md §3). table is the
// ExtendedCharTable this screen interns composed characters into; pass
// DefaultExtendedCharTable() unless the embedder wants a private table.
func NewScreen(rows, cols int, history HistoryStore, table *ExtendedCharTable) *Screen {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	s := &Screen{
		rows:      rows,
		cols:      cols,
		cursor:    NewCursor(),
		template:  NewCellTemplate(),
		mode:      ModeWrap,
		scrollTop: 0,
		scrollBot: rows,
		history:   history,
		table:     table,
		tabs:      NewTabStops(cols),
	}
	s.cells = make([][]Cell, rows)
	s.wrapped = make([]bool, rows)
	for i := range s.cells {
		s.cells[i] = make([]Cell, cols)
		for j := range s.cells[i] {
			s.cells[i][j] = BlankCell
		}
	}
	return s
}

func (s *Screen) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

func (s *Screen) Cols() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols
}

// Cell returns the cell at (row, col), or the zero Cell if out of range.
func (s *Screen) Cell(row, col int) Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cellLocked(row, col)
}

func (s *Screen) cellLocked(row, col int) Cell {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return Cell{}
	}
	return s.cells[row][col]
}

func (s *Screen) setCellLocked(row, col int, c Cell) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return
	}
	s.cells[row][col] = c
}

// CursorPos returns the current cursor position (0-based), mirroring the
// teacher's Terminal.CursorPos.
func (s *Screen) CursorPos() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Row, s.cursor.Col
}

// CursorVisible reports whether the cursor is currently visible.
func (s *Screen) CursorVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Visible
}

// CursorStyle returns the current cursor rendering style.
func (s *Screen) CursorStyle() CursorStyle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Style
}

// SetCursorVisible sets cursor visibility.
func (s *Screen) SetCursorVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Visible = visible
}

// SetCursorStyle sets the cursor rendering style.
func (s *Screen) SetCursorStyle(style CursorStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Style = style
}

// SetTemplate replaces the attribute template applied to newly written
// cells (the effect of an SGR-equivalent operation handed in by a caller
// owning the escape-sequence parser).
func (s *Screen) SetTemplate(t CellTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = t
}

// Template returns the current write template.
func (s *Screen) Template() CellTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// SetMode sets or clears mode bits.
func (s *Screen) SetMode(flags ScreenModeFlags, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setModeLocked(flags, on)
}

func (s *Screen) setModeLocked(flags ScreenModeFlags, on bool) {
	if on {
		s.mode |= flags
	} else {
		s.mode &^= flags
	}
}

// HasMode reports whether all bits in flags are set.
func (s *Screen) HasMode(flags ScreenModeFlags) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasModeLocked(flags)
}

func (s *Screen) hasModeLocked(flags ScreenModeFlags) bool {
	return s.mode&flags == flags
}

// SetScrollRegion sets the scroll region [top, bottom) in rows. Invalid
// regions (non-positive height, out of range) are silently ignored, per
// spec.md §7's "invalid resize: silently ignored" policy generalized to
// other invalid-geometry operations.
func (s *Screen) SetScrollRegion(top, bottom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if top < 0 || bottom > s.rows || top >= bottom {
		return
	}
	s.scrollTop = top
	s.scrollBot = bottom
}

// ScrollRegion returns the current scroll region [top, bottom).
func (s *Screen) ScrollRegion() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollTop, s.scrollBot
}

// displaceTopLineLocked appends grid row row to history (if this screen
// owns one) before it scrolls away, together with its wrap flag. Only
// called for rows scrolling off a region whose scrollTop == 0, per spec.md
// §4.3: "when scrolling within the non-alternate screen causes the top
// line to be displaced." Caller must hold mu.
func (s *Screen) displaceTopLineLocked(row int) {
	if s.history == nil {
		return
	}
	s.history.AppendCells(s.cells[row])
	s.history.AppendLine(s.wrapped[row])
}

// ScrollUp shifts n lines up within [top, bottom), pushing displaced top
// lines (when top==0) into history. Grounded on buffer.go's ScrollUp.
func (s *Screen) ScrollUp(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollUpLocked(n)
}

func (s *Screen) scrollUpLocked(n int) {
	top, bottom := s.scrollTop, s.scrollBot
	if n <= 0 || top >= bottom {
		return
	}
	if n > bottom-top {
		n = bottom - top
	}
	if top == 0 {
		for i := 0; i < n; i++ {
			s.displaceTopLineLocked(i)
		}
	}
	for row := top; row < bottom-n; row++ {
		s.cells[row] = s.cells[row+n]
		s.wrapped[row] = s.wrapped[row+n]
	}
	for row := bottom - n; row < bottom; row++ {
		s.cells[row] = blankRow(s.cols)
		s.wrapped[row] = false
	}
}

// ScrollDown shifts n lines down within [top, bottom).
func (s *Screen) ScrollDown(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollDownLocked(n)
}

func (s *Screen) scrollDownLocked(n int) {
	top, bottom := s.scrollTop, s.scrollBot
	if n <= 0 || top >= bottom {
		return
	}
	if n > bottom-top {
		n = bottom - top
	}
	for row := bottom - 1; row >= top+n; row-- {
		s.cells[row] = s.cells[row-n]
		s.wrapped[row] = s.wrapped[row-n]
	}
	for row := top; row < top+n; row++ {
		s.cells[row] = blankRow(s.cols)
		s.wrapped[row] = false
	}
}

func blankRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = BlankCell
	}
	return row
}

// DisplayCharacter writes cp at the cursor using the current template,
// advancing the cursor. Writing past the right edge wraps to column 0 of
// the next line (marking the vacated line wrapped=true) when wrap mode is
// on; otherwise subsequent writes overwrite the last column. Per spec.md
// §4.3.
func (s *Screen) DisplayCharacter(cp rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Col >= s.cols {
		if s.hasModeLocked(ModeWrap) {
			s.wrapped[s.cursor.Row] = true
			s.cursor.Col = 0
			s.advanceRowLocked()
		} else {
			s.cursor.Col = s.cols - 1
		}
	}

	width := runeWidth(cp)
	cell := s.template.Cell
	cell.Code = cp

	if width == 2 && s.cursor.Col+1 < s.cols {
		cell.Rendition |= RenditionWideChar
		s.setCellLocked(s.cursor.Row, s.cursor.Col, cell)
		spacer := s.template.Cell
		spacer.Rendition |= RenditionWideCharSpacer
		s.setCellLocked(s.cursor.Row, s.cursor.Col+1, spacer)
		s.cursor.Col += 2
	} else {
		s.setCellLocked(s.cursor.Row, s.cursor.Col, cell)
		s.cursor.Col++
	}
	if s.cursor.Col >= s.cols && !s.hasModeLocked(ModeWrap) {
		s.cursor.Col = s.cols - 1
	}
}

// advanceRowLocked moves the cursor to the next row, scrolling within the
// scroll region if already at its bottom. Caller must hold mu.
func (s *Screen) advanceRowLocked() {
	if s.cursor.Row+1 < s.scrollBot {
		s.cursor.Row++
		return
	}
	s.scrollUpLocked(1)
}

// NewLine moves the cursor down one row (scrolling if needed), without
// returning to column 0 (LF semantics; callers wanting CRLF call
// ToStartOfLine too, matching original_source/lib/Emulation.cpp's split of
// '\n' and '\r' handling).
func (s *Screen) NewLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceRowLocked()
}

// ToStartOfLine moves the cursor to column 0 of its current row.
func (s *Screen) ToStartOfLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Col = 0
}

// Tab advances the cursor to the next tab stop. Stops default to every 8
// columns but can be reconfigured via TabStops (exposed through SetTabStop/
// ClearTabStop for a caller owning HTS/TBC dispatch).
func (s *Screen) Tab() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.tabs.Next(s.cursor.Col)
	if next >= s.cols {
		next = s.cols - 1
	}
	s.cursor.Col = next
}

// BackTab moves the cursor to the previous tab stop.
func (s *Screen) BackTab() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Col = s.tabs.Prev(s.cursor.Col)
}

// SetTabStop enables a tab stop at col.
func (s *Screen) SetTabStop(col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs.Set(col)
}

// ClearTabStop disables the tab stop at col.
func (s *Screen) ClearTabStop(col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs.Clear(col)
}

// ClearAllTabStops disables every tab stop.
func (s *Screen) ClearAllTabStops() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs.ClearAll()
}

// Backspace moves the cursor one column left, stopping at column 0.
func (s *Screen) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

// Compose interns the base code point currently at the cursor's previous
// column together with seq (the incoming combining mark(s)) into the
// ExtendedCharTable, replacing that cell's code with the resulting hash
// and setting RenditionExtended. Per spec.md §4.3; grounded on
// original_source/lib/Emulation.cpp's Mark_NonSpacing composition check.
//
// The grid read and the grid write are each done under mu, but mu is
// deliberately released in between while ExtendedCharTable.Intern runs:
// Intern can trigger a cleanup sweep that calls back into every
// registered window's usedExtendedChars(), including windows bound to
// this very screen — holding mu across that call would self-deadlock on
// this screen's own (non-reentrant) mutex. The brief gap this opens
// between read and write is consistent with spec.md §5's single-threaded
// cooperative model: composing is driven by one decoder loop, not
// intended to race itself.
func (s *Screen) Compose(seq []rune) {
	s.mu.Lock()
	row := s.cursor.Row
	col := s.cursor.Col - 1
	if col < 0 {
		col = 0
	}
	existing := s.cellLocked(row, col)
	s.mu.Unlock()

	var base []rune
	if existing.IsExtended() {
		if stored, ok := s.table.Lookup(existing.Code); ok {
			base = stored
		}
	} else if existing.Code != 0 {
		base = []rune{existing.Code}
	}

	full := append(append([]rune{}, base...), seq...)
	hash := s.table.Intern(full)

	cell := existing
	if hash == 0 {
		// Exhaustion: fall back to a plain replacement character per
		// spec.md §7 rather than losing the cell entirely.
		cell.Code = 0xFFFD
		cell.Rendition &^= RenditionExtended
	} else {
		cell.Code = hash
		cell.Rendition |= RenditionExtended
	}

	s.mu.Lock()
	s.setCellLocked(row, col, cell)
	s.mu.Unlock()
}

// IsCombiningMark reports whether r is a non-spacing combining mark, the
// signal Compose's caller uses to decide whether an incoming code point
// should extend the previous cell instead of starting a new one. Grounded
// on original_source/lib/Emulation.cpp's characterCategory() ==
// QChar::Mark_NonSpacing check; see DESIGN.md for why this uses stdlib
// unicode instead of a grapheme-segmentation library.
func IsCombiningMark(r rune) bool {
	return isCombiningMarkRune(r)
}

// ResizeImage resamples the grid to (lines, columns). A no-op if
// dimensions are unchanged or non-positive (spec.md §7: "invalid resize:
// silently ignored"). Content is preserved top-left; the cursor is
// clamped to the new bounds. When the column count changes, rows
// previously marked wrapped are rejoined with their continuation, and
// every resulting logical line (a lone unwrapped row included) is trimmed
// of trailing blanks and resegmented at the new width, per spec.md's
// "reflow wrapped lines if the new width differs". Narrowing therefore
// splits any row whose content is wider than the new width.
func (s *Screen) ResizeImage(lines, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lines <= 0 || cols <= 0 {
		return
	}
	if lines == s.rows && cols == s.cols {
		return
	}

	cursorAbs := s.cursor.Row
	var newCells [][]Cell
	var newWrapped []bool

	if cols != s.cols {
		newCells, newWrapped, cursorAbs = rewrapRows(s.cells, s.wrapped, cols, s.cursor.Row)
	} else {
		newCells = make([][]Cell, len(s.cells))
		newWrapped = append([]bool{}, s.wrapped...)
		copy(newCells, s.cells)
	}

	// Grow or shrink the row count, anchored at the top, preserving as
	// many of the reflowed rows as fit.
	final := make([][]Cell, lines)
	finalWrapped := make([]bool, lines)
	for i := range final {
		if i < len(newCells) {
			final[i] = newCells[i]
			finalWrapped[i] = newWrapped[i]
			if len(final[i]) != cols {
				row := blankRow(cols)
				n := len(final[i])
				if n > cols {
					n = cols
				}
				copy(row[:n], final[i][:n])
				final[i] = row
			}
		} else {
			final[i] = blankRow(cols)
		}
	}

	s.cells = final
	s.wrapped = finalWrapped
	s.rows = lines
	s.cols = cols
	s.scrollTop = 0
	s.scrollBot = lines
	s.tabs.Resize(cols)

	s.cursor.Row = cursorAbs
	if s.cursor.Row >= lines {
		s.cursor.Row = lines - 1
	}
	if s.cursor.Row < 0 {
		s.cursor.Row = 0
	}
	if s.cursor.Col > cols {
		s.cursor.Col = cols
	}
}

// rewrapRows rejoins runs of wrapped rows into logical lines and
// resegments each logical line at newCols, returning the new rows, their
// wrapped flags, and the row the cursor (originally at cursorRow) now
// falls on. A logical line is a maximal run of rows where every row but
// the last has wrapped[i] == true.
func rewrapRows(cells [][]Cell, wrapped []bool, newCols, cursorRow int) ([][]Cell, []bool, int) {
	var outCells [][]Cell
	var outWrapped []bool
	newCursorRow := 0

	i := 0
	for i < len(cells) {
		var logical []Cell
		for {
			logical = append(logical, cells[i]...)
			wasWrapped := wrapped[i]
			if i == cursorRow {
				newCursorRow = len(outCells) + (len(logical)-1)/newCols
			}
			i++
			if !wasWrapped || i >= len(cells) {
				break
			}
		}

		// Trim trailing blanks from the logical line before resegmenting,
		// so a short unwrapped line doesn't get padded out to a full
		// newCols-wide blank run before being split back up.
		end := len(logical)
		for end > 0 && logical[end-1] == BlankCell {
			end--
		}
		logical = logical[:end]
		if len(logical) == 0 {
			outCells = append(outCells, blankRow(newCols))
			outWrapped = append(outWrapped, false)
			continue
		}

		for off := 0; off < len(logical); off += newCols {
			segEnd := off + newCols
			if segEnd > len(logical) {
				segEnd = len(logical)
			}
			row := blankRow(newCols)
			copy(row, logical[off:segEnd])
			outCells = append(outCells, row)
			outWrapped = append(outWrapped, segEnd < len(logical))
		}
	}

	if len(outCells) == 0 {
		outCells = append(outCells, blankRow(newCols))
		outWrapped = append(outWrapped, false)
	}
	return outCells, outWrapped, newCursorRow
}

// SetSelection replaces the active selection.
func (s *Screen) SetSelection(anchor, extent Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{Active: true, Anchor: anchor, Extent: extent}
}

// ClearSelection deactivates the selection.
func (s *Screen) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{}
}

// GetSelection returns the current selection.
func (s *Screen) GetSelection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// IsSelected reports whether (row, col) falls within the active selection.
func (s *Screen) IsSelected(row, col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selection.Active {
		return false
	}
	start, end := s.selection.normalized()
	p := Position{Row: row, Col: col}
	return !p.Before(start) && !end.Before(p)
}

// GetSelectedText extracts the text of the active selection, skipping
// wide-char spacer cells, resolving extended-character cells through the
// screen's table.
func (s *Screen) GetSelectedText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selection.Active {
		return ""
	}
	start, end := s.selection.normalized()
	var out []rune
	for row := start.Row; row <= end.Row && row < s.rows; row++ {
		colStart, colEnd := 0, s.cols
		if row == start.Row {
			colStart = start.Col
		}
		if row == end.Row {
			colEnd = end.Col + 1
		}
		for col := colStart; col < colEnd && col < s.cols; col++ {
			c := s.cells[row][col]
			if c.IsWideSpacer() {
				continue
			}
			out = append(out, s.resolveRunesLocked(c)...)
		}
		if row != end.Row {
			out = append(out, '\n')
		}
	}
	return string(out)
}

// resolveRunesLocked resolves a cell to its rune(s), following the
// ExtendedCharTable for composed cells. Caller must hold mu.
func (s *Screen) resolveRunesLocked(c Cell) []rune {
	if c.IsExtended() {
		if seq, ok := s.table.Lookup(c.Code); ok {
			return seq
		}
		return []rune{0xFFFD}
	}
	if c.Code == 0 {
		return []rune{' '}
	}
	return []rune{c.Code}
}

// LineContent returns the text of one grid row, trimmed of trailing
// spaces, wide-char spacers skipped, extended characters resolved.
func (s *Screen) LineContent(row int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineContentLocked(row)
}

func (s *Screen) lineContentLocked(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	lastNonSpace := -1
	for col := s.cols - 1; col >= 0; col-- {
		c := s.cells[row][col]
		if c.IsWideSpacer() {
			continue
		}
		if c.Code != ' ' && c.Code != 0 {
			lastNonSpace = col
			break
		}
	}
	if lastNonSpace < 0 {
		return ""
	}
	var out []rune
	for col := 0; col <= lastNonSpace; col++ {
		c := s.cells[row][col]
		if c.IsWideSpacer() {
			continue
		}
		out = append(out, s.resolveRunesLocked(c)...)
	}
	return string(out)
}

// UsedExtendedChars returns the set of RenditionExtended hashes currently
// referenced by any live cell in this screen's grid or (for the primary
// screen) its history. Consulted by ExtendedCharTable's cleanup sweep.
//
// Must never be called by a goroutine already holding this screen's mu
// (see Compose's comment on why ExtendedCharTable.Intern calls this with
// no screen lock held).
func (s *Screen) UsedExtendedChars() map[rune]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	used := make(map[rune]struct{})
	for _, row := range s.cells {
		for _, c := range row {
			if c.IsExtended() {
				used[c.Code] = struct{}{}
			}
		}
	}
	if s.history != nil {
		n := s.history.LineCount()
		var buf []Cell
		for i := 0; i < n; i++ {
			length := s.history.LineLength(i)
			if len(buf) < length {
				buf = make([]Cell, length)
			}
			m := s.history.ReadCells(i, 0, length, buf)
			for j := 0; j < m; j++ {
				if buf[j].IsExtended() {
					used[buf[j].Code] = struct{}{}
				}
			}
		}
	}
	return used
}

// SaveCursor snapshots cursor position, template, origin mode, and
// charset state for later restoration (DECSC-equivalent).
func (s *Screen) SaveCursor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = &SavedCursor{
		Row:          s.cursor.Row,
		Col:          s.cursor.Col,
		Template:     s.template,
		OriginMode:   s.hasModeLocked(ModeOrigin),
		CharsetIndex: s.charsetIdx,
		Charsets:     s.charsets,
	}
}

// RestoreCursor restores the last snapshot taken by SaveCursor, if any.
func (s *Screen) RestoreCursor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return
	}
	s.cursor.Row = s.saved.Row
	s.cursor.Col = s.saved.Col
	s.template = s.saved.Template
	s.setModeLocked(ModeOrigin, s.saved.OriginMode)
	s.charsetIdx = s.saved.CharsetIndex
	s.charsets = s.saved.Charsets
}

// History returns this screen's HistoryStore, or nil for the alternate
// screen.
func (s *Screen) History() HistoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history
}

// SetHistory replaces this screen's HistoryStore (the SetHistory
// supplemented feature, see SPEC_FULL.md).
func (s *Screen) SetHistory(h HistoryStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = h
}

// WriteLinesToStream passes the text of grid rows [startLine, endLine) to
// decoder, one call per line, for copy-out. decoder is a callback invoked
// with each line's resolved text; it stands in for whatever encodes the
// text further upstream (a real decoder/writer is the caller's concern,
// per spec.md §1's "pixel-level text display" boundary).
func (s *Screen) WriteLinesToStream(decoder func(line string), startLine, endLine int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if startLine < 0 {
		startLine = 0
	}
	if endLine > s.rows {
		endLine = s.rows
	}
	for row := startLine; row < endLine; row++ {
		decoder(s.lineContentLocked(row))
	}
}
