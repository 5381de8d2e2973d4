package termcore

// CursorStyle determines how the cursor is rendered. Purely descriptive —
// the core never draws it, only carries it for a display layer to honor.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks the current position and rendering style (0-based coordinates).
type Cursor struct {
	Row     int
	Col     int
	Style   CursorStyle
	Visible bool
}

// NewCursor creates a cursor at (0, 0) with blinking block style, visible.
func NewCursor() *Cursor {
	return &Cursor{
		Row:     0,
		Col:     0,
		Style:   CursorStyleBlinkingBlock,
		Visible: true,
	}
}

// SavedCursor stores cursor position, cell template, and charset state for
// restoration by Screen.SaveCursor/RestoreCursor (DECSC/DECRC-equivalent).
type SavedCursor struct {
	Row          int
	Col          int
	Template     CellTemplate
	OriginMode   bool
	CharsetIndex CharsetIndex
	Charsets     [4]Charset
}

// CellTemplate carries the attributes applied to newly written cells.
// Modified by SGR-equivalent operations handed to Screen.
type CellTemplate struct {
	Cell
}

// NewCellTemplate returns a template with default attributes: a blank cell,
// no rendition bits, default colors.
func NewCellTemplate() CellTemplate {
	return CellTemplate{Cell: BlankCell}
}

// Charset selects the character encoding variant a G-set maps to.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
