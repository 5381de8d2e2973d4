package termcore

import "fmt"

// SnapshotDetail controls how much detail Screen.Snapshot includes.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot is a point-in-time, JSON-serializable capture of a Screen. It
// exists for debugging and test tooling — embedders that need a live view
// should use ScreenWindow instead.
type Snapshot struct {
	Size   SnapshotSize   `json:"size"`
	Cursor SnapshotCursor `json:"cursor"`
	Lines  []SnapshotLine `json:"lines"`
}

// SnapshotSize holds screen dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Visible bool   `json:"visible"`
	Style   string `json:"style"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Wrapped  bool              `json:"wrapped,omitempty"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment is a run of cells sharing the same rendition and colors.
type SnapshotSegment struct {
	Text       string        `json:"text"`
	Fg         string        `json:"fg,omitempty"`
	Bg         string        `json:"bg,omitempty"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
}

// SnapshotCell is one cell with full attributes.
type SnapshotCell struct {
	Char       string        `json:"char"`
	Fg         string        `json:"fg"`
	Bg         string        `json:"bg"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Wide       bool          `json:"wide,omitempty"`
	WideSpacer bool          `json:"wide_spacer,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

func cursorStyleToString(s CursorStyle) string {
	switch s {
	case CursorStyleBlinkingBlock:
		return "blinking_block"
	case CursorStyleSteadyBlock:
		return "steady_block"
	case CursorStyleBlinkingUnderline:
		return "blinking_underline"
	case CursorStyleSteadyUnderline:
		return "steady_underline"
	case CursorStyleBlinkingBar:
		return "blinking_bar"
	case CursorStyleSteadyBar:
		return "steady_bar"
	default:
		return "blinking_block"
	}
}

func attrsFromRendition(r CellRendition) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          r&RenditionBold != 0,
		Dim:           r&RenditionDim != 0,
		Italic:        r&RenditionItalic != 0,
		Underline:     r&RenditionUnderline != 0,
		Blink:         r&RenditionBlink != 0,
		Reverse:       r&RenditionReverse != 0,
		Hidden:        r&RenditionHidden != 0,
		Strikethrough: r&RenditionStrike != 0,
	}
}

func colorToString(c CharacterColor) string {
	switch c.Kind {
	case ColorIndexed:
		return fmt.Sprintf("idx:%d", c.Index)
	case ColorDirect:
		return fmt.Sprintf("#%02x%02x%02x", c.RGB.R, c.RGB.G, c.RGB.B)
	default:
		return ""
	}
}

// Snapshot captures the screen's current state at the requested detail
// level. Extended (composed) code points are resolved back to their full
// rune sequence via table.
func (s *Screen) Snapshot(detail SnapshotDetail, table *ExtendedCharTable) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		Size: SnapshotSize{Rows: s.rows, Cols: s.cols},
		Cursor: SnapshotCursor{
			Row:     s.cursor.Row,
			Col:     s.cursor.Col,
			Visible: s.cursor.Visible,
			Style:   cursorStyleToString(s.cursor.Style),
		},
		Lines: make([]SnapshotLine, s.rows),
	}

	for row := 0; row < s.rows; row++ {
		snap.Lines[row] = s.snapshotLineLocked(row, detail, table)
	}
	return snap
}

func (s *Screen) snapshotLineLocked(row int, detail SnapshotDetail, table *ExtendedCharTable) SnapshotLine {
	line := SnapshotLine{Wrapped: s.wrapped[row]}

	// Text and Segments omit trailing default blank cells; Cells keeps all.
	trimmed := s.cells[row]
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] == BlankCell {
		trimmed = trimmed[:len(trimmed)-1]
	}

	var text []rune
	for _, c := range trimmed {
		if c.IsWideSpacer() {
			continue
		}
		text = append(text, resolveCellRunes(c, table)...)
	}
	line.Text = string(text)

	switch detail {
	case SnapshotDetailFull:
		line.Cells = make([]SnapshotCell, 0, s.cols)
		for _, c := range s.cells[row] {
			line.Cells = append(line.Cells, SnapshotCell{
				Char:       string(resolveCellRunes(c, table)),
				Fg:         colorToString(c.Foreground),
				Bg:         colorToString(c.Background),
				Attributes: attrsFromRendition(c.Rendition),
				Wide:       c.IsWide(),
				WideSpacer: c.IsWideSpacer(),
			})
		}
	case SnapshotDetailStyled:
		line.Segments = segmentRow(trimmed, table)
	}
	return line
}

func resolveCellRunes(c Cell, table *ExtendedCharTable) []rune {
	if c.IsExtended() && table != nil {
		if seq, ok := table.Lookup(c.Code); ok {
			return seq
		}
	}
	if c.Code == 0 {
		return nil
	}
	return []rune{c.Code}
}

func segmentRow(cells []Cell, table *ExtendedCharTable) []SnapshotSegment {
	var segs []SnapshotSegment
	var cur *SnapshotSegment
	for _, c := range cells {
		if c.IsWideSpacer() {
			continue
		}
		fg, bg, attrs := colorToString(c.Foreground), colorToString(c.Background), attrsFromRendition(c.Rendition)
		if cur != nil && cur.Fg == fg && cur.Bg == bg && cur.Attributes == attrs {
			cur.Text += string(resolveCellRunes(c, table))
			continue
		}
		segs = append(segs, SnapshotSegment{
			Text:       string(resolveCellRunes(c, table)),
			Fg:         fg,
			Bg:         bg,
			Attributes: attrs,
		})
		cur = &segs[len(segs)-1]
	}
	return segs
}
