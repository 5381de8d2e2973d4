package termcore

import "encoding/binary"

// compactBlockSize is the slab size backing compact history lines: 256 KB,
// per original_source/lib/History.h's CompactHistoryBlock (4096*64 bytes).
const compactBlockSize = 4096 * 64

// formatRecordSize is the packed width of one CharacterFormat run record:
// StartCol (int32) + Fg{Kind,Index,RGBA} (6) + Bg{Kind,Index,RGBA} (6) +
// Rendition (uint16).
const formatRecordSize = 18

// compactHistoryBlock is one fixed-size slab. Lines carve byte ranges out
// of it for their packed text and format arrays; a block is eligible for
// reuse once every line referencing it has been evicted (allocCount == 0).
type compactHistoryBlock struct {
	data       []byte
	used       int
	allocCount int
}

func newCompactHistoryBlock(size int) *compactHistoryBlock {
	return &compactHistoryBlock{data: make([]byte, size)}
}

func (b *compactHistoryBlock) remaining() int { return len(b.data) - b.used }

func (b *compactHistoryBlock) allocate(n int) []byte {
	s := b.data[b.used : b.used+n]
	b.used += n
	b.allocCount++
	return s
}

func (b *compactHistoryBlock) deallocate() {
	b.allocCount--
	if b.allocCount <= 0 {
		b.used = 0
		b.allocCount = 0
	}
}

// compactHistoryBlockList is the pool: a list of blocks, oversized
// allocations get a dedicated block of exactly their size (the original's
// handling of a line too large for one 256KB slab).
type compactHistoryBlockList struct {
	blocks []*compactHistoryBlock
}

func (l *compactHistoryBlockList) allocate(n int) (*compactHistoryBlock, []byte) {
	if n == 0 {
		return nil, nil
	}
	if n > compactBlockSize {
		blk := newCompactHistoryBlock(n)
		l.blocks = append(l.blocks, blk)
		return blk, blk.allocate(n)
	}
	for _, blk := range l.blocks {
		if blk.remaining() >= n {
			return blk, blk.allocate(n)
		}
	}
	blk := newCompactHistoryBlock(compactBlockSize)
	l.blocks = append(l.blocks, blk)
	return blk, blk.allocate(n)
}

// compactHistoryLine is one stored line: a packed 16-bit code-point array
// (BMP assumption; see overflow below) plus a run-length format list.
// Grounded on original_source/lib/History.h's CompactHistoryLine.
type compactHistoryLine struct {
	cellCount   int
	textBlock   *compactHistoryBlock
	text        []byte // cellCount*2 bytes, little-endian uint16 per cell
	formatBlock *compactHistoryBlock
	formats     []byte // len(formats)/formatRecordSize records
	// overflow holds, by column, the full rune for any cell whose code
	// point does not fit in 16 bits (an ExtendedCharTable hash, or a
	// supplementary-plane code point never interned). text[col] holds the
	// sentinel 0xFFFF for these columns. This is the "higher planes
	// require the extended-char path" carve-out spec.md §4.2 calls for;
	// kept as a plain map rather than slab-pooled since it is expected to
	// be rare and small.
	overflow map[int]rune
	wrapped  bool
}

const compactTextOverflowSentinel = 0xFFFF

// HistoryCompact is the in-memory, slab-pooled HistoryStore variant.
// Bounded by maxLines; eviction drops the oldest line and returns its
// slab regions to the pool.
type HistoryCompact struct {
	maxLines int
	lines    []*compactHistoryLine
	pool     compactHistoryBlockList

	pendingCells []Cell
}

// NewHistoryCompact creates a compact history store bounded at maxLines
// lines (clamped to at least 1).
func NewHistoryCompact(maxLines int) *HistoryCompact {
	if maxLines <= 0 {
		maxLines = 1
	}
	return &HistoryCompact{maxLines: maxLines}
}

func (h *HistoryCompact) LineCount() int { return len(h.lines) }

func (h *HistoryCompact) LineLength(i int) int {
	if i < 0 || i >= len(h.lines) {
		return 0
	}
	return h.lines[i].cellCount
}

func (h *HistoryCompact) ReadCells(i, col, count int, out []Cell) int {
	if i < 0 || i >= len(h.lines) {
		return 0
	}
	line := h.lines[i]
	if col < 0 || col >= line.cellCount {
		return 0
	}
	n := count
	if col+n > line.cellCount {
		n = line.cellCount - col
	}
	if n > len(out) {
		n = len(out)
	}
	if n <= 0 {
		return 0
	}

	// Locate the format record in effect at the first requested column,
	// then walk forward, switching records as their startCol is crossed.
	fmtIdx := 0
	numFormats := len(line.formats) / formatRecordSize
	for fmtIdx+1 < numFormats {
		next := decodeFormatRecord(line.formats[(fmtIdx+1)*formatRecordSize : (fmtIdx+2)*formatRecordSize])
		if next.StartCol > col {
			break
		}
		fmtIdx++
	}

	for j := 0; j < n; j++ {
		c := col + j
		for fmtIdx+1 < numFormats {
			next := decodeFormatRecord(line.formats[(fmtIdx+1)*formatRecordSize : (fmtIdx+2)*formatRecordSize])
			if next.StartCol > c {
				break
			}
			fmtIdx++
		}
		var cell Cell
		if r, ok := line.overflow[c]; ok {
			cell.Code = r
		} else {
			cell.Code = rune(binary.LittleEndian.Uint16(line.text[c*2 : c*2+2]))
		}
		if numFormats > 0 {
			f := decodeFormatRecord(line.formats[fmtIdx*formatRecordSize : (fmtIdx+1)*formatRecordSize])
			cell.Foreground = f.Fg
			cell.Background = f.Bg
			cell.Rendition |= f.Rendition
		}
		out[j] = cell
	}
	return n
}

func (h *HistoryCompact) IsWrapped(i int) bool {
	if i < 0 || i >= len(h.lines) {
		return false
	}
	return h.lines[i].wrapped
}

func (h *HistoryCompact) AppendCells(cells []Cell) {
	h.pendingCells = append(h.pendingCells, cells...)
}

func (h *HistoryCompact) AppendLine(wrapped bool) {
	cells := h.pendingCells
	h.pendingCells = nil

	line := &compactHistoryLine{cellCount: len(cells), wrapped: wrapped}

	if len(cells) > 0 {
		line.overflow = make(map[int]rune)
		blk, buf := h.pool.allocate(len(cells) * 2)
		line.textBlock = blk
		line.text = buf
		for i, c := range cells {
			code := c.Code
			if code < 0 || code > 0xFFFE {
				line.overflow[i] = code
				binary.LittleEndian.PutUint16(buf[i*2:i*2+2], compactTextOverflowSentinel)
			} else {
				binary.LittleEndian.PutUint16(buf[i*2:i*2+2], uint16(code))
			}
		}

		var records []CharacterFormat
		for i, c := range cells {
			if i == 0 || !records[len(records)-1].equalsFormat(c) {
				records = append(records, formatFromCell(i, c))
			}
		}
		if len(records) > 0 {
			fblk, fbuf := h.pool.allocate(len(records) * formatRecordSize)
			line.formatBlock = fblk
			line.formats = fbuf
			for i, r := range records {
				encodeFormatRecord(r, fbuf[i*formatRecordSize:(i+1)*formatRecordSize])
			}
		}
	}

	h.lines = append(h.lines, line)
	if len(h.lines) > h.maxLines {
		h.evictOldest()
	}
}

func (h *HistoryCompact) evictOldest() {
	oldest := h.lines[0]
	h.lines = h.lines[1:]
	if oldest.textBlock != nil {
		oldest.textBlock.deallocate()
	}
	if oldest.formatBlock != nil {
		oldest.formatBlock.deallocate()
	}
}

func (h *HistoryCompact) HasScroll() bool { return true }
func (h *HistoryCompact) MaxLines() int   { return h.maxLines }

func (h *HistoryCompact) Clear() {
	for len(h.lines) > 0 {
		h.evictOldest()
	}
	h.pendingCells = nil
}

func (h *HistoryCompact) Close() error { return nil }

func encodeFormatRecord(f CharacterFormat, out []byte) {
	binary.LittleEndian.PutUint32(out[0:4], uint32(int32(f.StartCol)))
	out[4] = byte(f.Fg.Kind)
	out[5] = f.Fg.Index
	out[6], out[7], out[8], out[9] = f.Fg.RGB.R, f.Fg.RGB.G, f.Fg.RGB.B, f.Fg.RGB.A
	out[10] = byte(f.Bg.Kind)
	out[11] = f.Bg.Index
	out[12], out[13], out[14], out[15] = f.Bg.RGB.R, f.Bg.RGB.G, f.Bg.RGB.B, f.Bg.RGB.A
	binary.LittleEndian.PutUint16(out[16:18], uint16(f.Rendition))
}

func decodeFormatRecord(in []byte) CharacterFormat {
	var f CharacterFormat
	f.StartCol = int(int32(binary.LittleEndian.Uint32(in[0:4])))
	f.Fg.Kind = ColorKind(in[4])
	f.Fg.Index = in[5]
	f.Fg.RGB.R, f.Fg.RGB.G, f.Fg.RGB.B, f.Fg.RGB.A = in[6], in[7], in[8], in[9]
	f.Bg.Kind = ColorKind(in[10])
	f.Bg.Index = in[11]
	f.Bg.RGB.R, f.Bg.RGB.G, f.Bg.RGB.B, f.Bg.RGB.A = in[12], in[13], in[14], in[15]
	f.Rendition = CellRendition(binary.LittleEndian.Uint16(in[16:18]))
	return f
}
