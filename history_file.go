package termcore

import (
	"encoding/binary"
	"os"
)

// cellRecordSize is the fixed on-disk width of one packed Character record:
// Code (int32) + Rendition (uint16) + Foreground{Kind,Index,RGBA} (6 bytes)
// + Background{Kind,Index,RGBA} (6 bytes).
const cellRecordSize = 18

func encodeCell(c Cell, out []byte) {
	binary.LittleEndian.PutUint32(out[0:4], uint32(c.Code))
	binary.LittleEndian.PutUint16(out[4:6], uint16(c.Rendition))
	out[6] = byte(c.Foreground.Kind)
	out[7] = c.Foreground.Index
	out[8] = c.Foreground.RGB.R
	out[9] = c.Foreground.RGB.G
	out[10] = c.Foreground.RGB.B
	out[11] = c.Foreground.RGB.A
	out[12] = byte(c.Background.Kind)
	out[13] = c.Background.Index
	out[14] = c.Background.RGB.R
	out[15] = c.Background.RGB.G
	out[16] = c.Background.RGB.B
	out[17] = c.Background.RGB.A
}

func decodeCell(in []byte) Cell {
	var c Cell
	c.Code = rune(binary.LittleEndian.Uint32(in[0:4]))
	c.Rendition = CellRendition(binary.LittleEndian.Uint16(in[4:6]))
	c.Foreground = CharacterColor{
		Kind:  ColorKind(in[6]),
		Index: in[7],
	}
	c.Foreground.RGB.R, c.Foreground.RGB.G, c.Foreground.RGB.B, c.Foreground.RGB.A = in[8], in[9], in[10], in[11]
	c.Background = CharacterColor{
		Kind:  ColorKind(in[12]),
		Index: in[13],
	}
	c.Background.RGB.R, c.Background.RGB.G, c.Background.RGB.B, c.Background.RGB.A = in[14], in[15], in[16], in[17]
	return c
}

// mapThreshold is the read/write balance hysteresis point at which a
// historyFile switches from positional reads to a read-through memory
// cache. Grounded on original_source/lib/History.h's MAP_THRESHOLD = -1000
// and spec.md §4.6/§4.2. There is no mmap library anywhere in the
// retrieval pack (see DESIGN.md); the cache below amortizes random reads
// the same way a real mmap would, which spec.md §9 explicitly licenses
// ("any implementation that amortizes random reads is acceptable").
const mapThreshold = -1000

// historyFile is one of the three append-only logical files backing
// HistoryFile (cells / index / lineflags). It tracks a read/write balance
// and flips between Unmapped (positional I/O) and Mapped (in-memory
// read-through cache) per spec.md §4.6.
type historyFile struct {
	f       *os.File
	size    int64
	balance int
	mapped  bool
	cache   []byte
}

func newHistoryFile() (*historyFile, error) {
	f, err := os.CreateTemp("", "termcore-history-*.tmp")
	if err != nil {
		return nil, err
	}
	return &historyFile{f: f}, nil
}

// add appends data, returning the offset it was written at. Writing while
// Mapped first transitions back to Unmapped (munmap) per spec.md §4.6.
func (hf *historyFile) add(data []byte) int64 {
	if hf.mapped {
		hf.mapped = false
		hf.cache = nil
		hf.balance = 0
	}
	offset := hf.size
	n, err := hf.f.WriteAt(data, offset)
	hf.size += int64(n)
	hf.balance++
	if err != nil {
		// Best-effort per spec.md §7: the error is dropped, size advances
		// only by the bytes actually written, and get zero-fills anything
		// it cannot read back.
		return offset
	}
	return offset
}

// get reads length bytes at offset, best-effort (a failed or short read
// returns a zero-filled buffer rather than an error, per spec.md §7).
func (hf *historyFile) get(offset int64, length int) []byte {
	hf.balance--
	if !hf.mapped && hf.balance <= mapThreshold {
		hf.mapped = true
		buf := make([]byte, hf.size)
		_, _ = hf.f.ReadAt(buf, 0)
		hf.cache = buf
	}

	out := make([]byte, length)
	if hf.mapped {
		end := offset + int64(length)
		if end > int64(len(hf.cache)) {
			end = int64(len(hf.cache))
		}
		if offset < end {
			copy(out, hf.cache[offset:end])
		}
		return out
	}
	_, _ = hf.f.ReadAt(out, offset)
	return out
}

func (hf *historyFile) reset() {
	_ = hf.f.Truncate(0)
	hf.size = 0
	hf.balance = 0
	hf.mapped = false
	hf.cache = nil
}

func (hf *historyFile) close() error {
	name := hf.f.Name()
	_ = hf.f.Close()
	return os.Remove(name)
}

// HistoryFile is the unbounded, file-backed HistoryStore variant: three
// temp files (cells, index, lineflags) as spec.md §4.2 and
// original_source/lib/History.h's HistoryScrollFile describe.
type HistoryFile struct {
	cells     *historyFile
	index     *historyFile
	lineflags *historyFile
	lineCount int

	pending []Cell
}

// NewHistoryFile creates the three temp files backing an unbounded history
// store. The files are deleted on Close.
func NewHistoryFile() (*HistoryFile, error) {
	cells, err := newHistoryFile()
	if err != nil {
		return nil, err
	}
	index, err := newHistoryFile()
	if err != nil {
		_ = cells.close()
		return nil, err
	}
	lineflags, err := newHistoryFile()
	if err != nil {
		_ = cells.close()
		_ = index.close()
		return nil, err
	}
	return &HistoryFile{cells: cells, index: index, lineflags: lineflags}, nil
}

func (h *HistoryFile) LineCount() int { return h.lineCount }

func (h *HistoryFile) lineStart(i int) int64 {
	raw := h.index.get(int64(i)*8, 8)
	return int64(binary.LittleEndian.Uint64(raw))
}

func (h *HistoryFile) lineEnd(i int) int64 {
	if i+1 < h.lineCount {
		return h.lineStart(i + 1)
	}
	return h.cells.size
}

func (h *HistoryFile) LineLength(i int) int {
	if i < 0 || i >= h.lineCount {
		return 0
	}
	return int(h.lineEnd(i)-h.lineStart(i)) / cellRecordSize
}

func (h *HistoryFile) ReadCells(i, col, count int, out []Cell) int {
	if i < 0 || i >= h.lineCount {
		return 0
	}
	lineLen := h.LineLength(i)
	if col < 0 || col >= lineLen {
		return 0
	}
	n := count
	if col+n > lineLen {
		n = lineLen - col
	}
	if n > len(out) {
		n = len(out)
	}
	if n <= 0 {
		return 0
	}
	start := h.lineStart(i) + int64(col)*cellRecordSize
	raw := h.cells.get(start, n*cellRecordSize)
	for j := 0; j < n; j++ {
		out[j] = decodeCell(raw[j*cellRecordSize : (j+1)*cellRecordSize])
	}
	return n
}

func (h *HistoryFile) IsWrapped(i int) bool {
	if i < 0 || i >= h.lineCount {
		return false
	}
	b := h.lineflags.get(int64(i), 1)
	return len(b) > 0 && b[0] != 0
}

func (h *HistoryFile) AppendCells(cells []Cell) {
	h.pending = append(h.pending, cells...)
}

func (h *HistoryFile) AppendLine(wrapped bool) {
	var offsetBuf [8]byte
	binary.LittleEndian.PutUint64(offsetBuf[:], uint64(h.cells.size))
	h.index.add(offsetBuf[:])

	buf := make([]byte, len(h.pending)*cellRecordSize)
	for i, c := range h.pending {
		encodeCell(c, buf[i*cellRecordSize:(i+1)*cellRecordSize])
	}
	h.cells.add(buf)

	flag := byte(0)
	if wrapped {
		flag = 1
	}
	h.lineflags.add([]byte{flag})

	h.pending = nil
	h.lineCount++
}

func (h *HistoryFile) HasScroll() bool { return true }
func (h *HistoryFile) MaxLines() int   { return 0 }

func (h *HistoryFile) Clear() {
	h.cells.reset()
	h.index.reset()
	h.lineflags.reset()
	h.lineCount = 0
	h.pending = nil
}

func (h *HistoryFile) Close() error {
	err1 := h.cells.close()
	err2 := h.index.close()
	err3 := h.lineflags.close()
	if err1 != nil {
		return err1
	}
	if err2 != nil {
		return err2
	}
	return err3
}
