package termcore

// HistoryNone discards everything. Grounded on original_source/lib/History.h's
// HistoryScrollNone and spec.md §4.2 "None" variant.
type HistoryNone struct{}

// NewHistoryNone returns the no-op history store.
func NewHistoryNone() *HistoryNone { return &HistoryNone{} }

func (h *HistoryNone) LineCount() int                              { return 0 }
func (h *HistoryNone) LineLength(i int) int                        { return 0 }
func (h *HistoryNone) ReadCells(i, col, count int, out []Cell) int { return 0 }
func (h *HistoryNone) IsWrapped(i int) bool                        { return false }
func (h *HistoryNone) AppendCells(cells []Cell)                    {}
func (h *HistoryNone) AppendLine(wrapped bool)                     {}
func (h *HistoryNone) HasScroll() bool                             { return false }
func (h *HistoryNone) MaxLines() int                               { return 0 }
func (h *HistoryNone) Clear()                                      {}
func (h *HistoryNone) Close() error                                { return nil }
