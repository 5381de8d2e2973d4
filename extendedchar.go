package termcore

import "sync"

// extendedSequence is the owned buffer stored per interned hash: the
// code points of one grapheme cluster.
type extendedSequence []rune

// windowLivenessSource is implemented by ScreenWindow so ExtendedCharTable
// can enumerate, without owning, every window currently referencing a
// screen's cells. Grounded on the original's ExtendedCharTable keeping a
// registry of live windows for its cleanup sweep
// (original_source/lib/Emulation.cpp, createExtendedChar).
type windowLivenessSource interface {
	usedExtendedChars() map[rune]struct{}
}

// ExtendedCharTable interns multi-codepoint grapheme clusters (base
// character plus combining marks, or any other multi-rune sequence) into a
// single 32-bit handle that fits in Cell.Code. It is designed to survive
// for the life of the process: hashes embedded in on-grid or history cells
// must remain resolvable until a cleanup sweep proves they are no longer
// referenced anywhere.
//
// Every method takes the table's own mutex, so concurrent calls do not
// corrupt its maps. Intern keeps that mutex held while a cleanup sweep
// calls into every registered window's screen.
type ExtendedCharTable struct {
	mu             sync.Mutex
	entries        map[rune]extendedSequence
	windows        map[windowLivenessSource]struct{}
	exhaustedCount int
}

// globalExtendedCharTable is the process-wide singleton. Per spec.md §9's
// own design note, it is a convenience, not a requirement — NewExtendedCharTable
// lets an embedder parameterize a private table per Emulation instead.
var globalExtendedCharTable = NewExtendedCharTable()

// DefaultExtendedCharTable returns the process-wide singleton table.
func DefaultExtendedCharTable() *ExtendedCharTable {
	return globalExtendedCharTable
}

// NewExtendedCharTable creates an empty, independent table. Most embedders
// should use DefaultExtendedCharTable unless they specifically want to
// avoid hidden coupling between independent terminals.
func NewExtendedCharTable() *ExtendedCharTable {
	return &ExtendedCharTable{
		entries: make(map[rune]extendedSequence),
		windows: make(map[windowLivenessSource]struct{}),
	}
}

// registerWindow adds w to the set consulted during a cleanup sweep.
func (t *ExtendedCharTable) registerWindow(w windowLivenessSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.windows[w] = struct{}{}
}

// unregisterWindow removes w from the cleanup-sweep set.
func (t *ExtendedCharTable) unregisterWindow(w windowLivenessSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.windows, w)
}

// ExhaustionCount returns how many times Intern has had to give up on a
// sequence (second wraparound within one call) and return the sentinel 0.
// This is the countable-event substitute for the "logged once" failure
// spec.md §7 describes; the embedder decides whether and how to surface it.
func (t *ExtendedCharTable) ExhaustionCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exhaustedCount
}

// rollingHash computes the seed hash for a sequence: h = 31*h + cp, seeded
// at 0, per spec.md §4.1.
func rollingHash(seq []rune) rune {
	var h int64
	for _, cp := range seq {
		h = 31*h + int64(cp)
	}
	return rune(uint32(h))
}

// Intern returns a stable nonzero key for seq such that a subsequent Lookup
// with that key yields the same sequence. The same input returns the same
// key within one run unless a cleanup pass removed it and it was then
// reinterned fresh (still yielding the same hash, since hashing is
// deterministic — only the stored buffer identity changes).
//
// seq must be non-empty; callers never invoke Intern with length 0.
func (t *ExtendedCharTable) Intern(seq []rune) rune {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := rollingHash(seq)
	start := h
	wrapped := 0

	for {
		if h == 0 {
			h++
			if h == start {
				wrapped++
				if wrapped >= 2 {
					t.exhaustedCount++
					return 0
				}
				t.cleanupLocked()
			}
			continue
		}

		existing, ok := t.entries[h]
		if !ok {
			t.entries[h] = append(extendedSequence{}, seq...)
			return h
		}
		if sequencesEqual(existing, seq) {
			return h
		}

		h++
		if h == start {
			wrapped++
			if wrapped == 1 {
				t.cleanupLocked()
				continue
			}
			t.exhaustedCount++
			return 0
		}
	}
}

// cleanupLocked collects the union of usedExtendedChars() across every
// registered window and drops every table entry not in that union. Caller
// must hold t.mu.
func (t *ExtendedCharTable) cleanupLocked() {
	live := make(map[rune]struct{})
	for w := range t.windows {
		for h := range w.usedExtendedChars() {
			live[h] = struct{}{}
		}
	}
	for h := range t.entries {
		if _, ok := live[h]; !ok {
			delete(t.entries, h)
		}
	}
}

// Lookup returns the interned sequence for hash, or nil with ok=false if
// the hash is absent (evicted by cleanup, or never interned).
func (t *ExtendedCharTable) Lookup(hash rune) (seq []rune, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, present := t.entries[hash]
	if !present {
		return nil, false
	}
	return append([]rune{}, s...), true
}

func sequencesEqual(a extendedSequence, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
