// Package termcore implements the core model of a headless terminal
// emulator: the cell grid, scrollback, and dispatch/coalescing logic,
// deliberately stopping short of parsing escape sequences. A caller wires
// its own escape-sequence decoder (or a raw control-character stream, as
// [Emulation.ReceiveData] itself understands) to the operations exposed
// here.
//
// # Architecture
//
//   - [Cell]: one styled grid position — a code point (or an
//     [ExtendedCharTable] hash), rendition bits, and colors.
//   - [ExtendedCharTable]: interns composed character sequences (base
//     rune plus combining marks) that don't fit in a single Cell.Code.
//   - [HistoryStore]: pluggable scrollback storage — [HistoryNone],
//     [HistoryBounded], [HistoryFile], [HistoryCompact].
//   - [Screen]: the live grid plus cursor, scroll region, selection, and
//     (for the primary screen) its HistoryStore.
//   - [ScreenWindow]: a scrollable view onto a Screen's live rows plus
//     however much of its history is in range.
//   - [Emulation]: owns the primary/alternate Screen pair, dispatches
//     incoming bytes, and coalesces output-changed notifications.
//
// # Quick Start
//
//	emu := termcore.NewEmulation(
//	    termcore.WithSize(24, 80),
//	    termcore.WithHistory(termcore.NewHistoryBounded(10000)),
//	)
//	defer emu.Close()
//
//	emu.ReceiveData([]byte("hello\n"))
//	emu.Flush()
//	fmt.Println(emu.Current().LineContent(0)) // "hello"
//
// # Dual Screens
//
// Emulation holds a primary screen (with scrollback) and an alternate
// screen (without, per real terminal behavior). [Emulation.SetScreen]
// switches between them and rebinds every registered [ScreenWindow]
// atomically:
//
//	emu.SetScreen(1) // alternate screen, e.g. a full-screen app took over
//	if emu.IsAlternateScreen() { ... }
//
// # History
//
// HistoryStore is an interface; pick the implementation that matches the
// memory/latency tradeoff you want:
//
//	termcore.NewHistoryStore(termcore.HistoryKindBounded, 5000)  // ring buffer in memory
//	termcore.NewHistoryStore(termcore.HistoryKindFile, 0)        // spooled to a temp file
//	termcore.NewHistoryStore(termcore.HistoryKindCompact, 5000)  // packed slab allocator
//	termcore.NewHistoryStore(termcore.HistoryKindNone, 0)        // no scrollback at all
//
// # Extended Characters
//
// A Cell.Code normally holds one rune. When a base character combines
// with one or more non-spacing marks, [Screen.Compose] interns the full
// sequence into an [ExtendedCharTable] and rewrites the cell to carry the
// resulting hash with [RenditionExtended] set. [ExtendedCharTable.Lookup]
// resolves a hash back to its rune sequence; cleanup sweeps run
// automatically as the table's 32-bit hash space fills.
//
// # Windows
//
// [Emulation.AddWindow] returns a [ScreenWindow] bound to the Emulation's
// current screen, tracking a scroll position into however much history
// is behind it:
//
//	w := emu.AddWindow(24)
//	w.OnChanged(func() { redraw(w) })
//	line := w.Line(0) // []Cell for the topmost visible row
//
// # Providers
//
// Optional collaborators, each with a no-op default:
//
//   - [BellProvider]: notified on BEL.
//   - [TitleProvider]: notified when the window title changes.
//   - [ResponseProvider]: an [io.Writer] translated key/mouse events are
//     written to (typically the PTY master).
//   - [KeyboardTranslator] / [MouseTranslator]: map key and mouse events
//     to the byte sequences a program expects, given the current
//     [TerminalModeFlags].
//
// # Signals
//
// Emulation exposes setter methods for UI-facing callbacks —
// [Emulation.OnOutputChanged], [Emulation.OnStateSet],
// [Emulation.OnImageSizeChanged], [Emulation.OnCursorChanged],
// [Emulation.OnTitleChanged], [Emulation.OnZmodemDetected], and the
// mouse/paste mode-change signals — mirroring the notify-on-coalesced-
// flush model of a real terminal emulation core.
//
// # Thread Safety
//
// Emulation and Screen methods lock an internal mutex and are safe for
// concurrent use from multiple goroutines, except Emulation's On* signal
// setters, which store the handler without locking. Callers needing several
// operations to appear atomic to a window's view should perform them
// while holding no other lock, then let Emulation's own locking serialize
// against it.
package termcore
