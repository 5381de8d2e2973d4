package termcore

import (
	"bytes"
	"sync"
	"time"
	"unicode/utf8"
)

// EraseChar is the byte a backspace should echo, per the supplemented
// Emulation.eraseChar feature (original_source/lib/Emulation.cpp).
const EraseChar = 0x08

// zmodemMarker is the literal byte sequence Emulation scans raw input for,
// per spec.md §4.5.
var zmodemMarker = []byte{0x18, 'B', '0', '0'}

// State is one of the four coarse activity states Emulation reports via
// its stateSet signal (spec.md §6).
type State int

const (
	StateNormal State = iota
	StateActivity
	StateBell
	StateSilence
)

// TerminalModeFlags is a bitmask of the mouse/paste mode flags Emulation
// tracks, consulted by KeyboardTranslator/MouseTranslator (spec.md §3:
// "mouse-mode and bracketed-paste-mode flags").
type TerminalModeFlags uint16

const (
	ModeFlagApplicationCursorKeys TerminalModeFlags = 1 << iota
	ModeFlagApplicationKeypad
	ModeFlagMouseReporting
	ModeFlagBracketedPaste
)

// KeyEvent is one key press/release reported by the display layer.
type KeyEvent struct {
	// Text, if non-empty, is sent verbatim as UTF-8 bytes (spec.md §4.5:
	// "a key event with nonempty text produces the text's UTF-8 bytes as
	// output").
	Text    string
	Keycode int
	Mod     Modifier
}

// emulationConfig accumulates EmulationOption settings before the two
// Screens are constructed, since size and history must be known upfront.
type emulationConfig struct {
	lines, cols int
	history     HistoryStore
	table       *ExtendedCharTable
	bell        BellProvider
	title       TitleProvider
	response    ResponseProvider
	keyboard    KeyboardTranslator
	mouse       MouseTranslator
	t1, t2      time.Duration
}

// EmulationOption configures a new Emulation. Mirrors the teacher's
// functional-options constructor (terminal.go's Option func(*Terminal)).
type EmulationOption func(*emulationConfig)

// WithSize sets the initial grid dimensions (default 24x80).
func WithSize(lines, cols int) EmulationOption {
	return func(c *emulationConfig) { c.lines, c.cols = lines, cols }
}

// WithHistory sets the primary screen's HistoryStore (default
// HistoryNone).
func WithHistory(h HistoryStore) EmulationOption {
	return func(c *emulationConfig) { c.history = h }
}

// WithExtendedCharTable uses table instead of the process-wide singleton,
// per spec.md §9's "implementations should parameterize it to avoid
// hidden coupling between independent terminals."
func WithExtendedCharTable(table *ExtendedCharTable) EmulationOption {
	return func(c *emulationConfig) { c.table = table }
}

// WithBell installs a BellProvider (default NoopBell).
func WithBell(b BellProvider) EmulationOption {
	return func(c *emulationConfig) { c.bell = b }
}

// WithTitleProvider installs a TitleProvider (default NoopTitle).
func WithTitleProvider(t TitleProvider) EmulationOption {
	return func(c *emulationConfig) { c.title = t }
}

// WithResponse installs the ResponseProvider that SendKey/SendMouse write
// translated bytes to (default NoopResponse).
func WithResponse(r ResponseProvider) EmulationOption {
	return func(c *emulationConfig) { c.response = r }
}

// WithKeyboardTranslator installs a KeyboardTranslator (default
// NoopKeyboardTranslator).
func WithKeyboardTranslator(k KeyboardTranslator) EmulationOption {
	return func(c *emulationConfig) { c.keyboard = k }
}

// WithMouseTranslator installs a MouseTranslator (default
// NoopMouseTranslator).
func WithMouseTranslator(m MouseTranslator) EmulationOption {
	return func(c *emulationConfig) { c.mouse = m }
}

// WithCoalescingTimers overrides the two coalescing deadlines (defaults
// 10ms / 40ms, per spec.md §4.5).
func WithCoalescingTimers(t1, t2 time.Duration) EmulationOption {
	return func(c *emulationConfig) { c.t1, c.t2 = t1, t2 }
}

// Emulation owns exactly two Screens (primary, with history; alternate,
// without), dispatches decoded input to whichever is current, and
// publishes coalesced update notifications. Grounded on spec.md §4.5 and
// the teacher's Terminal (terminal.go): functional-options construction,
// a single mutex serializing embedder access, provider-interface
// boundaries for bell/title, and an io.Writer-shaped data-in entry point.
type Emulation struct {
	mu sync.Mutex

	screens [2]*Screen
	current int
	windows []*ScreenWindow
	table   *ExtendedCharTable

	decodeBuf []byte

	t1, t2     *time.Timer
	t1d, t2d   time.Duration
	scrolled   int
	dropped    int

	bell     BellProvider
	title    TitleProvider
	response ResponseProvider
	keyboard KeyboardTranslator
	mouse    MouseTranslator

	modeFlags  TerminalModeFlags
	titleText  string
	titleStack []string

	onStateSet                         func(State)
	onOutputChanged                    func()
	onImageSizeChanged                 func(lines, cols int)
	onProgramUsesMouseChanged          func(bool)
	onProgramBracketedPasteModeChanged func(bool)
	onCursorChanged                    func(style CursorStyle, blinking bool)
	onTitleChanged                     func(code int, text string)
	onZmodemDetected                   func()
}

// NewEmulation creates an Emulation with two screens of the configured
// size, the configured history strategy on the primary screen only, and
// no-op defaults for every provider/translator not supplied.
func NewEmulation(opts ...EmulationOption) *Emulation {
	cfg := &emulationConfig{
		lines: 24, cols: 80,
		table:    DefaultExtendedCharTable(),
		bell:     NoopBell{},
		title:    NoopTitle{},
		response: NoopResponse{},
		keyboard: NoopKeyboardTranslator{},
		mouse:    NoopMouseTranslator{},
		t1:       10 * time.Millisecond,
		t2:       40 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.history == nil {
		cfg.history = NewHistoryNone()
	}

	e := &Emulation{
		table:    cfg.table,
		bell:     cfg.bell,
		title:    cfg.title,
		response: cfg.response,
		keyboard: cfg.keyboard,
		mouse:    cfg.mouse,
		t1d:      cfg.t1,
		t2d:      cfg.t2,
	}
	e.screens[0] = NewScreen(cfg.lines, cfg.cols, cfg.history, cfg.table)
	e.screens[1] = NewScreen(cfg.lines, cfg.cols, nil, cfg.table)
	return e
}

// Current returns whichever screen is presently selected.
func (e *Emulation) Current() *Screen {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screens[e.current]
}

// SetScreen selects Primary (0) or Alternate (1). Idempotent. On a real
// transition, every ScreenWindow is rebound atomically, per spec.md
// §4.3/§4.6.
func (e *Emulation) SetScreen(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n != 0 && n != 1 {
		return
	}
	if n == e.current {
		return
	}
	e.current = n
	for _, w := range e.windows {
		w.rebind(e.screens[n])
	}
}

// IsAlternateScreen reports whether the alternate screen is current.
func (e *Emulation) IsAlternateScreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current == 1
}

// AddWindow creates a new ScreenWindow of the given viewport height bound
// to the current screen, owned by this Emulation.
func (e *Emulation) AddWindow(windowLines int) *ScreenWindow {
	e.mu.Lock()
	defer e.mu.Unlock()
	w := NewScreenWindow(e.screens[e.current], windowLines, e.table)
	e.windows = append(e.windows, w)
	return w
}

// RemoveWindow unregisters and drops w.
func (e *Emulation) RemoveWindow(w *ScreenWindow) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.windows {
		if existing == w {
			w.Close()
			e.windows = append(e.windows[:i], e.windows[i+1:]...)
			return
		}
	}
}

// Write implements io.Writer by forwarding to ReceiveData.
func (e *Emulation) Write(p []byte) (int, error) { return e.ReceiveData(p) }

// ReceiveData is the io.Writer-shaped data-in entry point (Write forwards
// to it): decodes data as UTF-8 (invalid
// sequences become U+FFFD), dispatches each code point to the current
// screen, scans the raw bytes for the zmodem marker, and arms the
// coalescing timers. Per spec.md §4.5/§6.
func (e *Emulation) ReceiveData(data []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if bytes.Contains(data, zmodemMarker) {
		if e.onZmodemDetected != nil {
			e.onZmodemDetected()
		}
	}

	e.setStateLocked(StateActivity)

	buf := data
	if len(e.decodeBuf) > 0 {
		buf = append(append([]byte{}, e.decodeBuf...), data...)
		e.decodeBuf = nil
	}

	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(buf) {
				// Incomplete trailing sequence: keep it for the next call.
				e.decodeBuf = append([]byte{}, buf...)
				break
			}
			e.receiveChar(utf8.RuneError)
			buf = buf[1:]
			continue
		}
		e.receiveChar(r)
		buf = buf[size:]
	}

	e.armCoalescing()
	return len(data), nil
}

// receiveChar dispatches one decoded code point. Grounded on
// original_source/lib/Emulation.cpp's receiveChar: a trivial switch over
// the handful of control bytes this core recognizes directly, falling
// through to Screen.DisplayCharacter for everything else (spec.md §4.5).
func (e *Emulation) receiveChar(cp rune) {
	screen := e.screens[e.current]
	switch cp {
	case 0x08:
		screen.Backspace()
	case 0x09:
		screen.Tab()
	case 0x0A:
		screen.NewLine()
		screen.ToStartOfLine()
	case 0x0D:
		screen.ToStartOfLine()
	case 0x07:
		e.bell.Ring()
		e.setStateLocked(StateBell)
	default:
		screen.DisplayCharacter(cp)
	}
}

// armCoalescing implements the fast-retry/guaranteed-flush scheme:
// T1 (10ms) always restarts; T2 (40ms) arms only if not already armed.
// Either firing invokes flush. Per spec.md §4.5.
func (e *Emulation) armCoalescing() {
	if e.t1 != nil {
		e.t1.Stop()
	}
	e.t1 = time.AfterFunc(e.t1d, e.flush)
	if e.t2 == nil {
		e.t2 = time.AfterFunc(e.t2d, e.flush)
	}
}

// flush is the timer callback: acquire the lock the timer goroutine
// doesn't already hold, then run the shared flush logic.
func (e *Emulation) flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushLocked()
}

// flushLocked stops both timers, emits outputChanged to every window and
// the onOutputChanged signal, and resets the per-frame counters. Caller
// must hold e.mu.
func (e *Emulation) flushLocked() {
	if e.t1 != nil {
		e.t1.Stop()
		e.t1 = nil
	}
	if e.t2 != nil {
		e.t2.Stop()
		e.t2 = nil
	}
	e.scrolled = 0
	e.dropped = 0
	e.setStateLocked(StateNormal)
	if e.onOutputChanged != nil {
		e.onOutputChanged()
	}
	for _, w := range e.windows {
		w.NotifyOutputChanged()
	}
}

// Flush forces an immediate coalesced notification, bypassing the
// timers. Exposed for callers (tests, or a caller driving its own event
// loop) that need a synchronous flush rather than waiting on T1/T2.
func (e *Emulation) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushLocked()
}

func (e *Emulation) setStateLocked(s State) {
	if e.onStateSet != nil {
		e.onStateSet(s)
	}
}

// Resize is the supplemented Emulation.SetImageSize entry point (see
// SPEC_FULL.md): resizes both screens, reclamps every window's scroll
// position, emits imageSizeChanged, and flushes immediately. Non-positive
// dimensions are silently ignored per spec.md §7.
func (e *Emulation) Resize(lines, cols int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if lines <= 0 || cols <= 0 {
		return
	}
	e.screens[0].ResizeImage(lines, cols)
	e.screens[1].ResizeImage(lines, cols)
	for _, w := range e.windows {
		w.SetScrollLine(w.ScrollLine())
	}
	if e.onImageSizeChanged != nil {
		e.onImageSizeChanged(lines, cols)
	}
	e.flushLocked()
}

// ImageSize returns the current grid dimensions of the primary screen.
func (e *Emulation) ImageSize() (lines, cols int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screens[0].Rows(), e.screens[0].Cols()
}

// LineCount is the supplemented Emulation.lineCount feature: live lines
// plus history lines on the primary screen.
func (e *Emulation) LineCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.screens[0]
	n := s.Rows()
	if h := s.History(); h != nil {
		n += h.LineCount()
	}
	return n
}

// SetHistoryStore is the supplemented Emulation.setHistory feature:
// swaps the primary screen's history strategy.
func (e *Emulation) SetHistoryStore(h HistoryStore) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.screens[0].SetHistory(h)
}

// ClearHistory is the supplemented Emulation.clearHistory feature.
func (e *Emulation) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h := e.screens[0].History(); h != nil {
		h.Clear()
	}
}

// HistoryStore is the supplemented Emulation.history feature.
func (e *Emulation) HistoryStore() HistoryStore {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screens[0].History()
}

// SetTitle sets the window title, notifying the TitleProvider and the
// titleChanged signal.
func (e *Emulation) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.titleText = title
	e.title.TitleChanged(title)
	if e.onTitleChanged != nil {
		e.onTitleChanged(0, title)
	}
}

// Title returns the current window title (supplemented feature).
func (e *Emulation) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.titleText
}

// PushTitle saves the current title onto the title stack (supplemented
// feature; see SPEC_FULL.md).
func (e *Emulation) PushTitle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.titleStack = append(e.titleStack, e.titleText)
}

// PopTitle restores the most recently pushed title, if any.
func (e *Emulation) PopTitle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.titleStack)
	if n == 0 {
		return
	}
	e.titleText = e.titleStack[n-1]
	e.titleStack = e.titleStack[:n-1]
	e.title.TitleChanged(e.titleText)
	if e.onTitleChanged != nil {
		e.onTitleChanged(0, e.titleText)
	}
}

// SetModeFlag sets or clears mouse/paste mode flags, firing the matching
// signal when the flag actually changes.
func (e *Emulation) SetModeFlag(flag TerminalModeFlags, on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	was := e.modeFlags&flag == flag
	if on {
		e.modeFlags |= flag
	} else {
		e.modeFlags &^= flag
	}
	if was == on {
		return
	}
	if flag&ModeFlagMouseReporting != 0 && e.onProgramUsesMouseChanged != nil {
		e.onProgramUsesMouseChanged(on)
	}
	if flag&ModeFlagBracketedPaste != 0 && e.onProgramBracketedPasteModeChanged != nil {
		e.onProgramBracketedPasteModeChanged(on)
	}
}

// HasModeFlag reports whether flag is currently set.
func (e *Emulation) HasModeFlag(flag TerminalModeFlags) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modeFlags&flag == flag
}

// SetCursorStyle updates the current screen's cursor style and fires the
// cursorChanged signal.
func (e *Emulation) SetCursorStyle(style CursorStyle, blinking bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.screens[e.current].SetCursorStyle(style)
	if e.onCursorChanged != nil {
		e.onCursorChanged(style, blinking)
	}
}

// TranslateKey produces the bytes a KeyEvent should send to the child,
// per spec.md §4.5: literal text wins; otherwise the KeyboardTranslator
// maps (keycode, modifier, mode flags).
func (e *Emulation) TranslateKey(ev KeyEvent) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ev.Text != "" {
		return []byte(ev.Text)
	}
	return e.keyboard.Translate(ev.Keycode, ev.Mod, e.modeFlags)
}

// SendKey translates ev and writes the result to the ResponseProvider.
func (e *Emulation) SendKey(ev KeyEvent) (int, error) {
	data := e.TranslateKey(ev)
	if len(data) == 0 {
		return 0, nil
	}
	return e.response.Write(data)
}

// TranslateMouse produces the bytes a MouseEvent should send to the
// child, only when mouse reporting has been requested (spec.md §4.5).
func (e *Emulation) TranslateMouse(ev MouseEvent) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.modeFlags&ModeFlagMouseReporting == 0 {
		return nil
	}
	return e.mouse.Translate(ev, e.modeFlags)
}

// SendMouse translates ev and writes the result to the ResponseProvider.
func (e *Emulation) SendMouse(ev MouseEvent) (int, error) {
	data := e.TranslateMouse(ev)
	if len(data) == 0 {
		return 0, nil
	}
	return e.response.Write(data)
}

// OnStateSet installs the stateSet signal handler.
func (e *Emulation) OnStateSet(fn func(State)) { e.onStateSet = fn }

// OnOutputChanged installs the outputChanged signal handler.
func (e *Emulation) OnOutputChanged(fn func()) { e.onOutputChanged = fn }

// OnImageSizeChanged installs the imageSizeChanged signal handler.
func (e *Emulation) OnImageSizeChanged(fn func(lines, cols int)) { e.onImageSizeChanged = fn }

// OnProgramUsesMouseChanged installs the programUsesMouseChanged signal handler.
func (e *Emulation) OnProgramUsesMouseChanged(fn func(bool)) { e.onProgramUsesMouseChanged = fn }

// OnProgramBracketedPasteModeChanged installs that signal's handler.
func (e *Emulation) OnProgramBracketedPasteModeChanged(fn func(bool)) {
	e.onProgramBracketedPasteModeChanged = fn
}

// OnCursorChanged installs the cursorChanged signal handler.
func (e *Emulation) OnCursorChanged(fn func(style CursorStyle, blinking bool)) {
	e.onCursorChanged = fn
}

// OnTitleChanged installs the titleChanged signal handler.
func (e *Emulation) OnTitleChanged(fn func(code int, text string)) { e.onTitleChanged = fn }

// OnZmodemDetected installs the zmodemDetected signal handler.
func (e *Emulation) OnZmodemDetected(fn func()) { e.onZmodemDetected = fn }

// Close stops the coalescing timers, unregisters every window, and
// releases the primary screen's history resources (temp files, slab
// pools).
func (e *Emulation) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.t1 != nil {
		e.t1.Stop()
	}
	if e.t2 != nil {
		e.t2.Stop()
	}
	for _, w := range e.windows {
		w.Close()
	}
	e.windows = nil
	if h := e.screens[0].History(); h != nil {
		return h.Close()
	}
	return nil
}
