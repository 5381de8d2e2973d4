package termcore

import "io"

// ResponseProvider writes translated input bytes back toward the child
// process (the sendData signal's sink, per spec.md §6). Typically an
// io.Writer connected to the pseudo-terminal master — the same role the
// teacher's ResponseProvider plays for cursor-position reports.
type ResponseProvider = io.Writer

// NoopResponse discards everything written to it.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (int, error) { return len(p), nil }

var _ ResponseProvider = NoopResponse{}

// BellProvider is notified when a BEL (0x07) byte is dispatched.
type BellProvider interface {
	Ring()
}

// NoopBell ignores bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// TitleProvider backs the supplemented title-stack feature
// (Emulation.PushTitle/PopTitle/Title, see SPEC_FULL.md). It is notified
// whenever the title changes; the escape-sequence parser this core
// consumes from is expected to call Emulation.SetTitle when it decodes an
// OSC title sequence.
type TitleProvider interface {
	TitleChanged(title string)
}

// NoopTitle ignores title-change notifications.
type NoopTitle struct{}

func (NoopTitle) TitleChanged(title string) {}

var (
	_ BellProvider  = NoopBell{}
	_ TitleProvider = NoopTitle{}
)

// Modifier is a bitmask of keyboard/mouse modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
	ModMeta
)

// KeyboardTranslator maps a key event without literal text (arrow keys,
// function keys, ...) to the byte sequence that should be sent to the
// child, given the current terminal mode flags (e.g. application-cursor
// mode). External collaborator per spec.md §4.5; loading a physical
// layout table is explicitly out of scope (spec.md §1).
type KeyboardTranslator interface {
	Translate(keycode int, mod Modifier, modes TerminalModeFlags) []byte
}

// NoopKeyboardTranslator translates nothing.
type NoopKeyboardTranslator struct{}

func (NoopKeyboardTranslator) Translate(keycode int, mod Modifier, modes TerminalModeFlags) []byte {
	return nil
}

// MouseEvent is one mouse action reported by the display layer.
type MouseEvent struct {
	Row, Col int
	Button   int
	Pressed  bool
	Mod      Modifier
}

// MouseTranslator maps a MouseEvent to the byte sequence sent to the
// child. Only consulted when the program has requested mouse reporting
// (spec.md §4.5).
type MouseTranslator interface {
	Translate(ev MouseEvent, modes TerminalModeFlags) []byte
}

// NoopMouseTranslator translates nothing.
type NoopMouseTranslator struct{}

func (NoopMouseTranslator) Translate(ev MouseEvent, modes TerminalModeFlags) []byte { return nil }

var (
	_ KeyboardTranslator = NoopKeyboardTranslator{}
	_ MouseTranslator    = NoopMouseTranslator{}
)
