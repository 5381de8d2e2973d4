package termcore

import "image/color"

// CellRendition is a bitmask of cell rendering attributes.
// Multiple bits may be set simultaneously.
type CellRendition uint16

const (
	RenditionBold CellRendition = 1 << iota
	RenditionDim
	RenditionItalic
	RenditionUnderline
	RenditionBlink
	RenditionReverse
	RenditionHidden
	RenditionStrike
	RenditionWideChar
	RenditionWideCharSpacer
	// RenditionExtended marks Code as a hash into the process-wide
	// ExtendedCharTable rather than a raw code point. Invariant: whenever
	// this bit is set, Code must be a currently-live key returned by
	// ExtendedCharTable.Intern.
	RenditionExtended
)

// ColorKind distinguishes how a CharacterColor should be resolved.
type ColorKind uint8

const (
	// ColorDefault means "use the screen's default foreground/background."
	ColorDefault ColorKind = iota
	// ColorIndexed resolves through a 256-entry palette.
	ColorIndexed
	// ColorDirect is a literal RGB triple, no palette lookup.
	ColorDirect
)

// CharacterColor is either an indexed palette entry or a direct RGB triple.
// It is a plain value (no pointers) so Cell stays comparable with ==.
type CharacterColor struct {
	Kind  ColorKind
	Index uint8 // meaningful when Kind == ColorIndexed
	RGB   color.RGBA
}

// DefaultColor returns the zero-value CharacterColor, meaning "screen default."
func DefaultColor() CharacterColor {
	return CharacterColor{Kind: ColorDefault}
}

// IndexedCharacterColor references palette entry idx (0-255).
func IndexedCharacterColor(idx uint8) CharacterColor {
	return CharacterColor{Kind: ColorIndexed, Index: idx}
}

// DirectCharacterColor is a literal 24-bit RGB color.
func DirectCharacterColor(rgb color.RGBA) CharacterColor {
	return CharacterColor{Kind: ColorDirect, RGB: rgb}
}

// Resolve converts the color to a concrete RGBA using the given palette,
// picking the matching default when Kind is ColorDefault.
func (c CharacterColor) Resolve(palette *Palette, fg bool) color.RGBA {
	switch c.Kind {
	case ColorIndexed:
		return palette.Entry(c.Index)
	case ColorDirect:
		return c.RGB
	default:
		if fg {
			return palette.Foreground
		}
		return palette.Background
	}
}

// Cell stores one styled grid position: a code point (or, when
// RenditionExtended is set, a hash into ExtendedCharTable), rendition bits,
// and foreground/background colors. Cell is POD and comparable with ==.
type Cell struct {
	Code       rune
	Rendition  CellRendition
	Foreground CharacterColor
	Background CharacterColor
}

// BlankCell is the default cell: a space with no attributes and default colors.
var BlankCell = Cell{Code: ' '}

// HasRendition reports whether all bits in mask are set.
func (c Cell) HasRendition(mask CellRendition) bool {
	return c.Rendition&mask == mask
}

// WithRendition returns a copy of c with the given bits set.
func (c Cell) WithRendition(mask CellRendition) Cell {
	c.Rendition |= mask
	return c
}

// WithoutRendition returns a copy of c with the given bits cleared.
func (c Cell) WithoutRendition(mask CellRendition) Cell {
	c.Rendition &^= mask
	return c
}

// IsWide reports whether this cell occupies two grid columns.
func (c Cell) IsWide() bool {
	return c.HasRendition(RenditionWideChar)
}

// IsWideSpacer reports whether this is the second, non-printing cell of a
// wide character (skip it when extracting text).
func (c Cell) IsWideSpacer() bool {
	return c.HasRendition(RenditionWideCharSpacer)
}

// IsExtended reports whether Code is an ExtendedCharTable hash rather than
// a raw code point.
func (c Cell) IsExtended() bool {
	return c.HasRendition(RenditionExtended)
}
