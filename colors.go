package termcore

import "image/color"

// Palette resolves CharacterColor values to concrete RGBA. Grounded on the
// teacher's colors.go: a 256-entry ANSI/xterm table plus named defaults,
// generated once instead of hand-listed for the cube/grayscale ranges.
type Palette struct {
	entries    [256]color.RGBA
	Foreground color.RGBA
	Background color.RGBA
	Cursor     color.RGBA
}

// NewDefaultPalette builds a 256-color table in the xterm layout: 16 named
// colors (0-15), a 6x6x6 color cube (16-231) with evenly spaced levels
// 0, 51, ..., 255, and a 24-step grayscale ramp (232-255).
func NewDefaultPalette() *Palette {
	p := &Palette{
		Foreground: color.RGBA{229, 229, 229, 255},
		Background: color.RGBA{0, 0, 0, 255},
		Cursor:     color.RGBA{229, 229, 229, 255},
	}

	standard := [16]color.RGBA{
		{0, 0, 0, 255}, {205, 49, 49, 255}, {13, 188, 121, 255}, {229, 229, 16, 255},
		{36, 114, 200, 255}, {188, 63, 188, 255}, {17, 168, 205, 255}, {229, 229, 229, 255},
		{102, 102, 102, 255}, {241, 76, 76, 255}, {35, 209, 139, 255}, {245, 245, 67, 255},
		{59, 142, 234, 255}, {214, 112, 214, 255}, {41, 184, 219, 255}, {255, 255, 255, 255},
	}
	copy(p.entries[:16], standard[:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p.entries[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		p.entries[232+j] = color.RGBA{gray, gray, gray, 255}
	}

	return p
}

// Entry returns the RGBA value at the given palette index.
func (p *Palette) Entry(index uint8) color.RGBA {
	return p.entries[index]
}

// SetEntry overrides a single palette slot, for embedders that load a
// custom color scheme (out of scope here; this is the hook they use).
func (p *Palette) SetEntry(index uint8, rgb color.RGBA) {
	p.entries[index] = rgb
}
