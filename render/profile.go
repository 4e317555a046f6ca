package render

import (
	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/term"
)

// degrade rewrites c to whatever the detected terminal profile can actually
// display (§6: "true color" / "256-palette" / defaults). Under ProfileAscii
// every color becomes the terminal default; otherwise sentinel colors
// (default, inherit, already-256) pass through unchanged.
func degrade(c store.Color, profile term.ColorProfile) store.Color {
	if profile == term.ProfileAscii {
		return store.DefaultColor()
	}
	if c.Kind != store.ColorRGBA {
		return c
	}
	switch profile {
	case term.ProfileTrueColor:
		return c
	case term.ProfileANSI256:
		return store.ANSI256(rgbTo256(c.R, c.G, c.B))
	case term.ProfileANSI:
		return store.ANSI256(rgbTo16(c.R, c.G, c.B))
	default:
		return c
	}
}

// rgbTo256 maps truecolor to the xterm 6x6x6 color cube (indices 16-231),
// the standard degrade path used across the terminal ecosystem.
func rgbTo256(r, g, b uint8) uint8 {
	cube := func(v uint8) uint8 {
		return uint8((int(v) * 5) / 255)
	}
	rc, gc, bc := cube(r), cube(g), cube(b)
	return 16 + 36*rc + 6*gc + bc
}

// rgbTo16 picks the nearest of the 16 standard ANSI colors by simple
// thresholding on each channel, matching low-fidelity terminal behavior.
func rgbTo16(r, g, b uint8) uint8 {
	bit := func(v uint8) uint8 {
		if v > 127 {
			return 1
		}
		return 0
	}
	idx := bit(r) | bit(g)<<1 | bit(b)<<2
	bright := uint8(0)
	if int(r)+int(g)+int(b) > 3*180 {
		bright = 8
	}
	return idx + bright
}
