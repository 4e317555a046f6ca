// Package frame implements the frame buffer builder (§4.D): a tree walk from
// each layout root producing a row-major cell grid and a parallel hit grid,
// applying clipping, scroll offsets, color inheritance, and border/text
// content painting.
package frame

import "github.com/vireo-tui/vireo/store"

// Cell is one terminal character position (§4.D, GLOSSARY): codepoint plus
// resolved foreground/background color and attribute bitset. A wide
// character's trailing cell carries Rune 0 and must be skipped by the
// emitter (§8 property 10).
type Cell struct {
	Rune  rune
	Width int // display width of Rune: 0 (trailing half of a wide cell), 1, or 2
	FG    store.Color
	BG    store.Color
	Attrs store.TextAttrs
}

// Empty is the cleared-cell value: a space on terminal-default colors.
func Empty() Cell {
	return Cell{Rune: ' ', Width: 1, FG: store.DefaultColor(), BG: store.DefaultColor()}
}
