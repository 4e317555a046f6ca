package frame

import "github.com/vireo-tui/vireo/store"

// glyphSet is one border style's horizontal/vertical/corner runes (§6 border
// glyph table — honored exactly).
type glyphSet struct {
	H, V               rune
	TL, TR, BL, BR rune
}

var glyphTable = map[store.BorderStyleKind]glyphSet{
	store.BorderSingle:  {'─', '│', '┌', '┐', '└', '┘'},
	store.BorderDouble:  {'═', '║', '╔', '╗', '╚', '╝'},
	store.BorderRounded: {'─', '│', '╭', '╮', '╰', '╯'},
	store.BorderBold:    {'━', '┃', '┏', '┓', '┗', '┛'},
	store.BorderASCII:   {'-', '|', '+', '+', '+', '+'},
	// Dashed/dotted reuse the single-line glyph set for the straight runs;
	// the distinction is cosmetic at the ANSI layer this core does not model.
	store.BorderDashed: {'─', '│', '┌', '┐', '└', '┘'},
	store.BorderDotted: {'─', '│', '┌', '┐', '└', '┘'},
}
