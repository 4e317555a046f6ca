package frame

import (
	"sort"

	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/text"
)

// Build walks every root's layout tree and produces the cell grid + hit grid
// for the current frame (§4.D). focused is the currently focused entity (or
// store.Nil); it selects the focus border color and decides whether to
// overlay the input cursor.
func Build(st *store.Store, roots []store.Entity, width, height int, focused store.Entity) *Grid {
	g := Acquire(width, height)
	fullClip := Rect{X: 0, Y: 0, W: width, H: height}
	for _, root := range roots {
		if !st.IsLive(root) || !st.Visible.Get(root) {
			continue
		}
		p := &painter{st: st, grid: g, focused: focused}
		p.paint(root, fullClip, 0, 0, store.DefaultColor(), store.DefaultColor(), 1.0)
	}
	return g
}

type painter struct {
	st      *store.Store
	grid    *Grid
	focused store.Entity
}

// paint implements the per-entity algorithm of §4.D steps 1-9. The
// (parentClip, scrollX, scrollY, parentBG) tuple is exactly the explicit
// frame the design notes call for in place of implicit closure capture (§9).
func (p *painter) paint(e store.Entity, parentClip Rect, scrollX, scrollY float64, parentFG, parentBG store.Color, parentOpacity float64) {
	st := p.st
	if !st.IsLive(e) || !st.Visible.Get(e) { // step 1
		return
	}
	st.EnsureComputedCapacity(e)
	x := int(st.OutX[e] - scrollX)
	y := int(st.OutY[e] - scrollY) // step 2
	w := int(st.OutWidth[e])
	h := int(st.OutHeight[e])
	rect := Rect{X: x, Y: y, W: w, H: h}
	clip := rect.Intersect(parentClip) // step 3
	if clip.Empty() {
		return
	}

	opacity := parentOpacity * st.Opacity.Get(e)
	fg := effectiveColor(st.Foreground.Get(e), parentFG, opacity) // step 4
	bg := effectiveColor(st.Background.Get(e), parentBG, opacity)

	attrs := store.TextAttrs(0)
	if st.Kind.Get(e) == store.KindText || st.Kind.Get(e) == store.KindInput {
		attrs = st.Attrs.Get(e)
	}

	p.fillRect(clip, bg, attrs) // step 5

	border := st.Border.Get(e)
	var focusOverride store.Color
	if e == p.focused {
		focusOverride = st.FocusBorderColor.Get(e)
	} else {
		focusOverride = store.InheritColor()
	}
	p.drawBorder(rect, clip, border, fg, focusOverride) // step 6

	if p.isInteractive(e) {
		p.fillHit(clip, int32(e)) // step 7
	}

	padding := st.Padding.Get(e)
	borderW := func(s store.BorderSide) int {
		if s.Width > 0 {
			return 1
		}
		return 0
	}
	contentRect := Rect{
		X: rect.X + int(padding.Left) + borderW(border.Left),
		Y: rect.Y + int(padding.Top) + borderW(border.Top),
		W: maxInt(0, w-int(padding.Left)-int(padding.Right)-borderW(border.Left)-borderW(border.Right)),
		H: maxInt(0, h-int(padding.Top)-int(padding.Bottom)-borderW(border.Top)-borderW(border.Bottom)),
	}
	contentClip := contentRect.Intersect(clip)

	switch st.Kind.Get(e) {
	case store.KindText:
		p.drawText(e, contentRect, contentClip, fg, bg, attrs)
	case store.KindInput:
		p.drawText(e, contentRect, contentClip, fg, bg, attrs)
		if e == p.focused && st.CursorVisible.Get(e) {
			p.drawCursor(e, contentRect, contentClip, fg, bg)
		}
	}

	accScrollX := scrollX + st.ScrollOffsetX.Get(e)
	accScrollY := scrollY + st.ScrollOffsetY.Get(e)

	children := st.Children(e)
	sort.SliceStable(children, func(i, j int) bool {
		return st.ZIndex.Get(children[i]) < st.ZIndex.Get(children[j])
	})
	for _, c := range children {
		if st.Position.Get(c) == store.PositionAbsolute {
			p.paint(c, clip, scrollX, scrollY, fg, bg, opacity) // step 9, absolute children ignore parent content scroll
			continue
		}
		p.paint(c, contentClip, accScrollX, accScrollY, fg, bg, opacity) // step 9
	}
}

func (p *painter) isInteractive(e store.Entity) bool {
	st := p.st
	if st.Focusable.Get(e) || st.OutAutoFocusable[e] {
		return true
	}
	h := st.Handlers.Get(e)
	return h.OnClick != nil || h.OnMouseDown != nil || h.OnMouseUp != nil || h.OnScroll != nil
}

func (p *painter) fillRect(clip Rect, bg store.Color, attrs store.TextAttrs) {
	for y := clip.Y; y < clip.Y+clip.H; y++ {
		for x := clip.X; x < clip.X+clip.W; x++ {
			cell, _ := p.grid.At(x, y)
			cell.BG = bg
			cell.Attrs = attrs
			p.grid.Set(x, y, cell)
		}
	}
}

func (p *painter) fillHit(clip Rect, entity int32) {
	for y := clip.Y; y < clip.Y+clip.H; y++ {
		for x := clip.X; x < clip.X+clip.W; x++ {
			p.grid.SetHit(x, y, entity)
		}
	}
}

// drawBorder paints the sides whose width is 1 (§4.D step 6, §6 glyph
// table). Border color fallback order: focus-override -> per-side color ->
// border color -> fg.
func (p *painter) drawBorder(rect, clip Rect, b store.Borders, fg store.Color, focusOverride store.Color) {
	draw := func(x, y int, r rune, color store.Color) {
		if x < clip.X || x >= clip.X+clip.W || y < clip.Y || y >= clip.Y+clip.H {
			return
		}
		cell, _ := p.grid.At(x, y)
		cell.Rune = r
		cell.Width = 1
		cell.FG = resolveBorderColor(focusOverride, color, b.Color, fg)
		p.grid.Set(x, y, cell)
	}
	top, right, bottom, left := b.Top.Width > 0, b.Right.Width > 0, b.Bottom.Width > 0, b.Left.Width > 0
	style := pickStyle(b)
	glyphs, ok := glyphTable[style]
	if !ok {
		glyphs = glyphTable[store.BorderSingle]
	}

	if top {
		for x := rect.X; x < rect.X+rect.W; x++ {
			draw(x, rect.Y, glyphs.H, b.Top.Color)
		}
	}
	if bottom {
		for x := rect.X; x < rect.X+rect.W; x++ {
			draw(x, rect.Y+rect.H-1, glyphs.H, b.Bottom.Color)
		}
	}
	if left {
		for y := rect.Y; y < rect.Y+rect.H; y++ {
			draw(rect.X, y, glyphs.V, b.Left.Color)
		}
	}
	if right {
		for y := rect.Y; y < rect.Y+rect.H; y++ {
			draw(rect.X+rect.W-1, y, glyphs.V, b.Right.Color)
		}
	}
	switch {
	case top && left:
		draw(rect.X, rect.Y, glyphs.TL, b.Top.Color)
	case top:
		draw(rect.X, rect.Y, glyphs.H, b.Top.Color)
	case left:
		draw(rect.X, rect.Y, glyphs.V, b.Left.Color)
	}
	switch {
	case top && right:
		draw(rect.X+rect.W-1, rect.Y, glyphs.TR, b.Top.Color)
	case top:
		draw(rect.X+rect.W-1, rect.Y, glyphs.H, b.Top.Color)
	case right:
		draw(rect.X+rect.W-1, rect.Y, glyphs.V, b.Right.Color)
	}
	switch {
	case bottom && left:
		draw(rect.X, rect.Y+rect.H-1, glyphs.BL, b.Bottom.Color)
	case bottom:
		draw(rect.X, rect.Y+rect.H-1, glyphs.H, b.Bottom.Color)
	case left:
		draw(rect.X, rect.Y+rect.H-1, glyphs.V, b.Left.Color)
	}
	switch {
	case bottom && right:
		draw(rect.X+rect.W-1, rect.Y+rect.H-1, glyphs.BR, b.Bottom.Color)
	case bottom:
		draw(rect.X+rect.W-1, rect.Y+rect.H-1, glyphs.H, b.Bottom.Color)
	case right:
		draw(rect.X+rect.W-1, rect.Y+rect.H-1, glyphs.V, b.Right.Color)
	}
}

func pickStyle(b store.Borders) store.BorderStyleKind {
	for _, side := range []store.BorderSide{b.Top, b.Right, b.Bottom, b.Left} {
		if side.Width > 0 {
			return side.Style
		}
	}
	return store.BorderSingle
}

// resolveBorderColor applies §4.D step 6's fallback chain: the first
// non-inherit color in (focusOverride, perSide, container, fg) wins.
func resolveBorderColor(focusOverride, perSide, container, fg store.Color) store.Color {
	for _, c := range [...]store.Color{focusOverride, perSide, container} {
		if c.Kind != store.ColorInherit {
			return c
		}
	}
	return fg
}

func (p *painter) drawText(e store.Entity, contentRect, clip Rect, fg, bg store.Color, attrs store.TextAttrs) {
	st := p.st
	content := st.Content.Get(e)
	wrap := st.TextWrap.Get(e)
	align := st.TextAlignCol.Get(e)

	var lines []string
	switch wrap {
	case store.TextWrapWord:
		lines = text.Wrap(content, maxInt(1, contentRect.W), text.WrapWord)
	case store.TextWrapTruncate:
		lines = []string{text.Truncate(content, maxInt(1, contentRect.W), "…")}
	default:
		lines = text.Wrap(content, maxInt(1, contentRect.W), text.WrapNone)
	}

	for row, line := range lines {
		y := contentRect.Y + row
		if y >= contentRect.Y+contentRect.H {
			break
		}
		lw := text.Width(line)
		startX := contentRect.X
		switch align {
		case store.TextAlignCenter:
			startX += maxInt(0, (contentRect.W-lw)/2)
		case store.TextAlignRight:
			startX += maxInt(0, contentRect.W-lw)
		}
		x := startX
		for _, r := range line {
			rw := text.RuneWidth(r)
			if x < clip.X || x >= clip.X+clip.W || y < clip.Y || y >= clip.Y+clip.H {
				x += rw
				continue
			}
			cell := Cell{Rune: r, Width: rw, FG: fg, BG: bg, Attrs: attrs}
			p.grid.Set(x, y, cell)
			if rw == 2 {
				p.grid.Set(x+1, y, Cell{Rune: 0, Width: 0, FG: fg, BG: bg, Attrs: attrs})
			}
			x += rw
		}
	}
}

// drawCursor overlays the caret for a focused input (§4.D step 8).
func (p *painter) drawCursor(e store.Entity, contentRect, clip Rect, fg, bg store.Color) {
	st := p.st
	pos := st.CursorPosition.Get(e)
	x := contentRect.X + pos
	y := contentRect.Y
	if x < clip.X || x >= clip.X+clip.W || y < clip.Y || y >= clip.Y+clip.H {
		return
	}
	cell, _ := p.grid.At(x, y)
	switch st.CursorStyleCol.Get(e) {
	case store.CursorBlock:
		cell.FG, cell.BG = bg, fg
	case store.CursorBar:
		cell.Rune = '│'
		cell.Width = 1
	case store.CursorUnderline:
		cell.Rune = '_'
		cell.Width = 1
	}
	p.grid.Set(x, y, cell)
}
