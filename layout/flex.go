package layout

import (
	"math"

	"github.com/vireo-tui/vireo/store"
)

// engineContext carries per-recompute state: the store being read, the
// measurement cache, and the absolute-positioned entities discovered while
// walking normal flow so they can be resolved in a final pass (§4.C step 8).
type engineContext struct {
	st        *store.Store
	cache     *measureCache
	absolutes []store.Entity
}

type flexChild struct {
	entity    store.Entity
	basis     float64 // resolved, clamped main-axis flex basis
	grow      float64
	shrink    float64
	minMain   float64
	maxMain   float64
	finalMain float64 // set once the freeze loop settles
	frozen    bool

	marginMainStart, marginMainEnd   store.MarginSide
	marginCrossStart, marginCrossEnd store.MarginSide
}

// resolveDimension turns a store.Dimension into a concrete cell value given
// the available size along that axis; Auto/MinContent/MaxContent return
// (0, false) signalling "caller must derive it from content".
func resolveDimension(d store.Dimension, available float64) (float64, bool) {
	switch d.Kind {
	case store.DimCells:
		return d.Value, true
	case store.DimPercent:
		if math.IsInf(available, 1) {
			return 0, false // §4.C failure policy: percent without definite parent size -> auto
		}
		return available * d.Value / 100.0, true
	default:
		return 0, false
	}
}

// mainMarginSides maps a container's margin box to the (start, end) sides
// along its main axis, honoring the row/column-reverse packing direction
// (§4.C steps 5-6).
func mainMarginSides(m store.Margin, direction store.Direction) (start, end store.MarginSide) {
	switch direction {
	case store.DirectionRow:
		return m.Left, m.Right
	case store.DirectionRowReverse:
		return m.Right, m.Left
	case store.DirectionColumn:
		return m.Top, m.Bottom
	default: // DirectionColumnReverse
		return m.Bottom, m.Top
	}
}

// crossMarginSides maps a container's margin box to the (start, end) sides
// along the axis perpendicular to direction.
func crossMarginSides(m store.Margin, horizontal bool) (start, end store.MarginSide) {
	if horizontal {
		return m.Top, m.Bottom
	}
	return m.Left, m.Right
}

// layoutNode computes the size of e within constraints, writing its
// computed-output columns, and recurses into children. Returns the entity's
// final border-box size.
func (ctx *engineContext) layoutNode(e store.Entity, constraints BoxConstraints) Size {
	st := ctx.st
	st.EnsureComputedCapacity(e)

	if st.Kind.Get(e) == store.KindText || st.Kind.Get(e) == store.KindInput {
		return ctx.layoutTextLeaf(e, constraints)
	}
	return ctx.layoutContainer(e, constraints)
}

func (ctx *engineContext) layoutTextLeaf(e store.Entity, constraints BoxConstraints) Size {
	st := ctx.st
	content := st.Content.Get(e)
	wrap := st.TextWrap.Get(e)

	availWidth := constraints.MaxWidth
	widthDim := st.Width.Get(e)
	if v, ok := resolveDimension(widthDim, constraints.MaxWidth); ok {
		availWidth = v
	}
	if math.IsInf(availWidth, 1) || availWidth <= 0 {
		availWidth = math.MaxInt32 // effectively unbounded for measurement
	}

	res := ctx.cache.measureText(content, wrap, int(availWidth))

	w := constraints.ConstrainWidth(float64(res.width))
	if v, ok := resolveDimension(widthDim, constraints.MaxWidth); ok {
		w = constraints.ConstrainWidth(v)
	}
	h := constraints.ConstrainHeight(float64(res.height))
	if v, ok := resolveDimension(st.Height.Get(e), constraints.MaxHeight); ok {
		h = constraints.ConstrainHeight(v)
	}

	w = math.Round(w)
	h = math.Round(h)
	ctx.writeComputed(e, 0, 0, w, h, w, h, 0, 0, false)
	return Size{Width: w, Height: h}
}

func (ctx *engineContext) writeComputed(e store.Entity, x, y, w, h, cw, ch, maxSX, maxSY float64, scrollable bool) {
	st := ctx.st
	st.OutX[e] = x
	st.OutY[e] = y
	st.OutWidth[e] = w
	st.OutHeight[e] = h
	st.OutContentWidth[e] = cw
	st.OutContentHeight[e] = ch
	st.OutMaxScrollX[e] = maxSX
	st.OutMaxScrollY[e] = maxSY
	st.OutIsScrollable[e] = scrollable
	st.OutAutoFocusable[e] = false // §4.C step 11 rule is applied by layoutContainer after this
}

// lineItemLayout is one flex item's resolved position/size within its line,
// before the line itself is placed along the cross axis (§4.C step 7).
type lineItemLayout struct {
	entity     store.Entity
	align      store.Align
	mainPos    float64 // content-box relative position along the main axis
	crossLocal float64 // content-box relative offset within the line (margin-resolved)
	crossSize  float64 // this item's cross-axis box size
	w, h       float64
}

type lineLayout struct {
	items []lineItemLayout
	cross float64 // natural cross size of the line before align-content distribution
}

func (ctx *engineContext) layoutContainer(e store.Entity, constraints BoxConstraints) Size {
	st := ctx.st
	padding := st.Padding.Get(e)
	border := st.Border.Get(e)
	direction := st.FlexDirection.Get(e)
	wrapMode := st.FlexWrap.Get(e)
	justify := st.JustifyContent.Get(e)
	alignItems := st.AlignItems.Get(e)
	alignContent := st.AlignContent.Get(e)
	gap := st.Gap.Get(e)

	borderW := func(s store.BorderSide) float64 {
		if s.Width > 0 {
			return 1
		}
		return 0
	}
	insetW := padding.Left + padding.Right + borderW(border.Left) + borderW(border.Right)
	insetH := padding.Top + padding.Bottom + borderW(border.Top) + borderW(border.Bottom)

	outerW, hasW := resolveDimension(st.Width.Get(e), constraints.MaxWidth)
	outerH, hasH := resolveDimension(st.Height.Get(e), constraints.MaxHeight)

	contentConstraints := BoxConstraints{MaxWidth: math.Max(0, constraints.MaxWidth-insetW), MaxHeight: math.Max(0, constraints.MaxHeight-insetH)}
	if hasW {
		contentConstraints.MaxWidth = math.Max(0, outerW-insetW)
		contentConstraints.MinWidth = contentConstraints.MaxWidth
	}
	if hasH {
		contentConstraints.MaxHeight = math.Max(0, outerH-insetH)
		contentConstraints.MinHeight = contentConstraints.MaxHeight
	}

	var children []store.Entity
	st.ForEachChild(e, func(c store.Entity) {
		if !st.Visible.Get(c) {
			return
		}
		if st.Position.Get(c) == store.PositionAbsolute {
			ctx.absolutes = append(ctx.absolutes, c)
			return
		}
		children = append(children, c)
	})

	horizontal := direction.Horizontal()
	mainAvail := contentConstraints.MaxWidth
	crossAvail := contentConstraints.MaxHeight
	if !horizontal {
		mainAvail, crossAvail = contentConstraints.MaxHeight, contentConstraints.MaxWidth
	}
	if math.IsInf(mainAvail, 1) {
		// No definite main size (e.g. a root under an unbounded terminal
		// probe): fall back to the sum of children's natural sizes so the
		// freeze loop still has a finite frame of reference.
		sum := 0.0
		for i, c := range children {
			if i > 0 {
				sum += gap
			}
			sum += ctx.naturalMain(c, horizontal)
		}
		mainAvail = sum
	}

	lines := ctx.collectLines(children, wrapMode, horizontal, mainAvail, gap)

	contentMain := 0.0
	lineLayouts := make([]lineLayout, 0, len(lines))
	for _, line := range lines {
		fcs := ctx.buildFlexChildren(line, direction, crossAvail)
		ctx.runFreezeLoop(fcs, mainAvail, gap)

		lineCross := 0.0
		total := 0.0
		for i, fc := range fcs {
			if i > 0 {
				total += gap
			}
			marginStart := fc.marginMainStart
			marginEnd := fc.marginMainEnd
			if !marginStart.Auto {
				total += marginStart.Value
			}
			total += fc.finalMain
			if !marginEnd.Auto {
				total += marginEnd.Value
			}

			childSize := ctx.resolveChildCross(fc.entity, fc.finalMain, horizontal, crossAvail, alignItems)
			crossTotal := childSize
			if !fc.marginCrossStart.Auto {
				crossTotal += fc.marginCrossStart.Value
			}
			if !fc.marginCrossEnd.Auto {
				crossTotal += fc.marginCrossEnd.Value
			}
			if crossTotal > lineCross {
				lineCross = crossTotal
			}
		}

		freeMain := mainAvail - total
		autoMainCount := 0
		for _, fc := range fcs {
			if fc.marginMainStart.Auto {
				autoMainCount++
			}
			if fc.marginMainEnd.Auto {
				autoMainCount++
			}
		}
		var mainCursor, justifyGap, autoMainShare float64
		if autoMainCount > 0 && freeMain > 0 {
			autoMainShare = freeMain / float64(autoMainCount)
		} else {
			mainCursor = justifyOffset(justify, freeMain, len(fcs))
			justifyGap = justifyGapBetween(justify, freeMain, len(fcs))
		}

		items := make([]lineItemLayout, 0, len(fcs))
		for i, fc := range fcs {
			if i > 0 {
				mainCursor += gap + justifyGap
			}
			marginStart := fc.marginMainStart.Value
			if fc.marginMainStart.Auto {
				marginStart = autoMainShare
			}
			marginEnd := fc.marginMainEnd.Value
			if fc.marginMainEnd.Auto {
				marginEnd = autoMainShare
			}
			mainCursor += marginStart

			align := alignItems
			if st.HasAlignSelf.Get(fc.entity) {
				align = st.AlignSelf.Get(fc.entity)
			}
			childSize := ctx.resolveChildCross(fc.entity, fc.finalMain, horizontal, crossAvail, alignItems)

			fixedCrossMargin := 0.0
			if !fc.marginCrossStart.Auto {
				fixedCrossMargin += fc.marginCrossStart.Value
			}
			if !fc.marginCrossEnd.Auto {
				fixedCrossMargin += fc.marginCrossEnd.Value
			}
			autoCrossCount := 0
			if fc.marginCrossStart.Auto {
				autoCrossCount++
			}
			if fc.marginCrossEnd.Auto {
				autoCrossCount++
			}
			crossMarginStart := fc.marginCrossStart.Value
			crossMarginEnd := fc.marginCrossEnd.Value
			freeCrossForItem := lineCross - childSize - fixedCrossMargin
			if autoCrossCount > 0 && freeCrossForItem > 0 {
				share := freeCrossForItem / float64(autoCrossCount)
				if fc.marginCrossStart.Auto {
					crossMarginStart = share
				}
				if fc.marginCrossEnd.Auto {
					crossMarginEnd = share
				}
			} else {
				if fc.marginCrossStart.Auto {
					crossMarginStart = 0
				}
				if fc.marginCrossEnd.Auto {
					crossMarginEnd = 0
				}
			}

			var w, h float64
			if horizontal {
				w, h = fc.finalMain, childSize
			} else {
				w, h = childSize, fc.finalMain
			}
			childConstraints := Tight(w, h)
			ctx.layoutNode(fc.entity, childConstraints)

			items = append(items, lineItemLayout{
				entity:     fc.entity,
				align:      align,
				mainPos:    mainCursor,
				crossLocal: crossMarginStart,
				crossSize:  childSize,
				w:          w,
				h:          h,
			})

			mainCursor += fc.finalMain
			mainCursor += marginEnd
		}

		if total > contentMain {
			contentMain = total
		}
		lineLayouts = append(lineLayouts, lineLayout{items: items, cross: lineCross})
	}

	lineOffsets, extraPerLine, totalLinesCross := distributeAlignContent(lineLayouts, alignContent, crossAvail, gap)

	for li, ll := range lineLayouts {
		lineOffset := lineOffsets[li]
		for _, item := range ll.items {
			w, h := item.w, item.h
			crossSize := item.crossSize
			if extraPerLine > 0 && item.align == store.AlignStretch {
				crossSize += extraPerLine
				if horizontal {
					h = crossSize
				} else {
					w = crossSize
				}
				ctx.layoutNode(item.entity, Tight(w, h))
			}

			var cx, cy float64
			if horizontal {
				cx, cy = item.mainPos, lineOffset+item.crossLocal
			} else {
				cx, cy = lineOffset+item.crossLocal, item.mainPos
			}
			offsetChild(st, item.entity, padding.Left+borderW(border.Left)+cx, padding.Top+borderW(border.Top)+cy)
		}
	}
	// align-content: stretch (the default) grows each line by its share of
	// leftover cross space, so totalLinesCross plus every line's extra share
	// reaches crossAvail in that case; any other align-content value repositions lines within the
	// available space without resizing them, so the content stays
	// shrink-wrapped to what the lines actually occupy (§4.C step 4/step 7).
	contentCross := totalLinesCross + extraPerLine*float64(len(lineLayouts))

	finalContentW, finalContentH := contentMain, contentCross
	if !horizontal {
		finalContentW, finalContentH = contentCross, contentMain
	}
	if hasW {
		finalContentW = contentConstraints.MaxWidth
	}
	if hasH {
		finalContentH = contentConstraints.MaxHeight
	}

	outerWFinal := finalContentW + insetW
	outerHFinal := finalContentH + insetH
	outerWFinal = math.Round(constraints.ConstrainWidth(outerWFinal))
	outerHFinal = math.Round(constraints.ConstrainHeight(outerHFinal))

	overflow := st.Overflow.Get(e)
	scrollable := overflow == store.OverflowScroll || (overflow == store.OverflowAuto && (finalContentW > outerWFinal-insetW || finalContentH > outerHFinal-insetH))
	maxScrollX := math.Max(0, finalContentW-(outerWFinal-insetW))
	maxScrollY := math.Max(0, finalContentH-(outerHFinal-insetH))

	ctx.writeComputed(e, 0, 0, outerWFinal, outerHFinal, finalContentW, finalContentH, maxScrollX, maxScrollY, scrollable)
	if scrollable && !st.Focusable.Peek(e) {
		st.OutAutoFocusable[e] = true // §4.C step 11 auto-focusable rule
	}

	return Size{Width: outerWFinal, Height: outerHFinal}
}

// distributeAlignContent places each line along the cross axis per §4.C
// step 7 ("align-content: stretch redistribution" and line alignment for
// wrapped containers). With no definite cross size there is no free space
// to distribute, so lines simply pack from the start (prior behavior).
func distributeAlignContent(lines []lineLayout, align store.Align, crossAvail, gap float64) (offsets []float64, extraPerLine float64, totalCross float64) {
	n := len(lines)
	offsets = make([]float64, n)
	if n == 0 {
		return offsets, 0, 0
	}

	sumCross := 0.0
	for _, l := range lines {
		sumCross += l.cross
	}
	gaps := gap * float64(n-1)
	totalCross = sumCross + gaps

	if math.IsInf(crossAvail, 1) {
		off := 0.0
		for i, l := range lines {
			offsets[i] = off
			off += l.cross + gap
		}
		return offsets, 0, totalCross
	}

	freeCross := math.Max(0, crossAvail-totalCross)

	switch align {
	case store.AlignStretch:
		if n > 0 {
			extraPerLine = freeCross / float64(n)
		}
		off := 0.0
		for i, l := range lines {
			offsets[i] = off
			off += l.cross + extraPerLine + gap
		}
	case store.AlignEnd:
		off := freeCross
		for i, l := range lines {
			offsets[i] = off
			off += l.cross + gap
		}
	case store.AlignCenter:
		off := freeCross / 2
		for i, l := range lines {
			offsets[i] = off
			off += l.cross + gap
		}
	case store.AlignSpaceBetween:
		extraGap := 0.0
		if n > 1 {
			extraGap = freeCross / float64(n-1)
		}
		off := 0.0
		for i, l := range lines {
			offsets[i] = off
			off += l.cross + gap + extraGap
		}
	case store.AlignSpaceAround:
		extraGap := freeCross / float64(n)
		off := extraGap / 2
		for i, l := range lines {
			offsets[i] = off
			off += l.cross + gap + extraGap
		}
	default: // AlignStart, AlignBaseline (treated as start: no baseline metric tracked)
		off := 0.0
		for i, l := range lines {
			offsets[i] = off
			off += l.cross + gap
		}
	}
	return offsets, extraPerLine, totalCross
}

// offsetChild shifts e and its whole subtree, so that once the root pass is
// done every OutX/OutY holds an absolute (unscrolled) screen position.
func offsetChild(st *store.Store, e store.Entity, dx, dy float64) {
	st.OutX[e] += dx
	st.OutY[e] += dy
	st.ForEachChild(e, func(c store.Entity) { offsetChild(st, c, dx, dy) })
}

// collectLines groups children into flex lines (§4.C step 3 "collect lines
// when wrap != nowrap"); a single line holds all children when wrapping is
// disabled.
func (ctx *engineContext) collectLines(children []store.Entity, wrap store.Wrap, horizontal bool, mainAvail, gap float64) [][]store.Entity {
	if wrap == store.NoWrap || len(children) == 0 {
		return [][]store.Entity{children}
	}
	var lines [][]store.Entity
	var cur []store.Entity
	used := 0.0
	for _, c := range children {
		basis := ctx.naturalMain(c, horizontal)
		add := basis
		if len(cur) > 0 {
			add += gap
		}
		if len(cur) > 0 && used+add > mainAvail {
			lines = append(lines, cur)
			cur = nil
			used = 0
			add = basis
		}
		cur = append(cur, c)
		used += add
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// naturalMain estimates a child's unconstrained main-axis content size,
// used only for line-collection; the freeze loop recomputes the authoritative
// basis afterward.
func (ctx *engineContext) naturalMain(e store.Entity, horizontal bool) float64 {
	st := ctx.st
	var dim store.Dimension
	if horizontal {
		dim = st.Width.Get(e)
	} else {
		dim = st.Height.Get(e)
	}
	if v, ok := resolveDimension(dim, math.Inf(1)); ok {
		return v
	}
	if st.Kind.Get(e) == store.KindText || st.Kind.Get(e) == store.KindInput {
		res := ctx.cache.measureText(st.Content.Get(e), store.TextWrapNone, int(math.MaxInt32))
		if horizontal {
			return float64(res.width)
		}
		return float64(res.height)
	}
	return 0
}

func (ctx *engineContext) buildFlexChildren(children []store.Entity, direction store.Direction, crossAvail float64) []flexChild {
	st := ctx.st
	horizontal := direction.Horizontal()
	out := make([]flexChild, 0, len(children))
	for _, c := range children {
		var basisDim store.Dimension
		if horizontal {
			basisDim = st.Width.Get(c)
		} else {
			basisDim = st.Height.Get(c)
		}
		flexBasis := st.FlexBasis.Get(c)
		var basis float64
		if v, ok := resolveDimension(basisDim, math.Inf(1)); ok {
			basis = v
		} else if v, ok := resolveDimension(flexBasis, math.Inf(1)); ok {
			basis = v
		} else {
			basis = ctx.naturalMain(c, horizontal)
		}

		var minDim, maxDim store.Dimension
		if horizontal {
			minDim, maxDim = st.MinWidth.Get(c), st.MaxWidth.Get(c)
		} else {
			minDim, maxDim = st.MinHeight.Get(c), st.MaxHeight.Get(c)
		}
		minV, hasMin := resolveDimension(minDim, math.Inf(1))
		maxV, hasMax := resolveDimension(maxDim, math.Inf(1))
		if !hasMin {
			minV = 0
		}
		if !hasMax {
			maxV = math.Inf(1)
		}
		basis = clampRange(basis, minV, maxV)

		margin := st.Margin.Get(c)
		mStart, mEnd := mainMarginSides(margin, direction)
		cStart, cEnd := crossMarginSides(margin, horizontal)

		out = append(out, flexChild{
			entity:           c,
			basis:            basis,
			grow:             st.FlexGrow.Get(c),
			shrink:           st.FlexShrink.Get(c),
			minMain:          minV,
			maxMain:          maxV,
			marginMainStart:  mStart,
			marginMainEnd:    mEnd,
			marginCrossStart: cStart,
			marginCrossEnd:   cEnd,
		})
	}
	return out
}

// runFreezeLoop distributes grow/shrink space per §4.C step 3. Bounded to
// len(children)+1 iterations, which suffices since each iteration freezes at
// least one more item on a violation. Fixed (non-auto) margins consume main
// space the same as gaps, so they are folded into the loop's free-space
// accounting; auto margins absorb remaining space after placement instead.
func (ctx *engineContext) runFreezeLoop(children []flexChild, mainAvail, gap float64) {
	if len(children) == 0 {
		return
	}

	fixedMargin := 0.0
	for i := range children {
		if !children[i].marginMainStart.Auto {
			fixedMargin += children[i].marginMainStart.Value
		}
		if !children[i].marginMainEnd.Auto {
			fixedMargin += children[i].marginMainEnd.Value
		}
	}

	totalGaps := gap*float64(len(children)-1) + fixedMargin
	for iter := 0; iter <= len(children); iter++ {
		var unfrozenIdx []int
		usedMain := totalGaps
		growSum, shrinkSum := 0.0, 0.0
		for i := range children {
			if children[i].frozen {
				usedMain += children[i].finalMain
				continue
			}
			usedMain += children[i].basis
			unfrozenIdx = append(unfrozenIdx, i)
			growSum += children[i].grow
			shrinkSum += children[i].shrink * children[i].basis
		}
		if len(unfrozenIdx) == 0 {
			return
		}
		freeSpace := mainAvail - usedMain
		growing := freeSpace > 0

		anyViolation := false
		for _, i := range unfrozenIdx {
			fc := &children[i]
			var target float64
			if growing {
				if growSum <= 0 {
					target = fc.basis
				} else {
					target = fc.basis + (fc.grow/growSum)*freeSpace
				}
			} else {
				if shrinkSum <= 0 {
					target = fc.basis
				} else {
					scaled := fc.shrink * fc.basis
					target = fc.basis + (scaled/shrinkSum)*freeSpace
				}
			}
			lo, hi := fc.minMain, fc.maxMain
			clamped := clampRange(target, lo, hi)
			if clamped != target {
				fc.finalMain = clamped
				fc.frozen = true
				anyViolation = true
			} else {
				fc.finalMain = target
			}
		}
		if !anyViolation {
			for _, i := range unfrozenIdx {
				children[i].frozen = true
			}
			return
		}
	}
	for i := range children {
		if !children[i].frozen {
			children[i].finalMain = children[i].basis
			children[i].frozen = true
		}
	}
}

func (ctx *engineContext) resolveChildCross(e store.Entity, finalMain float64, horizontal bool, crossAvail float64, parentAlignItems store.Align) float64 {
	st := ctx.st
	align := parentAlignItems
	if st.HasAlignSelf.Get(e) {
		align = st.AlignSelf.Get(e)
	}

	var crossDim store.Dimension
	if horizontal {
		crossDim = st.Height.Get(e)
	} else {
		crossDim = st.Width.Get(e)
	}
	if v, ok := resolveDimension(crossDim, crossAvail); ok {
		return v
	}
	if align == store.AlignStretch && !math.IsInf(crossAvail, 1) {
		return crossAvail
	}
	// natural cross size: for text, measure at assigned main width; for a
	// box, do a cheap recursive probe with loose constraints.
	if st.Kind.Get(e) == store.KindText || st.Kind.Get(e) == store.KindInput {
		wrap := st.TextWrap.Get(e)
		width := finalMain
		if !horizontal {
			width = crossAvail
		}
		res := ctx.cache.measureText(st.Content.Get(e), wrap, int(math.Max(1, width)))
		if horizontal {
			return float64(res.height)
		}
		return float64(res.width)
	}
	return 0
}

func justifyOffset(j store.Justify, freeSpace float64, n int) float64 {
	if n == 0 || freeSpace <= 0 {
		return 0
	}
	switch j {
	case store.JustifyEnd:
		return freeSpace
	case store.JustifyCenter:
		return freeSpace / 2
	default:
		return 0
	}
}

func justifyGapBetween(j store.Justify, freeSpace float64, n int) float64 {
	if n <= 1 || freeSpace <= 0 {
		return 0
	}
	switch j {
	case store.JustifySpaceBetween:
		return freeSpace / float64(n-1)
	case store.JustifySpaceAround:
		return freeSpace / float64(n)
	case store.JustifySpaceEvenly:
		return freeSpace / float64(n+1)
	default:
		return 0
	}
}
