// Package render implements the differential ANSI renderer (§4.E): a
// stateful emitter that tracks the last-emitted color/attrs/cursor position
// and writes only the cells that changed since the previous frame (inline
// mode rewrites every cell each frame).
package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/vireo-tui/vireo/frame"
	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/term"
)

// Mode parametrizes setup/teardown bytes and, for ModeInline, a full
// redraw on every frame (§4.E).
type Mode uint8

const (
	ModeFullscreen Mode = iota
	ModeInline
	ModeAppend
)

// Sink is the external output byte sink (§6): write + flush, batched once
// per frame.
type Sink interface {
	Write(p []byte) (int, error)
	Flush() error
}

// Emitter holds the cross-frame diff state: the previous frame buffer and
// the last fg/bg/attrs/cursor position actually written to the terminal.
type Emitter struct {
	mode     Mode
	sink     Sink
	profile  term.ColorProfile
	prev     *frame.Grid
	lastFG   store.Color
	lastBG   store.Color
	lastAttr store.TextAttrs
	cursorX  int
	cursorY  int
	haveCursor bool
	haveAttr bool
	resized  bool
}

// New creates an emitter for the given mode and output sink, degrading
// colors for terminals that can't do truecolor (§6) per profile.
func New(mode Mode, sink Sink, profile term.ColorProfile) *Emitter {
	return &Emitter{mode: mode, sink: sink, profile: profile}
}

// Setup emits the render-mode entry sequence (§6 render-mode setup bytes).
func (e *Emitter) Setup() error {
	var b strings.Builder
	switch e.mode {
	case ModeFullscreen:
		b.WriteString("\x1b[?1049h")
		b.WriteString("\x1b[?25l")
	case ModeInline, ModeAppend:
		// normal buffer: nothing to enter, cursor stays visible.
	}
	return e.write(b.String())
}

// Teardown emits the matching exit sequence and resets attrs/cursor.
func (e *Emitter) Teardown() error {
	var b strings.Builder
	b.WriteString("\x1b[0m")
	switch e.mode {
	case ModeFullscreen:
		b.WriteString("\x1b[?25h")
		b.WriteString("\x1b[?1049l")
	}
	return e.write(b.String())
}

// InvalidatePrevious forces a full redraw on the next Render call, used when
// the terminal was resized (§4.E "previous buffer is invalidated").
func (e *Emitter) InvalidatePrevious() {
	e.prev = nil
	e.resized = true
}

// Render diffs next against the previous frame and writes the minimal ANSI
// stream (§4.E algorithm); in ModeInline every cell is written. next becomes
// the new previous frame.
func (e *Emitter) Render(next *frame.Grid) error {
	var b strings.Builder
	b.WriteString("\x1b[?2026h") // begin synchronized output

	full := e.mode == ModeInline || e.prev == nil || e.prev.Width != next.Width || e.prev.Height != next.Height
	for y := 0; y < next.Height; y++ {
		for x := 0; x < next.Width; x++ {
			cell, _ := next.At(x, y)
			if cell.Width == 0 {
				continue // trailing half of a wide cell (§8 property 10)
			}
			if !full {
				prevCell, _ := e.prev.At(x, y)
				if prevCell == cell {
					continue
				}
			}
			e.emitCell(&b, x, y, cell)
		}
	}

	b.WriteString("\x1b[?2026l") // end synchronized output
	b.WriteString("\x1b[0m")
	e.haveAttr = false // reset clears attribute state (§4.E step 2 note)

	e.prev = next
	e.resized = false
	return e.write(b.String())
}

func (e *Emitter) emitCell(b *strings.Builder, x, y int, cell frame.Cell) {
	if !e.haveCursor || e.cursorX != x || e.cursorY != y {
		b.WriteString(ansi.CursorPosition(x+1, y+1))
	}
	if !e.haveAttr || cell.Attrs != e.lastAttr {
		b.WriteString("\x1b[0m")
		if cell.Attrs != 0 {
			b.WriteString(sgrForAttrs(cell.Attrs))
		}
		e.lastAttr = cell.Attrs
		e.haveAttr = true
		e.lastFG = store.Color{} // reset clears color state too
		e.lastBG = store.Color{}
	}
	if cell.FG != e.lastFG {
		b.WriteString(sgrForColor(degrade(cell.FG, e.profile), false))
		e.lastFG = cell.FG
	}
	if cell.BG != e.lastBG {
		b.WriteString(sgrForColor(degrade(cell.BG, e.profile), true))
		e.lastBG = cell.BG
	}
	if cell.Rune == 0 {
		b.WriteRune(' ')
	} else {
		b.WriteRune(cell.Rune)
	}
	e.cursorX = x + cell.Width
	if cell.Width == 0 {
		e.cursorX = x + 1
	}
	e.cursorY = y
	e.haveCursor = true
}

// sgrForColor renders a color per §6's exact wire forms.
func sgrForColor(c store.Color, bg bool) string {
	switch c.Kind {
	case store.ColorDefault, store.ColorInherit:
		if bg {
			return "\x1b[49m"
		}
		return "\x1b[39m"
	case store.ColorANSI256:
		if bg {
			return "\x1b[48;5;" + strconv.Itoa(int(c.Index)) + "m"
		}
		return "\x1b[38;5;" + strconv.Itoa(int(c.Index)) + "m"
	default:
		prefix := "38"
		if bg {
			prefix = "48"
		}
		return "\x1b[" + prefix + ";2;" + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B)) + "m"
	}
}

func sgrForAttrs(a store.TextAttrs) string {
	var codes []string
	if a.Has(store.AttrBold) {
		codes = append(codes, "1")
	}
	if a.Has(store.AttrDim) {
		codes = append(codes, "2")
	}
	if a.Has(store.AttrItalic) {
		codes = append(codes, "3")
	}
	if a.Has(store.AttrUnderline) {
		codes = append(codes, "4")
	}
	if a.Has(store.AttrBlink) {
		codes = append(codes, "5")
	}
	if a.Has(store.AttrInverse) {
		codes = append(codes, "7")
	}
	if a.Has(store.AttrHidden) {
		codes = append(codes, "8")
	}
	if a.Has(store.AttrStrikethrough) {
		codes = append(codes, "9")
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func (e *Emitter) write(s string) error {
	if s == "" {
		return nil
	}
	if _, err := e.sink.Write([]byte(s)); err != nil {
		return err
	}
	return e.sink.Flush()
}
