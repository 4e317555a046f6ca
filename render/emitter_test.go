package render

import (
	"strings"
	"testing"

	"github.com/vireo-tui/vireo/frame"
	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/term"
)

type bufSink struct {
	buf strings.Builder
}

func (s *bufSink) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *bufSink) Flush() error                { return nil }

func gridWithCell(w, h int, x, y int, r rune, fg store.Color) *frame.Grid {
	g := frame.Acquire(w, h)
	cell, _ := g.At(x, y)
	cell.Rune = r
	cell.Width = 1
	cell.FG = fg
	g.Set(x, y, cell)
	return g
}

func TestSetupFullscreenEntersAltScreen(t *testing.T) {
	sink := &bufSink{}
	e := New(ModeFullscreen, sink, term.ProfileTrueColor)
	if err := e.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	out := sink.buf.String()
	if !strings.Contains(out, "\x1b[?1049h") || !strings.Contains(out, "\x1b[?25l") {
		t.Fatalf("expected alt-screen+hide-cursor bytes, got %q", out)
	}
}

func TestRenderFirstFrameIsFull(t *testing.T) {
	sink := &bufSink{}
	e := New(ModeInline, sink, term.ProfileTrueColor)
	g := gridWithCell(5, 1, 0, 0, 'A', store.RGB(255, 0, 0))
	if err := e.Render(g); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sink.buf.String()
	if !strings.Contains(out, "A") {
		t.Fatalf("expected rune A in output, got %q", out)
	}
	if !strings.Contains(out, "38;2;255;0;0") {
		t.Fatalf("expected truecolor fg sequence, got %q", out)
	}
}

func TestRenderSecondFrameEmitsOnlyDiff(t *testing.T) {
	sink := &bufSink{}
	e := New(ModeFullscreen, sink, term.ProfileTrueColor)
	g1 := gridWithCell(5, 1, 0, 0, 'A', store.RGB(255, 0, 0))
	if err := e.Render(g1); err != nil {
		t.Fatalf("render 1: %v", err)
	}

	sink.buf.Reset()
	g2 := frame.Acquire(5, 1)
	for x := 0; x < 5; x++ {
		cell, _ := g1.At(x, 0)
		g2.Set(x, 0, cell)
	}
	cell, _ := g2.At(2, 0)
	cell.Rune = 'B'
	cell.Width = 1
	g2.Set(2, 0, cell)

	if err := e.Render(g2); err != nil {
		t.Fatalf("render 2: %v", err)
	}
	out := sink.buf.String()
	if !strings.Contains(out, "B") {
		t.Fatalf("expected changed rune B in diff output, got %q", out)
	}
	if strings.Count(out, "A") != 0 {
		t.Fatalf("expected unchanged cell A to be skipped, got %q", out)
	}
}

func TestRenderDefaultColorEmitsResetSequence(t *testing.T) {
	sink := &bufSink{}
	e := New(ModeInline, sink, term.ProfileTrueColor)
	g := gridWithCell(3, 1, 0, 0, 'X', store.DefaultColor())
	if err := e.Render(g); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(sink.buf.String(), "\x1b[39m") {
		t.Fatalf("expected default-fg reset sequence, got %q", sink.buf.String())
	}
}

func TestInvalidatePreviousForcesFullRedraw(t *testing.T) {
	sink := &bufSink{}
	e := New(ModeFullscreen, sink, term.ProfileTrueColor)
	g1 := gridWithCell(3, 1, 0, 0, 'A', store.RGB(1, 2, 3))
	_ = e.Render(g1)
	e.InvalidatePrevious()

	sink.buf.Reset()
	g2 := gridWithCell(3, 1, 0, 0, 'A', store.RGB(1, 2, 3))
	if err := e.Render(g2); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(sink.buf.String(), "A") {
		t.Fatalf("expected full redraw to re-emit unchanged cell after invalidation, got %q", sink.buf.String())
	}
}
