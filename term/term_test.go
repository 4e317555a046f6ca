package term

import (
	"bytes"
	"os"
	"testing"
)

type fakeScreen struct {
	buf bytes.Buffer
}

func (s *fakeScreen) Write(p []byte) (int, error)       { return s.buf.Write(p) }
func (s *fakeScreen) Flush() error                       { return nil }
func (s *fakeScreen) EnterAlternateScreen() error        { return nil }
func (s *fakeScreen) ExitAlternateScreen() error         { return nil }

func TestCursorMoveEmitsCUP(t *testing.T) {
	s := &fakeScreen{}
	c := NewStdoutCursor(s)
	if err := c.Move(4, 9); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := s.buf.String(); got != "\x1b[10;5H" {
		t.Fatalf("expected 1-based CUP sequence, got %q", got)
	}
}

func TestCursorStyleEmitsDECSCUSR(t *testing.T) {
	s := &fakeScreen{}
	c := NewStdoutCursor(s)
	if err := c.SetStyle(CursorStyleBar); err != nil {
		t.Fatalf("set style: %v", err)
	}
	if got := s.buf.String(); got != "\x1b[6 q" {
		t.Fatalf("expected bar DECSCUSR sequence, got %q", got)
	}
}

func TestStdoutScreenAlternateScreenSequences(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	s := &StdoutScreen{out: w}
	if err := s.EnterAlternateScreen(); err != nil {
		t.Fatalf("enter: %v", err)
	}
	w.Close()
	buf := make([]byte, 64)
	n, _ := r.Read(buf)
	if string(buf[:n]) != "\x1b[?1049h" {
		t.Fatalf("expected alt-screen enter sequence, got %q", buf[:n])
	}
}
