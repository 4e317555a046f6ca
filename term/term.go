// Package term defines the terminal transport contract (§6): the output
// byte sink, cursor control, and terminal-size signal source the pipeline
// glue drives. Actual raw-mode/size queries are the bubbletea-hosted
// command's job (cmd/vireo-demo); this package holds the interfaces, their
// stdout-backed implementations, color-profile detection, and the
// resize-signal plumbing.
package term

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/vireo-tui/vireo/reactive"
)

// ColorProfile names the terminal's color capability, used by the diff
// renderer to decide whether to degrade truecolor cells (§6).
type ColorProfile uint8

const (
	ProfileTrueColor ColorProfile = iota
	ProfileANSI256
	ProfileANSI
	ProfileAscii
)

// DetectColorProfile probes the hosting terminal's color capability via
// lipgloss's termenv-backed detection, the same mechanism the wider
// charm/pack ecosystem uses to decide what a renderer can safely emit.
func DetectColorProfile() ColorProfile {
	switch lipgloss.DefaultRenderer().ColorProfile() {
	case lipgloss.TrueColor:
		return ProfileTrueColor
	case lipgloss.ANSI256:
		return ProfileANSI256
	case lipgloss.ANSI:
		return ProfileANSI
	default:
		return ProfileAscii
	}
}

// Screen is the output byte sink + alternate-screen control surface (§6,
// render-mode setup bytes).
type Screen interface {
	Write(data []byte) (int, error)
	Flush() error
	EnterAlternateScreen() error
	ExitAlternateScreen() error
}

// Cursor is the show/hide/move/style control surface a renderer drives
// alongside Screen.
type Cursor interface {
	Show() error
	Hide() error
	Move(x, y int) error
	SetStyle(style CursorStyle) error
}

// CursorStyle names the DECSCUSR style a Cursor.SetStyle call selects.
type CursorStyle int

const (
	CursorStyleBlock CursorStyle = iota
	CursorStyleUnderline
	CursorStyleBar
)

// StdoutScreen is the default Screen backed by os.Stdout.
type StdoutScreen struct {
	out *os.File
}

// NewStdoutScreen creates a Screen writing to os.Stdout.
func NewStdoutScreen() *StdoutScreen {
	return &StdoutScreen{out: os.Stdout}
}

func (s *StdoutScreen) Write(data []byte) (int, error) { return s.out.Write(data) }

// Flush is a no-op for os.Stdout, which has no internal buffer to drain.
func (s *StdoutScreen) Flush() error { return nil }

func (s *StdoutScreen) EnterAlternateScreen() error {
	_, err := s.Write([]byte("\x1b[?1049h"))
	return err
}

func (s *StdoutScreen) ExitAlternateScreen() error {
	_, err := s.Write([]byte("\x1b[?1049l"))
	return err
}

// StdoutCursor is the default Cursor, writing DECSCUSR/CUP sequences to the
// given Screen.
type StdoutCursor struct {
	screen Screen
}

// NewStdoutCursor creates a Cursor writing through screen.
func NewStdoutCursor(screen Screen) *StdoutCursor {
	return &StdoutCursor{screen: screen}
}

func (c *StdoutCursor) Show() error {
	_, err := c.screen.Write([]byte("\x1b[?25h"))
	return err
}

func (c *StdoutCursor) Hide() error {
	_, err := c.screen.Write([]byte("\x1b[?25l"))
	return err
}

func (c *StdoutCursor) Move(x, y int) error {
	_, err := c.screen.Write([]byte(cup(x, y)))
	return err
}

func (c *StdoutCursor) SetStyle(style CursorStyle) error {
	var seq string
	switch style {
	case CursorStyleBlock:
		seq = "\x1b[2 q"
	case CursorStyleUnderline:
		seq = "\x1b[4 q"
	case CursorStyleBar:
		seq = "\x1b[6 q"
	}
	_, err := c.screen.Write([]byte(seq))
	return err
}

func cup(x, y int) string {
	return "\x1b[" + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H"
}

// ResizeWatcher bridges SIGWINCH into the terminal_width/terminal_height
// signals the layout engine reads (§6 "Terminal-size signal"), following the
// teacher's signal-handler-goroutine shape.
type ResizeWatcher struct {
	width, height *reactive.Signal[int]
	sizeFn        func() (int, int)
	stop          chan struct{}
}

// NewResizeWatcher creates a watcher; sizeFn queries the current terminal
// dimensions (typically *os.File's size via the hosting bubbletea program).
func NewResizeWatcher(width, height *reactive.Signal[int], sizeFn func() (int, int)) *ResizeWatcher {
	return &ResizeWatcher{width: width, height: height, sizeFn: sizeFn, stop: make(chan struct{})}
}

// Start queries the initial size, then listens for SIGWINCH and refreshes
// the signals on every resize. Start returns immediately; Stop ends the
// listener goroutine.
func (r *ResizeWatcher) Start() {
	r.refresh()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	go func() {
		for {
			select {
			case <-sigChan:
				r.refresh()
			case <-r.stop:
				signal.Stop(sigChan)
				return
			}
		}
	}()
}

func (r *ResizeWatcher) refresh() {
	w, h := r.sizeFn()
	r.width.Set(w)
	r.height.Set(h)
}

// Stop ends the SIGWINCH listener goroutine.
func (r *ResizeWatcher) Stop() { close(r.stop) }
