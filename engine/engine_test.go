package engine

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vireo-tui/vireo/reactive"
	"github.com/vireo-tui/vireo/render"
	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/term"
)

// memSink collects rendered bytes for assertions without touching a real
// terminal.
type memSink struct {
	buf strings.Builder
}

func (s *memSink) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *memSink) Flush() error                { return nil }

// buildCounter constructs a root box containing a text label bound to a
// count signal and a focusable "button" box whose click handler increments
// it, mirroring the spec's counter scenario.
func buildCounter(st *store.Store, scope *reactive.Scope) ([]store.Entity, *reactive.Signal[int]) {
	count := reactive.NewSimpleSignal(0)

	root := st.Allocate("root")
	st.Width.Set(root, store.Cells(20))
	st.Height.Set(root, store.Cells(3))
	st.FlexDirection.Set(root, store.DirectionColumn)

	label := st.Allocate("label")
	st.Kind.Set(label, store.KindText)
	st.Content.Bind(label, store.FromGetter(func() string {
		return "Count: " + strconv.Itoa(count.Get())
	}))
	st.SetParent(label, root)

	button := st.Allocate("button")
	st.Kind.Set(button, store.KindBox)
	st.Height.Set(button, store.Cells(1))
	st.Focusable.Set(button, true)
	st.TabIndex.Set(button, 0)
	h := st.Handlers.Peek(button)
	h.OnClick = func(store.MouseEvent) {
		count.Update(func(n int) int { return n + 1 })
	}
	h.OnKeyDown = func(ev store.KeyEvent) bool {
		if ev.Key == "enter" {
			count.Update(func(n int) int { return n + 1 })
			return true
		}
		return false
	}
	st.Handlers.Set(button, h)
	st.SetParent(button, root)

	return []store.Entity{root}, count
}

func mountCounter(t *testing.T) (*Engine, *reactive.Signal[int], *memSink) {
	t.Helper()
	st := store.New()
	sink := &memSink{}
	var count *reactive.Signal[int]
	eng := Mount(st, func(st *store.Store, scope *reactive.Scope) []store.Entity {
		var roots []store.Entity
		roots, count = buildCounter(st, scope)
		return roots
	}, Options{
		Mode:          render.ModeInline,
		Profile:       term.ProfileTrueColor,
		Sink:          sink,
		InitialWidth:  20,
		InitialHeight: 3,
	})
	require.NotNil(t, count)
	return eng, count, sink
}

func TestMountProducesFirstFrameWithInitialCount(t *testing.T) {
	eng, _, sink := mountCounter(t)
	defer Unmount(eng)

	assert.Contains(t, sink.buf.String(), "Count: 0")
}

func TestDispatchKeyIncrementsCounterAndRepaints(t *testing.T) {
	eng, count, sink := mountCounter(t)
	defer Unmount(eng)

	eng.Focus().FocusNext() // moves focus onto the button (only focusable entity)
	sink.buf.Reset()

	eng.Dispatch(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 1, count.Peek())
	assert.Contains(t, sink.buf.String(), "Count: 1")
}

func TestDispatchClickRoutesThroughHitGridAndIncrements(t *testing.T) {
	eng, count, _ := mountCounter(t)
	defer Unmount(eng)

	grid := eng.LastGrid()
	require.NotNil(t, grid)

	// the button is the second child, stacked below the text label.
	var bx, by int
	found := false
	for y := 0; y < grid.Height && !found; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.HitAt(x, y) >= 0 {
				bx, by = x, y
				found = true
				break
			}
		}
	}
	require.True(t, found, "expected a hit-testable cell in the frame")

	eng.Dispatch(tea.MouseMsg{X: bx, Y: by, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	eng.Dispatch(tea.MouseMsg{X: bx, Y: by, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Equal(t, 1, count.Peek())
}

func TestBatchedMutationsProduceExactlyOneRepaint(t *testing.T) {
	eng, count, sink := mountCounter(t)
	defer Unmount(eng)

	sink.buf.Reset()
	reactive.Batch(func() {
		count.Update(func(n int) int { return n + 1 })
		count.Update(func(n int) int { return n + 1 })
		count.Update(func(n int) int { return n + 1 })
	})

	// the root effect fires once per flush regardless of how many signal
	// writes happened inside the batch (§8 property 7 batch atomicity).
	assert.Equal(t, 3, count.Peek())
	assert.Contains(t, sink.buf.String(), "Count: 3")
	assert.NotContains(t, sink.buf.String(), "Count: 1")
	assert.NotContains(t, sink.buf.String(), "Count: 2")
}

func TestResizeInvalidatesPreviousFrameAndRepaints(t *testing.T) {
	eng, _, sink := mountCounter(t)
	defer Unmount(eng)

	eng.Resize(10, 2)
	assert.Contains(t, sink.buf.String(), "Count: 0")
}

func TestQuitShortcutSetsQuitFlag(t *testing.T) {
	eng, _, _ := mountCounter(t)
	defer Unmount(eng)

	assert.False(t, eng.Quit())
	eng.Dispatch(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, eng.Quit())
}

func TestUnmountDisposesScopeAndStopsRepainting(t *testing.T) {
	eng, count, sink := mountCounter(t)
	Unmount(eng)

	sink.buf.Reset()
	count.Update(func(n int) int { return n + 1 })

	assert.Empty(t, sink.buf.String(), "disposed scope must not repaint")
}
