package main

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vireo-tui/vireo/engine"
	"github.com/vireo-tui/vireo/reactive"
	"github.com/vireo-tui/vireo/store"
)

// buildDemoRoot assembles the counter-and-list demo tree: a bordered panel
// containing a label bound to a count signal, a focusable increment button,
// and a scrollable list of rows, exercising layout, focus, scroll and text
// wrapping in one screen.
func buildDemoRoot(st *store.Store, scope *reactive.Scope) []store.Entity {
	count := reactive.NewSimpleSignal(0)

	root := st.Allocate("root")
	st.FlexDirection.Set(root, store.DirectionColumn)
	st.Padding.Set(root, store.Insets{Top: 1, Right: 2, Bottom: 1, Left: 2})
	st.Gap.Set(root, 1)
	st.Border.Set(root, store.Borders{
		Top:    store.BorderSide{Width: 1, Style: store.BorderRounded},
		Right:  store.BorderSide{Width: 1, Style: store.BorderRounded},
		Bottom: store.BorderSide{Width: 1, Style: store.BorderRounded},
		Left:   store.BorderSide{Width: 1, Style: store.BorderRounded},
	})

	title := st.Allocate("title")
	st.Kind.Set(title, store.KindText)
	st.Content.Set(title, "vireo-demo — tab to focus, enter to increment, arrows to scroll")
	st.TextWrap.Set(title, store.TextWrapWord)
	st.Attrs.Set(title, store.AttrBold)
	st.SetParent(title, root)

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
	st.Background.Set(button, store.RGB(40, 90, 200))
	bh := st.Handlers.Peek(button)
	increment := func() { count.Update(func(n int) int { return n + 1 }) }
	bh.OnClick = func(store.MouseEvent) { increment() }
	bh.OnKeyDown = func(ev store.KeyEvent) bool {
		if ev.Key == "enter" {
			increment()
			return true
		}
		return false
	}
	st.Handlers.Set(button, bh)
	st.SetParent(button, root)

	buttonLabel := st.Allocate("button-label")
	st.Kind.Set(buttonLabel, store.KindText)
	st.Content.Set(buttonLabel, "[ increment ]")
	st.SetParent(buttonLabel, button)

	list := st.Allocate("list")
	st.Height.Set(list, store.Cells(6))
	st.Overflow.Set(list, store.OverflowAuto)
	st.Focusable.Set(list, true)
	st.TabIndex.Set(list, 1)
	st.FlexDirection.Set(list, store.DirectionColumn)
	st.SetParent(list, root)

	for i := 0; i < 20; i++ {
		row := st.Allocate("")
		st.Kind.Set(row, store.KindText)
		st.Height.Set(row, store.Cells(1))
		st.Content.Set(row, "row "+strconv.Itoa(i))
		st.SetParent(row, list)
	}

	return []store.Entity{root}
}

// model adapts an *engine.Engine to tea.Model: the engine's own renderer
// writes directly to the output sink, so View always returns the empty
// string — bubbletea here supplies only the input loop and raw-mode/resize
// lifecycle, not its own rendering, mirroring the teacher's "TUI program
// event loop, application owns the frame" split.
type model struct {
	eng *engine.Engine
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.eng.Dispatch(msg)
	if m.eng.Quit() {
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string { return "" }
