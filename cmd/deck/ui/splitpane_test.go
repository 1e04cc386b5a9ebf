package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func TestSplitPaneClampsInitialRatio(t *testing.T) {
	s := NewSplitPane(Horizontal, 0.9, 0.15, 0.6, DefaultStyles())
	assert.Equal(t, 0.6, s.Ratio())

	s = NewSplitPane(Horizontal, 0.3, 0.6, 0.15, DefaultStyles())
	assert.Equal(t, 0.15, s.Min, "inverted bounds are swapped")
	assert.Equal(t, 0.3, s.Ratio())
}

func TestSplitPaneSizes(t *testing.T) {
	s := NewSplitPane(Horizontal, 0.3, 0.15, 0.6, DefaultStyles())
	s.SetBounds(0, 0, 101, 20)
	first, second := s.Sizes()
	assert.Equal(t, 30, first)
	assert.Equal(t, 70, second)

	s.SetBounds(0, 0, 0, 0)
	first, second = s.Sizes()
	assert.Zero(t, first)
	assert.Zero(t, second)
}

func TestSplitPaneDragCapturesWholeSurface(t *testing.T) {
	s := NewSplitPane(Horizontal, 0.3, 0.15, 0.6, DefaultStyles())
	s.SetBounds(10, 2, 101, 20)
	first, _ := s.Sizes()
	divX := 10 + first

	require.True(t, s.OnDivider(divX, 5))
	assert.False(t, s.HandleMouse(motion(50, 5)), "motion without a drag is ignored")

	require.True(t, s.HandleMouse(press(divX, 5)))
	assert.True(t, s.Dragging())

	// Pointer leaves the divider and even the pane; the drag still follows.
	assert.True(t, s.HandleMouse(motion(10+50, 19)))
	assert.InDelta(t, 50.0/101.0, s.Ratio(), 1e-9)

	assert.True(t, s.HandleMouse(release(10+40, 30)))
	assert.False(t, s.Dragging())
	assert.InDelta(t, 40.0/101.0, s.Ratio(), 1e-9)

	before := s.Ratio()
	assert.False(t, s.HandleMouse(motion(10+20, 5)), "release ends capture")
	assert.Equal(t, before, s.Ratio())
}

func TestSplitPaneRatioNeverLeavesBounds(t *testing.T) {
	s := NewSplitPane(Horizontal, 0.3, 0.15, 0.6, DefaultStyles())
	s.SetBounds(0, 0, 100, 10)
	first, _ := s.Sizes()
	require.True(t, s.HandleMouse(press(first, 0)))

	for _, x := range []int{-500, -1, 0, 5, 14, 15, 30, 59, 60, 61, 99, 100, 10_000} {
		s.HandleMouse(motion(x, 3))
		assert.GreaterOrEqual(t, s.Ratio(), 0.15, "x=%d", x)
		assert.LessOrEqual(t, s.Ratio(), 0.6, "x=%d", x)
	}
}

func TestSplitPaneVertical(t *testing.T) {
	s := NewSplitPane(Vertical, 0.6, 0.2, 0.8, DefaultStyles())
	s.SetBounds(30, 1, 50, 41)
	top, bottom := s.Sizes()
	assert.Equal(t, 24, top)
	assert.Equal(t, 16, bottom)

	require.True(t, s.OnDivider(40, 1+top))
	assert.False(t, s.OnDivider(40, 1+top+1))

	require.True(t, s.HandleMouse(press(40, 1+top)))
	s.HandleMouse(motion(0, 1+10))
	assert.InDelta(t, 10.0/41.0, s.Ratio(), 1e-9)
	s.HandleMouse(motion(0, 1+40))
	assert.Equal(t, 0.8, s.Ratio())
}

func TestSplitPaneIgnoresOtherButtons(t *testing.T) {
	s := NewSplitPane(Horizontal, 0.3, 0.15, 0.6, DefaultStyles())
	s.SetBounds(0, 0, 100, 10)
	first, _ := s.Sizes()
	msg := press(first, 2)
	msg.Button = tea.MouseButtonRight
	assert.False(t, s.HandleMouse(msg))
	assert.False(t, s.HandleMouse(press(first+3, 2)), "press off the divider")
	assert.False(t, s.Dragging())
}

func TestSplitPaneKeyboardResize(t *testing.T) {
	s := NewSplitPane(Horizontal, 0.3, 0.15, 0.6, DefaultStyles())
	s.Increase()
	assert.InDelta(t, 0.35, s.Ratio(), 1e-9)
	for i := 0; i < 20; i++ {
		s.Increase()
	}
	assert.Equal(t, 0.6, s.Ratio())
	for i := 0; i < 20; i++ {
		s.Decrease()
	}
	assert.Equal(t, 0.15, s.Ratio())
	s.Reset()
	assert.Equal(t, 0.3, s.Ratio())
}

func TestSplitPaneRender(t *testing.T) {
	s := NewSplitPane(Horizontal, 0.5, 0.15, 0.6, DefaultStyles())
	s.SetBounds(0, 0, 21, 3)
	out := s.Render("left", "right")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "left")
	assert.Contains(t, lines[0], "right")
	assert.Contains(t, lines[0], "│")

	v := NewSplitPane(Vertical, 0.5, 0.2, 0.8, DefaultStyles())
	v.SetBounds(0, 0, 10, 5)
	out = v.Render("top", "bottom")
	lines = strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "top")
	assert.Contains(t, lines[2], "─")
	assert.Contains(t, lines[3], "bottom")

	empty := NewSplitPane(Horizontal, 0.5, 0.15, 0.6, DefaultStyles())
	assert.Empty(t, empty.Render("a", "b"))
}
