package ui

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Orientation is the axis a SplitPane divides.
type Orientation int

const (
	Horizontal Orientation = iota // first pane left, second right
	Vertical                      // first pane top, second bottom
)

// SplitRatioStep is the keyboard resize step.
const SplitRatioStep = 0.05

// SplitPane divides a rectangle between two panes. The divider can be dragged
// with the mouse or nudged from the keyboard; the ratio always stays within
// [Min, Max].
//
// A press on the divider starts a drag. Until the button is released every
// motion event updates the ratio, wherever the pointer is on screen.
type SplitPane struct {
	Orientation Orientation
	Min         float64
	Max         float64
	Default     float64

	ratio    float64
	x, y     int
	width    int
	height   int
	dragging bool
	styles   Styles
}

// NewSplitPane creates a split pane. ratio is clamped into [min, max]; an
// inverted range is swapped.
func NewSplitPane(o Orientation, ratio, lo, hi float64, styles Styles) SplitPane {
	if lo > hi {
		lo, hi = hi, lo
	}
	s := SplitPane{
		Orientation: o,
		Min:         lo,
		Max:         hi,
		styles:      styles,
	}
	s.SetRatio(ratio)
	s.Default = s.ratio
	return s
}

// Ratio returns the share of the first pane.
func (s *SplitPane) Ratio() float64 { return s.ratio }

// SetRatio sets the ratio, clamped to the configured bounds.
func (s *SplitPane) SetRatio(ratio float64) {
	if math.IsNaN(ratio) {
		ratio = s.Default
	}
	if ratio < s.Min {
		ratio = s.Min
	}
	if ratio > s.Max {
		ratio = s.Max
	}
	s.ratio = ratio
}

// SetBounds places the pane on screen. Mouse coordinates are absolute, so
// the origin is needed to map the pointer onto the container.
func (s *SplitPane) SetBounds(x, y, width, height int) {
	s.x, s.y = x, y
	s.width, s.height = max(width, 0), max(height, 0)
}

// Origin returns the top-left screen cell of the pane.
func (s *SplitPane) Origin() (int, int) { return s.x, s.y }

// Increase moves the divider toward the second pane.
func (s *SplitPane) Increase() { s.SetRatio(s.ratio + SplitRatioStep) }

// Decrease moves the divider toward the first pane.
func (s *SplitPane) Decrease() { s.SetRatio(s.ratio - SplitRatioStep) }

// Reset restores the initial ratio.
func (s *SplitPane) Reset() { s.SetRatio(s.Default) }

// Dragging reports whether a drag is in progress.
func (s *SplitPane) Dragging() bool { return s.dragging }

func (s *SplitPane) size() int {
	if s.Orientation == Vertical {
		return s.height
	}
	return s.width
}

// Sizes returns the extent of each pane along the split axis, excluding the
// one-cell divider.
func (s *SplitPane) Sizes() (first, second int) {
	avail := s.size() - DividerSize
	if avail <= 0 {
		return 0, 0
	}
	first = int(math.Round(float64(avail) * s.ratio))
	first = min(max(first, 0), avail)
	return first, avail - first
}

// OnDivider reports whether the screen cell (x, y) is the divider.
func (s *SplitPane) OnDivider(x, y int) bool {
	first, _ := s.Sizes()
	if s.Orientation == Vertical {
		return y == s.y+first && x >= s.x && x < s.x+s.width
	}
	return x == s.x+first && y >= s.y && y < s.y+s.height
}

// HandleMouse processes a mouse event and reports whether the pane consumed
// it. Callers check Ratio afterwards to persist a change.
func (s *SplitPane) HandleMouse(msg tea.MouseMsg) bool {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && s.OnDivider(msg.X, msg.Y) {
			s.dragging = true
			return true
		}
	case tea.MouseActionMotion:
		if s.dragging {
			s.dragTo(msg.X, msg.Y)
			return true
		}
	case tea.MouseActionRelease:
		if s.dragging {
			s.dragTo(msg.X, msg.Y)
			s.dragging = false
			return true
		}
	}
	return false
}

func (s *SplitPane) dragTo(x, y int) {
	size := s.size()
	if size <= 0 {
		return
	}
	pos := x - s.x
	if s.Orientation == Vertical {
		pos = y - s.y
	}
	s.SetRatio(float64(pos) / float64(size))
}

// Render lays out the two pane bodies with the divider between them. Bodies
// are truncated or padded to their pane size.
func (s *SplitPane) Render(first, second string) string {
	a, b := s.Sizes()
	if s.width <= 0 || s.height <= 0 {
		return ""
	}

	if s.Orientation == Vertical {
		top := fit(first, s.width, a)
		bottom := fit(second, s.width, b)
		divider := s.styles.Divider.Render(strings.Repeat("─", s.width))
		return lipgloss.JoinVertical(lipgloss.Left, top, divider, bottom)
	}

	left := fit(first, a, s.height)
	right := fit(second, b, s.height)
	divider := s.styles.Divider.Render(strings.TrimSuffix(strings.Repeat("│\n", s.height), "\n"))
	if s.dragging {
		divider = lipgloss.NewStyle().Foreground(s.styles.Theme.Accent).
			Render(strings.TrimSuffix(strings.Repeat("┃\n", s.height), "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, divider, right)
}

func fit(body string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).MaxWidth(width).
		Height(height).MaxHeight(height).
		Render(body)
}
