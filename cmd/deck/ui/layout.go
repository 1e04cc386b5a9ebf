package ui

// Layout constants for consistent spacing and dimensions
const (
	SidebarWidth    = 22
	HeaderHeight    = 1
	FooterHeight    = 1
	StatusBarHeight = 1
	InputHeight     = 3
	DividerSize     = 1

	PanelBorderWidth = 1
	PanelPaddingH    = 1

	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 16
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	SidebarOpen    bool
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int, sidebarOpen bool) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		SidebarOpen:    sidebarOpen,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentX returns the screen column where screen content starts.
func (l LayoutConfig) ContentX() int {
	if l.SidebarOpen {
		return SidebarWidth
	}
	return 0
}

// ContentY returns the screen row where screen content starts.
func (l LayoutConfig) ContentY() int {
	return HeaderHeight
}

// ContentWidth returns the width available to the active screen
func (l LayoutConfig) ContentWidth() int {
	return max(l.TerminalWidth-l.ContentX(), 0)
}

// ContentHeight returns the height available to the active screen
func (l LayoutConfig) ContentHeight() int {
	return max(l.TerminalHeight-HeaderHeight-FooterHeight, 0)
}

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	return max(panelWidth-(PanelBorderWidth*2)-(PanelPaddingH*2), 0)
}

// PanelContentHeight returns the content height inside a bordered panel
func PanelContentHeight(panelHeight int) int {
	return max(panelHeight-(PanelBorderWidth*2), 0)
}
