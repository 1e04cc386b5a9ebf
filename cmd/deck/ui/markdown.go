package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant replies, caching one glamour renderer
// per wrap width.
type MarkdownRenderer struct {
	mu        sync.Mutex
	dark      bool
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for the given theme.
func NewMarkdownRenderer(theme Theme) *MarkdownRenderer {
	return &MarkdownRenderer{dark: theme.IsDark, renderers: make(map[int]*glamour.TermRenderer)}
}

func (m *MarkdownRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	style := glamour.WithStylePath("dark")
	if !m.dark {
		style = glamour.WithStylePath("light")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}

// Render returns content rendered as markdown at the given width. Any
// failure, including a panic inside glamour, falls back to the raw text.
func (m *MarkdownRenderer) Render(content string, width int) (out string) {
	if width < 20 {
		width = 20
	}
	defer func() {
		if r := recover(); r != nil {
			out = content
		}
	}()

	r, err := m.renderer(width)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// FormatHours renders an hour count compactly.
func FormatHours(h float64) string {
	if h == float64(int(h)) {
		return fmt.Sprintf("%dh", int(h))
	}
	return fmt.Sprintf("%.1fh", h)
}
