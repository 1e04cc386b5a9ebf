package views

import (
	"fmt"
	"strings"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/types"
)

type phaseState int

const (
	phaseLocked phaseState = iota
	phaseActive
	phaseDone
)

// stateOf prefers the server's phase status and falls back to the
// project's current phase.
func stateOf(p types.Project, ph types.Phase) phaseState {
	switch strings.ToLower(ph.Status) {
	case "completed", "complete", "done":
		return phaseDone
	case "active", "in_progress", "current":
		return phaseActive
	case "locked":
		return phaseLocked
	}
	switch {
	case ph.ID < p.CurrentPhase:
		return phaseDone
	case ph.ID == p.CurrentPhase:
		return phaseActive
	default:
		return phaseLocked
	}
}

// completedPhases counts phases in the done state.
func completedPhases(p types.Project) int {
	n := 0
	for _, ph := range p.Phases {
		if stateOf(p, ph) == phaseDone {
			n++
		}
	}
	return n
}

// projectProgress returns the percentage of completed phases.
func projectProgress(p types.Project) int {
	total := p.TotalPhases
	if total == 0 {
		total = len(p.Phases)
	}
	if total == 0 {
		return 0
	}
	return completedPhases(p) * 100 / total
}

// renderPhases draws the project brief: title, stack, progress and the
// phase roadmap with the active phase's description and tasks expanded.
func renderPhases(s ui.Styles, p types.Project, width int) string {
	var sb strings.Builder
	sb.WriteString(s.Title.Render(truncate(p.Title, width)) + "\n")
	if p.TechStack != "" {
		sb.WriteString(s.Muted.Render(truncate(p.TechStack, width)) + "\n")
	}
	pct := projectProgress(p)
	sb.WriteString(fmt.Sprintf("%s %d%%\n\n", s.RenderProgress(pct, max(min(width-6, 30), 2)), pct))

	if len(p.Phases) == 0 {
		sb.WriteString(s.Muted.Render("No phases yet"))
		return sb.String()
	}
	for _, ph := range p.Phases {
		name := truncate(ph.Title, max(width-2, 1))
		var mark, title string
		switch stateOf(p, ph) {
		case phaseDone:
			mark, title = s.Success.Render("✓"), s.Muted.Render(name)
		case phaseActive:
			mark, title = s.Prompt.Render("▶"), s.Bold.Render(name)
		default:
			mark, title = s.Muted.Render("○"), s.Muted.Render(name)
		}
		sb.WriteString(mark + " " + title + "\n")
		if stateOf(p, ph) != phaseActive {
			continue
		}
		if ph.Description != "" {
			sb.WriteString(s.Subtitle.Render(wrap(ph.Description, max(width-2, 10), "  ")) + "\n")
		}
		for _, task := range ph.Tasks {
			sb.WriteString(s.Body.Render(wrap(task, max(width-6, 10), "    ")) + "\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// wrap breaks text on spaces to the given width, prefixing every line.
func wrap(text string, width int, prefix string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, prefix+line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, prefix+line)
	return strings.Join(lines, "\n")
}

// RenderProjectBrief renders the project brief outside the interactive
// interface.
func RenderProjectBrief(s ui.Styles, p types.Project, width int) string {
	return renderPhases(s, p, width)
}
