package views

import (
	"fmt"
	"strings"

	"careerdeck/internal/career"
	"careerdeck/internal/logging"
	"careerdeck/internal/types"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const maxDashboardJobs = 6

type dashboardLoadedMsg struct {
	data *types.Dashboard
	errs []error
}

// DashboardPage shows the market match, job matches, live feeds, the market
// ticker and growth status.
type DashboardPage struct {
	deps     *Deps
	viewport viewport.Model
	data     *types.Dashboard
	loading  bool
	failed   int
	width    int
	height   int
}

// NewDashboardPage creates the dashboard.
func NewDashboardPage(deps *Deps) DashboardPage {
	return DashboardPage{deps: deps, viewport: viewport.New(80, 20)}
}

// Init loads the dashboard.
func (m DashboardPage) Init() tea.Cmd {
	return m.load()
}

func (m DashboardPage) load() tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		d, errs := client.Dashboard(ctx)
		return dashboardLoadedMsg{data: d, errs: errs}
	}
}

// Update handles dashboard messages.
func (m DashboardPage) Update(msg tea.Msg) (DashboardPage, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.data = msg.data
		m.failed = len(msg.errs)
		m.applyToState()
		m.viewport.SetContent(m.renderContent())
		if m.failed > 0 {
			for _, err := range msg.errs {
				logging.APIDebug("dashboard panel failed: %v", err)
			}
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("%d dashboard panel(s) failed to load", len(msg.errs)), err: true}
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			m.loading = true
			return m, tea.Batch(m.load(), statusCmd("Refreshing dashboard..."))
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// applyToState restores the last analysis and growth progress into the
// shared store.
func (m DashboardPage) applyToState() {
	if m.data == nil {
		return
	}
	st := m.deps.State
	if mm := m.data.Market; mm != nil {
		analysis := mm.Analysis
		st.SetProfile(&analysis)
		if len(st.GeneratedProjects()) == 0 && len(mm.Projects) > 0 {
			st.SetGeneratedProjects(career.Normalize(mm.Projects, m.deps.now()))
		}
	}
	if g := m.data.Growth; g.Stage != "" || g.Progress > 0 {
		st.SetProgress(growthProgress(g))
	}
}

func growthProgress(g types.GrowthStatus) int {
	if g.Progress > 0 {
		return g.Progress
	}
	return career.StageProgress(g.Stage)
}

// SetSize updates the viewport.
func (m *DashboardPage) SetSize(w, h int) {
	m.width, m.height = w, h
	m.viewport.Width = max(w, 0)
	m.viewport.Height = max(h-2, 0)
	m.viewport.SetContent(m.renderContent())
}

// View renders the dashboard.
func (m DashboardPage) View() string {
	s := m.deps.Styles
	header := s.Title.Render("Dashboard") + "  " + s.Muted.Render("r refresh")
	return header + "\n\n" + m.viewport.View()
}

func (m DashboardPage) renderContent() string {
	s := m.deps.Styles
	if m.data == nil {
		return s.Muted.Render("Loading...")
	}
	d := m.data
	width := max(m.width, 40)

	var sb strings.Builder

	// Market match
	sb.WriteString(s.Bold.Render("Market match"))
	sb.WriteString("\n")
	if d.Market == nil {
		sb.WriteString(s.Muted.Render("Upload a resume in the Analyzer to see your market match."))
	} else {
		role := d.Market.Role
		if role == "" {
			role = "(no target role)"
		}
		sb.WriteString(fmt.Sprintf("%s  %s\n", s.Body.Render(role), s.Badge.Render(d.Market.Stage)))
		if skills := d.Market.Analysis.CurrentSkills; len(skills) > 0 {
			sb.WriteString(s.Muted.Render("Skills: ") + strings.Join(skills, ", ") + "\n")
		}
		if gaps := d.Market.Analysis.MissingSkills; len(gaps) > 0 {
			sb.WriteString(s.Warning.Render("Gaps: ") + strings.Join(gaps, ", "))
		}
	}
	sb.WriteString("\n\n")

	// Growth
	sb.WriteString(s.Bold.Render("Growth"))
	sb.WriteString("\n")
	progress := growthProgress(d.Growth)
	stage := d.Growth.Stage
	if stage == "" {
		stage = career.Stages[0].Name
	}
	sb.WriteString(fmt.Sprintf("%s %3d%%  %s\n\n", s.RenderProgress(progress, min(width-20, 40)), progress, stage))

	// Jobs
	sb.WriteString(s.Bold.Render("Job matches"))
	sb.WriteString("\n")
	if len(d.Jobs) == 0 {
		sb.WriteString(s.Muted.Render("No matches yet") + "\n")
	}
	for i, j := range d.Jobs {
		if i == maxDashboardJobs {
			sb.WriteString(s.Muted.Render(fmt.Sprintf("  ... %d more", len(d.Jobs)-i)) + "\n")
			break
		}
		line := fmt.Sprintf("%3d%%  %s · %s", j.MatchScore, j.Title, j.Company)
		if j.Location != "" {
			line += " · " + j.Location
		}
		sb.WriteString(truncate(line, width) + "\n")
	}
	sb.WriteString("\n")

	// Feeds
	if len(d.Feeds.HotJobs) > 0 || len(d.Feeds.HotProjects) > 0 {
		sb.WriteString(s.Bold.Render("Live feeds"))
		sb.WriteString("\n")
		for _, j := range d.Feeds.HotJobs {
			sb.WriteString(s.Info.Render("  job  ") + truncate(j, width-7) + "\n")
		}
		for _, p := range d.Feeds.HotProjects {
			sb.WriteString(s.Success.Render("  idea ") + truncate(p, width-7) + "\n")
		}
		sb.WriteString("\n")
	}

	// Ticker
	if len(d.Ticker) > 0 {
		parts := make([]string, 0, len(d.Ticker))
		for _, t := range d.Ticker {
			change := fmt.Sprintf("%+.1f%%", t.Change)
			if t.Change < 0 {
				change = s.Error.Render(change)
			} else {
				change = s.Success.Render(change)
			}
			parts = append(parts, t.Symbol+" "+change)
		}
		sb.WriteString(s.Bold.Render("Ticker") + "  " + strings.Join(parts, "   "))
		sb.WriteString("\n")
	}

	if m.failed > 0 {
		sb.WriteString("\n" + s.Warning.Render(fmt.Sprintf("%d panel(s) unavailable", m.failed)))
	}
	return sb.String()
}

// truncate cuts s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

