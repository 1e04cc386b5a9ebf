package views

import (
	"fmt"
	"strings"

	"careerdeck/internal/career"
	"careerdeck/internal/logging"
	"careerdeck/internal/types"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	workspaceLoadedMsg struct {
		projects []types.Project
		err      error
	}

	sessionJoinedMsg struct {
		projectID string
		err       error
	}
)

// ProjectsPage lists the active projects and redeems shared-session codes.
type ProjectsPage struct {
	deps    *Deps
	join    textinput.Model
	cursor  int
	joining bool
	loading bool
	width   int
	height  int
}

// NewProjectsPage creates the projects list.
func NewProjectsPage(deps *Deps) ProjectsPage {
	ti := textinput.New()
	ti.Placeholder = "6-digit code"
	ti.Prompt = "Join session: "
	ti.CharLimit = 12
	return ProjectsPage{deps: deps, join: ti, loading: true}
}

// Init loads the workspace.
func (m ProjectsPage) Init() tea.Cmd {
	return m.load()
}

func (m ProjectsPage) load() tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		ps, err := client.Workspace(ctx)
		return workspaceLoadedMsg{projects: ps, err: err}
	}
}

func (m ProjectsPage) joinSession(code string) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		id, err := client.JoinSession(ctx, code)
		return sessionJoinedMsg{projectID: id, err: err}
	}
}

// Update handles list navigation and joins.
func (m ProjectsPage) Update(msg tea.Msg) (ProjectsPage, tea.Cmd) {
	switch msg := msg.(type) {
	case workspaceLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, errorCmd("Could not load projects", msg.err)
		}
		m.deps.State.SetActiveProjects(msg.projects)
		m.cursor = min(m.cursor, max(len(msg.projects)-1, 0))
		return m, nil

	case sessionJoinedMsg:
		m.joining = false
		if msg.err != nil || msg.projectID == "" {
			logging.CollabWarn("join failed: %v", msg.err)
			return m, func() tea.Msg { return statusMsg{text: career.ErrSessionExpired.Error(), err: true} }
		}
		m.join.Reset()
		m.join.Blur()
		logging.Collab("joined session for project %s", msg.projectID)
		return m, func() tea.Msg { return openProjectMsg{projectID: msg.projectID} }

	case tea.KeyMsg:
		if m.join.Focused() {
			switch msg.Type {
			case tea.KeyEsc, tea.KeyTab:
				m.join.Blur()
				return m, nil
			case tea.KeyEnter:
				if m.joining {
					return m, nil
				}
				code, err := career.NormalizeSessionCode(m.join.Value())
				if err != nil {
					return m, func() tea.Msg { return statusMsg{text: err.Error(), err: true} }
				}
				m.joining = true
				return m, tea.Batch(m.joinSession(code), statusCmd("Joining session..."))
			}
			var cmd tea.Cmd
			m.join, cmd = m.join.Update(msg)
			return m, cmd
		}

		projects := m.deps.State.ActiveProjects()
		switch msg.String() {
		case "tab", "/":
			return m, m.join.Focus()
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, max(len(projects)-1, 0))
		case "r":
			m.loading = true
			return m, m.load()
		case "enter":
			if m.cursor < len(projects) {
				id := projects[m.cursor].ID
				return m, func() tea.Msg { return openProjectMsg{projectID: id} }
			}
		}
	}
	return m, nil
}

// SetSize records the page size.
func (m *ProjectsPage) SetSize(w, h int) {
	m.width, m.height = w, h
	m.join.Width = max(w-len(m.join.Prompt)-2, 8)
}

// View renders the project list and the join box.
func (m ProjectsPage) View() string {
	s := m.deps.Styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Projects") + "  " + s.Muted.Render("enter open · r refresh · tab join"))
	sb.WriteString("\n\n")

	projects := m.deps.State.ActiveProjects()
	switch {
	case m.loading && len(projects) == 0:
		sb.WriteString(s.Muted.Render("Loading..."))
	case len(projects) == 0:
		sb.WriteString(s.Muted.Render("No active projects. Start one from the Project Lab."))
	}
	for i, p := range projects {
		marker := "  "
		if i == m.cursor && !m.join.Focused() {
			marker = s.Prompt.Render("▸ ")
		}
		pct := projectProgress(p)
		line := fmt.Sprintf("%s %3d%%  %s", s.RenderProgress(pct, 10), pct, p.Title)
		sb.WriteString(marker + line + "\n")
		if p.TechStack != "" {
			sb.WriteString("    " + s.Muted.Render(truncate(p.TechStack, max(m.width-4, 10))) + "\n")
		}
	}

	sb.WriteString("\n" + m.join.View())
	return sb.String()
}
