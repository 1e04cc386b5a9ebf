package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"careerdeck/internal/api"
	"careerdeck/internal/career"
	"careerdeck/internal/logging"
	"careerdeck/internal/types"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type analyzerFocus int

const (
	focusResumePath analyzerFocus = iota
	focusTargetRole
	focusProjectLab
	focusJobDescription
	analyzerFields
)

type (
	analyzedMsg struct {
		analysis *types.Analysis
		err      error
	}

	projectStartedMsg struct {
		result *api.StartResult
		err    error
	}

	resumeBuiltMsg struct {
		resume *types.Resume
		err    error
	}
)

// AnalyzerPage uploads a resume for analysis and lists the Project Lab
// suggestions, any of which can be started as an active project. It also
// builds a resume tailored to a pasted job description.
type AnalyzerPage struct {
	deps      *Deps
	path      textinput.Model
	role      textinput.Model
	job       textinput.Model
	focus     analyzerFocus
	cursor    int
	analyzing bool
	starting  bool
	building  bool
	resume    *types.Resume
	width     int
	height    int
}

// NewAnalyzerPage creates the analyzer.
func NewAnalyzerPage(deps *Deps) AnalyzerPage {
	path := textinput.New()
	path.Placeholder = "path/to/resume.pdf"
	path.Prompt = "Resume: "
	path.Focus()

	role := textinput.New()
	role.Placeholder = "e.g. Backend Engineer"
	role.Prompt = "Target role: "

	job := textinput.New()
	job.Placeholder = "Software Engineer at Acme. Needs Go, SQL and cloud experience..."
	job.Prompt = "Target job: "
	job.CharLimit = 4000

	return AnalyzerPage{deps: deps, path: path, role: role, job: job}
}

// Init focuses the path input.
func (m AnalyzerPage) Init() tea.Cmd {
	return textinput.Blink
}

func (m AnalyzerPage) analyze(path, role string) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return analyzedMsg{err: err}
		}
		defer f.Close()
		a, err := client.Analyze(ctx, filepath.Base(path), f, role)
		return analyzedMsg{analysis: a, err: err}
	}
}

func (m AnalyzerPage) start(p types.GeneratedProject) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		res, err := client.StartProject(ctx, p.Title, strings.Join(p.Tech, ", "), p.Description)
		return projectStartedMsg{result: res, err: err}
	}
}

func (m AnalyzerPage) buildResume(jobDescription string) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		r, err := client.BuildResume(ctx, jobDescription)
		return resumeBuiltMsg{resume: r, err: err}
	}
}

func (m *AnalyzerPage) setFocus(f analyzerFocus) {
	m.focus = f
	m.path.Blur()
	m.role.Blur()
	m.job.Blur()
	switch f {
	case focusResumePath:
		m.path.Focus()
	case focusTargetRole:
		m.role.Focus()
	case focusJobDescription:
		m.job.Focus()
	}
}

// Update handles analyzer input.
func (m AnalyzerPage) Update(msg tea.Msg) (AnalyzerPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyTab:
			m.setFocus((m.focus + 1) % analyzerFields)
			return m, nil
		case tea.KeyShiftTab:
			m.setFocus((m.focus + analyzerFields - 1) % analyzerFields)
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}
		if m.focus == focusProjectLab {
			n := len(m.deps.State.GeneratedProjects())
			switch msg.String() {
			case "up", "k":
				m.cursor = max(m.cursor-1, 0)
			case "down", "j":
				m.cursor = min(m.cursor+1, max(n-1, 0))
			}
			return m, nil
		}

	case analyzedMsg:
		m.analyzing = false
		if msg.err != nil {
			logging.APIError("analyze failed: %v", msg.err)
			return m, errorCmd("Analysis failed", msg.err)
		}
		profile := msg.analysis.Profile
		m.deps.State.SetProfile(&profile)
		m.deps.State.SetGeneratedProjects(career.Normalize(msg.analysis.Projects, m.deps.now()))
		m.cursor = 0
		return m, statusCmd(fmt.Sprintf("Analysis complete: %d project suggestion(s)", len(msg.analysis.Projects)))

	case resumeBuiltMsg:
		m.building = false
		if msg.err != nil {
			logging.APIError("resume build failed: %v", msg.err)
			return m, errorCmd("Failed to generate resume", msg.err)
		}
		m.resume = msg.resume
		return m, statusCmd("Resume ready")

	case projectStartedMsg:
		m.starting = false
		m.deps.observeWrite("project_start", msg.err)
		if msg.err != nil {
			return m, errorCmd("Could not start project", msg.err)
		}
		p := msg.result.Project
		m.deps.State.AddActiveProject(p)
		logging.Collab("project %s %s", p.ID, msg.result.Status)
		return m, func() tea.Msg { return openProjectMsg{projectID: p.ID} }
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusResumePath:
		m.path, cmd = m.path.Update(msg)
	case focusTargetRole:
		m.role, cmd = m.role.Update(msg)
	case focusJobDescription:
		m.job, cmd = m.job.Update(msg)
	}
	return m, cmd
}

func (m AnalyzerPage) submit() (AnalyzerPage, tea.Cmd) {
	if m.focus == focusJobDescription {
		jd := strings.TrimSpace(m.job.Value())
		if jd == "" || m.building {
			return m, nil
		}
		m.building = true
		return m, tea.Batch(m.buildResume(jd), statusCmd("Architecting resume..."))
	}
	if m.focus == focusProjectLab {
		projects := m.deps.State.GeneratedProjects()
		if m.starting || m.cursor >= len(projects) {
			return m, nil
		}
		m.starting = true
		return m, tea.Batch(m.start(projects[m.cursor]), statusCmd("Starting "+projects[m.cursor].Title+"..."))
	}
	if m.analyzing {
		return m, nil
	}
	path := strings.TrimSpace(m.path.Value())
	role := strings.TrimSpace(m.role.Value())
	if path == "" {
		return m, func() tea.Msg { return statusMsg{text: "Choose a resume file first", err: true} }
	}
	if m.focus == focusResumePath && role == "" {
		m.setFocus(focusTargetRole)
		return m, nil
	}
	m.analyzing = true
	return m, tea.Batch(m.analyze(path, role), statusCmd("Analyzing resume..."))
}

// SetSize records the page size.
func (m *AnalyzerPage) SetSize(w, h int) {
	m.width, m.height = w, h
	m.path.Width = max(w-len(m.path.Prompt)-2, 10)
	m.role.Width = max(w-len(m.role.Prompt)-2, 10)
	m.job.Width = max(w-len(m.job.Prompt)-2, 10)
}

// View renders the form, the analysis and the Project Lab.
func (m AnalyzerPage) View() string {
	s := m.deps.Styles
	var sb strings.Builder

	sb.WriteString(s.Title.Render("Resume Analyzer"))
	sb.WriteString("\n\n")
	sb.WriteString(m.path.View() + "\n")
	sb.WriteString(m.role.View() + "\n")
	if m.analyzing {
		sb.WriteString(s.Muted.Render("Analyzing..."))
	}
	sb.WriteString("\n")

	if p := m.deps.State.Profile(); p != nil {
		sb.WriteString(s.Bold.Render("Profile"))
		sb.WriteString("\n")
		if p.PersonalDetails.Name != "" {
			sb.WriteString(p.PersonalDetails.Name)
			if p.PersonalDetails.Email != "" {
				sb.WriteString(" " + s.Muted.Render("<"+p.PersonalDetails.Email+">"))
			}
			sb.WriteString("\n")
		}
		if len(p.CurrentSkills) > 0 {
			sb.WriteString(s.Muted.Render("Skills: ") + truncate(strings.Join(p.CurrentSkills, ", "), max(m.width-8, 10)) + "\n")
		}
		if len(p.MissingSkills) > 0 {
			sb.WriteString(s.Warning.Render("Learn next: ") + truncate(strings.Join(p.MissingSkills, ", "), max(m.width-12, 10)) + "\n")
		}
		sb.WriteString("\n")
	}

	title := "Project Lab"
	if m.focus == focusProjectLab {
		title += s.Muted.Render("  enter start · ↑/↓ select")
	}
	sb.WriteString(s.Bold.Render(title))
	sb.WriteString("\n")
	projects := m.deps.State.GeneratedProjects()
	if len(projects) == 0 {
		sb.WriteString(s.Muted.Render("No suggestions yet. Analyze a resume or ask the career coach."))
	}
	for i, p := range projects {
		marker := "  "
		line := fmt.Sprintf("%s  %s", s.Badge.Render(p.Difficulty), p.Title)
		if m.focus == focusProjectLab && i == m.cursor {
			marker = s.Prompt.Render("▸ ")
		}
		sb.WriteString(marker + line + "\n")
		if len(p.Tech) > 0 {
			sb.WriteString("     " + s.Muted.Render(truncate(strings.Join(p.Tech, " · "), max(m.width-6, 10))) + "\n")
		}
	}

	sb.WriteString("\n" + s.Bold.Render("Resume Builder") + "\n")
	sb.WriteString(m.job.View() + "\n")
	switch {
	case m.building:
		sb.WriteString(s.Muted.Render("Architecting resume..."))
	case m.resume != nil:
		sb.WriteString("\n" + RenderResume(s, *m.resume, max(m.width, 20)))
	}
	return sb.String()
}
