package views

import (
	"fmt"
	"strings"

	"careerdeck/internal/api"
	"careerdeck/internal/career"
	"careerdeck/internal/heatmap"
	"careerdeck/internal/logging"
	"careerdeck/internal/types"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	profileLoadedMsg struct {
		profile *types.Profile
		err     error
	}

	goalToggledMsg struct {
		goalID int
		err    error
	}

	profileSavedMsg struct {
		err error
	}
)

const (
	fieldFullName = iota
	fieldBio
	fieldLocation
	fieldEmail
	profileFieldCount
)

// ProfilePage shows the profile, the activity heatmap and goals. Goals are
// toggled optimistically; a failed toggle re-fetches the profile.
type ProfilePage struct {
	deps    *Deps
	profile *types.Profile
	missing bool
	loading bool
	cursor  int
	editing bool
	field   int
	inputs  [profileFieldCount]textinput.Model
	width   int
	height  int
}

// NewProfilePage creates the profile view.
func NewProfilePage(deps *Deps) ProfilePage {
	m := ProfilePage{deps: deps, loading: true}
	for i, label := range []string{"Name", "Bio", "Location", "Email"} {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-9s ", label+":")
		m.inputs[i] = ti
	}
	return m
}

// Init loads the profile.
func (m ProfilePage) Init() tea.Cmd {
	return m.load()
}

func (m ProfilePage) load() tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		p, err := client.Profile(ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (m ProfilePage) setGoal(id int, done bool) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		return goalToggledMsg{goalID: id, err: client.SetGoal(ctx, id, done)}
	}
}

func (m ProfilePage) save(u types.ProfileUpdate) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		return profileSavedMsg{err: client.UpdateProfile(ctx, u)}
	}
}

// Profile returns the displayed profile.
func (m ProfilePage) Profile() *types.Profile { return m.profile }

// Update handles goal toggles and profile edits.
func (m ProfilePage) Update(msg tea.Msg) (ProfilePage, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if api.IsNotFound(msg.err) {
				m.missing = true
				return m, nil
			}
			return m, errorCmd("Could not load profile", msg.err)
		}
		m.missing = false
		m.profile = msg.profile
		m.cursor = min(m.cursor, max(len(msg.profile.Goals)-1, 0))
		if msg.profile.GrowthStage != "" {
			m.deps.State.SetProgress(career.StageProgress(msg.profile.GrowthStage))
		}
		return m, nil

	case goalToggledMsg:
		m.deps.observeWrite("goal", msg.err)
		if msg.err != nil {
			logging.APIError("goal %d toggle failed: %v", msg.goalID, msg.err)
			return m, tea.Batch(m.load(), errorCmd("Could not update goal", msg.err))
		}
		return m, nil

	case profileSavedMsg:
		m.deps.observeWrite("profile", msg.err)
		if msg.err != nil {
			return m, errorCmd("Could not save profile", msg.err)
		}
		m.editing = false
		return m, tea.Batch(m.load(), statusCmd("Profile saved"))

	case tea.KeyMsg:
		if m.editing {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.load()
		case "e":
			if m.profile == nil {
				return m, nil
			}
			return m, m.startEdit()
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			if m.profile != nil {
				m.cursor = min(m.cursor+1, max(len(m.profile.Goals)-1, 0))
			}
		case " ", "enter":
			return m.toggleGoal()
		}
	}
	return m, nil
}

// toggleGoal flips the selected goal immediately and writes it in the
// background.
func (m ProfilePage) toggleGoal() (ProfilePage, tea.Cmd) {
	if m.profile == nil || m.cursor >= len(m.profile.Goals) {
		return m, nil
	}
	p := *m.profile
	p.Goals = append([]types.Goal(nil), m.profile.Goals...)
	g := &p.Goals[m.cursor]
	g.IsDone = !g.IsDone
	m.profile = &p
	return m, m.setGoal(g.ID, g.IsDone)
}

func (m *ProfilePage) startEdit() tea.Cmd {
	m.editing = true
	m.field = fieldFullName
	values := [profileFieldCount]string{m.profile.FullName, m.profile.Bio, m.profile.Location, m.profile.Email}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
		m.inputs[i].Blur()
	}
	return m.inputs[m.field].Focus()
}

func (m ProfilePage) updateForm(msg tea.KeyMsg) (ProfilePage, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		return m, nil
	case tea.KeyTab, tea.KeyDown, tea.KeyShiftTab, tea.KeyUp:
		m.inputs[m.field].Blur()
		if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
			m.field = (m.field + profileFieldCount - 1) % profileFieldCount
		} else {
			m.field = (m.field + 1) % profileFieldCount
		}
		return m, m.inputs[m.field].Focus()
	case tea.KeyEnter, tea.KeyCtrlS:
		u := types.ProfileUpdate{
			FullName: strings.TrimSpace(m.inputs[fieldFullName].Value()),
			Bio:      strings.TrimSpace(m.inputs[fieldBio].Value()),
			Location: strings.TrimSpace(m.inputs[fieldLocation].Value()),
			Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
			Avatar:   m.profile.Avatar,
		}
		if err := career.ValidateEmail(u.Email); err != nil {
			return m, func() tea.Msg { return statusMsg{text: err.Error(), err: true} }
		}
		return m, tea.Batch(m.save(u), statusCmd("Saving profile..."))
	}
	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

// SetSize records the page size.
func (m *ProfilePage) SetSize(w, h int) {
	m.width, m.height = w, h
	for i := range m.inputs {
		m.inputs[i].Width = max(w-12, 10)
	}
}

// View renders the profile.
func (m ProfilePage) View() string {
	s := m.deps.Styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Profile") + "  " + s.Muted.Render("e edit · space toggle goal · r refresh"))
	sb.WriteString("\n\n")

	switch {
	case m.missing:
		return sb.String() + s.Muted.Render("No profile yet. Analyze a resume to create one.")
	case m.profile == nil:
		return sb.String() + s.Muted.Render("Loading...")
	}
	p := m.profile

	if m.editing {
		for i := range m.inputs {
			sb.WriteString(m.inputs[i].View() + "\n")
		}
		sb.WriteString("\n" + s.Muted.Render("tab next field · enter save · esc cancel"))
		return sb.String()
	}

	sb.WriteString(s.Bold.Render(p.FullName))
	if p.Role != "" {
		sb.WriteString("  " + s.Badge.Render(p.Role))
	}
	sb.WriteString("\n")
	for _, line := range []string{p.Email, p.Location, p.Bio} {
		if line != "" {
			sb.WriteString(s.Muted.Render(truncate(line, max(m.width, 10))) + "\n")
		}
	}

	stage := p.GrowthStage
	if stage == "" {
		stage = career.Stages[0].Name
	}
	progress := m.deps.State.Progress()
	sb.WriteString(fmt.Sprintf("\n%s %s %d%%   %d projects · %d trees planted\n\n",
		s.Success.Render(stage), s.RenderProgress(progress, 20), progress, p.Projects, p.Trees))

	sb.WriteString(s.Bold.Render("Activity") + "\n")
	sb.WriteString(s.RenderHeatmap(heatmap.Build(p.Activity, m.deps.now()), m.width))
	sb.WriteString("\n\n")

	sb.WriteString(s.Bold.Render("Goals") + "\n")
	if len(p.Goals) == 0 {
		sb.WriteString(s.Muted.Render("No goals yet"))
	}
	for i, g := range p.Goals {
		box := "[ ]"
		text := s.Body.Render(g.Text)
		if g.IsDone {
			box = s.Success.Render("[x]")
			text = s.Muted.Strikethrough(true).Render(g.Text)
		}
		marker := "  "
		if i == m.cursor {
			marker = s.Prompt.Render("▸ ")
		}
		line := marker + box + " " + text
		if g.Tag != "" {
			line += "  " + s.Badge.Render(g.Tag)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
