package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/api"
	"careerdeck/internal/config"
	"careerdeck/internal/feed"
	"careerdeck/internal/logging"
	"careerdeck/internal/poll"
	"careerdeck/internal/store"
	"careerdeck/internal/types"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	projectLoadedMsg struct {
		projectID string
		project   *types.Project
		err       error
	}

	// restoreProjectMsg reopens the last project without switching screens.
	restoreProjectMsg struct {
		projectID string
	}

	// codePushDueMsg is sent by the push debouncer once edits settle.
	codePushDueMsg struct {
		projectID string
	}

	codePushedMsg struct {
		projectID string
		gen       uint64
		err       error
	}

	mentorReplyMsg struct {
		reply string
		err   error
	}

	codeRanMsg struct {
		projectID string
		run       *types.CodeRun
		err       error
	}

	verifiedMsg struct {
		projectID string
		phaseID   int
		file      string
		verdict   *types.Verification
		err       error
	}

	phaseUnlockedMsg struct {
		projectID string
		status    string
		err       error
	}

	sessionCreatedMsg struct {
		code string
		err  error
	}
)

type foundryFocus int

const (
	focusEditor foundryFocus = iota
	focusMentor
	focusProof
)

// FoundryPage is the collaborative workspace for one project: the phase
// brief on the left, the shared code editor above the mentor chat on the
// right.
//
// The editor buffer is shared through the server. Local edits are pushed
// after a quiet period and remote code is polled; remote code only replaces
// the buffer while there are no unpushed local edits. A failed push is
// rescheduled until it lands.
//
// A phase is submitted only after a screenshot of its output has been
// verified for the current phase.
type FoundryPage struct {
	deps    *Deps
	project *types.Project
	buffer  *feed.Buffer
	poller  *poll.Poller[string]
	pusher  *ui.Debouncer

	editor    textarea.Model
	mentor    textinput.Model
	proof     textinput.Model
	history   []chatEntry
	mentorVP  viewport.Model
	briefVP   viewport.Model
	focus     foundryFocus
	waiting   bool
	running   bool
	verifying bool
	checking  bool
	// approvedPhase is the phase id whose proof was accepted, 0 for none.
	approvedPhase int

	outer        ui.SplitPane
	inner        ui.SplitPane
	persistOuter *ui.ValueDebouncer[float64]
	persistInner *ui.ValueDebouncer[float64]
	shareCode    string
	width        int
	height       int
}

// NewFoundryPage creates the foundry.
func NewFoundryPage(deps *Deps) FoundryPage {
	client := deps.Client
	pull := func(ctx context.Context, projectID string) (string, error) {
		return client.PullCode(ctx, projectID)
	}

	ed := textarea.New()
	ed.Placeholder = "# write your solution here"
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.Focus()

	mi := textinput.New()
	mi.Placeholder = "Ask the mentor..."
	mi.Prompt = "› "

	pi := textinput.New()
	pi.Placeholder = "path/to/screenshot.png"
	pi.Prompt = "proof › "

	lay := deps.Config.Layout
	outer := ui.NewSplitPane(ui.Horizontal,
		deps.loadRatio(store.KeySplitRatio, lay.SplitRatio),
		lay.MinSplitRatio, lay.MaxSplitRatio, deps.Styles)
	inner := ui.NewSplitPane(ui.Vertical,
		deps.loadRatio(store.KeyEditorRatio, lay.EditorRatio),
		lay.MinEditorRatio, lay.MaxEditorRatio, deps.Styles)

	return FoundryPage{
		deps:         deps,
		buffer:       &feed.Buffer{},
		poller:       poll.New("code-sync", deps.Config.Polling.CodeSync(), pull, deps.pollOptions()...),
		pusher:       ui.NewDebouncer(deps.Config.Polling.PushDebounce()),
		editor:       ed,
		mentor:       mi,
		proof:        pi,
		mentorVP:     viewport.New(40, 5),
		briefVP:      viewport.New(20, 10),
		outer:        outer,
		inner:        inner,
		persistOuter: ui.NewValueDebouncer[float64](ui.DefaultRatioPersistDelay),
		persistInner: ui.NewValueDebouncer[float64](ui.DefaultRatioPersistDelay),
	}
}

// Init starts the code-sync poller and reopens the last project.
func (m FoundryPage) Init() tea.Cmd {
	m.poller.Start()
	cmds := []tea.Cmd{listen(m.poller)}
	if m.deps.Local != nil {
		if id := m.deps.Local.GetString(store.KeyLastProject, ""); id != "" {
			cmds = append(cmds, func() tea.Msg { return restoreProjectMsg{projectID: id} })
		}
	}
	return tea.Batch(cmds...)
}

// ProjectID returns the open project id.
func (m FoundryPage) ProjectID() string { return m.poller.Key() }

// Open switches the foundry to a project.
func (m *FoundryPage) Open(projectID string) tea.Cmd {
	if projectID == m.poller.Key() && m.project != nil {
		return nil
	}
	m.pusher.Cancel()
	m.project = nil
	m.buffer = &feed.Buffer{}
	m.editor.Reset()
	m.history = nil
	m.shareCode = ""
	m.approvedPhase = 0
	m.running, m.verifying, m.checking = false, false, false
	m.poller.SetKey(projectID)
	m.deps.setPref(store.KeyLastProject, projectID)
	m.refresh()
	logging.Collab("foundry: opened project %s", projectID)
	return m.fetch(projectID)
}

func (m FoundryPage) fetch(projectID string) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		p, err := client.Project(ctx, projectID)
		return projectLoadedMsg{projectID: projectID, project: p, err: err}
	}
}

func (m FoundryPage) push(projectID, code string, gen uint64) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		err := client.PushCode(ctx, projectID, code)
		return codePushedMsg{projectID: projectID, gen: gen, err: err}
	}
}

func (m FoundryPage) activePhase() types.Phase {
	if m.project == nil {
		return types.Phase{}
	}
	ph, _ := m.project.ActivePhase()
	return ph
}

func (m FoundryPage) askMentor(question string) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	phase := m.activePhase()
	req := api.FoundryRequest{
		Message: question,
		Code:    m.buffer.Text(),
		ProjectContext: api.ProjectContext{
			Title:            m.project.Title,
			PhaseTitle:       phase.Title,
			PhaseDescription: phase.Description,
		},
	}
	return func() tea.Msg {
		reply, err := client.FoundryChat(ctx, req)
		return mentorReplyMsg{reply: reply, err: err}
	}
}

// phaseObjective is what the server checks work against.
func phaseObjective(ph types.Phase) string {
	if ph.Description != "" {
		return ph.Description
	}
	return "Run code"
}

func (m FoundryPage) runCode() tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	projectID, objective, code := m.poller.Key(), phaseObjective(m.activePhase()), m.buffer.Text()
	return func() tea.Msg {
		run, err := client.RunCode(ctx, code, objective)
		return codeRanMsg{projectID: projectID, run: run, err: err}
	}
}

func (m FoundryPage) verify(path string) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	projectID, phase := m.poller.Key(), m.activePhase()
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return verifiedMsg{projectID: projectID, phaseID: phase.ID, file: path, err: err}
		}
		defer f.Close()
		v, err := client.VerifyScreenshot(ctx, path, f, phaseObjective(phase))
		return verifiedMsg{projectID: projectID, phaseID: phase.ID, file: path, verdict: v, err: err}
	}
}

// formatCodeRun renders a simulated run for the mentor pane.
func formatCodeRun(r *types.CodeRun) string {
	out := "**TERMINAL OUTPUT:**\n```\n" + r.Output + "\n```"
	if r.Review != "" {
		out += "\n\n**ARCHITECT CRITIQUE:**\n" + r.Review
	}
	return out
}

func (m FoundryPage) unlock(projectID string, phaseID int) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		status, err := client.UnlockPhase(ctx, projectID, phaseID)
		return phaseUnlockedMsg{projectID: projectID, status: status, err: err}
	}
}

func (m FoundryPage) share() tea.Cmd {
	client, ctx, id := m.deps.Client, m.deps.ctx(), m.poller.Key()
	return func() tea.Msg {
		code, err := client.CreateSession(ctx, id)
		return sessionCreatedMsg{code: code, err: err}
	}
}

// Update handles editing, sync, mentor chat and phase review.
func (m FoundryPage) Update(msg tea.Msg) (FoundryPage, tea.Cmd) {
	current := m.poller.Key()

	switch msg := msg.(type) {
	case openProjectMsg:
		return m, m.Open(msg.projectID)

	case restoreProjectMsg:
		if current != "" {
			return m, nil
		}
		return m, m.Open(msg.projectID)

	case projectLoadedMsg:
		if msg.projectID != current {
			return m, nil
		}
		if msg.err != nil {
			return m, errorCmd("Could not load project", msg.err)
		}
		first := m.project == nil
		m.project = msg.project
		if first {
			m.buffer.Load(msg.project.Code)
			m.editor.SetValue(m.buffer.Text())
		} else if m.buffer.ApplyRemote(msg.project.Code) {
			m.editor.SetValue(m.buffer.Text())
		}
		m.refresh()
		return m, nil

	case poll.Result[string]:
		if m.poller.Accept(msg) && m.project != nil && m.buffer.ApplyRemote(msg.Value) {
			logging.CollabDebug("foundry: applied remote code for %s", msg.Key)
			m.editor.SetValue(m.buffer.Text())
		}
		return m, listen(m.poller)

	case codePushDueMsg:
		if msg.projectID != current || !m.buffer.Dirty() {
			return m, nil
		}
		code, gen := m.buffer.Snapshot()
		return m, m.push(current, code, gen)

	case codePushedMsg:
		m.deps.observeWrite("code", msg.err)
		if msg.projectID != current {
			return m, nil
		}
		if msg.err != nil {
			logging.CollabWarn("code push failed, rescheduling: %v", msg.err)
			m.schedulePush()
			return m, errorCmd("Code not synced, retrying", msg.err)
		}
		m.buffer.Pushed(msg.gen)
		return m, nil

	case mentorReplyMsg:
		m.waiting = false
		content := msg.reply
		if msg.err != nil {
			logging.CollabWarn("mentor chat failed: %v", msg.err)
			content = "The mentor is unavailable right now. Try again in a moment."
		}
		m.history = append(m.history, chatEntry{Role: "assistant", Content: content, Time: m.deps.now()})
		m.refresh()
		return m, nil

	case codeRanMsg:
		if msg.projectID != current {
			return m, nil
		}
		m.running = false
		content := "❌ **ERROR:** Failed to execute simulation."
		if msg.err == nil {
			content = formatCodeRun(msg.run)
		} else {
			logging.CollabWarn("code run failed: %v", msg.err)
		}
		m.history = append(m.history, chatEntry{Role: "assistant", Content: content, Time: m.deps.now()})
		m.refresh()
		return m, nil

	case verifiedMsg:
		if msg.projectID != current {
			return m, nil
		}
		m.verifying = false
		m.deps.observeWrite("verify", msg.err)
		if msg.err != nil {
			logging.CollabWarn("verify %s failed: %v", msg.file, msg.err)
			m.history = append(m.history, chatEntry{Role: "assistant", Content: "Error processing image.", Time: m.deps.now()})
			m.refresh()
			return m, errorCmd("Verification failed", msg.err)
		}
		if !msg.verdict.Approved {
			m.history = append(m.history, chatEntry{Role: "assistant", Content: "❌ **REJECTED:** " + msg.verdict.Feedback, Time: m.deps.now()})
			m.refresh()
			return m, func() tea.Msg { return statusMsg{text: "Proof rejected. See the mentor's feedback.", err: true} }
		}
		m.approvedPhase = msg.phaseID
		m.history = append(m.history, chatEntry{
			Role:    "assistant",
			Content: "✅ **VERIFIED:** " + msg.verdict.Feedback + " You may now submit the phase.",
			Time:    m.deps.now(),
		})
		m.refresh()
		return m, statusCmd("Proof accepted. ctrl+s submits the phase.")

	case phaseUnlockedMsg:
		m.checking = false
		m.deps.observeWrite("phase_unlock", msg.err)
		if msg.projectID != current {
			return m, nil
		}
		if msg.err != nil {
			return m, errorCmd("Could not unlock phase", msg.err)
		}
		m.approvedPhase = 0
		m.deps.State.IncreaseProgress(5)
		return m, tea.Batch(m.fetch(current), statusCmd("Phase complete ("+msg.status+")"))

	case sessionCreatedMsg:
		if msg.err != nil {
			return m, errorCmd("Could not create session", msg.err)
		}
		m.shareCode = msg.code
		return m, statusCmd("Share code: " + msg.code)

	case tea.MouseMsg:
		if m.outer.HandleMouse(msg) {
			m.persistOuterRatio()
			m.layout()
			return m, nil
		}
		if m.inner.HandleMouse(msg) {
			m.persistInnerRatio()
			m.layout()
		}
		return m, nil

	case tea.KeyMsg:
		if current == "" || m.project == nil {
			return m, nil
		}
		if m.focus == focusProof {
			return m.updateProof(msg)
		}
		switch msg.String() {
		case "tab":
			if m.focus == focusEditor {
				m.focus = focusMentor
				m.editor.Blur()
				return m, m.mentor.Focus()
			}
			m.focus = focusEditor
			m.mentor.Blur()
			return m, m.editor.Focus()
		case "ctrl+e":
			if m.running {
				return m, nil
			}
			m.running = true
			m.history = append(m.history, chatEntry{Role: "user", Content: "⚡ **EXECUTING CODE...**", Time: m.deps.now()})
			m.refresh()
			return m, m.runCode()
		case "ctrl+u":
			if _, ok := m.project.ActivePhase(); !ok || m.verifying {
				return m, nil
			}
			m.focus = focusProof
			m.editor.Blur()
			m.mentor.Blur()
			m.proof.Reset()
			return m, m.proof.Focus()
		case "ctrl+s":
			return m.submitPhase()
		case "ctrl+o":
			return m, m.share()
		case "ctrl+left":
			m.outer.Decrease()
			m.persistOuterRatio()
			m.layout()
			return m, nil
		case "ctrl+right":
			m.outer.Increase()
			m.persistOuterRatio()
			m.layout()
			return m, nil
		case "ctrl+up":
			m.inner.Decrease()
			m.persistInnerRatio()
			m.layout()
			return m, nil
		case "ctrl+down":
			m.inner.Increase()
			m.persistInnerRatio()
			m.layout()
			return m, nil
		}

		if m.focus == focusMentor {
			if msg.Type == tea.KeyEnter {
				q := strings.TrimSpace(m.mentor.Value())
				if q == "" || m.waiting {
					return m, nil
				}
				m.mentor.Reset()
				m.history = append(m.history, chatEntry{Role: "user", Content: q, Time: m.deps.now()})
				m.waiting = true
				m.refresh()
				return m, m.askMentor(q)
			}
			var cmd tea.Cmd
			m.mentor, cmd = m.mentor.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		m.edited()
		return m, cmd
	}

	return m, nil
}

// submitPhase unlocks the next phase once the current one has verified
// proof.
func (m FoundryPage) submitPhase() (FoundryPage, tea.Cmd) {
	if m.checking {
		return m, nil
	}
	phase, ok := m.project.ActivePhase()
	if !ok {
		return m, statusCmd("All phases complete")
	}
	if m.approvedPhase != phase.ID {
		return m, func() tea.Msg {
			return statusMsg{text: "Upload a screenshot of your output for verification first (ctrl+u).", err: true}
		}
	}
	m.checking = true
	return m, tea.Batch(m.unlock(m.poller.Key(), phase.ID), statusCmd("Submitting phase..."))
}

// updateProof edits the screenshot path prompt.
func (m FoundryPage) updateProof(msg tea.KeyMsg) (FoundryPage, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusEditor
		m.proof.Blur()
		return m, m.editor.Focus()
	case tea.KeyEnter:
		path := strings.TrimSpace(m.proof.Value())
		if path == "" {
			return m, nil
		}
		m.focus = focusEditor
		m.proof.Blur()
		m.verifying = true
		m.history = append(m.history, chatEntry{
			Role:    "user",
			Content: fmt.Sprintf("[Uploaded Screenshot: %s]", filepath.Base(path)),
			Time:    m.deps.now(),
		})
		m.refresh()
		return m, tea.Batch(m.verify(path), m.editor.Focus())
	}
	var cmd tea.Cmd
	m.proof, cmd = m.proof.Update(msg)
	return m, cmd
}

// edited records an editor change and schedules a push.
func (m *FoundryPage) edited() {
	text := m.editor.Value()
	if text == m.buffer.Text() {
		return
	}
	m.buffer.Edit(text)
	m.schedulePush()
}

func (m *FoundryPage) schedulePush() {
	deps, id := m.deps, m.poller.Key()
	m.pusher.Debounce(func() { deps.send(codePushDueMsg{projectID: id}) })
}

func (m *FoundryPage) persistOuterRatio() {
	deps := m.deps
	m.persistOuter.Submit(m.outer.Ratio(), func(v float64) { deps.saveRatio(store.KeySplitRatio, v) })
}

func (m *FoundryPage) persistInnerRatio() {
	deps := m.deps
	m.persistInner.Submit(m.inner.Ratio(), func(v float64) { deps.saveRatio(store.KeyEditorRatio, v) })
}

// ApplyLayout updates split bounds after a config reload.
func (m *FoundryPage) ApplyLayout(l config.LayoutConfig) {
	m.outer.Min, m.outer.Max = l.MinSplitRatio, l.MaxSplitRatio
	m.outer.SetRatio(m.outer.Ratio())
	m.inner.Min, m.inner.Max = l.MinEditorRatio, l.MaxEditorRatio
	m.inner.SetRatio(m.inner.Ratio())
	m.layout()
}

// SetBounds places the page on screen.
func (m *FoundryPage) SetBounds(x, y, w, h int) {
	m.width, m.height = w, h
	m.outer.SetBounds(x, y, w, h)
	m.layout()
}

func (m *FoundryPage) layout() {
	left, right := m.outer.Sizes()
	x, y := m.outer.Origin()
	m.inner.SetBounds(x+left+ui.DividerSize, y, right, m.height)
	top, bottom := m.inner.Sizes()

	m.briefVP.Width = max(left-1, 0)
	m.briefVP.Height = m.height
	m.editor.SetWidth(max(right, 1))
	m.editor.SetHeight(max(top-1, 1))
	m.mentor.Width = max(right-4, 4)
	m.proof.Width = max(right-10, 4)
	m.mentorVP.Width = max(right, 0)
	m.mentorVP.Height = max(bottom-1, 0)
	m.refresh()
}

func (m *FoundryPage) refresh() {
	s := m.deps.Styles
	if m.project != nil {
		brief := renderPhases(s, *m.project, m.briefVP.Width)
		if m.shareCode != "" {
			brief += "\n\n" + s.Muted.Render("Share code ") + s.Badge.Render(m.shareCode)
		}
		m.briefVP.SetContent(brief)
	}
	m.mentorVP.SetContent(renderConversation(m.deps, m.history, m.mentorVP.Width, "Mentor"))
	m.mentorVP.GotoBottom()
}

// View renders the workspace.
func (m FoundryPage) View() string {
	s := m.deps.Styles
	if m.poller.Key() == "" {
		return s.Title.Render("Foundry") + "\n\n" +
			s.Muted.Render("Open a project from Projects, start one from the Project Lab, or join a session with a code.")
	}
	if m.project == nil {
		return s.Muted.Render("Loading project...")
	}

	status := s.Muted.Render("tab focus · ctrl+e run · ctrl+u proof · ctrl+s submit · ctrl+o share")
	if ph, ok := m.project.ActivePhase(); ok && m.approvedPhase == ph.ID {
		status = s.Success.Render("✓ verified  ") + status
	}
	if m.buffer.Dirty() {
		status = s.Pending.Render("● unsynced  ") + status
	}
	if m.focus == focusProof {
		status = m.proof.View()
	}
	top := m.editor.View() + "\n" + status

	mentorLine := m.mentor.View()
	switch {
	case m.waiting:
		mentorLine = s.Pending.Render("mentor is typing...")
	case m.running:
		mentorLine = s.Pending.Render("running code...")
	case m.verifying:
		mentorLine = s.Pending.Render("verifying proof...")
	}
	bottom := m.mentorVP.View() + "\n" + mentorLine

	return m.outer.Render(m.briefVP.View(), m.inner.Render(top, bottom))
}

// Close stops syncing.
func (m FoundryPage) Close() {
	m.pusher.Cancel()
	m.persistOuter.Cancel()
	m.persistInner.Cancel()
	m.poller.Close()
}
