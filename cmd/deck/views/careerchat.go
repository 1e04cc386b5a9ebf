package views

import (
	"strings"
	"time"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/career"
	"careerdeck/internal/logging"
	"careerdeck/internal/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// chatEntry is one turn of an assistant conversation.
type chatEntry struct {
	Role    string // "user" or "assistant"
	Content string
	Time    time.Time
}

type (
	careerReplyMsg struct {
		reply string
		err   error
	}

	projectsSavedMsg struct {
		count int
		err   error
	}
)

// CareerChatPage is the career-guidance chat. Replies may carry a project
// block that refreshes the Project Lab.
type CareerChatPage struct {
	deps     *Deps
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	history  []chatEntry
	waiting  bool
	width    int
	height   int
}

// NewCareerChatPage creates the career chat.
func NewCareerChatPage(deps *Deps) CareerChatPage {
	ta := textarea.New()
	ta.Placeholder = "Ask about roles, skills or projects..."
	ta.ShowLineNumbers = false
	ta.SetHeight(ui.InputHeight)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = deps.Styles.Spinner

	return CareerChatPage{
		deps:     deps,
		input:    ta,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}
}

// Init focuses the input.
func (m CareerChatPage) Init() tea.Cmd {
	return textarea.Blink
}

func (m CareerChatPage) ask(message string) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		reply, err := client.Chat(ctx, message)
		return careerReplyMsg{reply: reply, err: err}
	}
}

func (m CareerChatPage) saveProjects(projects []types.GeneratedProject) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		err := client.SaveGeneratedProjects(ctx, projects)
		return projectsSavedMsg{count: len(projects), err: err}
	}
}

// Update handles chat input and replies.
func (m CareerChatPage) Update(msg tea.Msg) (CareerChatPage, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.history = append(m.history, chatEntry{Role: "user", Content: text, Time: m.deps.now()})
			m.waiting = true
			m.refresh()
			return m, tea.Batch(m.ask(text), m.spinner.Tick)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case careerReplyMsg:
		m.waiting = false
		if msg.err != nil {
			logging.ChatWarn("career chat failed: %v", msg.err)
			m.history = append(m.history, chatEntry{Role: "assistant", Content: career.ChatFallback, Time: m.deps.now()})
			m.refresh()
			return m, nil
		}
		reply := career.ParseReply(msg.reply, m.deps.now())
		if reply.Projects != nil {
			merged := career.MergeByDifficulty(m.deps.State.GeneratedProjects(), reply.Projects)
			m.deps.State.SetGeneratedProjects(merged)
			logging.Chat("project lab refreshed with %d suggestion(s)", len(reply.Projects))
			cmds = append(cmds, m.saveProjects(merged))
		}
		m.history = append(m.history, chatEntry{Role: "assistant", Content: reply.Text, Time: m.deps.now()})
		m.refresh()
		return m, tea.Batch(cmds...)

	case projectsSavedMsg:
		m.deps.observeWrite("generated_projects", msg.err)
		if msg.err != nil {
			return m, errorCmd("Could not save Project Lab", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// SetSize lays out the history and input.
func (m *CareerChatPage) SetSize(w, h int) {
	m.width, m.height = w, h
	m.input.SetWidth(max(w, 1))
	m.viewport.Width = max(w, 0)
	m.viewport.Height = max(h-ui.InputHeight-2, 0)
	m.refresh()
}

func (m *CareerChatPage) refresh() {
	m.viewport.SetContent(renderConversation(m.deps, m.history, m.viewport.Width, "Career Coach"))
	m.viewport.GotoBottom()
}

// View renders the chat.
func (m CareerChatPage) View() string {
	s := m.deps.Styles
	status := s.Muted.Render("enter send · pgup/pgdn scroll")
	if m.waiting {
		status = m.spinner.View() + s.Muted.Render(" thinking...")
	}
	return m.viewport.View() + "\n" + status + "\n" + m.input.View()
}

// renderConversation renders user turns plainly and assistant turns as
// markdown.
func renderConversation(deps *Deps, history []chatEntry, width int, assistant string) string {
	s := deps.Styles
	if len(history) == 0 {
		return s.Subtitle.Render("Start the conversation below.")
	}
	var sb strings.Builder
	for i, e := range history {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		stamp := s.Muted.Render(e.Time.Format("15:04"))
		if e.Role == "user" {
			sb.WriteString(s.UserName.Render("You") + " " + stamp + "\n")
			sb.WriteString(s.Body.Render(e.Content))
			continue
		}
		sb.WriteString(s.AuthorName.Render(assistant) + " " + stamp + "\n")
		body := e.Content
		if deps.Markdown != nil {
			body = deps.Markdown.Render(body, max(width-4, 20))
		}
		sb.WriteString(s.BotReply.Render(body))
	}
	return sb.String()
}
