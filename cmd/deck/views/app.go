package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/config"
	"careerdeck/internal/logging"
	"careerdeck/internal/poll"
	"careerdeck/internal/state"
	"careerdeck/internal/store"
	"careerdeck/internal/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifies a top-level screen.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenCareerChat
	ScreenAnalyzer
	ScreenCommunity
	ScreenProjects
	ScreenFoundry
	ScreenProfile
	screenCount
)

var screenNames = [screenCount]string{
	"Dashboard", "Career Chat", "Analyzer", "Community", "Projects", "Foundry", "Profile",
}

func (s Screen) String() string {
	if s >= 0 && s < screenCount {
		return screenNames[s]
	}
	return "Unknown"
}

// growthKey is the single resource the growth poller reads.
const growthKey = "me"

// AppOption configures the App.
type AppOption func(*App)

// WithConfigChanges delivers reloaded configs into the running app.
func WithConfigChanges(ch <-chan *config.Config) AppOption {
	return func(a *App) { a.configChanges = ch }
}

// WithScreen sets the initial screen.
func WithScreen(s Screen) AppOption {
	return func(a *App) {
		if s >= 0 && s < screenCount {
			a.screen = s
		}
	}
}

// App is the root model: a sidebar, the active screen and a status footer.
type App struct {
	deps   *Deps
	screen Screen

	dashboard DashboardPage
	chat      CareerChatPage
	analyzer  AnalyzerPage
	community CommunityPage
	projects  ProjectsPage
	foundry   FoundryPage
	profile   ProfilePage

	growth        *poll.Poller[*types.GrowthStatus]
	heartbeat     *poll.Heartbeat
	configChanges <-chan *config.Config
	unsubscribe   func()

	status    string
	statusErr bool
	width     int
	height    int
}

// NewApp builds the app and every screen.
func NewApp(deps *Deps, opts ...AppOption) App {
	client := deps.Client
	growth := poll.New("growth", deps.Config.Polling.Growth(),
		func(ctx context.Context, _ string) (*types.GrowthStatus, error) {
			return client.GrowthStatus(ctx)
		}, deps.pollOptions()...)
	growth.SetKey(growthKey)

	a := App{
		deps:      deps,
		dashboard: NewDashboardPage(deps),
		chat:      NewCareerChatPage(deps),
		analyzer:  NewAnalyzerPage(deps),
		community: NewCommunityPage(deps),
		projects:  NewProjectsPage(deps),
		foundry:   NewFoundryPage(deps),
		profile:   NewProfilePage(deps),
		growth:    growth,
		heartbeat: poll.NewHeartbeat("activity", deps.Config.Polling.Heartbeat(), client.Heartbeat),
	}
	for _, opt := range opts {
		opt(&a)
	}

	if deps.Local != nil {
		if v, ok, err := deps.Local.Get(store.KeySidebarOpen); err == nil && ok {
			deps.State.SetSidebarOpen(v == "true")
		}
	} else if !deps.Config.UI.IsSidebarOpen() {
		deps.State.SetSidebarOpen(false)
	}
	a.unsubscribe = deps.State.Subscribe(func(f state.Field, snap state.Snapshot) {
		if f == state.FieldSidebar {
			deps.setPref(store.KeySidebarOpen, strconv.FormatBool(snap.SidebarOpen))
		}
	})
	return a
}

// Screen returns the active screen.
func (a App) Screen() Screen { return a.screen }

// Status returns the footer message.
func (a App) Status() (string, bool) { return a.status, a.statusErr }

// Init starts background loops and every screen.
func (a App) Init() tea.Cmd {
	a.growth.Start()
	a.heartbeat.Start(a.deps.ctx())
	logging.UI("app started on %s", a.screen)
	return tea.Batch(
		listen(a.growth),
		a.listenConfig(),
		a.dashboard.Init(),
		a.chat.Init(),
		a.analyzer.Init(),
		a.community.Init(),
		a.projects.Init(),
		a.foundry.Init(),
		a.profile.Init(),
	)
}

func (a App) listenConfig() tea.Cmd {
	ch := a.configChanges
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configChangedMsg{cfg: cfg}
	}
}

// Update routes messages. Keys and mouse events go to the active screen;
// everything else is broadcast so results reach the screen that asked.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = max(msg.Width, 0), max(msg.Height, 0)
		a.resize()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.Shutdown()
			return a, tea.Quit
		case "ctrl+b":
			a.deps.State.ToggleSidebar()
			a.resize()
			return a, nil
		case "ctrl+n":
			return a.switchTo((a.screen + 1) % screenCount)
		case "ctrl+p":
			return a.switchTo((a.screen + screenCount - 1) % screenCount)
		}
		if msg.Alt && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] < '1'+rune(screenCount) {
			return a.switchTo(Screen(msg.Runes[0] - '1'))
		}
		if a.statusErr {
			a.status, a.statusErr = "", false
		}
		return a.updateActive(msg)

	case tea.MouseMsg:
		if s, ok := a.sidebarHit(msg); ok {
			return a.switchTo(s)
		}
		return a.updateActive(msg)

	case statusMsg:
		a.status, a.statusErr = msg.text, msg.err
		if msg.err {
			logging.UIWarn("%s", msg.text)
		}
		return a, nil

	case navigateMsg:
		return a.switchTo(msg.to)

	case openProjectMsg:
		a.screen = ScreenFoundry
		var cmd tea.Cmd
		a.foundry, cmd = a.foundry.Update(msg)
		return a, cmd

	case configChangedMsg:
		a.applyConfig(msg.cfg)
		return a, tea.Batch(a.listenConfig(), statusCmd("Config reloaded"))

	case poll.Result[*types.GrowthStatus]:
		if a.growth.Accept(msg) && msg.Value != nil {
			a.deps.State.SetProgress(growthProgress(*msg.Value))
		}
		return a, listen(a.growth)
	}

	return a.broadcast(msg)
}

func (a App) switchTo(s Screen) (tea.Model, tea.Cmd) {
	if s < 0 || s >= screenCount {
		return a, nil
	}
	a.screen = s
	a.status, a.statusErr = "", false
	return a, nil
}

func (a App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case ScreenCareerChat:
		a.chat, cmd = a.chat.Update(msg)
	case ScreenAnalyzer:
		a.analyzer, cmd = a.analyzer.Update(msg)
	case ScreenCommunity:
		a.community, cmd = a.community.Update(msg)
	case ScreenProjects:
		a.projects, cmd = a.projects.Update(msg)
	case ScreenFoundry:
		a.foundry, cmd = a.foundry.Update(msg)
	case ScreenProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

func (a App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 7)
	a.dashboard, cmds[0] = a.dashboard.Update(msg)
	a.chat, cmds[1] = a.chat.Update(msg)
	a.analyzer, cmds[2] = a.analyzer.Update(msg)
	a.community, cmds[3] = a.community.Update(msg)
	a.projects, cmds[4] = a.projects.Update(msg)
	a.foundry, cmds[5] = a.foundry.Update(msg)
	a.profile, cmds[6] = a.profile.Update(msg)
	return a, tea.Batch(cmds...)
}

func (a *App) layout() ui.LayoutConfig {
	return ui.NewLayoutConfig(a.width, a.height, a.deps.State.SidebarOpen())
}

func (a *App) resize() {
	l := a.layout()
	x, y, w, h := l.ContentX(), l.ContentY(), l.ContentWidth(), l.ContentHeight()
	a.dashboard.SetSize(w, h)
	a.chat.SetSize(w, h)
	a.analyzer.SetSize(w, h)
	a.community.SetBounds(x, y, w, h)
	a.projects.SetSize(w, h)
	a.foundry.SetBounds(x, y, w, h)
	a.profile.SetSize(w, h)
}

// sidebarHit maps a left click on a sidebar entry to its screen.
func (a App) sidebarHit(msg tea.MouseMsg) (Screen, bool) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return 0, false
	}
	if !a.deps.State.SidebarOpen() || msg.X >= ui.SidebarWidth {
		return 0, false
	}
	row := msg.Y - ui.HeaderHeight - sidebarNavOffset
	if row < 0 || row >= int(screenCount) {
		return 0, false
	}
	return Screen(row), true
}

func (a *App) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.deps.Config = cfg
	theme := ui.ThemeByName(cfg.UI.Theme)
	a.deps.Styles = ui.NewStyles(theme)
	a.deps.Markdown = ui.NewMarkdownRenderer(theme)
	a.community.ApplyLayout(cfg.Layout)
	a.foundry.ApplyLayout(cfg.Layout)
	a.resize()
	logging.Config("applied reloaded config (theme %q)", cfg.UI.Theme)
}

// Shutdown stops every background loop. Safe to call more than once.
func (a App) Shutdown() {
	a.growth.Close()
	a.heartbeat.Stop()
	a.community.Close()
	a.foundry.Close()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	logging.UI("app shut down")
}

// sidebarNavOffset is the number of sidebar rows above the first entry.
const sidebarNavOffset = 2

// View renders the shell.
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}
	s := a.deps.Styles
	l := a.layout()
	if a.width < ui.MinimumTerminalWidth || a.height < ui.MinimumTerminalHeight {
		return s.Warning.Render(fmt.Sprintf("Terminal too small (%dx%d). Need at least %dx%d.",
			a.width, a.height, ui.MinimumTerminalWidth, ui.MinimumTerminalHeight))
	}

	header := s.Header.Width(a.width).Render("careerdeck · " + a.screen.String())

	var body string
	switch a.screen {
	case ScreenDashboard:
		body = a.dashboard.View()
	case ScreenCareerChat:
		body = a.chat.View()
	case ScreenAnalyzer:
		body = a.analyzer.View()
	case ScreenCommunity:
		body = a.community.View()
	case ScreenProjects:
		body = a.projects.View()
	case ScreenFoundry:
		body = a.foundry.View()
	case ScreenProfile:
		body = a.profile.View()
	}
	content := lipgloss.NewStyle().
		Width(l.ContentWidth()).MaxWidth(l.ContentWidth()).
		Height(l.ContentHeight()).MaxHeight(l.ContentHeight()).
		Render(body)
	if l.SidebarOpen {
		content = lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(l.ContentHeight()), content)
	}

	footer := a.status
	if footer == "" {
		footer = "ctrl+n/ctrl+p switch · alt+1-7 jump · ctrl+b sidebar · ctrl+c quit"
		footer = s.Footer.Render(truncate(footer, a.width-2))
	} else if a.statusErr {
		footer = s.Error.Render(truncate(footer, a.width))
	} else {
		footer = s.Info.Render(truncate(footer, a.width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderSidebar(height int) string {
	s := a.deps.Styles
	var sb strings.Builder
	sb.WriteString(ui.Logo(s) + "\n\n")
	for i := Screen(0); i < screenCount; i++ {
		label := fmt.Sprintf("%d %s", i+1, i)
		if i == a.screen {
			sb.WriteString(s.NavActive.Render(label))
		} else {
			sb.WriteString(s.NavItem.Render(label))
		}
		sb.WriteString("\n")
	}

	snap := a.deps.State.Snapshot()
	sb.WriteString("\n" + s.Muted.Render("Growth") + "\n")
	sb.WriteString(s.RenderProgress(snap.Progress, ui.SidebarWidth-8) + fmt.Sprintf(" %d%%", snap.Progress) + "\n")
	if snap.Profile != nil && snap.Profile.PersonalDetails.Name != "" {
		sb.WriteString("\n" + s.Bold.Render(truncate(snap.Profile.PersonalDetails.Name, ui.SidebarWidth-3)))
	}
	if n := len(snap.GeneratedProjects); n > 0 {
		sb.WriteString("\n" + s.Muted.Render(fmt.Sprintf("%d lab project(s)", n)))
	}

	return s.Sidebar.
		Width(ui.SidebarWidth - 1).
		Height(height).MaxHeight(height).
		Render(sb.String())
}
