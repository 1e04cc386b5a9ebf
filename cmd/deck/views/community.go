package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/config"
	"careerdeck/internal/feed"
	"careerdeck/internal/logging"
	"careerdeck/internal/poll"
	"careerdeck/internal/store"
	"careerdeck/internal/types"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	channelsLoadedMsg struct {
		channels []types.Channel
		err      error
	}

	messageSentMsg struct {
		localID string
		err     error
	}
)

type channelItem struct {
	ch types.Channel
}

func (i channelItem) Title() string       { return "# " + i.ch.Name }
func (i channelItem) Description() string { return i.ch.Category }
func (i channelItem) FilterValue() string { return i.ch.Name }

type communityFocus int

const (
	focusChannels communityFocus = iota
	focusComposer
)

// CommunityPage is the community chat: a channel list beside the selected
// channel's messages. Messages are polled; sends are appended optimistically
// and reconciled by the next poll.
type CommunityPage struct {
	deps     *Deps
	channels list.Model
	messages *feed.List[types.Message]
	poller   *poll.Poller[[]types.Message]
	split    ui.SplitPane
	persist  *ui.ValueDebouncer[float64]
	viewport viewport.Model
	input    textarea.Model
	focus    communityFocus
	author   string
	height   int
}

// NewCommunityPage creates the community chat.
func NewCommunityPage(deps *Deps) CommunityPage {
	client := deps.Client
	fetch := func(ctx context.Context, channel string) ([]types.Message, error) {
		return client.Messages(ctx, channel)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 20, 10)
	l.Title = "Channels"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	ta := textarea.New()
	ta.Placeholder = "Message the channel..."
	ta.ShowLineNumbers = false
	ta.SetHeight(ui.InputHeight)
	ta.Focus()

	lay := deps.Config.Layout
	split := ui.NewSplitPane(ui.Horizontal,
		deps.loadRatio(store.KeySplitRatio, lay.SplitRatio),
		lay.MinSplitRatio, lay.MaxSplitRatio, deps.Styles)

	author := "You"
	if deps.Local != nil {
		author = deps.Local.GetString(store.KeyUserName, author)
	}

	return CommunityPage{
		deps:     deps,
		channels: l,
		messages: feed.NewList[types.Message](feed.WithStamp[types.Message](stampMessage), feed.WithClock[types.Message](deps.now)),
		poller:   poll.New("community", deps.Config.Polling.Chat(), fetch, deps.pollOptions()...),
		split:    split,
		persist:  ui.NewValueDebouncer[float64](ui.DefaultRatioPersistDelay),
		viewport: viewport.New(60, 10),
		input:    ta,
		focus:    focusComposer,
		author:   author,
	}
}

// MessageTimeLayout formats the display time of locally appended messages.
const MessageTimeLayout = "3:04:05 PM"

func stampMessage(m types.Message, localID string, at time.Time) types.Message {
	m.ID = localID
	m.Time = at.Local().Format(MessageTimeLayout)
	return m
}

// Init loads the channel list and starts polling.
func (m CommunityPage) Init() tea.Cmd {
	m.poller.Start()
	client, ctx := m.deps.Client, m.deps.ctx()
	load := func() tea.Msg {
		chs, err := client.Channels(ctx)
		return channelsLoadedMsg{channels: chs, err: err}
	}
	return tea.Batch(load, listen(m.poller), textarea.Blink)
}

// Channel returns the selected channel name. Channels are addressed by
// name on the wire.
func (m CommunityPage) Channel() string { return m.poller.Key() }

// Messages returns the displayed rows.
func (m CommunityPage) Messages() []feed.Item[types.Message] { return m.messages.Items() }

func (m *CommunityPage) selectChannel(name string) {
	if name == m.poller.Key() {
		return
	}
	m.messages.Reset()
	if m.deps.Local != nil && name != "" {
		if cached, err := m.deps.Local.CachedMessages(name); err == nil && len(cached) > 0 {
			m.messages.Replace(cached)
		}
	}
	m.poller.SetKey(name)
	m.deps.setPref(store.KeyLastChannel, name)
	logging.ChatDebug("community: selected channel %q", name)
	m.refresh()
}

func (m CommunityPage) send(localID, channel, body string) tea.Cmd {
	client, ctx := m.deps.Client, m.deps.ctx()
	return func() tea.Msg {
		err := client.SendMessage(ctx, channel, body)
		return messageSentMsg{localID: localID, err: err}
	}
}

// lastFailed returns the local id of the newest failed send.
func (m CommunityPage) lastFailed() string {
	items := m.messages.Items()
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Local() && items[i].Status == feed.StatusFailed {
			return items[i].LocalID
		}
	}
	return ""
}

// Update handles channel selection, sends and poll results.
func (m CommunityPage) Update(msg tea.Msg) (CommunityPage, tea.Cmd) {
	switch msg := msg.(type) {
	case channelsLoadedMsg:
		if msg.err != nil {
			return m, errorCmd("Could not load channels", msg.err)
		}
		items := make([]list.Item, len(msg.channels))
		want := ""
		if m.deps.Local != nil {
			want = m.deps.Local.GetString(store.KeyLastChannel, "")
		}
		sel := 0
		for i, ch := range msg.channels {
			items[i] = channelItem{ch: ch}
			if ch.Name == want {
				sel = i
			}
		}
		cmd := m.channels.SetItems(items)
		if len(items) > 0 {
			m.channels.Select(sel)
			m.selectChannel(msg.channels[sel].Name)
		}
		return m, cmd

	case poll.Result[[]types.Message]:
		if m.poller.Accept(msg) {
			m.messages.Replace(msg.Value)
			if m.deps.Local != nil {
				if err := m.deps.Local.CacheMessages(msg.Key, msg.Value); err != nil {
					logging.StoreWarn("cache messages: %v", err)
				}
			}
			m.refresh()
		}
		return m, listen(m.poller)

	case messageSentMsg:
		m.deps.observeWrite("message", msg.err)
		if msg.err != nil {
			m.messages.Fail(msg.localID, msg.err)
			m.refresh()
			return m, errorCmd("Message not sent (ctrl+r retry, ctrl+d dismiss)", msg.err)
		}
		m.messages.Confirm(msg.localID)
		m.poller.Refresh()
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		if m.split.HandleMouse(msg) {
			m.persistRatio()
			m.layout()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			if m.focus == focusChannels {
				m.focus = focusComposer
				m.input.Focus()
			} else {
				m.focus = focusChannels
				m.input.Blur()
			}
			return m, nil
		case "ctrl+left":
			m.split.Decrease()
			m.persistRatio()
			m.layout()
			return m, nil
		case "ctrl+right":
			m.split.Increase()
			m.persistRatio()
			m.layout()
			return m, nil
		case "ctrl+r":
			return m.retry()
		case "ctrl+d":
			if id := m.lastFailed(); id != "" {
				m.messages.Dismiss(id)
				m.refresh()
			}
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if m.focus == focusChannels {
			var cmd tea.Cmd
			m.channels, cmd = m.channels.Update(msg)
			if it, ok := m.channels.SelectedItem().(channelItem); ok {
				m.selectChannel(it.ch.Name)
			}
			return m, cmd
		}

		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m CommunityPage) submit() (CommunityPage, tea.Cmd) {
	body := strings.TrimSpace(m.input.Value())
	if body == "" {
		return m, nil
	}
	channel := m.poller.Key()
	if channel == "" {
		return m, func() tea.Msg { return statusMsg{text: "Pick a channel first", err: true} }
	}
	m.input.Reset()
	id := m.messages.Append(types.Message{Author: m.author, Role: "Member", Body: body, Channel: channel, Type: "text"})
	m.refresh()
	return m, m.send(id, channel, body)
}

func (m CommunityPage) retry() (CommunityPage, tea.Cmd) {
	id := m.lastFailed()
	if id == "" {
		return m, nil
	}
	v, ok := m.messages.Retry(id)
	if !ok {
		return m, nil
	}
	m.refresh()
	return m, m.send(id, v.Channel, v.Body)
}

func (m *CommunityPage) persistRatio() {
	deps := m.deps
	m.persist.Submit(m.split.Ratio(), func(v float64) { deps.saveRatio(store.KeySplitRatio, v) })
}

// ApplyLayout updates the split bounds after a config reload.
func (m *CommunityPage) ApplyLayout(l config.LayoutConfig) {
	m.split.Min, m.split.Max = l.MinSplitRatio, l.MaxSplitRatio
	m.split.SetRatio(m.split.Ratio())
	m.layout()
}

// SetBounds places the page on screen.
func (m *CommunityPage) SetBounds(x, y, w, h int) {
	m.height = h
	m.split.SetBounds(x, y, w, h)
	m.layout()
}

func (m *CommunityPage) layout() {
	left, right := m.split.Sizes()
	m.channels.SetSize(max(left-1, 0), m.height)
	m.input.SetWidth(max(right-1, 1))
	m.viewport.Width = max(right-1, 0)
	m.viewport.Height = max(m.height-ui.InputHeight-1, 0)
	m.refresh()
}

func (m *CommunityPage) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m CommunityPage) renderMessages() string {
	s := m.deps.Styles
	if m.poller.Key() == "" {
		return s.Muted.Render("No channel selected")
	}
	items := m.messages.Items()
	if len(items) == 0 {
		if !m.messages.Loaded() {
			return s.Muted.Render("Loading messages...")
		}
		return s.Muted.Render("No messages yet. Say hello!")
	}

	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		v := it.Value
		name := s.AuthorName.Render(v.Author)
		if v.Author == m.author {
			name = s.UserName.Render(v.Author)
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", name, s.Muted.Render(v.Time)))
		body := v.Body
		switch v.Type {
		case "code":
			if v.Language != "" {
				body = "[" + v.Language + "] " + body
			}
		case "file":
			body = "📎 " + body
			if v.Size != "" {
				body += " (" + v.Size + ")"
			}
		}
		switch {
		case it.Local() && it.Status == feed.StatusPending:
			body = s.Pending.Render(body + "  (sending...)")
		case it.Local() && it.Status == feed.StatusFailed:
			body = s.Failed.Render(body + "  ✗ not sent")
		default:
			body = s.Body.Render(body)
		}
		sb.WriteString(body)
	}
	return sb.String()
}

// View renders the split layout.
func (m CommunityPage) View() string {
	s := m.deps.Styles
	title := "# " + m.poller.Key()
	if m.poller.Key() == "" {
		title = "Community"
	}
	pending, failed := m.messages.Counts()
	header := s.Title.Render(title)
	if pending > 0 {
		header += " " + s.Pending.Render(fmt.Sprintf("%d sending", pending))
	}
	if failed > 0 {
		header += " " + s.Failed.Render(fmt.Sprintf("%d failed", failed))
	}
	right := header + "\n" + m.viewport.View() + "\n" + m.input.View()
	return m.split.Render(m.channels.View(), right)
}

// Close stops polling.
func (m CommunityPage) Close() {
	m.poller.Close()
	m.persist.Cancel()
}
