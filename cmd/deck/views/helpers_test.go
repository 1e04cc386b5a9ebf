package views

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/api"
	"careerdeck/internal/config"
	"careerdeck/internal/metrics"
	"careerdeck/internal/poll"
	"careerdeck/internal/state"
	"careerdeck/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

// recordingSender collects messages sent from timers.
type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
}

func (s *recordingSender) Messages() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tea.Msg(nil), s.msgs...)
}

// newTestDeps wires real collaborators against an httptest server.
func newTestDeps(t *testing.T, h http.Handler) *Deps {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL

	local, err := store.NewLocalStore(filepath.Join(t.TempDir(), "deck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &Deps{
		Client:   api.New(api.Config{BaseURL: srv.URL, Token: "tok", Timeout: 5 * time.Second}),
		State:    state.New(),
		Local:    local,
		Config:   cfg,
		Metrics:  metrics.New(),
		Styles:   ui.DefaultStyles(),
		Markdown: ui.NewMarkdownRenderer(ui.DarkTheme()),
		Sender:   &recordingSender{},
		Now:      func() time.Time { return testNow },
		Ctx:      ctx,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// nextResult refreshes p and waits for the delivered result.
func nextResult[T any](t *testing.T, p *poll.Poller[T]) poll.Result[T] {
	t.Helper()
	p.Refresh()
	select {
	case r, ok := <-p.Results():
		require.True(t, ok, "poller closed")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for poll result")
	}
	return poll.Result[T]{}
}

// run executes a single non-batched command.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

// findStatus executes cmd and returns the status message it produced,
// searching inside batches.
func findStatus(t *testing.T, cmd tea.Cmd) (statusMsg, bool) {
	t.Helper()
	if cmd == nil {
		return statusMsg{}, false
	}
	switch msg := cmd().(type) {
	case statusMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if s, ok := findStatus(t, c); ok {
				return s, true
			}
		}
	}
	return statusMsg{}, false
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+right":
		return tea.KeyMsg{Type: tea.KeyCtrlRight}
	case "ctrl+left":
		return tea.KeyMsg{Type: tea.KeyCtrlLeft}
	case "ctrl+down":
		return tea.KeyMsg{Type: tea.KeyCtrlDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect executes cmd and every command nested in its batches, returning
// the produced messages in order.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(t, c)...)
	}
	return out
}

// findMsg returns the first message of type T produced by cmd.
func findMsg[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	for _, msg := range collect(t, cmd) {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T produced", zero)
	return zero
}
