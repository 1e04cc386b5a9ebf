// Package views holds the bubbletea screens of the careerdeck TUI and the
// app shell that switches between them.
//
// Every screen is a thin view over the remote API. Network calls run as
// tea.Cmds and come back as messages; the Update loop is the only writer of
// view state. Pollers deliver through their Results channel, which a
// screen drains with one outstanding listen command per poller.
package views

import (
	"context"
	"time"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/api"
	"careerdeck/internal/config"
	"careerdeck/internal/logging"
	"careerdeck/internal/metrics"
	"careerdeck/internal/poll"
	"careerdeck/internal/state"
	"careerdeck/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages into a running program from other goroutines.
// *tea.Program satisfies it. Never call Send from inside Update.
type Sender interface {
	Send(msg tea.Msg)
}

// Deps is everything the screens share. Local, Metrics and Sender may be nil.
type Deps struct {
	Client   *api.Client
	State    *state.Store
	Local    *store.LocalStore
	Config   *config.Config
	Metrics  *metrics.Collector
	Styles   ui.Styles
	Markdown *ui.MarkdownRenderer
	Sender   Sender
	Now      func() time.Time

	// Ctx bounds every request issued by the screens; cancelled on quit.
	Ctx context.Context
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Deps) ctx() context.Context {
	if d.Ctx != nil {
		return d.Ctx
	}
	return context.Background()
}

func (d *Deps) send(msg tea.Msg) {
	if d.Sender != nil {
		d.Sender.Send(msg)
	}
}

func (d *Deps) pollOptions() []poll.Option {
	opts := []poll.Option{poll.WithContext(d.ctx())}
	if d.Metrics != nil {
		opts = append(opts, poll.WithObserver(d.Metrics))
	}
	return opts
}

func (d *Deps) observeWrite(kind string, err error) {
	if d.Metrics != nil {
		d.Metrics.ObserveWrite(kind, err == nil)
	}
}

// loadRatio returns a persisted split ratio, or def.
func (d *Deps) loadRatio(key string, def float64) float64 {
	if d.Local == nil {
		return def
	}
	return d.Local.GetFloat(key, def)
}

func (d *Deps) saveRatio(key string, v float64) {
	if d.Local == nil {
		return
	}
	if err := d.Local.SetFloat(key, v); err != nil {
		logging.StoreWarn("persist %s: %v", key, err)
	}
}

func (d *Deps) setPref(key, value string) {
	if d.Local == nil {
		return
	}
	if err := d.Local.Set(key, value); err != nil {
		logging.StoreWarn("persist %s: %v", key, err)
	}
}

// =============================================================================
// SHARED MESSAGES
// =============================================================================

type (
	// statusMsg sets the footer line. Errors are rendered in the error style.
	statusMsg struct {
		text string
		err  bool
	}

	// navigateMsg switches the active screen.
	navigateMsg struct {
		to Screen
	}

	// openProjectMsg opens a project in the foundry.
	openProjectMsg struct {
		projectID string
	}

	// configChangedMsg carries a reloaded config file.
	configChangedMsg struct {
		cfg *config.Config
	}
)

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(format string, err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: format + ": " + err.Error(), err: true} }
}

func navigate(to Screen) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// listen waits for the next poll result. It returns nil once the poller is
// closed, which ends the listen chain.
func listen[T any](p *poll.Poller[T]) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-p.Results()
		if !ok {
			return nil
		}
		return r
	}
}
