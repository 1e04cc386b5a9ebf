package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"careerdeck/cmd/deck/ui"
	"careerdeck/cmd/deck/views"
	"careerdeck/internal/config"
	"careerdeck/internal/logging"
	"careerdeck/internal/state"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var startScreen string

func init() {
	rootCmd.Flags().StringVarP(&startScreen, "screen", "s", "", "Initial screen (dashboard, chat, analyzer, community, projects, foundry, profile)")
}

// parseScreen resolves a screen by a prefix of its name.
func parseScreen(name string) (views.Screen, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return views.ScreenDashboard, nil
	}
	aliases := []struct {
		name   string
		screen views.Screen
	}{
		{"dashboard", views.ScreenDashboard},
		{"chat", views.ScreenCareerChat},
		{"coach", views.ScreenCareerChat},
		{"analyzer", views.ScreenAnalyzer},
		{"lab", views.ScreenAnalyzer},
		{"community", views.ScreenCommunity},
		{"projects", views.ScreenProjects},
		{"foundry", views.ScreenFoundry},
		{"profile", views.ScreenProfile},
	}
	for _, a := range aliases {
		if strings.HasPrefix(a.name, name) {
			return a.screen, nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}

// runInteractive starts the full-screen interface.
func runInteractive(cmd *cobra.Command, args []string) error {
	screen, err := parseScreen(startScreen)
	if err != nil {
		return err
	}

	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.Close()

	if e.client.Token() == "" {
		return fmt.Errorf("not logged in: run 'deck login --email you@example.com' first")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []views.AppOption{views.WithScreen(screen)}

	watcher, err := config.NewWatcher(e.cfgPath)
	if err != nil {
		logging.ConfigWarn("config watcher unavailable: %v", err)
	} else {
		if err := watcher.Start(ctx); err != nil {
			logging.ConfigWarn("config watcher failed to start: %v", err)
		} else {
			defer watcher.Stop()
			opts = append(opts, views.WithConfigChanges(watcher.Changes()))
		}
	}

	if addr := e.cfg.Metrics.ListenAddr; addr != "" {
		go func() {
			if err := e.metrics.Serve(ctx, addr); err != nil {
				logging.BootWarn("metrics endpoint stopped: %v", err)
			}
		}()
	}

	theme := ui.ThemeByName(e.cfg.UI.Theme)
	deps := &views.Deps{
		Client:   e.client,
		State:    state.New(),
		Local:    e.local,
		Config:   e.cfg,
		Metrics:  e.metrics,
		Styles:   ui.NewStyles(theme),
		Markdown: ui.NewMarkdownRenderer(theme),
		Now:      time.Now,
		Ctx:      ctx,
	}
	app := views.NewApp(deps, opts...)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	deps.Sender = p

	logging.UI("starting interactive session on %s", screen)
	final, runErr := p.Run()
	if m, ok := final.(views.App); ok {
		m.Shutdown()
	} else {
		app.Shutdown()
	}
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("interface error: %w", runErr)
	}
	return nil
}
