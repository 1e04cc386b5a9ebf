package main

import (
	"context"
	"fmt"

	"careerdeck/cmd/deck/ui"
	"careerdeck/cmd/deck/views"
	"careerdeck/internal/api"
	"careerdeck/internal/career"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// projectCmd shows one project or the workspace
var projectCmd = &cobra.Command{
	Use:   "project [project-id]",
	Short: "Show a project roadmap, or list active projects",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withEnv(runProject),
}

// shareCmd creates a shared-session join code
var shareCmd = &cobra.Command{
	Use:   "share <project-id>",
	Short: "Create a join code for collaborating on a project",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runShare),
}

// joinCmd joins a shared session
var joinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join a shared project session with a 6-digit code",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runJoin),
}

func runProject(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	s := ui.DefaultStyles()

	if len(args) == 0 {
		projects, err := e.client.Workspace(ctx)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No active projects. Start one from the Project Lab.")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("  %-12s %-40s phase %d/%d\n", p.ID, p.Title, p.CurrentPhase, p.TotalPhases)
		}
		return nil
	}

	p, err := e.client.Project(ctx, args[0])
	if err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("project %s not found", args[0])
		}
		return err
	}
	fmt.Println(views.RenderProjectBrief(s, *p, 80))
	return nil
}

func runShare(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	code, err := e.client.CreateSession(ctx, args[0])
	if err != nil {
		e.metrics.ObserveWrite("session", false)
		return fmt.Errorf("could not create session: %w", err)
	}
	e.metrics.ObserveWrite("session", true)
	fmt.Printf("Share this code: %s\n", code)
	return nil
}

func runJoin(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	code, err := career.NormalizeSessionCode(args[0])
	if err != nil {
		return err
	}
	projectID, err := e.client.JoinSession(ctx, code)
	if err != nil {
		logger.Warn("join failed", zap.Error(err))
		if api.StatusOf(err) != 0 {
			return career.ErrSessionExpired
		}
		return err
	}
	fmt.Printf("✓ Joined project %s. Open it with: deck project %s\n", projectID, projectID)
	return nil
}
