package main

import (
	"context"
	"fmt"
	"os"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/career"
	"careerdeck/internal/config"
	"careerdeck/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// statusCmd prints session and growth information
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show login state, growth stage and the configured API",
	RunE:  withEnv(runStatus),
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  withEnv(runConfigShow),
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		cfg := config.DefaultConfig()
		if apiURL != "" {
			cfg.API.BaseURL = apiURL
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runStatus(ctx context.Context, e *env, _ []string) error {
	s := ui.DefaultStyles()
	fmt.Println(ui.Logo(s))
	fmt.Printf("API:    %s\n", e.client.BaseURL())
	fmt.Printf("Config: %s\n", e.cfgPath)
	fmt.Printf("Store:  %s\n", e.local.Path())

	if e.client.Token() == "" {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("User:   %s <%s>\n",
		e.local.GetString(store.KeyUserName, "?"),
		e.local.GetString(store.KeyUserEmail, "?"))

	g, err := e.client.GrowthStatus(ctx)
	if err != nil {
		fmt.Printf("Growth: unavailable (%v)\n", err)
		return nil
	}
	pct := g.Progress
	if pct <= 0 {
		pct = career.StageProgress(g.Stage)
	}
	fmt.Printf("Growth: %s %s %d%%\n", g.Stage, s.RenderProgress(pct, 20), pct)
	return nil
}

func runConfigShow(_ context.Context, e *env, _ []string) error {
	out, err := yaml.Marshal(e.cfg)
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n%s", e.cfgPath, out)
	return nil
}
