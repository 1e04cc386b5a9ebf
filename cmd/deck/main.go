package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"careerdeck/internal/api"
	"careerdeck/internal/config"
	"careerdeck/internal/logging"
	"careerdeck/internal/metrics"
	"careerdeck/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiURL     string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deck",
	Short: "careerdeck - career guidance in your terminal",
	Long: `careerdeck is a terminal client for the career guidance service.

It brings the dashboard, career coach, resume analyzer, community chat and
the collaborative project foundry into one full-screen interface.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive mode has its own UI
		if cmd == cmd.Root() {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .deck/config.yaml or ~/.careerdeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Career API base URL (or set DECK_API_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for one-shot commands")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd)
	rootCmd.AddCommand(analyzeCmd, askCmd)
	rootCmd.AddCommand(channelsCmd, sendCmd)
	rootCmd.AddCommand(projectCmd, shareCmd, joinCmd)
	rootCmd.AddCommand(statusCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is the wiring shared by every command.
type env struct {
	cfg     *config.Config
	cfgPath string
	dir     string
	local   *store.LocalStore
	client  *api.Client
	metrics *metrics.Collector
}

// bootstrap loads config, starts file logging, opens the local store and
// builds the API client with the persisted token.
func bootstrap() (*env, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := logging.Initialize(filepath.Join(dir, "logs"), cfg.Logging.Options()); err != nil {
		return nil, err
	}
	logging.Boot("config: %s, api: %s", path, cfg.API.BaseURL)

	local, err := store.NewLocalStore(cfg.DatabasePath(dir))
	if err != nil {
		return nil, err
	}

	token := cfg.Token
	if token == "" {
		token = local.GetString(store.KeyToken, "")
	}

	m := metrics.New()
	client := api.New(api.Config{
		BaseURL:           cfg.API.BaseURL,
		Token:             token,
		Timeout:           cfg.API.GetTimeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	})
	client.SetObserver(m)

	return &env{cfg: cfg, cfgPath: path, dir: dir, local: local, client: client, metrics: m}, nil
}

func (e *env) Close() {
	if e.local != nil {
		if err := e.local.Close(); err != nil {
			logging.StoreWarn("close store: %v", err)
		}
	}
}

// requireLogin fails early when no token is available.
func (e *env) requireLogin() error {
	if e.client.Token() == "" {
		return fmt.Errorf("not logged in: run 'deck login' first")
	}
	return nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// withEnv wraps a command body with bootstrap and teardown.
func withEnv(fn func(ctx context.Context, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := commandContext()
		defer cancel()
		return fn(ctx, e, args)
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
