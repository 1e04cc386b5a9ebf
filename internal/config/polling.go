package config

import (
	"fmt"
	"time"
)

// PollingConfig configures the refresh loops.
type PollingConfig struct {
	ChatInterval      string `yaml:"chat_interval"`
	CodeSyncInterval  string `yaml:"code_sync_interval"`
	GrowthInterval    string `yaml:"growth_interval"`
	HeartbeatInterval string `yaml:"heartbeat_interval"`
	CodePushDebounce  string `yaml:"code_push_debounce"`
}

// DefaultPollingConfig returns the polling defaults.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		ChatInterval:      "3s",
		CodeSyncInterval:  "5s",
		GrowthInterval:    "30s",
		HeartbeatInterval: "60s",
		CodePushDebounce:  "1s",
	}
}

func (p PollingConfig) Chat() time.Duration      { return parseDuration(p.ChatInterval, 3*time.Second) }
func (p PollingConfig) CodeSync() time.Duration  { return parseDuration(p.CodeSyncInterval, 5*time.Second) }
func (p PollingConfig) Growth() time.Duration    { return parseDuration(p.GrowthInterval, 30*time.Second) }
func (p PollingConfig) Heartbeat() time.Duration { return parseDuration(p.HeartbeatInterval, time.Minute) }
func (p PollingConfig) PushDebounce() time.Duration {
	return parseDuration(p.CodePushDebounce, time.Second)
}

func (p PollingConfig) validate() error {
	fields := map[string]string{
		"chat_interval":      p.ChatInterval,
		"code_sync_interval": p.CodeSyncInterval,
		"growth_interval":    p.GrowthInterval,
		"heartbeat_interval": p.HeartbeatInterval,
		"code_push_debounce": p.CodePushDebounce,
	}
	for name, v := range fields {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("polling.%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("polling.%s must be positive", name)
		}
	}
	return nil
}
