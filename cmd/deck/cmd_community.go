package main

import (
	"context"
	"fmt"

	"careerdeck/cmd/deck/ui"
	"careerdeck/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var messagesTail int

// channelsCmd lists community channels
var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List community channels",
	RunE:  withEnv(runChannels),
}

// messagesCmd prints the recent messages of a channel
var messagesCmd = &cobra.Command{
	Use:   "messages <channel>",
	Short: "Show recent messages in a channel",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runMessages),
}

// sendCmd posts one message
var sendCmd = &cobra.Command{
	Use:   "send <channel> <message>",
	Short: "Send a message to a community channel",
	Args:  cobra.MinimumNArgs(2),
	RunE:  withEnv(runSend),
}

func init() {
	messagesCmd.Flags().IntVarP(&messagesTail, "tail", "n", 20, "Number of messages to show")
	rootCmd.AddCommand(messagesCmd)
}

func runChannels(ctx context.Context, e *env, _ []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	channels, err := e.client.Channels(ctx)
	if err != nil {
		return err
	}
	category := ""
	for _, ch := range channels {
		if ch.Category != category {
			category = ch.Category
			fmt.Printf("\n%s\n", category)
		}
		fmt.Printf("  #%s\n", ch.Name)
	}
	return nil
}

func runMessages(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	msgs, err := e.client.Messages(ctx, args[0])
	if err != nil {
		logging.ChatWarn("fetch %s failed, using cache: %v", args[0], err)
		msgs, err = e.local.CachedMessages(args[0])
		if err != nil {
			return err
		}
	} else if err := e.local.CacheMessages(args[0], msgs); err != nil {
		logger.Warn("cache messages failed", zap.Error(err))
	}

	if messagesTail > 0 && len(msgs) > messagesTail {
		msgs = msgs[len(msgs)-messagesTail:]
	}
	s := ui.DefaultStyles()
	for _, m := range msgs {
		fmt.Printf("%s %s  %s\n", s.Muted.Render(m.Time), s.AuthorName.Render(m.Author), m.Body)
	}
	return nil
}

func runSend(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	body := joinArgs(args[1:])
	if body == "" {
		return fmt.Errorf("message is empty")
	}
	if err := e.client.SendMessage(ctx, args[0], body); err != nil {
		e.metrics.ObserveWrite("message", false)
		return fmt.Errorf("send failed: %w", err)
	}
	e.metrics.ObserveWrite("message", true)
	fmt.Printf("✓ Sent to #%s\n", args[0])
	return nil
}
