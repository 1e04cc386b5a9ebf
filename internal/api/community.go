package api

import (
	"context"
	"net/url"

	"careerdeck/internal/types"
)

// Channels lists community channels.
func (c *Client) Channels(ctx context.Context) ([]types.Channel, error) {
	var res []types.Channel
	if err := c.getJSON(ctx, "/community/channels", &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Messages lists the messages of a channel. This is the polled read.
func (c *Client) Messages(ctx context.Context, channel string) ([]types.Message, error) {
	var res []types.Message
	if err := c.getJSON(ctx, "/community/messages/"+url.PathEscape(channel), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// SendMessage posts a text message to a channel.
func (c *Client) SendMessage(ctx context.Context, channel, content string) error {
	in := map[string]string{"channel": channel, "content": content, "type": "text"}
	return c.sendJSON(ctx, "POST", "/community/messages", in, nil)
}
