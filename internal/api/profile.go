package api

import (
	"context"
	"net/http"
	"strconv"

	"careerdeck/internal/types"

	"golang.org/x/sync/errgroup"
)

// Profile fetches the user profile.
func (c *Client) Profile(ctx context.Context) (*types.Profile, error) {
	var res types.Profile
	if err := c.getJSON(ctx, "/profile", &res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		// The server reports a missing profile in-band.
		return nil, &Error{Method: "GET", Path: "/profile", Status: http.StatusNotFound, Detail: res.Error}
	}
	return &res, nil
}

// UpdateProfile saves editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, u types.ProfileUpdate) error {
	return c.sendJSON(ctx, "POST", "/profile/update", u, nil)
}

// SetGoal sets the done flag of a goal.
func (c *Client) SetGoal(ctx context.Context, goalID int, done bool) error {
	return c.sendJSON(ctx, "PUT", "/profile/goals/"+strconv.Itoa(goalID), map[string]bool{"is_done": done}, nil)
}

// Heartbeat records a minute of activity.
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.sendJSON(ctx, "POST", "/profile/activity", map[string]int{"minutes": 1}, nil)
}

// MarketMatch restores the latest analysis. A stored-profile miss is
// reported by the server as {"error": ...} and returned as nil, nil.
func (c *Client) MarketMatch(ctx context.Context) (*types.MarketMatch, error) {
	var res types.MarketMatch
	if err := c.getJSON(ctx, "/market-match", &res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, nil
	}
	return &res, nil
}

// JobMatches lists job matches for the stored profile.
func (c *Client) JobMatches(ctx context.Context) ([]types.JobMatch, error) {
	var res struct {
		Jobs []types.JobMatch `json:"jobs"`
	}
	if err := c.getJSON(ctx, "/job-matches", &res); err != nil {
		return nil, err
	}
	return res.Jobs, nil
}

// LiveFeeds lists trending jobs and project ideas.
func (c *Client) LiveFeeds(ctx context.Context) (*types.LiveFeeds, error) {
	var res types.LiveFeeds
	if err := c.getJSON(ctx, "/live-feeds", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Ticker lists market ticker entries.
func (c *Client) Ticker(ctx context.Context) ([]types.TickerEntry, error) {
	var res []types.TickerEntry
	if err := c.getJSON(ctx, "/market/ticker", &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GrowthStatus reads the growth stage and progress.
func (c *Client) GrowthStatus(ctx context.Context) (*types.GrowthStatus, error) {
	var res types.GrowthStatus
	if err := c.getJSON(ctx, "/growth-status", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Dashboard loads every dashboard panel concurrently. Panels that fail are
// left empty and their errors returned; one failure does not cancel the rest.
func (c *Client) Dashboard(ctx context.Context) (*types.Dashboard, []error) {
	// Plain Group, not WithContext: panels report into errs so one failure
	// never cancels the others.
	var (
		d    types.Dashboard
		g    errgroup.Group
		errs = make([]error, 5)
	)

	g.Go(func() error {
		m, err := c.MarketMatch(ctx)
		d.Market, errs[0] = m, err
		return nil
	})
	g.Go(func() error {
		jobs, err := c.JobMatches(ctx)
		d.Jobs, errs[1] = jobs, err
		return nil
	})
	g.Go(func() error {
		feeds, err := c.LiveFeeds(ctx)
		if feeds != nil {
			d.Feeds = *feeds
		}
		errs[2] = err
		return nil
	})
	g.Go(func() error {
		t, err := c.Ticker(ctx)
		d.Ticker, errs[3] = t, err
		return nil
	})
	g.Go(func() error {
		gs, err := c.GrowthStatus(ctx)
		if gs != nil {
			d.Growth = *gs
		}
		errs[4] = err
		return nil
	})
	_ = g.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	return &d, failed
}
