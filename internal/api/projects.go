package api

import (
	"context"
	"net/url"

	"careerdeck/internal/types"
)

// StartResult is returned by StartProject. Status is "started" or
// "job_already_started".
type StartResult struct {
	Project types.Project `json:"project"`
	Status  string        `json:"status"`
}

// StartProject starts (or resumes) an active project.
func (c *Client) StartProject(ctx context.Context, title, techStack, description string) (*StartResult, error) {
	var res StartResult
	in := map[string]string{"title": title, "tech_stack": techStack, "description": description}
	if err := c.sendJSON(ctx, "POST", "/project/start", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Project fetches a project snapshot.
func (c *Client) Project(ctx context.Context, id string) (*types.Project, error) {
	var res types.Project
	if err := c.getJSON(ctx, "/project/"+url.PathEscape(id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UnlockPhase marks a phase complete. Status is "updated", "no_change" or
// "error"; callers re-fetch the project afterwards.
func (c *Client) UnlockPhase(ctx context.Context, projectID string, phaseID int) (string, error) {
	var res struct {
		Status string `json:"status"`
	}
	in := map[string]any{"project_id": projectID, "phase_id": phaseID}
	if err := c.sendJSON(ctx, "POST", "/project/unlock-phase", in, &res); err != nil {
		return "", err
	}
	return res.Status, nil
}

// PushCode uploads the shared editor buffer.
func (c *Client) PushCode(ctx context.Context, projectID, code string) error {
	in := map[string]string{"project_id": projectID, "code": code}
	return c.sendJSON(ctx, "POST", "/project/sync", in, nil)
}

// PullCode reads the shared editor buffer. This is the polled read.
func (c *Client) PullCode(ctx context.Context, projectID string) (string, error) {
	var res struct {
		Code string `json:"code"`
	}
	if err := c.getJSON(ctx, "/project/"+url.PathEscape(projectID)+"/sync", &res); err != nil {
		return "", err
	}
	return res.Code, nil
}

// Workspace lists active projects.
func (c *Client) Workspace(ctx context.Context) ([]types.Project, error) {
	var res struct {
		Projects []types.Project `json:"projects"`
	}
	if err := c.getJSON(ctx, "/workspace", &res); err != nil {
		return nil, err
	}
	return res.Projects, nil
}

// SaveGeneratedProjects persists the project lab list.
func (c *Client) SaveGeneratedProjects(ctx context.Context, projects []types.GeneratedProject) error {
	in := map[string]any{"projects": projects}
	return c.sendJSON(ctx, "POST", "/update-generated-projects", in, nil)
}

// CreateSession issues a join code for a project.
func (c *Client) CreateSession(ctx context.Context, projectID string) (string, error) {
	var res struct {
		Code string `json:"code"`
	}
	if err := c.sendJSON(ctx, "POST", "/session/create", map[string]string{"project_id": projectID}, &res); err != nil {
		return "", err
	}
	return res.Code, nil
}

// JoinSession redeems a join code and returns the project id.
func (c *Client) JoinSession(ctx context.Context, code string) (string, error) {
	var res struct {
		ProjectID string `json:"project_id"`
	}
	if err := c.sendJSON(ctx, "POST", "/session/join", map[string]string{"code": code}, &res); err != nil {
		return "", err
	}
	return res.ProjectID, nil
}
