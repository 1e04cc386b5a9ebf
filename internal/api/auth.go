package api

import (
	"context"

	"careerdeck/internal/types"
)

// AuthResult is returned by Login and Signup.
type AuthResult struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// Login exchanges credentials for a bearer token. The client's token is
// updated on success.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	in := map[string]string{"email": email, "password": password}
	if err := c.sendJSON(ctx, "POST", "/login", in, &res); err != nil {
		return nil, err
	}
	if res.Token != "" {
		c.SetToken(res.Token)
	}
	return &res, nil
}

// Signup creates an account and returns its token.
func (c *Client) Signup(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	var res AuthResult
	in := map[string]string{"full_name": fullName, "email": email, "password": password}
	if err := c.sendJSON(ctx, "POST", "/auth/signup", in, &res); err != nil {
		return nil, err
	}
	if res.Token != "" {
		c.SetToken(res.Token)
	}
	return &res, nil
}
