package api

import (
	"context"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

// Login exchanges credentials for a token pair. It does not store them.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp struct {
		models.LoginResponse
		Tokens *models.Tokens `json:"tokens"`
	}
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.publicPost(ctx, "/api/auth/login/", req, &resp); err != nil {
		return nil, err
	}
	// Some deployments nest the pair under "tokens".
	if resp.Access == "" && resp.Tokens != nil {
		resp.Access, resp.Refresh = resp.Tokens.Access, resp.Tokens.Refresh
	}
	if resp.Access == "" {
		return nil, ErrMalformedResponse
	}
	return &resp.LoginResponse, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.publicPost(ctx, "/api/auth/register/", req, nil)
}

// Profile returns the user the stored access token belongs to.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var resp struct {
		models.User
		Nested *models.User `json:"user"`
	}
	if err := c.get(ctx, "/api/auth/profile/", &resp); err != nil {
		return nil, err
	}
	if resp.Nested != nil {
		return resp.Nested, nil
	}
	return &resp.User, nil
}
