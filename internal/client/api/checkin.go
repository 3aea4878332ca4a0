package api

import (
	"context"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

func (c *Client) CheckIn(ctx context.Context) error {
	return c.post(ctx, "/accounts/api/check-in/", struct{}{}, nil)
}

func (c *Client) CheckInStatus(ctx context.Context) (*models.CheckInStatus, error) {
	var out models.CheckInStatus
	if err := c.get(ctx, "/accounts/api/check-in/status/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCheckInSettings(ctx context.Context, s models.CheckInSettings) error {
	return c.put(ctx, "/accounts/api/settings/", s, nil)
}
