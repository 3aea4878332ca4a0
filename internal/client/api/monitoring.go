package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.get(ctx, "/api/dashboard/stats/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	var out models.SystemStatus
	if err := c.get(ctx, "/api/system/status/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JobStatus(ctx context.Context, jobID string) (*models.JobStatus, error) {
	var out models.JobStatus
	if err := c.get(ctx, "/api/jobs/"+url.PathEscape(jobID)+"/status/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
