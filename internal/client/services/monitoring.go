package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/poller"
)

type MonitoringAPI interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	SystemStatus(ctx context.Context) (*models.SystemStatus, error)
}

// Monitoring backs the dashboard and the admin system screen.
type Monitoring struct {
	api          MonitoringAPI
	pollInterval time.Duration
}

func NewMonitoring(a MonitoringAPI, pollInterval time.Duration) *Monitoring {
	return &Monitoring{api: a, pollInterval: pollInterval}
}

func (m *Monitoring) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return m.api.DashboardStats(ctx)
}

func (m *Monitoring) SystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	return m.api.SystemStatus(ctx)
}

// WatchSystem reports the system status now and every poll interval after.
func (m *Monitoring) WatchSystem(ctx context.Context, onUpdate func(*models.SystemStatus, error)) *poller.Task {
	return poller.Start(ctx, m.pollInterval, func(ctx context.Context) {
		st, err := m.api.SystemStatus(ctx)
		if ctx.Err() != nil {
			return
		}
		onUpdate(st, err)
	})
}
