package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

type fakeMonitoringAPI struct {
	mu     sync.Mutex
	calls  int
	stats  *models.DashboardStats
	status *models.SystemStatus
	err    error
}

func (f *fakeMonitoringAPI) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return f.stats, f.err
}

func (f *fakeMonitoringAPI) SystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.status, f.err
}

func TestMonitoring_Stats(t *testing.T) {
	f := &fakeMonitoringAPI{stats: &models.DashboardStats{TotalMessages: 3, Sent: 1}}
	m := NewMonitoring(f, time.Minute)

	st, err := m.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalMessages)

	f.err = errOffline
	_, err = m.SystemStatus(context.Background())
	assert.ErrorIs(t, err, errOffline)
}

func TestMonitoring_WatchSystemPolls(t *testing.T) {
	f := &fakeMonitoringAPI{status: &models.SystemStatus{Mode: "redis", RedisConnected: true}}
	m := NewMonitoring(f, 5*time.Millisecond)

	updates := make(chan *models.SystemStatus, 16)
	task := m.WatchSystem(context.Background(), func(st *models.SystemStatus, err error) {
		if err == nil {
			select {
			case updates <- st:
			default:
			}
		}
	})

	for i := 0; i < 2; i++ {
		select {
		case st := <-updates:
			assert.Equal(t, "redis", st.Mode)
		case <-time.After(time.Second):
			t.Fatal("no status update")
		}
	}
	task.Stop()

	f.mu.Lock()
	calls := f.calls
	f.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, calls, f.calls, "no polls after Stop")
}
