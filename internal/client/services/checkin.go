package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

type Level int

const (
	LevelUnknown Level = iota
	LevelNormal
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelNormal:
		return "normal"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// Urgency is the dead-man's-switch state shown to the user.
type Urgency struct {
	Level Level
	// Days is the whole number of days left, rounded up, never negative.
	Days int
	Text string
}

const msPerDay = 86400000

// daysUntil rounds the time from now to t up to whole days, clamped at 0.
func daysUntil(t, now time.Time) int {
	ms := t.Sub(now).Milliseconds()
	d := int(math.Ceil(float64(ms) / msPerDay))
	return max(d, 0)
}

// ComputeUrgency derives the urgency of status at now. A nil status means
// it has not been fetched yet.
func ComputeUrgency(status *models.CheckInStatus, now time.Time) Urgency {
	if status == nil {
		return Urgency{Level: LevelUnknown, Text: "Loading..."}
	}

	if status.IsOverdue {
		if status.InGracePeriod {
			var days int
			if status.GracePeriodEnd != nil {
				days = daysUntil(*status.GracePeriodEnd, now)
			}
			return Urgency{
				Level: LevelWarning,
				Days:  days,
				Text:  fmt.Sprintf("Grace period: %d days remaining", days),
			}
		}
		return Urgency{Level: LevelError, Text: "Overdue - Messages may be delivered!"}
	}

	days := daysUntil(status.NextCheckInDue, now)
	return Urgency{
		Level: LevelNormal,
		Days:  days,
		Text:  fmt.Sprintf("Next check-in due in %d days", days),
	}
}

type CheckInAPI interface {
	CheckIn(ctx context.Context) error
	CheckInStatus(ctx context.Context) (*models.CheckInStatus, error)
	UpdateCheckInSettings(ctx context.Context, s models.CheckInSettings) error
}

// CheckIn backs the check-in widget and the settings screen.
type CheckIn struct {
	api CheckInAPI
	now func() time.Time

	mu     sync.Mutex
	status *models.CheckInStatus
	alert  string
}

func NewCheckIn(a CheckInAPI) *CheckIn {
	return &CheckIn{api: a, now: time.Now}
}

// Refresh fetches the current status.
func (c *CheckIn) Refresh(ctx context.Context) (*models.CheckInStatus, error) {
	st, err := c.api.CheckInStatus(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.alert = api.UserMessage(err)
		return nil, err
	}
	c.status, c.alert = st, ""
	return st, nil
}

// CheckIn records a check-in and refetches the status.
func (c *CheckIn) CheckIn(ctx context.Context) (*models.CheckInStatus, error) {
	if err := c.api.CheckIn(ctx); err != nil {
		c.setAlert(err)
		return nil, err
	}
	return c.Refresh(ctx)
}

// SaveSettings sends the whole settings object and refetches the status.
// The local status only changes from the refetched response.
func (c *CheckIn) SaveSettings(ctx context.Context, s models.CheckInSettings) (*models.CheckInStatus, error) {
	if err := s.Validate(); err != nil {
		c.setAlert(err)
		return nil, err
	}
	if err := c.api.UpdateCheckInSettings(ctx, s); err != nil {
		c.setAlert(err)
		return nil, err
	}
	return c.Refresh(ctx)
}

// Status returns the last fetched status, or nil.
func (c *CheckIn) Status() *models.CheckInStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *CheckIn) Urgency() Urgency {
	return ComputeUrgency(c.Status(), c.now())
}

func (c *CheckIn) Alert() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alert
}

func (c *CheckIn) setAlert(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alert = api.UserMessage(err)
}
