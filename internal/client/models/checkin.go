package models

import (
	"slices"
	"time"
)

// CheckInStatus is the dead-man's-switch state computed by the backend.
type CheckInStatus struct {
	LastCheckIn            *time.Time `json:"last_check_in"`
	NextCheckInDue         time.Time  `json:"next_check_in_due"`
	CheckInIntervalMonths  int        `json:"check_in_interval_months"`
	GracePeriodDays        int        `json:"grace_period_days"`
	IsOverdue              bool       `json:"is_overdue"`
	InGracePeriod          bool       `json:"in_grace_period"`
	GracePeriodEnd         *time.Time `json:"grace_period_end"`
	NotificationSentAt     *time.Time `json:"notification_sent_at"`
	ScheduledMessagesCount int        `json:"scheduled_messages_count"`
}

// Settings returns the editable part of the status.
func (s CheckInStatus) Settings() CheckInSettings {
	return CheckInSettings{
		CheckInIntervalMonths: s.CheckInIntervalMonths,
		GracePeriodDays:       s.GracePeriodDays,
	}
}

// CheckInIntervals are the accepted check-in intervals in months.
var CheckInIntervals = []int{1, 3, 6, 12, 24}

type CheckInSettings struct {
	CheckInIntervalMonths int `json:"check_in_interval_months"`
	GracePeriodDays       int `json:"grace_period_days"`
}

func (s CheckInSettings) Validate() error {
	var v validator
	if !slices.Contains(CheckInIntervals, s.CheckInIntervalMonths) {
		v.add("check_in_interval_months", "Check-in interval must be 1, 3, 6, 12 or 24 months")
	}
	if s.GracePeriodDays < 1 || s.GracePeriodDays > 30 {
		v.add("grace_period_days", "Grace period must be between 1 and 30 days")
	}
	return v.err()
}
