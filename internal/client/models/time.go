package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Time decodes a backend timestamp. The message store writes naive ISO
// strings without a zone offset; those are read as UTC. Fractional seconds
// are accepted in every layout.
type Time struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTime reads an RFC 3339 timestamp or a zone-less ISO one in UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}

func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ptr is nil for a missing or zero time.
func (t *Time) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// The decoders below shadow the time fields of each response type with Time.

func (m *Message) UnmarshalJSON(b []byte) error {
	type plain Message
	var aux struct {
		plain
		DeliveryDate Time  `json:"delivery_date"`
		CreatedAt    Time  `json:"created_at"`
		SentAt       *Time `json:"sent_at"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*m = Message(aux.plain)
	m.DeliveryDate, m.CreatedAt, m.SentAt = aux.DeliveryDate.Time, aux.CreatedAt.Time, aux.SentAt.ptr()
	return nil
}

func (s *JobStatus) UnmarshalJSON(b []byte) error {
	type plain JobStatus
	var aux struct {
		plain
		EnqueuedAt *Time `json:"enqueued_at"`
		StartedAt  *Time `json:"started_at"`
		EndedAt    *Time `json:"ended_at"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = JobStatus(aux.plain)
	s.EnqueuedAt, s.StartedAt, s.EndedAt = aux.EnqueuedAt.ptr(), aux.StartedAt.ptr(), aux.EndedAt.ptr()
	return nil
}

func (s *CheckInStatus) UnmarshalJSON(b []byte) error {
	type plain CheckInStatus
	var aux struct {
		plain
		LastCheckIn        *Time `json:"last_check_in"`
		NextCheckInDue     Time  `json:"next_check_in_due"`
		GracePeriodEnd     *Time `json:"grace_period_end"`
		NotificationSentAt *Time `json:"notification_sent_at"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = CheckInStatus(aux.plain)
	s.LastCheckIn, s.NextCheckInDue = aux.LastCheckIn.ptr(), aux.NextCheckInDue.Time
	s.GracePeriodEnd, s.NotificationSentAt = aux.GracePeriodEnd.ptr(), aux.NotificationSentAt.ptr()
	return nil
}

func (c *ChainMessage) UnmarshalJSON(b []byte) error {
	type plain ChainMessage
	var aux struct {
		plain
		CreatedAt Time `json:"created_at"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = ChainMessage(aux.plain)
	c.CreatedAt = aux.CreatedAt.Time
	return nil
}

func (c *ChainSummary) UnmarshalJSON(b []byte) error {
	type plain ChainSummary
	var aux struct {
		plain
		LastUpdated Time `json:"last_updated"`
		CreatedAt   Time `json:"created_at"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = ChainSummary(aux.plain)
	c.LastUpdated, c.CreatedAt = aux.LastUpdated.Time, aux.CreatedAt.Time
	return nil
}

func (a *AccessInfo) UnmarshalJSON(b []byte) error {
	type plain AccessInfo
	var aux struct {
		plain
		ExpiresAt *Time `json:"expires_at"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = AccessInfo(aux.plain)
	a.ExpiresAt = aux.ExpiresAt.ptr()
	return nil
}
