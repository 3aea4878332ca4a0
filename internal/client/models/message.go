package models

import "time"

type MessageStatus string

const (
	MessageCreated   MessageStatus = "created"
	MessagePending   MessageStatus = "pending"
	MessageScheduled MessageStatus = "scheduled"
	MessageSent      MessageStatus = "sent"
	MessageFailed    MessageStatus = "failed"
)

// Message is a legacy message owned by the current user.
type Message struct {
	ID             ID            `json:"id"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	RecipientEmail string        `json:"recipient_email"`
	DeliveryDate   time.Time     `json:"delivery_date"`
	Status         MessageStatus `json:"status"`
	JobID          string        `json:"job_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	SentAt         *time.Time    `json:"sent_at,omitempty"`
	UserEmail      string        `json:"user_email,omitempty"`
}

// Editable reports whether the backend still accepts edits.
func (m Message) Editable() bool {
	return m.Status == MessageCreated || m.Status == MessageFailed
}

// Draft returns the editable fields of m.
func (m Message) Draft() MessageDraft {
	return MessageDraft{
		Title:          m.Title,
		Content:        m.Content,
		RecipientEmail: m.RecipientEmail,
		DeliveryDate:   m.DeliveryDate,
	}
}

// MessageDraft is the body of create and update requests.
type MessageDraft struct {
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RecipientEmail string    `json:"recipient_email"`
	DeliveryDate   time.Time `json:"delivery_date"`
}

// Validate checks the draft against now. A draft that fails here must never
// reach the backend.
func (d MessageDraft) Validate(now time.Time) error {
	var v validator

	v.required("title", d.Title, "Title is required")
	v.required("content", d.Content, "Message content is required")
	v.email("recipient_email", d.RecipientEmail, "Recipient email is required")
	switch {
	case d.DeliveryDate.IsZero():
		v.add("delivery_date", "Delivery date is required")
	case !d.DeliveryDate.After(now):
		v.add("delivery_date", "Delivery date must be in the future")
	}

	return v.err()
}

// MessageAction is the body of send-test and schedule.
type MessageAction struct {
	MessageID ID `json:"message_id"`
}

type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
}
