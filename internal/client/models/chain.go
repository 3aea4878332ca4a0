package models

import "time"

// ChainMessage is one generation of a forwarded chain.
type ChainMessage struct {
	ID         ID        `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Generation int       `json:"generation"`
	SenderName string    `json:"sender_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChainSummary describes a chain started by the current user.
type ChainSummary struct {
	ChainID           ID        `json:"chain_id"`
	Title             string    `json:"title"`
	OriginalContent   string    `json:"original_content"`
	CurrentGeneration int       `json:"current_generation"`
	TotalMessages     int       `json:"total_messages"`
	LatestSender      string    `json:"latest_sender,omitempty"`
	LatestToken       string    `json:"latest_token"`
	LastUpdated       time.Time `json:"last_updated"`
	CreatedAt         time.Time `json:"created_at"`
}

// ChainExtension is the body posted to extend a chain.
type ChainExtension struct {
	SenderName     string `json:"sender_name"`
	RecipientEmail string `json:"recipient_email"`
	Content        string `json:"content"`
}

func (e ChainExtension) Validate() error {
	var v validator
	v.required("sender_name", e.SenderName, "Your name is required")
	v.email("recipient_email", e.RecipientEmail, "Recipient email is required")
	v.required("content", e.Content, "Message content is required")
	return v.err()
}
