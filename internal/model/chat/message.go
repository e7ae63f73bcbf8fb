package chat

import "time"

// Message is one entry of the client-side transcript.
type Message struct {
	ID              int64     `json:"id"`
	Text            string    `json:"text"`
	IsFromAssistant bool      `json:"isFromAssistant"`
	Timestamp       time.Time `json:"timestamp"`
}
