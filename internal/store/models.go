package store

import "time"

// Document is an uploaded text with its derived retrieval chunks. Documents
// are immutable after creation; the only mutation is deletion from the store.
type Document struct {
	ID         string    `json:"id"` // UUID
	Title      string    `json:"title"`
	RawContent string    `json:"-"` // Full text, not exposed in API responses
	Chunks     []string  `json:"chunks"`
	UploadedAt time.Time `json:"uploaded_at"`
	SizeBytes  int64     `json:"size_bytes"`
}

type Chat struct {
	ID        string    `json:"id"` // UUID
	Title     *string   `json:"title"` // Nullable
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID               string    `json:"id"` // UUID
	ChatID           string    `json:"chat_id"`
	Sender           string    `json:"sender"` // "user" or "model"
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	NegativeFeedback bool      `json:"negative_feedback"`
}
