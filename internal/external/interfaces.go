package external

import (
	"context"
)

// StatusFetcher abstracts the homework review API.
type StatusFetcher interface {
	// GetHomeworkStatuses returns the decoded response body for every status
	// change since the given Unix timestamp.
	GetHomeworkStatuses(ctx context.Context, from int64) (any, error)
}

// MessageSender abstracts the chat transport.
type MessageSender interface {
	// SendMessage delivers text to a chat. chatID is a numeric ID or an
	// @channel username.
	SendMessage(ctx context.Context, chatID string, text string) error
}

// Compile-time interface compliance checks.
var (
	_ StatusFetcher = (*PracticumClient)(nil)
	_ MessageSender = (*TelegramSender)(nil)
)
