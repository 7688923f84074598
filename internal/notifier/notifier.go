// Package notifier delivers bot messages to the configured chat. Delivery is
// best effort: a transport failure is logged and reported as false, never
// propagated, so it cannot disturb the poll loop's error handling.
package notifier

import (
	"context"
	"log/slog"

	"homeworkbot/internal/types"
)

// Messenger is the chat transport used by the Notifier.
type Messenger interface {
	SendMessage(ctx context.Context, chatID string, text string) error
}

// DeliveryRecorder receives the result of every delivery attempt.
// kind is "status" or "diagnostic".
type DeliveryRecorder interface {
	RecordDelivery(kind string, delivered bool)
}

// Delivery kinds reported to the DeliveryRecorder.
const (
	KindStatus     = "status"
	KindDiagnostic = "diagnostic"
)

// Config holds the configuration for creating a Notifier.
type Config struct {
	Messenger Messenger
	ChatID    string
	Recorder  DeliveryRecorder
	Logger    *slog.Logger
}

// Notifier sends text to a single chat.
type Notifier struct {
	messenger Messenger
	chatID    string
	recorder  DeliveryRecorder
	logger    *slog.Logger
}

// New creates a Notifier.
func New(cfg Config) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		messenger: cfg.Messenger,
		chatID:    cfg.ChatID,
		recorder:  cfg.Recorder,
		logger:    logger,
	}
}

// Notify sends a status message and reports whether it was delivered.
func (n *Notifier) Notify(ctx context.Context, text string) bool {
	return n.deliver(ctx, KindStatus, text)
}

// NotifyDiagnostic sends a failure report and reports whether it was delivered.
func (n *Notifier) NotifyDiagnostic(ctx context.Context, text string) bool {
	return n.deliver(ctx, KindDiagnostic, text)
}

func (n *Notifier) deliver(ctx context.Context, kind string, text string) bool {
	err := n.messenger.SendMessage(ctx, n.chatID, text)
	if n.recorder != nil {
		n.recorder.RecordDelivery(kind, err == nil)
	}
	if err != nil {
		n.logger.ErrorContext(ctx, "Сообщение не отправлено! "+types.Describe(err),
			"request_id", types.GetRequestID(ctx),
			"kind", kind,
		)
		return false
	}

	n.logger.DebugContext(ctx, "Бот отправил сообщение: "+text,
		"request_id", types.GetRequestID(ctx),
		"kind", kind,
	)
	return true
}
