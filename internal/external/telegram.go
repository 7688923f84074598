package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homeworkbot/internal/types"
)

// defaultTelegramEndpoint is the Bot API URL format: token, then method name.
const defaultTelegramEndpoint = tgbotapi.APIEndpoint

// TelegramSenderConfig holds the configuration for creating a TelegramSender.
type TelegramSenderConfig struct {
	Token types.SecretString
	// APIEndpoint overrides the Bot API URL format; used by tests.
	APIEndpoint string
	Logger      *slog.Logger
}

// TelegramSender delivers text messages through the Telegram Bot API.
//
// The bot handle is created on the first send (the library validates the
// token with getMe at construction), so startup never touches the network.
// A failed initialization is retried on the next send.
//
// The library builds requests without a context, so a send carries no
// X-Request-ID header and is not aborted by ctx once started. The HTTP client
// timeout bounds it.
type TelegramSender struct {
	base     *BaseClient
	token    types.SecretString
	endpoint string
	logger   *slog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramSender creates a TelegramSender whose HTTP traffic goes through
// the given BaseClient.
func NewTelegramSender(base *BaseClient, cfg TelegramSenderConfig) *TelegramSender {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = defaultTelegramEndpoint
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramSender{
		base:     base,
		token:    cfg.Token,
		endpoint: endpoint,
		logger:   logger,
	}
}

// SendMessage posts text to chatID, which is either a numeric chat ID or an
// @channel username. Every failure is a transport_delivery_failed AppError.
func (s *TelegramSender) SendMessage(ctx context.Context, chatID string, text string) error {
	if err := ctx.Err(); err != nil {
		return s.deliveryError("message not sent", err)
	}

	msg, err := newChatMessage(chatID, text)
	if err != nil {
		return types.NewAppErrorWithDetails(
			types.ErrCodeTransportDeliveryFailed,
			fmt.Sprintf("invalid chat id %q", chatID),
			err,
			map[string]any{"chat_id": chatID},
		)
	}

	bot, err := s.client()
	if err != nil {
		return s.deliveryError("bot initialization failed", err)
	}

	sent, err := bot.Send(msg)
	if err != nil {
		return s.deliveryError("message not sent", err)
	}

	s.logger.DebugContext(ctx, "telegram message delivered",
		"message_id", sent.MessageID,
	)
	return nil
}

// client returns the bot handle, creating it on first use.
func (s *TelegramSender) client() (*tgbotapi.BotAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bot != nil {
		return s.bot, nil
	}

	bot, err := tgbotapi.NewBotAPIWithClient(s.token.Unmask(), s.endpoint, s.base)
	if err != nil {
		return nil, err
	}
	s.bot = bot
	return bot, nil
}

// deliveryError wraps err with the bot token scrubbed out. Transport errors
// from net/http quote the full request URL, which contains the token.
func (s *TelegramSender) deliveryError(message string, err error) error {
	details := map[string]any{}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		details["error_code"] = apiErr.Code
		if apiErr.RetryAfter > 0 {
			details["retry_after"] = apiErr.RetryAfter
		}
	}

	cause := err
	if token := s.token.Unmask(); token != "" {
		if text := types.Describe(err); strings.Contains(text, token) {
			cause = errors.New(strings.ReplaceAll(text, token, types.RedactedPlaceholder))
		}
	}

	return types.NewAppErrorWithDetails(types.ErrCodeTransportDeliveryFailed, message, cause, details)
}

func newChatMessage(chatID string, text string) (tgbotapi.MessageConfig, error) {
	if strings.HasPrefix(chatID, "@") {
		return tgbotapi.NewMessageToChannel(chatID, text), nil
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return tgbotapi.MessageConfig{}, err
	}
	return tgbotapi.NewMessage(id, text), nil
}
