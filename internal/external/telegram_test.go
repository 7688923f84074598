package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeworkbot/internal/types"
)

const testBotToken = "123456:test-bot-token"

// fakeBotAPI is a minimal Telegram Bot API: getMe and sendMessage.
type fakeBotAPI struct {
	mu        sync.Mutex
	getMeHits int
	sent      []map[string]string
	// sendStatus, when non-zero, makes sendMessage fail with that API error code.
	sendStatus int
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/bot" + testBotToken + "/getMe":
		f.getMeHits++
		w.Write([]byte(`{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Homework","username":"homework_bot"}}`))
	case "/bot" + testBotToken + "/sendMessage":
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if f.sendStatus != 0 {
			w.WriteHeader(f.sendStatus)
			w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		f.sent = append(f.sent, map[string]string{
			"chat_id":    r.PostForm.Get("chat_id"),
			"text":       r.PostForm.Get("text"),
			"request_id": r.Header.Get(requestIDHeader),
			"user_agent": r.Header.Get("User-Agent"),
		})
		w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":1700000000,"chat":{"id":123,"type":"private"},"text":"ok"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}
}

func newTestTelegramSender(t *testing.T, serverURL string, token string) *TelegramSender {
	t.Helper()
	base := NewBaseClient(&http.Client{Timeout: 5 * time.Second}, "test-telegram", "homework-bot-test/1.0")
	return NewTelegramSender(base, TelegramSenderConfig{
		Token:       types.SecretString(token),
		APIEndpoint: serverURL + "/bot%s/%s",
	})
}

func TestSendMessage_NumericChat(t *testing.T) {
	api := &fakeBotAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	sender := newTestTelegramSender(t, server.URL, testBotToken)
	require.NoError(t, sender.SendMessage(context.Background(), "123", "Работа взята на проверку ревьюером."))
	require.NoError(t, sender.SendMessage(context.Background(), "123", "second"))

	require.Len(t, api.sent, 2)
	assert.Equal(t, "123", api.sent[0]["chat_id"])
	assert.Equal(t, "Работа взята на проверку ревьюером.", api.sent[0]["text"])
	assert.Equal(t, 1, api.getMeHits, "bot handle is created once")
}

func TestSendMessage_ChannelUsername(t *testing.T) {
	api := &fakeBotAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	sender := newTestTelegramSender(t, server.URL, testBotToken)
	require.NoError(t, sender.SendMessage(context.Background(), "@homework_channel", "hello"))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "@homework_channel", api.sent[0]["chat_id"])
}

func TestSendMessage_LibraryRequestsCarryNoRequestID(t *testing.T) {
	api := &fakeBotAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	ctx := types.WithRequestID(context.Background(), "poll-1")
	require.NoError(t, newTestTelegramSender(t, server.URL, testBotToken).SendMessage(ctx, "123", "hello"))

	require.Len(t, api.sent, 1)
	assert.Empty(t, api.sent[0]["request_id"])
	assert.Equal(t, "homework-bot-test/1.0", api.sent[0]["user_agent"])
}

func TestSendMessage_InvalidChatID(t *testing.T) {
	api := &fakeBotAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	err := newTestTelegramSender(t, server.URL, testBotToken).SendMessage(context.Background(), "not-a-number", "hello")

	assert.Equal(t, types.KindTransportFailure, types.KindOf(err))
	assert.Equal(t, 0, api.getMeHits)
}

func TestSendMessage_APIErrorIsDeliveryFailure(t *testing.T) {
	api := &fakeBotAPI{sendStatus: http.StatusBadRequest}
	server := httptest.NewServer(api)
	defer server.Close()

	err := newTestTelegramSender(t, server.URL, testBotToken).SendMessage(context.Background(), "123", "hello")

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeTransportDeliveryFailed, appErr.Code)
	assert.Equal(t, 400, appErr.Details["error_code"])
	assert.Contains(t, types.Describe(err), "chat not found")
}

func TestSendMessage_BadTokenRetriesInitialization(t *testing.T) {
	api := &fakeBotAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	sender := newTestTelegramSender(t, server.URL, "wrong-token")
	err1 := sender.SendMessage(context.Background(), "123", "hello")
	err2 := sender.SendMessage(context.Background(), "123", "hello")

	assert.Equal(t, types.KindTransportFailure, types.KindOf(err1))
	assert.Equal(t, types.KindTransportFailure, types.KindOf(err2))
	assert.Empty(t, api.sent)
}

func TestSendMessage_ConnectionFailureScrubsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := newTestTelegramSender(t, url, testBotToken).SendMessage(context.Background(), "123", "hello")

	require.Error(t, err)
	assert.Equal(t, types.KindTransportFailure, types.KindOf(err))
	assert.NotContains(t, types.Describe(err), testBotToken)
}

func TestSendMessage_CancelledContext(t *testing.T) {
	api := &fakeBotAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestTelegramSender(t, server.URL, testBotToken).SendMessage(ctx, "123", "hello")

	assert.Equal(t, types.KindTransportFailure, types.KindOf(err))
	assert.Empty(t, api.sent)
}
