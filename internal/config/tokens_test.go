package config

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeworkbot/internal/logging"
)

func validValues() []RequiredValue {
	return []RequiredValue{
		{Name: "PRACTICUM_TOKEN", Value: "p"},
		{Name: "TELEGRAM_TOKEN", Value: "t"},
		{Name: "TELEGRAM_CHAT_ID", Value: "1"},
	}
}

func TestCheckTokensAllPresent(t *testing.T) {
	var buf bytes.Buffer

	err := CheckTokens(context.Background(), logging.New(&buf, "debug"), validValues())

	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestCheckTokensReportsFirstMissing(t *testing.T) {
	values := validValues()
	values[1].Value = ""
	values[2].Value = ""
	var buf bytes.Buffer

	err := CheckTokens(context.Background(), logging.New(&buf, "debug"), values)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "TELEGRAM_TOKEN", cfgErr.Variable)
	assert.Equal(t,
		"[MISSING_ENV] Отсутствует обязательная переменная окружения: TELEGRAM_TOKEN. Программа принудительно остановлена.",
		err.Error())
	assert.Contains(t, buf.String(), "level=CRITICAL")
	assert.NotContains(t, buf.String(), "TELEGRAM_CHAT_ID")
}

func TestRequiredValuesOrder(t *testing.T) {
	cfg := Config{
		Practicum: PracticumConfig{Token: "p"},
		Telegram:  TelegramConfig{Token: "t", ChatID: "42"},
	}

	assert.Equal(t, []RequiredValue{
		{Name: "PRACTICUM_TOKEN", Value: "p"},
		{Name: "TELEGRAM_TOKEN", Value: "t"},
		{Name: "TELEGRAM_CHAT_ID", Value: "42"},
	}, cfg.RequiredValues())
}
