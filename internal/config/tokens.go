package config

import (
	"context"
	"fmt"
	"log/slog"

	"homeworkbot/internal/logging"
	"homeworkbot/internal/types"
)

// RequiredValue pairs a mandatory setting with the environment variable it
// came from, so a failure can name the variable.
type RequiredValue struct {
	Name  string
	Value string
}

// RequiredValues returns the three secrets the bot cannot run without, in the
// order they are checked.
func (c *Config) RequiredValues() []RequiredValue {
	return []RequiredValue{
		{Name: "PRACTICUM_TOKEN", Value: c.Practicum.Token.Unmask()},
		{Name: "TELEGRAM_TOKEN", Value: c.Telegram.Token.Unmask()},
		{Name: "TELEGRAM_CHAT_ID", Value: c.Telegram.ChatID},
	}
}

// CheckTokens fails on the first empty value, naming its variable, after
// logging the failure at CRITICAL level. It has no side effects when every
// value is present.
func CheckTokens(ctx context.Context, logger *slog.Logger, values []RequiredValue) error {
	for _, v := range values {
		if v.Value != "" {
			continue
		}
		msg := fmt.Sprintf(
			"Отсутствует обязательная переменная окружения: %s. Программа принудительно остановлена.",
			v.Name,
		)
		logging.Critical(ctx, logger, msg, "variable", v.Name)
		return &ConfigError{
			Type:     ErrMissingEnv,
			Message:  msg,
			Variable: v.Name,
			Err:      types.NewAppError(types.ErrCodeConfigMissingEnv, v.Name, nil),
		}
	}
	return nil
}
