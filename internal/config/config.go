// Package config defines the configuration of the homework status bot.
// Configuration is loaded once at process start and is immutable thereafter.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> AWS SSM Parameter Store (Lowest)
//
// A missing token or an invalid value stops the process before the poll loop
// starts.
package config

import (
	"time"

	"homeworkbot/internal/types"
)

// SecretString is an alias for types.SecretString so callers of this package
// do not need to import types for token fields.
type SecretString = types.SecretString

// Config is the top-level configuration struct. Sub-components receive only the
// subset they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"debug" validate:"oneof=debug info warn warning error critical"`

	Practicum PracticumConfig
	Telegram  TelegramConfig
	Poller    PollerConfig
	Telemetry TelemetryConfig
	AWS       AWSConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// PracticumConfig holds the review API credential and endpoint.
type PracticumConfig struct {
	Token    SecretString  `envconfig:"PRACTICUM_TOKEN"`
	Endpoint string        `envconfig:"PRACTICUM_ENDPOINT" default:"https://practicum.yandex.ru/api/user_api/homework_statuses/" validate:"required,url"`
	Timeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s" validate:"gt=0"`
}

// TelegramConfig holds the messaging credential and destination chat.
type TelegramConfig struct {
	Token  SecretString `envconfig:"TELEGRAM_TOKEN"`
	ChatID string       `envconfig:"TELEGRAM_CHAT_ID"`
	// APIEndpoint is a format string taking the token and the method name.
	APIEndpoint string `envconfig:"TELEGRAM_API_ENDPOINT" default:"https://api.telegram.org/bot%s/%s" validate:"required"`
}

// PollerConfig holds the poll loop schedule.
type PollerConfig struct {
	RetryPeriod time.Duration `envconfig:"RETRY_PERIOD" default:"600s" validate:"gt=0"`
}

// TelemetryConfig controls the optional metrics/health listener.
// An empty Addr disables it.
type TelemetryConfig struct {
	Addr string `envconfig:"METRICS_ADDR" validate:"omitempty,hostname_port"`
}

// AWSConfig holds the region used for SSM secret resolution.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrSSMResolution indicates a failure when fetching secrets from AWS SSM.
	ErrSSMResolution ConfigErrorType = "SSM_FAILURE"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
