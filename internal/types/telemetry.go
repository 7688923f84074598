package types

import "time"

// Telemetry metric names. All components MUST use these constants.
const (
	MetricNamespace = "homework_bot"

	MetricPollsTotal         = "polls_total"
	MetricPollDuration       = "poll_duration_seconds"
	MetricNotificationsTotal = "notifications_total"
	MetricPollCursor         = "poll_cursor_seconds"
	MetricErrorStreak        = "error_streak"

	// Label Keys
	LabelOutcome   = "outcome"
	LabelErrorKind = "error_kind"
	LabelKind      = "kind"
	LabelResult    = "result"
)

// PollerSnapshot is a point-in-time copy of the poll loop state, exposed to
// the health endpoint.
type PollerSnapshot struct {
	Cursor        int64       `json:"cursor"`
	LastOutcome   PollOutcome `json:"last_outcome,omitempty"`
	LastPollAt    time.Time   `json:"last_poll_at,omitzero"`
	LastError     string      `json:"last_error,omitempty"`
	ErrorStreak   int         `json:"error_streak"`
	ErrorReported bool        `json:"error_reported"`
	Polls         int64       `json:"polls"`
}

// Healthy reports whether no failure streak is open.
func (s PollerSnapshot) Healthy() bool {
	return s.ErrorStreak == 0
}
