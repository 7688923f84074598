// Package scheduler runs the homework status poll loop.
//
// StatusPoller owns the loop state: the poll cursor, the last delivered status
// message, and whether the current failure streak has already been reported.
// Iterations are fully serialized; the only concurrent access is a read of
// Snapshot by the health endpoint.
//
// One iteration moves through
//
//	Polling -> Validating -> Translating -> Comparing -> Notifying -> Sleeping
//
// and any failure diverts it to ErrorHandling before Sleeping.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"homeworkbot/internal/review"
	"homeworkbot/internal/types"
)

const (
	msgUnchanged     = "Статус не обновился."
	msgNoUpdates     = "Новых статусов нет."
	diagnosticPrefix = "Сбой в работе программы: "
)

// Fetcher abstracts the homework review API.
type Fetcher interface {
	// GetHomeworkStatuses returns the decoded response body for every status
	// change since the given Unix timestamp.
	GetHomeworkStatuses(ctx context.Context, from int64) (any, error)
}

// Notifier abstracts best-effort message delivery. Both methods report
// whether the message reached the chat.
type Notifier interface {
	Notify(ctx context.Context, text string) bool
	NotifyDiagnostic(ctx context.Context, text string) bool
}

// MetricsRecorder receives per-iteration measurements. A nil recorder is
// allowed.
type MetricsRecorder interface {
	RecordPoll(outcome types.PollOutcome, kind types.ErrorKind, duration time.Duration)
	SetCursor(cursor int64)
	SetErrorStreak(streak int)
}

// Ticker paces the loop. It mirrors the subset of *time.Ticker the loop uses.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (tt timeTicker) Chan() <-chan time.Time { return tt.t.C }
func (tt timeTicker) Stop()                  { tt.t.Stop() }

// Config holds the configuration for creating a StatusPoller.
type Config struct {
	Fetcher  Fetcher
	Notifier Notifier
	// Interval is the pause between iterations (RETRY_PERIOD).
	Interval time.Duration
	Metrics  MetricsRecorder
	Logger   *slog.Logger
	// Now supplies the initial cursor; defaults to time.Now.
	Now func() time.Time
}

// Option customizes a StatusPoller.
type Option func(*StatusPoller)

// WithTicker replaces the default time.Ticker, letting tests drive iterations.
func WithTicker(t Ticker) Option {
	return func(p *StatusPoller) {
		p.ticker = t
	}
}

// WithIDGenerator replaces the uuid-based poll ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(p *StatusPoller) {
		p.newID = gen
	}
}

// StatusPoller watches a single submission and reports status changes.
type StatusPoller struct {
	fetcher  Fetcher
	notifier Notifier
	interval time.Duration
	metrics  MetricsRecorder
	logger   *slog.Logger
	ticker   Ticker
	newID    func() string
	now      func() time.Time

	// Loop state. Written only by the loop goroutine.
	cursor        int64
	lastMessage   string
	errorReported bool
	errorStreak   int

	mu       sync.RWMutex
	snapshot types.PollerSnapshot
}

// NewStatusPoller creates a StatusPoller whose cursor starts at the current
// time, so only changes after startup are reported.
func NewStatusPoller(cfg Config, opts ...Option) *StatusPoller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	p := &StatusPoller{
		fetcher:  cfg.Fetcher,
		notifier: cfg.Notifier,
		interval: cfg.Interval,
		metrics:  cfg.Metrics,
		logger:   logger,
		newID:    uuid.NewString,
		now:      now,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.cursor = p.now().Unix()
	p.snapshot.Cursor = p.cursor
	if p.metrics != nil {
		p.metrics.SetCursor(p.cursor)
	}
	return p
}

// Run polls immediately, then once per tick, until ctx is cancelled.
// Iterations run detached from ctx, so an in-flight iteration finishes (bounded
// by the HTTP client timeout) and cancellation is only observed between ticks.
// Run returns nil on cancellation.
func (p *StatusPoller) Run(ctx context.Context) error {
	ticker := p.ticker
	if ticker == nil {
		ticker = timeTicker{t: time.NewTicker(p.interval)}
	}
	defer ticker.Stop()

	p.logger.InfoContext(ctx, "poll loop started",
		"interval", p.interval,
		"cursor", p.Cursor(),
	)

	iterCtx := context.WithoutCancel(ctx)
	for {
		p.PollOnce(iterCtx)

		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "poll loop stopped",
				"cursor", p.Cursor(),
			)
			return nil
		case <-ticker.Chan():
		}
	}
}

// PollOnce runs exactly one iteration and reports how it ended. Every failure
// goes through error handling, including one caused by ctx being cancelled;
// callers that must not abort the iteration pass a detached context.
func (p *StatusPoller) PollOnce(ctx context.Context) types.PollOutcome {
	ctx = types.WithRequestID(ctx, p.newID())
	start := time.Now()

	outcome, err := p.iterate(ctx)

	var kind types.ErrorKind
	if err != nil {
		kind = p.handleError(ctx, err)
	} else {
		p.errorReported = false
		p.errorStreak = 0
	}

	p.record(outcome, kind, err, time.Since(start))
	return outcome
}

// Cursor returns the current poll cursor (Unix seconds).
func (p *StatusPoller) Cursor() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot.Cursor
}

// Snapshot returns a copy of the loop state. Safe for concurrent use.
func (p *StatusPoller) Snapshot() types.PollerSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

func (p *StatusPoller) iterate(ctx context.Context) (types.PollOutcome, error) {
	requestID := types.GetRequestID(ctx)

	body, err := p.fetcher.GetHomeworkStatuses(ctx, p.cursor)
	if err != nil {
		return types.OutcomeFailed, err
	}
	p.cursor = review.NextCursor(body, p.cursor)

	submission, found, err := review.LatestSubmission(body)
	if err != nil {
		return types.OutcomeFailed, err
	}
	if !found {
		p.logger.DebugContext(ctx, msgNoUpdates,
			"request_id", requestID,
			"cursor", p.cursor,
		)
		return types.OutcomeNoUpdates, nil
	}

	message, err := review.ParseStatus(submission)
	if err != nil {
		return types.OutcomeFailed, err
	}

	if message == p.lastMessage {
		p.logger.DebugContext(ctx, msgUnchanged, "request_id", requestID)
		return types.OutcomeUnchanged, nil
	}

	if !p.notifier.Notify(ctx, message) {
		return types.OutcomeUndelivered, nil
	}
	p.lastMessage = message
	return types.OutcomeSent, nil
}

// handleError logs a failed iteration and reports it to the chat once per
// failure streak.
func (p *StatusPoller) handleError(ctx context.Context, err error) types.ErrorKind {
	kind := types.KindOf(err)
	p.errorStreak++

	attrs := []any{
		"request_id", types.GetRequestID(ctx),
		"error_kind", kind,
		"streak", p.errorStreak,
	}
	if kind == types.KindUnexpected {
		attrs = append(attrs, "error", err)
	}

	message := diagnosticPrefix + types.Describe(err)
	p.logger.ErrorContext(ctx, message, attrs...)

	if p.errorReported {
		return kind
	}
	p.notifier.NotifyDiagnostic(ctx, message)
	p.errorReported = true
	return kind
}

func (p *StatusPoller) record(outcome types.PollOutcome, kind types.ErrorKind, err error, elapsed time.Duration) {
	p.mu.Lock()
	p.snapshot.Cursor = p.cursor
	p.snapshot.LastOutcome = outcome
	p.snapshot.LastPollAt = p.now()
	p.snapshot.ErrorStreak = p.errorStreak
	p.snapshot.ErrorReported = p.errorReported
	p.snapshot.Polls++
	if err != nil {
		p.snapshot.LastError = types.Describe(err)
	} else {
		p.snapshot.LastError = ""
	}
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RecordPoll(outcome, kind, elapsed)
		p.metrics.SetCursor(p.cursor)
		p.metrics.SetErrorStreak(p.errorStreak)
	}
}
