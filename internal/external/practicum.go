package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"homeworkbot/internal/types"
)

// PracticumClientConfig holds the configuration for creating a PracticumClient.
type PracticumClientConfig struct {
	Token    types.SecretString
	Endpoint string
	Logger   *slog.Logger
}

// PracticumClient fetches homework statuses from the review API. Each call is
// a single GET through BaseClient; the poll loop owns retry timing.
type PracticumClient struct {
	base     *BaseClient
	token    types.SecretString
	endpoint string
	logger   *slog.Logger
}

// NewPracticumClient creates a PracticumClient on top of a shared BaseClient.
func NewPracticumClient(base *BaseClient, cfg PracticumClientConfig) *PracticumClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PracticumClient{
		base:     base,
		token:    cfg.Token,
		endpoint: cfg.Endpoint,
		logger:   logger,
	}
}

// GetHomeworkStatuses requests every status change since the cursor (Unix
// seconds) and returns the decoded JSON body without interpreting it.
//
// Failures are AppErrors:
//   - connection problems and an open breaker: upstream_unavailable
//   - any status other than 200: upstream_unavailable with status_code and
//     endpoint details
//   - a body that is not JSON: response_type_mismatch
func (c *PracticumClient) GetHomeworkStatuses(ctx context.Context, from int64) (any, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			fmt.Sprintf("invalid review API endpoint %q", c.endpoint),
			err,
		)
	}
	q := reqURL.Query()
	q.Set("from_date", strconv.FormatInt(from, 10))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create review API request",
			err,
		)
	}
	req.Header.Set("Authorization", "OAuth "+c.token.Unmask())
	req.Header.Set("Accept", "application/json")

	c.logger.DebugContext(ctx, "requesting homework statuses",
		"endpoint", c.endpoint,
		"from_date", from,
	)

	resp, err := c.base.Do(req)
	if err != nil {
		cause := err
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Err != nil {
			cause = appErr.Err
		}
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("Не удалось выполнить подключение к API %s", c.endpoint),
			cause,
			map[string]any{"endpoint": c.endpoint},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("Эндпоинт %s недоступен. Код ответа API: %d", c.endpoint, resp.StatusCode),
			nil,
			map[string]any{
				"status_code": resp.StatusCode,
				"endpoint":    c.endpoint,
			},
		)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("Не удалось выполнить подключение к API %s", c.endpoint),
			err,
			map[string]any{"endpoint": c.endpoint},
		)
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeResponseTypeMismatch,
			"Ответ API не является JSON-документом.",
			err,
		)
	}

	return body, nil
}
