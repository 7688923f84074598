// Package review interprets homework review API responses: it checks the
// response shape, extracts the poll cursor, and turns a submission's status
// into the notification text.
//
// All functions are pure. Failures are types.AppError values that the poll
// loop classifies by kind.
package review

import (
	"encoding/json"
	"math"

	"homeworkbot/internal/types"
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
)

const (
	msgTypeMismatch     = "Ответ API содержит неверный тип данных."
	msgHomeworksMissing = "Значение по ключу homeworks не найдено."
)

// CheckResponse verifies that body is a JSON object holding a "homeworks"
// list. Checks run in order and the first failure is returned.
func CheckResponse(body any) error {
	_, err := homeworks(body)
	return err
}

// LatestSubmission returns the first (most recent) submission of a checked
// response. ok is false when the list is empty, meaning nothing changed since
// the cursor.
func LatestSubmission(body any) (submission any, ok bool, err error) {
	list, err := homeworks(body)
	if err != nil {
		return nil, false, err
	}
	if len(list) == 0 {
		return nil, false, nil
	}
	return list[0], true, nil
}

// NextCursor returns the server-provided current_date, or previous when the
// field is absent, not an integral number, or outside the int64 range.
func NextCursor(body any, previous int64) int64 {
	m, ok := body.(map[string]any)
	if !ok {
		return previous
	}
	switch v := m[keyCurrentDate].(type) {
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return previous
		}
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return previous
		}
		return n
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return previous
	}
}

func homeworks(body any) ([]any, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, typeMismatch("response", body)
	}
	raw, ok := m[keyHomeworks]
	if !ok {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeResponseMissingKey,
			msgHomeworksMissing,
			nil,
			map[string]any{"key": keyHomeworks},
		)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, typeMismatch(keyHomeworks, raw)
	}
	return list, nil
}

func typeMismatch(field string, value any) *types.AppError {
	return types.NewAppErrorWithDetails(
		types.ErrCodeResponseTypeMismatch,
		msgTypeMismatch,
		nil,
		map[string]any{"field": field, "got": jsonTypeName(value)},
	)
}

// jsonTypeName names the JSON type of a decoded value.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int, int64:
		return "number"
	default:
		return "unknown"
	}
}
