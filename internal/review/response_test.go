package review

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeworkbot/internal/types"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func codeOf(t *testing.T, err error) types.ErrorCode {
	t.Helper()
	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr types.ErrorCode
	}{
		{name: "valid with submissions", body: `{"homeworks":[{"homework_name":"a","status":"approved"}],"current_date":1}`},
		{name: "valid empty list", body: `{"homeworks":[]}`},
		{name: "top-level list", body: `[{"homeworks":[]}]`, wantErr: types.ErrCodeResponseTypeMismatch},
		{name: "top-level string", body: `"oops"`, wantErr: types.ErrCodeResponseTypeMismatch},
		{name: "null body", body: `null`, wantErr: types.ErrCodeResponseTypeMismatch},
		{name: "missing homeworks", body: `{"current_date":1}`, wantErr: types.ErrCodeResponseMissingKey},
		{name: "homeworks is object", body: `{"homeworks":{"a":1}}`, wantErr: types.ErrCodeResponseTypeMismatch},
		{name: "homeworks is null", body: `{"homeworks":null}`, wantErr: types.ErrCodeResponseTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse(decode(t, tt.body))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, codeOf(t, err))
			assert.Equal(t, types.KindShapeMismatch, types.KindOf(err))
		})
	}
}

func TestCheckResponse_Messages(t *testing.T) {
	err := CheckResponse(decode(t, `{"current_date":1}`))
	assert.Equal(t, "Значение по ключу homeworks не найдено.", types.Describe(err))

	err = CheckResponse(decode(t, `[]`))
	assert.Equal(t, "Ответ API содержит неверный тип данных.", types.Describe(err))
}

func TestLatestSubmission(t *testing.T) {
	body := decode(t, `{"homeworks":[{"homework_name":"new.zip","status":"reviewing"},{"homework_name":"old.zip","status":"approved"}]}`)

	sub, ok, err := LatestSubmission(body)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new.zip", sub.(map[string]any)["homework_name"])
}

func TestLatestSubmission_EmptyList(t *testing.T) {
	sub, ok, err := LatestSubmission(decode(t, `{"homeworks":[],"current_date":5}`))

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, sub)
}

func TestLatestSubmission_InvalidShape(t *testing.T) {
	_, ok, err := LatestSubmission(decode(t, `{"homework":[]}`))

	assert.False(t, ok)
	assert.Equal(t, types.ErrCodeResponseMissingKey, codeOf(t, err))
}

func TestNextCursor(t *testing.T) {
	const previous int64 = 1000

	tests := []struct {
		name string
		body any
		want int64
	}{
		{name: "float from json", body: map[string]any{"current_date": float64(1700000500)}, want: 1700000500},
		{name: "json number", body: map[string]any{"current_date": json.Number("1700000600")}, want: 1700000600},
		{name: "absent", body: map[string]any{"homeworks": []any{}}, want: previous},
		{name: "string", body: map[string]any{"current_date": "1700000500"}, want: previous},
		{name: "fractional", body: map[string]any{"current_date": 17.5}, want: previous},
		{name: "above int64 range", body: map[string]any{"current_date": 1e19}, want: previous},
		{name: "below int64 range", body: map[string]any{"current_date": -1e19}, want: previous},
		{name: "infinite", body: map[string]any{"current_date": math.Inf(1)}, want: previous},
		{name: "bad json number", body: map[string]any{"current_date": json.Number("1.5")}, want: previous},
		{name: "not an object", body: []any{}, want: previous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextCursor(tt.body, previous))
		})
	}
}
