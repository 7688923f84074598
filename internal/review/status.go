package review

import (
	"fmt"

	"homeworkbot/internal/types"
)

const (
	keyHomeworkName = "homework_name"
	keyStatus       = "status"
)

// ParseStatus builds the status-change message for a submission record:
//
//	Изменился статус проверки работы "<name>". <verdict>
//
// The name is embedded verbatim.
func ParseStatus(submission any) (string, error) {
	record, ok := submission.(map[string]any)
	if !ok {
		return "", typeMismatch("homework", submission)
	}

	nameRaw, ok := record[keyHomeworkName]
	if !ok {
		return "", missingKey(keyHomeworkName)
	}
	name := fmt.Sprint(nameRaw)

	statusRaw, ok := record[keyStatus]
	if !ok {
		return "", missingKey(keyStatus)
	}
	status, _ := statusRaw.(string)

	verdict, known := types.HomeworkStatus(status).Verdict()
	if !known {
		return "", types.NewAppErrorWithDetails(
			types.ErrCodeStatusUnknown,
			"Статус домашней работы не соответствует документации",
			nil,
			map[string]any{"status": statusRaw, "homework_name": name},
		)
	}

	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict), nil
}

func missingKey(key string) *types.AppError {
	return types.NewAppErrorWithDetails(
		types.ErrCodeResponseMissingKey,
		fmt.Sprintf("Значения по ключу %s не найдено", key),
		nil,
		map[string]any{"key": key},
	)
}
