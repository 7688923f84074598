package config

import (
	"context"
	"testing"
)

func TestEnvVarProviderSatisfiesSecretProvider(t *testing.T) {
	var _ SecretProvider = NewEnvVarProvider()
}

// TestEnvVarProviderMixedKeys verifies that set keys are returned and unset
// keys are silently omitted.
func TestEnvVarProviderMixedKeys(t *testing.T) {
	env := map[string]string{"PRACTICUM_TOKEN": "token-value"}
	provider := &EnvVarProvider{lookup: func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}}

	result, err := provider.GetParametersBatch(context.Background(), []string{"PRACTICUM_TOKEN", "TELEGRAM_TOKEN"})
	if err != nil {
		t.Fatalf("GetParametersBatch returned unexpected error: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("expected 1 result, got %d: %v", len(result), result)
	}
	if got := result["PRACTICUM_TOKEN"]; got != "token-value" {
		t.Errorf("result[PRACTICUM_TOKEN] = %q, want %q", got, "token-value")
	}
}

func TestEnvVarProviderReadsProcessEnvironment(t *testing.T) {
	t.Setenv("HOMEWORKBOT_TEST_SECRET", "from-env")

	result, err := NewEnvVarProvider().GetParametersBatch(context.Background(), []string{"HOMEWORKBOT_TEST_SECRET"})
	if err != nil {
		t.Fatalf("GetParametersBatch returned unexpected error: %v", err)
	}
	if got := result["HOMEWORKBOT_TEST_SECRET"]; got != "from-env" {
		t.Errorf("result = %q, want %q", got, "from-env")
	}
}
