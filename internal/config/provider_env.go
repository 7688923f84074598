package config

import (
	"context"
	"os"
)

// EnvVarProvider implements SecretProvider by treating each key as the name
// of an environment variable. Missing keys are omitted from the result.
type EnvVarProvider struct {
	lookup envLookup
}

// NewEnvVarProvider creates a new EnvVarProvider backed by os.LookupEnv.
func NewEnvVarProvider() *EnvVarProvider {
	return &EnvVarProvider{lookup: os.LookupEnv}
}

// GetParametersBatch resolves each key with os.LookupEnv.
func (p *EnvVarProvider) GetParametersBatch(_ context.Context, keys []string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := p.lookup(key); ok {
			result[key] = val
		}
	}
	return result, nil
}
