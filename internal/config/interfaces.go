package config

import "context"

// SecretProvider abstracts the retrieval of secrets so tokens can live in
// AWS SSM Parameter Store in deployed environments and in plain environment
// variables locally.
type SecretProvider interface {
	// GetParametersBatch resolves the given keys (SSM parameter paths or
	// equivalent identifiers) and returns key -> plaintext value for every key
	// it could resolve.
	GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error)
}
