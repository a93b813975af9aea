package ports

import "context"

// SecretStore holds credentials such as the model API key. Keys use the
// "provider://path" form, e.g. gemini://default/api_key.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
