package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
)

var ErrEmptyAPIKey = errors.New("api key is empty")

// CredentialService manages the model API key in the secret store.
type CredentialService struct {
	store ports.SecretStore
}

func NewCredentialService(store ports.SecretStore) *CredentialService {
	return &CredentialService{store: store}
}

func (s *CredentialService) SetAPIKey(ctx context.Context, ref, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ErrEmptyAPIKey
	}

	if err := s.store.Put(ctx, ref, apiKey); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	return nil
}

// RemoveAPIKey deletes the key. A key that is already absent is not an error.
func (s *CredentialService) RemoveAPIKey(ctx context.Context, ref string) error {
	if err := s.store.Delete(ctx, ref); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return fmt.Errorf("delete api key: %w", err)
	}

	return nil
}

func (s *CredentialService) HasAPIKey(ctx context.Context, ref string) (bool, error) {
	_, err := s.store.Get(ctx, ref)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read api key: %w", err)
	}

	return true, nil
}
