package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretRef = "gemini://default/api_key"

func TestCredentialServiceSetAPIKeyTrims(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Put(mockAnyContext(), testSecretRef, "AIza-test").Return(nil).Once()

	err := NewCredentialService(store).SetAPIKey(context.Background(), testSecretRef, " AIza-test\n")
	require.NoError(t, err)
}

func TestCredentialServiceSetAPIKeyRejectsEmpty(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)

	err := NewCredentialService(store).SetAPIKey(context.Background(), testSecretRef, "   ")
	require.ErrorIs(t, err, ErrEmptyAPIKey)
}

func TestCredentialServiceSetAPIKeyWrapsStoreError(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	putErr := errors.New("permission denied")
	store.EXPECT().Put(mockAnyContext(), testSecretRef, "AIza-test").Return(putErr).Once()

	err := NewCredentialService(store).SetAPIKey(context.Background(), testSecretRef, "AIza-test")
	require.ErrorIs(t, err, putErr)
	assert.ErrorContains(t, err, "store api key")
}

func TestCredentialServiceRemoveAPIKeyIgnoresMissing(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Delete(mockAnyContext(), testSecretRef).Return(fmt.Errorf("file: %w", domain.ErrSecretNotFound)).Once()

	require.NoError(t, NewCredentialService(store).RemoveAPIKey(context.Background(), testSecretRef))
}

func TestCredentialServiceHasAPIKey(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), testSecretRef).Return("AIza-test", nil).Once()
	store.EXPECT().Get(mockAnyContext(), testSecretRef).Return("", domain.ErrSecretNotFound).Once()

	service := NewCredentialService(store)

	ok, err := service.HasAPIKey(context.Background(), testSecretRef)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.HasAPIKey(context.Background(), testSecretRef)
	require.NoError(t, err)
	assert.False(t, ok)
}
