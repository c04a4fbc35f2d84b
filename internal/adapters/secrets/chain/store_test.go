package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testKey = "queuewatch/accounts/1/access_token"

func TestNewStoreValidatesBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore()
	assert.ErrorIs(t, err, errNoBackends)

	_, err = NewStore(mocks.NewSecretStore(t), nil)
	assert.ErrorContains(t, err, "backend #2 is nil")
}

func TestStoreGetUsesFirstBackendThatSucceeds(t *testing.T) {
	t.Parallel()

	primary := mocks.NewSecretStore(t)
	fallback := mocks.NewSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	primary.On("Get", mock.Anything, testKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := mocks.NewSecretStore(t)
	fallback := mocks.NewSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	primary.On("Get", mock.Anything, testKey).Return("", errors.New("pass unavailable")).Once()
	fallback.On("Get", mock.Anything, testKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReportsEveryBackendFailure(t *testing.T) {
	t.Parallel()

	primary := mocks.NewSecretStore(t)
	fallback := mocks.NewSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	primary.On("Get", mock.Anything, testKey).Return("", errors.New("pass failed")).Once()
	fallback.On("Get", mock.Anything, testKey).Return("", fmt.Errorf("file secret: %w", domain.ErrSecretNotFound)).Once()

	_, err = store.Get(context.Background(), testKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "backend #1 get: pass failed")
	assert.ErrorContains(t, err, "backend #2 get")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetDoesNotFallBackOnCanceledContext(t *testing.T) {
	t.Parallel()

	primary := mocks.NewSecretStore(t)
	fallback := mocks.NewSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	primary.On("Get", mock.Anything, testKey).Return("", context.Canceled).Once()

	_, err = store.Get(context.Background(), testKey)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorePutStopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	primary := mocks.NewSecretStore(t)
	fallback := mocks.NewSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	primary.On("Put", mock.Anything, testKey, "token").Return(errors.New("pass failed")).Once()
	fallback.On("Put", mock.Anything, testKey, "token").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), testKey, "token"))
}

func TestStoreDeleteReachesEveryBackend(t *testing.T) {
	t.Parallel()

	primary := mocks.NewSecretStore(t)
	fallback := mocks.NewSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	primary.On("Delete", mock.Anything, testKey).Return(nil).Once()
	fallback.On("Delete", mock.Anything, testKey).Return(fmt.Errorf("gone: %w", domain.ErrSecretNotFound)).Once()

	require.NoError(t, store.Delete(context.Background(), testKey))
}

func TestStoreDeleteReturnsBackendFailures(t *testing.T) {
	t.Parallel()

	primary := mocks.NewSecretStore(t)
	fallback := mocks.NewSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	primary.On("Delete", mock.Anything, testKey).Return(errors.New("pass failed")).Once()
	fallback.On("Delete", mock.Anything, testKey).Return(nil).Once()

	assert.ErrorContains(t, store.Delete(context.Background(), testKey), "backend #1 delete: pass failed")
}
