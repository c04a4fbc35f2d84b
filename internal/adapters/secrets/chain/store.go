package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/queuewatch/internal/adapters/secrets/file"
	passstore "github.com/bnema/queuewatch/internal/adapters/secrets/pass"
	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
)

// Store consults its backends in order. Reads and writes stop at the first
// backend that succeeds; deletes reach every backend so a token never
// survives in a lower-priority store.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret store chain has no backends")

func NewStore(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("secret store backend #%d is nil", i+1)
		}
	}

	return &Store{backends: backends}, nil
}

// NewPassFirstWithFileFallback prefers pass and falls back to plain files
// below fileRoot, for hosts without a password store.
func NewPassFirstWithFileFallback(passDir, fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(passDir), filestore.NewStore(fileRoot))
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if isContextError(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("backend #%d get: %w", i+1, err))
	}

	return "", errors.Join(errs...)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for i, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if isContextError(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend #%d put: %w", i+1, err))
	}

	return errors.Join(errs...)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	for i, backend := range s.backends {
		err := backend.Delete(ctx, key)
		if err == nil || errors.Is(err, domain.ErrSecretNotFound) {
			continue
		}
		if isContextError(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend #%d delete: %w", i+1, err))
	}

	return errors.Join(errs...)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
