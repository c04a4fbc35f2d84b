package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
)

// Service manages stored accounts and the access tokens they reference.
type Service struct {
	repo  ports.AccountRepository
	store ports.SecretStore
}

func NewService(repo ports.AccountRepository, store ports.SecretStore) *Service {
	return &Service{
		repo:  repo,
		store: store,
	}
}

// SetAuth stores the token under cmd.SecretKey and points the account at it,
// creating the account when needed. A previous secret under another key is
// deleted afterwards; if that fails the account is restored.
func (s *Service) SetAuth(ctx context.Context, cmd SetAuthCommand) error {
	if strings.TrimSpace(cmd.SecretValue) == "" {
		return errors.New("access token is empty")
	}

	account, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("get account by id: %w", err)
		}
		account = domain.Account{ID: cmd.ID, Name: fmt.Sprintf("Account %s", cmd.ID)}
	}
	original := account
	previousSecretRef := account.Auth.SecretRef

	secretKey := cmd.SecretKey
	if secretKey == "" {
		secretKey = domain.AccessTokenSecretRef(cmd.ID)
	}
	method := cmd.Method
	if method == "" {
		method = domain.AuthMethodAccessToken
	}

	if err := s.store.Put(ctx, secretKey, cmd.SecretValue); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}

	if cmd.Name != "" {
		account.Name = cmd.Name
	}
	if cmd.Username != "" {
		account.Username = cmd.Username
	}
	account.Auth = domain.Auth{Method: method, SecretRef: secretKey}

	if err := s.repo.Save(ctx, account); err != nil {
		if previousSecretRef == secretKey {
			return fmt.Errorf("save account auth: %w", err)
		}
		if rollbackErr := s.store.Delete(ctx, secretKey); rollbackErr != nil {
			return fmt.Errorf("save account auth and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save account auth: %w", err)
	}

	if previousSecretRef == "" || previousSecretRef == secretKey {
		return nil
	}

	if err := s.store.Delete(ctx, previousSecretRef); err != nil {
		var rollbackErr error
		if restoreErr := s.repo.Save(ctx, original); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newSecretDeleteErr := s.store.Delete(ctx, secretKey); newSecretDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous access token and rollback auth update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous access token: %w", err)
	}

	return nil
}

// RemoveAuth clears the account auth first and then deletes the secret. If
// the secret cannot be deleted the reference is restored so it is not lost.
func (s *Service) RemoveAuth(ctx context.Context, cmd RemoveAuthCommand) error {
	account, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}
	original := account

	secretRef := account.Auth.SecretRef
	account.Auth = domain.Auth{}

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account auth: %w", err)
	}

	if secretRef == "" {
		return nil
	}

	if err := s.store.Delete(ctx, secretRef); err != nil {
		if restoreErr := s.repo.Save(ctx, original); restoreErr != nil {
			return fmt.Errorf("delete access token and restore auth: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete access token: %w", err)
	}

	return nil
}

// RemoveAccount deletes the account and its access token.
func (s *Service) RemoveAccount(ctx context.Context, id domain.AccountID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}

	if account.Auth.SecretRef != "" {
		if err := s.store.Delete(ctx, account.Auth.SecretRef); err != nil {
			return fmt.Errorf("delete access token: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, AccountSummary{
			Account:         account,
			TokenConfigured: account.HasAuth(),
		})
	}

	return summaries, nil
}
