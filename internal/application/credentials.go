package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
	"github.com/rs/zerolog"
)

// CredentialPool resolves stored accounts into credentials ready for
// session opening.
type CredentialPool struct {
	repo   ports.AccountRepository
	store  ports.SecretStore
	logger zerolog.Logger
}

func NewCredentialPool(repo ports.AccountRepository, store ports.SecretStore, logger zerolog.Logger) *CredentialPool {
	return &CredentialPool{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// Load returns the usable credentials in file order. Accounts without auth,
// with a missing secret or with an empty token are skipped. Any other
// secret store failure is returned.
func (p *CredentialPool) Load(ctx context.Context) ([]domain.Credential, error) {
	accounts, err := p.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	creds := make([]domain.Credential, 0, len(accounts))
	for _, account := range accounts {
		logger := p.logger.With().Str("account", account.DisplayName()).Logger()

		if !account.HasAuth() {
			logger.Debug().Msg("skipping account without auth")
			continue
		}

		token, err := p.store.Get(ctx, account.Auth.SecretRef)
		if err != nil {
			if errors.Is(err, domain.ErrSecretNotFound) {
				logger.Warn().Str("secret_ref", account.Auth.SecretRef).Msg("skipping account, access token not found")
				continue
			}
			return nil, fmt.Errorf("resolve access token of %s: %w", account.ID, err)
		}

		cred := domain.Credential{
			ID:          account.ID,
			Name:        account.Name,
			Username:    account.Username,
			AccessToken: strings.TrimSpace(token),
			Options:     account.Options,
		}
		if !cred.Usable() {
			logger.Warn().Msg("skipping account, access token is empty")
			continue
		}

		creds = append(creds, cred)
	}

	return domain.FilterUsable(creds), nil
}
