package toml

import (
	"fmt"
	"strings"

	"github.com/bnema/queuewatch/internal/domain"
)

const schemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

type accountSchema struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Username string `toml:"username"`
	Auth     struct {
		Method    string `toml:"method"`
		SecretRef string `toml:"secret_ref"`
	} `toml:"auth"`
	// Options are merged over session.options when the session is opened.
	Options map[string]any `toml:"options,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = schemaVersion
	}
}

func (s fileSchema) validate() error {
	if s.Version > schemaVersion {
		return fmt.Errorf("unsupported credentials schema version %d (current %d)", s.Version, schemaVersion)
	}

	seen := make(map[string]struct{}, len(s.Accounts))
	for i, account := range s.Accounts {
		id := strings.TrimSpace(account.ID)
		if id == "" {
			return fmt.Errorf("account #%d has no id", i+1)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate account id %q", id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

func (s fileSchema) indexOf(id domain.AccountID) int {
	for i, account := range s.Accounts {
		if account.ID == string(id) {
			return i
		}
	}
	return -1
}

func toSchema(account domain.Account) accountSchema {
	encoded := accountSchema{
		ID:       string(account.ID),
		Name:     account.Name,
		Username: account.Username,
		Options:  account.Options,
	}
	encoded.Auth.Method = string(account.Auth.Method)
	encoded.Auth.SecretRef = account.Auth.SecretRef
	return encoded
}

func fromSchema(account accountSchema) domain.Account {
	return domain.Account{
		ID:       domain.AccountID(account.ID),
		Name:     account.Name,
		Username: account.Username,
		Auth: domain.Auth{
			Method:    domain.AuthMethod(account.Auth.Method),
			SecretRef: account.Auth.SecretRef,
		},
		Options: account.Options,
	}
}
