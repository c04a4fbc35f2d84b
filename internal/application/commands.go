package application

import "github.com/bnema/queuewatch/internal/domain"

type SetAuthCommand struct {
	ID domain.AccountID
	// Name and Username are applied only when non-empty.
	Name        string
	Username    string
	Method      domain.AuthMethod
	SecretKey   string
	SecretValue string
}

type RemoveAuthCommand struct {
	ID domain.AccountID
}
