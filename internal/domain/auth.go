package domain

import "fmt"

type AuthMethod string

const (
	AuthMethodAccessToken AuthMethod = "access_token"
)

type Auth struct {
	Method AuthMethod
	// SecretRef is the secret-store key holding the token, e.g. "queuewatch/accounts/1/access_token".
	SecretRef string
}

func ParseAuthMethod(raw string) (AuthMethod, error) {
	switch method := AuthMethod(raw); method {
	case AuthMethodAccessToken:
		return method, nil
	default:
		return "", fmt.Errorf("unsupported auth method %q", raw)
	}
}

func AccessTokenSecretRef(id AccountID) string {
	return fmt.Sprintf("queuewatch/accounts/%s/access_token", id)
}
