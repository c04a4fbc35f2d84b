package domain

import (
	"strconv"
	"strings"
)

type AccountID string

// Account is the stored form of a credential. The access token itself lives
// in a secret store and is referenced by Auth.SecretRef.
type Account struct {
	ID       AccountID
	Name     string
	Username string
	Auth     Auth
	Options  map[string]any
}

func (a Account) DisplayName() string {
	if name := strings.TrimSpace(a.Username); name != "" {
		return name
	}
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return string(a.ID)
}

func (a Account) HasAuth() bool {
	return a.Auth.Method != "" && strings.TrimSpace(a.Auth.SecretRef) != ""
}

// NextAccountID returns the smallest positive numeric id not used by
// accounts. Non-numeric ids are ignored.
func NextAccountID(accounts []Account) AccountID {
	used := make(map[int]struct{}, len(accounts))
	for _, account := range accounts {
		if n, err := strconv.Atoi(string(account.ID)); err == nil && n > 0 {
			used[n] = struct{}{}
		}
	}

	next := 1
	for {
		if _, ok := used[next]; !ok {
			return AccountID(strconv.Itoa(next))
		}
		next++
	}
}
