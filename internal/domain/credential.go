package domain

import (
	"maps"
	"strings"
)

// Credential is the authentication material for one account, resolved and
// ready to open a session with.
type Credential struct {
	ID          AccountID
	Name        string
	Username    string
	AccessToken string
	Options     map[string]any
}

func (c Credential) Usable() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

func (c Credential) DisplayName() string {
	if name := strings.TrimSpace(c.Username); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return string(c.ID)
}

// FilterUsable keeps the order of creds and drops entries without a token.
func FilterUsable(creds []Credential) []Credential {
	usable := make([]Credential, 0, len(creds))
	for _, cred := range creds {
		if cred.Usable() {
			usable = append(usable, cred)
		}
	}
	return usable
}

// MergeOptions overlays local on top of global. Neither input is modified.
func MergeOptions(global, local map[string]any) map[string]any {
	merged := make(map[string]any, len(global)+len(local))
	maps.Copy(merged, global)
	maps.Copy(merged, local)
	return merged
}
