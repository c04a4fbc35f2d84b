package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/queuewatch/internal/domain"
)

var errAccountRequired = errors.New("account is required")

// resolveAccountID returns the requested id, or the next free numeric id
// when raw is empty or "0".
func resolveAccountID(ctx context.Context, app *app, raw string) (domain.AccountID, error) {
	if requested := strings.TrimSpace(raw); requested != "" && requested != "0" {
		return parseAccountID(requested)
	}

	accounts, err := app.repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list accounts for auto assignment: %w", err)
	}
	return domain.NextAccountID(accounts), nil
}

func parseAccountID(raw string) (domain.AccountID, error) {
	requested := strings.TrimSpace(raw)
	if requested == "" {
		return "", errAccountRequired
	}
	if n, err := strconv.Atoi(requested); err == nil && n <= 0 {
		return "", fmt.Errorf("account must be a positive number, got %d", n)
	}

	return domain.AccountID(requested), nil
}
