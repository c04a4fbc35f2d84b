// Package pass keeps access tokens in the pass(1) password manager.
package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

const (
	binary           = "pass"
	storeDirEnv      = "PASSWORD_STORE_DIR"
	notInStoreMarker = "is not in the password store"
)

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// Store runs pass for every operation. Only the first line of an entry is
// the token, following the pass convention of metadata on later lines.
type Store struct {
	run runFunc
}

var _ ports.SecretStore = (*Store)(nil)

// NewStore returns a store backed by the password store in storeDir, or the
// user's default store when storeDir is empty.
func NewStore(storeDir string) *Store {
	return &Store{run: command{storeDir: storeDir}.run}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	stdout, err := s.exec(ctx, "get", key, "", "show", key)
	if err != nil {
		return "", err
	}

	first, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSuffix(first, "\r"), nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("pass put %q: secret must be a single line", key)
	}

	_, err := s.exec(ctx, "put", key, value+"\n", "insert", "--multiline", "--force", key)
	return err
}

// Delete treats a missing entry as already deleted.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.exec(ctx, "delete", key, "", "rm", "--force", key)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil
	}
	return err
}

func (s *Store) exec(ctx context.Context, op, key, input string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, input, args...)
	switch {
	case err == nil:
		return stdout, nil
	case strings.Contains(stderr, notInStoreMarker):
		return "", fmt.Errorf("pass %s %q: %w", op, key, domain.ErrSecretNotFound)
	case stderr == "":
		return "", fmt.Errorf("pass %s %q: %w", op, key, err)
	default:
		return "", fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
	}
}

type command struct {
	storeDir string
}

func (c command) run(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = c.env(os.Environ())
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

// env overrides PASSWORD_STORE_DIR in base when a store dir is configured.
func (c command) env(base []string) []string {
	if c.storeDir == "" {
		return base
	}

	env := make([]string, 0, len(base)+1)
	for _, kv := range base {
		if !strings.HasPrefix(kv, storeDirEnv+"=") {
			env = append(env, kv)
		}
	}
	return append(env, storeDirEnv+"="+c.storeDir)
}
