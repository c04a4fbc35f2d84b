// Package toml keeps the credential pool in a TOML file. The order of the
// [[accounts]] tables is the rotation order, so lanes are assigned from it.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bnema/queuewatch/internal/atomicfile"
	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

var writeOptions = atomicfile.Options{
	FileMode:    0o600,
	DirMode:     0o700,
	TempPattern: ".credentials-*.toml.tmp",
}

type Repository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.AccountRepository = (*Repository)(nil)

var (
	locksMu sync.Mutex
	locks   = map[string]*sync.RWMutex{}
)

func NewRepository(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("credentials path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve credentials path: %w", err)
	}
	abs = filepath.Clean(abs)

	return &Repository{path: abs, mu: sharedLock(abs)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	var found domain.Account
	err := r.view(ctx, func(file fileSchema) error {
		i := file.indexOf(id)
		if i < 0 {
			return domain.ErrAccountNotFound
		}
		found = fromSchema(file.Accounts[i])
		return nil
	})
	return found, err
}

// List returns the accounts in rotation order.
func (r *Repository) List(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.view(ctx, func(file fileSchema) error {
		accounts = make([]domain.Account, 0, len(file.Accounts))
		for _, entry := range file.Accounts {
			accounts = append(accounts, fromSchema(entry))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save replaces an account in place or appends it to the end of the
// rotation.
func (r *Repository) Save(ctx context.Context, account domain.Account) error {
	return r.update(ctx, func(file *fileSchema) error {
		encoded := toSchema(account)
		if i := file.indexOf(account.ID); i >= 0 {
			file.Accounts[i] = encoded
			return nil
		}
		file.Accounts = append(file.Accounts, encoded)
		return nil
	})
}

func (r *Repository) Delete(ctx context.Context, id domain.AccountID) error {
	return r.update(ctx, func(file *fileSchema) error {
		i := file.indexOf(id)
		if i < 0 {
			return domain.ErrAccountNotFound
		}
		file.Accounts = slices.Delete(file.Accounts, i, i+1)
		return nil
	})
}

func (r *Repository) view(ctx context.Context, fn func(fileSchema) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.load()
	if err != nil {
		return err
	}
	return fn(file)
}

// update runs fn on the current file under the write lock and writes the
// result back unless fn fails or ctx is cancelled meanwhile.
func (r *Repository) update(ctx context.Context, fn func(*fileSchema) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.load()
	if err != nil {
		return err
	}
	if err := fn(&file); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.store(file)
}

func (r *Repository) load() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return fileSchema{}, nil
	}
	if err != nil {
		return fileSchema{}, fmt.Errorf("read credentials file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode credentials file: %w", err)
	}
	if err := file.validate(); err != nil {
		return fileSchema{}, fmt.Errorf("validate credentials file: %w", err)
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) store(file fileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode credentials file: %w", err)
	}

	if err := atomicfile.Write(r.path, data, writeOptions); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}

	return nil
}

func sharedLock(path string) *sync.RWMutex {
	locksMu.Lock()
	defer locksMu.Unlock()

	mu, ok := locks[path]
	if !ok {
		mu = &sync.RWMutex{}
		locks[path] = mu
	}
	return mu
}
