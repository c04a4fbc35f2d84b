package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	filerecords "github.com/bnema/queuewatch/internal/adapters/record/file"
	redisrecords "github.com/bnema/queuewatch/internal/adapters/record/redis"
	recordsadapter "github.com/bnema/queuewatch/internal/adapters/render/records"
	tomlrepo "github.com/bnema/queuewatch/internal/adapters/repo/toml"
	chainstore "github.com/bnema/queuewatch/internal/adapters/secrets/chain"
	filestore "github.com/bnema/queuewatch/internal/adapters/secrets/file"
	passstore "github.com/bnema/queuewatch/internal/adapters/secrets/pass"
	"github.com/bnema/queuewatch/internal/adapters/session/relay"
	"github.com/bnema/queuewatch/internal/application"
	"github.com/bnema/queuewatch/internal/config"
	"github.com/bnema/queuewatch/internal/logging"
	"github.com/bnema/queuewatch/internal/ports"
	"github.com/rs/zerolog"
)

const dotEnvFile = ".env"

// recordStore is what both record backends provide.
type recordStore interface {
	ports.Recorder
	ports.RecordReader
}

type app struct {
	cfg            config.Config
	service        *application.Service
	repo           ports.AccountRepository
	secretStore    ports.SecretStore
	recordRenderer func([]application.RecordSummary, recordsadapter.RenderOptions) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, fmt.Errorf("wire environment: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v, err := config.NewViper(homeDir)
	if err != nil {
		return nil, fmt.Errorf("wire config: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("wire config: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	secretStore, err := newSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	return &app{
		cfg:            cfg,
		service:        application.NewService(repo, secretStore),
		repo:           repo,
		secretStore:    secretStore,
		recordRenderer: recordsadapter.Render,
		now:            time.Now,
	}, nil
}

func newSecretStore(cfg config.Config) (ports.SecretStore, error) {
	switch cfg.SecretsBackend {
	case config.SecretsFile:
		return filestore.NewStore(cfg.SecretsDir), nil
	case config.SecretsPass:
		return passstore.NewStore(cfg.PassDir), nil
	default:
		store, err := chainstore.NewPassFirstWithFileFallback(cfg.PassDir, cfg.SecretsDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

// newLogger builds the run logger. A non-empty level overrides log.level.
func (a *app) newLogger(out io.Writer, level string) (zerolog.Logger, error) {
	cfg := a.cfg.Log
	if level != "" {
		cfg.Level = level
	}

	logger, err := logging.New(cfg, out)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("wire logger: %w", err)
	}
	return logger, nil
}

// openRecordStore connects the configured record backend. The returned
// close function is always safe to call.
func (a *app) openRecordStore(ctx context.Context) (recordStore, func(), error) {
	switch a.cfg.Records.Backend {
	case config.BackendRedis:
		store, err := redisrecords.Dial(ctx, redisrecords.Options{
			Addr:      a.cfg.Redis.Addr,
			Password:  a.cfg.Redis.Password,
			DB:        a.cfg.Redis.DB,
			KeyPrefix: a.cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, func() {}, fmt.Errorf("wire record store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return filerecords.NewStore(a.cfg.Records.Dir), func() {}, nil
	}
}

func (a *app) newSessionFactory(logger zerolog.Logger) ports.SessionFactory {
	return relay.NewDialer(a.cfg.Session.URL, a.cfg.Session.Options, logger)
}
