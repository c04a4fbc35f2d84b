// Package config loads queuewatch settings from config.toml, the QW_*
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/queuewatch/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".queuewatch"
	envPrefix  = "QW"

	BackendFile  = "file"
	BackendRedis = "redis"

	SecretsChain = "chain"
	SecretsPass  = "pass"
	SecretsFile  = "file"

	keyCredentialsPath = "credentials.path"
	keySecretsDir      = "secrets.dir"
	keySecretsBackend  = "secrets.backend"
	keyPassDir         = "secrets.pass_dir"
	keyLanes           = "scheduler.lanes"
	keyBudgetWindow    = "scheduler.budget_window"
	keyCooldown        = "scheduler.cooldown"
	keyRetryDelay      = "scheduler.retry_delay"
	keySessionURL      = "session.url"
	keyMaxDuration     = "session.max_duration"
	keySessionOptions  = "session.options"
	keyRecordsBackend  = "records.backend"
	keyRecordsDir      = "records.dir"
	keyRedisAddr       = "redis.addr"
	keyRedisPassword   = "redis.password"
	keyRedisDB         = "redis.db"
	keyRedisKeyPrefix  = "redis.key_prefix"
	keyLogLevel        = "log.level"
	keyLogFormat       = "log.format"
)

type Config struct {
	CredentialsPath string
	SecretsDir      string
	SecretsBackend  string
	// PassDir overrides PASSWORD_STORE_DIR for the pass backend.
	PassDir         string
	Scheduler       SchedulerConfig
	Session         SessionConfig
	Records         RecordsConfig
	Redis           RedisConfig
	Log             logging.Config
}

type SchedulerConfig struct {
	Lanes int
	// BudgetWindow is the external rate-limit period; lane starts are spread
	// evenly over it.
	BudgetWindow time.Duration
	Cooldown     time.Duration
	// RetryDelay is waited after a session could not be opened at all.
	RetryDelay time.Duration
}

type SessionConfig struct {
	URL         string
	MaxDuration time.Duration
	Options     map[string]any
}

type RecordsConfig struct {
	Backend string
	Dir     string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewViper returns a viper instance with defaults applied and config.toml
// read from ~/.queuewatch or the working directory when present.
func NewViper(homeDir string) (*viper.Viper, error) {
	v := viper.New()
	applyDefaults(v, homeDir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Join(homeDir, configDir))
	v.AddConfigPath(".")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

// LoadDotEnv exports the variables of path into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		CredentialsPath: v.GetString(keyCredentialsPath),
		SecretsDir:      v.GetString(keySecretsDir),
		SecretsBackend:  strings.ToLower(strings.TrimSpace(v.GetString(keySecretsBackend))),
		PassDir:         v.GetString(keyPassDir),
		Scheduler: SchedulerConfig{
			Lanes:        v.GetInt(keyLanes),
			BudgetWindow: v.GetDuration(keyBudgetWindow),
			Cooldown:     v.GetDuration(keyCooldown),
			RetryDelay:   v.GetDuration(keyRetryDelay),
		},
		Session: SessionConfig{
			URL:         v.GetString(keySessionURL),
			MaxDuration: v.GetDuration(keyMaxDuration),
			Options:     v.GetStringMap(keySessionOptions),
		},
		Records: RecordsConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(keyRecordsBackend))),
			Dir:     v.GetString(keyRecordsDir),
		},
		Redis: RedisConfig{
			Addr:      v.GetString(keyRedisAddr),
			Password:  v.GetString(keyRedisPassword),
			DB:        v.GetInt(keyRedisDB),
			KeyPrefix: v.GetString(keyRedisKeyPrefix),
		},
		Log: logging.Config{
			Level:  v.GetString(keyLogLevel),
			Format: v.GetString(keyLogFormat),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.CredentialsPath) == "" {
		return errors.New("credentials path is empty")
	}
	switch c.SecretsBackend {
	case SecretsChain, SecretsPass:
	case SecretsFile:
		if strings.TrimSpace(c.SecretsDir) == "" {
			return errors.New("secrets dir is empty")
		}
	default:
		return fmt.Errorf("unsupported secrets backend %q", c.SecretsBackend)
	}
	if c.Scheduler.Lanes < 1 {
		return fmt.Errorf("scheduler lanes must be at least 1, got %d", c.Scheduler.Lanes)
	}
	if c.Scheduler.BudgetWindow < 0 {
		return fmt.Errorf("scheduler budget window must not be negative, got %s", c.Scheduler.BudgetWindow)
	}
	if c.Scheduler.Cooldown < 0 {
		return fmt.Errorf("scheduler cooldown must not be negative, got %s", c.Scheduler.Cooldown)
	}
	if c.Scheduler.RetryDelay < 0 {
		return fmt.Errorf("scheduler retry delay must not be negative, got %s", c.Scheduler.RetryDelay)
	}
	if c.Session.MaxDuration < 0 {
		return fmt.Errorf("session max duration must not be negative, got %s", c.Session.MaxDuration)
	}
	if strings.TrimSpace(c.Session.URL) == "" {
		return errors.New("session url is empty")
	}

	switch c.Records.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Records.Dir) == "" {
			return errors.New("records dir is empty")
		}
	case BackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("redis addr is empty")
		}
	default:
		return fmt.Errorf("unsupported records backend %q", c.Records.Backend)
	}

	return nil
}

func applyDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault(keyCredentialsPath, filepath.Join(homeDir, configDir, "credentials.toml"))
	v.SetDefault(keySecretsDir, filepath.Join(homeDir, configDir, "secrets"))
	v.SetDefault(keySecretsBackend, SecretsChain)
	v.SetDefault(keyPassDir, "")
	v.SetDefault(keyLanes, 2)
	v.SetDefault(keyBudgetWindow, 6*time.Hour)
	v.SetDefault(keyCooldown, time.Duration(0))
	v.SetDefault(keyRetryDelay, 5*time.Second)
	v.SetDefault(keySessionURL, "ws://127.0.0.1:25580/session")
	v.SetDefault(keyMaxDuration, time.Duration(0))
	v.SetDefault(keySessionOptions, map[string]any{})
	v.SetDefault(keyRecordsBackend, BackendFile)
	v.SetDefault(keyRecordsDir, "queue")
	v.SetDefault(keyRedisAddr, "127.0.0.1:6379")
	v.SetDefault(keyRedisPassword, "")
	v.SetDefault(keyRedisDB, 0)
	v.SetDefault(keyRedisKeyPrefix, "queuewatch:record:")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "console")
}
