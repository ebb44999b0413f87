package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vi13x/antc-trx/internal/auth"
	"github.com/vi13x/antc-trx/internal/storage"
)

const EnvPrefix = "TRXDESK"

// Load merges defaults, the global and project config files, an optional
// explicit file and TRXDESK_* environment variables, in that order.
func Load(explicit string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}

	for _, p := range []string{GlobalConfigPath(), ProjectConfigPath()} {
		if err := mergeFile(v, p, false); err != nil {
			return nil, err
		}
	}
	if explicit != "" {
		if err := mergeFile(v, explicit, true); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func mergeFile(v *viper.Viper, path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return err
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".trxdesk", "config.yaml")
}

func ProjectConfigPath() string {
	return filepath.Join(".trxdesk", "config.yaml")
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs *multierror.Error
	switch driver := strings.ToLower(c.Storage.Driver); driver {
	case storage.DriverBadger, storage.DriverFile, storage.DriverMemory:
		if driver != storage.DriverMemory && c.Storage.Path == "" {
			errs = multierror.Append(errs, errors.New("storage.path is required"))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("storage.driver %q is not one of badger, file, memory", c.Storage.Driver))
	}
	if c.Dispatch.Timeout <= 0 {
		errs = multierror.Append(errs, errors.New("dispatch.timeout must be positive"))
	}
	if c.HTTP.Addr == "" {
		errs = multierror.Append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.PublicRecent <= 0 {
		errs = multierror.Append(errs, errors.New("http.public_recent must be positive"))
	}
	for i, u := range c.Auth.Users {
		if strings.TrimSpace(u.Username) == "" {
			errs = multierror.Append(errs, fmt.Errorf("auth.users[%d]: username is empty", i))
		}
		if !auth.IsHash(u.Hash) {
			errs = multierror.Append(errs, fmt.Errorf("auth.users[%d]: hash for %q is not a bcrypt hash", i, u.Username))
		}
	}
	return errs.ErrorOrNil()
}
