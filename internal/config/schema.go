package config

import (
	"time"

	"github.com/vi13x/antc-trx/internal/auth"
	"github.com/vi13x/antc-trx/internal/notify"
)

// Config is the full trxdesk configuration.
type Config struct {
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Brand    notify.Brand   `yaml:"brand" mapstructure:"brand"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Dispatch DispatchConfig `yaml:"dispatch" mapstructure:"dispatch"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Auth     AuthConfig     `yaml:"auth" mapstructure:"auth"`
	Telegram TelegramConfig `yaml:"telegram" mapstructure:"telegram"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger"`
	Catalog  notify.Catalog `yaml:"catalog" mapstructure:"catalog"`
	Backups  BackupsConfig  `yaml:"backups" mapstructure:"backups"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// StorageConfig selects the KV backend. Path is a directory for badger and a file for the file driver.
type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

type DispatchConfig struct {
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	// PublicRecent is how many transactions the storefront lists.
	PublicRecent int    `yaml:"public_recent" mapstructure:"public_recent"`
	Mode         string `yaml:"mode" mapstructure:"mode"`
}

type AuthConfig struct {
	Users []auth.Credential `yaml:"users" mapstructure:"users"`
}

type TelegramConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
	// AllowedChats restricts the bot to these chat ids; empty allows every chat.
	AllowedChats []int64 `yaml:"allowed_chats" mapstructure:"allowed_chats"`
	Debug        bool    `yaml:"debug" mapstructure:"debug"`
}

type LedgerConfig struct {
	StrictTransitions bool `yaml:"strict_transitions" mapstructure:"strict_transitions"`
}

type BackupsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}
