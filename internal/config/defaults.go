package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vi13x/antc-trx/internal/discord"
	"github.com/vi13x/antc-trx/internal/notify"
	"github.com/vi13x/antc-trx/internal/storage"
)

func DefaultConfig() *Config {
	return &Config{
		Log:   LogConfig{Level: "info"},
		Brand: notify.DefaultBrand(),
		Storage: StorageConfig{
			Driver: storage.DriverBadger,
			Path:   filepath.Join(".trxdesk", "data"),
		},
		Dispatch: DispatchConfig{
			Timeout:   discord.DefaultTimeout,
			UserAgent: discord.DefaultUserAgent,
		},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			PublicRecent: 10,
			Mode:         "release",
		},
		Catalog: notify.DefaultCatalog(),
		Backups: BackupsConfig{Dir: filepath.Join(".trxdesk", "backups")},
	}
}

const header = "# trxdesk configuration\n# Add operators with `trxdesk passwd` and paste the hash under auth.users.\n\n"

// WriteDefault writes the default configuration to path, refusing to overwrite.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(header), data...), 0o600)
}
