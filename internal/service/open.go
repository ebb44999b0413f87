package service

import (
	"fmt"

	"github.com/vi13x/antc-trx/internal/config"
	"github.com/vi13x/antc-trx/internal/discord"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/storage"
)

// Open builds a Desk from configuration, opening the configured KV backend.
func Open(cfg *config.Config, log logger.ILogger) (*Desk, error) {
	kv, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	sender := discord.NewClient(
		discord.WithTimeout(cfg.Dispatch.Timeout),
		discord.WithUserAgent(cfg.Dispatch.UserAgent),
	)
	return NewDesk(storage.NewStore(kv, log), sender, log, Options{
		Brand:             cfg.Brand,
		Catalog:           cfg.Catalog,
		PublicRecent:      cfg.HTTP.PublicRecent,
		BackupsDir:        cfg.Backups.Dir,
		StrictTransitions: cfg.Ledger.StrictTransitions,
	}), nil
}
