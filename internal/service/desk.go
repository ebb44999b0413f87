package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vi13x/antc-trx/internal/discord"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/ledger"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/notify"
	"github.com/vi13x/antc-trx/internal/storage"
	"github.com/vi13x/antc-trx/internal/webhook"
)

const DefaultPublicRecent = 10

type Options struct {
	Brand             notify.Brand
	Catalog           notify.Catalog
	PublicRecent      int
	BackupsDir        string
	StrictTransitions bool
	Now               func() time.Time
}

// Desk is what every front end talks to: it ties the ledger and the webhook
// registry to the notification composer.
type Desk struct {
	store      *storage.Store
	ledger     *ledger.Ledger
	registry   *webhook.Registry
	composer   *notify.Composer
	log        logger.ILogger
	platform   string
	recent     int
	backupsDir string
	now        func() time.Time
}

func NewDesk(store *storage.Store, sender discord.Sender, log logger.ILogger, o Options) *Desk {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.PublicRecent <= 0 {
		o.PublicRecent = DefaultPublicRecent
	}
	if o.Brand.Platform == "" {
		o.Brand = notify.DefaultBrand()
	}
	if o.Catalog.Services == nil {
		o.Catalog = notify.DefaultCatalog()
	}

	reg := webhook.New(store, log, webhook.WithClock(o.Now))
	return &Desk{
		store: store,
		ledger: ledger.New(store, log,
			ledger.WithClock(o.Now),
			ledger.WithStrictTransitions(o.StrictTransitions)),
		registry: reg,
		composer: notify.NewComposer(reg, sender, log,
			notify.WithBrand(o.Brand),
			notify.WithCatalog(o.Catalog),
			notify.WithClock(o.Now)),
		log:        log,
		platform:   o.Brand.Platform,
		recent:     o.PublicRecent,
		backupsDir: o.BackupsDir,
		now:        o.Now,
	}
}

func (d *Desk) Catalog() notify.Catalog { return d.composer.Catalog() }

func (d *Desk) Platform() string { return d.platform }

// SubmitOrder records the order and only then starts its alert. The returned
// task never affects the stored transaction.
func (d *Desk) SubmitOrder(ctx context.Context, in domain.OrderInput, photo *domain.Attachment) (domain.Transaction, *notify.Task, error) {
	if photo != nil && in.PhotoName == "" {
		in.PhotoName = photo.Name
	}
	tx, err := d.ledger.Create(in)
	if err != nil {
		return domain.Transaction{}, nil, err
	}
	d.log.Infof("transaction %s recorded (%s, %s)", tx.ID, tx.ServiceType, tx.OrderAmount)
	return tx, d.composer.NotifyTransaction(ctx, tx), nil
}

// Transactions lists the ledger in creation order; an empty status lists all.
func (d *Desk) Transactions(status domain.Status) []domain.Transaction {
	return d.ledger.Filter(status)
}

// Recent is the storefront's public view of the latest transactions.
func (d *Desk) Recent() []domain.PublicTransaction {
	txs := d.ledger.Recent(d.recent)
	out := make([]domain.PublicTransaction, len(txs))
	for i, t := range txs {
		out[i] = t.Public()
	}
	return out
}

func (d *Desk) Transaction(id domain.TxID) (domain.Transaction, error) {
	return d.ledger.Get(id)
}

func (d *Desk) Stats() domain.Stats { return d.ledger.Stats() }

func (d *Desk) Export() domain.ExportDocument { return d.ledger.Export(d.platform) }

func (d *Desk) ExportFileName() string {
	return fmt.Sprintf("antc-trx-data-%s.json", d.now().Format("2006-01-02"))
}

// WriteExport writes the export document into dir (or to path if it ends in .json).
func (d *Desk) WriteExport(path string) (string, error) {
	if filepath.Ext(path) != ".json" {
		path = filepath.Join(path, d.ExportFileName())
	}
	b, err := json.MarshalIndent(d.Export(), "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func (d *Desk) Close() error { return d.store.Close() }
