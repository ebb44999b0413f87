package service

import (
	"context"
	"fmt"

	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/notify"
	"github.com/vi13x/antc-trx/internal/storage"
	"github.com/vi13x/antc-trx/internal/webhook"
)

const (
	WebhookStatusActive = "✅ Active"
	WebhookStatusNotSet = "❌ Not Set"
)

func (d *Desk) UpdateStatus(id domain.TxID, status domain.Status) (domain.Transaction, error) {
	tx, err := d.ledger.SetStatus(id, status)
	if err != nil {
		return tx, err
	}
	d.log.Infof("transaction %s marked %s", id, status)
	return tx, nil
}

// Delete removes id. Deleting a missing id changes nothing and reports ErrNotFound.
func (d *Desk) Delete(id domain.TxID) error {
	if !d.ledger.Delete(id) {
		return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	d.log.Infof("transaction %s deleted", id)
	return nil
}

func (d *Desk) SaveWebhook(id, url string, fn domain.Function) (domain.WebhookConfig, error) {
	c, err := d.registry.Upsert(id, url, fn)
	if err != nil {
		return c, err
	}
	d.log.Infof("webhook %s saved for %s", id, fn)
	return c, nil
}

func (d *Desk) Webhook(id string) (domain.WebhookConfig, error) {
	c, ok := d.registry.Get(id)
	if !ok {
		return c, fmt.Errorf("webhook %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (d *Desk) Webhooks() []webhook.Entry { return d.registry.List() }

func (d *Desk) WebhookActive() bool { return d.registry.HasActive() }

func (d *Desk) WebhookStatus() string {
	if d.WebhookActive() {
		return WebhookStatusActive
	}
	return WebhookStatusNotSet
}

func (d *Desk) TestWebhook(ctx context.Context, id string) *notify.Task {
	return d.composer.SendTest(ctx, id)
}

func (d *Desk) Announce(ctx context.Context, title, msg string, photo *domain.Attachment) *notify.Task {
	return d.composer.SendAnnouncement(ctx, title, msg, photo)
}

func (d *Desk) SendCustom(ctx context.Context, title, msg string) *notify.Task {
	return d.composer.SendCustom(ctx, title, msg)
}

// Backups

func (d *Desk) Backup() (string, error) {
	return d.store.Backup(d.backupsDir, d.now())
}

func (d *Desk) Backups() ([]string, error) {
	return storage.ListBackups(d.backupsDir)
}

// Restore overwrites the stored keys with a backup and reloads the ledger and registry.
func (d *Desk) Restore(name string) error {
	if err := d.store.Restore(d.backupsDir, name); err != nil {
		return err
	}
	d.ledger.Reload()
	d.registry.Reload()
	d.log.Infof("restored backup %s", name)
	return nil
}
