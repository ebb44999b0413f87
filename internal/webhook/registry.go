package webhook

import (
	"strings"
	"sync"
	"time"

	"github.com/vi13x/antc-trx/internal/discord"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/storage"
)

// LegacyID is where a pre-registry single webhook URL is migrated to.
const LegacyID = "1"

// Registry maps operator-chosen ids to webhook configs. Iteration order is
// insertion order, which makes function-tag routing deterministic.
type Registry struct {
	mu      sync.RWMutex
	store   *storage.Store
	log     logger.ILogger
	now     func() time.Time
	entries entries
	legacy  string
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func New(store *storage.Store, log logger.ILogger, opts ...Option) *Registry {
	r := &Registry{store: store, log: log, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	r.Reload()
	return r
}

// Reload reads the registry and the legacy slot, then migrates the legacy URL.
func (r *Registry) Reload() {
	e := storage.Load(r.store, storage.KeyWebhooks, newEntries())
	legacy := r.store.LoadString(storage.KeyLegacyWebhook)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = e
	r.legacy = legacy
	r.migrateLegacyLocked()
	r.log.Infof("webhooks loaded: %d configured", len(r.entries.order))
}

func (r *Registry) migrateLegacyLocked() {
	if r.legacy == "" {
		return
	}
	for _, c := range r.entries.m {
		if c.URL == r.legacy {
			return
		}
	}
	if prev, ok := r.entries.m[LegacyID]; ok {
		r.log.Warningf("legacy webhook replaces entry %s (%s)", LegacyID, prev.Function)
	}
	r.entries.set(LegacyID, domain.WebhookConfig{
		URL:      r.legacy,
		Function: domain.FunctionTransaction,
		Name:     "Legacy Webhook",
		Created:  r.now(),
	})
}

// Upsert validates and stores the config for id. Transaction webhooks also
// refresh the legacy slot.
func (r *Registry) Upsert(id, url string, fn domain.Function) (domain.WebhookConfig, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.WebhookConfig{}, domain.NewValidationError("id", "Pilih webhook terlebih dahulu!")
	}
	if url == "" || fn == "" {
		return domain.WebhookConfig{}, domain.NewValidationError("url", "URL webhook dan fungsi harus diisi!")
	}
	if !discord.ValidURL(url) {
		return domain.WebhookConfig{}, domain.NewValidationError("url", "URL webhook Discord tidak valid!")
	}
	if !fn.Valid() {
		return domain.WebhookConfig{}, domain.NewValidationError("function", "Fungsi webhook tidak dikenal!")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.entries.m[id]
	c.URL = url
	c.Function = fn
	c.Name = "Webhook " + id
	c.Created = r.now()
	r.entries.set(id, c)
	r.store.Save(storage.KeyWebhooks, r.entries)

	if fn == domain.FunctionTransaction {
		r.legacy = url
		r.store.SaveString(storage.KeyLegacyWebhook, url)
	}
	return c, nil
}

func (r *Registry) Get(id string) (domain.WebhookConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries.m[id]
	return c, ok
}

func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries.order))
	for _, id := range r.entries.order {
		out = append(out, Entry{ID: id, WebhookConfig: r.entries.m[id]})
	}
	return out
}

// FindByFunction returns the first entry, in insertion order, tagged with any of fns.
func (r *Registry) FindByFunction(fns ...domain.Function) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.entries.order {
		c := r.entries.m[id]
		for _, fn := range fns {
			if c.Function == fn {
				return Entry{ID: id, WebhookConfig: c}, true
			}
		}
	}
	return Entry{}, false
}

func (r *Registry) HasActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.entries.m {
		if c.Active() {
			return true
		}
	}
	return false
}

func (r *Registry) LegacyURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.legacy
}

// TransactionURL is where new-transaction alerts go: the first transaction
// webhook, else the legacy slot. Empty when neither is set.
func (r *Registry) TransactionURL() string {
	if e, ok := r.FindByFunction(domain.FunctionTransaction); ok {
		return e.URL
	}
	return r.LegacyURL()
}
