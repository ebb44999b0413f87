package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vi13x/antc-trx/internal/discord"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/webhook"
)

// Routes resolves where each kind of notification goes.
type Routes interface {
	Get(id string) (domain.WebhookConfig, bool)
	FindByFunction(fns ...domain.Function) (webhook.Entry, bool)
	TransactionURL() string
}

// Composer builds Discord messages and dispatches them in the background.
// Dispatch never touches ledger or registry state.
type Composer struct {
	routes  Routes
	sender  discord.Sender
	catalog Catalog
	brand   Brand
	log     logger.ILogger
	now     func() time.Time
}

type Option func(*Composer)

func WithCatalog(c Catalog) Option {
	return func(cp *Composer) { cp.catalog = c }
}

func WithBrand(b Brand) Option {
	return func(cp *Composer) { cp.brand = b }
}

func WithClock(now func() time.Time) Option {
	return func(cp *Composer) { cp.now = now }
}

func NewComposer(routes Routes, sender discord.Sender, log logger.ILogger, opts ...Option) *Composer {
	c := &Composer{
		routes:  routes,
		sender:  sender,
		catalog: DefaultCatalog(),
		brand:   DefaultBrand(),
		log:     log,
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Composer) Catalog() Catalog { return c.catalog }

func (c *Composer) footer(text, icon string) *discord.Footer {
	return &discord.Footer{Text: c.brand.Platform + text, IconURL: icon}
}

func thumbnail(url string) *discord.Thumbnail {
	if url == "" {
		return nil
	}
	return &discord.Thumbnail{URL: url}
}

// TransactionAlert is the message announcing a newly recorded order.
func (c *Composer) TransactionAlert(tx domain.Transaction) *discord.Message {
	fields := []discord.Field{
		{Name: "🆔 ID Transaksi", Value: "`" + string(tx.ID) + "`", Inline: true},
		{Name: "👤 Nama Customer", Value: tx.CustomerName, Inline: true},
		{Name: "🎯 Jenis Transaksi", Value: c.catalog.ServiceName(tx.ServiceType), Inline: true},
		{Name: "💰 Total Nilai", Value: "**" + FormatAmount(tx.OrderAmount) + "**", Inline: true},
		{Name: strings.TrimSpace(c.catalog.UrgencyEmoji(tx.Urgency) + " Urgency"), Value: c.catalog.UrgencyText(tx.Urgency), Inline: true},
		{Name: "📱 WhatsApp", Value: "`" + tx.CustomerPhone + "`", Inline: true},
		{Name: "📧 Email", Value: tx.CustomerEmail},
		{Name: "📝 Detail Transaksi", Value: "```" + tx.OrderDetails + "```"},
	}
	if tx.HasPhoto {
		fields = append(fields, discord.Field{Name: "📸 Lampiran Foto", Value: "✅ File: `" + tx.PhotoName + "`"})
	}

	return &discord.Message{
		Content: "🔔 **TRANSAKSI BARU MASUK!** 🔔",
		Embeds: []discord.Embed{{
			Title: "💳 " + c.brand.Platform + " - Transaksi Baru",
			Description: fmt.Sprintf("📊 **Status:** 🟡 `PENDING`\n⏰ **Waktu:** %s\n🌟 **Platform:** %s Professional",
				FormatDateTime(tx.Timestamp), c.brand.Platform),
			Color:     ColorTransaction,
			Fields:    fields,
			Timestamp: discord.Timestamp(c.now()),
			Footer:    c.footer(" • Professional Digital Platform", c.brand.AlertIconURL),
			Thumbnail: thumbnail(c.brand.AlertThumbURL),
		}},
	}
}

// TestMessage echoes the function tag configured for webhook id.
func (c *Composer) TestMessage(id string, fn domain.Function) *discord.Message {
	now := c.now()
	return &discord.Message{
		Embeds: []discord.Embed{{
			Title: "🧪 Test Message - " + c.brand.Platform,
			Description: fmt.Sprintf("✅ Webhook %s berhasil dikonfigurasi!\n🔧 Fungsi: %s\n📅 Waktu test: %s",
				id, fn, FormatDateTime(now)),
			Color:     ColorTransaction,
			Timestamp: discord.Timestamp(now),
			Thumbnail: thumbnail(c.brand.LogoURL),
			Footer:    c.footer(" Admin Panel • Test Mode", c.brand.IconURL),
		}},
	}
}

// Announcement is the broadcast message. With a photo the embed points at the
// attachment that travels in the same multipart request.
func (c *Composer) Announcement(title, text string, photo *domain.Attachment) *discord.Message {
	e := discord.Embed{
		Title:       "🎯 " + title,
		Description: text,
		Color:       ColorAnnounce,
		Timestamp:   discord.Timestamp(c.now()),
		Footer:      c.footer(" • Official Announcement", c.brand.AnnounceIconURL),
		Thumbnail:   thumbnail(c.brand.AnnounceIconURL),
	}
	if photo != nil {
		e.Image = &discord.Image{URL: "attachment://" + AnnouncePhotoName}
		e.Fields = []discord.Field{{
			Name:  "📸 Foto Lampiran",
			Value: fmt.Sprintf("✅ **%s** (%s)", photo.Name, FormatFileSize(photo.Size())),
		}}
	}
	return &discord.Message{Content: "📢 **PENGUMUMAN BARU!** 📢", Embeds: []discord.Embed{e}}
}

func (c *Composer) CustomMessage(title, text string) *discord.Message {
	return &discord.Message{
		Embeds: []discord.Embed{{
			Title:       "🔧 " + title,
			Description: text,
			Color:       ColorCustom,
			Timestamp:   discord.Timestamp(c.now()),
			Footer:      c.footer(" • Custom Message", ""),
		}},
	}
}

// NotifyTransaction sends the alert for tx to the transaction webhook, or the
// legacy URL when no entry carries that tag.
func (c *Composer) NotifyTransaction(ctx context.Context, tx domain.Transaction) *Task {
	url := c.routes.TransactionURL()
	if url == "" {
		c.log.Warningf("no webhook configured for transactions, alert for %s skipped", tx.ID)
		return completed(Notice{Kind: NoticeSkipped, Message: "Webhook transaksi belum dikonfigurasi"})
	}
	return c.dispatch(ctx, "transaction alert "+string(tx.ID), c.TransactionAlert(tx), nil, url,
		"✅ Notifikasi transaksi terkirim ke Discord!",
		"❌ Gagal mengirim notifikasi transaksi ke Discord!")
}

// SendTest sends a test message to the webhook saved under id.
func (c *Composer) SendTest(ctx context.Context, id string) *Task {
	cfg, ok := c.routes.Get(id)
	if id == "" || !ok || cfg.URL == "" {
		return completed(Notice{Kind: NoticeError, Message: "Pilih dan simpan webhook terlebih dahulu!"})
	}
	return c.dispatch(ctx, "test message to webhook "+id, c.TestMessage(id, cfg.Function), nil, cfg.URL,
		"✅ Test message berhasil dikirim ke Discord!",
		"❌ Gagal mengirim test message. Periksa URL webhook!")
}

// SendAnnouncement routes to the first announce or photo_announce webhook.
// A non-nil photo switches to the multipart encoding.
func (c *Composer) SendAnnouncement(ctx context.Context, title, text string, photo *domain.Attachment) *Task {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(text) == "" {
		return completed(Notice{Kind: NoticeError, Message: "Judul dan pesan harus diisi!"})
	}
	e, ok := c.routes.FindByFunction(domain.FunctionAnnounce, domain.FunctionPhotoAnnounce)
	if !ok {
		return completed(Notice{Kind: NoticeError, Message: "❌ Webhook announce belum dikonfigurasi!"})
	}
	msg := c.Announcement(title, text, photo)
	if photo == nil {
		return c.dispatch(ctx, "announcement", msg, nil, e.URL,
			"✅ Announce berhasil dikirim ke Discord!",
			"❌ Gagal mengirim announce! Periksa koneksi internet.")
	}
	return c.dispatch(ctx, "photo announcement", msg, &discord.File{Name: AnnouncePhotoName, Data: photo.Data}, e.URL,
		"✅ Announce dengan foto berhasil dikirim ke Discord!",
		"❌ Gagal mengirim announce dengan foto! Periksa koneksi internet.")
}

// SendCustom requires a custom webhook before looking at the input.
func (c *Composer) SendCustom(ctx context.Context, title, text string) *Task {
	e, ok := c.routes.FindByFunction(domain.FunctionCustom)
	if !ok {
		return completed(Notice{Kind: NoticeError, Message: "❌ Webhook custom belum dikonfigurasi!"})
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(text) == "" {
		return completed(Notice{Kind: NoticeError, Message: "Judul dan pesan harus diisi!"})
	}
	return c.dispatch(ctx, "custom message", c.CustomMessage(title, text), nil, e.URL,
		"✅ Pesan custom berhasil dikirim!",
		"❌ Gagal mengirim pesan custom!")
}

func (c *Composer) dispatch(ctx context.Context, what string, msg *discord.Message, file *discord.File, url, okMsg, failMsg string) *Task {
	t := newTask()
	ctx = context.WithoutCancel(ctx)
	go func() {
		var err error
		if file != nil {
			_, err = c.sender.SendWithFile(ctx, msg, file, url)
		} else {
			_, err = c.sender.Send(ctx, msg, url)
		}
		if err != nil {
			c.log.Errorf("%s failed: %v", what, err)
			t.finish(failure(failMsg, err))
			return
		}
		c.log.Infof("%s sent", what)
		t.finish(Notice{Kind: NoticeSuccess, Message: okMsg})
	}()
	return t
}

func failure(msg string, err error) Notice {
	if errors.Is(err, discord.ErrTimeout) {
		msg += " (timeout)"
	}
	return Notice{Kind: NoticeError, Message: msg, Err: err}
}
