package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vi13x/antc-trx/internal/auth"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/notify"
	"github.com/vi13x/antc-trx/internal/webhook"
)

const maxListed = 20

// API is the subset of *tgbotapi.BotAPI the bot needs.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Desk is the part of service.Desk the bot uses.
type Desk interface {
	Recent() []domain.PublicTransaction
	Transactions(status domain.Status) []domain.Transaction
	Stats() domain.Stats
	UpdateStatus(id domain.TxID, status domain.Status) (domain.Transaction, error)
	Delete(id domain.TxID) error
	Catalog() notify.Catalog
	Webhooks() []webhook.Entry
	WebhookStatus() string
	Announce(ctx context.Context, title, msg string, photo *domain.Attachment) *notify.Task
	SendCustom(ctx context.Context, title, msg string) *notify.Task
}

// Bot triages the ledger from Telegram. Each chat has its own admin gate.
type Bot struct {
	api      API
	desk     Desk
	sessions *auth.Sessions
	allowed  map[int64]bool
	log      logger.ILogger
}

func New(api API, desk Desk, sessions *auth.Sessions, allowedChats []int64, log logger.ILogger) *Bot {
	b := &Bot{api: api, desk: desk, sessions: sessions, log: log}
	if len(allowedChats) > 0 {
		b.allowed = make(map[int64]bool, len(allowedChats))
		for _, id := range allowedChats {
			b.allowed[id] = true
		}
	}
	return b
}

// Start long-polls updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if b.allowed != nil && !b.allowed[chatID] {
		b.log.Warningf("ignoring message from chat %d", chatID)
		return
	}

	text := "ℹ️ Gunakan /help untuk daftar perintah"
	if msg.IsCommand() {
		text = b.reply(ctx, chatID, msg.Command(), msg.CommandArguments())
		if msg.Command() == "login" {
			if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
				b.log.Warningf("delete login message in chat %d: %v", chatID, err)
			}
		}
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Errorf("send to chat %d: %v", chatID, err)
	}
}

const helpText = `🧾 ANTC TRX - Perintah:
/recent - transaksi terbaru
/login <user> <pass>
/logout

Admin:
/list [pending|completed|failed]
/complete <ID>
/fail <ID>
/pending <ID>
/delete <ID>
/stats
/webhooks
/announce <judul> | <pesan>
/custom <judul> | <pesan>`

func (b *Bot) reply(ctx context.Context, chatID int64, cmd, args string) string {
	gate := b.sessions.Gate(strconv.FormatInt(chatID, 10))
	args = strings.TrimSpace(args)

	switch cmd {
	case "start", "help":
		return helpText
	case "recent":
		return b.recentText()
	case "login":
		user, pass, ok := strings.Cut(args, " ")
		if !ok {
			return "Format: /login <user> <pass>"
		}
		if _, err := gate.Login(user, strings.TrimSpace(pass)); err != nil {
			b.log.Warningf("telegram login failed for %q in chat %d", user, chatID)
			return "Username atau password salah!"
		}
		return fmt.Sprintf("Login berhasil! Selamat datang di dashboard admin.\nWebhook: %s", b.desk.WebhookStatus())
	case "logout":
		gate.Logout()
		return "Logout berhasil!"
	}

	if !gate.LoggedIn() {
		switch cmd {
		case "list", "complete", "fail", "pending", "delete", "stats", "webhooks", "announce", "custom":
			return "🔒 Silakan /login terlebih dahulu."
		}
		return "Perintah tidak dikenal. Gunakan /help"
	}

	switch cmd {
	case "list":
		status := domain.Status(args)
		if status != "" && !status.Valid() {
			return "Format: /list [pending|completed|failed]"
		}
		return b.listText(status)
	case "complete":
		return b.setStatus(cmd, args, domain.StatusCompleted)
	case "fail":
		return b.setStatus(cmd, args, domain.StatusFailed)
	case "pending":
		return b.setStatus(cmd, args, domain.StatusPending)
	case "delete":
		if args == "" {
			return "Format: /delete <ID>"
		}
		if err := b.desk.Delete(domain.TxID(args)); err != nil {
			return errorText(args, err)
		}
		return "Transaksi berhasil dihapus!"
	case "stats":
		return b.statsText()
	case "webhooks":
		return b.webhooksText()
	case "announce", "custom":
		title, body, ok := strings.Cut(args, "|")
		if !ok {
			return fmt.Sprintf("Format: /%s <judul> | <pesan>", cmd)
		}
		title, body = strings.TrimSpace(title), strings.TrimSpace(body)
		var task *notify.Task
		if cmd == "announce" {
			task = b.desk.Announce(ctx, title, body, nil)
		} else {
			task = b.desk.SendCustom(ctx, title, body)
		}
		return task.Wait(ctx).Message
	}
	return "Perintah tidak dikenal. Gunakan /help"
}

func (b *Bot) setStatus(cmd, id string, status domain.Status) string {
	if id == "" {
		return "Format: /" + cmd + " <ID>"
	}
	if _, err := b.desk.UpdateStatus(domain.TxID(id), status); err != nil {
		return errorText(id, err)
	}
	return fmt.Sprintf("Status transaksi %s berhasil diupdate!", id)
}

func errorText(id string, err error) string {
	if ve, ok := domain.IsValidation(err); ok {
		return "❌ " + ve.Message
	}
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("❌ Transaksi %s tidak ditemukan!", id)
	}
	return "❌ " + err.Error()
}

func (b *Bot) recentText() string {
	txs := b.desk.Recent()
	if len(txs) == 0 {
		return "📭 Belum ada transaksi"
	}
	cat := b.desk.Catalog()
	var sb strings.Builder
	sb.WriteString("📋 Transaksi terbaru:\n")
	for _, t := range txs {
		fmt.Fprintf(&sb, "%s • %s • %s • %s\n", t.ID, cat.ServiceName(t.ServiceType), notify.FormatAmount(t.OrderAmount), t.Status.Text())
	}
	return sb.String()
}

func (b *Bot) listText(status domain.Status) string {
	txs := b.desk.Transactions(status)
	if len(txs) == 0 {
		return "📭 Tidak ada transaksi"
	}
	cat := b.desk.Catalog()
	var sb strings.Builder
	if len(txs) > maxListed {
		fmt.Fprintf(&sb, "… %d transaksi lebih lama tidak ditampilkan\n", len(txs)-maxListed)
		txs = txs[len(txs)-maxListed:]
	}
	for _, t := range txs {
		fmt.Fprintf(&sb, "%s [%s]\n👤 %s • 📱 %s\n🎯 %s • 💰 %s • %s\n📅 %s\n\n",
			t.ID, t.Status.Text(),
			t.CustomerName, t.CustomerPhone,
			cat.ServiceName(t.ServiceType), notify.FormatAmount(t.OrderAmount), cat.UrgencyText(t.Urgency),
			notify.FormatDateTime(t.Timestamp))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) statsText() string {
	s := b.desk.Stats()
	return fmt.Sprintf(`📊 Statistik
Total transaksi: %d
Pending: %d
Selesai hari ini: %d
Pendapatan hari ini: %s
Customer unik: %d
Rata-rata order: %s
Success rate: %d%%
Webhook: %s`,
		s.Total, s.Pending, s.CompletedToday, notify.FormatCurrency(s.TodayRevenue),
		s.UniqueCustomers, notify.FormatCurrency(s.AvgOrderValue), s.SuccessRatePercent,
		b.desk.WebhookStatus())
}

func (b *Bot) webhooksText() string {
	hooks := b.desk.Webhooks()
	if len(hooks) == 0 {
		return "Webhook: " + b.desk.WebhookStatus()
	}
	var sb strings.Builder
	for _, h := range hooks {
		fmt.Fprintf(&sb, "%s • %s • %s\n", h.ID, h.Function, h.Name)
	}
	sb.WriteString("Webhook: " + b.desk.WebhookStatus())
	return sb.String()
}
