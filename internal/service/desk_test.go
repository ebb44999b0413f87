package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vi13x/antc-trx/internal/discord"
	dmocks "github.com/vi13x/antc-trx/internal/discord/mocks"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/logger/mocks"
	"github.com/vi13x/antc-trx/internal/notify"
	"github.com/vi13x/antc-trx/internal/storage"
)

const txURL = "https://discord.com/api/webhooks/123456789012345678/AbCdEf-123_token"

var now = time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local)

func looseLogger(t *testing.T) *mocks.ILogger {
	l := mocks.NewILogger(t)
	for _, m := range []string{"Infof", "Warningf", "Errorf"} {
		l.On(m, mock.Anything).Maybe()
		l.On(m, mock.Anything, mock.Anything).Maybe()
		l.On(m, mock.Anything, mock.Anything, mock.Anything).Maybe()
		l.On(m, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	}
	return l
}

func newDesk(t *testing.T, sender discord.Sender, o Options) *Desk {
	t.Helper()
	kv, err := storage.OpenMemory()
	require.NoError(t, err)
	log := looseLogger(t)
	o.Now = func() time.Time { return now }
	d := NewDesk(storage.NewStore(kv, log), sender, log, o)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func order() domain.OrderInput {
	return domain.OrderInput{
		ServiceType:   "top-up-ml",
		Urgency:       "fast",
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		CustomerPhone: "081234567890",
		OrderAmount:   "150000",
		OrderDetails:  "86 diamonds",
	}
}

func wait(t *testing.T, task *notify.Task) notify.Notice {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return task.Wait(ctx)
}

func TestSubmitOrderRecordsThenNotifies(t *testing.T) {
	s := dmocks.NewSender(t)
	d := newDesk(t, s, Options{})
	_, err := d.SaveWebhook("1", txURL, domain.FunctionTransaction)
	require.NoError(t, err)

	s.On("Send", mock.Anything, mock.AnythingOfType("*discord.Message"), txURL).
		Run(func(mock.Arguments) {
			assert.Len(t, d.Transactions(""), 1, "record exists before the alert goes out")
		}).
		Return("", nil).Once()

	tx, task, err := d.SubmitOrder(context.Background(), order(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, tx.Status)
	assert.True(t, wait(t, task).OK())

	recent := d.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, tx.ID, recent[0].ID)
	assert.Len(t, d.Transactions(domain.StatusPending), 1)
}

func TestSubmitOrderFallsBackToLegacySlot(t *testing.T) {
	kv, err := storage.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, kv.Set(storage.KeyLegacyWebhook, []byte(txURL)))

	s := dmocks.NewSender(t)
	s.On("Send", mock.Anything, mock.Anything, txURL).Return("", nil).Once()
	log := looseLogger(t)
	d := NewDesk(storage.NewStore(kv, log), s, log, Options{})
	defer d.Close()

	_, task, err := d.SubmitOrder(context.Background(), order(), nil)
	require.NoError(t, err)
	assert.True(t, wait(t, task).OK())
}

func TestSubmitOrderInvalidSendsNothing(t *testing.T) {
	s := dmocks.NewSender(t)
	d := newDesk(t, s, Options{})

	in := order()
	in.CustomerEmail = "not-an-email"
	_, task, err := d.SubmitOrder(context.Background(), in, nil)

	ve, ok := domain.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "customerEmail", ve.Field)
	assert.Nil(t, task)
	assert.Empty(t, d.Transactions(""))
}

func TestSubmitOrderKeepsRecordWhenAlertFails(t *testing.T) {
	s := dmocks.NewSender(t)
	d := newDesk(t, s, Options{})
	_, err := d.SaveWebhook("1", txURL, domain.FunctionTransaction)
	require.NoError(t, err)
	s.On("Send", mock.Anything, mock.Anything, txURL).
		Return("", &discord.Error{Kind: discord.KindTransport, Err: errors.New("connection refused")}).Once()

	tx, task, err := d.SubmitOrder(context.Background(), order(), nil)
	require.NoError(t, err)
	assert.Equal(t, notify.NoticeError, wait(t, task).Kind)

	got, err := d.Transaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestSubmitOrderWithPhoto(t *testing.T) {
	d := newDesk(t, dmocks.NewSender(t), Options{})

	tx, task, err := d.SubmitOrder(context.Background(), order(), &domain.Attachment{Name: "bukti.png", Data: []byte{1, 2}})
	require.NoError(t, err)
	assert.True(t, tx.HasPhoto)
	assert.Equal(t, "bukti.png", tx.PhotoName)
	assert.Equal(t, notify.NoticeSkipped, wait(t, task).Kind)
}

func TestRecentIsBounded(t *testing.T) {
	d := newDesk(t, dmocks.NewSender(t), Options{PublicRecent: 3})
	var last domain.TxID
	for i := 0; i < 5; i++ {
		tx, _, err := d.SubmitOrder(context.Background(), order(), nil)
		require.NoError(t, err)
		last = tx.ID
	}
	recent := d.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, last, recent[2].ID)
}

func TestStatusAndDelete(t *testing.T) {
	d := newDesk(t, dmocks.NewSender(t), Options{})
	tx, _, err := d.SubmitOrder(context.Background(), order(), nil)
	require.NoError(t, err)

	_, err = d.UpdateStatus(tx.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, d.Transactions(domain.StatusCompleted), 1)
	assert.Equal(t, 1, d.Stats().CompletedToday)

	_, err = d.UpdateStatus("ANTC-NOPE", domain.StatusFailed)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, d.Delete(tx.ID))
	assert.ErrorIs(t, d.Delete(tx.ID), domain.ErrNotFound)
	assert.Empty(t, d.Transactions(""))
}

func TestWebhookStatus(t *testing.T) {
	d := newDesk(t, dmocks.NewSender(t), Options{})
	assert.Equal(t, WebhookStatusNotSet, d.WebhookStatus())

	_, err := d.Webhook("2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = d.SaveWebhook("2", "not-a-webhook-url", domain.FunctionAnnounce)
	_, isValidation := domain.IsValidation(err)
	assert.True(t, isValidation)

	_, err = d.SaveWebhook("2", txURL, domain.FunctionAnnounce)
	require.NoError(t, err)
	assert.Equal(t, WebhookStatusActive, d.WebhookStatus())

	c, err := d.Webhook("2")
	require.NoError(t, err)
	assert.Equal(t, "Webhook 2", c.Name)
	require.Len(t, d.Webhooks(), 1)
}

func TestAdminMessagesRouteThroughRegistry(t *testing.T) {
	s := dmocks.NewSender(t)
	d := newDesk(t, s, Options{})
	_, err := d.SaveWebhook("7", txURL, domain.FunctionCustom)
	require.NoError(t, err)
	s.On("Send", mock.Anything, mock.Anything, txURL).Return("", nil).Twice()

	assert.True(t, wait(t, d.TestWebhook(context.Background(), "7")).OK())
	assert.True(t, wait(t, d.SendCustom(context.Background(), "Info", "Halo")).OK())

	n := wait(t, d.Announce(context.Background(), "Libur", "Tutup", nil))
	assert.Equal(t, "❌ Webhook announce belum dikonfigurasi!", n.Message)
}

func TestExport(t *testing.T) {
	d := newDesk(t, dmocks.NewSender(t), Options{})
	_, _, err := d.SubmitOrder(context.Background(), order(), nil)
	require.NoError(t, err)

	assert.Equal(t, "antc-trx-data-2026-10-19.json", d.ExportFileName())

	path, err := d.WriteExport(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "antc-trx-data-2026-10-19.json", filepath.Base(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc domain.ExportDocument
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "ANTC TRX", doc.Platform)
	assert.Len(t, doc.Transactions, 1)
}

func TestBackupRestore(t *testing.T) {
	d := newDesk(t, dmocks.NewSender(t), Options{BackupsDir: t.TempDir()})
	tx, _, err := d.SubmitOrder(context.Background(), order(), nil)
	require.NoError(t, err)
	_, err = d.SaveWebhook("1", txURL, domain.FunctionTransaction)
	require.NoError(t, err)

	path, err := d.Backup()
	require.NoError(t, err)

	require.NoError(t, d.Delete(tx.ID))
	_, err = d.SaveWebhook("1", txURL, domain.FunctionAnnounce)
	require.NoError(t, err)

	names, err := d.Backups()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Base(path)}, names)

	require.NoError(t, d.Restore(names[0]))
	_, err = d.Transaction(tx.ID)
	assert.NoError(t, err)
	c, err := d.Webhook("1")
	require.NoError(t, err)
	assert.Equal(t, domain.FunctionTransaction, c.Function)
}

func TestRestoreClearsDataCreatedAfterBackup(t *testing.T) {
	d := newDesk(t, dmocks.NewSender(t), Options{BackupsDir: t.TempDir()})

	path, err := d.Backup()
	require.NoError(t, err)

	tx, _, err := d.SubmitOrder(context.Background(), order(), nil)
	require.NoError(t, err)
	_, err = d.SaveWebhook("7", txURL, domain.FunctionCustom)
	require.NoError(t, err)
	_, err = d.SaveWebhook("8", txURL, domain.FunctionTransaction)
	require.NoError(t, err)

	require.NoError(t, d.Restore(filepath.Base(path)))

	assert.Empty(t, d.Transactions(""))
	assert.Empty(t, d.Webhooks())
	assert.False(t, d.WebhookActive())
	_, err = d.Transaction(tx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
