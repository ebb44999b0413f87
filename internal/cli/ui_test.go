package cli

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vi13x/antc-trx/internal/auth"
	dmocks "github.com/vi13x/antc-trx/internal/discord/mocks"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/logger/mocks"
	"github.com/vi13x/antc-trx/internal/service"
	"github.com/vi13x/antc-trx/internal/storage"
)

const hookURL = "https://discord.com/api/webhooks/123456789012345678/AbCdEf-123_token"

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

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

type harness struct {
	desk   *service.Desk
	gate   *auth.Gate
	sender *dmocks.Sender
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	kv, err := storage.OpenMemory()
	require.NoError(t, err)
	log := looseLogger(t)
	sender := dmocks.NewSender(t)
	desk := service.NewDesk(storage.NewStore(kv, log), sender, log, service.Options{
		PublicRecent: 10,
		BackupsDir:   t.TempDir(),
	})
	t.Cleanup(func() { _ = desk.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	require.NoError(t, err)
	gate := auth.NewGate(auth.NewStatic([]auth.Credential{{Username: "APIS", Hash: string(hash)}}))
	return &harness{desk: desk, gate: gate, sender: sender}
}

func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	NewUI(h.desk, h.gate, in, &out).Run(context.Background())
	return out.String()
}

func orderLines() []string {
	return []string{"1", "top-up-ml", "fast", "Budi", "budi@example.com", "081234567890", "150000", "86 diamonds"}
}

func TestConsoleSubmitOrder(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, append(orderLines(), "", "0")...)

	assert.Contains(t, out, "Permintaan transaksi berhasil dikirim!")
	txs := h.desk.Transactions("")
	require.Len(t, txs, 1)
	assert.Equal(t, "Budi", txs[0].CustomerName)
	assert.Equal(t, domain.StatusPending, txs[0].Status)
	// no webhook configured: the skipped alert is not shown to the customer
	assert.NotContains(t, out, "belum dikonfigurasi")
	h.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsoleSubmitInvalid(t *testing.T) {
	h := newHarness(t)

	lines := orderLines()
	lines[4] = "budi-at-example"
	out := h.run(t, append(lines, "", "0")...)

	assert.NotContains(t, out, "berhasil dikirim")
	assert.Empty(t, h.desk.Transactions(""))
}

func TestConsoleSubmitWithPhoto(t *testing.T) {
	h := newHarness(t)
	photo := filepath.Join(t.TempDir(), "bukti.png")
	require.NoError(t, os.WriteFile(photo, pngHeader, 0o600))

	h.run(t, append(orderLines(), photo, "0")...)

	txs := h.desk.Transactions("")
	require.Len(t, txs, 1)
	assert.True(t, txs[0].HasPhoto)
	assert.Equal(t, "bukti.png", txs[0].PhotoName)
}

func TestConsoleRejectsNonImagePhoto(t *testing.T) {
	h := newHarness(t)
	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0o600))

	out := h.run(t, append(orderLines(), notes, "0")...)

	assert.Contains(t, out, "bukan gambar yang valid")
	assert.Empty(t, h.desk.Transactions(""))
}

func TestConsoleRecent(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "2", "0")
	assert.Contains(t, out, "Belum ada transaksi.")

	_, _, err := h.desk.SubmitOrder(context.Background(), domain.OrderInput{
		ServiceType: "netflix", Urgency: "normal", CustomerName: "Sari",
		CustomerEmail: "sari@example.com", CustomerPhone: "0811111111",
		OrderAmount: "50000", OrderDetails: "1 bulan",
	}, nil)
	require.NoError(t, err)

	out = h.run(t, "2", "0")
	assert.Contains(t, out, "📺 Akun Netflix")
	assert.Contains(t, out, "Rp 50.000")
	assert.NotContains(t, out, "sari@example.com")
}

func TestConsoleLoginRejected(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "3", "APIS", "wrong", "0")

	assert.Contains(t, out, "Username atau password salah!")
	assert.NotContains(t, out, "Dashboard Admin")
	assert.False(t, h.gate.LoggedIn())
}

func TestConsoleAdminFlow(t *testing.T) {
	h := newHarness(t)
	tx, _, err := h.desk.SubmitOrder(context.Background(), domain.OrderInput{
		ServiceType: "top-up-ff", Urgency: "instant", CustomerName: "Rina",
		CustomerEmail: "rina@example.com", CustomerPhone: "0822222222",
		OrderAmount: "20000", OrderDetails: "140 diamonds",
	}, nil)
	require.NoError(t, err)
	id := string(tx.ID)

	out := h.run(t,
		"3", "APIS", "admin",
		"1", "",
		"2", id,
		"5",
		"0",
		"0",
	)

	assert.Contains(t, out, "Login berhasil!")
	assert.Contains(t, out, "Webhook: ❌ Not Set")
	assert.Contains(t, out, "rina@example.com")
	assert.Contains(t, out, "Status transaksi "+id+" berhasil diupdate!")
	assert.Contains(t, out, "Pendapatan hari ini: Rp 20.000")
	assert.Contains(t, out, "Logout berhasil!")
	assert.False(t, h.gate.LoggedIn())

	got, err := h.desk.Transaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestConsoleAdminWebhookAndCustom(t *testing.T) {
	h := newHarness(t)
	h.sender.On("Send", mock.Anything, mock.Anything, hookURL).Return("", nil).Once()

	out := h.run(t,
		"3", "APIS", "admin",
		"6", "2", hookURL, "custom",
		"7", "2",
		"10", "Maintenance", "Server down 1 jam",
		"0",
		"0",
	)

	assert.Contains(t, out, "✅ Webhook 2 berhasil disimpan!")
	assert.Contains(t, out, "Fungsi: custom")
	assert.Contains(t, out, "Webhook: ✅ Active")
	h.sender.AssertExpectations(t)
}

func TestConsoleAdminDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	tx, _, err := h.desk.SubmitOrder(context.Background(), domain.OrderInput{
		ServiceType: "steam", Urgency: "normal", CustomerName: "Andi",
		CustomerEmail: "andi@example.com", CustomerPhone: "0833333333",
		OrderAmount: "100000", OrderDetails: "wallet",
	}, nil)
	require.NoError(t, err)
	id := string(tx.ID)

	h.run(t, "3", "APIS", "admin", "4", id, "n", "0", "0")
	assert.Len(t, h.desk.Transactions(""), 1)

	out := h.run(t, "3", "APIS", "admin", "4", id, "y", "0", "0")
	assert.Contains(t, out, "Transaksi berhasil dihapus!")
	assert.Empty(t, h.desk.Transactions(""))
}

func TestConsoleEndsOnEOF(t *testing.T) {
	h := newHarness(t)
	var out bytes.Buffer
	NewUI(h.desk, h.gate, bufio.NewReader(strings.NewReader("")), &out).Run(context.Background())
	assert.Contains(t, out.String(), "0) Keluar")
}
