package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vi13x/antc-trx/internal/auth"
	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/notify"
	"github.com/vi13x/antc-trx/internal/service"
)

type Mode int

const (
	ModeExit Mode = iota
	ModeOrder
	ModeRecent
	ModeLogin
)

// noticeWait bounds how long the console waits to show a dispatch outcome.
const noticeWait = 15 * time.Second

type UI struct {
	desk *service.Desk
	gate *auth.Gate
	in   *bufio.Reader
	out  io.Writer
}

func NewUI(desk *service.Desk, gate *auth.Gate, in *bufio.Reader, out io.Writer) *UI {
	return &UI{desk: desk, gate: gate, in: in, out: out}
}

// Run shows the main menu until the operator exits or input ends.
func (ui *UI) Run(ctx context.Context) {
	for ctx.Err() == nil {
		switch ui.SelectMode() {
		case ModeOrder:
			ui.HandleOrder(ctx)
		case ModeRecent:
			ui.HandleRecent()
		case ModeLogin:
			if ui.HandleLogin() {
				ui.HandleAdmin(ctx)
			}
		default:
			return
		}
	}
}

func (ui *UI) SelectMode() Mode {
	fmt.Fprintf(ui.out, "\n=== %s ===\n", ui.desk.Platform())
	fmt.Fprintln(ui.out, "1) Buat pesanan")
	fmt.Fprintln(ui.out, "2) Transaksi terbaru")
	fmt.Fprintln(ui.out, "3) Login admin")
	fmt.Fprintln(ui.out, "0) Keluar")
	fmt.Fprint(ui.out, "> ")
	switch strings.TrimSpace(ui.readLine()) {
	case "1":
		return ModeOrder
	case "2":
		return ModeRecent
	case "3":
		return ModeLogin
	default:
		return ModeExit
	}
}

func (ui *UI) HandleOrder(ctx context.Context) {
	cat := ui.desk.Catalog()
	fmt.Fprintln(ui.out, "\n=== Pesanan Baru ===")
	fmt.Fprintln(ui.out, "Layanan:")
	for _, k := range sortedKeys(cat.Services) {
		fmt.Fprintf(ui.out, "  %-14s %s\n", k, cat.Services[k])
	}
	var in domain.OrderInput
	in.ServiceType = ui.prompt("Jenis layanan: ")
	fmt.Fprintln(ui.out, "Urgensi:")
	for _, k := range sortedKeys(cat.Urgencies) {
		fmt.Fprintf(ui.out, "  %-8s %s %s\n", k, cat.UrgencyEmoji(k), cat.UrgencyText(k))
	}
	in.Urgency = ui.prompt("Urgensi: ")
	in.CustomerName = ui.prompt("Nama: ")
	in.CustomerEmail = ui.prompt("Email: ")
	in.CustomerPhone = ui.prompt("WhatsApp: ")
	in.OrderAmount = ui.prompt("Total nilai (Rp): ")
	in.OrderDetails = ui.prompt("Detail: ")

	var photo *domain.Attachment
	if path := ui.prompt("Foto (path, kosongkan jika tidak ada): "); path != "" {
		p, err := readPhoto(path)
		if err != nil {
			fmt.Fprintln(ui.out, "Error:", err)
			return
		}
		photo = p
	}

	tx, task, err := ui.desk.SubmitOrder(ctx, in, photo)
	if err != nil {
		ui.printErr(err)
		return
	}
	fmt.Fprintln(ui.out, "Permintaan transaksi berhasil dikirim! Tim kami akan segera memproses.")
	fmt.Fprintf(ui.out, "ID: %s\n", tx.ID)
	ui.showNotice(ctx, task, false)
}

func (ui *UI) HandleRecent() {
	txs := ui.desk.Recent()
	if len(txs) == 0 {
		fmt.Fprintln(ui.out, "Belum ada transaksi.")
		return
	}
	cat := ui.desk.Catalog()
	fmt.Fprintln(ui.out, "Transaksi terbaru:")
	for _, t := range txs {
		fmt.Fprintf(ui.out, "- %s  %s  %s  %s  %s\n",
			t.ID, t.Status.Text(), cat.ServiceName(t.ServiceType),
			notify.FormatAmount(t.OrderAmount), notify.FormatDateTime(t.Timestamp))
	}
}

func (ui *UI) HandleLogin() bool {
	fmt.Fprintln(ui.out, "\n=== Login Admin ===")
	user := ui.prompt("Username: ")
	fmt.Fprint(ui.out, "Password: ")
	pass := ui.readPassword()
	if _, err := ui.gate.Login(user, pass); err != nil {
		fmt.Fprintln(ui.out, "Username atau password salah!")
		return false
	}
	fmt.Fprintln(ui.out, "Login berhasil! Selamat datang di dashboard admin.")
	return true
}

// showNotice waits for a dispatch and prints its outcome. Skipped alerts are
// only printed when verbose.
func (ui *UI) showNotice(ctx context.Context, task *notify.Task, verbose bool) {
	if task == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, noticeWait)
	defer cancel()
	n := task.Wait(ctx)
	if n.Kind == notify.NoticeSkipped && !verbose {
		return
	}
	fmt.Fprintln(ui.out, n.Message)
}

func (ui *UI) printErr(err error) {
	if ve, ok := domain.IsValidation(err); ok {
		fmt.Fprintln(ui.out, ve.Message)
		return
	}
	fmt.Fprintln(ui.out, "Error:", err)
}

func (ui *UI) prompt(label string) string {
	fmt.Fprint(ui.out, label)
	return strings.TrimSpace(ui.readLine())
}

func (ui *UI) readLine() string {
	s, _ := ui.in.ReadString('\n')
	return strings.TrimRight(s, "\r\n")
}

func (ui *UI) readPassword() string {
	// echo stays on; the console is meant for a local operator terminal.
	return ui.readLine()
}

// readPhoto loads an image file for an order or announcement.
func readPhoto(path string) (*domain.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, errors.New("File yang dipilih bukan gambar yang valid!")
	}
	return &domain.Attachment{Name: filepath.Base(path), Data: data}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
