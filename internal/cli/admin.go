package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/notify"
)

func (ui *UI) HandleAdmin(ctx context.Context) {
	defer ui.gate.Logout()
	for ctx.Err() == nil && ui.gate.LoggedIn() {
		fmt.Fprintf(ui.out, "\n=== Dashboard Admin (%s) ===  Webhook: %s\n", ui.gate.User(), ui.desk.WebhookStatus())
		fmt.Fprintln(ui.out, "1) Daftar transaksi")
		fmt.Fprintln(ui.out, "2) Tandai selesai")
		fmt.Fprintln(ui.out, "3) Tandai gagal")
		fmt.Fprintln(ui.out, "4) Hapus transaksi")
		fmt.Fprintln(ui.out, "5) Statistik")
		fmt.Fprintln(ui.out, "6) Simpan webhook")
		fmt.Fprintln(ui.out, "7) Muat webhook")
		fmt.Fprintln(ui.out, "8) Test webhook")
		fmt.Fprintln(ui.out, "9) Announce")
		fmt.Fprintln(ui.out, "10) Pesan custom")
		fmt.Fprintln(ui.out, "11) Export data")
		fmt.Fprintln(ui.out, "12) Buat backup")
		fmt.Fprintln(ui.out, "13) Daftar backup")
		fmt.Fprintln(ui.out, "14) Restore backup")
		fmt.Fprintln(ui.out, "0) Logout")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			ui.adminList()
		case "2":
			ui.adminSetStatus(domain.StatusCompleted)
		case "3":
			ui.adminSetStatus(domain.StatusFailed)
		case "4":
			ui.adminDelete()
		case "5":
			ui.adminStats()
		case "6":
			ui.adminSaveWebhook()
		case "7":
			ui.adminLoadWebhook()
		case "8":
			ui.showNotice(ctx, ui.desk.TestWebhook(ctx, ui.prompt("ID webhook: ")), true)
		case "9":
			ui.adminAnnounce(ctx)
		case "10":
			title := ui.prompt("🎯 Judul pesan custom: ")
			msg := ui.prompt("📝 Isi pesan: ")
			ui.showNotice(ctx, ui.desk.SendCustom(ctx, title, msg), true)
		case "11":
			ui.adminExport()
		case "12":
			if p, err := ui.desk.Backup(); err != nil {
				fmt.Fprintln(ui.out, "Error:", err)
			} else {
				fmt.Fprintln(ui.out, "Backup dibuat:", p)
			}
		case "13":
			ui.adminListBackups()
		case "14":
			ui.adminRestoreBackup()
		default:
			fmt.Fprintln(ui.out, "Logout berhasil! Kembali ke halaman utama.")
			return
		}
	}
}

func (ui *UI) adminList() {
	status := domain.Status(ui.prompt("Filter status (kosong = semua, pending, completed, failed): "))
	if status != "" && !status.Valid() {
		fmt.Fprintln(ui.out, "Status tidak dikenal.")
		return
	}
	txs := ui.desk.Transactions(status)
	if len(txs) == 0 {
		fmt.Fprintln(ui.out, "Tidak ada transaksi.")
		return
	}
	cat := ui.desk.Catalog()
	for _, t := range txs {
		fmt.Fprintf(ui.out, "- %s [%s] %s\n", t.ID, t.Status.Text(), notify.FormatDateTime(t.Timestamp))
		fmt.Fprintf(ui.out, "    %s | %s | %s\n", t.CustomerName, t.CustomerEmail, t.CustomerPhone)
		fmt.Fprintf(ui.out, "    %s | %s | %s %s\n", cat.ServiceName(t.ServiceType),
			notify.FormatAmount(t.OrderAmount), cat.UrgencyEmoji(t.Urgency), cat.UrgencyText(t.Urgency))
		fmt.Fprintf(ui.out, "    %s\n", t.OrderDetails)
		if t.HasPhoto {
			fmt.Fprintf(ui.out, "    📸 %s\n", t.PhotoName)
		}
	}
}

func (ui *UI) adminSetStatus(status domain.Status) {
	id := domain.TxID(ui.prompt("ID transaksi: "))
	if _, err := ui.desk.UpdateStatus(id, status); err != nil {
		ui.printErr(err)
		return
	}
	fmt.Fprintf(ui.out, "Status transaksi %s berhasil diupdate!\n", id)
}

func (ui *UI) adminDelete() {
	id := domain.TxID(ui.prompt("ID transaksi: "))
	if ui.prompt("Apakah Anda yakin ingin menghapus transaksi ini? (y/N): ") != "y" {
		return
	}
	if err := ui.desk.Delete(id); err != nil {
		ui.printErr(err)
		return
	}
	fmt.Fprintln(ui.out, "Transaksi berhasil dihapus!")
}

func (ui *UI) adminStats() {
	s := ui.desk.Stats()
	fmt.Fprintf(ui.out, "Total transaksi: %d\n", s.Total)
	fmt.Fprintf(ui.out, "Pending: %d\n", s.Pending)
	fmt.Fprintf(ui.out, "Selesai hari ini: %d\n", s.CompletedToday)
	fmt.Fprintf(ui.out, "Pendapatan hari ini: %s\n", notify.FormatCurrency(s.TodayRevenue))
	fmt.Fprintf(ui.out, "Customer unik: %d\n", s.UniqueCustomers)
	fmt.Fprintf(ui.out, "Rata-rata order: %s\n", notify.FormatCurrency(s.AvgOrderValue))
	fmt.Fprintf(ui.out, "Success rate: %d%%\n", s.SuccessRatePercent)
}

func (ui *UI) adminSaveWebhook() {
	id := ui.prompt("ID webhook: ")
	url := ui.prompt("URL webhook Discord: ")
	fmt.Fprintf(ui.out, "Fungsi (%s)\n", functionList())
	fn := domain.Function(ui.prompt("Fungsi: "))
	if _, err := ui.desk.SaveWebhook(id, url, fn); err != nil {
		ui.printErr(err)
		return
	}
	fmt.Fprintf(ui.out, "✅ Webhook %s berhasil disimpan!\n", id)
}

func (ui *UI) adminLoadWebhook() {
	id := ui.prompt("ID webhook: ")
	c, err := ui.desk.Webhook(id)
	if err != nil {
		ui.printErr(err)
		return
	}
	fmt.Fprintf(ui.out, "Webhook %s dimuat!\n  URL: %s\n  Fungsi: %s\n  Dibuat: %s\n",
		id, c.URL, c.Function, notify.FormatDateTime(c.Created))
}

func (ui *UI) adminAnnounce(ctx context.Context) {
	title := ui.prompt("Judul: ")
	msg := ui.prompt("Pesan: ")
	var photo *domain.Attachment
	if path := ui.prompt("Foto (path, kosongkan jika tidak ada): "); path != "" {
		p, err := readPhoto(path)
		if err != nil {
			fmt.Fprintln(ui.out, "Error:", err)
			return
		}
		photo = p
	}
	fmt.Fprintln(ui.out, "📤 Mengirim announce ke Discord...")
	ui.showNotice(ctx, ui.desk.Announce(ctx, title, msg, photo), true)
}

func (ui *UI) adminExport() {
	dir := ui.prompt("Folder tujuan (kosong = folder saat ini): ")
	if dir == "" {
		dir = "."
	}
	p, err := ui.desk.WriteExport(dir)
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	fmt.Fprintln(ui.out, "Data berhasil diekspor!", p)
}

func (ui *UI) adminListBackups() {
	list, err := ui.desk.Backups()
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(ui.out, "Belum ada backup.")
		return
	}
	for i, n := range list {
		fmt.Fprintf(ui.out, "%d) %s\n", i+1, n)
	}
}

func (ui *UI) adminRestoreBackup() {
	name := ui.prompt("Nama file backup: ")
	if err := ui.desk.Restore(name); err != nil {
		fmt.Fprintln(ui.out, "Error:", err)
		return
	}
	fmt.Fprintln(ui.out, "Backup dipulihkan.")
}

func functionList() string {
	names := make([]string, len(domain.Functions))
	for i, f := range domain.Functions {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
