package notify

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vi13x/antc-trx/internal/domain"
)

var (
	idPrinter = message.NewPrinter(language.Indonesian)
	months    = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
	sizes     = [...]string{"Bytes", "KB", "MB", "GB"}
)

// FormatCurrency renders a rupiah amount with Indonesian digit grouping, e.g. "Rp 150.000".
func FormatCurrency(amount int64) string {
	if amount < 0 {
		return idPrinter.Sprintf("-Rp %d", uint64(-(amount+1))+1)
	}
	return idPrinter.Sprintf("Rp %d", amount)
}

// FormatAmount is FormatCurrency over a stored numeric string.
func FormatAmount(s string) string {
	return FormatCurrency(domain.ParseAmount(s))
}

// FormatDateTime renders t in the storefront's short Indonesian form, e.g. "19 Okt 2026 14.30".
func FormatDateTime(t time.Time) string {
	return fmt.Sprintf("%d %s %d %02d.%02d", t.Day(), months[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	v := float64(n) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizes[i]
}
