package ledger

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vi13x/antc-trx/internal/domain"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/storage"
)

const idPrefix = "ANTC-"

// Ledger owns the ordered transaction record set. Every mutation is persisted
// under the same lock that applied it; reads hand out copies.
type Ledger struct {
	mu       sync.RWMutex
	store    *storage.Store
	log      logger.ILogger
	now      func() time.Time
	strict   bool
	validate *validator.Validate

	txs    []domain.Transaction
	issued map[domain.TxID]struct{}
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithStrictTransitions limits status changes to pending -> completed|failed.
func WithStrictTransitions(strict bool) Option {
	return func(l *Ledger) { l.strict = strict }
}

func New(store *storage.Store, log logger.ILogger, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		log:      log,
		now:      time.Now,
		validate: newValidator(),
		issued:   map[domain.TxID]struct{}{},
	}
	for _, o := range opts {
		o(l)
	}
	l.Reload()
	return l
}

// Reload replaces the in-memory set with what the store holds.
func (l *Ledger) Reload() {
	txs := storage.Load(l.store, storage.KeyTransactions, []domain.Transaction{})

	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = txs
	for _, t := range txs {
		l.issued[t.ID] = struct{}{}
	}
}

func (l *Ledger) persistLocked() {
	l.store.Save(storage.KeyTransactions, l.txs)
}

func (l *Ledger) Create(in domain.OrderInput) (domain.Transaction, error) {
	if err := validateOrder(l.validate, in); err != nil {
		return domain.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	id := newID(now)
	for {
		if _, taken := l.issued[id]; !taken {
			break
		}
		id = newID(now)
	}
	l.issued[id] = struct{}{}

	t := domain.Transaction{
		ID:            id,
		ServiceType:   in.ServiceType,
		Urgency:       in.Urgency,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		OrderAmount:   in.OrderAmount,
		OrderDetails:  in.OrderDetails,
		Timestamp:     now,
		Status:        domain.StatusPending,
		HasPhoto:      in.PhotoName != "",
		PhotoName:     in.PhotoName,
	}
	l.txs = append(l.txs, t)
	l.persistLocked()
	return t, nil
}

func (l *Ledger) SetStatus(id domain.TxID, status domain.Status) (domain.Transaction, error) {
	if !status.Valid() {
		return domain.Transaction{}, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	cur := l.txs[i].Status
	if cur != status {
		if l.strict && (cur != domain.StatusPending || status == domain.StatusPending) {
			return domain.Transaction{}, domain.NewValidationError("status",
				fmt.Sprintf("transition %s -> %s is not allowed", cur, status))
		}
		if cur.Terminal() {
			l.log.Warningf("transaction %s moved out of terminal status %s to %s", id, cur, status)
		}
	}
	l.txs[i].Status = status
	l.persistLocked()
	return l.txs[i], nil
}

// Delete removes id if present and reports whether anything changed.
func (l *Ledger) Delete(id domain.TxID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return false
	}
	l.txs = append(l.txs[:i:i], l.txs[i+1:]...)
	l.persistLocked()
	return true
}

func (l *Ledger) Get(id domain.TxID) (domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.txs[i], nil
	}
	return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
}

// Filter returns records in creation order; an empty status matches all.
func (l *Ledger) Filter(status domain.Status) []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Transaction, 0, len(l.txs))
	for _, t := range l.txs {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Recent returns the last n records, oldest first.
func (l *Ledger) Recent(n int) []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	start := 0
	if n >= 0 && len(l.txs) > n {
		start = len(l.txs) - n
	}
	out := make([]domain.Transaction, len(l.txs)-start)
	copy(out, l.txs[start:])
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

func (l *Ledger) Stats() domain.Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := l.now()
	y, m, d := now.Date()

	var s domain.Stats
	var sum int64
	completed := 0
	customers := map[string]struct{}{}

	s.Total = len(l.txs)
	for _, t := range l.txs {
		amount := domain.ParseAmount(t.OrderAmount)
		sum += amount
		customers[t.CustomerEmail] = struct{}{}

		switch t.Status {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusCompleted:
			completed++
			ty, tm, td := t.Timestamp.In(now.Location()).Date()
			if ty == y && tm == m && td == d {
				s.CompletedToday++
				s.TodayRevenue += amount
			}
		}
	}
	s.UniqueCustomers = len(customers)
	if s.Total > 0 {
		s.AvgOrderValue = int64(math.Round(float64(sum) / float64(s.Total)))
		s.SuccessRatePercent = int(math.Round(100 * float64(completed) / float64(s.Total)))
	}
	return s
}

func (l *Ledger) Export(platform string) domain.ExportDocument {
	return domain.ExportDocument{
		Transactions: l.Filter(""),
		ExportDate:   l.now(),
		Platform:     platform,
	}
}

func (l *Ledger) indexLocked(id domain.TxID) int {
	for i := range l.txs {
		if l.txs[i].ID == id {
			return i
		}
	}
	return -1
}

// newID is a time-based prefix plus five random base36 characters.
func newID(now time.Time) domain.TxID {
	u := uuid.New()
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(u[:8]), 36)
	for len(suffix) < 5 {
		suffix = "0" + suffix
	}
	stamp := strconv.FormatInt(now.UnixMilli(), 36)
	return domain.TxID(strings.ToUpper(idPrefix + stamp + suffix[len(suffix)-5:]))
}
