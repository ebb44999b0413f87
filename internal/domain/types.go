package domain

import (
	"time"
)

type TxID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is an operator verdict rather than the initial state.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusFailed }

func (s Status) Text() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	}
	return string(s)
}

// Transaction is a submitted purchase request. Only Status changes after creation.
type Transaction struct {
	ID            TxID      `json:"id"`
	ServiceType   string    `json:"serviceType"`
	Urgency       string    `json:"urgency"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerPhone string    `json:"customerPhone"`
	OrderAmount   string    `json:"orderAmount"` // numeric string, rupiah
	OrderDetails  string    `json:"orderDetails"`
	Timestamp     time.Time `json:"timestamp"`
	Status        Status    `json:"status"`
	HasPhoto      bool      `json:"hasPhoto"`
	PhotoName     string    `json:"photoName,omitempty"`
}

// OrderInput is what a visitor submits; the ledger fills in the rest.
type OrderInput struct {
	ServiceType   string `json:"serviceType" form:"serviceType" validate:"filled"`
	Urgency       string `json:"urgency" form:"urgency" validate:"filled"`
	CustomerName  string `json:"customerName" form:"customerName" validate:"filled"`
	CustomerEmail string `json:"customerEmail" form:"customerEmail" validate:"filled,order_email"`
	CustomerPhone string `json:"customerPhone" form:"customerPhone" validate:"filled,id_phone"`
	OrderAmount   string `json:"orderAmount" form:"orderAmount" validate:"filled"`
	OrderDetails  string `json:"orderDetails" form:"orderDetails" validate:"filled"`
	// PhotoName is set from an uploaded file, never from the request body.
	PhotoName string `json:"-" form:"-"`
}

// PublicTransaction is the subset shown on the storefront's recent list.
type PublicTransaction struct {
	ID          TxID      `json:"id"`
	Status      Status    `json:"status"`
	ServiceType string    `json:"serviceType"`
	OrderAmount string    `json:"orderAmount"`
	Timestamp   time.Time `json:"timestamp"`
}

func (t Transaction) Public() PublicTransaction {
	return PublicTransaction{
		ID:          t.ID,
		Status:      t.Status,
		ServiceType: t.ServiceType,
		OrderAmount: t.OrderAmount,
		Timestamp:   t.Timestamp,
	}
}

type Stats struct {
	Total              int   `json:"total"`
	Pending            int   `json:"pending"`
	CompletedToday     int   `json:"completedToday"`
	TodayRevenue       int64 `json:"todayRevenue"`
	UniqueCustomers    int   `json:"uniqueCustomers"`
	AvgOrderValue      int64 `json:"avgOrderValue"`
	SuccessRatePercent int   `json:"successRatePercent"`
}

// ExportDocument is the downloadable dump of the ledger.
type ExportDocument struct {
	Transactions []Transaction `json:"transactions"`
	ExportDate   time.Time     `json:"exportDate"`
	Platform     string        `json:"platform"`
}

type Function string

const (
	FunctionTransaction   Function = "transaction"
	FunctionTest          Function = "test"
	FunctionAnnounce      Function = "announce"
	FunctionPhotoAnnounce Function = "photo_announce"
	FunctionCustom        Function = "custom"
)

var Functions = []Function{
	FunctionTransaction,
	FunctionTest,
	FunctionAnnounce,
	FunctionPhotoAnnounce,
	FunctionCustom,
}

func (f Function) Valid() bool {
	for _, v := range Functions {
		if f == v {
			return true
		}
	}
	return false
}

// WebhookConfig is one registry entry, keyed by an operator-chosen id.
type WebhookConfig struct {
	URL      string    `json:"url"`
	Function Function  `json:"function"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
}

// Active reports whether the entry can receive notifications.
func (w WebhookConfig) Active() bool { return w.URL != "" && w.Function != "" }

// Attachment is a binary file travelling with a notification. Never persisted.
type Attachment struct {
	Name string
	Data []byte
}

func (a *Attachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Data))
}
