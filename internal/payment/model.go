package payment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitzone/internal/membership"
)

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidMethod     = errors.New("unsupported payment method")
	ErrInvalidDetail     = errors.New("unsupported bank or wallet for this payment method")
	ErrActiveMembership  = errors.New("member already has an active membership")
	ErrNotPending        = errors.New("payment is no longer pending")
	ErrPendingExists     = errors.New("member already has a pending payment")
	ErrInvalidTransition = errors.New("payment status cannot change this way")
	ErrNotOwner          = errors.New("payment belongs to another member")
	ErrBadCallbackToken  = errors.New("invalid callback token")
	ErrUnknownStatus     = errors.New("unknown gateway transaction status")
)

// Instructions is stored as a JSONB array of strings.
type Instructions []string

func (i Instructions) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(i)
}

func (i *Instructions) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*i = Instructions{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("payment: cannot scan %T into Instructions", src)
	}
	return json.Unmarshal(data, i)
}

type Payment struct {
	ID            int          `db:"id" json:"id"`
	OrderID       string       `db:"order_id" json:"order_id" example:"FZ-20250101093000-AB12CD"`
	UserID        int          `db:"user_id" json:"user_id"`
	PlanID        int          `db:"plan_id" json:"plan_id"`
	PlanName      string       `db:"plan_name" json:"plan_name"`
	DurationDays  int          `db:"duration_days" json:"duration_days"`
	Subtotal      int64        `db:"subtotal" json:"subtotal"`
	AdminFee      int64        `db:"admin_fee" json:"admin_fee"`
	Amount        int64        `db:"amount" json:"amount"`
	Method        string       `db:"payment_method" json:"payment_method" example:"bank_transfer"`
	Detail        string       `db:"payment_detail" json:"payment_detail" example:"bca"`
	Status        Status       `db:"status" json:"status" example:"pending"`
	TransactionID *string      `db:"transaction_id" json:"transaction_id,omitempty"`
	PaymentURL    *string      `db:"payment_url" json:"payment_url,omitempty"`
	VANumber      *string      `db:"va_number" json:"va_number,omitempty" example:"123412345678"`
	QRCode        string       `db:"-" json:"qr_code,omitempty"`
	Instructions  Instructions `db:"instructions" json:"instructions"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
	PaidAt        *time.Time   `db:"paid_at" json:"paid_at,omitempty"`
	ExpiredAt     time.Time    `db:"expired_at" json:"expired_at"`
}

func (p *Payment) derive() {
	if p.Method == MethodQRIS && p.Status == StatusPending && p.PaymentURL == nil {
		p.QRCode = qrPlaceholder(p.OrderID)
	}
	if p.Instructions == nil {
		p.Instructions = Instructions{}
	}
}

// IsOverdue reports whether a pending payment has passed its deadline.
func (p *Payment) IsOverdue(now time.Time) bool {
	return p.Status == StatusPending && !now.Before(p.ExpiredAt)
}

type Member struct {
	ID    int    `db:"member_id" json:"id"`
	Name  string `db:"member_name" json:"name"`
	Email string `db:"member_email" json:"email"`
}

// Record is a payment as the admin sees it.
type Record struct {
	Payment
	Member `json:"member"`
}

type CreateRequest struct {
	PlanID        int    `json:"plan_id" binding:"required,min=1" example:"2"`
	PaymentMethod string `json:"payment_method" binding:"required" example:"bank_transfer"`
	PaymentDetail string `json:"payment_detail" example:"bca"`
}

// Checkout is returned from create: the payment plus the price breakdown.
type Checkout struct {
	Payment  *Payment        `json:"payment"`
	Plan     membership.Plan `json:"plan"`
	Subtotal int64           `json:"subtotal" example:"300000"`
	AdminFee int64           `json:"admin_fee" example:"4000"`
	Total    int64           `json:"total" example:"304000"`
	Existing bool            `json:"existing"`
}

type SimulateRequest struct {
	Action string `json:"action" binding:"required,oneof=success failed" example:"success"`
}

type CallbackRequest struct {
	OrderID           string `json:"order_id" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required" example:"settlement"`
	TransactionID     string `json:"transaction_id"`
}

type ReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    Status
	Plan      string
}

type DailyRevenue struct {
	Date  string `db:"date" json:"date" example:"2025-01-31"`
	Total int64  `db:"total" json:"total"`
}

type Statistics struct {
	TotalPayments    int              `json:"total_payments"`
	TotalAmount      int64            `json:"total_amount"`
	SuccessfulAmount int64            `json:"successful_amount"`
	StatusCounts     map[Status]int   `json:"status_counts"`
	PlanCounts       map[string]int   `json:"plan_counts"`
	PlanRevenue      map[string]int64 `json:"plan_revenue"`
	MethodCounts     map[string]int   `json:"method_counts"`
	DailyRevenue     []DailyRevenue   `json:"daily_revenue"`
}

type Report struct {
	Payments   []Record   `json:"payments"`
	Statistics Statistics `json:"statistics"`
}

// Summarize folds payments into report statistics. Revenue counts only
// successful payments.
func Summarize(payments []Record) Statistics {
	st := Statistics{
		TotalPayments: len(payments),
		StatusCounts:  make(map[Status]int, len(Statuses)),
		PlanCounts:    map[string]int{},
		PlanRevenue:   map[string]int64{},
		MethodCounts:  map[string]int{},
		DailyRevenue:  []DailyRevenue{},
	}
	for _, s := range Statuses {
		st.StatusCounts[s] = 0
	}
	for _, p := range payments {
		st.TotalAmount += p.Amount
		st.StatusCounts[p.Status]++
		st.PlanCounts[p.PlanName]++
		st.MethodCounts[p.Method]++
		if p.Status == StatusSuccess {
			st.SuccessfulAmount += p.Amount
			st.PlanRevenue[p.PlanName] += p.Amount
		}
	}
	return st
}
