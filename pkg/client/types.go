package client

import "time"

type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type User struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Role             Role           `json:"role"`
	Phone            *string        `json:"phone,omitempty"`
	Address          *string        `json:"address,omitempty"`
	AvatarURL        *string        `json:"avatar_url,omitempty"`
	ApprovalStatus   ApprovalStatus `json:"approval_status"`
	RejectionReason  *string        `json:"rejection_reason,omitempty"`
	MembershipPlan   *string        `json:"membership_plan,omitempty"`
	MembershipExpiry *time.Time     `json:"membership_expiry,omitempty"`
	MembershipStatus string         `json:"membership_status"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Class mirrors the server's class resource. AvailableSlots is derived
// server side as capacity minus confirmed bookings.
type Class struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	ClassType       string    `json:"class_type"`
	Difficulty      string    `json:"difficulty"`
	Schedule        time.Time `json:"schedule"`
	DurationMinutes int       `json:"duration_minutes"`
	Capacity        int       `json:"capacity"`
	BookedCount     int       `json:"booked_count"`
	AvailableSlots  int       `json:"available_slots"`
	TrainerID       int       `json:"trainer_id"`
	TrainerName     string    `json:"trainer_name"`
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID          int           `json:"id"`
	UserID      int           `json:"user_id"`
	ClassID     int           `json:"class_id"`
	BookingDate time.Time     `json:"booking_date"`
	Status      BookingStatus `json:"status"`
	ClassName   string        `json:"class_name"`
	ClassType   string        `json:"class_type"`
	Difficulty  string        `json:"difficulty"`
	Schedule    time.Time     `json:"schedule"`
	TrainerName string        `json:"trainer_name"`
	MemberName  string        `json:"member_name"`
	MemberEmail string        `json:"member_email"`
	Attended    *bool         `json:"attended"`
}

type AttendanceRecord struct {
	ID          int       `json:"id"`
	BookingID   int       `json:"booking_id"`
	Attended    bool      `json:"attended"`
	Date        time.Time `json:"date"`
	UserID      int       `json:"user_id"`
	MemberName  string    `json:"member_name"`
	MemberEmail string    `json:"member_email"`
	ClassID     int       `json:"class_id"`
	ClassName   string    `json:"class_name"`
	Schedule    time.Time `json:"schedule"`
}

type Plan struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        int64    `json:"price"`
	DurationDays int      `json:"duration_days"`
	ClassLimit   int      `json:"class_limit"`
	Features     []string `json:"features"`
	IsPopular    bool     `json:"is_popular"`
}

// Unlimited reports whether the plan has no class quota.
func (p Plan) Unlimited() bool { return p.ClassLimit < 0 }

type MembershipView struct {
	Status    string `json:"status"`
	DaysLeft  int    `json:"days_left"`
	Remaining *int   `json:"remaining_classes,omitempty"`
	Plan      *Plan  `json:"plan,omitempty"`
}

type MethodOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type PaymentMethod struct {
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	AdminFee int64          `json:"admin_fee"`
	Options  []MethodOption `json:"options,omitempty"`
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccess    PaymentStatus = "success"
	PaymentFailed     PaymentStatus = "failed"
	PaymentExpired    PaymentStatus = "expired"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentSuccess || s == PaymentFailed || s == PaymentExpired
}

type Payment struct {
	OrderID       string        `json:"order_id"`
	PlanID        int           `json:"plan_id"`
	PlanName      string        `json:"plan_name"`
	Subtotal      int64         `json:"subtotal"`
	AdminFee      int64         `json:"admin_fee"`
	Amount        int64         `json:"amount"`
	PaymentMethod string        `json:"payment_method"`
	PaymentDetail string        `json:"payment_detail"`
	Status        PaymentStatus `json:"status"`
	VANumber      *string       `json:"va_number,omitempty"`
	PaymentURL    *string       `json:"payment_url,omitempty"`
	QRCode        string        `json:"qr_code,omitempty"`
	Instructions  []string      `json:"instructions"`
	CreatedAt     time.Time     `json:"created_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	ExpiredAt     time.Time     `json:"expired_at"`
}

type Checkout struct {
	Payment  *Payment `json:"payment"`
	Plan     Plan     `json:"plan"`
	Subtotal int64    `json:"subtotal"`
	AdminFee int64    `json:"admin_fee"`
	Total    int64    `json:"total"`
	Existing bool     `json:"existing"`
}

type Trainer struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           *string        `json:"phone,omitempty"`
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

type TrainerCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

type TrainerListing struct {
	Trainers []Trainer     `json:"trainers"`
	Counts   TrainerCounts `json:"counts"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
	Role            Role   `json:"role,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
}

type authResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *User        `json:"user"`
	Capabilities Capabilities `json:"capabilities"`
}
