package membership

import (
	"errors"
	"time"
)

const Unlimited = -1

var (
	ErrMembershipRequired = errors.New("active membership required")
	ErrClassLimitReached  = errors.New("membership class limit reached")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrPlanNotFound       = errors.New("membership plan not found")
	ErrNotMember          = errors.New("memberships can only be granted to members")
)

type Plan struct {
	ID           int      `json:"id" example:"2"`
	Name         string   `json:"name" example:"Premium"`
	Description  string   `json:"description"`
	Price        int64    `json:"price" example:"300000"`
	DurationDays int      `json:"duration_days" example:"30"`
	ClassLimit   int      `json:"class_limit" example:"20"`
	Features     []string `json:"features"`
	IsPopular    bool     `json:"is_popular"`
}

var catalog = []Plan{
	{
		ID:           1,
		Name:         "Basic",
		Description:  "Get started with group classes",
		Price:        150000,
		DurationDays: 30,
		ClassLimit:   8,
		Features:     []string{"8 classes per month", "Gym floor access", "Locker room"},
	},
	{
		ID:           2,
		Name:         "Premium",
		Description:  "For members who train most days",
		Price:        300000,
		DurationDays: 30,
		ClassLimit:   20,
		Features:     []string{"20 classes per month", "Gym floor access", "Locker room", "Progress tracking"},
		IsPopular:    true,
	},
	{
		ID:           3,
		Name:         "VIP",
		Description:  "Unlimited classes and priority support",
		Price:        500000,
		DurationDays: 30,
		ClassLimit:   Unlimited,
		Features:     []string{"Unlimited classes", "Gym floor access", "Locker room", "Progress tracking", "Priority booking support"},
	},
}

// Plans returns a copy of the plan catalog.
func Plans() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

func PlanByID(id int) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

type Membership struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	PlanID      int       `db:"plan_id" json:"plan_id"`
	PlanName    string    `db:"plan_name" json:"plan_name"`
	ClassLimit  int       `db:"class_limit" json:"class_limit"`
	ClassesUsed int       `db:"classes_used" json:"classes_used"`
	StartedAt   time.Time `db:"started_at" json:"started_at"`
	ExpiryDate  time.Time `db:"expiry_date" json:"expiry_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsActive reports whether the membership covers the calendar day of now.
func (m *Membership) IsActive(now time.Time) bool {
	if m == nil || m.PlanID == 0 {
		return false
	}
	return !dateOf(m.ExpiryDate).Before(dateOf(now))
}

// Remaining returns the classes left this period, or Unlimited.
func (m *Membership) Remaining() int {
	if m.ClassLimit == Unlimited {
		return Unlimited
	}
	if left := m.ClassLimit - m.ClassesUsed; left > 0 {
		return left
	}
	return 0
}

// CheckBookable returns nil when the membership allows one more booking.
func (m *Membership) CheckBookable(now time.Time) error {
	if !m.IsActive(now) {
		return ErrMembershipRequired
	}
	if m.Remaining() == 0 {
		return ErrClassLimitReached
	}
	return nil
}

func (m *Membership) Status(now time.Time) string {
	switch {
	case m == nil:
		return "None"
	case m.IsActive(now):
		return "Active"
	default:
		return "Expired"
	}
}

// View is what a member sees on the membership page.
type View struct {
	Membership *Membership `json:"membership"`
	Plan       *Plan       `json:"plan,omitempty"`
	Status     string      `json:"status" example:"Active"`
	Remaining  *int        `json:"remaining_classes,omitempty"`
	DaysLeft   int         `json:"days_left"`
}

func NewView(m *Membership, now time.Time) View {
	v := View{Membership: m, Status: m.Status(now)}
	if m == nil {
		return v
	}
	if p, ok := PlanByID(m.PlanID); ok {
		v.Plan = &p
	}
	if m.IsActive(now) {
		r := m.Remaining()
		v.Remaining = &r
		v.DaysLeft = int(dateOf(m.ExpiryDate).Sub(dateOf(now)).Hours()/24) + 1
	}
	return v
}

type GrantRequest struct {
	UserID int `json:"user_id" binding:"required,min=1" example:"7"`
	PlanID int `json:"plan_id" binding:"required,min=1" example:"2"`
}
