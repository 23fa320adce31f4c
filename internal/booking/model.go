package booking

import (
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type Booking struct {
	ID          int        `db:"id" json:"id"`
	UserID      int        `db:"user_id" json:"user_id"`
	ClassID     int        `db:"class_id" json:"class_id"`
	BookingDate time.Time  `db:"booking_date" json:"booking_date"`
	Status      Status     `db:"status" json:"status" swaggertype:"string" example:"confirmed"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Details is a booking joined with its class, trainer, member and attendance.
type Details struct {
	Booking
	ClassName       string     `db:"class_name" json:"class_name"`
	ClassType       string     `db:"class_type" json:"class_type"`
	Difficulty      string     `db:"difficulty" json:"difficulty"`
	Schedule        time.Time  `db:"schedule" json:"schedule"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	TrainerID       int        `db:"trainer_id" json:"trainer_id"`
	TrainerName     string     `db:"trainer_name" json:"trainer_name"`
	MemberName      string     `db:"member_name" json:"member_name"`
	MemberEmail     string     `db:"member_email" json:"member_email"`
	Attended        *bool      `db:"attended" json:"attended"`
	AttendanceDate  *time.Time `db:"attendance_date" json:"attendance_date,omitempty"`
}

// Started reports whether the class of this booking has begun.
func (d *Details) Started(now time.Time) bool {
	return !d.Schedule.After(now)
}

type CreateRequest struct {
	ClassID int `json:"class_id" binding:"required,min=1" example:"3"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}
