package attendance

import "time"

type Attendance struct {
	ID        int       `db:"id" json:"id"`
	BookingID int       `db:"booking_id" json:"booking_id"`
	Attended  bool      `db:"attended" json:"attended"`
	Date      time.Time `db:"date" json:"date"`
	MarkedBy  *int      `db:"marked_by" json:"marked_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Record is an attendance row with the booking, member and class it belongs to.
type Record struct {
	Attendance
	UserID      int       `db:"user_id" json:"user_id"`
	MemberName  string    `db:"member_name" json:"member_name"`
	MemberEmail string    `db:"member_email" json:"member_email"`
	ClassID     int       `db:"class_id" json:"class_id"`
	ClassName   string    `db:"class_name" json:"class_name"`
	Schedule    time.Time `db:"schedule" json:"schedule"`
	TrainerID   int       `db:"trainer_id" json:"trainer_id"`
}

// Target is what the service needs to know about a booking before marking it.
type Target struct {
	BookingID int       `db:"booking_id"`
	Status    string    `db:"status"`
	ClassID   int       `db:"class_id"`
	TrainerID int       `db:"trainer_id"`
	Schedule  time.Time `db:"schedule"`
}

type MarkRequest struct {
	BookingID int   `json:"booking_id" binding:"required,min=1" example:"12"`
	Attended  *bool `json:"attended" binding:"required" example:"true"`
}

type TrainerMarkRequest struct {
	Attended *bool `json:"attended" binding:"required" example:"true"`
}
