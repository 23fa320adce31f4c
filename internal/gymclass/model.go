package gymclass

import (
	"time"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

const (
	DefaultDuration = 60
	DefaultCapacity = 20
)

type Class struct {
	ID              int        `db:"id" json:"id"`
	TrainerID       int        `db:"trainer_id" json:"trainer_id"`
	TrainerName     string     `db:"trainer_name" json:"trainer_name"`
	Name            string     `db:"name" json:"name"`
	Description     string     `db:"description" json:"description"`
	ClassType       string     `db:"class_type" json:"class_type" example:"yoga"`
	Difficulty      Difficulty `db:"difficulty" json:"difficulty" swaggertype:"string" example:"beginner"`
	Schedule        time.Time  `db:"schedule" json:"schedule"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	Capacity        int        `db:"capacity" json:"capacity"`
	BookedCount     int        `db:"booked_count" json:"booked_count"`
	AvailableSlots  int        `db:"-" json:"available_slots"`
	IsFull          bool       `db:"-" json:"is_full"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// derive fills the fields computed from capacity and booked count.
func (c *Class) derive() {
	c.AvailableSlots = c.Capacity - c.BookedCount
	if c.AvailableSlots < 0 {
		c.AvailableSlots = 0
	}
	c.IsFull = c.AvailableSlots == 0
}

func (c *Class) EndsAt() time.Time {
	return c.Schedule.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// IsPast reports whether the class has already started.
func (c *Class) IsPast(now time.Time) bool {
	return !c.Schedule.After(now)
}

// Filter narrows class listings. Zero fields are ignored.
type Filter struct {
	Search     string
	Type       string
	Difficulty Difficulty
	Date       *time.Time
	TrainerID  int
	Upcoming   bool
}

type Participant struct {
	BookingID      int        `db:"booking_id" json:"booking_id"`
	ClassID        int        `db:"class_id" json:"class_id"`
	UserID         int        `db:"user_id" json:"user_id"`
	Name           string     `db:"name" json:"name"`
	Email          string     `db:"email" json:"email"`
	Phone          *string    `db:"phone" json:"phone"`
	BookingDate    time.Time  `db:"booking_date" json:"booking_date"`
	Attended       *bool      `db:"attended" json:"attended"`
	AttendanceDate *time.Time `db:"attendance_date" json:"attendance_date,omitempty"`
}

// Roster is a class together with its confirmed participants.
type Roster struct {
	Class
	Participants []Participant `json:"participants"`
}

type ClassRequest struct {
	Name            string     `json:"name" binding:"required,notblank,min=2,max=100" example:"Morning Yoga"`
	Description     string     `json:"description" binding:"max=2000"`
	ClassType       string     `json:"class_type" binding:"omitempty,max=50" example:"yoga"`
	Difficulty      Difficulty `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced" swaggertype:"string" example:"beginner"`
	Schedule        time.Time  `json:"schedule" binding:"required" example:"2026-11-01T07:00:00+07:00"`
	DurationMinutes int        `json:"duration_minutes" binding:"omitempty,min=15,max=480" example:"60"`
	Capacity        int        `json:"capacity" binding:"omitempty,min=1,max=500" example:"20"`
	TrainerID       int        `json:"trainer_id" binding:"omitempty,min=1"`
}

func (r *ClassRequest) applyDefaults() {
	if r.Difficulty == "" {
		r.Difficulty = Beginner
	}
	if r.DurationMinutes == 0 {
		r.DurationMinutes = DefaultDuration
	}
	if r.Capacity == 0 {
		r.Capacity = DefaultCapacity
	}
}
