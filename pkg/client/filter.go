package client

import (
	"strings"
	"time"
)

// The filters below derive a view from an already fetched collection.
// Active criteria are ANDed; a zero filter returns the source as is.

func where[T any](src []T, keep func(T) bool) []T {
	out := make([]T, 0, len(src))
	for _, v := range src {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func contains(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type ClassFilter struct {
	Search     string
	Type       string
	Difficulty string
	// Date matches classes scheduled on the same calendar day, in Date's location.
	Date time.Time
}

func (f ClassFilter) IsZero() bool {
	return f.Search == "" && f.Type == "" && f.Difficulty == "" && f.Date.IsZero()
}

func (f ClassFilter) Match(c Class) bool {
	if f.Search != "" && !contains(c.Name, f.Search) && !contains(c.TrainerName, f.Search) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(c.ClassType, f.Type) {
		return false
	}
	if f.Difficulty != "" && !strings.EqualFold(c.Difficulty, f.Difficulty) {
		return false
	}
	if !f.Date.IsZero() && !sameDay(c.Schedule, f.Date) {
		return false
	}
	return true
}

func (f ClassFilter) Apply(src []Class) []Class {
	if f.IsZero() {
		return src
	}
	return where(src, f.Match)
}

type BookingFilter struct {
	Search string
	Status BookingStatus
	Date   time.Time
}

func (f BookingFilter) IsZero() bool {
	return f.Search == "" && f.Status == "" && f.Date.IsZero()
}

func (f BookingFilter) Match(b Booking) bool {
	if f.Search != "" && !contains(b.ClassName, f.Search) && !contains(b.MemberName, f.Search) &&
		!contains(b.MemberEmail, f.Search) {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if !f.Date.IsZero() && !sameDay(b.Schedule, f.Date) {
		return false
	}
	return true
}

func (f BookingFilter) Apply(src []Booking) []Booking {
	if f.IsZero() {
		return src
	}
	return where(src, f.Match)
}

type AttendanceFilter struct {
	Search   string
	ClassID  int
	Attended *bool
	Date     time.Time
}

func (f AttendanceFilter) IsZero() bool {
	return f.Search == "" && f.ClassID == 0 && f.Attended == nil && f.Date.IsZero()
}

func (f AttendanceFilter) Match(a AttendanceRecord) bool {
	if f.Search != "" && !contains(a.MemberName, f.Search) && !contains(a.ClassName, f.Search) {
		return false
	}
	if f.ClassID != 0 && a.ClassID != f.ClassID {
		return false
	}
	if f.Attended != nil && a.Attended != *f.Attended {
		return false
	}
	if !f.Date.IsZero() && !sameDay(a.Schedule, f.Date) {
		return false
	}
	return true
}

func (f AttendanceFilter) Apply(src []AttendanceRecord) []AttendanceRecord {
	if f.IsZero() {
		return src
	}
	return where(src, f.Match)
}

type MemberFilter struct {
	Search string
	Role   Role
	// MembershipStatus is Active, Expired or None.
	MembershipStatus string
}

func (f MemberFilter) IsZero() bool {
	return f.Search == "" && f.Role == "" && f.MembershipStatus == ""
}

func (f MemberFilter) Match(u User) bool {
	if f.Search != "" && !contains(u.Name, f.Search) && !contains(u.Email, f.Search) {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.MembershipStatus != "" && !strings.EqualFold(u.MembershipStatus, f.MembershipStatus) {
		return false
	}
	return true
}

func (f MemberFilter) Apply(src []User) []User {
	if f.IsZero() {
		return src
	}
	return where(src, f.Match)
}
