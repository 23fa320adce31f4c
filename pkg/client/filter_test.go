package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	monday  = time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC)
	tuesday = time.Date(2026, 10, 20, 18, 30, 0, 0, time.UTC)

	classes = []Class{
		{ID: 1, Name: "Morning Yoga", ClassType: "yoga", Difficulty: "beginner", Schedule: monday, TrainerName: "Sari"},
		{ID: 2, Name: "Power Yoga", ClassType: "yoga", Difficulty: "advanced", Schedule: tuesday, TrainerName: "Sari"},
		{ID: 3, Name: "HIIT Blast", ClassType: "hiit", Difficulty: "beginner", Schedule: monday, TrainerName: "Rudi"},
		{ID: 4, Name: "Evening Yoga", ClassType: "yoga", Difficulty: "beginner", Schedule: tuesday, TrainerName: "Rudi"},
	}
)

func ids(cs []Class) []int {
	out := []int{}
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestClassFilter_Conjunction(t *testing.T) {
	tests := []struct {
		name   string
		filter ClassFilter
		want   []int
	}{
		{"type", ClassFilter{Type: "yoga"}, []int{1, 2, 4}},
		{"type and difficulty", ClassFilter{Type: "yoga", Difficulty: "beginner"}, []int{1, 4}},
		{"type difficulty date", ClassFilter{Type: "yoga", Difficulty: "beginner", Date: monday.Add(5 * time.Hour)}, []int{1}},
		{"case insensitive", ClassFilter{Type: "YOGA", Difficulty: "Advanced"}, []int{2}},
		{"search name or trainer", ClassFilter{Search: "rudi"}, []int{3, 4}},
		{"no match", ClassFilter{Type: "pilates"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(classes)
			assert.Equal(t, tt.want, ids(got))
			for _, c := range got {
				assert.Contains(t, classes, c)
			}
		})
	}
}

func TestClassFilter_ClearedReturnsSource(t *testing.T) {
	f := ClassFilter{Type: "yoga", Difficulty: "beginner"}
	assert.Len(t, f.Apply(classes), 2)

	f = ClassFilter{}
	assert.True(t, f.IsZero())
	assert.Equal(t, classes, f.Apply(classes))
}

func TestClassFilter_DateUsesFilterLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 18:30 UTC on the 20th is 01:30 on the 21st in Jakarta.
	f := ClassFilter{Date: time.Date(2026, 10, 21, 0, 0, 0, 0, jakarta)}

	assert.Equal(t, []int{2, 4}, ids(f.Apply(classes)))
}

func TestBookingFilter(t *testing.T) {
	bookings := []Booking{
		{ID: 1, Status: BookingConfirmed, ClassName: "Morning Yoga", MemberName: "Maya", Schedule: monday},
		{ID: 2, Status: BookingCancelled, ClassName: "Morning Yoga", MemberName: "Budi", Schedule: monday},
		{ID: 3, Status: BookingConfirmed, ClassName: "HIIT Blast", MemberName: "Budi", Schedule: tuesday},
	}

	got := BookingFilter{Status: BookingConfirmed, Search: "budi"}.Apply(bookings)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)

	got = BookingFilter{Date: monday}.Apply(bookings)
	assert.Len(t, got, 2)

	assert.Equal(t, bookings, BookingFilter{}.Apply(bookings))
}

func TestAttendanceFilter(t *testing.T) {
	yes, no := true, false
	recs := []AttendanceRecord{
		{ID: 1, ClassID: 1, MemberName: "Maya", Attended: true, Schedule: monday},
		{ID: 2, ClassID: 1, MemberName: "Budi", Attended: false, Schedule: monday},
		{ID: 3, ClassID: 3, MemberName: "Maya", Attended: true, Schedule: tuesday},
	}

	assert.Len(t, AttendanceFilter{ClassID: 1}.Apply(recs), 2)
	assert.Len(t, AttendanceFilter{ClassID: 1, Attended: &yes}.Apply(recs), 1)
	assert.Len(t, AttendanceFilter{Attended: &no}.Apply(recs), 1)
	assert.Len(t, AttendanceFilter{Search: "maya", Date: tuesday}.Apply(recs), 1)
	assert.Equal(t, recs, AttendanceFilter{}.Apply(recs))
}

func TestMemberFilter(t *testing.T) {
	users := []User{
		{ID: 1, Name: "Maya", Email: "maya@example.com", Role: RoleMember, MembershipStatus: "Active"},
		{ID: 2, Name: "Budi", Email: "budi@example.com", Role: RoleMember, MembershipStatus: "Expired"},
		{ID: 3, Name: "Rudi", Email: "rudi@example.com", Role: RoleTrainer, MembershipStatus: "None"},
	}

	assert.Len(t, MemberFilter{Role: RoleMember}.Apply(users), 2)
	assert.Len(t, MemberFilter{Role: RoleMember, MembershipStatus: "active"}.Apply(users), 1)
	assert.Len(t, MemberFilter{Search: "example.com"}.Apply(users), 3)
	assert.Empty(t, MemberFilter{Search: "zzz"}.Apply(users))
	assert.Equal(t, users, MemberFilter{}.Apply(users))
}
